package domain

import "github.com/shopspring/decimal"

// Ingredient is one product requirement of a recipe.
type Ingredient struct {
	productID uint
	quantity  Quantity
	position  int
}

// IngredientAttrs is the unvalidated form of an Ingredient. Position 0
// means "not given".
type IngredientAttrs struct {
	ProductID uint            `json:"product_id"`
	Amount    decimal.Decimal `json:"amount"`
	Unit      Unit            `json:"unit"`
	Position  int             `json:"position,omitempty"`
}

// NewIngredient validates a.
func NewIngredient(a IngredientAttrs) (Ingredient, error) {
	if a.ProductID == 0 {
		return Ingredient{}, invalid(ErrInvalidIngredient, "product_id", "is required")
	}
	q, err := NewQuantity(a.Amount, a.Unit)
	if err != nil {
		return Ingredient{}, err
	}
	if a.Position < 0 {
		return Ingredient{}, invalid(ErrInvalidIngredient, "position", "must be positive if present")
	}
	return Ingredient{productID: a.ProductID, quantity: q, position: a.Position}, nil
}

func (i Ingredient) ProductID() uint    { return i.productID }
func (i Ingredient) Quantity() Quantity { return i.quantity }

// Position returns the display position, or 0 when none was given.
func (i Ingredient) Position() int { return i.position }

// Equal ignores position.
func (i Ingredient) Equal(o Ingredient) bool {
	return i.productID == o.productID && i.quantity.Equal(o.quantity)
}

// Attrs returns i in its unvalidated form.
func (i Ingredient) Attrs() IngredientAttrs {
	return IngredientAttrs{
		ProductID: i.productID,
		Amount:    i.quantity.Amount(),
		Unit:      i.quantity.Unit(),
		Position:  i.position,
	}
}

// NewIngredients validates every entry of attrs, stopping at the first
// failure.
func NewIngredients(attrs []IngredientAttrs) ([]Ingredient, error) {
	out := make([]Ingredient, 0, len(attrs))
	for _, a := range attrs {
		ing, err := NewIngredient(a)
		if err != nil {
			return nil, err
		}
		out = append(out, ing)
	}
	return out, nil
}
