package domain

import "github.com/shopspring/decimal"

// IngredientGap is how much of a product is missing, in storage units.
type IngredientGap struct {
	ProductID   uint
	ProductName string
	Amount      decimal.Decimal
	Unit        Unit
}

// Availability is the verdict for one recipe.
type Availability struct {
	RecipeID  uint
	Available bool
	Missing   []IngredientGap
}

// StockLookup returns the storage row of a product, if one exists.
type StockLookup func(productID uint) (Storage, bool)

// StockMap adapts a map to a StockLookup.
func StockMap(m map[uint]Storage) StockLookup {
	return func(id uint) (Storage, bool) {
		s, ok := m[id]
		return s, ok
	}
}

// AvailabilityEngine decides whether a recipe can be cooked from stock.
type AvailabilityEngine struct {
	conv UnitConverter
}

// NewAvailabilityEngine returns an engine converting with conv.
func NewAvailabilityEngine(conv UnitConverter) AvailabilityEngine {
	return AvailabilityEngine{conv: conv}
}

// Evaluate checks every ingredient of r against stock. products must hold
// every product r references.
//
// A missing storage row makes the recipe unavailable. With withGaps set,
// an unavailable verdict lists each stocked ingredient that falls short;
// ingredients without a storage row are not listed.
func (e AvailabilityEngine) Evaluate(r Recipe, products map[uint]Product, stock StockLookup, withGaps bool) (Availability, error) {
	out := Availability{RecipeID: r.ID(), Available: true}

	type need struct {
		product  Product
		required decimal.Decimal
		storage  Storage
		stocked  bool
	}
	needs := make([]need, 0, len(r.ingredients))

	for _, ing := range r.ingredients {
		p, ok := products[ing.productID]
		if !ok {
			return Availability{}, NotFound("product", ing.productID)
		}
		required, err := e.conv.ToBase(ing.quantity.Amount(), ing.quantity.Unit(), p)
		if err != nil {
			return Availability{}, err
		}
		s, stocked := stock(ing.productID)
		if !stocked || !s.Covers(required) {
			out.Available = false
		}
		needs = append(needs, need{product: p, required: required, storage: s, stocked: stocked})
	}

	if out.Available || !withGaps {
		return out, nil
	}
	for _, n := range needs {
		if !n.stocked {
			continue
		}
		diff := n.storage.Quantity().Sub(n.required)
		if diff.IsNegative() {
			out.Missing = append(out.Missing, IngredientGap{
				ProductID:   n.product.ID(),
				ProductName: n.product.Name(),
				Amount:      diff.Abs(),
				Unit:        n.storage.Unit(),
			})
		}
	}
	return out, nil
}

// Deduction is the planned change to one storage row.
type Deduction struct {
	Before    Storage
	After     Storage
	Required  decimal.Decimal
	Shortfall decimal.Decimal
}

// PlanConsumption computes, in ingredient order, the storage rows that
// remain after cooking ingredients. Nothing is applied; any missing product
// or storage row, or a failed conversion, fails the whole plan.
func (e AvailabilityEngine) PlanConsumption(ingredients []Ingredient, products map[uint]Product, stock StockLookup) ([]Deduction, error) {
	plan := make([]Deduction, 0, len(ingredients))
	pending := make(map[uint]int, len(ingredients))

	for _, ing := range ingredients {
		p, ok := products[ing.productID]
		if !ok {
			return nil, NotFound("product", ing.productID)
		}
		required, err := e.conv.ToBase(ing.quantity.Amount(), ing.quantity.Unit(), p)
		if err != nil {
			return nil, err
		}

		var current Storage
		if i, seen := pending[ing.productID]; seen {
			current = plan[i].After
		} else if current, ok = stock(ing.productID); !ok {
			return nil, NotFound("storage", ing.productID)
		}

		after, short := current.Consume(required)
		d := Deduction{Before: current, After: after, Required: required, Shortfall: short}
		pending[ing.productID] = len(plan)
		plan = append(plan, d)
	}
	return plan, nil
}
