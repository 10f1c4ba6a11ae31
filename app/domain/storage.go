package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Storage is the stock held for one product, always in the product's base
// unit. The quantity never goes below zero.
type Storage struct {
	productID uint
	quantity  decimal.Decimal
	unit      Unit
}

// NewStorage checks that quantity is non-negative and unit is a base unit.
func NewStorage(productID uint, quantity decimal.Decimal, unit Unit) (Storage, error) {
	if productID == 0 {
		return Storage{}, invalid(ErrInvalidQuantity, "product_id", "is required")
	}
	if quantity.IsNegative() {
		return Storage{}, invalid(ErrInvalidQuantity, "quantity", "cannot be negative")
	}
	if fam, ok := unit.Family(); !ok || fam.Base() != unit {
		return Storage{}, invalid(ErrInvalidQuantity, "unit", "must be a base unit (got %q)", unit)
	}
	return Storage{productID: productID, quantity: quantity, unit: unit}, nil
}

// EmptyStorage is the record created on the first stock addition.
func EmptyStorage(p Product) Storage {
	return Storage{productID: p.ID(), quantity: decimal.Zero, unit: p.Unit()}
}

func (s Storage) ProductID() uint           { return s.productID }
func (s Storage) Quantity() decimal.Decimal { return s.quantity }
func (s Storage) Unit() Unit                { return s.unit }

// Add returns s increased by amount base units.
func (s Storage) Add(amount decimal.Decimal) Storage {
	s.quantity = s.quantity.Add(amount)
	return s
}

// Consume returns s decreased by amount, floored at zero, along with the
// part of amount that was not in stock.
func (s Storage) Consume(amount decimal.Decimal) (Storage, decimal.Decimal) {
	left := s.quantity.Sub(amount)
	if left.IsNegative() {
		s.quantity = decimal.Zero
		return s, left.Neg()
	}
	s.quantity = left
	return s, decimal.Zero
}

// Covers reports whether at least amount base units are in stock.
func (s Storage) Covers(amount decimal.Decimal) bool {
	return s.quantity.GreaterThanOrEqual(amount)
}

// RecipeLog records one completion of a recipe. It is written once.
type RecipeLog struct {
	ID          uint
	RecipeID    uint
	Ingredients []IngredientAttrs
	CompletedAt time.Time
}
