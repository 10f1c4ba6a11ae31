package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Product is an ingredient that can be stocked. Its unit is the base unit
// of its family and never changes after creation.
type Product struct {
	id      uint
	name    string
	unit    Unit
	density decimal.NullDecimal
}

// ProductAttrs carries the raw fields NewProduct validates.
type ProductAttrs struct {
	ID      uint
	Name    string
	Unit    Unit
	Density decimal.NullDecimal
}

// NewProduct validates attrs. Mass products need a density so volume
// measures can be weighed.
func NewProduct(a ProductAttrs) (Product, error) {
	name := strings.TrimSpace(a.Name)
	if name == "" {
		return Product{}, invalid(ErrInvalidProduct, "name", "cannot be blank")
	}
	if a.Unit == "" {
		return Product{}, invalid(ErrInvalidProduct, "unit", "cannot be blank")
	}
	fam, ok := a.Unit.Family()
	if !ok || fam.Base() != a.Unit || a.Unit == Pieces {
		return Product{}, invalid(ErrInvalidProduct, "unit", "must be one of count, ml, g (got %q)", a.Unit)
	}
	if fam == FamilyMass && !a.Density.Valid {
		return Product{}, invalid(ErrInvalidProduct, "density", "must be provided for mass units")
	}
	if a.Density.Valid && !a.Density.Decimal.IsPositive() {
		return Product{}, invalid(ErrInvalidProduct, "density", "must be a positive number")
	}
	return Product{id: a.ID, name: name, unit: a.Unit, density: a.Density}, nil
}

// BaseUnitOf maps any allowed unit to the base unit of its family, so a
// product declared in kg is stored in g.
func BaseUnitOf(s string) (Unit, error) {
	u, err := ParseUnit(s)
	if err != nil {
		return "", invalid(ErrInvalidProduct, "unit", "must be a known unit (got %q)", s)
	}
	fam, _ := u.Family()
	return fam.Base(), nil
}

func (p Product) ID() uint     { return p.id }
func (p Product) Name() string { return p.name }
func (p Product) Unit() Unit   { return p.unit }

// Density returns grams per milliliter when the product has one.
func (p Product) Density() (decimal.Decimal, bool) {
	return p.density.Decimal, p.density.Valid
}

// Attrs returns the product's fields for persistence.
func (p Product) Attrs() ProductAttrs {
	return ProductAttrs{ID: p.id, Name: p.name, Unit: p.unit, Density: p.density}
}

// ProductPatch lists the fields an update may touch. Nil means unchanged.
type ProductPatch struct {
	Name    *string
	Unit    *Unit
	Density *decimal.Decimal
}

// Apply returns the product with patch applied and re-validated. The unit
// may be repeated but not changed.
func (p Product) Apply(patch ProductPatch) (Product, error) {
	a := p.Attrs()
	if patch.Unit != nil && *patch.Unit != p.unit {
		return Product{}, invalid(ErrInvalidProduct, "unit", "cannot be changed (is %q)", p.unit)
	}
	if patch.Name != nil {
		a.Name = *patch.Name
	}
	if patch.Density != nil {
		a.Density = decimal.NewNullDecimal(*patch.Density)
	}
	return NewProduct(a)
}
