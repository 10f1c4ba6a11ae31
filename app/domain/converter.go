package domain

import "github.com/shopspring/decimal"

// UnitConverter expresses amounts in a product's base unit. It is a pure
// value; the zero value is not usable, build one with NewUnitConverter.
type UnitConverter struct {
	table UnitTable
}

// NewUnitConverter returns a converter over table.
func NewUnitConverter(table UnitTable) UnitConverter {
	return UnitConverter{table: table}
}

// DefaultConverter uses DefaultUnitTable.
func DefaultConverter() UnitConverter {
	return NewUnitConverter(DefaultUnitTable())
}

// Table exposes the converter's configuration.
func (c UnitConverter) Table() UnitTable { return c.table }

// ToBase converts amount of unit into product's base unit.
//
// Kitchen measures (tablespoon, teaspoon, cup) for a mass product go through
// milliliters and are then multiplied by the product density (grams per
// milliliter). Other volume units never convert to mass. Count and pcs
// pass through unchanged for count products. Anything else needs a linear
// factor inside one family.
func (c UnitConverter) ToBase(amount decimal.Decimal, unit Unit, product Product) (decimal.Decimal, error) {
	from, ok := c.table.Lookup(unit)
	if !ok {
		return decimal.Zero, &ConversionError{From: unit, To: product.Unit(), Product: product.Name(), Reason: "unknown unit"}
	}
	to, ok := c.table.Lookup(product.Unit())
	if !ok {
		return decimal.Zero, &ConversionError{From: unit, To: product.Unit(), Product: product.Name(), Reason: "unknown base unit"}
	}

	switch {
	case to.Family == FamilyMass && isKitchenMeasure(from.Unit):
		density, ok := product.Density()
		if !ok {
			return decimal.Zero, &ConversionError{From: unit, To: to.Unit, Product: product.Name(), Reason: "density is required"}
		}
		ml, err := c.Convert(amount, unit, Milliliter)
		if err != nil {
			return decimal.Zero, err
		}
		return c.Convert(ml.Mul(density), Gram, to.Unit)
	case from.Family == FamilyCount && to.Family == FamilyCount:
		return amount, nil
	}

	v, err := c.Convert(amount, unit, to.Unit)
	if err != nil {
		return decimal.Zero, &ConversionError{From: unit, To: to.Unit, Product: product.Name(), Reason: "incompatible units"}
	}
	return v, nil
}

func isKitchenMeasure(u Unit) bool {
	switch u {
	case Tablespoon, Teaspoon, Cup:
		return true
	}
	return false
}

// Convert applies the linear factor between two units of one family.
func (c UnitConverter) Convert(amount decimal.Decimal, from, to Unit) (decimal.Decimal, error) {
	f, ok := c.table.Lookup(from)
	if !ok {
		return decimal.Zero, &ConversionError{From: from, To: to, Reason: "unknown unit"}
	}
	t, ok := c.table.Lookup(to)
	if !ok {
		return decimal.Zero, &ConversionError{From: from, To: to, Reason: "unknown unit"}
	}
	if f.Family != t.Family {
		return decimal.Zero, &ConversionError{From: from, To: to, Reason: "incompatible units"}
	}

	base := amount.Mul(f.Factor)
	if t.Factor.Equal(decimal.NewFromInt(1)) {
		return base, nil
	}
	return base.Div(t.Factor), nil
}
