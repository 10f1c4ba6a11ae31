package domain

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Unit is a measurement unit accepted on quantities.
type Unit string

const (
	Milliliter Unit = "ml"
	Liter      Unit = "l"
	Tablespoon Unit = "tablespoon"
	Teaspoon   Unit = "teaspoon"
	Cup        Unit = "cup"
	Count      Unit = "count"
	Gram       Unit = "g"
	Kilogram   Unit = "kg"

	// Pieces is accepted by the converter as a synonym of Count. It is not
	// a valid Quantity unit.
	Pieces Unit = "pcs"
)

// Family groups units that convert linearly into one another.
type Family string

const (
	FamilyVolume Family = "volume"
	FamilyMass   Family = "mass"
	FamilyCount  Family = "count"
)

// Base returns the unit every member of the family converts into.
func (f Family) Base() Unit {
	switch f {
	case FamilyVolume:
		return Milliliter
	case FamilyMass:
		return Gram
	case FamilyCount:
		return Count
	}
	return ""
}

// ParseUnit normalises s and checks it against the allowed quantity units.
func ParseUnit(s string) (Unit, error) {
	u := Unit(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := u.Family(); !ok || u == Pieces {
		return "", invalid(ErrInvalidQuantity, "unit", "must be one of %s (got %q)", strings.Join(AllowedUnits(), ", "), s)
	}
	return u, nil
}

// Family reports which family u belongs to.
func (u Unit) Family() (Family, bool) {
	switch u {
	case Milliliter, Liter, Tablespoon, Teaspoon, Cup:
		return FamilyVolume, true
	case Gram, Kilogram:
		return FamilyMass, true
	case Count, Pieces:
		return FamilyCount, true
	}
	return "", false
}

func (u Unit) String() string { return string(u) }

// AllowedUnits lists the units a Quantity may carry, sorted.
func AllowedUnits() []string {
	return []string{"count", "cup", "g", "kg", "l", "ml", "tablespoon", "teaspoon"}
}

// UnitDef describes one row of a UnitTable: Factor is how many base units
// of Family make up one Unit.
type UnitDef struct {
	Unit   Unit
	Family Family
	Factor decimal.Decimal
}

// UnitTable is the conversion configuration a UnitConverter owns. It is
// built once and never mutated.
type UnitTable struct {
	defs map[Unit]UnitDef
}

// NewUnitTable builds a table from defs. Later definitions of the same
// unit replace earlier ones.
func NewUnitTable(defs ...UnitDef) UnitTable {
	t := UnitTable{defs: make(map[Unit]UnitDef, len(defs))}
	for _, d := range defs {
		t.defs[d.Unit] = d
	}
	return t
}

// DefaultUnitTable returns the kitchen units with US customary volumes.
func DefaultUnitTable() UnitTable {
	return NewUnitTable(
		UnitDef{Unit: Milliliter, Family: FamilyVolume, Factor: decimal.NewFromInt(1)},
		UnitDef{Unit: Liter, Family: FamilyVolume, Factor: decimal.NewFromInt(1000)},
		UnitDef{Unit: Cup, Family: FamilyVolume, Factor: decimal.RequireFromString("236.5882365")},
		UnitDef{Unit: Tablespoon, Family: FamilyVolume, Factor: decimal.RequireFromString("14.78676478125")},
		UnitDef{Unit: Teaspoon, Family: FamilyVolume, Factor: decimal.RequireFromString("4.92892159375")},
		UnitDef{Unit: Gram, Family: FamilyMass, Factor: decimal.NewFromInt(1)},
		UnitDef{Unit: Kilogram, Family: FamilyMass, Factor: decimal.NewFromInt(1000)},
		UnitDef{Unit: Count, Family: FamilyCount, Factor: decimal.NewFromInt(1)},
		UnitDef{Unit: Pieces, Family: FamilyCount, Factor: decimal.NewFromInt(1)},
	)
}

// Lookup returns the definition of u.
func (t UnitTable) Lookup(u Unit) (UnitDef, bool) {
	d, ok := t.defs[u]
	return d, ok
}

// Units returns every unit in the table, sorted.
func (t UnitTable) Units() []Unit {
	out := make([]Unit, 0, len(t.defs))
	for u := range t.defs {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
