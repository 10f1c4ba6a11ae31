package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// Decimal is a decimal.Decimal column that round-trips exactly on every
// supported driver. SQLite gives decimal(p,s) columns NUMERIC affinity and
// reads them back as float64, so there the value is kept as text.
type Decimal struct {
	decimal.Decimal
}

// NewDecimal wraps d.
func NewDecimal(d decimal.Decimal) Decimal { return Decimal{Decimal: d} }

// GormDataType names the field's data type for gorm's schema parser.
func (Decimal) GormDataType() string { return "decimal" }

// GormDBDataType picks the column type per dialect.
func (Decimal) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	return decimalColumn(db)
}

// NullDecimal is the nullable form of Decimal.
type NullDecimal struct {
	decimal.NullDecimal
}

// NewNullDecimal wraps d.
func NewNullDecimal(d decimal.NullDecimal) NullDecimal { return NullDecimal{NullDecimal: d} }

func (NullDecimal) GormDataType() string { return "decimal" }

func (NullDecimal) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	return decimalColumn(db)
}

func decimalColumn(db *gorm.DB) string {
	switch db.Dialector.Name() {
	case "sqlite":
		return "text"
	case "postgres":
		return "numeric"
	case "mysql":
		return "decimal(65,30)"
	case "sqlserver":
		return "decimal(38,18)"
	}
	return "text"
}
