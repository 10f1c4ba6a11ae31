package models

import "gorm.io/gorm"

// Product is a stockable ingredient. Unit is the base unit of its family.
type Product struct {
	gorm.Model
	Name    string      `gorm:"size:255;not null;uniqueIndex" json:"name"`
	Unit    string      `gorm:"size:20;not null"             json:"unit"`
	Density NullDecimal `json:"density"`
}
