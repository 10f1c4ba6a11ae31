package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Recipe stores its steps inline as JSON and its ingredients in
// recipe_products.
type Recipe struct {
	gorm.Model
	Name        string             `gorm:"size:255;not null"           json:"name"`
	Description string             `gorm:"type:text;not null"          json:"description"`
	Servings    int                `gorm:"not null"                    json:"servings"`
	PrepTime    Decimal            `gorm:"not null"                    json:"prep_time"`
	Steps       datatypes.JSON     `gorm:"not null"                    json:"steps"`
	Ingredients []RecipeIngredient `gorm:"constraint:OnDelete:CASCADE" json:"ingredients"`
}

// RecipeIngredient links a recipe to a product with an amount.
type RecipeIngredient struct {
	ID        uint    `gorm:"primaryKey"                                   json:"id"`
	RecipeID  uint    `gorm:"not null;uniqueIndex:idx_recipe_product"      json:"recipe_id"`
	ProductID uint    `gorm:"not null;uniqueIndex:idx_recipe_product;index" json:"product_id"`
	Amount    Decimal `gorm:"not null"                                     json:"amount"`
	Unit      string  `gorm:"size:20;not null"                             json:"unit"`
	Position  int     `gorm:"not null;default:0"                           json:"position"`
}

// TableName keeps the join table name used since the first schema.
func (RecipeIngredient) TableName() string { return "recipe_products" }
