package models

import (
	"time"

	"gorm.io/datatypes"
)

// Storage is the stock row of one product.
type Storage struct {
	ID        uint      `gorm:"primaryKey"                  json:"id"`
	ProductID uint      `gorm:"not null;uniqueIndex"        json:"product_id"`
	Quantity  Decimal   `gorm:"not null"                   json:"quantity"`
	Unit      string    `gorm:"size:20;not null"            json:"unit"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RecipeLog is written once per completed recipe.
type RecipeLog struct {
	ID          uint           `gorm:"primaryKey"         json:"id"`
	RecipeID    uint           `gorm:"not null;index"     json:"recipe_id"`
	Ingredients datatypes.JSON `gorm:"not null"           json:"ingredients"`
	CompletedAt time.Time      `gorm:"not null"           json:"completed_at"`
}
