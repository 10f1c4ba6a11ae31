package migrations

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/pantry/app/models"
	"github.com/shashiranjanraj/pantry/pkg/migration"
)

func init() {
	migration.Register("20260101000001_create_recipes_table", &CreateRecipesTable{})
}

// CreateRecipesTable creates recipes and their recipe_products rows.
type CreateRecipesTable struct{}

func (m *CreateRecipesTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Recipe{}, &models.RecipeIngredient{})
}

func (m *CreateRecipesTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("recipe_products", "recipes")
}
