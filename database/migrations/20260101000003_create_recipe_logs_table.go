package migrations

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/pantry/app/models"
	"github.com/shashiranjanraj/pantry/pkg/migration"
)

func init() {
	migration.Register("20260101000003_create_recipe_logs_table", &CreateRecipeLogsTable{})
}

type CreateRecipeLogsTable struct{}

func (m *CreateRecipeLogsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.RecipeLog{})
}

func (m *CreateRecipeLogsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("recipe_logs")
}
