package migrations

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/pantry/app/models"
	"github.com/shashiranjanraj/pantry/pkg/migration"
)

func init() {
	migration.Register("20260101000002_create_storages_table", &CreateStoragesTable{})
}

type CreateStoragesTable struct{}

func (m *CreateStoragesTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Storage{})
}

func (m *CreateStoragesTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("storages")
}
