package migrations_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/shashiranjanraj/pantry/database/migrations"
	"github.com/shashiranjanraj/pantry/pkg/database"
	"github.com/shashiranjanraj/pantry/pkg/migration"
)

func TestMigrationsUpAndDown(t *testing.T) {
	db, err := database.Open("sqlite", ":memory:")
	require.NoError(t, err)

	runner := migration.New(db)
	ran, err := runner.Run()
	require.NoError(t, err)
	assert.Len(t, ran, 4)

	for _, table := range []string{"products", "recipes", "recipe_products", "storages", "recipe_logs"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}

	rolled, err := runner.Rollback()
	require.NoError(t, err)
	assert.Len(t, rolled, 4)
	assert.False(t, db.Migrator().HasTable("products"))
}
