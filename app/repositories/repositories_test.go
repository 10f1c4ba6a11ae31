package repositories_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/pantry/app/domain"
	"github.com/shashiranjanraj/pantry/app/repositories"
	_ "github.com/shashiranjanraj/pantry/database/migrations"
	"github.com/shashiranjanraj/pantry/pkg/database"
	"github.com/shashiranjanraj/pantry/pkg/migration"
)

func newDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open("sqlite", ":memory:")
	require.NoError(t, err)
	_, err = migration.New(db).Run()
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func createProduct(t *testing.T, repos domain.Repositories, name string, unit domain.Unit, density string) domain.Product {
	t.Helper()
	a := domain.ProductAttrs{Name: name, Unit: unit}
	if density != "" {
		a.Density = decimal.NewNullDecimal(dec(density))
	}
	p, err := domain.NewProduct(a)
	require.NoError(t, err)
	p, err = repos.Products.Create(context.Background(), p)
	require.NoError(t, err)
	require.NotZero(t, p.ID())
	return p
}

func pancakes(t *testing.T, ings ...domain.IngredientAttrs) domain.Recipe {
	t.Helper()
	r, err := domain.NewRecipe(domain.RecipeAttrs{
		Name:        "Pancakes",
		Description: "Fluffy breakfast pancakes",
		Ingredients: ings,
		Steps: []domain.StepAttrs{
			{Description: "Mix everything", Position: 1},
			{Description: "Fry in a pan", Position: 2},
		},
		Servings: 4,
		PrepTime: dec("20"),
	})
	require.NoError(t, err)
	return r
}

func TestProductRepository(t *testing.T) {
	ctx := context.Background()
	repos := repositories.New(newDB(t))

	flour := createProduct(t, repos, "flour", domain.Gram, "0.5")
	eggs := createProduct(t, repos, "eggs", domain.Count, "")

	got, err := repos.Products.Find(ctx, flour.ID())
	require.NoError(t, err)
	assert.Equal(t, "flour", got.Name())
	d, ok := got.Density()
	assert.True(t, ok)
	assert.True(t, dec("0.5").Equal(d))

	list, err := repos.Products.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "eggs", list[0].Name())

	_, err = repos.Products.FindByIDs(ctx, []uint{flour.ID(), 99, eggs.ID(), 98})
	var nf *domain.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, []uint{98, 99}, nf.IDs)

	dup, err := domain.NewProduct(domain.ProductAttrs{Name: "flour", Unit: domain.Count})
	require.NoError(t, err)
	_, err = repos.Products.Create(ctx, dup)
	assert.ErrorIs(t, err, domain.ErrConflict)

	name := "rye flour"
	renamed, err := flour.Apply(domain.ProductPatch{Name: &name})
	require.NoError(t, err)
	renamed, err = repos.Products.Update(ctx, renamed)
	require.NoError(t, err)
	assert.Equal(t, "rye flour", renamed.Name())

	require.NoError(t, repos.Products.Delete(ctx, eggs.ID()))
	_, err = repos.Products.Find(ctx, eggs.ID())
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, repos.Products.Delete(ctx, eggs.ID()), domain.ErrNotFound)
}

func TestProductRepository_DeleteReferenced(t *testing.T) {
	ctx := context.Background()
	repos := repositories.New(newDB(t))
	flour := createProduct(t, repos, "flour", domain.Gram, "0.5")

	_, err := repos.Recipes.Create(ctx, pancakes(t, domain.IngredientAttrs{ProductID: flour.ID(), Amount: dec("200"), Unit: domain.Gram}))
	require.NoError(t, err)

	assert.ErrorIs(t, repos.Products.Delete(ctx, flour.ID()), domain.ErrConflict)
}

func TestRecipeRepository(t *testing.T) {
	ctx := context.Background()
	repos := repositories.New(newDB(t))
	flour := createProduct(t, repos, "flour", domain.Gram, "0.5")
	milk := createProduct(t, repos, "milk", domain.Milliliter, "")
	eggs := createProduct(t, repos, "eggs", domain.Count, "")

	created, err := repos.Recipes.Create(ctx, pancakes(t,
		domain.IngredientAttrs{ProductID: milk.ID(), Amount: dec("1"), Unit: domain.Cup, Position: 2},
		domain.IngredientAttrs{ProductID: flour.ID(), Amount: dec("200"), Unit: domain.Gram, Position: 1},
	))
	require.NoError(t, err)
	require.NotZero(t, created.ID())
	assert.Equal(t, []uint{flour.ID(), milk.ID()}, created.ProductIDs())
	assert.Len(t, created.Steps(), 2)
	assert.Equal(t, "Fry in a pan", created.Steps()[1].Description())

	updated, err := created.Apply(domain.RecipePatch{
		Ingredients: []domain.IngredientAttrs{{ProductID: eggs.ID(), Amount: dec("3"), Unit: domain.Count}},
	})
	require.NoError(t, err)
	updated, err = repos.Recipes.Update(ctx, updated)
	require.NoError(t, err)
	assert.Equal(t, []uint{eggs.ID()}, updated.ProductIDs())

	list, err := repos.Recipes.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, []uint{eggs.ID()}, list[0].ProductIDs())

	require.NoError(t, repos.Recipes.Delete(ctx, created.ID()))
	_, err = repos.Recipes.Find(ctx, created.ID())
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, repos.Recipes.Delete(ctx, created.ID()), domain.ErrNotFound)

	// The product is free again once the recipe is gone.
	assert.NoError(t, repos.Products.Delete(ctx, eggs.ID()))
}

func TestStorageRepository_Upsert(t *testing.T) {
	ctx := context.Background()
	repos := repositories.New(newDB(t))
	flour := createProduct(t, repos, "flour", domain.Gram, "0.5")

	_, ok, err := repos.Storage.FindByProduct(ctx, flour.ID())
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = repos.Storage.Upsert(ctx, domain.EmptyStorage(flour).Add(dec("500")))
	require.NoError(t, err)
	_, err = repos.Storage.Upsert(ctx, domain.EmptyStorage(flour).Add(dec("300")))
	require.NoError(t, err)

	s, ok, err := repos.Storage.FindByProductForUpdate(ctx, flour.ID())
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, dec("300").Equal(s.Quantity()))
	assert.Equal(t, domain.Gram, s.Unit())

	all, err := repos.Storage.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestStorageRepository_UpsertReturnsStoredRow(t *testing.T) {
	ctx := context.Background()
	db := newDB(t)
	repos := repositories.New(db)
	flour := createProduct(t, repos, "flour", domain.Gram, "0.123457")

	exact := dec("273.82944293981718750001")
	got, err := repos.Storage.Upsert(ctx, domain.EmptyStorage(flour).Add(exact))
	require.NoError(t, err)
	assert.True(t, exact.Equal(got.Quantity()), "returned %s", got.Quantity())

	var raw string
	require.NoError(t, db.Raw("SELECT quantity FROM storages WHERE product_id = ?", flour.ID()).Scan(&raw).Error)
	assert.Equal(t, exact.String(), raw)

	p, err := repos.Products.Find(ctx, flour.ID())
	require.NoError(t, err)
	d, _ := p.Density()
	assert.Equal(t, "0.123457", d.String())
}

func TestStorageRepository_EnsureRow(t *testing.T) {
	ctx := context.Background()
	repos := repositories.New(newDB(t))
	flour := createProduct(t, repos, "flour", domain.Gram, "0.5")

	require.NoError(t, repos.Storage.EnsureRow(ctx, domain.EmptyStorage(flour)))
	s, ok, err := repos.Storage.FindByProduct(ctx, flour.ID())
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, s.Quantity().IsZero())

	_, err = repos.Storage.Upsert(ctx, s.Add(dec("40")))
	require.NoError(t, err)
	require.NoError(t, repos.Storage.EnsureRow(ctx, domain.EmptyStorage(flour)))

	s, _, err = repos.Storage.FindByProduct(ctx, flour.ID())
	require.NoError(t, err)
	assert.True(t, dec("40").Equal(s.Quantity()), "an existing row is left alone")
}

func TestRecipeLogRepository(t *testing.T) {
	ctx := context.Background()
	repos := repositories.New(newDB(t))

	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	log, err := repos.Logs.Append(ctx, domain.RecipeLog{
		RecipeID:    7,
		Ingredients: []domain.IngredientAttrs{{ProductID: 1, Amount: dec("2"), Unit: domain.Cup}},
		CompletedAt: at,
	})
	require.NoError(t, err)
	assert.NotZero(t, log.ID)

	logs, err := repos.Logs.ListByRecipe(ctx, 7)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, domain.Cup, logs[0].Ingredients[0].Unit)
	assert.True(t, dec("2").Equal(logs[0].Ingredients[0].Amount))
	assert.True(t, at.Equal(logs[0].CompletedAt))

	none, err := repos.Logs.ListByRecipe(ctx, 8)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestTransactor_RollsBack(t *testing.T) {
	ctx := context.Background()
	db := newDB(t)
	repos := repositories.New(db)
	flour := createProduct(t, repos, "flour", domain.Gram, "0.5")
	_, err := repos.Storage.Upsert(ctx, domain.EmptyStorage(flour).Add(dec("500")))
	require.NoError(t, err)

	boom := errors.New("boom")
	err = repositories.NewTransactor(db).WithinTransaction(ctx, func(ctx context.Context, tx domain.Repositories) error {
		if _, err := tx.Storage.Upsert(ctx, domain.EmptyStorage(flour)); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	s, _, err := repos.Storage.FindByProduct(ctx, flour.ID())
	require.NoError(t, err)
	assert.True(t, dec("500").Equal(s.Quantity()))
}
