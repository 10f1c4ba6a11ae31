package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/pantry/app/domain"
	"github.com/shashiranjanraj/pantry/app/repositories/memory"
	"github.com/shashiranjanraj/pantry/app/services"
	"github.com/shashiranjanraj/pantry/pkg/cache"
	"github.com/shashiranjanraj/pantry/pkg/event"
	"github.com/shashiranjanraj/pantry/pkg/metrics"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptr[T any](v T) *T { return &v }

type fixture struct {
	svc   *services.Services
	repos domain.Repositories
	flour domain.Product
	sugar domain.Product
	eggs  domain.Product
}

func newFixture(t *testing.T, opts ...services.Option) fixture {
	t.Helper()
	return newFixtureOn(t, openMemory, opts...)
}

func newFixtureOn(t *testing.T, open opener, opts ...services.Option) fixture {
	t.Helper()
	repos, tx := open(t)
	opts = append([]services.Option{services.WithEvents(event.NewDispatcher())}, opts...)
	svc := services.New(repos, tx, opts...)

	ctx := context.Background()
	flour, err := svc.Products.Create(ctx, services.ProductInput{Name: "flour", Unit: "kg", Density: ptr(dec("0.5"))})
	require.NoError(t, err)
	sugar, err := svc.Products.Create(ctx, services.ProductInput{Name: "sugar", Unit: "g", Density: ptr(dec("0.85"))})
	require.NoError(t, err)
	eggs, err := svc.Products.Create(ctx, services.ProductInput{Name: "eggs", Unit: "count"})
	require.NoError(t, err)

	return fixture{svc: svc, repos: repos, flour: flour, sugar: sugar, eggs: eggs}
}

func (f fixture) recipe(t *testing.T, ings ...domain.IngredientAttrs) domain.Recipe {
	t.Helper()
	r, err := f.svc.Recipes.Create(context.Background(), domain.RecipeAttrs{
		Name:        "Pancakes",
		Description: "Fluffy breakfast pancakes",
		Ingredients: ings,
		Steps:       []domain.StepAttrs{{Description: "Mix and fry", Position: 1}},
		Servings:    2,
		PrepTime:    dec("15"),
	})
	require.NoError(t, err)
	return r
}

func (f fixture) stock(t *testing.T, p domain.Product, amount string, unit string) {
	t.Helper()
	_, err := f.svc.Storage.AddStock(context.Background(), p.ID(), dec(amount), unit)
	require.NoError(t, err)
}

func (f fixture) quantity(t *testing.T, p domain.Product) decimal.Decimal {
	t.Helper()
	s, err := f.svc.Storage.Find(context.Background(), p.ID())
	require.NoError(t, err)
	return s.Quantity()
}

func TestProductService(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	assert.Equal(t, domain.Gram, f.flour.Unit(), "kg is stored as g")

	_, err := f.svc.Products.Create(ctx, services.ProductInput{Name: "butter", Unit: "kg"})
	assert.ErrorIs(t, err, domain.ErrInvalidProduct)

	_, err = f.svc.Products.Create(ctx, services.ProductInput{Name: "flour", Unit: "g", Density: ptr(dec("1"))})
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = f.svc.Products.Update(ctx, f.flour.ID(), services.ProductUpdate{Unit: ptr("l")})
	assert.ErrorIs(t, err, domain.ErrInvalidProduct)

	p, err := f.svc.Products.Update(ctx, f.flour.ID(), services.ProductUpdate{Unit: ptr("kg"), Name: ptr("spelt flour")})
	require.NoError(t, err)
	assert.Equal(t, "spelt flour", p.Name())

	require.NoError(t, f.svc.Products.Delete(ctx, f.eggs.ID()))
	_, err = f.svc.Products.Find(ctx, f.eggs.ID())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecipeService_ChecksProducts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	attrs := domain.RecipeAttrs{
		Name:        "Omelette",
		Description: "Eggs in a pan",
		Ingredients: []domain.IngredientAttrs{
			{ProductID: 9, Amount: dec("1"), Unit: domain.Count},
			{ProductID: 8, Amount: dec("1"), Unit: domain.Count},
		},
		Steps:    []domain.StepAttrs{{Description: "Whisk and fry", Position: 1}},
		Servings: 1,
		PrepTime: dec("5"),
	}
	_, err := f.svc.Recipes.Create(ctx, attrs)
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.EqualError(t, err, "products 8, 9 not found")

	attrs.Ingredients = []domain.IngredientAttrs{
		{ProductID: f.flour.ID(), Amount: dec("1"), Unit: domain.Cup},
		{ProductID: f.eggs.ID(), Amount: dec("2"), Unit: domain.Count},
	}
	_, err = f.svc.Recipes.Create(ctx, attrs)
	require.ErrorIs(t, err, domain.ErrInvalidQuantity)
	assert.Contains(t, err.Error(), "invalid unit 'cup' for product 'flour' (expected: 'g')")

	attrs.Ingredients[0].Unit = domain.Kilogram
	r, err := f.svc.Recipes.Create(ctx, attrs)
	require.NoError(t, err)

	_, err = f.svc.Recipes.Update(ctx, r.ID(), domain.RecipePatch{
		Ingredients: []domain.IngredientAttrs{{ProductID: f.eggs.ID(), Amount: dec("1"), Unit: domain.Liter}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	assert.ErrorIs(t, f.svc.Products.Delete(ctx, f.flour.ID()), domain.ErrConflict)
	require.NoError(t, f.svc.Recipes.Delete(ctx, r.ID()))
	_, err = f.svc.Recipes.Find(ctx, r.ID())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStorageService_AddStock(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	before := testutil.ToFloat64(metrics.StockAdded.WithLabelValues("g"))

	f.stock(t, f.flour, "500", "g")
	f.stock(t, f.flour, "1", "kg")
	assert.True(t, dec("1500").Equal(f.quantity(t, f.flour)))
	assert.Equal(t, before+2, testutil.ToFloat64(metrics.StockAdded.WithLabelValues("g")))

	f.stock(t, f.eggs, "12", "pcs")
	assert.True(t, dec("12").Equal(f.quantity(t, f.eggs)))

	_, err := f.svc.Storage.AddStock(ctx, 99, dec("1"), "g")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.svc.Storage.AddStock(ctx, f.eggs.ID(), dec("1"), "kg")
	assert.ErrorIs(t, err, domain.ErrConversion)

	_, err = f.svc.Storage.AddStock(ctx, f.eggs.ID(), dec("1"), "bushel")
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = f.svc.Storage.AddStock(ctx, f.eggs.ID(), dec("0"), "count")
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = f.svc.Storage.Find(ctx, f.sugar.ID())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCompleteRecipe_DeductsAndLogs(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.stock(t, f.flour, "500", "g")
	f.stock(t, f.sugar, "50", "g")
	r := f.recipe(t,
		domain.IngredientAttrs{ProductID: f.flour.ID(), Amount: dec("200"), Unit: domain.Gram},
		domain.IngredientAttrs{ProductID: f.sugar.ID(), Amount: dec("100"), Unit: domain.Gram},
	)
	shortBefore := testutil.ToFloat64(metrics.StockShortfall.WithLabelValues("g"))
	okBefore := testutil.ToFloat64(metrics.RecipesCompleted.WithLabelValues("success"))

	done, err := f.svc.Tracker.CompleteRecipe(ctx, r.ID(), nil)
	require.NoError(t, err)
	assert.NotZero(t, done.LogID)
	require.Len(t, done.Storage, 2)

	assert.True(t, dec("300").Equal(f.quantity(t, f.flour)))
	assert.True(t, f.quantity(t, f.sugar).IsZero(), "stock is floored at zero")
	assert.Equal(t, shortBefore+1, testutil.ToFloat64(metrics.StockShortfall.WithLabelValues("g")))
	assert.Equal(t, okBefore+1, testutil.ToFloat64(metrics.RecipesCompleted.WithLabelValues("success")))

	logs, err := f.svc.Recipes.Logs(ctx, r.ID())
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, done.LogID, logs[0].ID)
	assert.Len(t, logs[0].Ingredients, 2)
}

func TestCompleteRecipe_ExplicitIngredients(t *testing.T) {
	ctx := context.Background()
	table := domain.NewUnitTable(
		domain.UnitDef{Unit: domain.Milliliter, Family: domain.FamilyVolume, Factor: dec("1")},
		domain.UnitDef{Unit: domain.Cup, Family: domain.FamilyVolume, Factor: dec("250")},
		domain.UnitDef{Unit: domain.Gram, Family: domain.FamilyMass, Factor: dec("1")},
		domain.UnitDef{Unit: domain.Count, Family: domain.FamilyCount, Factor: dec("1")},
	)
	f := newFixture(t, services.WithConverter(domain.NewUnitConverter(table)))
	f.stock(t, f.flour, "500", "g")
	r := f.recipe(t, domain.IngredientAttrs{ProductID: f.flour.ID(), Amount: dec("400"), Unit: domain.Gram})

	_, err := f.svc.Tracker.CompleteRecipe(ctx, r.ID(), []domain.IngredientAttrs{
		{ProductID: f.flour.ID(), Amount: dec("1"), Unit: domain.Cup},
	})
	require.NoError(t, err)
	assert.True(t, dec("375").Equal(f.quantity(t, f.flour)))
}

func TestCompleteRecipe_IsAtomic(t *testing.T) {
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			ctx := context.Background()
			f := newFixtureOn(t, b.open)
			f.stock(t, f.flour, "500", "g")
			r := f.recipe(t,
				domain.IngredientAttrs{ProductID: f.flour.ID(), Amount: dec("200"), Unit: domain.Gram},
				domain.IngredientAttrs{ProductID: f.eggs.ID(), Amount: dec("2"), Unit: domain.Count},
			)
			failedBefore := testutil.ToFloat64(metrics.RecipesCompleted.WithLabelValues("failed"))

			_, err := f.svc.Tracker.CompleteRecipe(ctx, r.ID(), nil)
			require.ErrorIs(t, err, domain.ErrNotFound)
			assert.EqualError(t, err, "storage 3 not found")
			assert.Equal(t, failedBefore+1, testutil.ToFloat64(metrics.RecipesCompleted.WithLabelValues("failed")))

			assert.True(t, dec("500").Equal(f.quantity(t, f.flour)))
			logs, err := f.svc.Recipes.Logs(ctx, r.ID())
			require.NoError(t, err)
			assert.Empty(t, logs)

			_, err = f.svc.Tracker.CompleteRecipe(ctx, 404, nil)
			assert.ErrorIs(t, err, domain.ErrNotFound)
		})
	}
}

func TestCompleteRecipe_LogFailureRollsBackStock(t *testing.T) {
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			ctx := context.Background()
			f := newFixtureOn(t, withFailingLogs(b.open))
			f.stock(t, f.flour, "500", "g")
			f.stock(t, f.eggs, "6", "count")
			r := f.recipe(t,
				domain.IngredientAttrs{ProductID: f.flour.ID(), Amount: dec("200"), Unit: domain.Gram},
				domain.IngredientAttrs{ProductID: f.eggs.ID(), Amount: dec("2"), Unit: domain.Count},
			)

			_, err := f.svc.Tracker.CompleteRecipe(ctx, r.ID(), nil)
			require.ErrorIs(t, err, errLogWrite)

			assert.True(t, dec("500").Equal(f.quantity(t, f.flour)), "flour is %s", f.quantity(t, f.flour))
			assert.True(t, dec("6").Equal(f.quantity(t, f.eggs)), "eggs are %s", f.quantity(t, f.eggs))
			logs, err := f.repos.Logs.ListByRecipe(ctx, r.ID())
			require.NoError(t, err)
			assert.Empty(t, logs)
		})
	}
}

func TestCompleteRecipe_UnknownProductChangesNothing(t *testing.T) {
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			ctx := context.Background()
			f := newFixtureOn(t, b.open)
			f.stock(t, f.flour, "500", "g")
			r := f.recipe(t, domain.IngredientAttrs{ProductID: f.flour.ID(), Amount: dec("200"), Unit: domain.Gram})

			_, err := f.svc.Tracker.CompleteRecipe(ctx, r.ID(), []domain.IngredientAttrs{
				{ProductID: f.flour.ID(), Amount: dec("100"), Unit: domain.Gram},
				{ProductID: 99, Amount: dec("1"), Unit: domain.Count},
			})
			require.ErrorIs(t, err, domain.ErrNotFound)

			assert.True(t, dec("500").Equal(f.quantity(t, f.flour)))
			logs, err := f.svc.Recipes.Logs(ctx, r.ID())
			require.NoError(t, err)
			assert.Empty(t, logs)
		})
	}
}

func TestAddStock_KeepsExactTotals(t *testing.T) {
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			ctx := context.Background()
			f := newFixtureOn(t, b.open)
			rye, err := f.svc.Products.Create(ctx, services.ProductInput{Name: "rye", Unit: "g", Density: ptr(dec("0.123457"))})
			require.NoError(t, err)

			per, err := domain.DefaultConverter().ToBase(dec("3"), domain.Tablespoon, rye)
			require.NoError(t, err)

			want := decimal.Zero
			var last domain.Storage
			for i := 0; i < 50; i++ {
				last, err = f.svc.Storage.AddStock(ctx, rye.ID(), dec("3"), "tablespoon")
				require.NoError(t, err)
				want = want.Add(per)
			}

			assert.True(t, dec("273.8294429398171875").Equal(want))
			assert.True(t, want.Equal(last.Quantity()), "returned %s", last.Quantity())
			assert.True(t, want.Equal(f.quantity(t, rye)), "stored %s", f.quantity(t, rye))
		})
	}
}

func TestAddStock_ConcurrentFirstStock(t *testing.T) {
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			ctx := context.Background()
			f := newFixtureOn(t, b.open)

			const workers = 16
			var wg sync.WaitGroup
			wg.Add(workers)
			for i := 0; i < workers; i++ {
				go func() {
					defer wg.Done()
					_, err := f.svc.Storage.AddStock(ctx, f.sugar.ID(), dec("1.25"), "g")
					assert.NoError(t, err)
				}()
			}
			wg.Wait()

			assert.True(t, dec("20").Equal(f.quantity(t, f.sugar)), "got %s", f.quantity(t, f.sugar))
		})
	}
}

func TestEvaluateAvailability(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.stock(t, f.flour, "500", "g")
	r := f.recipe(t, domain.IngredientAttrs{ProductID: f.flour.ID(), Amount: dec("600"), Unit: domain.Gram})

	a, err := f.svc.Tracker.EvaluateAvailability(ctx, r.ID())
	require.NoError(t, err)
	assert.False(t, a.Available)
	require.Len(t, a.Missing, 1)
	assert.True(t, dec("100").Equal(a.Missing[0].Amount))

	f.stock(t, f.flour, "100", "g")
	a, err = f.svc.Tracker.EvaluateAvailability(ctx, r.ID())
	require.NoError(t, err)
	assert.True(t, a.Available)
	assert.Empty(t, a.Missing)
}

func TestListAvailableRecipes_CachesUntilStockChanges(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemory()
	f := newFixture(t, services.WithCache(store, time.Minute))
	f.stock(t, f.flour, "100", "g")
	pancakes := f.recipe(t, domain.IngredientAttrs{ProductID: f.flour.ID(), Amount: dec("200"), Unit: domain.Gram})

	ready, err := f.svc.Tracker.ListAvailableRecipes(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, ready)

	all, err := f.svc.Tracker.ListAvailableRecipes(ctx, true)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, pancakes.ID(), all[0].Recipe.ID)
	assert.False(t, all[0].Availability.Available)
	require.Len(t, all[0].Availability.Missing, 1)

	var cached []services.RecipeReport
	assert.True(t, store.Get(ctx, "pantry:recipes:available:all", &cached))

	f.stock(t, f.flour, "100", "g")
	assert.False(t, store.Get(ctx, "pantry:recipes:available:all", &cached), "stock changes drop the report")

	ready, err = f.svc.Tracker.ListAvailableRecipes(ctx, false)
	require.NoError(t, err)
	require.Len(t, ready, 1)
	assert.True(t, ready[0].Availability.Available)
	assert.Equal(t, "Pancakes", ready[0].Recipe.Name)
}

// lateCache runs hook once right before the first Set reaches the store.
type lateCache struct {
	cache.Store
	once sync.Once
	hook func()
}

func (c *lateCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	c.once.Do(c.hook)
	return c.Store.Set(ctx, key, value, ttl)
}

func TestListAvailableRecipes_DropsReportRacingWithStockChange(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemory()
	lc := &lateCache{Store: store}
	f := newFixture(t, services.WithCache(lc, time.Minute))
	f.stock(t, f.flour, "100", "g")
	f.recipe(t, domain.IngredientAttrs{ProductID: f.flour.ID(), Amount: dec("200"), Unit: domain.Gram})
	lc.hook = func() { f.stock(t, f.flour, "100", "g") }

	ready, err := f.svc.Tracker.ListAvailableRecipes(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, ready)

	var cached []services.RecipeReport
	assert.False(t, store.Get(ctx, "pantry:recipes:available", &cached), "a report older than the stock is not kept")

	ready, err = f.svc.Tracker.ListAvailableRecipes(ctx, false)
	require.NoError(t, err)
	assert.Len(t, ready, 1)
}

func TestNew_ListensOnItsOwnDispatcher(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	c := cache.NewMemory()
	svc := services.New(store.Repositories(), store, services.WithCache(c, time.Minute))
	services.New(store.Repositories(), store, services.WithCache(c, time.Minute))

	_, err := svc.Tracker.ListAvailableRecipes(ctx, true)
	require.NoError(t, err)

	event.Default.Fire(ctx, services.EventStorageChanged, uint(1))
	var cached []services.RecipeReport
	assert.True(t, c.Get(ctx, "pantry:recipes:available:all", &cached))

	flour, err := svc.Products.Create(ctx, services.ProductInput{Name: "flour", Unit: "g", Density: ptr(dec("0.5"))})
	require.NoError(t, err)
	_, err = svc.Storage.AddStock(ctx, flour.ID(), dec("1"), "g")
	require.NoError(t, err)
	assert.False(t, c.Get(ctx, "pantry:recipes:available:all", &cached))
}
