package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/pantry/app/domain"
	"github.com/shashiranjanraj/pantry/pkg/collection"
	"github.com/shashiranjanraj/pantry/pkg/logger"
	"github.com/shashiranjanraj/pantry/pkg/metrics"
)

// RecipeReport is one row of the available-recipes report.
type RecipeReport struct {
	Recipe       domain.RecipeAttrs  `json:"recipe"`
	Availability domain.Availability `json:"availability"`
}

// Completion is the outcome of CompleteRecipe.
type Completion struct {
	RecipeID uint
	LogID    uint
	// Storage holds the final row of every product that was consumed, in
	// first-use order.
	Storage []domain.Storage
}

// TrackerService answers what can be cooked and consumes stock when a
// recipe is cooked.
type TrackerService struct {
	*deps
	engine domain.AvailabilityEngine
}

// EvaluateAvailability reports whether recipe id can be cooked now, with
// the gaps when it cannot.
func (s *TrackerService) EvaluateAvailability(ctx context.Context, id uint) (domain.Availability, error) {
	r, err := s.repos.Recipes.Find(ctx, id)
	if err != nil {
		return domain.Availability{}, err
	}
	products, stock, err := s.snapshot(ctx)
	if err != nil {
		return domain.Availability{}, err
	}
	return s.engine.Evaluate(r, products, stock, true)
}

// ListAvailableRecipes evaluates every recipe. Without all, only the
// recipes that can be cooked are returned. The report is cached when a
// cache is configured.
func (s *TrackerService) ListAvailableRecipes(ctx context.Context, all bool) ([]RecipeReport, error) {
	key := cacheKeyAvailable
	if all {
		key = cacheKeyAll
	}

	var cached []RecipeReport
	if s.cache != nil && s.cache.Get(ctx, key, &cached) {
		return cached, nil
	}
	gen := s.generation.Load()

	recipes, err := s.repos.Recipes.List(ctx)
	if err != nil {
		return nil, err
	}
	products, stock, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]RecipeReport, 0, len(recipes))
	for _, r := range recipes {
		a, err := s.engine.Evaluate(r, products, stock, all)
		if err != nil {
			return nil, err
		}
		if !all && !a.Available {
			continue
		}
		out = append(out, RecipeReport{Recipe: r.Attrs(), Availability: a})
	}

	s.remember(ctx, key, gen, out)
	return out, nil
}

// remember caches a report computed at generation gen. A report that raced
// with an invalidation is never left behind.
func (s *TrackerService) remember(ctx context.Context, key string, gen uint64, out []RecipeReport) {
	if s.cache == nil || s.ttl <= 0 || s.generation.Load() != gen {
		return
	}
	if err := s.cache.Set(ctx, key, out, s.ttl); err != nil {
		logger.WithCtx(ctx).Warn("caching available recipes failed", "error", err)
		return
	}
	if s.generation.Load() != gen {
		if err := s.cache.Del(ctx, key); err != nil {
			logger.WithCtx(ctx).Warn("cache invalidation failed", "error", err)
		}
	}
}

func (s *TrackerService) snapshot(ctx context.Context) (map[uint]domain.Product, domain.StockLookup, error) {
	products, err := s.repos.Products.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	rows, err := s.repos.Storage.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	stock := collection.KeyBy(rows, domain.Storage.ProductID)
	return indexProducts(products), domain.StockMap(stock), nil
}

type shortfall struct {
	productID uint
	unit      domain.Unit
	amount    decimal.Decimal
}

// CompleteRecipe deducts ingredients from stock and logs the completion in
// one transaction. An empty ingredients list consumes the recipe's own
// ingredients. A deduction larger than the stock leaves zero behind.
func (s *TrackerService) CompleteRecipe(ctx context.Context, recipeID uint, ingredients []domain.IngredientAttrs) (Completion, error) {
	var (
		out    = Completion{RecipeID: recipeID}
		shorts []shortfall
	)

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context, repos domain.Repositories) error {
		r, err := repos.Recipes.Find(ctx, recipeID)
		if err != nil {
			return err
		}

		ings := r.Ingredients()
		if len(ingredients) > 0 {
			if ings, err = domain.NewIngredients(ingredients); err != nil {
				return err
			}
		}

		ids := collection.Unique(collection.Map(ings, domain.Ingredient.ProductID))
		found, err := repos.Products.FindByIDs(ctx, ids)
		if err != nil {
			return err
		}

		stock := make(map[uint]domain.Storage, len(ids))
		for _, id := range ids {
			row, ok, err := repos.Storage.FindByProductForUpdate(ctx, id)
			if err != nil {
				return err
			}
			if ok {
				stock[id] = row
			}
		}

		plan, err := s.engine.PlanConsumption(ings, indexProducts(found), domain.StockMap(stock))
		if err != nil {
			return err
		}

		final := make(map[uint]domain.Storage, len(plan))
		var order []uint
		for _, d := range plan {
			id := d.After.ProductID()
			if _, ok := final[id]; !ok {
				order = append(order, id)
			}
			final[id] = d.After
			if d.Shortfall.IsPositive() {
				shorts = append(shorts, shortfall{productID: id, unit: d.After.Unit(), amount: d.Shortfall})
			}
		}
		for _, id := range order {
			row, err := repos.Storage.Upsert(ctx, final[id])
			if err != nil {
				return err
			}
			out.Storage = append(out.Storage, row)
		}

		used := make([]domain.IngredientAttrs, len(ings))
		for i, ing := range ings {
			used[i] = ing.Attrs()
		}
		entry, err := repos.Logs.Append(ctx, domain.RecipeLog{
			RecipeID:    recipeID,
			Ingredients: used,
			CompletedAt: s.now(),
		})
		if err != nil {
			return err
		}
		out.LogID = entry.ID
		return nil
	})
	metrics.RecordCompletion(err)
	if err != nil {
		logger.WithCtx(ctx).Warn("recipe completion failed", "recipe_id", recipeID, "error", err)
		return Completion{}, err
	}

	log := logger.WithCtx(ctx)
	for _, sf := range shorts {
		metrics.StockShortfall.WithLabelValues(string(sf.unit)).Inc()
		log.Warn("stock floored at zero", "recipe_id", recipeID, "product_id", sf.productID, "missing", sf.amount.String(), "unit", sf.unit)
	}
	log.Info("recipe completed", "recipe_id", recipeID, "log_id", out.LogID)

	s.events.Fire(ctx, EventRecipeCompleted, recipeID)
	s.events.Fire(ctx, EventStorageChanged, sortedIDs(out.Storage))
	return out, nil
}

func sortedIDs(rows []domain.Storage) []uint {
	ids := collection.Map(rows, domain.Storage.ProductID)
	return collection.SortBy(ids, func(a, b uint) bool { return a < b })
}
