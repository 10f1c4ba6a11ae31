// Package services holds the application operations behind the HTTP and
// CLI surfaces. Every write runs through a domain.Transactor.
package services

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/shashiranjanraj/pantry/app/domain"
	"github.com/shashiranjanraj/pantry/pkg/cache"
	"github.com/shashiranjanraj/pantry/pkg/collection"
	"github.com/shashiranjanraj/pantry/pkg/event"
	"github.com/shashiranjanraj/pantry/pkg/logger"
)

// Events fired after a successful commit. The payload is the id of the
// touched product or recipe. A completion fires storage.changed with the
// sorted ids of the consumed products.
const (
	EventProductChanged  = "product.changed"
	EventRecipeChanged   = "recipe.changed"
	EventStorageChanged  = "storage.changed"
	EventRecipeCompleted = "recipe.completed"
)

const (
	cacheKeyAvailable = "pantry:recipes:available"
	cacheKeyAll       = "pantry:recipes:available:all"
)

// Services bundles the application services sharing one set of deps.
type Services struct {
	Products *ProductService
	Recipes  *RecipeService
	Storage  *StorageService
	Tracker  *TrackerService
}

type deps struct {
	repos  domain.Repositories
	tx     domain.Transactor
	conv   domain.UnitConverter
	cache  cache.Store
	ttl    time.Duration
	events *event.Dispatcher
	now    func() time.Time

	// generation counts cache invalidations.
	generation atomic.Uint64
}

// Option customises New.
type Option func(*deps)

// WithCache enables caching of the available-recipes report for ttl.
func WithCache(store cache.Store, ttl time.Duration) Option {
	return func(d *deps) {
		d.cache = store
		d.ttl = ttl
	}
}

// WithEvents fires events on d instead of a dispatcher private to New.
func WithEvents(d *event.Dispatcher) Option {
	return func(dp *deps) { dp.events = d }
}

// WithConverter swaps the unit converter.
func WithConverter(c domain.UnitConverter) Option {
	return func(d *deps) { d.conv = c }
}

// WithClock sets the clock used to stamp completion logs.
func WithClock(now func() time.Time) Option {
	return func(d *deps) { d.now = now }
}

// New wires the services over repos and tx.
func New(repos domain.Repositories, tx domain.Transactor, opts ...Option) *Services {
	d := &deps{
		repos:  repos,
		tx:     tx,
		conv:   domain.DefaultConverter(),
		events: event.NewDispatcher(),
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(d)
	}

	if d.cache != nil {
		forget := func(ctx context.Context, _ interface{}) {
			d.generation.Add(1)
			if err := d.cache.Del(ctx, cacheKeyAvailable, cacheKeyAll); err != nil {
				logger.WithCtx(ctx).Warn("cache invalidation failed", "error", err)
			}
		}
		for _, name := range []string{EventProductChanged, EventRecipeChanged, EventStorageChanged, EventRecipeCompleted} {
			d.events.Listen(name, forget)
		}
	}

	return &Services{
		Products: &ProductService{d},
		Recipes:  &RecipeService{d},
		Storage:  &StorageService{d},
		Tracker:  &TrackerService{deps: d, engine: domain.NewAvailabilityEngine(d.conv)},
	}
}

func indexProducts(ps []domain.Product) map[uint]domain.Product {
	return collection.KeyBy(ps, domain.Product.ID)
}
