// Package app boots the pantry application: configuration, database,
// cache and the services behind the HTTP routes.
//
//	a, err := app.Boot(ctx)
//	if err != nil { ... }
//	defer a.Close()
//	return a.Serve(ctx)
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/pantry/app/repositories"
	"github.com/shashiranjanraj/pantry/app/routes"
	"github.com/shashiranjanraj/pantry/app/services"
	"github.com/shashiranjanraj/pantry/config"
	"github.com/shashiranjanraj/pantry/internal/kernel"
	"github.com/shashiranjanraj/pantry/internal/server"
	"github.com/shashiranjanraj/pantry/pkg/cache"
	"github.com/shashiranjanraj/pantry/pkg/database"
	"github.com/shashiranjanraj/pantry/pkg/logger"
	"github.com/shashiranjanraj/pantry/pkg/router"
)

// Application holds the wired dependencies of one process.
type Application struct {
	DB       *gorm.DB
	Cache    cache.Store
	Services *services.Services
}

// Boot loads config, connects the database and Redis, and wires the
// services. A Redis outage only disables caching.
func Boot(ctx context.Context) (*Application, error) {
	if err := config.Load(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := database.Connect(); err != nil {
		return nil, err
	}

	var store cache.Store
	if err := cache.Connect(ctx); err != nil {
		logger.Warn("redis unavailable, caching disabled", "error", err)
	} else {
		store = cache.Default()
	}
	return New(database.DB, store, config.AvailabilityCacheTTL()), nil
}

// New wires the services over db. A nil store or a zero ttl disables
// caching.
func New(db *gorm.DB, store cache.Store, ttl time.Duration) *Application {
	var opts []services.Option
	if store != nil && ttl > 0 {
		opts = append(opts, services.WithCache(store, ttl))
	}
	svc := services.New(repositories.New(db), repositories.NewTransactor(db), opts...)
	return &Application{DB: db, Cache: store, Services: svc}
}

// Routes registers the API routes.
func (a *Application) Routes(r *router.Router) {
	routes.RegisterAPI(r, a.Services)
}

// Router builds the full HTTP router.
func (a *Application) Router() *router.Router {
	return kernel.New(kernel.OptionsFromConfig(), a.Routes)
}

// Serve listens on APP_PORT until ctx is cancelled.
func (a *Application) Serve(ctx context.Context) error {
	return server.Start(ctx, ":"+config.AppPort(), a.Router().Handler())
}

// Close releases the database and Redis connections.
func (a *Application) Close() error {
	var errs []error
	if err := database.Close(); err != nil {
		errs = append(errs, err)
	}
	if cache.RDB != nil {
		errs = append(errs, cache.RDB.Close())
		cache.RDB = nil
	}
	return errors.Join(errs...)
}
