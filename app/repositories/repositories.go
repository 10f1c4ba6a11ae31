// Package repositories implements the domain repositories with gorm.
package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/pantry/app/domain"
)

// New binds every repository to db, which may be a transaction.
func New(db *gorm.DB) domain.Repositories {
	return domain.Repositories{
		Products: NewProductRepository(db),
		Recipes:  NewRecipeRepository(db),
		Storage:  NewStorageRepository(db),
		Logs:     NewRecipeLogRepository(db),
	}
}

// Transactor runs units of work inside a gorm transaction.
type Transactor struct {
	db *gorm.DB
}

func NewTransactor(db *gorm.DB) *Transactor {
	return &Transactor{db: db}
}

// WithinTransaction commits when fn returns nil and rolls back otherwise.
func (t *Transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context, repos domain.Repositories) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, New(tx))
	})
}
