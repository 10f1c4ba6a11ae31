package domain

import "context"

// ProductRepository persists products.
type ProductRepository interface {
	Find(ctx context.Context, id uint) (Product, error)
	// FindByIDs fails with a *NotFoundError naming every missing id.
	FindByIDs(ctx context.Context, ids []uint) ([]Product, error)
	List(ctx context.Context) ([]Product, error)
	Create(ctx context.Context, p Product) (Product, error)
	Update(ctx context.Context, p Product) (Product, error)
	Delete(ctx context.Context, id uint) error
}

// RecipeRepository persists recipes together with their ingredients.
type RecipeRepository interface {
	Find(ctx context.Context, id uint) (Recipe, error)
	List(ctx context.Context) ([]Recipe, error)
	Create(ctx context.Context, r Recipe) (Recipe, error)
	Update(ctx context.Context, r Recipe) (Recipe, error)
	Delete(ctx context.Context, id uint) error
}

// StorageRepository persists stock rows keyed by product id.
type StorageRepository interface {
	FindByProduct(ctx context.Context, productID uint) (Storage, bool, error)
	// FindByProductForUpdate locks the row until the surrounding
	// transaction ends.
	FindByProductForUpdate(ctx context.Context, productID uint) (Storage, bool, error)
	List(ctx context.Context) ([]Storage, error)
	// EnsureRow inserts s unless a row for its product already exists, so
	// a following FindByProductForUpdate always has a row to lock.
	EnsureRow(ctx context.Context, s Storage) error
	// Upsert writes s and returns the row as stored.
	Upsert(ctx context.Context, s Storage) (Storage, error)
}

// RecipeLogRepository appends and reads completion logs.
type RecipeLogRepository interface {
	Append(ctx context.Context, log RecipeLog) (RecipeLog, error)
	ListByRecipe(ctx context.Context, recipeID uint) ([]RecipeLog, error)
}

// Repositories bundles one implementation of every repository, all bound
// to the same connection or transaction.
type Repositories struct {
	Products ProductRepository
	Recipes  RecipeRepository
	Storage  StorageRepository
	Logs     RecipeLogRepository
}

// Transactor runs fn with repositories bound to one transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}
