package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shashiranjanraj/pantry/app/domain"
	"github.com/shashiranjanraj/pantry/app/models"
)

// StorageRepository stores one stock row per product.
type StorageRepository struct {
	db *gorm.DB
}

func NewStorageRepository(db *gorm.DB) *StorageRepository {
	return &StorageRepository{db: db}
}

// FindByProduct returns the stock row of productID, if any.
func (r *StorageRepository) FindByProduct(ctx context.Context, productID uint) (domain.Storage, bool, error) {
	return r.find(r.db.WithContext(ctx), productID)
}

// FindByProductForUpdate is FindByProduct with a row lock. SQLite locks
// the whole database for a write transaction and has no FOR UPDATE.
func (r *StorageRepository) FindByProductForUpdate(ctx context.Context, productID uint) (domain.Storage, bool, error) {
	db := r.db.WithContext(ctx)
	if db.Dialector.Name() != "sqlite" {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return r.find(db, productID)
}

func (r *StorageRepository) find(db *gorm.DB, productID uint) (domain.Storage, bool, error) {
	var m models.Storage
	err := db.Where("product_id = ?", productID).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Storage{}, false, nil
	}
	if err != nil {
		return domain.Storage{}, false, fmt.Errorf("find storage of product %d: %w", productID, err)
	}
	s, err := storageFromModel(m)
	return s, err == nil, err
}

// List returns every stock row ordered by product id.
func (r *StorageRepository) List(ctx context.Context) ([]domain.Storage, error) {
	var rows []models.Storage
	if err := r.db.WithContext(ctx).Order("product_id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list storage: %w", err)
	}
	out := make([]domain.Storage, 0, len(rows))
	for _, m := range rows {
		s, err := storageFromModel(m)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// EnsureRow inserts s unless the product already has a stock row. A
// concurrent insert of the same product waits on the unique index until
// the other transaction ends.
func (r *StorageRepository) EnsureRow(ctx context.Context, s domain.Storage) error {
	m := storageToModel(s)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "product_id"}},
		DoNothing: true,
	}).Create(&m).Error
	if err != nil {
		return fmt.Errorf("ensure storage of product %d: %w", s.ProductID(), err)
	}
	return nil
}

// Upsert writes s, creating the row on first use, and returns the row as
// read back from the database.
func (r *StorageRepository) Upsert(ctx context.Context, s domain.Storage) (domain.Storage, error) {
	m := storageToModel(s)
	db := r.db.WithContext(ctx)
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "product_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"quantity", "unit", "updated_at"}),
	}).Create(&m).Error
	if err != nil {
		return domain.Storage{}, fmt.Errorf("upsert storage of product %d: %w", s.ProductID(), err)
	}

	stored, ok, err := r.find(db, s.ProductID())
	if err != nil {
		return domain.Storage{}, err
	}
	if !ok {
		return domain.Storage{}, domain.NotFound("storage", s.ProductID())
	}
	return stored, nil
}
