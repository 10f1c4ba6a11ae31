package repositories

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/pantry/app/domain"
	"github.com/shashiranjanraj/pantry/app/models"
)

// ProductRepository stores products with gorm.
type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// Find looks up a product by primary key.
func (r *ProductRepository) Find(ctx context.Context, id uint) (domain.Product, error) {
	var m models.Product
	err := r.db.WithContext(ctx).First(&m, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Product{}, domain.NotFound("product", id)
	}
	if err != nil {
		return domain.Product{}, fmt.Errorf("find product %d: %w", id, err)
	}
	return productFromModel(m)
}

// FindByIDs returns the products in id order, failing with every missing id.
func (r *ProductRepository) FindByIDs(ctx context.Context, ids []uint) ([]domain.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var rows []models.Product
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}

	found := make(map[uint]bool, len(rows))
	out := make([]domain.Product, 0, len(rows))
	for _, m := range rows {
		p, err := productFromModel(m)
		if err != nil {
			return nil, err
		}
		found[m.ID] = true
		out = append(out, p)
	}

	if missing := missingIDs(ids, found); len(missing) > 0 {
		return nil, domain.NotFound("product", missing...)
	}
	return out, nil
}

// List returns every product ordered by name.
func (r *ProductRepository) List(ctx context.Context) ([]domain.Product, error) {
	var rows []models.Product
	if err := r.db.WithContext(ctx).Order("name").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	out := make([]domain.Product, 0, len(rows))
	for _, m := range rows {
		p, err := productFromModel(m)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// Create inserts p. A taken name fails with domain.ErrConflict.
func (r *ProductRepository) Create(ctx context.Context, p domain.Product) (domain.Product, error) {
	if err := r.ensureNameFree(ctx, p.Name(), 0); err != nil {
		return domain.Product{}, err
	}
	m := productToModel(p)
	m.ID = 0
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domain.Product{}, translateWrite("create product", err)
	}
	return productFromModel(m)
}

// Update persists name and density of an existing product.
func (r *ProductRepository) Update(ctx context.Context, p domain.Product) (domain.Product, error) {
	if err := r.ensureNameFree(ctx, p.Name(), p.ID()); err != nil {
		return domain.Product{}, err
	}
	m := productToModel(p)
	res := r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", p.ID()).
		Updates(map[string]interface{}{"name": m.Name, "density": m.Density})
	if res.Error != nil {
		return domain.Product{}, translateWrite("update product", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.Product{}, domain.NotFound("product", p.ID())
	}
	return r.Find(ctx, p.ID())
}

// Delete removes a product that no recipe or storage row refers to.
func (r *ProductRepository) Delete(ctx context.Context, id uint) error {
	db := r.db.WithContext(ctx)

	var refs int64
	if err := db.Model(&models.RecipeIngredient{}).Where("product_id = ?", id).Count(&refs).Error; err != nil {
		return fmt.Errorf("count product references: %w", err)
	}
	if refs > 0 {
		return fmt.Errorf("%w: product %d is used by %d recipe(s)", domain.ErrConflict, id, refs)
	}
	if err := db.Model(&models.Storage{}).Where("product_id = ?", id).Count(&refs).Error; err != nil {
		return fmt.Errorf("count product references: %w", err)
	}
	if refs > 0 {
		return fmt.Errorf("%w: product %d has stock", domain.ErrConflict, id)
	}

	res := db.Unscoped().Delete(&models.Product{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete product %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NotFound("product", id)
	}
	return nil
}

func (r *ProductRepository) ensureNameFree(ctx context.Context, name string, except uint) error {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("name = ? AND id <> ?", name, except).Count(&n).Error
	if err != nil {
		return fmt.Errorf("check product name: %w", err)
	}
	if n > 0 {
		return fmt.Errorf("%w: product name %q is already taken", domain.ErrConflict, name)
	}
	return nil
}

func translateWrite(op string, err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %s: %v", domain.ErrConflict, op, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func missingIDs(want []uint, found map[uint]bool) []uint {
	seen := make(map[uint]bool, len(want))
	var missing []uint
	for _, id := range want {
		if !found[id] && !seen[id] {
			missing = append(missing, id)
		}
		seen[id] = true
	}
	sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
	return missing
}
