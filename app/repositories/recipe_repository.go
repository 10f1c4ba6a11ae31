package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/pantry/app/domain"
	"github.com/shashiranjanraj/pantry/app/models"
)

// RecipeRepository stores recipes and their recipe_products rows.
type RecipeRepository struct {
	db *gorm.DB
}

func NewRecipeRepository(db *gorm.DB) *RecipeRepository {
	return &RecipeRepository{db: db}
}

func preloadIngredients(db *gorm.DB) *gorm.DB {
	return db.Order("position, id")
}

// Find loads a recipe with its ingredients.
func (r *RecipeRepository) Find(ctx context.Context, id uint) (domain.Recipe, error) {
	var m models.Recipe
	err := r.db.WithContext(ctx).Preload("Ingredients", preloadIngredients).First(&m, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Recipe{}, domain.NotFound("recipe", id)
	}
	if err != nil {
		return domain.Recipe{}, fmt.Errorf("find recipe %d: %w", id, err)
	}
	return recipeFromModel(m)
}

// List returns every recipe ordered by id.
func (r *RecipeRepository) List(ctx context.Context) ([]domain.Recipe, error) {
	var rows []models.Recipe
	if err := r.db.WithContext(ctx).Preload("Ingredients", preloadIngredients).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	out := make([]domain.Recipe, 0, len(rows))
	for _, m := range rows {
		rec, err := recipeFromModel(m)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// Create inserts the recipe and its ingredients in one transaction.
func (r *RecipeRepository) Create(ctx context.Context, rec domain.Recipe) (domain.Recipe, error) {
	m, err := recipeToModel(rec)
	if err != nil {
		return domain.Recipe{}, err
	}
	m.ID = 0
	for i := range m.Ingredients {
		m.Ingredients[i].RecipeID = 0
	}

	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domain.Recipe{}, translateWrite("create recipe", err)
	}
	return r.Find(ctx, m.ID)
}

// Update replaces the recipe columns and its whole ingredient set.
func (r *RecipeRepository) Update(ctx context.Context, rec domain.Recipe) (domain.Recipe, error) {
	m, err := recipeToModel(rec)
	if err != nil {
		return domain.Recipe{}, err
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Recipe{}).Where("id = ?", m.ID).Updates(map[string]interface{}{
			"name":        m.Name,
			"description": m.Description,
			"servings":    m.Servings,
			"prep_time":   m.PrepTime,
			"steps":       m.Steps,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.NotFound("recipe", m.ID)
		}

		if err := tx.Where("recipe_id = ?", m.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		return tx.Create(&m.Ingredients).Error
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Recipe{}, err
		}
		return domain.Recipe{}, translateWrite("update recipe", err)
	}
	return r.Find(ctx, m.ID)
}

// Delete removes a recipe and its ingredients. Completion logs are kept.
func (r *RecipeRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", id).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return fmt.Errorf("delete recipe %d ingredients: %w", id, err)
		}
		res := tx.Unscoped().Delete(&models.Recipe{}, id)
		if res.Error != nil {
			return fmt.Errorf("delete recipe %d: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return domain.NotFound("recipe", id)
		}
		return nil
	})
}
