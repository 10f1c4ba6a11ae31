package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/pantry/app/domain"
	"github.com/shashiranjanraj/pantry/app/models"
)

// RecipeLogRepository appends completion logs.
type RecipeLogRepository struct {
	db *gorm.DB
}

func NewRecipeLogRepository(db *gorm.DB) *RecipeLogRepository {
	return &RecipeLogRepository{db: db}
}

// Append writes log and returns it with its id.
func (r *RecipeLogRepository) Append(ctx context.Context, log domain.RecipeLog) (domain.RecipeLog, error) {
	ings, err := json.Marshal(log.Ingredients)
	if err != nil {
		return domain.RecipeLog{}, err
	}
	m := models.RecipeLog{RecipeID: log.RecipeID, Ingredients: ings, CompletedAt: log.CompletedAt}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domain.RecipeLog{}, fmt.Errorf("append recipe log: %w", err)
	}
	log.ID = m.ID
	return log, nil
}

// ListByRecipe returns the logs of recipeID, oldest first.
func (r *RecipeLogRepository) ListByRecipe(ctx context.Context, recipeID uint) ([]domain.RecipeLog, error) {
	var rows []models.RecipeLog
	if err := r.db.WithContext(ctx).Where("recipe_id = ?", recipeID).Order("completed_at, id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list recipe logs: %w", err)
	}
	out := make([]domain.RecipeLog, 0, len(rows))
	for _, m := range rows {
		l, err := logFromModel(m)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, nil
}
