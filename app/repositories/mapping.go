package repositories

import (
	"encoding/json"
	"fmt"

	"github.com/shashiranjanraj/pantry/app/domain"
	"github.com/shashiranjanraj/pantry/app/models"
)

func productFromModel(m models.Product) (domain.Product, error) {
	p, err := domain.NewProduct(domain.ProductAttrs{
		ID:      m.ID,
		Name:    m.Name,
		Unit:    domain.Unit(m.Unit),
		Density: m.Density.NullDecimal,
	})
	if err != nil {
		return domain.Product{}, fmt.Errorf("load product %d: %w", m.ID, err)
	}
	return p, nil
}

func productToModel(p domain.Product) models.Product {
	a := p.Attrs()
	m := models.Product{Name: a.Name, Unit: string(a.Unit), Density: models.NewNullDecimal(a.Density)}
	m.ID = a.ID
	return m
}

func recipeFromModel(m models.Recipe) (domain.Recipe, error) {
	var steps []domain.StepAttrs
	if len(m.Steps) > 0 {
		if err := json.Unmarshal(m.Steps, &steps); err != nil {
			return domain.Recipe{}, fmt.Errorf("decode steps of recipe %d: %w", m.ID, err)
		}
	}

	ings := make([]domain.IngredientAttrs, len(m.Ingredients))
	for i, ing := range m.Ingredients {
		ings[i] = domain.IngredientAttrs{
			ProductID: ing.ProductID,
			Amount:    ing.Amount.Decimal,
			Unit:      domain.Unit(ing.Unit),
			Position:  ing.Position,
		}
	}

	r, err := domain.NewRecipe(domain.RecipeAttrs{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Ingredients: ings,
		Steps:       steps,
		Servings:    m.Servings,
		PrepTime:    m.PrepTime.Decimal,
	})
	if err != nil {
		return domain.Recipe{}, fmt.Errorf("load recipe %d: %w", m.ID, err)
	}
	return r, nil
}

func recipeToModel(r domain.Recipe) (models.Recipe, error) {
	a := r.Attrs()
	steps, err := json.Marshal(a.Steps)
	if err != nil {
		return models.Recipe{}, err
	}

	m := models.Recipe{
		Name:        a.Name,
		Description: a.Description,
		Servings:    a.Servings,
		PrepTime:    models.NewDecimal(a.PrepTime),
		Steps:       steps,
		Ingredients: ingredientsToModel(a.ID, a.Ingredients),
	}
	m.ID = a.ID
	return m, nil
}

func ingredientsToModel(recipeID uint, attrs []domain.IngredientAttrs) []models.RecipeIngredient {
	out := make([]models.RecipeIngredient, len(attrs))
	for i, a := range attrs {
		out[i] = models.RecipeIngredient{
			RecipeID:  recipeID,
			ProductID: a.ProductID,
			Amount:    models.NewDecimal(a.Amount),
			Unit:      string(a.Unit),
			Position:  a.Position,
		}
	}
	return out
}

func storageFromModel(m models.Storage) (domain.Storage, error) {
	s, err := domain.NewStorage(m.ProductID, m.Quantity.Decimal, domain.Unit(m.Unit))
	if err != nil {
		return domain.Storage{}, fmt.Errorf("load storage of product %d: %w", m.ProductID, err)
	}
	return s, nil
}

func storageToModel(s domain.Storage) models.Storage {
	return models.Storage{
		ProductID: s.ProductID(),
		Quantity:  models.NewDecimal(s.Quantity()),
		Unit:      string(s.Unit()),
	}
}

func logFromModel(m models.RecipeLog) (domain.RecipeLog, error) {
	var ings []domain.IngredientAttrs
	if err := json.Unmarshal(m.Ingredients, &ings); err != nil {
		return domain.RecipeLog{}, fmt.Errorf("decode recipe log %d: %w", m.ID, err)
	}
	return domain.RecipeLog{
		ID:          m.ID,
		RecipeID:    m.RecipeID,
		Ingredients: ings,
		CompletedAt: m.CompletedAt,
	}, nil
}
