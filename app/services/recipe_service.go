package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/shashiranjanraj/pantry/app/domain"
	"github.com/shashiranjanraj/pantry/pkg/logger"
)

type RecipeService struct {
	*deps
}

func (s *RecipeService) List(ctx context.Context) ([]domain.Recipe, error) {
	return s.repos.Recipes.List(ctx)
}

func (s *RecipeService) Find(ctx context.Context, id uint) (domain.Recipe, error) {
	return s.repos.Recipes.Find(ctx, id)
}

// Create validates attrs, checks every ingredient against its product and
// stores the recipe.
func (s *RecipeService) Create(ctx context.Context, attrs domain.RecipeAttrs) (domain.Recipe, error) {
	attrs.ID = 0
	r, err := domain.NewRecipe(attrs)
	if err != nil {
		return domain.Recipe{}, err
	}

	var out domain.Recipe
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context, repos domain.Repositories) error {
		if err := checkIngredients(ctx, repos, r.Ingredients()); err != nil {
			return err
		}
		out, err = repos.Recipes.Create(ctx, r)
		return err
	})
	if err != nil {
		return domain.Recipe{}, err
	}
	logger.WithCtx(ctx).Info("recipe created", "recipe_id", out.ID(), "ingredients", len(out.Ingredients()))
	s.events.Fire(ctx, EventRecipeChanged, out.ID())
	return out, nil
}

// Update merges patch over the stored recipe. New ingredients replace the
// old set and are checked like on Create.
func (s *RecipeService) Update(ctx context.Context, id uint, patch domain.RecipePatch) (domain.Recipe, error) {
	var out domain.Recipe
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context, repos domain.Repositories) error {
		r, err := repos.Recipes.Find(ctx, id)
		if err != nil {
			return err
		}
		r, err = r.Apply(patch)
		if err != nil {
			return err
		}
		if patch.Ingredients != nil {
			if err := checkIngredients(ctx, repos, r.Ingredients()); err != nil {
				return err
			}
		}
		out, err = repos.Recipes.Update(ctx, r)
		return err
	})
	if err != nil {
		return domain.Recipe{}, err
	}
	s.events.Fire(ctx, EventRecipeChanged, id)
	return out, nil
}

func (s *RecipeService) Delete(ctx context.Context, id uint) error {
	if err := s.repos.Recipes.Delete(ctx, id); err != nil {
		return err
	}
	logger.WithCtx(ctx).Info("recipe deleted", "recipe_id", id)
	s.events.Fire(ctx, EventRecipeChanged, id)
	return nil
}

// Logs returns the completion history of an existing recipe.
func (s *RecipeService) Logs(ctx context.Context, id uint) ([]domain.RecipeLog, error) {
	if _, err := s.repos.Recipes.Find(ctx, id); err != nil {
		return nil, err
	}
	return s.repos.Logs.ListByRecipe(ctx, id)
}

// checkIngredients fails with a *domain.NotFoundError listing every unknown
// product, or with ErrInvalidQuantity listing every ingredient whose unit
// is not in its product's family.
func checkIngredients(ctx context.Context, repos domain.Repositories, ings []domain.Ingredient) error {
	ids := make([]uint, len(ings))
	for i, ing := range ings {
		ids[i] = ing.ProductID()
	}
	found, err := repos.Products.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}
	products := indexProducts(found)

	var problems []string
	for _, ing := range ings {
		p := products[ing.ProductID()]
		if err := ing.Quantity().AssertCompatible(p.Unit()); err != nil {
			problems = append(problems, fmt.Sprintf("invalid unit '%s' for product '%s' (expected: '%s')", ing.Quantity().Unit(), p.Name(), p.Unit()))
		}
	}
	if len(problems) > 0 {
		return &domain.ValidationError{Kind: domain.ErrInvalidQuantity, Message: strings.Join(problems, "; ")}
	}
	return nil
}
