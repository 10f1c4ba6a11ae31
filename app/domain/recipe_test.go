package domain_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/pantry/app/domain"
)

func pancakeAttrs() domain.RecipeAttrs {
	return domain.RecipeAttrs{
		Name:        "Pancakes",
		Description: "Fluffy breakfast pancakes",
		Ingredients: []domain.IngredientAttrs{
			{ProductID: 1, Amount: dec("200"), Unit: domain.Gram, Position: 1},
			{ProductID: 2, Amount: dec("1"), Unit: domain.Cup},
		},
		Steps: []domain.StepAttrs{
			{Description: "Mix everything", Position: 1},
			{Description: "Fry in a pan", Position: 2},
		},
		Servings: 4,
		PrepTime: dec("20"),
	}
}

func TestNewRecipe_Valid(t *testing.T) {
	r, err := domain.NewRecipe(pancakeAttrs())
	require.NoError(t, err)
	assert.Equal(t, "Pancakes", r.Name())
	assert.Len(t, r.Ingredients(), 2)
	assert.Len(t, r.Steps(), 2)
	assert.Equal(t, []uint{1, 2}, r.ProductIDs())
	assert.Equal(t, 1, r.Ingredients()[0].Position())
	assert.Equal(t, 0, r.Ingredients()[1].Position())
}

func TestNewRecipe_Invariants(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*domain.RecipeAttrs)
		kind   error
		msg    string
	}{
		{"blank name", func(a *domain.RecipeAttrs) { a.Name = "  " }, domain.ErrInvalidRecipe, "name cannot be blank"},
		{"blank description", func(a *domain.RecipeAttrs) { a.Description = "" }, domain.ErrInvalidRecipe, "description cannot be blank"},
		{"no ingredients", func(a *domain.RecipeAttrs) { a.Ingredients = nil }, domain.ErrInvalidRecipe, "at least one ingredient"},
		{"no steps", func(a *domain.RecipeAttrs) { a.Steps = nil }, domain.ErrInvalidRecipe, "at least one step"},
		{"duplicate product", func(a *domain.RecipeAttrs) {
			a.Ingredients = append(a.Ingredients, domain.IngredientAttrs{ProductID: 1, Amount: dec("5"), Unit: domain.Gram})
		}, domain.ErrInvalidRecipe, "duplicate ingredients found (product IDs: 1)"},
		{"duplicate step position", func(a *domain.RecipeAttrs) { a.Steps[1].Position = 1 }, domain.ErrInvalidRecipe, "multiple steps in the same position found (position: 1)"},
		{"zero servings", func(a *domain.RecipeAttrs) { a.Servings = 0 }, domain.ErrInvalidRecipe, "servings must be more than 0"},
		{"too many servings", func(a *domain.RecipeAttrs) { a.Servings = 1000 }, domain.ErrInvalidRecipe, "servings cannot exceed 999"},
		{"zero prep time", func(a *domain.RecipeAttrs) { a.PrepTime = dec("0") }, domain.ErrInvalidRecipe, "prep_time must be more than 0"},
		{"long prep time", func(a *domain.RecipeAttrs) { a.PrepTime = dec("999.5") }, domain.ErrInvalidRecipe, "prep_time cannot exceed 999"},
		{"ingredient without product", func(a *domain.RecipeAttrs) { a.Ingredients[0].ProductID = 0 }, domain.ErrInvalidIngredient, "product_id is required"},
		{"ingredient negative position", func(a *domain.RecipeAttrs) { a.Ingredients[0].Position = -1 }, domain.ErrInvalidIngredient, "position must be positive if present"},
		{"ingredient bad amount", func(a *domain.RecipeAttrs) { a.Ingredients[0].Amount = dec("1000") }, domain.ErrInvalidQuantity, "amount cannot exceed 999"},
		{"ingredient bad unit", func(a *domain.RecipeAttrs) { a.Ingredients[0].Unit = "pinch" }, domain.ErrInvalidQuantity, "unit must be one of"},
		{"short step", func(a *domain.RecipeAttrs) { a.Steps[0].Description = "ab" }, domain.ErrInvalidStep, "at least 3"},
		{"long step", func(a *domain.RecipeAttrs) { a.Steps[0].Description = strings.Repeat("x", 1001) }, domain.ErrInvalidStep, "under 1000"},
		{"blank step", func(a *domain.RecipeAttrs) { a.Steps[0].Description = "   " }, domain.ErrInvalidStep, "cannot be blank"},
		{"step position zero", func(a *domain.RecipeAttrs) { a.Steps[0].Position = 0 }, domain.ErrInvalidStep, "position must be positive"},
		{"step position too high", func(a *domain.RecipeAttrs) { a.Steps[0].Position = 1000 }, domain.ErrInvalidStep, "position cannot exceed 999"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := pancakeAttrs()
			tc.mutate(&a)
			_, err := domain.NewRecipe(a)
			require.ErrorIs(t, err, tc.kind)
			assert.Contains(t, err.Error(), tc.msg)

			var ve *domain.ValidationError
			assert.ErrorAs(t, err, &ve)
		})
	}
}

func TestNewRecipe_ListsEveryDuplicate(t *testing.T) {
	a := pancakeAttrs()
	a.Ingredients = append(a.Ingredients,
		domain.IngredientAttrs{ProductID: 2, Amount: dec("1"), Unit: domain.Cup},
		domain.IngredientAttrs{ProductID: 1, Amount: dec("1"), Unit: domain.Gram},
	)
	_, err := domain.NewRecipe(a)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "product IDs: 1, 2")
}

func TestRecipe_ApplyReplacesIngredients(t *testing.T) {
	r, err := domain.NewRecipe(pancakeAttrs())
	require.NoError(t, err)

	name := "Crepes"
	updated, err := r.Apply(domain.RecipePatch{
		Name:        &name,
		Ingredients: []domain.IngredientAttrs{{ProductID: 3, Amount: dec("2"), Unit: domain.Count}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Crepes", updated.Name())
	assert.Equal(t, []uint{3}, updated.ProductIDs())
	assert.Len(t, updated.Steps(), 2)

	// The receiver is untouched.
	assert.Equal(t, "Pancakes", r.Name())
	assert.Equal(t, []uint{1, 2}, r.ProductIDs())
}

func TestRecipe_ApplyRevalidates(t *testing.T) {
	r, err := domain.NewRecipe(pancakeAttrs())
	require.NoError(t, err)

	_, err = r.Apply(domain.RecipePatch{Ingredients: []domain.IngredientAttrs{}})
	assert.ErrorIs(t, err, domain.ErrInvalidRecipe)

	servings := 0
	_, err = r.Apply(domain.RecipePatch{Servings: &servings})
	assert.ErrorIs(t, err, domain.ErrInvalidRecipe)
}

func TestIngredient_EqualIgnoresPosition(t *testing.T) {
	a, err := domain.NewIngredient(domain.IngredientAttrs{ProductID: 1, Amount: dec("2"), Unit: domain.Cup, Position: 1})
	require.NoError(t, err)
	b, err := domain.NewIngredient(domain.IngredientAttrs{ProductID: 1, Amount: dec("2.0"), Unit: domain.Cup, Position: 4})
	require.NoError(t, err)
	assert.True(t, a.Equal(b))
}
