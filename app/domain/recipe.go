package domain

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Recipe is the aggregate that owns its ingredients and steps.
type Recipe struct {
	id          uint
	name        string
	description string
	ingredients []Ingredient
	steps       []Step
	servings    int
	prepTime    decimal.Decimal
}

// RecipeAttrs is the unvalidated form of a Recipe.
type RecipeAttrs struct {
	ID          uint
	Name        string
	Description string
	Ingredients []IngredientAttrs
	Steps       []StepAttrs
	Servings    int
	PrepTime    decimal.Decimal
}

// NewRecipe builds every ingredient and step, then checks the aggregate
// invariants. The first violation is returned.
func NewRecipe(a RecipeAttrs) (Recipe, error) {
	ingredients, err := NewIngredients(a.Ingredients)
	if err != nil {
		return Recipe{}, err
	}
	steps := make([]Step, 0, len(a.Steps))
	for _, sa := range a.Steps {
		s, err := NewStep(sa)
		if err != nil {
			return Recipe{}, err
		}
		steps = append(steps, s)
	}

	r := Recipe{
		id:          a.ID,
		name:        strings.TrimSpace(a.Name),
		description: strings.TrimSpace(a.Description),
		ingredients: ingredients,
		steps:       steps,
		servings:    a.Servings,
		prepTime:    a.PrepTime,
	}
	if err := r.validate(); err != nil {
		return Recipe{}, err
	}
	return r, nil
}

func (r Recipe) validate() error {
	if r.name == "" {
		return invalid(ErrInvalidRecipe, "name", "cannot be blank")
	}
	if r.description == "" {
		return invalid(ErrInvalidRecipe, "description", "cannot be blank")
	}
	if len(r.ingredients) == 0 {
		return invalid(ErrInvalidRecipe, "ingredients", "at least one ingredient is required")
	}
	if len(r.steps) == 0 {
		return invalid(ErrInvalidRecipe, "steps", "at least one step is required")
	}

	if dups := duplicates(r.ingredients, func(i Ingredient) uint { return i.productID }); len(dups) > 0 {
		return invalid(ErrInvalidRecipe, "ingredients", "duplicate ingredients found (product IDs: %s)", joinInts(dups))
	}
	if dups := duplicates(r.steps, func(s Step) int { return s.position }); len(dups) > 0 {
		return invalid(ErrInvalidRecipe, "steps", "multiple steps in the same position found (position: %s)", joinInts(dups))
	}

	if r.servings <= 0 {
		return invalid(ErrInvalidRecipe, "servings", "must be more than 0")
	}
	if r.servings > maxPosition {
		return invalid(ErrInvalidRecipe, "servings", "cannot exceed 999")
	}
	if !r.prepTime.IsPositive() {
		return invalid(ErrInvalidRecipe, "prep_time", "must be more than 0")
	}
	if r.prepTime.GreaterThan(MaxAmount) {
		return invalid(ErrInvalidRecipe, "prep_time", "cannot exceed 999")
	}
	return nil
}

func (r Recipe) ID() uint                  { return r.id }
func (r Recipe) Name() string              { return r.name }
func (r Recipe) Description() string       { return r.description }
func (r Recipe) Servings() int             { return r.servings }
func (r Recipe) PrepTime() decimal.Decimal { return r.prepTime }

// Ingredients returns a copy of the ingredient list in recipe order.
func (r Recipe) Ingredients() []Ingredient {
	return append([]Ingredient(nil), r.ingredients...)
}

// Steps returns a copy of the steps in recipe order.
func (r Recipe) Steps() []Step {
	return append([]Step(nil), r.steps...)
}

// ProductIDs lists the product of every ingredient.
func (r Recipe) ProductIDs() []uint {
	ids := make([]uint, len(r.ingredients))
	for i, ing := range r.ingredients {
		ids[i] = ing.productID
	}
	return ids
}

// Attrs returns the recipe in its unvalidated form.
func (r Recipe) Attrs() RecipeAttrs {
	a := RecipeAttrs{
		ID:          r.id,
		Name:        r.name,
		Description: r.description,
		Servings:    r.servings,
		PrepTime:    r.prepTime,
		Ingredients: make([]IngredientAttrs, len(r.ingredients)),
		Steps:       make([]StepAttrs, len(r.steps)),
	}
	for i, ing := range r.ingredients {
		a.Ingredients[i] = ing.Attrs()
	}
	for i, s := range r.steps {
		a.Steps[i] = s.Attrs()
	}
	return a
}

// RecipePatch lists the fields an update may touch. A non-nil Ingredients
// or Steps slice replaces the whole list.
type RecipePatch struct {
	Name        *string
	Description *string
	Ingredients []IngredientAttrs
	Steps       []StepAttrs
	Servings    *int
	PrepTime    *decimal.Decimal
}

// Apply merges patch over r and re-validates the result.
func (r Recipe) Apply(patch RecipePatch) (Recipe, error) {
	a := r.Attrs()
	if patch.Name != nil {
		a.Name = *patch.Name
	}
	if patch.Description != nil {
		a.Description = *patch.Description
	}
	if patch.Ingredients != nil {
		a.Ingredients = patch.Ingredients
	}
	if patch.Steps != nil {
		a.Steps = patch.Steps
	}
	if patch.Servings != nil {
		a.Servings = *patch.Servings
	}
	if patch.PrepTime != nil {
		a.PrepTime = *patch.PrepTime
	}
	return NewRecipe(a)
}

type integer interface{ ~int | ~uint }

func duplicates[T any, K integer](items []T, key func(T) K) []K {
	counts := make(map[K]int, len(items))
	for _, it := range items {
		counts[key(it)]++
	}
	var out []K
	for k, n := range counts {
		if n > 1 {
			out = append(out, k)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func joinInts[K integer](ks []K) string {
	parts := make([]string, len(ks))
	for i, k := range ks {
		parts[i] = fmt.Sprint(k)
	}
	return strings.Join(parts, ", ")
}
