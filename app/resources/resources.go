// Package resources shapes domain values into API JSON.
package resources

import (
	"github.com/shashiranjanraj/pantry/app/domain"
	"github.com/shashiranjanraj/pantry/app/services"
	"github.com/shashiranjanraj/pantry/pkg/resource"
)

type ProductResource struct{}

func (ProductResource) ToArray(v interface{}) resource.Map {
	p := v.(domain.Product)
	var density interface{}
	if d, ok := p.Density(); ok {
		density = d
	}
	return resource.Map{
		"id":      p.ID(),
		"name":    p.Name(),
		"unit":    p.Unit(),
		"density": density,
	}
}

type RecipeResource struct{}

func (RecipeResource) ToArray(v interface{}) resource.Map {
	var a domain.RecipeAttrs
	switch r := v.(type) {
	case domain.Recipe:
		a = r.Attrs()
	case domain.RecipeAttrs:
		a = r
	}
	return recipeMap(a)
}

func recipeMap(a domain.RecipeAttrs) resource.Map {
	ings := a.Ingredients
	if ings == nil {
		ings = []domain.IngredientAttrs{}
	}
	steps := a.Steps
	if steps == nil {
		steps = []domain.StepAttrs{}
	}
	return resource.Map{
		"id":          a.ID,
		"name":        a.Name,
		"description": a.Description,
		"servings":    a.Servings,
		"prep_time":   a.PrepTime,
		"ingredients": ings,
		"steps":       steps,
	}
}

type StorageResource struct{}

func (StorageResource) ToArray(v interface{}) resource.Map {
	s := v.(domain.Storage)
	return resource.Map{
		"product_id": s.ProductID(),
		"quantity":   s.Quantity(),
		"unit":       s.Unit(),
	}
}

type AvailabilityResource struct{}

func (AvailabilityResource) ToArray(v interface{}) resource.Map {
	a := v.(domain.Availability)
	return resource.Map{
		"recipe_id": a.RecipeID,
		"available": a.Available,
		"missing":   gaps(a.Missing),
	}
}

func gaps(in []domain.IngredientGap) []resource.Map {
	out := make([]resource.Map, len(in))
	for i, g := range in {
		out[i] = resource.Map{
			"product_id":   g.ProductID,
			"product_name": g.ProductName,
			"amount":       g.Amount,
			"unit":         g.Unit,
		}
	}
	return out
}

// RecipeReportResource renders a recipe together with its availability.
type RecipeReportResource struct{}

func (RecipeReportResource) ToArray(v interface{}) resource.Map {
	rep := v.(services.RecipeReport)
	m := recipeMap(rep.Recipe)
	m["available"] = rep.Availability.Available
	m["missing"] = gaps(rep.Availability.Missing)
	return m
}

type RecipeLogResource struct{}

func (RecipeLogResource) ToArray(v interface{}) resource.Map {
	l := v.(domain.RecipeLog)
	ings := l.Ingredients
	if ings == nil {
		ings = []domain.IngredientAttrs{}
	}
	return resource.Map{
		"id":           l.ID,
		"recipe_id":    l.RecipeID,
		"ingredients":  ings,
		"completed_at": l.CompletedAt,
	}
}

type CompletionResource struct{}

func (CompletionResource) ToArray(v interface{}) resource.Map {
	c := v.(services.Completion)
	return resource.Map{
		"recipe_id": c.RecipeID,
		"log_id":    c.LogID,
		"storage":   resource.CollectionOf(StorageResource{}, c.Storage),
	}
}
