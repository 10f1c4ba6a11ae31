package seeders

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/pantry/app/domain"
	"github.com/shashiranjanraj/pantry/app/repositories"
	"github.com/shashiranjanraj/pantry/app/services"
	"github.com/shashiranjanraj/pantry/pkg/event"
)

func init() {
	Register("pantry", SeedPantry)
}

type seedProduct struct {
	name    string
	unit    string
	density string
	stock   string
	stockIn string
}

var demoProducts = []seedProduct{
	{name: "flour", unit: "g", density: "0.53", stock: "1", stockIn: "kg"},
	{name: "sugar", unit: "g", density: "0.85", stock: "500", stockIn: "g"},
	{name: "milk", unit: "ml", stock: "1", stockIn: "l"},
	{name: "eggs", unit: "count", stock: "12", stockIn: "count"},
}

// SeedPantry fills an empty database with a few stocked products and a
// pancake recipe. It does nothing when products already exist.
func SeedPantry(db *gorm.DB) error {
	ctx := context.Background()
	svc := services.New(repositories.New(db), repositories.NewTransactor(db),
		services.WithEvents(event.NewDispatcher()))

	existing, err := svc.Products.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	ids := make(map[string]uint, len(demoProducts))
	for _, sp := range demoProducts {
		in := services.ProductInput{Name: sp.name, Unit: sp.unit}
		if sp.density != "" {
			d := decimal.RequireFromString(sp.density)
			in.Density = &d
		}
		p, err := svc.Products.Create(ctx, in)
		if err != nil {
			return err
		}
		ids[sp.name] = p.ID()

		if _, err := svc.Storage.AddStock(ctx, p.ID(), decimal.RequireFromString(sp.stock), sp.stockIn); err != nil {
			return err
		}
	}

	_, err = svc.Recipes.Create(ctx, domain.RecipeAttrs{
		Name:        "Pancakes",
		Description: "Thin breakfast pancakes.",
		Servings:    4,
		PrepTime:    decimal.NewFromInt(20),
		Ingredients: []domain.IngredientAttrs{
			{ProductID: ids["flour"], Amount: decimal.NewFromInt(250), Unit: domain.Gram, Position: 1},
			{ProductID: ids["milk"], Amount: decimal.NewFromInt(2), Unit: domain.Cup, Position: 2},
			{ProductID: ids["eggs"], Amount: decimal.NewFromInt(2), Unit: domain.Count, Position: 3},
			{ProductID: ids["sugar"], Amount: decimal.NewFromInt(30), Unit: domain.Gram, Position: 4},
		},
		Steps: []domain.StepAttrs{
			{Description: "Whisk flour, sugar, eggs and milk into a smooth batter.", Position: 1},
			{Description: "Rest the batter for ten minutes.", Position: 2},
			{Description: "Fry thin layers in a buttered pan until golden.", Position: 3},
		},
	})
	return err
}
