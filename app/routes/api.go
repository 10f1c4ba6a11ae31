package routes

import (
	"github.com/shashiranjanraj/pantry/app/controllers"
	"github.com/shashiranjanraj/pantry/app/services"
	"github.com/shashiranjanraj/pantry/pkg/router"
)

// RegisterAPI mounts the /api routes backed by svc.
func RegisterAPI(r *router.Router, svc *services.Services) {
	products := controllers.NewProductController(svc.Products)
	recipes := controllers.NewRecipeController(svc.Recipes, svc.Tracker)
	storage := controllers.NewStorageController(svc.Storage)

	api := r.Group("/api")

	p := api.Group("/products")
	p.Get("", "products.index", products.Index)
	p.Post("", "products.store", products.Store)
	p.Get("/{id}", "products.show", products.Show)
	p.Patch("/{id}", "products.update", products.Update)
	p.Delete("/{id}", "products.destroy", products.Destroy)

	rc := api.Group("/recipes")
	rc.Get("", "recipes.index", recipes.Index)
	rc.Post("", "recipes.store", recipes.Store)
	rc.Get("/available", "recipes.available", recipes.Available)
	rc.Get("/{id}", "recipes.show", recipes.Show)
	rc.Patch("/{id}", "recipes.update", recipes.Update)
	rc.Delete("/{id}", "recipes.destroy", recipes.Destroy)
	rc.Get("/{id}/availability", "recipes.availability", recipes.Availability)
	rc.Post("/{id}/complete", "recipes.complete", recipes.Complete)
	rc.Get("/{id}/logs", "recipes.logs", recipes.Logs)

	s := api.Group("/storage")
	s.Get("", "storage.index", storage.Index)
	s.Post("", "storage.store", storage.Store)
	s.Get("/{product_id}", "storage.show", storage.Show)
}
