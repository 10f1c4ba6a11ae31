package controllers

import (
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/pantry/app/domain"
	"github.com/shashiranjanraj/pantry/app/resources"
	"github.com/shashiranjanraj/pantry/app/services"
	"github.com/shashiranjanraj/pantry/pkg/resource"
	"github.com/shashiranjanraj/pantry/pkg/response"
)

type RecipeController struct {
	recipes *services.RecipeService
	tracker *services.TrackerService
}

func NewRecipeController(recipes *services.RecipeService, tracker *services.TrackerService) *RecipeController {
	return &RecipeController{recipes: recipes, tracker: tracker}
}

type ingredientRequest struct {
	ProductID uint            `json:"product_id" validate:"required"`
	Amount    decimal.Decimal `json:"amount"     validate:"required,gt=0,lte=999"`
	Unit      string          `json:"unit"       validate:"required"`
	Position  int             `json:"position"   validate:"nullable,gte=0"`
}

type stepRequest struct {
	Description string `json:"description" validate:"required,between=3,1000"`
	Position    int    `json:"position"    validate:"required,between=1,999"`
}

type storeRecipeRequest struct {
	Name        string              `json:"name"        validate:"required,max=255"`
	Description string              `json:"description" validate:"required"`
	Servings    int                 `json:"servings"    validate:"required,between=1,999"`
	PrepTime    decimal.Decimal     `json:"prep_time"   validate:"required,gt=0,lte=999"`
	Ingredients []ingredientRequest `json:"ingredients" validate:"required,dive"`
	Steps       []stepRequest       `json:"steps"       validate:"required,dive"`
}

type updateRecipeRequest struct {
	Name        *string             `json:"name"        validate:"nullable,max=255"`
	Description *string             `json:"description"`
	Servings    *int                `json:"servings"    validate:"nullable,between=1,999"`
	PrepTime    *decimal.Decimal    `json:"prep_time"   validate:"nullable,gt=0,lte=999"`
	Ingredients []ingredientRequest `json:"ingredients" validate:"nullable,dive"`
	Steps       []stepRequest       `json:"steps"       validate:"nullable,dive"`
}

type completeRecipeRequest struct {
	Ingredients []ingredientRequest `json:"ingredients" validate:"nullable,dive"`
}

func ingredientAttrs(in []ingredientRequest) []domain.IngredientAttrs {
	if in == nil {
		return nil
	}
	out := make([]domain.IngredientAttrs, len(in))
	for i, ing := range in {
		out[i] = domain.IngredientAttrs{
			ProductID: ing.ProductID,
			Amount:    ing.Amount,
			Unit:      domain.Unit(ing.Unit),
			Position:  ing.Position,
		}
	}
	return out
}

func stepAttrs(in []stepRequest) []domain.StepAttrs {
	if in == nil {
		return nil
	}
	out := make([]domain.StepAttrs, len(in))
	for i, s := range in {
		out[i] = domain.StepAttrs{Description: s.Description, Position: s.Position}
	}
	return out
}

func (c *RecipeController) Index(w http.ResponseWriter, r *http.Request) {
	recipes, err := c.recipes.List(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, resource.CollectionOf(resources.RecipeResource{}, recipes))
}

func (c *RecipeController) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	rec, err := c.recipes.Find(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, resource.New(resources.RecipeResource{}, rec))
}

func (c *RecipeController) Store(w http.ResponseWriter, r *http.Request) {
	var req storeRecipeRequest
	if !decode(w, r, &req) {
		return
	}
	rec, err := c.recipes.Create(r.Context(), domain.RecipeAttrs{
		Name:        req.Name,
		Description: req.Description,
		Ingredients: ingredientAttrs(req.Ingredients),
		Steps:       stepAttrs(req.Steps),
		Servings:    req.Servings,
		PrepTime:    req.PrepTime,
	})
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Created(w, resource.New(resources.RecipeResource{}, rec))
}

func (c *RecipeController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var req updateRecipeRequest
	if !decode(w, r, &req) {
		return
	}
	rec, err := c.recipes.Update(r.Context(), id, domain.RecipePatch{
		Name:        req.Name,
		Description: req.Description,
		Ingredients: ingredientAttrs(req.Ingredients),
		Steps:       stepAttrs(req.Steps),
		Servings:    req.Servings,
		PrepTime:    req.PrepTime,
	})
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, resource.New(resources.RecipeResource{}, rec))
}

func (c *RecipeController) Destroy(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	if err := c.recipes.Delete(r.Context(), id); err != nil {
		fail(w, r, err)
		return
	}
	response.NoContent(w)
}

// Available lists the recipes that can be cooked now, or every recipe
// with its gaps when ?all=true.
func (c *RecipeController) Available(w http.ResponseWriter, r *http.Request) {
	all, _ := strconv.ParseBool(r.URL.Query().Get("all"))
	reports, err := c.tracker.ListAvailableRecipes(r.Context(), all)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, resource.CollectionOf(resources.RecipeReportResource{}, reports))
}

func (c *RecipeController) Availability(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	a, err := c.tracker.EvaluateAvailability(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, resource.New(resources.AvailabilityResource{}, a))
}

// Complete consumes the recipe's ingredients, or the ones in the body when
// given, and logs the completion.
func (c *RecipeController) Complete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var req completeRecipeRequest
	if r.ContentLength != 0 && !decode(w, r, &req) {
		return
	}
	done, err := c.tracker.CompleteRecipe(r.Context(), id, ingredientAttrs(req.Ingredients))
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Created(w, resource.New(resources.CompletionResource{}, done))
}

func (c *RecipeController) Logs(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	logs, err := c.recipes.Logs(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, resource.CollectionOf(resources.RecipeLogResource{}, logs))
}
