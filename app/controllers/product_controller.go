package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/pantry/app/resources"
	"github.com/shashiranjanraj/pantry/app/services"
	"github.com/shashiranjanraj/pantry/pkg/resource"
	"github.com/shashiranjanraj/pantry/pkg/response"
)

type ProductController struct {
	service *services.ProductService
}

func NewProductController(s *services.ProductService) *ProductController {
	return &ProductController{service: s}
}

type storeProductRequest struct {
	Name    string           `json:"name"    validate:"required,max=255"`
	Unit    string           `json:"unit"    validate:"required"`
	Density *decimal.Decimal `json:"density" validate:"nullable,gt=0"`
}

type updateProductRequest struct {
	Name    *string          `json:"name"    validate:"nullable,max=255"`
	Unit    *string          `json:"unit"`
	Density *decimal.Decimal `json:"density" validate:"nullable,gt=0"`
}

func (c *ProductController) Index(w http.ResponseWriter, r *http.Request) {
	products, err := c.service.List(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, resource.CollectionOf(resources.ProductResource{}, products))
}

func (c *ProductController) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	p, err := c.service.Find(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, resource.New(resources.ProductResource{}, p))
}

func (c *ProductController) Store(w http.ResponseWriter, r *http.Request) {
	var req storeProductRequest
	if !decode(w, r, &req) {
		return
	}
	p, err := c.service.Create(r.Context(), services.ProductInput{Name: req.Name, Unit: req.Unit, Density: req.Density})
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Created(w, resource.New(resources.ProductResource{}, p))
}

func (c *ProductController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var req updateProductRequest
	if !decode(w, r, &req) {
		return
	}
	p, err := c.service.Update(r.Context(), id, services.ProductUpdate{Name: req.Name, Unit: req.Unit, Density: req.Density})
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, resource.New(resources.ProductResource{}, p))
}

func (c *ProductController) Destroy(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	if err := c.service.Delete(r.Context(), id); err != nil {
		fail(w, r, err)
		return
	}
	response.NoContent(w)
}
