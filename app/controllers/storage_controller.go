package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/pantry/app/resources"
	"github.com/shashiranjanraj/pantry/app/services"
	"github.com/shashiranjanraj/pantry/pkg/resource"
	"github.com/shashiranjanraj/pantry/pkg/response"
)

type StorageController struct {
	service *services.StorageService
}

func NewStorageController(s *services.StorageService) *StorageController {
	return &StorageController{service: s}
}

type addStockRequest struct {
	ProductID uint            `json:"product_id" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity"   validate:"required,gt=0"`
	Unit      string          `json:"unit"       validate:"required,in=kg,g,l,ml,tablespoon,teaspoon,cup,count,pcs"`
}

func (c *StorageController) Index(w http.ResponseWriter, r *http.Request) {
	rows, err := c.service.List(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, resource.CollectionOf(resources.StorageResource{}, rows))
}

func (c *StorageController) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "product_id")
	if !ok {
		return
	}
	s, err := c.service.Find(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, resource.New(resources.StorageResource{}, s))
}

// Store adds stock to a product.
func (c *StorageController) Store(w http.ResponseWriter, r *http.Request) {
	var req addStockRequest
	if !decode(w, r, &req) {
		return
	}
	s, err := c.service.AddStock(r.Context(), req.ProductID, req.Quantity, req.Unit)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Created(w, resource.New(resources.StorageResource{}, s))
}
