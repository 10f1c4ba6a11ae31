package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/pantry/app/domain"
	"github.com/shashiranjanraj/pantry/pkg/logger"
)

// ProductInput is the payload of a new product. Unit may be any allowed
// unit; the product is stored in the base unit of its family.
type ProductInput struct {
	Name    string
	Unit    string
	Density *decimal.Decimal
}

// ProductUpdate lists the fields a product update may touch.
type ProductUpdate struct {
	Name    *string
	Unit    *string
	Density *decimal.Decimal
}

type ProductService struct {
	*deps
}

func (s *ProductService) List(ctx context.Context) ([]domain.Product, error) {
	return s.repos.Products.List(ctx)
}

func (s *ProductService) Find(ctx context.Context, id uint) (domain.Product, error) {
	return s.repos.Products.Find(ctx, id)
}

func (s *ProductService) Create(ctx context.Context, in ProductInput) (domain.Product, error) {
	unit, err := domain.BaseUnitOf(in.Unit)
	if err != nil {
		return domain.Product{}, err
	}
	attrs := domain.ProductAttrs{Name: in.Name, Unit: unit}
	if in.Density != nil {
		attrs.Density = decimal.NewNullDecimal(*in.Density)
	}
	p, err := domain.NewProduct(attrs)
	if err != nil {
		return domain.Product{}, err
	}

	p, err = s.repos.Products.Create(ctx, p)
	if err != nil {
		return domain.Product{}, err
	}
	logger.WithCtx(ctx).Info("product created", "product_id", p.ID(), "unit", p.Unit())
	s.events.Fire(ctx, EventProductChanged, p.ID())
	return p, nil
}

// Update renames a product or changes its density. The unit may be
// repeated but never changed.
func (s *ProductService) Update(ctx context.Context, id uint, in ProductUpdate) (domain.Product, error) {
	patch := domain.ProductPatch{Name: in.Name, Density: in.Density}
	if in.Unit != nil {
		unit, err := domain.BaseUnitOf(*in.Unit)
		if err != nil {
			return domain.Product{}, err
		}
		patch.Unit = &unit
	}

	var out domain.Product
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context, repos domain.Repositories) error {
		p, err := repos.Products.Find(ctx, id)
		if err != nil {
			return err
		}
		p, err = p.Apply(patch)
		if err != nil {
			return err
		}
		out, err = repos.Products.Update(ctx, p)
		return err
	})
	if err != nil {
		return domain.Product{}, err
	}
	s.events.Fire(ctx, EventProductChanged, id)
	return out, nil
}

func (s *ProductService) Delete(ctx context.Context, id uint) error {
	if err := s.repos.Products.Delete(ctx, id); err != nil {
		return err
	}
	logger.WithCtx(ctx).Info("product deleted", "product_id", id)
	s.events.Fire(ctx, EventProductChanged, id)
	return nil
}
