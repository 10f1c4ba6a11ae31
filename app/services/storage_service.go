package services

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/pantry/app/domain"
	"github.com/shashiranjanraj/pantry/pkg/logger"
	"github.com/shashiranjanraj/pantry/pkg/metrics"
)

type StorageService struct {
	*deps
}

func (s *StorageService) List(ctx context.Context) ([]domain.Storage, error) {
	return s.repos.Storage.List(ctx)
}

// Find returns the stock row of productID or a NotFound error.
func (s *StorageService) Find(ctx context.Context, productID uint) (domain.Storage, error) {
	st, ok, err := s.repos.Storage.FindByProduct(ctx, productID)
	if err != nil {
		return domain.Storage{}, err
	}
	if !ok {
		return domain.Storage{}, domain.NotFound("storage", productID)
	}
	return st, nil
}

// AddStock converts amount to the product's base unit and adds it to the
// stock row, creating the row on first use. Amounts are not capped.
func (s *StorageService) AddStock(ctx context.Context, productID uint, amount decimal.Decimal, unit string) (domain.Storage, error) {
	if !amount.IsPositive() {
		return domain.Storage{}, &domain.ValidationError{Kind: domain.ErrInvalidQuantity, Field: "quantity", Message: "must be more than 0"}
	}
	u := domain.Unit(strings.ToLower(strings.TrimSpace(unit)))
	if _, ok := u.Family(); !ok {
		if _, err := domain.ParseUnit(unit); err != nil {
			return domain.Storage{}, err
		}
	}

	var out domain.Storage
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context, repos domain.Repositories) error {
		p, err := repos.Products.Find(ctx, productID)
		if err != nil {
			return err
		}
		base, err := s.conv.ToBase(amount, u, p)
		if err != nil {
			return err
		}

		if err := repos.Storage.EnsureRow(ctx, domain.EmptyStorage(p)); err != nil {
			return err
		}
		current, ok, err := repos.Storage.FindByProductForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		if !ok {
			current = domain.EmptyStorage(p)
		}
		out, err = repos.Storage.Upsert(ctx, current.Add(base))
		return err
	})
	if err != nil {
		return domain.Storage{}, err
	}

	metrics.StockAdded.WithLabelValues(string(out.Unit())).Inc()
	logger.WithCtx(ctx).Info("stock added",
		"product_id", productID,
		"amount", amount.String(),
		"unit", u,
		"quantity", out.Quantity().String(),
	)
	s.events.Fire(ctx, EventStorageChanged, productID)
	return out, nil
}
