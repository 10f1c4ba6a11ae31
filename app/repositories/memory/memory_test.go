package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/pantry/app/domain"
	"github.com/shashiranjanraj/pantry/app/repositories/memory"
)

func TestStore_ProductsAndStorage(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repos := store.Repositories()

	p, err := domain.NewProduct(domain.ProductAttrs{Name: "eggs", Unit: domain.Count})
	require.NoError(t, err)
	eggs, err := repos.Products.Create(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, uint(1), eggs.ID())

	_, err = repos.Products.Create(ctx, p)
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = repos.Storage.Upsert(ctx, domain.EmptyStorage(eggs).Add(decimal.NewFromInt(6)))
	require.NoError(t, err)
	require.NoError(t, repos.Storage.EnsureRow(ctx, domain.EmptyStorage(eggs)))
	row, ok, err := repos.Storage.FindByProduct(ctx, eggs.ID())
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, decimal.NewFromInt(6).Equal(row.Quantity()))
	assert.ErrorIs(t, repos.Products.Delete(ctx, eggs.ID()), domain.ErrConflict)

	_, err = repos.Products.FindByIDs(ctx, []uint{1, 5, 4})
	var nf *domain.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, []uint{4, 5}, nf.IDs)
}

func TestStore_TransactionIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repos := store.Repositories()

	p, err := domain.NewProduct(domain.ProductAttrs{Name: "eggs", Unit: domain.Count})
	require.NoError(t, err)
	eggs, err := repos.Products.Create(ctx, p)
	require.NoError(t, err)

	boom := errors.New("boom")
	err = store.WithinTransaction(ctx, func(ctx context.Context, tx domain.Repositories) error {
		_, err := tx.Storage.Upsert(ctx, domain.EmptyStorage(eggs).Add(decimal.NewFromInt(6)))
		require.NoError(t, err)
		_, ok, _ := tx.Storage.FindByProduct(ctx, eggs.ID())
		assert.True(t, ok, "writes are visible inside the transaction")
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, ok, err := repos.Storage.FindByProduct(ctx, eggs.ID())
	require.NoError(t, err)
	assert.False(t, ok)

	err = store.WithinTransaction(ctx, func(ctx context.Context, tx domain.Repositories) error {
		_, err := tx.Storage.Upsert(ctx, domain.EmptyStorage(eggs).Add(decimal.NewFromInt(6)))
		return err
	})
	require.NoError(t, err)
	_, ok, _ = repos.Storage.FindByProduct(ctx, eggs.ID())
	assert.True(t, ok)
}
