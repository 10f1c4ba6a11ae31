package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/pantry/app/domain"
	"github.com/shashiranjanraj/pantry/app/repositories"
	"github.com/shashiranjanraj/pantry/app/repositories/memory"
	_ "github.com/shashiranjanraj/pantry/database/migrations"
	"github.com/shashiranjanraj/pantry/pkg/database"
	"github.com/shashiranjanraj/pantry/pkg/migration"
)

// opener builds the repositories and transactor a fixture runs on.
type opener func(t *testing.T) (domain.Repositories, domain.Transactor)

func openMemory(*testing.T) (domain.Repositories, domain.Transactor) {
	store := memory.NewStore()
	return store.Repositories(), store
}

func openSQLite(t *testing.T) (domain.Repositories, domain.Transactor) {
	t.Helper()
	db, err := database.Open("sqlite", ":memory:")
	require.NoError(t, err)
	_, err = migration.New(db).Run()
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return repositories.New(db), repositories.NewTransactor(db)
}

var backends = []struct {
	name string
	open opener
}{
	{"memory", openMemory},
	{"sqlite", openSQLite},
}

var errLogWrite = errors.New("recipe log write failed")

type failingLogs struct {
	domain.RecipeLogRepository
}

func (failingLogs) Append(context.Context, domain.RecipeLog) (domain.RecipeLog, error) {
	return domain.RecipeLog{}, errLogWrite
}

// failingLogsTx runs transactions whose log writes always fail.
type failingLogsTx struct {
	domain.Transactor
}

func (t failingLogsTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context, repos domain.Repositories) error) error {
	return t.Transactor.WithinTransaction(ctx, func(ctx context.Context, repos domain.Repositories) error {
		repos.Logs = failingLogs{repos.Logs}
		return fn(ctx, repos)
	})
}

func withFailingLogs(open opener) opener {
	return func(t *testing.T) (domain.Repositories, domain.Transactor) {
		repos, tx := open(t)
		return repos, failingLogsTx{tx}
	}
}
