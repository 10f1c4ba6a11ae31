// Package memory keeps every repository in process memory. It backs tests
// and the demo mode of the CLI.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shashiranjanraj/pantry/app/domain"
)

type state struct {
	products map[uint]domain.Product
	recipes  map[uint]domain.Recipe
	storage  map[uint]domain.Storage
	logs     []domain.RecipeLog

	nextProduct, nextRecipe, nextLog uint
}

func newState() state {
	return state{
		products: map[uint]domain.Product{},
		recipes:  map[uint]domain.Recipe{},
		storage:  map[uint]domain.Storage{},
	}
}

func (s state) clone() state {
	out := s
	out.products = make(map[uint]domain.Product, len(s.products))
	for k, v := range s.products {
		out.products[k] = v
	}
	out.recipes = make(map[uint]domain.Recipe, len(s.recipes))
	for k, v := range s.recipes {
		out.recipes[k] = v
	}
	out.storage = make(map[uint]domain.Storage, len(s.storage))
	for k, v := range s.storage {
		out.storage[k] = v
	}
	out.logs = append([]domain.RecipeLog(nil), s.logs...)
	return out
}

// Store is a domain.Transactor whose transactions work on a copy of the
// state and swap it in on success.
type Store struct {
	mu    sync.Mutex
	state state
}

func NewStore() *Store {
	return &Store{state: newState()}
}

// Repositories returns repositories that apply each call directly.
func (s *Store) Repositories() domain.Repositories {
	return bind(func(fn func(*state) error) error {
		s.mu.Lock()
		defer s.mu.Unlock()
		return fn(&s.state)
	})
}

// WithinTransaction serialises transactions. Repositories handed to fn
// must not be used after it returns.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context, repos domain.Repositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := s.state.clone()
	repos := bind(func(f func(*state) error) error { return f(&tx) })
	if err := fn(ctx, repos); err != nil {
		return err
	}
	s.state = tx
	return nil
}

type runner func(fn func(*state) error) error

func bind(run runner) domain.Repositories {
	return domain.Repositories{
		Products: products{run},
		Recipes:  recipes{run},
		Storage:  storage{run},
		Logs:     logs{run},
	}
}

type products struct{ run runner }

func (r products) Find(_ context.Context, id uint) (domain.Product, error) {
	var out domain.Product
	err := r.run(func(st *state) error {
		p, ok := st.products[id]
		if !ok {
			return domain.NotFound("product", id)
		}
		out = p
		return nil
	})
	return out, err
}

func (r products) FindByIDs(_ context.Context, ids []uint) ([]domain.Product, error) {
	var out []domain.Product
	err := r.run(func(st *state) error {
		var missing []uint
		seen := map[uint]bool{}
		for _, id := range ids {
			if seen[id] {
				continue
			}
			seen[id] = true
			p, ok := st.products[id]
			if !ok {
				missing = append(missing, id)
				continue
			}
			out = append(out, p)
		}
		if len(missing) > 0 {
			sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
			return domain.NotFound("product", missing...)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r products) List(_ context.Context) ([]domain.Product, error) {
	var out []domain.Product
	_ = r.run(func(st *state) error {
		out = make([]domain.Product, 0, len(st.products))
		for _, p := range st.products {
			out = append(out, p)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out, nil
}

func (r products) Create(_ context.Context, p domain.Product) (domain.Product, error) {
	var out domain.Product
	err := r.run(func(st *state) error {
		if err := nameFree(st, p.Name(), 0); err != nil {
			return err
		}
		st.nextProduct++
		a := p.Attrs()
		a.ID = st.nextProduct
		created, err := domain.NewProduct(a)
		if err != nil {
			return err
		}
		st.products[created.ID()] = created
		out = created
		return nil
	})
	return out, err
}

func (r products) Update(_ context.Context, p domain.Product) (domain.Product, error) {
	err := r.run(func(st *state) error {
		if _, ok := st.products[p.ID()]; !ok {
			return domain.NotFound("product", p.ID())
		}
		if err := nameFree(st, p.Name(), p.ID()); err != nil {
			return err
		}
		st.products[p.ID()] = p
		return nil
	})
	if err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

func (r products) Delete(_ context.Context, id uint) error {
	return r.run(func(st *state) error {
		if _, ok := st.products[id]; !ok {
			return domain.NotFound("product", id)
		}
		for _, rec := range st.recipes {
			for _, pid := range rec.ProductIDs() {
				if pid == id {
					return fmt.Errorf("%w: product %d is used by recipe %d", domain.ErrConflict, id, rec.ID())
				}
			}
		}
		if _, ok := st.storage[id]; ok {
			return fmt.Errorf("%w: product %d has stock", domain.ErrConflict, id)
		}
		delete(st.products, id)
		return nil
	})
}

func nameFree(st *state, name string, except uint) error {
	for id, p := range st.products {
		if id != except && strings.EqualFold(p.Name(), name) {
			return fmt.Errorf("%w: product name %q is already taken", domain.ErrConflict, name)
		}
	}
	return nil
}

type recipes struct{ run runner }

func (r recipes) Find(_ context.Context, id uint) (domain.Recipe, error) {
	var out domain.Recipe
	err := r.run(func(st *state) error {
		rec, ok := st.recipes[id]
		if !ok {
			return domain.NotFound("recipe", id)
		}
		out = rec
		return nil
	})
	return out, err
}

func (r recipes) List(_ context.Context) ([]domain.Recipe, error) {
	var out []domain.Recipe
	_ = r.run(func(st *state) error {
		out = make([]domain.Recipe, 0, len(st.recipes))
		for _, rec := range st.recipes {
			out = append(out, rec)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out, nil
}

func (r recipes) Create(_ context.Context, rec domain.Recipe) (domain.Recipe, error) {
	var out domain.Recipe
	err := r.run(func(st *state) error {
		st.nextRecipe++
		a := rec.Attrs()
		a.ID = st.nextRecipe
		created, err := domain.NewRecipe(a)
		if err != nil {
			return err
		}
		st.recipes[created.ID()] = created
		out = created
		return nil
	})
	return out, err
}

func (r recipes) Update(_ context.Context, rec domain.Recipe) (domain.Recipe, error) {
	err := r.run(func(st *state) error {
		if _, ok := st.recipes[rec.ID()]; !ok {
			return domain.NotFound("recipe", rec.ID())
		}
		st.recipes[rec.ID()] = rec
		return nil
	})
	if err != nil {
		return domain.Recipe{}, err
	}
	return rec, nil
}

func (r recipes) Delete(_ context.Context, id uint) error {
	return r.run(func(st *state) error {
		if _, ok := st.recipes[id]; !ok {
			return domain.NotFound("recipe", id)
		}
		delete(st.recipes, id)
		return nil
	})
}

type storage struct{ run runner }

func (r storage) FindByProduct(_ context.Context, productID uint) (domain.Storage, bool, error) {
	var (
		out domain.Storage
		ok  bool
	)
	_ = r.run(func(st *state) error {
		out, ok = st.storage[productID]
		return nil
	})
	return out, ok, nil
}

// FindByProductForUpdate needs no lock beyond the one held by
// WithinTransaction.
func (r storage) FindByProductForUpdate(ctx context.Context, productID uint) (domain.Storage, bool, error) {
	return r.FindByProduct(ctx, productID)
}

func (r storage) List(_ context.Context) ([]domain.Storage, error) {
	var out []domain.Storage
	_ = r.run(func(st *state) error {
		out = make([]domain.Storage, 0, len(st.storage))
		for _, s := range st.storage {
			out = append(out, s)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID() < out[j].ProductID() })
	return out, nil
}

func (r storage) EnsureRow(_ context.Context, s domain.Storage) error {
	return r.run(func(st *state) error {
		if _, ok := st.storage[s.ProductID()]; !ok {
			st.storage[s.ProductID()] = s
		}
		return nil
	})
}

func (r storage) Upsert(_ context.Context, s domain.Storage) (domain.Storage, error) {
	_ = r.run(func(st *state) error {
		st.storage[s.ProductID()] = s
		return nil
	})
	return s, nil
}

type logs struct{ run runner }

func (r logs) Append(_ context.Context, log domain.RecipeLog) (domain.RecipeLog, error) {
	_ = r.run(func(st *state) error {
		st.nextLog++
		log.ID = st.nextLog
		if log.CompletedAt.IsZero() {
			log.CompletedAt = time.Now().UTC()
		}
		log.Ingredients = append([]domain.IngredientAttrs(nil), log.Ingredients...)
		st.logs = append(st.logs, log)
		return nil
	})
	return log, nil
}

func (r logs) ListByRecipe(_ context.Context, recipeID uint) ([]domain.RecipeLog, error) {
	out := []domain.RecipeLog{}
	_ = r.run(func(st *state) error {
		for _, l := range st.logs {
			if l.RecipeID == recipeID {
				out = append(out, l)
			}
		}
		return nil
	})
	return out, nil
}
