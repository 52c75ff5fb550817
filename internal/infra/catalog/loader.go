// internal/infra/catalog/loader.go
package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"seasonal_food_bot/internal/domain/holiday"
	"seasonal_food_bot/internal/domain/ingredient"
	"seasonal_food_bot/internal/domain/recipe"
)

// ErrDataUnavailable is returned when a reference file cannot be read or parsed.
var ErrDataUnavailable = errors.New("reference data unavailable")

const (
	IngredientsFile = "ingredients.json"
	HolidaysFile    = "holidays.json"
	RecipesFile     = "recipes.json"
	DishMappingFile = "dish_recipes.json"
)

// Files lists every reference file in load order.
var Files = []string{IngredientsFile, HolidaysFile, RecipesFile, DishMappingFile}

type cachedFile[T any] struct {
	mu       sync.RWMutex
	value    T
	loadedAt time.Time
	loaded   bool
}

// Loader serves the reference data from a directory. Each file is read at most once
// per TTL; the parsed value is shared and never mutated.
type Loader struct {
	dir    string
	ttl    time.Duration
	clock  func() time.Time
	logger *logrus.Entry

	ingredients cachedFile[[]ingredient.Ingredient]
	holidays    cachedFile[[]holiday.Holiday]
	recipes     cachedFile[[]recipe.Recipe]
	mapping     cachedFile[recipe.DishMapping]
}

func NewLoader(dir string, ttl time.Duration, logger *logrus.Entry) *Loader {
	return &Loader{dir: dir, ttl: ttl, clock: time.Now, logger: logger}
}

// readFile reads and decodes dir/name into a value of type T.
func readFile[T any](ctx context.Context, dir, name string) (T, error) {
	var v T
	if err := ctx.Err(); err != nil {
		return v, err
	}
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return v, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}
	if err := decode(name, data, &v); err != nil {
		return v, fmt.Errorf("%w: %w", ErrDataUnavailable, err)
	}
	return v, nil
}

// load returns the cached value while it is fresh and reloads it otherwise. A failed
// reload keeps serving the previous value if there is one.
func load[T any](ctx context.Context, l *Loader, c *cachedFile[T], name string) (T, error) {
	now := l.clock()

	c.mu.RLock()
	if c.loaded && now.Sub(c.loadedAt) < l.ttl {
		v := c.value
		c.mu.RUnlock()
		return v, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loaded && now.Sub(c.loadedAt) < l.ttl {
		return c.value, nil
	}

	v, err := readFile[T](ctx, l.dir, name)
	if err != nil {
		if c.loaded {
			l.logger.WithError(err).WithField("file", name).Warn("Reload failed, serving stale reference data")
			return c.value, nil
		}
		l.logger.WithError(err).WithField("file", name).Error("Failed to load reference data")
		return v, err
	}
	c.value, c.loadedAt, c.loaded = v, now, true
	l.logger.WithField("file", name).Debug("Reference data loaded")
	return v, nil
}

func (l *Loader) Ingredients(ctx context.Context) ([]ingredient.Ingredient, error) {
	return load(ctx, l, &l.ingredients, IngredientsFile)
}

func (l *Loader) Holidays(ctx context.Context) ([]holiday.Holiday, error) {
	return load(ctx, l, &l.holidays, HolidaysFile)
}

func (l *Loader) Recipes(ctx context.Context) ([]recipe.Recipe, error) {
	return load(ctx, l, &l.recipes, RecipesFile)
}

func (l *Loader) DishMapping(ctx context.Context) (recipe.DishMapping, error) {
	return load(ctx, l, &l.mapping, DishMappingFile)
}

// Snapshot is every reference file read in one pass.
type Snapshot struct {
	Ingredients []ingredient.Ingredient
	Holidays    []holiday.Holiday
	Recipes     []recipe.Recipe
	Mapping     recipe.DishMapping
}

// ReadAll reads the four files without caching. Every file is attempted; the returned
// error joins the failures.
func ReadAll(ctx context.Context, dir string) (*Snapshot, error) {
	var (
		s    Snapshot
		errs []error
		err  error
	)
	if s.Ingredients, err = readFile[[]ingredient.Ingredient](ctx, dir, IngredientsFile); err != nil {
		errs = append(errs, err)
	}
	if s.Holidays, err = readFile[[]holiday.Holiday](ctx, dir, HolidaysFile); err != nil {
		errs = append(errs, err)
	}
	if s.Recipes, err = readFile[[]recipe.Recipe](ctx, dir, RecipesFile); err != nil {
		errs = append(errs, err)
	}
	if s.Mapping, err = readFile[recipe.DishMapping](ctx, dir, DishMappingFile); err != nil {
		errs = append(errs, err)
	}
	return &s, errors.Join(errs...)
}

// IngredientDishes lists every popular dish named by an ingredient, in data order.
func (s *Snapshot) IngredientDishes() []string {
	var out []string
	for _, it := range s.Ingredients {
		out = append(out, it.PopularDishes()...)
	}
	return out
}

// HolidayDishes lists every food named by a holiday, in data order.
func (s *Snapshot) HolidayDishes() []string {
	var out []string
	for _, h := range s.Holidays {
		for _, f := range h.Details.Foods {
			out = append(out, f.Name)
		}
	}
	return out
}
