package app

import (
	"context"
	"errors"
	"io"
	"sync"

	"seasonal_food_bot/internal/domain/holiday"
	"seasonal_food_bot/internal/domain/ingredient"
	"seasonal_food_bot/internal/domain/notification"
	"seasonal_food_bot/internal/domain/recipe"

	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

type fakePlatform struct {
	permission      notification.PermissionState
	afterRequest    notification.PermissionState
	channelErr      error
	pending         []notification.Pending
	permissionCalls int
	requestCalls    int
	channelCalls    int
	cancelCalls     int
	scheduleCalls   int
	cancelled       []int
	scheduled       []notification.Scheduled
}

func (p *fakePlatform) Permission(ctx context.Context) (notification.PermissionState, error) {
	p.permissionCalls++
	return p.permission, nil
}

func (p *fakePlatform) RequestPermission(ctx context.Context) (notification.PermissionState, error) {
	p.requestCalls++
	p.permission = p.afterRequest
	return p.permission, nil
}

func (p *fakePlatform) CreateChannel(ctx context.Context, channelID, name, description string) error {
	p.channelCalls++
	return p.channelErr
}

func (p *fakePlatform) ListPending(ctx context.Context) ([]notification.Pending, error) {
	return p.pending, nil
}

func (p *fakePlatform) Cancel(ctx context.Context, ids []int) error {
	p.cancelCalls++
	p.cancelled = append(p.cancelled, ids...)
	p.pending = nil
	return nil
}

func (p *fakePlatform) Schedule(ctx context.Context, batchID string, batch []notification.Scheduled) error {
	p.scheduleCalls++
	p.scheduled = append([]notification.Scheduled(nil), batch...)
	for _, s := range batch {
		p.pending = append(p.pending, notification.Pending{Scheduled: s, BatchID: batchID})
	}
	return nil
}

type fakePlatforms struct {
	mu         sync.Mutex
	byChat     map[int64]*fakePlatform
	recorded   map[int64]notification.PermissionState
	newDefault func() *fakePlatform
}

func newFakePlatforms(newDefault func() *fakePlatform) *fakePlatforms {
	return &fakePlatforms{
		byChat:     make(map[int64]*fakePlatform),
		recorded:   make(map[int64]notification.PermissionState),
		newDefault: newDefault,
	}
}

func (f *fakePlatforms) ForChat(chatID int64) notification.Platform {
	return f.get(chatID)
}

func (f *fakePlatforms) get(chatID int64) *fakePlatform {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byChat[chatID]
	if !ok {
		p = f.newDefault()
		f.byChat[chatID] = p
	}
	return p
}

func (f *fakePlatforms) RecordPermission(ctx context.Context, chatID int64, state notification.PermissionState) error {
	f.recorded[chatID] = state
	f.get(chatID).permission = state
	return nil
}

type fakeSettingsRepo struct {
	payloads map[int64][]byte
}

func newFakeSettingsRepo() *fakeSettingsRepo {
	return &fakeSettingsRepo{payloads: make(map[int64][]byte)}
}

func (r *fakeSettingsRepo) GetPayload(ctx context.Context, chatID int64, storageKey string) ([]byte, error) {
	p, ok := r.payloads[chatID]
	if !ok {
		return nil, notification.ErrSettingsNotFound
	}
	return p, nil
}

func (r *fakeSettingsRepo) PutPayload(ctx context.Context, chatID int64, storageKey string, payload []byte) error {
	r.payloads[chatID] = payload
	return nil
}

func (r *fakeSettingsRepo) ListChatIDs(ctx context.Context, storageKey string) ([]int64, error) {
	ids := make([]int64, 0, len(r.payloads))
	for id := range r.payloads {
		ids = append(ids, id)
	}
	return ids, nil
}

var errCatalogDown = errors.New("catalog down")

type fakeCatalog struct {
	ingredients []ingredient.Ingredient
	holidays    []holiday.Holiday
	recipes     []recipe.Recipe
	mapping     recipe.DishMapping
	down        bool
}

func (c *fakeCatalog) Ingredients(ctx context.Context) ([]ingredient.Ingredient, error) {
	if c.down {
		return nil, errCatalogDown
	}
	return c.ingredients, nil
}

func (c *fakeCatalog) Holidays(ctx context.Context) ([]holiday.Holiday, error) {
	if c.down {
		return nil, errCatalogDown
	}
	return c.holidays, nil
}

func (c *fakeCatalog) Recipes(ctx context.Context) ([]recipe.Recipe, error) {
	if c.down {
		return nil, errCatalogDown
	}
	return c.recipes, nil
}

func (c *fakeCatalog) DishMapping(ctx context.Context) (recipe.DishMapping, error) {
	if c.down {
		return nil, errCatalogDown
	}
	return c.mapping, nil
}
