// internal/app/settings_service.go
package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"seasonal_food_bot/internal/domain/holiday"
	"seasonal_food_bot/internal/domain/ingredient"
	"seasonal_food_bot/internal/domain/notification"
	"seasonal_food_bot/internal/domain/recipe"

	"github.com/sirupsen/logrus"
)

// ErrInvalidSetting is returned by Save for out-of-range values.
var ErrInvalidSetting = errors.New("invalid notification setting")

const maxDaysBefore = 30

// Catalog is the read-only reference data source.
type Catalog interface {
	Ingredients(ctx context.Context) ([]ingredient.Ingredient, error)
	Holidays(ctx context.Context) ([]holiday.Holiday, error)
	Recipes(ctx context.Context) ([]recipe.Recipe, error)
	DishMapping(ctx context.Context) (recipe.DishMapping, error)
}

// Platforms hands out the notification platform of a chat and records permission answers.
type Platforms interface {
	ForChat(chatID int64) notification.Platform
	RecordPermission(ctx context.Context, chatID int64, state notification.PermissionState) error
}

type SettingsService struct {
	repo      notification.SettingsRepository
	catalog   Catalog
	platforms Platforms
	notifier  NotificationService
	clock     func() time.Time
	location  *time.Location
	logger    *logrus.Entry
}

func NewSettingsService(
	repo notification.SettingsRepository,
	catalog Catalog,
	platforms Platforms,
	notifier NotificationService,
	clock func() time.Time,
	location *time.Location,
	logger *logrus.Entry,
) *SettingsService {
	if clock == nil {
		clock = time.Now
	}
	if location == nil {
		location = time.Local
	}
	return &SettingsService{
		repo:      repo,
		catalog:   catalog,
		platforms: platforms,
		notifier:  notifier,
		clock:     clock,
		location:  location,
		logger:    logger,
	}
}

// Load returns the chat's settings merged over the defaults.
func (s *SettingsService) Load(ctx context.Context, chatID int64) (notification.Setting, error) {
	payload, err := s.repo.GetPayload(ctx, chatID, notification.SettingsStorageKey)
	if err != nil {
		if errors.Is(err, notification.ErrSettingsNotFound) {
			return notification.DefaultSetting(), nil
		}
		return notification.DefaultSetting(), fmt.Errorf("failed to load settings for chat %d: %w", chatID, err)
	}
	setting, err := notification.MergeSetting(payload)
	if err != nil {
		s.logger.WithError(err).WithField("chat_id", chatID).Warn("Stored settings are unreadable, using defaults")
		return setting, nil
	}
	return setting, nil
}

func validate(setting notification.Setting) error {
	if setting.Ingredient.Day < 1 || setting.Ingredient.Day > 31 {
		return fmt.Errorf("%w: day of month must be 1..31, got %d", ErrInvalidSetting, setting.Ingredient.Day)
	}
	if setting.Holiday.DaysBefore < 0 || setting.Holiday.DaysBefore > maxDaysBefore {
		return fmt.Errorf("%w: days before must be 0..%d, got %d", ErrInvalidSetting, maxDaysBefore, setting.Holiday.DaysBefore)
	}
	for _, tod := range []notification.TimeOfDay{setting.Ingredient.Time, setting.Holiday.Time} {
		if tod.Hour < 0 || tod.Hour > 23 || tod.Minute < 0 || tod.Minute > 59 {
			return fmt.Errorf("%w: time of day %s", ErrInvalidSetting, tod)
		}
	}
	return nil
}

// Save persists the setting wholesale and then rebuilds the chat's schedule. A
// scheduling failure (e.g. notification.ErrPermissionDenied) is returned, but the new
// setting stays persisted.
func (s *SettingsService) Save(ctx context.Context, chatID int64, setting notification.Setting) (*ScheduleResult, error) {
	if err := validate(setting); err != nil {
		return nil, err
	}
	payload, err := json.Marshal(setting)
	if err != nil {
		return nil, fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := s.repo.PutPayload(ctx, chatID, notification.SettingsStorageKey, payload); err != nil {
		return nil, fmt.Errorf("failed to save settings for chat %d: %w", chatID, err)
	}
	s.logger.WithField("chat_id", chatID).Info("Settings saved")

	return s.Reschedule(ctx, chatID, setting)
}

// Reschedule runs the two-step pipeline for one chat: resolve holiday dates, then
// build and submit the notifications.
func (s *SettingsService) Reschedule(ctx context.Context, chatID int64, setting notification.Setting) (*ScheduleResult, error) {
	now := s.clock().In(s.location)
	log := s.logger.WithField("chat_id", chatID)

	ingredients, err := s.catalog.Ingredients(ctx)
	if err != nil {
		log.WithError(err).Error("Ingredient data unavailable, scheduling without it")
		ingredients = nil
	}
	holidays, err := s.catalog.Holidays(ctx)
	if err != nil {
		log.WithError(err).Error("Holiday data unavailable, scheduling without it")
		holidays = nil
	}

	plan := SchedulePlan{
		Setting:     setting,
		Ingredients: ingredients,
		Holidays:    holiday.ResolveAll(holidays, now),
		Now:         now,
	}
	return s.notifier.Reschedule(ctx, s.platforms.ForChat(chatID), plan)
}

// Permission reports the chat's notification permission without prompting.
func (s *SettingsService) Permission(ctx context.Context, chatID int64) (notification.PermissionState, error) {
	return s.platforms.ForChat(chatID).Permission(ctx)
}

// AnswerPermission stores the user's answer to the permission prompt. On a grant the
// stored settings are scheduled right away.
func (s *SettingsService) AnswerPermission(ctx context.Context, chatID int64, granted bool) error {
	state := notification.PermissionDenied
	if granted {
		state = notification.PermissionGranted
	}
	if err := s.platforms.RecordPermission(ctx, chatID, state); err != nil {
		return fmt.Errorf("failed to record permission for chat %d: %w", chatID, err)
	}
	if !granted {
		return nil
	}

	setting, err := s.Load(ctx, chatID)
	if err != nil {
		return err
	}
	if !setting.AnyEnabled() {
		return nil
	}
	_, err = s.Reschedule(ctx, chatID, setting)
	return err
}

// RefreshAll rebuilds the schedule of every chat that has permission and at least one
// reminder on, so the twelve month window keeps moving forward. Failures of single
// chats are logged and skipped.
func (s *SettingsService) RefreshAll(ctx context.Context) error {
	chatIDs, err := s.repo.ListChatIDs(ctx, notification.SettingsStorageKey)
	if err != nil {
		return fmt.Errorf("failed to list chats with settings: %w", err)
	}

	refreshed := 0
	for _, chatID := range chatIDs {
		log := s.logger.WithField("chat_id", chatID)

		setting, err := s.Load(ctx, chatID)
		if err != nil {
			log.WithError(err).Error("Failed to load settings for refresh")
			continue
		}
		if !setting.AnyEnabled() {
			continue
		}
		state, err := s.platforms.ForChat(chatID).Permission(ctx)
		if err != nil {
			log.WithError(err).Error("Failed to read permission for refresh")
			continue
		}
		if state != notification.PermissionGranted {
			continue
		}
		if _, err := s.Reschedule(ctx, chatID, setting); err != nil {
			log.WithError(err).Error("Failed to refresh schedule")
			continue
		}
		refreshed++
	}
	s.logger.WithFields(logrus.Fields{"chats": len(chatIDs), "refreshed": refreshed}).Info("Schedule refresh finished")
	return nil
}
