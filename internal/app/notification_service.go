// internal/app/notification_service.go
package app

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"seasonal_food_bot/internal/domain/holiday"
	"seasonal_food_bot/internal/domain/ingredient"
	"seasonal_food_bot/internal/domain/notification"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	ingredientMonthsAhead = 12
	ingredientNamesShown  = 3
	holidayFoodsShown     = 2
	holidayFoodFallback   = "맛있는 음식"

	defaultChannelName        = "기본 알림"
	defaultChannelDescription = "제철 알리미 기본 알림"
)

// SchedulePlan is everything one scheduling run needs. Now is read once by the caller
// and used for every date computation in the run.
type SchedulePlan struct {
	Setting     notification.Setting
	Ingredients []ingredient.Ingredient
	Holidays    []holiday.Resolved
	Now         time.Time
}

// ScheduleResult describes what a run did.
type ScheduleResult struct {
	BatchID   string
	Cancelled int
	Scheduled []notification.Scheduled
}

// NotificationService replaces the full set of pending notifications for one recipient.
type NotificationService interface {
	Reschedule(ctx context.Context, platform notification.Platform, plan SchedulePlan) (*ScheduleResult, error)
}

// NotificationServiceImpl serializes scheduling runs: cancel-then-schedule is one
// logical transaction and two runs must not interleave.
type NotificationServiceImpl struct {
	mu     sync.Mutex
	logger *logrus.Entry
}

func NewNotificationServiceImpl(logger *logrus.Entry) *NotificationServiceImpl {
	return &NotificationServiceImpl{logger: logger}
}

// Reschedule checks permission, ensures the delivery channel, cancels every pending
// notification and submits the newly built set in one batch.
func (s *NotificationServiceImpl) Reschedule(ctx context.Context, platform notification.Platform, plan SchedulePlan) (*ScheduleResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := &ScheduleResult{BatchID: uuid.NewString()}
	log := s.logger.WithField("batch_id", result.BatchID)

	// With every reminder off the run only clears the pending set, which needs no permission.
	if plan.Setting.AnyEnabled() {
		if err := ensurePermission(ctx, platform); err != nil {
			log.WithError(err).Warn("Scheduling aborted: notification permission not granted")
			return nil, err
		}
		if err := platform.CreateChannel(ctx, notification.DefaultChannelID, defaultChannelName, defaultChannelDescription); err != nil {
			log.WithError(err).Warn("Could not create delivery channel, continuing")
		}
	}

	pending, err := platform.ListPending(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to list pending notifications")
		return nil, fmt.Errorf("failed to list pending notifications: %w", err)
	}
	ids := make([]int, 0, len(pending))
	for _, p := range pending {
		ids = append(ids, p.ID)
	}
	if err := platform.Cancel(ctx, ids); err != nil {
		log.WithError(err).Error("Failed to cancel pending notifications")
		return nil, fmt.Errorf("failed to cancel pending notifications: %w", err)
	}
	result.Cancelled = len(ids)

	result.Scheduled = BuildNotifications(plan)
	if len(result.Scheduled) == 0 {
		log.WithField("cancelled", result.Cancelled).Info("No notifications generated")
		return result, nil
	}

	if err := platform.Schedule(ctx, result.BatchID, result.Scheduled); err != nil {
		log.WithError(err).Error("Failed to schedule notifications")
		return nil, fmt.Errorf("failed to schedule notifications: %w", err)
	}
	log.WithFields(logrus.Fields{
		"cancelled": result.Cancelled,
		"scheduled": len(result.Scheduled),
	}).Info("Notifications scheduled")
	return result, nil
}

func ensurePermission(ctx context.Context, platform notification.Platform) error {
	state, err := platform.Permission(ctx)
	if err != nil {
		return fmt.Errorf("failed to check notification permission: %w", err)
	}
	if state == notification.PermissionPrompt {
		state, err = platform.RequestPermission(ctx)
		if err != nil {
			return fmt.Errorf("failed to request notification permission: %w", err)
		}
	}
	if state != notification.PermissionGranted {
		return notification.ErrPermissionDenied
	}
	return nil
}

// BuildNotifications runs both generators. It is pure: the same plan always yields the same list.
func BuildNotifications(plan SchedulePlan) []notification.Scheduled {
	out := BuildIngredientNotifications(plan.Setting.Ingredient, plan.Ingredients, plan.Now)
	return append(out, BuildHolidayNotifications(plan.Setting.Holiday, plan.Holidays, plan.Now)...)
}

// ingredientTarget returns the fire time for month offset i. A day missing from the
// target month is clamped to the month's last day.
func ingredientTarget(s notification.IngredientSetting, now time.Time, i int) time.Time {
	loc := now.Location()
	month := now.Month() + time.Month(i)
	target := s.Time.On(now.Year(), month, s.Day, loc)
	expected := time.Date(now.Year(), month, 1, 0, 0, 0, 0, loc).Month()
	if target.Month() != expected {
		// Day 0 of the following month is the last day of the target month.
		target = s.Time.On(now.Year(), month+1, 0, loc)
	}
	return target
}

// BuildIngredientNotifications announces, for each of the next 12 monthly reminder
// dates, the ingredients entering season that month.
func BuildIngredientNotifications(s notification.IngredientSetting, items []ingredient.Ingredient, now time.Time) []notification.Scheduled {
	if !s.Enabled {
		return nil
	}
	var out []notification.Scheduled
	for i := 0; i < ingredientMonthsAhead; i++ {
		target := ingredientTarget(s, now, i)
		if target.Before(now) {
			continue
		}

		month := int(target.Month())
		fresh := ingredient.NewlyInSeason(items, month)
		if len(fresh) == 0 {
			continue
		}

		shown := fresh
		if len(shown) > ingredientNamesShown {
			shown = shown[:ingredientNamesShown]
		}
		names := make([]string, len(shown))
		for j, it := range shown {
			names[j] = it.Name
		}
		joined := strings.Join(names, ", ")

		var body string
		if len(fresh) > ingredientNamesShown {
			body = fmt.Sprintf("%s 등 %d가지가 제철이에요.", joined, len(fresh))
		} else {
			body = fmt.Sprintf("%s이(가) 제철이에요.", joined)
		}

		out = append(out, notification.Scheduled{
			ID:      notification.IngredientIDBase + i,
			Kind:    notification.KindIngredient,
			Title:   fmt.Sprintf("%d월의 제철 식재료 🥦", month),
			Body:    fmt.Sprintf("%d월에는 %s", month, body),
			FireAt:  target,
			Payload: notification.Payload{Type: notification.KindIngredient, Month: month},
		})
	}
	return out
}

// BuildHolidayNotifications reminds DaysBefore days ahead of each resolved holiday.
// Ids follow the holiday's position in the list.
func BuildHolidayNotifications(s notification.HolidaySetting, holidays []holiday.Resolved, now time.Time) []notification.Scheduled {
	if !s.Enabled {
		return nil
	}
	loc := now.Location()
	var out []notification.Scheduled
	for idx, h := range holidays {
		if h.SolarDate.IsZero() {
			continue
		}
		y, m, d := h.SolarDate.In(loc).Date()
		fireAt := s.Time.On(y, m, d-s.DaysBefore, loc)
		if !fireAt.After(now) {
			continue
		}

		foods := strings.Join(h.FoodNames(holidayFoodsShown), ", ")
		if foods == "" {
			foods = holidayFoodFallback
		}
		out = append(out, notification.Scheduled{
			ID:      notification.HolidayIDBase + idx,
			Kind:    notification.KindHoliday,
			Title:   fmt.Sprintf("곧 %s입니다 🌕", h.Name),
			Body:    fmt.Sprintf("%s에는 %s을(를) 먹어요.", h.Name, foods),
			FireAt:  fireAt,
			Payload: notification.Payload{Type: notification.KindHoliday, Name: h.Name},
		})
	}
	return out
}
