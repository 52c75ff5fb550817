// internal/infra/scheduler/scheduler.go
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"

	"seasonal_food_bot/internal/domain/notification"
	"seasonal_food_bot/internal/domain/telegram"
	itelegram "seasonal_food_bot/internal/infra/telegram"
)

const (
	dispatchBatchSize = 200
	dispatchTimeout   = 1 * time.Minute
	refreshTimeout    = 10 * time.Minute

	maxDeliveryAttempts = 5
	retryBaseDelay      = 5 * time.Minute
	retryMaxDelay       = 2 * time.Hour
)

// Refresher rebuilds the schedule of every eligible chat.
type Refresher interface {
	RefreshAll(ctx context.Context) error
}

// NotificationScheduler runs the two cron jobs: delivering due notifications and the
// daily schedule refresh.
type NotificationScheduler struct {
	cronEngine       *cron.Cron
	repo             notification.Repository
	client           telegram.Client
	refresher        Refresher
	logger           *logrus.Entry
	clock            func() time.Time
	cronSpecDispatch string
	cronSpecRefresh  string
}

func NewNotificationScheduler(
	repo notification.Repository,
	client telegram.Client,
	refresher Refresher,
	location *time.Location,
	logger *logrus.Entry,
	cronSpecDispatch string, // e.g., "* * * * *" (every minute)
	cronSpecRefresh string, // e.g., "0 4 * * *" (04:00 daily)
) *NotificationScheduler {
	return &NotificationScheduler{
		cronEngine:       cron.New(cron.WithLocation(location)),
		repo:             repo,
		client:           client,
		refresher:        refresher,
		logger:           logger,
		clock:            time.Now,
		cronSpecDispatch: cronSpecDispatch,
		cronSpecRefresh:  cronSpecRefresh,
	}
}

// Start registers both jobs and starts the cron engine.
func (s *NotificationScheduler) Start() error {
	s.logger.Info("Starting notification scheduler...")

	_, err := s.cronEngine.AddFunc(s.cronSpecDispatch, func() {
		ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
		defer cancel()
		if _, err := s.DispatchDue(ctx); err != nil {
			s.logger.WithError(err).Error("Error during notification dispatch")
		}
	})
	if err != nil {
		return fmt.Errorf("could not add dispatch cron job: %w", err)
	}

	_, err = s.cronEngine.AddFunc(s.cronSpecRefresh, func() {
		s.logger.Info("Cron job triggered for schedule refresh.")
		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()
		if err := s.refresher.RefreshAll(ctx); err != nil {
			s.logger.WithError(err).Error("Error during schedule refresh")
		}
	})
	if err != nil {
		return fmt.Errorf("could not add refresh cron job: %w", err)
	}

	s.cronEngine.Start()
	s.logger.Info("Notification scheduler started with jobs.")
	return nil
}

// DispatchDue sends every pending notification whose fire time has come and removes
// the delivered ones. A failed send is postponed with a growing delay and dropped after
// maxDeliveryAttempts. When the chat can no longer be reached at all, every pending
// entry of that chat is dropped and its permission is set to denied.
func (s *NotificationScheduler) DispatchDue(ctx context.Context) (int, error) {
	now := s.clock()
	due, err := s.repo.ListDue(ctx, now, dispatchBatchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to list due notifications: %w", err)
	}
	if len(due) == 0 {
		return 0, nil
	}

	var (
		finished    []notification.Pending // delivered or given up
		unreachable []int64
		skip        = make(map[int64]bool)
		sent        int
	)

	for _, p := range due {
		if skip[p.ChatID] {
			continue
		}
		log := s.logger.WithFields(logrus.Fields{"chat_id": p.ChatID, "notification_id": p.ID, "batch_id": p.BatchID})

		err := s.client.SendMessage(p.ChatID, itelegram.FormatNotification(p), &telebot.SendOptions{})
		switch {
		case err == nil:
			sent++
			finished = append(finished, p)
			log.Debug("Notification delivered")
		case isUnreachable(err):
			log.WithError(err).Warn("Chat is unreachable, dropping its pending notifications")
			skip[p.ChatID] = true
			unreachable = append(unreachable, p.ChatID)
		case p.Attempts+1 >= maxDeliveryAttempts:
			log.WithError(err).WithField("attempts", p.Attempts+1).Error("Giving up on notification")
			finished = append(finished, p)
		default:
			retryAt := now.Add(retryDelay(p.Attempts))
			log.WithError(err).WithField("retry_at", retryAt).Warn("Failed to deliver notification, will retry")
			if err := s.repo.Postpone(ctx, p, retryAt); err != nil {
				log.WithError(err).Error("Failed to postpone notification")
			}
		}
	}

	if err := s.repo.DeleteDispatched(ctx, finished); err != nil {
		s.logger.WithError(err).Error("Failed to remove dispatched notifications")
	}
	for _, chatID := range unreachable {
		s.dropChat(ctx, chatID)
	}

	s.logger.WithFields(logrus.Fields{"due": len(due), "sent": sent, "unreachable": len(unreachable)}).Info("Notification dispatch finished")
	return sent, nil
}

func (s *NotificationScheduler) dropChat(ctx context.Context, chatID int64) {
	log := s.logger.WithField("chat_id", chatID)
	if err := s.repo.SetPermission(ctx, chatID, notification.PermissionDenied); err != nil {
		log.WithError(err).Error("Failed to revoke permission")
	}
	pending, err := s.repo.ListPending(ctx, chatID)
	if err != nil {
		log.WithError(err).Error("Failed to list pending notifications of unreachable chat")
		return
	}
	ids := make([]int, len(pending))
	for i, p := range pending {
		ids[i] = p.ID
	}
	if err := s.repo.DeletePending(ctx, chatID, ids); err != nil {
		log.WithError(err).Error("Failed to drop pending notifications of unreachable chat")
	}
}

// isUnreachable reports Telegram errors that no retry can fix.
func isUnreachable(err error) bool {
	for _, target := range unreachableErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

var unreachableErrors = []error{
	telebot.ErrBlockedByUser,
	telebot.ErrChatNotFound,
	telebot.ErrUserIsDeactivated,
	telebot.ErrKickedFromGroup,
	telebot.ErrKickedFromSuperGroup,
	telebot.ErrKickedFromChannel,
	telebot.ErrNotStartedByUser,
}

// retryDelay doubles from retryBaseDelay per earlier attempt, up to retryMaxDelay.
func retryDelay(attempts int) time.Duration {
	d := retryBaseDelay
	for i := 0; i < attempts && d < retryMaxDelay; i++ {
		d *= 2
	}
	if d > retryMaxDelay {
		d = retryMaxDelay
	}
	return d
}

func (s *NotificationScheduler) Stop() {
	s.logger.Info("Stopping notification scheduler...")
	ctx := s.cronEngine.Stop() // Stops the scheduler from adding new jobs, waits for running jobs.
	<-ctx.Done()
	s.logger.Info("Notification scheduler gracefully stopped.")
}
