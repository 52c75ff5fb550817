// internal/infra/platform/local.go
package platform

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"seasonal_food_bot/internal/domain/notification"
)

// Prompter asks a chat for notification permission. The answer arrives later through
// Service.RecordPermission.
type Prompter interface {
	PromptPermission(ctx context.Context, chatID int64) error
}

// Service hands out the per-chat notification platform backed by the repository.
type Service struct {
	repo     notification.Repository
	prompter Prompter
	logger   *logrus.Entry
}

func NewService(repo notification.Repository, prompter Prompter, logger *logrus.Entry) *Service {
	return &Service{repo: repo, prompter: prompter, logger: logger}
}

func (s *Service) ForChat(chatID int64) notification.Platform {
	return &LocalNotifications{
		chatID:   chatID,
		repo:     s.repo,
		prompter: s.prompter,
		logger:   s.logger.WithField("chat_id", chatID),
	}
}

func (s *Service) RecordPermission(ctx context.Context, chatID int64, state notification.PermissionState) error {
	if err := s.repo.SetPermission(ctx, chatID, state); err != nil {
		return err
	}
	s.logger.WithFields(logrus.Fields{"chat_id": chatID, "permission": state}).Info("Notification permission recorded")
	return nil
}

// LocalNotifications is the notification platform of one chat. Pending entries live in
// the repository until the dispatcher delivers them.
type LocalNotifications struct {
	chatID   int64
	repo     notification.Repository
	prompter Prompter
	logger   *logrus.Entry
}

func (l *LocalNotifications) Permission(ctx context.Context) (notification.PermissionState, error) {
	return l.repo.GetPermission(ctx, l.chatID)
}

// RequestPermission sends the prompt when the chat was never asked. The state stays
// prompt until the user answers, so the current run treats it as not granted.
func (l *LocalNotifications) RequestPermission(ctx context.Context) (notification.PermissionState, error) {
	state, err := l.repo.GetPermission(ctx, l.chatID)
	if err != nil {
		return "", err
	}
	if state != notification.PermissionPrompt {
		return state, nil
	}
	if err := l.prompter.PromptPermission(ctx, l.chatID); err != nil {
		return "", fmt.Errorf("failed to send permission prompt: %w", err)
	}
	l.logger.Info("Permission prompt sent")
	return notification.PermissionPrompt, nil
}

func (l *LocalNotifications) CreateChannel(ctx context.Context, channelID, name, description string) error {
	return l.repo.UpsertChannel(ctx, l.chatID, channelID, name, description)
}

func (l *LocalNotifications) ListPending(ctx context.Context) ([]notification.Pending, error) {
	return l.repo.ListPending(ctx, l.chatID)
}

func (l *LocalNotifications) Cancel(ctx context.Context, ids []int) error {
	return l.repo.DeletePending(ctx, l.chatID, ids)
}

func (l *LocalNotifications) Schedule(ctx context.Context, batchID string, batch []notification.Scheduled) error {
	pending := make([]notification.Pending, len(batch))
	for i, s := range batch {
		pending[i] = notification.Pending{
			Scheduled: s,
			ChatID:    l.chatID,
			ChannelID: notification.DefaultChannelID,
			BatchID:   batchID,
		}
	}
	return l.repo.BulkCreatePending(ctx, pending)
}
