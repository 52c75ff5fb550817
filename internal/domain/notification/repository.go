// internal/domain/notification/repository.go
package notification

import (
	"context"
	"time"
)

// Platform is the local notification facility for one recipient. The scheduler only
// talks to notifications through these operations.
type Platform interface {
	// Permission reports the current permission state without prompting.
	Permission(ctx context.Context) (PermissionState, error)
	// RequestPermission asks the user and returns the resulting state.
	RequestPermission(ctx context.Context) (PermissionState, error)
	// CreateChannel ensures the delivery channel exists. Creating an existing channel is not an error.
	CreateChannel(ctx context.Context, channelID, name, description string) error
	ListPending(ctx context.Context) ([]Pending, error)
	Cancel(ctx context.Context, ids []int) error
	// Schedule submits a batch in one call.
	Schedule(ctx context.Context, batchID string, batch []Scheduled) error
}

// SettingsRepository persists one Setting record per chat under a storage key.
type SettingsRepository interface {
	// GetPayload returns the raw stored record, or ErrSettingsNotFound.
	GetPayload(ctx context.Context, chatID int64, storageKey string) ([]byte, error)
	PutPayload(ctx context.Context, chatID int64, storageKey string, payload []byte) error
	// ListChatIDs returns every chat with a stored record.
	ListChatIDs(ctx context.Context, storageKey string) ([]int64, error)
}

// Repository backs the local notification platform.
type Repository interface {
	// Subscriber permission
	GetPermission(ctx context.Context, chatID int64) (PermissionState, error)
	SetPermission(ctx context.Context, chatID int64, state PermissionState) error

	// Delivery channels
	UpsertChannel(ctx context.Context, chatID int64, channelID, name, description string) error

	// Pending notifications
	ListPending(ctx context.Context, chatID int64) ([]Pending, error)
	DeletePending(ctx context.Context, chatID int64, ids []int) error
	BulkCreatePending(ctx context.Context, pending []Pending) error

	// ListDue returns pending notifications whose fire time is at or before the given moment, oldest first.
	ListDue(ctx context.Context, dueAtOrBefore time.Time, limit int) ([]Pending, error)
	// DeleteDispatched removes the given entries only if they still belong to the batch
	// they were listed with; entries replaced by a newer batch are kept.
	DeleteDispatched(ctx context.Context, entries []Pending) error
	// Postpone moves an entry of the same batch to retryAt and counts one failed attempt.
	Postpone(ctx context.Context, entry Pending, retryAt time.Time) error
}
