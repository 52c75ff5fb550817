// internal/infra/database/postgres_notification_repository.go
package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq" // For pq.Array

	"seasonal_food_bot/internal/domain/notification"
)

type PostgresNotificationRepository struct {
	db *sql.DB
}

func NewPostgresNotificationRepository(db *sql.DB) *PostgresNotificationRepository {
	return &PostgresNotificationRepository{db: db}
}

// --- Subscriber permission ---

// GetPermission returns prompt for chats that were never asked.
func (r *PostgresNotificationRepository) GetPermission(ctx context.Context, chatID int64) (notification.PermissionState, error) {
	query := `SELECT permission FROM subscribers WHERE chat_id = $1`
	var state notification.PermissionState
	err := r.db.QueryRowContext(ctx, query, chatID).Scan(&state)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return notification.PermissionPrompt, nil
		}
		return "", fmt.Errorf("error getting permission: %w", err)
	}
	return state, nil
}

func (r *PostgresNotificationRepository) SetPermission(ctx context.Context, chatID int64, state notification.PermissionState) error {
	query := `INSERT INTO subscribers (chat_id, permission, created_at, updated_at)
               VALUES ($1, $2, NOW(), NOW())
               ON CONFLICT (chat_id)
               DO UPDATE SET permission = EXCLUDED.permission, updated_at = NOW()`
	if _, err := r.db.ExecContext(ctx, query, chatID, state); err != nil {
		return fmt.Errorf("error setting permission: %w", err)
	}
	return nil
}

// --- Delivery channels ---

func (r *PostgresNotificationRepository) UpsertChannel(ctx context.Context, chatID int64, channelID, name, description string) error {
	query := `INSERT INTO notification_channels (chat_id, channel_id, name, description)
               VALUES ($1, $2, $3, $4)
               ON CONFLICT (chat_id, channel_id)
               DO UPDATE SET name = EXCLUDED.name, description = EXCLUDED.description`
	if _, err := r.db.ExecContext(ctx, query, chatID, channelID, name, description); err != nil {
		return fmt.Errorf("error upserting channel %s: %w", channelID, err)
	}
	return nil
}

// --- Pending notifications ---

const pendingColumns = `chat_id, id, kind, title, body, fire_at, payload, channel_id, batch_id, attempts, created_at`

// Helper to scan multiple rows
func scanPending(rows *sql.Rows) ([]notification.Pending, error) {
	pending := make([]notification.Pending, 0)
	for rows.Next() {
		var (
			p       notification.Pending
			payload []byte
		)
		if err := rows.Scan(
			&p.ChatID, &p.ID, &p.Kind, &p.Title, &p.Body, &p.FireAt,
			&payload, &p.ChannelID, &p.BatchID, &p.Attempts, &p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning pending notification row: %w", err)
		}
		if err := json.Unmarshal(payload, &p.Payload); err != nil {
			return nil, fmt.Errorf("error decoding payload of notification %d: %w", p.ID, err)
		}
		pending = append(pending, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pending notification rows: %w", err)
	}
	return pending, nil
}

func (r *PostgresNotificationRepository) ListPending(ctx context.Context, chatID int64) ([]notification.Pending, error) {
	query := `SELECT ` + pendingColumns + `
               FROM scheduled_notifications
               WHERE chat_id = $1 ORDER BY fire_at, id`
	rows, err := r.db.QueryContext(ctx, query, chatID)
	if err != nil {
		return nil, fmt.Errorf("error querying pending notifications: %w", err)
	}
	defer rows.Close()
	return scanPending(rows)
}

func (r *PostgresNotificationRepository) DeletePending(ctx context.Context, chatID int64, ids []int) error {
	if len(ids) == 0 {
		return nil
	}
	ids64 := make([]int64, len(ids))
	for i, id := range ids {
		ids64[i] = int64(id)
	}
	query := `DELETE FROM scheduled_notifications WHERE chat_id = $1 AND id = ANY($2::int[])`
	if _, err := r.db.ExecContext(ctx, query, chatID, pq.Array(ids64)); err != nil {
		return fmt.Errorf("error deleting pending notifications: %w", err)
	}
	return nil
}

// BulkCreatePending inserts the batch in one transaction; either every row lands or none.
func (r *PostgresNotificationRepository) BulkCreatePending(ctx context.Context, pending []notification.Pending) error {
	if len(pending) == 0 {
		return nil
	}

	txn, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction for bulk create: %w", err)
	}
	defer txn.Rollback() // Rollback if not committed

	stmt, err := txn.PrepareContext(ctx, `INSERT INTO scheduled_notifications (chat_id, id, kind, title, body, fire_at, payload, channel_id, batch_id, created_at)
                                         VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
                                         ON CONFLICT (chat_id, id) DO UPDATE SET
                                             kind = EXCLUDED.kind, title = EXCLUDED.title, body = EXCLUDED.body,
                                             fire_at = EXCLUDED.fire_at, payload = EXCLUDED.payload,
                                             channel_id = EXCLUDED.channel_id, batch_id = EXCLUDED.batch_id,
                                             attempts = 0, created_at = NOW()`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement for bulk create: %w", err)
	}
	defer stmt.Close()

	for _, p := range pending {
		payload, err := json.Marshal(p.Payload)
		if err != nil {
			return fmt.Errorf("error encoding payload of notification %d: %w", p.ID, err)
		}
		_, err = stmt.ExecContext(ctx, p.ChatID, p.ID, p.Kind, p.Title, p.Body, p.FireAt, payload, p.ChannelID, p.BatchID)
		if err != nil {
			return fmt.Errorf("error executing statement for bulk create (chat %d, id %d): %w", p.ChatID, p.ID, err)
		}
	}

	return txn.Commit()
}

func (r *PostgresNotificationRepository) ListDue(ctx context.Context, dueAtOrBefore time.Time, limit int) ([]notification.Pending, error) {
	query := `SELECT ` + pendingColumns + `
               FROM scheduled_notifications
               WHERE fire_at <= $1
               ORDER BY fire_at ASC, chat_id, id
               LIMIT $2` // Process older ones first
	rows, err := r.db.QueryContext(ctx, query, dueAtOrBefore, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying due notifications: %w", err)
	}
	defer rows.Close()
	return scanPending(rows)
}

// DeleteDispatched matches on batch_id as well, so an entry that a reschedule replaced
// after ListDue ran survives.
func (r *PostgresNotificationRepository) DeleteDispatched(ctx context.Context, entries []notification.Pending) error {
	if len(entries) == 0 {
		return nil
	}

	txn, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction for dispatched delete: %w", err)
	}
	defer txn.Rollback()

	stmt, err := txn.PrepareContext(ctx, `DELETE FROM scheduled_notifications WHERE chat_id = $1 AND id = $2 AND batch_id = $3`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement for dispatched delete: %w", err)
	}
	defer stmt.Close()

	for _, p := range entries {
		if _, err := stmt.ExecContext(ctx, p.ChatID, p.ID, p.BatchID); err != nil {
			return fmt.Errorf("error deleting dispatched notification (chat %d, id %d): %w", p.ChatID, p.ID, err)
		}
	}
	return txn.Commit()
}

func (r *PostgresNotificationRepository) Postpone(ctx context.Context, entry notification.Pending, retryAt time.Time) error {
	query := `UPDATE scheduled_notifications
               SET fire_at = $4, attempts = attempts + 1
               WHERE chat_id = $1 AND id = $2 AND batch_id = $3`
	if _, err := r.db.ExecContext(ctx, query, entry.ChatID, entry.ID, entry.BatchID, retryAt); err != nil {
		return fmt.Errorf("error postponing notification (chat %d, id %d): %w", entry.ChatID, entry.ID, err)
	}
	return nil
}
