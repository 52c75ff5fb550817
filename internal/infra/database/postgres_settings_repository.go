// internal/infra/database/postgres_settings_repository.go
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"seasonal_food_bot/internal/domain/notification"
)

type PostgresSettingsRepository struct {
	db *sql.DB
}

func NewPostgresSettingsRepository(db *sql.DB) *PostgresSettingsRepository {
	return &PostgresSettingsRepository{db: db}
}

func (r *PostgresSettingsRepository) GetPayload(ctx context.Context, chatID int64, storageKey string) ([]byte, error) {
	query := `SELECT payload FROM notification_settings WHERE chat_id = $1 AND storage_key = $2`
	var payload []byte
	err := r.db.QueryRowContext(ctx, query, chatID, storageKey).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notification.ErrSettingsNotFound
		}
		return nil, fmt.Errorf("error getting settings payload: %w", err)
	}
	return payload, nil
}

func (r *PostgresSettingsRepository) PutPayload(ctx context.Context, chatID int64, storageKey string, payload []byte) error {
	query := `INSERT INTO notification_settings (chat_id, storage_key, payload, updated_at)
               VALUES ($1, $2, $3, NOW())
               ON CONFLICT (chat_id, storage_key)
               DO UPDATE SET payload = EXCLUDED.payload, updated_at = NOW()`
	if _, err := r.db.ExecContext(ctx, query, chatID, storageKey, payload); err != nil {
		return fmt.Errorf("error saving settings payload: %w", err)
	}
	return nil
}

func (r *PostgresSettingsRepository) ListChatIDs(ctx context.Context, storageKey string) ([]int64, error) {
	query := `SELECT chat_id FROM notification_settings WHERE storage_key = $1 ORDER BY chat_id`
	rows, err := r.db.QueryContext(ctx, query, storageKey)
	if err != nil {
		return nil, fmt.Errorf("error querying chats with settings: %w", err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning chat id row: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating chat id rows: %w", err)
	}
	return ids, nil
}
