package postgresql

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cmlabs-hris/line-attendance-go/internal/domain/notification"
	"github.com/cmlabs-hris/line-attendance-go/internal/pkg/database"
	"github.com/google/uuid"
)

type notificationLogRepository struct {
	db *database.DB
}

// NewNotificationLogRepository creates the admin feed log repository
func NewNotificationLogRepository(db *database.DB) notification.LogRepository {
	return &notificationLogRepository{db: db}
}

// Append stores a delivered message. Replays of the same message id are ignored.
func (r *notificationLogRepository) Append(ctx context.Context, msg notification.Message) error {
	q := GetQuerier(ctx, r.db)

	if msg.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate notification id: %w", err)
		}
		msg.ID = id.String()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}

	dataJSON, err := json.Marshal(msg.Data)
	if err != nil {
		return fmt.Errorf("failed to marshal notification data: %w", err)
	}

	query := `
		INSERT INTO notification_log (id, type, employee_id, line_user_id, title, message, data, created_at)
		VALUES ($1, $2, NULLIF($3, '')::uuid, NULLIF($4, ''), $5, $6, $7, $8)
		ON CONFLICT (id) DO NOTHING
	`

	_, err = q.Exec(ctx, query,
		msg.ID,
		string(msg.Type),
		msg.EmployeeID,
		msg.LineUserID,
		msg.Title,
		msg.Text,
		dataJSON,
		msg.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append notification: %w", err)
	}

	return nil
}

// ListRecent returns the newest messages first
func (r *notificationLogRepository) ListRecent(ctx context.Context, limit int) ([]notification.Message, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, type, COALESCE(employee_id::text, ''), COALESCE(line_user_id, ''), title, message, data, created_at
		FROM notification_log
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var messages []notification.Message
	for rows.Next() {
		var (
			msg       notification.Message
			notifType string
			dataJSON  []byte
		)
		if err := rows.Scan(
			&msg.ID,
			&notifType,
			&msg.EmployeeID,
			&msg.LineUserID,
			&msg.Title,
			&msg.Text,
			&dataJSON,
			&msg.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		msg.Type = notification.NotificationType(notifType)

		if len(dataJSON) > 0 && string(dataJSON) != "null" {
			if err := json.Unmarshal(dataJSON, &msg.Data); err != nil {
				return nil, fmt.Errorf("failed to unmarshal notification data: %w", err)
			}
		}
		messages = append(messages, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notifications: %w", err)
	}

	return messages, nil
}
