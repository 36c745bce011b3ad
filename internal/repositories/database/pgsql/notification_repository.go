package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/invobook/invoicing_app/internal/apperrors"
	"github.com/invobook/invoicing_app/internal/core/domain"
	portsrepo "github.com/invobook/invoicing_app/internal/core/ports/repositories"
	"github.com/invobook/invoicing_app/internal/models"
	"github.com/invobook/invoicing_app/internal/utils/mapping"
	"github.com/invobook/invoicing_app/internal/utils/pagination"
)

type PgxNotificationRepository struct {
	BaseRepository
}

func newPgxNotificationRepository(db *pgxpool.Pool) *PgxNotificationRepository {
	return &PgxNotificationRepository{BaseRepository: BaseRepository{Pool: db}}
}

var _ portsrepo.NotificationRepository = (*PgxNotificationRepository)(nil)

const notificationColumns = `notification_id, user_id, company_id, type, priority, title, message, link, metadata, is_read, created_at`

func scanNotification(row pgx.Row) (*models.Notification, error) {
	var m models.Notification
	err := row.Scan(
		&m.NotificationID,
		&m.UserID,
		&m.CompanyID,
		&m.Type,
		&m.Priority,
		&m.Title,
		&m.Message,
		&m.Link,
		&m.Metadata,
		&m.IsRead,
		&m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PgxNotificationRepository) SaveNotification(ctx context.Context, notification domain.Notification) error {
	m := mapping.ToModelNotification(notification)
	query := `
        INSERT INTO notifications (` + notificationColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
    `
	_, err := r.Pool.Exec(ctx, query,
		m.NotificationID, m.UserID, m.CompanyID, m.Type, m.Priority,
		m.Title, m.Message, m.Link, m.Metadata, m.IsRead, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save notification: %w", err)
	}
	return nil
}

func (r *PgxNotificationRepository) ListNotificationsByUser(ctx context.Context, userID string, unreadOnly bool, limit int, nextToken *string) ([]domain.Notification, *string, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE user_id = $1`
	args := []any{userID}
	argPos := 2

	if unreadOnly {
		query += " AND is_read = FALSE"
	}
	if nextToken != nil {
		createdAt, id, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", err.Error(), apperrors.ErrValidation)
		}
		query += fmt.Sprintf(" AND (created_at, notification_id) < ($%d, $%d)", argPos, argPos+1)
		args = append(args, createdAt, id)
		argPos += 2
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC, notification_id DESC LIMIT $%d;", argPos)
	args = append(args, limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer rows.Close()

	notifications := []domain.Notification{}
	for rows.Next() {
		m, err := scanNotification(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan notification row: %w", err)
		}
		notifications = append(notifications, mapping.ToDomainNotification(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating notification rows: %w", err)
	}

	var token *string
	if len(notifications) > limit {
		notifications = notifications[:limit]
		last := notifications[len(notifications)-1]
		t := pagination.EncodeToken(last.CreatedAt, last.NotificationID)
		token = &t
	}
	return notifications, token, nil
}

// MarkNotificationRead is scoped by user so one user cannot acknowledge
// another user's notification.
func (r *PgxNotificationRepository) MarkNotificationRead(ctx context.Context, userID string, notificationID string) error {
	query := `UPDATE notifications SET is_read = TRUE WHERE notification_id = $1 AND user_id = $2;`
	tag, err := r.Pool.Exec(ctx, query, notificationID, userID)
	if err != nil {
		return fmt.Errorf("failed to mark notification %s read: %w", notificationID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxNotificationRepository) MarkAllNotificationsRead(ctx context.Context, userID string) error {
	query := `UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND is_read = FALSE;`
	if _, err := r.Pool.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to mark all notifications read for user %s: %w", userID, err)
	}
	return nil
}

func (r *PgxNotificationRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = FALSE;`
	if err := r.Pool.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count unread notifications for user %s: %w", userID, err)
	}
	return count, nil
}

func (r *PgxNotificationRepository) FindPreferences(ctx context.Context, userID string) ([]domain.NotificationPreference, error) {
	query := `SELECT user_id, type, enabled, updated_at FROM notification_preferences WHERE user_id = $1 ORDER BY type;`
	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query notification preferences: %w", err)
	}
	defer rows.Close()

	prefs := []domain.NotificationPreference{}
	for rows.Next() {
		var m models.NotificationPreference
		if err := rows.Scan(&m.UserID, &m.Type, &m.Enabled, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification preference row: %w", err)
		}
		prefs = append(prefs, mapping.ToDomainNotificationPreference(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notification preference rows: %w", err)
	}
	return prefs, nil
}

func (r *PgxNotificationRepository) UpsertPreference(ctx context.Context, pref domain.NotificationPreference) error {
	m := mapping.ToModelNotificationPreference(pref)
	query := `
        INSERT INTO notification_preferences (user_id, type, enabled, updated_at)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (user_id, type) DO UPDATE SET enabled = EXCLUDED.enabled, updated_at = EXCLUDED.updated_at;
    `
	if _, err := r.Pool.Exec(ctx, query, m.UserID, m.Type, m.Enabled, m.UpdatedAt); err != nil {
		return fmt.Errorf("failed to upsert notification preference: %w", err)
	}
	return nil
}
