package repositories

import (
	"context"

	"github.com/invobook/invoicing_app/internal/core/domain"
)

// NotificationRepository defines persistence operations for notifications and
// per-user preferences.
type NotificationRepository interface {
	SaveNotification(ctx context.Context, notification domain.Notification) error
	ListNotificationsByUser(ctx context.Context, userID string, unreadOnly bool, limit int, nextToken *string) ([]domain.Notification, *string, error)
	MarkNotificationRead(ctx context.Context, userID string, notificationID string) error
	MarkAllNotificationsRead(ctx context.Context, userID string) error
	CountUnread(ctx context.Context, userID string) (int64, error)
	FindPreferences(ctx context.Context, userID string) ([]domain.NotificationPreference, error)
	UpsertPreference(ctx context.Context, pref domain.NotificationPreference) error
}
