package services

import (
	"context"

	"github.com/invobook/invoicing_app/internal/core/domain"
	"github.com/invobook/invoicing_app/internal/dto"
)

// NotificationReaderSvc defines read operations for a user's notifications
type NotificationReaderSvc interface {
	// ListNotifications lists the caller's notifications, newest first.
	ListNotifications(ctx context.Context, callerID string, params dto.ListNotificationsParams) ([]domain.Notification, int64, string, error)

	// ListPreferences returns the caller's per-type notification switches.
	ListPreferences(ctx context.Context, callerID string) ([]domain.NotificationPreference, error)
}

// NotificationWriterSvc defines write operations for a user's notifications
type NotificationWriterSvc interface {
	// MarkRead marks one notification of the caller as read.
	MarkRead(ctx context.Context, callerID string, notificationID string) error

	// MarkAllRead marks all of the caller's notifications as read.
	MarkAllRead(ctx context.Context, callerID string) error

	// UpdatePreference toggles one event type for the caller.
	UpdatePreference(ctx context.Context, callerID string, req dto.UpdateNotificationPreferenceRequest) (*domain.NotificationPreference, error)
}

// NotificationDispatchSvc accepts events for asynchronous, best-effort
// delivery. Enqueue never blocks the calling business operation.
type NotificationDispatchSvc interface {
	// Notify enqueues a notification for a single user.
	Notify(ctx context.Context, n domain.Notification)

	// NotifyCompanyAdmins enqueues a notification for every ADMIN of a company.
	NotifyCompanyAdmins(ctx context.Context, companyID string, n domain.Notification)
}

// NotificationSvcFacade combines all notification-related service interfaces
type NotificationSvcFacade interface {
	NotificationReaderSvc
	NotificationWriterSvc
	NotificationDispatchSvc
}
