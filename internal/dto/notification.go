package dto

import (
	"time"

	"github.com/invobook/invoicing_app/internal/core/domain"
)

// --- Notification DTOs ---

// ListNotificationsParams holds listing parameters for a user's notifications.
type ListNotificationsParams struct {
	UnreadOnly bool   `form:"unreadOnly"`
	Limit      int    `form:"limit"`
	NextToken  string `form:"nextToken"`
}

// NotificationResponse defines data returned for a notification.
type NotificationResponse struct {
	NotificationID string                      `json:"notificationID"`
	Type           domain.NotificationType     `json:"type"`
	Priority       domain.NotificationPriority `json:"priority"`
	Title          string                      `json:"title"`
	Message        string                      `json:"message"`
	Link           string                      `json:"link,omitempty"`
	Metadata       map[string]any              `json:"metadata,omitempty"`
	IsRead         bool                        `json:"isRead"`
	CreatedAt      time.Time                   `json:"createdAt"`
}

// ToNotificationResponse converts domain.Notification to DTO.
func ToNotificationResponse(n *domain.Notification) NotificationResponse {
	return NotificationResponse{
		NotificationID: n.NotificationID,
		Type:           n.Type,
		Priority:       n.Priority,
		Title:          n.Title,
		Message:        n.Message,
		Link:           n.Link,
		Metadata:       n.Metadata,
		IsRead:         n.IsRead,
		CreatedAt:      n.CreatedAt,
	}
}

// ListNotificationsResponse wraps a page of notifications.
type ListNotificationsResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	UnreadCount   int64                  `json:"unreadCount"`
	NextToken     string                 `json:"nextToken,omitempty"`
}

// ToListNotificationsResponse converts a page of domain.Notification to DTO.
func ToListNotificationsResponse(ns []domain.Notification, unread int64, nextToken string) ListNotificationsResponse {
	list := make([]NotificationResponse, len(ns))
	for i := range ns {
		list[i] = ToNotificationResponse(&ns[i])
	}
	return ListNotificationsResponse{Notifications: list, UnreadCount: unread, NextToken: nextToken}
}

// UpdateNotificationPreferenceRequest toggles one event type for the caller.
type UpdateNotificationPreferenceRequest struct {
	Type    string `json:"type" binding:"required"`
	Enabled *bool  `json:"enabled" binding:"required"`
}

// NotificationPreferenceResponse defines data returned for a preference row.
type NotificationPreferenceResponse struct {
	Type    domain.NotificationType `json:"type"`
	Enabled bool                    `json:"enabled"`
}

// ToNotificationPreferenceResponses converts preference rows to DTOs.
func ToNotificationPreferenceResponses(ps []domain.NotificationPreference) []NotificationPreferenceResponse {
	list := make([]NotificationPreferenceResponse, len(ps))
	for i, p := range ps {
		list[i] = NotificationPreferenceResponse{Type: p.Type, Enabled: p.Enabled}
	}
	return list
}
