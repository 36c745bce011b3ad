package mapping

import (
	"database/sql"
	"encoding/json"

	"github.com/invobook/invoicing_app/internal/core/domain"
	"github.com/invobook/invoicing_app/internal/models"
)

// ToModelNotification converts a domain notification to its DB representation.
// Metadata marshalling errors are swallowed into a null column: notifications
// are advisory and must never fail the triggering operation.
func ToModelNotification(d domain.Notification) models.Notification {
	m := models.Notification{
		NotificationID: d.NotificationID,
		UserID:         d.UserID,
		Type:           string(d.Type),
		Priority:       string(d.Priority),
		Title:          d.Title,
		Message:        d.Message,
		Link:           d.Link,
		IsRead:         d.IsRead,
		CreatedAt:      d.CreatedAt,
	}
	if d.CompanyID != nil {
		m.CompanyID = sql.NullString{String: *d.CompanyID, Valid: true}
	}
	if len(d.Metadata) > 0 {
		if raw, err := json.Marshal(d.Metadata); err == nil {
			m.Metadata = raw
		}
	}
	return m
}

// ToDomainNotification converts a DB notification row to the domain.
func ToDomainNotification(m models.Notification) domain.Notification {
	d := domain.Notification{
		NotificationID: m.NotificationID,
		UserID:         m.UserID,
		Type:           domain.NotificationType(m.Type),
		Priority:       domain.NotificationPriority(m.Priority),
		Title:          m.Title,
		Message:        m.Message,
		Link:           m.Link,
		IsRead:         m.IsRead,
		CreatedAt:      m.CreatedAt,
	}
	if m.CompanyID.Valid {
		companyID := m.CompanyID.String
		d.CompanyID = &companyID
	}
	if len(m.Metadata) > 0 {
		var meta map[string]any
		if err := json.Unmarshal(m.Metadata, &meta); err == nil {
			d.Metadata = meta
		}
	}
	return d
}

// ToModelNotificationPreference converts a domain preference to its DB representation.
func ToModelNotificationPreference(d domain.NotificationPreference) models.NotificationPreference {
	return models.NotificationPreference{
		UserID:    d.UserID,
		Type:      string(d.Type),
		Enabled:   d.Enabled,
		UpdatedAt: d.UpdatedAt,
	}
}

// ToDomainNotificationPreference converts a DB preference row to the domain.
func ToDomainNotificationPreference(m models.NotificationPreference) domain.NotificationPreference {
	return domain.NotificationPreference{
		UserID:    m.UserID,
		Type:      domain.NotificationType(m.Type),
		Enabled:   m.Enabled,
		UpdatedAt: m.UpdatedAt,
	}
}

// ToDomainNotificationSlice converts a slice of DB notification rows.
func ToDomainNotificationSlice(ms []models.Notification) []domain.Notification {
	ds := make([]domain.Notification, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainNotification(m)
	}
	return ds
}
