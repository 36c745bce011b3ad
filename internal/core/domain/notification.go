package domain

import "time"

// NotificationType identifies the event that produced a notification.
type NotificationType string

const (
	NotifyInvoiceOverdue  NotificationType = "INVOICE_OVERDUE"
	NotifyInvoicePaid     NotificationType = "INVOICE_PAID"
	NotifyInvoiceSent     NotificationType = "INVOICE_SENT"
	NotifyEmployeeCreated NotificationType = "EMPLOYEE_CREATED"
	NotifyPasswordReset   NotificationType = "PASSWORD_RESET"
)

// NotificationPriority ranks a notification for presentation purposes.
type NotificationPriority string

const (
	PriorityLow    NotificationPriority = "LOW"
	PriorityNormal NotificationPriority = "NORMAL"
	PriorityHigh   NotificationPriority = "HIGH"
)

// Notification is a per-user inbox entry. Delivery is best-effort: business
// operations never fail because a notification could not be written.
type Notification struct {
	NotificationID string               `json:"notificationID"` // Primary Key (UUID)
	UserID         string               `json:"userID"`
	CompanyID      *string              `json:"companyID,omitempty"`
	Type           NotificationType     `json:"type"`
	Priority       NotificationPriority `json:"priority"`
	Title          string               `json:"title"`
	Message        string               `json:"message"`
	Link           string               `json:"link,omitempty"`
	Metadata       map[string]any       `json:"metadata,omitempty"`
	IsRead         bool                 `json:"isRead"`
	CreatedAt      time.Time            `json:"createdAt"`
}

// NotificationPreference is a per-user opt-in/opt-out switch for one event type.
// Absence of a row means the event type is enabled.
type NotificationPreference struct {
	UserID    string           `json:"userID"`
	Type      NotificationType `json:"type"`
	Enabled   bool             `json:"enabled"`
	UpdatedAt time.Time        `json:"updatedAt"`
}
