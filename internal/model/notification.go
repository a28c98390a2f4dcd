package model

import "time"

// NotificationType classifies a notification for display.
type NotificationType string

const (
	NotifySuccess NotificationType = "success"
	NotifyError   NotificationType = "error"
	NotifyWarning NotificationType = "warning"
	NotifyInfo    NotificationType = "info"
)

// DefaultNotificationDuration is how long a notification stays visible
// unless the caller asks otherwise.
const DefaultNotificationDuration = 5 * time.Second

// Notification is a short-lived message surfaced to the user after a
// mutation.
type Notification struct {
	// ID is the unique identifier for this notification.
	ID string `json:"id"`

	Type    NotificationType `json:"type"`
	Title   string           `json:"title"`
	Message string           `json:"message"`

	// Duration is the display time in milliseconds. Zero means the
	// notification stays until dismissed.
	Duration int `json:"duration"`

	// CreatedAt is when this notification was generated.
	CreatedAt time.Time `json:"createdAt"`
}

// ExpiresAt returns when the notification should disappear and false when
// it never expires.
func (n Notification) ExpiresAt() (time.Time, bool) {
	if n.Duration <= 0 {
		return time.Time{}, false
	}
	return n.CreatedAt.Add(time.Duration(n.Duration) * time.Millisecond), true
}
