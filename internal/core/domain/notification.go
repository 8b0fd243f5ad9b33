package domain

import "time"

// NotificationLevel is the severity of a transient notification.
type NotificationLevel string

// Notification levels.
const (
	LevelSuccess NotificationLevel = "success"
	LevelError   NotificationLevel = "error"
	LevelWarning NotificationLevel = "warning"
	LevelInfo    NotificationLevel = "info"
)

// DefaultDuration is how long a notification of this level stays visible.
func (l NotificationLevel) DefaultDuration() time.Duration {
	switch l {
	case LevelError:
		return 6 * time.Second
	case LevelWarning:
		return 5 * time.Second
	case LevelSuccess, LevelInfo:
		return 4 * time.Second
	default:
		return 4 * time.Second
	}
}

// Notification is a transient user-facing message (a toast).
type Notification struct {
	ID        string            `json:"id"`
	Level     NotificationLevel `json:"level"`
	Message   string            `json:"message"`
	Duration  time.Duration     `json:"duration"`
	CreatedAt time.Time         `json:"createdAt"`
}

// Expired reports whether the notification should no longer be shown.
func (n Notification) Expired(now time.Time) bool {
	return now.Sub(n.CreatedAt) >= n.Duration
}
