package driving

import (
	"time"

	"github.com/custodia-labs/paperlens/internal/core/domain"
)

// NotificationFeed exposes raised notifications to presentation layers.
type NotificationFeed interface {
	// Active returns unexpired notifications, oldest first.
	Active(now time.Time) []domain.Notification

	// Dismiss removes a notification before it expires.
	Dismiss(id string)
}
