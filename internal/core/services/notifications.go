package services

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/paperlens/internal/core/domain"
	"github.com/custodia-labs/paperlens/internal/core/ports/driven"
	"github.com/custodia-labs/paperlens/internal/core/ports/driving"
	"github.com/custodia-labs/paperlens/internal/logger"
)

// Ensure NotificationCenter implements the interfaces.
var (
	_ driven.Notifier          = (*NotificationCenter)(nil)
	_ driving.NotificationFeed = (*NotificationCenter)(nil)
)

// maxNotifications caps the queue; the oldest entries are dropped first.
const maxNotifications = 50

// NotificationCenter queues transient notifications. Repeated messages are
// not de-duplicated.
type NotificationCenter struct {
	mu       sync.Mutex
	queue    []domain.Notification
	duration time.Duration
	now      func() time.Time
	onNotify []func(domain.Notification)
}

// NewNotificationCenter creates a notification center.
func NewNotificationCenter() *NotificationCenter {
	return &NotificationCenter{now: time.Now}
}

// SetDefaultDuration overrides the duration of info and success notifications.
// Zero restores the per-level defaults.
func (c *NotificationCenter) SetDefaultDuration(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.duration = d
}

// OnNotify registers a hook called for every raised notification.
func (c *NotificationCenter) OnNotify(fn func(domain.Notification)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onNotify = append(c.onNotify, fn)
}

// Notify raises a notification.
func (c *NotificationCenter) Notify(level domain.NotificationLevel, message string) {
	c.mu.Lock()
	d := level.DefaultDuration()
	if c.duration > 0 && (level == domain.LevelInfo || level == domain.LevelSuccess) {
		d = c.duration
	}
	n := domain.Notification{
		ID:        uuid.NewString(),
		Level:     level,
		Message:   message,
		Duration:  d,
		CreatedAt: c.now(),
	}
	c.queue = append(c.queue, n)
	if len(c.queue) > maxNotifications {
		c.queue = c.queue[len(c.queue)-maxNotifications:]
	}
	hooks := append([]func(domain.Notification){}, c.onNotify...)
	c.mu.Unlock()

	logger.Debug("notify %s: %s", level, message)
	for _, fn := range hooks {
		fn(n)
	}
}

// Active returns unexpired notifications, oldest first, and drops expired ones.
func (c *NotificationCenter) Active(now time.Time) []domain.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.queue[:0]
	for _, n := range c.queue {
		if !n.Expired(now) {
			kept = append(kept, n)
		}
	}
	c.queue = kept
	return append([]domain.Notification(nil), kept...)
}

// Dismiss removes a notification.
func (c *NotificationCenter) Dismiss(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, n := range c.queue {
		if n.ID == id {
			c.queue = append(c.queue[:i], c.queue[i+1:]...)
			return
		}
	}
}
