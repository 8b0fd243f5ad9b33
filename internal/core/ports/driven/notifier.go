package driven

import "github.com/custodia-labs/paperlens/internal/core/domain"

// Notifier raises transient user-facing notifications.
type Notifier interface {
	Notify(level domain.NotificationLevel, message string)
}

// Clipboard writes text to the system clipboard.
type Clipboard interface {
	WriteText(text string) error
}

// ArtifactStore persists exported files such as block images.
type ArtifactStore interface {
	// SaveImage writes PNG bytes under name and returns the written path.
	SaveImage(name string, png []byte) (string, error)
}
