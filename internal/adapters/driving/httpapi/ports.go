// Package httpapi exposes the assistant as a JSON API for a web-view shell.
package httpapi

import (
	"errors"

	"github.com/custodia-labs/paperlens/internal/core/ports/driving"
)

// ErrMissingAssistant is returned when the assistant is not provided.
var ErrMissingAssistant = errors.New("httpapi: assistant is required")

// ErrMissingIngestor is returned when the file ingestor is not provided.
var ErrMissingIngestor = errors.New("httpapi: file ingestor is required")

// Ports aggregates the driving ports served over HTTP.
type Ports struct {
	Assistant     driving.Assistant
	Ingestor      driving.FileIngestor
	Settings      driving.SettingsService  // optional
	Notifications driving.NotificationFeed // optional
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Assistant == nil {
		return ErrMissingAssistant
	}
	if p.Ingestor == nil {
		return ErrMissingIngestor
	}
	return nil
}
