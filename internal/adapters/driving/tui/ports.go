// Package tui provides an interactive terminal user interface for paperlens.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/paperlens/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Assistant holds the document, layout and transcript.
	Assistant driving.Assistant

	// Ingestor turns paths into documents.
	Ingestor driving.FileIngestor

	// Settings manages application settings.
	Settings driving.SettingsService

	// Notifications feeds the status bar.
	Notifications driving.NotificationFeed
}

// NewPorts creates a new Ports aggregate with the required services.
func NewPorts(assistant driving.Assistant, ingestor driving.FileIngestor) *Ports {
	return &Ports{
		Assistant: assistant,
		Ingestor:  ingestor,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Assistant == nil {
		return ErrMissingAssistant
	}
	if p.Ingestor == nil {
		return ErrMissingIngestor
	}
	return nil
}
