package mcp

import (
	"github.com/custodia-labs/paperlens/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Assistant holds the current document and runs actions.
	Assistant driving.Assistant

	// Ingestor reads PDFs from disk.
	Ingestor driving.FileIngestor

	// History serves archived transcripts. Optional.
	History driving.HistoryService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Assistant == nil {
		return ErrMissingAssistant
	}
	if p.Ingestor == nil {
		return ErrMissingIngestor
	}
	return nil
}
