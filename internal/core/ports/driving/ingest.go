package driving

import (
	"context"

	"github.com/custodia-labs/paperlens/internal/core/domain"
)

// FileIngestor turns user-supplied files into documents, accepting PDFs only.
type FileIngestor interface {
	// FromPath reads a PDF from disk.
	FromPath(ctx context.Context, path string) (*domain.Document, error)

	// FromBytes wraps an uploaded payload.
	FromBytes(name string, content []byte, mimeType string) (*domain.Document, error)

	// HandleDrop ingests the first path of a drop event. It returns
	// domain.ErrDropInProgress while another drop is being ingested.
	HandleDrop(ctx context.Context, paths []string) (*domain.Document, error)
}
