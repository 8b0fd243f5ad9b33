package driven

import (
	"context"

	"github.com/custodia-labs/paperlens/internal/core/domain"
)

// ArchivedMessage is a terminal transcript entry stored for later review.
type ArchivedMessage struct {
	DocumentID string
	Message    domain.ChatMessage
}

// TranscriptArchive stores terminal transcript entries per document.
type TranscriptArchive interface {
	// Record stores or replaces the entry with the same message id.
	Record(ctx context.Context, documentID string, msg domain.ChatMessage) error

	// List returns a document's entries oldest first. limit <= 0 means no limit.
	List(ctx context.Context, documentID string, limit int) ([]domain.ChatMessage, error)

	// Documents returns the ids of documents with archived entries.
	Documents(ctx context.Context) ([]string, error)

	// Purge removes a document's entries.
	Purge(ctx context.Context, documentID string) error
}
