package driving

import (
	"context"

	"github.com/custodia-labs/paperlens/internal/core/domain"
)

// HistoryService reads archived transcripts.
type HistoryService interface {
	// Documents lists documents with archived transcripts.
	Documents(ctx context.Context) ([]string, error)

	// Transcript returns a document's archived entries oldest first.
	Transcript(ctx context.Context, documentID string, limit int) ([]domain.ChatMessage, error)

	// Forget deletes a document's archived entries.
	Forget(ctx context.Context, documentID string) error
}
