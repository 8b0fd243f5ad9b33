package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/paperlens/internal/core/domain"
	"github.com/custodia-labs/paperlens/internal/core/ports/driven"
	"github.com/custodia-labs/paperlens/internal/core/ports/driving"
)

// Ensure HistoryService implements the interface.
var _ driving.HistoryService = (*HistoryService)(nil)

// HistoryService reads and prunes the transcript archive.
type HistoryService struct {
	archive driven.TranscriptArchive
}

// NewHistoryService creates a history service over archive.
func NewHistoryService(archive driven.TranscriptArchive) *HistoryService {
	return &HistoryService{archive: archive}
}

// Documents lists documents with archived transcripts.
func (s *HistoryService) Documents(ctx context.Context) ([]string, error) {
	ids, err := s.archive.Documents(ctx)
	if err != nil {
		return nil, fmt.Errorf("list archived documents: %w", err)
	}
	return ids, nil
}

// Transcript returns a document's archived entries oldest first.
func (s *HistoryService) Transcript(ctx context.Context, documentID string, limit int) ([]domain.ChatMessage, error) {
	if documentID == "" {
		return nil, fmt.Errorf("%w: document id is required", domain.ErrInvalidInput)
	}
	msgs, err := s.archive.List(ctx, documentID, limit)
	if err != nil {
		return nil, fmt.Errorf("list transcript %s: %w", documentID, err)
	}
	if len(msgs) == 0 {
		return nil, fmt.Errorf("transcript %s: %w", documentID, domain.ErrNotFound)
	}
	return msgs, nil
}

// Forget deletes a document's archived entries.
func (s *HistoryService) Forget(ctx context.Context, documentID string) error {
	if documentID == "" {
		return fmt.Errorf("%w: document id is required", domain.ErrInvalidInput)
	}
	return s.archive.Purge(ctx, documentID)
}
