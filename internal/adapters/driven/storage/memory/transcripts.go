package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/paperlens/internal/core/domain"
	"github.com/custodia-labs/paperlens/internal/core/ports/driven"
)

// Ensure TranscriptArchive implements the interface.
var _ driven.TranscriptArchive = (*TranscriptArchive)(nil)

// TranscriptArchive is an in-memory implementation of driven.TranscriptArchive.
// It is used when auto-save has nowhere durable to write and in tests.
type TranscriptArchive struct {
	mu      sync.RWMutex
	entries map[string][]domain.ChatMessage
	active  map[string]int64
	seq     int64
}

// NewTranscriptArchive creates an empty in-memory archive.
func NewTranscriptArchive() *TranscriptArchive {
	return &TranscriptArchive{
		entries: make(map[string][]domain.ChatMessage),
		active:  make(map[string]int64),
	}
}

// Record stores or replaces an entry, keeping its original position.
func (a *TranscriptArchive) Record(_ context.Context, documentID string, msg domain.ChatMessage) error {
	if documentID == "" || msg.ID == "" {
		return fmt.Errorf("%w: document id and message id are required", domain.ErrInvalidInput)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.seq++
	a.active[documentID] = a.seq

	list := a.entries[documentID]
	for i := range list {
		if list[i].ID == msg.ID {
			msg.Timestamp = list[i].Timestamp
			list[i] = msg
			return nil
		}
	}
	a.entries[documentID] = append(list, msg)
	return nil
}

// List returns a copy of a document's entries oldest first.
func (a *TranscriptArchive) List(_ context.Context, documentID string, limit int) ([]domain.ChatMessage, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	list := a.entries[documentID]
	if limit > 0 && len(list) > limit {
		list = list[len(list)-limit:]
	}
	out := make([]domain.ChatMessage, len(list))
	copy(out, list)
	return out, nil
}

// Documents returns archived document ids, most recently recorded first.
func (a *TranscriptArchive) Documents(_ context.Context) ([]string, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	ids := make([]string, 0, len(a.entries))
	for id := range a.entries {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return a.active[ids[i]] > a.active[ids[j]]
	})
	return ids, nil
}

// Purge removes a document's entries.
func (a *TranscriptArchive) Purge(_ context.Context, documentID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.entries, documentID)
	delete(a.active, documentID)
	return nil
}
