package services

import (
	"sync"

	"github.com/custodia-labs/paperlens/internal/core/domain"
	"github.com/custodia-labs/paperlens/internal/core/ports/driving"
)

// DocumentIdentity is the single source of truth for the active document.
// Each load raises a one-shot is-new flag that the layout pipeline consumes
// with Acknowledge. Every load or clear starts a new epoch.
type DocumentIdentity struct {
	mu      sync.RWMutex
	doc     *domain.Document
	isNew   bool
	loading bool
	err     string
	epoch   uint64
}

// NewDocumentIdentity creates an empty identity store.
func NewDocumentIdentity() *DocumentIdentity {
	return &DocumentIdentity{}
}

// SetDocument replaces the current document, marks it new and clears any
// processing error. It returns the new epoch.
func (s *DocumentIdentity) SetDocument(doc *domain.Document) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.doc = doc
	s.isNew = true
	s.err = ""
	s.epoch++
	return s.epoch
}

// Acknowledge consumes the is-new flag.
func (s *DocumentIdentity) Acknowledge() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.isNew = false
}

// AcknowledgeEpoch consumes the is-new flag only while epoch is current.
// It reports whether the epoch matched.
func (s *DocumentIdentity) AcknowledgeEpoch(epoch uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		return false
	}
	s.isNew = false
	return true
}

// Clear resets to the empty state and returns the new epoch.
func (s *DocumentIdentity) Clear() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.doc = nil
	s.isNew = false
	s.loading = false
	s.err = ""
	s.epoch++
	return s.epoch
}

// SetLoading marks processing as running or finished.
func (s *DocumentIdentity) SetLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = loading
}

// SetError records a processing error and ends loading.
func (s *DocumentIdentity) SetError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = msg
	s.loading = false
}

// Current returns the active document, or nil.
func (s *DocumentIdentity) Current() *domain.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc
}

// IsNew reports whether the current document has not been processed yet.
func (s *DocumentIdentity) IsNew() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isNew
}

// Epoch returns the current epoch.
func (s *DocumentIdentity) Epoch() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.epoch
}

// Snapshot returns the full state at once.
func (s *DocumentIdentity) Snapshot() driving.DocumentState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return driving.DocumentState{
		Document:  s.doc,
		IsNew:     s.isNew,
		IsLoading: s.loading,
		Error:     s.err,
		Epoch:     s.epoch,
	}
}
