package driving

import (
	"context"

	"github.com/custodia-labs/paperlens/internal/core/domain"
)

// DocumentState is a snapshot of the identity store.
type DocumentState struct {
	Document  *domain.Document
	IsNew     bool
	IsLoading bool
	Error     string
	Epoch     uint64
}

// ActionResult describes what a dispatched block action produced.
type ActionResult struct {
	// MessageID is the transcript entry created by the action, if any.
	MessageID string
	// Image is the block preview, nil when no preview was available.
	Image *domain.RegionImage
	// SavedPath is set by image actions.
	SavedPath string
	// AskPromptArmed is set by the ask action.
	AskPromptArmed bool
}

// Assistant is the application state: the current document, its layout and
// overlays, and the chat session. All mutations go through these operations.
type Assistant interface {
	// LoadDocument makes doc current, clears the transcript and any armed
	// ask prompt, then runs layout extraction for it.
	LoadDocument(ctx context.Context, doc *domain.Document) error

	// ProcessPending runs layout extraction when the current document is new.
	ProcessPending(ctx context.Context) error

	// ClearDocument resets the document, layout and transcript.
	ClearDocument()

	// Document returns a snapshot of the identity store.
	Document() DocumentState

	// Layout returns the current layout, nil before extraction completes.
	Layout() *domain.DocumentLayout

	// Overlays returns the overlay-eligible blocks of a zero-based page.
	Overlays(pageIndex int) []domain.LayoutBlock

	// Dispatch runs a block action.
	Dispatch(ctx context.Context, action domain.Action, blockID int) (ActionResult, error)

	// Submit sends free text: a block-scoped question while an ask prompt is
	// armed, otherwise a document question.
	Submit(ctx context.Context, text string) (domain.ChatMessage, error)

	// AskPrompt returns the armed ask prompt.
	AskPrompt() (domain.MarkupInfo, bool)

	// CancelAskPrompt disarms the ask prompt without sending anything.
	CancelAskPrompt()

	// CopyEntry copies a transcript entry's response, cleaned of markup, to
	// the clipboard.
	CopyEntry(messageID string) error

	// Transcript returns the transcript in insertion order.
	Transcript() []domain.ChatMessage

	// InputEnabled reports whether free-text submission is currently allowed.
	InputEnabled() bool

	// Changes signals after every transcript, document or layout change.
	// Signals coalesce; a receiver re-reads state after each one.
	Changes() <-chan struct{}
}
