package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/custodia-labs/paperlens/internal/core/domain"
	"github.com/custodia-labs/paperlens/internal/core/ports/driven"
	"github.com/custodia-labs/paperlens/internal/core/ports/driving"
	"github.com/custodia-labs/paperlens/internal/logger"
)

// Ensure Assistant implements the interface.
var _ driving.Assistant = (*Assistant)(nil)

// Texts raised by layout processing.
const (
	toastLayoutReady  = "Document structure analyzed successfully"
	toastLayoutFailed = "Failed to process PDF: %s"
)

// toastCopyFailed is raised when a transcript entry cannot be copied.
const toastCopyFailed = "Failed to copy: %s"

// AssistantDeps are the driven ports an Assistant talks to. Only Gateway is
// required for backend operations; the rest may be nil.
type AssistantDeps struct {
	Gateway   driven.BackendGateway
	Regions   RegionSource
	Clipboard driven.Clipboard
	Artifacts driven.ArtifactStore
	Notifier  driven.Notifier
	Archive   driven.TranscriptArchive
	Viewer    driven.DocumentViewer
}

// Assistant composes the identity store, overlay engine, chat session,
// dispatcher and conversation into the application state.
type Assistant struct {
	identity     *DocumentIdentity
	session      *ChatSession
	overlay      *OverlayEngine
	dispatcher   *ActionDispatcher
	conversation *Conversation
	gateway      driven.BackendGateway
	notifier     driven.Notifier
	archive      driven.TranscriptArchive
	viewer       driven.DocumentViewer
	clipboard    driven.Clipboard

	autoSave   atomic.Bool
	processing sync.Mutex
	changes    chan struct{}
}

// NewAssistant creates an assistant with an empty document and transcript.
func NewAssistant(deps AssistantDeps) *Assistant {
	identity := NewDocumentIdentity()
	session := NewChatSession()

	a := &Assistant{
		identity:     identity,
		session:      session,
		overlay:      NewOverlayEngine(),
		dispatcher:   NewActionDispatcher(identity, session, deps.Gateway, deps.Regions, deps.Clipboard, deps.Artifacts, deps.Notifier),
		conversation: NewConversation(identity, session, deps.Gateway, deps.Notifier),
		gateway:      deps.Gateway,
		notifier:     deps.Notifier,
		archive:      deps.Archive,
		viewer:       deps.Viewer,
		clipboard:    deps.Clipboard,
		changes:      make(chan struct{}, 1),
	}
	a.autoSave.Store(true)

	session.OnChange(a.changed)
	session.OnSettled(a.archiveMessage)
	return a
}

// SetAutoSave enables or disables archiving of settled transcript entries.
func (a *Assistant) SetAutoSave(enabled bool) {
	a.autoSave.Store(enabled)
}

// LoadDocument makes doc current and runs layout extraction for it.
func (a *Assistant) LoadDocument(ctx context.Context, doc *domain.Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document is required", domain.ErrInvalidInput)
	}

	if a.viewer != nil {
		if err := a.viewer.Open(doc.Content); err != nil {
			logger.Warn("open %s for rendering: %v", doc.Name(), err)
		}
	}

	a.identity.SetDocument(doc)
	a.overlay.Clear()
	a.session.Clear()
	a.changed()

	logger.Info("loaded %s (%d bytes)", doc.Name(), doc.Metadata.Size)
	return a.ProcessPending(ctx)
}

// ProcessPending extracts the layout of the current document if it has not
// been processed yet. A result that arrives after the document changed is
// discarded, and the newer document is processed instead.
func (a *Assistant) ProcessPending(ctx context.Context) error {
	a.processing.Lock()
	defer a.processing.Unlock()

	for {
		state := a.identity.Snapshot()
		if state.Document == nil || !state.IsNew {
			return nil
		}
		if a.gateway == nil {
			a.identity.AcknowledgeEpoch(state.Epoch)
			return nil
		}

		a.identity.SetLoading(true)
		a.changed()

		done := logger.Timed("layout extraction")
		result, err := a.gateway.ExtractLayout(ctx, state.Document)
		done()

		if !a.identity.AcknowledgeEpoch(state.Epoch) {
			logger.Debug("layout for %s arrived after the document changed, discarding", state.Document.ID())
			continue
		}

		if err != nil {
			msg := domain.UserMessage(err)
			a.identity.SetError(msg)
			a.notify(domain.LevelError, fmt.Sprintf(toastLayoutFailed, msg))
			a.changed()
			return err
		}

		if result.DocumentID != "" && result.DocumentID != state.Document.ID() {
			logger.Warn("backend assigned document id %q to %q; requests use %q",
				result.DocumentID, state.Document.Name(), state.Document.ID())
		}

		layout := result.Layout
		a.overlay.SetLayout(&layout)
		a.identity.SetLoading(false)
		logger.Info("layout: %d blocks on %d pages", len(layout.Blocks), layout.PageCount)
		a.notify(domain.LevelSuccess, toastLayoutReady)
		a.changed()
		return nil
	}
}

// ClearDocument resets the document, layout and transcript.
func (a *Assistant) ClearDocument() {
	a.identity.Clear()
	a.overlay.Clear()
	a.session.Clear()
	if a.viewer != nil {
		if err := a.viewer.Close(); err != nil {
			logger.Debug("close viewer: %v", err)
		}
	}
	a.changed()
}

// Document returns a snapshot of the identity store.
func (a *Assistant) Document() driving.DocumentState {
	return a.identity.Snapshot()
}

// Layout returns the current layout.
func (a *Assistant) Layout() *domain.DocumentLayout {
	return a.overlay.Layout()
}

// Overlays returns the overlay blocks of a zero-based page.
func (a *Assistant) Overlays(pageIndex int) []domain.LayoutBlock {
	return a.overlay.BlocksForPage(pageIndex)
}

// PageRendered re-evaluates the overlays of a freshly mounted page and
// returns how many it has.
func (a *Assistant) PageRendered(pageIndex int) int {
	if a.overlay.Layout() == nil {
		return 0
	}
	n := len(a.overlay.BlocksForPage(pageIndex))
	logger.Debug("page %d rendered with %d overlays", pageIndex+1, n)
	a.changed()
	return n
}

// Dispatch runs action on the block with blockID.
func (a *Assistant) Dispatch(ctx context.Context, action domain.Action, blockID int) (driving.ActionResult, error) {
	if !action.IsValid() {
		return driving.ActionResult{}, fmt.Errorf("%w: unknown action %q", domain.ErrInvalidInput, action)
	}
	if a.identity.Current() == nil {
		return a.dispatcher.Dispatch(ctx, action, domain.LayoutBlock{ID: blockID})
	}
	if a.overlay.Layout() == nil {
		return driving.ActionResult{}, domain.ErrNoLayout
	}
	block, ok := a.overlay.Block(blockID)
	if !ok {
		return driving.ActionResult{}, fmt.Errorf("block %d: %w", blockID, domain.ErrNotFound)
	}
	return a.dispatcher.Dispatch(ctx, action, block)
}

// Submit sends free text.
func (a *Assistant) Submit(ctx context.Context, text string) (domain.ChatMessage, error) {
	msg, err := a.conversation.Submit(ctx, text)
	a.changed()
	return msg, err
}

// AskPrompt returns the armed ask prompt.
func (a *Assistant) AskPrompt() (domain.MarkupInfo, bool) {
	return a.session.AskPrompt()
}

// CancelAskPrompt disarms the ask prompt.
func (a *Assistant) CancelAskPrompt() {
	a.session.DisarmAskPrompt()
}

// CopyEntry copies an entry's cleaned response to the clipboard.
func (a *Assistant) CopyEntry(messageID string) error {
	var (
		msg   domain.ChatMessage
		found bool
	)
	for _, m := range a.session.Messages() {
		if m.ID == messageID {
			msg, found = m, true
			break
		}
	}
	if !found {
		return fmt.Errorf("message %s: %w", messageID, domain.ErrNotFound)
	}

	text := CleanResponse(msg.Response)
	if text == "" {
		a.notify(domain.LevelWarning, msgNothingToCopy)
		return nil
	}

	var err error
	if a.clipboard == nil {
		err = &domain.ClipboardError{Err: errors.New("clipboard unavailable")}
	} else if werr := a.clipboard.WriteText(text); werr != nil {
		err = &domain.ClipboardError{Err: werr}
	}
	if err != nil {
		a.notify(domain.LevelError, fmt.Sprintf(toastCopyFailed, domain.UserMessage(err)))
		return err
	}
	a.notify(domain.LevelSuccess, toastCopied)
	return nil
}

// Transcript returns the transcript in insertion order.
func (a *Assistant) Transcript() []domain.ChatMessage {
	return a.session.Messages()
}

// InputEnabled reports whether free-text submission is allowed.
func (a *Assistant) InputEnabled() bool {
	return a.conversation.InputEnabled()
}

// Changes signals after state changes. Signals coalesce.
func (a *Assistant) Changes() <-chan struct{} {
	return a.changes
}

func (a *Assistant) changed() {
	select {
	case a.changes <- struct{}{}:
	default:
	}
}

func (a *Assistant) notify(level domain.NotificationLevel, message string) {
	if a.notifier != nil {
		a.notifier.Notify(level, message)
	}
}

func (a *Assistant) archiveMessage(msg domain.ChatMessage) {
	if a.archive == nil || !a.autoSave.Load() || !msg.Terminal() {
		return
	}
	doc := a.identity.Current()
	if doc == nil {
		return
	}
	msg.Markup = archivedMarkup(msg.Markup)
	if err := a.archive.Record(context.Background(), doc.ID(), msg); err != nil {
		logger.Warn("archive message %s: %v", msg.ID, err)
	}
}

// archivedMarkup drops the preview image; archived entries keep only text.
func archivedMarkup(m *domain.MarkupInfo) *domain.MarkupInfo {
	if m == nil {
		return nil
	}
	c := *m
	c.ImageData = ""
	return &c
}
