package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/paperlens/internal/core/domain"
	"github.com/custodia-labs/paperlens/internal/core/ports/driven"
	"github.com/custodia-labs/paperlens/internal/core/ports/driving"
	"github.com/custodia-labs/paperlens/internal/logger"
)

// Texts written by the dispatcher.
const (
	msgCopied          = "Content copied to clipboard successfully."
	msgNothingToCopy   = "No text content available to copy."
	msgNoContent       = "No content extracted."
	toastCopied        = "Content copied to clipboard"
	toastNoDocument    = "Unable to perform action"
	toastNoImage       = "Could not extract image from block"
	errNoArtifactStore = "no artifact store configured"
	errNoBackend       = "no backend configured"
)

// RegionSource produces block previews.
type RegionSource interface {
	Extract(ctx context.Context, block domain.LayoutBlock, pageIndex int) *domain.RegionImage
}

// ActionDispatcher maps a block action to a local effect, a backend call or
// an armed ask prompt. Backend and clipboard failures are written into the
// action's transcript entry and raised as a notification; they are not
// returned to the caller.
type ActionDispatcher struct {
	identity  *DocumentIdentity
	session   *ChatSession
	gateway   driven.BackendGateway
	regions   RegionSource
	clipboard driven.Clipboard
	artifacts driven.ArtifactStore
	notifier  driven.Notifier
}

// NewActionDispatcher creates a dispatcher. clipboard, artifacts and regions may be nil.
func NewActionDispatcher(
	identity *DocumentIdentity,
	session *ChatSession,
	gateway driven.BackendGateway,
	regions RegionSource,
	clipboard driven.Clipboard,
	artifacts driven.ArtifactStore,
	notifier driven.Notifier,
) *ActionDispatcher {
	return &ActionDispatcher{
		identity:  identity,
		session:   session,
		gateway:   gateway,
		regions:   regions,
		clipboard: clipboard,
		artifacts: artifacts,
		notifier:  notifier,
	}
}

// Dispatch runs action on block. The returned error is non-nil only when the
// action could not start: no document, or an image action without an image.
func (d *ActionDispatcher) Dispatch(
	ctx context.Context,
	action domain.Action,
	block domain.LayoutBlock,
) (driving.ActionResult, error) {
	doc := d.identity.Current()
	if doc == nil {
		d.notify(domain.LevelError, toastNoDocument)
		return driving.ActionResult{}, domain.ErrNoDocument
	}
	epoch := d.identity.Epoch()

	logger.Debug("dispatch %s on %s block %d (page %d)", action, block.Type, block.ID, block.PageNumber)

	var preview *domain.RegionImage
	if d.regions != nil && action != domain.ActionCopy {
		preview = d.regions.Extract(ctx, block, block.PageNumber)
	}
	if d.stale(epoch, action, block) {
		return driving.ActionResult{}, nil
	}

	markup := &domain.MarkupInfo{
		BlockType: block.Type,
		Action:    action,
		BlockID:   block.ID,
		Format:    action.Format(),
		ImageData: preview.DataURL(),
	}
	text := action.Description(block.Type)

	switch action {
	case domain.ActionCopy:
		return d.copyText(epoch, block, text, markup), nil

	case domain.ActionExtractMarkdown, domain.ActionExtractCSV, domain.ActionExtractCode:
		return d.extract(ctx, doc, epoch, action, block, text, markup, preview), nil

	case domain.ActionExtractImage, domain.ActionSaveImage:
		return d.saveImage(epoch, doc, block, text, markup, preview)

	case domain.ActionAsk:
		d.session.ArmAskPrompt(*markup)
		return driving.ActionResult{Image: preview, AskPromptArmed: true}, nil

	default:
		msg := d.session.Append(domain.ChatMessage{
			Text:     text,
			Response: fmt.Sprintf("%s action completed for %s block.", action, block.Type),
			Type:     domain.MessageTypeMarkupAction,
			Markup:   markup,
		})
		d.notify(domain.LevelInfo, fmt.Sprintf("%s action triggered on %s block", action, block.Type))
		return driving.ActionResult{MessageID: msg.ID, Image: preview}, nil
	}
}

// stale reports whether the document changed since epoch was captured.
func (d *ActionDispatcher) stale(epoch uint64, action domain.Action, block domain.LayoutBlock) bool {
	if d.identity.Epoch() == epoch {
		return false
	}
	logger.Debug("dispatch %s: document changed during block %d, dropping", action, block.ID)
	return true
}

func (d *ActionDispatcher) copyText(
	epoch uint64,
	block domain.LayoutBlock,
	text string,
	markup *domain.MarkupInfo,
) driving.ActionResult {
	entry := domain.ChatMessage{
		Text:   text,
		Type:   domain.MessageTypeMarkupAction,
		Markup: markup,
	}

	if block.TextContent == "" {
		entry.Response = msgNothingToCopy
		msg := d.session.Append(entry)
		return driving.ActionResult{MessageID: msg.ID}
	}

	var err error
	if d.clipboard == nil {
		err = &domain.ClipboardError{Err: errors.New("clipboard unavailable")}
	} else if werr := d.clipboard.WriteText(block.TextContent); werr != nil {
		err = &domain.ClipboardError{Err: werr}
	}
	if d.stale(epoch, domain.ActionCopy, block) {
		return driving.ActionResult{}
	}

	if err != nil {
		entry.Response = failureText(domain.ActionCopy, err)
		entry.Error = domain.UserMessage(err)
		msg := d.session.Append(entry)
		d.notify(domain.LevelError, entry.Response)
		return driving.ActionResult{MessageID: msg.ID}
	}

	entry.Response = msgCopied
	msg := d.session.Append(entry)
	d.notify(domain.LevelSuccess, toastCopied)
	return driving.ActionResult{MessageID: msg.ID}
}

func (d *ActionDispatcher) extract(
	ctx context.Context,
	doc *domain.Document,
	epoch uint64,
	action domain.Action,
	block domain.LayoutBlock,
	text string,
	markup *domain.MarkupInfo,
	preview *domain.RegionImage,
) driving.ActionResult {
	pending := d.session.Begin(domain.ChatMessage{
		Text:   text,
		Type:   domain.MessageTypeMarkupAction,
		Markup: markup,
	})
	result := driving.ActionResult{MessageID: pending.ID, Image: preview}

	var res *driven.RegionResult
	var err error
	if d.gateway == nil {
		err = &domain.RequestError{Err: errors.New(errNoBackend)}
	} else {
		res, err = d.gateway.ExtractRegion(ctx, driven.RegionRequest{
			DocumentID: doc.ID(),
			BlockID:    block.ID,
			Format:     action.Format(),
		})
	}

	if d.stale(epoch, action, block) {
		return result
	}

	if err != nil {
		response := failureText(action, err)
		d.session.Fail(pending.ID, response, domain.UserMessage(err))
		d.notify(domain.LevelError, response)
		return result
	}

	response := ""
	if res != nil {
		response = res.Text
	}
	if response == "" {
		response = msgNoContent
	}
	d.session.Resolve(pending.ID, response)
	d.notify(domain.LevelSuccess, fmt.Sprintf("%s extracted successfully", block.Type))
	return result
}

func (d *ActionDispatcher) saveImage(
	epoch uint64,
	doc *domain.Document,
	block domain.LayoutBlock,
	text string,
	markup *domain.MarkupInfo,
	preview *domain.RegionImage,
) (driving.ActionResult, error) {
	if preview == nil {
		d.notify(domain.LevelError, toastNoImage)
		return driving.ActionResult{}, domain.ErrNoImage
	}

	entry := domain.ChatMessage{
		Text:   text,
		Type:   domain.MessageTypeMarkupAction,
		Markup: markup,
	}

	name := fmt.Sprintf("%s-block-%d.png", doc.ID(), block.ID)
	var path string
	var err error
	if d.artifacts == nil {
		err = errors.New(errNoArtifactStore)
	} else {
		path, err = d.artifacts.SaveImage(name, preview.PNG)
	}
	if d.stale(epoch, markup.Action, block) {
		return driving.ActionResult{}, nil
	}

	if err != nil {
		entry.Response = failureText(markup.Action, err)
		entry.Error = domain.UserMessage(err)
		msg := d.session.Append(entry)
		d.notify(domain.LevelError, entry.Response)
		return driving.ActionResult{MessageID: msg.ID, Image: preview}, nil
	}

	entry.Response = fmt.Sprintf("Image saved to %s", path)
	entry.SavedPath = path
	msg := d.session.Append(entry)
	d.notify(domain.LevelSuccess, fmt.Sprintf("%s image saved successfully", block.Type))
	return driving.ActionResult{MessageID: msg.ID, Image: preview, SavedPath: path}, nil
}

func (d *ActionDispatcher) notify(level domain.NotificationLevel, message string) {
	if d.notifier != nil {
		d.notifier.Notify(level, message)
	}
}

func failureText(action domain.Action, err error) string {
	return fmt.Sprintf("Failed to %s: %s", action, domain.UserMessage(err))
}
