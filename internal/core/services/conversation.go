package services

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/custodia-labs/paperlens/internal/core/domain"
	"github.com/custodia-labs/paperlens/internal/core/ports/driven"
	"github.com/custodia-labs/paperlens/internal/logger"
)

// Texts written by the conversation.
const (
	msgNoResponse     = "No response received"
	msgFailedResponse = "Failed to get response"
)

// Conversation sends free-text submissions: document questions, or a
// block-scoped question while an ask prompt is armed.
type Conversation struct {
	identity *DocumentIdentity
	session  *ChatSession
	gateway  driven.BackendGateway
	notifier driven.Notifier
	inFlight atomic.Bool
}

// NewConversation creates a conversation over the session.
func NewConversation(
	identity *DocumentIdentity,
	session *ChatSession,
	gateway driven.BackendGateway,
	notifier driven.Notifier,
) *Conversation {
	return &Conversation{
		identity: identity,
		session:  session,
		gateway:  gateway,
		notifier: notifier,
	}
}

// InputEnabled is false without a document, while a submission is in flight,
// or when no backend is wired.
func (c *Conversation) InputEnabled() bool {
	return c.gateway != nil && c.identity.Current() != nil && !c.inFlight.Load()
}

// InFlight reports whether a submission is running.
func (c *Conversation) InFlight() bool {
	return c.inFlight.Load()
}

// Submit sends text and returns the settled transcript entry. Backend
// failures are recorded in the entry, not returned.
func (c *Conversation) Submit(ctx context.Context, text string) (domain.ChatMessage, error) {
	question := strings.TrimSpace(text)
	if question == "" {
		return domain.ChatMessage{}, domain.ErrEmptyQuestion
	}
	doc := c.identity.Current()
	if doc == nil {
		return domain.ChatMessage{}, domain.ErrNoDocument
	}
	if c.gateway == nil || !c.inFlight.CompareAndSwap(false, true) {
		return domain.ChatMessage{}, domain.ErrInputDisabled
	}
	defer c.inFlight.Store(false)

	epoch := c.identity.Epoch()
	if prompt, gen, ok := c.session.ArmedAskPrompt(); ok {
		return c.askAboutBlock(ctx, doc, epoch, prompt, gen, question), nil
	}
	return c.askDocument(ctx, doc, epoch, question), nil
}

func (c *Conversation) askDocument(ctx context.Context, doc *domain.Document, epoch uint64, question string) domain.ChatMessage {
	pending := c.session.Begin(domain.ChatMessage{
		Text: question,
		Type: domain.MessageTypeUser,
	})

	answer, err := c.gateway.AskQuestion(ctx, doc.ID(), question)
	if c.identity.Epoch() != epoch {
		logger.Debug("conversation: document changed while answering, dropping result")
		return pending
	}

	if err != nil {
		return c.fail(pending.ID, err)
	}

	response := ""
	if answer != nil {
		response = answer.Answer
	}
	if response == "" {
		response = msgNoResponse
	}
	msg, _ := c.session.Resolve(pending.ID, response)
	return msg
}

func (c *Conversation) askAboutBlock(
	ctx context.Context,
	doc *domain.Document,
	epoch uint64,
	prompt domain.MarkupInfo,
	gen uint64,
	question string,
) domain.ChatMessage {
	markup := prompt
	markup.Format = domain.FormatText
	markup.QuestionText = question

	pending := c.session.Begin(domain.ChatMessage{
		Text:   fmt.Sprintf("Question about %s", prompt.BlockType),
		Type:   domain.MessageTypeMarkupAction,
		Markup: &markup,
	})

	res, err := c.gateway.ExtractRegion(ctx, driven.RegionRequest{
		DocumentID: doc.ID(),
		BlockID:    prompt.BlockID,
		Format:     domain.FormatText,
		Prompt:     question,
	})
	if c.identity.Epoch() != epoch {
		logger.Debug("conversation: document changed while asking about block %d, dropping result", prompt.BlockID)
		return pending
	}
	defer c.session.DisarmAskPromptIf(gen)

	if err != nil {
		return c.fail(pending.ID, err)
	}

	response := ""
	if res != nil {
		response = res.Text
	}
	if response == "" {
		response = msgNoResponse
	}
	msg, _ := c.session.Resolve(pending.ID, response)
	return msg
}

func (c *Conversation) fail(id string, err error) domain.ChatMessage {
	userMsg := domain.UserMessage(err)
	msg, _ := c.session.Fail(id, msgFailedResponse, userMsg)
	if c.notifier != nil {
		c.notifier.Notify(domain.LevelError, userMsg)
	}
	return msg
}
