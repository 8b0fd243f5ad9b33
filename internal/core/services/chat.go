package services

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/paperlens/internal/core/domain"
)

// ChatSession is the transcript state machine. Entries are kept in a map by
// id for in-place resolution and in a separate slice for display order.
// At most one ask prompt is armed at a time.
type ChatSession struct {
	mu        sync.RWMutex
	order     []string
	messages  map[string]*domain.ChatMessage
	askPrompt *domain.MarkupInfo
	// promptGen increments on every arm.
	promptGen uint64

	newID func() string
	now   func() time.Time

	onChange  []func()
	onSettled []func(domain.ChatMessage)
}

// NewChatSession creates an empty session.
func NewChatSession() *ChatSession {
	return &ChatSession{
		messages: make(map[string]*domain.ChatMessage),
		newID:    uuid.NewString,
		now:      time.Now,
	}
}

// OnChange registers a hook called after every mutation.
// Hooks run outside the session lock.
func (s *ChatSession) OnChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = append(s.onChange, fn)
}

// OnSettled registers a hook called when an entry reaches a terminal state.
func (s *ChatSession) OnSettled(fn func(domain.ChatMessage)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onSettled = append(s.onSettled, fn)
}

// Begin appends a pending entry and returns it with its id assigned.
func (s *ChatSession) Begin(msg domain.ChatMessage) domain.ChatMessage {
	msg.IsLoading = true
	msg.Response = ""
	msg.Error = ""
	return s.add(msg)
}

// Append adds an entry that is already in its terminal state.
func (s *ChatSession) Append(msg domain.ChatMessage) domain.ChatMessage {
	msg.IsLoading = false
	msg = s.add(msg)
	s.settled(msg)
	return msg
}

func (s *ChatSession) add(msg domain.ChatMessage) domain.ChatMessage {
	s.mu.Lock()
	if msg.ID == "" {
		msg.ID = s.newID()
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = s.now()
	}
	if msg.Type == "" {
		msg.Type = domain.MessageTypeUser
	}
	if _, exists := s.messages[msg.ID]; !exists {
		s.order = append(s.order, msg.ID)
	}
	stored := msg
	s.messages[msg.ID] = &stored
	s.mu.Unlock()

	s.changed()
	return msg
}

// Resolve moves a pending entry to resolved. It returns false when the id is
// unknown, e.g. because the transcript was cleared while the request ran.
func (s *ChatSession) Resolve(id, response string) (domain.ChatMessage, bool) {
	return s.settle(id, func(m *domain.ChatMessage) {
		m.Response = response
		m.Error = ""
	})
}

// Fail moves a pending entry to failed.
func (s *ChatSession) Fail(id, response, errMsg string) (domain.ChatMessage, bool) {
	return s.settle(id, func(m *domain.ChatMessage) {
		m.Response = response
		m.Error = errMsg
	})
}

// Annotate updates a pending or settled entry without changing its state.
func (s *ChatSession) Annotate(id string, fn func(*domain.ChatMessage)) bool {
	s.mu.Lock()
	m, ok := s.messages[id]
	if ok {
		fn(m)
	}
	s.mu.Unlock()

	if ok {
		s.changed()
	}
	return ok
}

func (s *ChatSession) settle(id string, apply func(*domain.ChatMessage)) (domain.ChatMessage, bool) {
	s.mu.Lock()
	m, ok := s.messages[id]
	if !ok {
		s.mu.Unlock()
		return domain.ChatMessage{}, false
	}
	apply(m)
	m.IsLoading = false
	out := *m
	s.mu.Unlock()

	s.changed()
	s.settled(out)
	return out, true
}

// Message returns an entry by id.
func (s *ChatSession) Message(id string) (domain.ChatMessage, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.messages[id]
	if !ok {
		return domain.ChatMessage{}, false
	}
	return *m, true
}

// Messages returns a copy of the transcript in insertion order.
func (s *ChatSession) Messages() []domain.ChatMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.ChatMessage, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.messages[id])
	}
	return out
}

// Len returns the number of entries.
func (s *ChatSession) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Pending returns the number of entries still loading.
func (s *ChatSession) Pending() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, m := range s.messages {
		if m.IsLoading {
			n++
		}
	}
	return n
}

// ArmAskPrompt arms the ask prompt, replacing any armed one.
// It reports whether a previous prompt was discarded.
func (s *ChatSession) ArmAskPrompt(info domain.MarkupInfo) bool {
	s.mu.Lock()
	replaced := s.askPrompt != nil
	info.Action = domain.ActionAsk
	if info.Format == "" {
		info.Format = domain.FormatText
	}
	s.askPrompt = &info
	s.promptGen++
	s.mu.Unlock()

	s.changed()
	return replaced
}

// AskPrompt returns the armed ask prompt.
func (s *ChatSession) AskPrompt() (domain.MarkupInfo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.askPrompt == nil {
		return domain.MarkupInfo{}, false
	}
	return *s.askPrompt, true
}

// ArmedAskPrompt returns the armed ask prompt with the generation it was
// armed under.
func (s *ChatSession) ArmedAskPrompt() (domain.MarkupInfo, uint64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.askPrompt == nil {
		return domain.MarkupInfo{}, 0, false
	}
	return *s.askPrompt, s.promptGen, true
}

// DisarmAskPromptIf clears the ask prompt only if it is still the one armed
// under gen. A prompt armed later is kept.
func (s *ChatSession) DisarmAskPromptIf(gen uint64) bool {
	s.mu.Lock()
	match := s.askPrompt != nil && s.promptGen == gen
	if match {
		s.askPrompt = nil
	}
	s.mu.Unlock()

	if match {
		s.changed()
	}
	return match
}

// DisarmAskPrompt clears the ask prompt without sending anything.
func (s *ChatSession) DisarmAskPrompt() {
	s.mu.Lock()
	had := s.askPrompt != nil
	s.askPrompt = nil
	s.mu.Unlock()

	if had {
		s.changed()
	}
}

// Clear discards every entry and the armed ask prompt.
func (s *ChatSession) Clear() {
	s.mu.Lock()
	s.order = nil
	s.messages = make(map[string]*domain.ChatMessage)
	s.askPrompt = nil
	s.mu.Unlock()

	s.changed()
}

func (s *ChatSession) changed() {
	s.mu.RLock()
	hooks := append([]func(){}, s.onChange...)
	s.mu.RUnlock()
	for _, fn := range hooks {
		fn()
	}
}

func (s *ChatSession) settled(msg domain.ChatMessage) {
	s.mu.RLock()
	hooks := append([]func(domain.ChatMessage){}, s.onSettled...)
	s.mu.RUnlock()
	for _, fn := range hooks {
		fn(msg)
	}
}
