package domain

import "time"

// MessageType distinguishes transcript entries.
type MessageType string

// Transcript entry types.
const (
	MessageTypeUser         MessageType = "user"
	MessageTypeSystem       MessageType = "system"
	MessageTypeMarkupAction MessageType = "markup_action"
	MessageTypeAskPrompt    MessageType = "ask_prompt"
)

// MessageStatus is the lifecycle state of a transcript entry.
type MessageStatus int

const (
	// StatusPending means the request behind the entry has not completed.
	StatusPending MessageStatus = iota
	// StatusResolved means the entry carries a response.
	StatusResolved
	// StatusFailed means the entry carries an error.
	StatusFailed
)

// String returns the string representation.
func (s MessageStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusResolved:
		return "resolved"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// MarkupInfo carries the block context of an action or block-scoped question.
type MarkupInfo struct {
	BlockType    BlockType `json:"blockType"`
	Action       Action    `json:"action"`
	BlockID      int       `json:"blockId"`
	Format       Format    `json:"format,omitempty"`
	ImageData    string    `json:"imageData,omitempty"`
	QuestionText string    `json:"questionText,omitempty"`
}

// ChatMessage is one transcript entry. It is created pending and mutated in
// place, matched by ID, to its terminal state.
type ChatMessage struct {
	ID        string      `json:"id"`
	Text      string      `json:"text"`
	Response  string      `json:"response"`
	Timestamp time.Time   `json:"timestamp"`
	IsLoading bool        `json:"isLoading"`
	Error     string      `json:"error,omitempty"`
	Type      MessageType `json:"type"`
	Markup    *MarkupInfo `json:"markupInfo,omitempty"`
	// SavedPath is set when an image action wrote an artifact to disk.
	SavedPath string `json:"savedPath,omitempty"`
}

// Status derives the lifecycle state from the entry's fields.
func (m ChatMessage) Status() MessageStatus {
	switch {
	case m.IsLoading:
		return StatusPending
	case m.Error != "":
		return StatusFailed
	default:
		return StatusResolved
	}
}

// Terminal reports whether the entry has reached resolved or failed.
func (m ChatMessage) Terminal() bool {
	return !m.IsLoading
}
