// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/paperlens/internal/core/domain"
	"github.com/custodia-labs/paperlens/internal/core/ports/driving"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewViewer shows the document's pages and blocks.
	ViewViewer
	// ViewChat shows the transcript and question input.
	ViewChat
	// ViewSettings is the settings configuration view.
	ViewSettings
	// ViewHelp is the help/keybindings view.
	ViewHelp
	// ViewRecovery replaces everything after an unexpected failure.
	ViewRecovery
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewViewer:
		return "viewer"
	case ViewChat:
		return "chat"
	case ViewSettings:
		return "settings"
	case ViewHelp:
		return "help"
	case ViewRecovery:
		return "recovery"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// OpenRequested asks the app to load the PDF at Path.
type OpenRequested struct {
	Path string
}

// DocumentLoaded signals that loading and layout extraction finished.
type DocumentLoaded struct {
	Err error
}

// StateChanged signals that the assistant's state changed and views should
// re-read it.
type StateChanged struct{}

// ActionRequested asks the app to dispatch an action on a block.
type ActionRequested struct {
	Action  domain.Action
	BlockID int
}

// ActionCompleted carries the outcome of a dispatched action.
type ActionCompleted struct {
	Action domain.Action
	Result driving.ActionResult
	Err    error
}

// QuestionSubmitted asks the app to send free text.
type QuestionSubmitted struct {
	Text string
}

// AnswerReceived carries the settled transcript entry of a question.
type AnswerReceived struct {
	Message domain.ChatMessage
	Err     error
}

// CopyRequested asks the app to copy a transcript entry's response.
type CopyRequested struct {
	MessageID string
}

// NotificationsTick refreshes the notification area.
type NotificationsTick struct{}

// SettingsLoaded carries the application settings.
type SettingsLoaded struct {
	Settings *domain.AppSettings
	Err      error
}

// SettingsSaved signals settings were saved.
type SettingsSaved struct {
	Err error
}
