package domain

import (
	"fmt"
	"strings"
)

// Action is a user-triggered operation on a layout block.
// The set is closed; values outside it reach the dispatcher's unhandled arm.
type Action string

// Available block actions.
const (
	ActionCopy            Action = "copy"
	ActionExtractMarkdown Action = "extract_md"
	ActionExtractCSV      Action = "extract_csv"
	ActionExtractCode     Action = "extract_code"
	ActionExtractImage    Action = "extract_image"
	ActionSaveImage       Action = "save_image"
	ActionAsk             Action = "ask"
)

// IsValid returns true if the action is one of the known actions.
func (a Action) IsValid() bool {
	switch a {
	case ActionCopy, ActionExtractMarkdown, ActionExtractCSV, ActionExtractCode,
		ActionExtractImage, ActionSaveImage, ActionAsk:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (a Action) String() string {
	return string(a)
}

// Format returns the output format requested from the backend for this action.
func (a Action) Format() Format {
	switch a {
	case ActionExtractMarkdown:
		return FormatMarkdown
	case ActionExtractCSV:
		return FormatCSV
	case ActionExtractCode:
		return FormatCode
	case ActionCopy, ActionExtractImage, ActionSaveImage, ActionAsk:
		return FormatText
	default:
		return FormatText
	}
}

// Description is the transcript text for an action on a block type.
func (a Action) Description(t BlockType) string {
	switch a {
	case ActionCopy:
		return fmt.Sprintf("Copy %s content", t)
	case ActionExtractMarkdown:
		return fmt.Sprintf("Extract %s as Markdown", t)
	case ActionExtractCSV:
		return fmt.Sprintf("Extract %s as CSV", t)
	case ActionExtractCode:
		return fmt.Sprintf("Extract %s data as code", t)
	case ActionExtractImage:
		return fmt.Sprintf("Extract %s image", t)
	case ActionSaveImage:
		return fmt.Sprintf("Save %s image", t)
	case ActionAsk:
		return fmt.Sprintf("Ask about %s", t)
	default:
		return fmt.Sprintf("%s on %s", a, t)
	}
}

// Format is the output format of a region extraction.
type Format string

// Formats accepted by the graphics extraction endpoint.
const (
	FormatText     Format = "text"
	FormatMarkdown Format = "md"
	FormatCode     Format = "code"
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
)

// IsValid returns true if the format is accepted by the backend.
func (f Format) IsValid() bool {
	switch f {
	case FormatText, FormatMarkdown, FormatCode, FormatCSV, FormatJSON:
		return true
	default:
		return false
	}
}

// ActionOption is one entry of a block's action menu.
type ActionOption struct {
	Action Action `json:"action"`
	Label  string `json:"label"`
}

// ActionsFor returns the menu offered for a block type.
func ActionsFor(t BlockType) []ActionOption {
	//nolint:exhaustive // only overlay and text blocks carry menus
	switch t {
	case BlockTypeText:
		return []ActionOption{
			{ActionCopy, "Copy content"},
			{ActionAsk, "Ask about text"},
		}
	case BlockTypeTable:
		return []ActionOption{
			{ActionExtractMarkdown, "Extract as MD"},
			{ActionExtractCSV, "Extract as CSV"},
			{ActionExtractImage, "Extract image"},
			{ActionAsk, "Ask about table"},
		}
	case BlockTypePicture:
		return []ActionOption{
			{ActionSaveImage, "Save image"},
			{ActionAsk, "Ask about image"},
		}
	case BlockTypeChart:
		return []ActionOption{
			{ActionExtractCode, "Extract data as code"},
			{ActionAsk, "Ask about chart"},
		}
	case BlockTypeFormula:
		return []ActionOption{
			{ActionCopy, "Copy formula as latex"},
			{ActionAsk, "Ask about formula"},
		}
	default:
		return nil
	}
}

// ResolveAction finds name in the menu of t. An empty name picks the first
// action that is not ask.
func ResolveAction(t BlockType, name string) (Action, error) {
	options := ActionsFor(t)
	if len(options) == 0 {
		return "", fmt.Errorf("%w: %s blocks have no actions", ErrInvalidInput, t.Label())
	}
	for _, o := range options {
		if name == "" && o.Action != ActionAsk {
			return o.Action, nil
		}
		if string(o.Action) == name {
			return o.Action, nil
		}
	}
	return "", fmt.Errorf("%w: %s blocks support %s", ErrInvalidInput, t.Label(), ActionNames(t))
}

// ActionNames lists the menu of t as a comma separated string.
func ActionNames(t BlockType) string {
	options := ActionsFor(t)
	names := make([]string, 0, len(options))
	for _, o := range options {
		names = append(names, string(o.Action))
	}
	return strings.Join(names, ", ")
}
