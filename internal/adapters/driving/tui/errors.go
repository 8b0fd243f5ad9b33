package tui

import "errors"

// ErrMissingAssistant is returned when the assistant is not provided.
var ErrMissingAssistant = errors.New("tui: assistant is required")

// ErrMissingIngestor is returned when the file ingestor is not provided.
var ErrMissingIngestor = errors.New("tui: file ingestor is required")

// ErrInvalidPorts is returned when ports validation fails.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")
