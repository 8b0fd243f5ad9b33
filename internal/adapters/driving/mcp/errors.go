// Package mcp provides an MCP (Model Context Protocol) server adapter for paperlens.
// It lets AI assistants load a PDF, inspect its blocks and run block actions.
package mcp

import "errors"

// ErrMissingAssistant is returned when the assistant is not provided.
var ErrMissingAssistant = errors.New("mcp: assistant is required")

// ErrMissingIngestor is returned when the file ingestor is not provided.
var ErrMissingIngestor = errors.New("mcp: file ingestor is required")
