package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/paperlens/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for paperlens resources.
	uriScheme = "paperlens://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "transcript",
		Name:        "transcript",
		Description: "Transcript of the open document",
		MIMEType:    "application/json",
	}, s.handleTranscriptResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "layout",
		Name:        "layout",
		Description: "Layout blocks of the open document",
		MIMEType:    "application/json",
	}, s.handleLayoutResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "history/{documentId}",
		Name:        "document-history",
		Description: "Archived transcript of a document",
		MIMEType:    "application/json",
	}, s.handleHistoryResource)
}

// handleTranscriptResource returns the current transcript without preview images.
func (s *Server) handleTranscriptResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	msgs := s.ports.Assistant.Transcript()
	entries := make([]EntryOutput, len(msgs))
	for i := range msgs {
		entries[i] = entryOutput(msgs[i])
	}
	return jsonResult(req.Params.URI, entries)
}

// handleLayoutResource returns the full layout, or null when none is loaded.
func (s *Server) handleLayoutResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	return jsonResult(req.Params.URI, s.ports.Assistant.Layout())
}

// handleHistoryResource returns a document's archived transcript.
func (s *Server) handleHistoryResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.History == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	docID := extractDocumentID(req.Params.URI)
	if docID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	msgs, err := s.ports.History.Transcript(ctx, docID, 0)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}
	entries := make([]EntryOutput, len(msgs))
	for i := range msgs {
		entries[i] = entryOutput(msgs[i])
	}
	return jsonResult(req.Params.URI, entries)
}

func jsonResult(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractDocumentID extracts the document ID from a URI like paperlens://history/{documentId}.
func extractDocumentID(uri string) string {
	const prefix = uriScheme + "history/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	return strings.TrimPrefix(uri, prefix)
}
