package mcp

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/paperlens/internal/core/domain"
)

func TestExtractDocumentID(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{
			name:     "valid history URI",
			uri:      "paperlens://history/report",
			expected: "report",
		},
		{
			name:     "invalid prefix",
			uri:      "file://history/report",
			expected: "",
		},
		{
			name:     "empty URI",
			uri:      "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractDocumentID(tt.uri))
		})
	}
}

// Helper to create a ReadResourceRequest with the given URI.
func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestServer_handleTranscriptResource(t *testing.T) {
	ctx := context.Background()

	t.Run("empty transcript", func(t *testing.T) {
		f := newFixture(t)

		result, err := f.server.handleTranscriptResource(ctx, makeReadResourceRequest("paperlens://transcript"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "[]", result.Contents[0].Text)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)
	})

	t.Run("settled entries", func(t *testing.T) {
		f := newFixture(t)
		f.load(t)
		_, _, err := f.server.handleAskQuestion(ctx, nil, AskQuestionInput{Question: "answer?"})
		require.NoError(t, err)

		result, err := f.server.handleTranscriptResource(ctx, makeReadResourceRequest("paperlens://transcript"))
		require.NoError(t, err)

		var entries []EntryOutput
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &entries))
		require.Len(t, entries, 1)
		assert.Equal(t, "42", entries[0].Response)
	})
}

func TestServer_handleLayoutResource(t *testing.T) {
	ctx := context.Background()

	t.Run("no document", func(t *testing.T) {
		f := newFixture(t)

		result, err := f.server.handleLayoutResource(ctx, makeReadResourceRequest("paperlens://layout"))

		require.NoError(t, err)
		assert.Equal(t, "null", result.Contents[0].Text)
	})

	t.Run("loaded document", func(t *testing.T) {
		f := newFixture(t)
		f.load(t)

		result, err := f.server.handleLayoutResource(ctx, makeReadResourceRequest("paperlens://layout"))
		require.NoError(t, err)

		var layout domain.DocumentLayout
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &layout))
		assert.Equal(t, 2, layout.PageCount)
		assert.Len(t, layout.Blocks, 3)
	})
}

func TestServer_handleHistoryResource(t *testing.T) {
	ctx := context.Background()

	t.Run("archived transcript", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.archive.Record(ctx, "report", domain.ChatMessage{
			ID: "m1", Text: "answer?", Response: "42", Timestamp: time.Now(),
		}))

		result, err := f.server.handleHistoryResource(ctx, makeReadResourceRequest("paperlens://history/report"))
		require.NoError(t, err)

		var entries []EntryOutput
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &entries))
		require.Len(t, entries, 1)
		assert.Equal(t, "m1", entries[0].MessageID)
	})

	t.Run("unknown document", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.server.handleHistoryResource(ctx, makeReadResourceRequest("paperlens://history/missing"))

		assert.Error(t, err)
	})

	t.Run("malformed URI", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.server.handleHistoryResource(ctx, makeReadResourceRequest("paperlens://other"))

		assert.Error(t, err)
	})
}
