package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/paperlens/internal/core/domain"
)

func TestTranscriptArchive_RecordAndList(t *testing.T) {
	a := NewTranscriptArchive()
	ctx := context.Background()

	require.NoError(t, a.Record(ctx, "doc", domain.ChatMessage{ID: "m1", Text: "one"}))
	require.NoError(t, a.Record(ctx, "doc", domain.ChatMessage{ID: "m2", Text: "two"}))

	msgs, err := a.List(ctx, "doc", 0)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "m1", msgs[0].ID)
	assert.Equal(t, "m2", msgs[1].ID)
}

func TestTranscriptArchive_ReplaceKeepsPositionAndTimestamp(t *testing.T) {
	a := NewTranscriptArchive()
	ctx := context.Background()
	created := time.Unix(100, 0)

	require.NoError(t, a.Record(ctx, "doc", domain.ChatMessage{ID: "m1", Timestamp: created}))
	require.NoError(t, a.Record(ctx, "doc", domain.ChatMessage{ID: "m2"}))
	require.NoError(t, a.Record(ctx, "doc", domain.ChatMessage{ID: "m1", Response: "done", Timestamp: time.Unix(500, 0)}))

	msgs, err := a.List(ctx, "doc", 0)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "m1", msgs[0].ID)
	assert.Equal(t, "done", msgs[0].Response)
	assert.True(t, msgs[0].Timestamp.Equal(created))
}

func TestTranscriptArchive_ListLimit(t *testing.T) {
	a := NewTranscriptArchive()
	ctx := context.Background()
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, a.Record(ctx, "doc", domain.ChatMessage{ID: id}))
	}

	msgs, err := a.List(ctx, "doc", 2)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "b", msgs[0].ID)
	assert.Equal(t, "c", msgs[1].ID)
}

func TestTranscriptArchive_ListReturnsCopy(t *testing.T) {
	a := NewTranscriptArchive()
	ctx := context.Background()
	require.NoError(t, a.Record(ctx, "doc", domain.ChatMessage{ID: "m1", Text: "original"}))

	msgs, _ := a.List(ctx, "doc", 0)
	msgs[0].Text = "changed"

	again, _ := a.List(ctx, "doc", 0)
	assert.Equal(t, "original", again[0].Text)
}

func TestTranscriptArchive_DocumentsMostRecentFirst(t *testing.T) {
	a := NewTranscriptArchive()
	ctx := context.Background()
	require.NoError(t, a.Record(ctx, "first", domain.ChatMessage{ID: "m1"}))
	require.NoError(t, a.Record(ctx, "second", domain.ChatMessage{ID: "m2"}))

	ids, err := a.Documents(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"second", "first"}, ids)

	require.NoError(t, a.Record(ctx, "first", domain.ChatMessage{ID: "m3"}))
	ids, _ = a.Documents(ctx)
	assert.Equal(t, []string{"first", "second"}, ids)
}

func TestTranscriptArchive_Purge(t *testing.T) {
	a := NewTranscriptArchive()
	ctx := context.Background()
	require.NoError(t, a.Record(ctx, "doc", domain.ChatMessage{ID: "m1"}))
	require.NoError(t, a.Purge(ctx, "doc"))

	msgs, err := a.List(ctx, "doc", 0)
	require.NoError(t, err)
	assert.Empty(t, msgs)
	ids, _ := a.Documents(ctx)
	assert.Empty(t, ids)
}

func TestTranscriptArchive_Validation(t *testing.T) {
	a := NewTranscriptArchive()
	assert.ErrorIs(t, a.Record(context.Background(), "", domain.ChatMessage{ID: "m1"}), domain.ErrInvalidInput)
	assert.ErrorIs(t, a.Record(context.Background(), "doc", domain.ChatMessage{}), domain.ErrInvalidInput)
}
