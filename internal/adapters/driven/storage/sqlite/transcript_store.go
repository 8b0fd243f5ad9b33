package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/custodia-labs/paperlens/internal/core/domain"
	"github.com/custodia-labs/paperlens/internal/core/ports/driven"
)

// transcriptStore implements driven.TranscriptArchive.
type transcriptStore struct {
	store *Store
}

var _ driven.TranscriptArchive = (*transcriptStore)(nil)

// Record stores or replaces an entry. The original timestamp and position
// are kept on replace.
func (s *transcriptStore) Record(ctx context.Context, documentID string, msg domain.ChatMessage) error {
	if documentID == "" || msg.ID == "" {
		return fmt.Errorf("%w: document id and message id are required", domain.ErrInvalidInput)
	}

	var markup sql.NullString
	if msg.Markup != nil {
		data, err := json.Marshal(msg.Markup)
		if err != nil {
			return fmt.Errorf("marshal markup: %w", err)
		}
		markup = sql.NullString{String: string(data), Valid: true}
	}

	created := msg.Timestamp
	if created.IsZero() {
		created = time.Now()
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO transcripts (id, document_id, text, response, error, type, markup, saved_path, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			response = excluded.response,
			error = excluded.error,
			markup = excluded.markup,
			saved_path = excluded.saved_path
	`, msg.ID, documentID, msg.Text, msg.Response, msg.Error, string(msg.Type), markup, msg.SavedPath, created.UnixNano())
	if err != nil {
		return fmt.Errorf("record transcript entry: %w", err)
	}
	return nil
}

// List returns a document's entries oldest first. With limit > 0 only the
// newest limit entries are returned.
func (s *transcriptStore) List(ctx context.Context, documentID string, limit int) ([]domain.ChatMessage, error) {
	query := `
		SELECT id, text, response, error, type, markup, saved_path, created_at
		FROM transcripts WHERE document_id = ?
		ORDER BY created_at, rowid
	`
	args := []any{documentID}
	if limit > 0 {
		query = `
			SELECT id, text, response, error, type, markup, saved_path, created_at FROM (
				SELECT *, rowid AS rid FROM transcripts WHERE document_id = ?
				ORDER BY created_at DESC, rowid DESC LIMIT ?
			) ORDER BY created_at, rid
		`
		args = append(args, limit)
	}

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transcript: %w", err)
	}
	defer rows.Close()

	var msgs []domain.ChatMessage
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, *msg)
	}
	return msgs, rows.Err()
}

// Documents returns document ids, most recently active first.
func (s *transcriptStore) Documents(ctx context.Context) ([]string, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT document_id FROM transcripts
		GROUP BY document_id
		ORDER BY MAX(created_at) DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Purge removes a document's entries.
func (s *transcriptStore) Purge(ctx context.Context, documentID string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM transcripts WHERE document_id = ?", documentID)
	if err != nil {
		return fmt.Errorf("purge transcript: %w", err)
	}
	return nil
}

func scanMessage(rows *sql.Rows) (*domain.ChatMessage, error) {
	var (
		msg     domain.ChatMessage
		msgType string
		markup  sql.NullString
		created int64
	)
	if err := rows.Scan(&msg.ID, &msg.Text, &msg.Response, &msg.Error, &msgType, &markup, &msg.SavedPath, &created); err != nil {
		return nil, fmt.Errorf("scan transcript entry: %w", err)
	}

	msg.Type = domain.MessageType(msgType)
	msg.Timestamp = time.Unix(0, created)
	if markup.Valid && markup.String != "" {
		var info domain.MarkupInfo
		if err := json.Unmarshal([]byte(markup.String), &info); err != nil {
			return nil, fmt.Errorf("unmarshal markup: %w", err)
		}
		msg.Markup = &info
	}
	return &msg, nil
}
