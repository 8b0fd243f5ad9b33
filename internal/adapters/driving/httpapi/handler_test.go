package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/paperlens/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/paperlens/internal/core/domain"
	"github.com/custodia-labs/paperlens/internal/core/ports/driven"
	"github.com/custodia-labs/paperlens/internal/core/services"
)

// mockGateway is a mock implementation of driven.BackendGateway.
type mockGateway struct {
	layout    domain.DocumentLayout
	layoutErr error
	answer    string
	region    string
}

func (m *mockGateway) ExtractLayout(_ context.Context, doc *domain.Document) (*domain.LayoutResult, error) {
	if m.layoutErr != nil {
		return nil, m.layoutErr
	}
	return &domain.LayoutResult{DocumentID: doc.ID(), Layout: m.layout}, nil
}

func (m *mockGateway) ExtractRegion(_ context.Context, req driven.RegionRequest) (*driven.RegionResult, error) {
	return &driven.RegionResult{Text: m.region, BlockID: req.BlockID, Format: string(req.Format)}, nil
}

func (m *mockGateway) AskQuestion(_ context.Context, _, _ string) (*driven.Answer, error) {
	return &driven.Answer{Answer: m.answer}, nil
}

type fixture struct {
	handler  http.Handler
	gateway  *mockGateway
	notifier *services.NotificationCenter
	settings *services.SettingsService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	gateway := &mockGateway{
		layout: domain.DocumentLayout{
			PageCount: 2,
			Blocks: []domain.LayoutBlock{
				{ID: 1, Type: domain.BlockTypeText, PageNumber: 0, TextContent: "Introduction"},
				{ID: 2, Type: domain.BlockTypeTable, PageNumber: 0, TextContent: "a | b"},
				{ID: 3, Type: domain.BlockTypePicture, PageNumber: 1},
			},
		},
		answer: "42",
		region: "| a | b |",
	}
	notifier := services.NewNotificationCenter()
	settings := services.NewSettingsService(memory.NewConfigStore())
	assistant := services.NewAssistant(services.AssistantDeps{
		Gateway:  gateway,
		Notifier: notifier,
	})

	handler, err := NewRouter(&Ports{
		Assistant:     assistant,
		Ingestor:      services.NewFileIngestor(notifier, nil, time.Millisecond),
		Settings:      settings,
		Notifications: notifier,
	}, nil)
	require.NoError(t, err)

	return &fixture{handler: handler, gateway: gateway, notifier: notifier, settings: settings}
}

func (f *fixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body == nil {
		reader = bytes.NewReader(nil)
	} else {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) upload(t *testing.T, name string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.7\n"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/document", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestNewRouter_ValidatesPorts(t *testing.T) {
	_, err := NewRouter(&Ports{}, nil)
	assert.ErrorIs(t, err, ErrMissingAssistant)

	_, err = NewRouter(&Ports{Assistant: services.NewAssistant(services.AssistantDeps{})}, nil)
	assert.ErrorIs(t, err, ErrMissingIngestor)
}

func TestHealth(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestCORS(t *testing.T) {
	f := newFixture(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/document", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()

	f.handler.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestDocument_EmptyState(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/v1/document", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	doc := decode[documentResponse](t, rec)
	assert.False(t, doc.Loaded)
	assert.Zero(t, doc.PageCount)
}

func TestDocument_Upload(t *testing.T) {
	f := newFixture(t)

	rec := f.upload(t, "report.pdf")

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	doc := decode[documentResponse](t, rec)
	assert.True(t, doc.Loaded)
	assert.Equal(t, "report", doc.ID)
	assert.Equal(t, "report.pdf", doc.Name)
	assert.Equal(t, 2, doc.PageCount)
	assert.Equal(t, 3, doc.BlockCount)
	assert.Equal(t, uint64(1), doc.Epoch)
}

func TestDocument_UploadRejectsNonPDF(t *testing.T) {
	f := newFixture(t)

	rec := f.upload(t, "notes.txt")

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	assert.Contains(t, rec.Body.String(), "Unsupported file format")
}

func TestDocument_UploadMissingFile(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/document", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "File is required")
}

func TestDocument_UploadBackendFailure(t *testing.T) {
	f := newFixture(t)
	f.gateway.layoutErr = &domain.ServerError{Status: 500, Message: "OOM"}

	rec := f.upload(t, "report.pdf")

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "Error 500: OOM")

	state := decode[documentResponse](t, f.do(t, http.MethodGet, "/api/v1/document", nil))
	assert.True(t, state.Loaded)
	assert.Equal(t, "Error 500: OOM", state.Error)
}

func TestDocument_Clear(t *testing.T) {
	f := newFixture(t)
	f.upload(t, "report.pdf")

	rec := f.do(t, http.MethodDelete, "/api/v1/document", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/v1/layout", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestOverlays(t *testing.T) {
	f := newFixture(t)
	f.upload(t, "report.pdf")

	rec := f.do(t, http.MethodGet, "/api/v1/pages/1/overlays", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	overlays := decode[[]overlayResponse](t, rec)
	require.Len(t, overlays, 1)
	assert.Equal(t, 2, overlays[0].Block.ID)
	assert.Equal(t, "Table", overlays[0].Label)
	assert.Len(t, overlays[0].Actions, 4)
}

func TestOverlays_Errors(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/v1/pages/1/overlays", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	f.upload(t, "report.pdf")

	rec = f.do(t, http.MethodGet, "/api/v1/pages/0/overlays", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/v1/pages/3/overlays", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBlockActions(t *testing.T) {
	f := newFixture(t)
	f.upload(t, "report.pdf")

	rec := f.do(t, http.MethodGet, "/api/v1/blocks/3/actions", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	options := decode[[]domain.ActionOption](t, rec)
	require.Len(t, options, 2)
	assert.Equal(t, domain.ActionSaveImage, options[0].Action)
}

func TestDispatch_Extract(t *testing.T) {
	f := newFixture(t)
	f.upload(t, "report.pdf")

	rec := f.do(t, http.MethodPost, "/api/v1/blocks/2/actions", actionRequest{Action: "extract_csv"})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[actionResponse](t, rec)
	assert.Equal(t, domain.ActionExtractCSV, resp.Action)
	require.NotNil(t, resp.Entry)
	assert.Equal(t, "| a | b |", resp.Entry.Response)
	assert.Equal(t, resp.MessageID, resp.Entry.ID)
}

func TestDispatch_DefaultAction(t *testing.T) {
	f := newFixture(t)
	f.upload(t, "report.pdf")

	rec := f.do(t, http.MethodPost, "/api/v1/blocks/2/actions", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[actionResponse](t, rec)
	assert.Equal(t, domain.ActionExtractMarkdown, resp.Action)
}

func TestDispatch_AskArmsPrompt(t *testing.T) {
	f := newFixture(t)
	f.upload(t, "report.pdf")

	rec := f.do(t, http.MethodPost, "/api/v1/blocks/2/actions", actionRequest{Action: "ask"})
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[actionResponse](t, rec)
	assert.True(t, resp.AskPromptArmed)
	assert.Nil(t, resp.Entry)

	prompt := decode[askPromptResponse](t, f.do(t, http.MethodGet, "/api/v1/ask-prompt", nil))
	assert.True(t, prompt.Armed)
	require.NotNil(t, prompt.Markup)
	assert.Equal(t, 2, prompt.Markup.BlockID)

	rec = f.do(t, http.MethodPost, "/api/v1/chat", submitRequest{Text: "what is in it?"})
	require.Equal(t, http.StatusOK, rec.Code)
	msg := decode[domain.ChatMessage](t, rec)
	assert.Equal(t, "Question about table", msg.Text)

	prompt = decode[askPromptResponse](t, f.do(t, http.MethodGet, "/api/v1/ask-prompt", nil))
	assert.False(t, prompt.Armed)
}

func TestDispatch_CancelAskPrompt(t *testing.T) {
	f := newFixture(t)
	f.upload(t, "report.pdf")
	f.do(t, http.MethodPost, "/api/v1/blocks/2/actions", actionRequest{Action: "ask"})

	rec := f.do(t, http.MethodDelete, "/api/v1/ask-prompt", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	prompt := decode[askPromptResponse](t, f.do(t, http.MethodGet, "/api/v1/ask-prompt", nil))
	assert.False(t, prompt.Armed)
}

func TestDispatch_Errors(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/blocks/2/actions", actionRequest{Action: "extract_md"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	f.upload(t, "report.pdf")

	rec = f.do(t, http.MethodPost, "/api/v1/blocks/99/actions", actionRequest{Action: "extract_md"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/v1/blocks/2/actions", actionRequest{Action: "explode"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/v1/blocks/3/actions", actionRequest{Action: "save_image"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "error")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/blocks/2/actions", strings.NewReader("{"))
	rr := httptest.NewRecorder()
	f.handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestChat(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/chat", submitRequest{Text: "answer?"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	f.upload(t, "report.pdf")

	rec = f.do(t, http.MethodPost, "/api/v1/chat", submitRequest{Text: "  "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/v1/chat", submitRequest{Text: "answer?"})
	require.Equal(t, http.StatusOK, rec.Code)
	msg := decode[domain.ChatMessage](t, rec)
	assert.Equal(t, "42", msg.Response)

	rec = f.do(t, http.MethodGet, "/api/v1/chat", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var transcript struct {
		Messages     []domain.ChatMessage `json:"messages"`
		InputEnabled bool                 `json:"inputEnabled"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &transcript))
	require.Len(t, transcript.Messages, 1)
	assert.True(t, transcript.InputEnabled)
}

func TestCopyEntry_Unknown(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/chat/missing/copy", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNotifications(t *testing.T) {
	f := newFixture(t)
	f.upload(t, "report.pdf")

	rec := f.do(t, http.MethodGet, "/api/v1/notifications", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	notes := decode[[]domain.Notification](t, rec)
	require.NotEmpty(t, notes)
	assert.Equal(t, "Document structure analyzed successfully", notes[len(notes)-1].Message)

	for _, n := range notes {
		rec = f.do(t, http.MethodDelete, "/api/v1/notifications/"+n.ID, nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	}
	notes = decode[[]domain.Notification](t, f.do(t, http.MethodGet, "/api/v1/notifications", nil))
	assert.Empty(t, notes)
}

func TestSettings(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.settings.SetBackendToken("secret-token"))

	rec := f.do(t, http.MethodGet, "/api/v1/settings", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "secret-token")
	assert.Contains(t, rec.Body.String(), `"tokenConfigured":true`)

	rec = f.do(t, http.MethodPut, "/api/v1/settings", map[string]string{"theme": "dark", "export_quality": "low"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	settings, err := f.settings.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeDark, settings.Theme)
	assert.Equal(t, domain.ExportQualityLow, settings.ExportQuality)

	rec = f.do(t, http.MethodPut, "/api/v1/settings", map[string]string{"theme": "neon"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/v1/settings/reset", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	settings, err = f.settings.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeSystem, settings.Theme)
}

func TestSettings_NotConfigured(t *testing.T) {
	handler, err := NewRouter(&Ports{
		Assistant: services.NewAssistant(services.AssistantDeps{}),
		Ingestor:  services.NewFileIngestor(nil, nil, 0),
	}, []string{"http://example.test"})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/settings", nil))

	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{domain.ErrNotFound, http.StatusNotFound},
		{domain.ErrFileTooLarge, http.StatusRequestEntityTooLarge},
		{domain.ErrInvalidInput, http.StatusBadRequest},
		{domain.ErrNoDocument, http.StatusConflict},
		{domain.ErrNoImage, http.StatusUnprocessableEntity},
		{&domain.ServerError{Status: 503, Message: "down"}, http.StatusBadGateway},
		{&domain.NetworkError{}, http.StatusBadGateway},
		{assert.AnError, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), "%v", tt.err)
	}
}
