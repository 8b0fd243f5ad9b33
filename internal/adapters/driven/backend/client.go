// Package backend provides the HTTP adapter for the layout and extraction service.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/paperlens/internal/core/domain"
	"github.com/custodia-labs/paperlens/internal/core/ports/driven"
	"github.com/custodia-labs/paperlens/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.BackendGateway = (*Client)(nil)

// Endpoint paths relative to the base URL.
const (
	PathLayout      = "/layout-extraction"
	PathGraphics    = "/graphics-extraction"
	PathInformation = "/information-extraction"
)

// maxErrorBody bounds how much of a failed response is read for its message.
const maxErrorBody = 64 << 10

// Config holds configuration for the backend client.
type Config struct {
	// BaseURL is the service root (default: http://localhost:5123).
	BaseURL string

	// Token is an optional bearer token sent with every request.
	Token string

	// Timeout applies to each request (default: 30s).
	Timeout time.Duration

	// Transport overrides the HTTP transport, mainly for tests.
	Transport http.RoundTripper
}

// Client calls the backend service. Calls are not retried.
type Client struct {
	client  *http.Client
	baseURL string
}

// graphicsRequest is the /graphics-extraction request format.
type graphicsRequest struct {
	DocumentID string        `json:"document_id"`
	BlockID    int           `json:"layout_block_id"`
	OutputType domain.Format `json:"output_type"`
	Prompt     string        `json:"prompt,omitempty"`
}

// informationRequest is the /information-extraction request format.
type informationRequest struct {
	Prompt     string `json:"prompt"`
	DocumentID string `json:"document_id"`
}

// NewClient creates a backend client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = domain.DefaultBackendURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = domain.DefaultRequestTimeout
	}
	u, err := url.Parse(cfg.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: backend url %q", domain.ErrInvalidInput, cfg.BaseURL)
	}

	transport := cfg.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	if cfg.Token != "" {
		transport = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token, TokenType: "Bearer"}),
			Base:   transport,
		}
	}

	return &Client{
		client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
	}, nil
}

// BaseURL returns the service root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ExtractLayout uploads the document as multipart field "document" and
// returns its layout with zero-based page numbers.
func (c *Client) ExtractLayout(ctx context.Context, doc *domain.Document) (*domain.LayoutResult, error) {
	if doc == nil {
		return nil, &domain.RequestError{Err: domain.ErrNoDocument}
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("document", doc.Name())
	if err != nil {
		return nil, &domain.RequestError{Err: fmt.Errorf("create form file: %w", err)}
	}
	if _, err := part.Write(doc.Content); err != nil {
		return nil, &domain.RequestError{Err: fmt.Errorf("write form file: %w", err)}
	}
	if err := mw.Close(); err != nil {
		return nil, &domain.RequestError{Err: fmt.Errorf("close form: %w", err)}
	}

	var result domain.LayoutResult
	if err := c.do(ctx, PathLayout, mw.FormDataContentType(), &body, &result); err != nil {
		return nil, err
	}

	result.Layout.ToZeroBasedPages()
	logger.Debug("backend: layout for %s: %d blocks, %d pages", doc.Name(), len(result.Layout.Blocks), result.Layout.PageCount)
	return &result, nil
}

// ExtractRegion extracts one block in the requested format.
func (c *Client) ExtractRegion(ctx context.Context, req driven.RegionRequest) (*driven.RegionResult, error) {
	format := req.Format
	if format == "" {
		format = domain.FormatText
	}
	if !format.IsValid() {
		return nil, &domain.RequestError{Err: fmt.Errorf("unsupported output type %q", format)}
	}

	var result driven.RegionResult
	err := c.postJSON(ctx, PathGraphics, graphicsRequest{
		DocumentID: req.DocumentID,
		BlockID:    req.BlockID,
		OutputType: format,
		Prompt:     req.Prompt,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// AskQuestion answers a question about a document.
func (c *Client) AskQuestion(ctx context.Context, documentID, question string) (*driven.Answer, error) {
	var result driven.Answer
	err := c.postJSON(ctx, PathInformation, informationRequest{
		Prompt:     question,
		DocumentID: documentID,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload, out any) error {
	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return &domain.RequestError{Err: fmt.Errorf("marshal request: %w", err)}
	}
	return c.do(ctx, path, "application/json", bytes.NewReader(jsonBody), out)
}

func (c *Client) do(ctx context.Context, path, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return &domain.RequestError{Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	done := logger.Timed("POST " + path)
	resp, err := c.client.Do(req)
	done()
	if err != nil {
		return &domain.NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &domain.ServerError{Status: resp.StatusCode, Message: errorMessage(resp.StatusCode, data)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return &domain.ServerError{Status: resp.StatusCode, Message: fmt.Sprintf("invalid response: %v", err)}
	}
	return nil
}

// errorMessage picks the message, error or detail field of a JSON error body,
// falling back to the whole body as JSON.
func errorMessage(status int, data []byte) string {
	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil || obj == nil {
		return fmt.Sprintf("Request failed with status code %d", status)
	}

	for _, key := range []string{"message", "error", "detail"} {
		v, ok := obj[key]
		if !ok || isEmpty(v) {
			continue
		}
		if s, ok := v.(string); ok {
			return s
		}
		if b, err := json.Marshal(v); err == nil {
			return string(b)
		}
	}

	b, _ := json.Marshal(obj)
	return string(b)
}

func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case bool:
		return !t
	case float64:
		return t == 0
	default:
		return false
	}
}
