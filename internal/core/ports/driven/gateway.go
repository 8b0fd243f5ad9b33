package driven

import (
	"context"

	"github.com/custodia-labs/paperlens/internal/core/domain"
)

// RegionRequest asks the backend to extract one block in a given format.
type RegionRequest struct {
	DocumentID string
	BlockID    int
	Format     domain.Format
	// Prompt is an optional free-text question about the block.
	Prompt string
}

// RegionResult is the backend's answer to a region extraction.
type RegionResult struct {
	Text    string `json:"text"`
	BlockID int    `json:"blockId"`
	Format  string `json:"format"`
	Status  string `json:"status"`
}

// Answer is the backend's answer to a document question.
type Answer struct {
	Answer string `json:"answer"`
}

// BackendGateway is the typed request/response layer to the extraction service.
// Calls are not retried. Failures are *domain.NetworkError, *domain.ServerError
// or *domain.RequestError.
type BackendGateway interface {
	// ExtractLayout uploads the document and returns its layout with
	// zero-based page numbers.
	ExtractLayout(ctx context.Context, doc *domain.Document) (*domain.LayoutResult, error)

	// ExtractRegion extracts a block's content in the requested format.
	ExtractRegion(ctx context.Context, req RegionRequest) (*RegionResult, error)

	// AskQuestion answers a free-text question about a document.
	AskQuestion(ctx context.Context, documentID, question string) (*Answer, error)
}
