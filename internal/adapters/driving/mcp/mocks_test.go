package mcp

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/paperlens/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/paperlens/internal/core/domain"
	"github.com/custodia-labs/paperlens/internal/core/ports/driven"
	"github.com/custodia-labs/paperlens/internal/core/services"
)

// mockGateway is a mock implementation of driven.BackendGateway.
type mockGateway struct {
	layout domain.DocumentLayout
	answer string
	region string
	err    error
}

func (m *mockGateway) ExtractLayout(_ context.Context, doc *domain.Document) (*domain.LayoutResult, error) {
	if m.err != nil {
		return nil, m.err
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
	server  *Server
	gateway *mockGateway
	archive *memory.TranscriptArchive
	dir     string
}

// stubRegions returns the same preview for every block.
type stubRegions struct {
	image *domain.RegionImage
}

func (s stubRegions) Extract(context.Context, domain.LayoutBlock, int) *domain.RegionImage {
	return s.image
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithRegions(t, nil)
}

func newFixtureWithRegions(t *testing.T, regions services.RegionSource) *fixture {
	t.Helper()

	gateway := &mockGateway{
		layout: domain.DocumentLayout{
			PageCount: 2,
			Blocks: []domain.LayoutBlock{
				{ID: 1, Type: domain.BlockTypeText, PageNumber: 0, TextContent: "Introduction"},
				{ID: 2, Type: domain.BlockTypeTable, PageNumber: 0, TextContent: "a | b"},
				{ID: 3, Type: domain.BlockTypeFormula, PageNumber: 1, TextContent: "E = mc^2"},
			},
		},
		answer: "42",
		region: "| a | b |",
	}
	notifier := services.NewNotificationCenter()
	archive := memory.NewTranscriptArchive()
	assistant := services.NewAssistant(services.AssistantDeps{
		Gateway:  gateway,
		Regions:  regions,
		Notifier: notifier,
		Archive:  archive,
	})

	server, err := NewServer(&Ports{
		Assistant: assistant,
		Ingestor:  services.NewFileIngestor(notifier, nil, time.Millisecond),
		History:   services.NewHistoryService(archive),
	})
	require.NoError(t, err)

	return &fixture{server: server, gateway: gateway, archive: archive, dir: t.TempDir()}
}

func (f *fixture) writePDF(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(f.dir, name)
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.7\n"), 0o600))
	return path
}

// load opens report.pdf through the load_document tool.
func (f *fixture) load(t *testing.T) {
	t.Helper()
	_, _, err := f.server.handleLoadDocument(context.Background(), nil, LoadDocumentInput{Path: f.writePDF(t, "report.pdf")})
	require.NoError(t, err)
}
