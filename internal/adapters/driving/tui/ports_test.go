package tui

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/paperlens/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/paperlens/internal/core/domain"
	"github.com/custodia-labs/paperlens/internal/core/ports/driven"
	"github.com/custodia-labs/paperlens/internal/core/services"
)

// MockGateway implements driven.BackendGateway for testing.
type MockGateway struct {
	Layout *domain.LayoutResult
	Answer string
	Err    error
}

func (m *MockGateway) ExtractLayout(_ context.Context, _ *domain.Document) (*domain.LayoutResult, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Layout, nil
}

func (m *MockGateway) ExtractRegion(_ context.Context, req driven.RegionRequest) (*driven.RegionResult, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return &driven.RegionResult{Text: "| a | b |", BlockID: req.BlockID}, nil
}

func (m *MockGateway) AskQuestion(_ context.Context, _, _ string) (*driven.Answer, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return &driven.Answer{Answer: m.Answer}, nil
}

func sampleLayout() domain.DocumentLayout {
	return domain.DocumentLayout{
		PageCount: 2,
		Blocks: []domain.LayoutBlock{
			{ID: 1, Type: domain.BlockTypeText, PageNumber: 0, TextContent: "Introduction"},
			{ID: 2, Type: domain.BlockTypeTable, PageNumber: 0, TextContent: "a | b"},
			{ID: 3, Type: domain.BlockTypePicture, PageNumber: 1},
		},
	}
}

type testPorts struct {
	*Ports
	gateway  *MockGateway
	notifier *services.NotificationCenter
}

func newTestPorts() *testPorts {
	gateway := &MockGateway{
		Layout: &domain.LayoutResult{Layout: sampleLayout()},
		Answer: "42",
	}
	notifier := services.NewNotificationCenter()
	assistant := services.NewAssistant(services.AssistantDeps{
		Gateway:  gateway,
		Notifier: notifier,
	})
	ingestor := services.NewFileIngestor(notifier, func() int64 { return 0 }, time.Millisecond)

	ports := NewPorts(assistant, ingestor)
	ports.Settings = services.NewSettingsService(memory.NewConfigStore())
	ports.Notifications = notifier
	return &testPorts{Ports: ports, gateway: gateway, notifier: notifier}
}

func loadTestDocument(t *testing.T, p *Ports) {
	t.Helper()
	doc := domain.NewDocument("paper.pdf", []byte("%PDF-1.7"), domain.MimePDF, time.Unix(0, 0))
	require.NoError(t, p.Assistant.LoadDocument(context.Background(), doc))
}

func TestNewPorts(t *testing.T) {
	p := newTestPorts()

	assert.NotNil(t, p.Assistant)
	assert.NotNil(t, p.Ingestor)
	assert.NoError(t, p.Validate())
}

func TestPorts_ValidateMissing(t *testing.T) {
	p := newTestPorts()

	assert.ErrorIs(t, (&Ports{Ingestor: p.Ingestor}).Validate(), ErrMissingAssistant)
	assert.ErrorIs(t, (&Ports{Assistant: p.Assistant}).Validate(), ErrMissingIngestor)

	var nilPorts *Ports
	assert.ErrorIs(t, nilPorts.Validate(), ErrInvalidPorts)
}
