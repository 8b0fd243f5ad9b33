package backend

import (
	"context"
	"sync/atomic"

	"github.com/custodia-labs/paperlens/internal/core/domain"
	"github.com/custodia-labs/paperlens/internal/core/ports/driven"
)

var _ driven.BackendGateway = (*Reloadable)(nil)

// Reloadable is a gateway whose client can be replaced while requests are
// running. In-flight calls finish on the client they started with.
type Reloadable struct {
	current atomic.Pointer[Client]
	cfg     atomic.Pointer[Config]
}

// NewReloadable creates a gateway for cfg.
func NewReloadable(cfg Config) (*Reloadable, error) {
	r := &Reloadable{}
	if err := r.Reload(cfg); err != nil {
		return nil, err
	}
	return r, nil
}

// Reload builds a client for cfg and swaps it in. On error the previous
// client stays active. An unchanged config without a custom transport is a
// no-op.
func (r *Reloadable) Reload(cfg Config) error {
	if prev := r.cfg.Load(); prev != nil && sameConfig(*prev, cfg) {
		return nil
	}
	client, err := NewClient(cfg)
	if err != nil {
		return err
	}
	r.current.Store(client)
	r.cfg.Store(&cfg)
	return nil
}

// BaseURL returns the root of the active client.
func (r *Reloadable) BaseURL() string {
	return r.current.Load().BaseURL()
}

// ExtractLayout delegates to the active client.
func (r *Reloadable) ExtractLayout(ctx context.Context, doc *domain.Document) (*domain.LayoutResult, error) {
	return r.current.Load().ExtractLayout(ctx, doc)
}

// ExtractRegion delegates to the active client.
func (r *Reloadable) ExtractRegion(ctx context.Context, req driven.RegionRequest) (*driven.RegionResult, error) {
	return r.current.Load().ExtractRegion(ctx, req)
}

// AskQuestion delegates to the active client.
func (r *Reloadable) AskQuestion(ctx context.Context, documentID, question string) (*driven.Answer, error) {
	return r.current.Load().AskQuestion(ctx, documentID, question)
}

func sameConfig(a, b Config) bool {
	return a.Transport == nil && b.Transport == nil &&
		a.BaseURL == b.BaseURL && a.Token == b.Token && a.Timeout == b.Timeout
}
