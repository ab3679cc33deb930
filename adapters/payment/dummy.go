package payment

import (
	"context"
	"fmt"
	"sync"

	"github.com/blackforge/storefront/pkg/fault"
	"github.com/blackforge/storefront/ports"
	"github.com/google/uuid"
)

// DummyProvider is a test/demo payment provider that simulates
// successful payments. Sessions are held in memory and are immediately
// paid, so the full checkout-confirm-download flow can be exercised
// without real payment credentials.
type DummyProvider struct {
	mu       sync.Mutex
	sessions map[string]ports.SessionStatus

	// PayImmediately controls whether new sessions come back paid.
	// Tests flip it to exercise the pending path.
	PayImmediately bool
}

// NewDummyProvider creates a new dummy payment provider.
func NewDummyProvider() *DummyProvider {
	return &DummyProvider{
		sessions:       make(map[string]ports.SessionStatus),
		PayImmediately: true,
	}
}

// Name returns the provider name.
func (p *DummyProvider) Name() string {
	return "dummy"
}

// CreateSession records a fake session carrying the request metadata.
func (p *DummyProvider) CreateSession(ctx context.Context, req ports.SessionRequest) (ports.CheckoutSession, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	id := "cs_dummy_" + uuid.New().String()
	status := ports.SessionStatus{
		ID:       id,
		Metadata: req.Metadata,
	}
	if p.PayImmediately {
		status.PaymentStatus = "paid"
		status.Status = "complete"
	} else {
		status.PaymentStatus = "unpaid"
		status.Status = "open"
	}
	p.sessions[id] = status

	return ports.CheckoutSession{
		ID:  id,
		URL: fmt.Sprintf("https://checkout.invalid/pay/%s", id),
	}, nil
}

// RetrieveSession returns a previously created session.
func (p *DummyProvider) RetrieveSession(ctx context.Context, id string) (ports.SessionStatus, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	status, ok := p.sessions[id]
	if !ok {
		return ports.SessionStatus{}, fault.Newf(fault.NotFound, "checkout session %s not found", id)
	}
	return status, nil
}

// MarkPaid flips a recorded session to paid (for tests).
func (p *DummyProvider) MarkPaid(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if status, ok := p.sessions[id]; ok {
		status.PaymentStatus = "paid"
		status.Status = "complete"
		p.sessions[id] = status
	}
}

// Ensure interface compliance.
var _ ports.PaymentProvider = (*DummyProvider)(nil)
