package payment_test

import (
	"context"
	"strings"
	"testing"

	"github.com/blackforge/storefront/adapters/payment"
	"github.com/blackforge/storefront/pkg/fault"
	"github.com/blackforge/storefront/ports"
)

func TestDummyProvider_SessionRoundTrip(t *testing.T) {
	p := payment.NewDummyProvider()
	ctx := context.Background()

	metadata := map[string]string{
		"purchaseType":  "cart",
		"gameIds":       "iron-horizon,echo-protocol",
		"couponCode":    "FORJA10",
		"discountCents": "550",
	}
	session, err := p.CreateSession(ctx, ports.SessionRequest{
		Mode:     ports.ModePayment,
		Metadata: metadata,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !strings.HasPrefix(session.ID, "cs_dummy_") {
		t.Errorf("session id %q", session.ID)
	}
	if session.URL == "" {
		t.Error("session has no redirect url")
	}

	status, err := p.RetrieveSession(ctx, session.ID)
	if err != nil {
		t.Fatalf("retrieve: %v", err)
	}
	if status.PaymentStatus != "paid" || status.Status != "complete" {
		t.Errorf("status %+v, want immediately paid", status)
	}
	for k, v := range metadata {
		if status.Metadata[k] != v {
			t.Errorf("metadata %s = %q, want %q", k, status.Metadata[k], v)
		}
	}
}

func TestDummyProvider_PendingThenMarkPaid(t *testing.T) {
	p := payment.NewDummyProvider()
	p.PayImmediately = false
	ctx := context.Background()

	session, err := p.CreateSession(ctx, ports.SessionRequest{Mode: ports.ModeSubscription})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	status, err := p.RetrieveSession(ctx, session.ID)
	if err != nil {
		t.Fatalf("retrieve: %v", err)
	}
	if status.PaymentStatus != "unpaid" || status.Status != "open" {
		t.Errorf("status %+v, want pending", status)
	}

	p.MarkPaid(session.ID)
	status, err = p.RetrieveSession(ctx, session.ID)
	if err != nil {
		t.Fatalf("retrieve: %v", err)
	}
	if status.PaymentStatus != "paid" {
		t.Errorf("status %+v after MarkPaid", status)
	}
}

func TestDummyProvider_UnknownSession(t *testing.T) {
	p := payment.NewDummyProvider()

	if _, err := p.RetrieveSession(context.Background(), "cs_dummy_missing"); !fault.IsKind(err, fault.NotFound) {
		t.Errorf("got %v, want NotFound", err)
	}
}
