package payment_test

import (
	"strings"
	"testing"

	"github.com/blackforge/storefront/adapters/payment"
	"github.com/blackforge/storefront/config"
)

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.PaymentConfig
		wantName string
		wantErr  string
	}{
		{
			name:     "stripe with key",
			cfg:      config.PaymentConfig{Provider: "stripe", StripeSecretKey: "sk_test_abc"},
			wantName: "stripe",
		},
		{
			name:     "empty provider defaults to stripe",
			cfg:      config.PaymentConfig{StripeSecretKey: "sk_test_abc"},
			wantName: "stripe",
		},
		{
			name:    "stripe without key",
			cfg:     config.PaymentConfig{Provider: "stripe"},
			wantErr: "secret key",
		},
		{
			name:     "dummy",
			cfg:      config.PaymentConfig{Provider: "dummy"},
			wantName: "dummy",
		},
		{
			name:     "test alias",
			cfg:      config.PaymentConfig{Provider: "test"},
			wantName: "dummy",
		},
		{
			name:    "unknown",
			cfg:     config.PaymentConfig{Provider: "paypal"},
			wantErr: "unknown payment provider",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := payment.NewProvider(tt.cfg)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("err = %v, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.Name() != tt.wantName {
				t.Errorf("provider %q, want %q", p.Name(), tt.wantName)
			}
		})
	}
}
