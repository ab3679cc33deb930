package payment

import (
	"fmt"

	"github.com/blackforge/storefront/config"
	"github.com/blackforge/storefront/ports"
)

// NewProvider creates a payment provider based on configuration.
func NewProvider(cfg config.PaymentConfig) (ports.PaymentProvider, error) {
	switch cfg.Provider {
	case "stripe", "":
		if cfg.StripeSecretKey == "" {
			return nil, fmt.Errorf("stripe secret key is required")
		}
		return NewStripeProvider(StripeConfig{SecretKey: cfg.StripeSecretKey}), nil

	case "dummy", "test":
		// Dummy provider for development/testing - simulates successful payments
		return NewDummyProvider(), nil

	default:
		return nil, fmt.Errorf("unknown payment provider: %s", cfg.Provider)
	}
}
