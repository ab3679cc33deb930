// Package payment provides payment provider adapters.
package payment

import (
	"context"

	"github.com/blackforge/storefront/ports"
	"github.com/stripe/stripe-go/v76"
	checkoutsession "github.com/stripe/stripe-go/v76/checkout/session"
)

// StripeConfig holds Stripe configuration.
type StripeConfig struct {
	SecretKey string
}

// StripeProvider implements ports.PaymentProvider for Stripe Checkout.
type StripeProvider struct {
	config StripeConfig
}

// NewStripeProvider creates a new Stripe payment provider.
func NewStripeProvider(config StripeConfig) *StripeProvider {
	stripe.Key = config.SecretKey
	return &StripeProvider{config: config}
}

// Name returns the provider name.
func (p *StripeProvider) Name() string {
	return "stripe"
}

// CreateSession creates a Stripe Checkout session.
func (p *StripeProvider) CreateSession(ctx context.Context, req ports.SessionRequest) (ports.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(req.Mode)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		SuccessURL:         stripe.String(req.SuccessURL),
		CancelURL:          stripe.String(req.CancelURL),
		LineItems:          buildLineItems(req.Lines),
	}
	params.Context = ctx
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	s, err := checkoutsession.New(params)
	if err != nil {
		return ports.CheckoutSession{}, err
	}
	return ports.CheckoutSession{ID: s.ID, URL: s.URL}, nil
}

// RetrieveSession retrieves a session's payment state and metadata.
func (p *StripeProvider) RetrieveSession(ctx context.Context, id string) (ports.SessionStatus, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	s, err := checkoutsession.Get(id, params)
	if err != nil {
		return ports.SessionStatus{}, err
	}
	return ports.SessionStatus{
		ID:            s.ID,
		PaymentStatus: string(s.PaymentStatus),
		Status:        string(s.Status),
		Metadata:      s.Metadata,
	}, nil
}

func buildLineItems(lines []ports.LineItem) []*stripe.CheckoutSessionLineItemParams {
	items := make([]*stripe.CheckoutSessionLineItemParams, 0, len(lines))
	for _, line := range lines {
		quantity := line.Quantity
		if quantity <= 0 {
			quantity = 1
		}

		if line.PriceRef != "" {
			items = append(items, &stripe.CheckoutSessionLineItemParams{
				Price:    stripe.String(line.PriceRef),
				Quantity: stripe.Int64(quantity),
			})
			continue
		}

		priceData := &stripe.CheckoutSessionLineItemPriceDataParams{
			Currency:   stripe.String(line.Currency),
			UnitAmount: stripe.Int64(line.UnitAmount),
			ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
				Name: stripe.String(line.Name),
			},
		}
		if line.Description != "" {
			priceData.ProductData.Description = stripe.String(line.Description)
		}
		if line.Interval != "" {
			priceData.Recurring = &stripe.CheckoutSessionLineItemPriceDataRecurringParams{
				Interval: stripe.String(line.Interval),
			}
		}

		items = append(items, &stripe.CheckoutSessionLineItemParams{
			PriceData: priceData,
			Quantity:  stripe.Int64(quantity),
		})
	}
	return items
}

// Ensure interface compliance.
var _ ports.PaymentProvider = (*StripeProvider)(nil)
