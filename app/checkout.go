// Package app contains the services orchestrating domain logic and
// ports: checkout, downloads, members, and administration.
package app

import (
	"context"
	"strings"

	"github.com/blackforge/storefront/config"
	"github.com/blackforge/storefront/domain/catalog"
	"github.com/blackforge/storefront/domain/checkout"
	"github.com/blackforge/storefront/domain/pricing"
	"github.com/blackforge/storefront/pkg/fault"
	"github.com/blackforge/storefront/ports"
	"github.com/rs/zerolog"
)

// CheckoutService builds external payment sessions and resolves their
// confirmations.
type CheckoutService struct {
	catalog  ports.CatalogStore
	provider ports.PaymentProvider
	cfg      *config.Holder
	clock    ports.Clock
	logger   zerolog.Logger
}

// NewCheckoutService creates a checkout service.
func NewCheckoutService(catalogStore ports.CatalogStore, provider ports.PaymentProvider, cfg *config.Holder, clock ports.Clock, logger zerolog.Logger) *CheckoutService {
	return &CheckoutService{
		catalog:  catalogStore,
		provider: provider,
		cfg:      cfg,
		clock:    clock,
		logger:   logger,
	}
}

// placeholderRef reports whether ref is empty or one of the seeded
// placeholder references rather than a provider-registered price.
func placeholderRef(ref string) bool {
	return ref == "" ||
		strings.HasPrefix(ref, catalog.PlaceholderGamePriceRef) ||
		strings.HasPrefix(ref, catalog.PlaceholderPlanPriceRef)
}

func frontendURL(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + path
}

// CheckoutGame creates a one-time payment session for a single game,
// optionally discounted by a coupon code.
func (s *CheckoutService) CheckoutGame(ctx context.Context, gameID, couponCode string) (ports.CheckoutSession, error) {
	cat, err := s.catalog.Catalog(ctx)
	if err != nil {
		return ports.CheckoutSession{}, err
	}

	item, ok := catalog.FindGame(cat.Games, gameID)
	if !ok {
		return ports.CheckoutSession{}, fault.New(fault.NotFound, "game not found")
	}

	coupon, err := catalog.ResolveCoupon(cat, couponCode, s.clock.Now())
	if err != nil {
		return ports.CheckoutSession{}, err
	}

	return s.createPurchase(ctx, checkout.PurchaseGame, []catalog.Item{item}, coupon,
		"success.html?session_id={CHECKOUT_SESSION_ID}", "index.html#juegos")
}

// CheckoutCart creates a one-time payment session for a bundle of
// games. Ids that match no catalog game are dropped; an empty result
// is rejected.
func (s *CheckoutService) CheckoutCart(ctx context.Context, gameIDs []string, couponCode string) (ports.CheckoutSession, error) {
	cat, err := s.catalog.Catalog(ctx)
	if err != nil {
		return ports.CheckoutSession{}, err
	}

	var items []catalog.Item
	for _, id := range gameIDs {
		if item, ok := catalog.FindGame(cat.Games, id); ok {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return ports.CheckoutSession{}, fault.New(fault.Validation, "cart is empty")
	}

	coupon, err := catalog.ResolveCoupon(cat, couponCode, s.clock.Now())
	if err != nil {
		return ports.CheckoutSession{}, err
	}
	// Cart lines cannot mix registered prices with ad-hoc discounted
	// amounts, so couponed carts always need dynamic pricing.
	if coupon != nil && s.cfg.Get().Payment.ForcePriceRefs {
		return ports.CheckoutSession{}, fault.New(fault.DynamicPricingRequired,
			"coupons require dynamic pricing, which is disabled")
	}

	return s.createPurchase(ctx, checkout.PurchaseCart, items, coupon,
		"success.html?session_id={CHECKOUT_SESSION_ID}", "juegos.html")
}

// createPurchase builds and creates the payment-mode session shared by
// single-game and cart checkouts.
func (s *CheckoutService) createPurchase(ctx context.Context, purchaseType checkout.PurchaseType, items []catalog.Item, coupon *catalog.Coupon, successPath, cancelPath string) (ports.CheckoutSession, error) {
	cfg := s.cfg.Get()

	amounts := make([]int64, len(items))
	ids := make([]string, len(items))
	for i, item := range items {
		amounts[i] = item.PriceCents
		ids[i] = item.ID
	}
	quote := pricing.QuoteLines(amounts, coupon)

	lines := make([]ports.LineItem, 0, len(items))
	for i, item := range items {
		if cfg.Payment.ForcePriceRefs && !placeholderRef(item.PriceRef) {
			if coupon != nil {
				return ports.CheckoutSession{}, fault.New(fault.DynamicPricingRequired,
					"coupons require dynamic pricing, which is disabled")
			}
			lines = append(lines, ports.LineItem{PriceRef: item.PriceRef, Quantity: 1})
			continue
		}
		lines = append(lines, ports.LineItem{
			Name:       item.Title,
			UnitAmount: quote.LineCents[i],
			Currency:   cfg.Payment.Currency,
			Quantity:   1,
		})
	}

	meta := checkout.Metadata{
		PurchaseType:  purchaseType,
		GameIDs:       ids,
		DiscountCents: quote.DiscountCents,
	}
	if coupon != nil {
		meta.CouponCode = coupon.Code
	}

	session, err := s.provider.CreateSession(ctx, ports.SessionRequest{
		Mode:       ports.ModePayment,
		Lines:      lines,
		SuccessURL: frontendURL(cfg.Frontend.URL, successPath),
		CancelURL:  frontendURL(cfg.Frontend.URL, cancelPath),
		Metadata:   meta.Encode(),
	})
	if err != nil {
		return ports.CheckoutSession{}, err
	}

	s.logger.Info().
		Str("session_id", session.ID).
		Str("type", string(purchaseType)).
		Int64("subtotal_cents", quote.SubtotalCents).
		Int64("discount_cents", quote.DiscountCents).
		Msg("checkout session created")
	return session, nil
}

// CheckoutMembership creates a recurring subscription session for a
// membership plan. Coupons do not apply to memberships.
func (s *CheckoutService) CheckoutMembership(ctx context.Context, planID string) (ports.CheckoutSession, error) {
	cat, err := s.catalog.Catalog(ctx)
	if err != nil {
		return ports.CheckoutSession{}, err
	}

	plan, ok := catalog.FindPlan(cat.Plans, planID)
	if !ok {
		return ports.CheckoutSession{}, fault.New(fault.NotFound, "membership not found")
	}

	cfg := s.cfg.Get()

	var line ports.LineItem
	if cfg.Payment.ForcePriceRefs && !placeholderRef(plan.PriceRef) {
		line = ports.LineItem{PriceRef: plan.PriceRef, Quantity: 1}
	} else {
		line = ports.LineItem{
			Name:       plan.Name,
			UnitAmount: plan.PriceCents,
			Currency:   cfg.Payment.Currency,
			Interval:   string(plan.Interval),
			Quantity:   1,
		}
	}

	meta := checkout.Metadata{PurchaseType: checkout.PurchaseMembership, PlanID: plan.ID}
	session, err := s.provider.CreateSession(ctx, ports.SessionRequest{
		Mode:       ports.ModeSubscription,
		Lines:      []ports.LineItem{line},
		SuccessURL: frontendURL(cfg.Frontend.URL, "membership-success.html?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  frontendURL(cfg.Frontend.URL, "membresia.html"),
		Metadata:   meta.Encode(),
	})
	if err != nil {
		return ports.CheckoutSession{}, err
	}

	s.logger.Info().
		Str("session_id", session.ID).
		Str("plan_id", plan.ID).
		Msg("membership checkout session created")
	return session, nil
}

// Confirm retrieves an external session and resolves what it entitles.
// An unpaid session is a Paid=false confirmation, not an error.
func (s *CheckoutService) Confirm(ctx context.Context, sessionID string) (checkout.Confirmation, error) {
	if strings.TrimSpace(sessionID) == "" {
		return checkout.Confirmation{}, fault.New(fault.Validation, "session id required")
	}

	status, err := s.provider.RetrieveSession(ctx, sessionID)
	if err != nil {
		return checkout.Confirmation{}, err
	}

	cat, err := s.catalog.Catalog(ctx)
	if err != nil {
		return checkout.Confirmation{}, err
	}

	return checkout.Confirm(status.PaymentStatus, status.Status, status.Metadata, catalog.GameIDs(cat)), nil
}
