package app

import (
	"context"
	"strings"

	"github.com/blackforge/storefront/adapters/auth"
	"github.com/blackforge/storefront/domain/catalog"
	"github.com/blackforge/storefront/pkg/fault"
	"github.com/blackforge/storefront/ports"
	"github.com/rs/zerolog"
)

// AdminService handles admin authentication, the admin user directory,
// and catalog mutations.
type AdminService struct {
	catalog ports.CatalogStore
	users   ports.UserDirectory
	tokens  *auth.TokenService
	owner   string
	logger  zerolog.Logger
}

// NewAdminService creates an admin service. owner is the protected
// account allowed to manage other admin users.
func NewAdminService(catalogStore ports.CatalogStore, users ports.UserDirectory, tokens *auth.TokenService, owner string, logger zerolog.Logger) *AdminService {
	return &AdminService{
		catalog: catalogStore,
		users:   users,
		tokens:  tokens,
		owner:   strings.ToLower(strings.TrimSpace(owner)),
		logger:  logger,
	}
}

// Login authenticates an admin and issues a device-bound token. The
// username is lowercased so the token subject matches the directory
// entry and the owner check regardless of how it was typed.
func (s *AdminService) Login(ctx context.Context, username, password, deviceID string) (string, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" || password == "" {
		return "", fault.New(fault.Validation, "username and password required")
	}
	if deviceID == "" {
		return "", fault.New(fault.Validation, "device id required")
	}

	ok, err := s.users.Authenticate(ctx, username, password)
	if err != nil {
		return "", err
	}
	if !ok {
		s.logger.Warn().Str("username", username).Msg("admin login rejected")
		return "", fault.New(fault.Unauthorized, "invalid credentials")
	}

	return s.tokens.GenerateAdmin(username, deviceID)
}

// CreateUser adds an admin user. Only the owner may manage users.
func (s *AdminService) CreateUser(ctx context.Context, actor, username, password string) error {
	if actor != s.owner {
		return fault.New(fault.Forbidden, "only the owner may manage admin users")
	}
	return s.users.Create(ctx, username, password)
}

// RemoveUser deletes an admin user. Only the owner may manage users;
// the owner account itself is protected.
func (s *AdminService) RemoveUser(ctx context.Context, actor, username string) error {
	if actor != s.owner {
		return fault.New(fault.Forbidden, "only the owner may manage admin users")
	}
	return s.users.Remove(ctx, username)
}

// ListUsers returns all admin usernames.
func (s *AdminService) ListUsers(ctx context.Context) ([]string, error) {
	return s.users.List(ctx)
}

// Catalog returns the full catalog for the admin views.
func (s *AdminService) Catalog(ctx context.Context) (catalog.Catalog, error) {
	return s.catalog.Catalog(ctx)
}

// -----------------------------------------------------------------------------
// Catalog mutations
// -----------------------------------------------------------------------------

// GamePatch is a partial game update; nil fields keep their value.
type GamePatch struct {
	Title       *string `json:"title"`
	Genre       *string `json:"genre"`
	Description *string `json:"description"`
	PriceCents  *int64  `json:"price_cents"`
	PriceRef    *string `json:"price_ref"`
	Image       *string `json:"image"`
}

// PlanPatch is a partial plan update; nil fields keep their value.
type PlanPatch struct {
	Name       *string   `json:"name"`
	Interval   *string   `json:"interval"`
	PriceCents *int64    `json:"price_cents"`
	PriceRef   *string   `json:"price_ref"`
	Tier       *string   `json:"tier"`
	Highlight  *string   `json:"highlight"`
	Perks      *[]string `json:"perks"`
	Access     *[]string `json:"download_access_game_ids"`
}

// CouponPatch is a partial coupon update; nil fields keep their value.
type CouponPatch struct {
	Type        *string  `json:"type"`
	Value       *float64 `json:"value"`
	Description *string  `json:"description"`
	Active      *bool    `json:"active"`
	Visible     *bool    `json:"visible"`
	Expires     *string  `json:"expires"`
}

// AddGame validates, normalizes, and stores a new game.
func (s *AdminService) AddGame(ctx context.Context, g catalog.Item) (catalog.Item, error) {
	normalized, err := catalog.NormalizeGame(g)
	if err != nil {
		return catalog.Item{}, err
	}
	if err := s.catalog.AddGame(ctx, normalized); err != nil {
		return catalog.Item{}, err
	}
	s.logger.Info().Str("game_id", normalized.ID).Msg("game added")
	return normalized, nil
}

// UpdateGame applies a partial update to an existing game.
func (s *AdminService) UpdateGame(ctx context.Context, id string, patch GamePatch) (catalog.Item, error) {
	cat, err := s.catalog.Catalog(ctx)
	if err != nil {
		return catalog.Item{}, err
	}
	g, ok := catalog.FindGame(cat.Games, id)
	if !ok {
		return catalog.Item{}, fault.New(fault.NotFound, "game not found")
	}

	if patch.Title != nil {
		g.Title = *patch.Title
	}
	if patch.Genre != nil {
		g.Genre = *patch.Genre
	}
	if patch.Description != nil {
		g.Description = *patch.Description
	}
	if patch.PriceCents != nil {
		g.PriceCents = *patch.PriceCents
	}
	if patch.PriceRef != nil {
		g.PriceRef = *patch.PriceRef
	}
	if patch.Image != nil {
		g.Image = *patch.Image
	}

	normalized, err := catalog.NormalizeGame(g)
	if err != nil {
		return catalog.Item{}, err
	}
	if err := s.catalog.UpdateGame(ctx, normalized); err != nil {
		return catalog.Item{}, err
	}
	return normalized, nil
}

// RemoveGame deletes a game.
func (s *AdminService) RemoveGame(ctx context.Context, id string) error {
	return s.catalog.RemoveGame(ctx, id)
}

// AddPlan validates, normalizes, and stores a new membership plan.
func (s *AdminService) AddPlan(ctx context.Context, p catalog.Plan) (catalog.Plan, error) {
	normalized, err := catalog.NormalizePlan(p)
	if err != nil {
		return catalog.Plan{}, err
	}
	if err := s.catalog.AddPlan(ctx, normalized); err != nil {
		return catalog.Plan{}, err
	}
	s.logger.Info().Str("plan_id", normalized.ID).Msg("membership plan added")
	return normalized, nil
}

// UpdatePlan applies a partial update to an existing plan.
func (s *AdminService) UpdatePlan(ctx context.Context, id string, patch PlanPatch) (catalog.Plan, error) {
	cat, err := s.catalog.Catalog(ctx)
	if err != nil {
		return catalog.Plan{}, err
	}
	p, ok := catalog.FindPlan(cat.Plans, id)
	if !ok {
		return catalog.Plan{}, fault.New(fault.NotFound, "membership not found")
	}

	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Interval != nil {
		interval, err := catalog.ParseInterval(*patch.Interval)
		if err != nil {
			return catalog.Plan{}, err
		}
		p.Interval = interval
	}
	if patch.PriceCents != nil {
		p.PriceCents = *patch.PriceCents
	}
	if patch.PriceRef != nil {
		p.PriceRef = *patch.PriceRef
	}
	if patch.Tier != nil {
		p.Tier = *patch.Tier
	}
	if patch.Highlight != nil {
		p.Highlight = *patch.Highlight
	}
	if patch.Perks != nil {
		p.Perks = *patch.Perks
	}
	if patch.Access != nil {
		p.Access = catalog.ParseAccess(*patch.Access)
	}

	normalized, err := catalog.NormalizePlan(p)
	if err != nil {
		return catalog.Plan{}, err
	}
	if err := s.catalog.UpdatePlan(ctx, normalized); err != nil {
		return catalog.Plan{}, err
	}
	return normalized, nil
}

// RemovePlan deletes a membership plan.
func (s *AdminService) RemovePlan(ctx context.Context, id string) error {
	return s.catalog.RemovePlan(ctx, id)
}

// AddCoupon validates, normalizes, and stores a new coupon.
func (s *AdminService) AddCoupon(ctx context.Context, c catalog.Coupon) (catalog.Coupon, error) {
	normalized, err := catalog.NormalizeCoupon(c)
	if err != nil {
		return catalog.Coupon{}, err
	}
	if err := s.catalog.AddCoupon(ctx, normalized); err != nil {
		return catalog.Coupon{}, err
	}
	s.logger.Info().Str("code", normalized.Code).Msg("coupon added")
	return normalized, nil
}

// UpdateCoupon applies a partial update to an existing coupon.
func (s *AdminService) UpdateCoupon(ctx context.Context, code string, patch CouponPatch) (catalog.Coupon, error) {
	cat, err := s.catalog.Catalog(ctx)
	if err != nil {
		return catalog.Coupon{}, err
	}
	c, ok := catalog.FindCoupon(cat.Coupons, code)
	if !ok {
		return catalog.Coupon{}, fault.New(fault.NotFound, "coupon not found")
	}

	if patch.Type != nil {
		c.Type = catalog.CouponType(*patch.Type)
	}
	if patch.Value != nil {
		c.Value = *patch.Value
	}
	if patch.Description != nil {
		c.Description = *patch.Description
	}
	if patch.Active != nil {
		c.Active = *patch.Active
	}
	if patch.Visible != nil {
		c.Visible = *patch.Visible
	}
	if patch.Expires != nil {
		c.Expires = *patch.Expires
	}

	normalized, err := catalog.NormalizeCoupon(c)
	if err != nil {
		return catalog.Coupon{}, err
	}
	if err := s.catalog.UpdateCoupon(ctx, normalized); err != nil {
		return catalog.Coupon{}, err
	}
	return normalized, nil
}

// RemoveCoupon deletes a coupon.
func (s *AdminService) RemoveCoupon(ctx context.Context, code string) error {
	return s.catalog.RemoveCoupon(ctx, code)
}
