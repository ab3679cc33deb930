package jsonstore

import (
	"context"
	"path/filepath"
	"strings"
	"sync"

	"github.com/blackforge/storefront/domain/catalog"
	"github.com/blackforge/storefront/pkg/fault"
	"github.com/blackforge/storefront/ports"
	"github.com/rs/zerolog"
)

// CatalogStore persists the catalog document (games, plans, coupons).
type CatalogStore struct {
	mu     sync.Mutex
	path   string
	clock  ports.Clock
	logger zerolog.Logger
}

// NewCatalogStore creates a catalog store under dataDir.
func NewCatalogStore(dataDir string, clock ports.Clock, logger zerolog.Logger) *CatalogStore {
	return &CatalogStore{
		path:   filepath.Join(dataDir, "marketplace.json"),
		clock:  clock,
		logger: logger.With().Str("store", "catalog").Logger(),
	}
}

func (s *CatalogStore) load() (catalog.Catalog, error) {
	var c catalog.Catalog
	seed := SeedCatalog()
	if err := readDocument(s.path, &c, seed, s.clock.Now(), s.logger); err != nil {
		return catalog.Catalog{}, err
	}
	return c, nil
}

// Catalog returns a full snapshot.
func (s *CatalogStore) Catalog(ctx context.Context) (catalog.Catalog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// AddGame stores a new game; duplicate ids conflict.
func (s *CatalogStore) AddGame(ctx context.Context, g catalog.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.load()
	if err != nil {
		return err
	}
	if _, exists := catalog.FindGame(c.Games, g.ID); exists {
		return fault.Newf(fault.Conflict, "game id %s already exists", g.ID)
	}

	c.Games = append(c.Games, g)
	return writeDocument(s.path, c)
}

// UpdateGame replaces an existing game record.
func (s *CatalogStore) UpdateGame(ctx context.Context, g catalog.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.load()
	if err != nil {
		return err
	}
	for i := range c.Games {
		if c.Games[i].ID == g.ID {
			c.Games[i] = g
			return writeDocument(s.path, c)
		}
	}
	return fault.New(fault.NotFound, "game not found")
}

// RemoveGame deletes a game by id. Stored entitlement references are
// not cascaded; resolution tolerates the orphans.
func (s *CatalogStore) RemoveGame(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.load()
	if err != nil {
		return err
	}

	kept := c.Games[:0]
	for _, g := range c.Games {
		if g.ID != id {
			kept = append(kept, g)
		}
	}
	if len(kept) == len(c.Games) {
		return fault.New(fault.NotFound, "game not found")
	}
	c.Games = kept
	return writeDocument(s.path, c)
}

// AddPlan stores a new membership plan; duplicate ids conflict.
func (s *CatalogStore) AddPlan(ctx context.Context, p catalog.Plan) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.load()
	if err != nil {
		return err
	}
	if _, exists := catalog.FindPlan(c.Plans, p.ID); exists {
		return fault.Newf(fault.Conflict, "membership id %s already exists", p.ID)
	}

	c.Plans = append(c.Plans, p)
	return writeDocument(s.path, c)
}

// UpdatePlan replaces an existing plan record.
func (s *CatalogStore) UpdatePlan(ctx context.Context, p catalog.Plan) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.load()
	if err != nil {
		return err
	}
	for i := range c.Plans {
		if c.Plans[i].ID == p.ID {
			c.Plans[i] = p
			return writeDocument(s.path, c)
		}
	}
	return fault.New(fault.NotFound, "membership not found")
}

// RemovePlan deletes a plan by id.
func (s *CatalogStore) RemovePlan(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.load()
	if err != nil {
		return err
	}

	kept := c.Plans[:0]
	for _, p := range c.Plans {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(c.Plans) {
		return fault.New(fault.NotFound, "membership not found")
	}
	c.Plans = kept
	return writeDocument(s.path, c)
}

// AddCoupon stores a new coupon; duplicate codes conflict.
func (s *CatalogStore) AddCoupon(ctx context.Context, coupon catalog.Coupon) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.load()
	if err != nil {
		return err
	}
	if _, exists := catalog.FindCoupon(c.Coupons, coupon.Code); exists {
		return fault.Newf(fault.Conflict, "coupon code %s already exists", coupon.Code)
	}

	c.Coupons = append(c.Coupons, coupon)
	return writeDocument(s.path, c)
}

// UpdateCoupon replaces an existing coupon record.
func (s *CatalogStore) UpdateCoupon(ctx context.Context, coupon catalog.Coupon) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.load()
	if err != nil {
		return err
	}
	for i := range c.Coupons {
		if strings.EqualFold(c.Coupons[i].Code, coupon.Code) {
			c.Coupons[i] = coupon
			return writeDocument(s.path, c)
		}
	}
	return fault.New(fault.NotFound, "coupon not found")
}

// RemoveCoupon deletes a coupon by code.
func (s *CatalogStore) RemoveCoupon(ctx context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.load()
	if err != nil {
		return err
	}

	kept := c.Coupons[:0]
	for _, coupon := range c.Coupons {
		if !strings.EqualFold(coupon.Code, code) {
			kept = append(kept, coupon)
		}
	}
	if len(kept) == len(c.Coupons) {
		return fault.New(fault.NotFound, "coupon not found")
	}
	c.Coupons = kept
	return writeDocument(s.path, c)
}

// Ensure interface compliance.
var _ ports.CatalogStore = (*CatalogStore)(nil)
