package app

import (
	"context"
	"fmt"

	"github.com/blackforge/storefront/adapters/auth"
	"github.com/blackforge/storefront/config"
	"github.com/blackforge/storefront/domain/catalog"
	"github.com/blackforge/storefront/domain/checkout"
	"github.com/blackforge/storefront/domain/entitlement"
	"github.com/blackforge/storefront/pkg/fault"
	"github.com/blackforge/storefront/ports"
	"github.com/rs/zerolog"
)

// DownloadLink is a tokenized link to one downloadable game file.
type DownloadLink struct {
	GameID string `json:"gameId"`
	Title  string `json:"title"`
	URL    string `json:"url"`
}

// DownloadService resolves entitlements into tokenized download links
// and authorizes the actual file delivery.
type DownloadService struct {
	catalog ports.CatalogStore
	members ports.MemberStore
	tokens  *auth.DownloadTokenService
	cfg     *config.Holder
	logger  zerolog.Logger
}

// NewDownloadService creates a download service.
func NewDownloadService(catalogStore ports.CatalogStore, members ports.MemberStore, tokens *auth.DownloadTokenService, cfg *config.Holder, logger zerolog.Logger) *DownloadService {
	return &DownloadService{
		catalog: catalogStore,
		members: members,
		tokens:  tokens,
		cfg:     cfg,
		logger:  logger,
	}
}

// registry builds the downloadable-file registry from the catalog:
// every game maps to <filesRoot>/<id>.zip.
func (s *DownloadService) registry(cat catalog.Catalog) *entitlement.Registry {
	root := s.cfg.Get().Files.Root
	files := make([]entitlement.File, 0, len(cat.Games))
	for _, g := range cat.Games {
		files = append(files, entitlement.FileAt(root, g.ID, g.Title))
	}
	return entitlement.NewRegistry(files...)
}

// LinksFor resolves a confirmed purchase into tokenized download links.
func (s *DownloadService) LinksFor(ctx context.Context, purchaseType checkout.PurchaseType, itemIDs []string) ([]DownloadLink, error) {
	cat, err := s.catalog.Catalog(ctx)
	if err != nil {
		return nil, err
	}

	reqType := entitlement.RequestDirect
	if purchaseType == checkout.PurchaseMembership {
		reqType = entitlement.RequestMembership
	}
	files := entitlement.Resolve(s.registry(cat), entitlement.Request{Type: reqType, ItemIDs: itemIDs}, catalog.GameIDs(cat))

	return s.links(files)
}

// MembershipLinks resolves a member's plan access into download links.
// An unrestricted plan resolves the whole catalog; a restricted one
// resolves exactly its listed ids.
func (s *DownloadService) MembershipLinks(ctx context.Context, email string) ([]DownloadLink, error) {
	account, err := s.members.Get(ctx, email)
	if err != nil {
		return nil, err
	}
	if !account.Membership.Active {
		return nil, fault.New(fault.Forbidden, "membership inactive")
	}

	cat, err := s.catalog.Catalog(ctx)
	if err != nil {
		return nil, err
	}

	var itemIDs []string
	if plan, ok := catalog.FindPlan(cat.Plans, account.Membership.PlanID); ok && !plan.Access.IsUnrestricted() {
		itemIDs = plan.Access.IDs()
	}

	files := entitlement.Resolve(s.registry(cat),
		entitlement.Request{Type: entitlement.RequestMembership, ItemIDs: itemIDs},
		catalog.GameIDs(cat))
	return s.links(files)
}

func (s *DownloadService) links(files []entitlement.File) ([]DownloadLink, error) {
	links := make([]DownloadLink, 0, len(files))
	for _, f := range files {
		token, err := s.tokens.Issue(f.ID)
		if err != nil {
			return nil, err
		}
		links = append(links, DownloadLink{
			GameID: f.ID,
			Title:  f.Name,
			URL:    fmt.Sprintf("/api/download/%s?token=%s", f.ID, token),
		})
	}
	return links, nil
}

// Authorize verifies a download token against the requested game and
// returns the file to stream. Token faults pass through: expired and
// invalid map to authentication failures, a valid token for another
// game to a mismatch.
func (s *DownloadService) Authorize(ctx context.Context, gameID, token string) (entitlement.File, error) {
	claimedID, err := s.tokens.Verify(token)
	if err != nil {
		return entitlement.File{}, err
	}
	if claimedID != gameID {
		return entitlement.File{}, fault.New(fault.TokenMismatch, "token does not match requested game")
	}

	cat, err := s.catalog.Catalog(ctx)
	if err != nil {
		return entitlement.File{}, err
	}
	file, ok := s.registry(cat).Get(gameID)
	if !ok {
		return entitlement.File{}, fault.New(fault.NotFound, "game not found")
	}
	return file, nil
}
