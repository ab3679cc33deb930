package app_test

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/blackforge/storefront/domain/catalog"
	"github.com/blackforge/storefront/domain/checkout"
	"github.com/blackforge/storefront/pkg/fault"
)

// linkToken extracts the token query parameter from a download link URL.
func linkToken(t *testing.T, raw string) string {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse link %q: %v", raw, err)
	}
	token := u.Query().Get("token")
	if token == "" {
		t.Fatalf("link %q carries no token", raw)
	}
	return token
}

func TestLinksFor_DirectPurchase(t *testing.T) {
	e := newEnv(t, false)
	ctx := context.Background()

	links, err := e.download.LinksFor(ctx, checkout.PurchaseCart, []string{"iron-horizon", "echo-protocol"})
	if err != nil {
		t.Fatalf("LinksFor: %v", err)
	}
	if len(links) != 2 {
		t.Fatalf("got %d links", len(links))
	}
	if links[0].GameID != "iron-horizon" || links[0].Title != "Iron Horizon" {
		t.Errorf("links[0] = %+v", links[0])
	}
	if !strings.HasPrefix(links[0].URL, "/api/download/iron-horizon?token=") {
		t.Errorf("URL = %q", links[0].URL)
	}

	// each token authorizes its own game and no other
	token := linkToken(t, links[0].URL)
	file, err := e.download.Authorize(ctx, "iron-horizon", token)
	if err != nil {
		t.Fatalf("Authorize: %v", err)
	}
	if file.ID != "iron-horizon" || !strings.HasSuffix(file.Path, "iron-horizon.zip") {
		t.Errorf("file = %+v", file)
	}
	if _, err := e.download.Authorize(ctx, "echo-protocol", token); !fault.IsKind(err, fault.TokenMismatch) {
		t.Errorf("cross-game token: %v, want TokenMismatch", err)
	}
}

func TestLinksFor_MembershipResolvesCatalog(t *testing.T) {
	e := newEnv(t, false)

	links, err := e.download.LinksFor(context.Background(), checkout.PurchaseMembership,
		[]string{"iron-horizon", "neon-rush-2088", "echo-protocol"})
	if err != nil {
		t.Fatalf("LinksFor: %v", err)
	}
	if len(links) != 3 {
		t.Errorf("got %d links, want whole catalog", len(links))
	}
}

func registerMember(t *testing.T, e *env, email, planID string) {
	t.Helper()
	sessionID := membershipSession(t, e, planID)
	if _, _, err := e.member.Register(context.Background(), email, "hunter2hunter2", sessionID, testDevice); err != nil {
		t.Fatalf("Register: %v", err)
	}
}

func TestMembershipLinks_UnrestrictedPlan(t *testing.T) {
	e := newEnv(t, false)
	registerMember(t, e, "a@b.com", "bf-golden")

	links, err := e.download.MembershipLinks(context.Background(), "a@b.com")
	if err != nil {
		t.Fatalf("MembershipLinks: %v", err)
	}
	if len(links) != 3 {
		t.Errorf("got %d links, want whole catalog", len(links))
	}
}

func TestMembershipLinks_RestrictedPlan(t *testing.T) {
	e := newEnv(t, false)
	ctx := context.Background()

	if err := e.catalog.AddPlan(ctx, catalog.Plan{
		ID:         "bf-narrativa",
		Name:       "BF Narrativa",
		Interval:   catalog.IntervalMonth,
		PriceCents: 499,
		Access:     catalog.RestrictedTo("echo-protocol"),
	}); err != nil {
		t.Fatalf("add plan: %v", err)
	}
	registerMember(t, e, "a@b.com", "bf-narrativa")

	links, err := e.download.MembershipLinks(ctx, "a@b.com")
	if err != nil {
		t.Fatalf("MembershipLinks: %v", err)
	}
	if len(links) != 1 || links[0].GameID != "echo-protocol" {
		t.Errorf("links = %+v", links)
	}
}

func TestMembershipLinks_Errors(t *testing.T) {
	e := newEnv(t, false)
	ctx := context.Background()

	if _, err := e.download.MembershipLinks(ctx, "nobody@b.com"); !fault.IsKind(err, fault.NotFound) {
		t.Errorf("unknown member: %v, want NotFound", err)
	}

	registerMember(t, e, "a@b.com", "bf-golden")
	account, err := e.member.Get(ctx, "a@b.com")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	account.Membership.Active = false
	if err := e.members.Upsert(ctx, account); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	if _, err := e.download.MembershipLinks(ctx, "a@b.com"); !fault.IsKind(err, fault.Forbidden) {
		t.Errorf("inactive membership: %v, want Forbidden", err)
	}
}

func TestAuthorize_TokenFaults(t *testing.T) {
	e := newEnv(t, false)
	ctx := context.Background()

	if _, err := e.download.Authorize(ctx, "iron-horizon", "garbage"); !fault.IsKind(err, fault.TokenInvalid) {
		t.Errorf("garbage token: %v, want TokenInvalid", err)
	}

	token, err := e.downloads.Issue("iron-horizon")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	e.clock.Advance(2 * time.Hour)
	if _, err := e.download.Authorize(ctx, "iron-horizon", token); !fault.IsKind(err, fault.TokenExpired) {
		t.Errorf("expired token: %v, want TokenExpired", err)
	}
}

func TestAuthorize_UnknownGame(t *testing.T) {
	e := newEnv(t, false)

	token, err := e.downloads.Issue("ghost")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := e.download.Authorize(context.Background(), "ghost", token); !fault.IsKind(err, fault.NotFound) {
		t.Errorf("unknown game: %v, want NotFound", err)
	}
}
