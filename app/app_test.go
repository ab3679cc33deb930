package app_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/blackforge/storefront/adapters/auth"
	"github.com/blackforge/storefront/adapters/clock"
	"github.com/blackforge/storefront/adapters/hasher"
	"github.com/blackforge/storefront/adapters/idgen"
	"github.com/blackforge/storefront/adapters/jsonstore"
	"github.com/blackforge/storefront/adapters/payment"
	"github.com/blackforge/storefront/app"
	"github.com/blackforge/storefront/config"
	"github.com/rs/zerolog"
)

const (
	testDevice = "device-abc"
	testOwner  = "knoir"
)

var testStart = time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

// env wires the services against a dummy provider and tempdir stores,
// the same graph bootstrap builds minus the HTTP server.
type env struct {
	provider  *payment.DummyProvider
	clock     *clock.Fake
	holder    *config.Holder
	catalog   *jsonstore.CatalogStore
	members   *jsonstore.MemberStore
	tokens    *auth.TokenService
	downloads *auth.DownloadTokenService

	checkout *app.CheckoutService
	download *app.DownloadService
	member   *app.MemberService
	admin    *app.AdminService
}

func newEnv(t *testing.T, forcePriceRefs bool) *env {
	t.Helper()

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "storefront.yaml")
	content := fmt.Sprintf(`
frontend:
  url: "https://blackforge.example"
payment:
  provider: "dummy"
  currency: "eur"
  force_price_refs: %t
store:
  data_dir: %q
files:
  root: %q
auth:
  session_secret: "session-secret"
  download_secret: "download-secret"
`, forcePriceRefs, filepath.Join(dir, "data"), filepath.Join(dir, "files"))
	if err := os.WriteFile(cfgPath, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	holder, err := config.NewHolder(cfgPath, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewHolder: %v", err)
	}
	t.Cleanup(holder.Stop)

	cfg := holder.Get()
	clk := clock.NewFake(testStart)
	logger := zerolog.Nop()
	provider := payment.NewDummyProvider()

	catalogStore := jsonstore.NewCatalogStore(cfg.Store.DataDir, clk, logger)
	memberStore := jsonstore.NewMemberStore(cfg.Store.DataDir, clk, logger)
	adminStore := jsonstore.NewAdminStore(cfg.Store.DataDir, "credentials-secret", testOwner, "forge-owner-pass", hasher.Fake{}, clk, logger)

	tokens := auth.NewTokenService("session-secret", 7*24*time.Hour, 14*24*time.Hour, clk)
	downloadTokens := auth.NewDownloadTokenService("download-secret", time.Hour, clk)

	return &env{
		provider:  provider,
		clock:     clk,
		holder:    holder,
		catalog:   catalogStore,
		members:   memberStore,
		tokens:    tokens,
		downloads: downloadTokens,

		checkout: app.NewCheckoutService(catalogStore, provider, holder, clk, logger),
		download: app.NewDownloadService(catalogStore, memberStore, downloadTokens, holder, logger),
		member:   app.NewMemberService(memberStore, provider, hasher.Fake{}, tokens, idgen.NewSequential("log_"), clk, logger),
		admin:    app.NewAdminService(catalogStore, adminStore, tokens, testOwner, logger),
	}
}
