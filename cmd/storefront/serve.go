package main

import (
	"fmt"
	"os"

	"github.com/blackforge/storefront/bootstrap"
	"github.com/blackforge/storefront/config"
	"github.com/spf13/cobra"
)

var (
	hotReload bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the storefront API server",
	Long: `Start the storefront API server.

The server will:
  - Load configuration from storefront.yaml (or --config)
  - Or load configuration from STOREFRONT_* environment variables
  - Seed the catalog and credential stores on first run
  - Serve the catalog, checkout, membership, download, and admin APIs

Environment variables (for Docker deployments):
  STOREFRONT_SERVER_PORT        - Server port (default: 8080)
  STOREFRONT_FRONTEND_URL       - Frontend base URL for redirects
  STOREFRONT_PAYMENT_PROVIDER   - Payment provider: stripe or dummy
  STOREFRONT_STRIPE_SECRET_KEY  - Stripe API key
  STOREFRONT_DOWNLOAD_SECRET    - Download token signing secret (required)
  STOREFRONT_LOG_LEVEL          - Log level: debug, info, warn, error

Examples:
  storefront serve
  storefront serve --config /etc/storefront/config.yaml
  storefront serve --hot-reload=false`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().BoolVar(&hotReload, "hot-reload", true, "enable hot reload of configuration")
}

func runServe(cmd *cobra.Command, args []string) error {
	hasConfigFile := false
	if _, err := os.Stat(cfgFile); err == nil {
		hasConfigFile = true
	}

	if !hasConfigFile && !config.HasEnvConfig() {
		fmt.Println("No configuration found.")
		fmt.Println()
		fmt.Printf("Option 1: Create %s\n", cfgFile)
		fmt.Println("Option 2: Set STOREFRONT_* environment variables")
		fmt.Println()
		fmt.Println("Example (env vars):")
		fmt.Println("  STOREFRONT_DOWNLOAD_SECRET=$(openssl rand -hex 32) storefront serve")
		return nil
	}

	// Hot reload only works with a config file to watch.
	app, err := bootstrap.New(cfgFile, hasConfigFile && hotReload)
	if err != nil {
		return fmt.Errorf("error initializing: %w", err)
	}

	return app.Run()
}
