package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "storefront",
	Short: "Digital game storefront backend with checkout, memberships, and downloads",
	Long: `BlackForge storefront is the backend for a digital game shop.

It serves the catalog, creates payment and subscription checkout
sessions, confirms them, and delivers purchased game files through
short-lived download tokens.

Quick start:
  storefront serve     # Start the API server

Configuration comes from storefront.yaml (or --config) with
STOREFRONT_* environment overrides.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "storefront.yaml", "config file path")
}

func main() {
	Execute()
}
