package cmd

import (
	"fmt"
	"os"

	"heritage/config"
	"heritage/utils"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "heritage",
	Short: "HeritageByNN storefront server",
	Long: `heritage serves the HeritageByNN bridal storefront: the catalog, each
visitor's cart, wishlist and filters, checkout, and the admin screens for
orders and products. Orders and products live in the commerce backend
configured with BACKEND_URL.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() (config.Config, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, zerolog.Nop(), fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, utils.NewLogger(cfg.LogLevel, cfg.LogPretty), nil
}
