package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfg    *Config
	client *Client
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "rustshop",
		Short: "CLI tool for the Rust donation store API",
		Long: `rustshop is a CLI tool for the Rust game-server donation store.

It can browse the catalog, log in with a Steam ID, place and track orders,
look up Steam profiles and stream store notifications in real time.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Output != "text" && cfg.Output != "json" {
				return fmt.Errorf("unknown output format %q", cfg.Output)
			}
			client = NewClient(cfg.ServerURL, cfg.Timeout)
			return nil
		},
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Server URL (env: RUSTDONATE_SERVER)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json (env: RUSTDONATE_OUTPUT)")
	rootCmd.PersistentFlags().DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "HTTP request timeout")

	// Add subcommands
	rootCmd.AddCommand(newCatalogCmd())
	rootCmd.AddCommand(newSessionCmd())
	rootCmd.AddCommand(newOrderCmd())
	rootCmd.AddCommand(newSteamProfileCmd())
	rootCmd.AddCommand(newEventsCmd())
	rootCmd.AddCommand(newHealthCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func output(cmd *cobra.Command) *Output {
	return NewOutput(cfg.Output, cmd.OutOrStdout())
}
