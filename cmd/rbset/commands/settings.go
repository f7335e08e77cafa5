// Package commands implements the rbset subcommands.
package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/rbset/pkg/config"
	"github.com/Sumatoshi-tech/rbset/pkg/observability"
)

// Persistent flags registered on the root command.
const (
	FlagConfig  = "config"
	FlagVerbose = "verbose"
	FlagQuiet   = "quiet"
)

// settings bundles what every subcommand needs.
type settings struct {
	cfg    *config.Config
	logger *slog.Logger
	quiet  bool
}

// loadSettings reads the configuration named by --config and builds a logger
// writing to the command's stderr. --verbose and --quiet override the
// configured level.
func loadSettings(cmd *cobra.Command) (*settings, error) {
	cfg, err := config.LoadConfig(stringFlag(cmd, FlagConfig))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	quiet := boolFlag(cmd, FlagQuiet)

	switch {
	case quiet:
		cfg.Logging.Level = "error"
	case boolFlag(cmd, FlagVerbose):
		cfg.Logging.Level = "debug"
	}

	logger, err := observability.NewLogger(cfg.Logging, cmd.ErrOrStderr(), cmd.Name())
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	return &settings{cfg: cfg, logger: logger, quiet: quiet}, nil
}

// stringFlag returns an inherited flag value, or "" when the command runs
// without its root.
func stringFlag(cmd *cobra.Command, name string) string {
	value, err := cmd.Flags().GetString(name)
	if err != nil {
		return ""
	}

	return value
}

func boolFlag(cmd *cobra.Command, name string) bool {
	value, err := cmd.Flags().GetBool(name)
	if err != nil {
		return false
	}

	return value
}
