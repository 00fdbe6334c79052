package main

import (
	"fmt"

	urfavecli "github.com/urfave/cli/v2"

	"github.com/skallinen/clj-dirty-bg/internal/config"
	"github.com/skallinen/clj-dirty-bg/internal/theme"
)

// globalFlags returns all global flags for the application.
// Note: --version is provided automatically by urfave/cli via App.Version
func globalFlags() []urfavecli.Flag {
	return []urfavecli.Flag{
		&urfavecli.StringFlag{
			Name:  "config-file",
			Usage: "Path to configuration file",
		},
		&urfavecli.StringFlag{
			Name:    "theme",
			Aliases: []string{"t"},
			Usage:   "Override the UI theme",
		},
		&urfavecli.StringFlag{
			Name:  "dirty-color",
			Usage: "Background color for buffers with unevaluated edits",
		},
		&urfavecli.StringFlag{
			Name:  "clean-color",
			Usage: "Background color for evaluated buffers (default: no override)",
		},
		&urfavecli.BoolFlag{
			Name:  "no-auto",
			Usage: "Do not attach the highlight automatically by mode; toggle per buffer instead",
		},
		&urfavecli.StringFlag{
			Name:  "debug-log",
			Usage: "Path to debug log file",
		},
		&urfavecli.BoolFlag{
			Name:  "list-themes",
			Usage: "List available themes",
		},
	}
}

// applyFlagOverrides layers command-line flags over the loaded
// configuration.
func applyFlagOverrides(cfg *config.AppConfig, c *urfavecli.Context) error {
	if themeName := c.String("theme"); themeName != "" {
		normalized := theme.NormalizeThemeName(themeName)
		if normalized == "" {
			return fmt.Errorf("unknown theme %q (see --list-themes)", themeName)
		}
		cfg.Theme = normalized
	}
	if dirtyColor := c.String("dirty-color"); dirtyColor != "" {
		cfg.DirtyColor = dirtyColor
	}
	if cleanColor := c.String("clean-color"); cleanColor != "" {
		cfg.CleanColor = cleanColor
	}
	if c.Bool("no-auto") {
		cfg.AutoEnable = false
	}
	return nil
}
