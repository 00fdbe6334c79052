// Package main is the entry point for the dirtybg editor host.
package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	urfavecli "github.com/urfave/cli/v2"

	"github.com/skallinen/clj-dirty-bg/internal/app"
	"github.com/skallinen/clj-dirty-bg/internal/buildinfo"
	"github.com/skallinen/clj-dirty-bg/internal/config"
	"github.com/skallinen/clj-dirty-bg/internal/log"
	"github.com/skallinen/clj-dirty-bg/internal/theme"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
	builtBy = "unknown"
)

func main() {
	buildinfo.Set(version, commit, date, builtBy)
	buildinfo.Enrich()

	cliApp := &urfavecli.App{
		Name:    "dirtybg",
		Usage:   "Edit Clojure buffers with an unevaluated-changes background indicator",
		Version: buildinfo.Version(),
		Flags:   globalFlags(),

		Before: func(c *urfavecli.Context) error {
			if c.Bool("list-themes") {
				printThemes()
				os.Exit(0)
			}
			return nil
		},

		Action: runTUI,
	}

	if err := cliApp.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

// runTUI is the default action that launches the editor host.
func runTUI(c *urfavecli.Context) error {
	if debugLog := c.String("debug-log"); debugLog != "" {
		if err := log.SetFile(debugLog); err != nil {
			fmt.Fprintf(os.Stderr, "Error opening debug log file %q: %v\n", debugLog, err)
		}
	}

	cfg, err := config.LoadConfig(c.String("config-file"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		cfg = config.DefaultConfig()
	}

	// If debug log wasn't set via flag, check if it's in the config.
	if c.String("debug-log") == "" {
		if cfg.DebugLog != "" {
			if err := log.SetFile(cfg.DebugLog); err != nil {
				fmt.Fprintf(os.Stderr, "Error opening debug log file from config %q: %v\n", cfg.DebugLog, err)
			}
		} else {
			_ = log.SetFile("")
		}
	}

	if err := applyFlagOverrides(cfg, c); err != nil {
		_ = log.Close()
		return err
	}

	// Resolve the theme once, before bubbletea takes the terminal:
	// detection puts the TTY in raw mode and reads stdin, so it must
	// never run again while the program owns the screen.
	if cfg.Theme == "" {
		detected, err := theme.DetectBackground(500 * time.Millisecond)
		if err == nil {
			cfg.Theme = detected
		} else {
			cfg.Theme = theme.DefaultDark()
		}
	}

	model, err := app.NewModel(cfg, watchableConfigPath(c.String("config-file")), c.Args().Slice(), log.Printf)
	if err != nil {
		_ = log.Close()
		return err
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		_ = log.Close()
		return fmt.Errorf("error running program: %w", err)
	}

	return log.Close()
}

// watchableConfigPath picks the config file the hot-reload watcher
// should follow: the explicit flag, or the first default candidate
// that exists, or the primary default location so a config created
// later is picked up.
func watchableConfigPath(flagPath string) string {
	if flagPath != "" {
		return flagPath
	}
	paths := config.DefaultConfigPaths()
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return paths[0]
}

func printThemes() {
	for _, name := range theme.AvailableThemes() {
		fmt.Println(name)
	}
}
