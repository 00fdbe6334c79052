// Package config loads the application configuration from YAML.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/skallinen/clj-dirty-bg/internal/host"
	"github.com/skallinen/clj-dirty-bg/internal/theme"
	"gopkg.in/yaml.v3"
)

// AppConfig defines the global dirtybg configuration options.
type AppConfig struct {
	DirtyColor     string   // Background for unevaluated buffers ("" = theme default)
	CleanColor     string   // Background after a successful eval ("" = remove override)
	FollowingModes []string // Language modes the highlight attaches to
	CleanCommands  []string // Commands whose successful completion clears dirtiness
	AutoEnable     bool     // Attach automatically when a buffer's mode matches
	Theme          string   // Theme name: see AvailableThemes in internal/theme
	DebugLog       string
}

// DefaultConfig returns the default configuration values.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		DirtyColor: "",
		CleanColor: "",
		FollowingModes: []string{
			"clojure",
			"clojurescript",
			"clojurec",
		},
		CleanCommands: []string{
			string(host.CmdEvalBuffer),
			string(host.CmdLoadBuffer),
			string(host.CmdLoadFile),
		},
		AutoEnable: true,
		Theme:      "",
	}
}

// Settings is the immutable snapshot the highlight core reads. A
// reloaded configuration produces a fresh snapshot; existing ones are
// never mutated.
type Settings struct {
	DirtyColor host.Color
	CleanColor host.Color
	AutoEnable bool

	followingModes map[host.ModeID]struct{}
	cleanCommands  map[host.CommandID]struct{}
}

// Settings resolves the configuration against a theme into a snapshot.
// An unset dirty color falls back to the theme's dirty background; an
// unset clean color stays unset, meaning "remove the override".
func (c *AppConfig) Settings(th *theme.Theme) Settings {
	s := Settings{
		DirtyColor: host.Color(c.DirtyColor),
		CleanColor: host.Color(c.CleanColor),
		AutoEnable: c.AutoEnable,

		followingModes: make(map[host.ModeID]struct{}, len(c.FollowingModes)),
		cleanCommands:  make(map[host.CommandID]struct{}, len(c.CleanCommands)),
	}
	if s.DirtyColor == "" && th != nil {
		s.DirtyColor = host.Color(th.DirtyBg)
	}
	if s.CleanColor == "" && th != nil {
		s.CleanColor = host.Color(th.CleanBg)
	}
	for _, mode := range c.FollowingModes {
		s.followingModes[host.ModeID(mode)] = struct{}{}
	}
	for _, cmd := range c.CleanCommands {
		s.cleanCommands[host.CommandID(cmd)] = struct{}{}
	}
	return s
}

// Follows reports whether the highlight attaches to buffers of mode m.
func (s Settings) Follows(m host.ModeID) bool {
	_, ok := s.followingModes[m]
	return ok
}

// Cleans reports whether a successful completion of cmd clears the
// dirty flag.
func (s Settings) Cleans(cmd host.CommandID) bool {
	_, ok := s.cleanCommands[cmd]
	return ok
}

// normalizeStringList converts various YAML shapes to a list of
// trimmed, non-empty strings.
func normalizeStringList(value any) []string {
	if value == nil {
		return nil
	}

	switch v := value.(type) {
	case string:
		text := strings.TrimSpace(v)
		if text == "" {
			return nil
		}
		return []string{text}
	case []any:
		var items []string
		for _, item := range v {
			if item == nil {
				continue
			}
			text := strings.TrimSpace(fmt.Sprintf("%v", item))
			if text != "" {
				items = append(items, text)
			}
		}
		return items
	}
	return nil
}

func coerceBool(value any, defaultVal bool) bool {
	if value == nil {
		return defaultVal
	}

	switch v := value.(type) {
	case bool:
		return v
	case int:
		return v != 0
	case string:
		text := strings.ToLower(strings.TrimSpace(v))
		switch text {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return defaultVal
}

func parseConfig(data map[string]any) *AppConfig {
	cfg := DefaultConfig()

	if dirtyColor, ok := data["dirty_color"].(string); ok {
		cfg.DirtyColor = strings.TrimSpace(dirtyColor)
	}
	if cleanColor, ok := data["clean_color"].(string); ok {
		cfg.CleanColor = strings.TrimSpace(cleanColor)
	}

	if _, ok := data["following_modes"]; ok {
		cfg.FollowingModes = normalizeStringList(data["following_modes"])
	}
	if _, ok := data["clean_commands"]; ok {
		cfg.CleanCommands = normalizeStringList(data["clean_commands"])
	}

	cfg.AutoEnable = coerceBool(data["auto_enable"], true)

	if themeName, ok := data["theme"].(string); ok {
		if normalized := theme.NormalizeThemeName(themeName); normalized != "" {
			cfg.Theme = normalized
		}
	}

	if debugLog, ok := data["debug_log"].(string); ok {
		debugLog = strings.TrimSpace(debugLog)
		if debugLog != "" {
			cfg.DebugLog = debugLog
		}
	}

	return cfg
}

func getConfigDir() string {
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return xdgConfigHome
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config")
}

// DefaultConfigPaths returns the candidate configuration file paths in
// lookup order.
func DefaultConfigPaths() []string {
	configBase := filepath.Join(getConfigDir(), "dirtybg")
	return []string{
		filepath.Join(configBase, "config.yaml"),
		filepath.Join(configBase, "config.yml"),
	}
}

// LoadConfig reads the application configuration from a YAML file. A
// missing file yields the defaults; a file that fails to parse does
// too, so startup never fails on configuration.
func LoadConfig(configPath string) (*AppConfig, error) {
	var paths []string

	if configPath != "" {
		expanded, err := expandPath(configPath)
		if err != nil {
			return DefaultConfig(), err
		}
		absPath, err := filepath.Abs(expanded)
		if err != nil {
			return DefaultConfig(), err
		}
		paths = []string{absPath}
	} else {
		paths = DefaultConfigPaths()
	}

	var cfg *AppConfig

	for _, path := range paths {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		// #nosec G304 -- path comes from the user's own flag or config dir
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}

		var yamlData map[string]any
		if err := yaml.Unmarshal(data, &yamlData); err != nil {
			return DefaultConfig(), nil
		}

		cfg = parseConfig(yamlData)
		break
	}

	if cfg == nil {
		cfg = DefaultConfig()
	}

	// Theme stays empty when the file doesn't set one; resolving it
	// (terminal detection at startup, the running theme on reload) is
	// the caller's call, since detection touches the TTY.
	return cfg, nil
}

func expandPath(path string) (string, error) {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, path[1:])
	}
	return os.ExpandEnv(path), nil
}
