package main

import (
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	urfavecli "github.com/urfave/cli/v2"

	"github.com/skallinen/clj-dirty-bg/internal/config"
)

func contextWithFlags(t *testing.T, args ...string) *urfavecli.Context {
	t.Helper()
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	set.String("theme", "", "")
	set.String("dirty-color", "", "")
	set.String("clean-color", "", "")
	set.Bool("no-auto", false, "")
	require.NoError(t, set.Parse(args))
	return urfavecli.NewContext(nil, set, nil)
}

func TestApplyFlagOverrides(t *testing.T) {
	cfg := config.DefaultConfig()
	c := contextWithFlags(t,
		"-theme", "gruvbox-dark",
		"-dirty-color", "#402020",
		"-clean-color", "#203520",
		"-no-auto",
	)

	require.NoError(t, applyFlagOverrides(cfg, c))
	assert.Equal(t, "gruvbox-dark", cfg.Theme)
	assert.Equal(t, "#402020", cfg.DirtyColor)
	assert.Equal(t, "#203520", cfg.CleanColor)
	assert.False(t, cfg.AutoEnable)
}

func TestApplyFlagOverridesRejectsUnknownTheme(t *testing.T) {
	cfg := config.DefaultConfig()
	c := contextWithFlags(t, "-theme", "no-such-theme")

	assert.Error(t, applyFlagOverrides(cfg, c))
}

func TestApplyFlagOverridesLeavesDefaults(t *testing.T) {
	cfg := config.DefaultConfig()
	c := contextWithFlags(t)

	require.NoError(t, applyFlagOverrides(cfg, c))
	assert.True(t, cfg.AutoEnable)
	assert.Empty(t, cfg.DirtyColor)
}
