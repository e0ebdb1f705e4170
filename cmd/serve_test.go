package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statichaus/staticd/internal/config"
)

// resetServeFlags clears the flag-bound package vars between tests.
func resetServeFlags(t *testing.T) {
	t.Helper()
	serveAddr, serveRoot, serveIndex = "", "", ""
	t.Cleanup(func() {
		serveAddr, serveRoot, serveIndex = "", "", ""
	})
}

func TestLoadServeConfig_FlagOverrides(t *testing.T) {
	resetServeFlags(t)
	t.Chdir(t.TempDir())

	serveAddr = ":8180"
	serveIndex = "home.html"

	cfg, err := loadServeConfig()
	require.NoError(t, err)

	assert.Equal(t, ":8180", cfg.ListenAddr)
	assert.Equal(t, "home.html", cfg.IndexFile)
	assert.Equal(t, config.DefaultRoot, cfg.Root, "unset flags keep config values")
}

func TestLoadServeConfig_FlagsBeatEnv(t *testing.T) {
	resetServeFlags(t)
	t.Chdir(t.TempDir())
	t.Setenv("STATICD_LISTEN_ADDR", ":9000")

	serveAddr = ":8180"

	cfg, err := loadServeConfig()
	require.NoError(t, err)
	assert.Equal(t, ":8180", cfg.ListenAddr)
}

func TestLoadServeConfig_InvalidOverrideRejected(t *testing.T) {
	resetServeFlags(t)
	t.Chdir(t.TempDir())

	serveAddr = "no-port"

	_, err := loadServeConfig()
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrInvalidListenAddr)
}
