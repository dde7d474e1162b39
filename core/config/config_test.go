package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "ZETH51T.DBF", cfg.Reconcile.Sources.Detail)
	assert.Equal(t, "ZETH70_EXT.DBF", cfg.Reconcile.Sources.Extension)
	assert.Equal(t, "NUMCHK", cfg.Reconcile.Columns.HeaderTicket)
	assert.Equal(t, "cp850", cfg.Reconcile.Encoding)
	assert.Equal(t, "2025-03-01", cfg.Reconcile.WindowStart)
	assert.Equal(t, "ticket_product", cfg.Reconcile.DedupKey)
	assert.Equal(t, "TYPPAG", cfg.Reconcile.CreditField)
	assert.False(t, cfg.Reconcile.ExtensionRequired)
	assert.Equal(t, "dbf", cfg.History.Driver)
	assert.Equal(t, "HISTORICO.DBF", cfg.History.Path)
	assert.False(t, cfg.Storage.Archive.Enabled)
	assert.Equal(t, "historico", cfg.Storage.Archive.Prefix)
	assert.False(t, cfg.Events.Enabled)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("RECONCILE_SOURCES_DETAIL", "/data/ZETH51T.DBF")
	t.Setenv("RECONCILE_WINDOW_START", "2024-01-01")
	t.Setenv("RECONCILE_DEDUP_KEY", "ticket")
	t.Setenv("RECONCILE_EXTENSION_REQUIRED", "true")
	t.Setenv("HISTORY_DRIVER", "sql")
	t.Setenv("STORAGE_ARCHIVE_ENABLED", "true")
	t.Setenv("EVENTS_TOPIC", "ventas")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "/data/ZETH51T.DBF", cfg.Reconcile.Sources.Detail)
	assert.Equal(t, "2024-01-01", cfg.Reconcile.WindowStart)
	assert.Equal(t, "ticket", cfg.Reconcile.DedupKey)
	assert.True(t, cfg.Reconcile.ExtensionRequired)
	assert.Equal(t, "sql", cfg.History.Driver)
	assert.True(t, cfg.Storage.Archive.Enabled)
	assert.Equal(t, "ventas", cfg.Events.Topic)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SERVER_PORT=9090\nRECONCILE_SUMMARY=full\n"), 0o644))
	t.Cleanup(func() {
		os.Unsetenv("SERVER_PORT")
		os.Unsetenv("RECONCILE_SUMMARY")
	})

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "full", cfg.Reconcile.Summary)
}

func TestLoadConfig_Invalid(t *testing.T) {
	cases := map[string]string{
		"RECONCILE_WINDOW_START": "01/03/2025",
		"RECONCILE_DEDUP_KEY":    "product",
		"HISTORY_DRIVER":         "csv",
		"LOG_LEVEL":              "loud",
		"RECONCILE_KEY_CACHE":    "redis",
	}

	for env, value := range cases {
		t.Run(env, func(t *testing.T) {
			t.Setenv(env, value)
			_, err := LoadConfig(t.TempDir())
			assert.ErrorContains(t, err, "invalid configuration")
		})
	}
}
