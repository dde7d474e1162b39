package cmd

import (
	"path/filepath"
	"testing"

	"sales-history/core/keyindex"
	"sales-history/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBootstrap_ReleasesKeyCacheOnFailure(t *testing.T) {
	dir := t.TempDir()
	cacheDir := filepath.Join(dir, "keyindex")
	t.Setenv("HISTORY_PATH", filepath.Join(dir, "HISTORICO.DBF"))
	t.Setenv("RECONCILE_KEY_CACHE", "pebble")
	t.Setenv("RECONCILE_KEY_CACHE_DIR", cacheDir)
	t.Setenv("EVENTS_ENABLED", "true")
	t.Setenv("EVENTS_BROKERS", ",")

	a, err := bootstrap()
	assert.Error(t, err)
	assert.Nil(t, a)

	// The cache directory is free again.
	cache, err := keyindex.Open(cacheDir, reconcile.KeyTicketProduct)
	require.NoError(t, err)
	assert.NoError(t, cache.Close())
}

func TestBootstrap(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HISTORY_PATH", filepath.Join(dir, "HISTORICO.DBF"))
	t.Setenv("RECONCILE_KEY_CACHE", "memory")

	a, err := bootstrap()
	require.NoError(t, err)
	defer a.Close()

	assert.NotNil(t, a.engine)
	assert.Equal(t, "cp850", a.engine.Options().StoreCodepage.Name())
	assert.Equal(t, reconcile.SummaryNew, a.opts.Summary)
}
