package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"sales-history/core/dbf"
	"sales-history/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecords() []dbf.Record {
	return []dbf.Record{
		{
			"N_TICKET": "T1", "PRONUM": "P1", "FECHA": time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
			"NOMBRES": "ACME", "CANT": 3.0, "P_UNIT": 5.0, "COST_UNIT": 10.0, "CONDICION": "CREDITO",
		},
		{"N_TICKET": "T1", "PRONUM": "P2", "NOMBRES": "Peña"},
	}
}

func TestDBFStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "HISTORICO.DBF")
	store, err := NewDBFStore(path, reconcile.DefaultSchema(), "cp850")
	require.NoError(t, err)

	assert.False(t, store.Exists())
	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	all, err := store.AllRecords(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	require.NoError(t, store.EnsureSchema(ctx))
	require.NoError(t, store.EnsureSchema(ctx))
	assert.True(t, store.Exists())
	assert.Equal(t, path, store.Path())

	require.NoError(t, store.Append(ctx, sampleRecords()))

	n, err = store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	keys, err := store.ExistingKeys(ctx, reconcile.KeyTicketProduct)
	require.NoError(t, err)
	assert.Len(t, keys, 2)
	assert.True(t, keys.Has(reconcile.Key{Ticket: "T1", Product: "P2"}))

	keys, err = store.ExistingKeys(ctx, reconcile.KeyTicket)
	require.NoError(t, err)
	assert.Len(t, keys, 1)

	all, err = store.AllRecords(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "ACME", all[0]["NOMBRES"])
	assert.Equal(t, 10.0, all[0]["COST_UNIT"])
	assert.Equal(t, time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), all[0]["FECHA"])
	assert.Equal(t, "Peña", all[1]["NOMBRES"])
	assert.Nil(t, all[1]["FECHA"])

	h, err := store.Header()
	require.NoError(t, err)
	assert.Equal(t, reconcile.DefaultSchema().DBFFields(), h.Fields)
}

func TestDBFStore_KeepsExistingLayout(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "HISTORICO.DBF")

	fields, err := dbf.ParseFieldSpecs("N_TICKET C(10);PRONUM C(10)")
	require.NoError(t, err)
	require.NoError(t, dbf.Create(path, fields, dbf.MustCodepage("cp850")))

	store, err := NewDBFStore(path, reconcile.DefaultSchema(), "cp850")
	require.NoError(t, err)
	require.NoError(t, store.EnsureSchema(ctx))

	h, err := store.Header()
	require.NoError(t, err)
	assert.Len(t, h.Fields, 2)
}

func TestDBFStore_UnknownEncoding(t *testing.T) {
	_, err := NewDBFStore("x.dbf", reconcile.DefaultSchema(), "ebcdic")
	assert.Error(t, err)
}
