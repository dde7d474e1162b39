package history

import (
	"context"
	"errors"
	"testing"
	"time"

	"sales-history/core/database"
	"sales-history/core/dbf"
	"sales-history/core/reconcile"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupSQLite(t *testing.T) *gorm.DB {
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	return db
}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func TestSQLStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	db := setupSQLite(t)
	store := NewSQLStore(db, "historico", reconcile.DefaultSchema(), nil)

	assert.False(t, store.Exists())
	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	require.NoError(t, store.EnsureSchema(ctx))
	require.NoError(t, store.EnsureSchema(ctx))
	assert.True(t, store.Exists())

	require.NoError(t, store.Append(ctx, sampleRecords()))
	require.NoError(t, store.Append(ctx, []dbf.Record{{"N_TICKET": "T2-LONG-REFERENCE", "PRONUM": "P1"}}))

	n, err = store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	keys, err := store.ExistingKeys(ctx, reconcile.KeyTicketProduct)
	require.NoError(t, err)
	assert.Len(t, keys, 3)
	assert.True(t, keys.Has(reconcile.Key{Ticket: "T2-LONG-RE", Product: "P1"}))

	all, err := store.AllRecords(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "T1", all[0]["N_TICKET"])
	assert.Equal(t, 3.0, all[0]["CANT"])
	assert.Equal(t, 10.0, all[0]["COST_UNIT"])
	assert.Equal(t, time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), all[0]["FECHA"])
	assert.Equal(t, "Peña", all[1]["NOMBRES"])
	assert.Nil(t, all[1]["FECHA"])
	assert.Equal(t, "T2-LONG-RE", all[2]["N_TICKET"])
}

func TestSQLStore_EncodesText(t *testing.T) {
	ctx := context.Background()
	cp := dbf.MustCodepage("cp850")
	store := NewSQLStore(setupSQLite(t), "historico", reconcile.DefaultSchema(), cp)
	assert.Equal(t, cp, store.Codepage())

	require.NoError(t, store.EnsureSchema(ctx))
	require.NoError(t, store.Append(ctx, []dbf.Record{{"N_TICKET": "T€1", "PRONUM": "P1", "NOMBRES": "Peña"}}))

	all, err := store.AllRecords(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "T?1", all[0]["N_TICKET"])
	assert.Equal(t, "Peña", all[0]["NOMBRES"])
}

func TestSQLStore_AppendFailureRollsBack(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewSQLStore(db, "historico", reconcile.DefaultSchema(), nil)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `historico`").WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := store.Append(context.Background(), sampleRecords())
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateTableSQL(t *testing.T) {
	db := setupSQLite(t)
	schema, err := reconcile.ParseSchema([]byte(`
key: {ticket: N_TICKET}
fields:
  - {def: N_TICKET C(10), from: detail.NUMCHK}
  - {def: FECHA D, from: computed.date}
  - {def: "P_UNIT N(12,2)", from: detail.PRIPRO}
  - {def: PAGADO L, from: header.PAID}
`))
	require.NoError(t, err)

	ddl := CreateTableSQL(db.Dialector, "historico", schema)
	assert.Equal(t, "CREATE TABLE `historico` (`id` INTEGER PRIMARY KEY AUTOINCREMENT, `N_TICKET` VARCHAR(10), `FECHA` DATE, `P_UNIT` DECIMAL(12,2), `PAGADO` BOOLEAN)", ddl)

	mysqlDB, _ := setupMockDB(t)
	ddl = CreateTableSQL(mysqlDB.Dialector, "historico", schema)
	assert.Contains(t, ddl, "`id` BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY")
}

func TestNew(t *testing.T) {
	schema := reconcile.DefaultSchema()

	store, err := New(Config{Driver: "dbf", Path: "H.DBF", Encoding: "cp850"}, schema, nil)
	require.NoError(t, err)
	assert.IsType(t, &DBFStore{}, store)

	_, err = New(Config{Driver: "sql", Table: "historico"}, schema, nil)
	assert.Error(t, err)

	store, err = New(Config{Driver: "sql", Table: "historico"}, schema, setupSQLite(t))
	require.NoError(t, err)
	assert.IsType(t, &SQLStore{}, store)

	_, err = New(Config{Driver: "csv"}, schema, nil)
	assert.Error(t, err)
}
