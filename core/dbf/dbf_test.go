package dbf

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFields(t *testing.T) []Field {
	fields, err := ParseFieldSpecs("N_TICKET C(10);FECHA D;NOMBRES C(20);CANT N(6,0);P_UNIT N(12,2);OK L")
	require.NoError(t, err)
	return fields
}

func TestCreateAppendLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "VENTAS.DBF")
	cp := MustCodepage("cp850")
	fields := testFields(t)

	require.NoError(t, Create(path, fields, cp))

	h, err := ReadHeader(path)
	require.NoError(t, err)
	assert.Equal(t, 0, h.Count)
	assert.Equal(t, fields, h.Fields)
	assert.Equal(t, byte(0x02), h.LanguageDriver)

	day := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	err = Append(path, cp, []Record{
		{"N_TICKET": "T1", "FECHA": day, "NOMBRES": "Peña €", "CANT": 3.0, "P_UNIT": 5.0, "OK": true},
		{"N_TICKET": "T2", "CANT": 1},
	})
	require.NoError(t, err)

	err = Append(path, cp, []Record{{"N_TICKET": "T3", "FECHA": "2025-04-01", "P_UNIT": "1.505"}})
	require.NoError(t, err)

	rows, err := Load(path, cp)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "T1", rows[0]["N_TICKET"])
	assert.Equal(t, day, rows[0]["FECHA"])
	assert.Equal(t, "Peña ?", rows[0]["NOMBRES"])
	assert.Equal(t, 3.0, rows[0]["CANT"])
	assert.Equal(t, 5.0, rows[0]["P_UNIT"])
	assert.Equal(t, true, rows[0]["OK"])

	assert.Nil(t, rows[1]["FECHA"])
	assert.Nil(t, rows[1]["P_UNIT"])
	assert.Nil(t, rows[1]["OK"])
	assert.Equal(t, "", rows[1]["NOMBRES"])

	assert.Equal(t, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), rows[2]["FECHA"])
	assert.InDelta(t, 1.51, rows[2]["P_UNIT"], 0.0001)

	h, err = ReadHeader(path)
	require.NoError(t, err)
	assert.Equal(t, 3, h.Count)
}

func TestCreate_RefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "VENTAS.DBF")
	cp := MustCodepage("cp850")
	require.NoError(t, Create(path, testFields(t), cp))
	assert.Error(t, Create(path, testFields(t), cp))
}

func TestAppend_TruncatesLongText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "VENTAS.DBF")
	cp := MustCodepage("cp850")
	require.NoError(t, Create(path, testFields(t), cp))

	require.NoError(t, Append(path, cp, []Record{{"N_TICKET": "ABCDEFGHIJKLMNOP"}}))

	rows, err := Load(path, cp)
	require.NoError(t, err)
	assert.Equal(t, "ABCDEFGHIJ", rows[0]["N_TICKET"])
}

func TestAppend_OverflowLeavesTableUntouched(t *testing.T) {
	path := filepath.Join(t.TempDir(), "VENTAS.DBF")
	cp := MustCodepage("cp850")
	require.NoError(t, Create(path, testFields(t), cp))
	require.NoError(t, Append(path, cp, []Record{{"N_TICKET": "T1", "CANT": 1}}))

	before, err := os.ReadFile(path)
	require.NoError(t, err)

	err = Append(path, cp, []Record{
		{"N_TICKET": "T2", "CANT": 2},
		{"N_TICKET": "T3", "CANT": 12345678},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFieldOverflow))

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestReader_SkipsDeletedRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "VENTAS.DBF")
	cp := MustCodepage("cp850")
	require.NoError(t, Create(path, testFields(t), cp))
	require.NoError(t, Append(path, cp, []Record{{"N_TICKET": "T1"}, {"N_TICKET": "T2"}}))

	h, err := ReadHeader(path)
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	raw[h.HeaderLength] = '*'
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	rows, err := Load(path, cp)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "T2", rows[0]["N_TICKET"])
}

func TestReader_TruncatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "VENTAS.DBF")
	cp := MustCodepage("cp850")
	require.NoError(t, Create(path, testFields(t), cp))
	require.NoError(t, Append(path, cp, []Record{{"N_TICKET": "T1"}, {"N_TICKET": "T2"}}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, raw[:len(raw)-10], 0o644))

	rows, err := Load(path, cp)
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestTables_Stream(t *testing.T) {
	path := filepath.Join(t.TempDir(), "DETAIL.DBF")
	tables, err := NewTables("cp850")
	require.NoError(t, err)
	require.NoError(t, Create(path, testFields(t), tables.Codepage))
	require.NoError(t, Append(path, tables.Codepage, []Record{{"N_TICKET": "A"}, {"N_TICKET": "B"}, {"N_TICKET": "C"}}))

	assert.True(t, tables.Exists(path))
	assert.False(t, tables.Exists(filepath.Join(t.TempDir(), "missing.dbf")))

	var seen []string
	err = tables.Stream(context.Background(), path, func(r Record) error {
		seen = append(seen, r["N_TICKET"].(string))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, seen)

	stop := errors.New("stop")
	err = tables.Stream(context.Background(), path, func(r Record) error { return stop })
	assert.ErrorIs(t, err, stop)

	_, err = tables.Load(context.Background(), filepath.Join(t.TempDir(), "missing.dbf"))
	assert.True(t, os.IsNotExist(err))
}
