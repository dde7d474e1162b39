package history

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"sales-history/core/dbf"
	"sales-history/core/reconcile"
	"sales-history/core/utils"

	"gorm.io/gorm"
)

// idColumn orders rows by insertion.
const idColumn = "id"

// SQLStore is a history store kept in a relational table.
type SQLStore struct {
	db     *gorm.DB
	table  string
	schema *reconcile.Schema
	cp     dbf.Codepage
}

// NewSQLStore creates a store over table. The table is created by EnsureSchema.
// Text is passed through cp before it is written; a nil cp writes it unchanged.
func NewSQLStore(db *gorm.DB, table string, schema *reconcile.Schema, cp dbf.Codepage) *SQLStore {
	return &SQLStore{db: db, table: table, schema: schema, cp: cp}
}

// Codepage implements reconcile.Encoded.
func (s *SQLStore) Codepage() dbf.Codepage {
	return s.cp
}

// Table returns the history table name.
func (s *SQLStore) Table() string {
	return s.table
}

// Exists reports whether the history table exists.
func (s *SQLStore) Exists() bool {
	return s.db.Migrator().HasTable(s.table)
}

// EnsureSchema creates the table from the schema if it is missing.
func (s *SQLStore) EnsureSchema(ctx context.Context) error {
	if s.Exists() {
		return nil
	}
	if err := s.db.WithContext(ctx).Exec(CreateTableSQL(s.db.Dialector, s.table, s.schema)).Error; err != nil {
		return fmt.Errorf("failed to create history table %s: %w", s.table, err)
	}
	return nil
}

// Count returns the number of stored rows. A missing table counts as empty.
func (s *SQLStore) Count(ctx context.Context) (int, error) {
	if !s.Exists() {
		return 0, nil
	}
	var n int64
	if err := s.db.WithContext(ctx).Table(s.table).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count history: %w", err)
	}
	return int(n), nil
}

// ExistingKeys reads only the key columns of every row.
func (s *SQLStore) ExistingKeys(ctx context.Context, shape reconcile.KeyShape) (reconcile.KeySet, error) {
	keys := make(reconcile.KeySet)
	if !s.Exists() {
		return keys, nil
	}

	cols := []string{s.schema.TicketField}
	if shape == reconcile.KeyTicketProduct {
		cols = append(cols, s.schema.ProductField)
	}

	rows, err := s.db.WithContext(ctx).Table(s.table).Select(cols).Rows()
	if err != nil {
		return nil, fmt.Errorf("failed to scan history keys: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ticket, product sql.NullString
		dest := []any{&ticket}
		if shape == reconcile.KeyTicketProduct {
			dest = append(dest, &product)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan history keys: %w", err)
		}
		keys.Add(reconcile.Key{
			Ticket:  strings.TrimSpace(ticket.String),
			Product: strings.TrimSpace(product.String),
		})
	}
	return keys, rows.Err()
}

// Append inserts records in one transaction. Text goes through the store codepage and
// is clipped to the declared width.
func (s *SQLStore) Append(ctx context.Context, records []dbf.Record) error {
	if len(records) == 0 {
		return nil
	}

	rows := make([]map[string]any, len(records))
	for i, rec := range records {
		row := make(map[string]any, len(s.schema.Fields))
		for _, f := range s.schema.Fields {
			row[f.Name] = toColumn(f.Field, rec[f.Name], s.cp)
		}
		rows[i] = row
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Table(s.table).Create(&rows).Error
	})
}

// AllRecords returns every row in insertion order. A missing table yields no records.
func (s *SQLStore) AllRecords(ctx context.Context) ([]dbf.Record, error) {
	out := []dbf.Record{}
	if !s.Exists() {
		return out, nil
	}

	var rows []map[string]any
	if err := s.db.WithContext(ctx).Table(s.table).Order(idColumn).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}

	for _, row := range rows {
		rec := make(dbf.Record, len(s.schema.Fields))
		for _, f := range s.schema.Fields {
			rec[f.Name] = fromColumn(f.Field, lookup(row, f.Name))
		}
		out = append(out, rec)
	}
	return out, nil
}

// lookup finds a column regardless of the case the driver reports it in.
func lookup(row map[string]any, name string) any {
	if v, ok := row[name]; ok {
		return v
	}
	for k, v := range row {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return nil
}

// CreateTableSQL renders the DDL for the history table.
func CreateTableSQL(d gorm.Dialector, table string, schema *reconcile.Schema) string {
	var b strings.Builder
	b.WriteString("CREATE TABLE ")
	d.QuoteTo(&b, table)
	b.WriteString(" (")
	d.QuoteTo(&b, idColumn)
	if d.Name() == "sqlite" {
		b.WriteString(" INTEGER PRIMARY KEY AUTOINCREMENT")
	} else {
		b.WriteString(" BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY")
	}
	for _, f := range schema.Fields {
		b.WriteString(", ")
		d.QuoteTo(&b, f.Name)
		b.WriteString(" ")
		b.WriteString(ColumnType(f.Field))
	}
	b.WriteString(")")
	return b.String()
}

// ColumnType maps a field to its SQL column type.
func ColumnType(f dbf.Field) string {
	switch f.Type {
	case dbf.TypeDate:
		return "DATE"
	case dbf.TypeNumeric, dbf.TypeFloat:
		return fmt.Sprintf("DECIMAL(%d,%d)", f.Length, f.Decimals)
	case dbf.TypeLogical:
		return "BOOLEAN"
	default:
		return fmt.Sprintf("VARCHAR(%d)", f.Length)
	}
}

func toColumn(f dbf.Field, v any, cp dbf.Codepage) any {
	switch f.Type {
	case dbf.TypeDate:
		if d, ok := reconcile.NormalizeDate(v); ok {
			return d.Format("2006-01-02")
		}
		return nil
	case dbf.TypeNumeric, dbf.TypeFloat:
		return utils.ToFloat(v)
	case dbf.TypeLogical:
		if v == nil {
			return nil
		}
		return utils.ToBool(v)
	default:
		return dbf.Fit(cp, strings.TrimRight(utils.ToString(v), " "), f.Length)
	}
}

func fromColumn(f dbf.Field, v any) any {
	switch f.Type {
	case dbf.TypeDate:
		if d, ok := reconcile.NormalizeDate(v); ok {
			return d
		}
		return nil
	case dbf.TypeNumeric, dbf.TypeFloat:
		if v == nil {
			return nil
		}
		return utils.ToFloat(v)
	case dbf.TypeLogical:
		if v == nil {
			return nil
		}
		return utils.ToBool(v)
	default:
		return strings.TrimRight(utils.ToString(v), " ")
	}
}
