package database

import (
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

// Column is one column of a live table with its declared type split into parts.
type Column struct {
	Name string
	// Type is the declared type, lower-cased, e.g. "decimal(12,2)".
	Type string
	// Base is the type name without size or modifiers, e.g. "decimal".
	Base string
	// Length and Scale are the declared size; zero when the type carries none.
	Length int
	Scale  int
}

// SameType reports whether c is declared with the same base type and size as other.
func (c Column) SameType(other Column) bool {
	return c.Base == other.Base && c.Length == other.Length && c.Scale == other.Scale
}

// ParseColumnType splits a declared SQL type such as "DECIMAL(12,2)",
// "varchar(10)" or "bigint unsigned".
func ParseColumnType(declared string) Column {
	t := strings.ToLower(strings.TrimSpace(declared))
	c := Column{Type: t, Base: t}

	open := strings.IndexByte(t, '(')
	if open < 0 {
		if base, _, ok := strings.Cut(t, " "); ok {
			c.Base = base
		}
		return c
	}

	c.Base = strings.TrimSpace(t[:open])
	size := t[open+1:]
	if end := strings.IndexByte(size, ')'); end >= 0 {
		size = size[:end]
	}
	length, scale, _ := strings.Cut(size, ",")
	c.Length, _ = strconv.Atoi(strings.TrimSpace(length))
	c.Scale, _ = strconv.Atoi(strings.TrimSpace(scale))
	return c
}

type sqliteColumn struct {
	Cid     int
	Name    string
	Type    string
	Notnull int
	Pk      int
}

type mysqlColumn struct {
	Field string
	Type  string
}

// TableColumns lists the columns of a table in declaration order, names lower-cased.
// A missing table yields no columns on SQLite.
func TableColumns(db *gorm.DB, table string) ([]Column, error) {
	var columns []Column

	if db.Dialector.Name() == "sqlite" {
		var rows []sqliteColumn
		if err := db.Raw(fmt.Sprintf("PRAGMA table_info('%s')", table)).Scan(&rows).Error; err != nil {
			return nil, fmt.Errorf("failed to get columns for table %s: %w", table, err)
		}
		for _, r := range rows {
			c := ParseColumnType(r.Type)
			c.Name = strings.ToLower(r.Name)
			columns = append(columns, c)
		}
		return columns, nil
	}

	// SHOW COLUMNS keeps the exact MySQL type strings, e.g. decimal(12,2).
	var rows []mysqlColumn
	if err := db.Raw(fmt.Sprintf("SHOW COLUMNS FROM `%s`", table)).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to get columns for table %s: %w", table, err)
	}
	for _, r := range rows {
		c := ParseColumnType(r.Type)
		c.Name = strings.ToLower(r.Field)
		columns = append(columns, c)
	}
	return columns, nil
}
