package checks

import (
	"fmt"
	"strings"

	"sales-history/core/database"
	"sales-history/core/dbf"
	"sales-history/core/history"
	"sales-history/core/reconcile"

	"gorm.io/gorm"
)

// HistoryReport strictly types the result of a history schema check.
type HistoryReport struct {
	Driver         string   `json:"driver"`
	Exists         bool     `json:"exists"`
	Matched        bool     `json:"matched"`
	MissingColumns []string `json:"missing_columns"`
	TypeMismatches []string `json:"type_mismatches"`
	Errors         []string `json:"errors"`
}

// CheckHistory compares the layout of an existing history store with schema. A store
// that does not exist yet matches; the next pass creates it.
func CheckHistory(store reconcile.History, schema *reconcile.Schema, db *gorm.DB) (*HistoryReport, error) {
	if store == nil {
		return nil, fmt.Errorf("history store is nil")
	}

	report := &HistoryReport{
		Matched:        true,
		MissingColumns: []string{},
		TypeMismatches: []string{},
		Errors:         []string{},
	}

	switch s := store.(type) {
	case *history.DBFStore:
		report.Driver = "dbf"
		if report.Exists = s.Exists(); !report.Exists {
			return report, nil
		}
		h, err := s.Header()
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("Failed to read %s: %v", s.Path(), err))
			report.Matched = false
			return report, nil // Partial fail
		}
		compareDBF(report, schema, h.Fields)

	case *history.SQLStore:
		report.Driver = "sql"
		if db == nil {
			return nil, fmt.Errorf("database connection is nil")
		}
		if report.Exists = s.Exists(); !report.Exists {
			return report, nil
		}
		actualCols, err := database.TableColumns(db, s.Table())
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("Failed to inspect table %s: %v", s.Table(), err))
			report.Matched = false
			return report, nil
		}
		compareSQL(report, schema, actualCols)

	default:
		return nil, fmt.Errorf("unsupported history store %T", store)
	}

	return report, nil
}

func compareDBF(report *HistoryReport, schema *reconcile.Schema, actual []dbf.Field) {
	actualMap := make(map[string]dbf.Field, len(actual))
	for _, f := range actual {
		actualMap[strings.ToUpper(f.Name)] = f
	}

	for _, want := range schema.Fields {
		got, ok := actualMap[strings.ToUpper(want.Name)]
		if !ok {
			report.MissingColumns = append(report.MissingColumns, want.Name)
			report.Matched = false
			continue
		}
		if fieldType(got) != fieldType(want.Field) {
			report.TypeMismatches = append(report.TypeMismatches,
				fmt.Sprintf("%s: expected %s, got %s", want.Name, fieldType(want.Field), fieldType(got)))
			report.Matched = false
		}
	}
}

func compareSQL(report *HistoryReport, schema *reconcile.Schema, actual []database.Column) {
	actualMap := make(map[string]database.Column, len(actual))
	for _, col := range actual {
		actualMap[col.Name] = col
	}

	for _, want := range schema.Fields {
		col, ok := actualMap[strings.ToLower(want.Name)]
		if !ok {
			report.MissingColumns = append(report.MissingColumns, want.Name)
			report.Matched = false
			continue
		}

		exp := database.ParseColumnType(history.ColumnType(want.Field))
		// MySQL reports BOOLEAN as tinyint(1).
		if exp.Base == "boolean" && (col.Base == "tinyint" || col.Base == "boolean") {
			continue
		}
		if !col.SameType(exp) {
			report.TypeMismatches = append(report.TypeMismatches,
				fmt.Sprintf("%s: expected %s, got %s", want.Name, exp.Type, col.Type))
			report.Matched = false
		}
	}
}

// fieldType renders the type part of a field, e.g. N(12,2).
func fieldType(f dbf.Field) string {
	return strings.TrimPrefix(f.Spec(), f.Name+" ")
}
