package history

import (
	"fmt"

	"sales-history/core/dbf"
	"sales-history/core/reconcile"

	"gorm.io/gorm"
)

// FileBacked is implemented by stores persisted as a single file.
type FileBacked interface {
	Path() string
}

// New builds the store selected by cfg. db is only used by the sql driver.
func New(cfg Config, schema *reconcile.Schema, db *gorm.DB) (reconcile.History, error) {
	switch cfg.Driver {
	case "dbf", "":
		return NewDBFStore(cfg.Path, schema, cfg.Encoding)
	case "sql":
		if db == nil {
			return nil, fmt.Errorf("history driver sql requires a database connection")
		}
		cp, err := dbf.LookupCodepage(cfg.Encoding)
		if err != nil {
			return nil, err
		}
		return NewSQLStore(db, cfg.Table, schema, cp), nil
	default:
		return nil, fmt.Errorf("unknown history driver %q", cfg.Driver)
	}
}
