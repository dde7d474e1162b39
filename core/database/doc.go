// Package database handles database connections and schema inspection.
//
// It wraps GORM to open either a MySQL server or a SQLite file as the backing
// database of the SQL history store.
//
// # Connect
//
// Connect selects the dialector from Config.Driver, applies pool settings and pings
// the database before returning it.
//
// # Schema Inspection
//
// TableColumns lists the columns of a table with their declared types split into
// base name, length and scale. The integrity check compares them with the column
// types the history layout asks for.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	columns, err := database.TableColumns(db, "historico")
package database
