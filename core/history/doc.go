// Package history implements the append-only sales history store.
//
// Two backends satisfy reconcile.History:
//
//   - DBFStore keeps the history in a dBASE table, the format the legacy
//     point-of-sale reports read. It also implements FileBacked so the raw file
//     can be downloaded.
//   - SQLStore keeps it in a relational table through GORM (MySQL or SQLite).
//
// Both create the store on first use from the configured output schema and never
// alter an existing layout. Archiver is a reconcile.Hook that copies a file-backed
// store to object storage after every append.
//
// # Usage
//
//	store, err := history.New(cfg.History, opts.Schema, db)
//	engine := reconcile.NewEngine(opts, tables, store, log)
package history
