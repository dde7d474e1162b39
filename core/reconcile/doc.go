// Package reconcile merges legacy point-of-sale tables into an append-only sales history.
//
// A reconciliation pass joins four independently maintained tables:
//
//   - Detail: one row per sold line (ticket reference, product reference, quantity, price).
//   - Header: one row per ticket (date, customer, payment type).
//   - Product: catalog with the latest replacement cost.
//   - Extension: optional product enrichment (business unit, category, description).
//
// and appends only the lines that are not yet present in the history store.
//
// # Architecture
//
// The engine is split into small, independently testable pieces:
//
// 1. Schema: the output field layout and where each field comes from. The layout has
//    changed several times over the life of the history file, so it is data
//    (see DefaultSchema and LoadSchemaFile), never hard-coded.
//
// 2. Index: BuildIndex turns a reference table into a lookup by natural key;
//    KeySetFromRecords turns stored history into the set of dedup keys.
//
// 3. Dates: NormalizeDate accepts native dates and three textual layouts and never fails;
//    callers get a calendar date or false.
//
// 4. Merger: applies the dedup, orphan, date-window and enrichment rules to one detail
//    line at a time and assembles the output record.
//
// 5. Engine: runs one pass end to end against a TableReader and a History store.
//
// # Idempotence
//
// The dedup key (ticket, or ticket+product, see KeyShape) is checked against the keys
// already in the store and against the keys emitted earlier in the same pass. Running
// a pass twice over unchanged sources appends nothing the second time. Candidate keys
// are compared in the form the store keeps them: through the store codepage and
// clipped to the field width.
//
// # Usage Example
//
//	opts, err := reconcile.NewOptions(cfg.Reconcile)
//	tables, _ := dbf.NewTables(cfg.Reconcile.Encoding)
//	store, _ := history.NewDBFStore(cfg.History.Path, opts.Schema, cfg.History.Encoding)
//
//	engine := reconcile.NewEngine(opts, tables, store, logger)
//	result, err := engine.Run(ctx)
//	if reconcile.KindOf(err) == reconcile.KindSourceMissing {
//	    // a source table is missing; nothing was written
//	}
package reconcile
