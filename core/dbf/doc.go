// Package dbf reads and appends to dBASE III style (.DBF) tables.
//
// Point-of-sale exports arrive as fixed-width xBase tables. This package provides the
// minimal codec the reconciler needs:
//
//   - Reader: streams rows one at a time (deleted rows are skipped).
//   - Load: materializes a whole table into memory.
//   - Create / Append: creates a table with a fixed field layout and appends rows to it
//     without rewriting existing content.
//   - Codepage: single-byte text transforms (cp850 by default) that substitute '?'
//     for characters the codepage cannot represent.
//
// # Field types
//
//   - C: fixed-length text, right padded with spaces. Decoded as string (right-trimmed).
//   - D: calendar date stored as YYYYMMDD. Decoded as time.Time (UTC midnight) or nil.
//   - N, F: fixed-precision number. Decoded as float64 or nil when blank.
//   - L: logical. Decoded as bool or nil when unknown.
//
// # Usage
//
//	fields, _ := dbf.ParseFieldSpecs("N_TICKET C(10);FECHA D;CANT N(6,0)")
//	cp, _ := dbf.LookupCodepage("cp850")
//	_ = dbf.Create("VENTAS.DBF", fields, cp)
//	_ = dbf.Append("VENTAS.DBF", cp, []dbf.Record{{"N_TICKET": "T1"}})
//	rows, _ := dbf.Load("VENTAS.DBF", cp)
package dbf
