// Package keyindex persists the reconciliation dedup key set on disk so that a
// restarted process can skip the full history scan.
//
// The index is a pebble database holding one entry per key plus a watermark:
// the history record count the key set corresponds to. An index whose watermark
// does not match the store is ignored and rebuilt by the engine.
package keyindex
