package reconcile

import (
	"context"

	"sales-history/core/dbf"
)

// TableReader defines how the engine reads the legacy source tables.
// Sources are addressed by the file names configured in SourcesConfig.
type TableReader interface {
	// Exists reports whether the named source table is present.
	Exists(source string) bool

	// Load reads every live row of the named source.
	// A missing table must yield an error satisfying os.IsNotExist.
	Load(ctx context.Context, source string) ([]dbf.Record, error)

	// Stream calls fn for every live row of the named source, in file order.
	// Returning an error from fn stops the stream and is returned as-is.
	Stream(ctx context.Context, source string, fn func(dbf.Record) error) error
}

// History defines the append-only store the engine reconciles into.
type History interface {
	// EnsureSchema creates the store with the given schema if it does not exist.
	// An existing store is left untouched.
	EnsureSchema(ctx context.Context) error

	// Exists reports whether the store has been created.
	Exists() bool

	// Count returns the number of stored records.
	Count(ctx context.Context) (int, error)

	// ExistingKeys scans the store and returns the dedup keys of every record.
	ExistingKeys(ctx context.Context, shape KeyShape) (KeySet, error)

	// Append writes records at the end of the store. It either writes all of them
	// or none.
	Append(ctx context.Context, records []dbf.Record) error

	// AllRecords returns every stored record in insertion order.
	AllRecords(ctx context.Context) ([]dbf.Record, error)
}

// Encoded is implemented by stores that pass text through a codepage.
type Encoded interface {
	Codepage() dbf.Codepage
}

// Hook is notified after a pass appended records.
// Hook failures are logged and never fail the pass.
type Hook interface {
	Name() string
	AfterAppend(ctx context.Context, records []dbf.Record) error
}
