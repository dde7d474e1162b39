package dbf

import (
	"context"
	"errors"
	"io"
	"os"
)

// Tables reads source tables from the local filesystem with a fixed codepage.
type Tables struct {
	Codepage Codepage
}

// NewTables creates a table reader for the named codepage.
func NewTables(encoding string) (*Tables, error) {
	cp, err := LookupCodepage(encoding)
	if err != nil {
		return nil, err
	}
	return &Tables{Codepage: cp}, nil
}

// Exists reports whether the source file is present.
func (t *Tables) Exists(source string) bool {
	info, err := os.Stat(source)
	return err == nil && !info.IsDir()
}

// Load materializes the whole table.
func (t *Tables) Load(ctx context.Context, source string) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Load(source, t.Codepage)
}

// Stream calls fn once per live row, in file order. Returning an error from fn stops
// the scan and returns that error.
func (t *Tables) Stream(ctx context.Context, source string, fn func(Record) error) error {
	r, err := Open(source, t.Codepage)
	if err != nil {
		return err
	}
	defer r.Close()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		rec, err := r.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(rec); err != nil {
			return err
		}
	}
}
