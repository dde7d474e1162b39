package reconcile

import (
	"errors"
	"fmt"
)

// Kind classifies reconciliation failures.
type Kind string

const (
	// KindSourceMissing means a required input table does not exist. Nothing was written.
	KindSourceMissing Kind = "SourceMissing"
	// KindUnparseable marks a value that could not be interpreted. Line-level only;
	// the merger counts these and never returns them as errors.
	KindUnparseable Kind = "Unparseable"
	// KindStoreWrite means the history store could not be opened, created or appended to.
	KindStoreWrite Kind = "StoreWriteFailure"
	// KindUnexpected is anything else.
	KindUnexpected Kind = "Unexpected"
)

// ErrNotFound is wrapped by SourceMissing errors.
var ErrNotFound = errors.New("not found")

// Error is a classified reconciliation failure.
type Error struct {
	Kind   Kind
	Op     string
	Source string
	Err    error
}

func (e *Error) Error() string {
	msg := string(e.Kind) + ": " + e.Op
	if e.Source != "" {
		msg += " " + e.Source
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of err. Unclassified errors are KindUnexpected; nil has no kind.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var re *Error
	if errors.As(err, &re) {
		return re.Kind
	}
	return KindUnexpected
}

func sourceMissing(op, source string) error {
	return &Error{Kind: KindSourceMissing, Op: op, Source: source, Err: ErrNotFound}
}

func storeFailure(op string, err error) error {
	return &Error{Kind: KindStoreWrite, Op: op, Err: err}
}

func unexpected(op, source string, err error) error {
	return &Error{Kind: KindUnexpected, Op: op, Source: source, Err: err}
}

func recovered(v any) error {
	return &Error{Kind: KindUnexpected, Op: "run", Err: fmt.Errorf("panic: %v", v)}
}
