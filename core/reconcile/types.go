package reconcile

import (
	"fmt"
	"strings"
	"time"

	"sales-history/core/dbf"
)

// KeyShape selects which fields make up the dedup key.
type KeyShape string

const (
	// KeyTicket dedups on the ticket reference alone.
	KeyTicket KeyShape = "ticket"
	// KeyTicketProduct dedups on the (ticket, product) pair.
	KeyTicketProduct KeyShape = "ticket_product"
)

// Valid reports whether the shape is known.
func (s KeyShape) Valid() bool {
	return s == KeyTicket || s == KeyTicketProduct
}

// Key is the dedup key of one history record.
// Product is always empty for the KeyTicket shape.
type Key struct {
	Ticket  string
	Product string
}

// String renders the key for logs and event payloads.
func (k Key) String() string {
	if k.Product == "" {
		return k.Ticket
	}
	return k.Ticket + "|" + k.Product
}

// KeySet is a set of dedup keys.
type KeySet map[Key]struct{}

// Has reports whether k is in the set.
func (s KeySet) Has(k Key) bool {
	_, ok := s[k]
	return ok
}

// Add inserts k.
func (s KeySet) Add(k Key) {
	s[k] = struct{}{}
}

// Clone returns an independent copy.
func (s KeySet) Clone() KeySet {
	out := make(KeySet, len(s))
	for k := range s {
		out[k] = struct{}{}
	}
	return out
}

// SummaryMode selects what a pass returns alongside the counts.
type SummaryMode string

const (
	// SummaryNew returns only the records appended by the pass.
	SummaryNew SummaryMode = "new"
	// SummaryFull returns the whole history after the pass.
	SummaryFull SummaryMode = "full"
)

// CreditRule classifies a sale as credit or cash from one header column.
type CreditRule struct {
	Field       string
	Value       string
	CreditLabel string
	CashLabel   string
}

// Classify returns the payment-term label for a header row.
func (r CreditRule) Classify(header dbf.Record) string {
	if normalizeKey(header[r.Field]) == r.Value {
		return r.CreditLabel
	}
	return r.CashLabel
}

// Options is the resolved configuration of the engine.
type Options struct {
	Sources           SourcesConfig
	Columns           ColumnsConfig
	WindowStart       time.Time
	Schema            *Schema
	KeyShape          KeyShape
	Summary           SummaryMode
	ExtensionRequired bool
	Credit            CreditRule
	// StoreCodepage is the codepage the history store writes text with. Dedup keys
	// are compared in that form. Nil means text is stored as read.
	StoreCodepage dbf.Codepage
	// Now returns the current time; "today" is its calendar date.
	Now func() time.Time
}

// NewOptions resolves and validates cfg.
func NewOptions(cfg Config) (*Options, error) {
	start, err := time.Parse("2006-01-02", strings.TrimSpace(cfg.WindowStart))
	if err != nil {
		return nil, fmt.Errorf("invalid window start %q: %w", cfg.WindowStart, err)
	}

	shape := KeyShape(cfg.DedupKey)
	if !shape.Valid() {
		return nil, fmt.Errorf("invalid dedup key shape %q", cfg.DedupKey)
	}

	summary := SummaryMode(cfg.Summary)
	if summary == "" {
		summary = SummaryNew
	}
	if summary != SummaryNew && summary != SummaryFull {
		return nil, fmt.Errorf("invalid summary mode %q", cfg.Summary)
	}

	schema := DefaultSchema()
	if cfg.SchemaFile != "" {
		if schema, err = LoadSchemaFile(cfg.SchemaFile); err != nil {
			return nil, err
		}
	}
	if err := schema.Validate(shape); err != nil {
		return nil, err
	}

	return &Options{
		Sources:           cfg.Sources,
		Columns:           cfg.Columns,
		WindowStart:       CalendarDate(start),
		Schema:            schema,
		KeyShape:          shape,
		Summary:           summary,
		ExtensionRequired: cfg.ExtensionRequired,
		Credit: CreditRule{
			Field:       cfg.CreditField,
			Value:       cfg.CreditValue,
			CreditLabel: cfg.CreditLabel,
			CashLabel:   cfg.CashLabel,
		},
		Now: time.Now,
	}, nil
}

// Today returns the calendar date the pass runs on.
func (o *Options) Today() time.Time {
	now := time.Now
	if o.Now != nil {
		now = o.Now
	}
	return CalendarDate(now())
}

// MergeStats counts what happened to each scanned detail line.
type MergeStats struct {
	Scanned     int `json:"scanned"`
	Emitted     int `json:"emitted"`
	Duplicate   int `json:"duplicate"`
	Orphan      int `json:"orphan"`
	BadDate     int `json:"bad_date"`
	OutOfWindow int `json:"out_of_window"`
	Overflow    int `json:"overflow"`
}

// Skipped returns the per-reason skip counts.
func (s MergeStats) Skipped() map[string]int {
	return map[string]int{
		"duplicate":     s.Duplicate,
		"orphan":        s.Orphan,
		"bad_date":      s.BadDate,
		"out_of_window": s.OutOfWindow,
		"overflow":      s.Overflow,
	}
}

// Result summarizes one reconciliation pass.
type Result struct {
	// Appended is the number of records written by the pass.
	Appended int `json:"appended"`
	// Total is the number of records in the store after the pass.
	Total int `json:"total"`
	// Records holds the new records or the full history, depending on the summary mode.
	Records []dbf.Record `json:"-"`
	// Stats breaks down what happened to each detail line.
	Stats MergeStats `json:"stats"`
	// StartedAt is when the pass began.
	StartedAt time.Time `json:"started_at"`
	// Duration is how long the pass took.
	Duration time.Duration `json:"duration"`
}
