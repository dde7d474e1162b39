package reconcile

import (
	"strings"
	"time"

	"sales-history/core/dbf"
	"sales-history/core/utils"
)

// Merger turns detail lines into history records, one line at a time.
// It is not safe for concurrent use.
type Merger struct {
	opts       *Options
	headers    map[string]dbf.Record
	products   map[string]dbf.Record
	extensions map[string]dbf.Record
	seen       KeySet
	start      time.Time
	today      time.Time

	// Stats counts the outcome of every line passed to Merge.
	Stats MergeStats
}

// NewMerger creates a merger over pre-built reference indexes. seen holds the keys that
// are already stored; the merger adds every key it emits so that a key is emitted at
// most once. A nil extensions index behaves as an empty one.
func NewMerger(opts *Options, headers, products, extensions map[string]dbf.Record, seen KeySet, today time.Time) *Merger {
	if seen == nil {
		seen = make(KeySet)
	}
	return &Merger{
		opts:       opts,
		headers:    headers,
		products:   products,
		extensions: extensions,
		seen:       seen,
		start:      opts.WindowStart,
		today:      CalendarDate(today),
	}
}

// Seen returns the keys stored or emitted so far.
func (m *Merger) Seen() KeySet {
	return m.seen
}

// Merge reconciles one detail line. It returns the assembled record and true, or
// false when the line is filtered out: already stored, orphan, bad or out-of-window
// date, or a number too wide for its output field.
func (m *Merger) Merge(line dbf.Record) (dbf.Record, bool) {
	m.Stats.Scanned++
	cols := m.opts.Columns
	schema := m.opts.Schema

	key := candidateKey(line[cols.DetailTicket], line[cols.DetailProduct], schema, m.opts.KeyShape, m.opts.StoreCodepage)
	if m.seen.Has(key) {
		m.Stats.Duplicate++
		return nil, false
	}

	header, ok := m.headers[normalizeKey(line[cols.DetailTicket])]
	if !ok {
		m.Stats.Orphan++
		return nil, false
	}

	date, ok := NormalizeDate(header[cols.HeaderDate])
	if !ok {
		m.Stats.BadDate++
		return nil, false
	}
	if !InWindow(date, m.start, m.today) {
		m.Stats.OutOfWindow++
		return nil, false
	}

	productKey := normalizeKey(line[cols.DetailProduct])
	ext := m.extensions[productKey]
	if ext == nil {
		ext = dbf.Record{}
	}
	product := m.products[productKey]

	computed := map[string]any{
		ComputedDate:        date,
		ComputedCost:        unitCost(product, cols.ProductCost),
		ComputedPaymentTerm: m.opts.Credit.Classify(header),
	}

	rows := map[SourceKind]dbf.Record{
		SourceDetail:    line,
		SourceHeader:    header,
		SourceProduct:   product,
		SourceExtension: ext,
	}

	out := make(dbf.Record, len(schema.Fields))
	for _, f := range schema.Fields {
		var raw any
		if f.From.Kind == SourceComputed {
			raw = computed[f.From.Column]
		} else if row := rows[f.From.Kind]; row != nil {
			raw = row[f.From.Column]
		}
		v := coerce(f.Field, raw)
		if n, ok := v.(float64); ok {
			if _, err := f.FormatNumber(n); err != nil {
				m.Stats.Overflow++
				return nil, false
			}
		}
		out[f.Name] = v
	}

	m.seen.Add(key)
	m.Stats.Emitted++
	return out, true
}

// unitCost is the product's replacement cost, or 0 when the product or value is missing.
func unitCost(product dbf.Record, column string) float64 {
	if product == nil {
		return 0
	}
	return utils.ToFloat(product[column])
}

// coerce converts a raw source value to the representation of the output field.
func coerce(f dbf.Field, raw any) any {
	switch f.Type {
	case dbf.TypeNumeric, dbf.TypeFloat:
		return utils.ToFloat(raw)
	case dbf.TypeDate:
		if d, ok := NormalizeDate(raw); ok {
			return d
		}
		return nil
	case dbf.TypeLogical:
		if raw == nil {
			return nil
		}
		return utils.ToBool(raw)
	default:
		return strings.TrimRight(utils.ToString(raw), " ")
	}
}
