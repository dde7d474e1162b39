package reconcile

import (
	"strings"

	"sales-history/core/dbf"
	"sales-history/core/utils"
)

// normalizeKey turns a raw key cell into its comparable form.
func normalizeKey(v any) string {
	return strings.TrimSpace(utils.ToString(v))
}

// BuildIndex maps the value of column to its row. When several rows share a key the
// last one wins. Rows with a blank key are not indexed.
func BuildIndex(records []dbf.Record, column string) map[string]dbf.Record {
	index := make(map[string]dbf.Record, len(records))
	for _, rec := range records {
		key := normalizeKey(rec[column])
		if key == "" {
			continue
		}
		index[key] = rec
	}
	return index
}

// KeyOf returns the dedup key of a stored history record.
func KeyOf(rec dbf.Record, schema *Schema, shape KeyShape) Key {
	k := Key{Ticket: normalizeKey(rec[schema.TicketField])}
	if shape == KeyTicketProduct {
		k.Product = normalizeKey(rec[schema.ProductField])
	}
	return k
}

// KeySetFromRecords collects the dedup keys of stored history records.
func KeySetFromRecords(records []dbf.Record, schema *Schema, shape KeyShape) KeySet {
	keys := make(KeySet, len(records))
	for _, rec := range records {
		keys.Add(KeyOf(rec, schema, shape))
	}
	return keys
}

// candidateKey builds the dedup key of a detail line as it reads back once stored:
// text passes through the store codepage cp and is clipped to the byte width of its
// output field, so that long or unrepresentable references compare equal to their
// stored form.
func candidateKey(ticket, product any, schema *Schema, shape KeyShape, cp dbf.Codepage) Key {
	k := Key{Ticket: storedText(ticket, schema, schema.TicketField, cp)}
	if shape == KeyTicketProduct {
		k.Product = storedText(product, schema, schema.ProductField, cp)
	}
	return k
}

func storedText(v any, schema *Schema, field string, cp dbf.Codepage) string {
	s := strings.TrimRight(utils.ToString(v), " ")
	if f, ok := schema.Field(field); ok && f.Type == dbf.TypeChar {
		s = dbf.Fit(cp, s, f.Length)
	}
	return strings.TrimSpace(s)
}
