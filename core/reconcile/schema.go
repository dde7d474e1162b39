package reconcile

import (
	"fmt"
	"os"
	"strings"

	"sales-history/core/dbf"

	"github.com/goccy/go-yaml"
)

// SourceKind names the table (or computation) an output field is filled from.
type SourceKind string

const (
	SourceDetail    SourceKind = "detail"
	SourceHeader    SourceKind = "header"
	SourceProduct   SourceKind = "product"
	SourceExtension SourceKind = "extension"
	SourceComputed  SourceKind = "computed"
)

// Computed values available to the schema.
const (
	ComputedDate        = "date"
	ComputedCost        = "cost"
	ComputedPaymentTerm = "payment_term"
)

// Source points at the value an output field is filled from.
type Source struct {
	Kind   SourceKind
	Column string
}

func (s Source) String() string {
	return string(s.Kind) + "." + s.Column
}

// ParseSource parses "kind.column", e.g. "header.CUSNAM" or "computed.cost".
func ParseSource(s string) (Source, error) {
	kind, column, ok := strings.Cut(strings.TrimSpace(s), ".")
	if !ok || column == "" {
		return Source{}, fmt.Errorf("invalid source %q, want kind.column", s)
	}

	src := Source{Kind: SourceKind(strings.ToLower(kind)), Column: column}
	switch src.Kind {
	case SourceDetail, SourceHeader, SourceProduct, SourceExtension:
		src.Column = strings.ToUpper(column)
	case SourceComputed:
		src.Column = strings.ToLower(column)
		switch src.Column {
		case ComputedDate, ComputedCost, ComputedPaymentTerm:
		default:
			return Source{}, fmt.Errorf("unknown computed value %q", column)
		}
	default:
		return Source{}, fmt.Errorf("unknown source kind %q", kind)
	}
	return src, nil
}

// OutputField is one column of the history store and where its value comes from.
type OutputField struct {
	dbf.Field
	From Source
}

// Schema is the output layout of the history store.
type Schema struct {
	Fields []OutputField
	// TicketField is the output field holding the ticket reference.
	TicketField string
	// ProductField is the output field holding the product reference.
	ProductField string
}

// DBFFields returns the table layout.
func (s *Schema) DBFFields() []dbf.Field {
	out := make([]dbf.Field, len(s.Fields))
	for i, f := range s.Fields {
		out[i] = f.Field
	}
	return out
}

// Field looks up an output field by name.
func (s *Schema) Field(name string) (OutputField, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return OutputField{}, false
}

// Names returns the output field names in layout order.
func (s *Schema) Names() []string {
	out := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		out[i] = f.Name
	}
	return out
}

// Validate checks that the layout can carry keys of the given shape and that computed
// values land in fields of a compatible type.
func (s *Schema) Validate(shape KeyShape) error {
	if len(s.Fields) == 0 {
		return fmt.Errorf("schema declares no fields")
	}

	seen := make(map[string]bool, len(s.Fields))
	for _, f := range s.Fields {
		if seen[f.Name] {
			return fmt.Errorf("schema: duplicate field %s", f.Name)
		}
		seen[f.Name] = true

		if f.From.Kind != SourceComputed {
			continue
		}
		switch f.From.Column {
		case ComputedDate:
			if f.Type != dbf.TypeDate {
				return fmt.Errorf("schema: %s holds computed.date and must be a D field", f.Name)
			}
		case ComputedCost:
			if !f.IsNumeric() {
				return fmt.Errorf("schema: %s holds computed.cost and must be numeric", f.Name)
			}
		case ComputedPaymentTerm:
			if f.Type != dbf.TypeChar {
				return fmt.Errorf("schema: %s holds computed.payment_term and must be a C field", f.Name)
			}
		}
	}

	if !seen[s.TicketField] {
		return fmt.Errorf("schema: ticket key field %q is not declared", s.TicketField)
	}
	if shape == KeyTicketProduct && !seen[s.ProductField] {
		return fmt.Errorf("schema: product key field %q is required for %s keys", s.ProductField, shape)
	}
	return nil
}

type schemaDoc struct {
	Key struct {
		Ticket  string `yaml:"ticket"`
		Product string `yaml:"product"`
	} `yaml:"key"`
	Fields []struct {
		Def  string `yaml:"def"`
		From string `yaml:"from"`
	} `yaml:"fields"`
}

// ParseSchema decodes a YAML schema document.
func ParseSchema(data []byte) (*Schema, error) {
	var doc schemaDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse schema: %w", err)
	}

	s := &Schema{
		TicketField:  strings.ToUpper(strings.TrimSpace(doc.Key.Ticket)),
		ProductField: strings.ToUpper(strings.TrimSpace(doc.Key.Product)),
	}
	for i, raw := range doc.Fields {
		field, err := dbf.ParseFieldSpec(raw.Def)
		if err != nil {
			return nil, fmt.Errorf("schema field %d: %w", i, err)
		}
		from, err := ParseSource(raw.From)
		if err != nil {
			return nil, fmt.Errorf("schema field %s: %w", field.Name, err)
		}
		s.Fields = append(s.Fields, OutputField{Field: field, From: from})
	}
	return s, nil
}

// LoadSchemaFile reads a YAML schema from disk.
func LoadSchemaFile(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}
	return ParseSchema(data)
}

// defaultLayout is the current history layout.
var defaultLayout = []struct{ def, from string }{
	{"EERR C(20)", "extension.EERR"},
	{"CONDICION C(10)", "computed.payment_term"},
	{"FECHA D", "computed.date"},
	{"N_TICKET C(10)", "detail.NUMCHK"},
	{"NOMBRES C(50)", "header.CUSNAM"},
	{"TIPO C(5)", "header.TYPPAG"},
	{"CANT N(6,0)", "detail.QTYPRO"},
	{"SERVICIO C(50)", "detail.DESPRO"},
	{"P_UNIT N(12,2)", "detail.PRIPRO"},
	{"CATEGORIA C(20)", "extension.CATEGORIA"},
	{"SUB_CAT C(20)", "extension.SUB_CAT"},
	{"COST_UNIT N(12,2)", "computed.cost"},
	{"PRONUM C(10)", "detail.PRONUM"},
	{"DESCRI C(50)", "extension.DESCRI"},
}

// DefaultSchema returns the built-in history layout.
func DefaultSchema() *Schema {
	s := &Schema{TicketField: "N_TICKET", ProductField: "PRONUM"}
	for _, l := range defaultLayout {
		field, err := dbf.ParseFieldSpec(l.def)
		if err != nil {
			panic(err)
		}
		from, err := ParseSource(l.from)
		if err != nil {
			panic(err)
		}
		s.Fields = append(s.Fields, OutputField{Field: field, From: from})
	}
	return s
}
