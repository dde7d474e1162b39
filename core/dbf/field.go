package dbf

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Record is one table row keyed by upper-case field name.
type Record map[string]any

// Field type codes.
const (
	TypeChar    byte = 'C'
	TypeDate    byte = 'D'
	TypeNumeric byte = 'N'
	TypeFloat   byte = 'F'
	TypeLogical byte = 'L'
)

const maxFieldName = 10

// Field describes one column of a table.
type Field struct {
	Name     string
	Type     byte
	Length   int
	Decimals int
}

// Spec renders the field in the "NAME T(len,dec)" notation accepted by ParseFieldSpec.
func (f Field) Spec() string {
	switch f.Type {
	case TypeDate, TypeLogical:
		return fmt.Sprintf("%s %c", f.Name, f.Type)
	case TypeNumeric, TypeFloat:
		return fmt.Sprintf("%s %c(%d,%d)", f.Name, f.Type, f.Length, f.Decimals)
	default:
		return fmt.Sprintf("%s %c(%d)", f.Name, f.Type, f.Length)
	}
}

// IsNumeric reports whether the field holds a number.
func (f Field) IsNumeric() bool {
	return f.Type == TypeNumeric || f.Type == TypeFloat
}

// FormatNumber renders v as a numeric field stores it. It fails with ErrFieldOverflow
// when the rendered number is wider than the field.
func (f Field) FormatNumber(v float64) (string, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "", fmt.Errorf("%w: %v", ErrFieldOverflow, v)
	}
	s := decimal.NewFromFloat(v).StringFixed(int32(f.Decimals))
	if len(s) > f.Length {
		return "", fmt.Errorf("%w: %s into %d", ErrFieldOverflow, s, f.Length)
	}
	return s, nil
}

var specPattern = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)\s+([CDNFLcdnfl])(?:\s*\(\s*(\d+)\s*(?:,\s*(\d+)\s*)?\))?$`)

// ParseFieldSpec parses a single "NAME T(len[,dec])" declaration.
// D and L fields take no size; C requires a length; N and F require a length and
// default to zero decimals.
func ParseFieldSpec(spec string) (Field, error) {
	m := specPattern.FindStringSubmatch(strings.TrimSpace(spec))
	if m == nil {
		return Field{}, fmt.Errorf("invalid field spec %q", spec)
	}

	f := Field{
		Name: strings.ToUpper(m[1]),
		Type: strings.ToUpper(m[2])[0],
	}
	if len(f.Name) > maxFieldName {
		return Field{}, fmt.Errorf("field name %s exceeds %d characters", f.Name, maxFieldName)
	}

	switch f.Type {
	case TypeDate:
		f.Length = 8
	case TypeLogical:
		f.Length = 1
	case TypeChar, TypeNumeric, TypeFloat:
		if m[3] == "" {
			return Field{}, fmt.Errorf("field %s: length required for type %c", f.Name, f.Type)
		}
		f.Length, _ = strconv.Atoi(m[3])
		if m[4] != "" {
			f.Decimals, _ = strconv.Atoi(m[4])
		}
	}

	if f.Length <= 0 || f.Length > 254 {
		return Field{}, fmt.Errorf("field %s: length %d out of range", f.Name, f.Length)
	}
	if f.Type == TypeChar && f.Decimals != 0 {
		return Field{}, fmt.Errorf("field %s: text fields take no decimals", f.Name)
	}
	if f.IsNumeric() && f.Decimals >= f.Length {
		return Field{}, fmt.Errorf("field %s: decimals must be smaller than length", f.Name)
	}

	return f, nil
}

// ParseFieldSpecs parses a semicolon separated list of field declarations.
func ParseFieldSpecs(specs string) ([]Field, error) {
	var fields []Field
	seen := make(map[string]bool)
	for _, part := range strings.Split(specs, ";") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		f, err := ParseFieldSpec(part)
		if err != nil {
			return nil, err
		}
		if seen[f.Name] {
			return nil, fmt.Errorf("duplicate field %s", f.Name)
		}
		seen[f.Name] = true
		fields = append(fields, f)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("no fields declared")
	}
	return fields, nil
}
