package dbf

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Codepage converts between Go strings and single-byte table text.
type Codepage interface {
	// Name returns the canonical codepage name.
	Name() string
	// Encode converts s, substituting '?' for characters the codepage cannot hold.
	Encode(s string) []byte
	// Decode converts raw table bytes to a string.
	Decode(b []byte) string
	// LanguageDriver returns the header byte that identifies the codepage.
	LanguageDriver() byte
}

// Replacement is written in place of characters the codepage cannot represent.
const Replacement = '?'

type charmapCodepage struct {
	name   string
	cm     *charmap.Charmap
	driver byte
}

func (c charmapCodepage) Name() string         { return c.name }
func (c charmapCodepage) LanguageDriver() byte { return c.driver }

func (c charmapCodepage) Encode(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		b, ok := c.cm.EncodeRune(r)
		if !ok {
			b = Replacement
		}
		out = append(out, b)
	}
	return out
}

func (c charmapCodepage) Decode(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b))
	for _, x := range b {
		sb.WriteRune(c.cm.DecodeByte(x))
	}
	return sb.String()
}

type utf8Codepage struct{}

func (utf8Codepage) Name() string           { return "utf-8" }
func (utf8Codepage) LanguageDriver() byte   { return 0 }
func (utf8Codepage) Encode(s string) []byte { return []byte(strings.ToValidUTF8(s, string(Replacement))) }
func (utf8Codepage) Decode(b []byte) string { return strings.ToValidUTF8(string(b), string(Replacement)) }

// LookupCodepage resolves a codepage by name. Names are case-insensitive and accept
// the common aliases ("850", "cp850", "ibm850").
func LookupCodepage(name string) (Codepage, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "cp850", "850", "ibm850":
		return charmapCodepage{name: "cp850", cm: charmap.CodePage850, driver: 0x02}, nil
	case "cp437", "437", "ibm437":
		return charmapCodepage{name: "cp437", cm: charmap.CodePage437, driver: 0x01}, nil
	case "cp1252", "1252", "windows-1252":
		return charmapCodepage{name: "cp1252", cm: charmap.Windows1252, driver: 0x03}, nil
	case "latin1", "iso-8859-1", "iso8859-1":
		return charmapCodepage{name: "latin1", cm: charmap.ISO8859_1, driver: 0x00}, nil
	case "utf-8", "utf8":
		return utf8Codepage{}, nil
	default:
		return nil, fmt.Errorf("unsupported codepage %q", name)
	}
}

// MustCodepage is LookupCodepage for names known to be valid.
func MustCodepage(name string) Codepage {
	cp, err := LookupCodepage(name)
	if err != nil {
		panic(err)
	}
	return cp
}

// Sanitize round-trips s through the codepage so the result only contains
// characters the codepage can store.
func Sanitize(cp Codepage, s string) string {
	return cp.Decode(cp.Encode(s))
}

// Fit returns s as a text field of the given width reads it back: passed through cp,
// clipped to width bytes and right-trimmed. A nil cp clips by characters instead.
func Fit(cp Codepage, s string, width int) string {
	if cp == nil {
		if width > 0 && utf8.RuneCountInString(s) > width {
			s = string([]rune(s)[:width])
		}
		return strings.TrimRight(s, " ")
	}
	raw := cp.Encode(s)
	if width > 0 && len(raw) > width {
		raw = raw[:width]
	}
	return strings.TrimRight(cp.Decode(raw), " ")
}
