package dbf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupCodepage(t *testing.T) {
	for _, name := range []string{"cp850", "CP850", "850", "", "cp437", "cp1252", "latin1", "utf-8"} {
		cp, err := LookupCodepage(name)
		require.NoError(t, err, name)
		assert.NotNil(t, cp)
	}

	_, err := LookupCodepage("ebcdic")
	assert.Error(t, err)
}

func TestCodepage850_ReplacesUnsupported(t *testing.T) {
	cp := MustCodepage("cp850")

	// ñ and á exist in cp850; the euro sign and CJK do not.
	encoded := cp.Encode("Año á€漢")
	assert.Len(t, encoded, 6)
	assert.Equal(t, "Año á??", cp.Decode(encoded))
	assert.Equal(t, "Año á??", Sanitize(cp, "Año á€漢"))
}

func TestCodepageUTF8_Identity(t *testing.T) {
	cp := MustCodepage("utf-8")
	assert.Equal(t, "Año €", cp.Decode(cp.Encode("Año €")))
}

func TestFit(t *testing.T) {
	cp := MustCodepage("cp850")
	assert.Equal(t, "T?1", Fit(cp, "T€1", 10))
	assert.Equal(t, "TICKET-012", Fit(cp, "TICKET-0123456789", 10))
	assert.Equal(t, "AB", Fit(cp, "AB  C", 4))

	// A multi-byte character cut by the width reads back as one replacement.
	assert.Equal(t, "ab?", Fit(MustCodepage("utf-8"), "ab€", 4))

	assert.Equal(t, "añ", Fit(nil, "año", 2))
}
