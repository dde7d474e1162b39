package dbf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFieldSpec(t *testing.T) {
	tests := []struct {
		spec    string
		want    Field
		wantErr bool
	}{
		{spec: "N_TICKET C(10)", want: Field{Name: "N_TICKET", Type: 'C', Length: 10}},
		{spec: "fecha d", want: Field{Name: "FECHA", Type: 'D', Length: 8}},
		{spec: "CANT N(6,0)", want: Field{Name: "CANT", Type: 'N', Length: 6}},
		{spec: "P_UNIT N( 12 , 2 )", want: Field{Name: "P_UNIT", Type: 'N', Length: 12, Decimals: 2}},
		{spec: "ACTIVE L", want: Field{Name: "ACTIVE", Type: 'L', Length: 1}},
		{spec: "NAME C", wantErr: true},
		{spec: "TOOLONGNAME1 C(5)", wantErr: true},
		{spec: "X N(2,2)", wantErr: true},
		{spec: "X Q(3)", wantErr: true},
		{spec: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got, err := ParseFieldSpec(tt.spec)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFieldSpecs(t *testing.T) {
	fields, err := ParseFieldSpecs("EERR C(20);FECHA D;CANT N(6,0);")
	require.NoError(t, err)
	require.Len(t, fields, 3)
	assert.Equal(t, "EERR", fields[0].Name)
	assert.Equal(t, "CANT N(6,0)", fields[2].Spec())

	_, err = ParseFieldSpecs("A C(1);a C(2)")
	assert.ErrorContains(t, err, "duplicate")

	_, err = ParseFieldSpecs(" ; ")
	assert.Error(t, err)
}

func TestField_FormatNumber(t *testing.T) {
	cant := Field{Name: "CANT", Type: TypeNumeric, Length: 6}
	s, err := cant.FormatNumber(123456)
	require.NoError(t, err)
	assert.Equal(t, "123456", s)

	_, err = cant.FormatNumber(1234567)
	assert.ErrorIs(t, err, ErrFieldOverflow)

	price := Field{Name: "P_UNIT", Type: TypeNumeric, Length: 6, Decimals: 2}
	s, err = price.FormatNumber(-12.5)
	require.NoError(t, err)
	assert.Equal(t, "-12.50", s)

	_, err = price.FormatNumber(1000)
	assert.ErrorIs(t, err, ErrFieldOverflow)
}
