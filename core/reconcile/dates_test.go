package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDate(t *testing.T) {
	want := day(2025, 3, 15)
	local := time.Date(2025, 3, 15, 23, 59, 0, 0, time.FixedZone("PET", -5*3600))

	cases := []struct {
		name string
		in   any
		ok   bool
	}{
		{"time", time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC), true},
		{"pointer", &local, true},
		{"iso", "2025-03-15", true},
		{"dmy", " 15/03/2025 ", true},
		{"compact", []byte("20250315"), true},
		{"blank", "   ", false},
		{"garbage", "15-03-2025", false},
		{"nil", nil, false},
		{"zero", time.Time{}, false},
		{"number", 20250315, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := NormalizeDate(tc.in)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, want, got)
			}
		})
	}
}

func TestInWindow(t *testing.T) {
	start, end := day(2025, 3, 1), day(2025, 3, 20)

	assert.False(t, InWindow(day(2025, 2, 28), start, end))
	assert.True(t, InWindow(start, start, end))
	assert.True(t, InWindow(end, start, end))
	assert.False(t, InWindow(day(2025, 3, 21), start, end))
}
