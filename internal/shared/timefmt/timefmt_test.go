package timefmt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		ok    bool
	}{
		{"valid timestamp", "2024-03-15 09:30:00", true},
		{"empty string", "", false},
		{"garbage", "not-a-date", false},
		{"date only", "2024-03-15", false},
		{"wrong separator", "2024/03/15 09:30:00", false},
		{"iso 8601", "2024-03-15T09:30:00Z", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Parse(tt.input)
			assert.Equal(t, tt.ok, ok)
			if !tt.ok {
				assert.True(t, got.IsZero())
			}
		})
	}
}

func TestFormatParseRoundTrip(t *testing.T) {
	orig := time.Date(2024, 3, 15, 9, 30, 0, 0, time.Local)

	s := Format(orig)
	assert.Equal(t, "2024-03-15 09:30:00", s)

	back, ok := Parse(s)
	require.True(t, ok)
	assert.True(t, orig.Equal(back))
}

func TestNowParses(t *testing.T) {
	_, ok := Parse(Now())
	assert.True(t, ok)
}
