package capture

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseElapsed(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Duration
		ok    bool
	}{
		{
			name:  "typical batch duration",
			input: "00:01:23.450",
			want:  time.Minute + 23*time.Second + 450*time.Millisecond,
			ok:    true,
		},
		{
			name:  "zero",
			input: "00:00:00.000",
			want:  0,
			ok:    true,
		},
		{
			name:  "hours carry",
			input: "02:30:00.001",
			want:  2*time.Hour + 30*time.Minute + time.Millisecond,
			ok:    true,
		},
		{name: "missing fraction", input: "00:01:23"},
		{name: "two fractional digits", input: "00:01:23.45"},
		{name: "four fractional digits", input: "00:01:23.4500"},
		{name: "single digit hours", input: "0:01:23.450"},
		{name: "single digit minutes", input: "00:1:23.450"},
		{name: "minutes overflow", input: "00:60:00.000"},
		{name: "seconds overflow", input: "00:00:60.000"},
		{name: "negative minutes", input: "00:-1:00.000"},
		{name: "signed hours", input: "+1:00:00.000"},
		{name: "signed seconds", input: "00:00:+1.000"},
		{name: "signed fraction", input: "00:00:01.+50"},
		{name: "space padded hours", input: " 1:00:00.000"},
		{name: "non-numeric", input: "aa:bb:cc.ddd"},
		{name: "too few segments", input: "01:23.450"},
		{name: "too many segments", input: "00:00:01:23.450"},
		{name: "empty", input: ""},
		{name: "go duration form", input: "1m23.45s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseElapsed(tt.input)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.want, got)
		})
	}
}
