package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuration_String(t *testing.T) {
	tests := []struct {
		name     string
		duration Duration
		expected string
	}{
		{"Zero", 0, "0s"},
		{"Seconds", Duration(5 * time.Second), "5s"},
		{"Minutes", Duration(10 * time.Minute), "10m0s"},
		{"Milliseconds", Duration(500 * time.Millisecond), "500ms"},
		{"Mixed", Duration(1*time.Hour + 30*time.Minute + 45*time.Second), "1h30m45s"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.duration.String())
		})
	}
}

func TestDuration_Conversions(t *testing.T) {
	d := FromDuration(1500 * time.Millisecond)
	assert.Equal(t, int64(1500), d.Milliseconds())
	assert.InDelta(t, 1.5, d.Seconds(), 0.0001)
	assert.Equal(t, 1500*time.Millisecond, d.AsDuration())
}

func TestParseDuration(t *testing.T) {
	d, err := ParseDuration("30s")
	require.NoError(t, err)
	assert.Equal(t, Duration(30*time.Second), d)

	_, err = ParseDuration("not-a-duration")
	assert.Error(t, err)
}

func TestDuration_TextRoundTrip(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalText([]byte("2m")))
	assert.Equal(t, Duration(2*time.Minute), d)

	text, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "2m0s", string(text))

	assert.Error(t, d.UnmarshalText([]byte("soon")))
}
