package services

import (
	"testing"
	"time"

	"keytrack/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2025-03-10", time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)},
		{" 2025-03-10 ", time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)},
		{"2025-03-10T14:30:00Z", time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC)},
		{"2025-03-10T14:30:00.123Z", time.Date(2025, 3, 10, 14, 30, 0, 123000000, time.UTC)},
	}
	for _, tt := range tests {
		got, err := parseDate(tt.in)
		require.NoError(t, err, tt.in)
		assert.True(t, tt.want.Equal(got), tt.in)
	}

	_, err := parseDate("10/03/2025")
	assert.ErrorIs(t, err, domain.ErrInvalidDate)
}

func TestParseOptionalDate(t *testing.T) {
	got, err := parseOptionalDate("  ")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = parseOptionalDate("2025-03-10")
	require.NoError(t, err)
	require.NotNil(t, got)
}
