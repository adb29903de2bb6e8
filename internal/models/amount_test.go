package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatAmount(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "0.00", FormatAmount(0))
	assert.Equal(t, "0.05", FormatAmount(5))
	assert.Equal(t, "1,200.50", FormatAmount(120050))
	assert.Equal(t, "1,000,000.00", FormatAmount(100000000))
	assert.Equal(t, "-12.30", FormatAmount(-1230))
}

func TestParseAmount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want int64
	}{
		{"", 0},
		{"12", 1200},
		{"1,200.50", 120050},
		{"1200.5", 120050},
		{".75", 75},
		{" 3 000 ", 300000},
		{"-4.20", -420},
	}
	for _, tt := range tests {
		got, err := ParseAmount(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	for _, bad := range []string{"abc", "1.234", "1.-5", "1.+5", "12x"} {
		_, err := ParseAmount(bad)
		assert.True(t, errors.Is(err, ErrInvalidArgument), bad)
	}
}
