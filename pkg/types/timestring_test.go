package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"10:00", false},
		{"00:00", false},
		{"23:59", false},
		{"24:00", true},
		{"10:60", true},
		{"10", true},
		{"10:0", true},
		{"", true},
		{"ten o'clock", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			ts, err := NewTimeStringFromString(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTimeString)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.input, ts.String())
			}
		})
	}
}

func TestTimeString_Comparisons(t *testing.T) {
	a := TimeString("09:00")
	b := TimeString("17:30")

	assert.True(t, a.IsBefore(b))
	assert.False(t, b.IsBefore(a))
	assert.True(t, b.IsAfter(a))
	assert.False(t, a.IsAfter(a))
}

func TestTimeString_AddMinutes(t *testing.T) {
	ts := TimeString("10:00")

	shifted, err := ts.AddMinutes(90)
	require.NoError(t, err)
	assert.Equal(t, "11:30", shifted.String())
}

func TestTimeString_AddMinutes_ClampedAtMidnight(t *testing.T) {
	ts := TimeString("23:30")

	shifted, err := ts.AddMinutes(60)
	require.NoError(t, err)
	assert.Equal(t, "23:59", shifted.String())
}

func TestTimeString_MinutesUntil(t *testing.T) {
	a := TimeString("10:00")
	b := TimeString("12:30")

	minutes, err := a.MinutesUntil(b)
	require.NoError(t, err)
	assert.Equal(t, 150, minutes)

	minutes, err = b.MinutesUntil(a)
	require.NoError(t, err)
	assert.Equal(t, -150, minutes)
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString

	require.NoError(t, ts.Scan("15:04:05"))
	assert.Equal(t, "15:04", ts.String())

	require.NoError(t, ts.Scan([]byte("08:30")))
	assert.Equal(t, "08:30", ts.String())

	require.NoError(t, ts.Scan(time.Date(2025, 10, 15, 12, 45, 0, 0, time.UTC)))
	assert.Equal(t, "12:45", ts.String())

	require.NoError(t, ts.Scan(nil))
	assert.True(t, ts.IsZero())

	assert.Error(t, ts.Scan(42))
}

func TestTimeString_Value(t *testing.T) {
	v, err := TimeString("10:00").Value()
	require.NoError(t, err)
	assert.Equal(t, "10:00", v)

	v, err = TimeString("").Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}
