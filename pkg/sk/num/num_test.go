package num

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPctChange(t *testing.T) {
	got := PctChange(Ptr(110), Ptr(100))
	require.NotNil(t, got)
	assert.Equal(t, 10.0, *got)

	got = PctChange(Ptr(42.5), Ptr(42.5))
	require.NotNil(t, got)
	assert.Equal(t, 0.0, *got)

	assert.Nil(t, PctChange(Ptr(10), Ptr(0)))
	assert.Nil(t, PctChange(nil, Ptr(100)))
	assert.Nil(t, PctChange(Ptr(100), nil))
}

func TestPct(t *testing.T) {
	got := Pct(Ptr(25), Ptr(100))
	require.NotNil(t, got)
	assert.Equal(t, 25.0, *got)

	assert.Nil(t, Pct(Ptr(25), Ptr(0)))
	assert.Nil(t, Pct(nil, Ptr(100)))
}

func TestToBillions(t *testing.T) {
	got := ToBillions(Ptr(7.694e9))
	require.NotNil(t, got)
	assert.Equal(t, 7.69, *got)
	assert.Nil(t, ToBillions(nil))
}

func TestToPct(t *testing.T) {
	got := ToPct(Ptr(0.123))
	require.NotNil(t, got)
	assert.Equal(t, 12.3, *got)

	// Already a percent value, passes through.
	got = ToPct(Ptr(12.3))
	require.NotNil(t, got)
	assert.Equal(t, 12.3, *got)

	// Negative decimal ratios convert too.
	got = ToPct(Ptr(-0.05))
	require.NotNil(t, got)
	assert.Equal(t, -5.0, *got)

	assert.Nil(t, ToPct(nil))
}

func TestFirstValid(t *testing.T) {
	assert.Nil(t, FirstValid(nil, nil))
	got := FirstValid(nil, Ptr(1), Ptr(2))
	require.NotNil(t, got)
	assert.Equal(t, 1.0, *got)
}

func TestParseFloat(t *testing.T) {
	got := ParseFloat("1,234.5")
	require.NotNil(t, got)
	assert.Equal(t, 1234.5, *got)

	assert.Nil(t, ParseFloat(""))
	assert.Nil(t, ParseFloat("N/A"))
	assert.Nil(t, ParseFloat("--"))
	assert.Nil(t, ParseFloat("abc"))
}

func TestParseDisplayNumber(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"1.23", 1.23},
		{"1,234.56", 1234.56},
		{"45.2%", 45.2},
		{"-3.1%", -3.1},
		{"12.5K", 12500},
		{"3.2M", 3.2e6},
		{"7.69B", 7.69e9},
		{"1.1T", 1.1e12},
	}
	for _, tc := range cases {
		got := ParseDisplayNumber(tc.in)
		require.NotNil(t, got, tc.in)
		assert.InDelta(t, tc.want, *got, 1e-9, tc.in)
	}

	assert.Nil(t, ParseDisplayNumber("N/A"))
	assert.Nil(t, ParseDisplayNumber("--"))
	assert.Nil(t, ParseDisplayNumber(""))
	assert.Nil(t, ParseDisplayNumber("∞"))
}
