package rational_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lbtools/gpsdoctl/pkg/rational"
)

func TestNew_Reduces(t *testing.T) {
	v, err := rational.New(6, 4)
	require.NoError(t, err)
	assert.Equal(t, "3/2", v.String())

	whole, err := rational.New(10, 5)
	require.NoError(t, err)
	assert.Equal(t, "2", whole.String())
	assert.True(t, whole.IsInt())
}

func TestNew_ZeroDenominator(t *testing.T) {
	_, err := rational.New(1, 0)
	assert.ErrorIs(t, err, rational.ErrDivisionByZero)
}

func TestArithmetic_Exact(t *testing.T) {
	third, err := rational.New(1, 3)
	require.NoError(t, err)

	// 1/3 + 1/3 + 1/3 must be exactly 1; floating point cannot do this.
	sum := third.Add(third).Add(third)
	assert.Equal(t, 0, sum.CmpInt(1))

	// 10 MHz * 4 * 1024 stays exact at 40.96 GHz.
	fosc := rational.FromInt(10000000).MulInt(4).MulInt(1024)
	assert.Equal(t, 0, fosc.CmpInt(40960000000))

	diff := fosc.Sub(rational.FromInt(40960000000))
	assert.Equal(t, 0, diff.Sign())
}

func TestDiv(t *testing.T) {
	half, err := rational.FromInt(1).DivInt(2)
	require.NoError(t, err)
	assert.Equal(t, "1/2", half.String())

	quarter, err := half.Div(rational.FromInt(2))
	require.NoError(t, err)
	assert.Equal(t, "1/4", quarter.String())

	_, err = half.Div(rational.FromInt(0))
	assert.ErrorIs(t, err, rational.ErrDivisionByZero)

	_, err = half.DivInt(0)
	assert.ErrorIs(t, err, rational.ErrDivisionByZero)
}

func TestMod(t *testing.T) {
	tests := []struct {
		name     string
		num, den int64
		modNum   int64
		modDen   int64
		want     string
	}{
		{name: "integer wrap", num: 7, den: 1, modNum: 5, modDen: 1, want: "2"},
		{name: "fraction wrap", num: 7, den: 5, modNum: 1, modDen: 1, want: "2/5"},
		{name: "no wrap", num: 2, den: 5, modNum: 1, modDen: 1, want: "2/5"},
		{name: "exact multiple", num: 10, den: 1, modNum: 5, modDen: 1, want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, err := rational.New(tt.num, tt.den)
			require.NoError(t, err)
			y, err := rational.New(tt.modNum, tt.modDen)
			require.NoError(t, err)

			got, err := x.Mod(y)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}

	_, err := rational.FromInt(1).Mod(rational.FromInt(0))
	assert.ErrorIs(t, err, rational.ErrDivisionByZero)
}

func TestCmp(t *testing.T) {
	half, err := rational.New(1, 2)
	require.NoError(t, err)
	third, err := rational.New(1, 3)
	require.NoError(t, err)

	assert.Equal(t, 1, half.Cmp(third))
	assert.Equal(t, -1, third.Cmp(half))
	assert.Equal(t, 0, half.Cmp(half))

	assert.Equal(t, -1, half.CmpInt(1))
	assert.Equal(t, 1, half.CmpInt(0))
}

func TestImmutability(t *testing.T) {
	x := rational.FromInt(3)
	y := rational.FromInt(4)
	_ = x.Add(y)
	_ = x.MulInt(10)

	assert.Equal(t, 0, x.CmpInt(3))
	assert.Equal(t, 0, y.CmpInt(4))
}

func TestFloat64_RenderingOnly(t *testing.T) {
	v, err := rational.New(1, 4)
	require.NoError(t, err)
	assert.InDelta(t, 0.25, v.Float64(), 1e-12)
}
