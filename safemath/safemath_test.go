package safemath

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdd(t *testing.T) {
	got, err := Add(30, 70)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), got)

	_, err = Add(math.MaxUint64, 1)
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestSub(t *testing.T) {
	got, err := Sub(20_000_000, 1_000_000)
	require.NoError(t, err)
	assert.Equal(t, uint64(19_000_000), got)

	_, err = Sub(1, 2)
	assert.ErrorIs(t, err, ErrUnderflow)
}

func TestMul(t *testing.T) {
	got, err := Mul(1<<32, 1<<31)
	require.NoError(t, err)
	assert.Equal(t, uint64(1)<<63, got)

	_, err = Mul(1<<32, 1<<32)
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestSum(t *testing.T) {
	got, err := Sum(1, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, uint64(6), got)

	_, err = Sum(math.MaxUint64-1, 1, 1)
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestApplyBps(t *testing.T) {
	tests := []struct {
		name   string
		amount uint64
		bps    uint16
		want   uint64
	}{
		{"twenty percent", 100_000_000, 2000, 20_000_000},
		{"five percent fee", 20_000_000, 500, 1_000_000},
		{"floors", 199, 500, 9},
		{"zero bps", 12345, 0, 0},
		{"full", 777, TotalBasisPoints, 777},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ApplyBps(tt.amount, tt.bps)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApplyBps_Overflow(t *testing.T) {
	_, err := ApplyBps(math.MaxUint64/2, 3)
	assert.ErrorIs(t, err, ErrOverflow)
}
