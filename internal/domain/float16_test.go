package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFloat16RoundTripExactValues(t *testing.T) {
	for _, f := range []float64{0, 1, -1, 0.5, 1.5, 2.5, -0.25, 4096, 65504, -65504, 0.0009765625} {
		assert.Equal(t, f, Float16ToFloat64(Float16FromFloat64(f)), "value %v", f)
	}
}

func TestFloat16KnownBitPatterns(t *testing.T) {
	assert.Equal(t, uint16(0x0000), Float16FromFloat64(0))
	assert.Equal(t, uint16(0x3c00), Float16FromFloat64(1))
	assert.Equal(t, uint16(0xc000), Float16FromFloat64(-2))
	assert.Equal(t, uint16(0x3e00), Float16FromFloat64(1.5))
	assert.Equal(t, uint16(0x7bff), Float16FromFloat64(65504))
}

func TestFloat16NegativeZeroKeepsSign(t *testing.T) {
	z := 0.0
	bits := Float16FromFloat64(-z)
	assert.Equal(t, uint16(0x8000), bits)
	assert.True(t, math.Signbit(Float16ToFloat64(bits)))
}

func TestFloat16Overflow(t *testing.T) {
	assert.True(t, math.IsInf(Float16ToFloat64(Float16FromFloat64(1e6)), 1))
	assert.True(t, math.IsInf(Float16ToFloat64(Float16FromFloat64(-1e6)), -1))
}

func TestFloat16Infinity(t *testing.T) {
	assert.Equal(t, uint16(0x7c00), Float16FromFloat64(math.Inf(1)))
	assert.Equal(t, uint16(0xfc00), Float16FromFloat64(math.Inf(-1)))
	assert.True(t, math.IsInf(Float16ToFloat64(0x7c00), 1))
}

func TestFloat16NaN(t *testing.T) {
	assert.True(t, math.IsNaN(Float16ToFloat64(Float16FromFloat64(math.NaN()))))
}

func TestFloat16Subnormals(t *testing.T) {
	// smallest positive half subnormal: 2^-24
	smallest := math.Pow(2, -24)
	assert.Equal(t, uint16(0x0001), Float16FromFloat64(smallest))
	assert.Equal(t, smallest, Float16ToFloat64(0x0001))

	// largest subnormal: (1023/1024) * 2^-14
	largest := 1023.0 / 1024.0 * math.Pow(2, -14)
	assert.Equal(t, uint16(0x03ff), Float16FromFloat64(largest))
	assert.Equal(t, largest, Float16ToFloat64(0x03ff))
}

func TestFloat16RoundsToNearestEven(t *testing.T) {
	// 1 + 2^-11 is exactly halfway between 1.0 and the next half; ties go even
	assert.Equal(t, uint16(0x3c00), Float16FromFloat64(1+math.Pow(2, -11)))
	// slightly above the halfway point rounds up
	assert.Equal(t, uint16(0x3c01), Float16FromFloat64(1+math.Pow(2, -11)+math.Pow(2, -20)))
}
