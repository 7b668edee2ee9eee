//go:build amd64 || arm64

package conv

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInt64ToInt(t *testing.T) {
	t.Run("valid zero", func(t *testing.T) {
		got, err := Int64ToInt(0)
		assert.NoError(t, err)
		assert.Equal(t, 0, got)
	})

	t.Run("valid max int", func(t *testing.T) {
		got, err := Int64ToInt(math.MaxInt64)
		assert.NoError(t, err)
		assert.Equal(t, math.MaxInt, got)
	})

	t.Run("invalid negative", func(t *testing.T) {
		_, err := Int64ToInt(-1)
		assert.Error(t, err)
	})
}

func TestIntToUint32(t *testing.T) {
	t.Run("valid positive", func(t *testing.T) {
		got, err := IntToUint32(123)
		assert.NoError(t, err)
		assert.Equal(t, uint32(123), got)
	})

	t.Run("invalid negative", func(t *testing.T) {
		_, err := IntToUint32(-1)
		assert.Error(t, err)
	})

	t.Run("invalid too large", func(t *testing.T) {
		_, err := IntToUint32(math.MaxUint32 + 1)
		assert.Error(t, err)
	})
}

func TestSplitOffset(t *testing.T) {
	lo, hi, err := SplitOffset(0x1_0000_0002)
	assert.NoError(t, err)
	assert.Equal(t, uint32(2), lo)
	assert.Equal(t, uint32(1), hi)

	_, _, err = SplitOffset(-5)
	assert.Error(t, err)
}

func TestScaleCapacity(t *testing.T) {
	tests := []struct {
		name     string
		required int
		factor   float64
		want     int
	}{
		{"default factor", 100, 1.5, 150},
		{"rounds up", 11, 1.5, 17},
		{"factor below one", 10, 0.5, 10},
		{"zero", 0, 1.5, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ScaleCapacity(tt.required, tt.factor)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ScaleCapacity(math.MaxInt, 2)
	assert.Error(t, err)
}

func TestAlignUp(t *testing.T) {
	got, err := AlignUp(150, 4)
	assert.NoError(t, err)
	assert.Equal(t, 152, got)

	got, err = AlignUp(152, 4)
	assert.NoError(t, err)
	assert.Equal(t, 152, got)

	got, err = AlignUp(7, 1)
	assert.NoError(t, err)
	assert.Equal(t, 7, got)

	_, err = AlignUp(math.MaxInt, 8)
	assert.Error(t, err)
}
