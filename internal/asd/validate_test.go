package asd

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRange(t *testing.T) {
	testCases := []struct {
		name       string
		values     []float64
		lower      float64
		upper      float64
		violations []int
	}{
		{"all inside", []float64{0, 0.5, 1}, 0, 1, nil},
		{"one above", []float64{0.2, 1.5, 0.3}, 0, 1, []int{1}},
		{"below and above", []float64{-0.1, 0.5, 2}, 0, 1, []int{0, 2}},
		{"nan", []float64{0.1, math.NaN()}, 0, 1, []int{1}},
		{"inf", []float64{math.Inf(1)}, 0, 65535, []int{0}},
		{"counts", []float64{0, 65535, 65536}, 0, 65535, []int{2}},
		{"empty", nil, 0, 1, nil},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			report, err := ValidateRange(tc.values, tc.lower, tc.upper, false)
			if len(tc.violations) == 0 {
				require.NoError(t, err)
				assert.Equal(t, 0, report.Count())
			} else {
				var rangeErr *RangeViolationError
				require.True(t, errors.As(err, &rangeErr))
				require.Len(t, rangeErr.Violations, len(tc.violations))
				for i, idx := range tc.violations {
					assert.Equal(t, idx, rangeErr.Violations[i].Index)
				}
				assert.Equal(t, StageValidate, rangeErr.Stage())
			}

			suppressed, err := ValidateRange(tc.values, tc.lower, tc.upper, true)
			require.NoError(t, err)
			assert.True(t, suppressed.Suppressed)
			assert.Equal(t, len(tc.violations), suppressed.Count())
		})
	}
}

func TestRangeViolationError_Message(t *testing.T) {
	values := make([]float64, 15)
	for i := range values {
		values[i] = 2
	}
	_, err := ValidateRange(values, 0, 1, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "15 samples outside range [0, 1]")
	assert.Contains(t, err.Error(), "[0]=2")
	assert.Contains(t, err.Error(), "and 5 more")
}

func TestBounds(t *testing.T) {
	opts := DefaultOptions()
	h := &Header{DynamicRangeBits: 16}

	lower, upper := Bounds(decodeRules[Reflectance], h, opts)
	assert.Equal(t, 0.0, lower)
	assert.Equal(t, 1.0, upper)

	opts.ReflectanceMax = 1.2
	_, upper = Bounds(decodeRules[Reflectance], h, opts)
	assert.Equal(t, 1.2, upper)

	_, upper = Bounds(decodeRules[Raw], h, opts)
	assert.Equal(t, 65535.0, upper)

	h.DynamicRangeBits = 0
	opts.DefaultDynamicRangeBits = 12
	_, upper = Bounds(decodeRules[DN], h, opts)
	assert.Equal(t, 4095.0, upper)

	opts.DefaultDynamicRangeBits = 0
	_, upper = Bounds(decodeRules[Reference], h, opts)
	assert.Equal(t, 65535.0, upper)
}
