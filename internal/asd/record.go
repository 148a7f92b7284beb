package asd

import (
	"fmt"
	"math"
	"strconv"
)

// Point is one row of a spectral record
type Point struct {
	Wavelength float64
	Value      float64
}

// Record is a decoded channel paired with its wavelength axis
type Record struct {
	Filename string
	Format   DataFormat
	Header   *Header
	Points   []Point
	Range    RangeReport
}

// Wavelengths returns the wavelength column
func (r *Record) Wavelengths() []float64 {
	out := make([]float64, len(r.Points))
	for i, p := range r.Points {
		out[i] = p.Wavelength
	}
	return out
}

// Values returns the value column
func (r *Record) Values() []float64 {
	out := make([]float64, len(r.Points))
	for i, p := range r.Points {
		out[i] = p.Value
	}
	return out
}

// WavelengthAxis builds start + i*step for i in [0, n)
func WavelengthAxis(start, step float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	axis := make([]float64, n)
	for i := range axis {
		axis[i] = start + float64(i)*step
	}
	return axis
}

// Assemble zips the header's wavelength axis with values, rounding each value
// to sigdig significant digits when sigdig > 0.
func Assemble(h *Header, values []float64, sigdig int) ([]Point, error) {
	if len(values) != h.Channels {
		return nil, fmt.Errorf("got %d values for %d channels", len(values), h.Channels)
	}
	axis := WavelengthAxis(h.WavelengthStart, h.WavelengthStep, h.Channels)
	points := make([]Point, len(axis))
	for i, wl := range axis {
		points[i] = Point{Wavelength: wl, Value: RoundSignificant(values[i], sigdig)}
	}
	return points, nil
}

// RoundSignificant rounds v to digits significant digits, ties to even.
// digits <= 0 and non-finite values are returned unchanged.
func RoundSignificant(v float64, digits int) float64 {
	if digits <= 0 || v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	rounded, err := strconv.ParseFloat(strconv.FormatFloat(v, 'e', digits-1, 64), 64)
	if err != nil {
		return v
	}
	return rounded
}
