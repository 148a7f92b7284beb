package asd

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Stats summarizes the values of a record
type Stats struct {
	Count          int
	Min            float64
	Max            float64
	Mean           float64
	RMS            float64
	PeakWavelength float64 // wavelength of the maximum
}

// Stats computes summary statistics. NaN samples are skipped.
func (r *Record) Stats() Stats {
	values := make([]float64, 0, len(r.Points))
	s := Stats{Min: math.Inf(1), Max: math.Inf(-1)}
	for _, p := range r.Points {
		if math.IsNaN(p.Value) {
			continue
		}
		values = append(values, p.Value)
		if p.Value < s.Min {
			s.Min = p.Value
		}
		if p.Value > s.Max {
			s.Max = p.Value
			s.PeakWavelength = p.Wavelength
		}
	}
	s.Count = len(values)
	if s.Count == 0 {
		return Stats{}
	}

	squares := make([]float64, s.Count)
	vecmath.MulBlock(squares, values, values)
	var sum, sumSq float64
	for i, v := range values {
		sum += v
		sumSq += squares[i]
	}
	s.Mean = sum / float64(s.Count)
	s.RMS = math.Sqrt(sumSq / float64(s.Count))
	return s
}
