package asd

import "math"

// DefaultDynamicRangeBits is used when a header leaves the dynamic range field empty
const DefaultDynamicRangeBits = 16

// Violation is one sample outside the expected range
type Violation struct {
	Index int
	Value float64
}

// RangeReport is the outcome of range validation
type RangeReport struct {
	Lower      float64
	Upper      float64
	Violations []Violation
	Suppressed bool
}

// Count returns the number of out-of-range samples
func (r RangeReport) Count() int {
	return len(r.Violations)
}

// Bounds returns the expected dynamic range for a decode rule
func Bounds(rule DecodeRule, h *Header, opts Options) (lower, upper float64) {
	if rule.Range == RangeUnit {
		limit := opts.ReflectanceMax
		if limit <= 0 {
			limit = 1
		}
		return 0, limit
	}
	bits := h.DynamicRangeBits
	if bits <= 0 {
		bits = opts.DefaultDynamicRangeBits
	}
	if bits <= 0 {
		bits = DefaultDynamicRangeBits
	}
	return 0, math.Exp2(float64(bits)) - 1
}

// ValidateRange checks every value against [lower, upper]. NaN values count as
// violations. Unless suppress is set, any violation is returned as a
// *RangeViolationError; the report is returned either way.
func ValidateRange(values []float64, lower, upper float64, suppress bool) (RangeReport, error) {
	report := RangeReport{Lower: lower, Upper: upper, Suppressed: suppress}
	for i, v := range values {
		if !(v >= lower && v <= upper) {
			report.Violations = append(report.Violations, Violation{Index: i, Value: v})
		}
	}
	if len(report.Violations) > 0 && !suppress {
		return report, &RangeViolationError{Lower: lower, Upper: upper, Violations: report.Violations}
	}
	return report, nil
}

// validationInput picks the samples a channel is validated on: counts
// channels are checked before normalization, ratios after conversion.
func validationInput(rule DecodeRule, p *Payload, converted []float64) []float64 {
	if rule.Range == RangeUnit {
		return converted
	}
	if rule.Format == Reference {
		return p.Reference
	}
	return p.Target
}
