package asd

import (
	"fmt"
	"strings"
)

// Pipeline stage names used in error messages
const (
	StageHeader   = "header"
	StageFormat   = "format"
	StagePayload  = "payload"
	StageValidate = "validate"
)

// MalformedHeaderError reports an unreadable or unrecognized file header
type MalformedHeaderError struct {
	Reason string
}

func (e *MalformedHeaderError) Error() string {
	return fmt.Sprintf("%s: malformed header: %s", StageHeader, e.Reason)
}

// Stage returns the pipeline stage that failed
func (e *MalformedHeaderError) Stage() string { return StageHeader }

// UnsupportedFormatError reports a data-format code outside the known set
type UnsupportedFormatError struct {
	Code       int
	Overridden bool
}

func (e *UnsupportedFormatError) Error() string {
	source := "header"
	if e.Overridden {
		source = "override"
	}
	return fmt.Sprintf("%s: unsupported data format code %d (from %s)", StageFormat, e.Code, source)
}

// Stage returns the pipeline stage that failed
func (e *UnsupportedFormatError) Stage() string { return StageFormat }

// TruncatedPayloadError reports a file shorter than its header declares
type TruncatedPayloadError struct {
	Block     string
	Needed    int
	Available int
}

func (e *TruncatedPayloadError) Error() string {
	return fmt.Sprintf("%s: truncated %s block: need %d bytes, have %d", StagePayload, e.Block, e.Needed, e.Available)
}

// Stage returns the pipeline stage that failed
func (e *TruncatedPayloadError) Stage() string { return StagePayload }

// MissingReferenceError is returned when a channel needs the white reference
// spectrum and the file does not carry one.
type MissingReferenceError struct {
	Format   DataFormat
	DataType DataType
}

func (e *MissingReferenceError) Error() string {
	return fmt.Sprintf("%s: %s output needs reference data, none in file (data type %s)", StagePayload, e.Format, e.DataType)
}

// Stage returns the pipeline stage that failed
func (e *MissingReferenceError) Stage() string { return StagePayload }

// maxListedViolations bounds the number of samples spelled out in a RangeViolationError message
const maxListedViolations = 10

// RangeViolationError lists decoded samples outside the expected dynamic range
type RangeViolationError struct {
	Lower      float64
	Upper      float64
	Violations []Violation
}

func (e *RangeViolationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d samples outside range [%g, %g]:", StageValidate, len(e.Violations), e.Lower, e.Upper)
	for i, v := range e.Violations {
		if i == maxListedViolations {
			fmt.Fprintf(&b, " ... and %d more", len(e.Violations)-maxListedViolations)
			break
		}
		fmt.Fprintf(&b, " [%d]=%g", v.Index, v.Value)
	}
	return b.String()
}

// Stage returns the pipeline stage that failed
func (e *RangeViolationError) Stage() string { return StageValidate }
