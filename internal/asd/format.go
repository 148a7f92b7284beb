package asd

import (
	"fmt"
	"strings"
)

// Encoding is the on-disk sample encoding named by the header's data format code
type Encoding uint8

const (
	EncodingFloat32 Encoding = iota
	EncodingInt32
	EncodingFloat64
	EncodingUnknown
)

// NoFormatOverride means the header's data format code is used as declared
const NoFormatOverride = -1

func (e Encoding) String() string {
	switch e {
	case EncodingFloat32:
		return "numeric"
	case EncodingInt32:
		return "integer"
	case EncodingFloat64:
		return "double"
	case EncodingUnknown:
		return "unknown"
	}
	return fmt.Sprintf("Encoding(%d)", uint8(e))
}

// SampleRule describes how one sample is stored
type SampleRule struct {
	Encoding Encoding
	Width    int
	Integer  bool
	Signed   bool
}

var sampleRules = map[Encoding]SampleRule{
	EncodingFloat32: {Encoding: EncodingFloat32, Width: 4, Signed: true},
	EncodingInt32:   {Encoding: EncodingInt32, Width: 4, Integer: true, Signed: true},
	EncodingFloat64: {Encoding: EncodingFloat64, Width: 8, Signed: true},
}

// ResolveEncoding picks the sample rule for a file. A non-negative override
// always wins over the declared code.
func ResolveEncoding(declared uint8, override int) (SampleRule, error) {
	code := int(declared)
	overridden := override != NoFormatOverride
	if overridden {
		code = override
	}
	if code < 0 || code > int(EncodingUnknown) {
		return SampleRule{}, &UnsupportedFormatError{Code: code, Overridden: overridden}
	}
	rule, ok := sampleRules[Encoding(code)]
	if !ok {
		return SampleRule{}, &UnsupportedFormatError{Code: code, Overridden: overridden}
	}
	return rule, nil
}

// DataFormat is the output channel decoded from a file
type DataFormat int

const (
	Reflectance DataFormat = iota
	Raw
	Reference
	DN
)

var dataFormatNames = map[DataFormat]string{
	Reflectance: "Reflectance",
	Raw:         "Raw",
	Reference:   "Reference",
	DN:          "DN",
}

func (f DataFormat) String() string {
	if name, ok := dataFormatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("DataFormat(%d)", int(f))
}

// Abbrev is the column suffix used for the format in CSV output
func (f DataFormat) Abbrev() string {
	switch f {
	case Reflectance:
		return "Refl"
	case Reference:
		return "Rfnc"
	case DN:
		return "DN"
	}
	return "Raw"
}

// ParseDataFormat parses a channel name such as "Reflectance" (case insensitive)
func ParseDataFormat(name string) (DataFormat, error) {
	for f, n := range dataFormatNames {
		if strings.EqualFold(n, name) {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unknown output type %q (must be Reflectance, Raw, Reference or DN)", name)
}

// RangeKind selects the dynamic range a channel is validated against
type RangeKind int

const (
	// RangeUnit is [0, reflectance max]
	RangeUnit RangeKind = iota
	// RangeCounts is [0, 2^bits-1] checked on the stored counts
	RangeCounts
)

// ReflectanceIntegerScale converts reflectance stored as integer counts
// (full scale 65535) to a ratio
const ReflectanceIntegerScale = 1.0 / 65535

// DecodeRule is the conversion applied to a channel
type DecodeRule struct {
	Format DataFormat
	// StoredIntegerScale applies to integer samples that already hold the
	// channel's quantity; zero when the channel has no integer storage form
	StoredIntegerScale float64
	DivideByReference  bool
	Normalize          bool
	Range              RangeKind
}

var decodeRules = map[DataFormat]DecodeRule{
	Reflectance: {Format: Reflectance, StoredIntegerScale: ReflectanceIntegerScale, DivideByReference: true, Range: RangeUnit},
	Raw:         {Format: Raw, Normalize: true, Range: RangeCounts},
	Reference:   {Format: Reference, Range: RangeCounts},
	DN:          {Format: DN, Range: RangeCounts},
}

// ResolveFormat maps the requested channel to its decode rule. Raw with
// normalization disabled becomes DN.
func ResolveFormat(f DataFormat, noNormalize bool) (DecodeRule, error) {
	if f == Raw && noNormalize {
		f = DN
	}
	rule, ok := decodeRules[f]
	if !ok {
		return DecodeRule{}, &UnsupportedFormatError{Code: int(f), Overridden: true}
	}
	return rule, nil
}
