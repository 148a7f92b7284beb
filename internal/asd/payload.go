package asd

import (
	"encoding/binary"
	"math"
	"strings"
	"time"

	"github.com/cwbudde/algo-vecmath"
)

// reference block prefix, offsets relative to the end of the target spectrum
var (
	fieldRefFlag    = numeric("reference_flag", 0, KindUint16)
	fieldRefTime    = numeric("reference_time", 2, KindInt64)
	fieldSpecTime   = numeric("spectrum_time", 10, KindInt64)
	fieldRefDescLen = numeric("reference_description_length", 18, KindInt16)
)

const (
	refPrefixSize     = 20
	gainNormalization = 2048.0
)

// ReferenceInfo describes the white reference block stored after the target spectrum
type ReferenceInfo struct {
	Flag         uint16
	ReferenceAt  time.Time
	SpectrumAt   time.Time
	Description  string
	SamplesStart int
}

// Payload is the undecoded sample data of a file
type Payload struct {
	Rule      SampleRule
	Target    []float64
	Reference []float64
	RefInfo   *ReferenceInfo
}

// HasReference reports whether the file carries a white reference spectrum
func (p *Payload) HasReference() bool {
	return p.Reference != nil
}

// DecodeSamples reads exactly n samples from buf
func DecodeSamples(buf []byte, rule SampleRule, n int) ([]float64, error) {
	needed := rule.Width * n
	if len(buf) < needed {
		return nil, &TruncatedPayloadError{Block: "spectrum", Needed: needed, Available: len(buf)}
	}
	values := make([]float64, n)
	for i := range values {
		b := buf[i*rule.Width:]
		switch rule.Encoding {
		case EncodingFloat32:
			values[i] = float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
		case EncodingInt32:
			values[i] = float64(int32(binary.LittleEndian.Uint32(b)))
		case EncodingFloat64:
			values[i] = math.Float64frombits(binary.LittleEndian.Uint64(b))
		default:
			return nil, &UnsupportedFormatError{Code: int(rule.Encoding)}
		}
	}
	return values, nil
}

// ReadPayload reads the target spectrum following the header and, when the
// file is long enough to hold one, the white reference block.
func ReadPayload(buf []byte, h *Header, rule SampleRule) (*Payload, error) {
	if len(buf) < HeaderSize {
		return nil, &TruncatedPayloadError{Block: "header", Needed: HeaderSize, Available: len(buf)}
	}
	spectrumSize := rule.Width * h.Channels

	target, err := DecodeSamples(buf[HeaderSize:], rule, h.Channels)
	if err != nil {
		return nil, err
	}
	p := &Payload{Rule: rule, Target: target}

	if HeaderSize+2*spectrumSize >= len(buf) {
		return p, nil
	}

	block := buf[HeaderSize+spectrumSize:]
	if len(block) < refPrefixSize {
		return nil, &TruncatedPayloadError{Block: "reference header", Needed: refPrefixSize, Available: len(block)}
	}
	descLen := int(fieldRefDescLen.Int16(block))
	if descLen < 0 {
		descLen = 0
	}
	if len(block) < refPrefixSize+descLen {
		return nil, &TruncatedPayloadError{Block: "reference description", Needed: refPrefixSize + descLen, Available: len(block)}
	}
	info := &ReferenceInfo{
		Flag:         fieldRefFlag.Uint16(block),
		ReferenceAt:  epoch64(fieldRefTime.Int64(block)),
		SpectrumAt:   epoch64(fieldSpecTime.Int64(block)),
		Description:  strings.ReplaceAll(string(block[refPrefixSize:refPrefixSize+descLen]), "\x00", ""),
		SamplesStart: HeaderSize + spectrumSize + refPrefixSize + descLen,
	}

	reference, err := DecodeSamples(block[refPrefixSize+descLen:], rule, h.Channels)
	if err != nil {
		if t, ok := err.(*TruncatedPayloadError); ok {
			t.Block = "reference"
		}
		return nil, err
	}
	p.Reference = reference
	p.RefInfo = info
	return p, nil
}

// Convert turns the payload into physical values for the decode rule
func Convert(h *Header, p *Payload, rule DecodeRule) ([]float64, error) {
	out := make([]float64, h.Channels)

	switch rule.Format {
	case Reflectance:
		switch {
		case rule.DivideByReference && p.HasReference():
			for i := range out {
				out[i] = p.Target[i] / p.Reference[i]
			}
		case h.DataType == DataTypeReflectance:
			copy(out, p.Target)
			if p.Rule.Integer && rule.StoredIntegerScale != 0 {
				vecmath.ScaleBlock(out, out, rule.StoredIntegerScale)
			}
		default:
			return nil, &MissingReferenceError{Format: rule.Format, DataType: h.DataType}
		}
	case Reference:
		if !p.HasReference() {
			return nil, &MissingReferenceError{Format: rule.Format, DataType: h.DataType}
		}
		copy(out, p.Reference)
	case Raw:
		if rule.Normalize && h.DataType == DataTypeRaw {
			coeffs, err := NormalizationCoefficients(h)
			if err != nil {
				return nil, err
			}
			vecmath.MulBlock(out, p.Target, coeffs)
		} else {
			copy(out, p.Target)
		}
	case DN:
		copy(out, p.Target)
	default:
		return nil, &UnsupportedFormatError{Code: int(rule.Format), Overridden: true}
	}

	return out, nil
}

// NormalizationCoefficients returns the per-channel factors that turn raw
// counts into comparable units: VNIR channels are divided by the integration
// time, SWIR channels are scaled by their detector gain over 2048.
func NormalizationCoefficients(h *Header) ([]float64, error) {
	if h.IntegrationTime == 0 {
		return nil, &MalformedHeaderError{Reason: "integration time is zero, cannot normalize raw data"}
	}
	wavelengths := WavelengthAxis(h.WavelengthStart, h.WavelengthStep, h.Channels)
	coeffs := make([]float64, h.Channels)
	for i, wl := range wavelengths {
		switch {
		case wl <= h.Splice1Wavelength:
			coeffs[i] = 1 / float64(h.IntegrationTime)
		case wl <= h.Splice2Wavelength:
			coeffs[i] = float64(h.SWIR1Gain) / gainNormalization
		default:
			coeffs[i] = float64(h.SWIR2Gain) / gainNormalization
		}
	}
	return coeffs, nil
}

func epoch64(seconds int64) time.Time {
	if seconds <= 0 {
		return time.Time{}
	}
	return time.Unix(seconds, 0).UTC()
}
