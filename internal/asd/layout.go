package asd

import (
	"encoding/binary"
	"encoding/hex"
	"math"
	"strings"
)

// HeaderSize is the length of the fixed header; the target spectrum starts here
const HeaderSize = 484

// Kind is the numeric type of a header field
type Kind int

const (
	KindBytes Kind = iota
	KindText
	KindUint8
	KindInt16
	KindUint16
	KindUint32
	KindInt64
	KindFloat32
	KindFloat64
)

var kindWidths = map[Kind]int{
	KindUint8:   1,
	KindInt16:   2,
	KindUint16:  2,
	KindUint32:  4,
	KindInt64:   8,
	KindFloat32: 4,
	KindFloat64: 8,
}

// Width returns the byte width of a numeric kind, 0 for KindBytes and KindText
func (k Kind) Width() int {
	return kindWidths[k]
}

// Field describes one fixed-offset header field. All numbers are little endian.
type Field struct {
	Name   string
	Offset int
	Width  int
	Kind   Kind
}

func numeric(name string, offset int, kind Kind) Field {
	return Field{Name: name, Offset: offset, Width: kind.Width(), Kind: kind}
}

func text(name string, offset, width int) Field {
	return Field{Name: name, Offset: offset, Width: width, Kind: KindText}
}

func opaque(name string, offset, width int) Field {
	return Field{Name: name, Offset: offset, Width: width, Kind: KindBytes}
}

// Header fields in file order
var (
	FieldSignature        = text("signature", 0, 3)
	FieldComments         = text("comments", 3, 157)
	FieldAcquisitionTime  = opaque("acquisition_time", 160, 18)
	FieldProgramVersion   = numeric("program_version", 178, KindUint8)
	FieldFileVersion      = numeric("file_version", 179, KindUint8)
	FieldDarkSubtracted   = numeric("dark_subtracted", 181, KindUint8)
	FieldDarkTime         = numeric("dark_time", 182, KindUint32)
	FieldDataType         = numeric("data_type", 186, KindUint8)
	FieldWhiteRefTime     = numeric("white_ref_time", 187, KindUint32)
	FieldWavelengthStart  = numeric("wavelength_start", 191, KindFloat32)
	FieldWavelengthStep   = numeric("wavelength_step", 195, KindFloat32)
	FieldDataFormat       = numeric("data_format", 199, KindUint8)
	FieldChannels         = numeric("channels", 204, KindInt16)
	FieldGPSTrueHeading   = numeric("gps_true_heading", 334, KindFloat64)
	FieldGPSSpeed         = numeric("gps_speed", 342, KindFloat64)
	FieldGPSLatitude      = numeric("gps_latitude", 350, KindFloat64)
	FieldGPSLongitude     = numeric("gps_longitude", 358, KindFloat64)
	FieldGPSAltitude      = numeric("gps_altitude", 366, KindFloat64)
	FieldIntegrationTime  = numeric("integration_time", 390, KindUint32)
	FieldForeOptic        = numeric("fore_optic", 394, KindInt16)
	FieldDarkCurrentCorr  = numeric("dark_current_correction", 396, KindInt16)
	FieldSerialNumber     = numeric("serial_number", 400, KindInt16)
	FieldDynamicRangeBits = numeric("dynamic_range_bits", 418, KindInt16)
	FieldWarningFlags     = opaque("warning_flags", 421, 4)
	FieldDarkAveraging    = numeric("dark_current_averaging", 425, KindInt16)
	FieldWhiteAveraging   = numeric("white_ref_averaging", 427, KindInt16)
	FieldSampleAveraging  = numeric("sample_averaging", 429, KindInt16)
	FieldInstrument       = numeric("instrument", 431, KindUint8)
	FieldSWIR1Gain        = numeric("swir1_gain", 436, KindInt16)
	FieldSWIR2Gain        = numeric("swir2_gain", 438, KindInt16)
	FieldSWIR1Offset      = numeric("swir1_offset", 440, KindInt16)
	FieldSWIR2Offset      = numeric("swir2_offset", 442, KindInt16)
	FieldSplice1          = numeric("splice1_wavelength", 444, KindFloat32)
	FieldSplice2          = numeric("splice2_wavelength", 448, KindFloat32)
	FieldSmartDetector    = opaque("smart_detector", 452, 32)
)

// Layout lists every header field the parser reads, ordered by offset
var Layout = []Field{
	FieldSignature,
	FieldComments,
	FieldAcquisitionTime,
	FieldProgramVersion,
	FieldFileVersion,
	FieldDarkSubtracted,
	FieldDarkTime,
	FieldDataType,
	FieldWhiteRefTime,
	FieldWavelengthStart,
	FieldWavelengthStep,
	FieldDataFormat,
	FieldChannels,
	FieldGPSTrueHeading,
	FieldGPSSpeed,
	FieldGPSLatitude,
	FieldGPSLongitude,
	FieldGPSAltitude,
	FieldIntegrationTime,
	FieldForeOptic,
	FieldDarkCurrentCorr,
	FieldSerialNumber,
	FieldDynamicRangeBits,
	FieldWarningFlags,
	FieldDarkAveraging,
	FieldWhiteAveraging,
	FieldSampleAveraging,
	FieldInstrument,
	FieldSWIR1Gain,
	FieldSWIR2Gain,
	FieldSWIR1Offset,
	FieldSWIR2Offset,
	FieldSplice1,
	FieldSplice2,
	FieldSmartDetector,
}

// Bytes returns the raw bytes of the field within buf
func (f Field) Bytes(buf []byte) []byte {
	return buf[f.Offset : f.Offset+f.Width]
}

// Text returns the field as text with NUL padding removed
func (f Field) Text(buf []byte) string {
	return strings.TrimRight(strings.ReplaceAll(string(f.Bytes(buf)), "\x00", ""), " ")
}

func (f Field) Uint8(buf []byte) uint8 {
	return buf[f.Offset]
}

func (f Field) Int16(buf []byte) int16 {
	return int16(binary.LittleEndian.Uint16(f.Bytes(buf)))
}

func (f Field) Uint16(buf []byte) uint16 {
	return binary.LittleEndian.Uint16(f.Bytes(buf))
}

func (f Field) Uint32(buf []byte) uint32 {
	return binary.LittleEndian.Uint32(f.Bytes(buf))
}

func (f Field) Int64(buf []byte) int64 {
	return int64(binary.LittleEndian.Uint64(f.Bytes(buf)))
}

func (f Field) Float32(buf []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(f.Bytes(buf)))
}

func (f Field) Float64(buf []byte) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(f.Bytes(buf)))
}

// Value decodes the field according to its kind. Opaque byte fields are
// returned as hex.
func (f Field) Value(buf []byte) any {
	switch f.Kind {
	case KindText:
		return f.Text(buf)
	case KindUint8:
		return f.Uint8(buf)
	case KindInt16:
		return f.Int16(buf)
	case KindUint16:
		return f.Uint16(buf)
	case KindUint32:
		return f.Uint32(buf)
	case KindInt64:
		return f.Int64(buf)
	case KindFloat32:
		return f.Float32(buf)
	case KindFloat64:
		return f.Float64(buf)
	default:
		return hex.EncodeToString(f.Bytes(buf))
	}
}
