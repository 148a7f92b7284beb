// Package asdtest builds synthetic ASD files for tests
package asdtest

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"

	"asd2csv/internal/asd"
)

// Spectrum describes the content of a synthetic ASD file
type Spectrum struct {
	Signature        string
	Comments         string
	DataType         asd.DataType
	DataFormat       uint8
	WavelengthStart  float32
	WavelengthStep   float32
	Channels         int16 // 0 means len(Target)
	IntegrationTime  uint32
	DynamicRangeBits int16
	SerialNumber     int16
	Instrument       asd.Instrument
	SWIR1Gain        int16
	SWIR2Gain        int16
	Splice1          float32
	Splice2          float32
	Latitude         float64
	Longitude        float64
	Altitude         float64
	WarningFlags     [4]byte
	AcquiredAt       [6]int16 // sec, min, hour, mday, mon (0-11), year-1900

	Target               []float64
	Reference            []float64 // written as a white reference block when non-nil
	ReferenceDescription string
}

// New returns a spectrum with plausible FieldSpec defaults
func New(target ...float64) *Spectrum {
	return &Spectrum{
		Signature:        "as7",
		DataType:         asd.DataTypeRaw,
		DataFormat:       uint8(asd.EncodingFloat32),
		WavelengthStart:  350,
		WavelengthStep:   1,
		IntegrationTime:  17,
		DynamicRangeBits: 16,
		SerialNumber:     16006,
		Instrument:       4,
		SWIR1Gain:        2048,
		SWIR2Gain:        2048,
		Splice1:          1000,
		Splice2:          1800,
		Target:           target,
	}
}

// Header encodes only the fixed header
func (s *Spectrum) Header() []byte {
	buf := make([]byte, asd.HeaderSize)
	copy(asd.FieldSignature.Bytes(buf), s.Signature)
	copy(asd.FieldComments.Bytes(buf), s.Comments)

	tm := asd.FieldAcquisitionTime.Bytes(buf)
	for i, v := range s.AcquiredAt {
		binary.LittleEndian.PutUint16(tm[i*2:], uint16(v))
	}

	channels := s.Channels
	if channels == 0 {
		channels = int16(len(s.Target))
	}

	buf[asd.FieldProgramVersion.Offset] = 0x60
	buf[asd.FieldFileVersion.Offset] = 0x70
	buf[asd.FieldDataType.Offset] = uint8(s.DataType)
	buf[asd.FieldDataFormat.Offset] = s.DataFormat
	buf[asd.FieldInstrument.Offset] = uint8(s.Instrument)
	copy(asd.FieldWarningFlags.Bytes(buf), s.WarningFlags[:])

	putFloat32(buf, asd.FieldWavelengthStart, s.WavelengthStart)
	putFloat32(buf, asd.FieldWavelengthStep, s.WavelengthStep)
	putFloat32(buf, asd.FieldSplice1, s.Splice1)
	putFloat32(buf, asd.FieldSplice2, s.Splice2)
	putInt16(buf, asd.FieldChannels, channels)
	putInt16(buf, asd.FieldDynamicRangeBits, s.DynamicRangeBits)
	putInt16(buf, asd.FieldSerialNumber, s.SerialNumber)
	putInt16(buf, asd.FieldSWIR1Gain, s.SWIR1Gain)
	putInt16(buf, asd.FieldSWIR2Gain, s.SWIR2Gain)
	binary.LittleEndian.PutUint32(asd.FieldIntegrationTime.Bytes(buf), s.IntegrationTime)
	binary.LittleEndian.PutUint64(asd.FieldGPSLatitude.Bytes(buf), math.Float64bits(s.Latitude))
	binary.LittleEndian.PutUint64(asd.FieldGPSLongitude.Bytes(buf), math.Float64bits(s.Longitude))
	binary.LittleEndian.PutUint64(asd.FieldGPSAltitude.Bytes(buf), math.Float64bits(s.Altitude))
	return buf
}

// Bytes encodes the complete file
func (s *Spectrum) Bytes() []byte {
	var out bytes.Buffer
	out.Write(s.Header())
	out.Write(EncodeSamples(asd.Encoding(s.DataFormat), s.Target))
	if s.Reference != nil {
		var prefix [20]byte
		binary.LittleEndian.PutUint16(prefix[0:], 1)
		binary.LittleEndian.PutUint16(prefix[18:], uint16(len(s.ReferenceDescription)))
		out.Write(prefix[:])
		out.WriteString(s.ReferenceDescription)
		out.Write(EncodeSamples(asd.Encoding(s.DataFormat), s.Reference))
	}
	return out.Bytes()
}

// Write stores the file under dir and returns its path
func (s *Spectrum) Write(t testing.TB, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, s.Bytes(), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

// EncodeSamples is the inverse of asd.DecodeSamples
func EncodeSamples(enc asd.Encoding, values []float64) []byte {
	var out []byte
	for _, v := range values {
		switch enc {
		case asd.EncodingFloat32:
			out = binary.LittleEndian.AppendUint32(out, math.Float32bits(float32(v)))
		case asd.EncodingInt32:
			out = binary.LittleEndian.AppendUint32(out, uint32(int32(v)))
		case asd.EncodingFloat64:
			out = binary.LittleEndian.AppendUint64(out, math.Float64bits(v))
		default:
			panic(fmt.Sprintf("asdtest: cannot encode %s samples", enc))
		}
	}
	return out
}

func putFloat32(buf []byte, f asd.Field, v float32) {
	binary.LittleEndian.PutUint32(f.Bytes(buf), math.Float32bits(v))
}

func putInt16(buf []byte, f asd.Field, v int16) {
	binary.LittleEndian.PutUint16(f.Bytes(buf), uint16(v))
}
