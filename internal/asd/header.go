package asd

import (
	"fmt"
	"math"
	"time"
)

// Header holds the fixed header fields of an ASD file
type Header struct {
	Signature       string
	ProgramVersion  string
	FileVersion     string
	Comments        string
	AcquisitionTime time.Time
	DarkSubtracted  bool
	DarkTime        time.Time
	DataType        DataType
	WhiteRefTime    time.Time

	WavelengthStart float64 // nm
	WavelengthStep  float64 // nm
	WavelengthStop  float64 // nm, start + (channels-1)*step
	Channels        int

	// DataFormatCode is the sample encoding declared in the file, before any override
	DataFormatCode uint8

	GPS                   GPSData
	IntegrationTime       uint32 // ms
	ForeOptic             int16
	DarkCurrentCorrection int16
	SerialNumber          string
	DynamicRangeBits      int
	WarningFlags          [4]byte
	DarkCurrentAveraging  int
	WhiteRefAveraging     int
	SampleAveraging       int
	Instrument            Instrument
	SWIR1Gain             int16
	SWIR2Gain             int16
	SWIR1Offset           int16
	SWIR2Offset           int16
	Splice1Wavelength     float64 // nm, VNIR/SWIR1 join
	Splice2Wavelength     float64 // nm, SWIR1/SWIR2 join
	SmartDetector         [8]float32
}

// ParseHeader extracts the header from the start of buf
func ParseHeader(buf []byte) (*Header, error) {
	if len(buf) < HeaderSize {
		return nil, &MalformedHeaderError{Reason: fmt.Sprintf("file is %d bytes, header needs %d", len(buf), HeaderSize)}
	}

	signature := string(FieldSignature.Bytes(buf))
	if !validSignature(signature) {
		return nil, &MalformedHeaderError{Reason: fmt.Sprintf("missing ASD signature, found %q", signature)}
	}

	dataType := DataType(FieldDataType.Uint8(buf))
	if !dataType.Valid() {
		return nil, &MalformedHeaderError{Reason: fmt.Sprintf("unknown data type code %d", uint8(dataType))}
	}

	channels := int(FieldChannels.Int16(buf))
	start := float64(FieldWavelengthStart.Float32(buf))
	step := float64(FieldWavelengthStep.Float32(buf))
	stop := start + float64(channels-1)*step
	if err := CheckAxis(start, stop, step, channels); err != nil {
		return nil, err
	}

	h := &Header{
		Signature:       signature,
		ProgramVersion:  versionString(FieldProgramVersion.Uint8(buf)),
		FileVersion:     versionString(FieldFileVersion.Uint8(buf)),
		Comments:        FieldComments.Text(buf),
		AcquisitionTime: parseTm(FieldAcquisitionTime.Bytes(buf)),
		DarkSubtracted:  FieldDarkSubtracted.Uint8(buf) == 1,
		DarkTime:        epoch(FieldDarkTime.Uint32(buf)),
		DataType:        dataType,
		WhiteRefTime:    epoch(FieldWhiteRefTime.Uint32(buf)),
		WavelengthStart: start,
		WavelengthStep:  step,
		WavelengthStop:  stop,
		Channels:        channels,
		DataFormatCode:  FieldDataFormat.Uint8(buf),
		GPS: GPSData{
			TrueHeading: FieldGPSTrueHeading.Float64(buf),
			Speed:       FieldGPSSpeed.Float64(buf),
			Latitude:    FieldGPSLatitude.Float64(buf),
			Longitude:   FieldGPSLongitude.Float64(buf),
			Altitude:    FieldGPSAltitude.Float64(buf),
		},
		IntegrationTime:       FieldIntegrationTime.Uint32(buf),
		ForeOptic:             FieldForeOptic.Int16(buf),
		DarkCurrentCorrection: FieldDarkCurrentCorr.Int16(buf),
		SerialNumber:          fmt.Sprintf("%d", FieldSerialNumber.Int16(buf)),
		DynamicRangeBits:      int(FieldDynamicRangeBits.Int16(buf)),
		DarkCurrentAveraging:  int(FieldDarkAveraging.Int16(buf)),
		WhiteRefAveraging:     int(FieldWhiteAveraging.Int16(buf)),
		SampleAveraging:       int(FieldSampleAveraging.Int16(buf)),
		Instrument:            Instrument(FieldInstrument.Uint8(buf)),
		SWIR1Gain:             FieldSWIR1Gain.Int16(buf),
		SWIR2Gain:             FieldSWIR2Gain.Int16(buf),
		SWIR1Offset:           FieldSWIR1Offset.Int16(buf),
		SWIR2Offset:           FieldSWIR2Offset.Int16(buf),
		Splice1Wavelength:     float64(FieldSplice1.Float32(buf)),
		Splice2Wavelength:     float64(FieldSplice2.Float32(buf)),
	}
	copy(h.WarningFlags[:], FieldWarningFlags.Bytes(buf))
	smart := FieldSmartDetector.Bytes(buf)
	for i := range h.SmartDetector {
		h.SmartDetector[i] = numeric("", i*4, KindFloat32).Float32(smart)
	}

	return h, nil
}

// CheckAxis enforces the wavelength axis invariant: stop > start, step > 0
// and count == round((stop-start)/step)+1.
func CheckAxis(start, stop, step float64, count int) error {
	switch {
	case math.IsNaN(start) || math.IsInf(start, 0) || math.IsNaN(stop) || math.IsInf(stop, 0):
		return &MalformedHeaderError{Reason: fmt.Sprintf("wavelength range [%g, %g] is not finite", start, stop)}
	case !(step > 0) || math.IsInf(step, 0):
		return &MalformedHeaderError{Reason: fmt.Sprintf("wavelength step %g must be positive", step)}
	case count < 2:
		return &MalformedHeaderError{Reason: fmt.Sprintf("channel count %d, need at least 2", count)}
	case !(stop > start):
		return &MalformedHeaderError{Reason: fmt.Sprintf("wavelength stop %g not above start %g", stop, start)}
	}
	if expected := int(math.Round((stop-start)/step)) + 1; expected != count {
		return &MalformedHeaderError{Reason: fmt.Sprintf("channel count %d inconsistent with range [%g, %g] step %g (expected %d)",
			count, start, stop, step, expected)}
	}
	return nil
}

// Warnings returns the detector warnings raised in the header flags
func (h *Header) Warnings() []string {
	var warnings []string
	if h.WarningFlags[0] != 0 {
		warnings = append(warnings, "AVGFIX")
	}
	if f := h.WarningFlags[1]; f != 0 {
		if name, ok := detectorWarnings[f]; ok {
			warnings = append(warnings, name)
		} else {
			warnings = append(warnings, fmt.Sprintf("flag 0x%02x", f))
		}
	}
	return warnings
}

// HasSmartDetector reports whether smart detector data is present
func (h *Header) HasSmartDetector() bool {
	for _, v := range h.SmartDetector {
		if v != 0 {
			return true
		}
	}
	return false
}

func validSignature(s string) bool {
	if s == "ASD" {
		return true
	}
	return len(s) == 3 && s[0] == 'a' && s[1] == 's' && s[2] >= '1' && s[2] <= '9'
}

// versionString decodes a packed version byte: major in the high nibble, minor in the low three bits
func versionString(v uint8) string {
	return fmt.Sprintf("%d.%d", v>>4, v&7)
}

func epoch(seconds uint32) time.Time {
	if seconds == 0 {
		return time.Time{}
	}
	return time.Unix(int64(seconds), 0).UTC()
}

// parseTm decodes a C struct tm stored as int16 fields
func parseTm(b []byte) time.Time {
	tm := make([]int, 6)
	for i := range tm {
		tm[i] = int(numeric("", i*2, KindInt16).Int16(b))
	}
	sec, minute, hour, mday, mon, year := tm[0], tm[1], tm[2], tm[3], tm[4], tm[5]
	if mday == 0 && year == 0 {
		return time.Time{}
	}
	return time.Date(year+1900, time.Month(mon+1), mday, hour, minute, sec, 0, time.UTC)
}
