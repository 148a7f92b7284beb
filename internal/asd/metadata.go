package asd

import (
	"fmt"
	"strings"
	"time"

	"github.com/elliotchance/orderedmap/v3"
)

// RawFields decodes every Layout field of a header buffer without
// interpretation, keyed by field name in offset order
func RawFields(buf []byte) (*orderedmap.OrderedMap[string, any], error) {
	if len(buf) < HeaderSize {
		return nil, &MalformedHeaderError{Reason: fmt.Sprintf("file is %d bytes, header needs %d", len(buf), HeaderSize)}
	}
	m := orderedmap.NewOrderedMap[string, any]()
	for _, f := range Layout {
		m.Set(f.Name, f.Value(buf))
	}
	return m, nil
}

// Metadata returns the header as an ordered set of display fields
func (h *Header) Metadata() *orderedmap.OrderedMap[string, any] {
	m := orderedmap.NewOrderedMap[string, any]()
	m.Set("signature", h.Signature)
	m.Set("program_version", h.ProgramVersion)
	m.Set("file_version", h.FileVersion)
	m.Set("comments", h.Comments)
	m.Set("acquisition_time", formatTime(h.AcquisitionTime))
	m.Set("instrument", h.Instrument.String())
	m.Set("serial_number", h.SerialNumber)
	m.Set("data_type", h.DataType.String())
	m.Set("data_format", Encoding(h.DataFormatCode).String())
	m.Set("channels", h.Channels)
	m.Set("wavelength_start_nm", h.WavelengthStart)
	m.Set("wavelength_step_nm", h.WavelengthStep)
	m.Set("wavelength_stop_nm", h.WavelengthStop)
	m.Set("splice1_wavelength_nm", h.Splice1Wavelength)
	m.Set("splice2_wavelength_nm", h.Splice2Wavelength)
	m.Set("integration_time_ms", h.IntegrationTime)
	m.Set("swir1_gain", h.SWIR1Gain)
	m.Set("swir2_gain", h.SWIR2Gain)
	m.Set("swir1_offset", h.SWIR1Offset)
	m.Set("swir2_offset", h.SWIR2Offset)
	m.Set("dynamic_range_bits", h.DynamicRangeBits)
	m.Set("fore_optic", h.ForeOptic)
	m.Set("dark_subtracted", h.DarkSubtracted)
	m.Set("dark_current_correction", h.DarkCurrentCorrection)
	m.Set("dark_time", formatTime(h.DarkTime))
	m.Set("white_ref_time", formatTime(h.WhiteRefTime))
	m.Set("dark_current_averaging", h.DarkCurrentAveraging)
	m.Set("white_ref_averaging", h.WhiteRefAveraging)
	m.Set("sample_averaging", h.SampleAveraging)

	warnings := h.Warnings()
	if len(warnings) == 0 {
		m.Set("warnings", "None")
	} else {
		m.Set("warnings", strings.Join(warnings, ", "))
	}

	if h.GPS.HasFix() {
		if lat, err := h.GPS.DecimalLatitude(); err == nil {
			m.Set("gps_latitude", lat)
		}
		if lon, err := h.GPS.DecimalLongitude(); err == nil {
			m.Set("gps_longitude", lon)
		}
		m.Set("gps_altitude", h.GPS.Altitude)
		m.Set("gps_true_heading", h.GPS.TrueHeading)
		m.Set("gps_speed", h.GPS.Speed)
	}
	m.Set("smart_detector", h.HasSmartDetector())
	return m
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
