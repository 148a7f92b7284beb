package asd_test

import (
	"testing"

	"asd2csv/internal/asd"
	"asd2csv/internal/asdtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeader_Metadata(t *testing.T) {
	s := asdtest.New(0.1, 0.2, 0.3)
	s.Comments = "grass plot 4"
	s.WarningFlags = [4]byte{0, 1, 0, 0}
	s.AcquiredAt = [6]int16{30, 15, 10, 21, 5, 123}
	h, err := asd.ParseHeader(s.Bytes())
	require.NoError(t, err)

	m := h.Metadata()
	var keys []string
	for key := range m.Keys() {
		keys = append(keys, key)
	}
	require.NotEmpty(t, keys)
	assert.Equal(t, "signature", keys[0])
	assert.Equal(t, "smart_detector", keys[len(keys)-1])
	assert.NotContains(t, keys, "gps_latitude")

	comments, _ := m.Get("comments")
	assert.Equal(t, "grass plot 4", comments)
	acquired, _ := m.Get("acquisition_time")
	assert.Equal(t, "2023-06-21T10:15:30Z", acquired)
	instrument, _ := m.Get("instrument")
	assert.Equal(t, "FSFR", instrument)
	warnings, _ := m.Get("warnings")
	assert.Contains(t, warnings, "saturation")
}

func TestHeader_MetadataGPS(t *testing.T) {
	s := asdtest.New(0.1, 0.2, 0.3)
	s.Latitude = 4530
	s.Longitude = -12215
	s.Altitude = 120
	h, err := asd.ParseHeader(s.Bytes())
	require.NoError(t, err)

	m := h.Metadata()
	lat, ok := m.Get("gps_latitude")
	require.True(t, ok)
	assert.InDelta(t, 45.5, lat, 1e-9)
	lon, ok := m.Get("gps_longitude")
	require.True(t, ok)
	assert.InDelta(t, -122.25, lon, 1e-9)
}

func TestRawFields(t *testing.T) {
	s := asdtest.New(0.1, 0.2, 0.3)
	s.Comments = "grass plot 4"
	s.WarningFlags = [4]byte{0, 1, 0, 0}

	m, err := asd.RawFields(s.Bytes())
	require.NoError(t, err)
	assert.Equal(t, len(asd.Layout), m.Len())

	var keys []string
	for key := range m.Keys() {
		keys = append(keys, key)
	}
	assert.Equal(t, "signature", keys[0])
	assert.Equal(t, "smart_detector", keys[len(keys)-1])

	sig, _ := m.Get("signature")
	assert.Equal(t, "as7", sig)
	comments, _ := m.Get("comments")
	assert.Equal(t, "grass plot 4", comments)
	channels, _ := m.Get("channels")
	assert.Equal(t, int16(3), channels)
	start, _ := m.Get("wavelength_start")
	assert.Equal(t, float32(350), start)
	flags, _ := m.Get("warning_flags")
	assert.Equal(t, "00010000", flags)

	_, err = asd.RawFields(make([]byte, asd.HeaderSize-1))
	assert.Error(t, err)
}
