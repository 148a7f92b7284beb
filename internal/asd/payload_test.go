package asd_test

import (
	"errors"
	"testing"

	"asd2csv/internal/asd"
	"asd2csv/internal/asdtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeSamples_RoundTrip(t *testing.T) {
	testCases := []struct {
		name   string
		enc    asd.Encoding
		values []float64
	}{
		{"float32", asd.EncodingFloat32, []float64{0, 0.5, 0.25, -1.5, 65535, 1e-3}},
		{"int32", asd.EncodingInt32, []float64{0, 1, 32768, 65535, -12, 2147483647}},
		{"float64", asd.EncodingFloat64, []float64{0, 0.1, 0.123456789012, -3.75, 1e9}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rule, err := asd.ResolveEncoding(uint8(tc.enc), asd.NoFormatOverride)
			require.NoError(t, err)

			raw := asdtest.EncodeSamples(tc.enc, tc.values)
			decoded, err := asd.DecodeSamples(raw, rule, len(tc.values))
			require.NoError(t, err)
			if tc.enc == asd.EncodingFloat32 {
				for i, v := range tc.values {
					assert.Equal(t, float64(float32(v)), decoded[i])
				}
			} else {
				assert.Equal(t, tc.values, decoded)
			}

			// decoding then re-encoding gives back the same raw bytes
			assert.Equal(t, raw, asdtest.EncodeSamples(tc.enc, decoded))
		})
	}
}

func TestDecodeSamples_Truncated(t *testing.T) {
	rule, err := asd.ResolveEncoding(1, asd.NoFormatOverride)
	require.NoError(t, err)
	raw := asdtest.EncodeSamples(asd.EncodingInt32, []float64{1, 2})

	_, err = asd.DecodeSamples(raw, rule, 3)
	var truncated *asd.TruncatedPayloadError
	require.True(t, errors.As(err, &truncated))
	assert.Equal(t, 12, truncated.Needed)
	assert.Equal(t, 8, truncated.Available)
}

func TestReadPayload_TargetOnly(t *testing.T) {
	s := asdtest.New(0.1, 0.2, 0.3)
	buf := s.Bytes()
	h, err := asd.ParseHeader(buf)
	require.NoError(t, err)
	rule, err := asd.ResolveEncoding(h.DataFormatCode, asd.NoFormatOverride)
	require.NoError(t, err)

	p, err := asd.ReadPayload(buf, h, rule)
	require.NoError(t, err)
	assert.Len(t, p.Target, 3)
	assert.False(t, p.HasReference())
	assert.Nil(t, p.RefInfo)
}

func TestReadPayload_WithReference(t *testing.T) {
	s := asdtest.New(100, 200, 300)
	s.DataFormat = uint8(asd.EncodingInt32)
	s.Reference = []float64{1000, 1000, 1000}
	s.ReferenceDescription = "spectralon panel"
	buf := s.Bytes()

	h, err := asd.ParseHeader(buf)
	require.NoError(t, err)
	rule, err := asd.ResolveEncoding(h.DataFormatCode, asd.NoFormatOverride)
	require.NoError(t, err)

	p, err := asd.ReadPayload(buf, h, rule)
	require.NoError(t, err)
	require.True(t, p.HasReference())
	assert.Equal(t, []float64{100, 200, 300}, p.Target)
	assert.Equal(t, []float64{1000, 1000, 1000}, p.Reference)
	assert.Equal(t, "spectralon panel", p.RefInfo.Description)
	assert.Equal(t, uint16(1), p.RefInfo.Flag)
	// header, three int32 target samples, reference prefix, description
	assert.Equal(t, asd.HeaderSize+3*4+20+len("spectralon panel"), p.RefInfo.SamplesStart)
}

func TestReadPayload_TruncatedReference(t *testing.T) {
	s := asdtest.New(100, 200, 300)
	s.DataFormat = uint8(asd.EncodingInt32)
	s.Reference = []float64{1000, 1000, 1000}
	buf := s.Bytes()
	buf = buf[:len(buf)-2]

	h, err := asd.ParseHeader(buf)
	require.NoError(t, err)
	rule, err := asd.ResolveEncoding(h.DataFormatCode, asd.NoFormatOverride)
	require.NoError(t, err)

	_, err = asd.ReadPayload(buf, h, rule)
	var truncated *asd.TruncatedPayloadError
	require.True(t, errors.As(err, &truncated))
	assert.Equal(t, "reference", truncated.Block)
}

func TestNormalizationCoefficients(t *testing.T) {
	s := asdtest.New(1, 1, 1, 1, 1, 1)
	s.WavelengthStart = 998
	s.Splice1 = 999
	s.Splice2 = 1001
	s.IntegrationTime = 4
	s.SWIR1Gain = 1024
	s.SWIR2Gain = 4096

	h, err := asd.ParseHeader(s.Bytes())
	require.NoError(t, err)
	coeffs, err := asd.NormalizationCoefficients(h)
	require.NoError(t, err)
	// 998, 999 | 1000, 1001 | 1002, 1003
	assert.Equal(t, []float64{0.25, 0.25, 0.5, 0.5, 2, 2}, coeffs)

	h.IntegrationTime = 0
	_, err = asd.NormalizationCoefficients(h)
	var malformed *asd.MalformedHeaderError
	assert.True(t, errors.As(err, &malformed))
}

func TestConvert(t *testing.T) {
	s := asdtest.New(100, 200, 4096)
	s.DataFormat = uint8(asd.EncodingInt32)
	s.IntegrationTime = 4
	s.Splice1 = 350
	s.Splice2 = 351
	s.SWIR1Gain = 1024
	s.SWIR2Gain = 4096
	s.Reference = []float64{200, 400, 4096}
	buf := s.Bytes()

	h, err := asd.ParseHeader(buf)
	require.NoError(t, err)
	sampleRule, err := asd.ResolveEncoding(h.DataFormatCode, asd.NoFormatOverride)
	require.NoError(t, err)
	p, err := asd.ReadPayload(buf, h, sampleRule)
	require.NoError(t, err)

	testCases := []struct {
		format      asd.DataFormat
		noNormalize bool
		expect      []float64
	}{
		{asd.Reflectance, false, []float64{0.5, 0.5, 1}},
		{asd.Reference, false, []float64{200, 400, 4096}},
		{asd.Raw, false, []float64{25, 100, 8192}},
		{asd.Raw, true, []float64{100, 200, 4096}},
		{asd.DN, false, []float64{100, 200, 4096}},
	}
	for _, tc := range testCases {
		t.Run(tc.format.String(), func(t *testing.T) {
			rule, err := asd.ResolveFormat(tc.format, tc.noNormalize)
			require.NoError(t, err)
			values, err := asd.Convert(h, p, rule)
			require.NoError(t, err)
			assert.InDeltaSlice(t, tc.expect, values, 1e-12)
		})
	}
}

func TestConvert_Inverse(t *testing.T) {
	s := asdtest.New(100, 200, 4096, 5000)
	s.DataFormat = uint8(asd.EncodingInt32)
	s.IntegrationTime = 8
	s.Splice1 = 351
	s.Splice2 = 352
	s.SWIR1Gain = 512
	s.SWIR2Gain = 3072
	s.Reference = []float64{400, 800, 4096, 10000}
	buf := s.Bytes()

	h, err := asd.ParseHeader(buf)
	require.NoError(t, err)
	sampleRule, err := asd.ResolveEncoding(h.DataFormatCode, asd.NoFormatOverride)
	require.NoError(t, err)
	p, err := asd.ReadPayload(buf, h, sampleRule)
	require.NoError(t, err)

	coeffs, err := asd.NormalizationCoefficients(h)
	require.NoError(t, err)
	rule, err := asd.ResolveFormat(asd.Raw, false)
	require.NoError(t, err)
	normalized, err := asd.Convert(h, p, rule)
	require.NoError(t, err)
	counts := make([]float64, len(normalized))
	for i, v := range normalized {
		counts[i] = v / coeffs[i]
	}
	assert.InDeltaSlice(t, s.Target, counts, 1e-9)

	rule, err = asd.ResolveFormat(asd.Reflectance, false)
	require.NoError(t, err)
	reflectance, err := asd.Convert(h, p, rule)
	require.NoError(t, err)
	target := make([]float64, len(reflectance))
	for i, v := range reflectance {
		target[i] = v * s.Reference[i]
	}
	assert.InDeltaSlice(t, s.Target, target, 1e-9)
}

func TestConvert_MissingReference(t *testing.T) {
	s := asdtest.New(0.1, 0.2, 0.3)
	buf := s.Bytes()
	h, err := asd.ParseHeader(buf)
	require.NoError(t, err)
	sampleRule, err := asd.ResolveEncoding(h.DataFormatCode, asd.NoFormatOverride)
	require.NoError(t, err)
	p, err := asd.ReadPayload(buf, h, sampleRule)
	require.NoError(t, err)

	for _, f := range []asd.DataFormat{asd.Reflectance, asd.Reference} {
		rule, err := asd.ResolveFormat(f, false)
		require.NoError(t, err)
		_, err = asd.Convert(h, p, rule)
		var missing *asd.MissingReferenceError
		assert.True(t, errors.As(err, &missing), f.String())
	}

	// a file already holding reflectance needs no reference
	h.DataType = asd.DataTypeReflectance
	rule, err := asd.ResolveFormat(asd.Reflectance, false)
	require.NoError(t, err)
	values, err := asd.Convert(h, p, rule)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.1, 0.2, 0.3}, values, 1e-6)
}
