// Package asd decodes ASD spectrometer files into spectral records.
//
// Decoding is a linear pipeline: the header is parsed from fixed offsets,
// the sample encoding is resolved (an override wins over the declared code),
// the payload is converted into the requested channel, validated against the
// instrument's dynamic range and finally paired with the wavelength axis.
package asd

import (
	"fmt"
	"io"
	"os"
)

// Options control how a file is decoded
type Options struct {
	Format                  DataFormat // channel to output
	NoNormalize             bool       // return raw counts unmodified (DN)
	ForceDataFormat         int        // sample encoding override, NoFormatOverride to use the header
	NoRangeErrors           bool       // report out-of-range samples instead of failing
	SigDig                  int        // significant digits, 0 keeps full precision
	ReflectanceMax          float64    // upper bound for reflectance values
	DefaultDynamicRangeBits int        // used when the header has no dynamic range
}

// DefaultOptions returns the options matching the command line defaults
func DefaultOptions() Options {
	return Options{
		Format:                  Reflectance,
		ForceDataFormat:         NoFormatOverride,
		ReflectanceMax:          1,
		DefaultDynamicRangeBits: DefaultDynamicRangeBits,
	}
}

// Decode runs the full pipeline over the contents of one file
func Decode(filename string, buf []byte, opts Options) (*Record, error) {
	h, err := ParseHeader(buf)
	if err != nil {
		return nil, err
	}

	sampleRule, err := ResolveEncoding(h.DataFormatCode, opts.ForceDataFormat)
	if err != nil {
		return nil, err
	}
	rule, err := ResolveFormat(opts.Format, opts.NoNormalize)
	if err != nil {
		return nil, err
	}

	payload, err := ReadPayload(buf, h, sampleRule)
	if err != nil {
		return nil, err
	}
	values, err := Convert(h, payload, rule)
	if err != nil {
		return nil, err
	}

	lower, upper := Bounds(rule, h, opts)
	report, err := ValidateRange(validationInput(rule, payload, values), lower, upper, opts.NoRangeErrors)
	if err != nil {
		return nil, err
	}

	points, err := Assemble(h, values, opts.SigDig)
	if err != nil {
		return nil, err
	}

	return &Record{
		Filename: filename,
		Format:   rule.Format,
		Header:   h,
		Points:   points,
		Range:    report,
	}, nil
}

// ReadFile reads and decodes an ASD file
func ReadFile(filename string, opts Options) (*Record, error) {
	buf, err := readAll(filename)
	if err != nil {
		return nil, err
	}
	return Decode(filename, buf, opts)
}

// ReadPayloadFile reads the header and undecoded samples of a file
func ReadPayloadFile(filename string, forceDataFormat int) (*Header, *Payload, error) {
	buf, err := readAll(filename)
	if err != nil {
		return nil, nil, err
	}
	h, err := ParseHeader(buf)
	if err != nil {
		return nil, nil, err
	}
	rule, err := ResolveEncoding(h.DataFormatCode, forceDataFormat)
	if err != nil {
		return h, nil, err
	}
	p, err := ReadPayload(buf, h, rule)
	if err != nil {
		return h, nil, err
	}
	return h, p, nil
}

// ReadHeader reads only the fixed header of a file
func ReadHeader(filename string) (*Header, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	buf := make([]byte, HeaderSize)
	n, err := io.ReadFull(file, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	return ParseHeader(buf[:n])
}

func readAll(filename string) ([]byte, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	buf, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return buf, nil
}
