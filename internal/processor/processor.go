// Package processor converts batches of ASD files into spectral records
package processor

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"asd2csv/internal/asd"

	"github.com/charmbracelet/log"
)

// ErrAxisMismatch marks a file whose wavelength axis differs from the batch
var ErrAxisMismatch = errors.New("wavelength axis mismatch")

// ErrNoInput is returned when there is nothing to convert
var ErrNoInput = errors.New("no ASD files found")

// Config holds the configuration for batch processing
type Config struct {
	Options asd.Options // Decoder options applied to every file
}

// FileResult is the outcome of one file
type FileResult struct {
	Filename string
	Record   *asd.Record
	Err      error
}

// Stage returns the pipeline stage that failed, empty on success or for I/O errors
func (f FileResult) Stage() string {
	var staged interface{ Stage() string }
	if errors.As(f.Err, &staged) {
		return staged.Stage()
	}
	if errors.Is(f.Err, ErrAxisMismatch) {
		return "axis"
	}
	return ""
}

// Result holds the outcome of a batch
type Result struct {
	Files []FileResult
}

// Succeeded returns the decoded records in input order
func (r *Result) Succeeded() []*asd.Record {
	var records []*asd.Record
	for _, f := range r.Files {
		if f.Err == nil {
			records = append(records, f.Record)
		}
	}
	return records
}

// Failed returns the files that could not be converted
func (r *Result) Failed() []FileResult {
	var failed []FileResult
	for _, f := range r.Files {
		if f.Err != nil {
			failed = append(failed, f)
		}
	}
	return failed
}

// Processor decodes ASD files
type Processor struct {
	config *Config
	logger *log.Logger
}

// NewProcessor creates a processor with the given configuration
func NewProcessor(config *Config, logger *log.Logger) (*Processor, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if config.Options.SigDig < 0 {
		return nil, fmt.Errorf("sigdig must be 0 or positive")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	return &Processor{config: config, logger: logger}, nil
}

// ProcessFiles decodes every file. A failing file is recorded and logged and
// the batch continues; files whose wavelength axis differs from the first
// decoded file are rejected with ErrAxisMismatch.
func (p *Processor) ProcessFiles(filenames []string) (*Result, error) {
	if len(filenames) == 0 {
		return nil, ErrNoInput
	}

	p.logger.Debug("processing batch", "files", len(filenames), "type", p.config.Options.Format)

	result := &Result{Files: p.loadRecords(filenames)}
	p.validateAxes(result.Files)

	for _, f := range result.Failed() {
		p.logger.Error("failed to convert", "file", filepath.Base(f.Filename), "stage", f.Stage(), "err", f.Err)
	}
	for _, rec := range result.Succeeded() {
		if n := rec.Range.Count(); n > 0 {
			p.logger.Warn("samples outside expected range", "file", filepath.Base(rec.Filename),
				"count", n, "lower", rec.Range.Lower, "upper", rec.Range.Upper)
		}
	}
	return result, nil
}

// loadRecords decodes files one at a time in input order
func (p *Processor) loadRecords(filenames []string) []FileResult {
	results := make([]FileResult, len(filenames))
	for i, filename := range filenames {
		p.logger.Debug("decoding", "file", filepath.Base(filename), "n", i+1, "of", len(filenames))

		rec, err := asd.ReadFile(filename, p.config.Options)
		if err != nil {
			results[i] = FileResult{Filename: filename, Err: fmt.Errorf("%s: %w", filepath.Base(filename), err)}
			continue
		}
		results[i] = FileResult{Filename: filename, Record: rec}

		p.logger.Debug("decoded", "file", filepath.Base(filename),
			"instrument", rec.Header.Instrument, "channels", rec.Header.Channels,
			"data_type", rec.Header.DataType)
	}
	return results
}

// validateAxes rejects records whose axis differs from the first decoded one
func (p *Processor) validateAxes(results []FileResult) {
	var ref *asd.Header
	for i := range results {
		if results[i].Err != nil {
			continue
		}
		h := results[i].Record.Header
		if ref == nil {
			ref = h
			continue
		}
		if err := compareAxes(ref, h); err != nil {
			results[i].Err = fmt.Errorf("%s: %w", filepath.Base(results[i].Filename), err)
			results[i].Record = nil
		}
	}
}

func compareAxes(ref, h *asd.Header) error {
	if h.Channels != ref.Channels {
		return fmt.Errorf("%w: %d channels, expected %d", ErrAxisMismatch, h.Channels, ref.Channels)
	}
	if h.WavelengthStart != ref.WavelengthStart || h.WavelengthStep != ref.WavelengthStep {
		return fmt.Errorf("%w: %g-%g nm step %g, expected %g-%g nm step %g", ErrAxisMismatch,
			h.WavelengthStart, h.WavelengthStop, h.WavelengthStep,
			ref.WavelengthStart, ref.WavelengthStop, ref.WavelengthStep)
	}
	return nil
}

// FindInputFiles expands input into the files to convert: a regular file is
// returned as is, a directory yields its *.asd entries (case insensitive,
// not recursive) in name order.
func FindInputFiles(input string) ([]string, error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, fmt.Errorf("failed to access input: %w", err)
	}
	if !info.IsDir() {
		return []string{input}, nil
	}

	entries, err := os.ReadDir(input)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".asd") {
			continue
		}
		files = append(files, filepath.Join(input, entry.Name()))
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoInput, input)
	}
	sort.Strings(files)
	return files, nil
}
