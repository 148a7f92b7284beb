// Package export writes decoded spectra and header metadata
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"asd2csv/internal/asd"
)

// WavelengthColumn is the name of the first CSV column
const WavelengthColumn = "wl_nm"

// ColumnName names a record's value column after its file, e.g. "leaf_Refl".
// DN output is raw data and shares the Raw suffix.
func ColumnName(rec *asd.Record) string {
	base := filepath.Base(rec.Filename)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	format := rec.Format
	if format == asd.DN {
		format = asd.Raw
	}
	return base + "_" + format.Abbrev()
}

// FormatValue renders a float without exponent using the fewest digits that
// round-trip
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// WriteCSV writes one wavelength column followed by one column per record.
// All records must share the same wavelength axis.
func WriteCSV(w io.Writer, records []*asd.Record, header bool) error {
	if len(records) == 0 {
		return fmt.Errorf("no records to write")
	}
	axis := records[0].Wavelengths()
	for _, rec := range records[1:] {
		if len(rec.Points) != len(axis) {
			return fmt.Errorf("record %s has %d points, expected %d", filepath.Base(rec.Filename), len(rec.Points), len(axis))
		}
		for i, pt := range rec.Points {
			if pt.Wavelength != axis[i] {
				return fmt.Errorf("record %s wavelength %g at row %d, expected %g", filepath.Base(rec.Filename), pt.Wavelength, i, axis[i])
			}
		}
	}

	writer := csv.NewWriter(w)
	row := make([]string, len(records)+1)

	if header {
		row[0] = WavelengthColumn
		for i, rec := range records {
			row[i+1] = ColumnName(rec)
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	for i, wl := range axis {
		row[0] = FormatValue(wl)
		for j, rec := range records {
			row[j+1] = FormatValue(rec.Points[i].Value)
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// ExportCSV writes the records to filename, replacing any existing file
func ExportCSV(filename string, records []*asd.Record, header bool) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}

	if err := WriteCSV(file, records, header); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close CSV file: %w", err)
	}
	return nil
}
