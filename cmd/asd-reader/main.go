// ASD Reader - Utility to display the contents of ASD spectrometer files
// This program reads and displays the header metadata and spectrum of .asd files
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"asd2csv/internal/asd"
	"asd2csv/internal/export"
	"asd2csv/internal/version"

	"github.com/spf13/cobra"
)

var (
	showSamples     bool
	showStats       bool
	outputFormat    string
	outputType      string
	dn              bool
	forceDataFormat int
	showRaw         bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "asd-reader [file.asd]",
	Short: "Display contents of ASD spectrometer files",
	Long: `ASD Reader displays the header metadata and spectrum of ASD files.
Useful for checking instrument settings before converting files.

Display modes:
  --samples    Show every wavelength/value pair of the selected channel
  --stats      Show summary statistics of the selected channel
  --raw        Show the undecoded header fields by offset`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := displayFile(args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	version.Apply(rootCmd, "ASD Reader")
	rootCmd.Flags().BoolVar(&showRaw, "raw", false, "display undecoded header fields")
	rootCmd.Flags().BoolVarP(&showSamples, "samples", "s", false, "display all spectrum values")
	rootCmd.Flags().BoolVar(&showStats, "stats", false, "show statistics of the spectrum")
	rootCmd.Flags().StringVarP(&outputFormat, "format", "f", export.FormatTable, "metadata format (table, json, yaml)")
	rootCmd.Flags().StringVarP(&outputType, "type", "t", asd.Reflectance.String(), "channel for --samples and --stats: Reflectance, Raw or Reference")
	rootCmd.Flags().BoolVar(&dn, "dn", false, "use DN values without normalization for Raw data")
	rootCmd.Flags().IntVar(&forceDataFormat, "force_data_format", asd.NoFormatOverride, "override header data format")
}

// displayFile reads and displays the contents of an ASD file
func displayFile(filename string) error {
	fileInfo, err := os.Stat(filename)
	if os.IsNotExist(err) {
		return fmt.Errorf("file does not exist: %s", filename)
	} else if err != nil {
		return err
	}

	if showRaw {
		return displayRawFields(filename)
	}

	h, err := asd.ReadHeader(filename)
	if err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}

	// Structured formats print only the metadata document
	if outputFormat != export.FormatTable {
		return export.WriteMetadata(os.Stdout, h.Metadata(), outputFormat)
	}

	fmt.Printf("ASD FILE READER %s\n\n", version.GetFullVersion())

	fmt.Printf("File Information:\n")
	fmt.Printf("Name: %s\n", filepath.Base(filename))
	fmt.Printf("Size: %d bytes\n", fileInfo.Size())
	fmt.Printf("Modified: %s\n\n", fileInfo.ModTime().Format("2006-01-02 15:04:05"))

	fmt.Printf("Header:\n")
	if err := export.WriteMetadata(os.Stdout, h.Metadata(), export.FormatTable); err != nil {
		return err
	}
	fmt.Println()

	displayGPS(h.GPS)

	if err := displayReference(filename); err != nil {
		return err
	}

	if showSamples || showStats {
		rec, err := decode(filename)
		if err != nil {
			return fmt.Errorf("failed to decode spectrum: %w", err)
		}
		if showSamples {
			displaySamples(rec)
		}
		if showStats {
			displayStatistics(rec)
		}
	}
	return nil
}

func decode(filename string) (*asd.Record, error) {
	format, err := asd.ParseDataFormat(outputType)
	if err != nil {
		return nil, err
	}
	opts := asd.DefaultOptions()
	opts.Format = format
	opts.NoNormalize = dn
	opts.ForceDataFormat = forceDataFormat
	opts.NoRangeErrors = true
	return asd.ReadFile(filename, opts)
}

func displayGPS(g asd.GPSData) {
	if !g.HasFix() {
		fmt.Printf("GPS: no position recorded\n\n")
		return
	}
	fmt.Printf("GPS Position:\n")
	lat, latErr := g.DecimalLatitude()
	lon, lonErr := g.DecimalLongitude()
	if latErr != nil || lonErr != nil {
		fmt.Printf("Invalid coordinates: %v, %v\n\n", g.Latitude, g.Longitude)
		return
	}
	fmt.Printf("Latitude:  %14.8f°\n", lat)
	fmt.Printf("Longitude: %14.8f°\n", lon)
	if dms, err := g.Position(); err == nil {
		fmt.Printf("DMS: %s\n", dms)
	}
	fmt.Printf("Altitude:  %14.2f m\n\n", g.Altitude)
}

func displayReference(filename string) error {
	_, p, err := asd.ReadPayloadFile(filename, forceDataFormat)
	if err != nil {
		fmt.Printf("Spectrum: %v\n\n", err)
		return nil
	}
	fmt.Printf("Spectrum:\n")
	fmt.Printf("Encoding: %s (%d bytes per sample)\n", p.Rule.Encoding, p.Rule.Width)
	fmt.Printf("Samples: %d\n", len(p.Target))
	if !p.HasReference() {
		fmt.Printf("White Reference: none\n\n")
		return nil
	}
	fmt.Printf("White Reference: present (flag %d)\n", p.RefInfo.Flag)
	if !p.RefInfo.ReferenceAt.IsZero() {
		fmt.Printf("Reference Time: %s\n", p.RefInfo.ReferenceAt.Format("2006-01-02 15:04:05"))
	}
	if !p.RefInfo.SpectrumAt.IsZero() {
		fmt.Printf("Spectrum Time: %s\n", p.RefInfo.SpectrumAt.Format("2006-01-02 15:04:05"))
	}
	if p.RefInfo.Description != "" {
		fmt.Printf("Description: %s\n", p.RefInfo.Description)
	}
	fmt.Printf("Reference Samples Offset: %d\n\n", p.RefInfo.SamplesStart)
	return nil
}

// displayRawFields prints every header field as stored, for comparing
// against the documented offsets
func displayRawFields(filename string) error {
	buf, err := os.ReadFile(filename)
	if err != nil {
		return err
	}
	fields, err := asd.RawFields(buf)
	if err != nil {
		return err
	}
	return export.WriteMetadata(os.Stdout, fields, outputFormat)
}

func displaySamples(rec *asd.Record) {
	fmt.Printf("%s Spectrum (%d values):\n", rec.Format, len(rec.Points))
	fmt.Printf("%10s  %s\n", "nm", rec.Format.Abbrev())
	for _, p := range rec.Points {
		fmt.Printf("%10s  %s\n", export.FormatValue(p.Wavelength), export.FormatValue(p.Value))
	}
	fmt.Println()
}

func displayStatistics(rec *asd.Record) {
	s := rec.Stats()
	if s.Count == 0 {
		fmt.Printf("Statistics: No samples to analyze\n\n")
		return
	}
	fmt.Printf("%s Statistics:\n", rec.Format)
	fmt.Printf("Samples: %d\n", s.Count)
	fmt.Printf("Min: %14.6f\n", s.Min)
	fmt.Printf("Max: %14.6f (at %g nm)\n", s.Max, s.PeakWavelength)
	fmt.Printf("Mean: %14.6f\n", s.Mean)
	fmt.Printf("RMS: %14.6f\n", s.RMS)
	fmt.Printf("Out of range: %d (expected %g to %g)\n\n", rec.Range.Count(), rec.Range.Lower, rec.Range.Upper)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
