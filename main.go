// asd2csv - convert ASD spectrometer files to CSV
// This program decodes the binary ASD format written by FieldSpec and related
// instruments and writes the selected channel as wavelength/value columns.
package main

import (
	"fmt"
	"os"

	"asd2csv/internal/config"
	"asd2csv/internal/export"
	"asd2csv/internal/logging"
	"asd2csv/internal/processor"
	"asd2csv/internal/version"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Command line flag variables
var (
	cfgFile         string // Configuration file path
	outputType      string // Channel to write: Reflectance, Raw or Reference
	sigDig          int    // Significant digits of written values
	forceDataFormat int    // Sample encoding override
	noRangeErrors   bool   // Count out-of-range samples instead of failing
	dn              bool   // Raw counts without normalization
	noHeader        bool   // Omit the CSV header row
	verbose         bool   // Enable verbose logging
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "asd2csv [flags] ASDFILE|DIR OUTPUT",
	Short: "Convert ASD spectrometer files to CSV",
	Long: `asd2csv decodes binary ASD spectra and writes the selected channel
(Reflectance, Raw or Reference) as CSV. A directory argument converts every
*.asd file in it into one combined CSV with a column per valid file.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runConvert(args[0], args[1]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

// configCmd prints the effective configuration
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load(viper.GetViper())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if err := cfg.WriteYAML(os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

// init initializes the CLI flags and configuration
func init() {
	cobra.OnInitialize(initConfig)
	version.Apply(rootCmd, "asd2csv")

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./config.yaml if present)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	defaults := config.DefaultConfig()
	rootCmd.Flags().StringVarP(&outputType, "type", "t", defaults.Output.Type, "which data to output: Reflectance, Raw or Reference")
	rootCmd.Flags().IntVarP(&sigDig, "sigdig", "d", defaults.Output.SigDig, "format output to a number of significant digits (0 = full precision)")
	rootCmd.Flags().IntVar(&forceDataFormat, "force_data_format", defaults.Decode.ForceDataFormat, "override header data format: 0 float, 1 integer, 2 double, 3 unknown")
	rootCmd.Flags().BoolVar(&noRangeErrors, "no_range_errors", defaults.Decode.NoRangeErrors, "report samples outside the dynamic range instead of failing")
	rootCmd.Flags().BoolVar(&dn, "dn", defaults.Decode.DN, "return DN values without normalization for Raw data")
	rootCmd.Flags().BoolVar(&noHeader, "no-header", false, "omit the CSV header row")

	// Bind command line flags to viper configuration keys
	viper.BindPFlag("output.type", rootCmd.Flags().Lookup("type"))
	viper.BindPFlag("output.sigdig", rootCmd.Flags().Lookup("sigdig"))
	viper.BindPFlag("decode.force_data_format", rootCmd.Flags().Lookup("force_data_format"))
	viper.BindPFlag("decode.no_range_errors", rootCmd.Flags().Lookup("no_range_errors"))
	viper.BindPFlag("decode.dn", rootCmd.Flags().Lookup("dn"))

	rootCmd.AddCommand(configCmd)
}

// initConfig reads in config file and ENV variables if set
func initConfig() {
	config.BindEnv(viper.GetViper())

	if err := config.ReadInConfig(viper.GetViper(), cfgFile, "."); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to read config file: %v\n", err)
		os.Exit(1)
	}
	if verbose && viper.ConfigFileUsed() != "" {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// runConvert decodes the input and writes the CSV
func runConvert(input, output string) error {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}
	if noHeader {
		cfg.Output.Header = false
	}

	logger, err := logging.New(os.Stderr, cfg.Logging.Level, verbose)
	if err != nil {
		return err
	}

	opts, err := cfg.DecodeOptions()
	if err != nil {
		return err
	}

	files, err := processor.FindInputFiles(input)
	if err != nil {
		return err
	}

	p, err := processor.NewProcessor(&processor.Config{Options: opts}, logger)
	if err != nil {
		return fmt.Errorf("failed to create processor: %w", err)
	}

	result, err := p.ProcessFiles(files)
	if err != nil {
		return err
	}

	records := result.Succeeded()
	if len(records) == 0 {
		if len(files) == 1 {
			return fmt.Errorf("cannot input data from file %s: %w", input, result.Failed()[0].Err)
		}
		return fmt.Errorf("none of the %d files in %s could be converted", len(files), input)
	}

	fmt.Printf("Writing data to file %s\n", output)
	if err := export.ExportCSV(output, records, cfg.Output.Header); err != nil {
		return fmt.Errorf("failed to export CSV: %w", err)
	}

	if failed := len(result.Failed()); failed > 0 {
		fmt.Printf("Converted %d of %d files (%d failed)\n", len(records), len(files), failed)
	}
	return nil
}

// main is the entry point of the application
func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
