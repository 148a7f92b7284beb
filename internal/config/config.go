// Package config provides configuration structures and defaults for asd2csv
package config

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"asd2csv/internal/asd"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment variables overriding config keys
const EnvPrefix = "ASD2CSV"

// Config represents the complete application configuration
type Config struct {
	Output  OutputConfig  `mapstructure:"output" yaml:"output"`   // CSV output settings
	Decode  DecodeConfig  `mapstructure:"decode" yaml:"decode"`   // Decoder settings
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"` // Logging configuration
}

// OutputConfig contains CSV output parameters
type OutputConfig struct {
	Type   string `mapstructure:"type" yaml:"type"`     // Channel: Reflectance, Raw or Reference
	SigDig int    `mapstructure:"sigdig" yaml:"sigdig"` // Significant digits, 0 keeps full precision
	Header bool   `mapstructure:"header" yaml:"header"` // Write the column header row
}

// DecodeConfig contains decoder parameters
type DecodeConfig struct {
	ForceDataFormat         int     `mapstructure:"force_data_format" yaml:"force_data_format"`                   // Sample encoding override, -1 uses the header
	NoRangeErrors           bool    `mapstructure:"no_range_errors" yaml:"no_range_errors"`                       // Count out-of-range samples instead of failing
	DN                      bool    `mapstructure:"dn" yaml:"dn"`                                                 // Raw counts without normalization
	ReflectanceMax          float64 `mapstructure:"reflectance_max" yaml:"reflectance_max"`                       // Upper bound of valid reflectance
	DefaultDynamicRangeBits int     `mapstructure:"default_dynamic_range_bits" yaml:"default_dynamic_range_bits"` // Used when a header has no dynamic range
}

// LoggingConfig contains logging configuration parameters
type LoggingConfig struct {
	Level string `mapstructure:"level" yaml:"level"` // Log level (debug, info, warn, error)
}

// DefaultConfig returns a configuration with sensible default values
func DefaultConfig() *Config {
	return &Config{
		Output: OutputConfig{
			Type:   asd.Reflectance.String(),
			SigDig: 0,    // Full precision
			Header: true, // Header row on
		},
		Decode: DecodeConfig{
			ForceDataFormat:         asd.NoFormatOverride,
			NoRangeErrors:           false,
			DN:                      false,
			ReflectanceMax:          1.0,
			DefaultDynamicRangeBits: asd.DefaultDynamicRangeBits,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// SetDefaults registers the defaults with v so unset keys resolve
func SetDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("output.type", d.Output.Type)
	v.SetDefault("output.sigdig", d.Output.SigDig)
	v.SetDefault("output.header", d.Output.Header)
	v.SetDefault("decode.force_data_format", d.Decode.ForceDataFormat)
	v.SetDefault("decode.no_range_errors", d.Decode.NoRangeErrors)
	v.SetDefault("decode.dn", d.Decode.DN)
	v.SetDefault("decode.reflectance_max", d.Decode.ReflectanceMax)
	v.SetDefault("decode.default_dynamic_range_bits", d.Decode.DefaultDynamicRangeBits)
	v.SetDefault("logging.level", d.Logging.Level)
}

// BindEnv makes ASD2CSV_DECODE_DN style variables override config keys
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// ReadInConfig loads file, or config.yaml from searchPath when file is
// empty. Only a missing default config file is tolerated.
func ReadInConfig(v *viper.Viper, file, searchPath string) error {
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(searchPath)
	}

	err := v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if file == "" && errors.As(err, &notFound) {
		return nil
	}
	return err
}

// Load builds the configuration from defaults, config file, env and flags
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)
	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that cannot be decoded with
func (c *Config) Validate() error {
	if _, err := asd.ParseDataFormat(c.Output.Type); err != nil {
		return err
	}
	if c.Output.SigDig < 0 {
		return fmt.Errorf("invalid sigdig: %d (must be 0 or positive)", c.Output.SigDig)
	}
	if c.Decode.ForceDataFormat != asd.NoFormatOverride &&
		(c.Decode.ForceDataFormat < 0 || c.Decode.ForceDataFormat > int(asd.EncodingUnknown)) {
		return fmt.Errorf("invalid force_data_format: %d (must be 0, 1, 2 or 3)", c.Decode.ForceDataFormat)
	}
	if c.Decode.ReflectanceMax <= 0 {
		return fmt.Errorf("invalid reflectance_max: %g (must be positive)", c.Decode.ReflectanceMax)
	}
	if c.Decode.DefaultDynamicRangeBits < 1 || c.Decode.DefaultDynamicRangeBits > 32 {
		return fmt.Errorf("invalid default_dynamic_range_bits: %d (must be between 1 and 32)", c.Decode.DefaultDynamicRangeBits)
	}
	return nil
}

// DecodeOptions translates the configuration into decoder options
func (c *Config) DecodeOptions() (asd.Options, error) {
	format, err := asd.ParseDataFormat(c.Output.Type)
	if err != nil {
		return asd.Options{}, err
	}
	return asd.Options{
		Format:                  format,
		NoNormalize:             c.Decode.DN,
		ForceDataFormat:         c.Decode.ForceDataFormat,
		NoRangeErrors:           c.Decode.NoRangeErrors,
		SigDig:                  c.Output.SigDig,
		ReflectanceMax:          c.Decode.ReflectanceMax,
		DefaultDynamicRangeBits: c.Decode.DefaultDynamicRangeBits,
	}, nil
}

// WriteYAML encodes the configuration as YAML
func (c *Config) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to flush config: %w", err)
	}
	return nil
}
