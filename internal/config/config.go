// =============================================================================
// FEC to CSV Converter - Configuration Module
// =============================================================================
//
// This module loads and manages the application configuration for the batch
// CLI. The parser core itself takes no configuration beyond an optional
// schema registry; everything here concerns the pipeline around it: where
// filings come from, where output goes, and how files are processed.
//
// CONFIGURATION FILE:
//   A single YAML file (config.yaml by default). All settings have sensible
//   defaults, so an empty or missing-field file still works.
//
// =============================================================================

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration.
type MainConfig struct {
	// =========================================================================
	// DIRECTORY SETTINGS
	// =========================================================================

	// InputDir is the directory where input .fec filings are placed.
	// The application will scan this directory for files to process.
	// Default: "./input"
	InputDir string `yaml:"input_dir"`

	// OutputDir is the directory where converted output is placed. Each
	// filing gets its own subdirectory (csv) or workbook (xlsx) named after
	// the filing and the run ID.
	// Default: "./output"
	OutputDir string `yaml:"output_dir"`

	// InputArchiveDir is the directory where processed filings are moved.
	// Files are only moved here after successful conversion.
	// Default: "./input_archive"
	InputArchiveDir string `yaml:"input_archive_dir"`

	// SchemaDatabase optionally overrides the embedded schema database with
	// an external YAML file. Empty means use the embedded database.
	SchemaDatabase string `yaml:"schema_database"`

	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	// OutputFormat selects the writer: "csv" (one file per record code) or
	// "xlsx" (one workbook, one sheet per code).
	// Default: "csv"
	OutputFormat string `yaml:"output_format"`

	// OutputNameFormat defines the format for output names.
	// Placeholders:
	//   {name}      - Input file name without extension
	//   {uuid}      - The run's UUID
	//   {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
	// Default: "{name}_{timestamp}"
	OutputNameFormat string `yaml:"output_name_format"`

	// =========================================================================
	// PROCESSING SETTINGS
	// =========================================================================

	// MaxConcurrency is the maximum number of filings to process
	// concurrently. Set to 1 for sequential processing.
	// Default: 4
	MaxConcurrency int `yaml:"max_concurrency"`

	// SkipBadRecords controls what happens when a body record fails to
	// decode (unknown code or bad numeric field). True skips the record and
	// keeps converting; false aborts that filing on the first bad record.
	// Width mismatches are never errors either way.
	// Default: true
	SkipBadRecords bool `yaml:"skip_bad_records"`

	// ArchiveInputs controls whether successfully processed filings are
	// moved to InputArchiveDir.
	// Default: true
	ArchiveInputs bool `yaml:"archive_inputs"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// LoadMainConfig loads the main configuration from a YAML file.
//
// PARAMETERS:
//   - configPath: The path to the main configuration file.
//
// RETURNS:
//   - A pointer to the MainConfig struct with defaults applied.
//   - An error if the file cannot be read or parsed.
func LoadMainConfig(configPath string) (*MainConfig, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config MainConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyMainConfigDefaults(&config)

	if err := validateMainConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// DefaultMainConfig returns a configuration with every default applied,
// for running without a config file at all.
func DefaultMainConfig() *MainConfig {
	config := &MainConfig{
		SkipBadRecords: true,
		ArchiveInputs:  true,
	}
	applyMainConfigDefaults(config)
	return config
}

// applyMainConfigDefaults sets default values for any unset options.
//
// SkipBadRecords and ArchiveInputs default to true, which a plain bool
// field cannot express after unmarshalling; they use the raw YAML node
// trick below instead.
func applyMainConfigDefaults(config *MainConfig) {
	if config.InputDir == "" {
		config.InputDir = "./input"
	}
	if config.OutputDir == "" {
		config.OutputDir = "./output"
	}
	if config.InputArchiveDir == "" {
		config.InputArchiveDir = "./input_archive"
	}
	if config.OutputFormat == "" {
		config.OutputFormat = "csv"
	}
	if config.OutputNameFormat == "" {
		config.OutputNameFormat = "{name}_{timestamp}"
	}
	if config.MaxConcurrency == 0 {
		config.MaxConcurrency = 4
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
}

// UnmarshalYAML applies true-by-default semantics for the boolean options:
// a field the file does not mention stays true, while an explicit false is
// honored.
func (c *MainConfig) UnmarshalYAML(node *yaml.Node) error {
	type rawConfig MainConfig
	raw := rawConfig{
		SkipBadRecords: true,
		ArchiveInputs:  true,
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}
	*c = MainConfig(raw)
	return nil
}

// validateMainConfig validates the main configuration and creates the
// working directories.
func validateMainConfig(config *MainConfig) error {
	if config.OutputFormat != "csv" && config.OutputFormat != "xlsx" {
		return fmt.Errorf("output_format must be \"csv\" or \"xlsx\", got %q", config.OutputFormat)
	}
	if config.MaxConcurrency < 1 {
		return fmt.Errorf("max_concurrency must be at least 1, got %d", config.MaxConcurrency)
	}

	dirs := []string{
		config.InputDir,
		config.OutputDir,
		config.InputArchiveDir,
	}
	for _, dir := range dirs {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", dir, err)
			}
		}
	}

	return nil
}
