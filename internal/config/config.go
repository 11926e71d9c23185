// =============================================================================
// PET Form Processor - Configuration Module
// =============================================================================
//
// This module loads and manages the application configuration.
//
// CONFIGURATION FILES:
//   1. Main Config (config.yaml): directories, tuning knobs, concurrency
//   2. Rule Tables (tables.yaml, optional): overrides for the compiled-in
//      suffix/prefix/reason tables
//
// Both files are optional: a missing main config falls back to defaults, a
// missing tables file falls back to the compiled-in production tables. This
// keeps the binary runnable with zero setup while letting operations tweak
// the rules without a rebuild.
//
// =============================================================================

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/spgmops/petform/internal/rules"
)

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration.
type MainConfig struct {
	// =========================================================================
	// DIRECTORY SETTINGS
	// =========================================================================

	// InputDir is scanned for *.xlsx PET form submissions.
	// Default: "./input"
	InputDir string `yaml:"input_dir"`

	// OutputDir receives both generated artifacts.
	// Default: "./output"
	OutputDir string `yaml:"output_dir"`

	// CustomerMappingFile is the customer attribute workbook. When the file
	// does not exist the run proceeds with unresolved customer attributes.
	// Default: "./CustomerMapping.xlsx"
	CustomerMappingFile string `yaml:"customer_mapping_file"`

	// CombinedFile is the combined extract name inside OutputDir.
	// Default: "CombinedExtractedColumns.xlsx"
	CombinedFile string `yaml:"combined_file"`

	// MassUploadFile is the upload sheet name inside OutputDir.
	// Default: "MassUpload.xlsx"
	MassUploadFile string `yaml:"mass_upload_file"`

	// TablesFile optionally overrides the compiled-in rule tables.
	// Default: "" (compiled-in tables)
	TablesFile string `yaml:"tables_file"`

	// =========================================================================
	// PROCESSING SETTINGS
	// =========================================================================

	// FuzzyThreshold is the header-matching similarity cutoff in percent.
	// Default: 85
	FuzzyThreshold int `yaml:"fuzzy_threshold"`

	// MaxHeaderScanRows bounds the header row search window.
	// Default: 13
	MaxHeaderScanRows int `yaml:"max_header_scan_rows"`

	// MaxConcurrency is the maximum number of files processed concurrently.
	// Set to 1 for sequential processing.
	// Default: 4
	MaxConcurrency int `yaml:"max_concurrency"`

	// ContinueOnError determines whether a failed file aborts the batch.
	// Default: true
	ContinueOnError bool `yaml:"continue_on_error"`
}

// Default returns the configuration used when no config file is present.
func Default() *MainConfig {
	return &MainConfig{
		InputDir:            "./input",
		OutputDir:           "./output",
		CustomerMappingFile: "./CustomerMapping.xlsx",
		CombinedFile:        "CombinedExtractedColumns.xlsx",
		MassUploadFile:      "MassUpload.xlsx",
		FuzzyThreshold:      85,
		MaxHeaderScanRows:   13,
		MaxConcurrency:      4,
		ContinueOnError:     true,
	}
}

// =============================================================================
// LOADING
// =============================================================================

// LoadMainConfig reads the main configuration file. A missing file yields the
// defaults; a malformed file is an error. Zero-valued tuning knobs in the
// file fall back to their defaults so partial configs stay valid.
func LoadMainConfig(path string) (*MainConfig, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	defaults := Default()
	if cfg.InputDir == "" {
		cfg.InputDir = defaults.InputDir
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = defaults.OutputDir
	}
	if cfg.CombinedFile == "" {
		cfg.CombinedFile = defaults.CombinedFile
	}
	if cfg.MassUploadFile == "" {
		cfg.MassUploadFile = defaults.MassUploadFile
	}
	if cfg.FuzzyThreshold <= 0 {
		cfg.FuzzyThreshold = defaults.FuzzyThreshold
	}
	if cfg.MaxHeaderScanRows <= 0 {
		cfg.MaxHeaderScanRows = defaults.MaxHeaderScanRows
	}
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = defaults.MaxConcurrency
	}
	return cfg, nil
}

// LoadTables reads the optional rule-table override file. An empty path or a
// missing file yields the compiled-in production tables.
func LoadTables(path string) (rules.Tables, error) {
	if path == "" {
		return rules.Defaults(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return rules.Defaults(), nil
		}
		return rules.Tables{}, fmt.Errorf("reading tables %s: %w", path, err)
	}

	tables := rules.Defaults()
	if err := yaml.Unmarshal(data, &tables); err != nil {
		return rules.Tables{}, fmt.Errorf("parsing tables %s: %w", path, err)
	}
	return tables, nil
}
