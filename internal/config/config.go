// =============================================================================
// Catalog Scanner - Configuration Module
// =============================================================================
//
// This module is responsible for loading and managing the application
// configuration from a single YAML file.
//
// ARCHITECTURE:
//   The configuration system is designed to be:
//   - Optional: every setting has a sensible default; a missing file is fine
//   - Validated: directories are created and numeric ranges checked on load
//
// =============================================================================

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the global application configuration.
// This is loaded from config.yaml.
type Config struct {
	// =========================================================================
	// DIRECTORY SETTINGS
	// =========================================================================

	// TemplatesFile is the JSON document holding saved wholesaler templates.
	// Default: "./templates/wholesaler_templates.json"
	TemplatesFile string `yaml:"templates_file"`

	// ExportDir is the directory where scan result CSV files are written.
	// Default: "./exports"
	ExportDir string `yaml:"export_dir"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogFile is the path to the application log file.
	// Leave empty to log to stderr only.
	LogFile string `yaml:"log_file"`

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// =========================================================================
	// PARSING SETTINGS
	// =========================================================================

	// MaxRows caps how many data rows are read from a catalog file.
	// Default: 10000
	MaxRows int `yaml:"max_rows"`

	// MinConfidence is the fuzzy-match threshold for column detection,
	// between 0 and 1.
	// Default: 0.6
	MinConfidence float64 `yaml:"min_confidence"`

	// =========================================================================
	// PROFITABILITY SETTINGS
	// =========================================================================

	// VAT contains value-added-tax handling for wholesale prices.
	VAT VATSettings `yaml:"vat_settings"`

	// MinROI is the ROI percentage a product must reach to be flagged
	// profitable.
	// Default: 15.0
	MinROI float64 `yaml:"min_roi_threshold"`

	// ReferralRate is the marketplace referral fee percentage used when
	// exact fees are unknown.
	// Default: 15.0
	ReferralRate float64 `yaml:"referral_fee_percentage"`

	// FulfillmentFee is the flat per-unit fulfillment charge for fee
	// estimates.
	// Default: 1.0
	FulfillmentFee float64 `yaml:"fulfillment_fee"`
}

// VATSettings controls how value-added tax is handled in the
// profitability math.
type VATSettings struct {
	// Rate is the VAT percentage, e.g. 20.0 for France or 19.0 for
	// Germany.
	// Default: 20.0
	Rate float64 `yaml:"vat_rate"`

	// ApplyOnCost marks wholesale prices as VAT-inclusive; when set, VAT
	// is stripped from the cost before calculating ROI.
	// Default: true
	ApplyOnCost bool `yaml:"apply_vat_on_cost"`
}

// Load reads the configuration from a YAML file.
//
// PARAMETERS:
//   - path: the path to the configuration file. A missing file is not an
//     error; the defaults are returned instead.
//
// RETURNS:
//   - A pointer to the Config struct.
//   - An error if the file exists but cannot be read or parsed.
func Load(path string) (*Config, error) {
	config := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(config)

	if err := validate(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		TemplatesFile: "./templates/wholesaler_templates.json",
		ExportDir:     "./exports",
		LogLevel:      "info",
		MaxRows:       10000,
		MinConfidence: 0.6,
		VAT: VATSettings{
			Rate:        20.0,
			ApplyOnCost: true,
		},
		MinROI:         15.0,
		ReferralRate:   15.0,
		FulfillmentFee: 1.0,
	}
}

// applyDefaults fills in any options the file left unset.
func applyDefaults(config *Config) {
	defaults := Default()
	if config.TemplatesFile == "" {
		config.TemplatesFile = defaults.TemplatesFile
	}
	if config.ExportDir == "" {
		config.ExportDir = defaults.ExportDir
	}
	if config.LogLevel == "" {
		config.LogLevel = defaults.LogLevel
	}
	if config.MaxRows == 0 {
		config.MaxRows = defaults.MaxRows
	}
	if config.MinConfidence == 0 {
		config.MinConfidence = defaults.MinConfidence
	}
	if config.MinROI == 0 {
		config.MinROI = defaults.MinROI
	}
	if config.ReferralRate == 0 {
		config.ReferralRate = defaults.ReferralRate
	}
	if config.FulfillmentFee == 0 {
		config.FulfillmentFee = defaults.FulfillmentFee
	}
}

// validate checks numeric ranges and makes sure the working directories
// exist.
func validate(config *Config) error {
	if config.MinConfidence < 0 || config.MinConfidence > 1 {
		return fmt.Errorf("min_confidence must be between 0 and 1, got %v", config.MinConfidence)
	}
	if config.VAT.Rate < 0 || config.VAT.Rate > 100 {
		return fmt.Errorf("vat_rate must be between 0 and 100, got %v", config.VAT.Rate)
	}
	if config.MaxRows < 0 {
		return fmt.Errorf("max_rows must not be negative, got %d", config.MaxRows)
	}

	dirs := []string{
		filepath.Dir(config.TemplatesFile),
		config.ExportDir,
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
