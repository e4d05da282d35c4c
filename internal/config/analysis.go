package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
)

// DefaultConfigPath is the path to the canonical analysis defaults file.
const DefaultConfigPath = "config/analysis.defaults.json"

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "OMV_REPORT_"

// AnalysisConfig is the run configuration. Every field is optional: the Get*
// accessors fall back to built-in defaults, so partial files are safe.
type AnalysisConfig struct {
	// Input
	SnapshotPath      *string `json:"snapshot_path,omitempty" env:"SNAPSHOT_PATH"`
	RegistrationTable *string `json:"registration_table,omitempty" env:"REGISTRATION_TABLE"`
	MotorVoterTable   *string `json:"motor_voter_table,omitempty" env:"MOTOR_VOTER_TABLE"`

	// Filtering
	ActiveStatus     *string `json:"active_status,omitempty"`
	BirthDateFloor   *string `json:"birth_date_floor,omitempty"` // YYYY-MM-DD, exclusive
	StrictPartyCodes *bool   `json:"strict_party_codes,omitempty" env:"STRICT_PARTY_CODES"`

	// Output
	OutputDir         *string  `json:"output_dir,omitempty" env:"OUTPUT_DIR"`
	Formats           []string `json:"formats,omitempty" env:"FORMATS" envSeparator:","`
	ChartWidthInches  *float64 `json:"chart_width_inches,omitempty"`
	ChartHeightInches *float64 `json:"chart_height_inches,omitempty"`
	EchartsAssetsHost *string  `json:"echarts_assets_host,omitempty" env:"ECHARTS_ASSETS_HOST"`
}

const dateLayout = "2006-01-02"

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrBool(v bool) *bool          { return &v }
func ptrString(v string) *string    { return &v }

// EmptyAnalysisConfig returns a config with every field unset.
func EmptyAnalysisConfig() *AnalysisConfig {
	return &AnalysisConfig{}
}

// DefaultAnalysisConfig returns a config with every field set to its default.
func DefaultAnalysisConfig() *AnalysisConfig {
	empty := EmptyAnalysisConfig()
	return &AnalysisConfig{
		SnapshotPath:      ptrString(empty.GetSnapshotPath()),
		RegistrationTable: ptrString(empty.GetRegistrationTable()),
		MotorVoterTable:   ptrString(empty.GetMotorVoterTable()),
		ActiveStatus:      ptrString(empty.GetActiveStatus()),
		BirthDateFloor:    ptrString(empty.GetBirthDateFloor().Format(dateLayout)),
		StrictPartyCodes:  ptrBool(empty.GetStrictPartyCodes()),
		OutputDir:         ptrString(empty.GetOutputDir()),
		Formats:           empty.GetFormats(),
		ChartWidthInches:  ptrFloat64(empty.GetChartWidthInches()),
		ChartHeightInches: ptrFloat64(empty.GetChartHeightInches()),
		EchartsAssetsHost: ptrString(empty.GetEchartsAssetsHost()),
	}
}

// LoadAnalysisConfig loads a config from a JSON file.
// The file must have a .json extension and be under 1MB.
func LoadAnalysisConfig(path string) (*AnalysisConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyAnalysisConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overrides fields from OMV_REPORT_* environment variables. Unset
// variables leave the current values alone.
func (c *AnalysisConfig) ApplyEnv() error {
	if err := env.ParseWithOptions(c, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return c.Validate()
}

// MustLoadDefaultConfig loads DefaultConfigPath, searching parent directories.
// Panics if the file cannot be loaded, intended for test setup.
func MustLoadDefaultConfig() *AnalysisConfig {
	candidates := []string{
		DefaultConfigPath,
		"../../" + DefaultConfigPath, // from internal/config/ or cmd/omv-report/
	}
	for _, path := range candidates {
		if cfg, err := LoadAnalysisConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configured values are usable.
func (c *AnalysisConfig) Validate() error {
	if c.BirthDateFloor != nil && *c.BirthDateFloor != "" {
		if _, err := time.Parse(dateLayout, *c.BirthDateFloor); err != nil {
			return fmt.Errorf("invalid birth_date_floor '%s': %w", *c.BirthDateFloor, err)
		}
	}

	for _, f := range c.Formats {
		if f != "png" && f != "html" {
			return fmt.Errorf("unknown format %q (want png or html)", f)
		}
	}

	if c.ChartWidthInches != nil && (*c.ChartWidthInches <= 0 || *c.ChartWidthInches > 100) {
		return fmt.Errorf("chart_width_inches must be in (0, 100], got %f", *c.ChartWidthInches)
	}
	if c.ChartHeightInches != nil && (*c.ChartHeightInches <= 0 || *c.ChartHeightInches > 100) {
		return fmt.Errorf("chart_height_inches must be in (0, 100], got %f", *c.ChartHeightInches)
	}

	for name, v := range map[string]*string{
		"snapshot_path":      c.SnapshotPath,
		"registration_table": c.RegistrationTable,
		"motor_voter_table":  c.MotorVoterTable,
		"active_status":      c.ActiveStatus,
		"output_dir":         c.OutputDir,
	} {
		if v != nil && *v == "" {
			return fmt.Errorf("%s must not be empty", name)
		}
	}
	return nil
}

// GetSnapshotPath returns snapshot_path or the default.
func (c *AnalysisConfig) GetSnapshotPath() string {
	if c.SnapshotPath == nil {
		return "data/voters.db"
	}
	return *c.SnapshotPath
}

// GetRegistrationTable returns registration_table or the default.
func (c *AnalysisConfig) GetRegistrationTable() string {
	if c.RegistrationTable == nil {
		return "registrations"
	}
	return *c.RegistrationTable
}

// GetMotorVoterTable returns motor_voter_table or the default.
func (c *AnalysisConfig) GetMotorVoterTable() string {
	if c.MotorVoterTable == nil {
		return "motor_voter"
	}
	return *c.MotorVoterTable
}

// GetActiveStatus returns active_status or the default.
func (c *AnalysisConfig) GetActiveStatus() string {
	if c.ActiveStatus == nil {
		return "Active"
	}
	return *c.ActiveStatus
}

// GetBirthDateFloor parses birth_date_floor, falling back to 1902-01-01.
func (c *AnalysisConfig) GetBirthDateFloor() time.Time {
	def := time.Date(1902, time.January, 1, 0, 0, 0, 0, time.UTC)
	if c.BirthDateFloor == nil || *c.BirthDateFloor == "" {
		return def
	}
	t, err := time.Parse(dateLayout, *c.BirthDateFloor)
	if err != nil {
		return def // default on parse error
	}
	return t
}

// GetStrictPartyCodes returns strict_party_codes or the default.
func (c *AnalysisConfig) GetStrictPartyCodes() bool {
	if c.StrictPartyCodes == nil {
		return false
	}
	return *c.StrictPartyCodes
}

// GetOutputDir returns output_dir or the default.
func (c *AnalysisConfig) GetOutputDir() string {
	if c.OutputDir == nil {
		return "plots"
	}
	return *c.OutputDir
}

// GetFormats returns formats or the default.
func (c *AnalysisConfig) GetFormats() []string {
	if len(c.Formats) == 0 {
		return []string{"png"}
	}
	out := make([]string, len(c.Formats))
	copy(out, c.Formats)
	return out
}

// GetChartWidthInches returns chart_width_inches or the default.
func (c *AnalysisConfig) GetChartWidthInches() float64 {
	if c.ChartWidthInches == nil {
		return 8
	}
	return *c.ChartWidthInches
}

// GetChartHeightInches returns chart_height_inches or the default.
func (c *AnalysisConfig) GetChartHeightInches() float64 {
	if c.ChartHeightInches == nil {
		return 6
	}
	return *c.ChartHeightInches
}

// GetEchartsAssetsHost returns echarts_assets_host. Empty means the
// go-echarts CDN.
func (c *AnalysisConfig) GetEchartsAssetsHost() string {
	if c.EchartsAssetsHost == nil {
		return ""
	}
	return *c.EchartsAssetsHost
}
