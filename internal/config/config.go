package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"wwtp-carbon/internal/analysis"
	"wwtp-carbon/internal/carbon"
	"wwtp-carbon/internal/ingest"
	"wwtp-carbon/internal/logging"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	// Optional: load emission factors from a separate YAML file. Inline
	// Factors fields override the file.
	FactorsFile string                 `yaml:"factors_file"`
	Factors     carbon.EmissionFactors `yaml:"factors"`
	Ingest      ingest.Options         `yaml:"ingest"`
	Anomaly     analysis.AnomalyConfig `yaml:"anomaly"`
	API         APIConfig              `yaml:"api"`
	Log         logging.Options        `yaml:"log"`
}

type APIConfig struct {
	Port           string        `yaml:"port"`
	Env            string        `yaml:"env"`
	StaticDir      string        `yaml:"static_dir"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	ReportTTL      time.Duration `yaml:"report_ttl"`
	// RateLimit is requests per second across the API; 0 disables it.
	RateLimit float64 `yaml:"rate_limit"`
	RateBurst int     `yaml:"rate_burst"`
}

// Default is the configuration used when no file is given.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config, but does not apply defaults or
// validate it.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "config: read %s", path)
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, eris.Wrapf(err, "config: parse %s", path)
	}
	if c.FactorsFile != "" {
		factorsPath := c.FactorsFile
		if !filepath.IsAbs(factorsPath) {
			// Relative to the config file first, then to the working directory.
			cand := filepath.Join(filepath.Dir(path), factorsPath)
			if _, err := os.Stat(cand); err == nil {
				factorsPath = cand
			}
		}
		loaded, err := LoadFactorsFile(factorsPath)
		if err != nil {
			return nil, err
		}
		c.Factors = MergeFactors(loaded, c.Factors)
	}
	return &c, nil
}

func (c *Config) applyDefaults() {
	c.Factors = MergeFactors(carbon.DefaultFactors(), c.Factors)
	if c.Anomaly.MinHistoryRows == 0 {
		c.Anomaly.MinHistoryRows = analysis.DefaultAnomalyConfig().MinHistoryRows
	}
	if c.Anomaly.Ratio == 0 {
		c.Anomaly.Ratio = analysis.DefaultAnomalyConfig().Ratio
	}
	if c.API.Port == "" {
		c.API.Port = "8080"
	}
	if c.API.Env == "" {
		c.API.Env = "development"
	}
	if c.API.ReportTTL == 0 {
		c.API.ReportTTL = time.Hour
	}
	if c.API.RateLimit > 0 && c.API.RateBurst == 0 {
		c.API.RateBurst = int(c.API.RateLimit) + 1
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// ApplyEnv overlays environment variables onto the API and log settings.
// Unset or empty variables leave the config untouched.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if getenv == nil {
		getenv = os.Getenv
	}
	if v := getenv("API_PORT"); v != "" {
		c.API.Port = v
	}
	if v := getenv("API_ENV"); v != "" {
		c.API.Env = v
	}
	if v := getenv("STATIC_DIR"); v != "" {
		c.API.StaticDir = v
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		c.API.AllowedOrigins = origins
	}
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if err := c.Factors.Validate(); err != nil {
		return fmt.Errorf("factors config invalid: %w", err)
	}
	if c.Anomaly.MinHistoryRows < 0 {
		return fmt.Errorf("anomaly.min_history_rows must be >= 0, got %d", c.Anomaly.MinHistoryRows)
	}
	if c.Anomaly.Ratio <= 0 {
		return fmt.Errorf("anomaly.ratio must be > 0, got %v", c.Anomaly.Ratio)
	}
	if hr := c.Ingest.HeaderRows; hr < 0 || hr > 2 {
		return fmt.Errorf("ingest.header_rows must be 1 or 2, got %d", hr)
	}
	if c.API.ReportTTL < 0 {
		return fmt.Errorf("api.report_ttl must not be negative")
	}
	if c.API.RateLimit < 0 || c.API.RateBurst < 0 {
		return fmt.Errorf("api.rate_limit and api.rate_burst must not be negative")
	}
	return nil
}

type factorsFileWrapper struct {
	Factors carbon.EmissionFactors `yaml:"factors"`
}

// LoadFactorsFile reads a YAML file with a top-level "factors" key.
func LoadFactorsFile(path string) (carbon.EmissionFactors, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return carbon.EmissionFactors{}, eris.Wrapf(err, "config: read factors %s", path)
	}
	var w factorsFileWrapper
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return carbon.EmissionFactors{}, eris.Wrapf(err, "config: parse factors %s", path)
	}
	return w.Factors, nil
}

// MergeFactors overlays non-zero fields from override onto base. A factor
// cannot be overridden to exactly zero this way; a non-empty display
// partition replaces the base one whole.
func MergeFactors(base, override carbon.EmissionFactors) carbon.EmissionFactors {
	out := base
	set := func(dst *float64, v float64) {
		if v != 0 {
			*dst = v
		}
	}
	set(&out.EFN2O, override.EFN2O)
	set(&out.N2ONToN2O, override.N2ONToN2O)
	set(&out.GWPN2O, override.GWPN2O)
	set(&out.CH4YieldB0, override.CH4YieldB0)
	set(&out.CH4CorrectionMCF, override.CH4CorrectionMCF)
	set(&out.GWPCH4, override.GWPCH4)
	set(&out.GridFactor, override.GridFactor)

	set(&out.Chemicals.PAC, override.Chemicals.PAC)
	set(&out.Chemicals.PAM, override.Chemicals.PAM)
	set(&out.Chemicals.NaClO, override.Chemicals.NaClO)

	// Allocation shares only make sense together.
	if override.Allocation != (carbon.EnergyAllocation{}) {
		out.Allocation = override.Allocation
	}
	if len(override.Display) > 0 {
		out.Display = append(carbon.DisplayPartition(nil), override.Display...)
	} else {
		out.Display = append(carbon.DisplayPartition(nil), base.Display...)
	}
	return out
}
