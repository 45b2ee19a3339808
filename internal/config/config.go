package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
	_ "time/tzdata"

	"taxmeter/internal/data"
	"taxmeter/internal/model"
	"taxmeter/internal/normalize"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	Data       DataConfig             `yaml:"data"`
	Estimation model.EstimationConfig `yaml:"estimation"`
	LiveTick   LiveTickConfig         `yaml:"live_tick"`
	Server     ServerConfig           `yaml:"server"`
}

// DataConfig describes where raw receipts come from.
type DataConfig struct {
	SourceURL string `yaml:"source_url"`
	// Format of the official publication: csv, xlsx or auto.
	Format string `yaml:"format"`
	// Sheet to read from an XLSX publication; empty means the first with data.
	Sheet string `yaml:"sheet"`
	// CSVPath is the local fallback file, in any shape the normalizer accepts.
	CSVPath string `yaml:"csv_path"`
	// Offline skips the official source and reads CSVPath only.
	Offline bool `yaml:"offline"`

	FetchTimeout    time.Duration `yaml:"fetch_timeout"`
	CacheTTL        time.Duration `yaml:"cache_ttl"`
	RefreshInterval time.Duration `yaml:"refresh_interval"`
}

// LiveTickConfig configures the simplified live tick mode.
type LiveTickConfig struct {
	// Unit of the stored amounts: eur, thousand_eur or million_eur.
	Unit string `yaml:"unit"`
}

type ServerConfig struct {
	Port      string `yaml:"port"`
	StaticDir string `yaml:"static_dir"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Data: DataConfig{
			SourceURL:    data.DefaultSourceURL,
			Format:       string(normalize.FormatAuto),
			CSVPath:      "data/receipts.csv",
			FetchTimeout: 30 * time.Second,
			CacheTTL:     time.Hour,
		},
		Estimation: model.DefaultEstimationConfig(),
		LiveTick:   LiveTickConfig{Unit: string(model.UnitEUR)},
		Server: ServerConfig{
			Port:      "8080",
			StaticDir: "./static",
		},
	}
}

// Load reads path (or the defaults when path is empty), applies environment
// overrides and validates the result.
func Load(path string) (*Config, error) {
	c := Default()
	if path != "" {
		var err error
		if c, err = LoadUnchecked(path); err != nil {
			return nil, err
		}
	}
	c.ApplyEnv()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	c.Estimation, _ = c.Estimation.Normalized()
	return c, nil
}

// LoadUnchecked loads path over the defaults, but does not validate it.
// Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := Default()
	if err := yaml.Unmarshal(raw, c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if c.Data.CSVPath != "" && !filepath.IsAbs(c.Data.CSVPath) {
		// Prefer interpreting relative paths as relative to the config file directory,
		// but fall back to the provided path (relative to cwd) if that doesn't exist.
		cand := filepath.Join(filepath.Dir(path), c.Data.CSVPath)
		if _, err := os.Stat(cand); err == nil {
			c.Data.CSVPath = cand
		}
	}
	return c, nil
}

// ApplyEnv overlays non-empty environment variables.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("API_PORT"); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv("STATIC_DIR"); v != "" {
		c.Server.StaticDir = v
	}
	if v := os.Getenv("RECEIPTS_SOURCE_URL"); v != "" {
		c.Data.SourceURL = v
	}
	if v := os.Getenv("RECEIPTS_CSV_PATH"); v != "" {
		c.Data.CSVPath = v
	}
	if v := os.Getenv("RECEIPTS_OFFLINE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Data.Offline = b
		}
	}
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if err := c.Estimation.Validate(); err != nil {
		return fmt.Errorf("estimation config invalid: %w", err)
	}
	if _, err := time.LoadLocation(c.Estimation.Timezone); err != nil {
		return fmt.Errorf("estimation.timezone %q: %w", c.Estimation.Timezone, err)
	}
	if _, err := model.ParseUnit(c.LiveTick.Unit); err != nil {
		return fmt.Errorf("live_tick config invalid: %w", err)
	}
	if _, err := normalize.ParseFormat(c.Data.Format); err != nil {
		return fmt.Errorf("data.format: %w", err)
	}
	if c.Data.Offline && c.Data.CSVPath == "" {
		return errors.New("data.csv_path is required when data.offline is set")
	}
	if c.Data.FetchTimeout < 0 || c.Data.CacheTTL < 0 || c.Data.RefreshInterval < 0 {
		return errors.New("data durations must not be negative")
	}
	port, err := strconv.Atoi(c.Server.Port)
	if err != nil {
		return fmt.Errorf("invalid port '%s': must be a number", c.Server.Port)
	}
	if port < 1 || port > 65535 {
		return fmt.Errorf("invalid port %d: must be between 1 and 65535", port)
	}
	return nil
}

// Unit returns the validated live tick unit.
func (c *Config) Unit() model.Unit {
	u, err := model.ParseUnit(c.LiveTick.Unit)
	if err != nil {
		return model.UnitEUR
	}
	return u
}

// Ingester builds the ingestion collaborator described by the data section:
// the official publication with the local file as fallback, or the local
// file alone when offline.
func (c *Config) Ingester() *data.Ingester {
	format, _ := normalize.ParseFormat(c.Data.Format)
	local := data.Source{
		Name:    data.SourceLocal,
		Fetcher: data.LocalFile{Path: c.Data.CSVPath},
		Format:  normalize.FormatAuto,
	}
	if c.Data.Offline {
		return &data.Ingester{Official: local}
	}
	cache := data.NewResponseCache(c.Data.CacheTTL)
	client := data.NewReceiptsClient(c.Data.SourceURL, c.Data.FetchTimeout, cache)
	ing := &data.Ingester{
		Official: data.Source{
			Name:    data.SourceOfficial,
			Fetcher: client,
			Format:  format,
			Sheet:   c.Data.Sheet,
		},
		Cache: cache,
	}
	if c.Data.CSVPath != "" {
		ing.Fallback = &local
	}
	return ing
}
