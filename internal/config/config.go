package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/nconklindev/datasweep/internal/table"
	"github.com/nconklindev/datasweep/internal/types"
)

const (
	DefaultPath = "datasweep.yaml"
	EnvPrefix   = "DATASWEEP_"
)

type LogCfg struct {
	Level string `koanf:"level"`
	JSON  bool   `koanf:"json"`
	File  string `koanf:"file"`
}

type ParseCfg struct {
	NAValues []string `koanf:"na_values"`
}

type FillCfg struct {
	EmptyColumn string `koanf:"empty_column"` // leave|fail
}

type PreviewCfg struct {
	Rows int `koanf:"rows"`
}

type ChartCfg struct {
	MaxColumns int  `koanf:"max_columns"`
	Embed      bool `koanf:"embed"`
}

type OutputCfg struct {
	Dir    string `koanf:"dir"`
	Format string `koanf:"format"` // csv|excel
}

type MetricsCfg struct {
	Port int `koanf:"port"` // 0 disables the endpoint
}

type Config struct {
	Log     LogCfg     `koanf:"log"`
	Parse   ParseCfg   `koanf:"parse"`
	Fill    FillCfg    `koanf:"fill"`
	Preview PreviewCfg `koanf:"preview"`
	Chart   ChartCfg   `koanf:"chart"`
	Output  OutputCfg  `koanf:"output"`
	Metrics MetricsCfg `koanf:"metrics"`
}

// Load merges YAML (if present) with env-vars
// (prefix `DATASWEEP_`, delimiter `__`, e.g. DATASWEEP_FILL__EMPTY_COLUMN).
func Load(path string) (Config, error) {
	k := koanf.New(".")
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil &&
			!errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, "__", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, err
	}
	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	var cfg Config
	applyDefaults(&cfg)
	return cfg
}

func applyDefaults(c *Config) {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Parse.NAValues == nil {
		c.Parse.NAValues = table.DefaultNAValues
	}
	if c.Fill.EmptyColumn == "" {
		c.Fill.EmptyColumn = string(table.EmptyColumnLeave)
	}
	if c.Preview.Rows <= 0 {
		c.Preview.Rows = 5
	}
	if c.Chart.MaxColumns <= 0 {
		c.Chart.MaxColumns = table.DefaultChartColumns
	}
	if c.Output.Format == "" {
		c.Output.Format = string(types.FormatCSV)
	}
}

func (c Config) Validate() error {
	if _, err := table.ParseEmptyColumnPolicy(c.Fill.EmptyColumn); err != nil {
		return fmt.Errorf("fill.empty_column: %w", err)
	}
	if _, err := types.ParseFormat(c.Output.Format); err != nil {
		return fmt.Errorf("output.format: %w", err)
	}
	if c.Metrics.Port < 0 || c.Metrics.Port > 65535 {
		return fmt.Errorf("metrics.port %d out of range", c.Metrics.Port)
	}
	return nil
}

// EmptyColumnPolicy returns the validated fill policy.
func (c Config) EmptyColumnPolicy() table.EmptyColumnPolicy {
	p, err := table.ParseEmptyColumnPolicy(c.Fill.EmptyColumn)
	if err != nil {
		return table.EmptyColumnLeave
	}
	return p
}

// Target returns the validated default output format.
func (c Config) Target() types.Format {
	f, err := types.ParseFormat(c.Output.Format)
	if err != nil {
		return types.FormatCSV
	}
	return f
}

// LogFile returns where the TUI writes its log: the configured file, or
// datasweep.log in the user cache directory.
func (c Config) LogFile() string {
	if c.Log.File != "" {
		return c.Log.File
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "datasweep.log")
	}
	return filepath.Join(dir, "datasweep", "datasweep.log")
}
