package navfunnel

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"runtime"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

const (
	DEFAULT_WORKERS     = 1
	DEFAULT_MAX_PORTALS = 512
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	// Workers is the number of goroutines Update fans out to
	Workers int `yaml:"workers"`
	// MaxPortals caps the corridor length Plan accepts; 0 disables the cap
	MaxPortals int `yaml:"max_portals"`
	// CellSize of the point location grid; 0 lets the surface pick one
	CellSize float64 `yaml:"cell_size"`
	// CheckCorridors validates every searched corridor before it is used
	CheckCorridors bool      `yaml:"check_corridors"`
	Log            LogConfig `yaml:"log"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

func DefaultConfig() Config {
	return Config{
		Workers:    max(DEFAULT_WORKERS, runtime.GOMAXPROCS(0)),
		MaxPortals: DEFAULT_MAX_PORTALS,
		Log: LogConfig{
			Level: "info",
		},
	}
}

// LoadConfig reads a YAML document over the defaults. Missing keys keep their default.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()

	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	return cfg, cfg.Validate()
}

func LoadConfigFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return DefaultConfig(), err
	}
	defer f.Close()

	return LoadConfig(f)
}

func (c Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("workers %d: %w", c.Workers, ErrInvalidConfig)
	}
	if c.MaxPortals < 0 {
		return fmt.Errorf("max_portals %d: %w", c.MaxPortals, ErrInvalidConfig)
	}
	if c.CellSize < 0 || math.IsNaN(c.CellSize) || math.IsInf(c.CellSize, 0) {
		return fmt.Errorf("cell_size %v: %w", c.CellSize, ErrInvalidConfig)
	}
	if c.Log.Level != "" {
		if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
			return fmt.Errorf("log level %q: %w", c.Log.Level, ErrInvalidConfig)
		}
	}

	return nil
}
