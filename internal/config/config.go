package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"asteroids/internal/game"
	"asteroids/internal/logging"
)

// Config is the whole process configuration. It is loaded once at startup.
type Config struct {
	Game      game.Config    `yaml:"game"`
	Log       logging.Config `yaml:"log"`
	Telemetry Telemetry      `yaml:"telemetry"`
	Spectate  Spectate       `yaml:"spectate"`
	Render    Render         `yaml:"render"`
	Audio     Audio          `yaml:"audio"`
}

type Telemetry struct {
	Enabled       bool          `yaml:"enabled"`
	DBPath        string        `yaml:"db_path"`    // empty disables the SQLite store
	JSONLPath     string        `yaml:"jsonl_path"` // empty disables the JSONL log
	QueueSize     int           `yaml:"queue_size"`
	BatchSize     int           `yaml:"batch_size"`
	FlushInterval time.Duration `yaml:"flush_interval"`
}

type Spectate struct {
	Enabled       bool   `yaml:"enabled"`
	Addr          string `yaml:"addr"`
	PasswordHash  string `yaml:"password_hash"` // bcrypt hash; empty disables token issuing
	JWTSecret     string `yaml:"jwt_secret"`    // hex; empty generates one per run
	MaxConns      int    `yaml:"max_conns"`
	MaxConnsPerIP int    `yaml:"max_conns_per_ip"`
}

type Render struct {
	Background string        `yaml:"background"`
	HoldWindow time.Duration `yaml:"hold_window"`
}

type Audio struct {
	Enabled bool    `yaml:"enabled"`
	Volume  float64 `yaml:"volume"` // beep volume exponent, 0 is unchanged
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Game: game.DefaultConfig(),
		Log:  logging.Default(),
		Telemetry: Telemetry{
			Enabled:       true,
			DBPath:        "data/asteroids.db",
			JSONLPath:     "logs/telemetry.jsonl",
			QueueSize:     4096,
			BatchSize:     64,
			FlushInterval: 2 * time.Second,
		},
		Spectate: Spectate{
			Enabled:       false,
			Addr:          ":8080",
			MaxConns:      200,
			MaxConnsPerIP: 5,
		},
		Render: Render{
			HoldWindow: 150 * time.Millisecond,
		},
		Audio: Audio{
			Enabled: true,
		},
	}
}

// Load overlays the YAML file at path on Default. An empty path or an empty
// file yields the defaults. Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	return decode(f)
}

func decode(r io.Reader) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks every section.
func (c *Config) Validate() error {
	var errs []error
	if err := c.Game.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("game: %w", err))
	}
	if c.Telemetry.Enabled {
		if c.Telemetry.QueueSize <= 0 {
			errs = append(errs, errors.New("telemetry: queue_size must be positive"))
		}
		if c.Telemetry.BatchSize <= 0 {
			errs = append(errs, errors.New("telemetry: batch_size must be positive"))
		}
		if c.Telemetry.FlushInterval <= 0 {
			errs = append(errs, errors.New("telemetry: flush_interval must be positive"))
		}
	}
	if c.Spectate.Enabled {
		if c.Spectate.Addr == "" {
			errs = append(errs, errors.New("spectate: addr is required"))
		}
		if c.Spectate.MaxConns <= 0 || c.Spectate.MaxConnsPerIP <= 0 {
			errs = append(errs, errors.New("spectate: connection limits must be positive"))
		}
	}
	if c.Render.HoldWindow < 0 {
		errs = append(errs, errors.New("render: hold_window must not be negative"))
	}
	return errors.Join(errs...)
}
