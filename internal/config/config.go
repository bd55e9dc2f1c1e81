package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/claude/liftplan/internal/models"
	"github.com/claude/liftplan/internal/overload"
	"github.com/claude/liftplan/internal/plateau"
	"github.com/claude/liftplan/internal/volume"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	Engine    EngineConfig    `yaml:"engine"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

// EngineConfig tunes the training engine. Zero values take the defaults.
type EngineConfig struct {
	// Approach selects the landmark set loaded from storage.
	Approach      string               `yaml:"approach"`
	// HistoryLimit is the plateau lookback window in days.
	HistoryLimit  int                  `yaml:"history_limit"`
	RepRange      overload.RepRange    `yaml:"rep_range"`
	NearMRVMargin int                  `yaml:"near_mrv_margin"`
	Plateau       plateau.Config       `yaml:"plateau"`
	Deload        plateau.DeloadConfig `yaml:"deload"`
	Landmarks     []volume.Landmark    `yaml:"landmarks"`
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// DefaultEngine returns the engine settings used when the config omits them.
func DefaultEngine() EngineConfig {
	return EngineConfig{
		Approach:     volume.DefaultApproach,
		HistoryLimit: 100,
		RepRange:     overload.RepRange{Min: 8, Max: 12},
		Plateau:      plateau.DefaultConfig(),
		Deload:       plateau.DefaultDeloadConfig(),
	}
}

// Load reads config from a YAML file, then applies environment variable overrides.
// Env vars use the prefix LIFTPLAN_ and underscore-separated paths:
//
//	LIFTPLAN_SERVER_HOST, LIFTPLAN_SERVER_PORT,
//	LIFTPLAN_DB_HOST, LIFTPLAN_DB_PORT, LIFTPLAN_DB_NAME,
//	LIFTPLAN_DB_USER, LIFTPLAN_DB_PASSWORD, LIFTPLAN_DB_SSLMODE,
//	LIFTPLAN_AUTH_API_KEY,
//	LIFTPLAN_TAILSCALE_ENABLED, LIFTPLAN_TAILSCALE_HOSTNAME, LIFTPLAN_TAILSCALE_STATE_DIR,
//	LIFTPLAN_ENGINE_APPROACH, LIFTPLAN_ENGINE_HISTORY_LIMIT
func Load(path string) (*Config, error) {
	cfg := &Config{Engine: DefaultEngine()}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)
	cfg.Engine.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LIFTPLAN_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("LIFTPLAN_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("LIFTPLAN_DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("LIFTPLAN_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("LIFTPLAN_DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("LIFTPLAN_DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("LIFTPLAN_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("LIFTPLAN_DB_SSLMODE"); v != "" {
		cfg.Database.SSLMode = v
	}
	if v := os.Getenv("LIFTPLAN_AUTH_API_KEY"); v != "" {
		cfg.Auth.APIKey = v
	}
	if v := os.Getenv("LIFTPLAN_TAILSCALE_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			cfg.Tailscale.Enabled = enabled
		}
	}
	if v := os.Getenv("LIFTPLAN_TAILSCALE_HOSTNAME"); v != "" {
		cfg.Tailscale.Hostname = v
	}
	if v := os.Getenv("LIFTPLAN_TAILSCALE_STATE_DIR"); v != "" {
		cfg.Tailscale.StateDir = v
	}
	if v := os.Getenv("LIFTPLAN_ENGINE_APPROACH"); v != "" {
		cfg.Engine.Approach = v
	}
	if v := os.Getenv("LIFTPLAN_ENGINE_HISTORY_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Engine.HistoryLimit = n
		}
	}
}

// applyDefaults fills zero values left by a partial engine section.
func (e *EngineConfig) applyDefaults() {
	def := DefaultEngine()
	if e.Approach == "" {
		e.Approach = def.Approach
	}
	if e.HistoryLimit == 0 {
		e.HistoryLimit = def.HistoryLimit
	}
	if e.RepRange.Min == 0 && e.RepRange.Max == 0 {
		e.RepRange = def.RepRange
	}
	if e.Plateau.StallAfter == 0 {
		e.Plateau.StallAfter = def.Plateau.StallAfter
	}
	if e.Plateau.PlateauAfter == 0 {
		e.Plateau.PlateauAfter = def.Plateau.PlateauAfter
	}
	if e.Plateau.RotateAfter == 0 {
		e.Plateau.RotateAfter = def.Plateau.RotateAfter
	}
	if e.Deload.RequiredTriggers == 0 {
		e.Deload.RequiredTriggers = def.Deload.RequiredTriggers
	}
	if e.Deload.StalledShare == 0 {
		e.Deload.StalledShare = def.Deload.StalledShare
	}
	if e.Deload.OverMRVMuscles == 0 {
		e.Deload.OverMRVMuscles = def.Deload.OverMRVMuscles
	}
	if e.Deload.GrindRIR == 0 {
		e.Deload.GrindRIR = def.Deload.GrindRIR
	}
}

// LandmarkOverrides returns the configured landmarks keyed by muscle.
func (e EngineConfig) LandmarkOverrides() map[models.MuscleGroup]volume.Landmark {
	out := make(map[models.MuscleGroup]volume.Landmark, len(e.Landmarks))
	for _, l := range e.Landmarks {
		out[l.Muscle] = l
	}
	return out
}

func (c *Config) validate() error {
	if c.Server.Port == 0 && !c.Tailscale.Enabled {
		return fmt.Errorf("server.port is required")
	}
	if c.Tailscale.Enabled && c.Tailscale.Hostname == "" {
		return fmt.Errorf("tailscale.hostname is required when tailscale is enabled")
	}
	if c.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if c.Database.Port == 0 {
		return fmt.Errorf("database.port is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("database.name is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database.user is required")
	}
	if c.Auth.APIKey == "" {
		return fmt.Errorf("auth.api_key is required")
	}
	return c.Engine.validate()
}

func (e EngineConfig) validate() error {
	if e.HistoryLimit < 0 {
		return fmt.Errorf("engine.history_limit must not be negative")
	}
	if e.RepRange.Min <= 0 || e.RepRange.Max < e.RepRange.Min {
		return fmt.Errorf("engine.rep_range must satisfy 0 < min <= max, got %d-%d", e.RepRange.Min, e.RepRange.Max)
	}
	if e.NearMRVMargin < 0 {
		return fmt.Errorf("engine.near_mrv_margin must not be negative")
	}
	if e.Deload.StalledShare < 0 || e.Deload.StalledShare > 1 {
		return fmt.Errorf("engine.deload.stalled_share must be between 0 and 1")
	}
	if e.Deload.RequiredTriggers > 3 {
		return fmt.Errorf("engine.deload.required_triggers must be at most 3")
	}
	seen := make(map[models.MuscleGroup]bool, len(e.Landmarks))
	for i, l := range e.Landmarks {
		if _, err := models.ParseMuscleGroup(string(l.Muscle)); err != nil {
			return fmt.Errorf("engine.landmarks[%d]: %w", i, err)
		}
		if seen[l.Muscle] {
			return fmt.Errorf("engine.landmarks[%d]: duplicate muscle %s", i, l.Muscle)
		}
		seen[l.Muscle] = true
		if err := l.Validate(); err != nil {
			return fmt.Errorf("engine.landmarks[%d]: %w", i, err)
		}
	}
	return nil
}
