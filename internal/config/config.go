package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/claude/rptlog/internal/models"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	Log       LogConfig       `yaml:"log"`
	Training  TrainingConfig  `yaml:"training"`
}

type ServerConfig struct {
	Host   string `yaml:"host"`
	Port   int    `yaml:"port"`
	WebDir string `yaml:"web_dir"`
}

type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Path     string `yaml:"path"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
	AuthKey  string `yaml:"auth_key"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	ToStdout   bool   `yaml:"to_stdout"`
	Format     string `yaml:"format"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

type TrainingConfig struct {
	Unit              string   `yaml:"unit"`
	Rotation          []string `yaml:"rotation"`
	Timezone          string   `yaml:"timezone"`
	RPTSet2Percentage float64  `yaml:"rpt_set2_percentage"`
	RPTSet3Percentage float64  `yaml:"rpt_set3_percentage"`
	IncrementLbs      float64  `yaml:"increment_lbs"`
	IncrementKg       float64  `yaml:"increment_kg"`
}

// Default returns the configuration used for keys a file leaves unset.
func Default() *Config {
	return &Config{
		Server:    ServerConfig{Host: "127.0.0.1", Port: 8080},
		Database:  DatabaseConfig{Driver: "sqlite", Path: "rptlog.db", Port: 5432},
		Tailscale: TailscaleConfig{Hostname: "rptlog"},
		Log:       LogConfig{Level: "info", ToStdout: true, Format: "text", MaxSizeMB: 10, MaxBackups: 3},
		Training: TrainingConfig{
			Unit:              "lbs",
			Rotation:          []string{"A", "B"},
			Timezone:          "Local",
			RPTSet2Percentage: 90,
			RPTSet3Percentage: 80,
			IncrementLbs:      5,
			IncrementKg:       2.5,
		},
	}
}

// DSN returns the driver connection string: a PostgreSQL URL, or the
// SQLite file path with its connection pragmas.
func (d DatabaseConfig) DSN() string {
	if d.Driver == "postgres" {
		sslmode := d.SSLMode
		if sslmode == "" {
			sslmode = "disable"
		}
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(d.User, d.Password),
			Host:     fmt.Sprintf("%s:%d", d.Host, d.Port),
			Path:     "/" + d.Name,
			RawQuery: "sslmode=" + url.QueryEscape(sslmode),
		}
		return u.String()
	}
	return d.Path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

// MigrateURL returns the golang-migrate database URL for the driver.
func (d DatabaseConfig) MigrateURL() string {
	if d.Driver == "postgres" {
		return d.DSN()
	}
	return "sqlite://" + d.Path
}

// Location returns the time zone used for calendar-day streaks.
func (t TrainingConfig) Location() (*time.Location, error) {
	if t.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(t.Timezone)
}

// ProgressionDefaults returns the settings used until the user saves their own.
func (t TrainingConfig) ProgressionDefaults() models.ProgressionSettings {
	return models.ProgressionSettings{
		RPTSet2Percentage:  t.RPTSet2Percentage,
		RPTSet3Percentage:  t.RPTSet3Percentage,
		GlobalIncrementLbs: t.IncrementLbs,
		GlobalIncrementKg:  t.IncrementKg,
	}
}

// WeightUnit returns the configured unit. Load has already validated it.
func (t TrainingConfig) WeightUnit() models.Unit {
	u, err := models.ParseUnit(t.Unit)
	if err != nil {
		return models.UnitLbs
	}
	return u
}

// Load reads config from a YAML file over the defaults, then applies
// environment variable overrides. An empty path skips the file.
// Env vars use the prefix RPTLOG_ and underscore-separated paths:
//
//	RPTLOG_SERVER_HOST, RPTLOG_SERVER_PORT, RPTLOG_DB_DRIVER, RPTLOG_DB_PATH,
//	RPTLOG_DB_HOST, RPTLOG_DB_PORT, RPTLOG_DB_NAME, RPTLOG_DB_USER,
//	RPTLOG_DB_PASSWORD, RPTLOG_DB_SSLMODE, RPTLOG_LOG_LEVEL, RPTLOG_LOG_FILE,
//	RPTLOG_TRAINING_UNIT, RPTLOG_TS_AUTHKEY
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setInt := func(key string, dst *int) {
		if v := os.Getenv(key); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}

	setString("RPTLOG_SERVER_HOST", &cfg.Server.Host)
	setInt("RPTLOG_SERVER_PORT", &cfg.Server.Port)
	setString("RPTLOG_DB_DRIVER", &cfg.Database.Driver)
	setString("RPTLOG_DB_PATH", &cfg.Database.Path)
	setString("RPTLOG_DB_HOST", &cfg.Database.Host)
	setInt("RPTLOG_DB_PORT", &cfg.Database.Port)
	setString("RPTLOG_DB_NAME", &cfg.Database.Name)
	setString("RPTLOG_DB_USER", &cfg.Database.User)
	setString("RPTLOG_DB_PASSWORD", &cfg.Database.Password)
	setString("RPTLOG_DB_SSLMODE", &cfg.Database.SSLMode)
	setString("RPTLOG_LOG_LEVEL", &cfg.Log.Level)
	setString("RPTLOG_LOG_FILE", &cfg.Log.File)
	setString("RPTLOG_TRAINING_UNIT", &cfg.Training.Unit)
	setString("RPTLOG_TS_AUTHKEY", &cfg.Tailscale.AuthKey)
}

func (c *Config) validate() error {
	if c.Server.Port == 0 {
		return fmt.Errorf("server.port is required")
	}
	switch c.Database.Driver {
	case "sqlite":
		if c.Database.Path == "" {
			return fmt.Errorf("database.path is required for sqlite")
		}
	case "postgres":
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
	default:
		return fmt.Errorf("database.driver must be sqlite or postgres, got %q", c.Database.Driver)
	}
	if _, err := models.ParseUnit(c.Training.Unit); err != nil {
		return fmt.Errorf("training.unit: %w", err)
	}
	if len(c.Training.Rotation) == 0 {
		return fmt.Errorf("training.rotation must not be empty")
	}
	for _, p := range []float64{c.Training.RPTSet2Percentage, c.Training.RPTSet3Percentage} {
		if p <= 0 || p > 100 {
			return fmt.Errorf("training rpt percentages must be within (0, 100], got %v", p)
		}
	}
	if _, err := c.Training.Location(); err != nil {
		return fmt.Errorf("training.timezone: %w", err)
	}
	if c.Tailscale.Enabled && c.Tailscale.Hostname == "" {
		return fmt.Errorf("tailscale.hostname is required when tailscale is enabled")
	}
	return nil
}
