package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// SessionSecretEnv overrides [SessionConfig.Secret] when set.
const SessionSecretEnv = "MISE_SESSION_SECRET"

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Database DatabaseConfig `toml:"database"`
	Server   ServerConfig   `toml:"server"`
	Session  SessionConfig  `toml:"session"`
	Planner  PlannerConfig  `toml:"planner"`
	Admin    AdminConfig    `toml:"admin"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host            string   `toml:"host"`
	Port            int      `toml:"port"`
	ShutdownTimeout Duration `toml:"shutdown_timeout"`
	// TrustProxy keys login throttling on X-Forwarded-For. Enable only behind a reverse proxy that sets it.
	TrustProxy bool `toml:"trust_proxy"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// SessionConfig contains cookie session settings.
type SessionConfig struct {
	Secret     string   `toml:"secret"`
	CookieName string   `toml:"cookie_name"`
	Lifetime   Duration `toml:"lifetime"`
	Secure     bool     `toml:"secure"`
	LoginRate  float64  `toml:"login_rate"`
	LoginBurst int      `toml:"login_burst"`
}

// PlannerConfig controls meal plan validation.
type PlannerConfig struct {
	// StrictDates rejects plans whose start is after their end or whose items fall outside the plan span.
	StrictDates bool `toml:"strict_dates"`
}

// AdminConfig describes the account seeded by the setup command.
type AdminConfig struct {
	Email       string `toml:"email"`
	DisplayName string `toml:"display_name"`
	Password    string `toml:"password"`
}

// Duration wraps [time.Duration] so it can be written as "168h" in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("%w: duration %q: %v", ErrInvalidConfig, text, err)
	}
	d.Duration = v
	return nil
}

// MarshalText implements [encoding.TextMarshaler].
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep the values of [DefaultConfig].
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	config.applyEnv()
	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	config.applyEnv()
	return &config
}

func (c *Config) applyEnv() {
	if secret := os.Getenv(SessionSecretEnv); secret != "" {
		c.Session.Secret = secret
	}
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
