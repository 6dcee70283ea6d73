package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/bindkit-dev/bindkit/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "bindkit.json"

	// DefaultPort is the default server port.
	DefaultPort = 8080

	// DefaultHost is the default server host.
	DefaultHost = "localhost"
)

// Config represents the complete bindkit.json configuration.
type Config struct {
	// Name is the application name.
	Name string `json:"name,omitempty"`

	// Server contains server configuration.
	Server ServerConfig `json:"server,omitempty"`

	// Metrics contains metrics configuration.
	Metrics MetricsConfig `json:"metrics,omitempty"`

	// Log contains logging configuration.
	Log LogConfig `json:"log,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServerConfig contains live server settings.
type ServerConfig struct {
	// Host is the host to bind to.
	Host string `json:"host,omitempty"`

	// Port is the port to listen on.
	Port int `json:"port,omitempty"`

	// ReadTimeout is the WebSocket read deadline (e.g. "60s").
	ReadTimeout string `json:"readTimeout,omitempty"`

	// WriteTimeout is the WebSocket write deadline (e.g. "10s").
	WriteTimeout string `json:"writeTimeout,omitempty"`

	// HeartbeatInterval is the time between pings (e.g. "30s").
	HeartbeatInterval string `json:"heartbeatInterval,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	// Enabled exposes collectors on /metrics.
	Enabled bool `json:"enabled,omitempty"`

	// Namespace is the metrics namespace (default: "bindkit").
	Namespace string `json:"namespace,omitempty"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `json:"level,omitempty"`
}

// New creates a Config with defaults applied.
func New() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads bindkit.json from dir.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads the configuration from an explicit path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.FromCode("B301").
				WithDetail("No " + ConfigFileName + " found at " + path + ".").
				WithSuggestion("Run from the project root or pass --config.")
		}
		return nil, errors.FromCode("B301").Wrap(err)
	}

	c := &Config{}
	if err := json.Unmarshal(data, c); err != nil {
		return nil, errors.FromCode("B301").
			WithDetail("The file is not valid JSON.").
			Wrap(err)
	}
	c.configPath = path
	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Save writes the configuration back to its source path.
func (c *Config) Save() error {
	path := c.configPath
	if path == "" {
		path = ConfigFileName
	}
	return c.SaveTo(path)
}

// SaveTo writes the configuration to an explicit path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.FromCode("B301").Wrap(err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.FromCode("B301").Wrap(err)
	}
	c.configPath = path
	return nil
}

// Path returns the path the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = "bindkit"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return errors.FromCode("B302").
			WithDetail("Got port " + strconv.Itoa(c.Server.Port) + ".")
	}
	for _, field := range []struct {
		name, value string
	}{
		{"readTimeout", c.Server.ReadTimeout},
		{"writeTimeout", c.Server.WriteTimeout},
		{"heartbeatInterval", c.Server.HeartbeatInterval},
	} {
		if field.value == "" {
			continue
		}
		if _, err := time.ParseDuration(field.value); err != nil {
			return errors.FromCode("B301").
				WithDetail("server." + field.name + " is not a valid duration: " + field.value).
				Wrap(err)
		}
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return errors.FromCode("B301").
			WithDetail("log.level must be debug, info, warn, or error; got " + c.Log.Level + ".")
	}
	return nil
}

// Address returns the host:port listen address.
func (c *Config) Address() string {
	return c.Server.Host + ":" + strconv.Itoa(c.Server.Port)
}

// Duration parses one of the duration fields, falling back to def when
// the field is unset. Call Validate first; parse failures return def.
func duration(value string, def time.Duration) time.Duration {
	if value == "" {
		return def
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return def
	}
	return d
}

// ReadTimeout returns the parsed read timeout.
func (c *Config) ReadTimeout(def time.Duration) time.Duration {
	return duration(c.Server.ReadTimeout, def)
}

// WriteTimeout returns the parsed write timeout.
func (c *Config) WriteTimeout(def time.Duration) time.Duration {
	return duration(c.Server.WriteTimeout, def)
}

// HeartbeatInterval returns the parsed heartbeat interval.
func (c *Config) HeartbeatInterval(def time.Duration) time.Duration {
	return duration(c.Server.HeartbeatInterval, def)
}

// Exists reports whether a config file is present in dir.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}
