package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for hydrochat.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Service  ServiceConfig  `yaml:"service"`
	Database DatabaseConfig `yaml:"database"`
	API      APIConfig      `yaml:"api"`
	Auth     AuthConfig     `yaml:"auth"`
	MQTT     MQTTConfig     `yaml:"mqtt"`
	InfluxDB InfluxDBConfig `yaml:"influxdb"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServiceConfig contains the texts served by the root route descriptor.
type ServiceConfig struct {
	Name  string `yaml:"name"`
	Title string `yaml:"title"`
	Intro string `yaml:"intro"`
}

// DatabaseConfig contains SQLite database settings.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// APIConfig contains HTTP API server settings.
type APIConfig struct {
	Host     string           `yaml:"host"`
	Port     int              `yaml:"port"`
	TLS      TLSConfig        `yaml:"tls"`
	Timeouts APITimeoutConfig `yaml:"timeouts"`
	CORS     CORSConfig       `yaml:"cors"`
}

// TLSConfig contains TLS certificate settings.
type TLSConfig struct {
	Enabled  bool   `yaml:"enabled"`
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
}

// APITimeoutConfig contains HTTP timeout settings in seconds.
type APITimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// CORSConfig contains Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers"`
}

// AuthConfig contains the shared-secret settings for mutating routes.
type AuthConfig struct {
	// Header is the request header carrying the caller's key.
	Header string `yaml:"header"`

	// AdminKey is the shared secret. Empty means every mutation is rejected.
	AdminKey string `yaml:"admin_key"`
}

// MQTTConfig contains MQTT broker connection settings.
type MQTTConfig struct {
	Enabled     bool                `yaml:"enabled"`
	Broker      MQTTBrokerConfig    `yaml:"broker"`
	Auth        MQTTAuthConfig      `yaml:"auth"`
	QoS         int                 `yaml:"qos"`
	TopicPrefix string              `yaml:"topic_prefix"`
	Reconnect   MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
}

// InfluxDBConfig contains InfluxDB connection settings.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. .env file entries (only for variables not already set)
//  4. Environment variables (override file values)
//
// Environment variables follow the pattern: HYDROCHAT_SECTION_KEY
// For example: HYDROCHAT_DATABASE_PATH, HYDROCHAT_API_PORT.
// PORT and ADMIN_KEY are also honoured.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return finish(cfg)
}

// FromEnv builds a configuration from defaults and the environment only.
// It is used when no config file is present.
func FromEnv() (*Config, error) {
	return finish(defaultConfig())
}

func finish(cfg *Config) (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// loadDotEnv reads .env from the working directory, if present.
// Variables already set in the process environment win.
func loadDotEnv() error {
	err := godotenv.Load()
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("loading .env: %w", err)
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Service: ServiceConfig{
			Name:  "hydrochat",
			Title: "Hello SQLite (blank)",
			Intro: "This is a database-backed API with the following endpoints",
		},
		Database: DatabaseConfig{
			Path:        "./.data/hydrochat.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		API: APIConfig{
			Host: "0.0.0.0",
			Port: 3000,
			Timeouts: APITimeoutConfig{
				Read:  30,
				Write: 30,
				Idle:  60,
			},
		},
		Auth: AuthConfig{
			Header: "admin_key",
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "hydrochat",
			},
			QoS:         1,
			TopicPrefix: "hydrochat",
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
			},
		},
		InfluxDB: InfluxDBConfig{
			BatchSize:     100,
			FlushInterval: 10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
func applyEnvOverrides(cfg *Config) error {
	// Database
	if v := os.Getenv("HYDROCHAT_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}

	// API
	if v := os.Getenv("HYDROCHAT_API_HOST"); v != "" {
		cfg.API.Host = v
	}
	port := os.Getenv("HYDROCHAT_API_PORT")
	if port == "" {
		port = os.Getenv("PORT")
	}
	if port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("parsing api port %q: %w", port, err)
		}
		cfg.API.Port = p
	}

	// Auth
	if v := os.Getenv("HYDROCHAT_AUTH_ADMIN_KEY"); v != "" {
		cfg.Auth.AdminKey = v
	} else if v := os.Getenv("ADMIN_KEY"); v != "" {
		cfg.Auth.AdminKey = v
	}

	// MQTT
	if v := os.Getenv("HYDROCHAT_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("HYDROCHAT_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("HYDROCHAT_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	// InfluxDB
	if v := os.Getenv("HYDROCHAT_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}

	// Logging
	if v := os.Getenv("HYDROCHAT_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}

	return nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []string

	if c.Database.Path == "" {
		errs = append(errs, "database.path is required")
	}

	if c.API.Port < 1 || c.API.Port > 65535 {
		errs = append(errs, "api.port must be between 1 and 65535")
	}
	if c.API.TLS.Enabled && (c.API.TLS.CertFile == "" || c.API.TLS.KeyFile == "") {
		errs = append(errs, "api.tls requires cert_file and key_file")
	}

	if c.Auth.Header == "" {
		errs = append(errs, "auth.header is required")
	}

	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}
	if c.MQTT.Enabled && c.MQTT.TopicPrefix == "" {
		errs = append(errs, "mqtt.topic_prefix is required when mqtt is enabled")
	}

	if c.InfluxDB.Enabled && c.InfluxDB.URL == "" {
		errs = append(errs, "influxdb.url is required when influxdb is enabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// Address returns the host:port the API listens on.
func (c *Config) Address() string {
	return c.API.Address()
}

// Address returns the host:port the API listens on.
func (c APIConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ReadTimeout returns the API read timeout as a Duration.
func (c APIConfig) ReadTimeout() time.Duration {
	return time.Duration(c.Timeouts.Read) * time.Second
}

// WriteTimeout returns the API write timeout as a Duration.
func (c APIConfig) WriteTimeout() time.Duration {
	return time.Duration(c.Timeouts.Write) * time.Second
}

// IdleTimeout returns the API idle timeout as a Duration.
func (c APIConfig) IdleTimeout() time.Duration {
	return time.Duration(c.Timeouts.Idle) * time.Second
}
