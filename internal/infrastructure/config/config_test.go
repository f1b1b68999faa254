package config

import (
	"os"
	"path/filepath"
	"testing"
)

// clearEnv blanks every variable applyEnvOverrides reads so the host
// environment cannot leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"HYDROCHAT_DATABASE_PATH", "HYDROCHAT_API_HOST", "HYDROCHAT_API_PORT", "PORT",
		"HYDROCHAT_AUTH_ADMIN_KEY", "ADMIN_KEY", "HYDROCHAT_MQTT_HOST",
		"HYDROCHAT_MQTT_USERNAME", "HYDROCHAT_MQTT_PASSWORD",
		"HYDROCHAT_INFLUXDB_TOKEN", "HYDROCHAT_LOGGING_LEVEL",
	} {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
database:
  path: "/tmp/test.db"
  wal_mode: true
  busy_timeout: 5
api:
  host: "127.0.0.1"
  port: 8080
auth:
  header: "x-admin-key"
  admin_key: "from-file"
mqtt:
  broker:
    host: "broker.local"
  qos: 1
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Database.Path != "/tmp/test.db" {
		t.Errorf("Database.Path = %q, want %q", cfg.Database.Path, "/tmp/test.db")
	}
	if cfg.Address() != "127.0.0.1:8080" {
		t.Errorf("Address() = %q, want %q", cfg.Address(), "127.0.0.1:8080")
	}
	if cfg.Auth.Header != "x-admin-key" {
		t.Errorf("Auth.Header = %q, want %q", cfg.Auth.Header, "x-admin-key")
	}
	if cfg.Auth.AdminKey != "from-file" {
		t.Errorf("Auth.AdminKey = %q, want %q", cfg.Auth.AdminKey, "from-file")
	}
	if cfg.MQTT.Broker.Host != "broker.local" {
		t.Errorf("MQTT.Broker.Host = %q, want %q", cfg.MQTT.Broker.Host, "broker.local")
	}
	// Untouched sections keep their defaults.
	if cfg.Service.Title != "Hello SQLite (blank)" {
		t.Errorf("Service.Title = %q, want default", cfg.Service.Title)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("Load() expected error for missing file, got nil")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "invalid: [yaml: content")

	_, err := Load(path)
	if err == nil {
		t.Error("Load() expected error for invalid YAML, got nil")
	}
}

func TestLoad_ValidationFailure(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
database:
  path: ""
api:
  port: 8080
`)

	_, err := Load(path)
	if err == nil {
		t.Error("Load() expected validation error, got nil")
	}
}

func TestFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "4321")
	t.Setenv("ADMIN_KEY", "legacy-secret")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv() error = %v", err)
	}

	if cfg.API.Port != 4321 {
		t.Errorf("API.Port = %d, want 4321", cfg.API.Port)
	}
	if cfg.Auth.AdminKey != "legacy-secret" {
		t.Errorf("Auth.AdminKey = %q, want %q", cfg.Auth.AdminKey, "legacy-secret")
	}
}

func TestFromEnv_InvalidPort(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "not-a-port")

	if _, err := FromEnv(); err == nil {
		t.Error("FromEnv() expected error for non-numeric PORT, got nil")
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config { return defaultConfig() }

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}, wantErr: false},
		{name: "missing database path", mutate: func(c *Config) { c.Database.Path = "" }, wantErr: true},
		{name: "invalid port low", mutate: func(c *Config) { c.API.Port = 0 }, wantErr: true},
		{name: "invalid port high", mutate: func(c *Config) { c.API.Port = 70000 }, wantErr: true},
		{name: "tls without files", mutate: func(c *Config) { c.API.TLS.Enabled = true }, wantErr: true},
		{name: "missing auth header", mutate: func(c *Config) { c.Auth.Header = "" }, wantErr: true},
		{name: "empty admin key allowed", mutate: func(c *Config) { c.Auth.AdminKey = "" }, wantErr: false},
		{name: "invalid QoS", mutate: func(c *Config) { c.MQTT.QoS = 3 }, wantErr: true},
		{
			name: "mqtt enabled without prefix",
			mutate: func(c *Config) {
				c.MQTT.Enabled = true
				c.MQTT.TopicPrefix = ""
			},
			wantErr: true,
		},
		{name: "influx enabled without url", mutate: func(c *Config) { c.InfluxDB.Enabled = true }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestAPIConfig_Timeouts(t *testing.T) {
	cfg := &Config{
		API: APIConfig{
			Timeouts: APITimeoutConfig{
				Read:  30,
				Write: 45,
				Idle:  60,
			},
		},
	}

	if got := cfg.API.ReadTimeout().Seconds(); got != 30 {
		t.Errorf("ReadTimeout() = %v, want 30", got)
	}

	if got := cfg.API.WriteTimeout().Seconds(); got != 45 {
		t.Errorf("WriteTimeout() = %v, want 45", got)
	}

	if got := cfg.API.IdleTimeout().Seconds(); got != 60 {
		t.Errorf("IdleTimeout() = %v, want 60", got)
	}

	cfg.API.Host, cfg.API.Port = "127.0.0.1", 3000
	if got := cfg.API.Address(); got != cfg.Address() || got != "127.0.0.1:3000" {
		t.Errorf("API.Address() = %q, Address() = %q", got, cfg.Address())
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	clearEnv(t)
	cfg := defaultConfig()

	t.Setenv("HYDROCHAT_DATABASE_PATH", "/custom/path.db")
	t.Setenv("HYDROCHAT_API_HOST", "192.168.1.1")
	t.Setenv("HYDROCHAT_API_PORT", "9090")
	t.Setenv("PORT", "1111")
	t.Setenv("HYDROCHAT_AUTH_ADMIN_KEY", "namespaced")
	t.Setenv("ADMIN_KEY", "legacy")
	t.Setenv("HYDROCHAT_MQTT_HOST", "mqtt.example.com")
	t.Setenv("HYDROCHAT_MQTT_USERNAME", "testuser")
	t.Setenv("HYDROCHAT_MQTT_PASSWORD", "testpass")
	t.Setenv("HYDROCHAT_INFLUXDB_TOKEN", "secret-token")
	t.Setenv("HYDROCHAT_LOGGING_LEVEL", "debug")

	if err := applyEnvOverrides(cfg); err != nil {
		t.Fatalf("applyEnvOverrides() error = %v", err)
	}

	if cfg.Database.Path != "/custom/path.db" {
		t.Errorf("Database.Path = %q, want %q", cfg.Database.Path, "/custom/path.db")
	}
	if cfg.API.Host != "192.168.1.1" {
		t.Errorf("API.Host = %q, want %q", cfg.API.Host, "192.168.1.1")
	}
	// The namespaced variables take precedence over the legacy ones.
	if cfg.API.Port != 9090 {
		t.Errorf("API.Port = %d, want 9090", cfg.API.Port)
	}
	if cfg.Auth.AdminKey != "namespaced" {
		t.Errorf("Auth.AdminKey = %q, want %q", cfg.Auth.AdminKey, "namespaced")
	}
	if cfg.MQTT.Broker.Host != "mqtt.example.com" {
		t.Errorf("MQTT.Broker.Host = %q, want %q", cfg.MQTT.Broker.Host, "mqtt.example.com")
	}
	if cfg.MQTT.Auth.Username != "testuser" {
		t.Errorf("MQTT.Auth.Username = %q, want %q", cfg.MQTT.Auth.Username, "testuser")
	}
	if cfg.MQTT.Auth.Password != "testpass" {
		t.Errorf("MQTT.Auth.Password = %q, want %q", cfg.MQTT.Auth.Password, "testpass")
	}
	if cfg.InfluxDB.Token != "secret-token" {
		t.Errorf("InfluxDB.Token = %q, want %q", cfg.InfluxDB.Token, "secret-token")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Database.Path == "" {
		t.Error("defaultConfig should have non-empty Database.Path")
	}
	if cfg.Auth.Header != "admin_key" {
		t.Errorf("defaultConfig Auth.Header = %q, want admin_key", cfg.Auth.Header)
	}
	if cfg.Auth.AdminKey != "" {
		t.Error("defaultConfig must not ship an admin key")
	}
	if cfg.MQTT.Enabled || cfg.InfluxDB.Enabled {
		t.Error("defaultConfig should leave MQTT and InfluxDB disabled")
	}
	if cfg.API.Port != 3000 {
		t.Errorf("defaultConfig API.Port = %d, want 3000", cfg.API.Port)
	}
}
