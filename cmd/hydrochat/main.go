// hydrochat serves chat messages, hydrometric stations, water levels and a
// small language poll over a JSON HTTP API backed by a single SQLite file.
//
// Commands:
//
//	hydrochat [serve]   run the API until SIGINT/SIGTERM
//	hydrochat init-db   create and seed the store, then exit
//	hydrochat version   print build information
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/nerrad567/hydrochat/internal/api"
	"github.com/nerrad567/hydrochat/internal/audit"
	"github.com/nerrad567/hydrochat/internal/chat"
	"github.com/nerrad567/hydrochat/internal/events"
	"github.com/nerrad567/hydrochat/internal/hydro"
	"github.com/nerrad567/hydrochat/internal/infrastructure/config"
	"github.com/nerrad567/hydrochat/internal/infrastructure/database"
	"github.com/nerrad567/hydrochat/internal/infrastructure/influxdb"
	"github.com/nerrad567/hydrochat/internal/infrastructure/logging"
	"github.com/nerrad567/hydrochat/internal/infrastructure/mqtt"
	"github.com/nerrad567/hydrochat/internal/poll"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

const (
	// defaultConfigPath is used when neither --config nor HYDROCHAT_CONFIG is set.
	defaultConfigPath = "configs/config.yaml"

	// envConfigPath names the environment variable holding the config path.
	envConfigPath = "HYDROCHAT_CONFIG"
)

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		cancel()
		os.Exit(1) //nolint:gocritic // cancel called explicitly above
	}
}

// newRootCmd builds the command tree. The root command behaves like serve.
func newRootCmd() *cobra.Command {
	var configPath string

	serve := func(cmd *cobra.Command, _ []string) error {
		return run(cmd.Context(), configPath)
	}

	root := &cobra.Command{
		Use:           "hydrochat",
		Short:         "Database-backed chat and hydrometric data API",
		Version:       versionString(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "",
		"path to config.yaml (default $"+envConfigPath+" or "+defaultConfigPath+")")

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API until interrupted",
		Args:  cobra.NoArgs,
		RunE:  serve,
	})

	root.AddCommand(&cobra.Command{
		Use:   "init-db",
		Short: "Create and seed the store if it does not exist yet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return initDB(cmd.Context(), cmd.OutOrStdout(), configPath)
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "hydrochat "+versionString())
		},
	})

	return root
}

func versionString() string {
	return fmt.Sprintf("%s (commit %s, built %s)", version, commit, date)
}

// run is the actual application logic, separated from main for testability.
// It blocks until ctx is cancelled, then shuts everything down in reverse order.
func run(ctx context.Context, configPath string) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info().
		Str("version", version).
		Str("commit", commit).
		Str("build_date", date).
		Msg("starting hydrochat")

	cfg, source, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info().
		Str("source", source).
		Str("level", cfg.Logging.Level).
		Str("format", cfg.Logging.Format).
		Msg("configuration loaded")

	db, created, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		log.Info().Msg("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("error closing database")
		}
	}()
	log.Info().
		Str("path", db.Path()).
		Bool("created", created).
		Msg("database ready")

	auditRepo := audit.NewSQLiteRepository(db.DB)
	bus := events.NewBus(log.With("events"), audit.NewSink(auditRepo))

	// Connect to MQTT broker (optional)
	var mqttClient *mqtt.Client
	if cfg.MQTT.Enabled {
		mqttClient, err = mqtt.Connect(cfg.MQTT)
		if err != nil {
			return fmt.Errorf("connecting to MQTT: %w", err)
		}
		defer func() {
			log.Info().Msg("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error().Err(closeErr).Msg("error closing MQTT")
			}
		}()
		mqttClient.SetOnDisconnect(func(err error) {
			log.Warn().Err(err).Msg("MQTT connection lost")
		})
		mqttClient.SetOnConnect(func() {
			log.Info().Msg("MQTT session established")
		})
		bus.Add(events.NewMQTTSink(mqttClient, mqttClient.Topics().Event, byte(cfg.MQTT.QoS)))
		log.Info().
			Str("broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port)).
			Str("client_id", cfg.MQTT.Broker.ClientID).
			Str("topic_prefix", mqttClient.Topics().Prefix()).
			Msg("MQTT connected")
	} else {
		log.Info().Msg("MQTT disabled")
	}

	// Connect to InfluxDB (optional)
	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info().Msg("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error().Err(closeErr).Msg("error closing InfluxDB")
			}
		}()
		influxClient.SetOnError(func(err error) {
			log.Error().Err(err).Msg("InfluxDB write error")
		})
		bus.Add(events.NewInfluxSink(influxClient))
		log.Info().
			Str("url", cfg.InfluxDB.URL).
			Str("org", cfg.InfluxDB.Org).
			Str("bucket", cfg.InfluxDB.Bucket).
			Msg("InfluxDB connected")
	} else {
		log.Info().Msg("InfluxDB disabled")
	}

	deps := api.Deps{
		Config:   cfg.API,
		Auth:     cfg.Auth,
		Service:  cfg.Service,
		Logger:   log.With("api"),
		DB:       db,
		Messages: chat.NewSQLiteRepository(db.DB),
		Poll:     poll.NewSQLiteRepository(db.DB),
		Hydro:    hydro.NewSQLiteRepository(db.DB),
		Audit:    auditRepo,
		Events:   bus,
		Version:  version,
	}
	if influxClient != nil {
		deps.Metrics = influxClient
	}
	if cfg.Auth.AdminKey == "" {
		log.Warn().Msg("no admin key configured; every write will be rejected")
	}

	server, err := api.New(deps)
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("error closing API server")
		}
	}()

	if err := healthCheck(ctx, db, mqttClient, influxClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info().
		Str("address", cfg.Address()).
		Int("routes", len(server.Routes())).
		Int("event_sinks", bus.Len()).
		Msg("hydrochat started")

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	// Deferred Close() calls run in reverse order:
	// API server, InfluxDB, MQTT, database.
	return nil
}

// initDB creates and seeds the store, reporting what it did on out.
func initDB(ctx context.Context, out io.Writer, configPath string) error {
	cfg, _, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	db, created, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close() //nolint:errcheck // Read-only after EnsureSchema

	status := color.New(color.FgYellow).Sprint("already exists")
	if created {
		status = color.New(color.FgGreen).Sprint("created and seeded")
	}
	fmt.Fprintf(out, "store %s: %s\n", db.Path(), status)
	return nil
}

// openStore opens the database and ensures its schema.
func openStore(ctx context.Context, cfg *config.Config) (*database.DB, bool, error) {
	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return nil, false, fmt.Errorf("opening database: %w", err)
	}

	created, err := db.EnsureSchema(ctx)
	if err != nil {
		db.Close() //nolint:errcheck // Already failing
		return nil, false, fmt.Errorf("initialising schema: %w", err)
	}
	return db, created, nil
}

// getConfigPath returns the configuration file path.
// The --config flag wins, then HYDROCHAT_CONFIG, then the default.
func getConfigPath(flagPath string) string {
	if flagPath != "" {
		return flagPath
	}
	if path := os.Getenv(envConfigPath); path != "" {
		return path
	}
	return defaultConfigPath
}

// loadConfig loads the YAML config. When no path was given explicitly and
// the default file is absent, configuration comes from the environment alone.
// The second return value describes where the config came from.
func loadConfig(flagPath string) (*config.Config, string, error) {
	path := getConfigPath(flagPath)
	explicit := flagPath != "" || os.Getenv(envConfigPath) != ""

	if !explicit {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			cfg, err := config.FromEnv()
			return cfg, "environment", err
		}
	}

	cfg, err := config.Load(path)
	return cfg, path, err
}

// healthCheck verifies all infrastructure connections are healthy.
// MQTT and InfluxDB clients may be nil when disabled.
func healthCheck(ctx context.Context, db *database.DB, mqttClient *mqtt.Client, influxClient *influxdb.Client) error {
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	if mqttClient != nil {
		if err := mqttClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("mqtt: %w", err)
		}
	}

	if influxClient != nil {
		if err := influxClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}

	return nil
}
