package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/nerrad567/hydrochat/internal/infrastructure/config"
)

// serviceName is attached to every log entry.
const serviceName = "hydrochat"

// Logger wraps zerolog.Logger with hydrochat-specific defaults.
//
// Thread Safety:
//   - All methods are safe for concurrent use from multiple goroutines.
type Logger struct {
	zerolog.Logger
}

// New creates a new Logger with the specified configuration.
//
// It configures:
//   - Output format (JSON for production, console text for development)
//   - Log level filtering
//   - Default fields (service name, version, timestamp)
//   - Output destination
func New(cfg config.LoggingConfig, version string) *Logger {
	var output io.Writer
	switch strings.ToLower(cfg.Output) {
	case "stderr":
		output = os.Stderr
	default:
		output = os.Stdout
	}
	return NewWithWriter(cfg, version, output)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(cfg config.LoggingConfig, version string, output io.Writer) *Logger {
	if strings.ToLower(cfg.Format) == "text" {
		output = zerolog.ConsoleWriter{Out: output, TimeFormat: time.RFC3339}
	}

	zl := zerolog.New(output).
		Level(parseLevel(cfg.Level)).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", version).
		Logger()

	return &Logger{Logger: zl}
}

// parseLevel converts a string log level to a zerolog.Level.
//
// Supported levels: debug, info, warn, error
// Defaults to info if unrecognised.
func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// With returns a child Logger tagged with a component name.
//
// Example:
//
//	mqttLogger := logger.With("mqtt")
//	mqttLogger.Info().Msg("connected") // includes component=mqtt
func (l *Logger) With(component string) *Logger {
	return &Logger{
		Logger: l.Logger.With().Str("component", component).Logger(),
	}
}

// Default creates a default logger for use before configuration is loaded.
// It writes JSON to stdout at info level.
func Default() *Logger {
	return New(config.LoggingConfig{
		Level:  "info",
		Format: "json",
		Output: "stdout",
	}, "dev")
}

// Nop returns a Logger that discards everything. Useful in tests.
func Nop() *Logger {
	return &Logger{Logger: zerolog.Nop()}
}
