// Package logging provides structured logging for hydrochat.
//
// It wraps github.com/rs/zerolog so every component logs with the same
// default fields and level filter.
//
// # Configuration
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stdout"   # stdout, stderr
//
// # Usage
//
//	logger := logging.New(cfg.Logging, "1.0.0")
//	logger.Info().Int("port", 3000).Msg("starting service")
//	logger.Error().Err(err).Msg("failed to open store")
//
// Never log the admin key or MQTT/InfluxDB credentials.
package logging
