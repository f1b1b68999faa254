package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/nerrad567/hydrochat/internal/audit"
	"github.com/nerrad567/hydrochat/internal/chat"
	"github.com/nerrad567/hydrochat/internal/events"
	"github.com/nerrad567/hydrochat/internal/hydro"
	"github.com/nerrad567/hydrochat/internal/infrastructure/config"
	"github.com/nerrad567/hydrochat/internal/infrastructure/database"
	"github.com/nerrad567/hydrochat/internal/infrastructure/logging"
	"github.com/nerrad567/hydrochat/internal/poll"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// RequestRecorder receives one sample per served request.
// It is satisfied by *influxdb.Client.
type RequestRecorder interface {
	WriteRequestMetric(method, route string, status int, duration time.Duration)
}

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config   config.APIConfig
	Auth     config.AuthConfig
	Service  config.ServiceConfig
	Logger   *logging.Logger
	DB       *database.DB
	Messages chat.Repository
	Poll     poll.Repository
	Hydro    hydro.Repository
	Audit    audit.Repository
	Events   events.Publisher // optional
	Metrics  RequestRecorder  // optional
	Version  string
}

// Server is the HTTP API server for hydrochat.
//
// It is created with New(), which builds the router, and started with Start().
type Server struct {
	cfg      config.APIConfig
	auth     config.AuthConfig
	service  config.ServiceConfig
	logger   *logging.Logger
	db       *database.DB
	messages chat.Repository
	poll     poll.Repository
	hydro    hydro.Repository
	audit    audit.Repository
	events   events.Publisher
	metrics  RequestRecorder
	version  string
	validate *validator.Validate

	handler http.Handler

	// routes lists "METHOD /path" in registration order for the root descriptor.
	routes   []string
	routesMu sync.RWMutex

	server    *http.Server
	startTime time.Time
}

// New creates a new API server with the given dependencies.
//
// The store must have been opened and its schema ensured; a handle that is
// not ready is rejected with database.ErrNotReady.
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if deps.DB == nil {
		return nil, errors.New("database is required")
	}
	if !deps.DB.Ready() {
		return nil, database.ErrNotReady
	}
	if deps.Messages == nil || deps.Poll == nil || deps.Hydro == nil || deps.Audit == nil {
		return nil, errors.New("message, poll, hydro and audit repositories are required")
	}

	s := &Server{
		cfg:       deps.Config,
		auth:      deps.Auth,
		service:   deps.Service,
		logger:    deps.Logger,
		db:        deps.DB,
		messages:  deps.Messages,
		poll:      deps.Poll,
		hydro:     deps.Hydro,
		audit:     deps.Audit,
		events:    deps.Events,
		metrics:   deps.Metrics,
		version:   deps.Version,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		startTime: time.Now(),
	}
	s.handler = s.buildRouter()

	return s, nil
}

// publish forwards ev to the configured publisher, if any. The write has
// already committed, so a client hanging up must not cancel delivery.
func (s *Server) publish(ctx context.Context, ev events.Event) {
	if s.events != nil {
		s.events.Publish(context.WithoutCancel(ctx), ev)
	}
}

// Handler returns the fully wired router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Routes returns the registered routes in registration order.
func (s *Server) Routes() []string {
	s.routesMu.RLock()
	defer s.routesMu.RUnlock()
	out := make([]string, len(s.routes))
	copy(out, s.routes)
	return out
}

// Start begins listening for HTTP connections in a background goroutine.
// The server can be stopped with Close().
func (s *Server) Start(_ context.Context) error {
	s.server = &http.Server{
		Addr:              s.cfg.Address(),
		Handler:           s.handler,
		ReadTimeout:       s.cfg.ReadTimeout(),
		ReadHeaderTimeout: s.cfg.ReadTimeout(),
		WriteTimeout:      s.cfg.WriteTimeout(),
		IdleTimeout:       s.cfg.IdleTimeout(),
	}

	go func() {
		var err error
		if s.cfg.TLS.Enabled {
			s.logger.Info().
				Str("address", s.server.Addr).
				Str("cert", s.cfg.TLS.CertFile).
				Msg("API server starting with TLS")
			err = s.server.ListenAndServeTLS(s.cfg.TLS.CertFile, s.cfg.TLS.KeyFile)
		} else {
			s.logger.Info().Str("address", s.server.Addr).Msg("API server starting")
			err = s.server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error().Err(err).Msg("API server error")
		}
	}()

	return nil
}

// Close gracefully shuts down the API server.
//
// It waits up to 10 seconds for in-flight requests to complete,
// then forcefully closes remaining connections.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info().Msg("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}

// HealthCheck verifies the API server is running and its store is reachable.
func (s *Server) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("api health check: %w", ctx.Err())
	default:
	}

	if s.server == nil {
		return errors.New("api server not started")
	}
	return s.db.HealthCheck(ctx)
}
