package influxdb

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"

	"github.com/nerrad567/hydrochat/internal/infrastructure/config"
)

const (
	connectTimeout = 10 * time.Second
	pingTimeout    = 5 * time.Second

	fallbackBatchSize     = 100
	fallbackFlushInterval = 10 * time.Second
)

// Client batches request and event points into one InfluxDB bucket.
// It is safe for concurrent use; writes never block the caller.
type Client struct {
	client   influxdb2.Client
	writeAPI api.WriteAPI

	mu        sync.RWMutex
	connected bool
	onError   func(err error)
}

// Connect pings the server and opens a batching write API for cfg.Bucket.
// It returns ErrDisabled when cfg.Enabled is false.
func Connect(cfg config.InfluxDBConfig) (*Client, error) {
	if !cfg.Enabled {
		return nil, ErrDisabled
	}

	client := influxdb2.NewClientWithOptions(cfg.URL, cfg.Token, clientOptions(cfg))

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	if err := ping(ctx, client); err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	c := &Client{
		client:    client,
		writeAPI:  client.WriteAPI(cfg.Org, cfg.Bucket),
		connected: true,
	}
	go c.forwardErrors(c.writeAPI.Errors())

	return c, nil
}

// clientOptions maps the batching settings, falling back when unset.
func clientOptions(cfg config.InfluxDBConfig) *influxdb2.Options {
	batch := fallbackBatchSize
	if cfg.BatchSize > 0 {
		batch = cfg.BatchSize
	}
	flush := fallbackFlushInterval
	if cfg.FlushInterval > 0 {
		flush = time.Duration(cfg.FlushInterval) * time.Second
	}

	// #nosec G115 -- both values are positive
	return influxdb2.DefaultOptions().
		SetBatchSize(uint(batch)).
		SetFlushInterval(uint(flush.Milliseconds()))
}

func ping(ctx context.Context, client influxdb2.Client) error {
	healthy, err := client.Ping(ctx)
	if err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	if !healthy {
		return errors.New("server not healthy")
	}
	return nil
}

// forwardErrors hands async write failures to the registered callback.
func (c *Client) forwardErrors(errs <-chan error) {
	for err := range errs {
		c.mu.RLock()
		cb := c.onError
		c.mu.RUnlock()

		if cb != nil {
			cb(err)
		}
	}
}

// Close flushes buffered points and releases the client.
func (c *Client) Close() error {
	if c.client == nil {
		return nil
	}

	c.mu.Lock()
	c.connected = false
	c.mu.Unlock()

	c.writeAPI.Flush()
	c.client.Close()
	return nil
}

// HealthCheck pings the server.
func (c *Client) HealthCheck(ctx context.Context) error {
	if !c.IsConnected() {
		return ErrNotConnected
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := ping(ctx, c.client); err != nil {
		return fmt.Errorf("influxdb health check: %w", err)
	}
	return nil
}

// IsConnected reports the last known state; it does not ping.
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// SetOnError registers the callback for async write failures.
func (c *Client) SetOnError(cb func(err error)) {
	c.mu.Lock()
	c.onError = cb
	c.mu.Unlock()
}

// Flush blocks until buffered points are sent. A closed client is a no-op.
func (c *Client) Flush() {
	if c.writeAPI == nil || !c.IsConnected() {
		return
	}
	c.writeAPI.Flush()
}
