package influxdb

import "errors"

var (
	// ErrDisabled is returned by Connect when influxdb.enabled is false.
	ErrDisabled = errors.New("influxdb: disabled")

	// ErrConnectionFailed wraps the ping failure seen by Connect.
	ErrConnectionFailed = errors.New("influxdb: connection failed")

	// ErrNotConnected is returned by HealthCheck after Close.
	ErrNotConnected = errors.New("influxdb: not connected")
)
