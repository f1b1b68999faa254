// Package influxdb provides InfluxDB connectivity for hydrochat.
//
// It wraps the official influxdb-client-go v2 library for connection
// management, metric writing, and health monitoring.
//
// Two measurements are written:
//   - api_requests: one point per served HTTP request (method, route, status)
//   - api_events: one point per store change, written by the events package
//
// # Usage
//
//	client, err := influxdb.Connect(cfg.InfluxDB)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	client.WriteRequestMetric("GET", "/messages", 200, elapsed)
//
// # Thread Safety
//
// All methods are safe for concurrent use from multiple goroutines.
// The underlying write API uses non-blocking batched writes; failures are
// delivered through the callback registered with SetOnError.
package influxdb
