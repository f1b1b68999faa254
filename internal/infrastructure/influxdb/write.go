package influxdb

import (
	"strconv"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// MeasurementRequests holds one point per served HTTP request.
const MeasurementRequests = "api_requests"

// WriteRequestMetric records one served HTTP request.
//
// The route is the chi route pattern, not the raw path, so cardinality
// stays bounded by the number of registered routes.
//
// Example:
//
//	client.WriteRequestMetric("GET", "/messages", 200, 3*time.Millisecond)
func (c *Client) WriteRequestMetric(method, route string, status int, duration time.Duration) {
	if !c.IsConnected() {
		return
	}
	c.writeAPI.WritePoint(requestPoint(method, route, status, duration, time.Now()))
}

// WritePointWithTime writes a custom point with a specific timestamp.
//
// Use this when the timestamp is not "now", e.g. when an event carries
// the time it happened.
func (c *Client) WritePointWithTime(measurement string, tags map[string]string, fields map[string]interface{}, timestamp time.Time) {
	if !c.IsConnected() {
		return
	}
	c.writeAPI.WritePoint(write.NewPoint(measurement, tags, fields, timestamp))
}

func requestPoint(method, route string, status int, duration time.Duration, ts time.Time) *write.Point {
	if route == "" {
		route = "unmatched"
	}
	return write.NewPoint(
		MeasurementRequests,
		map[string]string{
			"method": method,
			"route":  route,
			"status": strconv.Itoa(status),
		},
		map[string]interface{}{
			"duration_ms": float64(duration.Microseconds()) / 1000,
			"count":       1,
		},
		ts,
	)
}
