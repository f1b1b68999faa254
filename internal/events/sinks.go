package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// MQTTPublisher is the subset of the MQTT client used by MQTTSink.
type MQTTPublisher interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
}

// TopicFunc builds the topic for an entity/action pair.
type TopicFunc func(entity, action string) string

// MQTTSink publishes every event as JSON.
type MQTTSink struct {
	client MQTTPublisher
	topic  TopicFunc
	qos    byte
}

// NewMQTTSink creates a sink publishing through client.
func NewMQTTSink(client MQTTPublisher, topic TopicFunc, qos byte) *MQTTSink {
	return &MQTTSink{client: client, topic: topic, qos: qos}
}

// Name implements Sink.
func (s *MQTTSink) Name() string { return "mqtt" }

// Handle implements Sink.
func (s *MQTTSink) Handle(ctx context.Context, ev Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := json.Marshal(mqttPayload{Type: ev.Type(), Event: ev})
	if err != nil {
		return fmt.Errorf("encoding event: %w", err)
	}
	if err := s.client.Publish(s.topic(ev.Entity, ev.Action), payload, s.qos, false); err != nil {
		return fmt.Errorf("publishing %s: %w", ev.Type(), err)
	}
	return nil
}

type mqttPayload struct {
	Type string `json:"type"`
	Event
}

// PointWriter is the subset of the InfluxDB client used by InfluxSink.
type PointWriter interface {
	WritePointWithTime(measurement string, tags map[string]string, fields map[string]interface{}, ts time.Time)
}

// MeasurementEvents is the InfluxDB measurement events are written to.
const MeasurementEvents = "api_events"

// InfluxSink records one point per event.
type InfluxSink struct {
	writer PointWriter
}

// NewInfluxSink creates a sink writing through w.
func NewInfluxSink(w PointWriter) *InfluxSink {
	return &InfluxSink{writer: w}
}

// Name implements Sink.
func (s *InfluxSink) Name() string { return "influxdb" }

// Handle implements Sink. Writes are batched by the client, so Handle
// never reports a delivery error.
func (s *InfluxSink) Handle(_ context.Context, ev Event) error {
	s.writer.WritePointWithTime(MeasurementEvents,
		map[string]string{
			"type":   ev.Type(),
			"entity": ev.Entity,
		},
		pointFields(ev),
		ev.Time,
	)
	return nil
}

// pointFields copies numeric attributes into the point's fields.
func pointFields(ev Event) map[string]interface{} {
	fields := map[string]interface{}{"count": 1}
	for k, v := range ev.Attrs {
		switch n := v.(type) {
		case int:
			fields[k] = n
		case int64:
			fields[k] = n
		case float64:
			fields[k] = n
		}
	}
	return fields
}
