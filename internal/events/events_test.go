package events

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerrad567/hydrochat/internal/infrastructure/config"
	"github.com/nerrad567/hydrochat/internal/infrastructure/logging"
)

type fakeMQTT struct {
	mu       sync.Mutex
	topics   []string
	payloads [][]byte
	qos      byte
	err      error
}

func (f *fakeMQTT) Publish(topic string, payload []byte, qos byte, _ bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.topics = append(f.topics, topic)
	f.payloads = append(f.payloads, payload)
	f.qos = qos
	return nil
}

type point struct {
	measurement string
	tags        map[string]string
	fields      map[string]interface{}
	ts          time.Time
}

type fakeWriter struct {
	points []point
}

func (f *fakeWriter) WritePointWithTime(m string, tags map[string]string, fields map[string]interface{}, ts time.Time) {
	f.points = append(f.points, point{m, tags, fields, ts})
}

type recordingSink struct {
	name string
	got  []Event
	err  error
}

func (r *recordingSink) Name() string { return r.name }

func (r *recordingSink) Handle(_ context.Context, ev Event) error {
	r.got = append(r.got, ev)
	return r.err
}

func testTopic(entity, action string) string {
	return "hydrochat/event/" + entity + "/" + action
}

func TestEventType(t *testing.T) {
	ev := New(EntityMessage, ActionCreated, 6, nil)
	assert.Equal(t, "message.created", ev.Type())
	assert.Equal(t, time.UTC, ev.Time.Location())
}

func TestBus_FansOutInOrder(t *testing.T) {
	a := &recordingSink{name: "a"}
	b := &recordingSink{name: "b"}
	bus := NewBus(logging.Nop(), a)
	bus.Add(b)
	require.Equal(t, 2, bus.Len())

	ev := New(EntityPoll, ActionVoted, 0, map[string]any{"language": "Go"})
	bus.Publish(context.Background(), ev)

	require.Len(t, a.got, 1)
	require.Len(t, b.got, 1)
	assert.Equal(t, ev, a.got[0])
	assert.Equal(t, ev, b.got[0])
}

func TestBus_SinkErrorDoesNotStopDelivery(t *testing.T) {
	var buf bytes.Buffer
	log := logging.NewWithWriter(config.LoggingConfig{Level: "debug", Format: "json"}, "test", &buf)

	failing := &recordingSink{name: "broken", err: errors.New("boom")}
	ok := &recordingSink{name: "ok"}
	bus := NewBus(log, failing, ok)

	bus.Publish(context.Background(), New(EntityMessage, ActionDeleted, 3, nil))

	assert.Len(t, ok.got, 1)
	assert.Contains(t, buf.String(), "event delivery failed")
	assert.Contains(t, buf.String(), `"sink":"broken"`)
}

func TestBus_NilIsNoop(t *testing.T) {
	var bus *Bus
	assert.NotPanics(t, func() {
		bus.Publish(context.Background(), New(EntityMessage, ActionCreated, 1, nil))
	})
	assert.Equal(t, 0, bus.Len())
}

func TestMQTTSink(t *testing.T) {
	client := &fakeMQTT{}
	sink := NewMQTTSink(client, testTopic, 1)

	ev := New(EntityMessage, ActionUpdated, 4, map[string]any{"message": "edited"})
	require.NoError(t, sink.Handle(context.Background(), ev))

	require.Len(t, client.topics, 1)
	assert.Equal(t, "hydrochat/event/message/updated", client.topics[0])
	assert.Equal(t, byte(1), client.qos)

	var body map[string]any
	require.NoError(t, json.Unmarshal(client.payloads[0], &body))
	assert.Equal(t, "message.updated", body["type"])
	assert.Equal(t, "message", body["entity"])
	assert.Equal(t, float64(4), body["id"])
	assert.Equal(t, "edited", body["attrs"].(map[string]any)["message"])
}

func TestMQTTSink_PublishError(t *testing.T) {
	client := &fakeMQTT{err: errors.New("not connected")}
	sink := NewMQTTSink(client, testTopic, 0)

	err := sink.Handle(context.Background(), New(EntityChoice, ActionCreated, 1, nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "choice.created")
}

func TestMQTTSink_CancelledContext(t *testing.T) {
	client := &fakeMQTT{}
	sink := NewMQTTSink(client, testTopic, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := sink.Handle(ctx, New(EntityChoice, ActionCreated, 1, nil))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, client.topics)
}

func TestInfluxSink(t *testing.T) {
	w := &fakeWriter{}
	sink := NewInfluxSink(w)

	ev := New(EntityPoll, ActionVoted, 0, map[string]any{
		"language": "Go",
		"picks":    int64(3),
	})
	require.NoError(t, sink.Handle(context.Background(), ev))

	require.Len(t, w.points, 1)
	p := w.points[0]
	assert.Equal(t, MeasurementEvents, p.measurement)
	assert.Equal(t, map[string]string{"type": "poll.voted", "entity": "poll"}, p.tags)
	assert.Equal(t, map[string]interface{}{"count": 1, "picks": int64(3)}, p.fields)
	assert.Equal(t, ev.Time, p.ts)
}
