// Package events announces store changes to external systems.
//
// Handlers publish an Event after a successful mutation. The Bus fans each
// event out to its sinks (MQTT, InfluxDB). A failing sink is logged and
// never fails the request that produced the event.
package events
