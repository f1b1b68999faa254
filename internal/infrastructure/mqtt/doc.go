// Package mqtt provides the MQTT publisher used to announce hydrochat events.
//
// This package manages:
//   - Connection to the broker with auto-reconnect
//   - Message publishing with QoS guarantees
//   - Last Will and Testament (LWT) for offline detection
//   - Connection health monitoring
//
// Every topic lives under a configurable prefix (default "hydrochat"):
//
//	hydrochat/system/status             retained online/offline status
//	hydrochat/event/<entity>/<action>   one message per store change
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	topic := client.Topics().Event("message", "created")
//	client.Publish(topic, []byte(`{"id":6}`), 1, false)
package mqtt
