package mqtt

import (
	"crypto/tls"
	"encoding/json"
	"fmt"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/nerrad567/hydrochat/internal/infrastructure/config"
)

// Connection constants.
const (
	// defaultConnectTimeout is the maximum time to wait for initial connection.
	defaultConnectTimeout = 10 * time.Second

	// defaultPublishTimeout is the maximum time to wait for publish acknowledgment.
	defaultPublishTimeout = 5 * time.Second

	// defaultDisconnectQuiesce is the time to wait for pending operations on disconnect.
	defaultDisconnectQuiesce = 1000 // milliseconds

	// defaultKeepAlive is the keepalive interval for the connection.
	defaultKeepAlive = 60 * time.Second

	// maxQoS is the maximum QoS level supported.
	maxQoS = 2

	// tlsMinVersion is the minimum TLS version for secure connections.
	tlsMinVersion = tls.VersionTLS12
)

// brokerURL returns tcp:// or ssl:// depending on the TLS setting.
func brokerURL(cfg config.MQTTConfig) string {
	scheme := "tcp"
	if cfg.Broker.TLS {
		scheme = "ssl"
	}
	return fmt.Sprintf("%s://%s:%d", scheme, cfg.Broker.Host, cfg.Broker.Port)
}

// buildClientOptions creates paho MQTT options from hydrochat config.
//
// The initial connect fails fast so a missing broker surfaces at startup;
// once connected, auto-reconnect with exponential backoff takes over.
func buildClientOptions(cfg config.MQTTConfig) *pahomqtt.ClientOptions {
	opts := pahomqtt.NewClientOptions()
	opts.AddBroker(brokerURL(cfg))
	opts.SetClientID(cfg.Broker.ClientID)

	if cfg.Auth.Username != "" {
		opts.SetUsername(cfg.Auth.Username)
		opts.SetPassword(cfg.Auth.Password)
	}

	opts.SetCleanSession(true)

	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(false)
	opts.SetConnectRetryInterval(time.Duration(cfg.Reconnect.InitialDelay) * time.Second)
	opts.SetMaxReconnectInterval(time.Duration(cfg.Reconnect.MaxDelay) * time.Second)

	opts.SetConnectTimeout(defaultConnectTimeout)
	opts.SetKeepAlive(defaultKeepAlive)

	if cfg.Broker.TLS {
		opts.SetTLSConfig(&tls.Config{
			MinVersion: tlsMinVersion,
		})
	}

	return opts
}

// configureLWT sets up Last Will and Testament for offline detection.
//
// The broker publishes the will if hydrochat disconnects unexpectedly.
//
// Topic: <prefix>/system/status
// QoS: 1
// Retained: true
func configureLWT(opts *pahomqtt.ClientOptions, topics Topics, clientID string) {
	payload := statusPayload{
		Status:    "offline",
		ClientID:  clientID,
		Reason:    "unexpected_disconnect",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	opts.SetWill(topics.SystemStatus(), payload.String(), 1, true)
}

// statusPayload is the retained body published on the system status topic.
type statusPayload struct {
	Status    string `json:"status"`
	ClientID  string `json:"client_id"`
	Reason    string `json:"reason,omitempty"`
	Timestamp string `json:"timestamp"`
}

func (p statusPayload) String() string {
	data, err := json.Marshal(p)
	if err != nil {
		return `{"status":"` + p.Status + `"}`
	}
	return string(data)
}

// buildOnlinePayload creates the JSON payload for online status messages.
func buildOnlinePayload(clientID string) string {
	return statusPayload{
		Status:    "online",
		ClientID:  clientID,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}.String()
}

// buildOfflinePayload creates the JSON payload for graceful offline status.
func buildOfflinePayload(clientID string) string {
	return statusPayload{
		Status:    "offline",
		ClientID:  clientID,
		Reason:    "graceful_shutdown",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}.String()
}
