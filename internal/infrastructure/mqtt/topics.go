package mqtt

import "fmt"

// DefaultTopicPrefix is used when no prefix is configured.
const DefaultTopicPrefix = "hydrochat"

// Topics builds hydrochat MQTT topics under a common prefix.
//
//	topics := mqtt.NewTopics("hydrochat")
//	topics.Event("message", "created") // hydrochat/event/message/created
type Topics struct {
	prefix string
}

// NewTopics returns a builder for prefix, falling back to DefaultTopicPrefix.
func NewTopics(prefix string) Topics {
	if prefix == "" {
		prefix = DefaultTopicPrefix
	}
	return Topics{prefix: prefix}
}

// Prefix returns the root of every topic built.
func (t Topics) Prefix() string {
	return t.prefix
}

// Event returns the topic for a change to an entity.
//
// Example: hydrochat/event/poll/voted
func (t Topics) Event(entity, action string) string {
	return fmt.Sprintf("%s/event/%s/%s", t.prefix, entity, action)
}

// SystemStatus returns the retained online/offline status topic.
//
// Example: hydrochat/system/status
func (t Topics) SystemStatus() string {
	return fmt.Sprintf("%s/system/status", t.prefix)
}
