package mqtt

import "fmt"

// TopicPrefix is the base of every topic this program publishes to.
const TopicPrefix = "ebus"

// Topics provides builders for this program's MQTT topics. Using
// these helpers ensures consistent topic naming across the codebase.
//
// Every per-bus topic is scoped under a bus ID (the serial device's
// logical name, e.g. "heating-01") so one broker can carry more than
// one ebusd instance without collision.
//
//	topics := mqtt.Topics{}
//	telegramTopic := topics.Telegram("heating-01")
//	// Returns: "ebus/heating-01/telegram"
type Topics struct{}

// Telegram returns the topic a completed telegram (passive, reactive,
// or active) is published to.
//
// Example: ebus/heating-01/telegram
func (Topics) Telegram(busID string) string {
	return fmt.Sprintf("%s/%s/telegram", TopicPrefix, busID)
}

// Error returns the topic framing/acknowledgement errors and reset
// conditions are published to.
//
// Example: ebus/heating-01/error
func (Topics) Error(busID string) string {
	return fmt.Sprintf("%s/%s/error", TopicPrefix, busID)
}

// Health returns the topic periodic liveness/connectivity status is
// published to, retained so new subscribers see the last known state.
//
// Example: ebus/heating-01/health
func (Topics) Health(busID string) string {
	return fmt.Sprintf("%s/%s/health", TopicPrefix, busID)
}

// Stats returns the topic periodic counter/timing snapshots are
// published to.
//
// Example: ebus/heating-01/stats
func (Topics) Stats(busID string) string {
	return fmt.Sprintf("%s/%s/stats", TopicPrefix, busID)
}

// SystemStatus returns the process-wide online/offline status topic
// used for the Last Will and Testament, independent of any one bus.
//
// Example: ebus/system/status
func (Topics) SystemStatus() string {
	return fmt.Sprintf("%s/system/status", TopicPrefix)
}
