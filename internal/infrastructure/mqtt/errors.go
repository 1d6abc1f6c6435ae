package mqtt

import "errors"

// Sentinel errors for the outbound client; check with errors.Is.
var (
	// ErrConnectionFailed is returned by Connect when the broker
	// handshake does not complete in time.
	ErrConnectionFailed = errors.New("mqtt: connection failed")

	// ErrNotConnected is returned by Publish while the session is down;
	// the reporter logs and drops the event rather than queueing it.
	ErrNotConnected = errors.New("mqtt: client not connected")

	// ErrPublishFailed wraps a broker-side publish failure or timeout.
	ErrPublishFailed = errors.New("mqtt: publish failed")

	// ErrInvalidTopic is returned for an empty topic.
	ErrInvalidTopic = errors.New("mqtt: topic cannot be empty")

	// ErrInvalidQoS is returned for a QoS level above 2.
	ErrInvalidQoS = errors.New("mqtt: invalid QoS level (must be 0, 1, or 2)")
)
