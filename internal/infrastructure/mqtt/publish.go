package mqtt

import "fmt"

// Publish sends one message and waits for the broker's acknowledgement
// (per qos), up to publishTimeout. payload is one of the reporter's
// JSON events; retained is set for the health and stats snapshots so a
// late subscriber immediately sees the last known state, and left
// clear for telegram/error events, which are a stream, not a state.
func (c *Client) Publish(topic string, payload []byte, qos byte, retained bool) error {
	if topic == "" {
		return ErrInvalidTopic
	}
	if qos > maxQoS {
		return ErrInvalidQoS
	}
	if !c.IsConnected() {
		return ErrNotConnected
	}

	token := c.client.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("%w: timeout after %v", ErrPublishFailed, publishTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}

	return nil
}
