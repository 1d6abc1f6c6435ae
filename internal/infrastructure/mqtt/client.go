package mqtt

import (
	"fmt"
	"sync"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/nerrad567/ebus-core/internal/infrastructure/config"
)

const (
	// connectTimeout bounds the initial broker handshake.
	connectTimeout = 10 * time.Second

	// publishTimeout bounds each publish acknowledgement wait.
	// Publishes are issued from the reporter's callbacks and ticker;
	// the callbacks run inline on the byte-feeding goroutine, so a slow
	// broker can hold that goroutine for up to this long per event.
	publishTimeout = 5 * time.Second

	// disconnectQuiesce is how long Close lets in-flight messages
	// drain, in milliseconds (paho's unit).
	disconnectQuiesce = 1000
)

// Client is ebusd's outbound MQTT connection. Telegrams, errors and
// health/stats snapshots flow out through Publish; nothing is ever
// subscribed — the bus side of ebusd is not remotely controllable, so
// consumers attach to the broker, not to this process. The client
// keeps itself connected through paho's auto-reconnect and carries a
// Last Will on the system status topic so consumers can tell a dead
// daemon from a quiet bus.
type Client struct {
	client pahomqtt.Client
	cfg    config.MQTTConfig

	connMu    sync.RWMutex
	connected bool

	loggerMu sync.RWMutex
	logger   Logger
}

// Logger is satisfied by *logging.Logger.
type Logger interface {
	Error(msg string, args ...any)
	Warn(msg string, args ...any)
}

// Connect dials the broker described by cfg and blocks until the
// session is established or connectTimeout expires. The online
// announcement on the system status topic is published by the
// OnConnect handler, which may still be pending when Connect returns.
func Connect(cfg config.MQTTConfig) (*Client, error) {
	c := &Client{cfg: cfg}

	opts := buildClientOptions(cfg)
	opts.SetOnConnectHandler(func(_ pahomqtt.Client) { c.handleConnect() })
	opts.SetConnectionLostHandler(func(_ pahomqtt.Client, err error) { c.handleConnectionLost(err) })

	c.client = pahomqtt.NewClient(opts)
	token := c.client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("%w: timeout after %v", ErrConnectionFailed, connectTimeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	// The OnConnect handler runs asynchronously and may not have fired
	// yet; mark the session up here so IsConnected holds as soon as
	// Connect returns.
	c.setConnected(true)
	return c, nil
}

// handleConnect runs on the initial connection and again on every
// auto-reconnect: it re-announces this instance on the status topic,
// which the broker replaced with the will payload if the previous
// session died.
func (c *Client) handleConnect() {
	c.setConnected(true)
	c.client.Publish(Topics{}.SystemStatus(), byte(c.cfg.QoS), true, statusOnlinePayload(c.cfg.Broker.ClientID))
}

func (c *Client) handleConnectionLost(err error) {
	c.setConnected(false)
	if logger := c.getLogger(); logger != nil {
		logger.Warn("mqtt connection lost, reconnecting", "error", err)
	}
}

// Close publishes a graceful offline status (distinct from the will's
// unexpected_disconnect) and disconnects. Calling Close on a client
// that never connected is a no-op.
func (c *Client) Close() error {
	if c.client == nil {
		return nil
	}

	if c.IsConnected() {
		token := c.client.Publish(Topics{}.SystemStatus(), byte(c.cfg.QoS), true, statusOfflinePayload(c.cfg.Broker.ClientID))
		token.WaitTimeout(publishTimeout)
	}

	c.client.Disconnect(disconnectQuiesce)
	c.setConnected(false)
	return nil
}

// IsConnected reports whether the session is currently up. The
// reporter reads this to mark its health snapshots degraded while the
// broker is unreachable.
func (c *Client) IsConnected() bool {
	c.connMu.RLock()
	defer c.connMu.RUnlock()
	return c.connected && c.client.IsConnected()
}

func (c *Client) setConnected(up bool) {
	c.connMu.Lock()
	c.connected = up
	c.connMu.Unlock()
}

// SetLogger sets the logger used for connection-loss warnings. If
// unset, reconnects happen silently.
func (c *Client) SetLogger(logger Logger) {
	c.loggerMu.Lock()
	c.logger = logger
	c.loggerMu.Unlock()
}

func (c *Client) getLogger() Logger {
	c.loggerMu.RLock()
	defer c.loggerMu.RUnlock()
	return c.logger
}
