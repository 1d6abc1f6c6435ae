//go:build integration

package mqtt

import (
	"strings"
	"testing"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/nerrad567/ebus-core/internal/infrastructure/config"
)

// Integration tests for the outbound client's broker-visible
// behaviour. These require a running MQTT broker at 127.0.0.1:1883.
//
// Run with:
//   go test -tags=integration -v ./internal/infrastructure/mqtt/...
//
// The client itself cannot subscribe, so these tests watch the broker
// through a raw paho client — the same vantage point a real consumer
// has.

func integrationConfig(clientID string) config.MQTTConfig {
	cfg := testConfig()
	cfg.Broker.ClientID = clientID
	return cfg
}

// rawSubscriber connects a plain paho client and subscribes topic,
// delivering payloads on the returned channel.
func rawSubscriber(t *testing.T, clientID, topic string) (pahomqtt.Client, <-chan string) {
	t.Helper()

	received := make(chan string, 8)
	opts := pahomqtt.NewClientOptions().
		AddBroker("tcp://127.0.0.1:1883").
		SetClientID(clientID)
	sub := pahomqtt.NewClient(opts)
	if token := sub.Connect(); !token.WaitTimeout(5*time.Second) || token.Error() != nil {
		t.Fatalf("raw subscriber connect failed: %v", token.Error())
	}
	token := sub.Subscribe(topic, 1, func(_ pahomqtt.Client, msg pahomqtt.Message) {
		received <- string(msg.Payload())
	})
	if !token.WaitTimeout(5*time.Second) || token.Error() != nil {
		t.Fatalf("raw subscriber subscribe failed: %v", token.Error())
	}
	return sub, received
}

func waitFor(t *testing.T, ch <-chan string, substr string) string {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case msg := <-ch:
			if strings.Contains(msg, substr) {
				return msg
			}
		case <-deadline:
			t.Fatalf("timeout waiting for message containing %q", substr)
		}
	}
}

// TestIntegration_OnlineStatusAnnounced verifies that connecting
// publishes a retained online payload on the system status topic, so
// a consumer subscribing later still sees it.
func TestIntegration_OnlineStatusAnnounced(t *testing.T) {
	client, err := Connect(integrationConfig("ebus-int-status"))
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer client.Close()

	sub, received := rawSubscriber(t, "ebus-int-status-watch", Topics{}.SystemStatus())
	defer sub.Disconnect(250)

	msg := waitFor(t, received, `"status":"online"`)
	if !strings.Contains(msg, "ebus-int-status") {
		t.Errorf("online status missing client id: %s", msg)
	}
}

// TestIntegration_GracefulOfflineStatus verifies Close overwrites the
// status with a graceful_shutdown payload, distinct from the will's
// unexpected_disconnect.
func TestIntegration_GracefulOfflineStatus(t *testing.T) {
	client, err := Connect(integrationConfig("ebus-int-offline"))
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}

	sub, received := rawSubscriber(t, "ebus-int-offline-watch", Topics{}.SystemStatus())
	defer sub.Disconnect(250)

	waitFor(t, received, `"status":"online"`)
	client.Close()
	msg := waitFor(t, received, "graceful_shutdown")
	if !strings.Contains(msg, "ebus-int-offline") {
		t.Errorf("offline status missing client id: %s", msg)
	}
}

// TestIntegration_PublishRoundtrip verifies a published telegram event
// reaches a broker-side consumer.
func TestIntegration_PublishRoundtrip(t *testing.T) {
	client, err := Connect(integrationConfig("ebus-int-pub"))
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer client.Close()

	topic := Topics{}.Telegram("int-bus")
	sub, received := rawSubscriber(t, "ebus-int-pub-watch", topic)
	defer sub.Disconnect(250)

	payload := `{"source":"FF","target":"52","telegram_type":"master_slave"}`
	if err := client.Publish(topic, []byte(payload), 1, false); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	msg := waitFor(t, received, `"source":"FF"`)
	if msg != payload {
		t.Errorf("received %q, want %q", msg, payload)
	}
}
