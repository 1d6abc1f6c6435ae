package reporter

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/nerrad567/ebus-core/ebus"
	"github.com/nerrad567/ebus-core/ebus/arbitration"
	"github.com/nerrad567/ebus-core/ebus/protocol"
)

// mockPublisher implements Publisher for testing.
type mockPublisher struct {
	mu        sync.Mutex
	connected bool
	messages  []publishedMessage
}

type publishedMessage struct {
	topic    string
	payload  []byte
	qos      byte
	retained bool
}

func newMockPublisher(connected bool) *mockPublisher {
	return &mockPublisher{connected: connected}
}

func (m *mockPublisher) Publish(topic string, payload []byte, qos byte, retained bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, publishedMessage{topic: topic, payload: payload, qos: qos, retained: retained})
	return nil
}

func (m *mockPublisher) IsConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connected
}

func (m *mockPublisher) getMessages() []publishedMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]publishedMessage, len(m.messages))
	copy(out, m.messages)
	return out
}

// nullWriter discards every byte, satisfying protocol.BusWriter for
// tests that never actually transmit.
type nullWriter struct{}

func (nullWriter) WriteByte(byte) error { return nil }

func newTestReporter(pub Publisher) (*Reporter, *protocol.Handler, *arbitration.Request) {
	arb := arbitration.NewRequest()
	handler := protocol.NewHandler(0x10, nullWriter{}, arb)
	rep := New(Config{
		BusID:     "test-bus",
		Version:   "1.0.0",
		Publisher: pub,
		Handler:   handler,
		Arbiter:   arb,
	})
	return rep, handler, arb
}

func TestNew_DefaultInterval(t *testing.T) {
	rep, _, _ := newTestReporter(newMockPublisher(true))
	if rep.interval != defaultInterval {
		t.Errorf("interval = %v, want %v", rep.interval, defaultInterval)
	}
}

func TestNew_CustomInterval(t *testing.T) {
	arb := arbitration.NewRequest()
	handler := protocol.NewHandler(0x10, nullWriter{}, arb)
	rep := New(Config{
		BusID:     "test-bus",
		Interval:  5 * time.Second,
		Publisher: newMockPublisher(true),
		Handler:   handler,
		Arbiter:   arb,
	})
	if rep.interval != 5*time.Second {
		t.Errorf("interval = %v, want 5s", rep.interval)
	}
}

func TestPublishHealth(t *testing.T) {
	pub := newMockPublisher(true)
	rep, _, _ := newTestReporter(pub)

	if err := rep.publishHealth(StatusHealthy, ""); err != nil {
		t.Fatalf("publishHealth: %v", err)
	}

	messages := pub.getMessages()
	if len(messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(messages))
	}

	msg := messages[0]
	if msg.topic != "ebus/test-bus/health" {
		t.Errorf("topic = %q, want ebus/test-bus/health", msg.topic)
	}
	if msg.qos != 1 || !msg.retained {
		t.Errorf("health snapshot should be QoS 1 retained, got qos=%d retained=%v", msg.qos, msg.retained)
	}

	var snap HealthSnapshot
	if err := json.Unmarshal(msg.payload, &snap); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if snap.BusID != "test-bus" {
		t.Errorf("BusID = %q, want test-bus", snap.BusID)
	}
	if snap.Status != StatusHealthy {
		t.Errorf("Status = %q, want %q", snap.Status, StatusHealthy)
	}
}

func TestDetermineStatus_DegradedWhenMQTTDisconnected(t *testing.T) {
	rep, _, _ := newTestReporter(newMockPublisher(false))

	status, reason := rep.determineStatus()
	if status != StatusDegraded {
		t.Errorf("status = %q, want %q", status, StatusDegraded)
	}
	if reason != "mqtt disconnected" {
		t.Errorf("reason = %q, want 'mqtt disconnected'", reason)
	}
}

func TestPublishStats(t *testing.T) {
	pub := newMockPublisher(true)
	rep, _, _ := newTestReporter(pub)

	if err := rep.publishStats(); err != nil {
		t.Fatalf("publishStats: %v", err)
	}

	messages := pub.getMessages()
	if len(messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(messages))
	}
	if messages[0].topic != "ebus/test-bus/stats" {
		t.Errorf("topic = %q, want ebus/test-bus/stats", messages[0].topic)
	}

	var snap StatsSnapshot
	if err := json.Unmarshal(messages[0].payload, &snap); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if snap.BusID != "test-bus" {
		t.Errorf("BusID = %q, want test-bus", snap.BusID)
	}
}

func TestHandleTelegram_PublishesEvent(t *testing.T) {
	pub := newMockPublisher(true)
	rep, _, _ := newTestReporter(pub)

	master := ebus.BuildMaster(0x10, []byte{ebus.Broadcast, 0x07, 0x00, 0x02, 0xAA, 0xBB})
	rep.handleTelegram(protocol.Active, &master, nil)

	messages := pub.getMessages()
	if len(messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(messages))
	}
	if messages[0].topic != "ebus/test-bus/telegram" {
		t.Errorf("topic = %q, want ebus/test-bus/telegram", messages[0].topic)
	}
	if messages[0].qos != 0 || messages[0].retained {
		t.Errorf("telegram events should be fire-and-forget, got qos=%d retained=%v", messages[0].qos, messages[0].retained)
	}

	var ev TelegramEvent
	if err := json.Unmarshal(messages[0].payload, &ev); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if ev.Source != "10" {
		t.Errorf("Source = %q, want 10", ev.Source)
	}
	if ev.TelegramType != "broadcast" {
		t.Errorf("TelegramType = %q, want broadcast", ev.TelegramType)
	}
	if !ev.Valid {
		t.Error("expected Valid telegram")
	}
}

func TestHandleError_PublishesEvent(t *testing.T) {
	pub := newMockPublisher(true)
	rep, _, _ := newTestReporter(pub)

	master := ebus.BuildMaster(0x10, []byte{ebus.Broadcast, 0x07, 0x00, 0x00})
	rep.handleError(protocol.TagErrorPassiveMaster, &master, nil)

	messages := pub.getMessages()
	if len(messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(messages))
	}
	if messages[0].topic != "ebus/test-bus/error" {
		t.Errorf("topic = %q, want ebus/test-bus/error", messages[0].topic)
	}

	var ev ErrorEvent
	if err := json.Unmarshal(messages[0].payload, &ev); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if ev.Tag != protocol.TagErrorPassiveMaster {
		t.Errorf("Tag = %q, want %q", ev.Tag, protocol.TagErrorPassiveMaster)
	}
}

func TestStartStop(t *testing.T) {
	pub := newMockPublisher(true)
	arb := arbitration.NewRequest()
	handler := protocol.NewHandler(0x10, nullWriter{}, arb)
	rep := New(Config{
		BusID:     "lifecycle-test",
		Interval:  20 * time.Millisecond,
		Publisher: pub,
		Handler:   handler,
		Arbiter:   arb,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rep.Start(ctx)
	time.Sleep(70 * time.Millisecond)
	rep.Stop()

	messages := pub.getMessages()
	healthCount := 0
	var lastHealth HealthSnapshot
	for _, msg := range messages {
		if msg.topic == "ebus/lifecycle-test/health" {
			healthCount++
			_ = json.Unmarshal(msg.payload, &lastHealth)
		}
	}
	if healthCount < 3 {
		t.Errorf("expected at least 3 health snapshots (starting + periodic + stopping), got %d", healthCount)
	}
	if lastHealth.Status != StatusStopping {
		t.Errorf("last health status = %q, want %q", lastHealth.Status, StatusStopping)
	}
}

func TestStop_Idempotent(t *testing.T) {
	rep, _, _ := newTestReporter(newMockPublisher(true))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rep.Start(ctx)
	rep.Stop()
	rep.Stop() // must not panic
}
