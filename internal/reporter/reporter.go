package reporter

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/nerrad567/ebus-core/ebus/arbitration"
	"github.com/nerrad567/ebus-core/ebus/protocol"
	"github.com/nerrad567/ebus-core/internal/infrastructure/mqtt"
)

// defaultInterval is how often health and stats snapshots are
// published when Config.Interval is unset.
const defaultInterval = 30 * time.Second

// Publisher is the collaborator contract for placing a message on the
// broker. It is satisfied by *mqtt.Client.
type Publisher interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
	IsConnected() bool
}

// Logger is satisfied by *logging.Logger.
type Logger interface {
	Error(msg string, args ...any)
	Warn(msg string, args ...any)
}

// Config configures a Reporter.
type Config struct {
	// BusID names the bus for topic scoping, e.g. "heating-01".
	BusID string

	// Version is reported in health snapshots.
	Version string

	// Interval is how often health and stats snapshots are published.
	// Defaults to 30 seconds.
	Interval time.Duration

	Publisher Publisher
	Handler   *protocol.Handler
	Arbiter   *arbitration.Request
}

// Reporter publishes telegram and error events as they occur, plus
// periodic retained health and stats snapshots. It registers itself as
// the Protocol FSM's TelegramCallback and ErrorCallback during Start.
type Reporter struct {
	busID     string
	version   string
	interval  time.Duration
	publisher Publisher
	handler   *protocol.Handler
	arb       *arbitration.Request
	topics    mqtt.Topics

	startTime time.Time

	done     chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once

	logger   Logger
	loggerMu sync.RWMutex
}

// New constructs a Reporter. Call Start to begin publishing.
func New(cfg Config) *Reporter {
	interval := cfg.Interval
	if interval == 0 {
		interval = defaultInterval
	}

	return &Reporter{
		busID:     cfg.BusID,
		version:   cfg.Version,
		interval:  interval,
		publisher: cfg.Publisher,
		handler:   cfg.Handler,
		arb:       cfg.Arbiter,
		startTime: time.Now(),
		done:      make(chan struct{}),
	}
}

// SetLogger sets the logger used for best-effort publish failures.
func (r *Reporter) SetLogger(logger Logger) {
	r.loggerMu.Lock()
	r.logger = logger
	r.loggerMu.Unlock()
}

// Start registers the reporter's callbacks on the handler and begins
// the periodic snapshot loop. Must be called from the same goroutine
// that owns the handler, before any bytes are fed to it.
func (r *Reporter) Start(ctx context.Context) {
	r.handler.SetTelegramCallback(r.handleTelegram)
	r.handler.SetErrorCallback(r.handleError)

	if err := r.publishHealth(StatusStarting, ""); err != nil {
		r.logError("failed to publish starting health", err)
	}

	r.wg.Add(1)
	go r.reportLoop(ctx)
}

// Stop gracefully stops the reporter, publishing a final "stopping"
// health snapshot. Safe to call multiple times.
func (r *Reporter) Stop() {
	r.stopOnce.Do(func() {
		close(r.done)
		r.wg.Wait()

		if err := r.publishHealth(StatusStopping, ""); err != nil {
			r.logError("failed to publish stopping health", err)
		}
	})
}

func (r *Reporter) handleTelegram(source protocol.MessageType, master, slave *protocol.Telegram) {
	ev := newTelegramEvent(source, master, slave)
	payload, err := json.Marshal(ev)
	if err != nil {
		r.logError("failed to marshal telegram event", err)
		return
	}
	if err := r.publisher.Publish(r.topics.Telegram(r.busID), payload, 0, false); err != nil {
		r.logError("failed to publish telegram event", err)
	}
}

func (r *Reporter) handleError(tag string, master, slave *protocol.Telegram) {
	ev := newErrorEvent(tag, master, slave)
	payload, err := json.Marshal(ev)
	if err != nil {
		r.logError("failed to marshal error event", err)
		return
	}
	if err := r.publisher.Publish(r.topics.Error(r.busID), payload, 0, false); err != nil {
		r.logError("failed to publish error event", err)
	}
}

func (r *Reporter) reportLoop(ctx context.Context) {
	defer r.wg.Done()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	if err := r.publishHealth(r.determineStatus()); err != nil {
		r.logError("failed to publish health", err)
	}
	if err := r.publishStats(); err != nil {
		r.logError("failed to publish stats", err)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-r.done:
			return
		case <-ticker.C:
			if err := r.publishHealth(r.determineStatus()); err != nil {
				r.logError("failed to publish health", err)
			}
			if err := r.publishStats(); err != nil {
				r.logError("failed to publish stats", err)
			}
		}
	}
}

func (r *Reporter) determineStatus() (Status, string) {
	if r.publisher == nil || !r.publisher.IsConnected() {
		return StatusDegraded, "mqtt disconnected"
	}
	return StatusHealthy, ""
}

func (r *Reporter) publishHealth(status Status, reason string) error {
	if r.publisher == nil {
		return nil
	}

	snap := HealthSnapshot{
		Timestamp:     time.Now().UTC(),
		BusID:         r.busID,
		Version:       r.version,
		Status:        status,
		Reason:        reason,
		UptimeSeconds: int64(time.Since(r.startTime).Seconds()),
	}

	payload, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return r.publisher.Publish(r.topics.Health(r.busID), payload, 1, true)
}

func (r *Reporter) publishStats() error {
	if r.publisher == nil {
		return nil
	}

	timing := r.handler.GetTiming()
	syncSnap := r.arb.GetTiming()

	snap := StatsSnapshot{
		Timestamp:   time.Now().UTC(),
		BusID:       r.busID,
		Messages:    r.handler.GetCounter(),
		Arbitration: r.arb.GetCounter(),
		Timing:      timing,
		SyncTiming: statsSnapshotDTO{
			Last:   syncSnap.Last,
			Count:  syncSnap.Count,
			Mean:   syncSnap.Mean,
			StdDev: syncSnap.StdDev,
		},
	}

	payload, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return r.publisher.Publish(r.topics.Stats(r.busID), payload, 1, true)
}

func (r *Reporter) logError(msg string, err error) {
	r.loggerMu.RLock()
	logger := r.logger
	r.loggerMu.RUnlock()

	if logger != nil {
		logger.Error(msg, "error", err)
	}
}
