package reporter

import (
	"time"

	"github.com/nerrad567/ebus-core/ebus/arbitration"
	"github.com/nerrad567/ebus-core/ebus/protocol"
)

// Status represents the reporter's assessment of bus health.
type Status string

const (
	StatusStarting Status = "starting"
	StatusHealthy  Status = "healthy"
	StatusDegraded Status = "degraded"
	StatusStopping Status = "stopping"
)

// HealthSnapshot is the retained payload published on the bus's health
// topic.
type HealthSnapshot struct {
	Timestamp     time.Time `json:"timestamp"`
	BusID         string    `json:"bus_id"`
	Version       string    `json:"version"`
	Status        Status    `json:"status"`
	Reason        string    `json:"reason,omitempty"`
	UptimeSeconds int64     `json:"uptime_seconds"`
}

// StatsSnapshot is the retained payload published on the bus's stats
// topic: event counters plus timing summaries from both FSMs.
type StatsSnapshot struct {
	Timestamp   time.Time               `json:"timestamp"`
	BusID       string                  `json:"bus_id"`
	Messages    protocol.Counters       `json:"messages"`
	Arbitration arbitration.Counters    `json:"arbitration"`
	Timing      protocol.TimingSnapshot `json:"timing"`
	SyncTiming  statsSnapshotDTO        `json:"sync_timing"`
}

type statsSnapshotDTO struct {
	Last   time.Duration `json:"last_ns"`
	Count  uint64        `json:"count"`
	Mean   time.Duration `json:"mean_ns"`
	StdDev time.Duration `json:"stddev_ns"`
}
