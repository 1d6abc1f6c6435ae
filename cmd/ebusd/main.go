// ebusd is the eBUS protocol daemon: it opens a serial TTY carrying an
// eBUS wire, runs the arbitration and protocol state machines against
// the observed byte stream, and publishes telegrams, errors and
// periodic health/stats snapshots over MQTT.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nerrad567/ebus-core/ebus/arbitration"
	"github.com/nerrad567/ebus-core/ebus/protocol"
	"github.com/nerrad567/ebus-core/internal/infrastructure/config"
	"github.com/nerrad567/ebus-core/internal/infrastructure/logging"
	"github.com/nerrad567/ebus-core/internal/infrastructure/mqtt"
	"github.com/nerrad567/ebus-core/internal/reporter"
	"github.com/nerrad567/ebus-core/internal/serial"
)

// Version information - set at build time via ldflags.
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	fmt.Printf("ebusd %s (%s) built %s\n", version, commit, date)
	fmt.Println("eBUS protocol daemon")
	fmt.Println("---")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// configPath is the default location for the configuration file, used
// when EBUSD_CONFIG is not set.
const configPath = "configs/config.yaml"

// run is the actual application logic, separated from main for
// testability. Returning an error allows main to handle exit codes
// consistently.
func run(ctx context.Context) error {
	path := configPath
	if v := os.Getenv("EBUSD_CONFIG"); v != "" {
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := logging.New(cfg.Logging, cfg.Bus.ID)
	logger.Info("starting ebusd", "version", version, "address", logging.Hex{cfg.Bus.Address})

	port, err := serial.Open(serial.Config{
		Device:      cfg.Serial.Device,
		Baud:        cfg.Serial.Baud,
		ReadTimeout: cfg.Serial.ReadTimeout(),
	})
	if err != nil {
		return fmt.Errorf("opening serial port: %w", err)
	}
	defer func() {
		if cerr := port.Close(); cerr != nil {
			logger.Error("closing serial port", "error", cerr)
		}
	}()

	arb := arbitration.NewRequest()
	arb.SetMaxLockCounter(cfg.Bus.MaxLockCounter)

	handler := protocol.NewHandler(cfg.Bus.Address, port, arb)

	mqttClient, err := mqtt.Connect(cfg.MQTT)
	if err != nil {
		return fmt.Errorf("connecting to mqtt broker: %w", err)
	}
	mqttClient.SetLogger(logger)
	defer func() {
		if cerr := mqttClient.Close(); cerr != nil {
			logger.Error("closing mqtt client", "error", cerr)
		}
	}()

	rep := reporter.New(reporter.Config{
		BusID:     cfg.Bus.ID,
		Version:   version,
		Publisher: mqttClient,
		Handler:   handler,
		Arbiter:   arb,
	})
	rep.SetLogger(logger)
	rep.Start(ctx)
	defer rep.Stop()

	logger.Info("ebusd ready, feeding bus bytes")

	if err := port.Run(ctx, handler.Run); err != nil {
		return fmt.Errorf("serial port run loop: %w", err)
	}

	logger.Info("shutdown signal received, stopping ebusd")
	return nil
}
