// Package logging provides structured logging for ebusd.
//
// It is a thin layer over log/slog with two pieces of bus-specific
// behaviour: every record is stamped with the service name and the
// identity of the bus this instance serves (from bus.id in
// config.yaml), and the Hex value type renders wire bytes the way
// they are written in eBUS captures ("FF 52 B5 09") instead of slog's
// base-10 []uint8 default.
//
// # Configuration
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stdout"   # stdout, stderr
//
// # Usage
//
//	logger := logging.New(cfg.Logging, cfg.Bus.ID)
//	logger.Info("bus acquired", "address", logging.Hex{0x33})
//
// # Security
//
// Never log secrets: broker passwords from the MQTT configuration
// must not appear in log output at any level.
package logging
