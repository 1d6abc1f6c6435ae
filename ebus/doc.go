// Package ebus implements the wire-level building blocks of the eBUS
// field-bus protocol: reserved symbols, address classification, the
// CRC-8 used to validate telegrams, the byte-stuffing sequence codec,
// and the telegram parser/builder.
//
// eBUS is a half-duplex 2400-baud serial bus used between heating
// appliances and their controllers. A complete exchange (a
// "telegram") is a master half and, depending on the destination
// address, zero or one slave halves, each terminated by an
// acknowledgement byte.
//
// # Layering
//
// This package holds the data model shared by the rest of the module:
//
//	ebus              -- symbols, CRC, Sequence, Telegram (this package)
//	ebus/arbitration  -- bus-acquisition state machine
//	ebus/protocol     -- the 15-state handler driving passive/reactive/active flows
//	ebus/stats        -- timing accumulators
//
// None of these packages perform I/O; they operate purely on bytes
// handed to them by a collaborator (a serial port, a test harness, a
// recorded capture). See internal/serial for the concrete transport
// used by cmd/ebusd.
//
// # Thread Safety
//
// Types in this package are not safe for concurrent use. The eBUS
// core is deterministic and single-threaded by design: the owning
// collaborator (internal/serial.Port) is responsible for calling into
// ebus/protocol.Handler.Run serially.
package ebus
