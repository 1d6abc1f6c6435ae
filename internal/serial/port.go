package serial

import (
	"context"
	"fmt"
	"sync"
	"time"

	tarmserial "github.com/tarm/serial"
)

// defaultBaud is the eBUS wire baud rate.
const defaultBaud = 2400

// defaultReadTimeout bounds each blocking read so Run can notice ctx
// cancellation between bytes even when the bus is idle.
const defaultReadTimeout = 50 * time.Millisecond

// Config describes how to open the TTY carrying the eBUS wire.
type Config struct {
	// Device is the TTY path, e.g. "/dev/ttyUSB0".
	Device string

	// Baud is the line rate. Defaults to 2400, the eBUS wire rate.
	Baud int

	// ReadTimeout bounds each underlying read call. Defaults to 50ms.
	ReadTimeout time.Duration
}

// Port is a BusWriter (see protocol.BusWriter) backed by a real TTY.
type Port struct {
	cfg  Config
	conn *tarmserial.Port

	mu     sync.Mutex
	opened bool
}

// Open opens the configured TTY. The returned Port is not yet feeding
// bytes; call Run to start the read loop.
func Open(cfg Config) (*Port, error) {
	if cfg.Baud == 0 {
		cfg.Baud = defaultBaud
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = defaultReadTimeout
	}

	conn, err := tarmserial.OpenPort(&tarmserial.Config{
		Name:        cfg.Device,
		Baud:        cfg.Baud,
		ReadTimeout: cfg.ReadTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("serial: open %s: %w", cfg.Device, err)
	}

	return &Port{cfg: cfg, conn: conn, opened: true}, nil
}

// Run blocks reading one byte at a time from the TTY and delivering
// each to onByte, until ctx is cancelled or the port fails. onByte is
// called synchronously from this goroutine — the only feeding
// goroutine the protocol core's cooperative concurrency model allows.
//
// Run returns nil on clean cancellation via ctx, or a wrapped error if
// the underlying read fails for a reason other than its own read
// timeout elapsing with nothing to report.
func (p *Port) Run(ctx context.Context, onByte func(byte)) error {
	p.mu.Lock()
	opened := p.opened
	conn := p.conn
	p.mu.Unlock()
	if !opened {
		return ErrNotOpen
	}

	buf := make([]byte, 1)
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		n, err := conn.Read(buf)
		if err != nil {
			return fmt.Errorf("serial: read: %w", err)
		}
		if n == 0 {
			// Read timeout elapsed with nothing on the wire; loop
			// around to re-check ctx.
			continue
		}

		onByte(buf[0])
	}
}

// WriteByte writes a single byte to the TTY, satisfying
// protocol.BusWriter. It must only be called from the goroutine
// driving Run.
func (p *Port) WriteByte(b byte) error {
	p.mu.Lock()
	opened := p.opened
	conn := p.conn
	p.mu.Unlock()
	if !opened {
		return ErrNotOpen
	}

	if _, err := conn.Write([]byte{b}); err != nil {
		return fmt.Errorf("serial: write: %w", err)
	}
	return nil
}

// Close closes the underlying TTY. Run returns once the in-flight
// read notices the closed descriptor.
func (p *Port) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.opened {
		return nil
	}
	p.opened = false
	return p.conn.Close()
}
