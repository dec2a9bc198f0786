// Package serialport opens the rePatcher's USB serial device.
package serialport

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/tarm/serial"
)

// DefaultBaud is the rate used by the rePatcher sketch.
const DefaultBaud = 38400

// DefaultReadTimeout bounds how long a read waits for data before
// returning empty, so an idle device can still be shut down.
const DefaultReadTimeout = 100 * time.Millisecond

// Config describes the device to open.
type Config struct {
	Name string
	Baud int

	// ReadTimeout defaults to DefaultReadTimeout. A negative value blocks
	// until data arrives.
	ReadTimeout time.Duration
}

func (c Config) serialConfig() (*serial.Config, error) {
	if c.Name == "" {
		return nil, errors.New("serial port name is required")
	}
	baud := c.Baud
	if baud == 0 {
		baud = DefaultBaud
	}
	if baud < 0 {
		return nil, fmt.Errorf("invalid baud rate %d", baud)
	}
	timeout := c.ReadTimeout
	if timeout == 0 {
		timeout = DefaultReadTimeout
	}
	if timeout < 0 {
		timeout = 0
	}
	return &serial.Config{
		Name:        c.Name,
		Baud:        baud,
		ReadTimeout: timeout,
	}, nil
}

// port reports a read that timed out as zero bytes and no error, rather
// than the io.EOF the serial package returns for it.
type port struct {
	*serial.Port
	timeout bool
}

func (p *port) Read(b []byte) (int, error) {
	n, err := p.Port.Read(b)
	if p.timeout && n == 0 && err == io.EOF {
		return 0, nil
	}
	return n, err
}

// Open opens the device for reading.
func Open(cfg Config) (io.ReadCloser, error) {
	sc, err := cfg.serialConfig()
	if err != nil {
		return nil, err
	}
	sp, err := serial.OpenPort(sc)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Name, err)
	}
	return &port{Port: sp, timeout: sc.ReadTimeout > 0}, nil
}
