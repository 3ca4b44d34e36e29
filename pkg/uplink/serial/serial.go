// Package serial opens a UART uplink.
package serial

import (
	"fmt"
	"time"

	"github.com/tarm/serial"

	"github.com/robotalks/telelink/pkg/uplink"
)

// Config is the serial port configuration.
type Config struct {
	Device string `yaml:"device"`
	Baud   int    `yaml:"baud"`
	// ReadTimeout lets the reader observe cancellation, 0 blocks.
	ReadTimeout time.Duration `yaml:"read-timeout"`
}

// DefaultConfig returns the configuration of the reference board.
func DefaultConfig() Config {
	return Config{
		Device:      "/dev/ttyUSB0",
		Baud:        115200,
		ReadTimeout: 100 * time.Millisecond,
	}
}

// Open opens the port as a Stream.
func Open(cfg Config) (*uplink.Stream, error) {
	port, err := serial.OpenPort(&serial.Config{
		Name:        cfg.Device,
		Baud:        cfg.Baud,
		ReadTimeout: cfg.ReadTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", cfg.Device, err)
	}
	s := uplink.NewStream(port)
	s.ReadTimeout = cfg.ReadTimeout > 0
	return s, nil
}
