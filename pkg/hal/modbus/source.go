// Package modbus reads samples and vectors from Modbus input registers.
package modbus

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/goburrow/modbus"
	"github.com/golang/glog"

	"github.com/robotalks/telelink/pkg/hal"
)

// Config locates the device and its registers.
// Endpoint selects Modbus TCP, otherwise Device selects Modbus RTU.
type Config struct {
	Endpoint string        `yaml:"endpoint"`
	Device   string        `yaml:"device"`
	Baud     int           `yaml:"baud"`
	UnitID   uint8         `yaml:"unit-id"`
	Timeout  time.Duration `yaml:"timeout"`

	// SampleRegister holds the raw converter value, shifted right by
	// SampleShift to fit a byte.
	SampleRegister uint16 `yaml:"sample-register"`
	SampleShift    uint   `yaml:"sample-shift"`
	// VectorRegister is the first of three signed registers, each
	// multiplied by VectorScale.
	VectorRegister uint16  `yaml:"vector-register"`
	VectorScale    float32 `yaml:"vector-scale"`
}

// DefaultConfig returns the register map of the reference sensor
// board: a 12-bit converter and a milli-g accelerometer.
func DefaultConfig() Config {
	return Config{
		Baud:           19200,
		UnitID:         1,
		Timeout:        100 * time.Millisecond,
		SampleRegister: 0,
		SampleShift:    4,
		VectorRegister: 1,
		VectorScale:    0.001,
	}
}

// Validate checks the config is usable.
func (c *Config) Validate() error {
	if c.Endpoint == "" && c.Device == "" {
		return errors.New("modbus: endpoint or device required")
	}
	if c.SampleShift > 15 {
		return fmt.Errorf("modbus: sample shift %d out of range", c.SampleShift)
	}
	return nil
}

// Source implements hal.SampleSource and hal.VectorSource.
// Reads never fail: on error the last good value is returned.
type Source struct {
	Config Config

	client modbus.Client
	closer io.Closer

	lock       sync.Mutex
	lastSample byte
	lastVector hal.Vec3
	errors     uint64
}

// NewSource creates a Source on an existing client.
func NewSource(client modbus.Client, cfg Config) *Source {
	return &Source{Config: cfg, client: client, lastVector: hal.Vec3{1, 0, 0}}
}

// Dial connects to the device.
func Dial(cfg Config) (*Source, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Endpoint != "" {
		h := modbus.NewTCPClientHandler(cfg.Endpoint)
		h.Timeout = cfg.Timeout
		h.SlaveId = cfg.UnitID
		if err := h.Connect(); err != nil {
			return nil, err
		}
		s := NewSource(modbus.NewClient(h), cfg)
		s.closer = h
		return s, nil
	}
	h := modbus.NewRTUClientHandler(cfg.Device)
	h.BaudRate = cfg.Baud
	h.DataBits = 8
	h.Parity = "N"
	h.StopBits = 1
	h.Timeout = cfg.Timeout
	h.SlaveId = cfg.UnitID
	if err := h.Connect(); err != nil {
		return nil, err
	}
	s := NewSource(modbus.NewClient(h), cfg)
	s.closer = h
	return s, nil
}

// Close implements io.Closer.
func (s *Source) Close() error {
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}

// Errors returns the number of failed reads.
func (s *Source) Errors() uint64 {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.errors
}

// ReadSample implements hal.SampleSource.
func (s *Source) ReadSample() byte {
	s.lock.Lock()
	defer s.lock.Unlock()
	regs, err := s.read(s.Config.SampleRegister, 1)
	if err != nil {
		return s.lastSample
	}
	v := binary.BigEndian.Uint16(regs) >> s.Config.SampleShift
	if v > 0xff {
		v = 0xff
	}
	s.lastSample = byte(v)
	return s.lastSample
}

// ReadVector implements hal.VectorSource.
func (s *Source) ReadVector() hal.Vec3 {
	s.lock.Lock()
	defer s.lock.Unlock()
	regs, err := s.read(s.Config.VectorRegister, 3)
	if err != nil {
		return s.lastVector
	}
	for i := range s.lastVector {
		raw := int16(binary.BigEndian.Uint16(regs[i*2:]))
		s.lastVector[i] = float32(raw) * s.Config.VectorScale
	}
	return s.lastVector
}

func (s *Source) read(addr, qty uint16) ([]byte, error) {
	regs, err := s.client.ReadInputRegisters(addr, qty)
	if err == nil && len(regs) < int(qty)*2 {
		err = fmt.Errorf("short response: %d bytes", len(regs))
	}
	if err != nil {
		s.errors++
		glog.Warningf("modbus read %d+%d: %v", addr, qty, err)
		return nil, err
	}
	return regs, nil
}
