// Package config loads the daemon configuration.
//
// Values are applied in order: built-in defaults, the YAML config
// file, the TELELINK_UPLINK environment variable, then command line
// flags.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/ioutil"
	"net/url"
	"os"
	"time"

	"github.com/denisbrodbeck/machineid"
	"github.com/golang/glog"
	"gopkg.in/yaml.v3"

	"github.com/robotalks/telelink/pkg/app"
	"github.com/robotalks/telelink/pkg/hal/modbus"
	"github.com/robotalks/telelink/pkg/uplink/serial"
)

// UplinkEnv overrides the uplink URL.
const UplinkEnv = "TELELINK_UPLINK"

// Source kinds.
const (
	SourceSim    = "sim"
	SourceModbus = "modbus"
)

// Config defines the configurations of the daemon.
type Config struct {
	DeviceID          string        `yaml:"device-id"`
	Pool              PoolConfig    `yaml:"pool"`
	Period            PeriodConfig  `yaml:"period"`
	DebounceThreshold int           `yaml:"debounce-threshold"`
	Timings           TimingsConfig `yaml:"timings"`
	Store             StoreConfig   `yaml:"store"`
	Uplink            UplinkConfig  `yaml:"uplink"`
	Source            SourceConfig  `yaml:"source"`
}

// PoolConfig sizes the buffer pool.
type PoolConfig struct {
	Buffers    int `yaml:"buffers"`
	BufferSize int `yaml:"buffer-size"`
}

// PeriodConfig bounds the sample period.
type PeriodConfig struct {
	Min     int    `yaml:"min"`
	Max     int    `yaml:"max"`
	Default int    `yaml:"default"`
	Key     string `yaml:"key"`
}

// TimingsConfig mirrors app.Timings. Multiplier slows every timing
// down for debugging.
type TimingsConfig struct {
	PeriodUnit  time.Duration `yaml:"period-unit"`
	FullTimeout time.Duration `yaml:"full-timeout"`
	AckTimeout  time.Duration `yaml:"ack-timeout"`
	AckPoll     time.Duration `yaml:"ack-poll"`
	InputPoll   time.Duration `yaml:"input-poll"`
	AuxPeriod   time.Duration `yaml:"aux-period"`
	FaultHold   time.Duration `yaml:"fault-hold"`
	Multiplier  int           `yaml:"multiplier"`
}

// StoreConfig locates the persisted settings; an empty path disables
// persistence.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// UplinkConfig selects the transport by URL scheme:
//
//	sim://            loopback peer acknowledging every batch
//	serial://         UART, see Serial
//	tcp://host:port   raw byte stream
//	mqtt://host:port/prefix, ssl://...  MQTT broker
//	ws://host/path, wss://...           websocket peer
type UplinkConfig struct {
	URL    string        `yaml:"url"`
	Serial serial.Config `yaml:"serial"`
	// AckDelay is the response time of the sim peer.
	AckDelay time.Duration `yaml:"ack-delay"`
}

// SourceConfig selects where samples and vectors come from.
type SourceConfig struct {
	Kind       string        `yaml:"kind"`
	WavePeriod int           `yaml:"wave-period"`
	Modbus     modbus.Config `yaml:"modbus"`
}

// Default returns the built-in defaults.
func Default() *Config {
	opts := app.DefaultOptions()
	t := opts.Timings
	return &Config{
		DeviceID: defaultDeviceID(),
		Pool:     PoolConfig{Buffers: opts.Buffers, BufferSize: opts.BufferSize},
		Period: PeriodConfig{
			Min:     opts.MinPeriod,
			Max:     opts.MaxPeriod,
			Default: opts.DefaultPeriod,
			Key:     opts.PeriodKey,
		},
		DebounceThreshold: opts.DebounceThreshold,
		Timings: TimingsConfig{
			PeriodUnit:  t.PeriodUnit,
			FullTimeout: t.FullTimeout,
			AckTimeout:  t.AckTimeout,
			AckPoll:     t.AckPoll,
			InputPoll:   t.InputPoll,
			AuxPeriod:   t.AuxPeriod,
			FaultHold:   t.FaultHold,
			Multiplier:  1,
		},
		Uplink: UplinkConfig{
			URL:      "sim://",
			Serial:   serial.DefaultConfig(),
			AckDelay: 5 * time.Millisecond,
		},
		Source: SourceConfig{
			Kind:       SourceSim,
			WavePeriod: 64,
			Modbus:     modbus.DefaultConfig(),
		},
	}
}

func defaultDeviceID() string {
	id, err := machineid.ProtectedID("telelink")
	if err != nil {
		glog.Warningf("machine id: %v", err)
		return "telelink"
	}
	return id[:12]
}

// Load reads the config file at path over the defaults and applies
// the environment. An empty path only applies the environment.
func Load(path string) (*Config, error) {
	conf := Default()
	if path != "" {
		if err := conf.LoadFile(path); err != nil {
			return nil, err
		}
	}
	if val := os.Getenv(UplinkEnv); val != "" {
		conf.Uplink.URL = val
	}
	return conf, nil
}

// LoadFile reads YAML from path over the current values.
func (c *Config) LoadFile(path string) error {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("config %s: %w", path, err)
	}
	return nil
}

// UplinkScheme returns the scheme of the uplink URL.
func (c *Config) UplinkScheme() string {
	u, err := url.Parse(c.Uplink.URL)
	if err != nil {
		return ""
	}
	return u.Scheme
}

// Validate checks the configuration is complete and consistent.
func (c *Config) Validate() error {
	if c.DeviceID == "" {
		return errors.New("device-id required")
	}
	if c.Timings.Multiplier < 1 {
		return fmt.Errorf("timings.multiplier %d must be at least 1", c.Timings.Multiplier)
	}
	opts := c.Options()
	if err := opts.Validate(); err != nil {
		return err
	}
	switch scheme := c.UplinkScheme(); scheme {
	case "sim", "tcp", "mqtt", "ssl", "ws", "wss":
	case "serial":
		if c.Uplink.Serial.Device == "" {
			return errors.New("uplink.serial.device required")
		}
	default:
		return fmt.Errorf("unsupported uplink %q", c.Uplink.URL)
	}
	switch c.Source.Kind {
	case SourceSim:
	case SourceModbus:
		return c.Source.Modbus.Validate()
	default:
		return fmt.Errorf("unsupported source kind %q", c.Source.Kind)
	}
	return nil
}

// Options converts the configuration into app.Options.
func (c *Config) Options() app.Options {
	t := c.Timings
	return app.Options{
		Buffers:           c.Pool.Buffers,
		BufferSize:        c.Pool.BufferSize,
		MinPeriod:         c.Period.Min,
		MaxPeriod:         c.Period.Max,
		DefaultPeriod:     c.Period.Default,
		DebounceThreshold: c.DebounceThreshold,
		PeriodKey:         c.Period.Key,
		Timings: app.Timings{
			PeriodUnit:  t.PeriodUnit,
			FullTimeout: t.FullTimeout,
			AckTimeout:  t.AckTimeout,
			AckPoll:     t.AckPoll,
			InputPoll:   t.InputPoll,
			AuxPeriod:   t.AuxPeriod,
			FaultHold:   t.FaultHold,
		}.Scaled(t.Multiplier),
	}
}

// Flags are the command line overrides. Zero values leave the config
// untouched.
type Flags struct {
	ConfigFile string
	DeviceID   string
	Uplink     string
	StorePath  string
	Multiplier int
	Shell      bool
}

var defaultFlags Flags

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultFlags.ConfigFile, "config", "", "Config file (YAML).")
	flag.StringVar(&defaultFlags.DeviceID, "id", "", "Device ID, defaults to one derived from the machine ID.")
	flag.StringVar(&defaultFlags.Uplink, "uplink", "", "Uplink URL, overrides $"+UplinkEnv+".")
	flag.StringVar(&defaultFlags.StorePath, "store", "", "Settings file persisting the sample period.")
	flag.IntVar(&defaultFlags.Multiplier, "slowdown", 0, "Multiply every timing, for debugging.")
	flag.BoolVar(&defaultFlags.Shell, "shell", false, "Run the interactive shell.")
}

// DefaultFlags gets the flags registered by SetupFlags.
func DefaultFlags() *Flags {
	return &defaultFlags
}

// NewConfig loads the config file named by the flags and applies the
// flags over it.
func (f *Flags) NewConfig() (*Config, error) {
	conf, err := Load(f.ConfigFile)
	if err != nil {
		return nil, err
	}
	f.Apply(conf)
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

// Apply overrides conf with the flags which are set.
func (f *Flags) Apply(conf *Config) {
	if f.DeviceID != "" {
		conf.DeviceID = f.DeviceID
	}
	if f.Uplink != "" {
		conf.Uplink.URL = f.Uplink
	}
	if f.StorePath != "" {
		conf.Store.Path = f.StorePath
	}
	if f.Multiplier > 0 {
		conf.Timings.Multiplier = f.Multiplier
	}
}
