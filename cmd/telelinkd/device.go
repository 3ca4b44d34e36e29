package main

import (
	"fmt"
	"io"
	"net"
	"net/url"

	"github.com/golang/glog"

	"github.com/robotalks/telelink/pkg/app"
	"github.com/robotalks/telelink/pkg/config"
	fx "github.com/robotalks/telelink/pkg/framework"
	"github.com/robotalks/telelink/pkg/hal/modbus"
	"github.com/robotalks/telelink/pkg/hal/sim"
	"github.com/robotalks/telelink/pkg/msgs"
	"github.com/robotalks/telelink/pkg/store"
	"github.com/robotalks/telelink/pkg/uplink"
	"github.com/robotalks/telelink/pkg/uplink/mqtt"
	"github.com/robotalks/telelink/pkg/uplink/serial"
	"github.com/robotalks/telelink/pkg/uplink/websocket"
)

// device is the board assembled from the config, plus the background
// tasks of its links. Buttons and indicators are always simulated.
type device struct {
	Board app.Board
	Tasks []fx.Runnable

	Pins    *sim.Pins
	Peer    *sim.Peer
	Vectors *sim.Vectors

	closers []io.Closer
}

func newDevice(conf *config.Config) (d *device, err error) {
	d = &device{}
	defer func() {
		if err != nil {
			d.Close()
		}
	}()

	d.Pins = sim.NewPins()
	d.Board.Pins = d.Pins
	d.Board.Indicators = sim.NewIndicators()
	if path := conf.Store.Path; path != "" {
		d.Board.Store = store.NewFile(path)
	}
	if err = d.openSource(conf); err != nil {
		return
	}
	err = d.openUplink(conf)
	return
}

func (d *device) openSource(conf *config.Config) error {
	switch conf.Source.Kind {
	case config.SourceModbus:
		src, err := modbus.Dial(conf.Source.Modbus)
		if err != nil {
			return fmt.Errorf("modbus source: %w", err)
		}
		d.closers = append(d.closers, src)
		d.Board.Samples, d.Board.Vectors = src, src
	default:
		d.Vectors = sim.NewVectors()
		d.Board.Samples, d.Board.Vectors = sim.NewWave(conf.Source.WavePeriod), d.Vectors
	}
	return nil
}

func (d *device) openUplink(conf *config.Config) error {
	u, err := url.Parse(conf.Uplink.URL)
	if err != nil {
		return err
	}
	glog.Infof("uplink: %s", u.Redacted())
	switch u.Scheme {
	case "sim":
		d.Peer = sim.NewPeer(conf.Uplink.AckDelay)
		d.Board.Transport = d.Peer
	case "serial":
		s, err := serial.Open(conf.Uplink.Serial)
		if err != nil {
			return err
		}
		d.addStream(s)
	case "tcp":
		conn, err := net.Dial("tcp", u.Host)
		if err != nil {
			return err
		}
		d.addStream(uplink.NewStream(conn))
	case "mqtt", "ssl":
		rw, err := mqtt.Dial(conf.Uplink.URL, conf.DeviceID)
		if err != nil {
			return err
		}
		d.addPackets(rw, conf.DeviceID)
	case "ws", "wss":
		rw, err := websocket.Dial(conf.Uplink.URL, "http://"+u.Host+"/")
		if err != nil {
			return err
		}
		d.addPackets(rw, conf.DeviceID)
	default:
		return fmt.Errorf("unsupported uplink %q", conf.Uplink.URL)
	}
	return nil
}

func (d *device) addStream(s *uplink.Stream) {
	d.Board.Transport = s
	d.Tasks = append(d.Tasks, fx.Task("uplink", fx.PrLvStream, s))
}

func (d *device) addPackets(rw uplink.PacketReadWriter, deviceID string) {
	enc := msgs.NewEncoder(deviceID)
	glog.Infof("session: %s", enc.Session)
	l := uplink.NewPacketLink(rw, enc)
	d.Board.Transport = l
	d.Tasks = append(d.Tasks, fx.Task("uplink", fx.PrLvStream, l))
}

// Close releases the sources. Links are closed by their tasks.
func (d *device) Close() error {
	for _, c := range d.closers {
		c.Close()
	}
	d.closers = nil
	return nil
}
