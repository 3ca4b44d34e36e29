package mqtt

import (
	"io"
	"sync"
)

// Topic suffixes under the device name.
const (
	TelemetryTopic = "telemetry"
	AckTopic       = "ack"
)

// ReadWriter implements uplink.PacketReadWriter on a Queue.
type ReadWriter struct {
	Queue    *Queue
	SubTopic string
	PubTopic string

	packetCh  chan []byte
	closeCh   chan struct{}
	closeOnce sync.Once
}

// NewPacketReadWriter creates the ReadWriter with the default topics of
// a device.
func NewPacketReadWriter(q *Queue, deviceID string) *ReadWriter {
	return &ReadWriter{
		Queue:    q,
		SubTopic: deviceID + "/" + AckTopic,
		PubTopic: deviceID + "/" + TelemetryTopic,
		packetCh: make(chan []byte, 1),
		closeCh:  make(chan struct{}),
	}
}

// Dial connects to the broker at brokerURL and subscribes the ack topic
// of the device.
func Dial(brokerURL, deviceID string) (*ReadWriter, error) {
	opts, prefix, err := ClientOptionsFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	q := NewQueue(opts, prefix)
	if err := q.Connect(); err != nil {
		return nil, err
	}
	p := NewPacketReadWriter(q, deviceID)
	if err := p.Subscribe(); err != nil {
		q.Close()
		return nil, err
	}
	return p, nil
}

// Subscribe subscribes SubTopic.
func (p *ReadWriter) Subscribe() error {
	token := p.Queue.Sub(p.SubTopic, p.handleMsg)
	token.Wait()
	return token.Error()
}

// ReadPacket implements uplink.PacketReader.
func (p *ReadWriter) ReadPacket() ([]byte, error) {
	select {
	case pkt := <-p.packetCh:
		return pkt, nil
	case <-p.closeCh:
		return nil, io.EOF
	}
}

// WritePacket implements uplink.PacketWriter.
func (p *ReadWriter) WritePacket(pkt []byte) error {
	token := p.Queue.Pub(p.PubTopic, pkt)
	token.Wait()
	return token.Error()
}

// Close implements io.Closer.
func (p *ReadWriter) Close() error {
	p.closeOnce.Do(func() {
		close(p.closeCh)
		p.Queue.Close()
	})
	return nil
}

// handleMsg drops the message if an earlier one is still unread, one
// pending packet already acknowledges.
func (p *ReadWriter) handleMsg(_ string, payload []byte) {
	select {
	case p.packetCh <- payload:
	case <-p.closeCh:
	default:
	}
}
