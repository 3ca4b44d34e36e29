package msgs

import (
	"sync"
	"time"

	"github.com/golang/protobuf/proto"
	"github.com/google/uuid"

	pb "github.com/robotalks/telelink/pkg/proto/telelink/v1"
)

// Batch is one forwarded buffer.
type Batch struct {
	pb.TelemetryBatch
}

// Encode serializes the batch.
func (m *Batch) Encode() ([]byte, error) {
	return proto.Marshal(&m.TelemetryBatch)
}

// DecodeBatch parses a serialized batch.
func DecodeBatch(data []byte) (*Batch, error) {
	m := &Batch{}
	if err := proto.Unmarshal(data, &m.TelemetryBatch); err != nil {
		return nil, err
	}
	return m, nil
}

// Ack acknowledges a batch.
type Ack struct {
	pb.Ack
}

// NewAck creates the Ack for a batch.
func NewAck(b *Batch) *Ack {
	return &Ack{Ack: pb.Ack{Session: b.Session, Seq: b.Seq}}
}

// Encode serializes the ack.
func (m *Ack) Encode() ([]byte, error) {
	return proto.Marshal(&m.Ack)
}

// DecodeAck parses a serialized ack.
func DecodeAck(data []byte) (*Ack, error) {
	m := &Ack{}
	if err := proto.Unmarshal(data, &m.Ack); err != nil {
		return nil, err
	}
	return m, nil
}

// Encoder stamps batches with the device id, a per-process session id
// and a sequence number.
type Encoder struct {
	DeviceID string
	Session  string

	seq  uint64
	lock sync.Mutex
	now  func() time.Time
}

// NewEncoder creates an Encoder with a fresh session id.
func NewEncoder(deviceID string) *Encoder {
	return &Encoder{
		DeviceID: deviceID,
		Session:  uuid.New().String(),
		now:      time.Now,
	}
}

// Seq returns the sequence number of the last encoded batch.
func (e *Encoder) Seq() uint64 {
	e.lock.Lock()
	defer e.lock.Unlock()
	return e.seq
}

// Encode builds and serializes the next batch.
func (e *Encoder) Encode(samples []byte) ([]byte, error) {
	e.lock.Lock()
	e.seq++
	b := &Batch{TelemetryBatch: pb.TelemetryBatch{
		DeviceId:  e.DeviceID,
		Session:   e.Session,
		Seq:       e.seq,
		Timestamp: e.now().UnixNano(),
		Samples:   samples,
	}}
	e.lock.Unlock()
	return b.Encode()
}
