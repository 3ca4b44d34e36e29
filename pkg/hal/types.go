// Package hal defines the hardware and I/O collaborators the
// streaming core is built against. Implementations live in sub-packages
// (sim, modbus) and in pkg/uplink and pkg/store.
package hal

// Vec3 is a 3-component vector, e.g. one accelerometer reading.
type Vec3 [3]float32

// SampleSource produces one raw sample per call.
// Reads are synchronous with bounded latency and never fail from the
// caller's point of view; implementations log and substitute on error.
type SampleSource interface {
	ReadSample() byte
}

// VectorSource produces one vector per call, with the same contract as
// SampleSource.
type VectorSource interface {
	ReadVector() Vec3
}

// Transport is the outbound byte link with a non-blocking inbound poll.
// WriteByte is fire-and-forget: errors are reported, never retried.
type Transport interface {
	WriteByte(byte) error
	// TryReadByte returns the next received byte, if any.
	TryReadByte() (byte, bool)
}

// Flusher is implemented by transports which batch written bytes.
// Flush is called once per forwarded batch.
type Flusher interface {
	Flush() error
}

// ConfigStore persists integer configuration values.
type ConfigStore interface {
	Load(key string) (int, error)
	Store(key string, val int) error
}

// PinID identifies a raw digital input.
type PinID int

// Input pins used by the config task.
const (
	PinIncrease PinID = iota
	PinDecrease
)

// Pins reads raw digital inputs; true means the pin reads high.
type Pins interface {
	ReadPin(PinID) bool
}

// IndicatorID identifies an output indicator (LED).
type IndicatorID int

// Indicators
const (
	IndicatorFault IndicatorID = iota
	IndicatorBusy
	IndicatorIncrease
	IndicatorDecrease
)

// String implements fmt.Stringer.
func (id IndicatorID) String() string {
	switch id {
	case IndicatorFault:
		return "fault"
	case IndicatorBusy:
		return "busy"
	case IndicatorIncrease:
		return "increase"
	case IndicatorDecrease:
		return "decrease"
	}
	return "unknown"
}

// Indicators drives output indicators, fire-and-forget.
type Indicators interface {
	SetIndicator(id IndicatorID, on bool)
}
