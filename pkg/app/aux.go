package app

import (
	"github.com/golang/glog"

	fx "github.com/robotalks/telelink/pkg/framework"
	"github.com/robotalks/telelink/pkg/hal"
)

// AuxSampler publishes the latest vector reading to the mailbox.
type AuxSampler struct {
	State  *State
	Source hal.VectorSource
}

// Control implements Controller.
func (a *AuxSampler) Control(cc fx.ControlContext) error {
	a.State.Aux.Send(a.Source.ReadVector())
	return nil
}

// maxAckBytesPerPoll bounds the bytes drained by one listener poll.
const maxAckBytesPerPoll = 64

// AckListener turns any inbound byte into an acknowledgment.
type AckListener struct {
	State     *State
	Transport hal.Transport
}

// Control implements Controller.
func (a *AckListener) Control(cc fx.ControlContext) error {
	a.Poll()
	return nil
}

// Poll drains pending inbound bytes and raises Ack if there were any.
func (a *AckListener) Poll() bool {
	var n int
	for ; n < maxAckBytesPerPoll; n++ {
		if _, ok := a.Transport.TryReadByte(); !ok {
			break
		}
	}
	if n == 0 {
		return false
	}
	glog.V(4).Infof("ack received (%d bytes)", n)
	a.State.Ack.Raise()
	return true
}
