// Package mailbox implements a single-slot, last-write-wins handoff.
package mailbox

import (
	"sync"

	"github.com/robotalks/telelink/pkg/hal"
)

// Mailbox holds at most one unread Vec3.
// Neither side ever blocks: a new Send replaces an unread value and
// TryRecv returns immediately when empty.
type Mailbox struct {
	lock  sync.Mutex
	val   hal.Vec3
	full  bool
	drops uint64
}

// New creates an empty Mailbox.
func New() *Mailbox {
	return &Mailbox{}
}

// Send stores val, overwriting any unread value.
func (m *Mailbox) Send(val hal.Vec3) {
	m.lock.Lock()
	if m.full {
		m.drops++
	}
	m.val, m.full = val, true
	m.lock.Unlock()
}

// TryRecv takes the stored value and empties the slot.
func (m *Mailbox) TryRecv() (hal.Vec3, bool) {
	m.lock.Lock()
	defer m.lock.Unlock()
	if !m.full {
		return hal.Vec3{}, false
	}
	m.full = false
	return m.val, true
}

// Drops counts values overwritten before they were read.
func (m *Mailbox) Drops() uint64 {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.drops
}
