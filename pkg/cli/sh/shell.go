// Package sh provides an interactive shell into a running daemon.
package sh

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/telelink/pkg/app"
	"github.com/robotalks/telelink/pkg/hal"
	"github.com/robotalks/telelink/pkg/hal/sim"
)

const shellKey = "$shell"

var (
	// ErrNoSim indicates the command needs the simulated board.
	ErrNoSim = errors.New("not available without the simulated board")

	commands = []*ishell.Cmd{
		&StatusCmd,
		&CheckCmd,
		&PressCmd,
		&ReleaseCmd,
		&ClickCmd,
		&MuteCmd,
		&ScaleCmd,
	}
)

// Shell provides ishell backed interactive shell.
// Pins, Peer and Vectors are set when the simulated board is used.
type Shell struct {
	Shell   *ishell.Shell
	App     *app.App
	Pins    *sim.Pins
	Peer    *sim.Peer
	Vectors *sim.Vectors
}

// New creates a new shell.
func New(a *app.App) *Shell {
	s := &Shell{Shell: ishell.New(), App: a}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(fmt.Sprintf("telelink[%d] > ", a.State.Period()))
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// Run runs the shell until the user exits.
func (s *Shell) Run() {
	s.Shell.Run()
}

// Close closes the shell.
func (s *Shell) Close() {
	s.Shell.Close()
}

// Status formats the current counters.
func (s *Shell) Status() string {
	st := s.App.Stats()
	var w bytes.Buffer
	fmt.Fprintf(&w, "period       %d (every %v)\n", st.Period, s.App.Options.Timings.SampleInterval(st.Period))
	fmt.Fprintf(&w, "batches      %d (%d samples)\n", st.Batches, st.Samples)
	fmt.Fprintf(&w, "pool         free=%d queued=%d producer=%d consumer=%d reclaimed=%d\n",
		st.Pool.Free, st.Pool.Queued, st.Pool.Producer, st.Pool.Consumer, st.Pool.Reclaimed)
	fmt.Fprintf(&w, "starvations  %d\n", st.Starvations)
	fmt.Fprintf(&w, "underruns    %d\n", st.Underruns)
	fmt.Fprintf(&w, "ack timeouts %d (faults %d)\n", st.AckTimeouts, st.Faults)
	fmt.Fprintf(&w, "write errors %d\n", st.WriteErrors)
	fmt.Fprintf(&w, "persist err  %d\n", st.PersistFailures)
	fmt.Fprintf(&w, "aux drops    %d", st.AuxDrops)
	return w.String()
}

// ParseButton maps a button name to its pin.
func ParseButton(name string) (hal.PinID, error) {
	switch name {
	case "inc", "increase", "+":
		return hal.PinIncrease, nil
	case "dec", "decrease", "-":
		return hal.PinDecrease, nil
	}
	return 0, fmt.Errorf("unknown button %q, expect inc or dec", name)
}

// Click presses the button long enough to pass the debouncer, then
// releases it.
func (s *Shell) Click(id hal.PinID) error {
	if s.Pins == nil {
		return ErrNoSim
	}
	hold := s.App.Options.Timings.InputPoll * time.Duration(s.App.Options.DebounceThreshold+1)
	s.Pins.Press(id)
	time.Sleep(hold)
	s.Pins.Release(id)
	time.Sleep(hold)
	s.Shell.SetPrompt(fmt.Sprintf("telelink[%d] > ", s.App.State.Period()))
	return nil
}

func buttonCmd(fn func(*Shell, hal.PinID) error) func(*ishell.Context) {
	return func(c *ishell.Context) {
		if len(c.Args) < 1 {
			c.Err(errors.New("BUTTON required"))
			return
		}
		id, err := ParseButton(c.Args[0])
		if err != nil {
			c.Err(err)
			return
		}
		if err := fn(ShellFrom(c), id); err != nil {
			c.Err(err)
		}
	}
}

var (
	// StatusCmd prints the counters.
	StatusCmd = ishell.Cmd{
		Name:    "status",
		Aliases: []string{"st"},
		Help:    "print counters",
		Func: func(c *ishell.Context) {
			c.Println(ShellFrom(c).Status())
		},
	}

	// CheckCmd verifies the buffer pool bookkeeping.
	CheckCmd = ishell.Cmd{
		Name: "check",
		Help: "verify buffer pool bookkeeping",
		Func: func(c *ishell.Context) {
			if err := ShellFrom(c).App.State.Pool.Check(); err != nil {
				c.Err(err)
				return
			}
			c.Println("OK")
		},
	}

	// PressCmd holds a button down.
	PressCmd = ishell.Cmd{
		Name: "press",
		Help: "BUTTON(inc|dec)",
		Func: buttonCmd(func(s *Shell, id hal.PinID) error {
			if s.Pins == nil {
				return ErrNoSim
			}
			s.Pins.Press(id)
			return nil
		}),
	}

	// ReleaseCmd lets a button go.
	ReleaseCmd = ishell.Cmd{
		Name: "release",
		Help: "BUTTON(inc|dec)",
		Func: buttonCmd(func(s *Shell, id hal.PinID) error {
			if s.Pins == nil {
				return ErrNoSim
			}
			s.Pins.Release(id)
			return nil
		}),
	}

	// ClickCmd presses and releases a button.
	ClickCmd = ishell.Cmd{
		Name:    "click",
		Aliases: []string{"c"},
		Help:    "BUTTON(inc|dec)",
		Func:    buttonCmd((*Shell).Click),
	}

	// MuteCmd stops or resumes acknowledgments from the simulated peer.
	MuteCmd = ishell.Cmd{
		Name: "mute",
		Help: "[on|off]",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			if s.Peer == nil {
				c.Err(ErrNoSim)
				return
			}
			muted := true
			if len(c.Args) > 0 {
				switch c.Args[0] {
				case "on":
				case "off":
					muted = false
				default:
					c.Err(fmt.Errorf("invalid argument %q", c.Args[0]))
					return
				}
			}
			s.Peer.Mute(muted)
			c.Printf("muted: %v\n", muted)
		},
	}

	// ScaleCmd sets the simulated aux vector.
	ScaleCmd = ishell.Cmd{
		Name: "scale",
		Help: "X [Y Z]",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			if s.Vectors == nil {
				c.Err(ErrNoSim)
				return
			}
			v, err := ParseVector(c.Args)
			if err != nil {
				c.Err(err)
				return
			}
			s.Vectors.Set(v)
		},
	}
)

// ParseVector parses up to three components, missing ones are zero.
func ParseVector(args []string) (v hal.Vec3, err error) {
	if len(args) < 1 || len(args) > 3 {
		return v, errors.New("1 to 3 components expected")
	}
	for i, arg := range args {
		val, err := strconv.ParseFloat(arg, 32)
		if err != nil {
			return v, fmt.Errorf("invalid component %q: %v", arg, err)
		}
		v[i] = float32(val)
	}
	return v, nil
}
