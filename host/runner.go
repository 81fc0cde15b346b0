// Package host runs CHIP-8 machines and connects them to a user interface.
package host

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/nf/c8/chip8"
)

// Frontend presents frames to the user and delivers key events to the
// keypad. Run blocks until the user quits or ctx is done.
type Frontend interface {
	Run(ctx context.Context, frames <-chan chip8.Frame, keys *chip8.Keypad) error
}

// StateKind describes why a StateFunc is called.
type StateKind int

const (
	RunState StateKind = iota
	PauseState
	BreakState
	HaltState
)

func (k StateKind) String() string {
	switch k {
	case RunState:
		return "run"
	case PauseState:
		return "pause"
	case BreakState:
		return "break"
	case HaltState:
		return "halt"
	}
	return fmt.Sprintf("StateKind(%d)", int(k))
}

// StateFunc is called with the machine whenever it stops or starts
// running. The machine must not be retained after the call returns.
type StateFunc func(m *chip8.Machine, k StateKind)

type Config struct {
	Frontend Frontend    // nil means Headless
	Hz       int         // instructions per second; 0 means chip8.DefaultHz
	Seed     int64       // random seed; 0 seeds from the clock
	Clock    chip8.Clock // nil means chip8.SystemClock
	Dev      bool        // keep running after a halt and accept Swap
	State    StateFunc
}

// Runner supervises a Machine on behalf of a Frontend.
type Runner struct {
	cfg    Config
	keys   *chip8.Keypad
	frames chan chip8.Frame

	swap     chan []byte
	swapDone chan error
	debug    chan debugCmd
	done     chan struct{}
}

type debugCmd struct {
	cmd  string
	addr uint16
}

func NewRunner(cfg Config) *Runner {
	return &Runner{
		cfg:      cfg,
		keys:     chip8.NewKeypad(),
		frames:   make(chan chip8.Frame, 1),
		swap:     make(chan []byte),
		swapDone: make(chan error),
		debug:    make(chan debugCmd),
		done:     make(chan struct{}),
	}
}

var errStopped = errors.New("runner stopped")

// Swap replaces the running machine with a new one executing rom.
// It may only be called in dev mode, while Run is running.
func (r *Runner) Swap(rom []byte) error {
	if !r.cfg.Dev {
		panic("Swap called while not running in dev mode")
	}
	select {
	case r.swap <- rom:
		return <-r.swapDone
	case <-r.done:
		return errStopped
	}
}

// Debug issues a debugger command to the running machine:
//
//	pause  stop at the next tick boundary
//	cont   resume execution
//	step   execute one tick while paused
//	break  set a breakpoint at addr
//	clear  remove all breakpoints
func (r *Runner) Debug(cmd string, addr uint16) error {
	switch cmd {
	case "pause", "cont", "step", "break", "clear":
	default:
		return fmt.Errorf("unknown debug command %q", cmd)
	}
	select {
	case r.debug <- debugCmd{cmd, addr}:
		return nil
	case <-r.done:
		return errStopped
	}
}

// Run executes rom until ctx is done, the frontend exits, or (outside dev
// mode) the machine halts. The frontend runs on the calling goroutine.
// Run may only be called once.
func (r *Runner) Run(ctx context.Context, rom []byte) error {
	m, err := r.newMachine(rom)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var execErr error
	go func() {
		defer close(r.done)
		execErr = r.supervise(ctx, m)
		cancel()
	}()

	fe := r.cfg.Frontend
	if fe == nil {
		fe = Headless{}
	}
	err = fe.Run(ctx, r.frames, r.keys)
	cancel()
	<-r.done
	if execErr != nil {
		return execErr
	}
	return err
}

func (r *Runner) newMachine(rom []byte) (*chip8.Machine, error) {
	m, err := chip8.NewMachine(rom)
	if err != nil {
		return nil, err
	}
	r.keys.Reset()
	m.Keys = r.keys
	m.Frames = r.frames
	if r.cfg.Hz > 0 {
		m.Hz = r.cfg.Hz
	}
	if r.cfg.Clock != nil {
		m.Clock = r.cfg.Clock
	}
	if r.cfg.Seed != 0 {
		m.Seed(r.cfg.Seed)
	}
	return m, nil
}

// execution is a call to Machine.Run on its own goroutine.
type execution struct {
	stop context.CancelFunc
	done chan error
}

func start(ctx context.Context, m *chip8.Machine) *execution {
	ctx, stop := context.WithCancel(ctx)
	e := &execution{stop: stop, done: make(chan error, 1)}
	go func() { e.done <- m.Run(ctx) }()
	return e
}

// halt stops the execution and returns the error it ended with, if it
// ended on its own.
func (e *execution) halt() error {
	e.stop()
	if err := <-e.done; !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func (r *Runner) supervise(ctx context.Context, m *chip8.Machine) error {
	var (
		breaks = map[uint16]bool{}
		paused bool
		halted bool
		exec   *execution
	)

	// stopped handles an execution that ended with err and reports
	// whether the runner must exit.
	stopped := func(err error) (fatal error) {
		switch {
		case err == nil:
		case errors.Is(err, chip8.ErrBreak):
			paused = true
			r.state(m, BreakState)
		case errors.Is(err, context.Canceled):
		default:
			if !r.cfg.Dev {
				return err
			}
			log.Printf("halt: %v", err)
			halted = true
			r.state(m, HaltState)
		}
		return nil
	}
	stop := func() error {
		if exec == nil {
			return nil
		}
		err := exec.halt()
		exec = nil
		return stopped(err)
	}

	for {
		if exec == nil && !paused && !halted {
			m.Breaks = breaks
			r.state(m, RunState)
			exec = start(ctx, m)
		}
		var done <-chan error
		if exec != nil {
			done = exec.done
		}

		select {
		case <-ctx.Done():
			if exec != nil {
				exec.halt()
			}
			return nil

		case err := <-done:
			exec = nil
			if errors.Is(err, context.Canceled) {
				return nil
			}
			if err := stopped(err); err != nil {
				return err
			}

		case rom := <-r.swap:
			if err := stop(); err != nil {
				r.swapDone <- err
				return err
			}
			nm, err := r.newMachine(rom)
			if err == nil {
				m, halted = nm, false
			}
			r.swapDone <- err

		case c := <-r.debug:
			if err := stop(); err != nil {
				return err
			}
			switch c.cmd {
			case "pause":
				paused = true
			case "cont":
				paused = false
			case "step":
				paused = true
				if halted {
					break
				}
				if err := m.Step(); err != nil {
					if err := stopped(err); err != nil {
						return err
					}
					continue
				}
			case "break":
				breaks[c.addr] = true
			case "clear":
				breaks = map[uint16]bool{}
			}
			if paused || halted {
				r.state(m, PauseState)
			}
		}
	}
}

func (r *Runner) state(m *chip8.Machine, k StateKind) {
	if r.cfg.State != nil {
		r.cfg.State(m, k)
	}
}
