package chip8

import (
	"context"
	"errors"
	"time"
)

// ErrBreak is returned by Run when execution reaches an address in
// Machine.Breaks.
var ErrBreak = errors.New("break")

// Run executes instructions at the machine's Hz rate until ctx is done
// or a halt condition is encountered. The context is only checked
// between ticks, so an instruction is never partially executed.
//
// Run paces itself against Clock: when it gets ahead of the schedule it
// waits, and when it falls behind it runs without waiting until it has
// caught up. While the machine waits for a key press, Run sleeps until
// the keypad reports an event or one tick period has passed.
//
// If the instruction at PC is a breakpoint, Run executes it; Run stops
// before executing any later breakpoint.
func (m *Machine) Run(ctx context.Context) error {
	var (
		clock  = m.clock()
		period = time.Second / time.Duration(m.hz())
		start  = clock.Now()
		ticks  time.Duration
		first  = true
	)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !first && !m.waiting && m.Breaks[m.PC] {
			return ErrBreak
		}
		first = false

		if err := m.Step(); err != nil {
			return err
		}
		ticks++

		if m.waiting {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-m.Keys.Ready():
			case <-clock.After(period):
			}
			start, ticks = clock.Now(), 0
			continue
		}

		if ahead := start.Add(ticks * period).Sub(clock.Now()); ahead > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-clock.After(ahead):
			}
		}
	}
}

func (m *Machine) clock() Clock {
	if m.Clock == nil {
		return SystemClock
	}
	return m.Clock
}

func (m *Machine) hz() int {
	if m.Hz <= 0 {
		return DefaultHz
	}
	return m.Hz
}
