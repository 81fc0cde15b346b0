package chip8

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestMachine(t *testing.T, rom ...byte) (*Machine, *ManualClock) {
	t.Helper()
	m, err := NewMachine(rom)
	if err != nil {
		t.Fatal(err)
	}
	c := NewManualClock(time.Unix(0, 0))
	m.Clock = c
	m.Seed(1)
	return m, c
}

func TestTimers(t *testing.T) {
	m, _ := newTestMachine(t, 0x12, 0x00)
	m.DT, m.ST = 5, 2
	for i := 1; i <= 200; i++ {
		if err := m.Step(); err != nil {
			t.Fatal(err)
		}
		wantDT := 5 - i/9
		if wantDT < 0 {
			wantDT = 0
		}
		wantST := 2 - i/9
		if wantST < 0 {
			wantST = 0
		}
		if int(m.DT) != wantDT || int(m.ST) != wantST {
			t.Fatalf("tick %d: DT = %d, ST = %d; want %d, %d", i, m.DT, m.ST, wantDT, wantST)
		}
	}
	if m.Ticks() != 200 {
		t.Errorf("Ticks() = %d, want 200", m.Ticks())
	}
}

func TestRunClearLoop(t *testing.T) {
	m, _ := newTestMachine(t, 0x00, 0xe0, 0x12, 0x00)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()
	for i := 0; i < 100; i++ {
		f := <-m.Frames
		if f.Width != DisplayWidth || f.Height != DisplayHeight {
			t.Fatalf("frame is %dx%d", f.Width, f.Height)
		}
		for _, p := range f.Pix {
			if p {
				t.Fatal("pixel set in cleared frame")
			}
		}
	}
	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("Run returned %v, want context.Canceled", err)
	}
	if m.PC != 0x200 && m.PC != 0x202 {
		t.Errorf("PC is %.3x", m.PC)
	}
	if m.Ticks() < 200 {
		t.Errorf("only %d ticks for 100 frames", m.Ticks())
	}
}

func TestRunCancelled(t *testing.T) {
	m, _ := newTestMachine(t, 0x12, 0x00)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := m.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run returned %v, want context.Canceled", err)
	}
	if m.Ticks() != 0 {
		t.Errorf("executed %d ticks after cancellation", m.Ticks())
	}
}

func TestRunPacing(t *testing.T) {
	// ADD V0, 1; SE V0, 64; JP 200; JP 206
	m, c := newTestMachine(t, 0x70, 0x01, 0x30, 0x64, 0x12, 0x00, 0x12, 0x06)
	m.Hz = 600
	m.Breaks = map[uint16]bool{0x206: true}
	start := c.Now()
	if err := m.Run(context.Background()); err != ErrBreak {
		t.Fatalf("Run returned %v, want ErrBreak", err)
	}
	const ticks = 99*3 + 2
	if m.Ticks() != ticks {
		t.Errorf("Ticks() = %d, want %d", m.Ticks(), ticks)
	}
	if g, w := c.Now().Sub(start), ticks*(time.Second/600); g != w {
		t.Errorf("took %v of clock time, want %v", g, w)
	}
}

func TestRunBreak(t *testing.T) {
	// LD V0, 1; LD V1, 2; LD V2, 3; JP 206
	m, _ := newTestMachine(t, 0x60, 0x01, 0x61, 0x02, 0x62, 0x03, 0x12, 0x06)
	m.Breaks = map[uint16]bool{0x204: true, 0x206: true}
	if err := m.Run(context.Background()); err != ErrBreak {
		t.Fatalf("Run returned %v, want ErrBreak", err)
	}
	if m.PC != 0x204 || m.V[1] != 2 || m.V[2] != 0 {
		t.Fatalf("stopped at %.3x with V2 = %d", m.PC, m.V[2])
	}
	// Resuming executes the breakpoint instruction.
	if err := m.Run(context.Background()); err != ErrBreak {
		t.Fatalf("Run returned %v, want ErrBreak", err)
	}
	if m.PC != 0x206 || m.V[2] != 3 {
		t.Fatalf("stopped at %.3x with V2 = %d", m.PC, m.V[2])
	}
}

func TestRunHalt(t *testing.T) {
	m, _ := newTestMachine(t, 0x60, 0x01, 0x51, 0x21)
	err := m.Run(context.Background())
	var h HaltError
	if !errors.As(err, &h) || h.HaltCode != BadOpcode || h.Addr != 0x202 {
		t.Fatalf("Run returned %v, want bad opcode at 202", err)
	}
}

func TestRunWaitKey(t *testing.T) {
	// LD V0, K; CLS; JP 204
	m, _ := newTestMachine(t, 0xf0, 0x0a, 0x00, 0xe0, 0x12, 0x04)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	time.Sleep(10 * time.Millisecond)
	select {
	case <-m.Frames:
		t.Fatal("frame published before key press")
	default:
	}
	m.Keys.Press(7)
	select {
	case <-m.Frames:
	case <-time.After(5 * time.Second):
		t.Fatal("no frame after key press")
	}
	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("Run returned %v", err)
	}
	if m.V[0] != 7 {
		t.Errorf("V0 = %d, want 7", m.V[0])
	}
}
