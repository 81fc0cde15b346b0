package host

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/nf/c8/chip8"
)

// DefaultRelease is how long Terminal holds a key after the terminal
// reports it.
const DefaultRelease = 150 * time.Millisecond

// Terminal is a Frontend that draws frames in a terminal, two pixels per
// character cell. Terminals report key presses but not releases, so each
// key is released once Release has passed without a repeat.
type Terminal struct {
	// Screen, if set, must already be initialised, and is not finalised
	// by Run. Nil means the controlling terminal.
	Screen  tcell.Screen
	Release time.Duration // zero means DefaultRelease

	On, Off tcell.Color
}

func (t *Terminal) Run(ctx context.Context, frames <-chan chip8.Frame, keys *chip8.Keypad) error {
	s := t.Screen
	if s == nil {
		var err error
		if s, err = tcell.NewScreen(); err != nil {
			return err
		}
		if err := s.Init(); err != nil {
			return err
		}
		defer s.Fini()
	}
	s.HideCursor()
	s.Clear()

	events := make(chan tcell.Event)
	quit := make(chan struct{})
	defer close(quit)
	go func() {
		for {
			ev := s.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()

	release := t.Release
	if release <= 0 {
		release = DefaultRelease
	}
	tick := time.NewTicker(release / 4)
	defer tick.Stop()

	var (
		pressed [chip8.NumKeys]time.Time
		last    chip8.Frame
	)
	for {
		select {
		case <-ctx.Done():
			return nil

		case f := <-frames:
			last = f
			t.draw(s, f)

		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				switch ev.Key() {
				case tcell.KeyEscape, tcell.KeyCtrlC:
					return nil
				case tcell.KeyRune:
					if k, ok := KeyForRune(ev.Rune()); ok {
						keys.Press(k)
						pressed[k] = time.Now()
					}
				}
			case *tcell.EventResize:
				s.Sync()
				t.draw(s, last)
			}

		case now := <-tick.C:
			for k, at := range pressed {
				if !at.IsZero() && now.Sub(at) >= release {
					keys.Release(chip8.Key(k))
					pressed[k] = time.Time{}
				}
			}
		}
	}
}

// draw renders f using the upper half block: the foreground colour is
// the upper pixel and the background colour the lower one.
func (t *Terminal) draw(s tcell.Screen, f chip8.Frame) {
	on, off := t.On, t.Off
	if on == tcell.ColorDefault && off == tcell.ColorDefault {
		on, off = tcell.ColorWhite, tcell.ColorBlack
	}
	color := func(b bool) tcell.Color {
		if b {
			return on
		}
		return off
	}
	for y := 0; y < f.Height; y += 2 {
		for x := 0; x < f.Width; x++ {
			st := tcell.StyleDefault.
				Foreground(color(f.At(x, y))).
				Background(color(f.At(x, y+1)))
			s.SetContent(x, y/2, '▀', nil, st)
		}
	}
	s.Show()
}
