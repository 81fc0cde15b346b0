package host

import (
	"context"

	"github.com/nf/c8/chip8"
)

// Headless is a Frontend that discards frames and never presses keys.
type Headless struct{}

func (Headless) Run(ctx context.Context, frames <-chan chip8.Frame, _ *chip8.Keypad) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-frames:
		}
	}
}
