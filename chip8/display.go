package chip8

import "sync"

// Default display dimensions.
const (
	DisplayWidth  = 64
	DisplayHeight = 32
)

// Display is a monochrome pixel grid that is drawn on by XOR-ing sprites.
// It is safe for concurrent use.
type Display struct {
	mu  sync.Mutex
	w   int
	h   int
	pix []bool
}

// NewDisplay returns a blank display of the given size.
func NewDisplay(w, h int) *Display {
	if w <= 0 || h <= 0 {
		panic("chip8: display dimensions must be positive")
	}
	return &Display{w: w, h: h, pix: make([]bool, w*h)}
}

// Clear unsets every pixel.
func (d *Display) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := range d.pix {
		d.pix[i] = false
	}
}

// Draw XORs rows of sprite bits onto the display with its top-left
// corner at (x, y). Within a row, index 0 is the leftmost pixel. Each
// pixel wraps around both edges independently. Draw reports whether any
// pixel was changed from set to unset.
func (d *Display) Draw(x, y int, rows [][]bool) (collided bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, row := range rows {
		py := mod(y+i, d.h)
		for j, bit := range row {
			if !bit {
				continue
			}
			p := &d.pix[py*d.w+mod(x+j, d.w)]
			if *p {
				collided = true
			}
			*p = !*p
		}
	}
	return collided
}

// DrawSprite draws a sprite made of 8-pixel-wide rows, one byte per row,
// with the most significant bit leftmost.
func (d *Display) DrawSprite(x, y int, sprite []byte) bool {
	rows := make([][]bool, len(sprite))
	for i, b := range sprite {
		row := make([]bool, 8)
		for j := range row {
			row[j] = b&(0x80>>j) != 0
		}
		rows[i] = row
	}
	return d.Draw(x, y, rows)
}

// Snapshot returns a copy of the current pixels.
func (d *Display) Snapshot() Frame {
	d.mu.Lock()
	defer d.mu.Unlock()
	f := Frame{Width: d.w, Height: d.h, Pix: make([]bool, len(d.pix))}
	copy(f.Pix, d.pix)
	return f
}

// Frame is an immutable copy of the display contents.
type Frame struct {
	Width, Height int
	Pix           []bool // row-major
}

// At reports whether the pixel at (x, y) is set.
func (f Frame) At(x, y int) bool {
	if x < 0 || y < 0 || x >= f.Width || y >= f.Height {
		return false
	}
	return f.Pix[y*f.Width+x]
}

func (f Frame) String() string {
	b := make([]byte, 0, (f.Width+1)*f.Height)
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			if f.At(x, y) {
				b = append(b, '#')
			} else {
				b = append(b, '.')
			}
		}
		b = append(b, '\n')
	}
	return string(b)
}

func mod(a, n int) int {
	a %= n
	if a < 0 {
		a += n
	}
	return a
}
