package host

import (
	"image"
	"testing"

	"github.com/nf/c8/chip8"
)

func TestRenderFrame(t *testing.T) {
	f := chip8.Frame{Width: 2, Height: 1, Pix: []bool{true, false}}
	dst := image.NewRGBA(image.Rect(0, 0, 4, 2))
	renderFrame(dst, f, DefaultPalette)
	on, off := DefaultPalette[1], DefaultPalette[0]
	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			want := off
			if x < 2 {
				want = on
			}
			gr, gg, gb, ga := dst.At(x, y).RGBA()
			wr, wg, wb, wa := want.RGBA()
			if gr != wr || gg != wg || gb != wb || ga != wa {
				t.Errorf("pixel (%d, %d) is %v, want %v", x, y, dst.At(x, y), want)
			}
		}
	}
}

func TestFrameImage(t *testing.T) {
	f := chip8.Frame{Width: 3, Height: 2, Pix: []bool{false, true, false, true, false, false}}
	img := FrameImage(f, DefaultPalette)
	if b := img.Bounds(); b.Dx() != 3 || b.Dy() != 2 {
		t.Fatalf("bounds %v", b)
	}
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			if g, w := img.ColorIndexAt(x, y) == 1, f.At(x, y); g != w {
				t.Errorf("pixel (%d, %d) on = %v, want %v", x, y, g, w)
			}
		}
	}
}
