package host

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/nf/c8/chip8"
)

// Palette holds the colours of unset and set pixels.
type Palette [2]color.Color

var DefaultPalette = Palette{
	color.RGBA{0x10, 0x10, 0x10, 0xff},
	color.RGBA{0xe8, 0xe8, 0xe8, 0xff},
}

// FrameImage returns f as a paletted image, one image pixel per display
// pixel.
func FrameImage(f chip8.Frame, p Palette) *image.Paletted {
	img := image.NewPaletted(image.Rect(0, 0, f.Width, f.Height), color.Palette{p[0], p[1]})
	for i, on := range f.Pix {
		if on {
			img.Pix[i] = 1
		}
	}
	return img
}

// renderFrame scales f to fill dst without smoothing.
func renderFrame(dst draw.Image, f chip8.Frame, p Palette) {
	src := FrameImage(f, p)
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
}
