package host

import (
	"context"
	"image"
	"log"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/image/draw"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/nf/c8/chip8"
)

// DefaultScale is the number of window pixels per display pixel.
const DefaultScale = 10

// GUI is a Frontend that shows frames in a window. It must be run on the
// program's main goroutine.
type GUI struct {
	Title   string
	Scale   int
	Palette Palette
}

var keyCodes = map[key.Code]chip8.Key{
	key.Code1: 0x1, key.Code2: 0x2, key.Code3: 0x3, key.Code4: 0xc,
	key.CodeQ: 0x4, key.CodeW: 0x5, key.CodeE: 0x6, key.CodeR: 0xd,
	key.CodeA: 0x7, key.CodeS: 0x8, key.CodeD: 0x9, key.CodeF: 0xe,
	key.CodeZ: 0xa, key.CodeX: 0x0, key.CodeC: 0xb, key.CodeV: 0xf,
}

func (g *GUI) Run(ctx context.Context, frames <-chan chip8.Frame, keys *chip8.Keypad) error {
	var err error
	driver.Main(func(s screen.Screen) {
		err = g.run(ctx, s, frames, keys)
	})
	return err
}

func (g *GUI) run(ctx context.Context, s screen.Screen, frames <-chan chip8.Frame, keys *chip8.Keypad) error {
	scale := g.Scale
	if scale <= 0 {
		scale = DefaultScale
	}
	title := g.Title
	if title == "" {
		title = "c8"
	}
	pal := g.Palette
	if pal[0] == nil || pal[1] == nil {
		pal = DefaultPalette
	}
	bufSize := image.Pt(chip8.DisplayWidth*scale, chip8.DisplayHeight*scale)

	w, err := s.NewWindow(&screen.NewWindowOptions{
		Title:  title,
		Width:  bufSize.X,
		Height: bufSize.Y,
	})
	if err != nil {
		return err
	}
	defer w.Release()

	buf, err := s.NewBuffer(bufSize)
	if err != nil {
		return err
	}
	defer buf.Release()
	tex, err := s.NewTexture(bufSize)
	if err != nil {
		return err
	}
	defer tex.Release()

	var (
		quit      = make(chan struct{})
		forwarded = make(chan struct{})
	)
	go func() {
		defer close(forwarded)
		forwardFrames(ctx, quit, frames, w.Send)
	}()
	// The forwarder must be gone before the window is released.
	defer func() {
		close(quit)
		<-forwarded
	}()

	sz := size.Event{WidthPx: bufSize.X, HeightPx: bufSize.Y}
	for {
		switch e := w.NextEvent().(type) {
		case stopEvent:
			return nil

		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				return nil
			}

		case size.Event:
			sz = e
			if sz.WidthPx+sz.HeightPx == 0 {
				return nil
			}

		case key.Event:
			if e.Code == key.CodeEscape {
				return nil
			}
			k, ok := keyCodes[e.Code]
			if !ok {
				break
			}
			switch e.Direction {
			case key.DirPress:
				keys.Press(k)
			case key.DirRelease:
				keys.Release(k)
			}

		case frameEvent:
			renderFrame(buf.RGBA(), e.f, pal)
			tex.Upload(image.Point{}, buf, buf.Bounds())
			w.Send(paint.Event{})

		case paint.Event:
			w.Scale(sz.Bounds(), tex, tex.Bounds(), draw.Src, nil)
			w.Publish()

		case error:
			log.Print(e)
		}
	}
}

type (
	frameEvent struct{ f chip8.Frame }
	stopEvent  struct{}
)

// forwardFrames sends each frame to the window as a frameEvent until quit
// is closed, or ctx is done, in which case it sends a stopEvent.
func forwardFrames(ctx context.Context, quit <-chan struct{}, frames <-chan chip8.Frame, send func(event interface{})) {
	for {
		select {
		case f := <-frames:
			send(frameEvent{f})
		case <-ctx.Done():
			send(stopEvent{})
			return
		case <-quit:
			return
		}
	}
}
