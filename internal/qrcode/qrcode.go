// Package qrcode renders text payloads as square raster QR symbols.
package qrcode

import (
	"image"
	"image/color"

	goqrcode "github.com/skip2/go-qrcode"

	"github.com/PratikDhanave/event-rsvp-bot/internal/errs"
)

// Options controls the raster output. Margin is the quiet zone in modules.
type Options struct {
	SizePx int
	Margin int
	Dark   color.Color
	Light  color.Color
}

// DefaultOptions matches the ticket frames shipped with the service.
func DefaultOptions() Options {
	return Options{
		SizePx: 650,
		Margin: 1,
		Dark:   color.Black,
		Light:  color.White,
	}
}

// Encoder turns a payload into a raster symbol.
type Encoder interface {
	Encode(payload string, opts Options) (image.Image, error)
}

// Codec is the default Encoder. It uses medium error correction.
type Codec struct{}

func (Codec) Encode(payload string, opts Options) (image.Image, error) {
	return Encode(payload, opts)
}

// Encode renders payload as an opts.SizePx square image. Output depends only on
// the arguments, so identical calls yield identical pixels.
func Encode(payload string, opts Options) (*image.Paletted, error) {
	if payload == "" {
		return nil, errs.Encoding("empty payload", nil)
	}
	if opts.SizePx <= 0 || opts.Margin < 0 {
		return nil, errs.Encoding("invalid raster options", nil)
	}
	if opts.Dark == nil {
		opts.Dark = color.Black
	}
	if opts.Light == nil {
		opts.Light = color.White
	}

	q, err := goqrcode.New(payload, goqrcode.Medium)
	if err != nil {
		return nil, errs.Encoding("payload exceeds symbol capacity", err)
	}
	q.DisableBorder = true
	bitmap := q.Bitmap()

	modules := len(bitmap)
	total := modules + 2*opts.Margin
	if opts.SizePx < total {
		return nil, errs.Encoding("size smaller than module count", nil)
	}

	img := image.NewPaletted(image.Rect(0, 0, opts.SizePx, opts.SizePx),
		color.Palette{opts.Light, opts.Dark})

	// Nearest-module sampling keeps the exact pixel size without scaling artefacts.
	lookup := make([]int, opts.SizePx)
	for p := range lookup {
		lookup[p] = p*total/opts.SizePx - opts.Margin
	}

	for y := 0; y < opts.SizePx; y++ {
		my := lookup[y]
		if my < 0 || my >= modules {
			continue
		}
		row := bitmap[my]
		off := y * img.Stride
		for x := 0; x < opts.SizePx; x++ {
			mx := lookup[x]
			if mx >= 0 && mx < modules && row[mx] {
				img.Pix[off+x] = 1
			}
		}
	}

	return img, nil
}
