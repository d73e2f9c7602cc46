package ticket

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"golang.org/x/image/draw"

	"github.com/PratikDhanave/event-rsvp-bot/internal/errs"
)

// LoadFrame decodes a frame asset from disk.
func LoadFrame(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.MissingAsset(path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, errs.MissingAsset(path, err)
	}
	return img, nil
}

// Compose builds a canvas the size of frame filled with background, places qr
// unscaled at offset and layers frame over it at the origin. A QR that would
// extend past the canvas is a layout error; nothing is clipped.
func Compose(frame, qr image.Image, offset image.Point, background color.Color) (*image.RGBA, error) {
	fb := frame.Bounds()
	canvas := image.NewRGBA(image.Rect(0, 0, fb.Dx(), fb.Dy()))

	qb := qr.Bounds()
	footprint := qb.Sub(qb.Min).Add(offset)
	if !footprint.In(canvas.Bounds()) {
		return nil, errs.Layout(fmt.Sprintf("qr %v at %v exceeds frame %dx%d",
			qb.Size(), offset, fb.Dx(), fb.Dy()))
	}

	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)
	draw.Copy(canvas, offset, qr, qb, draw.Over, nil)
	draw.Draw(canvas, canvas.Bounds(), frame, fb.Min, draw.Over)

	return canvas, nil
}
