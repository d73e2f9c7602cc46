package ticket

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"github.com/PratikDhanave/event-rsvp-bot/internal/errs"
	"github.com/PratikDhanave/event-rsvp-bot/internal/qrcode"
)

// Renderer turns a Request into PNG bytes.
type Renderer struct {
	Layouts    map[Variant]Layout
	Encoder    qrcode.Encoder
	QR         qrcode.Options
	Background color.Color
}

// NewRenderer returns a Renderer using the default QR codec.
func NewRenderer(layouts map[Variant]Layout, qr qrcode.Options, background color.Color) *Renderer {
	return &Renderer{
		Layouts:    layouts,
		Encoder:    qrcode.Codec{},
		QR:         qr,
		Background: background,
	}
}

// Render loads the frame before any QR work so a missing asset costs nothing.
func (r *Renderer) Render(req Request) ([]byte, error) {
	layout, ok := r.Layouts[req.Variant]
	if !ok {
		return nil, errs.MissingAsset(fmt.Sprintf("no frame for %s", req.Variant), nil)
	}

	frame, err := LoadFrame(layout.FramePath)
	if err != nil {
		return nil, err
	}

	qr, err := r.Encoder.Encode(req.Payload(), r.QR)
	if err != nil {
		return nil, err
	}

	canvas, err := Compose(frame, qr, layout.Offset, r.Background)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// Validate checks every layout: the frame must be readable and the QR square
// must fit inside it at the configured offset. Call at startup.
func (r *Renderer) Validate() error {
	for variant, layout := range r.Layouts {
		frame, err := LoadFrame(layout.FramePath)
		if err != nil {
			return fmt.Errorf("%s frame: %w", variant, err)
		}
		qr := image.Rect(0, 0, r.QR.SizePx, r.QR.SizePx).Add(layout.Offset)
		fb := frame.Bounds()
		if !qr.In(image.Rect(0, 0, fb.Dx(), fb.Dy())) {
			return fmt.Errorf("%s frame: %w", variant,
				errs.Layout(fmt.Sprintf("qr %v exceeds frame %dx%d", qr, fb.Dx(), fb.Dy())))
		}
	}
	return nil
}
