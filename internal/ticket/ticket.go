// Package ticket composes QR tickets: background canvas, QR layer, then the
// decorative frame on top.
package ticket

import (
	"fmt"
	"image"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// Variant selects a frame asset and its QR window.
type Variant int

const (
	VariantPrimary Variant = iota + 1
	VariantGuest
)

func (v Variant) String() string {
	switch v {
	case VariantPrimary:
		return "primary"
	case VariantGuest:
		return "guest"
	default:
		return fmt.Sprintf("variant(%d)", int(v))
	}
}

// Sequence numbers encoded into the QR payload.
const (
	SequencePrimary = 1
	SequenceGuest   = 2
)

// Request describes one ticket to render and send.
type Request struct {
	RecipientID string
	Sequence    int
	Variant     Variant
	Caption     string
}

// Payload is the text encoded in the QR symbol, unique per recipient and role.
func (r Request) Payload() string {
	return fmt.Sprintf("%s-%d", r.RecipientID, r.Sequence)
}

// Layout binds a frame file to the top-left corner of its printable window.
type Layout struct {
	FramePath string
	Offset    image.Point
}

// ParseColor converts "#rrggbb" into an opaque color.
func ParseColor(hex string) (color.RGBA, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("parse color %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}
