package qrcode

import (
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/makiuchi-d/gozxing"
	zxqr "github.com/makiuchi-d/gozxing/qrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PratikDhanave/event-rsvp-bot/internal/errs"
)

func decode(t *testing.T, img image.Image) string {
	t.Helper()

	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	require.NoError(t, err)

	hints := map[gozxing.DecodeHintType]interface{}{
		gozxing.DecodeHintType_TRY_HARDER: true,
	}
	res, err := zxqr.NewQRCodeReader().Decode(bmp, hints)
	require.NoError(t, err)
	return res.GetText()
}

func TestEncode_SizeAndRoundTrip(t *testing.T) {
	img, err := Encode("201020068368-1", DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, image.Rect(0, 0, 650, 650), img.Bounds())
	assert.Equal(t, "201020068368-1", decode(t, img))
}

func TestEncode_Deterministic(t *testing.T) {
	opts := Options{SizePx: 300, Margin: 2, Dark: color.Black, Light: color.White}

	a, err := Encode("15551234567-2", opts)
	require.NoError(t, err)
	b, err := Encode("15551234567-2", opts)
	require.NoError(t, err)

	assert.Equal(t, a.Pix, b.Pix)
}

func TestEncode_DistinctPayloadsDiffer(t *testing.T) {
	a, err := Encode("15551234567-1", DefaultOptions())
	require.NoError(t, err)
	b, err := Encode("15551234567-2", DefaultOptions())
	require.NoError(t, err)

	assert.NotEqual(t, a.Pix, b.Pix)
}

func TestEncode_MarginIsLight(t *testing.T) {
	img, err := Encode("margin-check", Options{SizePx: 290, Margin: 4})
	require.NoError(t, err)

	// The outer quiet zone never carries dark modules.
	for x := 0; x < 290; x++ {
		assert.Equal(t, uint8(0), img.ColorIndexAt(x, 0))
		assert.Equal(t, uint8(0), img.ColorIndexAt(x, 289))
	}
}

func TestEncode_Errors(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		opts    Options
	}{
		{"empty payload", "", DefaultOptions()},
		{"oversized payload", strings.Repeat("x", 4000), DefaultOptions()},
		{"zero size", "abc", Options{SizePx: 0}},
		{"negative margin", "abc", Options{SizePx: 100, Margin: -1}},
		{"size below module count", "abc", Options{SizePx: 10, Margin: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Encode(tt.payload, tt.opts)
			require.Error(t, err)
			assert.True(t, errs.HasCode(err, errs.CodeEncoding))
		})
	}
}

func TestCodec_ImplementsEncoder(t *testing.T) {
	var enc Encoder = Codec{}
	img, err := enc.Encode("abc-1", Options{SizePx: 100, Margin: 1})
	require.NoError(t, err)
	assert.Equal(t, 100, img.Bounds().Dx())
}
