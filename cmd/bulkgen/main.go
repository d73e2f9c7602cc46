// bulkgen pre-renders a run of numbered tickets for one recipient, e.g. for
// printing or hand delivery. Files are named ticket_<phone>-<n>.png.
package main

import (
	"context"
	"fmt"
	"image"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/PratikDhanave/event-rsvp-bot/internal/logger"
	"github.com/PratikDhanave/event-rsvp-bot/internal/qrcode"
	"github.com/PratikDhanave/event-rsvp-bot/internal/ticket"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var (
		phone      string
		count      int
		frame      string
		outDir     string
		size       int
		margin     int
		top        int
		left       int
		background string
	)

	flags := pflag.NewFlagSet("bulkgen", pflag.ContinueOnError)
	flags.StringVarP(&phone, "phone", "p", "", "recipient phone number encoded in every ticket (required)")
	flags.IntVarP(&count, "count", "n", 100, "number of tickets to generate")
	flags.StringVar(&frame, "frame", filepath.Join("assets", "QrCodeFrameA1.png"), "frame image")
	flags.StringVarP(&outDir, "out", "o", "generated_qrs", "output directory")
	flags.IntVar(&size, "size", 720, "QR side length in pixels")
	flags.IntVar(&margin, "margin", 2, "quiet zone in modules")
	flags.IntVar(&top, "top", 215, "QR offset from the top edge of the frame")
	flags.IntVar(&left, "left", 180, "QR offset from the left edge of the frame")
	flags.StringVar(&background, "background", "#081540", "canvas color behind the frame")

	if err := flags.Parse(args); err != nil {
		return err
	}
	if phone == "" {
		return fmt.Errorf("--phone is required")
	}

	log := logger.New("info", "console")
	defer log.Sync()

	bg, err := ticket.ParseColor(background)
	if err != nil {
		return err
	}
	qr := qrcode.DefaultOptions()
	qr.SizePx, qr.Margin = size, margin

	r := ticket.NewRenderer(map[ticket.Variant]ticket.Layout{
		ticket.VariantPrimary: {FramePath: frame, Offset: image.Pt(left, top)},
	}, qr, bg)
	if err := r.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.Info("generating tickets", zap.String("phone", phone), zap.Int("count", count), zap.String("out", outDir))
	err = ticket.RenderBatch(ctx, r, outDir, phone, count, func(n int, path string) {
		log.Info("saved", zap.Int("n", n), zap.Int("of", count), zap.String("file", filepath.Base(path)))
	})
	if err != nil {
		return err
	}
	log.Info("done", zap.String("out", outDir))
	return nil
}
