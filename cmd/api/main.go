package main

import (
	"context"
	"errors"
	"image"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/PratikDhanave/event-rsvp-bot/internal/audit"
	"github.com/PratikDhanave/event-rsvp-bot/internal/bot"
	"github.com/PratikDhanave/event-rsvp-bot/internal/config"
	"github.com/PratikDhanave/event-rsvp-bot/internal/dedupe"
	"github.com/PratikDhanave/event-rsvp-bot/internal/dispatch"
	"github.com/PratikDhanave/event-rsvp-bot/internal/httpserver"
	"github.com/PratikDhanave/event-rsvp-bot/internal/logger"
	"github.com/PratikDhanave/event-rsvp-bot/internal/metrics"
	"github.com/PratikDhanave/event-rsvp-bot/internal/qrcode"
	"github.com/PratikDhanave/event-rsvp-bot/internal/rsvp"
	"github.com/PratikDhanave/event-rsvp-bot/internal/store"
	"github.com/PratikDhanave/event-rsvp-bot/internal/ticket"
	"github.com/PratikDhanave/event-rsvp-bot/internal/whatsapp"
)

// main boots the service: config → event log → ticket pipeline → bot → HTTP server.
func main() {
	// Load runtime config from .env and the environment.
	cfg, err := config.Load()
	if err != nil {
		logger.New("info", "json").Fatal("config load failed", zap.Error(err))
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Event log: Postgres when DB_URL is set, otherwise an in-memory ring.
	var (
		eventLog store.EventLog
		db       httpserver.Pinger
	)
	if cfg.DBURL != "" {
		pg, err := store.NewPostgresLog(cfg.DBURL)
		if err != nil {
			log.Fatal("postgres connect failed", zap.Error(err))
		}
		defer pg.Close()

		if err := pg.EnsureSchema(ctx); err != nil {
			log.Fatal("schema apply failed", zap.Error(err))
		}
		eventLog, db = pg, pg
		log.Info("event log: postgres")
	} else {
		eventLog = store.NewMemoryLog(cfg.LogCapacity)
		log.Info("event log: memory", zap.Int("capacity", cfg.LogCapacity))
	}

	var dd dedupe.Deduper = dedupe.NewMemory(cfg.DedupeTTL)
	if cfg.RedisURL != "" {
		rd, err := dedupe.NewRedisFromURL(ctx, cfg.RedisURL, cfg.DedupeTTL)
		if err != nil {
			log.Fatal("redis connect failed", zap.Error(err))
		}
		defer rd.Close()
		dd = rd
	}

	var sink audit.Sink = audit.Nop{}
	if cfg.SheetWebhookURL != "" {
		sink = audit.NewSheetSink(cfg.SheetWebhookURL, cfg.HTTPTimeout)
	}

	// Ticket pipeline: frames and offsets are checked once, here.
	renderer, err := newRenderer(cfg)
	if err != nil {
		log.Fatal("ticket renderer invalid", zap.Error(err))
	}
	if err := cfg.EnsurePublicDir(); err != nil {
		log.Fatal("public dir", zap.Error(err))
	}
	if cfg.ExternalHostname == "" {
		log.Warn("EXTERNAL_HOSTNAME not set; ticket links will not resolve")
	}
	publisher := ticket.NewPublisher(cfg.PublicDir, cfg.ExternalHostname)

	var adminRouting string
	if cfg.CanSend() {
		adminRouting = cfg.PhoneNumberID
	} else {
		log.Warn("WHATSAPP_TOKEN / PHONE_NUMBER_ID not set; outbound messages will fail")
	}
	client := whatsapp.NewClient(cfg.GraphAPIBase, cfg.WhatsAppToken, cfg.HTTPTimeout)

	m := metrics.New()
	svc := bot.NewService(bot.Deps{
		Machine:        rsvp.NewMachine(cfg.FollowUpDelay),
		Dispatcher:     dispatch.New(renderer, publisher, client, m, log),
		Log:            eventLog,
		Dedupe:         dd,
		Audit:          sink,
		Metrics:        m,
		Logger:         log,
		AdminRoutingID: adminRouting,
	})

	srv := &http.Server{
		Addr:    net.JoinHostPort("", cfg.Port),
		Handler: httpserver.NewRouter(cfg, svc, m, db),
	}

	go func() {
		log.Info("server started", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownDeadline)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown", zap.Error(err))
	}
	// Let in-flight events and scheduled follow-ups finish before the log closes.
	if err := svc.Wait(shutdownCtx); err != nil {
		log.Warn("pending follow-ups abandoned", zap.Error(err))
	}
	log.Info("server stopped")
}

func newRenderer(cfg config.Config) (*ticket.Renderer, error) {
	tc := cfg.Ticket
	bg, err := ticket.ParseColor(tc.Background)
	if err != nil {
		return nil, err
	}

	qr := qrcode.DefaultOptions()
	qr.SizePx = tc.QRSize
	qr.Margin = tc.QRMargin

	r := ticket.NewRenderer(map[ticket.Variant]ticket.Layout{
		ticket.VariantPrimary: {
			FramePath: cfg.FramePath(tc.PrimaryFrame),
			Offset:    image.Pt(tc.PrimaryLeft, tc.PrimaryTop),
		},
		ticket.VariantGuest: {
			FramePath: cfg.FramePath(tc.GuestFrame),
			Offset:    image.Pt(tc.GuestLeft, tc.GuestTop),
		},
	}, qr, bg)

	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}
