package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config contains runtime configuration required by the service.
type Config struct {
	Port        string `env:"PORT" envDefault:"8080"`
	VerifyToken string `env:"VERIFY_TOKEN"`

	WhatsAppToken string `env:"WHATSAPP_TOKEN"`
	PhoneNumberID string `env:"PHONE_NUMBER_ID"`
	GraphAPIBase  string `env:"GRAPH_API_BASE" envDefault:"https://graph.facebook.com/v21.0"`

	// ExternalHostname is the public host the provider fetches ticket images from.
	ExternalHostname string `env:"EXTERNAL_HOSTNAME"`
	RenderHostname   string `env:"RENDER_EXTERNAL_HOSTNAME"`

	PublicDir string `env:"PUBLIC_DIR" envDefault:"public"`
	AssetsDir string `env:"ASSETS_DIR" envDefault:"assets"`

	Ticket TicketConfig

	FollowUpDelay time.Duration `env:"FOLLOW_UP_DELAY" envDefault:"2s"`
	LogCapacity   int           `env:"LOG_CAPACITY" envDefault:"1000"`
	LogLevel      string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat     string        `env:"LOG_FORMAT" envDefault:"json"`

	// Optional backends; empty disables them.
	DBURL            string        `env:"DB_URL"`
	RedisURL         string        `env:"REDIS_URL"`
	DedupeTTL        time.Duration `env:"DEDUPE_TTL" envDefault:"24h"`
	SheetWebhookURL  string        `env:"GSHEET_WEBHOOK_URL"`
	HTTPTimeout      time.Duration `env:"HTTP_TIMEOUT" envDefault:"15s"`
	ShutdownDeadline time.Duration `env:"SHUTDOWN_DEADLINE" envDefault:"10s"`
}

// TicketConfig holds the rendering constants. Offsets are tied to the frame
// assets and must be re-measured whenever a frame image changes.
type TicketConfig struct {
	PrimaryFrame string `env:"FRAME_PRIMARY" envDefault:"qr_frame_primary.png"`
	GuestFrame   string `env:"FRAME_GUEST" envDefault:"qr_frame_guest.png"`
	PrimaryTop   int    `env:"QR_PRIMARY_TOP" envDefault:"250"`
	PrimaryLeft  int    `env:"QR_PRIMARY_LEFT" envDefault:"250"`
	GuestTop     int    `env:"QR_GUEST_TOP" envDefault:"250"`
	GuestLeft    int    `env:"QR_GUEST_LEFT" envDefault:"250"`
	QRSize       int    `env:"QR_SIZE" envDefault:"650"`
	QRMargin     int    `env:"QR_MARGIN" envDefault:"1"`
	Background   string `env:"TICKET_BACKGROUND" envDefault:"#081540"`
}

// Load reads .env (if any) and then the process environment.
func Load() (Config, error) {
	// A missing .env is normal in deployed environments.
	_ = godotenv.Load()
	return parse(env.Options{})
}

// LoadFrom reads configuration from the given map only. Used by tests and tools.
func LoadFrom(environ map[string]string) (Config, error) {
	return parse(env.Options{Environment: environ})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}

	cfg.VerifyToken = strings.TrimSpace(cfg.VerifyToken)
	if cfg.VerifyToken == "" {
		return Config{}, errors.New("VERIFY_TOKEN required")
	}
	if cfg.ExternalHostname == "" {
		cfg.ExternalHostname = cfg.RenderHostname
	}
	if cfg.LogCapacity <= 0 {
		return Config{}, errors.New("LOG_CAPACITY must be positive")
	}
	if cfg.FollowUpDelay < 0 {
		return Config{}, errors.New("FOLLOW_UP_DELAY must not be negative")
	}
	if cfg.Ticket.QRSize <= 0 || cfg.Ticket.QRMargin < 0 {
		return Config{}, errors.New("QR_SIZE must be positive and QR_MARGIN not negative")
	}

	return cfg, nil
}

// FramePath resolves a frame file name against AssetsDir.
func (c Config) FramePath(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.AssetsDir, name)
}

// CanSend reports whether provider credentials are configured.
func (c Config) CanSend() bool {
	return c.WhatsAppToken != "" && c.PhoneNumberID != ""
}

// EnsurePublicDir creates the directory ticket images are written to.
func (c Config) EnsurePublicDir() error {
	return os.MkdirAll(c.PublicDir, 0o755)
}
