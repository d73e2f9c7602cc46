package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/PratikDhanave/event-rsvp-bot/internal/config"
	"github.com/PratikDhanave/event-rsvp-bot/internal/handlers"
	"github.com/PratikDhanave/event-rsvp-bot/internal/metrics"
	"github.com/PratikDhanave/event-rsvp-bot/internal/ticket"
)

// Bot is the event pipeline behind the webhook and admin endpoints.
type Bot interface {
	handlers.EventHandler
	handlers.AdminService
}

// Pinger is a dependency checked by /ready.
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewRouter wires public endpoints and the bot APIs.
// Public: /health, /ready, /metrics, /tickets/*
// Provider: /webhook
// Admin: /messages, /reply
//
// db may be nil when the event log is in memory.
func NewRouter(cfg config.Config, bot Bot, m *metrics.Metrics, db Pinger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())

	// Liveness: confirms the process is running.
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Readiness: confirms the optional DB dependency is reachable.
	r.GET("/ready", func(c *gin.Context) {
		if db != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
			defer cancel()

			if err := db.Ping(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	if m != nil {
		r.GET("/metrics", gin.WrapH(m.Handler()))
	}

	// Ticket images must be reachable by the provider at https://<host>/tickets/<file>.
	r.Static(ticket.URLPrefix, cfg.PublicDir)

	handlers.RegisterWebhookRoutes(r, cfg.VerifyToken, bot)
	handlers.RegisterAdminRoutes(r, bot, cfg.LogCapacity)

	return r
}
