package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PratikDhanave/event-rsvp-bot/internal/auth"
)

// EventHandler processes raw webhook bodies in the background.
type EventHandler interface {
	HandleAsync(raw []byte)
}

// RegisterWebhookRoutes registers the provider-facing endpoints.
//
// GET /webhook
// - Subscription handshake, answered with hub.challenge or 403
//
// POST /webhook
// - Acknowledged with 200 before any processing
// - The body is handed to h and handled in its own goroutine
func RegisterWebhookRoutes(r gin.IRoutes, verifyToken string, h EventHandler) {
	r.GET("/webhook", auth.VerifyHandshake(verifyToken))

	r.POST("/webhook", func(c *gin.Context) {
		raw, err := c.GetRawData()
		c.Status(http.StatusOK)
		if err != nil || len(raw) == 0 {
			return
		}
		h.HandleAsync(raw)
	})
}
