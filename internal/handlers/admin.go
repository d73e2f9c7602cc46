package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/PratikDhanave/event-rsvp-bot/internal/dispatch"
	"github.com/PratikDhanave/event-rsvp-bot/internal/errs"
	"github.com/PratikDhanave/event-rsvp-bot/internal/models"
)

const defaultMessageLimit = 50

// AdminService is what the admin endpoints need from the bot.
type AdminService interface {
	Recent(ctx context.Context, n int) ([]models.LogEntry, error)
	Reply(ctx context.Context, recipient, text string) dispatch.Result
}

// RegisterAdminRoutes registers the activity-log and manual-reply endpoints.
//
// GET /messages?limit=N
// - Newest N entries, oldest first; default 50, capped at maxLimit
//
// POST /reply
// - Body {recipient, text}; legacy {number, replyMessage} is accepted
// - 400 bad body, 500 sending not configured, 502 provider failure
func RegisterAdminRoutes(r gin.IRoutes, svc AdminService, maxLimit int) {
	r.GET("/messages", func(c *gin.Context) {
		limit := defaultMessageLimit
		if s := c.Query("limit"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
				return
			}
			limit = n
		}
		if maxLimit > 0 && limit > maxLimit {
			limit = maxLimit
		}

		entries, err := svc.Recent(c.Request.Context(), limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "log query failed"})
			return
		}
		if entries == nil {
			entries = []models.LogEntry{}
		}
		c.JSON(http.StatusOK, entries)
	})

	r.POST("/reply", func(c *gin.Context) {
		var req models.ReplyRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ReplyResponse{Code: "BAD_REQUEST", Error: "invalid JSON payload"})
			return
		}
		req = req.Normalize()
		req.Recipient = strings.TrimSpace(req.Recipient)
		if req.Recipient == "" || strings.TrimSpace(req.Text) == "" {
			c.JSON(http.StatusBadRequest, models.ReplyResponse{Code: "BAD_REQUEST", Error: "recipient and text required"})
			return
		}

		res := svc.Reply(c.Request.Context(), req.Recipient, req.Text)
		if res.OK {
			c.JSON(http.StatusOK, models.ReplyResponse{Success: true})
			return
		}
		c.JSON(replyStatus(res.Code), models.ReplyResponse{Code: string(res.Code), Error: res.Detail})
	})
}

func replyStatus(code errs.Code) int {
	switch code {
	case errs.CodeNotConfigured:
		return http.StatusInternalServerError
	case errs.CodeTransport:
		return http.StatusBadGateway
	case errs.CodeInvalidAction:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
