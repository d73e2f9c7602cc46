package auth

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Query parameters of the provider's subscription handshake.
const (
	modeParam      = "hub.mode"
	tokenParam     = "hub.verify_token"
	challengeParam = "hub.challenge"
)

// VerifyHandshake answers the provider's webhook verification request.
// When hub.verify_token matches token the hub.challenge value is echoed back
// as plain text; anything else is rejected with 403.
func VerifyHandshake(token string) gin.HandlerFunc {
	want := []byte(strings.TrimSpace(token))
	return func(c *gin.Context) {
		if mode := c.Query(modeParam); mode != "" && mode != "subscribe" {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		got := []byte(c.Query(tokenParam))
		if len(want) == 0 || subtle.ConstantTimeCompare(got, want) != 1 {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		c.String(http.StatusOK, c.Query(challengeParam))
	}
}
