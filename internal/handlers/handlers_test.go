package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PratikDhanave/event-rsvp-bot/internal/dispatch"
	"github.com/PratikDhanave/event-rsvp-bot/internal/errs"
	"github.com/PratikDhanave/event-rsvp-bot/internal/models"
)

type fakeBot struct {
	mu       sync.Mutex
	bodies   [][]byte
	entries  []models.LogEntry
	limits   []int
	replies  []models.ReplyRequest
	result   dispatch.Result
	queryErr error
}

func (f *fakeBot) HandleAsync(raw []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bodies = append(f.bodies, raw)
}

func (f *fakeBot) Recent(_ context.Context, n int) ([]models.LogEntry, error) {
	f.limits = append(f.limits, n)
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	if n < len(f.entries) {
		return f.entries[len(f.entries)-n:], nil
	}
	return f.entries, nil
}

func (f *fakeBot) Reply(_ context.Context, recipient, text string) dispatch.Result {
	f.replies = append(f.replies, models.ReplyRequest{Recipient: recipient, Text: text})
	return f.result
}

func newRouter(bot *fakeBot) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterWebhookRoutes(r, "s3cret", bot)
	RegisterAdminRoutes(r, bot, 100)
	return r
}

func do(r http.Handler, method, target string, body []byte) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, target, bytes.NewReader(body)))
	return w
}

func TestWebhook_Handshake(t *testing.T) {
	r := newRouter(&fakeBot{})

	ok := do(r, http.MethodGet, "/webhook?hub.mode=subscribe&hub.verify_token=s3cret&hub.challenge=42", nil)
	assert.Equal(t, http.StatusOK, ok.Code)
	assert.Equal(t, "42", ok.Body.String())

	bad := do(r, http.MethodGet, "/webhook?hub.verify_token=x&hub.challenge=42", nil)
	assert.Equal(t, http.StatusForbidden, bad.Code)
}

func TestWebhook_PostAcknowledgesAndHandsOff(t *testing.T) {
	bot := &fakeBot{}
	r := newRouter(bot)

	body := []byte(`{"object":"whatsapp_business_account","entry":[]}`)
	w := do(r, http.MethodPost, "/webhook", body)
	assert.Equal(t, http.StatusOK, w.Code)

	// Bodies are acknowledged whatever they contain.
	w = do(r, http.MethodPost, "/webhook", []byte("not json"))
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodPost, "/webhook", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	require.Len(t, bot.bodies, 2)
	assert.Equal(t, body, bot.bodies[0])
}

func TestMessages(t *testing.T) {
	bot := &fakeBot{entries: []models.LogEntry{
		{ID: "1", Content: "a"},
		{ID: "2", Content: "b"},
		{ID: "3", Content: "c"},
	}}
	r := newRouter(bot)

	w := do(r, http.MethodGet, "/messages?limit=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got []models.LogEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].Content)
	assert.Equal(t, "c", got[1].Content)

	do(r, http.MethodGet, "/messages", nil)
	do(r, http.MethodGet, "/messages?limit=100000", nil)
	assert.Equal(t, []int{2, defaultMessageLimit, 100}, bot.limits)

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/messages?limit=-1", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/messages?limit=x", nil).Code)
}

func TestMessages_EmptyAndError(t *testing.T) {
	bot := &fakeBot{}
	r := newRouter(bot)

	w := do(r, http.MethodGet, "/messages", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	bot.queryErr = errors.New("db down")
	assert.Equal(t, http.StatusInternalServerError, do(r, http.MethodGet, "/messages", nil).Code)
}

func TestReply(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		result dispatch.Result
		status int
		want   models.ReplyResponse
	}{
		{
			name:   "sent",
			body:   `{"recipient":"201020068368","text":"See you"}`,
			result: dispatch.Result{OK: true},
			status: http.StatusOK,
			want:   models.ReplyResponse{Success: true},
		},
		{
			name:   "legacy fields",
			body:   `{"number":"201020068368","replyMessage":"See you"}`,
			result: dispatch.Result{OK: true},
			status: http.StatusOK,
			want:   models.ReplyResponse{Success: true},
		},
		{
			name:   "not configured",
			body:   `{"recipient":"1","text":"x"}`,
			result: dispatch.Result{Code: errs.CodeNotConfigured, Detail: "missing token"},
			status: http.StatusInternalServerError,
			want:   models.ReplyResponse{Code: "NOT_CONFIGURED", Error: "missing token"},
		},
		{
			name:   "transport failure",
			body:   `{"recipient":"1","text":"x"}`,
			result: dispatch.Result{Code: errs.CodeTransport, Detail: "status=400"},
			status: http.StatusBadGateway,
			want:   models.ReplyResponse{Code: "TRANSPORT_FAILED", Error: "status=400"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bot := &fakeBot{result: tt.result}
			w := do(newRouter(bot), http.MethodPost, "/reply", []byte(tt.body))

			assert.Equal(t, tt.status, w.Code)
			var got models.ReplyResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
			assert.Equal(t, tt.want, got)
			require.Len(t, bot.replies, 1)
		})
	}
}

func TestReply_BadRequest(t *testing.T) {
	for _, body := range []string{`not json`, `{"recipient":"1"}`, `{"text":"x"}`, `{"recipient":" ","text":"x"}`} {
		bot := &fakeBot{}
		w := do(newRouter(bot), http.MethodPost, "/reply", []byte(body))
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.Empty(t, bot.replies, body)
	}
}
