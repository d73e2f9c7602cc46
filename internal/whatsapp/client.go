// Package whatsapp is a small client for the Cloud API messages endpoint.
package whatsapp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/PratikDhanave/event-rsvp-bot/internal/errs"
)

// MaxReplyButtons is the provider limit for interactive button messages.
const MaxReplyButtons = 3

// Sender is the subset of the provider API the bot uses.
type Sender interface {
	SendImage(ctx context.Context, routingID, to, link, caption string) (string, error)
	SendButtons(ctx context.Context, routingID, to, body string, buttons []ReplyValue) (string, error)
	SendText(ctx context.Context, routingID, to, body string) (string, error)
}

// Client talks to the Graph API. Every call is independent; nothing is retried.
type Client struct {
	http *resty.Client
}

// NewClient builds a Client for baseURL (e.g. https://graph.facebook.com/v21.0).
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	c := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetAuthToken(token).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")
	return &Client{http: c}
}

// SendImage sends an image the provider downloads from link.
func (c *Client) SendImage(ctx context.Context, routingID, to, link, caption string) (string, error) {
	return c.send(ctx, routingID, message{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "image",
		Image:            &mediaLink{Link: link, Caption: caption},
	})
}

// SendButtons sends body with one reply button per choice.
func (c *Client) SendButtons(ctx context.Context, routingID, to, body string, buttons []ReplyValue) (string, error) {
	if len(buttons) == 0 || len(buttons) > MaxReplyButtons {
		return "", errs.InvalidAction(fmt.Sprintf("%d reply buttons, want 1..%d", len(buttons), MaxReplyButtons))
	}

	out := make([]replyButton, 0, len(buttons))
	for _, b := range buttons {
		out = append(out, replyButton{Type: "reply", Reply: b})
	}

	return c.send(ctx, routingID, message{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "interactive",
		Interactive: &interactive{
			Type:   "button",
			Body:   textBody{Body: body},
			Action: interactiveAction{Buttons: out},
		},
	})
}

// SendText sends a plain text message.
func (c *Client) SendText(ctx context.Context, routingID, to, body string) (string, error) {
	return c.send(ctx, routingID, message{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               to,
		Type:             "text",
		Text:             &textBody{Body: body},
	})
}

// Template describes an approved message template invocation.
type Template struct {
	Name           string
	Language       string
	HeaderVideoURL string
	BodyParams     []string
	// QuickReplies are the payloads for the template's quick-reply buttons, by index.
	QuickReplies []string
}

// SendTemplate sends a pre-approved template. Used for bulk invitations.
func (c *Client) SendTemplate(ctx context.Context, routingID, to string, t Template) (string, error) {
	var comps []templateComponent

	if t.HeaderVideoURL != "" {
		comps = append(comps, templateComponent{
			Type:       "header",
			Parameters: []templateParameter{{Type: "video", Video: &mediaLink{Link: t.HeaderVideoURL}}},
		})
	}
	if len(t.BodyParams) > 0 {
		params := make([]templateParameter, 0, len(t.BodyParams))
		for _, p := range t.BodyParams {
			params = append(params, templateParameter{Type: "text", Text: p})
		}
		comps = append(comps, templateComponent{Type: "body", Parameters: params})
	}
	for i, payload := range t.QuickReplies {
		comps = append(comps, templateComponent{
			Type:       "button",
			SubType:    "quick_reply",
			Index:      fmt.Sprint(i),
			Parameters: []templateParameter{{Type: "payload", Payload: payload}},
		})
	}

	lang := t.Language
	if lang == "" {
		lang = "en"
	}

	return c.send(ctx, routingID, message{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "template",
		Template: &template{
			Name:       t.Name,
			Language:   templateLanguage{Code: lang},
			Components: comps,
		},
	})
}

func (c *Client) send(ctx context.Context, routingID string, msg message) (string, error) {
	if routingID == "" || msg.To == "" {
		return "", errs.InvalidAction("routing id and recipient are required")
	}

	var ok sendResponse
	var fail apiError

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(msg).
		SetResult(&ok).
		SetError(&fail).
		Post("/" + routingID + "/messages")
	if err != nil {
		return "", errs.Transport(msg.Type+" to "+msg.To, err)
	}

	if resp.IsError() {
		detail := fail.Error.Message
		if detail == "" {
			detail = strings.TrimSpace(resp.String())
		}
		return "", errs.Transport(fmt.Sprintf("%s to %s: status=%d %s", msg.Type, msg.To, resp.StatusCode(), detail), nil)
	}

	if len(ok.Messages) > 0 {
		return ok.Messages[0].ID, nil
	}
	return "", nil
}
