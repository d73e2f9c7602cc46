// Package dispatch turns planned actions into provider API calls.
package dispatch

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/PratikDhanave/event-rsvp-bot/internal/errs"
	"github.com/PratikDhanave/event-rsvp-bot/internal/metrics"
	"github.com/PratikDhanave/event-rsvp-bot/internal/rsvp"
	"github.com/PratikDhanave/event-rsvp-bot/internal/ticket"
	"github.com/PratikDhanave/event-rsvp-bot/internal/whatsapp"
)

// Renderer produces ticket PNG bytes.
type Renderer interface {
	Render(req ticket.Request) ([]byte, error)
}

// Publisher stores a ticket where the provider can fetch it.
type Publisher interface {
	Publish(payload string, data []byte) (ticket.Published, error)
}

// Result is the outcome of one action.
type Result struct {
	Action    rsvp.Action
	OK        bool
	Code      errs.Code
	Detail    string
	MessageID string
	URL       string
}

// Dispatcher executes single actions. Each call stands alone: a failure is
// reported in the Result and never affects other actions.
type Dispatcher struct {
	renderer  Renderer
	publisher Publisher
	sender    whatsapp.Sender
	metrics   *metrics.Metrics
	log       *zap.Logger
}

func New(r Renderer, p Publisher, s whatsapp.Sender, m *metrics.Metrics, log *zap.Logger) *Dispatcher {
	return &Dispatcher{renderer: r, publisher: p, sender: s, metrics: m, log: log}
}

// Dispatch sends a to its recipient through the phone number routingID.
func (d *Dispatcher) Dispatch(ctx context.Context, a rsvp.Action, routingID string) Result {
	res := Result{Action: a}

	var err error
	switch a.Kind {
	case rsvp.ActionImage:
		res.URL, res.MessageID, err = d.sendTicket(ctx, a, routingID)
	case rsvp.ActionPrompt:
		buttons := make([]whatsapp.ReplyValue, 0, len(a.Buttons))
		for _, b := range a.Buttons {
			buttons = append(buttons, whatsapp.ReplyValue{ID: b.ID, Title: b.Title})
		}
		res.MessageID, err = d.sender.SendButtons(ctx, routingID, a.RecipientID, a.Body, buttons)
	case rsvp.ActionText:
		res.MessageID, err = d.sender.SendText(ctx, routingID, a.RecipientID, a.Body)
	default:
		err = errs.InvalidAction(a.Kind.String())
	}

	d.metrics.Dispatch(a.Kind.String(), err == nil)

	if err != nil {
		res.Code = errs.CodeOf(err)
		res.Detail = err.Error()
		d.log.Error("dispatch failed",
			zap.String("recipient", a.RecipientID),
			zap.Stringer("action", a.Kind),
			zap.String("code", string(res.Code)),
			zap.Error(err))
		return res
	}

	res.OK = true
	d.log.Info("dispatched",
		zap.String("recipient", a.RecipientID),
		zap.Stringer("action", a.Kind),
		zap.String("message_id", res.MessageID))
	return res
}

func (d *Dispatcher) sendTicket(ctx context.Context, a rsvp.Action, routingID string) (string, string, error) {
	start := time.Now()

	png, err := d.renderer.Render(a.Ticket)
	if err != nil {
		return "", "", err
	}
	pub, err := d.publisher.Publish(a.Ticket.Payload(), png)
	if err != nil {
		return "", "", err
	}
	d.metrics.Render(time.Since(start))

	id, err := d.sender.SendImage(ctx, routingID, a.RecipientID, pub.URL, a.Ticket.Caption)
	return pub.URL, id, err
}
