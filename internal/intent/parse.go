package intent

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/PratikDhanave/event-rsvp-bot/internal/errs"
	"github.com/PratikDhanave/event-rsvp-bot/internal/models"
)

// Parse converts a raw webhook body into an InboundEvent. Only the first
// entry/change/message is considered. Status callbacks and other payloads
// without a user message yield a MALFORMED_EVENT error.
func Parse(raw []byte, receivedAt time.Time) (models.InboundEvent, error) {
	var env models.WebhookEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return models.InboundEvent{}, errs.MalformedEvent("invalid json: " + err.Error())
	}
	return FromEnvelope(env, receivedAt)
}

// FromEnvelope is Parse for an already-decoded envelope.
func FromEnvelope(env models.WebhookEnvelope, receivedAt time.Time) (models.InboundEvent, error) {
	if len(env.Entry) == 0 || len(env.Entry[0].Changes) == 0 {
		return models.InboundEvent{}, errs.MalformedEvent("no entry/change")
	}

	value := env.Entry[0].Changes[0].Value
	if len(value.Messages) == 0 {
		return models.InboundEvent{}, errs.MalformedEvent("no message")
	}

	msg := value.Messages[0]
	from := strings.TrimSpace(msg.From)
	if from == "" {
		return models.InboundEvent{}, errs.MalformedEvent("message without sender")
	}
	routing := strings.TrimSpace(value.Metadata.PhoneNumberID)
	if routing == "" {
		return models.InboundEvent{}, errs.MalformedEvent("missing phone_number_id")
	}

	ev := models.InboundEvent{
		MessageID:  msg.ID,
		SenderID:   from,
		RoutingID:  routing,
		Reply:      replyText(msg),
		ReceivedAt: receivedAt,
	}
	if len(value.Contacts) > 0 {
		ev.SenderDisplayName = value.Contacts[0].Profile.Name
	}
	return ev, nil
}

func replyText(msg models.WebhookMessage) models.ReplyText {
	var r models.ReplyText
	if msg.Button != nil {
		r.ButtonLabel = msg.Button.Text
		r.ButtonPayload = msg.Button.Payload
	}
	if in := msg.Interactive; in != nil {
		switch {
		case in.ButtonReply != nil:
			r.InteractiveTitle = in.ButtonReply.Title
		case in.ListReply != nil:
			r.InteractiveTitle = in.ListReply.Title
		}
	}
	if msg.Text != nil {
		r.Body = msg.Text.Body
	}
	return r
}
