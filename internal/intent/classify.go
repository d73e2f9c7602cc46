// Package intent turns provider webhook payloads into typed events and maps
// the user's reply onto a closed set of intents.
package intent

import (
	"strings"

	"github.com/PratikDhanave/event-rsvp-bot/internal/models"
)

// Reply labels, as offered by the invitation template and the follow-up prompt.
const (
	LabelAttending    = "Attending"
	LabelInviteGuest  = "Invite a Guest"
	LabelPlusOne      = "+1"
	LabelNotAttending = "Not Attending"
)

// Quick-reply payloads attached to the invitation template buttons.
const (
	PayloadConfirm = "CONFIRM_ATTEND"
	PayloadDecline = "DECLINE_ATTEND"
)

var labels = map[string]models.Intent{
	LabelAttending:    models.IntentAttend,
	LabelInviteGuest:  models.IntentRequestGuest,
	LabelPlusOne:      models.IntentRequestGuest,
	LabelNotAttending: models.IntentDecline,
}

var payloads = map[string]models.Intent{
	PayloadConfirm: models.IntentAttend,
	PayloadDecline: models.IntentDecline,
}

// Classify maps an event to an Intent. It never fails: events without a
// recognised reply are IntentUnknown. A known label wins; otherwise a
// template quick-reply payload decides, so relabelled template buttons still
// classify.
func Classify(ev models.InboundEvent) models.Intent {
	if text, ok := ev.Reply.Text(); ok {
		if in := ClassifyText(text); in != models.IntentUnknown {
			return in
		}
	}
	if in, ok := payloads[strings.TrimSpace(ev.Reply.ButtonPayload)]; ok {
		return in
	}
	return models.IntentUnknown
}

// ClassifyText applies the exact-match label table to already extracted text.
func ClassifyText(text string) models.Intent {
	if in, ok := labels[strings.TrimSpace(text)]; ok {
		return in
	}
	return models.IntentUnknown
}
