package models

import (
	"strings"
	"time"
)

// DefaultDisplayName is used when the provider sends no contact profile.
const DefaultDisplayName = "Guest"

// ReplyText holds every place a user's answer may appear in one message.
type ReplyText struct {
	ButtonLabel      string
	ButtonPayload    string
	InteractiveTitle string
	Body             string
}

// Text returns the first non-blank candidate in precedence order:
// template button label, interactive reply title, free text body.
func (r ReplyText) Text() (string, bool) {
	for _, s := range []string{r.ButtonLabel, r.InteractiveTitle, r.Body} {
		if s = strings.TrimSpace(s); s != "" {
			return s, true
		}
	}
	return "", false
}

// InboundEvent is the typed form of one inbound webhook message.
// It lives only for the duration of a single webhook call.
type InboundEvent struct {
	MessageID         string
	SenderID          string
	RoutingID         string
	SenderDisplayName string
	Reply             ReplyText
	ReceivedAt        time.Time
}

// DisplayName returns the sender's profile name or DefaultDisplayName.
func (e InboundEvent) DisplayName() string {
	if n := strings.TrimSpace(e.SenderDisplayName); n != "" {
		return n
	}
	return DefaultDisplayName
}

// Intent is the normalized meaning of an inbound reply.
type Intent int

const (
	IntentUnknown Intent = iota
	IntentAttend
	IntentRequestGuest
	IntentDecline
)

func (i Intent) String() string {
	switch i {
	case IntentAttend:
		return "attend"
	case IntentRequestGuest:
		return "request_guest"
	case IntentDecline:
		return "decline"
	default:
		return "unknown"
	}
}
