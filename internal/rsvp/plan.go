// Package rsvp decides what to send back for an inbound reply.
//
// The machine keeps no session: the next step is inferred from the current
// intent alone. A recipient who types "+1" without ever attending still gets a
// guest ticket. Multi-step flows would need a session store keyed by recipient.
package rsvp

import (
	"fmt"
	"time"

	"github.com/PratikDhanave/event-rsvp-bot/internal/models"
	"github.com/PratikDhanave/event-rsvp-bot/internal/ticket"
)

// ActionKind names an outbound message type.
type ActionKind int

const (
	ActionImage ActionKind = iota + 1
	ActionPrompt
	ActionText
)

func (k ActionKind) String() string {
	switch k {
	case ActionImage:
		return "image"
	case ActionPrompt:
		return "prompt"
	case ActionText:
		return "text"
	default:
		return fmt.Sprintf("action(%d)", int(k))
	}
}

// Button is one interactive reply choice.
type Button struct {
	ID    string
	Title string
}

// Action is one outbound message. Delay is the minimum wait after the
// previous action was dispatched.
type Action struct {
	Kind        ActionKind
	RecipientID string
	Ticket      ticket.Request
	Body        string
	Buttons     []Button
	Delay       time.Duration
}

// Plan is the ordered list of actions for one inbound event.
type Plan []Action

// Messages holds the user-facing copy.
type Messages struct {
	TicketCaption string
	GuestCaption  string
	GuestPrompt   string
	GuestButton   Button
	DeclineText   string
}

// DefaultMessages is the copy used by the live event.
func DefaultMessages() Messages {
	return Messages{
		TicketCaption: "Thank you! Here is your QR code.",
		GuestCaption:  "Here is your guest QR code!",
		GuestPrompt:   "Would you like to register a guest (+1)?",
		GuestButton:   Button{ID: "add_guest", Title: "+1"},
		DeclineText:   "Thank you for letting us know. We're sorry you can't make it.",
	}
}

// Machine maps intents to plans. It is a value with no mutable state.
type Machine struct {
	Messages      Messages
	FollowUpDelay time.Duration
}

func NewMachine(followUpDelay time.Duration) Machine {
	return Machine{Messages: DefaultMessages(), FollowUpDelay: followUpDelay}
}

// Plan returns the actions for intent addressed to recipient.
func (m Machine) Plan(in models.Intent, recipient string) Plan {
	switch in {
	case models.IntentAttend:
		return Plan{
			{
				Kind:        ActionImage,
				RecipientID: recipient,
				Ticket: ticket.Request{
					RecipientID: recipient,
					Sequence:    ticket.SequencePrimary,
					Variant:     ticket.VariantPrimary,
					Caption:     m.Messages.TicketCaption,
				},
			},
			{
				Kind:        ActionPrompt,
				RecipientID: recipient,
				Body:        m.Messages.GuestPrompt,
				Buttons:     []Button{m.Messages.GuestButton},
				Delay:       m.FollowUpDelay,
			},
		}
	case models.IntentRequestGuest:
		return Plan{{
			Kind:        ActionImage,
			RecipientID: recipient,
			Ticket: ticket.Request{
				RecipientID: recipient,
				Sequence:    ticket.SequenceGuest,
				Variant:     ticket.VariantGuest,
				Caption:     m.Messages.GuestCaption,
			},
		}}
	case models.IntentDecline:
		return Plan{{
			Kind:        ActionText,
			RecipientID: recipient,
			Body:        m.Messages.DeclineText,
		}}
	default:
		return nil
	}
}

// Label is the short status text recorded in the activity log.
func (a Action) Label() string {
	switch a.Kind {
	case ActionImage:
		if a.Ticket.Sequence == ticket.SequenceGuest {
			return fmt.Sprintf("QR %d (Guest)", a.Ticket.Sequence)
		}
		return fmt.Sprintf("QR %d", a.Ticket.Sequence)
	case ActionPrompt:
		return "PlusOne Button"
	case ActionText:
		return "Text"
	default:
		return a.Kind.String()
	}
}
