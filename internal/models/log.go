package models

import "time"

// Direction tells whether a log entry records a received or a sent message.
type Direction string

const (
	DirectionInbound  Direction = "inbound"
	DirectionOutbound Direction = "outbound"
)

// LogEntry is one record of the admin activity log. Entries are immutable once appended.
type LogEntry struct {
	ID          string    `json:"id"`
	Direction   Direction `json:"direction"`
	DisplayName string    `json:"name"`
	RecipientID string    `json:"number"`
	Content     string    `json:"message"`
	Status      string    `json:"replyStatus"`
	Timestamp   time.Time `json:"timestamp"`
}

// ReplyRequest is the POST /reply payload. number/replyMessage are accepted
// for older admin consoles.
type ReplyRequest struct {
	Recipient    string `json:"recipient"`
	Text         string `json:"text"`
	Number       string `json:"number"`
	ReplyMessage string `json:"replyMessage"`
}

// Normalize folds the legacy field names into Recipient/Text.
func (r ReplyRequest) Normalize() ReplyRequest {
	if r.Recipient == "" {
		r.Recipient = r.Number
	}
	if r.Text == "" {
		r.Text = r.ReplyMessage
	}
	return r
}

// ReplyResponse is returned by POST /reply.
type ReplyResponse struct {
	Success bool   `json:"success"`
	Code    string `json:"code,omitempty"`
	Error   string `json:"error,omitempty"`
}
