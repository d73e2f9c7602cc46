// Package audit forwards per-event summaries to an external spreadsheet webhook.
package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// Record is the row appended to the sheet.
type Record struct {
	Name        string `json:"name"`
	Number      string `json:"number"`
	Message     string `json:"message"`
	ReplyStatus string `json:"replyStatus"`
	PhoneID     string `json:"phoneId"`
}

// Sink receives one Record per handled inbound event.
type Sink interface {
	Record(ctx context.Context, r Record) error
}

// Nop discards records.
type Nop struct{}

func (Nop) Record(context.Context, Record) error { return nil }

// SheetSink posts records to a spreadsheet web-app URL.
type SheetSink struct {
	url  string
	http *resty.Client
}

func NewSheetSink(url string, timeout time.Duration) *SheetSink {
	return &SheetSink{
		url:  url,
		http: resty.New().SetTimeout(timeout),
	}
}

func (s *SheetSink) Record(ctx context.Context, r Record) error {
	resp, err := s.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(r).
		Post(s.url)
	if err != nil {
		return fmt.Errorf("sheet webhook: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("sheet webhook: status=%d", resp.StatusCode())
	}
	return nil
}
