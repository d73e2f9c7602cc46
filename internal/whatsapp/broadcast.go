package whatsapp

import (
	"bufio"
	"context"
	"io"
	"strings"
)

// TemplateSender sends pre-approved templates.
type TemplateSender interface {
	SendTemplate(ctx context.Context, routingID, to string, t Template) (string, error)
}

// BroadcastResult is the outcome for one recipient.
type BroadcastResult struct {
	To        string
	MessageID string
	Err       error
}

// Broadcast sends t to every number in order. A failed recipient does not stop
// the rest; the loop only ends early when ctx is done.
func Broadcast(ctx context.Context, s TemplateSender, routingID string, numbers []string, t Template, each func(BroadcastResult)) []BroadcastResult {
	results := make([]BroadcastResult, 0, len(numbers))
	for _, to := range numbers {
		if ctx.Err() != nil {
			break
		}
		id, err := s.SendTemplate(ctx, routingID, to, t)
		res := BroadcastResult{To: to, MessageID: id, Err: err}
		results = append(results, res)
		if each != nil {
			each(res)
		}
	}
	return results
}

// ReadNumbers reads one recipient per line. Blank lines and lines starting
// with # are skipped; a leading + is dropped.
func ReadNumbers(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, strings.TrimPrefix(line, "+"))
	}
	return out, sc.Err()
}
