// Package bot runs the per-event pipeline: parse, classify, plan, dispatch, log.
package bot

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/PratikDhanave/event-rsvp-bot/internal/audit"
	"github.com/PratikDhanave/event-rsvp-bot/internal/dedupe"
	"github.com/PratikDhanave/event-rsvp-bot/internal/dispatch"
	"github.com/PratikDhanave/event-rsvp-bot/internal/errs"
	"github.com/PratikDhanave/event-rsvp-bot/internal/intent"
	"github.com/PratikDhanave/event-rsvp-bot/internal/metrics"
	"github.com/PratikDhanave/event-rsvp-bot/internal/models"
	"github.com/PratikDhanave/event-rsvp-bot/internal/rsvp"
	"github.com/PratikDhanave/event-rsvp-bot/internal/store"
)

// Dispatcher executes one action.
type Dispatcher interface {
	Dispatch(ctx context.Context, a rsvp.Action, routingID string) dispatch.Result
}

// Deps are the collaborators of a Service. Dedupe, Audit and Metrics are optional.
type Deps struct {
	Machine    rsvp.Machine
	Dispatcher Dispatcher
	Log        store.EventLog
	Dedupe     dedupe.Deduper
	Audit      audit.Sink
	Metrics    *metrics.Metrics
	Logger     *zap.Logger
	// AdminRoutingID is the phone number id used for admin replies.
	AdminRoutingID string
}

// Service handles inbound webhook bodies. Events are independent of each
// other; within one event the steps run in order.
type Service struct {
	deps     Deps
	executor rsvp.Executor
	inflight sync.WaitGroup
	now      func() time.Time
}

func NewService(d Deps) *Service {
	if d.Dedupe == nil {
		d.Dedupe = dedupe.NewMemory(24 * time.Hour)
	}
	if d.Audit == nil {
		d.Audit = audit.Nop{}
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}

	s := &Service{deps: d, now: time.Now}
	s.executor = rsvp.Executor{AfterFunc: func(delay time.Duration, f func()) {
		s.inflight.Add(1)
		time.AfterFunc(delay, func() {
			defer s.inflight.Done()
			f()
		})
	}}
	return s
}

// HandleAsync processes raw in the background and returns immediately.
func (s *Service) HandleAsync(raw []byte) {
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		s.Handle(context.Background(), raw)
	}()
}

// Wait blocks until background events and scheduled follow-ups have finished
// or ctx is done.
func (s *Service) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Outcome summarises one handled event.
type Outcome struct {
	Event    models.InboundEvent
	Intent   models.Intent
	Plan     rsvp.Plan
	Results  []dispatch.Result
	Deferred int
	Status   string
	Skipped  bool
}

// Handle runs the whole pipeline for one webhook body. Failures are logged and
// contained; nothing is returned to the provider.
func (s *Service) Handle(ctx context.Context, raw []byte) Outcome {
	log := s.deps.Logger

	ev, err := intent.Parse(raw, s.now().UTC())
	if err != nil {
		log.Debug("webhook ignored", zap.String("code", string(errs.CodeOf(err))), zap.Error(err))
		return Outcome{Skipped: true}
	}

	log = log.With(zap.String("recipient", ev.SenderID), zap.String("message_id", ev.MessageID))

	first, err := s.deps.Dedupe.FirstSeen(ctx, ev.MessageID)
	if err != nil {
		log.Warn("dedupe unavailable, processing anyway", zap.Error(err))
	} else if !first {
		log.Debug("duplicate delivery skipped")
		return Outcome{Event: ev, Skipped: true}
	}

	in := intent.Classify(ev)
	s.deps.Metrics.Inbound(in.String())
	log = log.With(zap.Stringer("intent", in))

	plan := s.deps.Machine.Plan(in, ev.SenderID)
	out := Outcome{Event: ev, Intent: in, Plan: plan}

	// Follow-up entries must land after the inbound entry they belong to.
	inboundLogged := make(chan struct{})

	out.Deferred = s.executor.Run(ctx, plan, func(ctx context.Context, a rsvp.Action) {
		res := s.deps.Dispatcher.Dispatch(ctx, a, ev.RoutingID)
		if rsvp.Deferred(ctx) {
			<-inboundLogged
			s.appendLog(ctx, log, models.LogEntry{
				Direction:   models.DirectionOutbound,
				DisplayName: ev.DisplayName(),
				RecipientID: ev.SenderID,
				Content:     a.Body,
				Status:      resultStatus(res),
			})
			return
		}
		out.Results = append(out.Results, res)
	})
	out.Status = summarize(out.Results, plan[len(out.Results):])

	text, _ := ev.Reply.Text()
	s.appendLog(ctx, log, models.LogEntry{
		Direction:   models.DirectionInbound,
		DisplayName: ev.DisplayName(),
		RecipientID: ev.SenderID,
		Content:     text,
		Status:      out.Status,
	})
	close(inboundLogged)

	if err := s.deps.Audit.Record(ctx, audit.Record{
		Name:        ev.DisplayName(),
		Number:      ev.SenderID,
		Message:     text,
		ReplyStatus: out.Status,
		PhoneID:     ev.RoutingID,
	}); err != nil {
		log.Warn("audit record failed", zap.Error(err))
	}

	log.Info("event handled", zap.String("status", out.Status), zap.Int("deferred", out.Deferred))
	return out
}

// Reply sends an admin-authored text. Unlike webhook handling, the failure is
// returned to the caller.
func (s *Service) Reply(ctx context.Context, recipient, text string) dispatch.Result {
	a := rsvp.Action{Kind: rsvp.ActionText, RecipientID: recipient, Body: text}

	var res dispatch.Result
	if s.deps.AdminRoutingID == "" {
		err := errs.NotConfigured("PHONE_NUMBER_ID / WHATSAPP_TOKEN")
		res = dispatch.Result{Action: a, Code: err.Code, Detail: err.Error()}
	} else {
		res = s.deps.Dispatcher.Dispatch(ctx, a, s.deps.AdminRoutingID)
	}

	status := "Admin reply sent"
	if !res.OK {
		status = "Admin reply failed: " + string(res.Code)
	}
	s.appendLog(ctx, s.deps.Logger, models.LogEntry{
		Direction:   models.DirectionOutbound,
		DisplayName: "Admin",
		RecipientID: recipient,
		Content:     text,
		Status:      status,
	})
	return res
}

// Recent returns the newest n log entries.
func (s *Service) Recent(ctx context.Context, n int) ([]models.LogEntry, error) {
	return s.deps.Log.Recent(ctx, n)
}

func (s *Service) appendLog(ctx context.Context, log *zap.Logger, e models.LogEntry) {
	if err := s.deps.Log.Append(ctx, e); err != nil {
		log.Error("event log append failed", zap.Error(err))
	}
}

func resultStatus(r dispatch.Result) string {
	if r.OK {
		return "Sent " + r.Action.Label()
	}
	return fmt.Sprintf("Failed %s (%s)", r.Action.Label(), r.Code)
}

// summarize renders the activity-log status, e.g. "Sent QR 1 + PlusOne Button scheduled".
func summarize(results []dispatch.Result, pending rsvp.Plan) string {
	if len(results) == 0 && len(pending) == 0 {
		return "Logged"
	}
	parts := make([]string, 0, len(results)+len(pending))
	for _, r := range results {
		parts = append(parts, resultStatus(r))
	}
	for _, a := range pending {
		parts = append(parts, a.Label()+" scheduled")
	}
	return strings.Join(parts, " + ")
}
