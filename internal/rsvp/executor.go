package rsvp

import (
	"context"
	"time"
)

// DispatchFunc sends one action. Its outcome is the callee's to record.
type DispatchFunc func(ctx context.Context, a Action)

// Executor runs plans. Actions are dispatched in order; at the first action
// carrying a Delay the remainder of the plan is handed to a one-shot timer and
// Run returns without waiting for it.
type Executor struct {
	// AfterFunc schedules f after d. Defaults to time.AfterFunc.
	AfterFunc func(d time.Duration, f func())
}

// Run dispatches plan and reports how many actions were deferred to a timer.
func (e Executor) Run(ctx context.Context, plan Plan, dispatch DispatchFunc) int {
	for i, a := range plan {
		if a.Delay > 0 {
			rest := plan[i:]
			// The timer outlives the caller; keep values but drop cancellation.
			detached := context.WithValue(context.WithoutCancel(ctx), deferredKey{}, true)
			e.after(a.Delay, func() {
				dispatch(detached, rest[0])
				e.Run(detached, rest[1:], dispatch)
			})
			return len(rest)
		}
		dispatch(ctx, a)
	}
	return 0
}

type deferredKey struct{}

// Deferred reports whether ctx belongs to a dispatch fired from the follow-up timer.
func Deferred(ctx context.Context) bool {
	v, _ := ctx.Value(deferredKey{}).(bool)
	return v
}

func (e Executor) after(d time.Duration, f func()) {
	if e.AfterFunc != nil {
		e.AfterFunc(d, f)
		return
	}
	time.AfterFunc(d, f)
}
