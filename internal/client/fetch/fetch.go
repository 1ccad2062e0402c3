// Package fetch runs one user-facing action against a primary collaborator
// with an optional fallback and tracks its state as a single tagged value.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/yungbote/vaktutor/internal/platform/logger"
)

type Phase int

const (
	Idle Phase = iota
	Loading
	Success
	Degraded
	Failed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Success:
		return "success"
	case Degraded:
		return "degraded"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// State is the whole observable state of an action. Data is meaningful in
// Success and Degraded; Reason in Degraded; Err in Failed.
type State[T any] struct {
	Phase  Phase
	Data   T
	Reason error
	Err    error
	// Seq identifies the run that produced this state.
	Seq uint64
}

// Fallback reports whether Data came from the fallback collaborator.
func (s State[T]) Fallback() bool { return s.Phase == Degraded }

func (s State[T]) Terminal() bool {
	return s.Phase == Success || s.Phase == Degraded || s.Phase == Failed
}

func (s State[T]) HasData() bool {
	return s.Phase == Success || s.Phase == Degraded
}

type Func[T any] func(ctx context.Context) (T, error)

var (
	ErrInFlight       = errors.New("fetch: action already loading")
	ErrNothingToRetry = errors.New("fetch: nothing to retry")
)

const DefaultTimeout = 30 * time.Second

type Action[T any] struct {
	name    string
	log     *logger.Logger
	timeout time.Duration

	mu       sync.Mutex
	state    State[T]
	seq      uint64
	primary  Func[T]
	fallback Func[T]
	onChange func(State[T])
}

// New creates an idle action. A zero timeout means DefaultTimeout; a
// negative one disables the per-call deadline.
func New[T any](name string, log *logger.Logger, timeout time.Duration) *Action[T] {
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	return &Action[T]{
		name:    name,
		log:     log.With("component", "FetchOrchestrator", "action", name),
		timeout: timeout,
	}
}

// OnChange registers an observer called after every transition, outside the
// action's lock.
func (a *Action[T]) OnChange(fn func(State[T])) {
	a.mu.Lock()
	a.onChange = fn
	a.mu.Unlock()
}

func (a *Action[T]) State() State[T] {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Run calls primary and, if it fails, fallback. It returns the terminal
// state and, for Failed, the primary error. A call made while another run
// is loading returns ErrInFlight and changes nothing.
func (a *Action[T]) Run(ctx context.Context, primary, fallback Func[T]) (State[T], error) {
	if primary == nil {
		return a.State(), errors.New("fetch: primary required")
	}
	a.mu.Lock()
	if a.state.Phase == Loading {
		st := a.state
		a.mu.Unlock()
		a.log.Debug("Rejecting re-entrant run", "seq", st.Seq)
		return st, ErrInFlight
	}
	a.seq++
	seq := a.seq
	a.primary, a.fallback = primary, fallback
	a.state = State[T]{Phase: Loading, Seq: seq}
	loading := a.state
	notify := a.onChange
	a.mu.Unlock()
	if notify != nil {
		notify(loading)
	}

	final := a.execute(ctx, seq, primary, fallback)

	a.mu.Lock()
	if a.seq != seq {
		// Reset while we were running; the newer state stands.
		st := a.state
		a.mu.Unlock()
		return st, final.Err
	}
	a.state = final
	notify = a.onChange
	a.mu.Unlock()
	if notify != nil {
		notify(final)
	}
	return final, final.Err
}

// Retry repeats the last run from a terminal state.
func (a *Action[T]) Retry(ctx context.Context) (State[T], error) {
	a.mu.Lock()
	primary, fallback, phase := a.primary, a.fallback, a.state.Phase
	a.mu.Unlock()
	if phase == Loading {
		return a.State(), ErrInFlight
	}
	if primary == nil {
		return a.State(), ErrNothingToRetry
	}
	return a.Run(ctx, primary, fallback)
}

// Reset returns the action to Idle. A run still in flight keeps going but
// its result is dropped.
func (a *Action[T]) Reset() {
	a.mu.Lock()
	a.seq++
	a.state = State[T]{Phase: Idle, Seq: a.seq}
	st := a.state
	notify := a.onChange
	a.mu.Unlock()
	if notify != nil {
		notify(st)
	}
}

func (a *Action[T]) execute(ctx context.Context, seq uint64, primary, fallback Func[T]) State[T] {
	data, err := a.call(ctx, primary)
	if err == nil {
		return State[T]{Phase: Success, Data: data, Seq: seq}
	}
	if fallback == nil || ctx.Err() != nil {
		a.log.Warn("Action failed", "seq", seq, "error", err)
		return State[T]{Phase: Failed, Err: err, Seq: seq}
	}
	a.log.Warn("Primary failed, trying fallback", "seq", seq, "error", err)
	fbData, fbErr := a.call(ctx, fallback)
	if fbErr != nil {
		a.log.Warn("Fallback failed", "seq", seq, "error", fbErr)
		return State[T]{Phase: Failed, Err: err, Seq: seq}
	}
	return State[T]{Phase: Degraded, Data: fbData, Reason: err, Seq: seq}
}

func (a *Action[T]) call(ctx context.Context, fn Func[T]) (T, error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}
	return fn(ctx)
}
