// Package eventloop provides the single goroutine that owns all editor state.
// Transport callbacks, terminal input, settle timers and file-watch events
// never touch that state directly; they Post closures that run here one at a
// time, in arrival order.
package eventloop

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ComNetsHH/FlowEmu/internal/control"
	"github.com/ComNetsHH/FlowEmu/internal/ctxlog"
)

// ErrClosed is returned by Call once the loop has stopped.
var ErrClosed = errors.New("eventloop: closed")

// Loop is a cooperative task queue drained by Run.
type Loop struct {
	logger *slog.Logger
	idle   func()

	mu     sync.Mutex
	queue  []func()
	closed bool
	wake   chan struct{}
}

// New creates a loop. It does nothing until Run is called.
func New(logger *slog.Logger) *Loop {
	return &Loop{
		logger: ctxlog.OrDiscard(logger).With("component", "eventloop"),
		wake:   make(chan struct{}, 1),
	}
}

// OnIdle sets f to run after every batch of tasks, once the queue is empty.
// Surfaces use it to redraw. It must be called before Run.
func (l *Loop) OnIdle(f func()) { l.idle = f }

// Post queues f to run on the loop goroutine. It never blocks and is safe to
// call from any goroutine, including from inside a running task. It reports
// false if the loop has already stopped.
func (l *Loop) Post(f func()) bool {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return false
	}
	l.queue = append(l.queue, f)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return true
}

// AfterFunc posts f onto the loop once d has elapsed. It satisfies
// control.Scheduler so settle timers fire on the loop goroutine.
func (l *Loop) AfterFunc(d time.Duration, f func()) control.Timer {
	return time.AfterFunc(d, func() { l.Post(f) })
}

// Call runs f on the loop and waits for it to finish.
func (l *Loop) Call(ctx context.Context, f func()) error {
	done := make(chan struct{})
	if !l.Post(func() {
		defer close(done)
		f()
	}) {
		return ErrClosed
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run drains the queue until ctx is cancelled. Tasks that panic are logged
// and the loop keeps going.
func (l *Loop) Run(ctx context.Context) error {
	l.logger.Debug("Event loop started.")
	defer l.logger.Debug("Event loop stopped.")

	for {
		if l.RunPending() > 0 && l.idle != nil {
			l.runTask(l.idle)
		}

		select {
		case <-ctx.Done():
			l.mu.Lock()
			l.closed = true
			l.queue = nil
			l.mu.Unlock()
			return ctx.Err()
		case <-l.wake:
		}
	}
}

// RunPending runs every queued task, including tasks queued while it runs,
// and returns the number run. Run uses it internally; tests call it to drive
// a loop without a goroutine.
func (l *Loop) RunPending() int {
	n := 0
	for {
		l.mu.Lock()
		if len(l.queue) == 0 {
			l.mu.Unlock()
			return n
		}
		task := l.queue[0]
		l.queue[0] = nil
		l.queue = l.queue[1:]
		l.mu.Unlock()

		l.runTask(task)
		n++
	}
}

func (l *Loop) runTask(task func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("Event loop task panicked.", "error", fmt.Sprint(r))
		}
	}()
	task()
}
