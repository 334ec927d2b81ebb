// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package algo

import (
	"context"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"
)

// Handler is polled by long running algorithms to know if they should stop.
// Cancellation is cooperative: an algorithm checks its handler between two
// units of work and returns a Cancelled error with its partial result.
// Implementations must be safe for concurrent use.
type Handler interface {
	// IsCancelled reports whether the computation should stop.
	IsCancelled() bool
	// StartTimer is called when an algorithm starts. It is a no-op except for
	// handlers that cancel after some time.
	StartTimer()
}

// Never is the default handler, it never cancels.
var Never Handler = never{}

type never struct{}

func (never) IsCancelled() bool { return false }
func (never) StartTimer()       {}

// Atomic is a handler cancelled explicitly by calling Cancel, for instance
// from another goroutine or from a signal handler.
type Atomic struct {
	cancelled atomic.Bool
}

// NewAtomic returns a fresh, non cancelled, token.
func NewAtomic() *Atomic {
	return &Atomic{}
}

func (a *Atomic) IsCancelled() bool { return a.cancelled.Load() }
func (a *Atomic) StartTimer()       {}

// Cancel signals cancellation. It returns true if the token was not already
// cancelled.
func (a *Atomic) Cancel() bool {
	return a.cancelled.CompareAndSwap(false, true)
}

// Timer is a handler that cancels once a given duration has elapsed after
// the first call to StartTimer. Following calls to StartTimer have no effect,
// so that a timer shared between several algorithms bounds their total
// running time.
type Timer struct {
	duration  time.Duration
	started   atomic.Bool
	cancelled atomic.Bool
}

// NewTimer returns a timer that is not started yet.
func NewTimer(duration time.Duration) *Timer {
	return &Timer{duration: duration}
}

func (t *Timer) IsCancelled() bool { return t.cancelled.Load() }

// StartTimer starts the timer, unless it is already running or elapsed.
func (t *Timer) StartTimer() {
	if !t.started.CompareAndSwap(false, true) {
		return
	}
	entry := log.WithField("target", "cancellation")
	entry.Infof("Timer for %dms started.", t.duration.Milliseconds())
	time.AfterFunc(t.duration, func() {
		t.cancelled.Store(true)
		entry.Infof("Timer for %dms elapsed. Operation cancelled.", t.duration.Milliseconds())
	})
}

// Context adapts a context: the computation is cancelled when ctx is done.
func Context(ctx context.Context) Handler {
	return contextHandler{ctx}
}

type contextHandler struct {
	ctx context.Context
}

func (c contextHandler) IsCancelled() bool { return c.ctx.Err() != nil }
func (c contextHandler) StartTimer()       {}

// Any returns a handler cancelled as soon as one of hs is. StartTimer is
// forwarded to all of them.
func Any(hs ...Handler) Handler {
	return anyHandler(hs)
}

type anyHandler []Handler

func (a anyHandler) IsCancelled() bool {
	for _, h := range a {
		if h.IsCancelled() {
			return true
		}
	}
	return false
}

func (a anyHandler) StartTimer() {
	for _, h := range a {
		h.StartTimer()
	}
}
