// Package transport defines the command-execution abstraction the poll
// engine consumes. The SSH transport itself -- legacy-cipher negotiation,
// ANSI stripping, prompt detection -- is out of scope (spec.md 1); this
// package only names the seam the engine calls through, plus the error
// type that drives the reconnect/backoff path.
package transport

import (
	"context"
	"errors"
	"time"
)

// ErrTransport wraps every channel failure: read/write error, timeout, or
// unexpected disconnect (spec.md 7). The poll engine matches it with
// errors.Is to decide whether to enter the reconnect/backoff path.
var ErrTransport = errors.New("transport error")

// Channel is an authenticated command channel bound to one device session.
// It owns the underlying connection exclusively: the poll engine is its
// only caller, and commands execute one at a time in cycle order (spec.md
// 5). Send may be called again after Close only if Dial produces a new
// Channel; a Channel itself is single-use once closed.
type Channel interface {
	// Send writes command, reads until the session prompt reappears, and
	// returns the raw output exactly as the device sent it -- sanitizing
	// the command echo and prompt line is the caller's job (spec.md 4.2).
	// A context deadline or cancellation, or an internal read timeout
	// (spec.md 5's 15-second default), surfaces as an error wrapping
	// ErrTransport.
	Send(ctx context.Context, command string) (string, error)

	// Prompt reports the session prompt string detected at connect time,
	// for callers (e.g. the sanitizer) that need it outside Send.
	Prompt() string

	// Close terminates the session. Per spec.md 5, cancellation during
	// command execution closes the channel rather than attempting to
	// abort a partial read.
	Close() error
}

// Dialer opens a new authenticated Channel to a target. The poll engine
// calls Dial once at startup and again on every reconnect attempt
// (spec.md 4.7/S7).
type Dialer interface {
	Dial(ctx context.Context) (Channel, error)
}

// DialerFunc adapts a plain function to a Dialer.
type DialerFunc func(ctx context.Context) (Channel, error)

func (f DialerFunc) Dial(ctx context.Context) (Channel, error) { return f(ctx) }

// DefaultReadTimeout is the per-command read timeout from spec.md 5.
const DefaultReadTimeout = 15 * time.Second
