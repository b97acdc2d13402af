// Package pollengine implements the poll engine (spec.md 4.7): the
// startup sequence, the per-cycle pipeline (send, sanitize, parse,
// normalize, shape, post-process, publish, trace), the single
// cooperative-worker scheduling guarantee, and the reconnect/backoff path.
package pollengine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"

	"github.com/scottpeterman/wirlwind/internal/collection"
	"github.com/scottpeterman/wirlwind/internal/driver"
	"github.com/scottpeterman/wirlwind/internal/errs"
	"github.com/scottpeterman/wirlwind/internal/eventbus"
	cclog "github.com/scottpeterman/wirlwind/internal/log"
	"github.com/scottpeterman/wirlwind/internal/metrics"
	"github.com/scottpeterman/wirlwind/internal/normalize"
	"github.com/scottpeterman/wirlwind/internal/parser/chain"
	"github.com/scottpeterman/wirlwind/internal/parser/ttp"
	"github.com/scottpeterman/wirlwind/internal/sanitize"
	"github.com/scottpeterman/wirlwind/internal/shaper"
	"github.com/scottpeterman/wirlwind/internal/statestore"
	"github.com/scottpeterman/wirlwind/internal/trace"
	"github.com/scottpeterman/wirlwind/internal/transport"
)

// FailureThreshold is the number of consecutive transport failures across
// all collections that triggers reconnect/backoff (spec.md 5/7, default 3).
const FailureThreshold = 3

// InitialBackoff and MaxBackoff bound the reconnect sequence: 3s, 6s, 12s,
// ... capped at 60s (spec.md 5/S7). This is a fixed arithmetic sequence,
// not a jittered backoff library, so the literal scenario stays
// reproducible.
const (
	InitialBackoff = 3 * time.Second
	MaxBackoff     = 60 * time.Second
)

// connectionCollection is the synthetic collection name used for
// connection-state events (spec.md 5's "emit a connection-state event").
const connectionCollection = "_connection"

// Engine runs one device session: one command channel, one ordered set of
// collection definitions, serialized cycle by cycle (spec.md 5).
type Engine struct {
	Dialer    transport.Dialer
	VendorID  string
	Defs      []*collection.Definition
	Resolvers chain.Resolvers
	TTPEngine ttp.Engine
	Recorder  *trace.Recorder
	Store     *statestore.Store
	Bus       *eventbus.Bus

	// sessionID is minted once per Engine (one per target bind, spec.md 3's
	// data model addition) and stamped onto every trace entry and event so
	// an operator running several sessions from one terminal multiplexer
	// can de-interleave their output.
	sessionID string

	mu                  sync.Mutex
	channel             transport.Channel
	prompt              string
	driver              driver.Driver
	consecutiveFailures int
}

// Run executes the full startup sequence and then blocks, running
// scheduled collections until ctx is canceled.
func (e *Engine) Run(ctx context.Context) error {
	if e.sessionID == "" {
		e.sessionID = uuid.NewString()
	}

	drv, _, ok := driver.Get(e.VendorID)
	if !ok {
		return fmt.Errorf("%w: no driver registered for vendor %q", errs.Config, e.VendorID)
	}
	e.driver = drv

	if err := e.connect(ctx); err != nil {
		return err
	}

	for _, def := range e.Defs {
		e.Store.Configure(def.Name, def.Series, statestore.DefaultGraceCycles)
	}

	var oneShot, scheduled []*collection.Definition
	for _, def := range e.Defs {
		if def.OneShot() {
			oneShot = append(oneShot, def)
		} else {
			scheduled = append(scheduled, def)
		}
	}

	for _, def := range oneShot {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		e.runCycle(ctx, def)
	}

	if len(scheduled) == 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	sched, err := gocron.NewScheduler(gocron.WithLimitConcurrentJobs(1, gocron.LimitModeWait))
	if err != nil {
		return fmt.Errorf("pollengine: creating scheduler: %w", err)
	}

	for _, def := range scheduled {
		d := def
		if _, err := sched.NewJob(
			gocron.DurationJob(time.Duration(d.IntervalSeconds)*time.Second),
			gocron.NewTask(func() { e.runCycle(ctx, d) }),
		); err != nil {
			return fmt.Errorf("pollengine: scheduling %q: %w", d.Name, err)
		}
	}

	sched.Start()
	defer func() { _ = sched.Shutdown() }()

	<-ctx.Done()
	return ctx.Err()
}

// SessionID returns this engine's session identifier, minted on first Run.
// Empty before Run has been called.
func (e *Engine) SessionID() string { return e.sessionID }

// connect dials a fresh channel and issues the driver's pagination command.
func (e *Engine) connect(ctx context.Context) error {
	ch, err := e.Dialer.Dial(ctx)
	if err != nil {
		return fmt.Errorf("%w: dial: %v", transport.ErrTransport, err)
	}

	e.mu.Lock()
	e.channel = ch
	e.prompt = ch.Prompt()
	e.consecutiveFailures = 0
	e.mu.Unlock()

	if cmd := e.driver.PaginationCommand(); cmd != "" {
		if _, err := ch.Send(ctx, cmd); err != nil {
			return fmt.Errorf("%w: issuing pagination command: %v", transport.ErrTransport, err)
		}
	}
	return nil
}

// runCycle executes one collection's pipeline: send, sanitize, parse
// chain, normalize, shape, post-process, publish, trace. Per-collection
// failures never propagate -- spec.md 7's "contained to that collection
// and a single cycle."
func (e *Engine) runCycle(ctx context.Context, def *collection.Definition) {
	start := time.Now()

	raw, err := e.send(ctx, def.Command)
	if err != nil {
		e.Recorder.Record(trace.Entry{
			SessionID:  e.sessionID,
			Collection: def.Name,
			Command:    def.Command,
			ParserKind: "none",
			Duration:   time.Since(start),
			Error:      err.Error(),
		})
		metrics.PollCycles.WithLabelValues(def.Name, "transport_error").Inc()
		return
	}

	sanitized := sanitize.Output(raw, def.Command, e.currentPrompt())
	chainOut := chain.Run(sanitized, def.Parsers, e.Resolvers, e.TTPEngine)
	normalized := normalize.Rows(chainOut.Rows, def.Normalize, def.Schema)

	// S6: when every parser failed, the prior successful envelope (if
	// any) is retained in the store; only the error marker is published
	// and traced, rather than overwriting good data with an empty one.
	if chainOut.Err != nil {
		e.recordParseFailure(def, start, chainOut)
		metrics.PollCycles.WithLabelValues(def.Name, "parse_error").Inc()
		return
	}

	envelope := shaper.Shape(def.Name, normalized)
	errStr := ""
	outcome := "ok"

	finalEnvelope, ppErr := e.driver.PostProcess(def.Name, envelope, e.Store)
	if ppErr != nil {
		// Resilience per spec.md 4.6: a post-process error becomes a
		// sentinel error envelope, not a stalled collection.
		errStr = fmt.Sprintf("%s: %v", errs.PostProcessError, ppErr)
		finalEnvelope = map[string]interface{}{"error": errStr, "_collection": def.Name}
		outcome = "post_process_error"
	}

	pub := e.Store.Put(def.Name, finalEnvelope, chainOut.ParserKind, chainOut.Template, errStr, time.Now().UnixNano())
	e.Bus.Publish(eventbus.Event{
		SessionID:  e.sessionID,
		Collection: pub.Collection,
		Envelope:   pub.Envelope,
		Sequence:   pub.Sequence,
		ParsedBy:   pub.ParsedBy,
		Template:   pub.Template,
		Error:      pub.Error,
	})

	e.Recorder.Record(trace.Entry{
		SessionID:  e.sessionID,
		Collection: def.Name,
		Command:    def.Command,
		ParserKind: chainOut.ParserKind,
		Template:   chainOut.Template,
		Resolved:   chainOut.Resolved,
		Duration:   time.Since(start),
		RowCount:   len(chainOut.Rows),
		FieldCount: fieldCount(normalized),
		Error:      errStr,
		Attempts:   chainOut.Attempts,
	})
	metrics.PollCycles.WithLabelValues(def.Name, outcome).Inc()
}

// recordParseFailure implements S6: publish and trace an AllParsersFailed
// marker without disturbing whatever the store already holds for this
// collection.
func (e *Engine) recordParseFailure(def *collection.Definition, start time.Time, chainOut chain.Outcome) {
	errStr := chainOut.Err.Error()
	sequence := int64(0)
	if prior, ok := e.Store.Get(def.Name); ok {
		sequence = prior.Sequence
	}

	e.Bus.Publish(eventbus.Event{
		SessionID:  e.sessionID,
		Collection: def.Name,
		Envelope:   map[string]interface{}{"error": errStr, "_collection": def.Name},
		Sequence:   sequence,
		ParsedBy:   "none",
		Error:      errStr,
	})

	e.Recorder.Record(trace.Entry{
		SessionID:  e.sessionID,
		Collection: def.Name,
		Command:    def.Command,
		ParserKind: "none",
		Duration:   time.Since(start),
		Error:      errStr,
		Attempts:   chainOut.Attempts,
	})
}

func fieldCount(rows []map[string]interface{}) int {
	if len(rows) == 0 {
		return 0
	}
	return len(rows[0])
}

func (e *Engine) currentPrompt() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.prompt
}

// send issues command on the current channel, tracking consecutive
// failures across all collections and triggering reconnect once the
// threshold is reached (spec.md 5/7). Because the scheduler limits
// concurrency to one job at a time, this call -- including any reconnect
// it triggers -- blocks every other collection's cycle until it returns,
// which is exactly spec.md 7's "transport errors pause the entire
// session."
func (e *Engine) send(ctx context.Context, command string) (string, error) {
	e.mu.Lock()
	ch := e.channel
	e.mu.Unlock()

	out, err := ch.Send(ctx, command)
	if err == nil {
		e.mu.Lock()
		e.consecutiveFailures = 0
		e.prompt = ch.Prompt()
		e.mu.Unlock()
		return out, nil
	}

	metrics.TransportErrors.Inc()
	e.mu.Lock()
	e.consecutiveFailures++
	failures := e.consecutiveFailures
	e.mu.Unlock()

	if failures >= FailureThreshold {
		e.reconnect(ctx)
	}
	return "", err
}

// reconnect retries dialing with exponential backoff (3s, 6s, 12s, ...
// capped at 60s) until ctx is canceled or a dial succeeds, then re-issues
// the pagination command and resets the failure counter.
func (e *Engine) reconnect(ctx context.Context) {
	e.Bus.Publish(eventbus.Event{SessionID: e.sessionID, Collection: connectionCollection, Envelope: map[string]interface{}{"state": "reconnecting"}})
	cclog.Warn("pollengine: consecutive transport failures reached threshold, entering reconnect backoff")

	backoff := InitialBackoff
	for {
		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}

		metrics.ReconnectAttempts.Inc()
		ch, err := e.Dialer.Dial(ctx)
		if err != nil {
			cclog.Warnf("pollengine: reconnect attempt failed: %v", err)
			backoff *= 2
			if backoff > MaxBackoff {
				backoff = MaxBackoff
			}
			continue
		}

		e.mu.Lock()
		e.channel = ch
		e.prompt = ch.Prompt()
		e.consecutiveFailures = 0
		e.mu.Unlock()

		if cmd := e.driver.PaginationCommand(); cmd != "" {
			if _, err := ch.Send(ctx, cmd); err != nil {
				cclog.Warnf("pollengine: re-issuing pagination command after reconnect failed: %v", err)
				backoff *= 2
				if backoff > MaxBackoff {
					backoff = MaxBackoff
				}
				continue
			}
		}

		e.Bus.Publish(eventbus.Event{SessionID: e.sessionID, Collection: connectionCollection, Envelope: map[string]interface{}{"state": "connected"}})
		cclog.Info("pollengine: reconnected, resuming poll loop")
		return
	}
}
