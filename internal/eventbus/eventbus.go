// Package eventbus implements the state store's update fan-out (spec.md 9,
// "State store event fan-out"): in-order, at-most-once delivery per
// subscriber, with bounded consumer queues that drop the newest update
// (not the oldest) on overflow so a slow subscriber never blocks the poll
// engine. An optional NATS publish mirrors the same updates to external
// processes.
package eventbus

import (
	"encoding/json"
	"sync"

	"github.com/scottpeterman/wirlwind/internal/metrics"
	natsclient "github.com/scottpeterman/wirlwind/pkg/nats"
)

// DefaultQueueDepth is the per-subscriber channel capacity. An operator-
// facing event stream is expected to drain on the order of milliseconds;
// this absorbs a brief stall (e.g. a slow HTTP write) without dropping.
const DefaultQueueDepth = 32

// Event is what a subscriber receives: one state-store publish.
type Event struct {
	SessionID  string                 `json:"session_id,omitempty"`
	Collection string                 `json:"collection"`
	Envelope   map[string]interface{} `json:"envelope"`
	Sequence   int64                  `json:"sequence"`
	ParsedBy   string                 `json:"parsed_by"`
	Template   string                 `json:"template,omitempty"`
	Error      string                 `json:"error,omitempty"`
}

type subscriber struct {
	id   int64
	ch   chan Event
	only string // non-empty restricts delivery to one collection
}

// Bus fans out Events to in-process subscribers and, optionally, to NATS.
type Bus struct {
	mu        sync.Mutex
	nextID    int64
	subs      map[int64]*subscriber
	natsTopic string
}

// New returns an empty bus. natsSubjectPrefix, if non-empty, publishes every
// event as JSON to "<prefix>.<collection>" via pkg/nats's singleton client;
// if the NATS client was never connected (no address configured), the
// publish is a silent no-op, matching the rest of this codebase's
// "optional and quiet" convention for ambient fan-out.
func New(natsSubjectPrefix string) *Bus {
	return &Bus{subs: make(map[int64]*subscriber), natsTopic: natsSubjectPrefix}
}

// Subscription is a handle returned to a caller of Subscribe; Close stops
// delivery and releases the channel.
type Subscription struct {
	bus *Bus
	id  int64
	C   <-chan Event
}

func (s *Subscription) Close() {
	s.bus.mu.Lock()
	defer s.bus.mu.Unlock()
	if sub, ok := s.bus.subs[s.id]; ok {
		close(sub.ch)
		delete(s.bus.subs, s.id)
	}
}

// Subscribe registers a new subscriber. If collection is non-empty, only
// events for that collection are delivered; empty means all collections.
func (b *Bus) Subscribe(collection string) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	sub := &subscriber{id: id, ch: make(chan Event, DefaultQueueDepth), only: collection}
	b.subs[id] = sub
	return &Subscription{bus: b, id: id, C: sub.ch}
}

// Publish delivers ev to every matching subscriber (dropping newest, i.e.
// ev itself, for any subscriber whose queue is full) and, if configured,
// to NATS.
func (b *Bus) Publish(ev Event) {
	b.mu.Lock()
	subs := make([]*subscriber, 0, len(b.subs))
	for _, s := range b.subs {
		if s.only == "" || s.only == ev.Collection {
			subs = append(subs, s)
		}
	}
	b.mu.Unlock()

	for _, s := range subs {
		select {
		case s.ch <- ev:
		default:
			metrics.DroppedEvents.WithLabelValues(ev.Collection).Inc()
		}
	}

	b.publishNATS(ev)
}

// Close flushes and releases the NATS mirror, if one is connected. Call
// once during shutdown, after the poll engine has stopped publishing, so
// the last few mirrored envelopes aren't dropped on process exit.
func (b *Bus) Close() {
	if b.natsTopic == "" {
		return
	}
	if client := natsclient.GetClient(); client != nil {
		client.Close()
	}
}

func (b *Bus) publishNATS(ev Event) {
	if b.natsTopic == "" || natsclient.Keys.Address == "" {
		return
	}
	client := natsclient.GetClient()
	if client == nil || !client.IsConnected() {
		return
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_ = client.Publish(b.natsTopic+"."+ev.Collection, data)
}
