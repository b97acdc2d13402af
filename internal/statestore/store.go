// Package statestore implements the in-memory state store (spec.md 4.8):
// the latest-envelope map per collection plus per-series ring buffers, with
// an atomic-pointer-swap publish path so readers never observe a torn
// update (spec.md 5).
package statestore

import (
	"sync"
	"sync/atomic"
)

// DefaultGraceCycles is how many consecutive cycles a per-interface series
// may go unseen before its ring buffer is destroyed (spec.md 4.8).
const DefaultGraceCycles = 10

// SeriesSpec declares one numeric time series a collection's envelope
// feeds into the ring buffers. Name is a top-level envelope key for a flat
// series (e.g. "five_sec_total"), or a field name nested under each row of
// "interfaces" when PerInterface is set (e.g. "input_rate_bps" from
// interface_detail, keyed per-interface per spec.md 4.8's
// "interface_detail.interfaces[intf].input_rate_bps" example).
type SeriesSpec struct {
	Name         string
	PerInterface bool
	Capacity     int
}

// Published is what Put returns and what a sink/subscriber observes: one
// state-store update, matching the event contract in spec.md 6.
type Published struct {
	Collection string
	Envelope   map[string]interface{}
	Sequence   int64
	ParsedBy   string
	Template   string
	Error      string
}

type perInterfaceSeries struct {
	ring     *Ring
	lastSeen int
}

type collectionState struct {
	mu            sync.Mutex
	latest        atomic.Pointer[Published]
	seq           int64
	cycle         int
	specs         []SeriesSpec
	flat          map[string]*Ring
	perInterface  map[string]map[string]*perInterfaceSeries // seriesName -> ifName -> series
	graceCycles   int
}

// Store is the per-session collection of collectionStates. A Store is
// created once per device session and discarded on disconnect (spec.md 3:
// "State store lives for the session; it is cleared on disconnect" -- for
// this implementation that simply means dropping the *Store).
type Store struct {
	mu          sync.Mutex
	collections map[string]*collectionState
	sink        func(Published)
}

// New creates an empty store.
func New() *Store {
	return &Store{collections: make(map[string]*collectionState)}
}

// SetSink installs a callback invoked synchronously after every successful
// Put. cmd/wirlwind installs a metrics callback here; the poll engine
// publishes to internal/eventbus itself.
func (s *Store) SetSink(sink func(Published)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sink = sink
}

// Configure declares the numeric series a collection publishes, so later
// Put calls know what to extract into ring buffers. Calling Configure more
// than once for the same collection replaces its series specs but keeps
// accumulated history.
func (s *Store) Configure(collection string, specs []SeriesSpec, graceCycles int) {
	if graceCycles <= 0 {
		graceCycles = DefaultGraceCycles
	}
	cs := s.entry(collection)
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.specs = specs
	cs.graceCycles = graceCycles
}

func (s *Store) entry(collection string) *collectionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	cs, ok := s.collections[collection]
	if !ok {
		cs = &collectionState{
			flat:         make(map[string]*Ring),
			perInterface: make(map[string]map[string]*perInterfaceSeries),
			graceCycles:  DefaultGraceCycles,
		}
		s.collections[collection] = cs
	}
	return cs
}

// Put replaces the latest envelope for collection, increments its sequence
// number, extracts configured numeric series into ring buffers, and emits
// an update event via the installed sink. ts is the engine-clock timestamp
// (unix nanos) attached to extracted samples.
func (s *Store) Put(collection string, envelope map[string]interface{}, parsedBy, tmplPath, errStr string, ts int64) Published {
	cs := s.entry(collection)

	cs.mu.Lock()
	cs.seq++
	seq := cs.seq
	cs.cycle++
	extractSeries(cs, envelope, ts)
	cs.mu.Unlock()

	pub := Published{
		Collection: collection,
		Envelope:   envelope,
		Sequence:   seq,
		ParsedBy:   parsedBy,
		Template:   tmplPath,
		Error:      errStr,
	}
	cs.latest.Store(&pub)

	s.mu.Lock()
	sink := s.sink
	s.mu.Unlock()
	if sink != nil {
		sink(pub)
	}
	return pub
}

// Get returns the latest published value for collection, or ok=false if
// nothing has ever been published.
func (s *Store) Get(collection string) (Published, bool) {
	s.mu.Lock()
	cs, exists := s.collections[collection]
	s.mu.Unlock()
	if !exists {
		return Published{}, false
	}
	p := cs.latest.Load()
	if p == nil {
		return Published{}, false
	}
	return *p, true
}

// History returns the ring buffer contents for a flat (non-per-interface)
// series, oldest first.
func (s *Store) History(collection, series string) []Sample {
	s.mu.Lock()
	cs, exists := s.collections[collection]
	s.mu.Unlock()
	if !exists {
		return nil
	}
	cs.mu.Lock()
	r := cs.flat[series]
	cs.mu.Unlock()
	if r == nil {
		return nil
	}
	return r.Snapshot()
}

// HistoryForInterface returns the ring buffer contents for a per-interface
// series (e.g. interface_detail's input_rate_bps keyed by interface name).
func (s *Store) HistoryForInterface(collection, series, iface string) []Sample {
	s.mu.Lock()
	cs, exists := s.collections[collection]
	s.mu.Unlock()
	if !exists {
		return nil
	}
	cs.mu.Lock()
	defer cs.mu.Unlock()
	byIface := cs.perInterface[series]
	if byIface == nil {
		return nil
	}
	pis := byIface[iface]
	if pis == nil {
		return nil
	}
	return pis.ring.Snapshot()
}

func extractSeries(cs *collectionState, envelope map[string]interface{}, ts int64) {
	for _, spec := range cs.specs {
		if spec.PerInterface {
			extractPerInterface(cs, spec, envelope, ts)
			continue
		}
		r, ok := cs.flat[spec.Name]
		if !ok {
			r = NewRing(spec.Capacity)
			cs.flat[spec.Name] = r
		}
		if v, ok := asFloat(envelope[spec.Name]); ok {
			r.Push(Sample{TS: ts, Value: v})
		} else {
			r.Push(NaN(ts))
		}
	}
}

func extractPerInterface(cs *collectionState, spec SeriesSpec, envelope map[string]interface{}, ts int64) {
	rows, _ := envelope["interfaces"].([]interface{})
	byIface := cs.perInterface[spec.Name]
	if byIface == nil {
		byIface = make(map[string]*perInterfaceSeries)
		cs.perInterface[spec.Name] = byIface
	}

	seen := make(map[string]bool, len(rows))
	for _, raw := range rows {
		row, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		name, _ := row["interface"].(string)
		if name == "" {
			continue
		}
		seen[name] = true

		pis := byIface[name]
		if pis == nil {
			pis = &perInterfaceSeries{ring: NewRing(spec.Capacity)}
			byIface[name] = pis
		}
		pis.lastSeen = cs.cycle
		if v, ok := asFloat(row[spec.Name]); ok {
			pis.ring.Push(Sample{TS: ts, Value: v})
		} else {
			pis.ring.Push(NaN(ts))
		}
	}

	// Lazily destroy per-interface series that have aged out of the grace
	// window (spec.md 4.8: "destroyed if the interface has been absent for
	// more than a configurable grace window").
	for name, pis := range byIface {
		if !seen[name] && cs.cycle-pis.lastSeen > cs.graceCycles {
			delete(byIface, name)
		}
	}
}

func asFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}
