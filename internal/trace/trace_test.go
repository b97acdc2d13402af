package trace

import "testing"

func TestRecorderEvictsOldest(t *testing.T) {
	r := New(3)
	for i := range 5 {
		r.Record(Entry{Collection: "cpu", RowCount: i})
	}

	recent := r.Recent(0)
	if len(recent) != 3 {
		t.Fatalf("expected ring capped at 3 entries, got %d", len(recent))
	}
	if recent[0].RowCount != 2 || recent[2].RowCount != 4 {
		t.Fatalf("expected oldest two entries evicted, got %+v", recent)
	}
}

func TestRecorderDebugTrimsExtras(t *testing.T) {
	r := New(10)
	r.Record(Entry{Collection: "cpu", RawPreview: "raw output here"})
	entry := r.Recent(1)[0]
	if entry.RawPreview != "" {
		t.Fatalf("expected raw preview trimmed when debug is off, got %q", entry.RawPreview)
	}

	r.SetDebug(true)
	r.Record(Entry{Collection: "cpu", RawPreview: "raw output here"})
	entry = r.Recent(1)[0]
	if entry.RawPreview != "raw output here" {
		t.Fatalf("expected raw preview retained in debug mode, got %q", entry.RawPreview)
	}
}

func TestRecorderSinkCalledSynchronously(t *testing.T) {
	r := New(5)
	var seen []Entry
	r.SetSink(func(e Entry) { seen = append(seen, e) })
	r.Record(Entry{Collection: "memory"})
	if len(seen) != 1 || seen[0].Collection != "memory" {
		t.Fatalf("expected sink to observe recorded entry, got %+v", seen)
	}
}
