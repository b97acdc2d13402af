package vendorid

import "testing"

func TestFallback(t *testing.T) {
	cases := []struct {
		in     string
		want   string
		wantOk bool
	}{
		{"cisco_ios_xe", "cisco_ios", true},
		{"cisco_ios", "cisco", true},
		{"cisco", "", false},
		{"", "", false},
	}
	for _, c := range cases {
		got, ok := Fallback(c.in)
		if ok != c.wantOk || got != c.want {
			t.Errorf("Fallback(%q) = (%q, %v), want (%q, %v)", c.in, got, ok, c.want, c.wantOk)
		}
	}
}

func TestResolveAppliesFallbackAtMostOnce(t *testing.T) {
	known := map[string]int{"cisco_ios": 1}
	lookup := func(v string) (int, bool) {
		n, ok := known[v]
		return n, ok
	}

	id, val, ok := Resolve("cisco_ios_xe", lookup)
	if !ok || id != "cisco_ios" || val != 1 {
		t.Fatalf("expected fallback to cisco_ios, got id=%q val=%d ok=%v", id, val, ok)
	}

	// Two segments away: cisco_ios_xe_foo falls back only to cisco_ios_xe,
	// which isn't registered either, and must NOT cascade to cisco_ios.
	_, _, ok = Resolve("cisco_ios_xe_foo", lookup)
	if ok {
		t.Fatalf("fallback must apply at most once per lookup")
	}
}

func TestResolveDirectHit(t *testing.T) {
	known := map[string]int{"arista_eos": 7}
	id, val, ok := Resolve("arista_eos", func(v string) (int, bool) { n, ok := known[v]; return n, ok })
	if !ok || id != "arista_eos" || val != 7 {
		t.Fatalf("expected direct hit, got id=%q val=%d ok=%v", id, val, ok)
	}
}
