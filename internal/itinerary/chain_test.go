package itinerary

import (
	"testing"
	"time"
)

func seg(dep, arr, depAt, arrAt string) Segment {
	parse := func(s string) time.Time {
		if s == "" {
			return time.Time{}
		}
		t, err := time.Parse("2006-01-02T15:04", s)
		if err != nil {
			panic(err)
		}
		return t
	}
	return Segment{
		DepartureAirport: dep,
		ArrivalAirport:   arr,
		DepartureAt:      parse(depAt),
		ArrivalAt:        parse(arrAt),
	}
}

func assertConnected(t *testing.T, c Chain) {
	t.Helper()
	for i := 1; i < len(c); i++ {
		if !sameCode(c[i-1].ArrivalAirport, c[i].DepartureAirport) {
			t.Fatalf("chain broken between %d and %d: %q -> %q",
				i-1, i, c[i-1].ArrivalAirport, c[i].DepartureAirport)
		}
	}
}

func TestFindChainConnectsSegments(t *testing.T) {
	segs := []Segment{
		seg("BOS", "JFK", "2024-01-01T08:00", "2024-01-01T09:10"),
		seg("JFK", "LHR", "2024-01-01T10:00", "2024-01-01T20:00"),
	}
	chain := FindChain(segs, "BOS", "LHR", Options{Preference: PreferEarliest})
	if chain == nil {
		t.Fatalf("expected a chain, got nil")
	}
	if len(chain) != 2 || chain.Stops() != 1 {
		t.Fatalf("chain length = %d stops = %d, want 2 and 1", len(chain), chain.Stops())
	}
	if !sameCode(chain.Origin(), "BOS") || !sameCode(chain.Destination(), "LHR") {
		t.Fatalf("endpoints %q -> %q, want BOS -> LHR", chain.Origin(), chain.Destination())
	}
	assertConnected(t, chain)
}

func TestFindChainIgnoresUnrelatedReverseLeg(t *testing.T) {
	outboundArrival, _ := time.Parse("2006-01-02T15:04", "2024-01-01T20:00")
	segs := []Segment{
		seg("BOS", "JFK", "2024-01-01T08:00", "2024-01-01T09:10"),
		seg("JFK", "LHR", "2024-01-01T10:00", "2024-01-01T20:00"),
		seg("LHR", "JFK", "2024-01-08T09:00", "2024-01-08T12:00"),
		seg("JFK", "BOS", "2024-01-08T14:00", "2024-01-08T15:10"),
	}
	chain := FindChain(segs, "LHR", "BOS", Options{Preference: PreferEarliest, NotBefore: outboundArrival})
	if chain == nil {
		t.Fatalf("expected return chain, got nil")
	}
	if chain[0].DepartureAt.Before(outboundArrival) {
		t.Fatalf("return chain departs %v, before fence %v", chain[0].DepartureAt, outboundArrival)
	}
	if len(chain) != 2 {
		t.Fatalf("return chain length = %d, want 2", len(chain))
	}
	assertConnected(t, chain)
}

func TestFindChainNotBeforeFenceExcludesEarlierStart(t *testing.T) {
	fence, _ := time.Parse("2006-01-02T15:04", "2024-01-01T12:00")
	segs := []Segment{
		seg("LHR", "BOS", "2024-01-01T07:00", "2024-01-01T15:00"),
		seg("LHR", "BOS", "2024-01-01T18:00", "2024-01-02T02:00"),
	}
	chain := FindChain(segs, "LHR", "BOS", Options{Preference: PreferEarliest, NotBefore: fence})
	if chain == nil {
		t.Fatalf("expected a chain, got nil")
	}
	if chain[0].DepartureAt.Before(fence) {
		t.Fatalf("chain starts before the fence: %v", chain[0].DepartureAt)
	}
}

func TestFindChainPreference(t *testing.T) {
	segs := []Segment{
		seg("BOS", "LHR", "2024-01-01T08:00", "2024-01-01T18:00"),
		seg("BOS", "LHR", "2024-01-01T20:00", "2024-01-02T06:00"),
	}
	early := FindChain(segs, "BOS", "LHR", Options{Preference: PreferEarliest})
	if early == nil || early[0].DepartureAt.Hour() != 8 {
		t.Fatalf("earliest preference picked wrong chain: %+v", early)
	}
	late := FindChain(segs, "BOS", "LHR", Options{Preference: PreferLatest})
	if late == nil || late[0].DepartureAt.Hour() != 20 {
		t.Fatalf("latest preference picked wrong chain: %+v", late)
	}
}

func TestFindChainNoCandidateReturnsNil(t *testing.T) {
	segs := []Segment{
		seg("BOS", "JFK", "2024-01-01T08:00", "2024-01-01T09:10"),
	}
	if chain := FindChain(segs, "BOS", "LHR", Options{}); chain != nil {
		t.Fatalf("expected nil for unreachable destination, got %+v", chain)
	}
	if chain := FindChain(segs, "", "JFK", Options{}); chain != nil {
		t.Fatalf("expected nil for empty origin, got %+v", chain)
	}
}

func TestFindChainCanonicalCodeComparison(t *testing.T) {
	segs := []Segment{
		seg(" bos", "j-f-k", "2024-01-01T08:00", "2024-01-01T09:10"),
		seg("JFK ", "lhr", "2024-01-01T10:00", "2024-01-01T20:00"),
	}
	chain := FindChain(segs, "BOS", " LHR ", Options{})
	if chain == nil || len(chain) != 2 {
		t.Fatalf("formatting variants should still match, got %+v", chain)
	}
}

func TestGuessFirstChain(t *testing.T) {
	segs := []Segment{
		seg("CGK", "SIN", "2024-02-01T06:00", "2024-02-01T09:00"),
		seg("SIN", "NRT", "2024-02-01T11:00", "2024-02-01T19:00"),
		seg("DPS", "CGK", "2024-02-05T10:00", "2024-02-05T12:00"),
	}
	chain := GuessFirstChain(segs)
	if len(chain) != 2 {
		t.Fatalf("guessed chain length = %d, want 2", len(chain))
	}
	if !sameCode(chain.Destination(), "NRT") {
		t.Fatalf("guessed chain ends at %q, want NRT", chain.Destination())
	}
	if GuessFirstChain(nil) != nil {
		t.Fatalf("empty pool should guess nil")
	}
}

func TestResolveLegFallbackLadder(t *testing.T) {
	segs := []Segment{
		seg("BOS", "JFK", "2024-01-01T08:00", "2024-01-01T09:10"),
		seg("JFK", "LHR", "2024-01-01T10:00", "2024-01-01T20:00"),
	}

	// Exact anchors win.
	chain := ResolveLeg(segs, "BOS", "LHR", Options{})
	if chain == nil || !sameCode(chain.Origin(), "BOS") {
		t.Fatalf("exact anchors should resolve, got %+v", chain)
	}

	// Reversed anchors rescue a swapped origin/destination pair.
	chain = ResolveLeg(segs, "LHR", "BOS", Options{})
	if chain == nil || !sameCode(chain.Origin(), "BOS") || !sameCode(chain.Destination(), "LHR") {
		t.Fatalf("reversed anchors should resolve, got %+v", chain)
	}

	// Unknown anchors fall through to the first-chain guess.
	chain = ResolveLeg(segs, "XXX", "YYY", Options{})
	if chain == nil || !sameCode(chain.Origin(), "BOS") {
		t.Fatalf("fallback guess should resolve, got %+v", chain)
	}
}

func TestResolveLegRelaxesNotBefore(t *testing.T) {
	fence, _ := time.Parse("2006-01-02T15:04", "2024-06-01T00:00")
	segs := []Segment{
		seg("BOS", "LHR", "2024-01-01T08:00", "2024-01-01T18:00"),
	}
	chain := ResolveLeg(segs, "BOS", "LHR", Options{NotBefore: fence})
	if chain == nil {
		t.Fatalf("fence should be relaxed when it eliminates every candidate")
	}
}

func TestSyntheticChain(t *testing.T) {
	chain := SyntheticChain(map[string]any{
		"airline":       "GA",
		"flightNumber":  "402",
		"origin":        "CGK",
		"destination":   "DPS",
		"departureDate": "2024-06-01",
	})
	if len(chain) != 1 {
		t.Fatalf("synthetic chain length = %d, want 1", len(chain))
	}
	if !sameCode(chain.Origin(), "CGK") || !sameCode(chain.Destination(), "DPS") {
		t.Fatalf("synthetic endpoints %q -> %q", chain.Origin(), chain.Destination())
	}

	if c := SyntheticChain(map[string]any{"note": "nothing usable"}); c != nil {
		t.Fatalf("empty payload should yield nil, got %+v", c)
	}
	if c := SyntheticChain(42); c != nil {
		t.Fatalf("non-map payload should yield nil")
	}
}
