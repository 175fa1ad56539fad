package itinerary

import "time"

// Chain is an ordered, non-empty run of segments where each arrival airport
// connects to the next departure airport under canonical comparison.
type Chain []Segment

// Origin returns the departure airport of the first segment.
func (c Chain) Origin() string {
	if len(c) == 0 {
		return ""
	}
	return c[0].DepartureAirport
}

// Destination returns the arrival airport of the last segment.
func (c Chain) Destination() string {
	if len(c) == 0 {
		return ""
	}
	return c[len(c)-1].ArrivalAirport
}

// Stops is the number of intermediate connections.
func (c Chain) Stops() int {
	if len(c) == 0 {
		return 0
	}
	return len(c) - 1
}

// Preference selects among multiple complete candidate chains.
type Preference string

const (
	PreferEarliest Preference = "earliest"
	PreferLatest   Preference = "latest"
)

// Options tunes the chain search. NotBefore fences out starts that depart
// before the given instant, so a return leg cannot be matched to segments
// departing before the outbound leg has arrived.
type Options struct {
	Preference Preference
	NotBefore  time.Time
}

// FindChain reconstructs the best contiguous segment run from origin to
// destination out of a flat pool. Supplier payloads interleave outbound,
// return and multi-city segments in one list without leg grouping; directed
// search from the anchors is the only reliable way to recover which segments
// belong to which leg. Returns nil when no candidate completes.
func FindChain(segments []Segment, origin, destination string, opts Options) Chain {
	if CanonCode(origin) == "" || CanonCode(destination) == "" {
		return nil
	}

	var candidates []Chain
	for i, start := range segments {
		if !sameCode(start.DepartureAirport, origin) {
			continue
		}
		if !opts.NotBefore.IsZero() && !start.DepartureAt.IsZero() && start.DepartureAt.Before(opts.NotBefore) {
			continue
		}
		if chain := extendToward(segments, i, destination); chain != nil {
			candidates = append(candidates, chain)
		}
	}
	return pickCandidate(candidates, opts.Preference)
}

// extendToward greedily grows a chain from the start index, always appending
// the first not-yet-used connecting segment in ascending departure order (the
// pool arrives sorted from Normalize). Dead ends are discarded.
func extendToward(segments []Segment, start int, destination string) Chain {
	used := map[int]bool{start: true}
	chain := Chain{segments[start]}

	for {
		last := chain[len(chain)-1]
		if sameCode(last.ArrivalAirport, destination) {
			return chain
		}
		next := -1
		for j, seg := range segments {
			if used[j] {
				continue
			}
			if !sameCode(seg.DepartureAirport, last.ArrivalAirport) {
				continue
			}
			// A connection cannot depart before the feeder lands.
			if !seg.DepartureAt.IsZero() && !last.ArrivalAt.IsZero() && seg.DepartureAt.Before(last.ArrivalAt) {
				continue
			}
			next = j
			break
		}
		if next < 0 {
			return nil
		}
		used[next] = true
		chain = append(chain, segments[next])
	}
}

// pickCandidate applies the preference over the first segment's departure
// instant; ties keep the first-found candidate.
func pickCandidate(candidates []Chain, pref Preference) Chain {
	if len(candidates) == 0 {
		return nil
	}
	switch pref {
	case PreferEarliest, "":
		best := candidates[0]
		for _, c := range candidates[1:] {
			if c[0].DepartureAt.Before(best[0].DepartureAt) {
				best = c
			}
		}
		return best
	case PreferLatest:
		best := candidates[0]
		for _, c := range candidates[1:] {
			if c[0].DepartureAt.After(best[0].DepartureAt) {
				best = c
			}
		}
		return best
	}
	panic("itinerary: unknown chain preference " + string(pref))
}

// GuessFirstChain builds one chain greedily from the first segment in sorted
// order, used when the caller has no anchor airports at all.
func GuessFirstChain(segments []Segment) Chain {
	if len(segments) == 0 {
		return nil
	}
	used := map[int]bool{0: true}
	chain := Chain{segments[0]}
	for {
		last := chain[len(chain)-1]
		next := -1
		for j, seg := range segments {
			if used[j] {
				continue
			}
			if !sameCode(seg.DepartureAirport, last.ArrivalAirport) {
				continue
			}
			if !seg.DepartureAt.IsZero() && !last.ArrivalAt.IsZero() && seg.DepartureAt.Before(last.ArrivalAt) {
				continue
			}
			next = j
			break
		}
		if next < 0 {
			return chain
		}
		used[next] = true
		chain = append(chain, segments[next])
	}
}

// ResolveLeg is the documented degradation ladder, centralized so the order
// is a contract instead of per-caller improvisation:
// exact anchors -> NotBefore relaxed -> reversed anchors -> first-chain guess.
// Callers still hold the final rung: SyntheticChain from the flat payload.
func ResolveLeg(segments []Segment, origin, destination string, opts Options) Chain {
	if chain := FindChain(segments, origin, destination, opts); chain != nil {
		return chain
	}
	if !opts.NotBefore.IsZero() {
		relaxed := Options{Preference: opts.Preference}
		if chain := FindChain(segments, origin, destination, relaxed); chain != nil {
			return chain
		}
	}
	if chain := FindChain(segments, destination, origin, Options{Preference: opts.Preference}); chain != nil {
		return chain
	}
	return GuessFirstChain(segments)
}

// SyntheticChain is the last resort: a single-segment chain assembled from
// whatever flat fields the original flight-like object carries, so a render
// never blocks on reconstruction failure. Returns nil only when the payload
// holds nothing displayable at all.
func SyntheticChain(flightLike any) Chain {
	var raw RawSegment
	switch v := flightLike.(type) {
	case RawSegment:
		raw = v
	case map[string]any:
		raw = RawSegment(v)
	default:
		return nil
	}
	seg := resolveSegment(raw)
	if seg.DepartureAirport == "" && seg.ArrivalAirport == "" &&
		seg.DepartureAt.IsZero() && seg.ArrivalAt.IsZero() &&
		seg.AirlineCode == "" && seg.FlightNumber == "" {
		return nil
	}
	return Chain{seg}
}
