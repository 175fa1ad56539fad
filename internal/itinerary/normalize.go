package itinerary

import (
	"sort"
	"strings"
)

// segmentListKeys are the payload fields that may carry the raw segment array.
var segmentListKeys = []string{"segments", "flights", "solutions"}

// rawSegments resolves the duck-typed flightLike input once at the boundary:
// a map exposing a segment array, a bare array, or a single flattened record
// treated as its own one-element list.
func rawSegments(flightLike any) []RawSegment {
	switch v := flightLike.(type) {
	case nil:
		return nil
	case []RawSegment:
		return v
	case []map[string]any:
		out := make([]RawSegment, 0, len(v))
		for _, m := range v {
			out = append(out, RawSegment(m))
		}
		return out
	case []any:
		out := make([]RawSegment, 0, len(v))
		for _, item := range v {
			if m, ok := item.(map[string]any); ok {
				out = append(out, RawSegment(m))
			}
		}
		return out
	case RawSegment:
		return rawSegmentsFromMap(map[string]any(v))
	case map[string]any:
		return rawSegmentsFromMap(v)
	}
	return nil
}

func rawSegmentsFromMap(m map[string]any) []RawSegment {
	for _, key := range segmentListKeys {
		if list, ok := m[key]; ok {
			if segs := rawSegments(list); len(segs) > 0 {
				return segs
			}
		}
	}
	// Flattened single-segment shape: the object is its own segment.
	return []RawSegment{m}
}

// Normalize turns a heterogeneous flight-like payload into the uniform segment
// list, sorted ascending by resolved departure instant (arrival as fallback,
// ties stable). Entries missing both airports or both instants are dropped;
// nothing here ever fails.
func Normalize(flightLike any) []Segment {
	raws := rawSegments(flightLike)
	out := make([]Segment, 0, len(raws))
	for _, raw := range raws {
		seg := resolveSegment(raw)
		if !seg.usable() {
			continue
		}
		out = append(out, seg)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].sortInstant().Before(out[j].sortInstant())
	})
	return out
}

// CanonCode normalizes an airport code for comparison: trim, uppercase, strip
// non-alphanumerics, truncate to the 3-letter form. "lhr " and "LHR" match.
func CanonCode(code string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(strings.TrimSpace(code)) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	s := b.String()
	if len(s) > 3 {
		s = s[:3]
	}
	return s
}

// sameCode compares two airport codes under canonical form.
func sameCode(a, b string) bool {
	ca, cb := CanonCode(a), CanonCode(b)
	return ca != "" && ca == cb
}
