package itinerary

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// RawSegment is one supplier-provided record describing a flown leg.
// Key names vary per supplier, so it stays an untyped map and is never mutated.
type RawSegment map[string]any

// Segment is the uniform internal representation built from a RawSegment.
// Immutable once built; zero time.Time means the instant stayed unresolved.
type Segment struct {
	ID               string
	AirlineCode      string
	FlightNumber     string
	DepartureAirport string
	ArrivalAirport   string
	DepartureAt      time.Time
	ArrivalAt        time.Time

	// Raw time-only strings kept for display: a combined instant may carry an
	// arbitrary date component that must not be shown to the user.
	DepartureTimeText string
	ArrivalTimeText   string

	BookingCode string
	Refundable  bool
}

// usable reports whether the segment satisfies the retention rule: at least
// one airport and at least one resolvable instant.
func (s Segment) usable() bool {
	hasAirport := s.DepartureAirport != "" || s.ArrivalAirport != ""
	hasInstant := !s.DepartureAt.IsZero() || !s.ArrivalAt.IsZero()
	return hasAirport && hasInstant
}

// sortInstant is the ordering key: departure instant, else arrival.
func (s Segment) sortInstant() time.Time {
	if !s.DepartureAt.IsZero() {
		return s.DepartureAt
	}
	return s.ArrivalAt
}

// fieldPath walks nested maps, so {"departure","iataCode"} reads the Amadeus
// shape while {"origin"} reads flattened payloads.
type fieldPath []string

var (
	idPaths = []fieldPath{
		{"id"}, {"segmentId"}, {"segment_id"},
	}
	airlinePaths = []fieldPath{
		{"airlineCode"}, {"airline_code"}, {"carrierCode"}, {"airline"}, {"carrier"}, {"marketingCarrier"},
	}
	flightNumberPaths = []fieldPath{
		{"flightNumber"}, {"flight_number"}, {"flightNo"}, {"number"},
	}
	departureAirportPaths = []fieldPath{
		{"departureAirport"}, {"departure_airport"},
		{"departure", "iataCode"}, {"departure", "code"}, {"departure", "airport"},
		{"departure"}, {"origin"}, {"from"}, {"departureCode"},
	}
	arrivalAirportPaths = []fieldPath{
		{"arrivalAirport"}, {"arrival_airport"},
		{"arrival", "iataCode"}, {"arrival", "code"}, {"arrival", "airport"},
		{"arrival"}, {"destination"}, {"to"}, {"arrivalCode"},
	}
	departureCombinedPaths = []fieldPath{
		{"departureDateTime"}, {"departure_datetime"}, {"departureAt"}, {"departure_at"},
		{"departure", "at"}, {"departure", "dateTime"}, {"std"},
	}
	departureDatePaths = []fieldPath{
		{"departureDate"}, {"departure_date"}, {"depDate"}, {"date"},
	}
	departureTimePaths = []fieldPath{
		{"departureTime"}, {"departure_time"}, {"depTime"},
	}
	arrivalCombinedPaths = []fieldPath{
		{"arrivalDateTime"}, {"arrival_datetime"}, {"arrivalAt"}, {"arrival_at"},
		{"arrival", "at"}, {"arrival", "dateTime"}, {"sta"},
	}
	arrivalDatePaths = []fieldPath{
		{"arrivalDate"}, {"arrival_date"}, {"arrDate"},
	}
	arrivalTimePaths = []fieldPath{
		{"arrivalTime"}, {"arrival_time"}, {"arrTime"},
	}
	bookingCodePaths = []fieldPath{
		{"bookingCode"}, {"booking_code"}, {"bookingClass"}, {"fareClass"}, {"class"},
	}
	refundablePaths = []fieldPath{
		{"isRefundable"}, {"is_refundable"}, {"refundable"},
	}
)

// lookup walks one candidate path through nested maps.
func lookup(raw map[string]any, path fieldPath) (any, bool) {
	var cur any = map[string]any(raw)
	for _, key := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// stringField returns the first non-empty string among candidates.
// Numbers are accepted too; suppliers send flight numbers both ways.
func stringField(raw RawSegment, paths []fieldPath) string {
	for _, p := range paths {
		v, ok := lookup(raw, p)
		if !ok {
			continue
		}
		switch t := v.(type) {
		case string:
			if s := strings.TrimSpace(t); s != "" {
				return s
			}
		case float64:
			return strconv.FormatFloat(t, 'f', -1, 64)
		case int:
			return strconv.Itoa(t)
		case int64:
			return strconv.FormatInt(t, 10)
		}
	}
	return ""
}

func boolField(raw RawSegment, paths []fieldPath) bool {
	for _, p := range paths {
		v, ok := lookup(raw, p)
		if !ok {
			continue
		}
		switch t := v.(type) {
		case bool:
			return t
		case string:
			s := strings.ToLower(strings.TrimSpace(t))
			if s == "true" || s == "1" || s == "yes" {
				return true
			}
			if s == "false" || s == "0" || s == "no" {
				return false
			}
		}
	}
	return false
}

const (
	layoutDate = "2006-01-02"
)

var combinedLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

var timeOnlyLayouts = []string{
	"15:04:05",
	"15:04",
}

func parseCombined(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range combinedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseDateOnly(s string) (time.Time, bool) {
	t, err := time.Parse(layoutDate, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func parseTimeOnly(s string) (time.Duration, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range timeOnlyLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Duration(t.Hour())*time.Hour +
				time.Duration(t.Minute())*time.Minute +
				time.Duration(t.Second())*time.Second, true
		}
	}
	return 0, false
}

// resolveInstant applies the resolution ladder: split date+time combine first,
// then date alone at midnight, then time alone anchored at the epoch date,
// then a pre-combined timestamp field. Anything else stays unresolved.
func resolveInstant(raw RawSegment, combined, dates, times []fieldPath) (time.Time, string) {
	dateText := stringField(raw, dates)
	timeText := stringField(raw, times)

	dateVal, dateOK := parseDateOnly(dateText)
	timeVal, timeOK := parseTimeOnly(timeText)

	switch {
	case dateOK && timeOK:
		return dateVal.Add(timeVal), timeText
	case dateOK:
		return dateVal, ""
	case timeOK:
		return time.Unix(0, 0).UTC().Add(timeVal), timeText
	}

	if t, ok := parseCombined(stringField(raw, combined)); ok {
		return t, ""
	}
	// Some suppliers ship a full timestamp in the time slot.
	if t, ok := parseCombined(timeText); ok {
		return t, ""
	}
	return time.Time{}, ""
}

// resolveSegment builds a Segment from one raw record; it never fails, it
// only leaves fields empty.
func resolveSegment(raw RawSegment) Segment {
	seg := Segment{
		ID:               stringField(raw, idPaths),
		AirlineCode:      stringField(raw, airlinePaths),
		FlightNumber:     stringField(raw, flightNumberPaths),
		DepartureAirport: stringField(raw, departureAirportPaths),
		ArrivalAirport:   stringField(raw, arrivalAirportPaths),
		BookingCode:      stringField(raw, bookingCodePaths),
		Refundable:       boolField(raw, refundablePaths),
	}
	seg.DepartureAt, seg.DepartureTimeText = resolveInstant(raw, departureCombinedPaths, departureDatePaths, departureTimePaths)
	seg.ArrivalAt, seg.ArrivalTimeText = resolveInstant(raw, arrivalCombinedPaths, arrivalDatePaths, arrivalTimePaths)
	return seg
}

// identity is the composite used by itinerary keys when the supplier gave no
// segment id.
func (s Segment) identity() string {
	if s.ID != "" {
		return s.ID
	}
	return fmt.Sprintf("%s%s-%s-%s", s.AirlineCode, s.FlightNumber, s.DepartureAirport, s.ArrivalAirport)
}
