package services

import (
	"testing"

	"aerodesk/internal/domain"
	"aerodesk/internal/supplier"
)

type fakeSupplier struct {
	offers []supplier.Offer
	err    error
	lastQ  supplier.Query
}

func (f *fakeSupplier) SearchOffers(q supplier.Query) ([]supplier.Offer, error) {
	f.lastQ = q
	return f.offers, f.err
}

func seg(airline, number, from, to, dep, arr string) map[string]any {
	return map[string]any{
		"carrierCode": airline,
		"number":      number,
		"departure":   map[string]any{"iataCode": from, "at": dep},
		"arrival":     map[string]any{"iataCode": to, "at": arr},
	}
}

// Interleaved round-trip offer: the return segments arrive shuffled in
// between the outbound ones, which is exactly what reconstruction untangles.
func roundTripOffer() supplier.Offer {
	return supplier.Offer{
		ID:              "off-1",
		GrandTotal:      800,
		Currency:        "USD",
		LegDurationsMin: []int{720, 510},
		Segments:        []map[string]any{
			seg("BA", "212", "BOS", "JFK", "2024-01-01T08:00:00", "2024-01-01T09:00:00"),
			seg("BA", "117", "JFK", "BOS", "2024-01-08T15:00:00", "2024-01-08T16:00:00"),
			seg("BA", "213", "JFK", "LHR", "2024-01-01T11:00:00", "2024-01-01T20:00:00"),
			seg("BA", "116", "LHR", "JFK", "2024-01-08T09:00:00", "2024-01-08T12:00:00"),
		},
	}
}

func TestSearchRoundTripReconstruction(t *testing.T) {
	fake := &fakeSupplier{offers: []supplier.Offer{roundTripOffer()}}
	svc := SearchService{Supplier: fake}

	views, err := svc.Search(SearchQuery{
		Origin:        "BOS",
		Destination:   "LHR",
		DepartureDate: "2024-01-01",
		ReturnDate:    "2024-01-08",
	})
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("expected 1 view, got %d", len(views))
	}

	v := views[0]
	if v.Kind != "round_trip" {
		t.Fatalf("kind = %q", v.Kind)
	}
	if v.TotalPrice != 800 || v.Currency != "USD" {
		t.Fatalf("price = %v %s", v.TotalPrice, v.Currency)
	}
	if v.Outbound == nil || !v.Outbound.Available {
		t.Fatalf("outbound missing: %+v", v.Outbound)
	}
	if v.Outbound.Origin != "BOS" || v.Outbound.Destination != "LHR" || v.Outbound.Stops != 1 {
		t.Fatalf("outbound = %+v", v.Outbound)
	}
	if len(v.Outbound.Segments) != 2 || v.Outbound.Segments[1].FlightNumber != "213" {
		t.Fatalf("outbound segments = %+v", v.Outbound.Segments)
	}
	if v.Return == nil || !v.Return.Available {
		t.Fatalf("return missing: %+v", v.Return)
	}
	if v.Return.Origin != "LHR" || v.Return.Destination != "BOS" || v.Return.Stops != 1 {
		t.Fatalf("return = %+v", v.Return)
	}
}

func TestSearchOneWayIgnoresReturnSegments(t *testing.T) {
	fake := &fakeSupplier{offers: []supplier.Offer{roundTripOffer()}}
	svc := SearchService{Supplier: fake}

	views, err := svc.Search(SearchQuery{
		Origin:        "BOS",
		Destination:   "LHR",
		DepartureDate: "2024-01-01",
	})
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if views[0].Kind != "one_way" {
		t.Fatalf("kind = %q", views[0].Kind)
	}
	if views[0].Return != nil {
		t.Fatalf("one-way view should not carry a return leg")
	}
}

func TestSearchValidatesQuery(t *testing.T) {
	svc := SearchService{Supplier: &fakeSupplier{}}

	cases := []SearchQuery{
		{Destination: "LHR", DepartureDate: "2024-01-01"},
		{Origin: "BOS", DepartureDate: "2024-01-01"},
		{Origin: "BOS", Destination: "LHR"},
		{Origin: "BOS", Destination: "LHR", DepartureDate: "2024-01-01", Preference: "cheapest"},
	}
	for i, q := range cases {
		if _, err := svc.Search(q); !domain.IsValidation(err) {
			t.Fatalf("case %d: expected ValidationError, got %v", i, err)
		}
	}
}

func TestSearchWrapsSupplierFailure(t *testing.T) {
	fake := &fakeSupplier{err: domain.InternalError{Msg: "timeout"}}
	svc := SearchService{Supplier: fake}

	_, err := svc.Search(SearchQuery{Origin: "BOS", Destination: "LHR", DepartureDate: "2024-01-01"})
	if !domain.IsUpstream(err) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
}

func TestSearchDegradedOfferStillRenders(t *testing.T) {
	// Segments never touch the requested anchors; the guess-first fallback
	// should still surface something displayable instead of dropping the offer.
	fake := &fakeSupplier{offers: []supplier.Offer{{
		ID:         "off-weird",
		GrandTotal: 150,
		Currency:   "EUR",
		Segments:   []map[string]any{
			seg("AF", "1180", "CDG", "FRA", "2024-02-01T06:30:00", "2024-02-01T08:00:00"),
		},
	}}}
	svc := SearchService{Supplier: fake}

	views, err := svc.Search(SearchQuery{Origin: "BOS", Destination: "LHR", DepartureDate: "2024-02-01"})
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	v := views[0]
	if v.TotalPrice != 150 {
		t.Fatalf("price should survive degradation, got %v", v.TotalPrice)
	}
	if v.Outbound == nil || !v.Outbound.Available || len(v.Outbound.Segments) != 1 {
		t.Fatalf("degraded outbound = %+v", v.Outbound)
	}
	if v.Outbound.Segments[0].From != "CDG" {
		t.Fatalf("degraded segment = %+v", v.Outbound.Segments[0])
	}
}

func TestSearchReturnLegUnavailableMarked(t *testing.T) {
	// Offer only covers the outbound; the return slot must render as
	// unavailable rather than vanish or fail the search.
	fake := &fakeSupplier{offers: []supplier.Offer{{
		ID:         "off-half",
		GrandTotal: 400,
		Currency:   "USD",
		Segments:   []map[string]any{
			seg("BA", "212", "BOS", "LHR", "2024-01-01T08:00:00", "2024-01-01T20:00:00"),
		},
	}}}
	svc := SearchService{Supplier: fake}

	views, err := svc.Search(SearchQuery{
		Origin: "BOS", Destination: "LHR",
		DepartureDate: "2024-01-01", ReturnDate: "2024-01-08",
	})
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	v := views[0]
	if v.Return == nil || v.Return.Available {
		t.Fatalf("return should be marked unavailable: %+v", v.Return)
	}
	if v.Return.Message == "" {
		t.Fatalf("unavailable return should carry a message")
	}
}

func TestSearchMultiCity(t *testing.T) {
	fake := &fakeSupplier{offers: []supplier.Offer{{
		ID:         "off-mc",
		GrandTotal: 1200,
		Currency:   "USD",
		Segments:   []map[string]any{
			seg("SQ", "21", "SIN", "BKK", "2024-03-01T09:00:00", "2024-03-01T10:30:00"),
			seg("SQ", "305", "BKK", "HKG", "2024-03-05T12:00:00", "2024-03-05T16:00:00"),
		},
	}}}
	svc := SearchService{Supplier: fake}

	views, err := svc.Search(SearchQuery{
		Legs: []LegQuery{
			{Origin: "SIN", Destination: "BKK", DepartureDate: "2024-03-01"},
			{Origin: "BKK", Destination: "HKG", DepartureDate: "2024-03-05"},
		},
	})
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	v := views[0]
	if v.Kind != "multi_city" {
		t.Fatalf("kind = %q", v.Kind)
	}
	if len(v.Legs) != 2 || !v.Legs[0].Available || !v.Legs[1].Available {
		t.Fatalf("legs = %+v", v.Legs)
	}
	if fake.lastQ.Origin != "SIN" || fake.lastQ.Destination != "HKG" {
		t.Fatalf("supplier anchors = %s-%s", fake.lastQ.Origin, fake.lastQ.Destination)
	}
}

func TestSearchPreferenceLatestPicksLaterChain(t *testing.T) {
	fake := &fakeSupplier{offers: []supplier.Offer{{
		ID:         "off-pref",
		GrandTotal: 300,
		Currency:   "USD",
		Segments:   []map[string]any{
			seg("GA", "402", "CGK", "DPS", "2024-06-01T07:00:00", "2024-06-01T09:50:00"),
			seg("GA", "410", "CGK", "DPS", "2024-06-01T17:00:00", "2024-06-01T19:50:00"),
		},
	}}}
	svc := SearchService{Supplier: fake}

	views, err := svc.Search(SearchQuery{
		Origin: "CGK", Destination: "DPS",
		DepartureDate: "2024-06-01", Preference: "latest",
	})
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if got := views[0].Outbound.Segments[0].FlightNumber; got != "410" {
		t.Fatalf("latest preference picked flight %s", got)
	}
}

func TestSearchAppliesRouteMarkup(t *testing.T) {
	// CGK-DPS sits in the domestic markup group (3 percent).
	fake := &fakeSupplier{offers: []supplier.Offer{{
		ID:         "off-markup",
		GrandTotal: 100,
		Currency:   "IDR",
		Segments:   []map[string]any{
			seg("GA", "402", "CGK", "DPS", "2024-06-01T07:00:00", "2024-06-01T09:50:00"),
		},
	}}}
	svc := SearchService{Supplier: fake, DefaultMarkupPercent: 8}

	views, err := svc.Search(SearchQuery{Origin: "CGK", Destination: "DPS", DepartureDate: "2024-06-01"})
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if views[0].TotalPrice != 103 {
		t.Fatalf("total = %v, want 103 after domestic markup", views[0].TotalPrice)
	}
}
