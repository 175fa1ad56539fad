package services

import (
	"fmt"
	"strings"
	"time"

	"aerodesk/internal/domain"
	"aerodesk/internal/itinerary"
	"aerodesk/internal/supplier"
	"aerodesk/internal/utils"
)

// OfferSearcher is the supplier boundary; tests swap in a fake.
type OfferSearcher interface {
	SearchOffers(q supplier.Query) ([]supplier.Offer, error)
}

// SearchService runs the reconstruction pipeline per supplier offer:
// normalize -> chain legs against the search anchors -> aggregate.
type SearchService struct {
	Supplier             OfferSearcher
	DefaultMarkupPercent float64
	RequestID            string
}

// LegQuery is one requested leg of a multi-city search.
type LegQuery struct {
	Origin        string `json:"origin"`
	Destination   string `json:"destination"`
	DepartureDate string `json:"departure_date"`
}

type SearchQuery struct {
	Origin        string     `json:"origin"`
	Destination   string     `json:"destination"`
	DepartureDate string     `json:"departure_date"`
	ReturnDate    string     `json:"return_date"`
	Adults        int        `json:"adults"`
	Preference    string     `json:"preference"`
	Legs          []LegQuery `json:"legs"`
}

type SegmentView struct {
	Airline       string `json:"airline"`
	FlightNumber  string `json:"flight_number"`
	From          string `json:"from"`
	To            string `json:"to"`
	DepartureAt   string `json:"departure_at"`
	ArrivalAt     string `json:"arrival_at"`
	DepartureTime string `json:"departure_time,omitempty"`
	ArrivalTime   string `json:"arrival_time,omitempty"`
	BookingCode   string `json:"booking_code,omitempty"`
	Refundable    bool   `json:"refundable"`
}

type LegView struct {
	Origin          string        `json:"origin"`
	Destination     string        `json:"destination"`
	DepartureAt     string        `json:"departure_at"`
	ArrivalAt       string        `json:"arrival_at"`
	Duration        string        `json:"duration"`
	DurationMinutes int           `json:"duration_minutes"`
	Stops           int           `json:"stops"`
	Available       bool          `json:"available"`
	Message         string        `json:"message,omitempty"`
	Segments        []SegmentView `json:"segments,omitempty"`
}

type ItineraryView struct {
	Key        string    `json:"key"`
	Kind       string    `json:"kind"`
	TotalPrice float64   `json:"total_price"`
	Currency   string    `json:"currency"`
	Outbound   *LegView  `json:"outbound,omitempty"`
	Return     *LegView  `json:"return,omitempty"`
	Legs       []LegView `json:"legs,omitempty"`
	OfferID    string    `json:"offer_id,omitempty"`
}

// legUnavailableMsg is the neutral state the UI shows when a leg cannot be
// reconstructed; the rest of the itinerary still renders.
const legUnavailableMsg = "segment details unavailable"

// Search validates the query, fetches offers, and reconstructs one itinerary
// view per offer. A single malformed offer is skipped, never fatal.
func (s SearchService) Search(q SearchQuery) ([]ItineraryView, error) {
	if err := validateQuery(q); err != nil {
		return nil, err
	}

	sq := supplierQuery(q)
	offers, err := s.Supplier.SearchOffers(sq)
	if err != nil {
		return nil, domain.UpstreamError{Msg: "pencarian penerbangan gagal", Err: err}
	}

	utils.LogEvent(s.RequestID, "search", "offers_received",
		fmt.Sprintf("route=%s-%s offers=%d", sq.Origin, sq.Destination, len(offers)))

	views := make([]ItineraryView, 0, len(offers))
	for _, offer := range offers {
		views = append(views, s.buildView(offer, q))
	}
	return views, nil
}

func validateQuery(q SearchQuery) error {
	if len(q.Legs) >= 2 {
		for i, leg := range q.Legs {
			if utils.TrimOrEmpty(leg.Origin) == "" || utils.TrimOrEmpty(leg.Destination) == "" {
				return domain.ValidationError{Field: fmt.Sprintf("legs[%d]", i), Msg: "origin dan destination wajib diisi"}
			}
		}
		return nil
	}
	if utils.TrimOrEmpty(q.Origin) == "" {
		return domain.ValidationError{Field: "origin", Msg: "wajib diisi"}
	}
	if utils.TrimOrEmpty(q.Destination) == "" {
		return domain.ValidationError{Field: "destination", Msg: "wajib diisi"}
	}
	if utils.TrimOrEmpty(q.DepartureDate) == "" {
		return domain.ValidationError{Field: "departure_date", Msg: "wajib diisi"}
	}
	if _, err := utils.ParseDate(q.DepartureDate); err != nil {
		return domain.ValidationError{Field: "departure_date", Msg: "format harus YYYY-MM-DD"}
	}
	if utils.TrimOrEmpty(q.ReturnDate) != "" {
		if _, err := utils.ParseDate(q.ReturnDate); err != nil {
			return domain.ValidationError{Field: "return_date", Msg: "format harus YYYY-MM-DD"}
		}
	}
	switch strings.ToLower(utils.TrimOrEmpty(q.Preference)) {
	case "", "earliest", "latest":
	default:
		return domain.ValidationError{Field: "preference", Msg: "harus earliest atau latest"}
	}
	return nil
}

// supplierQuery maps the search to the supplier request. Multi-city searches
// anchor on the first leg's origin and the last leg's destination; the
// supplier answers with one flat interleaved segment list either way.
func supplierQuery(q SearchQuery) supplier.Query {
	sq := supplier.Query{
		Origin:        q.Origin,
		Destination:   q.Destination,
		DepartureDate: q.DepartureDate,
		ReturnDate:    q.ReturnDate,
		Adults:        q.Adults,
	}
	if len(q.Legs) >= 2 {
		sq.Origin = q.Legs[0].Origin
		sq.Destination = q.Legs[len(q.Legs)-1].Destination
		sq.DepartureDate = q.Legs[0].DepartureDate
		sq.ReturnDate = ""
	}
	return sq
}

func preference(q SearchQuery) itinerary.Preference {
	if strings.EqualFold(utils.TrimOrEmpty(q.Preference), "latest") {
		return itinerary.PreferLatest
	}
	return itinerary.PreferEarliest
}

// buildView reconstructs the displayed itinerary for one offer, walking the
// degradation ladder down to a synthetic single-segment chain so a bad offer
// still renders partially instead of disappearing.
func (s SearchService) buildView(offer supplier.Offer, q SearchQuery) ItineraryView {
	segs := itinerary.Normalize(map[string]any{"segments": anySlice(offer.Segments)})
	pref := preference(q)

	if len(q.Legs) >= 2 {
		return s.buildMultiCityView(offer, q, segs, pref)
	}

	outbound := itinerary.ResolveLeg(segs, q.Origin, q.Destination, itinerary.Options{Preference: pref})
	if outbound == nil && len(offer.Segments) > 0 {
		outbound = itinerary.SyntheticChain(offer.Segments[0])
	}

	var ret itinerary.Chain
	wantReturn := utils.TrimOrEmpty(q.ReturnDate) != ""
	if wantReturn {
		opts := itinerary.Options{Preference: pref, NotBefore: lastArrival(outbound)}
		ret = itinerary.FindChain(segs, q.Destination, q.Origin, opts)
		if ret == nil {
			// fence relaxed: better a suspicious return leg than none
			ret = itinerary.FindChain(segs, q.Destination, q.Origin, itinerary.Options{Preference: pref})
		}
	}

	markup := utils.ComputeMarkupPercent(q.Origin, q.Destination, s.DefaultMarkupPercent)
	it := itinerary.BuildItinerary(outbound, ret, nil, pricing(offer, markup))

	view := ItineraryView{
		Key:        it.Key,
		Kind:       string(it.Kind),
		TotalPrice: it.TotalPrice,
		Currency:   it.Currency,
		OfferID:    offer.ID,
	}
	ob := legView(it.Outbound)
	view.Outbound = &ob
	if wantReturn {
		if it.Return != nil {
			rv := legView(*it.Return)
			view.Return = &rv
		} else {
			view.Return = &LegView{Available: false, Message: legUnavailableMsg}
			utils.LogEvent(s.RequestID, "search", "return_leg_unresolved", "offer_id="+offer.ID)
		}
	}
	return view
}

func (s SearchService) buildMultiCityView(offer supplier.Offer, q SearchQuery, segs []itinerary.Segment, pref itinerary.Preference) ItineraryView {
	chains := make([]itinerary.Chain, 0, len(q.Legs))
	var fence itinerary.Options
	fence.Preference = pref
	for _, leg := range q.Legs {
		chain := itinerary.FindChain(segs, leg.Origin, leg.Destination, fence)
		if chain == nil {
			chain = itinerary.FindChain(segs, leg.Origin, leg.Destination, itinerary.Options{Preference: pref})
		}
		chains = append(chains, chain)
		if t := lastArrival(chain); !t.IsZero() {
			fence.NotBefore = t
		}
	}

	markup := utils.ComputeMarkupPercent(q.Legs[0].Origin, q.Legs[len(q.Legs)-1].Destination, s.DefaultMarkupPercent)
	it := itinerary.BuildItinerary(nil, nil, chains, pricing(offer, markup))

	view := ItineraryView{
		Key:        it.Key,
		Kind:       string(it.Kind),
		TotalPrice: it.TotalPrice,
		Currency:   it.Currency,
		OfferID:    offer.ID,
	}
	for _, leg := range it.Legs {
		view.Legs = append(view.Legs, legView(leg))
	}
	return view
}

// pricing puts the offer's grand total on the first leg; the supplier prices
// the whole offer, not the individual legs.
func pricing(offer supplier.Offer, markupPercent float64) itinerary.Pricing {
	p := itinerary.Pricing{
		Currency:      offer.Currency,
		MarkupPercent: markupPercent,
	}
	for i, minutes := range offer.LegDurationsMin {
		lp := itinerary.LegPricing{DurationMinutes: minutes}
		if i == 0 {
			lp.Amount = offer.GrandTotal
		}
		p.Legs = append(p.Legs, lp)
	}
	if len(p.Legs) == 0 {
		p.Legs = []itinerary.LegPricing{{Amount: offer.GrandTotal}}
	}
	return p
}

func legView(leg itinerary.Leg) LegView {
	if len(leg.Chain) == 0 {
		return LegView{Available: false, Message: legUnavailableMsg}
	}
	first := leg.Chain[0]
	last := leg.Chain[len(leg.Chain)-1]
	out := LegView{
		Origin:          leg.Chain.Origin(),
		Destination:     leg.Chain.Destination(),
		DepartureAt:     utils.FormatInstant(first.DepartureAt),
		ArrivalAt:       utils.FormatInstant(last.ArrivalAt),
		Duration:        utils.FormatDurationShort(leg.Duration),
		DurationMinutes: int(leg.Duration.Minutes()),
		Stops:           leg.Stops,
		Available:       true,
	}
	for _, seg := range leg.Chain {
		out.Segments = append(out.Segments, SegmentView{
			Airline:       seg.AirlineCode,
			FlightNumber:  seg.FlightNumber,
			From:          seg.DepartureAirport,
			To:            seg.ArrivalAirport,
			DepartureAt:   utils.FormatInstant(seg.DepartureAt),
			ArrivalAt:     utils.FormatInstant(seg.ArrivalAt),
			DepartureTime: seg.DepartureTimeText,
			ArrivalTime:   seg.ArrivalTimeText,
			BookingCode:   seg.BookingCode,
			Refundable:    seg.Refundable,
		})
	}
	return out
}

func lastArrival(chain itinerary.Chain) time.Time {
	if len(chain) == 0 {
		return time.Time{}
	}
	return chain[len(chain)-1].ArrivalAt
}

func anySlice(maps []map[string]any) []any {
	out := make([]any, 0, len(maps))
	for _, m := range maps {
		out = append(out, m)
	}
	return out
}
