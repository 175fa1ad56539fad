package supplier

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"aerodesk/internal/utils"
)

// Offer is one priced supplier result. Segments stay as raw loosely-typed
// records, flattened across the offer's legs into a single interleaved list;
// untangling them back into legs is internal/itinerary's job.
type Offer struct {
	ID              string
	GrandTotal      float64
	Currency        string
	LegDurationsMin []int
	Segments        []map[string]any
}

type offersResponse struct {
	Data []struct {
		ID    string `json:"id"`
		Price struct {
			GrandTotal string `json:"grandTotal"`
			Currency   string `json:"currency"`
		} `json:"price"`
		Itineraries []struct {
			Duration string           `json:"duration"`
			Segments []map[string]any `json:"segments"`
		} `json:"itineraries"`
	} `json:"data"`
}

func parseOffers(body []byte) ([]Offer, error) {
	var resp offersResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse flight offers: %w", err)
	}

	offers := make([]Offer, 0, len(resp.Data))
	for _, item := range resp.Data {
		if len(item.Itineraries) == 0 {
			continue
		}
		offer := Offer{
			ID:         item.ID,
			GrandTotal: utils.ParseAmount(item.Price.GrandTotal),
			Currency:   item.Price.Currency,
		}
		for _, it := range item.Itineraries {
			offer.LegDurationsMin = append(offer.LegDurationsMin, parseISODurationMinutes(it.Duration))
			offer.Segments = append(offer.Segments, it.Segments...)
		}
		if offer.GrandTotal <= 0 {
			continue
		}
		offers = append(offers, offer)
	}
	return offers, nil
}

// parseISODurationMinutes converts ISO 8601 durations (PT12H30M) to minutes.
func parseISODurationMinutes(iso string) int {
	iso = strings.TrimSpace(iso)
	if !strings.HasPrefix(iso, "PT") {
		return 0
	}
	iso = strings.TrimPrefix(iso, "PT")
	minutes := 0
	if idx := strings.Index(iso, "H"); idx >= 0 {
		if h, err := strconv.Atoi(iso[:idx]); err == nil {
			minutes += h * 60
		}
		iso = iso[idx+1:]
	}
	if idx := strings.Index(iso, "M"); idx >= 0 {
		if m, err := strconv.Atoi(iso[:idx]); err == nil {
			minutes += m
		}
	}
	return minutes
}

// fallbackRoute carries the plausible base numbers for a known city pair.
type fallbackRoute struct {
	basePrice   float64
	durationMin int
}

var fallbackRoutes = map[string]fallbackRoute{
	"CGK-SIN": {180, 115}, "SIN-CGK": {180, 115},
	"CGK-DPS": {95, 110}, "DPS-CGK": {95, 110},
	"CGK-KUL": {150, 125}, "KUL-CGK": {150, 125},
	"SIN-NRT": {420, 425}, "NRT-SIN": {420, 425},
	"CGK-HKG": {320, 290}, "HKG-CGK": {320, 290},
	"BOS-LHR": {520, 400}, "LHR-BOS": {520, 400},
	"JFK-LHR": {480, 420}, "LHR-JFK": {480, 420},
}

var fallbackCarriers = []struct {
	code     string
	priceMod float64
	depHour  int
}{
	{"GA", 1.00, 7},
	{"SQ", 1.25, 11},
	{"QZ", 0.70, 17},
}

// FallbackOffers produces deterministic offers without an API key so search
// keeps working in development. No randomness: re-running on the same query
// yields byte-identical results.
func FallbackOffers(q Query) []Offer {
	origin := strings.ToUpper(strings.TrimSpace(q.Origin))
	destination := strings.ToUpper(strings.TrimSpace(q.Destination))

	route, ok := fallbackRoutes[origin+"-"+destination]
	if !ok {
		route = fallbackRoute{300, 240}
	}

	depDate, err := time.Parse("2006-01-02", strings.TrimSpace(q.DepartureDate))
	if err != nil {
		depDate = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	retDate, retErr := time.Parse("2006-01-02", strings.TrimSpace(q.ReturnDate))
	roundTrip := retErr == nil

	offers := make([]Offer, 0, len(fallbackCarriers))
	for i, carrier := range fallbackCarriers {
		price := float64(int(route.basePrice*carrier.priceMod/5) * 5)
		if roundTrip {
			price = price * 1.8
		}

		dep := time.Date(depDate.Year(), depDate.Month(), depDate.Day(), carrier.depHour, 0, 0, 0, time.UTC)
		arr := dep.Add(time.Duration(route.durationMin) * time.Minute)

		offer := Offer{
			ID:              fmt.Sprintf("fallback-%d", i+1),
			GrandTotal:      price,
			Currency:        "USD",
			LegDurationsMin: []int{route.durationMin},
			Segments: []map[string]any{
				{
					"carrierCode": carrier.code,
					"number":      fmt.Sprintf("%d", 100+i),
					"departure":   map[string]any{"iataCode": origin, "at": dep.Format("2006-01-02T15:04:05")},
					"arrival":     map[string]any{"iataCode": destination, "at": arr.Format("2006-01-02T15:04:05")},
				},
			},
		}

		if roundTrip {
			rdep := time.Date(retDate.Year(), retDate.Month(), retDate.Day(), carrier.depHour+2, 0, 0, 0, time.UTC)
			rarr := rdep.Add(time.Duration(route.durationMin) * time.Minute)
			offer.LegDurationsMin = append(offer.LegDurationsMin, route.durationMin)
			offer.Segments = append(offer.Segments, map[string]any{
				"carrierCode": carrier.code,
				"number":      fmt.Sprintf("%d", 200+i),
				"departure":   map[string]any{"iataCode": destination, "at": rdep.Format("2006-01-02T15:04:05")},
				"arrival":     map[string]any{"iataCode": origin, "at": rarr.Format("2006-01-02T15:04:05")},
			})
		}

		offers = append(offers, offer)
	}
	return offers
}
