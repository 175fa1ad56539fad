package itinerary

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// TripKind classifies the itinerary shape.
type TripKind string

const (
	KindOneWay    TripKind = "one_way"
	KindRoundTrip TripKind = "round_trip"
	KindMultiCity TripKind = "multi_city"
)

// LegPricing carries the supplier-side numbers for one leg: its price share
// and a duration-in-minutes fallback for when the instants can't produce one.
type LegPricing struct {
	Amount          float64
	DurationMinutes int
}

// Pricing aligns with the chains passed to BuildItinerary in order: outbound,
// return, then multi-city legs. MarkupPercent is the caller-supplied agency
// markup applied on top of the summed amounts.
type Pricing struct {
	Currency      string
	MarkupPercent float64
	Legs          []LegPricing
}

// Leg is one chained leg with its display-ready derived fields.
type Leg struct {
	Chain    Chain
	Duration time.Duration
	Stops    int
	Price    float64
}

// Itinerary is the full bookable unit: one or more legs plus rollups. Key is
// a list-rendering identity only; collisions cause a render glitch, never a
// correctness problem.
type Itinerary struct {
	Kind       TripKind
	Outbound   Leg
	Return     *Leg
	Legs       []Leg
	TotalPrice float64
	Currency   string
	Key        string
}

// BuildItinerary combines chained legs into an itinerary record. A legs slice
// with two or more entries wins over the outbound/return pair and classifies
// the result as multi-city.
func BuildItinerary(outbound Chain, ret Chain, legs []Chain, pricing Pricing) Itinerary {
	it := Itinerary{Currency: pricing.Currency}

	var chains []Chain
	if len(legs) >= 2 {
		it.Kind = KindMultiCity
		chains = legs
	} else {
		it.Kind = KindOneWay
		chains = []Chain{outbound}
		if len(ret) > 0 {
			it.Kind = KindRoundTrip
			chains = append(chains, ret)
		}
	}

	built := make([]Leg, 0, len(chains))
	sum := 0.0
	for i, chain := range chains {
		lp := LegPricing{}
		if i < len(pricing.Legs) {
			lp = pricing.Legs[i]
		}
		leg := Leg{
			Chain:    chain,
			Duration: chainDuration(chain, lp.DurationMinutes),
			Stops:    chain.Stops(),
			Price:    lp.Amount,
		}
		built = append(built, leg)
		sum += lp.Amount
	}

	it.TotalPrice = roundMoney(sum * (1 + pricing.MarkupPercent/100))

	switch it.Kind {
	case KindMultiCity:
		it.Legs = built
	case KindRoundTrip:
		it.Outbound = built[0]
		r := built[1]
		it.Return = &r
	default:
		it.Outbound = built[0]
	}

	it.Key = itineraryKey(chains, it.TotalPrice)
	return it
}

// chainDuration measures last arrival minus first departure when both ends
// resolved, else falls back to the supplier duration field.
func chainDuration(chain Chain, fallbackMinutes int) time.Duration {
	if len(chain) > 0 {
		dep := chain[0].DepartureAt
		arr := chain[len(chain)-1].ArrivalAt
		if !dep.IsZero() && !arr.IsZero() && arr.After(dep) {
			return arr.Sub(dep)
		}
	}
	return time.Duration(fallbackMinutes) * time.Minute
}

// itineraryKey concatenates per-segment identities and the total price.
// Two itineraries differing only in currency still collide; the original
// behavior never specified currency in the key and this keeps that contract.
func itineraryKey(chains []Chain, totalPrice float64) string {
	var parts []string
	for _, chain := range chains {
		for _, seg := range chain {
			parts = append(parts, seg.identity())
		}
	}
	parts = append(parts, fmt.Sprintf("%.2f", totalPrice))
	return strings.Join(parts, "|")
}

func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}
