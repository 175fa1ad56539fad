package services

import (
	"fmt"
	"strings"

	"aerodesk/internal/domain"
	"aerodesk/internal/domain/models"
	"aerodesk/internal/repositories"
	"aerodesk/internal/utils"

	"github.com/google/uuid"
)

// BookingService turns a selected itinerary into a stored booking with
// flattened segment rows, and handles the back-office follow-ups.
type BookingService struct {
	Repo      repositories.BookingRepository
	RequestID string
}

type BookingRequest struct {
	ContactName  string        `json:"contact_name"`
	ContactPhone string        `json:"contact_phone"`
	ContactEmail string        `json:"contact_email"`
	Itinerary    ItineraryView `json:"itinerary"`
}

var paymentStatuses = map[string]bool{
	"unpaid":   true,
	"paid":     true,
	"refunded": true,
}

func (s BookingService) Create(req BookingRequest) (models.Booking, error) {
	if utils.TrimOrEmpty(req.ContactName) == "" {
		return models.Booking{}, domain.ValidationError{Field: "contact_name", Msg: "wajib diisi"}
	}
	if utils.TrimOrEmpty(req.ContactPhone) == "" {
		return models.Booking{}, domain.ValidationError{Field: "contact_phone", Msg: "wajib diisi"}
	}
	if req.Itinerary.Key == "" {
		return models.Booking{}, domain.ValidationError{Field: "itinerary", Msg: "itinerary belum dipilih"}
	}

	segs := segmentRows(req.Itinerary)
	if len(segs) == 0 {
		return models.Booking{}, domain.ValidationError{Field: "itinerary", Msg: "itinerary tidak punya segment"}
	}

	b := models.Booking{
		Reference:     newReference(),
		ContactName:   utils.NormalizeSpace(req.ContactName),
		ContactPhone:  strings.TrimSpace(req.ContactPhone),
		ContactEmail:  strings.TrimSpace(req.ContactEmail),
		TripKind:      req.Itinerary.Kind,
		ItineraryKey:  req.Itinerary.Key,
		TotalPrice:    req.Itinerary.TotalPrice,
		Currency:      req.Itinerary.Currency,
		Status:        "pending",
		PaymentStatus: "unpaid",
		Segments:      segs,
	}

	created, err := s.Repo.Create(b)
	if err != nil {
		utils.LogError(s.RequestID, "booking", "create_failed", err)
		return models.Booking{}, err
	}
	utils.LogEvent(s.RequestID, "booking", "created",
		fmt.Sprintf("reference=%s segments=%d", created.Reference, len(created.Segments)))
	return created, nil
}

func (s BookingService) Get(reference string) (models.Booking, error) {
	return s.Repo.GetByReference(reference)
}

func (s BookingService) List(limit int) ([]models.Booking, error) {
	return s.Repo.List(limit)
}

func (s BookingService) UpdatePayment(reference, status string) error {
	status = strings.ToLower(strings.TrimSpace(status))
	if !paymentStatuses[status] {
		return domain.ValidationError{Field: "payment_status", Msg: "harus unpaid, paid, atau refunded"}
	}
	if err := s.Repo.UpdatePaymentStatus(reference, status); err != nil {
		return err
	}
	utils.LogEvent(s.RequestID, "booking", "payment_updated",
		fmt.Sprintf("reference=%s status=%s", reference, status))
	return nil
}

// newReference keeps bookings addressable by a short human-pasteable code.
func newReference() string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "AD-" + raw[:8]
}

// segmentRows flattens every leg of the view into booking_segments rows with
// a role tag, so the stored order mirrors the displayed order.
func segmentRows(view ItineraryView) []models.BookingSegment {
	var out []models.BookingSegment

	appendLeg := func(role string, leg *LegView) {
		if leg == nil || !leg.Available {
			return
		}
		for _, sv := range leg.Segments {
			out = append(out, models.BookingSegment{
				LegRole:          role,
				AirlineCode:      sv.Airline,
				FlightNumber:     sv.FlightNumber,
				DepartureAirport: sv.From,
				ArrivalAirport:   sv.To,
				DepartureAt:      sv.DepartureAt,
				ArrivalAt:        sv.ArrivalAt,
				BookingCode:      sv.BookingCode,
			})
		}
	}

	if len(view.Legs) > 0 {
		for i := range view.Legs {
			appendLeg(fmt.Sprintf("leg-%d", i+1), &view.Legs[i])
		}
		return out
	}
	appendLeg("outbound", view.Outbound)
	appendLeg("return", view.Return)
	return out
}
