package models

// Booking captures a stored reservation for one itinerary.
type Booking struct {
	ID            int64   `json:"id"`
	Reference     string  `json:"reference"`
	ContactName   string  `json:"contact_name"`
	ContactPhone  string  `json:"contact_phone"`
	ContactEmail  string  `json:"contact_email"`
	TripKind      string  `json:"trip_kind"`
	ItineraryKey  string  `json:"itinerary_key"`
	TotalPrice    float64 `json:"total_price"`
	Currency      string  `json:"currency"`
	Status        string  `json:"status"`
	PaymentStatus string  `json:"payment_status"`
	CreatedAt     string  `json:"created_at,omitempty"`

	Segments []BookingSegment `json:"segments,omitempty"`
}

// BookingSegment is one flattened flown segment row under a booking.
// LegRole tells which displayed leg the segment belongs to
// ("outbound", "return", "leg-1", ...).
type BookingSegment struct {
	ID               int64  `json:"id"`
	BookingID        int64  `json:"booking_id"`
	LegRole          string `json:"leg_role"`
	AirlineCode      string `json:"airline_code"`
	FlightNumber     string `json:"flight_number"`
	DepartureAirport string `json:"departure_airport"`
	ArrivalAirport   string `json:"arrival_airport"`
	DepartureAt      string `json:"departure_at"`
	ArrivalAt        string `json:"arrival_at"`
	BookingCode      string `json:"booking_code"`
}
