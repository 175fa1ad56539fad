package repositories

import (
	"testing"

	"aerodesk/internal/domain"
	"aerodesk/internal/domain/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestBookingRepositoryCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO bookings").
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectExec("INSERT INTO booking_segments").
		WillReturnResult(sqlmock.NewResult(70, 1))
	mock.ExpectExec("INSERT INTO booking_segments").
		WillReturnResult(sqlmock.NewResult(71, 1))
	mock.ExpectCommit()

	repo := BookingRepository{DB: db}
	created, err := repo.Create(models.Booking{
		Reference:     "BK-TEST",
		ContactName:   "Tester",
		ContactPhone:  "0800",
		TripKind:      "round_trip",
		ItineraryKey:  "BA212-BOS-LHR|BA213-LHR-BOS|550.00",
		TotalPrice:    550,
		Currency:      "USD",
		Status:        "pending",
		PaymentStatus: "unpaid",
		Segments: []models.BookingSegment{
			{LegRole: "outbound", AirlineCode: "BA", FlightNumber: "212", DepartureAirport: "BOS", ArrivalAirport: "LHR"},
			{LegRole: "return", AirlineCode: "BA", FlightNumber: "213", DepartureAirport: "LHR", ArrivalAirport: "BOS"},
		},
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if created.ID != 7 {
		t.Fatalf("booking id = %d, want 7", created.ID)
	}
	if created.Segments[0].BookingID != 7 || created.Segments[1].BookingID != 7 {
		t.Fatalf("segment rows not linked to booking id")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBookingRepositoryCreateRollsBackOnSegmentError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO bookings").
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectExec("INSERT INTO booking_segments").
		WillReturnError(errTest)
	mock.ExpectRollback()

	repo := BookingRepository{DB: db}
	_, err = repo.Create(models.Booking{
		Reference: "BK-FAIL",
		Segments:  []models.BookingSegment{{LegRole: "outbound"}},
	})
	if err == nil {
		t.Fatalf("expected error from segment insert")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBookingRepositoryGetByReference(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT id, reference").
		WithArgs("BK-TEST").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "reference", "contact_name", "contact_phone", "contact_email",
			"trip_kind", "itinerary_key", "total_price", "currency",
			"status", "payment_status", "created_at",
		}).AddRow(7, "BK-TEST", "Tester", "0800", "t@example.com",
			"one_way", "key", 95.0, "USD", "pending", "unpaid", "2024-06-01 10:00:00"))

	mock.ExpectQuery("FROM booking_segments").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "booking_id", "leg_role", "airline_code", "flight_number",
			"departure_airport", "arrival_airport", "departure_at", "arrival_at", "booking_code",
		}).AddRow(70, 7, "outbound", "GA", "402", "CGK", "DPS",
			"2024-06-01T07:45:00", "2024-06-01T10:35:00", "Y"))

	repo := BookingRepository{DB: db}
	b, err := repo.GetByReference("BK-TEST")
	if err != nil {
		t.Fatalf("GetByReference returned error: %v", err)
	}
	if b.ID != 7 || len(b.Segments) != 1 {
		t.Fatalf("booking = %+v", b)
	}
	if b.Segments[0].DepartureAirport != "CGK" {
		t.Fatalf("segment row not mapped: %+v", b.Segments[0])
	}
}

func TestBookingRepositoryGetByReferenceNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT id, reference").
		WithArgs("MISSING").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	repo := BookingRepository{DB: db}
	_, err = repo.GetByReference("MISSING")
	if !domain.IsNotFound(err) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

var errTest = domain.InternalError{Msg: "boom"}
