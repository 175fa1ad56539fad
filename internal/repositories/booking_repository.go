package repositories

import (
	"database/sql"
	"errors"
	"strings"

	intconfig "aerodesk/internal/config"
	intdb "aerodesk/internal/db"
	"aerodesk/internal/domain"
	"aerodesk/internal/domain/models"
)

type BookingRepository struct {
	DB *sql.DB
}

func (r BookingRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// Create stores a booking plus its flattened segment rows in one transaction.
func (r BookingRepository) Create(b models.Booking) (models.Booking, error) {
	db := r.db()
	if db == nil {
		return models.Booking{}, domain.InternalError{Msg: "database belum terhubung"}
	}

	tx, err := db.Begin()
	if err != nil {
		return models.Booking{}, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.Exec(`
		INSERT INTO bookings
			(reference, contact_name, contact_phone, contact_email,
			 trip_kind, itinerary_key, total_price, currency,
			 status, payment_status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NOW())
	`,
		b.Reference,
		strings.TrimSpace(b.ContactName),
		strings.TrimSpace(b.ContactPhone),
		strings.TrimSpace(b.ContactEmail),
		b.TripKind,
		b.ItineraryKey,
		b.TotalPrice,
		b.Currency,
		b.Status,
		b.PaymentStatus,
	)
	if err != nil {
		return models.Booking{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Booking{}, err
	}
	b.ID = id

	for i := range b.Segments {
		seg := &b.Segments[i]
		seg.BookingID = id
		segRes, err := tx.Exec(`
			INSERT INTO booking_segments
				(booking_id, leg_role, airline_code, flight_number,
				 departure_airport, arrival_airport, departure_at, arrival_at, booking_code)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			id,
			seg.LegRole,
			seg.AirlineCode,
			seg.FlightNumber,
			seg.DepartureAirport,
			seg.ArrivalAirport,
			intdb.NullIfEmpty(seg.DepartureAt),
			intdb.NullIfEmpty(seg.ArrivalAt),
			seg.BookingCode,
		)
		if err != nil {
			return models.Booking{}, err
		}
		if segID, err := segRes.LastInsertId(); err == nil {
			seg.ID = segID
		}
	}

	if err := tx.Commit(); err != nil {
		return models.Booking{}, err
	}
	return b, nil
}

// GetByReference fetches a booking with its segment rows.
func (r BookingRepository) GetByReference(reference string) (models.Booking, error) {
	db := r.db()
	if db == nil {
		return models.Booking{}, domain.InternalError{Msg: "database belum terhubung"}
	}
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return models.Booking{}, domain.ValidationError{Field: "reference", Msg: "wajib diisi"}
	}

	var b models.Booking
	err := db.QueryRow(`
		SELECT id, reference,
			COALESCE(contact_name,''), COALESCE(contact_phone,''), COALESCE(contact_email,''),
			COALESCE(trip_kind,''), COALESCE(itinerary_key,''),
			COALESCE(total_price,0), COALESCE(currency,''),
			COALESCE(status,''), COALESCE(payment_status,''),
			COALESCE(created_at,'')
		FROM bookings
		WHERE reference=?
		LIMIT 1
	`, reference).Scan(
		&b.ID,
		&b.Reference,
		&b.ContactName,
		&b.ContactPhone,
		&b.ContactEmail,
		&b.TripKind,
		&b.ItineraryKey,
		&b.TotalPrice,
		&b.Currency,
		&b.Status,
		&b.PaymentStatus,
		&b.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Booking{}, domain.NotFoundError{Resource: "booking"}
		}
		return models.Booking{}, err
	}

	segs, err := r.listSegments(b.ID)
	if err != nil {
		return b, err
	}
	b.Segments = segs
	return b, nil
}

func (r BookingRepository) listSegments(bookingID int64) ([]models.BookingSegment, error) {
	db := r.db()
	rows, err := db.Query(`
		SELECT id, booking_id,
			COALESCE(leg_role,''), COALESCE(airline_code,''), COALESCE(flight_number,''),
			COALESCE(departure_airport,''), COALESCE(arrival_airport,''),
			COALESCE(departure_at,''), COALESCE(arrival_at,''), COALESCE(booking_code,'')
		FROM booking_segments
		WHERE booking_id=?
		ORDER BY id ASC
	`, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.BookingSegment{}
	for rows.Next() {
		var s models.BookingSegment
		if err := rows.Scan(
			&s.ID,
			&s.BookingID,
			&s.LegRole,
			&s.AirlineCode,
			&s.FlightNumber,
			&s.DepartureAirport,
			&s.ArrivalAirport,
			&s.DepartureAt,
			&s.ArrivalAt,
			&s.BookingCode,
		); err != nil {
			return out, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// List returns recent bookings without segment rows, for the back office.
func (r BookingRepository) List(limit int) ([]models.Booking, error) {
	db := r.db()
	if db == nil || !intdb.HasTable(db, "bookings") {
		return []models.Booking{}, nil
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	rows, err := db.Query(`
		SELECT id, reference,
			COALESCE(contact_name,''), COALESCE(contact_phone,''), COALESCE(contact_email,''),
			COALESCE(trip_kind,''), COALESCE(itinerary_key,''),
			COALESCE(total_price,0), COALESCE(currency,''),
			COALESCE(status,''), COALESCE(payment_status,''),
			COALESCE(created_at,'')
		FROM bookings
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Booking{}
	for rows.Next() {
		var b models.Booking
		if err := rows.Scan(
			&b.ID,
			&b.Reference,
			&b.ContactName,
			&b.ContactPhone,
			&b.ContactEmail,
			&b.TripKind,
			&b.ItineraryKey,
			&b.TotalPrice,
			&b.Currency,
			&b.Status,
			&b.PaymentStatus,
			&b.CreatedAt,
		); err != nil {
			return out, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// UpdatePaymentStatus flips the payment flag after validation by the agent.
func (r BookingRepository) UpdatePaymentStatus(reference, paymentStatus string) error {
	db := r.db()
	if db == nil {
		return domain.InternalError{Msg: "database belum terhubung"}
	}
	res, err := db.Exec(`UPDATE bookings SET payment_status=? WHERE reference=?`,
		strings.TrimSpace(paymentStatus), strings.TrimSpace(reference))
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.NotFoundError{Resource: "booking"}
	}
	return nil
}
