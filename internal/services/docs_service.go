package services

import (
	"bytes"
	"fmt"
	"strings"

	"aerodesk/internal/domain/models"
	"aerodesk/internal/repositories"
	"aerodesk/internal/utils"

	"github.com/phpdave11/gofpdf"
)

// DocsService renders the e-ticket PDF for a stored booking. Loader lets
// tests feed booking data without a database.
type DocsService struct {
	BookingRepo repositories.BookingRepository
	RequestID   string
	Loader      func(reference string) (models.Booking, error)
}

func (s DocsService) GenerateETicket(reference string) ([]byte, string, error) {
	b, err := s.load(reference)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "docs", "generate_eticket", "reference="+b.Reference)
	return buildETicketPDF(b)
}

func (s DocsService) load(reference string) (models.Booking, error) {
	if s.Loader != nil {
		return s.Loader(reference)
	}
	return s.BookingRepo.GetByReference(reference)
}

func buildETicketPDF(b models.Booking) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("E-Ticket", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "E-TICKET")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	head := []string{
		fmt.Sprintf("Kode Booking : %s", safe(b.Reference, "-")),
		fmt.Sprintf("Nama Kontak  : %s", safe(b.ContactName, "-")),
		fmt.Sprintf("No HP        : %s", safe(b.ContactPhone, "-")),
		fmt.Sprintf("Jenis Trip   : %s", safe(tripKindLabel(b.TripKind), "-")),
		fmt.Sprintf("Total        : %s", utils.FormatPrice(b.TotalPrice, b.Currency)),
		fmt.Sprintf("Status Bayar : %s", safe(b.PaymentStatus, "-")),
		fmt.Sprintf("Dicetak      : %s", utils.FormatDateTime(utils.NowUTC())),
	}
	for _, line := range head {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Penerbangan:")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 11)
	for i, seg := range b.Segments {
		line := fmt.Sprintf("%d) [%s] %s%s  %s -> %s  %s - %s",
			i+1,
			safe(seg.LegRole, "-"),
			seg.AirlineCode, seg.FlightNumber,
			safe(seg.DepartureAirport, "-"), safe(seg.ArrivalAirport, "-"),
			safe(seg.DepartureAt, "-"), safe(seg.ArrivalAt, "-"),
		)
		pdf.MultiCell(0, 6, line, "", "", false)
		pdf.Ln(1)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Catatan: Harap tiba di bandara minimal 2 jam sebelum keberangkatan. Tunjukkan e-ticket ini beserta identitas saat check-in.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("ETICKET_%s.pdf", safeFilenamePart(b.Reference))
	return buf.Bytes(), filename, nil
}

func tripKindLabel(kind string) string {
	switch kind {
	case "one_way":
		return "Sekali Jalan"
	case "round_trip":
		return "Pulang Pergi"
	case "multi_city":
		return "Multi Kota"
	}
	return kind
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}

func safeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "NA"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_")
	s = replacer.Replace(s)
	if len(s) > 40 {
		s = s[:40]
	}
	return s
}
