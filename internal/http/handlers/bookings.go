package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"aerodesk/internal/http/middleware"
	"aerodesk/internal/services"
	"aerodesk/internal/utils"

	"github.com/gin-gonic/gin"
)

func bookingService(c *gin.Context) services.BookingService {
	return services.BookingService{RequestID: middleware.GetRequestID(c)}
}

// POST /api/bookings
func CreateBooking(c *gin.Context) {
	var req services.BookingRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	created, err := bookingService(c).Create(req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "booking berhasil dibuat",
		"booking": created,
	})
}

// GET /api/bookings/:reference
func GetBooking(c *gin.Context) {
	b, err := bookingService(c).Get(c.Param("reference"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": b})
}

// GET /api/bookings?limit=50
func ListBookings(c *gin.Context) {
	limit, _ := strconv.Atoi(strings.TrimSpace(c.Query("limit")))
	list, err := bookingService(c).List(limit)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":    len(list),
		"bookings": list,
	})
}

type paymentStatusRequest struct {
	PaymentStatus string `json:"payment_status"`
}

// PUT /api/bookings/:reference/payment-status
func UpdateBookingPaymentStatus(c *gin.Context) {
	var req paymentStatusRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	if err := bookingService(c).UpdatePayment(c.Param("reference"), req.PaymentStatus); err != nil {
		RespondDomainError(c, err)
		return
	}

	actor := middleware.AuthContext(c)
	utils.LogEvent(middleware.GetRequestID(c), "booking", "payment_status_changed",
		fmt.Sprintf("reference=%s status=%s by_user=%d role=%s",
			c.Param("reference"), req.PaymentStatus, actor.UserID, actor.Role))

	c.JSON(http.StatusOK, gin.H{"message": "status pembayaran diperbarui"})
}

// GET /api/bookings/:reference/e-ticket
func GetBookingETicketPDF(c *gin.Context) {
	svc := services.DocsService{RequestID: middleware.GetRequestID(c)}
	pdfBytes, filename, err := svc.GenerateETicket(c.Param("reference"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}
