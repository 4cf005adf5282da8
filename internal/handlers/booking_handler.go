package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/tourplatform/tour-booking-backend/internal/middleware"
	"github.com/tourplatform/tour-booking-backend/internal/models"
	"github.com/tourplatform/tour-booking-backend/internal/services"
)

// BookingHandler serves the customer booking and payment endpoints
type BookingHandler struct {
	bookingService *services.BookingService
	logger         *logrus.Logger
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(bookingService *services.BookingService, logger *logrus.Logger) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
		logger:         logger,
	}
}

// CreateBooking handles POST /api/user/bookings
// @Summary Book a tour package
// @Tags Bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CreateBookingRequest true "Booking"
// @Success 201 {object} models.CreateBookingResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /user/bookings [post]
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	// package_id is checked by the uuid binding tag
	user := middleware.MustGetUserContext(c)
	bookingID, err := h.bookingService.BookPackage(
		c.Request.Context(),
		user.UserID,
		uuid.MustParse(req.PackageID),
		req.StartingPoint,
		req.TourDate.Time,
	)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, models.CreateBookingResponse{
		Message:   "Booking created successfully!",
		BookingID: bookingID,
	})
}

// ListBookings handles GET /api/user/bookings
// @Summary List the caller's bookings
// @Description Bookings whose tour date has passed are completed before listing
// @Tags Bookings
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.UserBooking
// @Router /user/bookings [get]
func (h *BookingHandler) ListBookings(c *gin.Context) {
	user := middleware.MustGetUserContext(c)

	bookings, err := h.bookingService.ListUserBookings(c.Request.Context(), user.UserID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, bookings)
}

// CancelBooking handles PUT /api/user/bookings/:bookingId/cancel
// @Summary Cancel a booking
// @Tags Bookings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} MessageResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /user/bookings/{bookingId}/cancel [put]
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	bookingID, ok := uuidParam(c, "bookingId")
	if !ok {
		return
	}

	user := middleware.MustGetUserContext(c)
	if err := h.bookingService.CancelBooking(c.Request.Context(), user.UserID, bookingID); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Booking canceled successfully!"})
}

// CreatePayment handles POST /api/user/payments
// @Summary Pay for a pending booking
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CreatePaymentRequest true "Payment"
// @Success 201 {object} models.CreatePaymentResponse
// @Failure 403 {object} ErrorResponse
// @Router /user/payments [post]
func (h *BookingHandler) CreatePayment(c *gin.Context) {
	var req models.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	// booking_id is checked by the uuid binding tag
	user := middleware.MustGetUserContext(c)
	paymentID, err := h.bookingService.CreatePayment(
		c.Request.Context(),
		user.UserID,
		uuid.MustParse(req.BookingID),
		req.Amount,
	)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, models.CreatePaymentResponse{
		Message:   "Payment successful!",
		PaymentID: paymentID,
	})
}
