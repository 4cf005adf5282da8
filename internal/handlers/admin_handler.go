package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/tourplatform/tour-booking-backend/internal/services"
)

// AdminHandler serves the admin dashboard, listings and job controls
type AdminHandler struct {
	reportService *services.ReportService
	cronService   *services.CronService
	logger        *logrus.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(reportService *services.ReportService, cronService *services.CronService, logger *logrus.Logger) *AdminHandler {
	return &AdminHandler{
		reportService: reportService,
		cronService:   cronService,
		logger:        logger,
	}
}

// GetStats handles GET /api/admin/stats
// @Summary Dashboard counts
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.DashboardStats
// @Router /admin/stats [get]
func (h *AdminHandler) GetStats(c *gin.Context) {
	stats, err := h.reportService.GetDashboardStats(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ListUsers handles GET /api/admin/users
// @Summary List customer accounts
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.User
// @Router /admin/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.reportService.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// DeleteUser handles DELETE /api/admin/users/:userId
// @Summary Delete a customer account
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param userId path string true "User ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /admin/users/{userId} [delete]
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id, ok := uuidParam(c, "userId")
	if !ok {
		return
	}

	if err := h.reportService.DeleteUser(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "User deleted successfully!"})
}

// ListBookings handles GET /api/admin/bookings
// @Summary List all bookings
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.AdminBooking
// @Router /admin/bookings [get]
func (h *AdminHandler) ListBookings(c *gin.Context) {
	bookings, err := h.reportService.ListBookings(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// DeleteBooking handles DELETE /api/admin/bookings/:bookingId
// @Summary Delete a booking and its payment
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param bookingId path string true "Booking ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse
// @Router /admin/bookings/{bookingId} [delete]
func (h *AdminHandler) DeleteBooking(c *gin.Context) {
	id, ok := uuidParam(c, "bookingId")
	if !ok {
		return
	}

	if err := h.reportService.DeleteBooking(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Booking deleted successfully!"})
}

// ListPayments handles GET /api/admin/payments
// @Summary List all payments
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.AdminPayment
// @Router /admin/payments [get]
func (h *AdminHandler) ListPayments(c *gin.Context) {
	payments, err := h.reportService.ListPayments(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, payments)
}

// RunCompleteBookings handles POST /api/admin/cron/complete-bookings
// @Summary Run the booking completion sweep now
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} services.JobRun
// @Failure 500 {object} ErrorResponse
// @Router /admin/cron/complete-bookings [post]
func (h *AdminHandler) RunCompleteBookings(c *gin.Context) {
	run := h.cronService.RunCompleteBookingsNow(c.Request.Context())
	if run.Error != "" {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "job_failed",
			Message: "Booking completion sweep failed. See server logs.",
			Code:    "CRON_JOB_FAILED",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Booking completion sweep finished",
		"completed": run.Affected,
		"duration":  run.Duration.String(),
	})
}

// GetCronStatus handles GET /api/admin/cron/status
// @Summary Scheduled job status
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /admin/cron/status [get]
func (h *AdminHandler) GetCronStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.cronService.GetJobStatus())
}
