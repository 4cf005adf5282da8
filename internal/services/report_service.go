package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/tourplatform/tour-booking-backend/internal/database"
	"github.com/tourplatform/tour-booking-backend/internal/models"
)

// ReportService serves the admin dashboard and listings
type ReportService struct {
	statsRepo   *database.StatsRepository
	userRepo    *database.UserRepository
	bookingRepo *database.BookingRepository
	paymentRepo *database.PaymentRepository
	logger      *logrus.Logger
}

// NewReportService creates a new report service
func NewReportService(
	statsRepo *database.StatsRepository,
	userRepo *database.UserRepository,
	bookingRepo *database.BookingRepository,
	paymentRepo *database.PaymentRepository,
	logger *logrus.Logger,
) *ReportService {
	return &ReportService{
		statsRepo:   statsRepo,
		userRepo:    userRepo,
		bookingRepo: bookingRepo,
		paymentRepo: paymentRepo,
		logger:      logger,
	}
}

// GetDashboardStats returns platform-wide entity counts
func (s *ReportService) GetDashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	return s.statsRepo.GetDashboardStats(ctx)
}

// ListUsers returns every registered customer
func (s *ReportService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.userRepo.List(ctx)
}

// ListBookings returns every booking with user and package names
func (s *ReportService) ListBookings(ctx context.Context) ([]models.AdminBooking, error) {
	return s.bookingRepo.ListAll(ctx)
}

// ListPayments returns every payment with the paying user's name
func (s *ReportService) ListPayments(ctx context.Context) ([]models.AdminPayment, error) {
	return s.paymentRepo.ListAll(ctx)
}

// DeleteUser removes a customer account that has no bookings
func (s *ReportService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	err := s.userRepo.Delete(ctx, id)
	switch {
	case err == nil:
		s.logger.WithField("user_id", id).Info("User deleted")
		return nil
	case errors.Is(err, database.ErrNotFound):
		return notFoundError("User not found.")
	case errors.Is(err, database.ErrReferenced):
		return conflictError("User has bookings and cannot be deleted.")
	}
	return err
}

// DeleteBooking removes a booking together with its payment
func (s *ReportService) DeleteBooking(ctx context.Context, id uuid.UUID) error {
	if err := s.bookingRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return notFoundError("Booking not found.")
		}
		return err
	}

	s.logger.WithField("booking_id", id).Info("Booking deleted")
	return nil
}
