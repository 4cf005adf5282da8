package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/tourplatform/tour-booking-backend/internal/database"
	"github.com/tourplatform/tour-booking-backend/internal/models"
)

// errPaymentRefused covers every reason a payment is refused. The booking's
// existence is not revealed to a caller who does not own it.
var errPaymentRefused = newError(ErrForbidden,
	"Cannot pay for this booking (either unauthorized, already paid, or canceled).")

const maxStartingPointLength = 200

// BookingService drives the booking lifecycle:
// pending -> booked (payment) -> completed (tour date passed),
// with cancellation allowed from pending and booked.
type BookingService struct {
	db          database.DB
	bookingRepo *database.BookingRepository
	paymentRepo *database.PaymentRepository
	packageRepo *database.PackageRepository
	logger      *logrus.Logger
	now         func() time.Time
}

// NewBookingService creates a new booking service
func NewBookingService(
	db database.DB,
	bookingRepo *database.BookingRepository,
	paymentRepo *database.PaymentRepository,
	packageRepo *database.PackageRepository,
	logger *logrus.Logger,
) *BookingService {
	return &BookingService{
		db:          db,
		bookingRepo: bookingRepo,
		paymentRepo: paymentRepo,
		packageRepo: packageRepo,
		logger:      logger,
		now:         time.Now,
	}
}

// BookPackage records a pending booking for the user
func (s *BookingService) BookPackage(ctx context.Context, userID, packageID uuid.UUID, startingPoint string, tourDate time.Time) (uuid.UUID, error) {
	startingPoint = strings.TrimSpace(startingPoint)
	if startingPoint == "" {
		return uuid.Nil, validationError("Starting point is required.")
	}
	if utf8.RuneCountInString(startingPoint) > maxStartingPointLength {
		return uuid.Nil, validationError(fmt.Sprintf("Starting point must be at most %d characters.", maxStartingPointLength))
	}
	if tourDate.IsZero() {
		return uuid.Nil, validationError("Tour date is required.")
	}

	if _, err := s.packageRepo.GetByID(ctx, packageID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return uuid.Nil, notFoundError("Package not found.")
		}
		return uuid.Nil, err
	}

	booking := &models.Booking{
		ID:            uuid.New(),
		UserID:        userID,
		PackageID:     packageID,
		BookingDate:   s.now(),
		TourDate:      tourDate,
		StartingPoint: startingPoint,
		Status:        models.BookingStatusPending,
	}

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		// The package can disappear between the lookup and the insert.
		if errors.Is(err, database.ErrReferenced) {
			return uuid.Nil, notFoundError("Package not found.")
		}
		return uuid.Nil, rejectedValue(err, "Booking details are out of range.")
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id": booking.ID,
		"user_id":    userID,
		"package_id": packageID,
	}).Info("Booking created")

	return booking.ID, nil
}

// CreatePayment settles a pending booking owned by the user and moves it to
// booked. The payment insert and the status change commit together.
func (s *BookingService) CreatePayment(ctx context.Context, userID, bookingID uuid.UUID, amount float64) (uuid.UUID, error) {
	if err := validateAmount(amount); err != nil {
		return uuid.Nil, err
	}

	payment := &models.Payment{
		ID:          uuid.New(),
		BookingID:   bookingID,
		Amount:      amount,
		PaymentDate: s.now(),
	}

	err := database.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		booking, err := s.bookingRepo.GetForUpdate(ctx, tx, bookingID)
		if err != nil {
			if errors.Is(err, database.ErrNotFound) {
				return errPaymentRefused
			}
			return err
		}

		if booking.UserID != userID || !booking.Status.IsPayable() {
			return errPaymentRefused
		}

		if err := s.paymentRepo.Create(ctx, tx, payment); err != nil {
			if errors.Is(err, database.ErrDuplicate) {
				return errPaymentRefused
			}
			return rejectedValue(err, "Amount is out of range.")
		}

		return s.bookingRepo.UpdateStatus(ctx, tx, bookingID, models.BookingStatusBooked)
	})
	if err != nil {
		return uuid.Nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"payment_id": payment.ID,
		"booking_id": bookingID,
		"user_id":    userID,
		"amount":     amount,
	}).Info("Payment recorded")

	return payment.ID, nil
}

// CancelBooking cancels a pending or booked booking owned by the user
func (s *BookingService) CancelBooking(ctx context.Context, userID, bookingID uuid.UUID) error {
	err := database.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		booking, err := s.bookingRepo.GetForUpdate(ctx, tx, bookingID)
		if err != nil {
			if errors.Is(err, database.ErrNotFound) {
				return notFoundError("Booking not found.")
			}
			return err
		}

		if booking.UserID != userID {
			return forbiddenError("You can only cancel your own bookings.")
		}
		if !booking.Status.IsCancelable() {
			return forbiddenError("Booking can no longer be canceled.")
		}

		return s.bookingRepo.UpdateStatus(ctx, tx, bookingID, models.BookingStatusCanceled)
	})
	if err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id": bookingID,
		"user_id":    userID,
	}).Info("Booking canceled")

	return nil
}

// ListUserBookings completes the user's elapsed bookings, then lists them
func (s *BookingService) ListUserBookings(ctx context.Context, userID uuid.UUID) ([]models.UserBooking, error) {
	completed, err := s.bookingRepo.CompletePastForUser(ctx, userID, s.now())
	if err != nil {
		return nil, err
	}
	if completed > 0 {
		s.logger.WithFields(logrus.Fields{
			"user_id":   userID,
			"completed": completed,
		}).Debug("Completed past bookings on listing")
	}

	return s.bookingRepo.ListByUser(ctx, userID)
}

// RefreshCompletedBookings completes every elapsed booking platform-wide
func (s *BookingService) RefreshCompletedBookings(ctx context.Context) (int64, error) {
	return s.bookingRepo.CompleteAllPast(ctx)
}

// validateAmount accepts amounts that survive rounding to whole cents
func validateAmount(amount float64) error {
	if math.IsNaN(amount) || math.Round(amount*100) < 1 {
		return validationError("Amount must be at least 0.01.")
	}
	if amount > models.MaxMoney {
		return validationError(fmt.Sprintf("Amount must be at most %.2f.", models.MaxMoney))
	}
	return nil
}
