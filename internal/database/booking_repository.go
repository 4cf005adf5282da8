package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/tourplatform/tour-booking-backend/internal/models"
)

// BookingRepository handles bookings database operations
type BookingRepository struct {
	db DB
}

// NewBookingRepository creates a new booking repository
func NewBookingRepository(db DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// Create inserts a new booking
func (r *BookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	query := `
		INSERT INTO bookings (id, user_id, package_id, booking_date, tour_date, starting_point, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		booking.ID,
		booking.UserID,
		booking.PackageID,
		booking.BookingDate,
		booking.TourDate,
		booking.StartingPoint,
		booking.Status,
	)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", translateError(err))
	}
	return nil
}

// GetForUpdate reads a booking inside tx and locks the row until the
// transaction ends, so concurrent payment and cancellation serialize.
func (r *BookingRepository) GetForUpdate(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*models.Booking, error) {
	query := `
		SELECT id, user_id, package_id, booking_date, tour_date, starting_point, status
		FROM bookings
		WHERE id = $1
		FOR UPDATE
	`

	var booking models.Booking
	if err := tx.GetContext(ctx, &booking, query, id); err != nil {
		return nil, fmt.Errorf("failed to lock booking: %w", translateError(err))
	}
	return &booking, nil
}

// UpdateStatus sets the status of a booking inside tx
func (r *BookingRepository) UpdateStatus(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, status models.BookingStatus) error {
	result, err := tx.ExecContext(ctx, `UPDATE bookings SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	return requireAffected(result)
}

// CompletePastForUser marks the user's booked bookings whose tour date is
// before now as completed and returns how many changed.
func (r *BookingRepository) CompletePastForUser(ctx context.Context, userID uuid.UUID, now time.Time) (int64, error) {
	query := `
		UPDATE bookings
		SET status = $1
		WHERE user_id = $2
		  AND status = $3
		  AND tour_date < $4
	`

	result, err := r.db.ExecContext(ctx, query,
		models.BookingStatusCompleted,
		userID,
		models.BookingStatusBooked,
		now,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to complete past bookings: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return rows, nil
}

// CompleteAllPast runs the platform-wide completion procedure
func (r *BookingRepository) CompleteAllPast(ctx context.Context) (int64, error) {
	var completed int64
	if err := r.db.GetContext(ctx, &completed, `SELECT complete_past_bookings()`); err != nil {
		return 0, fmt.Errorf("failed to run complete_past_bookings: %w", err)
	}
	return completed, nil
}

// ListByUser returns a user's bookings with package details, newest first
func (r *BookingRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.UserBooking, error) {
	query := `
		SELECT b.id, b.package_id, b.status, b.starting_point, b.booking_date, b.tour_date,
			   tp.title AS package_title, tp.price, tp.start_time
		FROM bookings b
		JOIN tour_packages tp ON b.package_id = tp.id
		WHERE b.user_id = $1
		ORDER BY b.booking_date DESC
	`

	bookings := []models.UserBooking{}
	if err := r.db.SelectContext(ctx, &bookings, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list user bookings: %w", err)
	}
	return bookings, nil
}

// ListAll returns every booking joined with user and package names
func (r *BookingRepository) ListAll(ctx context.Context) ([]models.AdminBooking, error) {
	query := `
		SELECT b.id, u.name AS user_name, tp.title AS package_title,
			   b.booking_date, b.tour_date, b.starting_point, b.status
		FROM bookings b
		JOIN users u ON b.user_id = u.id
		JOIN tour_packages tp ON b.package_id = tp.id
		ORDER BY b.booking_date DESC
	`

	bookings := []models.AdminBooking{}
	if err := r.db.SelectContext(ctx, &bookings, query); err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

// Delete removes a booking and, by cascade, its payment
func (r *BookingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete booking: %w", translateError(err))
	}
	return requireAffected(result)
}
