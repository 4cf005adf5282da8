package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/tourplatform/tour-booking-backend/internal/models"
)

// PaymentRepository handles payments database operations
type PaymentRepository struct {
	db DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Create inserts a payment inside tx. A second payment for the same
// booking violates payments_booking_id_key and yields ErrDuplicate.
func (r *PaymentRepository) Create(ctx context.Context, tx *sqlx.Tx, payment *models.Payment) error {
	query := `
		INSERT INTO payments (id, booking_id, amount, payment_date)
		VALUES ($1, $2, $3, $4)
	`

	_, err := tx.ExecContext(ctx, query,
		payment.ID,
		payment.BookingID,
		payment.Amount,
		payment.PaymentDate,
	)
	if err != nil {
		return fmt.Errorf("failed to create payment: %w", translateError(err))
	}
	return nil
}

// ListAll returns every payment joined with the paying user's name
func (r *PaymentRepository) ListAll(ctx context.Context) ([]models.AdminPayment, error) {
	query := `
		SELECT p.id, p.booking_id, u.name AS user_name, p.amount, p.payment_date
		FROM payments p
		JOIN bookings b ON p.booking_id = b.id
		JOIN users u ON b.user_id = u.id
		ORDER BY p.payment_date DESC
	`

	payments := []models.AdminPayment{}
	if err := r.db.SelectContext(ctx, &payments, query); err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, nil
}
