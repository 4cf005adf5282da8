package models

import (
	"time"

	"github.com/google/uuid"
)

// Payment records the single settlement of a pending booking
type Payment struct {
	ID          uuid.UUID `json:"payment_id" db:"id"`
	BookingID   uuid.UUID `json:"booking_id" db:"booking_id"`
	Amount      float64   `json:"amount" db:"amount"`
	PaymentDate time.Time `json:"payment_date" db:"payment_date"`
}

// AdminPayment is a payment joined with the paying user's name
type AdminPayment struct {
	ID          uuid.UUID `json:"payment_id" db:"id"`
	BookingID   uuid.UUID `json:"booking_id" db:"booking_id"`
	UserName    string    `json:"user_name" db:"user_name"`
	Amount      float64   `json:"amount" db:"amount"`
	PaymentDate time.Time `json:"payment_date" db:"payment_date"`
}

// MaxMoney is the largest value a NUMERIC(12,2) column holds
const MaxMoney = 9999999999.99

// CreatePaymentRequest is the body of POST /api/user/payments
type CreatePaymentRequest struct {
	BookingID string  `json:"booking_id" binding:"required,uuid"`
	Amount    float64 `json:"amount" binding:"required,gt=0,lte=9999999999.99"`
}

// CreatePaymentResponse is returned when a payment is recorded
type CreatePaymentResponse struct {
	Message   string    `json:"message"`
	PaymentID uuid.UUID `json:"paymentId"`
}
