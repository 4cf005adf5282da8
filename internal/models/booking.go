package models

import (
	"time"

	"github.com/google/uuid"
)

// BookingStatus represents the lifecycle state of a booking
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusBooked    BookingStatus = "booked"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCanceled  BookingStatus = "canceled"
)

// bookingTransitions lists every permitted status edge
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending: {BookingStatusBooked, BookingStatusCanceled},
	BookingStatusBooked:  {BookingStatusCompleted, BookingStatusCanceled},
}

// CanTransitionTo reports whether a booking may move from s to next
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are possible
func (s BookingStatus) IsTerminal() bool {
	return len(bookingTransitions[s]) == 0
}

// IsPayable reports whether a payment may be recorded in this state
func (s BookingStatus) IsPayable() bool {
	return s.CanTransitionTo(BookingStatusBooked)
}

// IsCancelable reports whether the owner may cancel in this state
func (s BookingStatus) IsCancelable() bool {
	return s.CanTransitionTo(BookingStatusCanceled)
}

// Booking is a user's reservation against a tour package
type Booking struct {
	ID            uuid.UUID     `json:"booking_id" db:"id"`
	UserID        uuid.UUID     `json:"user_id" db:"user_id"`
	PackageID     uuid.UUID     `json:"package_id" db:"package_id"`
	BookingDate   time.Time     `json:"booking_date" db:"booking_date"`
	TourDate      time.Time     `json:"tour_date" db:"tour_date"`
	StartingPoint string        `json:"starting_point" db:"starting_point"`
	Status        BookingStatus `json:"status" db:"status"`
}

// UserBooking is a booking enriched with its package for the owner's listing
type UserBooking struct {
	ID            uuid.UUID     `json:"booking_id" db:"id"`
	PackageID     uuid.UUID     `json:"package_id" db:"package_id"`
	Status        BookingStatus `json:"status" db:"status"`
	StartingPoint string        `json:"starting_point" db:"starting_point"`
	BookingDate   time.Time     `json:"booking_date" db:"booking_date"`
	TourDate      time.Time     `json:"tour_date" db:"tour_date"`
	PackageTitle  string        `json:"package_title" db:"package_title"`
	Price         float64       `json:"price" db:"price"`
	StartTime     time.Time     `json:"start_time" db:"start_time"`
}

// AdminBooking is a booking joined with its user and package for operators
type AdminBooking struct {
	ID            uuid.UUID     `json:"booking_id" db:"id"`
	UserName      string        `json:"user_name" db:"user_name"`
	PackageTitle  string        `json:"package_title" db:"package_title"`
	BookingDate   time.Time     `json:"booking_date" db:"booking_date"`
	TourDate      time.Time     `json:"tour_date" db:"tour_date"`
	StartingPoint string        `json:"starting_point" db:"starting_point"`
	Status        BookingStatus `json:"status" db:"status"`
}

// CreateBookingRequest is the body of POST /api/user/bookings
type CreateBookingRequest struct {
	PackageID     string   `json:"package_id" binding:"required,uuid"`
	StartingPoint string   `json:"starting_point" binding:"required,max=200"`
	TourDate      DateTime `json:"tour_date"`
}

// CreateBookingResponse is returned when a booking is created
type CreateBookingResponse struct {
	Message   string    `json:"message"`
	BookingID uuid.UUID `json:"bookingId"`
}
