package models

import (
	"time"

	"github.com/google/uuid"
)

// TourPackage is a bookable tour offered by the operator
type TourPackage struct {
	ID             uuid.UUID  `json:"package_id" db:"id"`
	Title          string     `json:"title" db:"title"`
	Description    NullString `json:"description" db:"description"`
	Price          float64    `json:"price" db:"price"`
	StartTime      time.Time  `json:"start_time" db:"start_time"`
	NumberOfPeople int        `json:"number_of_people" db:"number_of_people"`
	BusDetails     NullString `json:"bus_details" db:"bus_details"`
	CreatedBy      *uuid.UUID `json:"created_by,omitempty" db:"created_by"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
}

// PackageRequest is the body used to create or update a tour package
type PackageRequest struct {
	Title          string   `json:"title" binding:"required,max=200"`
	Description    string   `json:"description"`
	Price          float64  `json:"price" binding:"gte=0,lte=9999999999.99"`
	StartTime      DateTime `json:"start_time"`
	NumberOfPeople int      `json:"number_of_people" binding:"gte=0,lte=2147483647"`
	BusDetails     string   `json:"bus_details"`
}
