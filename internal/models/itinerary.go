package models

import "github.com/google/uuid"

// ItineraryItem is one day's activity within a tour package
type ItineraryItem struct {
	ID        uuid.UUID `json:"item_id" db:"id"`
	PackageID uuid.UUID `json:"package_id" db:"package_id"`
	Day       int       `json:"day" db:"day"`
	Activity  string    `json:"activity" db:"activity"`
}

// ItineraryItemRequest is the body of POST /api/admin/itinerary/:packageId
type ItineraryItemRequest struct {
	Day      int    `json:"day" binding:"required,min=1,max=2147483647"`
	Activity string `json:"activity" binding:"required"`
}
