package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/tourplatform/tour-booking-backend/internal/models"
)

// ItineraryRepository handles itinerary database operations
type ItineraryRepository struct {
	db DB
}

// NewItineraryRepository creates a new itinerary repository
func NewItineraryRepository(db DB) *ItineraryRepository {
	return &ItineraryRepository{db: db}
}

// ListByPackage returns a package's itinerary ordered by day
func (r *ItineraryRepository) ListByPackage(ctx context.Context, packageID uuid.UUID) ([]models.ItineraryItem, error) {
	query := `
		SELECT id, package_id, day, activity
		FROM itinerary
		WHERE package_id = $1
		ORDER BY day, id
	`

	items := []models.ItineraryItem{}
	if err := r.db.SelectContext(ctx, &items, query, packageID); err != nil {
		return nil, fmt.Errorf("failed to list itinerary: %w", err)
	}
	return items, nil
}

// Create inserts an itinerary item. A missing package yields ErrReferenced.
func (r *ItineraryRepository) Create(ctx context.Context, item *models.ItineraryItem) error {
	query := `INSERT INTO itinerary (id, package_id, day, activity) VALUES ($1, $2, $3, $4)`

	if _, err := r.db.ExecContext(ctx, query, item.ID, item.PackageID, item.Day, item.Activity); err != nil {
		return fmt.Errorf("failed to create itinerary item: %w", translateError(err))
	}
	return nil
}

// Delete removes an itinerary item
func (r *ItineraryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM itinerary WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete itinerary item: %w", err)
	}
	return requireAffected(result)
}
