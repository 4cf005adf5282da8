package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tourplatform/tour-booking-backend/internal/models"
)

const packageColumns = `id, title, description, price, start_time, number_of_people, bus_details, created_by, created_at`

// PackageRepository handles tour_packages database operations
type PackageRepository struct {
	db DB
}

// NewPackageRepository creates a new package repository
func NewPackageRepository(db DB) *PackageRepository {
	return &PackageRepository{db: db}
}

// ListAll returns every package, oldest first
func (r *PackageRepository) ListAll(ctx context.Context) ([]models.TourPackage, error) {
	query := `SELECT ` + packageColumns + ` FROM tour_packages ORDER BY created_at`

	packages := []models.TourPackage{}
	if err := r.db.SelectContext(ctx, &packages, query); err != nil {
		return nil, fmt.Errorf("failed to list packages: %w", err)
	}
	return packages, nil
}

// ListStartedBy returns packages whose start time is at or before asOf
func (r *PackageRepository) ListStartedBy(ctx context.Context, asOf time.Time) ([]models.TourPackage, error) {
	query := `SELECT ` + packageColumns + ` FROM tour_packages WHERE start_time <= $1 ORDER BY start_time`

	packages := []models.TourPackage{}
	if err := r.db.SelectContext(ctx, &packages, query, asOf); err != nil {
		return nil, fmt.Errorf("failed to list packages: %w", err)
	}
	return packages, nil
}

// ListStartingAfter returns packages whose start time is after asOf
func (r *PackageRepository) ListStartingAfter(ctx context.Context, asOf time.Time) ([]models.TourPackage, error) {
	query := `SELECT ` + packageColumns + ` FROM tour_packages WHERE start_time > $1 ORDER BY start_time`

	packages := []models.TourPackage{}
	if err := r.db.SelectContext(ctx, &packages, query, asOf); err != nil {
		return nil, fmt.Errorf("failed to list packages: %w", err)
	}
	return packages, nil
}

// GetByID retrieves a single package
func (r *PackageRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.TourPackage, error) {
	query := `SELECT ` + packageColumns + ` FROM tour_packages WHERE id = $1`

	var pkg models.TourPackage
	if err := r.db.GetContext(ctx, &pkg, query, id); err != nil {
		return nil, fmt.Errorf("failed to fetch package: %w", translateError(err))
	}
	return &pkg, nil
}

// Create inserts a new package
func (r *PackageRepository) Create(ctx context.Context, pkg *models.TourPackage) error {
	query := `
		INSERT INTO tour_packages (
			id, title, description, price, start_time,
			number_of_people, bus_details, created_by, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(ctx, query,
		pkg.ID,
		pkg.Title,
		pkg.Description,
		pkg.Price,
		pkg.StartTime,
		pkg.NumberOfPeople,
		pkg.BusDetails,
		pkg.CreatedBy,
		pkg.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create package: %w", translateError(err))
	}
	return nil
}

// Update overwrites the editable fields of a package
func (r *PackageRepository) Update(ctx context.Context, pkg *models.TourPackage) error {
	query := `
		UPDATE tour_packages
		SET title = $1,
			description = $2,
			price = $3,
			start_time = $4,
			number_of_people = $5,
			bus_details = $6
		WHERE id = $7
	`

	result, err := r.db.ExecContext(ctx, query,
		pkg.Title,
		pkg.Description,
		pkg.Price,
		pkg.StartTime,
		pkg.NumberOfPeople,
		pkg.BusDetails,
		pkg.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update package: %w", translateError(err))
	}
	return requireAffected(result)
}

// Delete hard-deletes a package. Bookings are not checked beforehand; a
// referenced package fails with ErrReferenced from the foreign key.
func (r *PackageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tour_packages WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete package: %w", translateError(err))
	}
	return requireAffected(result)
}
