package database

import (
	"context"
	"fmt"

	"github.com/tourplatform/tour-booking-backend/internal/models"
)

// AdminRepository handles operator account database operations
type AdminRepository struct {
	db DB
}

// NewAdminRepository creates a new admin repository
func NewAdminRepository(db DB) *AdminRepository {
	return &AdminRepository{db: db}
}

// Create inserts a new admin. Used only by out-of-band provisioning.
func (r *AdminRepository) Create(ctx context.Context, admin *models.Admin) error {
	query := `
		INSERT INTO admins (id, name, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(ctx, query,
		admin.ID,
		admin.Name,
		admin.Email,
		admin.PasswordHash,
		admin.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create admin: %w", translateError(err))
	}

	return nil
}

// GetByEmail retrieves an admin by email
func (r *AdminRepository) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	query := `
		SELECT id, name, email, password_hash, created_at
		FROM admins
		WHERE email = $1
	`

	var admin models.Admin
	if err := r.db.GetContext(ctx, &admin, query, email); err != nil {
		return nil, fmt.Errorf("failed to fetch admin: %w", translateError(err))
	}

	return &admin, nil
}
