package database

import (
	"context"
	"fmt"

	"github.com/tourplatform/tour-booking-backend/internal/models"
)

// StatsRepository serves aggregate counts for the admin dashboard
type StatsRepository struct {
	db DB
}

// NewStatsRepository creates a new stats repository
func NewStatsRepository(db DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// GetDashboardStats counts packages, users, bookings and payments
func (r *StatsRepository) GetDashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM tour_packages) AS packages,
			(SELECT COUNT(*) FROM users) AS users,
			(SELECT COUNT(*) FROM bookings) AS bookings,
			(SELECT COUNT(*) FROM payments) AS payments
	`

	var stats models.DashboardStats
	if err := r.db.GetContext(ctx, &stats, query); err != nil {
		return nil, fmt.Errorf("failed to fetch dashboard stats: %w", err)
	}
	return &stats, nil
}
