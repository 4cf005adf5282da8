package models

// DashboardStats holds the headline counts for the admin dashboard
type DashboardStats struct {
	Packages int64 `json:"packages" db:"packages"`
	Users    int64 `json:"users" db:"users"`
	Bookings int64 `json:"bookings" db:"bookings"`
	Payments int64 `json:"payments" db:"payments"`
}
