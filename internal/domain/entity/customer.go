package entity

import "time"

// Customer representa um cliente do ateliê.
type Customer struct {
	ID        string
	CompanyID string
	Name      string
	Phone     string
	Email     string
	Address   string
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
