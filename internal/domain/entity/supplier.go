package entity

import "time"

// Supplier représente un fournisseur.
type Supplier struct {
	ID        string
	CompanyID string
	Name      string
	ICE       string
	Email     string
	Phone     string
	Address   string
	City      string
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
