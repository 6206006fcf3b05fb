package entity

import "time"

// Rôles applicatifs.
const (
	RoleAdmin        = "admin"
	RoleGestionnaire = "gestionnaire" // gestion stock et fournisseurs
	RoleCommercial   = "commercial"   // devis, commandes, factures
)

// User représente un utilisateur rattaché à une société.
type User struct {
	ID           string
	CompanyID    string
	Email        string
	PasswordHash string
	Name         string
	Role         string
	Status       string // active, disabled
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
