package entity

import "time"

// Client représente un client de la société (particulier ou entreprise).
type Client struct {
	ID        string
	CompanyID string
	Type      string // particulier | entreprise
	Name      string
	ICE       string // Identifiant Commun de l'Entreprise (Maroc) ou SIREN
	Email     string
	Phone     string
	Address   string
	City      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
