package entity

import "time"

// Company représente une société utilisatrice (tenant).
type Company struct {
	ID        string
	Name      string
	ICE       string // identifiant fiscal (ICE au Maroc, SIREN en France)
	RC        string // registre du commerce
	Address   string
	City      string
	Phone     string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
