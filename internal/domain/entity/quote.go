package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Statuts d'un devis.
const (
	QuoteStatusBrouillon = "brouillon"
	QuoteStatusEnvoye    = "envoye"
	QuoteStatusAccepte   = "accepte"
	QuoteStatusFacture   = "facture" // converti en facture, non reconvertible
)

// Quote représente un devis. Un devis au statut "facture" porte l'ID de la
// facture issue de sa conversion et ne peut pas être converti une seconde
// fois (le chiffre d'affaires ne doit exister que sur un seul document).
type Quote struct {
	ID         string
	CompanyID  string
	ClientID   string
	Number     string
	Status     string
	Lines      []QuoteLine
	TotalHT    decimal.Decimal
	TotalTVA   decimal.Decimal
	TotalTTC   decimal.Decimal
	Date       time.Time
	ValidUntil *time.Time
	InvoiceID  string // renseigné après conversion
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// QuoteLine ligne de devis.
type QuoteLine struct {
	ID          string
	QuoteID     string
	ProductID   string
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	TaxRate     decimal.Decimal
}
