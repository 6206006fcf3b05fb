package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Statuts d'une facture.
const (
	InvoiceStatusBrouillon = "brouillon"
	InvoiceStatusEnvoyee   = "envoyee"
	InvoiceStatusPayee     = "payee"
	InvoiceStatusAnnulee   = "annulee"
)

// Invoice représente l'en-tête d'une facture. QuoteID et OrderID tracent le
// document d'origine quand la facture provient d'une conversion.
type Invoice struct {
	ID        string
	CompanyID string
	ClientID  string
	Number    string
	Status    string
	Date      time.Time
	DueDate   *time.Time
	TotalHT   decimal.Decimal
	TotalTVA  decimal.Decimal
	TotalTTC  decimal.Decimal
	QuoteID   string // devis d'origine (conversion devis -> facture)
	OrderID   string // commande d'origine (conversion commande -> facture)
	PaidAt    *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}
