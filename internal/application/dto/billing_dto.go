package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentLineRequest ligne de devis ou de facture en création.
type DocumentLineRequest struct {
	ProductID   string           `json:"product_id,omitempty"`
	Description string           `json:"description,omitempty"`
	Quantity    decimal.Decimal  `json:"quantity"`
	UnitPrice   decimal.Decimal  `json:"unit_price"`
	TaxRate     *decimal.Decimal `json:"tax_rate,omitempty"` // défaut : taux du produit
}

// CreateQuoteRequest body pour POST /api/quotes.
type CreateQuoteRequest struct {
	ClientID   string                `json:"client_id"`
	ValidUntil *time.Time            `json:"valid_until,omitempty"`
	Lines      []DocumentLineRequest `json:"lines"`
}

// QuoteResponse représentation d'un devis.
type QuoteResponse struct {
	ID         string           `json:"id"`
	Number     string           `json:"number"`
	Status     string           `json:"status"`
	ClientID   string           `json:"client_id"`
	Date       time.Time        `json:"date"`
	ValidUntil *time.Time       `json:"valid_until,omitempty"`
	Lines      []InvoiceLineDTO `json:"lines"`
	TotalHT    decimal.Decimal  `json:"total_ht"`
	TotalTVA   decimal.Decimal  `json:"total_tva"`
	TotalTTC   decimal.Decimal  `json:"total_ttc"`
	InvoiceID  string           `json:"invoice_id,omitempty"`
}

// CreateInvoiceRequest body pour POST /api/invoices.
type CreateInvoiceRequest struct {
	ClientID string                `json:"client_id"`
	DueDate  *time.Time            `json:"due_date,omitempty"`
	Lines    []DocumentLineRequest `json:"lines"`
}

// InvoiceLineDTO ligne de facture ou de devis en lecture.
type InvoiceLineDTO struct {
	ProductID   string          `json:"product_id,omitempty"`
	Description string          `json:"description,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	TotalHT     decimal.Decimal `json:"total_ht"`
}

// InvoiceResponse représentation d'une facture.
type InvoiceResponse struct {
	ID       string           `json:"id"`
	Number   string           `json:"number"`
	Status   string           `json:"status"`
	ClientID string           `json:"client_id"`
	Date     time.Time        `json:"date"`
	DueDate  *time.Time       `json:"due_date,omitempty"`
	Lines    []InvoiceLineDTO `json:"lines"`
	TotalHT  decimal.Decimal  `json:"total_ht"`
	TotalTVA decimal.Decimal  `json:"total_tva"`
	TotalTTC decimal.Decimal  `json:"total_ttc"`
	QuoteID  string           `json:"quote_id,omitempty"`
	OrderID  string           `json:"order_id,omitempty"`
}
