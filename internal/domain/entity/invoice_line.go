package entity

import "github.com/shopspring/decimal"

// InvoiceLine représente une ligne de détail d'une facture.
type InvoiceLine struct {
	ID          string
	InvoiceID   string
	ProductID   string
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	TaxRate     decimal.Decimal
	TotalHT     decimal.Decimal
}
