package billing

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/facturati/facturati-api/internal/domain/entity"
	"github.com/facturati/facturati-api/internal/domain/repository"
)

// BillingTxRunner exécute une fonction dans une transaction avec les
// repositories de facturation. Les conversions devis/commande -> facture
// doivent être atomiques : la facture et la garde anti double comptage
// (statut "facture", lien InvoiceID) sont écrites ensemble ou pas du tout.
type BillingTxRunner interface {
	RunBilling(ctx context.Context, fn func(
		invoiceRepo repository.InvoiceRepository,
		quoteRepo repository.QuoteRepository,
		orderRepo repository.OrderRepository,
	) error) error
}

// PaymentInfo coordonnées de paiement affichées sur les documents.
type PaymentInfo struct {
	Currency string
	BankName string
	BankRIB  string
}

// DocumentLine ligne prête pour le rendu (PDF ou XML).
type DocumentLine struct {
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	TaxRate     decimal.Decimal
	TotalHT     decimal.Decimal
}

// DocumentPDFGenerator rend la représentation imprimable d'une facture ou
// d'un devis.
type DocumentPDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, invoice *entity.Invoice, company *entity.Company, client *entity.Client, lines []DocumentLine, payment PaymentInfo) ([]byte, error)
	GenerateQuotePDF(ctx context.Context, quote *entity.Quote, company *entity.Company, client *entity.Client, lines []DocumentLine) ([]byte, error)
}

// InvoiceXMLBuilder construit l'export XML UBL 2.1 d'une facture.
type InvoiceXMLBuilder interface {
	BuildInvoiceXML(invoice *entity.Invoice, company *entity.Company, client *entity.Client, lines []DocumentLine, currency string) ([]byte, error)
}
