package repository

import "github.com/facturati/facturati-api/internal/domain/entity"

// InvoiceRepository accès aux factures et à leurs lignes.
type InvoiceRepository interface {
	Create(invoice *entity.Invoice, lines []*entity.InvoiceLine) error
	GetByID(id string) (*entity.Invoice, error)
	List(companyID, status string) ([]*entity.Invoice, error)
	ListLines(invoiceID string) ([]*entity.InvoiceLine, error)
	UpdateStatus(id, status string) error
	// NextNumber réserve le prochain numéro séquentiel de facture de l'année
	// (format FAC-AAAA-NNNN), unique par société.
	NextNumber(companyID string, year int) (string, error)
}
