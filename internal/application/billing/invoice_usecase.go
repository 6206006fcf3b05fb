package billing

import (
	"context"

	"github.com/facturati/facturati-api/internal/application/dto"
	"github.com/facturati/facturati-api/internal/domain"
	"github.com/facturati/facturati-api/internal/domain/entity"
	"github.com/facturati/facturati-api/internal/domain/repository"
)

// Transitions de statut autorisées pour une facture.
var invoiceTransitions = map[string][]string{
	entity.InvoiceStatusBrouillon: {entity.InvoiceStatusEnvoyee, entity.InvoiceStatusAnnulee},
	entity.InvoiceStatusEnvoyee:   {entity.InvoiceStatusPayee, entity.InvoiceStatusAnnulee},
	entity.InvoiceStatusPayee:     {},
	entity.InvoiceStatusAnnulee:   {},
}

// InvoiceUseCase consultation des factures et changements de statut.
type InvoiceUseCase struct {
	invoiceRepo repository.InvoiceRepository
}

// NewInvoiceUseCase construit le cas d'usage.
func NewInvoiceUseCase(invoiceRepo repository.InvoiceRepository) *InvoiceUseCase {
	return &InvoiceUseCase{invoiceRepo: invoiceRepo}
}

// GetInvoice renvoie une facture avec ses lignes.
func (uc *InvoiceUseCase) GetInvoice(ctx context.Context, companyID, invoiceID string) (*dto.InvoiceResponse, error) {
	inv, err := uc.getOwned(companyID, invoiceID)
	if err != nil {
		return nil, err
	}
	lines, err := uc.invoiceRepo.ListLines(invoiceID)
	if err != nil {
		return nil, err
	}
	return toInvoiceResponseFromEntity(inv, lines), nil
}

// ListInvoices liste les factures, filtrables par statut. Les lignes ne sont
// pas chargées en liste.
func (uc *InvoiceUseCase) ListInvoices(ctx context.Context, companyID, status string) ([]*dto.InvoiceResponse, error) {
	invoices, err := uc.invoiceRepo.List(companyID, status)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		out = append(out, toInvoiceResponseFromEntity(inv, nil))
	}
	return out, nil
}

// UpdateStatus applique une transition de statut autorisée. Les statuts
// "payee" et "annulee" sont terminaux.
func (uc *InvoiceUseCase) UpdateStatus(ctx context.Context, companyID, invoiceID, status string) error {
	inv, err := uc.getOwned(companyID, invoiceID)
	if err != nil {
		return err
	}
	allowed, ok := invoiceTransitions[inv.Status]
	if !ok {
		return domain.ErrConflict
	}
	valid := false
	for _, s := range allowed {
		if s == status {
			valid = true
			break
		}
	}
	if !valid {
		return domain.ErrConflict
	}
	return uc.invoiceRepo.UpdateStatus(invoiceID, status)
}

func (uc *InvoiceUseCase) getOwned(companyID, invoiceID string) (*entity.Invoice, error) {
	inv, err := uc.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	if inv.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return inv, nil
}
