package billing

import (
	"context"

	"github.com/facturati/facturati-api/internal/application/dto"
	"github.com/facturati/facturati-api/internal/domain"
	"github.com/facturati/facturati-api/internal/domain/entity"
	"github.com/facturati/facturati-api/internal/domain/repository"
)

// ExportUseCase rend les documents de facturation : PDF imprimable et export
// XML UBL d'une facture, PDF d'un devis.
type ExportUseCase struct {
	invoiceRepo repository.InvoiceRepository
	quoteRepo   repository.QuoteRepository
	companyRepo repository.CompanyRepository
	clientRepo  repository.ClientRepository
	pdf         DocumentPDFGenerator
	xml         InvoiceXMLBuilder
	cfg         Config
}

// NewExportUseCase construit le cas d'usage.
func NewExportUseCase(
	invoiceRepo repository.InvoiceRepository,
	quoteRepo repository.QuoteRepository,
	companyRepo repository.CompanyRepository,
	clientRepo repository.ClientRepository,
	pdf DocumentPDFGenerator,
	xml InvoiceXMLBuilder,
	cfg Config,
) *ExportUseCase {
	return &ExportUseCase{
		invoiceRepo: invoiceRepo,
		quoteRepo:   quoteRepo,
		companyRepo: companyRepo,
		clientRepo:  clientRepo,
		pdf:         pdf,
		xml:         xml,
		cfg:         cfg,
	}
}

// InvoicePDF génère le PDF d'une facture avec le bloc d'instructions de
// paiement issu de la configuration.
func (uc *ExportUseCase) InvoicePDF(ctx context.Context, companyID, invoiceID string) ([]byte, error) {
	invoice, company, client, lines, err := uc.loadInvoice(companyID, invoiceID)
	if err != nil {
		return nil, err
	}
	payment := PaymentInfo{Currency: uc.cfg.Currency, BankName: uc.cfg.BankName, BankRIB: uc.cfg.BankRIB}
	return uc.pdf.GenerateInvoicePDF(ctx, invoice, company, client, lines, payment)
}

// InvoiceXML génère l'export UBL 2.1 d'une facture.
func (uc *ExportUseCase) InvoiceXML(ctx context.Context, companyID, invoiceID string) ([]byte, error) {
	invoice, company, client, lines, err := uc.loadInvoice(companyID, invoiceID)
	if err != nil {
		return nil, err
	}
	return uc.xml.BuildInvoiceXML(invoice, company, client, lines, uc.cfg.Currency)
}

// QuotePDF génère le PDF d'un devis.
func (uc *ExportUseCase) QuotePDF(ctx context.Context, companyID, quoteID string) ([]byte, error) {
	quote, err := uc.quoteRepo.GetByID(quoteID)
	if err != nil {
		return nil, err
	}
	if quote == nil {
		return nil, domain.ErrNotFound
	}
	if quote.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	company, err := uc.companyRepo.GetByID(companyID)
	if err != nil || company == nil {
		return nil, domain.ErrNotFound
	}
	client, _ := uc.clientRepo.GetByID(quote.ClientID)

	lines := make([]DocumentLine, 0, len(quote.Lines))
	for _, l := range quote.Lines {
		lines = append(lines, DocumentLine{
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			TaxRate:     l.TaxRate,
			TotalHT:     l.Quantity.Mul(l.UnitPrice),
		})
	}
	return uc.pdf.GenerateQuotePDF(ctx, quote, company, client, lines)
}

func (uc *ExportUseCase) loadInvoice(companyID, invoiceID string) (*entity.Invoice, *entity.Company, *entity.Client, []DocumentLine, error) {
	invoice, err := uc.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	if invoice == nil {
		return nil, nil, nil, nil, domain.ErrNotFound
	}
	if invoice.CompanyID != companyID {
		return nil, nil, nil, nil, domain.ErrForbidden
	}
	company, err := uc.companyRepo.GetByID(companyID)
	if err != nil || company == nil {
		return nil, nil, nil, nil, domain.ErrNotFound
	}
	// Client absent (supprimé après facturation) : le rendu dégrade sur des
	// champs vides plutôt que d'échouer.
	client, _ := uc.clientRepo.GetByID(invoice.ClientID)

	rawLines, err := uc.invoiceRepo.ListLines(invoiceID)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	lines := make([]DocumentLine, 0, len(rawLines))
	for _, l := range rawLines {
		lines = append(lines, DocumentLine{
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			TaxRate:     l.TaxRate,
			TotalHT:     l.TotalHT,
		})
	}
	return invoice, company, client, lines, nil
}

// toInvoiceResponseFromEntity relit une facture persistée (consultation).
func toInvoiceResponseFromEntity(inv *entity.Invoice, lines []*entity.InvoiceLine) *dto.InvoiceResponse {
	resp := &dto.InvoiceResponse{
		ID:       inv.ID,
		Number:   inv.Number,
		Status:   inv.Status,
		ClientID: inv.ClientID,
		Date:     inv.Date,
		DueDate:  inv.DueDate,
		TotalHT:  inv.TotalHT,
		TotalTVA: inv.TotalTVA,
		TotalTTC: inv.TotalTTC,
		QuoteID:  inv.QuoteID,
		OrderID:  inv.OrderID,
		Lines:    make([]dto.InvoiceLineDTO, 0, len(lines)),
	}
	for _, l := range lines {
		resp.Lines = append(resp.Lines, dto.InvoiceLineDTO{
			ProductID:   l.ProductID,
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			TaxRate:     l.TaxRate,
			TotalHT:     l.TotalHT,
		})
	}
	return resp
}
