package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/facturati/facturati-api/internal/application/dto"
	"github.com/facturati/facturati-api/internal/domain"
	"github.com/facturati/facturati-api/internal/domain/entity"
	"github.com/facturati/facturati-api/internal/domain/repository"
)

// Config paramètres de facturation injectés depuis la configuration.
type Config struct {
	Currency       string
	DefaultTaxRate decimal.Decimal
	BankName       string
	BankRIB        string
}

// CreateInvoiceUseCase crée une facture directe (en-tête + lignes + totaux)
// dans une seule transaction. La facturation ne touche jamais au stock :
// la décrémentation passe par la livraison des commandes.
type CreateInvoiceUseCase struct {
	txRunner    BillingTxRunner
	clientRepo  repository.ClientRepository
	productRepo repository.ProductRepository
	cfg         Config
}

// NewCreateInvoiceUseCase construit le cas d'usage.
func NewCreateInvoiceUseCase(
	txRunner BillingTxRunner,
	clientRepo repository.ClientRepository,
	productRepo repository.ProductRepository,
	cfg Config,
) *CreateInvoiceUseCase {
	return &CreateInvoiceUseCase{
		txRunner:    txRunner,
		clientRepo:  clientRepo,
		productRepo: productRepo,
		cfg:         cfg,
	}
}

// CreateInvoice valide le client et les lignes puis réserve le numéro et
// persiste la facture dans la transaction.
func (uc *CreateInvoiceUseCase) CreateInvoice(ctx context.Context, companyID string, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if in.ClientID == "" {
		return nil, domain.ErrInvalidInput
	}
	client, err := uc.clientRepo.GetByID(in.ClientID)
	if err != nil || client == nil {
		return nil, domain.ErrNotFound
	}
	if client.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}

	lines, totalHT, totalTVA, totalTTC, err := buildLines(in.Lines, uc.productRepo, companyID, uc.cfg.DefaultTaxRate)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	inv := &entity.Invoice{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		ClientID:  in.ClientID,
		Status:    entity.InvoiceStatusBrouillon,
		Date:      now,
		DueDate:   in.DueDate,
		TotalHT:   totalHT,
		TotalTVA:  totalTVA,
		TotalTTC:  totalTTC,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = uc.txRunner.RunBilling(ctx, func(
		invoiceRepo repository.InvoiceRepository,
		_ repository.QuoteRepository,
		_ repository.OrderRepository,
	) error {
		number, err := invoiceRepo.NextNumber(companyID, now.Year())
		if err != nil {
			return err
		}
		inv.Number = number
		return invoiceRepo.Create(inv, toInvoiceLines(inv.ID, lines))
	})
	if err != nil {
		return nil, err
	}

	return toInvoiceResponse(inv, lines), nil
}

func toInvoiceLines(invoiceID string, lines []docLine) []*entity.InvoiceLine {
	out := make([]*entity.InvoiceLine, 0, len(lines))
	for _, l := range lines {
		out = append(out, &entity.InvoiceLine{
			ID:          uuid.New().String(),
			InvoiceID:   invoiceID,
			ProductID:   l.ProductID,
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			TaxRate:     l.TaxRate,
			TotalHT:     l.TotalHT,
		})
	}
	return out
}

func toInvoiceResponse(inv *entity.Invoice, lines []docLine) *dto.InvoiceResponse {
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
