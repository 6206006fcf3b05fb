package billing

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/facturati/facturati-api/internal/application/dto"
	"github.com/facturati/facturati-api/internal/domain"
	"github.com/facturati/facturati-api/internal/domain/entity"
	"github.com/facturati/facturati-api/internal/domain/repository"
)

// ConvertQuoteUseCase convertit un devis accepté en facture. Le chiffre
// d'affaires ne doit exister que sur un seul document : le devis passe au
// statut "facture" dans la même transaction que la création de la facture,
// et un devis déjà facturé ne peut pas être reconverti.
type ConvertQuoteUseCase struct {
	txRunner BillingTxRunner
}

// NewConvertQuoteUseCase construit le cas d'usage.
func NewConvertQuoteUseCase(txRunner BillingTxRunner) *ConvertQuoteUseCase {
	return &ConvertQuoteUseCase{txRunner: txRunner}
}

// ConvertQuote verrouille le devis, vérifie la garde anti double comptage,
// crée la facture depuis les lignes du devis et lie les deux documents.
func (uc *ConvertQuoteUseCase) ConvertQuote(ctx context.Context, companyID, quoteID string) (*dto.InvoiceResponse, error) {
	var resp *dto.InvoiceResponse

	err := uc.txRunner.RunBilling(ctx, func(
		invoiceRepo repository.InvoiceRepository,
		quoteRepo repository.QuoteRepository,
		_ repository.OrderRepository,
	) error {
		quote, err := quoteRepo.GetByIDForUpdate(quoteID)
		if err != nil {
			return err
		}
		if quote == nil {
			return domain.ErrNotFound
		}
		if quote.CompanyID != companyID {
			return domain.ErrForbidden
		}
		if quote.Status == entity.QuoteStatusFacture || quote.InvoiceID != "" {
			return domain.ErrAlreadyInvoiced
		}

		now := time.Now()
		inv := &entity.Invoice{
			ID:        uuid.New().String(),
			CompanyID: companyID,
			ClientID:  quote.ClientID,
			Status:    entity.InvoiceStatusBrouillon,
			Date:      now,
			TotalHT:   quote.TotalHT,
			TotalTVA:  quote.TotalTVA,
			TotalTTC:  quote.TotalTTC,
			QuoteID:   quote.ID,
			CreatedAt: now,
			UpdatedAt: now,
		}
		number, err := invoiceRepo.NextNumber(companyID, now.Year())
		if err != nil {
			return err
		}
		inv.Number = number

		lines := make([]docLine, 0, len(quote.Lines))
		invLines := make([]*entity.InvoiceLine, 0, len(quote.Lines))
		for _, ql := range quote.Lines {
			lineHT := ql.Quantity.Mul(ql.UnitPrice)
			lines = append(lines, docLine{
				ProductID:   ql.ProductID,
				Description: ql.Description,
				Quantity:    ql.Quantity,
				UnitPrice:   ql.UnitPrice,
				TaxRate:     ql.TaxRate,
				TotalHT:     lineHT,
			})
			invLines = append(invLines, &entity.InvoiceLine{
				ID:          uuid.New().String(),
				InvoiceID:   inv.ID,
				ProductID:   ql.ProductID,
				Description: ql.Description,
				Quantity:    ql.Quantity,
				UnitPrice:   ql.UnitPrice,
				TaxRate:     ql.TaxRate,
				TotalHT:     lineHT,
			})
		}
		if err := invoiceRepo.Create(inv, invLines); err != nil {
			return err
		}

		quote.Status = entity.QuoteStatusFacture
		quote.InvoiceID = inv.ID
		quote.UpdatedAt = now
		if err := quoteRepo.Update(quote); err != nil {
			return err
		}

		resp = toInvoiceResponse(inv, lines)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}
