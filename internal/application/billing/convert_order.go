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

// ConvertOrderUseCase facture une commande. Même garde anti double comptage
// que pour les devis : la commande porte l'ID de sa facture et ne peut être
// facturée qu'une fois. La conversion ne touche pas au stock, déjà décrémenté
// par la livraison.
type ConvertOrderUseCase struct {
	txRunner    BillingTxRunner
	productRepo repository.ProductRepository
	cfg         Config
}

// NewConvertOrderUseCase construit le cas d'usage.
func NewConvertOrderUseCase(txRunner BillingTxRunner, productRepo repository.ProductRepository, cfg Config) *ConvertOrderUseCase {
	return &ConvertOrderUseCase{txRunner: txRunner, productRepo: productRepo, cfg: cfg}
}

// ConvertOrder verrouille la commande, vérifie qu'elle n'est pas déjà
// facturée, crée la facture depuis ses lignes et lie les deux documents.
func (uc *ConvertOrderUseCase) ConvertOrder(ctx context.Context, companyID, orderID string) (*dto.InvoiceResponse, error) {
	var resp *dto.InvoiceResponse

	err := uc.txRunner.RunBilling(ctx, func(
		invoiceRepo repository.InvoiceRepository,
		_ repository.QuoteRepository,
		orderRepo repository.OrderRepository,
	) error {
		order, err := orderRepo.GetByIDForUpdate(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if order.CompanyID != companyID {
			return domain.ErrForbidden
		}
		if order.InvoiceID != "" {
			return domain.ErrAlreadyInvoiced
		}
		if order.Status == entity.OrderStatusAnnule {
			return domain.ErrConflict
		}

		now := time.Now()
		inv := &entity.Invoice{
			ID:        uuid.New().String(),
			CompanyID: companyID,
			ClientID:  order.ClientID,
			Status:    entity.InvoiceStatusBrouillon,
			Date:      now,
			OrderID:   order.ID,
			CreatedAt: now,
			UpdatedAt: now,
		}

		totalHT := decimal.Zero
		totalTVA := decimal.Zero
		lines := make([]docLine, 0, len(order.Items))
		invLines := make([]*entity.InvoiceLine, 0, len(order.Items))
		for _, item := range order.Items {
			taxRate := uc.cfg.DefaultTaxRate
			if item.ProductID != "" {
				if p, err := uc.productRepo.GetByID(item.ProductID); err == nil && p != nil {
					taxRate = p.TaxRate
				}
			}
			lineHT := item.Quantity.Mul(item.UnitPrice)
			line := docLine{
				ProductID:   item.ProductID,
				Description: item.ProductName,
				Quantity:    item.Quantity,
				UnitPrice:   item.UnitPrice,
				TaxRate:     taxRate,
				TotalHT:     lineHT,
			}
			lines = append(lines, line)
			invLines = append(invLines, &entity.InvoiceLine{
				ID:          uuid.New().String(),
				InvoiceID:   inv.ID,
				ProductID:   line.ProductID,
				Description: line.Description,
				Quantity:    line.Quantity,
				UnitPrice:   line.UnitPrice,
				TaxRate:     line.TaxRate,
				TotalHT:     line.TotalHT,
			})
			totalHT = totalHT.Add(lineHT)
			totalTVA = totalTVA.Add(lineHT.Mul(taxRate))
		}
		inv.TotalHT = totalHT.Round(2)
		inv.TotalTVA = totalTVA.Round(2)
		inv.TotalTTC = inv.TotalHT.Add(inv.TotalTVA)

		number, err := invoiceRepo.NextNumber(companyID, now.Year())
		if err != nil {
			return err
		}
		inv.Number = number
		if err := invoiceRepo.Create(inv, invLines); err != nil {
			return err
		}

		order.InvoiceID = inv.ID
		order.UpdatedAt = &now
		if err := orderRepo.Update(order); err != nil {
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
