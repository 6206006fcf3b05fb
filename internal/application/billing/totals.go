package billing

import (
	"github.com/shopspring/decimal"

	"github.com/facturati/facturati-api/internal/application/dto"
	"github.com/facturati/facturati-api/internal/domain"
	"github.com/facturati/facturati-api/internal/domain/entity"
	"github.com/facturati/facturati-api/internal/domain/repository"
)

// docLine ligne calculée commune aux devis et factures.
type docLine struct {
	ProductID   string
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	TaxRate     decimal.Decimal
	TotalHT     decimal.Decimal
}

// buildLines valide et calcule les lignes d'un document : quantité strictement
// positive, prix non négatif, taux de TVA pris dans l'ordre ligne -> produit
// -> défaut de configuration, description complétée par le nom du produit.
// Renvoie les lignes et les totaux HT / TVA / TTC.
func buildLines(
	in []dto.DocumentLineRequest,
	productRepo repository.ProductRepository,
	companyID string,
	defaultTaxRate decimal.Decimal,
) ([]docLine, decimal.Decimal, decimal.Decimal, decimal.Decimal, error) {
	zero := decimal.Zero
	if len(in) == 0 {
		return nil, zero, zero, zero, domain.ErrInvalidInput
	}

	lines := make([]docLine, 0, len(in))
	totalHT := decimal.Zero
	totalTVA := decimal.Zero

	for _, req := range in {
		if !req.Quantity.GreaterThan(decimal.Zero) || req.UnitPrice.LessThan(decimal.Zero) {
			return nil, zero, zero, zero, domain.ErrInvalidInput
		}

		var product *entity.Product
		if req.ProductID != "" {
			p, err := productRepo.GetByID(req.ProductID)
			if err != nil || p == nil {
				return nil, zero, zero, zero, domain.ErrNotFound
			}
			if p.CompanyID != companyID {
				return nil, zero, zero, zero, domain.ErrForbidden
			}
			product = p
		}

		taxRate := defaultTaxRate
		if req.TaxRate != nil {
			taxRate = *req.TaxRate
		} else if product != nil {
			taxRate = product.TaxRate
		}
		description := req.Description
		if description == "" && product != nil {
			description = product.Name
		}
		unitPrice := req.UnitPrice
		if unitPrice.IsZero() && product != nil {
			unitPrice = product.Price
		}

		lineHT := req.Quantity.Mul(unitPrice)
		lines = append(lines, docLine{
			ProductID:   req.ProductID,
			Description: description,
			Quantity:    req.Quantity,
			UnitPrice:   unitPrice,
			TaxRate:     taxRate,
			TotalHT:     lineHT,
		})
		totalHT = totalHT.Add(lineHT)
		totalTVA = totalTVA.Add(lineHT.Mul(taxRate))
	}

	totalHT = totalHT.Round(2)
	totalTVA = totalTVA.Round(2)
	return lines, totalHT, totalTVA, totalHT.Add(totalTVA), nil
}
