package stock

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

// AdjustUseCase enregistre une rectification manuelle de stock de façon
// transactionnelle : verrou de la ligne produit (SELECT FOR UPDATE), écriture
// du mouvement "adjustment" et mise à jour du stock courant, Commit ou
// Rollback.
type AdjustUseCase struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
}

// NewAdjustUseCase construit le cas d'usage.
func NewAdjustUseCase(txRunner TxRunner, productRepo repository.ProductRepository) *AdjustUseCase {
	return &AdjustUseCase{txRunner: txRunner, productRepo: productRepo}
}

// RegisterAdjustment valide puis applique la rectification. La quantité est
// signée et prise telle quelle (le collecteur de ledger ne la renormalise
// pas). Un retrait qui rendrait le stock négatif est refusé.
func (uc *AdjustUseCase) RegisterAdjustment(ctx context.Context, companyID, userName string, in dto.RegisterAdjustmentRequest) error {
	if in.ProductID == "" || in.Quantity.IsZero() {
		return domain.ErrInvalidInput
	}

	product, err := uc.productRepo.GetByID(in.ProductID)
	if err != nil || product == nil {
		return domain.ErrNotFound
	}
	if product.CompanyID != companyID {
		return domain.ErrForbidden
	}

	now := time.Now()
	return uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error {
		locked, err := productRepo.GetByIDForUpdate(in.ProductID)
		if err != nil {
			return err
		}
		if locked == nil {
			return domain.ErrNotFound
		}
		newStock := locked.CurrentStock.Add(in.Quantity)
		if newStock.LessThan(decimal.Zero) {
			return domain.ErrInsufficientStock
		}
		if err := productRepo.UpdateCurrentStock(in.ProductID, newStock); err != nil {
			return err
		}
		mov := &entity.StockMovement{
			ID:                 uuid.New().String(),
			CompanyID:          companyID,
			ProductID:          in.ProductID,
			Type:               entity.MovementTypeAdjustment,
			Quantity:           in.Quantity,
			Date:               now,
			AdjustmentDateTime: &now,
			Reason:             in.Reason,
			UserName:           userName,
			Reference:          in.Reference,
			CreatedAt:          now,
		}
		return movRepo.Create(mov)
	})
}
