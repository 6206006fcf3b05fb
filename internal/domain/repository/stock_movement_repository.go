package repository

import (
	"time"

	"github.com/facturati/facturati-api/internal/domain/entity"
)

// StockMovementRepository accès aux mouvements de stock. Journal en ajout
// seul : aucune méthode de mise à jour ni de suppression.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	ListByProduct(productID string) ([]entity.StockMovement, error)
	ListByCompany(companyID string, from, to *time.Time, limit, offset int) ([]entity.StockMovement, error)
}
