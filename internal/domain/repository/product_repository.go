package repository

import (
	"github.com/shopspring/decimal"

	"github.com/facturati/facturati-api/internal/domain/entity"
)

// ProductRepository accès aux produits.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	// GetByIDForUpdate verrouille la ligne produit (SELECT FOR UPDATE) pour
	// les mises à jour de stock transactionnelles.
	GetByIDForUpdate(id string) (*entity.Product, error)
	GetByReference(companyID, reference string) (*entity.Product, error)
	List(companyID string) ([]*entity.Product, error)
	Update(product *entity.Product) error
	UpdateCurrentStock(id string, quantity decimal.Decimal) error
}
