package repository

import "github.com/facturati/facturati-api/internal/domain/entity"

// SupplierRepository accès aux fournisseurs.
type SupplierRepository interface {
	Create(supplier *entity.Supplier) error
	GetByID(id string) (*entity.Supplier, error)
	List(companyID string) ([]*entity.Supplier, error)
	Update(supplier *entity.Supplier) error
	Delete(id string) error
}
