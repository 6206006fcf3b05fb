package repository

import "github.com/facturati/facturati-api/internal/domain/entity"

// CompanyRepository accès aux sociétés (tenants).
type CompanyRepository interface {
	Create(company *entity.Company) error
	GetByID(id string) (*entity.Company, error)
	List() ([]*entity.Company, error)
}
