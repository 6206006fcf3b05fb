package repository

import "github.com/facturati/facturati-api/internal/domain/entity"

// ClientRepository accès aux clients.
type ClientRepository interface {
	Create(client *entity.Client) error
	GetByID(id string) (*entity.Client, error)
	List(companyID string) ([]*entity.Client, error)
	Update(client *entity.Client) error
	Delete(id string) error
}
