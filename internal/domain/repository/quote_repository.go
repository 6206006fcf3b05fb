package repository

import "github.com/facturati/facturati-api/internal/domain/entity"

// QuoteRepository accès aux devis (lignes incluses).
type QuoteRepository interface {
	Create(quote *entity.Quote) error
	GetByID(id string) (*entity.Quote, error)
	// GetByIDForUpdate verrouille le devis pendant sa conversion en facture
	// pour empêcher deux conversions concurrentes.
	GetByIDForUpdate(id string) (*entity.Quote, error)
	List(companyID, status string) ([]*entity.Quote, error)
	Update(quote *entity.Quote) error
}
