package repository

import "github.com/facturati/facturati-api/internal/domain/entity"

// OrderRepository accès aux commandes (lignes incluses).
type OrderRepository interface {
	Create(order *entity.Order) error
	GetByID(id string) (*entity.Order, error)
	// GetByIDForUpdate verrouille la commande (livraison, annulation ou
	// conversion en facture concurrentes).
	GetByIDForUpdate(id string) (*entity.Order, error)
	List(companyID, status string) ([]*entity.Order, error)
	// ListDelivered renvoie les commandes livrées de la société, lignes
	// incluses (entrée du collecteur de ledger).
	ListDelivered(companyID string) ([]entity.Order, error)
	Update(order *entity.Order) error
}
