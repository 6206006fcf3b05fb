package usecase

import (
	"context"

	"github.com/facturati/facturati-api/internal/domain/repository"
)

// OrderTxRunner exécute une fonction dans une transaction couvrant la
// commande, les mouvements de stock et les produits. La livraison et
// l'annulation doivent écrire le statut, les mouvements et le stock courant
// de façon atomique.
type OrderTxRunner interface {
	RunOrder(ctx context.Context, fn func(
		orderRepo repository.OrderRepository,
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error) error
}
