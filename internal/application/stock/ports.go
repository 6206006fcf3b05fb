package stock

import (
	"context"

	"github.com/facturati/facturati-api/internal/domain/repository"
)

// TxRunner exécute une fonction dans une transaction de base, en lui passant
// des repositories liés à cette transaction. Garantit l'atomicité entre
// l'écriture du mouvement et la mise à jour du stock courant.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error) error
}
