package stock

import (
	"context"
	"time"

	"github.com/facturati/facturati-api/internal/application/dto"
	"github.com/facturati/facturati-api/internal/domain"
	"github.com/facturati/facturati-api/internal/domain/ledger"
	"github.com/facturati/facturati-api/internal/domain/repository"
	"github.com/facturati/facturati-api/internal/infrastructure/metrics"
)

// HistoryUseCase reconstruit l'historique de stock d'un produit à la demande :
// collecte des mouvements et des commandes livrées, déduplication, rejeu des
// soldes puis projection selon les filtres de l'appelant. Lecture seule.
type HistoryUseCase struct {
	productRepo  repository.ProductRepository
	movementRepo repository.StockMovementRepository
	orderRepo    repository.OrderRepository
	now          func() time.Time
}

// NewHistoryUseCase construit le cas d'usage.
func NewHistoryUseCase(
	productRepo repository.ProductRepository,
	movementRepo repository.StockMovementRepository,
	orderRepo repository.OrderRepository,
) *HistoryUseCase {
	return &HistoryUseCase{
		productRepo:  productRepo,
		movementRepo: movementRepo,
		orderRepo:    orderRepo,
		now:          time.Now,
	}
}

// GetLedger renvoie le ledger rejoué du produit, filtré, ordre décroissant.
// TotalEntries porte la taille avant filtrage pour que l'appelant distingue
// "tout est filtré" de "aucun mouvement n'existe".
func (uc *HistoryUseCase) GetLedger(ctx context.Context, companyID, productID string, params ledger.FilterParams) (*dto.LedgerResponse, error) {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if product.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}

	movements, err := uc.movementRepo.ListByProduct(productID)
	if err != nil {
		return nil, err
	}
	orders, err := uc.orderRepo.ListDelivered(companyID)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	entries := ledger.Build(product, movements, orders, now)
	metrics.LedgerRebuilds.Inc()
	metrics.LedgerEntriesReplayed.Observe(float64(len(entries)))

	filtered := ledger.Apply(entries, params, now)

	resp := &dto.LedgerResponse{
		ProductID:    product.ID,
		ProductName:  product.Name,
		Unit:         product.Unit,
		Entries:      make([]dto.LedgerEntryDTO, 0, len(filtered)),
		TotalEntries: len(entries),
	}
	for _, e := range filtered {
		resp.Entries = append(resp.Entries, dto.LedgerEntryDTO{
			ID:            e.ID,
			Type:          e.Type,
			Quantity:      e.Quantity.StringFixed(3),
			Date:          e.Time,
			Reason:        e.Reason,
			UserName:      e.UserName,
			Reference:     e.Reference,
			OrderID:       e.OrderID,
			Synthetic:     e.Synthetic,
			PreviousStock: e.PreviousStock.StringFixed(3),
			NewStock:      e.NewStock.StringFixed(3),
		})
	}
	return resp, nil
}

// ListMovements renvoie le journal brut des mouvements de la société, sans
// rejeu de soldes : c'est la donnée telle que persistée, bornée par une
// fenêtre temporelle optionnelle et paginée.
func (uc *HistoryUseCase) ListMovements(ctx context.Context, companyID string, from, to *time.Time, limit, offset int) ([]dto.StockMovementDTO, error) {
	movements, err := uc.movementRepo.ListByCompany(companyID, from, to, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockMovementDTO, 0, len(movements))
	for _, m := range movements {
		out = append(out, dto.StockMovementDTO{
			ID:        m.ID,
			ProductID: m.ProductID,
			Type:      m.Type,
			Quantity:  m.Quantity,
			Date:      m.EffectiveTime(),
			Reason:    m.Reason,
			UserName:  m.UserName,
			Reference: m.Reference,
			OrderID:   m.OrderID,
		})
	}
	return out, nil
}

// GetLinkedOrder renvoie la commande liée à une entrée de ledger pour
// l'action "voir la commande". Une commande supprimée après coup dégrade en
// ErrNotFound, jamais en panique.
func (uc *HistoryUseCase) GetLinkedOrder(ctx context.Context, companyID, orderID string) (*dto.LinkedOrderDTO, error) {
	order, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if order.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}

	out := &dto.LinkedOrderDTO{
		ID:            order.ID,
		Number:        order.Number,
		Status:        order.Status,
		ClientName:    order.ClientName,
		ClientType:    order.ClientType,
		OrderDate:     order.OrderDate,
		DeliveryDate:  order.DeliveryDate,
		CreatedByName: order.CreatedByName,
		TotalTTC:      order.TotalTTC,
		Items:         make([]dto.OrderItemDTO, 0, len(order.Items)),
	}
	for _, it := range order.Items {
		out.Items = append(out.Items, dto.OrderItemDTO{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
		})
	}
	return out, nil
}
