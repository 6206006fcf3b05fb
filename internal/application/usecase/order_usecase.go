package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/facturati/facturati-api/internal/application/dto"
	"github.com/facturati/facturati-api/internal/domain"
	"github.com/facturati/facturati-api/internal/domain/entity"
	"github.com/facturati/facturati-api/internal/domain/repository"
)

// OrderUseCase gestion des commandes client. La livraison et l'annulation
// sont les deux chemins d'écriture du journal de stock côté commandes :
// sorties "order_out" à la livraison, retours "order_cancel_return" à
// l'annulation d'une commande livrée.
type OrderUseCase struct {
	orderRepo  repository.OrderRepository
	clientRepo repository.ClientRepository
	txRunner   OrderTxRunner
	now        func() time.Time
}

// NewOrderUseCase construit le cas d'usage.
func NewOrderUseCase(orderRepo repository.OrderRepository, clientRepo repository.ClientRepository, txRunner OrderTxRunner) *OrderUseCase {
	return &OrderUseCase{orderRepo: orderRepo, clientRepo: clientRepo, txRunner: txRunner, now: time.Now}
}

// CreateOrder crée une commande au statut en_attente. Le client peut être un
// client enregistré (ClientID) ou un nom libre.
func (uc *OrderUseCase) CreateOrder(ctx context.Context, companyID, userName string, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	clientName := in.ClientName
	clientType := in.ClientType
	if in.ClientID != "" {
		client, err := uc.clientRepo.GetByID(in.ClientID)
		if err != nil || client == nil {
			return nil, domain.ErrNotFound
		}
		if client.CompanyID != companyID {
			return nil, domain.ErrForbidden
		}
		clientName = client.Name
		clientType = client.Type
	}
	if clientName == "" {
		return nil, domain.ErrInvalidInput
	}

	now := uc.now()
	total := decimal.Zero
	items := make([]entity.OrderItem, 0, len(in.Items))
	for _, it := range in.Items {
		if it.ProductName == "" || !it.Quantity.IsPositive() {
			return nil, domain.ErrInvalidInput
		}
		items = append(items, entity.OrderItem{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
		})
		total = total.Add(it.Quantity.Mul(it.UnitPrice))
	}

	order := &entity.Order{
		ID:            uuid.New().String(),
		CompanyID:     companyID,
		Number:        fmt.Sprintf("CMD-%d-%s", now.Year(), uuid.New().String()[:8]),
		Status:        entity.OrderStatusEnAttente,
		ClientID:      in.ClientID,
		ClientType:    clientType,
		ClientName:    clientName,
		Items:         items,
		OrderDate:     now,
		CreatedAt:     now,
		CreatedByName: userName,
		UserName:      userName,
		TotalTTC:      total.Round(2),
	}
	if err := uc.orderRepo.Create(order); err != nil {
		return nil, err
	}
	return toOrderResponse(order), nil
}

// GetOrder renvoie une commande de la société.
func (uc *OrderUseCase) GetOrder(ctx context.Context, companyID, orderID string) (*dto.OrderResponse, error) {
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
	return toOrderResponse(order), nil
}

// ListOrders liste les commandes, filtrables par statut.
func (uc *OrderUseCase) ListOrders(ctx context.Context, companyID, status string) ([]*dto.OrderResponse, error) {
	orders, err := uc.orderRepo.List(companyID, status)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o))
	}
	return out, nil
}

// Confirm passe une commande en_attente au statut confirme.
func (uc *OrderUseCase) Confirm(ctx context.Context, companyID, orderID string) error {
	order, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return domain.ErrNotFound
	}
	if order.CompanyID != companyID {
		return domain.ErrForbidden
	}
	if order.Status != entity.OrderStatusEnAttente {
		return domain.ErrConflict
	}
	now := uc.now()
	order.Status = entity.OrderStatusConfirme
	order.UpdatedAt = &now
	return uc.orderRepo.Update(order)
}

// Deliver passe la commande au statut livre et écrit, dans la même
// transaction, un mouvement order_out négatif par ligne rattachée à un
// produit ainsi que la décrémentation du stock courant. Les lignes sans
// produit (commandes historiques en nom libre) ne produisent pas de
// mouvement : le collecteur de ledger les synthétise depuis la commande.
func (uc *OrderUseCase) Deliver(ctx context.Context, companyID, orderID, userName string) error {
	return uc.txRunner.RunOrder(ctx, func(
		orderRepo repository.OrderRepository,
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error {
		order, err := orderRepo.GetByIDForUpdate(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if order.CompanyID != companyID {
			return domain.ErrForbidden
		}
		switch order.Status {
		case entity.OrderStatusLivre:
			return domain.ErrConflict
		case entity.OrderStatusAnnule:
			return domain.ErrNotDeliverable
		}

		now := uc.now()
		for _, item := range order.Items {
			if item.ProductID == "" {
				continue
			}
			product, err := productRepo.GetByIDForUpdate(item.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return domain.ErrNotFound
			}
			qty := item.Quantity.Abs()
			newStock := product.CurrentStock.Sub(qty)
			if newStock.IsNegative() {
				return domain.ErrInsufficientStock
			}
			if err := productRepo.UpdateCurrentStock(product.ID, newStock); err != nil {
				return err
			}
			// Quantité négative : sortie de stock.
			mov := &entity.StockMovement{
				ID:        uuid.New().String(),
				CompanyID: companyID,
				ProductID: product.ID,
				Type:      entity.MovementTypeOrderOut,
				Quantity:  qty.Neg(),
				Date:      now,
				UserName:  userName,
				Reference: order.Number,
				OrderID:   order.ID,
				CreatedAt: now,
			}
			if err := movRepo.Create(mov); err != nil {
				return err
			}
		}

		order.Status = entity.OrderStatusLivre
		order.DeliveryDate = &now
		order.UpdatedAt = &now
		return orderRepo.Update(order)
	})
}

// Cancel annule une commande. Si elle était livrée, des mouvements
// order_cancel_return positifs réintègrent le stock dans la même transaction.
// Une commande déjà facturée ne peut plus être annulée.
func (uc *OrderUseCase) Cancel(ctx context.Context, companyID, orderID, userName string) error {
	return uc.txRunner.RunOrder(ctx, func(
		orderRepo repository.OrderRepository,
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error {
		order, err := orderRepo.GetByIDForUpdate(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if order.CompanyID != companyID {
			return domain.ErrForbidden
		}
		if order.Status == entity.OrderStatusAnnule {
			return domain.ErrConflict
		}
		if order.InvoiceID != "" {
			return domain.ErrConflict
		}

		now := uc.now()
		if order.IsDelivered() {
			for _, item := range order.Items {
				if item.ProductID == "" {
					continue
				}
				product, err := productRepo.GetByIDForUpdate(item.ProductID)
				if err != nil {
					return err
				}
				if product == nil {
					return domain.ErrNotFound
				}
				qty := item.Quantity.Abs()
				if err := productRepo.UpdateCurrentStock(product.ID, product.CurrentStock.Add(qty)); err != nil {
					return err
				}
				// Quantité positive : retour en stock.
				mov := &entity.StockMovement{
					ID:        uuid.New().String(),
					CompanyID: companyID,
					ProductID: product.ID,
					Type:      entity.MovementTypeOrderCancelReturn,
					Quantity:  qty,
					Date:      now,
					UserName:  userName,
					Reference: order.Number,
					OrderID:   order.ID,
					CreatedAt: now,
				}
				if err := movRepo.Create(mov); err != nil {
					return err
				}
			}
		}

		order.Status = entity.OrderStatusAnnule
		order.UpdatedAt = &now
		return orderRepo.Update(order)
	})
}

func toOrderResponse(o *entity.Order) *dto.OrderResponse {
	resp := &dto.OrderResponse{
		ID:            o.ID,
		Number:        o.Number,
		Status:        o.Status,
		ClientID:      o.ClientID,
		ClientType:    o.ClientType,
		ClientName:    o.ClientName,
		Items:         make([]dto.OrderItemDTO, 0, len(o.Items)),
		OrderDate:     o.OrderDate,
		DeliveryDate:  o.DeliveryDate,
		CreatedByName: o.CreatedByName,
		TotalTTC:      o.TotalTTC,
		InvoiceID:     o.InvoiceID,
	}
	for _, it := range o.Items {
		resp.Items = append(resp.Items, dto.OrderItemDTO{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
		})
	}
	return resp
}
