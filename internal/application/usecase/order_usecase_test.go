package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facturati/facturati-api/internal/application/dto"
	"github.com/facturati/facturati-api/internal/application/usecase"
	"github.com/facturati/facturati-api/internal/domain"
	"github.com/facturati/facturati-api/internal/domain/entity"
	"github.com/facturati/facturati-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en mémoire
// ──────────────────────────────────────────────────────────────────────────────

type fakeProductRepo struct {
	products map[string]*entity.Product
}

func (r *fakeProductRepo) Create(p *entity.Product) error { r.products[p.ID] = p; return nil }
func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	return r.products[id], nil
}
func (r *fakeProductRepo) GetByIDForUpdate(id string) (*entity.Product, error) {
	return r.products[id], nil
}
func (r *fakeProductRepo) GetByReference(companyID, reference string) (*entity.Product, error) {
	return nil, nil
}
func (r *fakeProductRepo) List(companyID string) ([]*entity.Product, error) { return nil, nil }
func (r *fakeProductRepo) Update(p *entity.Product) error                   { r.products[p.ID] = p; return nil }
func (r *fakeProductRepo) UpdateCurrentStock(id string, qty decimal.Decimal) error {
	if p, ok := r.products[id]; ok {
		p.CurrentStock = qty
	}
	return nil
}

type fakeMovementRepo struct {
	movements []entity.StockMovement
}

func (r *fakeMovementRepo) Create(m *entity.StockMovement) error {
	r.movements = append(r.movements, *m)
	return nil
}
func (r *fakeMovementRepo) ListByProduct(productID string) ([]entity.StockMovement, error) {
	return r.movements, nil
}
func (r *fakeMovementRepo) ListByCompany(companyID string, from, to *time.Time, limit, offset int) ([]entity.StockMovement, error) {
	return r.movements, nil
}

type fakeOrderRepo struct {
	orders map[string]*entity.Order
}

func (r *fakeOrderRepo) Create(o *entity.Order) error { r.orders[o.ID] = o; return nil }
func (r *fakeOrderRepo) GetByID(id string) (*entity.Order, error) {
	return r.orders[id], nil
}
func (r *fakeOrderRepo) GetByIDForUpdate(id string) (*entity.Order, error) {
	return r.orders[id], nil
}
func (r *fakeOrderRepo) List(companyID, status string) ([]*entity.Order, error) { return nil, nil }
func (r *fakeOrderRepo) ListDelivered(companyID string) ([]entity.Order, error) { return nil, nil }
func (r *fakeOrderRepo) Update(o *entity.Order) error                           { r.orders[o.ID] = o; return nil }

type fakeClientRepo struct {
	clients map[string]*entity.Client
}

func (r *fakeClientRepo) Create(c *entity.Client) error { r.clients[c.ID] = c; return nil }
func (r *fakeClientRepo) GetByID(id string) (*entity.Client, error) {
	return r.clients[id], nil
}
func (r *fakeClientRepo) List(companyID string) ([]*entity.Client, error) { return nil, nil }
func (r *fakeClientRepo) Update(c *entity.Client) error                   { r.clients[c.ID] = c; return nil }
func (r *fakeClientRepo) Delete(id string) error                          { delete(r.clients, id); return nil }

// fakeOrderTxRunner exécute la fonction directement, sans transaction : les
// fakes partagent leur état avec le test.
type fakeOrderTxRunner struct {
	orders   *fakeOrderRepo
	movs     *fakeMovementRepo
	products *fakeProductRepo
}

func (r *fakeOrderTxRunner) RunOrder(ctx context.Context, fn func(
	orderRepo repository.OrderRepository,
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
) error) error {
	return fn(r.orders, r.movs, r.products)
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixtures
// ──────────────────────────────────────────────────────────────────────────────

const companyID = "soc-1"

type orderFixtures struct {
	orders   *fakeOrderRepo
	movs     *fakeMovementRepo
	products *fakeProductRepo
	clients  *fakeClientRepo
	uc       *usecase.OrderUseCase
}

func newOrderFixtures() *orderFixtures {
	f := &orderFixtures{
		orders: &fakeOrderRepo{orders: map[string]*entity.Order{}},
		movs:   &fakeMovementRepo{},
		products: &fakeProductRepo{products: map[string]*entity.Product{
			"prod-1": {
				ID:           "prod-1",
				CompanyID:    companyID,
				Name:         "Huile d'olive 1L",
				CurrentStock: decimal.NewFromInt(20),
			},
		}},
		clients: &fakeClientRepo{clients: map[string]*entity.Client{}},
	}
	runner := &fakeOrderTxRunner{orders: f.orders, movs: f.movs, products: f.products}
	f.uc = usecase.NewOrderUseCase(f.orders, f.clients, runner)
	return f
}

func (f *orderFixtures) seedOrder(status string, items ...entity.OrderItem) *entity.Order {
	order := &entity.Order{
		ID:         "order-1",
		CompanyID:  companyID,
		Number:     "CMD-2025-test",
		Status:     status,
		ClientName: "Client libre",
		Items:      items,
		OrderDate:  time.Date(2025, time.April, 1, 9, 0, 0, 0, time.UTC),
	}
	f.orders.orders[order.ID] = order
	return order
}

// ──────────────────────────────────────────────────────────────────────────────
// CreateOrder / Confirm
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateOrder_SansLigne_RetourneInvalidInput(t *testing.T) {
	f := newOrderFixtures()
	_, err := f.uc.CreateOrder(context.Background(), companyID, "Sara", dto.CreateOrderRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateOrder_NomLibre_CalculeLeTotal(t *testing.T) {
	f := newOrderFixtures()
	out, err := f.uc.CreateOrder(context.Background(), companyID, "Sara", dto.CreateOrderRequest{
		ClientName: "Restaurant Atlas",
		Items: []dto.OrderItemDTO{
			{ProductName: "Huile d'olive 1L", Quantity: decimal.NewFromInt(3), UnitPrice: decimal.NewFromFloat(45.50)},
			{ProductName: "Olives vertes", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(30)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusEnAttente, out.Status)
	assert.Contains(t, out.Number, "CMD-")
	assert.True(t, out.TotalTTC.Equal(decimal.NewFromFloat(196.50)), "total = 3x45.50 + 2x30, obtenu %s", out.TotalTTC)
	assert.Equal(t, "Sara", out.CreatedByName)
}

func TestConfirm_DejaConfirmee_RetourneConflict(t *testing.T) {
	f := newOrderFixtures()
	f.seedOrder(entity.OrderStatusConfirme)
	err := f.uc.Confirm(context.Background(), companyID, "order-1")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

// ──────────────────────────────────────────────────────────────────────────────
// Deliver
// ──────────────────────────────────────────────────────────────────────────────

// La livraison décrémente le stock et journalise une sortie négative par
// ligne rattachée à un produit.
func TestDeliver_EcritMouvementEtDecrementeStock(t *testing.T) {
	f := newOrderFixtures()
	f.seedOrder(entity.OrderStatusConfirme,
		entity.OrderItem{ProductID: "prod-1", ProductName: "Huile d'olive 1L", Quantity: decimal.NewFromInt(6)},
	)

	require.NoError(t, f.uc.Deliver(context.Background(), companyID, "order-1", "Sara"))

	order := f.orders.orders["order-1"]
	assert.Equal(t, entity.OrderStatusLivre, order.Status)
	require.NotNil(t, order.DeliveryDate)

	product := f.products.products["prod-1"]
	assert.True(t, product.CurrentStock.Equal(decimal.NewFromInt(14)), "20 - 6, obtenu %s", product.CurrentStock)

	require.Len(t, f.movs.movements, 1)
	mov := f.movs.movements[0]
	assert.Equal(t, entity.MovementTypeOrderOut, mov.Type)
	assert.True(t, mov.Quantity.Equal(decimal.NewFromInt(-6)), "sortie négative, obtenu %s", mov.Quantity)
	assert.Equal(t, "order-1", mov.OrderID)
	assert.Equal(t, "CMD-2025-test", mov.Reference)
	assert.Equal(t, "Sara", mov.UserName)
}

// Les lignes en nom libre ne produisent pas de mouvement : le collecteur de
// ledger les synthétise depuis la commande livrée.
func TestDeliver_LigneSansProduit_PasDeMouvement(t *testing.T) {
	f := newOrderFixtures()
	f.seedOrder(entity.OrderStatusConfirme,
		entity.OrderItem{ProductName: "Article hors catalogue", Quantity: decimal.NewFromInt(2)},
	)

	require.NoError(t, f.uc.Deliver(context.Background(), companyID, "order-1", "Sara"))
	assert.Empty(t, f.movs.movements)
	assert.Equal(t, entity.OrderStatusLivre, f.orders.orders["order-1"].Status)
}

func TestDeliver_StockInsuffisant_RetourneErreur(t *testing.T) {
	f := newOrderFixtures()
	f.seedOrder(entity.OrderStatusConfirme,
		entity.OrderItem{ProductID: "prod-1", ProductName: "Huile d'olive 1L", Quantity: decimal.NewFromInt(25)},
	)

	err := f.uc.Deliver(context.Background(), companyID, "order-1", "Sara")
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestDeliver_DejaLivree_RetourneConflict(t *testing.T) {
	f := newOrderFixtures()
	f.seedOrder(entity.OrderStatusLivre)
	err := f.uc.Deliver(context.Background(), companyID, "order-1", "Sara")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestDeliver_CommandeAnnulee_NonLivrable(t *testing.T) {
	f := newOrderFixtures()
	f.seedOrder(entity.OrderStatusAnnule)
	err := f.uc.Deliver(context.Background(), companyID, "order-1", "Sara")
	assert.ErrorIs(t, err, domain.ErrNotDeliverable)
}

// ──────────────────────────────────────────────────────────────────────────────
// Cancel
// ──────────────────────────────────────────────────────────────────────────────

// Annuler une commande livrée réintègre le stock via un retour positif.
func TestCancel_CommandeLivree_ReintegreLeStock(t *testing.T) {
	f := newOrderFixtures()
	f.seedOrder(entity.OrderStatusLivre,
		entity.OrderItem{ProductID: "prod-1", ProductName: "Huile d'olive 1L", Quantity: decimal.NewFromInt(6)},
	)
	f.products.products["prod-1"].CurrentStock = decimal.NewFromInt(14)

	require.NoError(t, f.uc.Cancel(context.Background(), companyID, "order-1", "Sara"))

	assert.Equal(t, entity.OrderStatusAnnule, f.orders.orders["order-1"].Status)
	assert.True(t, f.products.products["prod-1"].CurrentStock.Equal(decimal.NewFromInt(20)))

	require.Len(t, f.movs.movements, 1)
	mov := f.movs.movements[0]
	assert.Equal(t, entity.MovementTypeOrderCancelReturn, mov.Type)
	assert.True(t, mov.Quantity.Equal(decimal.NewFromInt(6)), "retour positif, obtenu %s", mov.Quantity)
}

// Annuler une commande non livrée ne touche ni au stock ni au journal.
func TestCancel_CommandeEnAttente_SansMouvement(t *testing.T) {
	f := newOrderFixtures()
	f.seedOrder(entity.OrderStatusEnAttente,
		entity.OrderItem{ProductID: "prod-1", ProductName: "Huile d'olive 1L", Quantity: decimal.NewFromInt(6)},
	)

	require.NoError(t, f.uc.Cancel(context.Background(), companyID, "order-1", "Sara"))
	assert.Empty(t, f.movs.movements)
	assert.True(t, f.products.products["prod-1"].CurrentStock.Equal(decimal.NewFromInt(20)))
}

func TestCancel_CommandeFacturee_RetourneConflict(t *testing.T) {
	f := newOrderFixtures()
	order := f.seedOrder(entity.OrderStatusLivre)
	order.InvoiceID = "fac-1"

	err := f.uc.Cancel(context.Background(), companyID, "order-1", "Sara")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestCancel_DejaAnnulee_RetourneConflict(t *testing.T) {
	f := newOrderFixtures()
	f.seedOrder(entity.OrderStatusAnnule)
	err := f.uc.Cancel(context.Background(), companyID, "order-1", "Sara")
	assert.ErrorIs(t, err, domain.ErrConflict)
}
