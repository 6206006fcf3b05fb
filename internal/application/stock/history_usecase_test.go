package stock_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facturati/facturati-api/internal/application/stock"
	"github.com/facturati/facturati-api/internal/domain"
	"github.com/facturati/facturati-api/internal/domain/entity"
	"github.com/facturati/facturati-api/internal/domain/ledger"
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
	for _, p := range r.products {
		if p.CompanyID == companyID && p.Reference == reference {
			return p, nil
		}
	}
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
	var out []entity.StockMovement
	for _, m := range r.movements {
		if m.ProductID == productID {
			out = append(out, m)
		}
	}
	return out, nil
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
func (r *fakeOrderRepo) ListDelivered(companyID string) ([]entity.Order, error) {
	var out []entity.Order
	for _, o := range r.orders {
		if o.CompanyID == companyID && o.IsDelivered() {
			out = append(out, *o)
		}
	}
	return out, nil
}
func (r *fakeOrderRepo) Update(o *entity.Order) error { r.orders[o.ID] = o; return nil }

// ──────────────────────────────────────────────────────────────────────────────
// Fixtures
// ──────────────────────────────────────────────────────────────────────────────

const (
	testCompanyID = "soc-1"
	testProductID = "prod-1"
)

func date(day int, hour int) time.Time {
	return time.Date(2025, time.March, day, hour, 0, 0, 0, time.UTC)
}

func newFixtures() (*fakeProductRepo, *fakeMovementRepo, *fakeOrderRepo) {
	products := &fakeProductRepo{products: map[string]*entity.Product{
		testProductID: {
			ID:           testProductID,
			CompanyID:    testCompanyID,
			Reference:    "CAF-001",
			Name:         "Café moulu",
			Unit:         "kg",
			InitialStock: decimal.NewFromInt(50),
			CurrentStock: decimal.NewFromInt(50),
			CreatedAt:    date(1, 9),
		},
	}}
	movements := &fakeMovementRepo{}
	orders := &fakeOrderRepo{orders: map[string]*entity.Order{}}
	return products, movements, orders
}

// ──────────────────────────────────────────────────────────────────────────────
// GetLedger
// ──────────────────────────────────────────────────────────────────────────────

func TestGetLedger_ProduitInconnu_RetourneNotFound(t *testing.T) {
	products, movements, orders := newFixtures()
	uc := stock.NewHistoryUseCase(products, movements, orders)

	_, err := uc.GetLedger(context.Background(), testCompanyID, "inexistant", ledger.FilterParams{
		Period: ledger.PeriodAll, Type: ledger.TypeFilterAll,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetLedger_AutreSociete_RetourneForbidden(t *testing.T) {
	products, movements, orders := newFixtures()
	uc := stock.NewHistoryUseCase(products, movements, orders)

	_, err := uc.GetLedger(context.Background(), "autre-societe", testProductID, ledger.FilterParams{
		Period: ledger.PeriodAll, Type: ledger.TypeFilterAll,
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// Stock initial 50, rectification -5 puis livraison de 10 : trois entrées,
// soldes rejoués, ordre décroissant à l'affichage.
func TestGetLedger_RejeuComplet_OrdreDecroissant(t *testing.T) {
	products, movements, orders := newFixtures()
	movements.movements = []entity.StockMovement{
		{
			ID:        "mov-adj",
			CompanyID: testCompanyID,
			ProductID: testProductID,
			Type:      entity.MovementTypeAdjustment,
			Quantity:  decimal.NewFromInt(-5),
			Date:      date(2, 10),
			Reason:    "Casse entrepôt",
			UserName:  "Rachid",
		},
		{
			ID:        "mov-out",
			CompanyID: testCompanyID,
			ProductID: testProductID,
			Type:      entity.MovementTypeOrderOut,
			Quantity:  decimal.NewFromInt(-10),
			Date:      date(3, 14),
			Reference: "CMD-2025-abc",
			OrderID:   "order-1",
		},
	}
	uc := stock.NewHistoryUseCase(products, movements, orders)

	out, err := uc.GetLedger(context.Background(), testCompanyID, testProductID, ledger.FilterParams{
		Period: ledger.PeriodAll, Type: ledger.TypeFilterAll,
	})
	require.NoError(t, err)

	assert.Equal(t, "Café moulu", out.ProductName)
	assert.Equal(t, "kg", out.Unit)
	assert.Equal(t, 3, out.TotalEntries)
	require.Len(t, out.Entries, 3)

	// Ordre décroissant : livraison, rectification, stock initial.
	assert.Equal(t, "mov-out", out.Entries[0].ID)
	assert.Equal(t, "mov-adj", out.Entries[1].ID)
	assert.Equal(t, entity.MovementTypeInitial, out.Entries[2].Type)
	assert.True(t, out.Entries[2].Synthetic, "le stock initial est synthétique")

	// Soldes rejoués en ordre chronologique : 0→50, 50→45, 45→35.
	assert.Equal(t, "0.000", out.Entries[2].PreviousStock)
	assert.Equal(t, "50.000", out.Entries[2].NewStock)
	assert.Equal(t, "45.000", out.Entries[1].NewStock)
	assert.Equal(t, "45.000", out.Entries[0].PreviousStock)
	assert.Equal(t, "35.000", out.Entries[0].NewStock)
	assert.Equal(t, "-10.000", out.Entries[0].Quantity)
}

// Une commande livrée sans mouvement explicite produit une sortie synthétique,
// rapprochée sur le nom de produit sans tenir compte des accents.
func TestGetLedger_CommandeLivreeSansMouvement_SortieSynthetique(t *testing.T) {
	products, movements, orders := newFixtures()
	delivered := date(5, 16)
	orders.orders["order-legacy"] = &entity.Order{
		ID:           "order-legacy",
		CompanyID:    testCompanyID,
		Number:       "CMD-2025-old",
		Status:       entity.OrderStatusLivre,
		DeliveryDate: &delivered,
		OrderDate:    date(4, 9),
		Items: []entity.OrderItem{
			{ProductName: "Cafe Moulu", Quantity: decimal.NewFromInt(8)},
		},
	}
	uc := stock.NewHistoryUseCase(products, movements, orders)

	out, err := uc.GetLedger(context.Background(), testCompanyID, testProductID, ledger.FilterParams{
		Period: ledger.PeriodAll, Type: ledger.TypeFilterAll,
	})
	require.NoError(t, err)
	require.Equal(t, 2, out.TotalEntries)

	top := out.Entries[0]
	assert.Equal(t, entity.MovementTypeOrderOut, top.Type)
	assert.True(t, top.Synthetic)
	assert.Equal(t, "order-legacy", top.OrderID)
	assert.Equal(t, "-8.000", top.Quantity)
	assert.Equal(t, delivered, top.Date, "la date de livraison prime")
}

// TotalEntries porte la taille avant filtrage : un résultat vide avec
// TotalEntries > 0 signifie "tout est filtré".
func TestGetLedger_FiltreType_ConserveTotalEntries(t *testing.T) {
	products, movements, orders := newFixtures()
	movements.movements = []entity.StockMovement{
		{
			ID:        "mov-adj",
			CompanyID: testCompanyID,
			ProductID: testProductID,
			Type:      entity.MovementTypeAdjustment,
			Quantity:  decimal.NewFromInt(3),
			Date:      date(2, 10),
		},
	}
	uc := stock.NewHistoryUseCase(products, movements, orders)

	out, err := uc.GetLedger(context.Background(), testCompanyID, testProductID, ledger.FilterParams{
		Period: ledger.PeriodAll, Type: ledger.TypeFilterAdjustments,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, out.TotalEntries, "initial + rectification avant filtrage")
	require.Len(t, out.Entries, 1)
	assert.Equal(t, entity.MovementTypeAdjustment, out.Entries[0].Type)

	// Filtre ne gardant rien : Entries vide mais TotalEntries intact.
	out, err = uc.GetLedger(context.Background(), testCompanyID, testProductID, ledger.FilterParams{
		Period: ledger.PeriodAll, Type: ledger.TypeFilterOrders,
	})
	require.NoError(t, err)
	assert.Empty(t, out.Entries)
	assert.Equal(t, 2, out.TotalEntries)
}

// ──────────────────────────────────────────────────────────────────────────────
// GetLinkedOrder
// ──────────────────────────────────────────────────────────────────────────────

func TestGetLinkedOrder_CommandeSupprimee_RetourneNotFound(t *testing.T) {
	products, movements, orders := newFixtures()
	uc := stock.NewHistoryUseCase(products, movements, orders)

	_, err := uc.GetLinkedOrder(context.Background(), testCompanyID, "disparue")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetLinkedOrder_RenvoieLeDetail(t *testing.T) {
	products, movements, orders := newFixtures()
	orders.orders["order-1"] = &entity.Order{
		ID:         "order-1",
		CompanyID:  testCompanyID,
		Number:     "CMD-2025-abc",
		Status:     entity.OrderStatusLivre,
		ClientName: "Boulangerie Amal",
		OrderDate:  date(3, 9),
		TotalTTC:   decimal.NewFromInt(240),
		Items: []entity.OrderItem{
			{ProductID: testProductID, ProductName: "Café moulu", Quantity: decimal.NewFromInt(10), UnitPrice: decimal.NewFromInt(24)},
		},
	}
	uc := stock.NewHistoryUseCase(products, movements, orders)

	out, err := uc.GetLinkedOrder(context.Background(), testCompanyID, "order-1")
	require.NoError(t, err)
	assert.Equal(t, "CMD-2025-abc", out.Number)
	assert.Equal(t, "Boulangerie Amal", out.ClientName)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "Café moulu", out.Items[0].ProductName)
}

func TestGetLinkedOrder_AutreSociete_RetourneForbidden(t *testing.T) {
	products, movements, orders := newFixtures()
	orders.orders["order-1"] = &entity.Order{ID: "order-1", CompanyID: "autre-societe"}
	uc := stock.NewHistoryUseCase(products, movements, orders)

	_, err := uc.GetLinkedOrder(context.Background(), testCompanyID, "order-1")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
