package billing_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facturati/facturati-api/internal/application/billing"
	"github.com/facturati/facturati-api/internal/domain"
	"github.com/facturati/facturati-api/internal/domain/entity"
	"github.com/facturati/facturati-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en mémoire
// ──────────────────────────────────────────────────────────────────────────────

type fakeInvoiceRepo struct {
	invoices map[string]*entity.Invoice
	lines    map[string][]*entity.InvoiceLine
	counter  int
}

func (r *fakeInvoiceRepo) Create(inv *entity.Invoice, lines []*entity.InvoiceLine) error {
	r.invoices[inv.ID] = inv
	r.lines[inv.ID] = lines
	return nil
}
func (r *fakeInvoiceRepo) GetByID(id string) (*entity.Invoice, error) { return r.invoices[id], nil }
func (r *fakeInvoiceRepo) List(companyID, status string) ([]*entity.Invoice, error) {
	return nil, nil
}
func (r *fakeInvoiceRepo) ListLines(invoiceID string) ([]*entity.InvoiceLine, error) {
	return r.lines[invoiceID], nil
}
func (r *fakeInvoiceRepo) UpdateStatus(id, status string) error {
	if inv, ok := r.invoices[id]; ok {
		inv.Status = status
	}
	return nil
}
func (r *fakeInvoiceRepo) NextNumber(companyID string, year int) (string, error) {
	r.counter++
	return fmt.Sprintf("FAC-%d-%04d", year, r.counter), nil
}

type fakeQuoteRepo struct {
	quotes map[string]*entity.Quote
}

func (r *fakeQuoteRepo) Create(q *entity.Quote) error                 { r.quotes[q.ID] = q; return nil }
func (r *fakeQuoteRepo) GetByID(id string) (*entity.Quote, error)     { return r.quotes[id], nil }
func (r *fakeQuoteRepo) GetByIDForUpdate(id string) (*entity.Quote, error) {
	return r.quotes[id], nil
}
func (r *fakeQuoteRepo) List(companyID, status string) ([]*entity.Quote, error) { return nil, nil }
func (r *fakeQuoteRepo) Update(q *entity.Quote) error                           { r.quotes[q.ID] = q; return nil }

type fakeOrderRepo struct {
	orders map[string]*entity.Order
}

func (r *fakeOrderRepo) Create(o *entity.Order) error             { r.orders[o.ID] = o; return nil }
func (r *fakeOrderRepo) GetByID(id string) (*entity.Order, error) { return r.orders[id], nil }
func (r *fakeOrderRepo) GetByIDForUpdate(id string) (*entity.Order, error) {
	return r.orders[id], nil
}
func (r *fakeOrderRepo) List(companyID, status string) ([]*entity.Order, error) { return nil, nil }
func (r *fakeOrderRepo) ListDelivered(companyID string) ([]entity.Order, error) { return nil, nil }
func (r *fakeOrderRepo) Update(o *entity.Order) error                           { r.orders[o.ID] = o; return nil }

type fakeProductRepo struct {
	products map[string]*entity.Product
}

func (r *fakeProductRepo) Create(p *entity.Product) error             { r.products[p.ID] = p; return nil }
func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) { return r.products[id], nil }
func (r *fakeProductRepo) GetByIDForUpdate(id string) (*entity.Product, error) {
	return r.products[id], nil
}
func (r *fakeProductRepo) GetByReference(companyID, reference string) (*entity.Product, error) {
	return nil, nil
}
func (r *fakeProductRepo) List(companyID string) ([]*entity.Product, error)        { return nil, nil }
func (r *fakeProductRepo) Update(p *entity.Product) error                          { return nil }
func (r *fakeProductRepo) UpdateCurrentStock(id string, qty decimal.Decimal) error { return nil }

// fakeBillingTxRunner exécute la fonction directement, sans transaction.
type fakeBillingTxRunner struct {
	invoices *fakeInvoiceRepo
	quotes   *fakeQuoteRepo
	orders   *fakeOrderRepo
}

func (r *fakeBillingTxRunner) RunBilling(ctx context.Context, fn func(
	invoiceRepo repository.InvoiceRepository,
	quoteRepo repository.QuoteRepository,
	orderRepo repository.OrderRepository,
) error) error {
	return fn(r.invoices, r.quotes, r.orders)
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixtures
// ──────────────────────────────────────────────────────────────────────────────

const companyID = "soc-1"

func newRunner() *fakeBillingTxRunner {
	return &fakeBillingTxRunner{
		invoices: &fakeInvoiceRepo{invoices: map[string]*entity.Invoice{}, lines: map[string][]*entity.InvoiceLine{}},
		quotes:   &fakeQuoteRepo{quotes: map[string]*entity.Quote{}},
		orders:   &fakeOrderRepo{orders: map[string]*entity.Order{}},
	}
}

func seedQuote(r *fakeBillingTxRunner, status string) *entity.Quote {
	quote := &entity.Quote{
		ID:        "devis-1",
		CompanyID: companyID,
		ClientID:  "client-1",
		Number:    "DEV-2025-abc",
		Status:    status,
		Lines: []entity.QuoteLine{
			{
				ID:          "ligne-1",
				QuoteID:     "devis-1",
				ProductID:   "prod-1",
				Description: "Huile d'olive 1L",
				Quantity:    decimal.NewFromInt(10),
				UnitPrice:   decimal.NewFromInt(50),
				TaxRate:     decimal.NewFromFloat(0.20),
			},
		},
		TotalHT:  decimal.NewFromInt(500),
		TotalTVA: decimal.NewFromInt(100),
		TotalTTC: decimal.NewFromInt(600),
		Date:     time.Date(2025, time.May, 2, 10, 0, 0, 0, time.UTC),
	}
	r.quotes.quotes[quote.ID] = quote
	return quote
}

func seedDeliveredOrder(r *fakeBillingTxRunner) *entity.Order {
	order := &entity.Order{
		ID:         "commande-1",
		CompanyID:  companyID,
		ClientID:   "client-1",
		Number:     "CMD-2025-abc",
		Status:     entity.OrderStatusLivre,
		ClientName: "Restaurant Atlas",
		Items: []entity.OrderItem{
			{ProductID: "prod-1", ProductName: "Huile d'olive 1L", Quantity: decimal.NewFromInt(4), UnitPrice: decimal.NewFromInt(50)},
		},
		TotalTTC: decimal.NewFromInt(240),
	}
	r.orders.orders[order.ID] = order
	return order
}

// ──────────────────────────────────────────────────────────────────────────────
// ConvertQuote
// ──────────────────────────────────────────────────────────────────────────────

// La conversion crée la facture, passe le devis en "facture" et lie les deux
// documents.
func TestConvertQuote_CreeLaFactureEtLieLeDevis(t *testing.T) {
	runner := newRunner()
	seedQuote(runner, entity.QuoteStatusAccepte)
	uc := billing.NewConvertQuoteUseCase(runner)

	out, err := uc.ConvertQuote(context.Background(), companyID, "devis-1")
	require.NoError(t, err)

	assert.Contains(t, out.Number, "FAC-")
	assert.Equal(t, entity.InvoiceStatusBrouillon, out.Status)
	assert.Equal(t, "devis-1", out.QuoteID)
	assert.True(t, out.TotalTTC.Equal(decimal.NewFromInt(600)), "les totaux du devis sont repris")
	require.Len(t, out.Lines, 1)
	assert.Equal(t, "Huile d'olive 1L", out.Lines[0].Description)

	quote := runner.quotes.quotes["devis-1"]
	assert.Equal(t, entity.QuoteStatusFacture, quote.Status)
	assert.Equal(t, out.ID, quote.InvoiceID)
}

// Un devis déjà facturé ne peut pas être reconverti : le chiffre d'affaires
// ne doit exister que sur un seul document.
func TestConvertQuote_DoubleConversion_RetourneAlreadyInvoiced(t *testing.T) {
	runner := newRunner()
	seedQuote(runner, entity.QuoteStatusAccepte)
	uc := billing.NewConvertQuoteUseCase(runner)

	_, err := uc.ConvertQuote(context.Background(), companyID, "devis-1")
	require.NoError(t, err)

	_, err = uc.ConvertQuote(context.Background(), companyID, "devis-1")
	assert.ErrorIs(t, err, domain.ErrAlreadyInvoiced)
	assert.Len(t, runner.invoices.invoices, 1, "une seule facture doit exister")
}

func TestConvertQuote_DevisInconnu_RetourneNotFound(t *testing.T) {
	runner := newRunner()
	uc := billing.NewConvertQuoteUseCase(runner)

	_, err := uc.ConvertQuote(context.Background(), companyID, "inexistant")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestConvertQuote_AutreSociete_RetourneForbidden(t *testing.T) {
	runner := newRunner()
	seedQuote(runner, entity.QuoteStatusAccepte)
	uc := billing.NewConvertQuoteUseCase(runner)

	_, err := uc.ConvertQuote(context.Background(), "autre-societe", "devis-1")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// ──────────────────────────────────────────────────────────────────────────────
// ConvertOrder
// ──────────────────────────────────────────────────────────────────────────────

func TestConvertOrder_CreeLaFactureEtLieLaCommande(t *testing.T) {
	runner := newRunner()
	seedDeliveredOrder(runner)
	products := &fakeProductRepo{products: map[string]*entity.Product{
		"prod-1": {ID: "prod-1", CompanyID: companyID, TaxRate: decimal.NewFromFloat(0.20)},
	}}
	cfg := billing.Config{Currency: "MAD", DefaultTaxRate: decimal.NewFromFloat(0.20)}
	uc := billing.NewConvertOrderUseCase(runner, products, cfg)

	out, err := uc.ConvertOrder(context.Background(), companyID, "commande-1")
	require.NoError(t, err)

	assert.Contains(t, out.Number, "FAC-")
	assert.Equal(t, "commande-1", out.OrderID)
	// 4 x 50 = 200 HT, TVA 20% = 40, TTC 240.
	assert.True(t, out.TotalHT.Equal(decimal.NewFromInt(200)), "obtenu %s", out.TotalHT)
	assert.True(t, out.TotalTVA.Equal(decimal.NewFromInt(40)), "obtenu %s", out.TotalTVA)
	assert.True(t, out.TotalTTC.Equal(decimal.NewFromInt(240)), "obtenu %s", out.TotalTTC)

	order := runner.orders.orders["commande-1"]
	assert.Equal(t, out.ID, order.InvoiceID)
	assert.Equal(t, entity.OrderStatusLivre, order.Status, "le statut de la commande ne change pas")
}

func TestConvertOrder_DejaFacturee_RetourneAlreadyInvoiced(t *testing.T) {
	runner := newRunner()
	order := seedDeliveredOrder(runner)
	order.InvoiceID = "fac-existante"
	cfg := billing.Config{DefaultTaxRate: decimal.NewFromFloat(0.20)}
	uc := billing.NewConvertOrderUseCase(runner, &fakeProductRepo{products: map[string]*entity.Product{}}, cfg)

	_, err := uc.ConvertOrder(context.Background(), companyID, "commande-1")
	assert.ErrorIs(t, err, domain.ErrAlreadyInvoiced)
}

func TestConvertOrder_CommandeAnnulee_RetourneConflict(t *testing.T) {
	runner := newRunner()
	order := seedDeliveredOrder(runner)
	order.Status = entity.OrderStatusAnnule
	cfg := billing.Config{DefaultTaxRate: decimal.NewFromFloat(0.20)}
	uc := billing.NewConvertOrderUseCase(runner, &fakeProductRepo{products: map[string]*entity.Product{}}, cfg)

	_, err := uc.ConvertOrder(context.Background(), companyID, "commande-1")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

// Ligne en nom libre : le taux de TVA par défaut de la configuration
// s'applique.
func TestConvertOrder_LigneSansProduit_TauxParDefaut(t *testing.T) {
	runner := newRunner()
	order := seedDeliveredOrder(runner)
	order.Items = []entity.OrderItem{
		{ProductName: "Prestation hors catalogue", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(100)},
	}
	cfg := billing.Config{DefaultTaxRate: decimal.NewFromFloat(0.10)}
	uc := billing.NewConvertOrderUseCase(runner, &fakeProductRepo{products: map[string]*entity.Product{}}, cfg)

	out, err := uc.ConvertOrder(context.Background(), companyID, "commande-1")
	require.NoError(t, err)
	require.Len(t, out.Lines, 1)
	assert.True(t, out.Lines[0].TaxRate.Equal(decimal.NewFromFloat(0.10)))
	assert.True(t, out.TotalTVA.Equal(decimal.NewFromInt(10)), "obtenu %s", out.TotalTVA)
}
