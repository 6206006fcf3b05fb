package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/facturati/facturati-api/internal/domain"
	"github.com/facturati/facturati-api/internal/domain/entity"
	"github.com/facturati/facturati-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

const invoiceColumns = `id, company_id, client_id, number, status, date, due_date, total_ht, total_tva, total_ttc, quote_id, order_id, paid_at, created_at, updated_at`

// InvoiceRepo implémentation du port InvoiceRepository sur PostgreSQL.
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construit l'adaptateur. Passer pool ou tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

// Create persiste la facture et ses lignes.
func (r *InvoiceRepo) Create(invoice *entity.Invoice, lines []*entity.InvoiceLine) error {
	ctx := context.Background()
	query := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		invoice.ID, invoice.CompanyID, invoice.ClientID, invoice.Number, invoice.Status,
		invoice.Date, invoice.DueDate, invoice.TotalHT, invoice.TotalTVA, invoice.TotalTTC,
		invoice.QuoteID, invoice.OrderID, invoice.PaidAt, invoice.CreatedAt, invoice.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	for _, line := range lines {
		_, err := r.q.Exec(ctx,
			`INSERT INTO invoice_lines (id, invoice_id, product_id, description, quantity, unit_price, tax_rate, total_ht)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			line.ID, invoice.ID, line.ProductID, line.Description,
			line.Quantity, line.UnitPrice, line.TaxRate, line.TotalHT,
		)
		if err != nil {
			return fmt.Errorf("insert invoice line: %w", err)
		}
	}
	return nil
}

// GetByID renvoie une facture par ID, nil si absente.
func (r *InvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	var inv entity.Invoice
	err := scanInvoice(r.q.QueryRow(context.Background(), query, id), &inv)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return &inv, nil
}

// List liste les factures d'une société, filtrables par statut.
func (r *InvoiceRepo) List(companyID, status string) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE company_id = $1`
	args := []any{companyID}
	if status != "" {
		query += ` AND status = $2`
		args = append(args, status)
	}
	query += ` ORDER BY date DESC`

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	var list []*entity.Invoice
	for rows.Next() {
		var inv entity.Invoice
		if err := scanInvoice(rows, &inv); err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, &inv)
	}
	return list, rows.Err()
}

// ListLines renvoie les lignes d'une facture.
func (r *InvoiceRepo) ListLines(invoiceID string) ([]*entity.InvoiceLine, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT id, invoice_id, product_id, description, quantity, unit_price, tax_rate, total_ht
		 FROM invoice_lines WHERE invoice_id = $1 ORDER BY id ASC`,
		invoiceID,
	)
	if err != nil {
		return nil, fmt.Errorf("list invoice lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.InvoiceLine
	for rows.Next() {
		var l entity.InvoiceLine
		if err := rows.Scan(&l.ID, &l.InvoiceID, &l.ProductID, &l.Description, &l.Quantity, &l.UnitPrice, &l.TaxRate, &l.TotalHT); err != nil {
			return nil, fmt.Errorf("scan invoice line: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

// UpdateStatus change le statut d'une facture. Le passage à "payee"
// horodate le paiement.
func (r *InvoiceRepo) UpdateStatus(id, status string) error {
	query := `
		UPDATE invoices SET status = $2,
			paid_at = CASE WHEN $2 = 'payee' THEN now() ELSE paid_at END,
			updated_at = now()
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, id, status)
	if err != nil {
		return fmt.Errorf("update invoice status: %w", err)
	}
	return nil
}

// NextNumber réserve le prochain numéro séquentiel de l'année pour la
// société (format FAC-AAAA-NNNN). Le compteur est verrouillé par l'UPSERT :
// deux transactions concurrentes obtiennent des numéros distincts.
func (r *InvoiceRepo) NextNumber(companyID string, year int) (string, error) {
	var counter int
	err := r.q.QueryRow(context.Background(),
		`INSERT INTO invoice_counters (company_id, year, counter)
		 VALUES ($1, $2, 1)
		 ON CONFLICT (company_id, year) DO UPDATE SET counter = invoice_counters.counter + 1
		 RETURNING counter`,
		companyID, year,
	).Scan(&counter)
	if err != nil {
		return "", fmt.Errorf("next invoice number: %w", err)
	}
	return fmt.Sprintf("FAC-%d-%04d", year, counter), nil
}

func scanInvoice(row pgx.Row, inv *entity.Invoice) error {
	return row.Scan(
		&inv.ID, &inv.CompanyID, &inv.ClientID, &inv.Number, &inv.Status,
		&inv.Date, &inv.DueDate, &inv.TotalHT, &inv.TotalTVA, &inv.TotalTTC,
		&inv.QuoteID, &inv.OrderID, &inv.PaidAt, &inv.CreatedAt, &inv.UpdatedAt,
	)
}
