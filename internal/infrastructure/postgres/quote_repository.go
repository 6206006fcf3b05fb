package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/facturati/facturati-api/internal/domain/entity"
	"github.com/facturati/facturati-api/internal/domain/repository"
)

var _ repository.QuoteRepository = (*QuoteRepo)(nil)

const quoteColumns = `id, company_id, client_id, number, status, total_ht, total_tva, total_ttc, date, valid_until, invoice_id, created_at, updated_at`

// QuoteRepo implémentation du port QuoteRepository sur PostgreSQL. Les lignes
// (quote_lines) sont chargées avec chaque devis.
type QuoteRepo struct {
	q Querier
}

// NewQuoteRepository construit l'adaptateur. Passer pool ou tx (Querier).
func NewQuoteRepository(q Querier) *QuoteRepo {
	return &QuoteRepo{q: q}
}

// Create persiste un devis et ses lignes.
func (r *QuoteRepo) Create(quote *entity.Quote) error {
	ctx := context.Background()
	query := `
		INSERT INTO quotes (` + quoteColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		quote.ID, quote.CompanyID, quote.ClientID, quote.Number, quote.Status,
		quote.TotalHT, quote.TotalTVA, quote.TotalTTC, quote.Date, quote.ValidUntil,
		quote.InvoiceID, quote.CreatedAt, quote.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert quote: %w", err)
	}
	for _, line := range quote.Lines {
		_, err := r.q.Exec(ctx,
			`INSERT INTO quote_lines (id, quote_id, product_id, description, quantity, unit_price, tax_rate)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			line.ID, quote.ID, line.ProductID, line.Description,
			line.Quantity, line.UnitPrice, line.TaxRate,
		)
		if err != nil {
			return fmt.Errorf("insert quote line: %w", err)
		}
	}
	return nil
}

// GetByID renvoie un devis avec ses lignes, nil si absent.
func (r *QuoteRepo) GetByID(id string) (*entity.Quote, error) {
	return r.getOne(`SELECT `+quoteColumns+` FROM quotes WHERE id = $1`, id, "get quote")
}

// GetByIDForUpdate verrouille le devis pendant sa conversion en facture.
func (r *QuoteRepo) GetByIDForUpdate(id string) (*entity.Quote, error) {
	return r.getOne(`SELECT `+quoteColumns+` FROM quotes WHERE id = $1 FOR UPDATE`, id, "lock quote")
}

// List liste les devis d'une société, filtrables par statut, lignes incluses.
func (r *QuoteRepo) List(companyID, status string) ([]*entity.Quote, error) {
	query := `SELECT ` + quoteColumns + ` FROM quotes WHERE company_id = $1`
	args := []any{companyID}
	if status != "" {
		query += ` AND status = $2`
		args = append(args, status)
	}
	query += ` ORDER BY date DESC`

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list quotes: %w", err)
	}
	defer rows.Close()
	var list []*entity.Quote
	for rows.Next() {
		var q entity.Quote
		if err := scanQuote(rows, &q); err != nil {
			return nil, fmt.Errorf("scan quote: %w", err)
		}
		list = append(list, &q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, q := range list {
		if err := r.loadLines(q); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// Update met à jour l'en-tête du devis (statut, lien facture). Les lignes
// sont immuables après création.
func (r *QuoteRepo) Update(quote *entity.Quote) error {
	query := `
		UPDATE quotes SET status = $2, invoice_id = $3, valid_until = $4, updated_at = $5
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		quote.ID, quote.Status, quote.InvoiceID, quote.ValidUntil, quote.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update quote: %w", err)
	}
	return nil
}

func (r *QuoteRepo) getOne(query, id, op string) (*entity.Quote, error) {
	var q entity.Quote
	err := scanQuote(r.q.QueryRow(context.Background(), query, id), &q)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := r.loadLines(&q); err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *QuoteRepo) loadLines(q *entity.Quote) error {
	rows, err := r.q.Query(context.Background(),
		`SELECT id, quote_id, product_id, description, quantity, unit_price, tax_rate
		 FROM quote_lines WHERE quote_id = $1 ORDER BY id ASC`,
		q.ID,
	)
	if err != nil {
		return fmt.Errorf("list quote lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.QuoteLine
		if err := rows.Scan(&l.ID, &l.QuoteID, &l.ProductID, &l.Description, &l.Quantity, &l.UnitPrice, &l.TaxRate); err != nil {
			return fmt.Errorf("scan quote line: %w", err)
		}
		q.Lines = append(q.Lines, l)
	}
	return rows.Err()
}

func scanQuote(row pgx.Row, q *entity.Quote) error {
	return row.Scan(
		&q.ID, &q.CompanyID, &q.ClientID, &q.Number, &q.Status,
		&q.TotalHT, &q.TotalTVA, &q.TotalTTC, &q.Date, &q.ValidUntil,
		&q.InvoiceID, &q.CreatedAt, &q.UpdatedAt,
	)
}
