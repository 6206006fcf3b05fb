package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/facturati/facturati-api/internal/domain/entity"
	"github.com/facturati/facturati-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

const movementColumns = `id, company_id, product_id, type, quantity, date, adjustment_datetime, reason, user_name, reference, order_id, created_at`

// StockMovementRepo implémentation du port StockMovementRepository sur
// PostgreSQL. Le journal est en ajout seul : pas d'UPDATE ni de DELETE.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construit l'adaptateur. Passer pool ou tx
// (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create journalise un mouvement de stock.
func (r *StockMovementRepo) Create(movement *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.CompanyID, movement.ProductID, movement.Type,
		movement.Quantity, nullableTime(movement.Date), movement.AdjustmentDateTime,
		movement.Reason, movement.UserName, movement.Reference, movement.OrderID,
		movement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}

// ListByProduct renvoie tous les mouvements d'un produit (entrée du
// collecteur de ledger). L'ordre d'insertion est conservé : le rejoueur
// applique son propre tri stable.
func (r *StockMovementRepo) ListByProduct(productID string) ([]entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE product_id = $1 ORDER BY created_at ASC`
	rows, err := r.q.Query(context.Background(), query, productID)
	if err != nil {
		return nil, fmt.Errorf("list movements by product: %w", err)
	}
	defer rows.Close()
	return collectMovements(rows)
}

// ListByCompany renvoie les mouvements d'une société, filtrables par plage de
// dates, avec pagination.
func (r *StockMovementRepo) ListByCompany(companyID string, from, to *time.Time, limit, offset int) ([]entity.StockMovement, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + movementColumns + ` FROM stock_movements WHERE company_id = $1`)
	args := []any{companyID}
	if from != nil {
		args = append(args, *from)
		fmt.Fprintf(&sb, ` AND COALESCE(adjustment_datetime, date) >= $%d`, len(args))
	}
	if to != nil {
		args = append(args, *to)
		fmt.Fprintf(&sb, ` AND COALESCE(adjustment_datetime, date) <= $%d`, len(args))
	}
	args = append(args, limit, offset)
	fmt.Fprintf(&sb, ` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.q.Query(context.Background(), sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list movements by company: %w", err)
	}
	defer rows.Close()
	return collectMovements(rows)
}

func collectMovements(rows pgx.Rows) ([]entity.StockMovement, error) {
	var list []entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		var date *time.Time
		if err := rows.Scan(
			&m.ID, &m.CompanyID, &m.ProductID, &m.Type, &m.Quantity,
			&date, &m.AdjustmentDateTime, &m.Reason, &m.UserName,
			&m.Reference, &m.OrderID, &m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		if date != nil {
			m.Date = *date
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// nullableTime stocke la valeur zéro comme NULL : une date absente doit
// rester absente au rechargement (classement en tout début de ledger).
func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
