package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/facturati/facturati-api/internal/domain/entity"
	"github.com/facturati/facturati-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

const orderColumns = `id, company_id, number, status, client_id, client_type, client_name, order_date, delivery_date, updated_at, created_at, created_by_name, user_name, total_ttc, invoice_id`

// OrderRepo implémentation du port OrderRepository sur PostgreSQL. Les lignes
// (order_items) sont chargées avec chaque commande.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construit l'adaptateur. Passer pool ou tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// Create persiste une commande et ses lignes.
func (r *OrderRepo) Create(order *entity.Order) error {
	ctx := context.Background()
	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		order.ID, order.CompanyID, order.Number, order.Status, order.ClientID,
		order.ClientType, order.ClientName, order.OrderDate, order.DeliveryDate,
		order.UpdatedAt, order.CreatedAt, order.CreatedByName, order.UserName,
		order.TotalTTC, order.InvoiceID,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	for i, item := range order.Items {
		_, err := r.q.Exec(ctx,
			`INSERT INTO order_items (order_id, position, product_id, product_name, quantity, unit_price)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			order.ID, i, item.ProductID, item.ProductName, item.Quantity, item.UnitPrice,
		)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}
	return nil
}

// GetByID renvoie une commande avec ses lignes, nil si absente.
func (r *OrderRepo) GetByID(id string) (*entity.Order, error) {
	return r.getOne(`SELECT `+orderColumns+` FROM orders WHERE id = $1`, id, "get order")
}

// GetByIDForUpdate verrouille la commande (livraison, annulation ou
// conversion en facture concurrentes).
func (r *OrderRepo) GetByIDForUpdate(id string) (*entity.Order, error) {
	return r.getOne(`SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, id, "lock order")
}

// List liste les commandes d'une société, filtrables par statut, lignes
// incluses.
func (r *OrderRepo) List(companyID, status string) ([]*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE company_id = $1`
	args := []any{companyID}
	if status != "" {
		query += ` AND status = $2`
		args = append(args, status)
	}
	query += ` ORDER BY order_date DESC`
	return r.list(query, args...)
}

// ListDelivered renvoie les commandes livrées de la société (entrée du
// collecteur de ledger).
func (r *OrderRepo) ListDelivered(companyID string) ([]entity.Order, error) {
	orders, err := r.list(
		`SELECT `+orderColumns+` FROM orders WHERE company_id = $1 AND status = $2 ORDER BY order_date ASC`,
		companyID, entity.OrderStatusLivre,
	)
	if err != nil {
		return nil, err
	}
	out := make([]entity.Order, 0, len(orders))
	for _, o := range orders {
		out = append(out, *o)
	}
	return out, nil
}

// Update met à jour l'en-tête de la commande. Les lignes sont immuables après
// création.
func (r *OrderRepo) Update(order *entity.Order) error {
	query := `
		UPDATE orders SET status = $2, delivery_date = $3, updated_at = $4, invoice_id = $5
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		order.ID, order.Status, order.DeliveryDate, order.UpdatedAt, order.InvoiceID,
	)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	return nil
}

func (r *OrderRepo) getOne(query, id, op string) (*entity.Order, error) {
	var o entity.Order
	err := scanOrder(r.q.QueryRow(context.Background(), query, id), &o)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := r.loadItems(&o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepo) list(query string, args ...any) ([]*entity.Order, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.Order
	for rows.Next() {
		var o entity.Order
		if err := scanOrder(rows, &o); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, o := range list {
		if err := r.loadItems(o); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func (r *OrderRepo) loadItems(o *entity.Order) error {
	rows, err := r.q.Query(context.Background(),
		`SELECT product_id, product_name, quantity, unit_price
		 FROM order_items WHERE order_id = $1 ORDER BY position ASC`,
		o.ID,
	)
	if err != nil {
		return fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.OrderItem
		if err := rows.Scan(&it.ProductID, &it.ProductName, &it.Quantity, &it.UnitPrice); err != nil {
			return fmt.Errorf("scan order item: %w", err)
		}
		o.Items = append(o.Items, it)
	}
	return rows.Err()
}

func scanOrder(row pgx.Row, o *entity.Order) error {
	return row.Scan(
		&o.ID, &o.CompanyID, &o.Number, &o.Status, &o.ClientID, &o.ClientType,
		&o.ClientName, &o.OrderDate, &o.DeliveryDate, &o.UpdatedAt, &o.CreatedAt,
		&o.CreatedByName, &o.UserName, &o.TotalTTC, &o.InvoiceID,
	)
}
