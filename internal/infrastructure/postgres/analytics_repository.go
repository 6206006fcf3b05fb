package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/facturati/facturati-api/internal/domain/entity"
	"github.com/facturati/facturati-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo requêtes de lecture seule pour le tableau de bord.
type AnalyticsRepo struct {
	pool *pgxpool.Pool
}

// NewAnalyticsRepository construit l'adaptateur d'analytique.
func NewAnalyticsRepository(pool *pgxpool.Pool) *AnalyticsRepo {
	return &AnalyticsRepo{pool: pool}
}

// GetDashboardStats agrège les compteurs du tableau de bord en une requête.
// Le CA du mois exclut les factures annulées ; l'encours couvre les factures
// envoyées non payées.
func (r *AnalyticsRepo) GetDashboardStats(companyID string) (*repository.DashboardStats, error) {
	const query = `
	SELECT
	    (SELECT COUNT(*) FROM products  WHERE company_id = $1)                                          AS total_products,
	    (SELECT COUNT(*) FROM clients   WHERE company_id = $1)                                          AS total_clients,
	    (SELECT COUNT(*) FROM orders    WHERE company_id = $1 AND status = $2)                          AS pending_orders,
	    (SELECT COUNT(*) FROM invoices  WHERE company_id = $1 AND status = $3)                          AS unpaid_invoices,
	    (SELECT COALESCE(SUM(total_ttc), 0) FROM invoices
	        WHERE company_id = $1 AND status <> $4
	          AND date >= date_trunc('month', now()))                                                   AS month_revenue,
	    (SELECT COALESCE(SUM(total_ttc), 0) FROM invoices
	        WHERE company_id = $1 AND status = $3)                                                      AS unpaid_total`

	var stats repository.DashboardStats
	err := r.pool.QueryRow(context.Background(), query,
		companyID, entity.OrderStatusEnAttente, entity.InvoiceStatusEnvoyee, entity.InvoiceStatusAnnulee,
	).Scan(
		&stats.TotalProducts, &stats.TotalClients, &stats.PendingOrders,
		&stats.UnpaidInvoices, &stats.MonthRevenue, &stats.UnpaidTotal,
	)
	if err != nil {
		return nil, fmt.Errorf("analytics.GetDashboardStats: %w", err)
	}
	return &stats, nil
}

// RevenueByMonth renvoie le CA TTC facturé par mois sur les `months` derniers
// mois, factures annulées exclues. Les mois sans facture sont absents du
// résultat.
func (r *AnalyticsRepo) RevenueByMonth(companyID string, months int) ([]repository.MonthlyRevenue, error) {
	const query = `
	SELECT
	    date_trunc('month', date)       AS month,
	    COALESCE(SUM(total_ttc), 0)     AS revenue
	FROM invoices
	WHERE company_id = $1
	  AND status <> $2
	  AND date >= date_trunc('month', now()) - make_interval(months => $3 - 1)
	GROUP BY 1
	ORDER BY 1 ASC`

	rows, err := r.pool.Query(context.Background(), query, companyID, entity.InvoiceStatusAnnulee, months)
	if err != nil {
		return nil, fmt.Errorf("analytics.RevenueByMonth: %w", err)
	}
	defer rows.Close()

	var results []repository.MonthlyRevenue
	for rows.Next() {
		var row repository.MonthlyRevenue
		if err := rows.Scan(&row.Month, &row.Revenue); err != nil {
			return nil, fmt.Errorf("analytics.RevenueByMonth scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}
