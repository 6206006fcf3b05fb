package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DashboardResponse indicateurs du tableau de bord.
type DashboardResponse struct {
	TotalProducts  int64               `json:"total_products"`
	TotalClients   int64               `json:"total_clients"`
	PendingOrders  int64               `json:"pending_orders"`
	UnpaidInvoices int64               `json:"unpaid_invoices"`
	MonthRevenue   decimal.Decimal     `json:"month_revenue"`
	UnpaidTotal    decimal.Decimal     `json:"unpaid_total"`
	RevenueHistory []MonthlyRevenueDTO `json:"revenue_history"`
}

// MonthlyRevenueDTO point de la courbe de chiffre d'affaires.
type MonthlyRevenueDTO struct {
	Month   time.Time       `json:"month"`
	Revenue decimal.Decimal `json:"revenue"`
}
