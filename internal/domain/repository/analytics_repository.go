package repository

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonthlyRevenue chiffre d'affaires TTC facturé sur un mois.
type MonthlyRevenue struct {
	Month   time.Time
	Revenue decimal.Decimal
}

// DashboardStats indicateurs agrégés du tableau de bord.
type DashboardStats struct {
	TotalProducts  int64
	TotalClients   int64
	PendingOrders  int64
	UnpaidInvoices int64
	MonthRevenue   decimal.Decimal // CA TTC du mois courant (factures non annulées)
	UnpaidTotal    decimal.Decimal // encours TTC des factures envoyées non payées
}

// AnalyticsRepository agrégations SQL pour le tableau de bord.
type AnalyticsRepository interface {
	GetDashboardStats(companyID string) (*DashboardStats, error)
	RevenueByMonth(companyID string, months int) ([]MonthlyRevenue, error)
}
