package usecase

import (
	"context"

	"github.com/facturati/facturati-api/internal/application/dto"
	"github.com/facturati/facturati-api/internal/domain/repository"
)

// Profondeur par défaut de la courbe de chiffre d'affaires.
const revenueHistoryMonths = 12

// DashboardUseCase indicateurs agrégés du tableau de bord.
type DashboardUseCase struct {
	analyticsRepo repository.AnalyticsRepository
}

// NewDashboardUseCase construit le cas d'usage.
func NewDashboardUseCase(analyticsRepo repository.AnalyticsRepository) *DashboardUseCase {
	return &DashboardUseCase{analyticsRepo: analyticsRepo}
}

// GetDashboard renvoie les compteurs et la courbe de CA des douze derniers
// mois.
func (uc *DashboardUseCase) GetDashboard(ctx context.Context, companyID string) (*dto.DashboardResponse, error) {
	stats, err := uc.analyticsRepo.GetDashboardStats(companyID)
	if err != nil {
		return nil, err
	}
	history, err := uc.analyticsRepo.RevenueByMonth(companyID, revenueHistoryMonths)
	if err != nil {
		return nil, err
	}

	resp := &dto.DashboardResponse{
		TotalProducts:  stats.TotalProducts,
		TotalClients:   stats.TotalClients,
		PendingOrders:  stats.PendingOrders,
		UnpaidInvoices: stats.UnpaidInvoices,
		MonthRevenue:   stats.MonthRevenue,
		UnpaidTotal:    stats.UnpaidTotal,
		RevenueHistory: make([]dto.MonthlyRevenueDTO, 0, len(history)),
	}
	for _, m := range history {
		resp.RevenueHistory = append(resp.RevenueHistory, dto.MonthlyRevenueDTO{
			Month:   m.Month,
			Revenue: m.Revenue,
		})
	}
	return resp, nil
}
