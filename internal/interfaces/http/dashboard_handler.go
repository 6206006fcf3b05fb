package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/facturati/facturati-api/internal/application/dto"
	"github.com/facturati/facturati-api/internal/application/usecase"
)

// DashboardHandler expose les indicateurs agrégés (protégé).
type DashboardHandler struct {
	uc *usecase.DashboardUseCase
}

// NewDashboardHandler construit le handler.
func NewDashboardHandler(uc *usecase.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// Get godoc
// @Summary      Tableau de bord
// @Description  Compteurs (produits, clients, commandes en attente, factures
//               impayées) et chiffre d'affaires des douze derniers mois.
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardResponse
// @Router       /api/dashboard [get]
func (h *DashboardHandler) Get(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token invalide"})
	}
	out, err := h.uc.GetDashboard(c.Context(), companyID)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}
