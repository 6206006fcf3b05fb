package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/facturati/facturati-api/internal/application/dto"
	"github.com/facturati/facturati-api/internal/application/stock"
	"github.com/facturati/facturati-api/internal/domain/ledger"
)

// StockHandler expose l'historique de stock rejoué et les rectifications
// manuelles (protégé).
type StockHandler struct {
	history *stock.HistoryUseCase
	adjust  *stock.AdjustUseCase
}

// NewStockHandler construit le handler.
func NewStockHandler(history *stock.HistoryUseCase, adjust *stock.AdjustUseCase) *StockHandler {
	return &StockHandler{history: history, adjust: adjust}
}

// GetLedger godoc
// @Summary      Historique de stock d'un produit
// @Description  Ledger rejoué à la demande : mouvements + commandes livrées,
//               dédupliqués, soldes recalculés, ordre décroissant.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID du produit"
// @Param        period  query  string  false  "all | week | month | quarter"  default(all)
// @Param        from    query  string  false  "Date de début (RFC 3339)"
// @Param        to      query  string  false  "Date de fin (RFC 3339)"
// @Param        type    query  string  false  "all | orders | adjustments | initial"  default(all)
// @Success      200  {object}  dto.LedgerResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/ledger [get]
func (h *StockHandler) GetLedger(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token invalide"})
	}
	productID := c.Params("id")
	if productID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id requis"})
	}

	params, err := parseFilterParams(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}

	out, err := h.history.GetLedger(c.Context(), companyID, productID, params)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// ListMovements godoc
// @Summary      Journal brut des mouvements de stock
// @Description  Mouvements tels que persistés, sans rejeu de soldes. Fenêtre
//               temporelle optionnelle, pagination limit/offset.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        from    query  string  false  "Date de début (RFC 3339)"
// @Param        to      query  string  false  "Date de fin (RFC 3339)"
// @Param        limit   query  int     false  "Limite"  default(50)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200  {array}  dto.StockMovementDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/movements [get]
func (h *StockHandler) ListMovements(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token invalide"})
	}

	var from, to *time.Time
	if v := c.Query("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from : date RFC 3339 attendue"})
		}
		from = &t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to : date RFC 3339 attendue"})
		}
		to = &t
	}
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	if offset < 0 {
		offset = 0
	}

	out, err := h.history.ListMovements(c.Context(), companyID, from, to, limit, offset)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// GetLinkedOrder godoc
// @Summary      Commande liée à une entrée de ledger
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la commande"
// @Success      200  {object}  dto.LinkedOrderDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/orders/{id} [get]
func (h *StockHandler) GetLinkedOrder(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token invalide"})
	}
	orderID := c.Params("id")
	if orderID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id requis"})
	}
	out, err := h.history.GetLinkedOrder(c.Context(), companyID, orderID)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// RegisterAdjustment godoc
// @Summary      Rectification manuelle de stock
// @Description  Quantité signée : positive pour un ajout, négative pour un
//               retrait. Refusée si le stock deviendrait négatif.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterAdjustmentRequest  true  "product_id, quantity, reason, reference"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/adjustments [post]
func (h *StockHandler) RegisterAdjustment(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token invalide"})
	}
	var in dto.RegisterAdjustmentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corps invalide"})
	}
	if err := h.adjust.RegisterAdjustment(c.Context(), companyID, GetUserName(c), in); err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "rectification enregistrée"})
}

// parseFilterParams lit period, from, to et type depuis la query string.
// Les valeurs absentes retombent sur "all" ; les dates sont en RFC 3339.
func parseFilterParams(c *fiber.Ctx) (ledger.FilterParams, error) {
	params := ledger.FilterParams{
		Period: ledger.Period(c.Query("period", string(ledger.PeriodAll))),
		Type:   ledger.TypeFilter(c.Query("type", string(ledger.TypeFilterAll))),
	}
	if v := c.Query("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return params, fiber.NewError(fiber.StatusBadRequest, "from : date RFC 3339 attendue")
		}
		params.From = &t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return params, fiber.NewError(fiber.StatusBadRequest, "to : date RFC 3339 attendue")
		}
		params.To = &t
	}
	return params, nil
}
