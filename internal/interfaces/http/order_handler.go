package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/facturati/facturati-api/internal/application/dto"
	"github.com/facturati/facturati-api/internal/application/usecase"
)

// OrderHandler gère les requêtes HTTP des commandes (protégé). La livraison
// et l'annulation déclenchent les écritures du journal de stock.
type OrderHandler struct {
	uc *usecase.OrderUseCase
}

// NewOrderHandler construit le handler.
func NewOrderHandler(uc *usecase.OrderUseCase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// Create godoc
// @Summary      Créer une commande
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "client_id ou client_name, items"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token invalide"})
	}
	var in dto.CreateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corps invalide"})
	}
	out, err := h.uc.CreateOrder(c.Context(), companyID, GetUserName(c), in)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtenir une commande par ID
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la commande"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id requis"})
	}
	out, err := h.uc.GetOrder(c.Context(), GetCompanyID(c), id)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Lister les commandes
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "en_attente | confirme | livre | annule"
// @Success      200     {array}  dto.OrderResponse
// @Router       /api/orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token invalide"})
	}
	out, err := h.uc.ListOrders(c.Context(), companyID, c.Query("status"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// Confirm godoc
// @Summary      Confirmer une commande en attente
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la commande"
// @Success      200  {object}  map[string]string
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/confirm [post]
func (h *OrderHandler) Confirm(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id requis"})
	}
	if err := h.uc.Confirm(c.Context(), GetCompanyID(c), id); err != nil {
		return domainError(c, err)
	}
	return c.JSON(fiber.Map{"message": "commande confirmée"})
}

// Deliver godoc
// @Summary      Livrer une commande
// @Description  Passe la commande en "livre" et écrit, dans la même
//               transaction, les mouvements order_out et la décrémentation du
//               stock courant.
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la commande"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/deliver [post]
func (h *OrderHandler) Deliver(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id requis"})
	}
	if err := h.uc.Deliver(c.Context(), GetCompanyID(c), id, GetUserName(c)); err != nil {
		return domainError(c, err)
	}
	return c.JSON(fiber.Map{"message": "commande livrée"})
}

// Cancel godoc
// @Summary      Annuler une commande
// @Description  Une commande livrée annulée réintègre le stock via des
//               mouvements order_cancel_return.
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la commande"
// @Success      200  {object}  map[string]string
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id requis"})
	}
	if err := h.uc.Cancel(c.Context(), GetCompanyID(c), id, GetUserName(c)); err != nil {
		return domainError(c, err)
	}
	return c.JSON(fiber.Map{"message": "commande annulée"})
}
