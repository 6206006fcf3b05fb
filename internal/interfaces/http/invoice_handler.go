package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/facturati/facturati-api/internal/application/billing"
	"github.com/facturati/facturati-api/internal/application/dto"
)

// InvoiceHandler gère les requêtes HTTP des factures (protégé).
type InvoiceHandler struct {
	create       *billing.CreateInvoiceUseCase
	uc           *billing.InvoiceUseCase
	convertOrder *billing.ConvertOrderUseCase
	export       *billing.ExportUseCase
}

// NewInvoiceHandler construit le handler.
func NewInvoiceHandler(
	create *billing.CreateInvoiceUseCase,
	uc *billing.InvoiceUseCase,
	convertOrder *billing.ConvertOrderUseCase,
	export *billing.ExportUseCase,
) *InvoiceHandler {
	return &InvoiceHandler{create: create, uc: uc, convertOrder: convertOrder, export: export}
}

// Create godoc
// @Summary      Créer une facture directe
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateInvoiceRequest  true  "client_id, lines"
// @Success      201   {object}  dto.InvoiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/invoices [post]
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token invalide"})
	}
	var in dto.CreateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corps invalide"})
	}
	out, err := h.create.CreateInvoice(c.Context(), companyID, in)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtenir une facture par ID
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la facture"
// @Success      200  {object}  dto.InvoiceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id} [get]
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id requis"})
	}
	out, err := h.uc.GetInvoice(c.Context(), GetCompanyID(c), id)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Lister les factures
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "brouillon | envoyee | payee | annulee"
// @Success      200     {array}  dto.InvoiceResponse
// @Router       /api/invoices [get]
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token invalide"})
	}
	out, err := h.uc.ListInvoices(c.Context(), companyID, c.Query("status"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// UpdateStatus godoc
// @Summary      Changer le statut d'une facture
// @Description  Transitions autorisées : brouillon -> envoyee | annulee,
//               envoyee -> payee | annulee.
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la facture"
// @Param        body  body  map[string]string  true  "status"
// @Success      200   {object}  map[string]string
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/status [put]
func (h *InvoiceHandler) UpdateStatus(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id requis"})
	}
	var in struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&in); err != nil || in.Status == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "status requis"})
	}
	if err := h.uc.UpdateStatus(c.Context(), GetCompanyID(c), id, in.Status); err != nil {
		return domainError(c, err)
	}
	return c.JSON(fiber.Map{"message": "statut mis à jour"})
}

// FromOrder godoc
// @Summary      Facturer une commande
// @Description  Crée la facture depuis les lignes de la commande et lie les
//               deux documents. Une commande déjà facturée renvoie 409. Le
//               stock n'est pas modifié (déjà décrémenté à la livraison).
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la commande"
// @Success      201  {object}  dto.InvoiceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/invoices/from-order/{id} [post]
func (h *InvoiceHandler) FromOrder(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id requis"})
	}
	out, err := h.convertOrder.ConvertOrder(c.Context(), GetCompanyID(c), id)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// PDF godoc
// @Summary      PDF d'une facture
// @Tags         invoices
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "ID de la facture"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/pdf [get]
func (h *InvoiceHandler) PDF(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id requis"})
	}
	data, err := h.export.InvoicePDF(c.Context(), GetCompanyID(c), id)
	if err != nil {
		return domainError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	return c.Send(data)
}

// XML godoc
// @Summary      Export XML UBL 2.1 d'une facture
// @Tags         invoices
// @Security     Bearer
// @Produce      application/xml
// @Param        id  path  string  true  "ID de la facture"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/xml [get]
func (h *InvoiceHandler) XML(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id requis"})
	}
	data, err := h.export.InvoiceXML(c.Context(), GetCompanyID(c), id)
	if err != nil {
		return domainError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/xml")
	return c.Send(data)
}
