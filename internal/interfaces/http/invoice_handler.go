package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Facturas-api/internal/application/billing"
	"github.com/jhoicas/Facturas-api/internal/application/dto"
)

// InvoiceHandler maneja las peticiones HTTP de facturas (protegido).
type InvoiceHandler struct {
	uc *billing.InvoiceUseCase
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(uc *billing.InvoiceUseCase) *InvoiceHandler {
	return &InvoiceHandler{uc: uc}
}

// Create crea una factura en draft con número emitido por el secuenciador.
// POST /api/invoices
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	userID := GetUserID(c)
	var in dto.CreateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	invoice, err := h.uc.CreateInvoice(c.Context(), userID, in)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(invoice)
}

// List lista las facturas del usuario (estado efectivo: sent vencida = overdue).
// GET /api/invoices
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	userID := GetUserID(c)
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	list, err := h.uc.ListInvoices(userID, page.Limit, page.Offset)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(list)
}

// GetByID obtiene el detalle completo de una factura propia.
// GET /api/invoices/:id
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	invoice, err := h.uc.GetInvoice(GetUserID(c), c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(invoice)
}

// UpdateItems reemplaza los ítems de una factura en draft.
// PUT /api/invoices/:id/items
func (h *InvoiceHandler) UpdateItems(c *fiber.Ctx) error {
	var in dto.UpdateItemsRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	invoice, err := h.uc.UpdateItems(c.Context(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(invoice)
}

// Send marca la factura como enviada (draft -> sent).
// POST /api/invoices/:id/send
func (h *InvoiceHandler) Send(c *fiber.Ctx) error {
	invoice, err := h.uc.Send(c.Context(), GetUserID(c), c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(invoice)
}

// MarkPaid marca la factura como pagada (sent -> paid).
// POST /api/invoices/:id/pay
func (h *InvoiceHandler) MarkPaid(c *fiber.Ctx) error {
	invoice, err := h.uc.MarkPaid(c.Context(), GetUserID(c), c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(invoice)
}

// Cancel anula la factura (draft|sent -> cancelled).
// POST /api/invoices/:id/cancel
func (h *InvoiceHandler) Cancel(c *fiber.Ctx) error {
	invoice, err := h.uc.Cancel(c.Context(), GetUserID(c), c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(invoice)
}

// Delete elimina una factura en draft o cancelled.
// DELETE /api/invoices/:id
func (h *InvoiceHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.DeleteInvoice(c.Context(), GetUserID(c), c.Params("id")); err != nil {
		return domainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
