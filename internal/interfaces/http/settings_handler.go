package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Facturas-api/internal/application/billing"
	"github.com/jhoicas/Facturas-api/internal/application/dto"
)

// SettingsHandler maneja la configuración de facturación del usuario (protegido).
type SettingsHandler struct {
	uc *billing.SettingsUseCase
}

// NewSettingsHandler construye el handler.
func NewSettingsHandler(uc *billing.SettingsUseCase) *SettingsHandler {
	return &SettingsHandler{uc: uc}
}

// Get devuelve los settings vigentes (los materializa si no existen).
// GET /api/settings
func (h *SettingsHandler) Get(c *fiber.Ctx) error {
	settings, err := h.uc.Get(GetUserID(c))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(settings)
}

// Update modifica tasa, moneda, prefijo y plazo de pago. El contador no se toca por aquí.
// PUT /api/settings
func (h *SettingsHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateSettingsRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	settings, err := h.uc.Update(GetUserID(c), in)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(settings)
}
