package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/application/usecase"
)

// SettingsHandler preferencias de inventario de la empresa del token.
type SettingsHandler struct {
	uc *usecase.SettingsUseCase
}

// NewSettingsHandler construye el handler.
func NewSettingsHandler(uc *usecase.SettingsUseCase) *SettingsHandler {
	return &SettingsHandler{uc: uc}
}

// Get godoc
// @Summary      Preferencias de inventario
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SettingsResponse
// @Router       /api/inventory/settings [get]
func (h *SettingsHandler) Get(c *fiber.Ctx) error {
	companyID, ok, err := requireCompany(c)
	if !ok {
		return err
	}
	out, err := h.uc.Get(c.Context(), companyID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Patch godoc
// @Summary      Actualizar preferencias de inventario
// @Description  Campo ausente = mantener, null = volver al valor por defecto, valor = reemplazar.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PatchSettingsRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.SettingsResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/inventory/settings [patch]
func (h *SettingsHandler) Patch(c *fiber.Ctx) error {
	companyID, ok, err := requireCompany(c)
	if !ok {
		return err
	}
	var in dto.PatchSettingsRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Patch(c.Context(), companyID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
