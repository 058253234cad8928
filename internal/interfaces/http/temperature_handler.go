package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/supply-chain-api/internal/application/dto"
	"github.com/jhoicas/supply-chain-api/internal/application/inventory"
	"github.com/jhoicas/supply-chain-api/internal/application/temperature"
)

// TemperatureHandler monitoreo de cadena de frío y operaciones de administración.
type TemperatureHandler struct {
	uc     *temperature.UseCase
	adjust *inventory.AdjustUseCase
}

// NewTemperatureHandler construye el handler.
func NewTemperatureHandler(uc *temperature.UseCase, adjust *inventory.AdjustUseCase) *TemperatureHandler {
	return &TemperatureHandler{uc: uc, adjust: adjust}
}

// Alerts godoc
// @Summary      Lotes con temperatura fuera de rango
// @Tags         temperature
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.TemperatureAlertResponse
// @Router       /api/temperature/alerts [get]
func (h *TemperatureHandler) Alerts(c *fiber.Ctx) error {
	out, err := h.uc.Alerts(c.Context())
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// Logs godoc
// @Summary      Últimas lecturas de un lote
// @Tags         temperature
// @Security     Bearer
// @Produce      json
// @Param        batchId  path   string  true   "ID del lote"
// @Param        limit    query  int     false  "Cantidad de lecturas (default 50)"
// @Success      200  {array}  dto.TemperatureLogResponse
// @Router       /api/temperature/logs/{batchId} [get]
func (h *TemperatureHandler) Logs(c *fiber.Ctx) error {
	out, err := h.uc.Logs(c.Context(), c.Params("batchId"), c.QueryInt("limit", 0))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// Check godoc
// @Summary      Revisar temperaturas ahora
// @Description  Cuenta los lotes revisados y los que están fuera de rango, sin generar lecturas nuevas.
// @Tags         temperature
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.TemperatureCheckResponse
// @Router       /api/temperature/check [post]
func (h *TemperatureHandler) Check(c *fiber.Ctx) error {
	out, err := h.uc.Check(c.Context())
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// SetTemperature godoc
// @Summary      Fijar temperatura de un lote
// @Description  Registra una lectura manual; el simulador respeta el valor durante la ventana de override.
// @Tags         admin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SetTemperatureRequest  true  "batch_id, temperature (-30..50)"
// @Success      200   {object}  dto.TemperatureLogResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/admin/temperature/set [post]
func (h *TemperatureHandler) SetTemperature(c *fiber.Ctx) error {
	var in dto.SetTemperatureRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.SetTemperature(c.Context(), in)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// AdjustInventory godoc
// @Summary      Ajuste manual de inventario
// @Description  Suma o resta quantity_change al lote batch_no (lo crea si no existe y el cambio es positivo) y registra un movimiento ADJUSTMENT.
// @Tags         admin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustInventoryRequest  true  "item_id, store_id, batch_no, quantity_change"
// @Success      200   {object}  dto.AdjustInventoryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/admin/inventory/adjust [post]
func (h *TemperatureHandler) AdjustInventory(c *fiber.Ctx) error {
	var in dto.AdjustInventoryRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.adjust.Adjust(c.Context(), GetUserID(c), in)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}
