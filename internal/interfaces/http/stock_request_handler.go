package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/supply-chain-api/internal/application/dto"
	"github.com/jhoicas/supply-chain-api/internal/application/procurement"
)

// StockRequestHandler solicitudes de stock y su conversión en órdenes.
type StockRequestHandler struct {
	uc        *procurement.StockRequestUseCase
	replenish *procurement.ReplenishmentUseCase
}

// NewStockRequestHandler construye el handler.
func NewStockRequestHandler(uc *procurement.StockRequestUseCase, replenish *procurement.ReplenishmentUseCase) *StockRequestHandler {
	return &StockRequestHandler{uc: uc, replenish: replenish}
}

// Create godoc
// @Summary      Crear solicitud de stock
// @Tags         stock-requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateStockRequestRequest  true  "store_id, item_id, requested_qty, priority"
// @Success      201   {object}  dto.StockRequestResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock-requests [post]
func (h *StockRequestHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateStockRequestRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.Context(), GetUserID(c), in)
	if err != nil {
		return handleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar solicitudes de stock
// @Tags         stock-requests
// @Security     Bearer
// @Produce      json
// @Param        status    query  string  false  "requested | po_generated | cancelled"
// @Param        store_id  query  string  false  "Tienda (UUID)"
// @Param        item_id   query  string  false  "Ítem (UUID)"
// @Param        limit     query  int     false  "Límite (default 20, max 100)"
// @Param        offset    query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.StockRequestListResponse
// @Router       /api/stock-requests [get]
func (h *StockRequestHandler) List(c *fiber.Ctx) error {
	var q dto.StockRequestListQuery
	if ok, err := parseQuery(c, &q); !ok {
		return err
	}
	out, err := h.uc.List(c.Context(), q)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener solicitud de stock
// @Tags         stock-requests
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.StockRequestResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock-requests/{id} [get]
func (h *StockRequestHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Editar solicitud abierta
// @Tags         stock-requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                         true  "ID de la solicitud"
// @Param        body  body  dto.UpdateStockRequestRequest  true  "requested_qty, priority, status, notes"
// @Success      200   {object}  dto.StockRequestResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock-requests/{id} [patch]
func (h *StockRequestHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateStockRequestRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// Cancel godoc
// @Summary      Cancelar solicitudes abiertas
// @Description  Sólo se cancelan las que siguen en requested; el resto se ignora.
// @Tags         stock-requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.IDsRequest  true  "request_ids"
// @Success      200   {object}  dto.CancelResult
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/stock-requests/cancel [post]
func (h *StockRequestHandler) Cancel(c *fiber.Ctx) error {
	var in dto.IDsRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Cancel(c.Context(), in.RequestIDs)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// GeneratePO godoc
// @Summary      Generar órdenes a partir de solicitudes
// @Description  Agrupa por proveedor preferido y tienda; aplica la cantidad mínima de pedido.
// @Tags         stock-requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.IDsRequest  true  "request_ids"
// @Success      201   {array}   dto.GeneratedPO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/stock-requests/generate-po [post]
func (h *StockRequestHandler) GeneratePO(c *fiber.Ctx) error {
	var in dto.IDsRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.GeneratePO(c.Context(), GetUserID(c), in.RequestIDs)
	if err != nil {
		return handleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// AutoGeneratePO godoc
// @Summary      Generar órdenes con todas las solicitudes abiertas
// @Tags         stock-requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StoreScopeRequest  false  "store_id opcional"
// @Success      201   {array}   dto.GeneratedPO
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/stock-requests/auto-po [post]
func (h *StockRequestHandler) AutoGeneratePO(c *fiber.Ctx) error {
	in, ok, err := storeScope(c)
	if !ok {
		return err
	}
	out, err := h.uc.AutoGeneratePO(c.Context(), GetUserID(c), in.StoreID)
	if err != nil {
		return handleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// AutoReplenish godoc
// @Summary      Reposición automática por stock de seguridad
// @Description  Crea solicitudes para los ítems bajo stock de seguridad y genera sus órdenes.
// @Tags         stock-requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StoreScopeRequest  false  "store_id opcional"
// @Success      200   {array}   dto.AutoReplenishResult
// @Router       /api/stock-requests/auto-replenish [post]
func (h *StockRequestHandler) AutoReplenish(c *fiber.Ctx) error {
	in, ok, err := storeScope(c)
	if !ok {
		return err
	}
	out, err := h.replenish.AutoReplenish(c.Context(), GetUserID(c), in.StoreID)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// ExpressOrder godoc
// @Summary      Pedido urgente
// @Description  Crea la solicitud y una orden aprobada contra el proveedor preferido, sin aplicar MOQ.
// @Tags         stock-requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ExpressOrderRequest  true  "item_id, store_id, quantity"
// @Success      201   {object}  dto.POResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/stock-requests/express-order [post]
func (h *StockRequestHandler) ExpressOrder(c *fiber.Ctx) error {
	var in dto.ExpressOrderRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.ExpressOrder(c.Context(), GetUserID(c), in)
	if err != nil {
		return handleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func storeScope(c *fiber.Ctx) (dto.StoreScopeRequest, bool, error) {
	var in dto.StoreScopeRequest
	if len(c.Body()) == 0 {
		return in, true, nil
	}
	ok, err := parseBody(c, &in)
	return in, ok, err
}
