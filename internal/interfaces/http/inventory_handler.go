package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/supply-chain-api/internal/application/dto"
	"github.com/jhoicas/supply-chain-api/internal/application/inventory"
)

// InventoryHandler lotes, movimientos y ventas.
type InventoryHandler struct {
	batches *inventory.BatchUseCase
	sales   *inventory.SalesUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(batches *inventory.BatchUseCase, sales *inventory.SalesUseCase) *InventoryHandler {
	return &InventoryHandler{batches: batches, sales: sales}
}

// CreateBatch godoc
// @Summary      Crear lote de inventario
// @Tags         inventory-batches
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateBatchRequest  true  "item_id, store_id, batch_no, expiry_date, quantity_on_hand"
// @Success      201   {object}  dto.BatchResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory-batches [post]
func (h *InventoryHandler) CreateBatch(c *fiber.Ctx) error {
	var in dto.CreateBatchRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.batches.Create(c.Context(), in)
	if err != nil {
		return handleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListBatches godoc
// @Summary      Listar lotes
// @Tags         inventory-batches
// @Security     Bearer
// @Produce      json
// @Param        item_id   query  string  false  "Ítem (UUID)"
// @Param        store_id  query  string  false  "Tienda (UUID)"
// @Param        status    query  string  false  "in_stock | low_stock | out_of_stock | expired"
// @Param        limit     query  int     false  "Límite (default 20, max 100)"
// @Param        offset    query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.BatchListResponse
// @Router       /api/inventory-batches [get]
func (h *InventoryHandler) ListBatches(c *fiber.Ctx) error {
	var q dto.BatchListQuery
	if ok, err := parseQuery(c, &q); !ok {
		return err
	}
	out, err := h.batches.List(c.Context(), q)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// GetBatch godoc
// @Summary      Obtener lote
// @Tags         inventory-batches
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del lote"
// @Success      200  {object}  dto.BatchResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory-batches/{id} [get]
func (h *InventoryHandler) GetBatch(c *fiber.Ctx) error {
	out, err := h.batches.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// UpdateBatch godoc
// @Summary      Actualizar lote
// @Tags         inventory-batches
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID del lote"
// @Param        body  body  dto.UpdateBatchRequest  true  "expiry_date, unit_cost, status"
// @Success      200   {object}  dto.BatchResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory-batches/{id} [patch]
func (h *InventoryHandler) UpdateBatch(c *fiber.Ctx) error {
	var in dto.UpdateBatchRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.batches.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// DeleteBatch godoc
// @Summary      Eliminar lote sin movimientos
// @Tags         inventory-batches
// @Security     Bearer
// @Param        id   path  string  true  "ID del lote"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventory-batches/{id} [delete]
func (h *InventoryHandler) DeleteBatch(c *fiber.Ctx) error {
	if err := h.batches.Delete(c.Context(), c.Params("id")); err != nil {
		return handleError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListTransactions godoc
// @Summary      Listar movimientos de inventario
// @Tags         inventory-transactions
// @Security     Bearer
// @Produce      json
// @Param        item_id         query  string  false  "Ítem (UUID)"
// @Param        batch_id        query  string  false  "Lote (UUID)"
// @Param        type            query  string  false  "RECEIPT | ISSUE | ADJUSTMENT"
// @Param        reference_type  query  string  false  "PO | GRN | ADJUSTMENT | SALES"
// @Param        limit           query  int     false  "Límite (default 20, max 100)"
// @Param        offset          query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.TransactionListResponse
// @Router       /api/inventory-transactions [get]
func (h *InventoryHandler) ListTransactions(c *fiber.Ctx) error {
	var q dto.TransactionListQuery
	if ok, err := parseQuery(c, &q); !ok {
		return err
	}
	out, err := h.batches.ListTransactions(c.Context(), q)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// GetTransaction godoc
// @Summary      Obtener movimiento
// @Tags         inventory-transactions
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del movimiento"
// @Success      200  {object}  dto.TransactionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory-transactions/{id} [get]
func (h *InventoryHandler) GetTransaction(c *fiber.Ctx) error {
	out, err := h.batches.GetTransaction(c.Context(), c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// CreateSale godoc
// @Summary      Registrar venta (FIFO por vencimiento)
// @Description  Consume los lotes vendibles de la tienda en orden de vencimiento y registra un ISSUE por lote.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSaleRequest  true  "item_id, store_id, quantity, unit_price"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *InventoryHandler) CreateSale(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.sales.Create(c.Context(), GetUserID(c), in)
	if err != nil {
		return handleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListSales godoc
// @Summary      Listar ventas
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        store_id  query  string  false  "Tienda (UUID)"
// @Param        item_id   query  string  false  "Ítem (UUID)"
// @Param        from      query  string  false  "Desde (YYYY-MM-DD o RFC3339)"
// @Param        to        query  string  false  "Hasta (YYYY-MM-DD o RFC3339)"
// @Param        limit     query  int     false  "Límite (default 20, max 100)"
// @Param        offset    query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.SaleListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/sales [get]
func (h *InventoryHandler) ListSales(c *fiber.Ctx) error {
	var q dto.SaleListQuery
	if ok, err := parseQuery(c, &q); !ok {
		return err
	}
	out, err := h.sales.List(c.Context(), q)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// GetSale godoc
// @Summary      Obtener venta
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *InventoryHandler) GetSale(c *fiber.Ctx) error {
	out, err := h.sales.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}
