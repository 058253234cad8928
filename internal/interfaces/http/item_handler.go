package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/supply-chain-api/internal/application/dto"
	"github.com/jhoicas/supply-chain-api/internal/application/usecase"
)

// ItemHandler catálogo de ítems y sus existencias.
type ItemHandler struct {
	uc *usecase.ItemUseCase
}

// NewItemHandler construye el handler.
func NewItemHandler(uc *usecase.ItemUseCase) *ItemHandler {
	return &ItemHandler{uc: uc}
}

// Create godoc
// @Summary      Crear ítem
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateItemRequest  true  "item_name, sku, unit, storage_type, niveles de stock"
// @Success      201   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/items [post]
func (h *ItemHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateItemRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return handleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar ítems
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        search        query  string  false  "Texto en nombre o SKU"
// @Param        category      query  string  false  "Categoría"
// @Param        storage_type  query  string  false  "cold | frozen"
// @Param        limit         query  int     false  "Límite (default 20, max 100)"
// @Param        offset        query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.ItemListResponse
// @Router       /api/items [get]
func (h *ItemHandler) List(c *fiber.Ctx) error {
	var q dto.ItemListQuery
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
// @Summary      Obtener ítem
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del ítem"
// @Success      200  {object}  dto.ItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id} [get]
func (h *ItemHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar ítem
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID del ítem"
// @Param        body  body  dto.UpdateItemRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/items/{id} [patch]
func (h *ItemHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateItemRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Desactivar ítem
// @Tags         items
// @Security     Bearer
// @Param        id   path  string  true  "ID del ítem"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id} [delete]
func (h *ItemHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		return handleError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Stock godoc
// @Summary      Existencias actuales del ítem
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        id        path   string  true   "ID del ítem"
// @Param        store_id  query  string  false  "Tienda (UUID). Vacío = todas."
// @Success      200  {object}  dto.ItemStockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id}/stock [get]
func (h *ItemHandler) Stock(c *fiber.Ctx) error {
	out, err := h.uc.CurrentStock(c.Context(), c.Params("id"), c.Query("store_id"))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// SafetyStock godoc
// @Summary      Stock de seguridad del ítem
// @Description  Valor manual si existe; si no, demanda diaria de los últimos 30 días por lead time; si no, min_stock_level.
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        id        path   string  true   "ID del ítem"
// @Param        store_id  query  string  false  "Tienda (UUID). Vacío = todas."
// @Success      200  {object}  dto.SafetyStockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id}/safety-stock [get]
func (h *ItemHandler) SafetyStock(c *fiber.Ctx) error {
	out, err := h.uc.SafetyStock(c.Context(), c.Params("id"), c.Query("store_id"))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}
