package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/supply-chain-api/internal/application/dto"
	"github.com/jhoicas/supply-chain-api/internal/application/usecase"
)

// SupplierHandler proveedores y sus mapeos proveedor ↔ ítem.
type SupplierHandler struct {
	suppliers *usecase.SupplierUseCase
	mappings  *usecase.SupplierItemUseCase
}

// NewSupplierHandler construye el handler.
func NewSupplierHandler(suppliers *usecase.SupplierUseCase, mappings *usecase.SupplierItemUseCase) *SupplierHandler {
	return &SupplierHandler{suppliers: suppliers, mappings: mappings}
}

// Create godoc
// @Summary      Crear proveedor
// @Tags         suppliers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSupplierRequest  true  "Datos del proveedor"
// @Success      201   {object}  dto.SupplierResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/suppliers [post]
func (h *SupplierHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSupplierRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.suppliers.Create(c.Context(), in)
	if err != nil {
		return handleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar proveedores
// @Tags         suppliers
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite (default 20, max 100)"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200  {object}  dto.SupplierListResponse
// @Router       /api/suppliers [get]
func (h *SupplierHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if ok, err := parseQuery(c, &page); !ok {
		return err
	}
	out, err := h.suppliers.List(c.Context(), page)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener proveedor
// @Tags         suppliers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del proveedor"
// @Success      200  {object}  dto.SupplierResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/suppliers/{id} [get]
func (h *SupplierHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.suppliers.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar proveedor
// @Tags         suppliers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID del proveedor"
// @Param        body  body  dto.UpdateSupplierRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.SupplierResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/suppliers/{id} [patch]
func (h *SupplierHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateSupplierRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.suppliers.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Desactivar proveedor
// @Tags         suppliers
// @Security     Bearer
// @Param        id   path  string  true  "ID del proveedor"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/suppliers/{id} [delete]
func (h *SupplierHandler) Delete(c *fiber.Ctx) error {
	if err := h.suppliers.Delete(c.Context(), c.Params("id")); err != nil {
		return handleError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CreateMapping godoc
// @Summary      Crear mapeo proveedor-ítem
// @Tags         supplier-items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSupplierItemRequest  true  "supplier_id, item_id, unit_price, min_order_qty, vigencia"
// @Success      201   {object}  dto.SupplierItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/supplier-items [post]
func (h *SupplierHandler) CreateMapping(c *fiber.Ctx) error {
	var in dto.CreateSupplierItemRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.mappings.Create(c.Context(), in)
	if err != nil {
		return handleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListMappings godoc
// @Summary      Listar mapeos de un ítem o de un proveedor
// @Tags         supplier-items
// @Security     Bearer
// @Produce      json
// @Param        item_id      query  string  false  "Ítem (UUID)"
// @Param        supplier_id  query  string  false  "Proveedor (UUID)"
// @Success      200  {array}   dto.SupplierItemResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/supplier-items [get]
func (h *SupplierHandler) ListMappings(c *fiber.Ctx) error {
	itemID, supplierID := c.Query("item_id"), c.Query("supplier_id")
	var (
		out []dto.SupplierItemResponse
		err error
	)
	switch {
	case itemID != "":
		out, err = h.mappings.ListByItem(c.Context(), itemID)
	case supplierID != "":
		out, err = h.mappings.ListBySupplier(c.Context(), supplierID)
	default:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "item_id o supplier_id es requerido"})
	}
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// BestMapping godoc
// @Summary      Mejor proveedor vigente para un ítem
// @Description  Preferido primero, luego menor precio, luego menor lead time.
// @Tags         supplier-items
// @Security     Bearer
// @Produce      json
// @Param        item_id  query  string  true  "Ítem (UUID)"
// @Success      200  {object}  dto.SupplierItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/supplier-items/best [get]
func (h *SupplierHandler) BestMapping(c *fiber.Ctx) error {
	itemID := c.Query("item_id")
	if itemID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "item_id es requerido"})
	}
	out, err := h.mappings.Best(c.Context(), itemID)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// GetMapping godoc
// @Summary      Obtener mapeo
// @Tags         supplier-items
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del mapeo"
// @Success      200  {object}  dto.SupplierItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/supplier-items/{id} [get]
func (h *SupplierHandler) GetMapping(c *fiber.Ctx) error {
	out, err := h.mappings.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// UpdateMapping godoc
// @Summary      Actualizar mapeo
// @Tags         supplier-items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                         true  "ID del mapeo"
// @Param        body  body  dto.UpdateSupplierItemRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.SupplierItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/supplier-items/{id} [patch]
func (h *SupplierHandler) UpdateMapping(c *fiber.Ctx) error {
	var in dto.UpdateSupplierItemRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.mappings.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// DeleteMapping godoc
// @Summary      Eliminar mapeo
// @Tags         supplier-items
// @Security     Bearer
// @Param        id   path  string  true  "ID del mapeo"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/supplier-items/{id} [delete]
func (h *SupplierHandler) DeleteMapping(c *fiber.Ctx) error {
	if err := h.mappings.Delete(c.Context(), c.Params("id")); err != nil {
		return handleError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
