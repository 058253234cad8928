package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/supply-chain-api/internal/application/dto"
	"github.com/jhoicas/supply-chain-api/internal/application/procurement"
)

// ProcurementHandler órdenes de compra y recepciones.
type ProcurementHandler struct {
	orders   *procurement.POUseCase
	receipts *procurement.GoodsReceiptUseCase
}

// NewProcurementHandler construye el handler.
func NewProcurementHandler(orders *procurement.POUseCase, receipts *procurement.GoodsReceiptUseCase) *ProcurementHandler {
	return &ProcurementHandler{orders: orders, receipts: receipts}
}

// Create godoc
// @Summary      Crear orden de compra
// @Description  Crea la orden en draft, o en pending_approval cuando submit=true. El total se recalcula con las líneas.
// @Tags         procurement
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePORequest  true  "Proveedor, tienda, fechas y líneas"
// @Success      201   {object}  dto.POResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/procurement [post]
func (h *ProcurementHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePORequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.orders.Create(c.Context(), GetUserID(c), in)
	if err != nil {
		return handleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar órdenes de compra
// @Tags         procurement
// @Security     Bearer
// @Produce      json
// @Param        status       query  string  false  "Estado"
// @Param        supplier_id  query  string  false  "Proveedor (UUID)"
// @Param        store_id     query  string  false  "Tienda (UUID)"
// @Param        limit        query  int     false  "Límite (default 20, max 100)"
// @Param        offset       query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.POListResponse
// @Router       /api/procurement [get]
func (h *ProcurementHandler) List(c *fiber.Ctx) error {
	var q dto.POListQuery
	if ok, err := parseQuery(c, &q); !ok {
		return err
	}
	out, err := h.orders.List(c.Context(), q)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// PendingApprovals godoc
// @Summary      Órdenes pendientes de aprobación
// @Tags         procurement
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.POResponse
// @Router       /api/procurement/pending-approvals [get]
func (h *ProcurementHandler) PendingApprovals(c *fiber.Ctx) error {
	out, err := h.orders.PendingApprovals(c.Context())
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener orden de compra
// @Tags         procurement
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.POResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/procurement/{id} [get]
func (h *ProcurementHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.orders.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Editar orden en draft o pending_approval
// @Tags         procurement
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "ID de la orden"
// @Param        body  body  dto.UpdatePORequest  true  "notes, expected_delivery_date"
// @Success      200   {object}  dto.POResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/procurement/{id} [patch]
func (h *ProcurementHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdatePORequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.orders.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar orden en draft
// @Tags         procurement
// @Security     Bearer
// @Param        id   path  string  true  "ID de la orden"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/procurement/{id} [delete]
func (h *ProcurementHandler) Delete(c *fiber.Ctx) error {
	if err := h.orders.Delete(c.Context(), c.Params("id")); err != nil {
		return handleError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Submit godoc
// @Summary      Enviar a aprobación (draft → pending_approval)
// @Tags         procurement
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.POResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/procurement/{id}/submit [post]
func (h *ProcurementHandler) Submit(c *fiber.Ctx) error {
	return h.respond(c)(h.orders.Submit(c.Context(), c.Params("id")))
}

// Approve godoc
// @Summary      Aprobar (pending_approval → approved)
// @Tags         procurement
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.POResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/procurement/{id}/approve [post]
func (h *ProcurementHandler) Approve(c *fiber.Ctx) error {
	return h.respond(c)(h.orders.Approve(c.Context(), c.Params("id"), GetUserID(c)))
}

// Reject godoc
// @Summary      Rechazar (pending_approval → cancelled)
// @Tags         procurement
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string               true   "ID de la orden"
// @Param        body  body  dto.RejectPORequest  false  "Motivo"
// @Success      200   {object}  dto.POResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/procurement/{id}/reject [post]
func (h *ProcurementHandler) Reject(c *fiber.Ctx) error {
	in, ok, err := optionalReason(c)
	if !ok {
		return err
	}
	return h.respond(c)(h.orders.Reject(c.Context(), c.Params("id"), GetUserID(c), in.Reason))
}

// Send godoc
// @Summary      Enviar al proveedor (approved → sent)
// @Description  Genera el XML de despacho y guarda su huella.
// @Tags         procurement
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.POResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/procurement/{id}/send [post]
func (h *ProcurementHandler) Send(c *fiber.Ctx) error {
	return h.respond(c)(h.orders.Send(c.Context(), c.Params("id")))
}

// Confirm godoc
// @Summary      Confirmación del proveedor (sent → confirmed)
// @Tags         procurement
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                true   "ID de la orden"
// @Param        body  body  dto.ConfirmPORequest  false  "Nueva fecha esperada y notas"
// @Success      200   {object}  dto.POResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/procurement/{id}/confirm [post]
func (h *ProcurementHandler) Confirm(c *fiber.Ctx) error {
	var in dto.ConfirmPORequest
	if len(c.Body()) > 0 {
		if ok, err := parseBody(c, &in); !ok {
			return err
		}
	}
	return h.respond(c)(h.orders.Confirm(c.Context(), c.Params("id"), GetUserID(c), in))
}

// Receive godoc
// @Summary      Marcar como recibida (confirmed → delivered)
// @Tags         procurement
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.POResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/procurement/{id}/receive [post]
func (h *ProcurementHandler) Receive(c *fiber.Ctx) error {
	return h.respond(c)(h.orders.Receive(c.Context(), c.Params("id"), GetUserID(c)))
}

// RejectReceipt godoc
// @Summary      Rechazar la entrega (confirmed → cancelled)
// @Tags         procurement
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string               true   "ID de la orden"
// @Param        body  body  dto.RejectPORequest  false  "Motivo"
// @Success      200   {object}  dto.POResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/procurement/{id}/reject-receipt [post]
func (h *ProcurementHandler) RejectReceipt(c *fiber.Ctx) error {
	in, ok, err := optionalReason(c)
	if !ok {
		return err
	}
	return h.respond(c)(h.orders.RejectReceipt(c.Context(), c.Params("id"), GetUserID(c), in.Reason))
}

// Cancel godoc
// @Summary      Cancelar orden no recibida
// @Tags         procurement
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.POResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/procurement/{id}/cancel [post]
func (h *ProcurementHandler) Cancel(c *fiber.Ctx) error {
	return h.respond(c)(h.orders.Cancel(c.Context(), c.Params("id")))
}

// PDF godoc
// @Summary      Descargar la orden en PDF
// @Tags         procurement
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/procurement/{id}/pdf [get]
func (h *ProcurementHandler) PDF(c *fiber.Ctx) error {
	body, filename, err := h.orders.PDF(c.Context(), c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}
	return sendAttachment(c, "application/pdf", filename, body)
}

// XML godoc
// @Summary      Descargar el documento de despacho XML
// @Tags         procurement
// @Security     Bearer
// @Produce      application/xml
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/procurement/{id}/xml [get]
func (h *ProcurementHandler) XML(c *fiber.Ctx) error {
	body, filename, err := h.orders.XML(c.Context(), c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}
	return sendAttachment(c, fiber.MIMEApplicationXMLCharsetUTF8, filename, body)
}

// CreateReceipt godoc
// @Summary      Registrar recepción de mercadería (GRN)
// @Description  Crea un lote in_stock y un movimiento RECEIPT por línea, y marca la orden como delivered.
// @Tags         goods-receipts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateGRNRequest  true  "po_id, received_date, líneas"
// @Success      201   {object}  dto.GRNResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/goods-receipts [post]
func (h *ProcurementHandler) CreateReceipt(c *fiber.Ctx) error {
	var in dto.CreateGRNRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.receipts.Create(c.Context(), GetUserID(c), in)
	if err != nil {
		return handleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListReceipts godoc
// @Summary      Listar recepciones
// @Tags         goods-receipts
// @Security     Bearer
// @Produce      json
// @Param        po_id   query  string  false  "Orden (UUID)"
// @Param        limit   query  int     false  "Límite (default 20, max 100)"
// @Param        offset  query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.GRNListResponse
// @Router       /api/goods-receipts [get]
func (h *ProcurementHandler) ListReceipts(c *fiber.Ctx) error {
	var q dto.GRNListQuery
	if ok, err := parseQuery(c, &q); !ok {
		return err
	}
	out, err := h.receipts.List(c.Context(), q)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// GetReceipt godoc
// @Summary      Obtener recepción
// @Tags         goods-receipts
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la recepción"
// @Success      200  {object}  dto.GRNResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/goods-receipts/{id} [get]
func (h *ProcurementHandler) GetReceipt(c *fiber.Ctx) error {
	out, err := h.receipts.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// DeleteReceipt godoc
// @Summary      Eliminar recepción
// @Tags         goods-receipts
// @Security     Bearer
// @Param        id   path  string  true  "ID de la recepción"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/goods-receipts/{id} [delete]
func (h *ProcurementHandler) DeleteReceipt(c *fiber.Ctx) error {
	if err := h.receipts.Delete(c.Context(), c.Params("id")); err != nil {
		return handleError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *ProcurementHandler) respond(c *fiber.Ctx) func(*dto.POResponse, error) error {
	return func(out *dto.POResponse, err error) error {
		if err != nil {
			return handleError(c, err)
		}
		return c.JSON(out)
	}
}

// optionalReason el cuerpo con motivo puede omitirse.
func optionalReason(c *fiber.Ctx) (dto.RejectPORequest, bool, error) {
	var in dto.RejectPORequest
	if len(c.Body()) == 0 {
		return in, true, nil
	}
	ok, err := parseBody(c, &in)
	return in, ok, err
}

func sendAttachment(c *fiber.Ctx, contentType, filename string, body []byte) error {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(body)
}
