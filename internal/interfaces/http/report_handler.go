package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/supply-chain-api/internal/application/analytics"
	"github.com/jhoicas/supply-chain-api/internal/application/dto"
)

const mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportHandler dashboard, reportes y notificaciones.
type ReportHandler struct {
	dashboard     *analytics.DashboardUseCase
	reports       *analytics.ReportUseCase
	notifications *analytics.NotificationUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(
	dashboard *analytics.DashboardUseCase,
	reports *analytics.ReportUseCase,
	notifications *analytics.NotificationUseCase,
) *ReportHandler {
	return &ReportHandler{dashboard: dashboard, reports: reports, notifications: notifications}
}

// Dashboard godoc
// @Summary      KPIs del tablero
// @Description  Valor del inventario, lotes bajos, aprobaciones pendientes, margen de 30 días e ítems bajo stock de seguridad.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardResponse
// @Router       /api/reports/dashboard [get]
func (h *ReportHandler) Dashboard(c *fiber.Ctx) error {
	out, err := h.dashboard.GetSummary(c.Context())
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// Inventory godoc
// @Summary      Reporte de inventario
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.InventoryReport
// @Router       /api/reports/inventory [get]
func (h *ReportHandler) Inventory(c *fiber.Ctx) error {
	out, err := h.reports.Inventory(c.Context())
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// Procurement godoc
// @Summary      Reporte de compras
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ProcurementReport
// @Router       /api/reports/procurement [get]
func (h *ReportHandler) Procurement(c *fiber.Ctx) error {
	out, err := h.reports.Procurement(c.Context())
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// Sales godoc
// @Summary      Reporte de ventas
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        store_id  query  string  false  "Tienda (UUID)"
// @Success      200  {object}  dto.SalesReport
// @Router       /api/reports/sales [get]
func (h *ReportHandler) Sales(c *fiber.Ctx) error {
	var q dto.ReportQuery
	if ok, err := parseQuery(c, &q); !ok {
		return err
	}
	out, err := h.reports.Sales(c.Context(), q.StoreID)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// LowStock godoc
// @Summary      Alertas de stock bajo
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.LowStockAlert
// @Router       /api/reports/low-stock [get]
func (h *ReportHandler) LowStock(c *fiber.Ctx) error {
	out, err := h.reports.LowStockAlerts(c.Context())
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// GrossProfit godoc
// @Summary      Margen bruto por ítem y por día
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to    query  string  false  "Hasta (YYYY-MM-DD)"
// @Success      200  {object}  dto.GrossProfitReport
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/gross-profit [get]
func (h *ReportHandler) GrossProfit(c *fiber.Ctx) error {
	var q dto.ReportQuery
	if ok, err := parseQuery(c, &q); !ok {
		return err
	}
	out, err := h.reports.GrossProfit(c.Context(), q)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// Expired godoc
// @Summary      Lotes vencidos o por vencer
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        days  query  int  false  "Ventana en días (default 7)"
// @Success      200  {array}  dto.ExpiredItem
// @Router       /api/reports/expired [get]
func (h *ReportHandler) Expired(c *fiber.Ctx) error {
	var q dto.ReportQuery
	if ok, err := parseQuery(c, &q); !ok {
		return err
	}
	out, err := h.reports.ExpiredItems(c.Context(), q.Days)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// Export godoc
// @Summary      Exportar reporte a Excel
// @Tags         reports
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        kind      path   string  true   "inventory | procurement | sales | low-stock | gross-profit | expired"
// @Param        store_id  query  string  false  "Tienda (UUID)"
// @Param        from      query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to        query  string  false  "Hasta (YYYY-MM-DD)"
// @Param        days      query  int     false  "Ventana en días para expired"
// @Success      200  {file}  binary
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/{kind}/export [get]
func (h *ReportHandler) Export(c *fiber.Ctx) error {
	var q dto.ReportQuery
	if ok, err := parseQuery(c, &q); !ok {
		return err
	}
	body, filename, err := h.reports.Export(c.Context(), c.Params("kind"), q)
	if err != nil {
		return handleError(c, err)
	}
	return sendAttachment(c, mimeXLSX, filename, body)
}

// Notifications godoc
// @Summary      Avisos del usuario según su rol
// @Tags         notifications
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.Notification
// @Router       /api/notifications [get]
func (h *ReportHandler) Notifications(c *fiber.Ctx) error {
	return c.JSON(h.notifications.List(c.Context(), GetUserID(c), GetRole(c)))
}
