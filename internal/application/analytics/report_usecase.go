package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/supply-chain-api/internal/application/dto"
	"github.com/jhoicas/supply-chain-api/internal/application/inventory"
	"github.com/jhoicas/supply-chain-api/internal/application/ports"
	"github.com/jhoicas/supply-chain-api/internal/domain"
	"github.com/jhoicas/supply-chain-api/internal/domain/entity"
	domaininv "github.com/jhoicas/supply-chain-api/internal/domain/inventory"
	"github.com/jhoicas/supply-chain-api/internal/domain/repository"
)

const (
	defaultExpiryDays      = 7
	grossProfitLastN       = 100
	reportDateLayout       = "2006-01-02"
	expiredBatchesOrdering = "b.expiry_date ASC"
)

// Tipos de reporte exportables.
const (
	ReportInventory   = "inventory"
	ReportProcurement = "procurement"
	ReportSales       = "sales"
	ReportLowStock    = "low-stock"
	ReportGrossProfit = "gross-profit"
	ReportExpired     = "expired"
)

// ReportUseCase reportes operativos y su exportación a hoja de cálculo.
type ReportUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	exporter      ports.SpreadsheetExporter
	now           func() time.Time
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(analyticsRepo repository.AnalyticsRepository, exporter ports.SpreadsheetExporter) *ReportUseCase {
	return &ReportUseCase{analyticsRepo: analyticsRepo, exporter: exporter, now: time.Now}
}

// Inventory conteos por estado y todos los lotes.
func (uc *ReportUseCase) Inventory(ctx context.Context) (*dto.InventoryReport, error) {
	views, err := uc.analyticsRepo.BatchViews(ctx, repository.BatchViewFilter{})
	if err != nil {
		return nil, fmt.Errorf("reports: inventario: %w", err)
	}
	out := &dto.InventoryReport{TotalBatches: len(views), Batches: make([]dto.BatchReportRow, 0, len(views))}
	for _, v := range views {
		switch v.Status {
		case entity.BatchInStock:
			out.InStock++
		case entity.BatchLowStock:
			out.LowStock++
		case entity.BatchOutOfStock:
			out.OutOfStock++
		case entity.BatchExpired:
			out.Expired++
		}
		out.Batches = append(out.Batches, toBatchRow(v))
	}
	return out, nil
}

// Procurement conteos por estado, valor total y órdenes.
func (uc *ReportUseCase) Procurement(ctx context.Context) (*dto.ProcurementReport, error) {
	views, err := uc.analyticsRepo.POViews(ctx)
	if err != nil {
		return nil, fmt.Errorf("reports: compras: %w", err)
	}
	out := &dto.ProcurementReport{
		TotalOrders: len(views),
		ByStatus:    map[string]int{},
		TotalValue:  decimal.Zero,
		Orders:      make([]dto.POReportRow, 0, len(views)),
	}
	for _, v := range views {
		out.ByStatus[v.Status]++
		out.TotalValue = out.TotalValue.Add(v.TotalAmount)
		out.Orders = append(out.Orders, dto.POReportRow{
			ID:                   v.ID,
			PONumber:             v.PONumber,
			Status:               v.Status,
			SupplierID:           v.SupplierID,
			SupplierName:         v.SupplierName,
			StoreID:              v.StoreID,
			StoreName:            v.StoreName,
			TotalAmount:          v.TotalAmount,
			LineCount:            v.LineCount,
			OrderDate:            v.OrderDate,
			ExpectedDeliveryDate: v.ExpectedDeliveryDate,
		})
	}
	return out, nil
}

// Sales ventas de una tienda (o todas) con totales.
func (uc *ReportUseCase) Sales(ctx context.Context, storeID string) (*dto.SalesReport, error) {
	views, err := uc.analyticsRepo.SaleViews(ctx, repository.SaleViewFilter{StoreID: storeID})
	if err != nil {
		return nil, fmt.Errorf("reports: ventas: %w", err)
	}
	out := &dto.SalesReport{
		TotalTransactions: len(views),
		TotalRevenue:      decimal.Zero,
		Transactions:      make([]dto.SaleReportRow, 0, len(views)),
	}
	for _, v := range views {
		out.TotalRevenue = out.TotalRevenue.Add(v.TotalAmount)
		out.TotalQuantity += v.Quantity
		out.Transactions = append(out.Transactions, toSaleRow(v))
	}
	out.TotalRevenue = out.TotalRevenue.Round(2)
	return out, nil
}

// LowStockAlerts lotes en low_stock u out_of_stock, de menor a mayor cantidad.
func (uc *ReportUseCase) LowStockAlerts(ctx context.Context) ([]dto.LowStockAlert, error) {
	views, err := uc.analyticsRepo.BatchViews(ctx, repository.BatchViewFilter{
		Statuses: []string{entity.BatchLowStock, entity.BatchOutOfStock},
		OrderBy:  "b.quantity_on_hand ASC",
	})
	if err != nil {
		return nil, fmt.Errorf("reports: stock bajo: %w", err)
	}
	out := make([]dto.LowStockAlert, 0, len(views))
	for _, v := range views {
		out = append(out, dto.LowStockAlert{
			ItemID:        v.ItemID,
			ItemName:      v.ItemName,
			SKU:           v.SKU,
			BatchNo:       v.BatchNo,
			StoreID:       v.StoreID,
			StoreName:     v.StoreName,
			CurrentStock:  v.QuantityOnHand,
			MinStockLevel: v.MinStockLevel,
			Status:        v.Status,
		})
	}
	return out, nil
}

// GrossProfit resumen, agregados por ítem y por día y las últimas ventas del rango.
func (uc *ReportUseCase) GrossProfit(ctx context.Context, q dto.ReportQuery) (*dto.GrossProfitReport, error) {
	from, err := inventory.ParseDate(q.From, false)
	if err != nil {
		return nil, err
	}
	to, err := inventory.ParseDate(q.To, true)
	if err != nil {
		return nil, err
	}
	if from != nil && to != nil && from.After(*to) {
		return nil, fmt.Errorf("%w: from debe ser anterior a to", domain.ErrInvalidInput)
	}
	views, err := uc.analyticsRepo.SaleViews(ctx, repository.SaleViewFilter{StoreID: q.StoreID, From: from, To: to})
	if err != nil {
		return nil, fmt.Errorf("reports: utilidad bruta: %w", err)
	}

	revenue, cost := decimal.Zero, decimal.Zero
	byItem := map[string]*dto.GrossProfitByItem{}
	byDate := map[string]*dto.GrossProfitByDate{}
	for _, v := range views {
		revenue = revenue.Add(v.TotalAmount)
		cost = cost.Add(v.TotalCost)

		it, ok := byItem[v.ItemID]
		if !ok {
			it = &dto.GrossProfitByItem{ItemID: v.ItemID, ItemName: v.ItemName, SKU: v.SKU}
			byItem[v.ItemID] = it
		}
		it.Quantity += v.Quantity
		it.Revenue = it.Revenue.Add(v.TotalAmount)
		it.Cost = it.Cost.Add(v.TotalCost)

		day := v.SaleDate.Format(reportDateLayout)
		d, ok := byDate[day]
		if !ok {
			d = &dto.GrossProfitByDate{Date: day}
			byDate[day] = d
		}
		d.Quantity += v.Quantity
		d.Revenue = d.Revenue.Add(v.TotalAmount)
		d.Cost = d.Cost.Add(v.TotalCost)
	}

	out := &dto.GrossProfitReport{
		Summary:      summarize(revenue, cost),
		ByItem:       make([]dto.GrossProfitByItem, 0, len(byItem)),
		ByDate:       make([]dto.GrossProfitByDate, 0, len(byDate)),
		Transactions: []dto.SaleReportRow{},
	}
	out.Summary.TotalTransactions = len(views)
	for _, it := range byItem {
		gp := it.Revenue.Sub(it.Cost)
		it.GrossProfit = gp.Round(2)
		it.MarginPct = marginPct(it.Revenue, gp)
		it.Revenue, it.Cost = it.Revenue.Round(2), it.Cost.Round(2)
		out.ByItem = append(out.ByItem, *it)
	}
	sort.Slice(out.ByItem, func(i, j int) bool {
		if !out.ByItem[i].GrossProfit.Equal(out.ByItem[j].GrossProfit) {
			return out.ByItem[i].GrossProfit.GreaterThan(out.ByItem[j].GrossProfit)
		}
		return out.ByItem[i].ItemID < out.ByItem[j].ItemID
	})
	for _, d := range byDate {
		gp := d.Revenue.Sub(d.Cost)
		d.GrossProfit = gp.Round(2)
		d.MarginPct = marginPct(d.Revenue, gp)
		d.Revenue, d.Cost = d.Revenue.Round(2), d.Cost.Round(2)
		out.ByDate = append(out.ByDate, *d)
	}
	sort.Slice(out.ByDate, func(i, j int) bool { return out.ByDate[i].Date > out.ByDate[j].Date })

	// SaleViews ya viene ordenado por fecha descendente.
	for i, v := range views {
		if i == grossProfitLastN {
			break
		}
		out.Transactions = append(out.Transactions, toSaleRow(v))
	}
	return out, nil
}

// ExpiredItems lotes con existencias que vencen dentro de days días (7 por defecto), incluidos los ya vencidos.
func (uc *ReportUseCase) ExpiredItems(ctx context.Context, days int) ([]dto.ExpiredItem, error) {
	if days <= 0 {
		days = defaultExpiryDays
	}
	now := uc.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	threshold := today.AddDate(0, 0, days+1)
	minQty := 1
	views, err := uc.analyticsRepo.BatchViews(ctx, repository.BatchViewFilter{
		MinQty:         &minQty,
		ExpiringBefore: &threshold,
		OrderBy:        expiredBatchesOrdering,
	})
	if err != nil {
		return nil, fmt.Errorf("reports: vencimientos: %w", err)
	}
	out := make([]dto.ExpiredItem, 0, len(views))
	for _, v := range views {
		left := domaininv.DaysUntilExpiry(v.ExpiryDate, now)
		out = append(out, dto.ExpiredItem{
			ItemID:          v.ItemID,
			ItemName:        v.ItemName,
			SKU:             v.SKU,
			BatchNo:         v.BatchNo,
			StoreName:       v.StoreName,
			ExpiryDate:      v.ExpiryDate,
			DaysUntilExpiry: left,
			QuantityOnHand:  v.QuantityOnHand,
			Status:          domaininv.ExpiryStatus(left),
		})
	}
	return out, nil
}

// Export genera el xlsx del reporte kind. Devuelve el contenido y el nombre de archivo.
func (uc *ReportUseCase) Export(ctx context.Context, kind string, q dto.ReportQuery) ([]byte, string, error) {
	sheet, err := uc.sheet(ctx, kind, q)
	if err != nil {
		return nil, "", err
	}
	data, err := uc.exporter.Export(sheet)
	if err != nil {
		return nil, "", fmt.Errorf("reports: exportar %s: %w", kind, err)
	}
	return data, fmt.Sprintf("%s_%s.xlsx", kind, uc.now().Format("20060102")), nil
}

func (uc *ReportUseCase) sheet(ctx context.Context, kind string, q dto.ReportQuery) (ports.Sheet, error) {
	switch kind {
	case ReportInventory:
		r, err := uc.Inventory(ctx)
		if err != nil {
			return ports.Sheet{}, err
		}
		s := ports.Sheet{Name: "Inventario", Headers: []string{
			"Lote", "SKU", "Ítem", "Tienda", "Cantidad", "Stock mínimo", "Costo unitario", "Temperatura", "Estado", "Vencimiento",
		}}
		for _, b := range r.Batches {
			var temp any
			if b.Temperature != nil {
				temp = *b.Temperature
			}
			s.Rows = append(s.Rows, []any{
				b.BatchNo, b.SKU, b.ItemName, b.StoreName, b.QuantityOnHand, b.MinStockLevel,
				b.UnitCost.InexactFloat64(), temp, b.Status, b.ExpiryDate.Format(reportDateLayout),
			})
		}
		return s, nil

	case ReportProcurement:
		r, err := uc.Procurement(ctx)
		if err != nil {
			return ports.Sheet{}, err
		}
		s := ports.Sheet{Name: "Compras", Headers: []string{
			"Orden", "Estado", "Proveedor", "Tienda", "Líneas", "Total", "Fecha", "Entrega esperada",
		}}
		for _, o := range r.Orders {
			s.Rows = append(s.Rows, []any{
				o.PONumber, o.Status, o.SupplierName, o.StoreName, o.LineCount, o.TotalAmount.InexactFloat64(),
				o.OrderDate.Format(reportDateLayout), o.ExpectedDeliveryDate.Format(reportDateLayout),
			})
		}
		return s, nil

	case ReportSales:
		r, err := uc.Sales(ctx, q.StoreID)
		if err != nil {
			return ports.Sheet{}, err
		}
		return salesSheet("Ventas", r.Transactions), nil

	case ReportLowStock:
		list, err := uc.LowStockAlerts(ctx)
		if err != nil {
			return ports.Sheet{}, err
		}
		s := ports.Sheet{Name: "Stock bajo", Headers: []string{"SKU", "Ítem", "Lote", "Tienda", "Cantidad", "Stock mínimo", "Estado"}}
		for _, a := range list {
			s.Rows = append(s.Rows, []any{a.SKU, a.ItemName, a.BatchNo, a.StoreName, a.CurrentStock, a.MinStockLevel, a.Status})
		}
		return s, nil

	case ReportGrossProfit:
		r, err := uc.GrossProfit(ctx, q)
		if err != nil {
			return ports.Sheet{}, err
		}
		s := ports.Sheet{Name: "Utilidad bruta", Headers: []string{"SKU", "Ítem", "Cantidad", "Ingresos", "Costo", "Utilidad", "Margen %"}}
		for _, it := range r.ByItem {
			s.Rows = append(s.Rows, []any{
				it.SKU, it.ItemName, it.Quantity, it.Revenue.InexactFloat64(), it.Cost.InexactFloat64(),
				it.GrossProfit.InexactFloat64(), it.MarginPct.InexactFloat64(),
			})
		}
		s.Rows = append(s.Rows, []any{
			"TOTAL", "", "", r.Summary.Revenue.InexactFloat64(), r.Summary.Cost.InexactFloat64(),
			r.Summary.GrossProfit.InexactFloat64(), r.Summary.MarginPct.InexactFloat64(),
		})
		return s, nil

	case ReportExpired:
		list, err := uc.ExpiredItems(ctx, q.Days)
		if err != nil {
			return ports.Sheet{}, err
		}
		s := ports.Sheet{Name: "Vencimientos", Headers: []string{"SKU", "Ítem", "Lote", "Tienda", "Vencimiento", "Días", "Cantidad", "Estado"}}
		for _, e := range list {
			s.Rows = append(s.Rows, []any{
				e.SKU, e.ItemName, e.BatchNo, e.StoreName, e.ExpiryDate.Format(reportDateLayout),
				e.DaysUntilExpiry, e.QuantityOnHand, e.Status,
			})
		}
		return s, nil
	}
	return ports.Sheet{}, fmt.Errorf("%w: reporte desconocido %q", domain.ErrInvalidInput, kind)
}

func salesSheet(name string, rows []dto.SaleReportRow) ports.Sheet {
	s := ports.Sheet{Name: name, Headers: []string{
		"Fecha", "SKU", "Ítem", "Tienda", "Cantidad", "Precio", "Total", "Costo", "Utilidad", "Cliente",
	}}
	for _, t := range rows {
		s.Rows = append(s.Rows, []any{
			t.SaleDate.Format(reportDateLayout), t.SKU, t.ItemName, t.StoreName, t.Quantity,
			t.UnitPrice.InexactFloat64(), t.TotalAmount.InexactFloat64(), t.TotalCost.InexactFloat64(),
			t.GrossProfit.InexactFloat64(), t.CustomerName,
		})
	}
	return s
}

func toBatchRow(v repository.BatchView) dto.BatchReportRow {
	return dto.BatchReportRow{
		BatchID:        v.BatchID,
		BatchNo:        v.BatchNo,
		ItemID:         v.ItemID,
		ItemName:       v.ItemName,
		SKU:            v.SKU,
		StoreID:        v.StoreID,
		StoreName:      v.StoreName,
		QuantityOnHand: v.QuantityOnHand,
		MinStockLevel:  v.MinStockLevel,
		UnitCost:       v.UnitCost,
		Temperature:    v.Temperature,
		Status:         v.Status,
		ExpiryDate:     v.ExpiryDate,
	}
}

func toSaleRow(v repository.SaleView) dto.SaleReportRow {
	return dto.SaleReportRow{
		ID:           v.ID,
		ItemID:       v.ItemID,
		ItemName:     v.ItemName,
		SKU:          v.SKU,
		StoreID:      v.StoreID,
		StoreName:    v.StoreName,
		Quantity:     v.Quantity,
		UnitPrice:    v.UnitPrice,
		TotalAmount:  v.TotalAmount,
		TotalCost:    v.TotalCost,
		GrossProfit:  v.GrossProfit,
		CustomerName: v.CustomerName,
		SaleDate:     v.SaleDate,
	}
}
