// Package analytics contiene los casos de uso para reportes de negocio, el dashboard
// y las notificaciones por rol.
package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/supply-chain-api/internal/application/dto"
	"github.com/jhoicas/supply-chain-api/internal/application/inventory"
	"github.com/jhoicas/supply-chain-api/internal/domain/entity"
	"github.com/jhoicas/supply-chain-api/internal/domain/repository"
	"github.com/jhoicas/supply-chain-api/pkg/logger"
)

const (
	dashboardTopBelowSafety = 10 // ítems bajo stock de seguridad en el widget
	grossProfitWindowDays   = 30
)

// DashboardUseCase genera los KPIs del tablero.
//
// Fuente de datos: AnalyticsRepository (consultas read-only) más el calculador de stock.
type DashboardUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	orders        repository.PurchaseOrderRepository
	items         repository.ItemRepository
	stock         *inventory.StockCalculator
	log           *logger.Logger
	now           func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(
	analyticsRepo repository.AnalyticsRepository,
	orders repository.PurchaseOrderRepository,
	items repository.ItemRepository,
	stock *inventory.StockCalculator,
	log *logger.Logger,
) *DashboardUseCase {
	return &DashboardUseCase{
		analyticsRepo: analyticsRepo,
		orders:        orders,
		items:         items,
		stock:         stock,
		log:           log.Component("dashboard"),
		now:           time.Now,
	}
}

// GetSummary construye el DashboardResponse.
//
// Tres consultas en paralelo:
//  1. BatchViews              → valor del inventario, lotes bajos, riesgo de quiebre
//  2. CountByStatus(pending)  → aprobaciones pendientes
//  3. SalesTotalsSince(30d)   → ingresos, costo y margen
//
// Después recorre los ítems activos para el widget de stock de seguridad.
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardResponse, error) {
	now := uc.now()
	since := now.AddDate(0, 0, -grossProfitWindowDays)

	type batchesResult struct {
		views []repository.BatchView
		err   error
	}
	type countResult struct {
		n   int
		err error
	}
	type totalsResult struct {
		totals repository.SalesTotals
		err    error
	}

	batchesCh := make(chan batchesResult, 1)
	pendingCh := make(chan countResult, 1)
	totalsCh := make(chan totalsResult, 1)

	go func() {
		views, err := uc.analyticsRepo.BatchViews(ctx, repository.BatchViewFilter{})
		batchesCh <- batchesResult{views, err}
	}()
	go func() {
		n, err := uc.orders.CountByStatus(ctx, entity.POStatusPendingApproval)
		pendingCh <- countResult{n, err}
	}()
	go func() {
		t, err := uc.analyticsRepo.SalesTotalsSince(ctx, since)
		totalsCh <- totalsResult{t, err}
	}()

	batches := <-batchesCh
	pending := <-pendingCh
	totals := <-totalsCh

	if batches.err != nil {
		return nil, fmt.Errorf("dashboard: lotes: %w", batches.err)
	}
	if pending.err != nil {
		return nil, fmt.Errorf("dashboard: aprobaciones pendientes: %w", pending.err)
	}
	if totals.err != nil {
		return nil, fmt.Errorf("dashboard: ventas: %w", totals.err)
	}

	out := &dto.DashboardResponse{
		InventoryValue:   decimal.Zero,
		PendingApprovals: pending.n,
		GrossProfit:      summarize(totals.totals.Revenue, totals.totals.Cost),
	}
	out.GrossProfit.Period = fmt.Sprintf("%d days", grossProfitWindowDays)
	for _, b := range batches.views {
		if b.UnitCost.IsPositive() {
			out.InventoryValue = out.InventoryValue.Add(b.UnitCost.Mul(decimal.NewFromInt(int64(b.QuantityOnHand))))
		}
		if b.Status == entity.BatchLowStock || b.Status == entity.BatchOutOfStock {
			out.LowStockBatches++
		}
		if b.QuantityOnHand == 0 || b.Status == entity.BatchOutOfStock {
			out.StockOutRisk++
		}
	}
	out.InventoryValue = out.InventoryValue.Round(2)

	below, err := uc.belowSafety(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard: stock de seguridad: %w", err)
	}
	out.BelowSafetyTotal = len(below)
	if len(below) > dashboardTopBelowSafety {
		below = below[:dashboardTopBelowSafety]
	}
	out.BelowSafety = below
	return out, nil
}

// belowSafety ítems activos cuyas existencias en todas las tiendas no cubren el stock de seguridad,
// ordenados por déficit. Los errores por ítem se registran y se omiten.
func (uc *DashboardUseCase) belowSafety(ctx context.Context) ([]dto.BelowSafetyItem, error) {
	items, err := uc.items.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	out := []dto.BelowSafetyItem{}
	for _, item := range items {
		safety, err := uc.stock.SafetyStock(ctx, item, "")
		if err != nil {
			uc.log.Warn().Err(err).Str("item_id", item.ID).Msg("no se pudo calcular el stock de seguridad")
			continue
		}
		current, err := uc.stock.CurrentStock(ctx, item.ID, "")
		if err != nil {
			uc.log.Warn().Err(err).Str("item_id", item.ID).Msg("no se pudo calcular el stock actual")
			continue
		}
		if current >= safety.Value {
			continue
		}
		out = append(out, dto.BelowSafetyItem{
			ItemID:       item.ID,
			ItemName:     item.ItemName,
			SKU:          item.SKU,
			CurrentStock: current,
			SafetyStock:  safety.Value,
			Deficit:      safety.Value - current,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Deficit > out[j].Deficit })
	return out, nil
}

// summarize arma el resumen de margen; margen 0 cuando no hay ingresos.
func summarize(revenue, cost decimal.Decimal) dto.GrossProfitSummary {
	gp := revenue.Sub(cost)
	return dto.GrossProfitSummary{
		Revenue:     revenue.Round(2),
		Cost:        cost.Round(2),
		GrossProfit: gp.Round(2),
		MarginPct:   marginPct(revenue, gp),
	}
}

func marginPct(revenue, gp decimal.Decimal) decimal.Decimal {
	if !revenue.IsPositive() {
		return decimal.Zero
	}
	return gp.Div(revenue).Mul(decimal.NewFromInt(100)).Round(2)
}
