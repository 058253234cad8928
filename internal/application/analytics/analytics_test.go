package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/supply-chain-api/internal/application/dto"
	"github.com/jhoicas/supply-chain-api/internal/application/inventory"
	"github.com/jhoicas/supply-chain-api/internal/application/ports"
	"github.com/jhoicas/supply-chain-api/internal/domain"
	"github.com/jhoicas/supply-chain-api/internal/domain/entity"
	"github.com/jhoicas/supply-chain-api/internal/domain/repository"
	"github.com/jhoicas/supply-chain-api/internal/testutil/memrepo"
	"github.com/jhoicas/supply-chain-api/pkg/logger"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return now }

func intPtr(v int) *int { return &v }

type captureExporter struct{ sheets []ports.Sheet }

func (c *captureExporter) Export(sheets ...ports.Sheet) ([]byte, error) {
	c.sheets = append(c.sheets, sheets...)
	return []byte("xlsx"), nil
}

type failingAnalytics struct{ repository.AnalyticsRepository }

func (failingAnalytics) BatchViews(context.Context, repository.BatchViewFilter) ([]repository.BatchView, error) {
	return nil, errors.New("conexión perdida")
}

// fixture:
//
//	leche   S1  m1  20 u  in_stock   vence +20d
//	leche   S1  m2   3 u  low_stock  vence +2d
//	leche   S2  m3  15 u  in_stock   vence +1d (90% de vida útil consumida)
//	queso   S2  c1   0 u  out_of_stock
//	queso   S1  c2   4 u  low_stock  vencido ayer
//	mantequilla sin lotes
type fixture struct {
	db                   *memrepo.DB
	s1, s2               *entity.Store
	milk, cheese, butter *entity.Item
	m1, m2, m3, c1, c2   *entity.InventoryBatch
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	db := memrepo.New()
	f := &fixture{db: db}

	f.s1 = &entity.Store{ID: uuid.New().String(), Code: "S1", Name: "Centro", IsActive: true}
	f.s2 = &entity.Store{ID: uuid.New().String(), Code: "S2", Name: "Norte", IsActive: true}
	require.NoError(t, db.Stores().Create(ctx, f.s1))
	require.NoError(t, db.Stores().Create(ctx, f.s2))

	item := func(name, sku string, min, safety int) *entity.Item {
		it := &entity.Item{
			ID: uuid.New().String(), ItemName: name, SKU: sku, Unit: "unit",
			MinStockLevel: min, SafetyStock: intPtr(safety), StorageType: entity.StorageCold, IsActive: true,
		}
		require.NoError(t, db.Items().Create(ctx, it))
		return it
	}
	f.milk = item("Leche", "LEC-1", 10, 50)
	f.cheese = item("Queso", "QUE-1", 5, 5)
	f.butter = item("Mantequilla", "MAN-1", 10, 10)

	batch := func(it *entity.Item, st *entity.Store, no string, qty int, cost int64, status string, created, expiry time.Time) *entity.InventoryBatch {
		b := &entity.InventoryBatch{
			ID: uuid.New().String(), ItemID: it.ID, StoreID: st.ID, BatchNo: no, QuantityOnHand: qty,
			UnitCost: decimal.NewFromInt(cost), Status: status, CreatedAt: created, ExpiryDate: expiry,
		}
		require.NoError(t, db.Batches().Create(ctx, b))
		return b
	}
	f.m1 = batch(f.milk, f.s1, "M-1", 20, 2, entity.BatchInStock, now.AddDate(0, 0, -5), now.AddDate(0, 0, 20))
	f.m2 = batch(f.milk, f.s1, "M-2", 3, 2, entity.BatchLowStock, now.AddDate(0, 0, -5), now.AddDate(0, 0, 2))
	f.m3 = batch(f.milk, f.s2, "M-3", 15, 2, entity.BatchInStock, now.AddDate(0, 0, -9), now.AddDate(0, 0, 1))
	f.c1 = batch(f.cheese, f.s2, "Q-1", 0, 5, entity.BatchOutOfStock, now.AddDate(0, 0, -5), now.AddDate(0, 0, 30))
	f.c2 = batch(f.cheese, f.s1, "Q-2", 4, 5, entity.BatchLowStock, now.AddDate(0, 0, -20), now.AddDate(0, 0, -1))

	sale := func(it *entity.Item, st *entity.Store, qty int, total, cost int64, at time.Time) {
		require.NoError(t, db.Sales().Create(ctx, &entity.SalesTransaction{
			ID: uuid.New().String(), ItemID: it.ID, StoreID: st.ID, Quantity: qty,
			UnitPrice: decimal.NewFromInt(total / int64(qty)), TotalAmount: decimal.NewFromInt(total),
			TotalCost: decimal.NewFromInt(cost), GrossProfit: decimal.NewFromInt(total - cost), SaleDate: at,
		}))
	}
	sale(f.milk, f.s1, 2, 10, 4, now.AddDate(0, 0, -1))
	sale(f.cheese, f.s1, 1, 8, 5, now.AddDate(0, 0, -2))
	sale(f.milk, f.s2, 4, 20, 8, now.AddDate(0, 0, -40))

	return f
}

func (f *fixture) po(t *testing.T, status string, total int64) {
	t.Helper()
	require.NoError(t, f.db.PurchaseOrders().Create(context.Background(), &entity.PurchaseOrder{
		ID: uuid.New().String(), PONumber: uuid.New().String()[:8], Status: status,
		TotalAmount: decimal.NewFromInt(total), StoreID: f.s1.ID, OrderDate: now, CreatedAt: now,
		Items: []entity.PurchaseOrderItem{{ItemID: f.milk.ID, Quantity: 1, UnitPrice: decimal.NewFromInt(total)}},
	}))
}

func (f *fixture) reports() (*ReportUseCase, *captureExporter) {
	exp := &captureExporter{}
	uc := NewReportUseCase(f.db.Analytics(), exp)
	uc.now = fixedNow
	return uc, exp
}

// ──────────────────────────────────────────────────────────────────────────────
// Reportes
// ──────────────────────────────────────────────────────────────────────────────

func TestInventoryReport(t *testing.T) {
	f := newFixture(t)
	uc, _ := f.reports()
	r, err := uc.Inventory(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, r.TotalBatches)
	assert.Equal(t, 2, r.InStock)
	assert.Equal(t, 2, r.LowStock)
	assert.Equal(t, 1, r.OutOfStock)
	assert.Len(t, r.Batches, 5)
}

func TestProcurementReport(t *testing.T) {
	f := newFixture(t)
	f.po(t, entity.POStatusPendingApproval, 10)
	f.po(t, entity.POStatusSent, 30)
	uc, _ := f.reports()

	r, err := uc.Procurement(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, r.TotalOrders)
	assert.Equal(t, map[string]int{entity.POStatusPendingApproval: 1, entity.POStatusSent: 1}, r.ByStatus)
	assert.Equal(t, "40.00", r.TotalValue.StringFixed(2))
	assert.Equal(t, 1, r.Orders[0].LineCount)
	assert.Equal(t, "Centro", r.Orders[0].StoreName)
}

func TestSalesReport_PorTienda(t *testing.T) {
	f := newFixture(t)
	uc, _ := f.reports()

	r, err := uc.Sales(context.Background(), f.s1.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, r.TotalTransactions)
	assert.Equal(t, 3, r.TotalQuantity)
	assert.Equal(t, "18.00", r.TotalRevenue.StringFixed(2))
	assert.Equal(t, "Leche", r.Transactions[0].ItemName, "la venta más reciente primero")

	all, err := uc.Sales(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 3, all.TotalTransactions)
}

func TestLowStockAlerts_OrdenadasPorCantidad(t *testing.T) {
	f := newFixture(t)
	uc, _ := f.reports()
	list, err := uc.LowStockAlerts(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"Q-1", "M-2", "Q-2"}, []string{list[0].BatchNo, list[1].BatchNo, list[2].BatchNo})
	assert.Equal(t, 5, list[2].MinStockLevel)
}

func TestGrossProfit(t *testing.T) {
	f := newFixture(t)
	uc, _ := f.reports()
	ctx := context.Background()

	r, err := uc.GrossProfit(ctx, dto.ReportQuery{})
	require.NoError(t, err)
	assert.Equal(t, 3, r.Summary.TotalTransactions)
	assert.Equal(t, "38.00", r.Summary.Revenue.StringFixed(2))
	assert.Equal(t, "17.00", r.Summary.Cost.StringFixed(2))
	assert.Equal(t, "21.00", r.Summary.GrossProfit.StringFixed(2))
	assert.Equal(t, "55.26", r.Summary.MarginPct.StringFixed(2))

	require.Len(t, r.ByItem, 2)
	assert.Equal(t, f.milk.ID, r.ByItem[0].ItemID)
	assert.Equal(t, 6, r.ByItem[0].Quantity)
	assert.Equal(t, "60.00", r.ByItem[0].MarginPct.StringFixed(2))
	assert.Equal(t, "37.50", r.ByItem[1].MarginPct.StringFixed(2))

	require.Len(t, r.ByDate, 3)
	assert.Equal(t, now.AddDate(0, 0, -1).Format("2006-01-02"), r.ByDate[0].Date)
	assert.Len(t, r.Transactions, 3)

	recent, err := uc.GrossProfit(ctx, dto.ReportQuery{From: now.AddDate(0, 0, -3).Format("2006-01-02")})
	require.NoError(t, err)
	assert.Equal(t, "18.00", recent.Summary.Revenue.StringFixed(2))

	_, err = uc.GrossProfit(ctx, dto.ReportQuery{From: "2026-03-10", To: "2026-03-01"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGrossProfit_SinVentasMargenCero(t *testing.T) {
	uc := NewReportUseCase(memrepo.New().Analytics(), &captureExporter{})
	r, err := uc.GrossProfit(context.Background(), dto.ReportQuery{})
	require.NoError(t, err)
	assert.True(t, r.Summary.MarginPct.IsZero())
	assert.Empty(t, r.ByItem)
	assert.NotNil(t, r.Transactions)
}

func TestExpiredItems(t *testing.T) {
	f := newFixture(t)
	uc, _ := f.reports()

	list, err := uc.ExpiredItems(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, list, 3, "sin existencias o con vencimiento lejano no aparecen")

	assert.Equal(t, "Q-2", list[0].BatchNo)
	assert.Equal(t, -1, list[0].DaysUntilExpiry)
	assert.Equal(t, "expired", list[0].Status)
	assert.Equal(t, "M-3", list[1].BatchNo)
	assert.Equal(t, "near_expiry", list[1].Status)
	assert.Equal(t, "M-2", list[2].BatchNo)
	assert.Equal(t, 2, list[2].DaysUntilExpiry)

	wide, err := uc.ExpiredItems(context.Background(), 30)
	require.NoError(t, err)
	assert.Len(t, wide, 4)
}

func TestExport(t *testing.T) {
	f := newFixture(t)
	uc, exp := f.reports()
	ctx := context.Background()

	data, name, err := uc.Export(ctx, ReportLowStock, dto.ReportQuery{})
	require.NoError(t, err)
	assert.Equal(t, "xlsx", string(data))
	assert.Equal(t, "low-stock_20260310.xlsx", name)
	require.Len(t, exp.sheets, 1)
	assert.Equal(t, "Stock bajo", exp.sheets[0].Name)
	assert.Len(t, exp.sheets[0].Rows, 3)

	_, _, err = uc.Export(ctx, ReportGrossProfit, dto.ReportQuery{})
	require.NoError(t, err)
	gp := exp.sheets[1]
	assert.Len(t, gp.Rows, 3, "dos ítems más la fila de totales")
	assert.Equal(t, "TOTAL", gp.Rows[2][0])

	for _, kind := range []string{ReportInventory, ReportProcurement, ReportSales, ReportExpired} {
		_, _, err := uc.Export(ctx, kind, dto.ReportQuery{})
		assert.NoError(t, err, kind)
	}

	_, _, err = uc.Export(ctx, "payroll", dto.ReportQuery{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Dashboard
// ──────────────────────────────────────────────────────────────────────────────

func TestDashboard(t *testing.T) {
	f := newFixture(t)
	f.po(t, entity.POStatusPendingApproval, 10)
	db := f.db
	calc := inventory.NewStockCalculator(db.Batches(), db.Sales(), db.SupplierItems(), db.Suppliers(), 7)
	uc := NewDashboardUseCase(db.Analytics(), db.PurchaseOrders(), db.Items(), calc, logger.Nop())
	uc.now = fixedNow

	d, err := uc.GetSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "96.00", d.InventoryValue.StringFixed(2))
	assert.Equal(t, 3, d.LowStockBatches)
	assert.Equal(t, 1, d.StockOutRisk)
	assert.Equal(t, 1, d.PendingApprovals)

	assert.Equal(t, "30 days", d.GrossProfit.Period)
	assert.Equal(t, "18.00", d.GrossProfit.Revenue.StringFixed(2))
	assert.Equal(t, "50.00", d.GrossProfit.MarginPct.StringFixed(2))

	require.Equal(t, 3, d.BelowSafetyTotal)
	require.Len(t, d.BelowSafety, 3)
	assert.Equal(t, f.milk.ID, d.BelowSafety[0].ItemID)
	assert.Equal(t, 12, d.BelowSafety[0].Deficit)
	assert.Equal(t, f.butter.ID, d.BelowSafety[1].ItemID)
	assert.Equal(t, f.cheese.ID, d.BelowSafety[2].ItemID)
	assert.Equal(t, 1, d.BelowSafety[2].Deficit)
}

// ──────────────────────────────────────────────────────────────────────────────
// Notificaciones
// ──────────────────────────────────────────────────────────────────────────────

func notificationTypes(list []dto.Notification) []string {
	out := make([]string, 0, len(list))
	for _, n := range list {
		out = append(out, n.Type)
	}
	return out
}

func TestNotifications_PorRol(t *testing.T) {
	f := newFixture(t)
	f.po(t, entity.POStatusPendingApproval, 10)
	require.NoError(t, f.db.StockRequests().Create(context.Background(), &entity.StockRequest{
		ID: uuid.New().String(), StoreID: f.s1.ID, ItemID: f.butter.ID, RequestedQty: 5,
		Status: entity.StockRequestRequested, Priority: entity.PriorityMedium, CreatedAt: now,
	}))
	uc := NewNotificationUseCase(f.db.Analytics(), f.db.PurchaseOrders(), f.db.StockRequests(), logger.Nop())
	uc.now = fixedNow
	ctx := context.Background()

	manager := uc.List(ctx, "u-1", entity.RoleStoreManager)
	assert.Equal(t, []string{"po_approval", "out_of_stock", "expiry_warning", "low_stock"}, notificationTypes(manager))
	assert.Equal(t, 1, manager[0].Count)
	assert.Equal(t, "1 purchase order waiting for your approval", manager[0].Message)
	assert.Equal(t, 2, manager[3].Count)
	assert.Equal(t, "2 items running low on stock", manager[3].Message)

	procurer := uc.List(ctx, "u-2", entity.RoleProcurementStaff)
	assert.Equal(t, []string{"out_of_stock", "expiry_warning", "low_stock", "stock_request"}, notificationTypes(procurer))

	admin := uc.List(ctx, "u-3", entity.RoleAdmin)
	assert.Len(t, admin, 5)

	staff := uc.List(ctx, "u-4", entity.RoleInventoryStaff)
	assert.Equal(t, []string{"out_of_stock", "expiry_warning", "low_stock"}, notificationTypes(staff))
}

func TestNotifications_ErrorDevuelveListaVacia(t *testing.T) {
	db := memrepo.New()
	uc := NewNotificationUseCase(failingAnalytics{db.Analytics()}, db.PurchaseOrders(), db.StockRequests(), logger.Nop())
	list := uc.List(context.Background(), "u-1", entity.RoleAdmin)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}
