package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/supply-chain-api/internal/application/dto"
	"github.com/jhoicas/supply-chain-api/internal/domain"
	"github.com/jhoicas/supply-chain-api/internal/domain/entity"
	"github.com/jhoicas/supply-chain-api/internal/domain/repository"
	"github.com/jhoicas/supply-chain-api/internal/testutil/memrepo"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return now }

type fixture struct {
	db    *memrepo.DB
	item  *entity.Item
	store *entity.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := memrepo.New()
	ctx := context.Background()
	item := &entity.Item{
		ID: uuid.New().String(), ItemName: "Leche entera", SKU: "LEC-001", Unit: "L",
		MinStockLevel: 5, StorageType: entity.StorageCold, IsActive: true,
	}
	store := &entity.Store{ID: uuid.New().String(), Code: "ST-01", Name: "Centro", IsActive: true}
	require.NoError(t, db.Items().Create(ctx, item))
	require.NoError(t, db.Stores().Create(ctx, store))
	return &fixture{db: db, item: item, store: store}
}

func (f *fixture) batch(t *testing.T, no string, qty int, cost int64, expiry time.Time, status string) *entity.InventoryBatch {
	t.Helper()
	b := &entity.InventoryBatch{
		ID: uuid.New().String(), ItemID: f.item.ID, StoreID: f.store.ID, BatchNo: no,
		ExpiryDate: expiry, QuantityOnHand: qty, UnitCost: decimal.NewFromInt(cost),
		Status: status, CreatedAt: now.AddDate(0, 0, -5),
	}
	require.NoError(t, f.db.Batches().Create(context.Background(), b))
	return b
}

func (f *fixture) qty(t *testing.T, id string) (int, string) {
	t.Helper()
	b, err := f.db.Batches().GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, b)
	return b.QuantityOnHand, b.Status
}

// ──────────────────────────────────────────────────────────────────────────────
// Ventas FIFO
// ──────────────────────────────────────────────────────────────────────────────

func TestSalesCreate_ConsumeFIFOPorVencimiento(t *testing.T) {
	f := newFixture(t)
	later := f.batch(t, "L-LATE", 5, 2, now.AddDate(0, 0, 30), entity.BatchInStock)
	sooner := f.batch(t, "L-SOON", 8, 3, now.AddDate(0, 0, 10), entity.BatchInStock)
	expired := f.batch(t, "L-OLD", 20, 1, now.AddDate(0, 0, -2), entity.BatchInStock)

	uc := NewSalesUseCase(f.db.TxRunner(), f.db.Sales())
	uc.now = fixedNow

	out, err := uc.Create(context.Background(), "u-1", dto.CreateSaleRequest{
		ItemID: f.item.ID, StoreID: f.store.ID, Quantity: 10, UnitPrice: decimal.NewFromInt(5),
	})
	require.NoError(t, err)

	require.Len(t, out.Allocations, 2)
	assert.Equal(t, sooner.ID, out.Allocations[0].BatchID)
	assert.Equal(t, 8, out.Allocations[0].Quantity)
	assert.Equal(t, later.ID, out.Allocations[1].BatchID)
	assert.Equal(t, 2, out.Allocations[1].Quantity)

	assert.Equal(t, "50.00", out.TotalAmount.StringFixed(2))
	assert.Equal(t, "28.00", out.TotalCost.StringFixed(2))
	assert.Equal(t, "22.00", out.GrossProfit.StringFixed(2))
	assert.Equal(t, "2.80", out.CostPrice.StringFixed(2))

	q, status := f.qty(t, sooner.ID)
	assert.Equal(t, 0, q)
	assert.Equal(t, entity.BatchOutOfStock, status)
	q, status = f.qty(t, later.ID)
	assert.Equal(t, 3, q)
	assert.Equal(t, entity.BatchLowStock, status)
	q, _ = f.qty(t, expired.ID)
	assert.Equal(t, 20, q, "un lote vencido no se vende")

	txs := f.db.Transactions().All()
	require.Len(t, txs, 2)
	for _, tx := range txs {
		assert.Equal(t, entity.TxIssue, tx.Type)
		assert.Equal(t, entity.RefSales, tx.ReferenceType)
		assert.Equal(t, out.ID, tx.ReferenceID)
		assert.Negative(t, tx.Quantity)
	}
}

func TestSalesCreate_StockInsuficienteNoModificaNada(t *testing.T) {
	f := newFixture(t)
	b := f.batch(t, "L-1", 5, 2, now.AddDate(0, 0, 10), entity.BatchInStock)

	uc := NewSalesUseCase(f.db.TxRunner(), f.db.Sales())
	uc.now = fixedNow

	_, err := uc.Create(context.Background(), "u-1", dto.CreateSaleRequest{
		ItemID: f.item.ID, StoreID: f.store.ID, Quantity: 6, UnitPrice: decimal.NewFromInt(5),
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	q, _ := f.qty(t, b.ID)
	assert.Equal(t, 5, q)
	assert.Empty(t, f.db.Transactions().All())
	sales, err := f.db.Sales().List(context.Background(), repository.SalesFilter{})
	require.NoError(t, err)
	assert.Empty(t, sales)
}

func TestSalesCreate_ValidaEntrada(t *testing.T) {
	f := newFixture(t)
	uc := NewSalesUseCase(f.db.TxRunner(), f.db.Sales())

	_, err := uc.Create(context.Background(), "u-1", dto.CreateSaleRequest{ItemID: f.item.ID, StoreID: f.store.ID})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(context.Background(), "u-1", dto.CreateSaleRequest{
		ItemID: uuid.New().String(), StoreID: f.store.ID, Quantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSalesList_FiltraPorFechas(t *testing.T) {
	f := newFixture(t)
	f.batch(t, "L-1", 50, 1, now.AddDate(0, 1, 0), entity.BatchInStock)
	uc := NewSalesUseCase(f.db.TxRunner(), f.db.Sales())
	uc.now = fixedNow

	for _, d := range []time.Time{now.AddDate(0, 0, -3), now.AddDate(0, 0, -1), now} {
		d := d
		_, err := uc.Create(context.Background(), "u-1", dto.CreateSaleRequest{
			ItemID: f.item.ID, StoreID: f.store.ID, Quantity: 1, UnitPrice: decimal.NewFromInt(2), SaleDate: &d,
		})
		require.NoError(t, err)
	}

	out, err := uc.List(context.Background(), dto.SaleListQuery{From: now.AddDate(0, 0, -1).Format("2006-01-02")})
	require.NoError(t, err)
	assert.Len(t, out.Items, 2)

	_, err = uc.List(context.Background(), dto.SaleListQuery{From: "10/03/2026"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Ajuste administrativo
// ──────────────────────────────────────────────────────────────────────────────

func TestAdjust_CreaLoteNuevo(t *testing.T) {
	f := newFixture(t)
	uc := NewAdjustUseCase(f.db.TxRunner())
	uc.now = fixedNow

	expiry := now.AddDate(0, 0, 20)
	cost := decimal.NewFromInt(4)
	out, err := uc.Adjust(context.Background(), "admin", dto.AdjustInventoryRequest{
		ItemID: f.item.ID, StoreID: f.store.ID, BatchNo: "ADJ-1", QuantityChange: 12,
		ExpiryDate: &expiry, UnitCost: &cost,
	})
	require.NoError(t, err)
	assert.True(t, out.Created)
	assert.Equal(t, 12, out.Batch.QuantityOnHand)
	assert.Equal(t, entity.BatchInStock, out.Batch.Status)

	txs := f.db.Transactions().All()
	require.Len(t, txs, 1)
	assert.Equal(t, entity.TxAdjustment, txs[0].Type)
	assert.Equal(t, 12, txs[0].Quantity)
	assert.Equal(t, "Ajuste manual de inventario", txs[0].Notes)
	assert.Equal(t, out.TransactionID, txs[0].ID)
}

func TestAdjust_LoteNuevoSinVencimiento(t *testing.T) {
	f := newFixture(t)
	uc := NewAdjustUseCase(f.db.TxRunner())
	_, err := uc.Adjust(context.Background(), "admin", dto.AdjustInventoryRequest{
		ItemID: f.item.ID, StoreID: f.store.ID, BatchNo: "ADJ-1", QuantityChange: 3,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAdjust_IncrementoRecalculaCostoPromedio(t *testing.T) {
	f := newFixture(t)
	b := f.batch(t, "L-1", 10, 2, now.AddDate(0, 0, 10), entity.BatchInStock)
	uc := NewAdjustUseCase(f.db.TxRunner())
	uc.now = fixedNow

	cost := decimal.NewFromInt(4)
	out, err := uc.Adjust(context.Background(), "admin", dto.AdjustInventoryRequest{
		ItemID: f.item.ID, StoreID: f.store.ID, BatchNo: b.BatchNo, QuantityChange: 10, UnitCost: &cost,
	})
	require.NoError(t, err)
	assert.False(t, out.Created)
	assert.Equal(t, 20, out.Batch.QuantityOnHand)
	assert.Equal(t, "3.0000", out.Batch.UnitCost.StringFixed(4))
}

func TestAdjust_Decremento(t *testing.T) {
	f := newFixture(t)
	b := f.batch(t, "L-1", 6, 2, now.AddDate(0, 0, 10), entity.BatchInStock)
	uc := NewAdjustUseCase(f.db.TxRunner())
	uc.now = fixedNow

	_, err := uc.Adjust(context.Background(), "admin", dto.AdjustInventoryRequest{
		ItemID: f.item.ID, StoreID: f.store.ID, BatchNo: b.BatchNo, QuantityChange: -7,
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	q, _ := f.qty(t, b.ID)
	assert.Equal(t, 6, q)

	out, err := uc.Adjust(context.Background(), "admin", dto.AdjustInventoryRequest{
		ItemID: f.item.ID, StoreID: f.store.ID, BatchNo: b.BatchNo, QuantityChange: -6, Notes: "merma",
	})
	require.NoError(t, err)
	assert.Equal(t, 0, out.Batch.QuantityOnHand)
	assert.Equal(t, entity.BatchOutOfStock, out.Batch.Status)

	_, err = uc.Adjust(context.Background(), "admin", dto.AdjustInventoryRequest{
		ItemID: f.item.ID, StoreID: f.store.ID, BatchNo: "NO-EXISTE", QuantityChange: -1,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAdjust_CambioCero(t *testing.T) {
	f := newFixture(t)
	uc := NewAdjustUseCase(f.db.TxRunner())
	_, err := uc.Adjust(context.Background(), "admin", dto.AdjustInventoryRequest{
		ItemID: f.item.ID, StoreID: f.store.ID, BatchNo: "L-1",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Lotes
// ──────────────────────────────────────────────────────────────────────────────

func TestBatchCreate(t *testing.T) {
	f := newFixture(t)
	uc := NewBatchUseCase(f.db.Batches(), f.db.Transactions(), f.db.Items(), f.db.Stores())
	uc.now = fixedNow

	in := dto.CreateBatchRequest{
		ItemID: f.item.ID, StoreID: f.store.ID, BatchNo: "B-1",
		ExpiryDate: now.AddDate(0, 0, 15), QuantityOnHand: 3, UnitCost: decimal.NewFromInt(2),
	}
	out, err := uc.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, entity.BatchLowStock, out.Status)
	assert.Empty(t, f.db.Transactions().All())

	_, err = uc.Create(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	in.BatchNo = "B-2"
	in.ExpiryDate = now.AddDate(0, 0, -1)
	_, err = uc.Create(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestBatchDelete_ConMovimientos(t *testing.T) {
	f := newFixture(t)
	b := f.batch(t, "L-1", 6, 2, now.AddDate(0, 0, 10), entity.BatchInStock)
	adjust := NewAdjustUseCase(f.db.TxRunner())
	adjust.now = fixedNow
	_, err := adjust.Adjust(context.Background(), "admin", dto.AdjustInventoryRequest{
		ItemID: f.item.ID, StoreID: f.store.ID, BatchNo: b.BatchNo, QuantityChange: -1,
	})
	require.NoError(t, err)

	uc := NewBatchUseCase(f.db.Batches(), f.db.Transactions(), f.db.Items(), f.db.Stores())
	assert.ErrorIs(t, uc.Delete(context.Background(), b.ID), domain.ErrConflict)
	assert.ErrorIs(t, uc.Delete(context.Background(), uuid.New().String()), domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Stock de seguridad
// ──────────────────────────────────────────────────────────────────────────────

func TestStockCalculator_SafetyStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	calc := NewStockCalculator(f.db.Batches(), f.db.Sales(), f.db.SupplierItems(), f.db.Suppliers(), 7)
	calc.now = fixedNow

	res, err := calc.SafetyStock(ctx, f.item, "")
	require.NoError(t, err)
	assert.Equal(t, SourceMinStock, res.Source)
	assert.Equal(t, 5, res.Value)

	// 120 unidades en 30 días = 4/día; lead time por defecto 7 → ceil(4*7*1.5) = 42
	require.NoError(t, f.db.Sales().Create(ctx, &entity.SalesTransaction{
		ID: uuid.New().String(), ItemID: f.item.ID, StoreID: f.store.ID, Quantity: 120, SaleDate: now.AddDate(0, 0, -2),
	}))
	res, err = calc.SafetyStock(ctx, f.item, "")
	require.NoError(t, err)
	assert.Equal(t, SourceDemand, res.Source)
	assert.Equal(t, 7, res.LeadTimeDays)
	assert.Equal(t, 42, res.Value)

	manual := 9
	item := *f.item
	item.SafetyStock = &manual
	res, err = calc.SafetyStock(ctx, &item, "")
	require.NoError(t, err)
	assert.Equal(t, SourceManual, res.Source)
	assert.Equal(t, 9, res.Value)
}
