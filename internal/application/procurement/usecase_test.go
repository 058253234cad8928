package procurement

import (
	"context"
	"fmt"
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
	"github.com/jhoicas/supply-chain-api/internal/infrastructure/dispatch"
	"github.com/jhoicas/supply-chain-api/internal/testutil/memrepo"
	"github.com/jhoicas/supply-chain-api/pkg/logger"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return now }

type stubPDF struct{}

func (stubPDF) GeneratePOPDF(_ context.Context, doc ports.PODocument) ([]byte, error) {
	return []byte("%PDF " + doc.PO.PONumber), nil
}

// fixture: tienda, proveedor principal y tres ítems.
//   - A: mapeo preferido, MOQ 12, lead time 3
//   - B: mapeo sin MOQ, lead time 7
//   - C: sin proveedor
type fixture struct {
	db       *memrepo.DB
	store    *entity.Store
	supplier *entity.Supplier
	a, b, c  *entity.Item

	orders    *POUseCase
	requests  *StockRequestUseCase
	receipts  *GoodsReceiptUseCase
	replenish *ReplenishmentUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	db := memrepo.New()
	f := &fixture{db: db}

	f.store = &entity.Store{ID: uuid.New().String(), Code: "ST-01", Name: "Centro", IsActive: true}
	require.NoError(t, db.Stores().Create(ctx, f.store))
	f.supplier = &entity.Supplier{ID: uuid.New().String(), Name: "Lácteos del Valle", LeadTimeDays: 4, IsActive: true}
	require.NoError(t, db.Suppliers().Create(ctx, f.supplier))
	other := &entity.Supplier{ID: uuid.New().String(), Name: "Frío Express", IsActive: true}
	require.NoError(t, db.Suppliers().Create(ctx, other))

	item := func(name, sku string) *entity.Item {
		it := &entity.Item{
			ID: uuid.New().String(), ItemName: name, SKU: sku, Unit: "unit",
			MinStockLevel: 10, StorageType: entity.StorageCold, IsActive: true,
		}
		require.NoError(t, db.Items().Create(ctx, it))
		return it
	}
	f.a = item("Yogur natural", "YOG-001")
	f.b = item("Queso fresco", "QUE-001")
	f.c = item("Mantequilla", "MAN-001")

	mapping := func(supplierID, itemID string, price int64, moq, lead int, preferred bool) {
		require.NoError(t, db.SupplierItems().Create(ctx, &entity.SupplierItem{
			ID: uuid.New().String(), SupplierID: supplierID, ItemID: itemID,
			UnitPrice: decimal.NewFromInt(price), Currency: "USD", MinOrderQty: moq,
			LeadTimeDays: lead, IsPreferred: preferred, IsActive: true,
		}))
	}
	mapping(f.supplier.ID, f.a.ID, 2, 12, 3, true)
	mapping(other.ID, f.a.ID, 1, 1, 1, false)
	mapping(f.supplier.ID, f.b.ID, 5, 0, 7, false)

	log := logger.Nop()
	tx := db.TxRunner()
	f.orders = NewPOUseCase(tx, db.PurchaseOrders(), db.Suppliers(), db.Stores(), db.Items(),
		stubPDF{}, dispatch.NewXMLBuilderService(), log)
	f.orders.now = fixedNow
	f.requests = NewStockRequestUseCase(tx, db.StockRequests(), db.Items(), db.Stores(), f.orders, "approver-1", log)
	f.requests.now = fixedNow
	f.receipts = NewGoodsReceiptUseCase(tx, db.GoodsReceipts(), log)
	f.receipts.now = fixedNow

	calc := inventory.NewStockCalculator(db.Batches(), db.Sales(), db.SupplierItems(), db.Suppliers(), 7)
	f.replenish = NewReplenishmentUseCase(db.Stores(), db.Items(), db.StockRequests(), calc, f.requests, 5, log)
	f.replenish.now = fixedNow
	return f
}

func (f *fixture) request(t *testing.T, item *entity.Item, qty int) string {
	t.Helper()
	out, err := f.requests.Create(context.Background(), "manager-1", dto.CreateStockRequestRequest{
		StoreID: f.store.ID, ItemID: item.ID, RequestedQty: qty,
	})
	require.NoError(t, err)
	return out.ID
}

func (f *fixture) requestStatus(t *testing.T, id string) *entity.StockRequest {
	t.Helper()
	r, err := f.db.StockRequests().GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, r)
	return r
}

func (f *fixture) sentPO(t *testing.T) *dto.POResponse {
	t.Helper()
	ctx := context.Background()
	generated, err := f.requests.GeneratePO(ctx, "procurer-1", []string{f.request(t, f.a, 5), f.request(t, f.b, 3)})
	require.NoError(t, err)
	require.Len(t, generated, 1)
	id := generated[0].POID
	_, err = f.orders.Approve(ctx, id, "manager-1")
	require.NoError(t, err)
	po, err := f.orders.Send(ctx, id)
	require.NoError(t, err)
	return po
}

// ──────────────────────────────────────────────────────────────────────────────
// Solicitudes y agrupación
// ──────────────────────────────────────────────────────────────────────────────

func TestStockRequestCreate_PrioridadPorDefecto(t *testing.T) {
	f := newFixture(t)
	id := f.request(t, f.a, 3)
	r := f.requestStatus(t, id)
	assert.Equal(t, entity.StockRequestRequested, r.Status)
	assert.Equal(t, entity.PriorityMedium, r.Priority)
	assert.Equal(t, "manager-1", r.RequestedBy)

	_, err := f.requests.Create(context.Background(), "m", dto.CreateStockRequestRequest{
		StoreID: f.store.ID, ItemID: uuid.New().String(), RequestedQty: 1,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGeneratePO_AgrupaYRedondeaAlMOQ(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a1 := f.request(t, f.a, 5)
	a2 := f.request(t, f.a, 4)
	b1 := f.request(t, f.b, 3)
	c1 := f.request(t, f.c, 2)

	generated, err := f.requests.GeneratePO(ctx, "procurer-1", []string{a1, a2, b1, c1})
	require.NoError(t, err)
	require.Len(t, generated, 1)
	assert.Equal(t, "PO-1", generated[0].PONumber)
	assert.ElementsMatch(t, []string{a1, a2, b1}, generated[0].RequestIDs)

	po, err := f.orders.GetByID(ctx, generated[0].POID)
	require.NoError(t, err)
	assert.Equal(t, entity.POStatusPendingApproval, po.Status)
	assert.Equal(t, f.supplier.ID, po.SupplierID)
	assert.Equal(t, f.store.ID, po.StoreID)
	assert.Equal(t, now.AddDate(0, 0, 7), po.ExpectedDeliveryDate)
	require.Len(t, po.Items, 2)

	qty := map[string]int{}
	for _, l := range po.Items {
		qty[l.ItemID] = l.Quantity
	}
	assert.Equal(t, 12, qty[f.a.ID], "5+4 se redondea al MOQ de 12")
	assert.Equal(t, 3, qty[f.b.ID])
	assert.Equal(t, "39.00", po.TotalAmount.StringFixed(2))

	for _, id := range []string{a1, a2, b1} {
		r := f.requestStatus(t, id)
		assert.Equal(t, entity.StockRequestPOGenerated, r.Status)
		assert.Equal(t, po.ID, r.POID)
	}
	assert.Equal(t, entity.StockRequestRequested, f.requestStatus(t, c1).Status, "sin proveedor queda abierta")
}

func TestGeneratePO_NadaQueAgrupar(t *testing.T) {
	f := newFixture(t)
	c1 := f.request(t, f.c, 2)
	_, err := f.requests.GeneratePO(context.Background(), "procurer-1", []string{c1})
	require.ErrorIs(t, err, domain.ErrNothingToGroup)
	assert.Equal(t, entity.StockRequestRequested, f.requestStatus(t, c1).Status)

	pos, err := f.db.PurchaseOrders().List(context.Background(), repository.PurchaseOrderFilter{})
	require.NoError(t, err)
	assert.Empty(t, pos)
}

func TestAutoGeneratePO_CancelaLasQueNoSeAgrupan(t *testing.T) {
	f := newFixture(t)
	a1 := f.request(t, f.a, 20)
	c1 := f.request(t, f.c, 2)

	generated, err := f.requests.AutoGeneratePO(context.Background(), "procurer-1", "")
	require.NoError(t, err)
	require.Len(t, generated, 1)
	assert.Equal(t, []string{a1}, generated[0].RequestIDs)
	assert.Equal(t, entity.StockRequestCancelled, f.requestStatus(t, c1).Status)

	po, err := f.orders.GetByID(context.Background(), generated[0].POID)
	require.NoError(t, err)
	assert.Equal(t, autoPONote, po.Notes)
	assert.Equal(t, 24, po.Items[0].Quantity)

	again, err := f.requests.AutoGeneratePO(context.Background(), "procurer-1", "")
	require.NoError(t, err)
	assert.Empty(t, again)
}

func TestCancel_SoloAbiertas(t *testing.T) {
	f := newFixture(t)
	a1 := f.request(t, f.a, 5)
	b1 := f.request(t, f.b, 5)
	_, err := f.requests.GeneratePO(context.Background(), "p", []string{b1})
	require.NoError(t, err)

	out, err := f.requests.Cancel(context.Background(), []string{a1, b1})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Cancelled)
	assert.Equal(t, []string{a1}, out.RequestIDs)
	assert.Equal(t, entity.StockRequestPOGenerated, f.requestStatus(t, b1).Status)
}

func TestStockRequestUpdate_CerradaNoSeEdita(t *testing.T) {
	f := newFixture(t)
	a1 := f.request(t, f.a, 5)
	qty := 8
	out, err := f.requests.Update(context.Background(), a1, dto.UpdateStockRequestRequest{RequestedQty: &qty})
	require.NoError(t, err)
	assert.Equal(t, 8, out.RequestedQty)

	cancelled := entity.StockRequestCancelled
	_, err = f.requests.Update(context.Background(), a1, dto.UpdateStockRequestRequest{Status: &cancelled})
	require.NoError(t, err)
	_, err = f.requests.Update(context.Background(), a1, dto.UpdateStockRequestRequest{RequestedQty: &qty})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestExpressOrder_QuedaEnviada(t *testing.T) {
	f := newFixture(t)
	po, err := f.requests.ExpressOrder(context.Background(), "manager-1", dto.ExpressOrderRequest{
		ItemID: f.a.ID, StoreID: f.store.ID, Quantity: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.POStatusSent, po.Status)
	assert.Equal(t, "approver-1", po.ApprovedBy)
	assert.NotEmpty(t, po.DispatchDigest)
	require.Len(t, po.Items, 1)
	assert.Equal(t, 12, po.Items[0].Quantity)

	reqs, err := f.db.StockRequests().List(context.Background(), repository.StockRequestFilter{})
	require.NoError(t, err)
	require.Len(t, reqs, 1)
	assert.Equal(t, entity.PriorityHigh, reqs[0].Priority)
	assert.Equal(t, po.ID, reqs[0].POID)
}

func TestExpressOrder_SinProveedor(t *testing.T) {
	f := newFixture(t)
	_, err := f.requests.ExpressOrder(context.Background(), "manager-1", dto.ExpressOrderRequest{
		ItemID: f.c.ID, StoreID: f.store.ID, Quantity: 2,
	})
	assert.ErrorIs(t, err, domain.ErrNoSupplierMapping)
}

// ──────────────────────────────────────────────────────────────────────────────
// Ciclo de vida de la orden
// ──────────────────────────────────────────────────────────────────────────────

func manualPO(f *fixture, total int64, submit bool) dto.CreatePORequest {
	return dto.CreatePORequest{
		SupplierID:           f.supplier.ID,
		StoreID:              f.store.ID,
		OrderDate:            now,
		ExpectedDeliveryDate: now.AddDate(0, 0, 3),
		TotalAmount:          decimal.NewFromInt(total),
		Submit:               submit,
		Items: []dto.POLineRequest{
			{ItemID: f.a.ID, Quantity: 10, UnitPrice: decimal.NewFromInt(2), Unit: "unit"},
			{ItemID: f.b.ID, Quantity: 2, UnitPrice: decimal.NewFromInt(5), Unit: "unit"},
		},
	}
}

func TestPOCreate_ValidaTotal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.orders.Create(ctx, "procurer-1", manualPO(f, 40, false))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	draft, err := f.orders.Create(ctx, "procurer-1", manualPO(f, 30, false))
	require.NoError(t, err)
	assert.Equal(t, entity.POStatusDraft, draft.Status)
	assert.Equal(t, "PO-1", draft.PONumber)

	pending, err := f.orders.Create(ctx, "procurer-1", manualPO(f, 30, true))
	require.NoError(t, err)
	assert.Equal(t, entity.POStatusPendingApproval, pending.Status)
	assert.Equal(t, "PO-2", pending.PONumber)

	in := manualPO(f, 30, false)
	in.ExpectedDeliveryDate = now
	_, err = f.orders.Create(ctx, "procurer-1", in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPOTransitions_ExigenEstadoDeOrigen(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	po, err := f.orders.Create(ctx, "procurer-1", manualPO(f, 30, false))
	require.NoError(t, err)

	_, err = f.orders.Approve(ctx, po.ID, "manager-1")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = f.orders.Submit(ctx, po.ID)
	require.NoError(t, err)
	_, err = f.orders.Send(ctx, po.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	approved, err := f.orders.Approve(ctx, po.ID, "manager-1")
	require.NoError(t, err)
	assert.Equal(t, "manager-1", approved.ApprovedBy)
	require.NotNil(t, approved.ApprovedAt)

	_, err = f.orders.Update(ctx, po.ID, dto.UpdatePORequest{})
	assert.ErrorIs(t, err, domain.ErrConflict, "una orden aprobada ya no se edita")

	sent, err := f.orders.Send(ctx, po.ID)
	require.NoError(t, err)
	require.NotNil(t, sent.SentAt)
	assert.Len(t, sent.DispatchDigest, 64)

	xml, name, err := f.orders.XML(ctx, po.ID)
	require.NoError(t, err)
	assert.Equal(t, "orden_PO-1.xml", name)
	digest, err := dispatch.Digest(xml)
	require.NoError(t, err)
	assert.Equal(t, sent.DispatchDigest, digest, "el XML descargado coincide con el enviado")

	assert.ErrorIs(t, f.orders.Delete(ctx, po.ID), domain.ErrConflict)

	notes := "llega en la mañana"
	confirmed, err := f.orders.Confirm(ctx, po.ID, "supplier", dto.ConfirmPORequest{SupplierNotes: &notes})
	require.NoError(t, err)
	assert.Equal(t, entity.POStatusConfirmed, confirmed.Status)
	assert.Equal(t, notes, confirmed.SupplierNotes)

	_, err = f.orders.Cancel(ctx, po.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestPOReject(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	po, err := f.orders.Create(ctx, "procurer-1", manualPO(f, 30, true))
	require.NoError(t, err)

	pending, err := f.orders.PendingApprovals(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	rejected, err := f.orders.Reject(ctx, po.ID, "manager-1", "")
	require.NoError(t, err)
	assert.Equal(t, entity.POStatusCancelled, rejected.Status)
	assert.Equal(t, defaultRejectReason, rejected.RejectionReason)

	pending, err = f.orders.PendingApprovals(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestPOReceiveYRejectReceipt(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	po := f.sentPO(t)

	_, err := f.orders.RejectReceipt(ctx, po.ID, "stock-1", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	received, err := f.orders.Receive(ctx, po.ID, "stock-1")
	require.NoError(t, err)
	assert.Equal(t, entity.POStatusConfirmed, received.Status)
	assert.NotNil(t, received.ActualDeliveryDate)

	other := f.sentPO(t)
	rejected, err := f.orders.RejectReceipt(ctx, other.ID, "stock-1", "cadena de frío rota")
	require.NoError(t, err)
	assert.Equal(t, entity.POStatusCancelled, rejected.Status)
	assert.Equal(t, "cadena de frío rota", rejected.RejectionReason)
}

func TestPODeleteYPDF(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	po, err := f.orders.Create(ctx, "procurer-1", manualPO(f, 30, false))
	require.NoError(t, err)

	pdf, name, err := f.orders.PDF(ctx, po.ID)
	require.NoError(t, err)
	assert.Equal(t, "orden_PO-1.pdf", name)
	assert.Equal(t, "%PDF PO-1", string(pdf))

	require.NoError(t, f.orders.Delete(ctx, po.ID))
	_, err = f.orders.GetByID(ctx, po.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Recepción de mercancía
// ──────────────────────────────────────────────────────────────────────────────

func TestGoodsReceipt_CreaYSumaLotes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	existing := &entity.InventoryBatch{
		ID: uuid.New().String(), ItemID: f.b.ID, StoreID: f.store.ID, BatchNo: "QUE-B1",
		ExpiryDate: now.AddDate(0, 0, 20), QuantityOnHand: 10, UnitCost: decimal.NewFromInt(3),
		Status: entity.BatchInStock, CreatedAt: now.AddDate(0, 0, -3),
	}
	require.NoError(t, f.db.Batches().Create(ctx, existing))
	po := f.sentPO(t)

	temp := 4.5
	grn, err := f.receipts.Create(ctx, "stock-1", dto.CreateGRNRequest{
		POID: po.ID,
		Items: []dto.GRNLineRequest{
			{ItemID: f.a.ID, BatchNo: "YOG-N1", Quantity: 12, ExpiryDate: now.AddDate(0, 0, 15), Temperature: &temp},
			{ItemID: f.b.ID, BatchNo: "QUE-B1", Quantity: 3, ExpiryDate: now.AddDate(0, 0, 20)},
			{ItemID: f.c.ID, BatchNo: "MAN-1", Quantity: 1, ExpiryDate: now.AddDate(0, 0, 20)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("GRN-%d-PO-1", now.Unix()), grn.GRNNumber)
	require.Len(t, grn.Items, 2, "el ítem fuera de la orden se omite")

	created, err := f.db.Batches().FindByStoreAndBatchNo(ctx, f.store.ID, "YOG-N1")
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, 12, created.QuantityOnHand)
	assert.Equal(t, entity.BatchInStock, created.Status)
	assert.Equal(t, "2.0000", created.UnitCost.StringFixed(4))

	merged, err := f.db.Batches().GetByID(ctx, existing.ID)
	require.NoError(t, err)
	assert.Equal(t, 13, merged.QuantityOnHand)
	// (10*3 + 3*5) / 13
	assert.Equal(t, "3.4615", merged.UnitCost.StringFixed(4))

	receipts := 0
	for _, tx := range f.db.Transactions().All() {
		if tx.Type == entity.TxReceipt {
			receipts++
			assert.Equal(t, entity.RefGRN, tx.ReferenceType)
			assert.Equal(t, grn.ID, tx.ReferenceID)
		}
	}
	assert.Equal(t, 2, receipts)

	delivered, err := f.orders.GetByID(ctx, po.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.POStatusDelivered, delivered.Status)
	require.NotNil(t, delivered.ActualDeliveryDate)

	_, err = f.receipts.Create(ctx, "stock-1", dto.CreateGRNRequest{
		POID:  po.ID,
		Items: []dto.GRNLineRequest{{ItemID: f.a.ID, BatchNo: "YOG-N2", Quantity: 1, ExpiryDate: now.AddDate(0, 0, 9)}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "una orden entregada no se recibe dos veces")
}

func TestGoodsReceipt_LoteNuevoEntraEnStockAunquePequeno(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	po := f.sentPO(t)

	_, err := f.receipts.Create(ctx, "stock-1", dto.CreateGRNRequest{
		POID:  po.ID,
		Items: []dto.GRNLineRequest{{ItemID: f.a.ID, BatchNo: "YOG-P1", Quantity: 2, ExpiryDate: now.AddDate(0, 0, 15)}},
	})
	require.NoError(t, err)

	created, err := f.db.Batches().FindByStoreAndBatchNo(ctx, f.store.ID, "YOG-P1")
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, 2, created.QuantityOnHand)
	assert.Equal(t, entity.BatchInStock, created.Status, "el estado se recalcula en el siguiente movimiento")
}

func TestGoodsReceipt_SinLineasDeLaOrdenNoCambiaNada(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	po := f.sentPO(t)

	_, err := f.receipts.Create(ctx, "stock-1", dto.CreateGRNRequest{
		POID:  po.ID,
		Items: []dto.GRNLineRequest{{ItemID: f.c.ID, BatchNo: "MAN-1", Quantity: 1, ExpiryDate: now.AddDate(0, 0, 9)}},
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	same, err := f.orders.GetByID(ctx, po.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.POStatusSent, same.Status)

	list, err := f.receipts.List(ctx, dto.GRNListQuery{POID: po.ID})
	require.NoError(t, err)
	assert.Empty(t, list.Items)
}

func TestGoodsReceipt_OrdenNoEnviada(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	po, err := f.orders.Create(ctx, "procurer-1", manualPO(f, 30, false))
	require.NoError(t, err)
	_, err = f.receipts.Create(ctx, "stock-1", dto.CreateGRNRequest{
		POID:  po.ID,
		Items: []dto.GRNLineRequest{{ItemID: f.a.ID, BatchNo: "YOG-1", Quantity: 1, ExpiryDate: now.AddDate(0, 0, 9)}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

// ──────────────────────────────────────────────────────────────────────────────
// Reposición automática
// ──────────────────────────────────────────────────────────────────────────────

func TestAutoReplenish_CreaSolicitudesYOrdenes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	// B tiene stock suficiente
	require.NoError(t, f.db.Batches().Create(ctx, &entity.InventoryBatch{
		ID: uuid.New().String(), ItemID: f.b.ID, StoreID: f.store.ID, BatchNo: "QUE-1",
		ExpiryDate: now.AddDate(0, 0, 20), QuantityOnHand: 50, UnitCost: decimal.NewFromInt(3),
		Status: entity.BatchInStock, CreatedAt: now,
	}))

	results, err := f.replenish.AutoReplenish(ctx, "system", "")
	require.NoError(t, err)
	require.Len(t, results, 2)

	byItem := map[string]dto.AutoReplenishResult{}
	for _, r := range results {
		byItem[r.ItemID] = r
	}
	a := byItem[f.a.ID]
	assert.Equal(t, 0, a.CurrentStock)
	assert.Equal(t, 10, a.SafetyStock)
	assert.NotEmpty(t, a.POID)
	assert.Empty(t, byItem[f.c.ID].POID)

	req := f.requestStatus(t, a.StockRequestID)
	assert.Equal(t, 15, req.RequestedQty, "stock de seguridad + extra")
	assert.Equal(t, entity.StockRequestPOGenerated, req.Status)
	assert.Contains(t, req.Notes, "Below safety stock")
	assert.Equal(t, entity.StockRequestCancelled, f.requestStatus(t, byItem[f.c.ID].StockRequestID).Status)

	po, err := f.orders.GetByID(ctx, a.POID)
	require.NoError(t, err)
	assert.Equal(t, 24, po.Items[0].Quantity)
	assert.Equal(t, "system", po.CreatedBy)
}

func TestAutoReplenish_NoDuplicaSolicitudAbierta(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for _, it := range []*entity.Item{f.b, f.c} {
		it.IsActive = false
		require.NoError(t, f.db.Items().Update(ctx, it))
	}
	f.request(t, f.a, 3)

	results, err := f.replenish.AutoReplenish(ctx, "system", f.store.ID)
	require.NoError(t, err)
	assert.Empty(t, results)

	_, err = f.replenish.AutoReplenish(ctx, "system", uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
