package procurement

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/supply-chain-api/internal/domain"
	"github.com/jhoicas/supply-chain-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Máquina de estados
// ──────────────────────────────────────────────────────────────────────────────

func TestTransition_FlujoCompleto(t *testing.T) {
	po := &entity.PurchaseOrder{Status: entity.POStatusDraft}
	for _, to := range []string{
		entity.POStatusPendingApproval,
		entity.POStatusApproved,
		entity.POStatusSent,
		entity.POStatusConfirmed,
		entity.POStatusDelivered,
	} {
		require.NoError(t, Transition(po, to), "transición a %s", to)
	}
	assert.True(t, IsTerminal(po.Status))
}

func TestTransition_Invalidas(t *testing.T) {
	cases := []struct{ from, to string }{
		{entity.POStatusDraft, entity.POStatusApproved},
		{entity.POStatusPendingApproval, entity.POStatusSent},
		{entity.POStatusApproved, entity.POStatusConfirmed},
		{entity.POStatusConfirmed, entity.POStatusCancelled},
		{entity.POStatusDelivered, entity.POStatusCancelled},
		{entity.POStatusCancelled, entity.POStatusDraft},
	}
	for _, c := range cases {
		po := &entity.PurchaseOrder{Status: c.from}
		err := Transition(po, c.to)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition, "%s → %s", c.from, c.to)
		assert.Equal(t, c.from, po.Status, "el estado no debe cambiar")
	}
}

func TestEditable(t *testing.T) {
	assert.True(t, Editable(entity.POStatusDraft))
	assert.True(t, Editable(entity.POStatusPendingApproval))
	assert.False(t, Editable(entity.POStatusApproved))
	assert.False(t, Editable(entity.POStatusSent))
}

// ──────────────────────────────────────────────────────────────────────────────
// MOQ
// ──────────────────────────────────────────────────────────────────────────────

func TestRoundToMOQ(t *testing.T) {
	assert.Equal(t, 50, RoundToMOQ(10, 50), "por debajo del MOQ se pide el MOQ")
	assert.Equal(t, 50, RoundToMOQ(50, 50))
	assert.Equal(t, 100, RoundToMOQ(51, 50))
	assert.Equal(t, 150, RoundToMOQ(101, 50))
	assert.Equal(t, 7, RoundToMOQ(7, 1))
	assert.Equal(t, 7, RoundToMOQ(7, 0), "MOQ 0 se trata como 1")
}

// ──────────────────────────────────────────────────────────────────────────────
// Selección de proveedor
// ──────────────────────────────────────────────────────────────────────────────

func mapping(id string, price float64, preferred, active bool) *entity.SupplierItem {
	return &entity.SupplierItem{
		ID: id, SupplierID: "sup-" + id, ItemID: "item-1",
		UnitPrice: decimal.NewFromFloat(price), MinOrderQty: 1,
		IsPreferred: preferred, IsActive: active,
	}
}

func TestBestMapping_PreferidoGana(t *testing.T) {
	now := time.Now()
	best := BestMapping([]*entity.SupplierItem{
		mapping("a", 5, false, true),
		mapping("b", 9, true, true),
	}, now)
	require.NotNil(t, best)
	assert.Equal(t, "b", best.ID)
}

func TestBestMapping_MenorPrecioSinPreferido(t *testing.T) {
	best := BestMapping([]*entity.SupplierItem{
		mapping("a", 5, false, true),
		mapping("b", 3, false, true),
		mapping("c", 1, false, false),
	}, time.Now())
	require.NotNil(t, best)
	assert.Equal(t, "b", best.ID, "los inactivos no cuentan")
}

func TestBestMapping_VigenciaConRespaldo(t *testing.T) {
	now := time.Now()
	past := now.AddDate(0, 0, -10)
	yesterday := now.AddDate(0, 0, -1)

	expired := mapping("vencido", 1, true, true)
	expired.EffectiveFrom = &past
	expired.EffectiveTo = &yesterday
	valid := mapping("vigente", 8, false, true)

	best := BestMapping([]*entity.SupplierItem{expired, valid}, now)
	require.NotNil(t, best)
	assert.Equal(t, "vigente", best.ID, "un mapeo vigente gana aunque el vencido sea preferido")

	best = BestMapping([]*entity.SupplierItem{expired}, now)
	require.NotNil(t, best)
	assert.Equal(t, "vencido", best.ID, "sin vigentes se usan todos los activos")

	assert.Nil(t, BestMapping(nil, now))
}

// ──────────────────────────────────────────────────────────────────────────────
// Agrupación
// ──────────────────────────────────────────────────────────────────────────────

func TestGroupRequests_PorTiendaYProveedor(t *testing.T) {
	itemA := &entity.Item{ID: "A", Unit: "kg"}
	itemB := &entity.Item{ID: "B", Unit: "box"}
	supX := &entity.SupplierItem{SupplierID: "X", UnitPrice: decimal.NewFromInt(2), MinOrderQty: 10, LeadTimeDays: 4}
	supXB := &entity.SupplierItem{SupplierID: "X", UnitPrice: decimal.NewFromInt(5), MinOrderQty: 1, LeadTimeDays: 2}
	supY := &entity.SupplierItem{SupplierID: "Y", UnitPrice: decimal.NewFromInt(3), MinOrderQty: 6}

	req := func(id, store string, qty int) *entity.StockRequest {
		return &entity.StockRequest{ID: id, StoreID: store, RequestedQty: qty, Status: entity.StockRequestRequested}
	}
	cancelled := req("r6", "s1", 5)
	cancelled.Status = entity.StockRequestCancelled

	groups, skipped := GroupRequests([]Resolved{
		{Request: req("r1", "s1", 4), Item: itemA, Mapping: supX},
		{Request: req("r2", "s1", 8), Item: itemA, Mapping: supX},
		{Request: req("r3", "s1", 3), Item: itemB, Mapping: supXB},
		{Request: req("r4", "s2", 7), Item: itemA, Mapping: supY},
		{Request: req("r5", "s1", 1), Item: itemB, Mapping: nil},
		{Request: cancelled, Item: itemA, Mapping: supX},
	})

	require.Len(t, groups, 2)
	require.Len(t, skipped, 1)
	assert.Equal(t, "r5", skipped[0].ID)

	g1 := groups[0]
	assert.Equal(t, "s1:X", g1.Key())
	assert.ElementsMatch(t, []string{"r1", "r2", "r3"}, g1.RequestIDs)
	require.Len(t, g1.Lines, 2)
	assert.Equal(t, 12, g1.Lines[0].RequestedQty, "el ítem repetido se suma en una línea")
	assert.Equal(t, 20, g1.Lines[0].Quantity, "12 redondeado a MOQ 10")
	assert.Equal(t, 3, g1.Lines[1].Quantity)
	assert.True(t, decimal.NewFromInt(55).Equal(g1.Total()))
	assert.Equal(t, 4, g1.MaxLeadTime())

	g2 := groups[1]
	assert.Equal(t, "s2:Y", g2.Key())
	assert.Equal(t, 12, g2.Lines[0].Quantity, "7 redondeado a MOQ 6")
}

// ──────────────────────────────────────────────────────────────────────────────
// Total
// ──────────────────────────────────────────────────────────────────────────────

func TestCheckTotal(t *testing.T) {
	computed := decimal.NewFromInt(1000)
	assert.NoError(t, CheckTotal(decimal.NewFromInt(1000), computed))
	assert.NoError(t, CheckTotal(decimal.NewFromInt(1009), computed), "dentro del 1%")
	assert.Error(t, CheckTotal(decimal.NewFromInt(1011), computed))
	assert.Error(t, CheckTotal(decimal.Zero, computed))
}

func TestFormatNumbers(t *testing.T) {
	assert.Equal(t, "PO-12", FormatPONumber(12))
	assert.Equal(t, "GRN-1700000000-PO-12", FormatGRNNumber(1700000000, "PO-12"))
}
