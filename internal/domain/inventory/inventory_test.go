package inventory

import (
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/supply-chain-api/internal/domain/entity"
)

func TestCostCalculator_PromedioPonderado(t *testing.T) {
	// 10 u a 100 + 30 u a 200 = 7000 / 40 = 175
	got := CostCalculator(decimal.NewFromInt(10), decimal.NewFromInt(100), decimal.NewFromInt(30), decimal.NewFromInt(200))
	assert.True(t, decimal.NewFromInt(175).Equal(got), "got %s", got)

	assert.True(t, CostCalculator(decimal.Zero, decimal.Zero, decimal.Zero, decimal.NewFromInt(5)).IsZero())
	assert.True(t, decimal.NewFromFloat(1.3333).Equal(WeightedBatchCost(2, decimal.NewFromInt(1), 1, decimal.NewFromInt(2))))
}

func TestBatchStatus(t *testing.T) {
	assert.Equal(t, entity.BatchOutOfStock, BatchStatus(0, 10))
	assert.Equal(t, entity.BatchLowStock, BatchStatus(9, 10))
	assert.Equal(t, entity.BatchInStock, BatchStatus(10, 10))
	assert.Equal(t, entity.BatchLowStock, BatchStatus(5, 0), "mínimo por defecto 10")
}

func batch(id string, qty int, cost int64, expiry time.Time, created time.Time) *entity.InventoryBatch {
	return &entity.InventoryBatch{
		ID: id, QuantityOnHand: qty, UnitCost: decimal.NewFromInt(cost),
		ExpiryDate: expiry, CreatedAt: created, Status: BatchStatus(qty, 10),
	}
}

func TestAllocateFIFO_VencimientoPrimero(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	b1 := batch("tarde", 50, 10, now.AddDate(0, 0, 30), now.AddDate(0, 0, -5))
	b2 := batch("pronto", 5, 8, now.AddDate(0, 0, 2), now.AddDate(0, 0, -3))
	b3 := batch("pronto-nuevo", 20, 9, now.AddDate(0, 0, 2), now.AddDate(0, 0, -1))
	vencido := batch("vencido", 100, 1, now.AddDate(0, 0, -1), now.AddDate(0, 0, -20))
	agotado := batch("agotado", 0, 1, now.AddDate(0, 0, 1), now.AddDate(0, 0, -20))

	allocs, remaining := AllocateFIFO([]*entity.InventoryBatch{b1, b2, b3, vencido, agotado}, 30, now)

	require.Equal(t, 0, remaining)
	require.Len(t, allocs, 3)
	assert.Equal(t, "pronto", allocs[0].Batch.ID)
	assert.Equal(t, 5, allocs[0].Quantity)
	assert.Equal(t, "pronto-nuevo", allocs[1].Batch.ID, "a igual vencimiento gana el más antiguo")
	assert.Equal(t, 20, allocs[1].Quantity)
	assert.Equal(t, "tarde", allocs[2].Batch.ID)
	assert.Equal(t, 5, allocs[2].Quantity)
	// 5*8 + 20*9 + 5*10
	assert.True(t, decimal.NewFromInt(270).Equal(TotalCost(allocs)))
	assert.Equal(t, 50, b1.QuantityOnHand, "AllocateFIFO no modifica los lotes")
}

func TestAllocateFIFO_DemandaSinCubrir(t *testing.T) {
	now := time.Now()
	allocs, remaining := AllocateFIFO([]*entity.InventoryBatch{
		batch("a", 3, 1, now.AddDate(0, 0, 5), now),
	}, 10, now)
	assert.Len(t, allocs, 1)
	assert.Equal(t, 7, remaining)
}

func TestSafetyStock(t *testing.T) {
	manual := 40
	assert.Equal(t, 40, SafetyStock(SafetyStockInput{Item: &entity.Item{SafetyStock: &manual}}))

	item := &entity.Item{MinStockLevel: 15}
	assert.Equal(t, 15, SafetyStock(SafetyStockInput{Item: item}), "sin ventas = nivel mínimo")

	// 300 u / 30 días = 10 diarias * 3 días * 1.5 = 45
	assert.Equal(t, 45, SafetyStock(SafetyStockInput{Item: item, SoldQty: 300, SalesCount: 12, LeadTimeDays: 3}))
	// 20 u / 30 = 0.67 * 3 * 1.5 = 3 → piso 15
	assert.Equal(t, 15, SafetyStock(SafetyStockInput{Item: item, SoldQty: 20, SalesCount: 2, LeadTimeDays: 3}))
	// sin mínimo definido el piso es 10
	assert.Equal(t, 10, SafetyStock(SafetyStockInput{Item: &entity.Item{}}))
}

func TestTemperatureRange(t *testing.T) {
	min, max := TemperatureRange(&entity.Item{StorageType: entity.StorageFrozen})
	assert.Equal(t, -18.0, min)
	assert.Equal(t, -15.0, max)

	min, max = TemperatureRange(&entity.Item{StorageType: entity.StorageCold})
	assert.Equal(t, 2.0, min)
	assert.Equal(t, 8.0, max)

	lo, hi := 0.0, 4.0
	min, max = TemperatureRange(&entity.Item{StorageType: entity.StorageCold, MinTemperature: &lo, MaxTemperature: &hi})
	assert.Equal(t, 0.0, min)
	assert.Equal(t, 4.0, max)
}

func TestSimulateReading_AcotadoYRedondeado(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 2000; i++ {
		v := SimulateReading(rng, 2, 8)
		assert.GreaterOrEqual(t, v, 2.0-6.0)
		assert.LessOrEqual(t, v, 8.0+6.0)
		assert.InDelta(t, v, float64(int64(v*10))/10, 0.1001)
	}
}

func TestExpiryHelpers(t *testing.T) {
	now := time.Date(2025, 6, 10, 15, 0, 0, 0, time.UTC)
	assert.Equal(t, -1, DaysUntilExpiry(now.AddDate(0, 0, -1), now))
	assert.Equal(t, 0, DaysUntilExpiry(now.Add(2*time.Hour), now))
	assert.Equal(t, 3, DaysUntilExpiry(now.AddDate(0, 0, 3), now))
	assert.Equal(t, ExpiryExpired, ExpiryStatus(-1))
	assert.Equal(t, ExpiryExpiresToday, ExpiryStatus(0))
	assert.Equal(t, ExpiryNear, ExpiryStatus(5))

	created := now.AddDate(0, 0, -9)
	assert.True(t, NearingExpiry(created, now.AddDate(0, 0, 1), now), "90% consumido")
	assert.False(t, NearingExpiry(created, now.AddDate(0, 0, 9), now), "50% consumido")
	assert.False(t, NearingExpiry(created, now.AddDate(0, 0, -1), now), "ya vencido")
}
