package temperature

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/supply-chain-api/internal/application/dto"
	"github.com/jhoicas/supply-chain-api/internal/domain"
	"github.com/jhoicas/supply-chain-api/internal/domain/entity"
	"github.com/jhoicas/supply-chain-api/internal/testutil/memrepo"
	"github.com/jhoicas/supply-chain-api/pkg/logger"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func ptr(v float64) *float64 { return &v }

type fixture struct {
	db     *memrepo.DB
	clock  *clock
	uc     *UseCase
	sim    *Simulator
	mon    *Monitor
	cold   *entity.InventoryBatch
	frozen *entity.InventoryBatch
	empty  *entity.InventoryBatch
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	db := memrepo.New()
	c := &clock{t: time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)}

	store := &entity.Store{ID: uuid.New().String(), Code: "ST-01", Name: "Centro", IsActive: true}
	require.NoError(t, db.Stores().Create(ctx, store))
	milk := &entity.Item{ID: uuid.New().String(), ItemName: "Leche", SKU: "LEC-1", StorageType: entity.StorageCold, IsActive: true}
	fish := &entity.Item{ID: uuid.New().String(), ItemName: "Pescado", SKU: "PES-1", StorageType: entity.StorageFrozen, IsActive: true}
	require.NoError(t, db.Items().Create(ctx, milk))
	require.NoError(t, db.Items().Create(ctx, fish))

	batch := func(item *entity.Item, no string, qty int, temp *float64) *entity.InventoryBatch {
		b := &entity.InventoryBatch{
			ID: uuid.New().String(), ItemID: item.ID, StoreID: store.ID, BatchNo: no,
			ExpiryDate: c.t.AddDate(0, 0, 10), QuantityOnHand: qty, Temperature: temp,
			UnitCost: decimal.NewFromInt(1), Status: entity.BatchInStock, CreatedAt: c.t,
		}
		require.NoError(t, db.Batches().Create(ctx, b))
		return b
	}

	f := &fixture{db: db, clock: c}
	f.cold = batch(milk, "C-1", 20, ptr(4))
	f.frozen = batch(fish, "F-1", 20, ptr(-16))
	f.empty = batch(milk, "C-0", 0, ptr(30))

	log := logger.Nop()
	f.sim = NewSimulator(db.Analytics(), db.Batches(), db.TemperatureLogs(), log)
	f.sim.now = c.now
	f.sim.rng = rand.New(rand.NewSource(1))
	f.mon = NewMonitor(db.Analytics(), log)
	f.mon.now = c.now
	f.uc = NewUseCase(f.sim, f.mon, db.Batches(), db.Items(), db.TemperatureLogs())
	f.uc.now = c.now
	return f
}

func (f *fixture) setRaw(t *testing.T, b *entity.InventoryBatch, v float64) {
	t.Helper()
	require.NoError(t, f.db.Batches().UpdateTemperature(context.Background(), b.ID, v))
}

func TestMonitor_FueraDeRangoPasaACritico(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.uc.Check(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Checked, "el lote sin existencias no se revisa")
	assert.Zero(t, res.Abnormal)

	f.setRaw(t, f.cold, 12)
	res, err = f.uc.Check(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Abnormal)
	assert.Zero(t, res.Critical)

	alerts, err := f.uc.Alerts(ctx)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, f.cold.ID, alerts[0].BatchID)
	assert.Equal(t, 2.0, alerts[0].MinAllowed)
	assert.Equal(t, 8.0, alerts[0].MaxAllowed)
	assert.False(t, alerts[0].Critical)
	require.NotNil(t, alerts[0].Since)

	f.clock.advance(CriticalAfter + time.Minute)
	res, err = f.uc.Check(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Critical)

	alerts, err = f.uc.Alerts(ctx)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.True(t, alerts[0].Critical)

	f.setRaw(t, f.cold, 5)
	res, err = f.uc.Check(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Normalized)
	assert.Zero(t, res.Abnormal)

	alerts, err = f.uc.Alerts(ctx)
	require.NoError(t, err)
	assert.Empty(t, alerts)
}

func TestMonitor_OlvidaLotesQueSalenDeLaVista(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.setRaw(t, f.cold, 12)
	f.setRaw(t, f.frozen, -10)
	_, err := f.uc.Check(ctx)
	require.NoError(t, err)
	f.clock.advance(CriticalAfter + time.Minute)
	res, err := f.uc.Check(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Critical)

	// el lote frío se agota y el congelado se elimina
	cold, err := f.db.Batches().GetByID(ctx, f.cold.ID)
	require.NoError(t, err)
	cold.QuantityOnHand = 0
	require.NoError(t, f.db.Batches().Update(ctx, cold))
	require.NoError(t, f.db.Batches().Delete(ctx, f.frozen.ID))

	res, err = f.uc.Check(ctx)
	require.NoError(t, err)
	assert.Zero(t, res.Abnormal)
	assert.Empty(t, f.mon.since)
	assert.Empty(t, f.mon.critical)

	// si vuelve a tener existencias empieza de cero
	cold.QuantityOnHand = 5
	require.NoError(t, f.db.Batches().Update(ctx, cold))
	res, err = f.uc.Check(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Abnormal)
	assert.Zero(t, res.Critical)
}

func TestMonitor_RangoPorTipoDeAlmacenamiento(t *testing.T) {
	f := newFixture(t)
	f.setRaw(t, f.frozen, -10)

	alerts, err := f.uc.Alerts(context.Background())
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, f.frozen.ID, alerts[0].BatchID)
	assert.Equal(t, -18.0, alerts[0].MinAllowed)
	assert.Equal(t, -15.0, alerts[0].MaxAllowed)
	assert.Nil(t, alerts[0].Since, "sin revisión previa no hay inicio registrado")
}

func TestSimulator_Tick(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	n, err := f.sim.Tick(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	cold, err := f.db.Batches().GetByID(ctx, f.cold.ID)
	require.NoError(t, err)
	require.NotNil(t, cold.Temperature)
	assert.GreaterOrEqual(t, *cold.Temperature, -4.0)
	assert.LessOrEqual(t, *cold.Temperature, 14.0)

	logs, err := f.uc.Logs(ctx, f.cold.ID, 0)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, *cold.Temperature, logs[0].Temperature)
	assert.Equal(t, f.clock.t, logs[0].RecordedAt)

	empty, err := f.uc.Logs(ctx, f.empty.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestSetTemperature_ElSimuladorRespetaLaLecturaManual(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	out, err := f.uc.SetTemperature(ctx, dto.SetTemperatureRequest{BatchID: f.cold.ID, Temperature: ptr(12)})
	require.NoError(t, err)
	assert.True(t, out.IsAlert)

	f.clock.advance(30 * time.Second)
	n, err := f.sim.Tick(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "solo el lote congelado recibe lectura simulada")

	cold, err := f.db.Batches().GetByID(ctx, f.cold.ID)
	require.NoError(t, err)
	assert.Equal(t, 12.0, *cold.Temperature)

	f.clock.advance(ManualOverrideWindow)
	n, err = f.sim.Tick(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	logs, err := f.uc.Logs(ctx, f.cold.ID, 1)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, f.clock.t, logs[0].RecordedAt, "la lectura más reciente primero")
}

func TestSetTemperature_Validaciones(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.SetTemperature(ctx, dto.SetTemperatureRequest{BatchID: f.cold.ID})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.SetTemperature(ctx, dto.SetTemperatureRequest{BatchID: f.cold.ID, Temperature: ptr(51)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.SetTemperature(ctx, dto.SetTemperatureRequest{BatchID: uuid.New().String(), Temperature: ptr(4)})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	out, err := f.uc.SetTemperature(ctx, dto.SetTemperatureRequest{BatchID: f.cold.ID, Temperature: ptr(-30)})
	require.NoError(t, err)
	assert.True(t, out.IsAlert)
}
