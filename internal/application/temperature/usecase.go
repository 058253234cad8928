package temperature

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/supply-chain-api/internal/application/dto"
	"github.com/jhoicas/supply-chain-api/internal/domain"
	"github.com/jhoicas/supply-chain-api/internal/domain/entity"
	domaininv "github.com/jhoicas/supply-chain-api/internal/domain/inventory"
	"github.com/jhoicas/supply-chain-api/internal/domain/repository"
)

// defaultLogLimit lecturas devueltas por Logs cuando no se indica límite.
const defaultLogLimit = 50

// UseCase punto de entrada de la cadena de frío para HTTP y el scheduler.
type UseCase struct {
	simulator *Simulator
	monitor   *Monitor
	batches   repository.InventoryBatchRepository
	items     repository.ItemRepository
	logs      repository.TemperatureLogRepository
	now       func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	simulator *Simulator,
	monitor *Monitor,
	batches repository.InventoryBatchRepository,
	items repository.ItemRepository,
	logs repository.TemperatureLogRepository,
) *UseCase {
	return &UseCase{
		simulator: simulator,
		monitor:   monitor,
		batches:   batches,
		items:     items,
		logs:      logs,
		now:       time.Now,
	}
}

// Tick simula una ronda de lecturas y revisa los rangos.
func (uc *UseCase) Tick(ctx context.Context) (*dto.TemperatureCheckResponse, error) {
	if _, err := uc.simulator.Tick(ctx); err != nil {
		return nil, err
	}
	return uc.monitor.Check(ctx)
}

// Check revisa los rangos sin generar lecturas.
func (uc *UseCase) Check(ctx context.Context) (*dto.TemperatureCheckResponse, error) {
	return uc.monitor.Check(ctx)
}

// Alerts lotes fuera de rango.
func (uc *UseCase) Alerts(ctx context.Context) ([]dto.TemperatureAlertResponse, error) {
	return uc.monitor.Alerts(ctx)
}

// Logs últimas lecturas del lote.
func (uc *UseCase) Logs(ctx context.Context, batchID string, limit int) ([]dto.TemperatureLogResponse, error) {
	if limit <= 0 || limit > dto.MaxLimit {
		limit = defaultLogLimit
	}
	list, err := uc.logs.ListByBatch(ctx, batchID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TemperatureLogResponse, 0, len(list))
	for _, l := range list {
		out = append(out, dto.TemperatureLogResponse{
			ID:          l.ID,
			BatchID:     l.BatchID,
			Temperature: l.Temperature,
			RecordedAt:  l.RecordedAt,
			IsAlert:     l.IsAlert,
		})
	}
	return out, nil
}

// SetTemperature lectura manual de un lote. El simulador no la pisa durante ManualOverrideWindow.
func (uc *UseCase) SetTemperature(ctx context.Context, in dto.SetTemperatureRequest) (*dto.TemperatureLogResponse, error) {
	if in.Temperature == nil {
		return nil, fmt.Errorf("%w: temperature es obligatoria", domain.ErrInvalidInput)
	}
	t := *in.Temperature
	if t < domaininv.MinSettableTemperature || t > domaininv.MaxSettableTemperature {
		return nil, fmt.Errorf("%w: la temperatura debe estar entre %.0f y %.0f",
			domain.ErrInvalidInput, domaininv.MinSettableTemperature, domaininv.MaxSettableTemperature)
	}
	batch, err := uc.batches.GetByID(ctx, in.BatchID)
	if err != nil {
		return nil, err
	}
	if batch == nil {
		return nil, fmt.Errorf("%w: lote %s", domain.ErrNotFound, in.BatchID)
	}
	item, err := uc.items.GetByID(ctx, batch.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		item = &entity.Item{ID: batch.ItemID, StorageType: entity.StorageCold}
	}

	if err := uc.batches.UpdateTemperature(ctx, batch.ID, t); err != nil {
		return nil, err
	}
	min, max := domaininv.TemperatureRange(item)
	entry := &entity.TemperatureLog{
		ID:          uuid.New().String(),
		BatchID:     batch.ID,
		Temperature: t,
		RecordedAt:  uc.now(),
		IsAlert:     domaininv.OutOfRange(t, min, max),
	}
	if err := uc.logs.Create(ctx, entry); err != nil {
		return nil, err
	}
	uc.simulator.MarkManual(batch.ID)
	return &dto.TemperatureLogResponse{
		ID:          entry.ID,
		BatchID:     entry.BatchID,
		Temperature: entry.Temperature,
		RecordedAt:  entry.RecordedAt,
		IsAlert:     entry.IsAlert,
	}, nil
}
