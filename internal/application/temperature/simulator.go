// Package temperature simulación de sensores y vigilancia de la cadena de frío.
package temperature

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/supply-chain-api/internal/domain/entity"
	domaininv "github.com/jhoicas/supply-chain-api/internal/domain/inventory"
	"github.com/jhoicas/supply-chain-api/internal/domain/repository"
	"github.com/jhoicas/supply-chain-api/pkg/logger"
)

// ManualOverrideWindow tiempo durante el cual el simulador respeta una lectura manual.
const ManualOverrideWindow = time.Minute

// Simulator genera lecturas de sensor para los lotes con existencias.
type Simulator struct {
	views   repository.AnalyticsRepository
	batches repository.InventoryBatchRepository
	logs    repository.TemperatureLogRepository
	log     *logger.Logger

	mu     sync.Mutex
	rng    *rand.Rand
	manual map[string]time.Time
	now    func() time.Time
}

// NewSimulator construye el simulador.
func NewSimulator(
	views repository.AnalyticsRepository,
	batches repository.InventoryBatchRepository,
	logs repository.TemperatureLogRepository,
	log *logger.Logger,
) *Simulator {
	return &Simulator{
		views:   views,
		batches: batches,
		logs:    logs,
		log:     log.Component("temperature_simulator"),
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		manual:  make(map[string]time.Time),
		now:     time.Now,
	}
}

// MarkManual registra una lectura manual; el simulador no toca el lote durante ManualOverrideWindow.
func (s *Simulator) MarkManual(batchID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.manual[batchID] = s.now()
}

// Tick genera una lectura por lote con cantidad ≥ 1 y la persiste. Devuelve cuántos lotes se actualizaron.
func (s *Simulator) Tick(ctx context.Context) (int, error) {
	minQty := 1
	views, err := s.views.BatchViews(ctx, repository.BatchViewFilter{MinQty: &minQty})
	if err != nil {
		return 0, err
	}
	now := s.now()
	updated := 0
	for _, v := range views {
		if s.overridden(v.BatchID, now) {
			continue
		}
		min, max := domaininv.TemperatureRange(itemOf(v))
		t := s.reading(min, max)
		if err := s.batches.UpdateTemperature(ctx, v.BatchID, t); err != nil {
			s.log.Error().Err(err).Str("batch_id", v.BatchID).Msg("no se pudo actualizar la temperatura")
			continue
		}
		if err := s.logs.Create(ctx, &entity.TemperatureLog{
			ID:          uuid.New().String(),
			BatchID:     v.BatchID,
			Temperature: t,
			RecordedAt:  now,
			IsAlert:     domaininv.OutOfRange(t, min, max),
		}); err != nil {
			s.log.Error().Err(err).Str("batch_id", v.BatchID).Msg("no se pudo registrar la lectura")
			continue
		}
		updated++
	}
	s.log.Debug().Int("batches", updated).Msg("lecturas simuladas")
	return updated, nil
}

// overridden indica si el lote tiene una lectura manual reciente; limpia las vencidas.
func (s *Simulator) overridden(batchID string, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	at, ok := s.manual[batchID]
	if !ok {
		return false
	}
	if now.Sub(at) < ManualOverrideWindow {
		return true
	}
	delete(s.manual, batchID)
	return false
}

func (s *Simulator) reading(min, max float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domaininv.SimulateReading(s.rng, min, max)
}

// itemOf arma el ítem mínimo que necesita TemperatureRange.
func itemOf(v repository.BatchView) *entity.Item {
	return &entity.Item{
		ID:             v.ItemID,
		StorageType:    v.StorageType,
		MinTemperature: v.MinTemperature,
		MaxTemperature: v.MaxTemperature,
	}
}
