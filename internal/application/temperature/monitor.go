package temperature

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/supply-chain-api/internal/application/dto"
	domaininv "github.com/jhoicas/supply-chain-api/internal/domain/inventory"
	"github.com/jhoicas/supply-chain-api/internal/domain/repository"
	"github.com/jhoicas/supply-chain-api/pkg/logger"
)

// CriticalAfter tiempo fuera de rango a partir del cual la alerta es crítica.
const CriticalAfter = 5 * time.Minute

// Monitor sigue los lotes fuera de rango entre revisiones.
type Monitor struct {
	views repository.AnalyticsRepository
	log   *logger.Logger

	mu       sync.Mutex
	since    map[string]time.Time // primer instante fuera de rango
	critical map[string]bool      // ya se registró como crítica
	now      func() time.Time
}

// NewMonitor construye el monitor.
func NewMonitor(views repository.AnalyticsRepository, log *logger.Logger) *Monitor {
	return &Monitor{
		views:    views,
		log:      log.Component("temperature_monitor"),
		since:    make(map[string]time.Time),
		critical: make(map[string]bool),
		now:      time.Now,
	}
}

// Check revisa la temperatura actual de los lotes con existencias.
func (m *Monitor) Check(ctx context.Context) (*dto.TemperatureCheckResponse, error) {
	minQty := 1
	views, err := m.views.BatchViews(ctx, repository.BatchViewFilter{MinQty: &minQty})
	if err != nil {
		return nil, err
	}
	now := m.now()
	out := &dto.TemperatureCheckResponse{}

	m.mu.Lock()
	defer m.mu.Unlock()
	present := make(map[string]bool, len(views))
	for _, v := range views {
		present[v.BatchID] = true
		if v.Temperature == nil {
			continue
		}
		out.Checked++
		min, max := domaininv.TemperatureRange(itemOf(v))
		t := *v.Temperature

		if !domaininv.OutOfRange(t, min, max) {
			if _, tracked := m.since[v.BatchID]; tracked {
				m.log.Info().Str("batch_id", v.BatchID).Str("batch_no", v.BatchNo).
					Float64("temperature", t).Msg("temperatura normalizada")
				delete(m.since, v.BatchID)
				delete(m.critical, v.BatchID)
				out.Normalized++
			}
			continue
		}

		out.Abnormal++
		first, tracked := m.since[v.BatchID]
		if !tracked {
			m.since[v.BatchID] = now
			m.log.Warn().Str("batch_id", v.BatchID).Str("batch_no", v.BatchNo).Str("store", v.StoreName).
				Float64("temperature", t).Float64("min", min).Float64("max", max).
				Msg("temperatura fuera de rango")
			continue
		}
		if now.Sub(first) > CriticalAfter {
			out.Critical++
			if !m.critical[v.BatchID] {
				m.critical[v.BatchID] = true
				m.log.Error().Str("batch_id", v.BatchID).Str("batch_no", v.BatchNo).Str("store", v.StoreName).
					Float64("temperature", t).Dur("abnormal_for", now.Sub(first)).
					Msg("temperatura crítica")
			}
		}
	}
	// lotes agotados o eliminados dejan de seguirse
	for id := range m.since {
		if !present[id] {
			delete(m.since, id)
			delete(m.critical, id)
		}
	}
	return out, nil
}

// Alerts lotes con la última lectura fuera de rango, los críticos primero.
func (m *Monitor) Alerts(ctx context.Context) ([]dto.TemperatureAlertResponse, error) {
	minQty := 1
	views, err := m.views.BatchViews(ctx, repository.BatchViewFilter{MinQty: &minQty})
	if err != nil {
		return nil, err
	}
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()
	out := []dto.TemperatureAlertResponse{}
	for _, v := range views {
		if v.Temperature == nil {
			continue
		}
		min, max := domaininv.TemperatureRange(itemOf(v))
		if !domaininv.OutOfRange(*v.Temperature, min, max) {
			continue
		}
		a := dto.TemperatureAlertResponse{
			BatchID:     v.BatchID,
			BatchNo:     v.BatchNo,
			ItemID:      v.ItemID,
			ItemName:    v.ItemName,
			StoreID:     v.StoreID,
			StoreName:   v.StoreName,
			Temperature: *v.Temperature,
			MinAllowed:  min,
			MaxAllowed:  max,
		}
		if first, ok := m.since[v.BatchID]; ok {
			since := first
			a.Since = &since
			a.Critical = now.Sub(first) > CriticalAfter
		}
		out = append(out, a)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Critical && !out[j].Critical })
	return out, nil
}
