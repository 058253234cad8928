package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/supply-chain-api/internal/domain/entity"
	"github.com/jhoicas/supply-chain-api/internal/domain/repository"
)

var _ repository.TemperatureLogRepository = (*TemperatureLogRepo)(nil)

// TemperatureLogRepo lecturas de temperatura por lote.
type TemperatureLogRepo struct {
	q Querier
}

// NewTemperatureLogRepository construye el adaptador.
func NewTemperatureLogRepository(q Querier) *TemperatureLogRepo {
	return &TemperatureLogRepo{q: q}
}

// Create registra la lectura.
func (r *TemperatureLogRepo) Create(ctx context.Context, l *entity.TemperatureLog) error {
	const q = `INSERT INTO temperature_logs (id, batch_id, temperature, recorded_at, is_alert) VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.q.Exec(ctx, q, l.ID, l.BatchID, l.Temperature, l.RecordedAt, l.IsAlert); err != nil {
		return fmt.Errorf("insert temperature log: %w", err)
	}
	return nil
}

// ListByBatch últimas lecturas del lote.
func (r *TemperatureLogRepo) ListByBatch(ctx context.Context, batchID string, limit int) ([]*entity.TemperatureLog, error) {
	if limit <= 0 {
		limit = 50
	}
	const q = `
		SELECT id, batch_id, temperature, recorded_at, is_alert
		FROM temperature_logs WHERE batch_id = $1
		ORDER BY recorded_at DESC LIMIT $2`
	rows, err := r.q.Query(ctx, q, batchID, limit)
	if err != nil {
		return nil, fmt.Errorf("list temperature logs: %w", err)
	}
	defer rows.Close()
	var list []*entity.TemperatureLog
	for rows.Next() {
		var l entity.TemperatureLog
		if err := rows.Scan(&l.ID, &l.BatchID, &l.Temperature, &l.RecordedAt, &l.IsAlert); err != nil {
			return nil, fmt.Errorf("scan temperature log: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}
