package repository

import (
	"context"

	"github.com/jhoicas/supply-chain-api/internal/domain/entity"
)

// TemperatureLogRepository puerto de persistencia de lecturas de temperatura.
type TemperatureLogRepository interface {
	Create(ctx context.Context, log *entity.TemperatureLog) error
	ListByBatch(ctx context.Context, batchID string, limit int) ([]*entity.TemperatureLog, error)
}
