package repository

import (
	"context"

	"github.com/jhoicas/supply-chain-api/internal/domain/entity"
)

// GoodsReceiptRepository puerto de persistencia para recepciones (no se actualizan).
type GoodsReceiptRepository interface {
	Create(ctx context.Context, grn *entity.GoodsReceipt) error
	GetByID(ctx context.Context, id string) (*entity.GoodsReceipt, error)
	List(ctx context.Context, poID string, limit, offset int) ([]*entity.GoodsReceipt, error)
	SoftDelete(ctx context.Context, id string) error
}
