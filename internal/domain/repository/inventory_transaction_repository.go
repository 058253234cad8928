package repository

import (
	"context"

	"github.com/jhoicas/supply-chain-api/internal/domain/entity"
)

// TransactionFilter filtros del kardex.
type TransactionFilter struct {
	ItemID        string
	BatchID       string
	Type          string
	ReferenceType string
	ReferenceID   string
	Limit         int
	Offset        int
}

// InventoryTransactionRepository puerto del kardex (solo inserción y lectura).
type InventoryTransactionRepository interface {
	Create(ctx context.Context, tx *entity.InventoryTransaction) error
	GetByID(ctx context.Context, id string) (*entity.InventoryTransaction, error)
	List(ctx context.Context, f TransactionFilter) ([]*entity.InventoryTransaction, error)
}
