package repository

import (
	"context"

	"github.com/jhoicas/supply-chain-api/internal/domain/entity"
)

// BatchFilter filtros del listado de lotes.
type BatchFilter struct {
	ItemID   string
	StoreID  string
	Statuses []string
	Limit    int
	Offset   int
}

// InventoryBatchRepository define el puerto de persistencia para lotes.
// Los métodos ForUpdate bloquean las filas (SELECT FOR UPDATE) y solo tienen sentido dentro de una tx.
type InventoryBatchRepository interface {
	Create(ctx context.Context, b *entity.InventoryBatch) error
	GetByID(ctx context.Context, id string) (*entity.InventoryBatch, error)
	GetForUpdate(ctx context.Context, id string) (*entity.InventoryBatch, error)
	// FindByStoreAndBatchNo busca el lote por su número dentro de la tienda (único por tienda).
	FindByStoreAndBatchNo(ctx context.Context, storeID, batchNo string) (*entity.InventoryBatch, error)
	// FindForUpdate busca por (tienda, ítem, número de lote) y bloquea la fila.
	FindForUpdate(ctx context.Context, storeID, itemID, batchNo string) (*entity.InventoryBatch, error)
	Update(ctx context.Context, b *entity.InventoryBatch) error
	UpdateTemperature(ctx context.Context, id string, temperature float64) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f BatchFilter) ([]*entity.InventoryBatch, error)
	// ListSellableForUpdate lotes in_stock/low_stock con cantidad > 0 del ítem en la tienda,
	// ordenados por vencimiento y creación, bloqueados para la salida FIFO.
	ListSellableForUpdate(ctx context.Context, itemID, storeID string) ([]*entity.InventoryBatch, error)
	// SumOnHand suma quantity_on_hand del ítem; storeID vacío = todas las tiendas.
	SumOnHand(ctx context.Context, itemID, storeID string) (int, error)
}
