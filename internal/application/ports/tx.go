package ports

import (
	"context"

	"github.com/jhoicas/supply-chain-api/internal/domain/repository"
)

// TxRepos repositorios atados a una misma transacción.
type TxRepos struct {
	Items          repository.ItemRepository
	Stores         repository.StoreRepository
	SupplierItems  repository.SupplierItemRepository
	Batches        repository.InventoryBatchRepository
	Transactions   repository.InventoryTransactionRepository
	StockRequests  repository.StockRequestRepository
	PurchaseOrders repository.PurchaseOrderRepository
	GoodsReceipts  repository.GoodsReceiptRepository
	Sales          repository.SalesRepository
	TempLogs       repository.TemperatureLogRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace rollback.
type TxRunner interface {
	Run(ctx context.Context, fn func(r TxRepos) error) error
}
