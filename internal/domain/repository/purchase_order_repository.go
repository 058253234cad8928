package repository

import (
	"context"

	"github.com/jhoicas/supply-chain-api/internal/domain/entity"
)

// PurchaseOrderFilter filtros del listado de órdenes.
type PurchaseOrderFilter struct {
	Status     string
	SupplierID string
	StoreID    string
	Limit      int
	Offset     int
}

// PurchaseOrderRepository define el puerto de persistencia para órdenes de compra y sus líneas.
type PurchaseOrderRepository interface {
	// NextNumber devuelve el siguiente número PO-{n} desde la secuencia.
	NextNumber(ctx context.Context) (string, error)
	// Create inserta la cabecera y las líneas.
	Create(ctx context.Context, po *entity.PurchaseOrder) error
	// GetByID carga la orden con sus líneas; nil si no existe o está eliminada.
	GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	// Update actualiza la cabecera (estado, fechas, aprobaciones); las líneas no cambian.
	Update(ctx context.Context, po *entity.PurchaseOrder) error
	SoftDelete(ctx context.Context, id string) error
	List(ctx context.Context, f PurchaseOrderFilter) ([]*entity.PurchaseOrder, error)
	// ListPendingApproval órdenes pending_approval por fecha de creación ascendente.
	ListPendingApproval(ctx context.Context) ([]*entity.PurchaseOrder, error)
	CountByStatus(ctx context.Context, status string) (int, error)
}
