package repository

import (
	"context"

	"github.com/jhoicas/supply-chain-api/internal/domain/entity"
)

// SupplierRepository define el puerto de persistencia para proveedores.
type SupplierRepository interface {
	Create(ctx context.Context, supplier *entity.Supplier) error
	GetByID(ctx context.Context, id string) (*entity.Supplier, error)
	// GetByName busca sin distinguir mayúsculas.
	GetByName(ctx context.Context, name string) (*entity.Supplier, error)
	Update(ctx context.Context, supplier *entity.Supplier) error
	List(ctx context.Context, limit, offset int) ([]*entity.Supplier, error)
}

// SupplierItemRepository define el puerto para los mapeos proveedor ↔ ítem.
type SupplierItemRepository interface {
	Create(ctx context.Context, m *entity.SupplierItem) error
	GetByID(ctx context.Context, id string) (*entity.SupplierItem, error)
	GetBySupplierAndItem(ctx context.Context, supplierID, itemID string) (*entity.SupplierItem, error)
	Update(ctx context.Context, m *entity.SupplierItem) error
	Delete(ctx context.Context, id string) error
	ListByItem(ctx context.Context, itemID string) ([]*entity.SupplierItem, error)
	ListBySupplier(ctx context.Context, supplierID string) ([]*entity.SupplierItem, error)
	// ListByItems devuelve los mapeos de varios ítems de una vez (agrupación de solicitudes).
	ListByItems(ctx context.Context, itemIDs []string) ([]*entity.SupplierItem, error)
}
