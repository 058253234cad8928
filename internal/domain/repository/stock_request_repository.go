package repository

import (
	"context"

	"github.com/jhoicas/supply-chain-api/internal/domain/entity"
)

// StockRequestFilter filtros del listado de solicitudes.
type StockRequestFilter struct {
	Status  string
	StoreID string
	ItemID  string
	Limit   int
	Offset  int
}

// StockRequestRepository define el puerto de persistencia para solicitudes de stock.
type StockRequestRepository interface {
	Create(ctx context.Context, r *entity.StockRequest) error
	GetByID(ctx context.Context, id string) (*entity.StockRequest, error)
	Update(ctx context.Context, r *entity.StockRequest) error
	List(ctx context.Context, f StockRequestFilter) ([]*entity.StockRequest, error)
	// ListByIDsForUpdate bloquea y devuelve las solicitudes indicadas (en orden de creación).
	ListByIDsForUpdate(ctx context.Context, ids []string) ([]*entity.StockRequest, error)
	// ListOpenForUpdate solicitudes en estado requested; storeID vacío = todas las tiendas.
	ListOpenForUpdate(ctx context.Context, storeID string) ([]*entity.StockRequest, error)
	// ExistsOpen indica si ya hay una solicitud requested para (tienda, ítem).
	ExistsOpen(ctx context.Context, storeID, itemID string) (bool, error)
	CountOpen(ctx context.Context) (int, error)
}
