package repository

import (
	"context"
	"time"

	"github.com/jhoicas/supply-chain-api/internal/domain/entity"
)

// SalesFilter filtros del listado de ventas.
type SalesFilter struct {
	StoreID string
	ItemID  string
	From    *time.Time
	To      *time.Time
	Limit   int
	Offset  int
}

// Demand ventas agregadas de un ítem en una ventana.
type Demand struct {
	Quantity int
	Count    int
}

// SalesRepository puerto de persistencia para ventas.
type SalesRepository interface {
	Create(ctx context.Context, s *entity.SalesTransaction) error
	GetByID(ctx context.Context, id string) (*entity.SalesTransaction, error)
	List(ctx context.Context, f SalesFilter) ([]*entity.SalesTransaction, error)
	// DemandSince suma las ventas del ítem desde since; storeID vacío = todas las tiendas.
	DemandSince(ctx context.Context, itemID, storeID string, since time.Time) (Demand, error)
}
