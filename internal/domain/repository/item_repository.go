package repository

import (
	"context"

	"github.com/jhoicas/supply-chain-api/internal/domain/entity"
)

// ItemFilter filtros del listado de ítems.
type ItemFilter struct {
	Search      string // coincide con nombre o SKU
	Category    string
	StorageType string
	ActiveOnly  bool
	Limit       int
	Offset      int
}

// ItemRepository define el puerto de persistencia para el catálogo de ítems.
type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	GetByID(ctx context.Context, id string) (*entity.Item, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Item, error)
	Update(ctx context.Context, item *entity.Item) error
	List(ctx context.Context, f ItemFilter) ([]*entity.Item, error)
	ListActive(ctx context.Context) ([]*entity.Item, error)
	// GetByIDs carga varios ítems indexados por ID.
	GetByIDs(ctx context.Context, ids []string) (map[string]*entity.Item, error)
}
