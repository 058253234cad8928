package repository

import (
	"context"

	"github.com/jhoicas/supply-chain-api/internal/domain/entity"
)

// StoreRepository define el puerto de persistencia para tiendas.
type StoreRepository interface {
	Create(ctx context.Context, store *entity.Store) error
	GetByID(ctx context.Context, id string) (*entity.Store, error)
	GetByCode(ctx context.Context, code string) (*entity.Store, error)
	Update(ctx context.Context, store *entity.Store) error
	List(ctx context.Context, limit, offset int) ([]*entity.Store, error)
	// ListActive devuelve todas las tiendas activas (sin paginar; usado por la reposición automática).
	ListActive(ctx context.Context) ([]*entity.Store, error)
}
