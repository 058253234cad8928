package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/supply-chain-api/internal/domain"
	"github.com/jhoicas/supply-chain-api/internal/domain/entity"
	"github.com/jhoicas/supply-chain-api/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

var itemCols = []string{
	"id", "item_name", "sku", "category", "unit", "min_stock_level", "max_stock_level", "safety_stock",
	"storage_type", "min_temperature", "max_temperature", "is_active", "created_at", "updated_at",
}

// ItemRepo implementación del puerto ItemRepository sobre PostgreSQL.
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador de persistencia para ítems.
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

// Create persiste un ítem.
func (r *ItemRepo) Create(ctx context.Context, i *entity.Item) error {
	sql, args, err := psql.Insert("items").Columns(itemCols...).Values(
		i.ID, i.ItemName, i.SKU, i.Category, i.Unit, i.MinStockLevel, i.MaxStockLevel, i.SafetyStock,
		i.StorageType, i.MinTemperature, i.MaxTemperature, i.IsActive, i.CreatedAt, i.UpdatedAt,
	).ToSql()
	if err != nil {
		return fmt.Errorf("build insert item: %w", err)
	}
	if _, err := r.q.Exec(ctx, sql, args...); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// GetByID obtiene un ítem por ID.
func (r *ItemRepo) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetBySKU obtiene un ítem por SKU.
func (r *ItemRepo) GetBySKU(ctx context.Context, sku string) (*entity.Item, error) {
	return r.getOne(ctx, squirrel.Eq{"sku": sku})
}

func (r *ItemRepo) getOne(ctx context.Context, where squirrel.Eq) (*entity.Item, error) {
	sql, args, err := psql.Select(itemCols...).From("items").Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get item: %w", err)
	}
	i, err := scanItem(r.q.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return i, nil
}

// Update actualiza el ítem.
func (r *ItemRepo) Update(ctx context.Context, i *entity.Item) error {
	sql, args, err := psql.Update("items").
		Set("item_name", i.ItemName).
		Set("sku", i.SKU).
		Set("category", i.Category).
		Set("unit", i.Unit).
		Set("min_stock_level", i.MinStockLevel).
		Set("max_stock_level", i.MaxStockLevel).
		Set("safety_stock", i.SafetyStock).
		Set("storage_type", i.StorageType).
		Set("min_temperature", i.MinTemperature).
		Set("max_temperature", i.MaxTemperature).
		Set("is_active", i.IsActive).
		Set("updated_at", i.UpdatedAt).
		Where(squirrel.Eq{"id": i.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update item: %w", err)
	}
	cmd, err := r.q.Exec(ctx, sql, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update item: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista ítems con filtros.
func (r *ItemRepo) List(ctx context.Context, f repository.ItemFilter) ([]*entity.Item, error) {
	q := psql.Select(itemCols...).From("items").OrderBy("item_name")
	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"item_name": pattern},
			squirrel.ILike{"sku": pattern},
		})
	}
	if f.Category != "" {
		q = q.Where(squirrel.Eq{"category": f.Category})
	}
	if f.StorageType != "" {
		q = q.Where(squirrel.Eq{"storage_type": f.StorageType})
	}
	if f.ActiveOnly {
		q = q.Where(squirrel.Eq{"is_active": true})
	}
	return r.list(ctx, page(q, f.Limit, f.Offset))
}

// ListActive devuelve todos los ítems activos.
func (r *ItemRepo) ListActive(ctx context.Context) ([]*entity.Item, error) {
	return r.list(ctx, psql.Select(itemCols...).From("items").Where(squirrel.Eq{"is_active": true}).OrderBy("item_name"))
}

// GetByIDs carga varios ítems indexados por ID.
func (r *ItemRepo) GetByIDs(ctx context.Context, ids []string) (map[string]*entity.Item, error) {
	out := make(map[string]*entity.Item, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	list, err := r.list(ctx, psql.Select(itemCols...).From("items").Where(squirrel.Eq{"id": ids}))
	if err != nil {
		return nil, err
	}
	for _, i := range list {
		out[i.ID] = i
	}
	return out, nil
}

func (r *ItemRepo) list(ctx context.Context, q squirrel.SelectBuilder) ([]*entity.Item, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list items: %w", err)
	}
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()
	var list []*entity.Item
	for rows.Next() {
		i, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		list = append(list, i)
	}
	return list, rows.Err()
}

func scanItem(row pgx.Row) (*entity.Item, error) {
	var i entity.Item
	err := row.Scan(&i.ID, &i.ItemName, &i.SKU, &i.Category, &i.Unit, &i.MinStockLevel, &i.MaxStockLevel,
		&i.SafetyStock, &i.StorageType, &i.MinTemperature, &i.MaxTemperature, &i.IsActive, &i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &i, nil
}
