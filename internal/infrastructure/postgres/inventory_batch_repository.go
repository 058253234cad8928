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

var _ repository.InventoryBatchRepository = (*InventoryBatchRepo)(nil)

var batchCols = []string{
	"id", "item_id", "store_id", "batch_no", "expiry_date", "quantity_on_hand",
	"temperature", "unit_cost", "status", "created_at", "updated_at",
}

// InventoryBatchRepo implementación del puerto InventoryBatchRepository.
type InventoryBatchRepo struct {
	q Querier
}

// NewInventoryBatchRepository construye el adaptador de lotes.
func NewInventoryBatchRepository(q Querier) *InventoryBatchRepo {
	return &InventoryBatchRepo{q: q}
}

// Create inserta un lote.
func (r *InventoryBatchRepo) Create(ctx context.Context, b *entity.InventoryBatch) error {
	sql, args, err := psql.Insert("inventory_batches").Columns(batchCols...).Values(
		b.ID, b.ItemID, b.StoreID, b.BatchNo, b.ExpiryDate, b.QuantityOnHand,
		b.Temperature, b.UnitCost, b.Status, b.CreatedAt, b.UpdatedAt,
	).ToSql()
	if err != nil {
		return fmt.Errorf("build insert batch: %w", err)
	}
	if _, err := r.q.Exec(ctx, sql, args...); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert batch: %w", err)
	}
	return nil
}

// GetByID obtiene un lote por ID.
func (r *InventoryBatchRepo) GetByID(ctx context.Context, id string) (*entity.InventoryBatch, error) {
	return r.getOne(ctx, psql.Select(batchCols...).From("inventory_batches").Where(squirrel.Eq{"id": id}))
}

// GetForUpdate obtiene y bloquea un lote.
func (r *InventoryBatchRepo) GetForUpdate(ctx context.Context, id string) (*entity.InventoryBatch, error) {
	return r.getOne(ctx, psql.Select(batchCols...).From("inventory_batches").
		Where(squirrel.Eq{"id": id}).Suffix("FOR UPDATE"))
}

// FindByStoreAndBatchNo busca el lote por número dentro de la tienda.
func (r *InventoryBatchRepo) FindByStoreAndBatchNo(ctx context.Context, storeID, batchNo string) (*entity.InventoryBatch, error) {
	return r.getOne(ctx, psql.Select(batchCols...).From("inventory_batches").
		Where(squirrel.Eq{"store_id": storeID, "batch_no": batchNo}))
}

// FindForUpdate busca y bloquea por (tienda, ítem, número de lote).
func (r *InventoryBatchRepo) FindForUpdate(ctx context.Context, storeID, itemID, batchNo string) (*entity.InventoryBatch, error) {
	return r.getOne(ctx, psql.Select(batchCols...).From("inventory_batches").
		Where(squirrel.Eq{"store_id": storeID, "item_id": itemID, "batch_no": batchNo}).
		Suffix("FOR UPDATE"))
}

func (r *InventoryBatchRepo) getOne(ctx context.Context, q squirrel.SelectBuilder) (*entity.InventoryBatch, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get batch: %w", err)
	}
	b, err := scanBatch(r.q.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get batch: %w", err)
	}
	return b, nil
}

// Update persiste cantidad, costo, estado, temperatura y vencimiento.
func (r *InventoryBatchRepo) Update(ctx context.Context, b *entity.InventoryBatch) error {
	sql, args, err := psql.Update("inventory_batches").
		Set("batch_no", b.BatchNo).
		Set("expiry_date", b.ExpiryDate).
		Set("quantity_on_hand", b.QuantityOnHand).
		Set("temperature", b.Temperature).
		Set("unit_cost", b.UnitCost).
		Set("status", b.Status).
		Set("updated_at", b.UpdatedAt).
		Where(squirrel.Eq{"id": b.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update batch: %w", err)
	}
	cmd, err := r.q.Exec(ctx, sql, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update batch: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateTemperature registra la última lectura del lote.
func (r *InventoryBatchRepo) UpdateTemperature(ctx context.Context, id string, temperature float64) error {
	const q = `UPDATE inventory_batches SET temperature = $2, updated_at = now() WHERE id = $1`
	cmd, err := r.q.Exec(ctx, q, id, temperature)
	if err != nil {
		return fmt.Errorf("update batch temperature: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina el lote.
func (r *InventoryBatchRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM inventory_batches WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: el lote tiene movimientos registrados", domain.ErrConflict)
		}
		return fmt.Errorf("delete batch: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista lotes con filtros, más recientes primero.
func (r *InventoryBatchRepo) List(ctx context.Context, f repository.BatchFilter) ([]*entity.InventoryBatch, error) {
	q := psql.Select(batchCols...).From("inventory_batches").OrderBy("created_at DESC")
	if f.ItemID != "" {
		q = q.Where(squirrel.Eq{"item_id": f.ItemID})
	}
	if f.StoreID != "" {
		q = q.Where(squirrel.Eq{"store_id": f.StoreID})
	}
	if len(f.Statuses) > 0 {
		q = q.Where(squirrel.Eq{"status": f.Statuses})
	}
	return r.list(ctx, page(q, f.Limit, f.Offset))
}

// ListSellableForUpdate lotes vendibles en orden FIFO (vencimiento, creación), bloqueados.
func (r *InventoryBatchRepo) ListSellableForUpdate(ctx context.Context, itemID, storeID string) ([]*entity.InventoryBatch, error) {
	q := psql.Select(batchCols...).From("inventory_batches").
		Where(squirrel.Eq{
			"item_id":  itemID,
			"store_id": storeID,
			"status":   []string{entity.BatchInStock, entity.BatchLowStock},
		}).
		Where(squirrel.Gt{"quantity_on_hand": 0}).
		OrderBy("expiry_date ASC", "created_at ASC").
		Suffix("FOR UPDATE")
	return r.list(ctx, q)
}

// SumOnHand suma las existencias del ítem.
func (r *InventoryBatchRepo) SumOnHand(ctx context.Context, itemID, storeID string) (int, error) {
	q := psql.Select("COALESCE(SUM(quantity_on_hand), 0)").From("inventory_batches").
		Where(squirrel.Eq{"item_id": itemID})
	if storeID != "" {
		q = q.Where(squirrel.Eq{"store_id": storeID})
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build sum on hand: %w", err)
	}
	var total int64
	if err := r.q.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum on hand: %w", err)
	}
	return int(total), nil
}

func (r *InventoryBatchRepo) list(ctx context.Context, q squirrel.SelectBuilder) ([]*entity.InventoryBatch, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list batches: %w", err)
	}
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryBatch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

func scanBatch(row pgx.Row) (*entity.InventoryBatch, error) {
	var b entity.InventoryBatch
	err := row.Scan(&b.ID, &b.ItemID, &b.StoreID, &b.BatchNo, &b.ExpiryDate, &b.QuantityOnHand,
		&b.Temperature, &b.UnitCost, &b.Status, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}
