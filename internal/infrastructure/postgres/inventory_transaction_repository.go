package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/supply-chain-api/internal/domain/entity"
	"github.com/jhoicas/supply-chain-api/internal/domain/repository"
)

var _ repository.InventoryTransactionRepository = (*InventoryTransactionRepo)(nil)

var invTxCols = []string{
	"id", "batch_id", "item_id", "type", "quantity", "reference_type", "reference_id", "notes", "created_by", "created_at",
}

// InventoryTransactionRepo kardex append-only.
type InventoryTransactionRepo struct {
	q Querier
}

// NewInventoryTransactionRepository construye el adaptador del kardex.
func NewInventoryTransactionRepository(q Querier) *InventoryTransactionRepo {
	return &InventoryTransactionRepo{q: q}
}

// Create registra el movimiento.
func (r *InventoryTransactionRepo) Create(ctx context.Context, t *entity.InventoryTransaction) error {
	sql, args, err := psql.Insert("inventory_transactions").Columns(invTxCols...).Values(
		t.ID, t.BatchID, t.ItemID, t.Type, t.Quantity, t.ReferenceType, t.ReferenceID, t.Notes, t.CreatedBy, t.CreatedAt,
	).ToSql()
	if err != nil {
		return fmt.Errorf("build insert inventory transaction: %w", err)
	}
	if _, err := r.q.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert inventory transaction: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento.
func (r *InventoryTransactionRepo) GetByID(ctx context.Context, id string) (*entity.InventoryTransaction, error) {
	sql, args, err := psql.Select(invTxCols...).From("inventory_transactions").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get inventory transaction: %w", err)
	}
	t, err := scanInvTx(r.q.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory transaction: %w", err)
	}
	return t, nil
}

// List movimientos filtrados, más recientes primero.
func (r *InventoryTransactionRepo) List(ctx context.Context, f repository.TransactionFilter) ([]*entity.InventoryTransaction, error) {
	q := psql.Select(invTxCols...).From("inventory_transactions").OrderBy("created_at DESC")
	eq := squirrel.Eq{}
	if f.ItemID != "" {
		eq["item_id"] = f.ItemID
	}
	if f.BatchID != "" {
		eq["batch_id"] = f.BatchID
	}
	if f.Type != "" {
		eq["type"] = f.Type
	}
	if f.ReferenceType != "" {
		eq["reference_type"] = f.ReferenceType
	}
	if f.ReferenceID != "" {
		eq["reference_id"] = f.ReferenceID
	}
	if len(eq) > 0 {
		q = q.Where(eq)
	}
	sql, args, err := page(q, f.Limit, f.Offset).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list inventory transactions: %w", err)
	}
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list inventory transactions: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryTransaction
	for rows.Next() {
		t, err := scanInvTx(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inventory transaction: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func scanInvTx(row pgx.Row) (*entity.InventoryTransaction, error) {
	var t entity.InventoryTransaction
	err := row.Scan(&t.ID, &t.BatchID, &t.ItemID, &t.Type, &t.Quantity, &t.ReferenceType,
		&t.ReferenceID, &t.Notes, &t.CreatedBy, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
