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

var _ repository.StockRequestRepository = (*StockRequestRepo)(nil)

var stockRequestCols = []string{
	"id", "store_id", "item_id", "requested_qty", "status", "priority", "requested_by", "po_id", "notes", "created_at", "updated_at",
}

// StockRequestRepo implementación del puerto StockRequestRepository.
type StockRequestRepo struct {
	q Querier
}

// NewStockRequestRepository construye el adaptador.
func NewStockRequestRepository(q Querier) *StockRequestRepo {
	return &StockRequestRepo{q: q}
}

// Create inserta la solicitud.
func (r *StockRequestRepo) Create(ctx context.Context, s *entity.StockRequest) error {
	sql, args, err := psql.Insert("stock_requests").Columns(stockRequestCols...).Values(
		s.ID, s.StoreID, s.ItemID, s.RequestedQty, s.Status, s.Priority, s.RequestedBy,
		nullIfEmpty(s.POID), s.Notes, s.CreatedAt, s.UpdatedAt,
	).ToSql()
	if err != nil {
		return fmt.Errorf("build insert stock request: %w", err)
	}
	if _, err := r.q.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert stock request: %w", err)
	}
	return nil
}

// GetByID obtiene la solicitud.
func (r *StockRequestRepo) GetByID(ctx context.Context, id string) (*entity.StockRequest, error) {
	sql, args, err := psql.Select(stockRequestCols...).From("stock_requests").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get stock request: %w", err)
	}
	s, err := scanStockRequest(r.q.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock request: %w", err)
	}
	return s, nil
}

// Update persiste cantidad, estado, prioridad, orden vinculada y notas.
func (r *StockRequestRepo) Update(ctx context.Context, s *entity.StockRequest) error {
	const q = `
		UPDATE stock_requests
		SET requested_qty = $2, status = $3, priority = $4, po_id = $5, notes = $6, updated_at = $7
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, q, s.ID, s.RequestedQty, s.Status, s.Priority, nullIfEmpty(s.POID), s.Notes, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update stock request: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista solicitudes con filtros.
func (r *StockRequestRepo) List(ctx context.Context, f repository.StockRequestFilter) ([]*entity.StockRequest, error) {
	q := psql.Select(stockRequestCols...).From("stock_requests").OrderBy("created_at DESC")
	if f.Status != "" {
		q = q.Where(squirrel.Eq{"status": f.Status})
	}
	if f.StoreID != "" {
		q = q.Where(squirrel.Eq{"store_id": f.StoreID})
	}
	if f.ItemID != "" {
		q = q.Where(squirrel.Eq{"item_id": f.ItemID})
	}
	return r.list(ctx, page(q, f.Limit, f.Offset))
}

// ListByIDsForUpdate bloquea las solicitudes indicadas.
func (r *StockRequestRepo) ListByIDsForUpdate(ctx context.Context, ids []string) ([]*entity.StockRequest, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.list(ctx, psql.Select(stockRequestCols...).From("stock_requests").
		Where(squirrel.Eq{"id": ids}).
		OrderBy("created_at ASC").
		Suffix("FOR UPDATE"))
}

// ListOpenForUpdate bloquea las solicitudes requested.
func (r *StockRequestRepo) ListOpenForUpdate(ctx context.Context, storeID string) ([]*entity.StockRequest, error) {
	q := psql.Select(stockRequestCols...).From("stock_requests").
		Where(squirrel.Eq{"status": entity.StockRequestRequested})
	if storeID != "" {
		q = q.Where(squirrel.Eq{"store_id": storeID})
	}
	return r.list(ctx, q.OrderBy("created_at ASC").Suffix("FOR UPDATE"))
}

// ExistsOpen indica si hay una solicitud requested para (tienda, ítem).
func (r *StockRequestRepo) ExistsOpen(ctx context.Context, storeID, itemID string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM stock_requests WHERE store_id = $1 AND item_id = $2 AND status = 'requested')`
	var exists bool
	if err := r.q.QueryRow(ctx, q, storeID, itemID).Scan(&exists); err != nil {
		return false, fmt.Errorf("exists open stock request: %w", err)
	}
	return exists, nil
}

// CountOpen cuenta las solicitudes requested.
func (r *StockRequestRepo) CountOpen(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM stock_requests WHERE status = 'requested'`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count open stock requests: %w", err)
	}
	return n, nil
}

func (r *StockRequestRepo) list(ctx context.Context, q squirrel.SelectBuilder) ([]*entity.StockRequest, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list stock requests: %w", err)
	}
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock requests: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockRequest
	for rows.Next() {
		s, err := scanStockRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock request: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func scanStockRequest(row pgx.Row) (*entity.StockRequest, error) {
	var s entity.StockRequest
	var poID *string
	err := row.Scan(&s.ID, &s.StoreID, &s.ItemID, &s.RequestedQty, &s.Status, &s.Priority,
		&s.RequestedBy, &poID, &s.Notes, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	s.POID = deref(poID)
	return &s, nil
}
