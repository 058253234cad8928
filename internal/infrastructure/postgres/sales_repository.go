package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/supply-chain-api/internal/domain/entity"
	"github.com/jhoicas/supply-chain-api/internal/domain/repository"
)

var _ repository.SalesRepository = (*SalesRepo)(nil)

var salesCols = []string{
	"id", "item_id", "store_id", "quantity", "unit_price", "total_amount", "cost_price",
	"total_cost", "gross_profit", "customer_name", "sale_date", "created_by", "created_at",
}

// SalesRepo ventas registradas.
type SalesRepo struct {
	q Querier
}

// NewSalesRepository construye el adaptador.
func NewSalesRepository(q Querier) *SalesRepo {
	return &SalesRepo{q: q}
}

// Create persiste la venta.
func (r *SalesRepo) Create(ctx context.Context, s *entity.SalesTransaction) error {
	sql, args, err := psql.Insert("sales_transactions").Columns(salesCols...).Values(
		s.ID, s.ItemID, s.StoreID, s.Quantity, s.UnitPrice, s.TotalAmount, s.CostPrice,
		s.TotalCost, s.GrossProfit, s.CustomerName, s.SaleDate, s.CreatedBy, s.CreatedAt,
	).ToSql()
	if err != nil {
		return fmt.Errorf("build insert sale: %w", err)
	}
	if _, err := r.q.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// GetByID obtiene una venta.
func (r *SalesRepo) GetByID(ctx context.Context, id string) (*entity.SalesTransaction, error) {
	sql, args, err := psql.Select(salesCols...).From("sales_transactions").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get sale: %w", err)
	}
	s, err := scanSale(r.q.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return s, nil
}

// List ventas filtradas, más recientes primero.
func (r *SalesRepo) List(ctx context.Context, f repository.SalesFilter) ([]*entity.SalesTransaction, error) {
	q := psql.Select(salesCols...).From("sales_transactions").OrderBy("sale_date DESC")
	if f.StoreID != "" {
		q = q.Where(squirrel.Eq{"store_id": f.StoreID})
	}
	if f.ItemID != "" {
		q = q.Where(squirrel.Eq{"item_id": f.ItemID})
	}
	if f.From != nil {
		q = q.Where(squirrel.GtOrEq{"sale_date": *f.From})
	}
	if f.To != nil {
		q = q.Where(squirrel.LtOrEq{"sale_date": *f.To})
	}
	sql, args, err := page(q, f.Limit, f.Offset).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list sales: %w", err)
	}
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	var list []*entity.SalesTransaction
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// DemandSince cantidad vendida y número de ventas del ítem desde since.
func (r *SalesRepo) DemandSince(ctx context.Context, itemID, storeID string, since time.Time) (repository.Demand, error) {
	q := psql.Select("COALESCE(SUM(quantity), 0)", "COUNT(*)").From("sales_transactions").
		Where(squirrel.Eq{"item_id": itemID}).
		Where(squirrel.GtOrEq{"sale_date": since})
	if storeID != "" {
		q = q.Where(squirrel.Eq{"store_id": storeID})
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return repository.Demand{}, fmt.Errorf("build demand: %w", err)
	}
	var qty, count int64
	if err := r.q.QueryRow(ctx, sql, args...).Scan(&qty, &count); err != nil {
		return repository.Demand{}, fmt.Errorf("demand since: %w", err)
	}
	return repository.Demand{Quantity: int(qty), Count: int(count)}, nil
}

func scanSale(row pgx.Row) (*entity.SalesTransaction, error) {
	var s entity.SalesTransaction
	err := row.Scan(&s.ID, &s.ItemID, &s.StoreID, &s.Quantity, &s.UnitPrice, &s.TotalAmount, &s.CostPrice,
		&s.TotalCost, &s.GrossProfit, &s.CustomerName, &s.SaleDate, &s.CreatedBy, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
