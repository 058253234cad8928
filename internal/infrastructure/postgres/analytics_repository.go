package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/jhoicas/supply-chain-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura para reportes, notificaciones y monitoreo.
type AnalyticsRepo struct {
	q Querier
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{q: q}
}

// BatchViews lotes con ítem y tienda.
func (r *AnalyticsRepo) BatchViews(ctx context.Context, f repository.BatchViewFilter) ([]repository.BatchView, error) {
	q := psql.Select(
		"b.id AS batch_id", "b.batch_no", "b.item_id", "i.item_name", "i.sku", "i.min_stock_level",
		"i.storage_type", "i.min_temperature", "i.max_temperature", "b.store_id", "s.name AS store_name",
		"b.quantity_on_hand", "b.unit_cost", "b.temperature", "b.status", "b.expiry_date", "b.created_at",
	).
		From("inventory_batches b").
		Join("items i ON i.id = b.item_id").
		Join("stores s ON s.id = b.store_id")

	if len(f.Statuses) > 0 {
		q = q.Where(squirrel.Eq{"b.status": f.Statuses})
	}
	if f.MinQty != nil {
		q = q.Where(squirrel.GtOrEq{"b.quantity_on_hand": *f.MinQty})
	}
	if f.ExpiringBefore != nil {
		q = q.Where(squirrel.Lt{"b.expiry_date": *f.ExpiringBefore})
	}
	orderBy := f.OrderBy
	if orderBy == "" {
		orderBy = "b.created_at DESC"
	}
	q = page(q.OrderBy(orderBy), f.Limit, 0)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("analytics.BatchViews: build: %w", err)
	}
	var views []repository.BatchView
	if err := pgxscan.Select(ctx, r.q, &views, sql, args...); err != nil {
		return nil, fmt.Errorf("analytics.BatchViews: %w", err)
	}
	return views, nil
}

// SaleViews ventas con ítem y tienda, más recientes primero.
func (r *AnalyticsRepo) SaleViews(ctx context.Context, f repository.SaleViewFilter) ([]repository.SaleView, error) {
	q := psql.Select(
		"st.id", "st.item_id", "i.item_name", "i.sku", "st.store_id", "s.name AS store_name",
		"st.quantity", "st.unit_price", "st.total_amount", "st.total_cost", "st.gross_profit",
		"st.customer_name", "st.sale_date",
	).
		From("sales_transactions st").
		Join("items i ON i.id = st.item_id").
		Join("stores s ON s.id = st.store_id").
		OrderBy("st.sale_date DESC")

	if f.StoreID != "" {
		q = q.Where(squirrel.Eq{"st.store_id": f.StoreID})
	}
	if f.From != nil {
		q = q.Where(squirrel.GtOrEq{"st.sale_date": *f.From})
	}
	if f.To != nil {
		q = q.Where(squirrel.LtOrEq{"st.sale_date": *f.To})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("analytics.SaleViews: build: %w", err)
	}
	var views []repository.SaleView
	if err := pgxscan.Select(ctx, r.q, &views, sql, args...); err != nil {
		return nil, fmt.Errorf("analytics.SaleViews: %w", err)
	}
	return views, nil
}

// POViews cabeceras vigentes con proveedor, tienda y número de líneas.
func (r *AnalyticsRepo) POViews(ctx context.Context) ([]repository.POView, error) {
	const query = `
	SELECT
	    po.id, po.po_number, po.status, po.supplier_id, sp.name AS supplier_name,
	    po.store_id, s.name AS store_name, po.total_amount, po.order_date,
	    po.expected_delivery_date, po.created_at,
	    (SELECT COUNT(*) FROM purchase_order_items poi WHERE poi.po_id = po.id) AS line_count
	FROM purchase_orders po
	JOIN suppliers sp ON sp.id = po.supplier_id
	JOIN stores    s  ON s.id  = po.store_id
	WHERE po.deleted_at IS NULL
	ORDER BY po.created_at DESC`

	var views []repository.POView
	if err := pgxscan.Select(ctx, r.q, &views, query); err != nil {
		return nil, fmt.Errorf("analytics.POViews: %w", err)
	}
	return views, nil
}

// SalesTotalsSince ingresos y costo acumulados desde since.
func (r *AnalyticsRepo) SalesTotalsSince(ctx context.Context, since time.Time) (repository.SalesTotals, error) {
	const query = `
	SELECT COALESCE(SUM(total_amount), 0) AS revenue,
	       COALESCE(SUM(total_cost), 0)   AS cost
	FROM sales_transactions
	WHERE sale_date >= $1`

	var totals repository.SalesTotals
	if err := pgxscan.Get(ctx, r.q, &totals, query, since); err != nil {
		return repository.SalesTotals{}, fmt.Errorf("analytics.SalesTotalsSince: %w", err)
	}
	return totals, nil
}
