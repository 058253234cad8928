package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/supply-chain-api/internal/domain"
	"github.com/jhoicas/supply-chain-api/internal/domain/entity"
	"github.com/jhoicas/supply-chain-api/internal/domain/procurement"
	"github.com/jhoicas/supply-chain-api/internal/domain/repository"
)

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

var poCols = []string{
	"id", "po_number", "order_date", "expected_delivery_date", "status", "total_amount", "notes",
	"supplier_id", "store_id", "approved_by", "approved_at", "rejection_reason", "confirmed_by",
	"confirmed_at", "sent_at", "actual_delivery_date", "supplier_notes", "dispatch_digest",
	"created_by", "created_at", "updated_at",
}

// PurchaseOrderRepo cabecera y líneas de órdenes de compra (usable con pool o tx).
type PurchaseOrderRepo struct {
	q Querier
}

// NewPurchaseOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

// NextNumber toma el siguiente valor de po_number_seq.
func (r *PurchaseOrderRepo) NextNumber(ctx context.Context) (string, error) {
	var n int64
	if err := r.q.QueryRow(ctx, `SELECT nextval('po_number_seq')`).Scan(&n); err != nil {
		return "", fmt.Errorf("next po number: %w", err)
	}
	return procurement.FormatPONumber(n), nil
}

// Create persiste la cabecera y cada línea.
func (r *PurchaseOrderRepo) Create(ctx context.Context, po *entity.PurchaseOrder) error {
	sql, args, err := psql.Insert("purchase_orders").Columns(poCols...).Values(
		po.ID, po.PONumber, po.OrderDate, po.ExpectedDeliveryDate, po.Status, po.TotalAmount, po.Notes,
		po.SupplierID, po.StoreID, po.ApprovedBy, po.ApprovedAt, po.RejectionReason, po.ConfirmedBy,
		po.ConfirmedAt, po.SentAt, po.ActualDeliveryDate, po.SupplierNotes, po.DispatchDigest,
		po.CreatedBy, po.CreatedAt, po.UpdatedAt,
	).ToSql()
	if err != nil {
		return fmt.Errorf("build insert purchase order: %w", err)
	}
	if _, err := r.q.Exec(ctx, sql, args...); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert purchase order: %w", err)
	}

	const lineQuery = `
		INSERT INTO purchase_order_items (id, po_id, item_id, quantity, unit_price, total_amount, unit)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	for i := range po.Items {
		line := &po.Items[i]
		if line.ID == "" {
			line.ID = uuid.New().String()
		}
		line.POID = po.ID
		if _, err := r.q.Exec(ctx, lineQuery,
			line.ID, line.POID, line.ItemID, line.Quantity, line.UnitPrice, line.TotalAmount, line.Unit,
		); err != nil {
			return fmt.Errorf("insert purchase order item: %w", err)
		}
	}
	return nil
}

// GetByID carga la orden con sus líneas.
func (r *PurchaseOrderRepo) GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.getOne(ctx, id, false)
}

// GetForUpdate carga y bloquea la cabecera.
func (r *PurchaseOrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.getOne(ctx, id, true)
}

func (r *PurchaseOrderRepo) getOne(ctx context.Context, id string, lock bool) (*entity.PurchaseOrder, error) {
	q := psql.Select(poCols...).From("purchase_orders").Where(squirrel.Eq{"id": id, "deleted_at": nil})
	if lock {
		q = q.Suffix("FOR UPDATE")
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get purchase order: %w", err)
	}
	po, err := scanPO(r.q.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase order: %w", err)
	}
	if po.Items, err = r.lines(ctx, po.ID); err != nil {
		return nil, err
	}
	return po, nil
}

func (r *PurchaseOrderRepo) lines(ctx context.Context, poID string) ([]entity.PurchaseOrderItem, error) {
	const q = `
		SELECT id, po_id, item_id, quantity, unit_price, total_amount, unit
		FROM purchase_order_items WHERE po_id = $1 ORDER BY id`
	rows, err := r.q.Query(ctx, q, poID)
	if err != nil {
		return nil, fmt.Errorf("list purchase order items: %w", err)
	}
	defer rows.Close()
	var items []entity.PurchaseOrderItem
	for rows.Next() {
		var it entity.PurchaseOrderItem
		if err := rows.Scan(&it.ID, &it.POID, &it.ItemID, &it.Quantity, &it.UnitPrice, &it.TotalAmount, &it.Unit); err != nil {
			return nil, fmt.Errorf("scan purchase order item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// Update actualiza la cabecera.
func (r *PurchaseOrderRepo) Update(ctx context.Context, po *entity.PurchaseOrder) error {
	sql, args, err := psql.Update("purchase_orders").
		Set("expected_delivery_date", po.ExpectedDeliveryDate).
		Set("status", po.Status).
		Set("total_amount", po.TotalAmount).
		Set("notes", po.Notes).
		Set("approved_by", po.ApprovedBy).
		Set("approved_at", po.ApprovedAt).
		Set("rejection_reason", po.RejectionReason).
		Set("confirmed_by", po.ConfirmedBy).
		Set("confirmed_at", po.ConfirmedAt).
		Set("sent_at", po.SentAt).
		Set("actual_delivery_date", po.ActualDeliveryDate).
		Set("supplier_notes", po.SupplierNotes).
		Set("dispatch_digest", po.DispatchDigest).
		Set("updated_at", po.UpdatedAt).
		Where(squirrel.Eq{"id": po.ID, "deleted_at": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update purchase order: %w", err)
	}
	cmd, err := r.q.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update purchase order: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SoftDelete marca deleted_at.
func (r *PurchaseOrderRepo) SoftDelete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `UPDATE purchase_orders SET deleted_at = now() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("soft delete purchase order: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List cabeceras filtradas (sin líneas), más recientes primero.
func (r *PurchaseOrderRepo) List(ctx context.Context, f repository.PurchaseOrderFilter) ([]*entity.PurchaseOrder, error) {
	q := psql.Select(poCols...).From("purchase_orders").Where(squirrel.Eq{"deleted_at": nil}).OrderBy("created_at DESC")
	if f.Status != "" {
		q = q.Where(squirrel.Eq{"status": f.Status})
	}
	if f.SupplierID != "" {
		q = q.Where(squirrel.Eq{"supplier_id": f.SupplierID})
	}
	if f.StoreID != "" {
		q = q.Where(squirrel.Eq{"store_id": f.StoreID})
	}
	return r.list(ctx, page(q, f.Limit, f.Offset))
}

// ListPendingApproval órdenes a la espera de aprobación, las más antiguas primero.
func (r *PurchaseOrderRepo) ListPendingApproval(ctx context.Context) ([]*entity.PurchaseOrder, error) {
	return r.list(ctx, psql.Select(poCols...).From("purchase_orders").
		Where(squirrel.Eq{"deleted_at": nil, "status": entity.POStatusPendingApproval}).
		OrderBy("created_at ASC"))
}

// CountByStatus cuenta órdenes vigentes en el estado.
func (r *PurchaseOrderRepo) CountByStatus(ctx context.Context, status string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM purchase_orders WHERE status = $1 AND deleted_at IS NULL`, status,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count purchase orders: %w", err)
	}
	return n, nil
}

func (r *PurchaseOrderRepo) list(ctx context.Context, q squirrel.SelectBuilder) ([]*entity.PurchaseOrder, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list purchase orders: %w", err)
	}
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list purchase orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.PurchaseOrder
	for rows.Next() {
		po, err := scanPO(rows)
		if err != nil {
			return nil, fmt.Errorf("scan purchase order: %w", err)
		}
		list = append(list, po)
	}
	return list, rows.Err()
}

func scanPO(row pgx.Row) (*entity.PurchaseOrder, error) {
	var po entity.PurchaseOrder
	err := row.Scan(&po.ID, &po.PONumber, &po.OrderDate, &po.ExpectedDeliveryDate, &po.Status, &po.TotalAmount,
		&po.Notes, &po.SupplierID, &po.StoreID, &po.ApprovedBy, &po.ApprovedAt, &po.RejectionReason,
		&po.ConfirmedBy, &po.ConfirmedAt, &po.SentAt, &po.ActualDeliveryDate, &po.SupplierNotes,
		&po.DispatchDigest, &po.CreatedBy, &po.CreatedAt, &po.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &po, nil
}
