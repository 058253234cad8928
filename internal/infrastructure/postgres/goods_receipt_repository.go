package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/supply-chain-api/internal/domain"
	"github.com/jhoicas/supply-chain-api/internal/domain/entity"
	"github.com/jhoicas/supply-chain-api/internal/domain/repository"
)

var _ repository.GoodsReceiptRepository = (*GoodsReceiptRepo)(nil)

// GoodsReceiptRepo recepciones de mercancía y sus líneas.
type GoodsReceiptRepo struct {
	q Querier
}

// NewGoodsReceiptRepository construye el adaptador.
func NewGoodsReceiptRepository(q Querier) *GoodsReceiptRepo {
	return &GoodsReceiptRepo{q: q}
}

// Create persiste la recepción y sus líneas.
func (r *GoodsReceiptRepo) Create(ctx context.Context, grn *entity.GoodsReceipt) error {
	const q = `
		INSERT INTO goods_receipts (id, grn_number, po_id, received_by, received_date, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := r.q.Exec(ctx, q,
		grn.ID, grn.GRNNumber, grn.POID, grn.ReceivedBy, grn.ReceivedDate, grn.Notes, grn.CreatedAt,
	); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert goods receipt: %w", err)
	}

	const lineQuery = `
		INSERT INTO goods_receipt_items (id, grn_id, item_id, batch_id, batch_no, quantity, unit_cost, expiry_date, temperature)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	for i := range grn.Items {
		it := &grn.Items[i]
		if it.ID == "" {
			it.ID = uuid.New().String()
		}
		it.GRNID = grn.ID
		if _, err := r.q.Exec(ctx, lineQuery,
			it.ID, it.GRNID, it.ItemID, it.BatchID, it.BatchNo, it.Quantity, it.UnitCost, it.ExpiryDate, it.Temperature,
		); err != nil {
			return fmt.Errorf("insert goods receipt item: %w", err)
		}
	}
	return nil
}

// GetByID carga la recepción con sus líneas.
func (r *GoodsReceiptRepo) GetByID(ctx context.Context, id string) (*entity.GoodsReceipt, error) {
	const q = `
		SELECT id, grn_number, po_id, received_by, received_date, notes, created_at
		FROM goods_receipts WHERE id = $1 AND deleted_at IS NULL`
	grn, err := scanGRN(r.q.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get goods receipt: %w", err)
	}

	const itemsQuery = `
		SELECT id, grn_id, item_id, batch_id, batch_no, quantity, unit_cost, expiry_date, temperature
		FROM goods_receipt_items WHERE grn_id = $1`
	rows, err := r.q.Query(ctx, itemsQuery, grn.ID)
	if err != nil {
		return nil, fmt.Errorf("list goods receipt items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.GoodsReceiptItem
		if err := rows.Scan(&it.ID, &it.GRNID, &it.ItemID, &it.BatchID, &it.BatchNo, &it.Quantity,
			&it.UnitCost, &it.ExpiryDate, &it.Temperature); err != nil {
			return nil, fmt.Errorf("scan goods receipt item: %w", err)
		}
		grn.Items = append(grn.Items, it)
	}
	return grn, rows.Err()
}

// List recepciones (cabeceras); poID vacío = todas.
func (r *GoodsReceiptRepo) List(ctx context.Context, poID string, limit, offset int) ([]*entity.GoodsReceipt, error) {
	q := psql.Select("id", "grn_number", "po_id", "received_by", "received_date", "notes", "created_at").
		From("goods_receipts").
		Where("deleted_at IS NULL").
		OrderBy("received_date DESC")
	if poID != "" {
		q = q.Where("po_id = ?", poID)
	}
	sql, args, err := page(q, limit, offset).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list goods receipts: %w", err)
	}
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list goods receipts: %w", err)
	}
	defer rows.Close()
	var list []*entity.GoodsReceipt
	for rows.Next() {
		grn, err := scanGRN(rows)
		if err != nil {
			return nil, fmt.Errorf("scan goods receipt: %w", err)
		}
		list = append(list, grn)
	}
	return list, rows.Err()
}

// SoftDelete marca deleted_at.
func (r *GoodsReceiptRepo) SoftDelete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `UPDATE goods_receipts SET deleted_at = now() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("soft delete goods receipt: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanGRN(row pgx.Row) (*entity.GoodsReceipt, error) {
	var g entity.GoodsReceipt
	if err := row.Scan(&g.ID, &g.GRNNumber, &g.POID, &g.ReceivedBy, &g.ReceivedDate, &g.Notes, &g.CreatedAt); err != nil {
		return nil, err
	}
	return &g, nil
}
