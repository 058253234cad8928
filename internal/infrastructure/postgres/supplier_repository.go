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

var (
	_ repository.SupplierRepository     = (*SupplierRepo)(nil)
	_ repository.SupplierItemRepository = (*SupplierItemRepo)(nil)
)

const supplierColumns = `id, name, contact_person, email, phone, address, lead_time_days, reliability_score,
	is_active, created_at, updated_at`

// SupplierRepo implementación del puerto SupplierRepository sobre PostgreSQL.
type SupplierRepo struct {
	q Querier
}

// NewSupplierRepository construye el adaptador de persistencia para proveedores.
func NewSupplierRepository(q Querier) *SupplierRepo {
	return &SupplierRepo{q: q}
}

// Create persiste un proveedor.
func (r *SupplierRepo) Create(ctx context.Context, s *entity.Supplier) error {
	query := `
		INSERT INTO suppliers (` + supplierColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.Name, s.ContactPerson, s.Email, s.Phone, s.Address, s.LeadTimeDays, s.ReliabilityScore,
		s.IsActive, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert supplier: %w", err)
	}
	return nil
}

// GetByID obtiene un proveedor por ID.
func (r *SupplierRepo) GetByID(ctx context.Context, id string) (*entity.Supplier, error) {
	return r.getOne(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE id = $1`, id)
}

// GetByName obtiene un proveedor por nombre sin distinguir mayúsculas.
func (r *SupplierRepo) GetByName(ctx context.Context, name string) (*entity.Supplier, error) {
	return r.getOne(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE lower(name) = lower($1)`, name)
}

func (r *SupplierRepo) getOne(ctx context.Context, query string, arg any) (*entity.Supplier, error) {
	s, err := scanSupplier(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get supplier: %w", err)
	}
	return s, nil
}

// Update actualiza el proveedor.
func (r *SupplierRepo) Update(ctx context.Context, s *entity.Supplier) error {
	query := `
		UPDATE suppliers SET name = $2, contact_person = $3, email = $4, phone = $5, address = $6,
			lead_time_days = $7, reliability_score = $8, is_active = $9, updated_at = $10
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		s.ID, s.Name, s.ContactPerson, s.Email, s.Phone, s.Address, s.LeadTimeDays, s.ReliabilityScore,
		s.IsActive, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update supplier: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista proveedores por nombre.
func (r *SupplierRepo) List(ctx context.Context, limit, offset int) ([]*entity.Supplier, error) {
	rows, err := r.q.Query(ctx, `SELECT `+supplierColumns+` FROM suppliers ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Supplier
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			return nil, fmt.Errorf("scan supplier: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func scanSupplier(row pgx.Row) (*entity.Supplier, error) {
	var s entity.Supplier
	err := row.Scan(&s.ID, &s.Name, &s.ContactPerson, &s.Email, &s.Phone, &s.Address, &s.LeadTimeDays,
		&s.ReliabilityScore, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ── Mapeos proveedor ↔ ítem ───────────────────────────────────────────────────

var supplierItemCols = []string{
	"id", "supplier_id", "item_id", "unit_price", "currency", "min_order_qty", "lead_time_days",
	"is_preferred", "is_active", "effective_from", "effective_to", "created_at", "updated_at",
}

// SupplierItemRepo implementación del puerto SupplierItemRepository.
type SupplierItemRepo struct {
	q Querier
}

// NewSupplierItemRepository construye el adaptador de mapeos.
func NewSupplierItemRepository(q Querier) *SupplierItemRepo {
	return &SupplierItemRepo{q: q}
}

// Create persiste un mapeo.
func (r *SupplierItemRepo) Create(ctx context.Context, m *entity.SupplierItem) error {
	sql, args, err := psql.Insert("supplier_items").Columns(supplierItemCols...).Values(
		m.ID, m.SupplierID, m.ItemID, m.UnitPrice, m.Currency, m.MinOrderQty, m.LeadTimeDays,
		m.IsPreferred, m.IsActive, m.EffectiveFrom, m.EffectiveTo, m.CreatedAt, m.UpdatedAt,
	).ToSql()
	if err != nil {
		return fmt.Errorf("build insert supplier item: %w", err)
	}
	if _, err := r.q.Exec(ctx, sql, args...); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert supplier item: %w", err)
	}
	return nil
}

// GetByID obtiene un mapeo por ID.
func (r *SupplierItemRepo) GetByID(ctx context.Context, id string) (*entity.SupplierItem, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetBySupplierAndItem obtiene el mapeo único (proveedor, ítem).
func (r *SupplierItemRepo) GetBySupplierAndItem(ctx context.Context, supplierID, itemID string) (*entity.SupplierItem, error) {
	return r.getOne(ctx, squirrel.Eq{"supplier_id": supplierID, "item_id": itemID})
}

func (r *SupplierItemRepo) getOne(ctx context.Context, where squirrel.Eq) (*entity.SupplierItem, error) {
	sql, args, err := psql.Select(supplierItemCols...).From("supplier_items").Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get supplier item: %w", err)
	}
	m, err := scanSupplierItem(r.q.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get supplier item: %w", err)
	}
	return m, nil
}

// Update actualiza precio, MOQ, vigencia y banderas.
func (r *SupplierItemRepo) Update(ctx context.Context, m *entity.SupplierItem) error {
	sql, args, err := psql.Update("supplier_items").
		Set("unit_price", m.UnitPrice).
		Set("currency", m.Currency).
		Set("min_order_qty", m.MinOrderQty).
		Set("lead_time_days", m.LeadTimeDays).
		Set("is_preferred", m.IsPreferred).
		Set("is_active", m.IsActive).
		Set("effective_from", m.EffectiveFrom).
		Set("effective_to", m.EffectiveTo).
		Set("updated_at", m.UpdatedAt).
		Where(squirrel.Eq{"id": m.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update supplier item: %w", err)
	}
	cmd, err := r.q.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update supplier item: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un mapeo.
func (r *SupplierItemRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM supplier_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete supplier item: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByItem mapeos de un ítem.
func (r *SupplierItemRepo) ListByItem(ctx context.Context, itemID string) ([]*entity.SupplierItem, error) {
	return r.list(ctx, squirrel.Eq{"item_id": itemID})
}

// ListBySupplier mapeos de un proveedor.
func (r *SupplierItemRepo) ListBySupplier(ctx context.Context, supplierID string) ([]*entity.SupplierItem, error) {
	return r.list(ctx, squirrel.Eq{"supplier_id": supplierID})
}

// ListByItems mapeos de varios ítems.
func (r *SupplierItemRepo) ListByItems(ctx context.Context, itemIDs []string) ([]*entity.SupplierItem, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}
	return r.list(ctx, squirrel.Eq{"item_id": itemIDs})
}

func (r *SupplierItemRepo) list(ctx context.Context, where squirrel.Eq) ([]*entity.SupplierItem, error) {
	sql, args, err := psql.Select(supplierItemCols...).From("supplier_items").
		Where(where).OrderBy("is_preferred DESC", "unit_price ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list supplier items: %w", err)
	}
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list supplier items: %w", err)
	}
	defer rows.Close()
	var list []*entity.SupplierItem
	for rows.Next() {
		m, err := scanSupplierItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan supplier item: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

func scanSupplierItem(row pgx.Row) (*entity.SupplierItem, error) {
	var m entity.SupplierItem
	err := row.Scan(&m.ID, &m.SupplierID, &m.ItemID, &m.UnitPrice, &m.Currency, &m.MinOrderQty, &m.LeadTimeDays,
		&m.IsPreferred, &m.IsActive, &m.EffectiveFrom, &m.EffectiveTo, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
