package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/supply-chain-api/internal/application/dto"
	"github.com/jhoicas/supply-chain-api/internal/domain"
	"github.com/jhoicas/supply-chain-api/internal/domain/entity"
	"github.com/jhoicas/supply-chain-api/internal/domain/procurement"
	"github.com/jhoicas/supply-chain-api/internal/domain/repository"
)

// DefaultCurrency moneda de los precios de proveedor cuando no se indica.
const DefaultCurrency = "VND"

// SupplierItemUseCase mapeos proveedor ↔ ítem y selección del mejor proveedor.
type SupplierItemUseCase struct {
	repo      repository.SupplierItemRepository
	suppliers repository.SupplierRepository
	items     repository.ItemRepository
	now       func() time.Time
}

// NewSupplierItemUseCase construye el caso de uso.
func NewSupplierItemUseCase(
	repo repository.SupplierItemRepository,
	suppliers repository.SupplierRepository,
	items repository.ItemRepository,
) *SupplierItemUseCase {
	return &SupplierItemUseCase{repo: repo, suppliers: suppliers, items: items, now: time.Now}
}

// Create registra el mapeo. El par (proveedor, ítem) es único.
func (uc *SupplierItemUseCase) Create(ctx context.Context, in dto.CreateSupplierItemRequest) (*dto.SupplierItemResponse, error) {
	supplier, err := uc.suppliers.GetByID(ctx, in.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, fmt.Errorf("%w: proveedor %s no existe", domain.ErrNotFound, in.SupplierID)
	}
	item, err := uc.items.GetByID(ctx, in.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%w: ítem %s no existe", domain.ErrNotFound, in.ItemID)
	}
	existing, err := uc.repo.GetBySupplierAndItem(ctx, in.SupplierID, in.ItemID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}

	now := uc.now()
	m := &entity.SupplierItem{
		ID:            uuid.New().String(),
		SupplierID:    in.SupplierID,
		ItemID:        in.ItemID,
		UnitPrice:     in.UnitPrice,
		Currency:      in.Currency,
		MinOrderQty:   in.MinOrderQty,
		LeadTimeDays:  in.LeadTimeDays,
		IsPreferred:   in.IsPreferred,
		IsActive:      true,
		EffectiveFrom: in.EffectiveFrom,
		EffectiveTo:   in.EffectiveTo,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if m.Currency == "" {
		m.Currency = DefaultCurrency
	}
	if m.MinOrderQty <= 0 {
		m.MinOrderQty = 1
	}
	if err := validateMapping(m); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	return toSupplierItemResponse(m), nil
}

// GetByID obtiene un mapeo.
func (uc *SupplierItemUseCase) GetByID(ctx context.Context, id string) (*dto.SupplierItemResponse, error) {
	m, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	return toSupplierItemResponse(m), nil
}

// ListByItem mapeos del ítem (preferido primero, luego menor precio).
func (uc *SupplierItemUseCase) ListByItem(ctx context.Context, itemID string) ([]dto.SupplierItemResponse, error) {
	list, err := uc.repo.ListByItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	return toSupplierItemResponses(list), nil
}

// ListBySupplier mapeos del proveedor.
func (uc *SupplierItemUseCase) ListBySupplier(ctx context.Context, supplierID string) ([]dto.SupplierItemResponse, error) {
	list, err := uc.repo.ListBySupplier(ctx, supplierID)
	if err != nil {
		return nil, err
	}
	return toSupplierItemResponses(list), nil
}

// Best devuelve el mapeo que usaría la reposición para el ítem en este momento.
func (uc *SupplierItemUseCase) Best(ctx context.Context, itemID string) (*dto.SupplierItemResponse, error) {
	list, err := uc.repo.ListByItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	best := procurement.BestMapping(list, uc.now())
	if best == nil {
		return nil, domain.ErrNoSupplierMapping
	}
	return toSupplierItemResponse(best), nil
}

// Update modifica precio, MOQ, lead time, preferencia, estado o vigencia.
func (uc *SupplierItemUseCase) Update(ctx context.Context, id string, in dto.UpdateSupplierItemRequest) (*dto.SupplierItemResponse, error) {
	m, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	if in.UnitPrice != nil {
		m.UnitPrice = *in.UnitPrice
	}
	if in.Currency != nil {
		m.Currency = *in.Currency
	}
	if in.MinOrderQty != nil {
		m.MinOrderQty = *in.MinOrderQty
	}
	if in.LeadTimeDays != nil {
		m.LeadTimeDays = *in.LeadTimeDays
	}
	if in.IsPreferred != nil {
		m.IsPreferred = *in.IsPreferred
	}
	if in.IsActive != nil {
		m.IsActive = *in.IsActive
	}
	if in.EffectiveFrom != nil {
		m.EffectiveFrom = in.EffectiveFrom
	}
	if in.EffectiveTo != nil {
		m.EffectiveTo = in.EffectiveTo
	}
	if err := validateMapping(m); err != nil {
		return nil, err
	}
	m.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, m); err != nil {
		return nil, err
	}
	return toSupplierItemResponse(m), nil
}

// Delete elimina el mapeo.
func (uc *SupplierItemUseCase) Delete(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}

func validateMapping(m *entity.SupplierItem) error {
	if !m.UnitPrice.IsPositive() {
		return fmt.Errorf("%w: unit_price debe ser mayor que 0", domain.ErrInvalidInput)
	}
	if m.MinOrderQty < 1 {
		return fmt.Errorf("%w: min_order_qty debe ser al menos 1", domain.ErrInvalidInput)
	}
	if m.LeadTimeDays < 0 {
		return fmt.Errorf("%w: lead_time_days no puede ser negativo", domain.ErrInvalidInput)
	}
	if m.EffectiveFrom != nil && m.EffectiveTo != nil && m.EffectiveTo.Before(*m.EffectiveFrom) {
		return fmt.Errorf("%w: effective_to anterior a effective_from", domain.ErrInvalidInput)
	}
	return nil
}

func toSupplierItemResponses(list []*entity.SupplierItem) []dto.SupplierItemResponse {
	out := make([]dto.SupplierItemResponse, 0, len(list))
	for _, m := range list {
		out = append(out, *toSupplierItemResponse(m))
	}
	return out
}

func toSupplierItemResponse(m *entity.SupplierItem) *dto.SupplierItemResponse {
	return &dto.SupplierItemResponse{
		ID:            m.ID,
		SupplierID:    m.SupplierID,
		ItemID:        m.ItemID,
		UnitPrice:     m.UnitPrice,
		Currency:      m.Currency,
		MinOrderQty:   m.MinOrderQty,
		LeadTimeDays:  m.LeadTimeDays,
		IsPreferred:   m.IsPreferred,
		IsActive:      m.IsActive,
		EffectiveFrom: m.EffectiveFrom,
		EffectiveTo:   m.EffectiveTo,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}
