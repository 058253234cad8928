package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/supply-chain-api/internal/application/dto"
	"github.com/jhoicas/supply-chain-api/internal/domain"
	"github.com/jhoicas/supply-chain-api/internal/domain/entity"
	domaininv "github.com/jhoicas/supply-chain-api/internal/domain/inventory"
	"github.com/jhoicas/supply-chain-api/internal/domain/repository"
)

// BatchUseCase lotes de inventario y consulta del kardex.
type BatchUseCase struct {
	batches      repository.InventoryBatchRepository
	transactions repository.InventoryTransactionRepository
	items        repository.ItemRepository
	stores       repository.StoreRepository
	now          func() time.Time
}

// NewBatchUseCase construye el caso de uso.
func NewBatchUseCase(
	batches repository.InventoryBatchRepository,
	transactions repository.InventoryTransactionRepository,
	items repository.ItemRepository,
	stores repository.StoreRepository,
) *BatchUseCase {
	return &BatchUseCase{
		batches:      batches,
		transactions: transactions,
		items:        items,
		stores:       stores,
		now:          time.Now,
	}
}

// Create da de alta un lote. El número de lote es único por tienda y el estado se calcula
// con el nivel mínimo del ítem.
func (uc *BatchUseCase) Create(ctx context.Context, in dto.CreateBatchRequest) (*dto.BatchResponse, error) {
	if in.QuantityOnHand <= 0 {
		return nil, fmt.Errorf("%w: quantity_on_hand debe ser mayor que 0", domain.ErrInvalidInput)
	}
	if in.UnitCost.IsNegative() {
		return nil, fmt.Errorf("%w: unit_cost no puede ser negativo", domain.ErrInvalidInput)
	}
	now := uc.now()
	if err := checkFutureExpiry(in.ExpiryDate, now); err != nil {
		return nil, err
	}
	item, err := uc.items.GetByID(ctx, in.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%w: ítem %s", domain.ErrNotFound, in.ItemID)
	}
	store, err := uc.stores.GetByID(ctx, in.StoreID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, fmt.Errorf("%w: tienda %s", domain.ErrNotFound, in.StoreID)
	}
	existing, err := uc.batches.FindByStoreAndBatchNo(ctx, in.StoreID, in.BatchNo)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: el lote %s ya existe en la tienda", domain.ErrDuplicate, in.BatchNo)
	}

	b := &entity.InventoryBatch{
		ID:             uuid.New().String(),
		ItemID:         in.ItemID,
		StoreID:        in.StoreID,
		BatchNo:        in.BatchNo,
		ExpiryDate:     in.ExpiryDate,
		QuantityOnHand: in.QuantityOnHand,
		Temperature:    in.Temperature,
		UnitCost:       in.UnitCost,
		Status:         domaininv.BatchStatus(in.QuantityOnHand, item.EffectiveMinStock()),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.batches.Create(ctx, b); err != nil {
		return nil, err
	}
	out := ToBatchResponse(b)
	return &out, nil
}

// GetByID obtiene un lote.
func (uc *BatchUseCase) GetByID(ctx context.Context, id string) (*dto.BatchResponse, error) {
	b, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	out := ToBatchResponse(b)
	return &out, nil
}

// Update cambia vencimiento, costo o estado. La cantidad solo se mueve con ventas,
// recepciones o ajustes para que el kardex cuadre.
func (uc *BatchUseCase) Update(ctx context.Context, id string, in dto.UpdateBatchRequest) (*dto.BatchResponse, error) {
	b, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	if in.ExpiryDate != nil {
		if err := checkFutureExpiry(*in.ExpiryDate, now); err != nil {
			return nil, err
		}
		b.ExpiryDate = *in.ExpiryDate
	}
	if in.UnitCost != nil {
		if in.UnitCost.IsNegative() {
			return nil, fmt.Errorf("%w: unit_cost no puede ser negativo", domain.ErrInvalidInput)
		}
		b.UnitCost = *in.UnitCost
	}
	if in.Status != nil {
		b.Status = *in.Status
	}
	b.UpdatedAt = now
	if err := uc.batches.Update(ctx, b); err != nil {
		return nil, err
	}
	out := ToBatchResponse(b)
	return &out, nil
}

// List lista lotes filtrando por ítem, tienda y estado.
func (uc *BatchUseCase) List(ctx context.Context, q dto.BatchListQuery) (*dto.BatchListResponse, error) {
	q.DefaultPage()
	f := repository.BatchFilter{ItemID: q.ItemID, StoreID: q.StoreID, Limit: q.Limit, Offset: q.Offset}
	if q.Status != "" {
		f.Statuses = []string{q.Status}
	}
	list, err := uc.batches.List(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.BatchResponse, 0, len(list))
	for _, b := range list {
		items = append(items, ToBatchResponse(b))
	}
	return &dto.BatchListResponse{Items: items, Page: dto.PageResponse{Limit: q.Limit, Offset: q.Offset}}, nil
}

// Delete elimina un lote sin movimientos.
func (uc *BatchUseCase) Delete(ctx context.Context, id string) error {
	if _, err := uc.get(ctx, id); err != nil {
		return err
	}
	return uc.batches.Delete(ctx, id)
}

// ListTransactions consulta el kardex.
func (uc *BatchUseCase) ListTransactions(ctx context.Context, q dto.TransactionListQuery) (*dto.TransactionListResponse, error) {
	q.DefaultPage()
	list, err := uc.transactions.List(ctx, repository.TransactionFilter{
		ItemID:        q.ItemID,
		BatchID:       q.BatchID,
		Type:          q.Type,
		ReferenceType: q.ReferenceType,
		Limit:         q.Limit,
		Offset:        q.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.TransactionResponse, 0, len(list))
	for _, t := range list {
		items = append(items, toTransactionResponse(t))
	}
	return &dto.TransactionListResponse{Items: items, Page: dto.PageResponse{Limit: q.Limit, Offset: q.Offset}}, nil
}

// GetTransaction obtiene un movimiento del kardex.
func (uc *BatchUseCase) GetTransaction(ctx context.Context, id string) (*dto.TransactionResponse, error) {
	t, err := uc.transactions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}
	out := toTransactionResponse(t)
	return &out, nil
}

func (uc *BatchUseCase) get(ctx context.Context, id string) (*entity.InventoryBatch, error) {
	b, err := uc.batches.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, domain.ErrNotFound
	}
	return b, nil
}

// checkFutureExpiry exige un vencimiento posterior al inicio del día actual.
func checkFutureExpiry(expiry, now time.Time) error {
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	if !expiry.After(today) {
		return fmt.Errorf("%w: expiry_date debe ser futura", domain.ErrInvalidInput)
	}
	return nil
}

func mulQty(price decimal.Decimal, qty int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(qty)))
}
