package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/supply-chain-api/internal/application/dto"
	"github.com/jhoicas/supply-chain-api/internal/application/ports"
	"github.com/jhoicas/supply-chain-api/internal/domain"
	"github.com/jhoicas/supply-chain-api/internal/domain/entity"
	domaininv "github.com/jhoicas/supply-chain-api/internal/domain/inventory"
	"github.com/jhoicas/supply-chain-api/internal/domain/repository"
)

// SalesUseCase registra ventas descontando los lotes por FIFO (primero el que vence antes).
type SalesUseCase struct {
	txRunner ports.TxRunner
	sales    repository.SalesRepository
	now      func() time.Time
}

// NewSalesUseCase construye el caso de uso.
func NewSalesUseCase(txRunner ports.TxRunner, sales repository.SalesRepository) *SalesUseCase {
	return &SalesUseCase{txRunner: txRunner, sales: sales, now: time.Now}
}

// Create registra la venta en una sola transacción: bloquea los lotes vendibles, reparte la
// cantidad, actualiza cantidades y estados, y deja un ISSUE por lote consumido.
// Si la demanda no se cubre completa no se modifica nada (ErrInsufficientStock).
func (uc *SalesUseCase) Create(ctx context.Context, userID string, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if in.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity debe ser mayor que 0", domain.ErrInvalidInput)
	}
	if in.UnitPrice.IsNegative() {
		return nil, fmt.Errorf("%w: unit_price no puede ser negativo", domain.ErrInvalidInput)
	}
	now := uc.now()
	saleDate := now
	if in.SaleDate != nil {
		saleDate = *in.SaleDate
	}

	var (
		sale   *entity.SalesTransaction
		allocs []domaininv.Allocation
	)
	err := uc.txRunner.Run(ctx, func(r ports.TxRepos) error {
		item, err := r.Items.GetByID(ctx, in.ItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return fmt.Errorf("%w: ítem %s", domain.ErrNotFound, in.ItemID)
		}
		store, err := r.Stores.GetByID(ctx, in.StoreID)
		if err != nil {
			return err
		}
		if store == nil {
			return fmt.Errorf("%w: tienda %s", domain.ErrNotFound, in.StoreID)
		}

		batches, err := r.Batches.ListSellableForUpdate(ctx, in.ItemID, in.StoreID)
		if err != nil {
			return err
		}
		var remaining int
		allocs, remaining = domaininv.AllocateFIFO(batches, in.Quantity, now)
		if remaining > 0 {
			return fmt.Errorf("%w: disponibles %d, solicitadas %d",
				domain.ErrInsufficientStock, in.Quantity-remaining, in.Quantity)
		}

		totalAmount := mulQty(in.UnitPrice, in.Quantity)
		totalCost := domaininv.TotalCost(allocs)
		sale = &entity.SalesTransaction{
			ID:           uuid.New().String(),
			ItemID:       in.ItemID,
			StoreID:      in.StoreID,
			Quantity:     in.Quantity,
			UnitPrice:    in.UnitPrice,
			TotalAmount:  totalAmount,
			CostPrice:    totalCost.Div(decimal.NewFromInt(int64(in.Quantity))).Round(4),
			TotalCost:    totalCost,
			GrossProfit:  totalAmount.Sub(totalCost),
			CustomerName: in.CustomerName,
			SaleDate:     saleDate,
			CreatedBy:    userID,
			CreatedAt:    now,
		}
		if err := r.Sales.Create(ctx, sale); err != nil {
			return err
		}

		for _, a := range allocs {
			b := a.Batch
			b.QuantityOnHand -= a.Quantity
			b.Status = domaininv.BatchStatus(b.QuantityOnHand, item.EffectiveMinStock())
			b.UpdatedAt = now
			if err := r.Batches.Update(ctx, b); err != nil {
				return err
			}
			if err := r.Transactions.Create(ctx, &entity.InventoryTransaction{
				ID:            uuid.New().String(),
				BatchID:       b.ID,
				ItemID:        b.ItemID,
				Type:          entity.TxIssue,
				Quantity:      -a.Quantity,
				ReferenceType: entity.RefSales,
				ReferenceID:   sale.ID,
				Notes:         fmt.Sprintf("Venta %s", sale.ID),
				CreatedBy:     userID,
				CreatedAt:     now,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := toSaleResponse(sale)
	for _, a := range allocs {
		out.Allocations = append(out.Allocations, dto.SaleAllocationResponse{
			BatchID:  a.Batch.ID,
			BatchNo:  a.Batch.BatchNo,
			Quantity: a.Quantity,
			UnitCost: a.Batch.UnitCost,
		})
	}
	return out, nil
}

// GetByID obtiene una venta.
func (uc *SalesUseCase) GetByID(ctx context.Context, id string) (*dto.SaleResponse, error) {
	s, err := uc.sales.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	return toSaleResponse(s), nil
}

// List lista ventas por tienda, ítem y rango de fechas (YYYY-MM-DD o RFC3339).
func (uc *SalesUseCase) List(ctx context.Context, q dto.SaleListQuery) (*dto.SaleListResponse, error) {
	q.DefaultPage()
	from, err := ParseDate(q.From, false)
	if err != nil {
		return nil, err
	}
	to, err := ParseDate(q.To, true)
	if err != nil {
		return nil, err
	}
	list, err := uc.sales.List(ctx, repository.SalesFilter{
		StoreID: q.StoreID,
		ItemID:  q.ItemID,
		From:    from,
		To:      to,
		Limit:   q.Limit,
		Offset:  q.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toSaleResponse(s))
	}
	return &dto.SaleListResponse{Items: items, Page: dto.PageResponse{Limit: q.Limit, Offset: q.Offset}}, nil
}

// ParseDate interpreta una fecha de filtro. Vacío = sin filtro. Con endOfDay una fecha sin hora
// cubre el día completo.
func ParseDate(s string, endOfDay bool) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, fmt.Errorf("%w: fecha %q inválida", domain.ErrInvalidInput, s)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
