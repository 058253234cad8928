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
)

// AdjustUseCase ajuste administrativo de existencias con bloqueo de fila (SELECT FOR UPDATE)
// y Commit/Rollback. Cada ajuste deja un movimiento ADJUSTMENT en el kardex.
type AdjustUseCase struct {
	txRunner ports.TxRunner
	now      func() time.Time
}

// NewAdjustUseCase construye el caso de uso.
func NewAdjustUseCase(txRunner ports.TxRunner) *AdjustUseCase {
	return &AdjustUseCase{txRunner: txRunner, now: time.Now}
}

// Adjust suma o resta QuantityChange al lote (tienda, ítem, número). Un cambio positivo sobre un
// lote inexistente lo crea y exige expiry_date; uno negativo exige el lote y que no quede en negativo.
func (uc *AdjustUseCase) Adjust(ctx context.Context, userID string, in dto.AdjustInventoryRequest) (*dto.AdjustInventoryResponse, error) {
	if in.QuantityChange == 0 {
		return nil, fmt.Errorf("%w: quantity_change no puede ser 0", domain.ErrInvalidInput)
	}
	if in.UnitCost != nil && in.UnitCost.IsNegative() {
		return nil, fmt.Errorf("%w: unit_cost no puede ser negativo", domain.ErrInvalidInput)
	}
	now := uc.now()
	out := &dto.AdjustInventoryResponse{}

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

		// Bloquea la fila del lote para evitar condiciones de carrera con ventas y recepciones
		batch, err := r.Batches.FindForUpdate(ctx, in.StoreID, in.ItemID, in.BatchNo)
		if err != nil {
			return err
		}
		if in.QuantityChange > 0 {
			batch, out.Created, err = uc.doIncrease(ctx, r, batch, item, in, now)
		} else {
			batch, err = uc.doDecrease(ctx, r, batch, item, in, now)
		}
		if err != nil {
			return err
		}

		notes := in.Notes
		if notes == "" {
			notes = "Ajuste manual de inventario"
		}
		mov := &entity.InventoryTransaction{
			ID:            uuid.New().String(),
			BatchID:       batch.ID,
			ItemID:        batch.ItemID,
			Type:          entity.TxAdjustment,
			Quantity:      in.QuantityChange,
			ReferenceType: entity.RefAdjustment,
			ReferenceID:   uuid.New().String(),
			Notes:         notes,
			CreatedBy:     userID,
			CreatedAt:     now,
		}
		if err := r.Transactions.Create(ctx, mov); err != nil {
			return err
		}
		out.Batch = ToBatchResponse(batch)
		out.TransactionID = mov.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// doIncrease: crea el lote si no existe; si existe suma la cantidad y, con costo informado,
// recalcula el costo promedio ponderado (CostCalculator).
func (uc *AdjustUseCase) doIncrease(
	ctx context.Context,
	r ports.TxRepos,
	batch *entity.InventoryBatch,
	item *entity.Item,
	in dto.AdjustInventoryRequest,
	now time.Time,
) (*entity.InventoryBatch, bool, error) {
	if batch == nil {
		if in.ExpiryDate == nil {
			return nil, false, fmt.Errorf("%w: expiry_date es obligatoria para crear el lote", domain.ErrInvalidInput)
		}
		if err := checkFutureExpiry(*in.ExpiryDate, now); err != nil {
			return nil, false, err
		}
		cost := decimal.Zero
		if in.UnitCost != nil {
			cost = *in.UnitCost
		}
		batch = &entity.InventoryBatch{
			ID:             uuid.New().String(),
			ItemID:         in.ItemID,
			StoreID:        in.StoreID,
			BatchNo:        in.BatchNo,
			ExpiryDate:     *in.ExpiryDate,
			QuantityOnHand: in.QuantityChange,
			UnitCost:       cost,
			Status:         domaininv.BatchStatus(in.QuantityChange, item.EffectiveMinStock()),
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := r.Batches.Create(ctx, batch); err != nil {
			return nil, false, err
		}
		return batch, true, nil
	}

	if in.UnitCost != nil {
		batch.UnitCost = domaininv.WeightedBatchCost(batch.QuantityOnHand, batch.UnitCost, in.QuantityChange, *in.UnitCost)
	}
	if in.ExpiryDate != nil {
		batch.ExpiryDate = *in.ExpiryDate
	}
	batch.QuantityOnHand += in.QuantityChange
	batch.Status = domaininv.BatchStatus(batch.QuantityOnHand, item.EffectiveMinStock())
	batch.UpdatedAt = now
	if err := r.Batches.Update(ctx, batch); err != nil {
		return nil, false, err
	}
	return batch, false, nil
}

// doDecrease: verifica StockActual + cambio >= 0 y resta.
func (uc *AdjustUseCase) doDecrease(
	ctx context.Context,
	r ports.TxRepos,
	batch *entity.InventoryBatch,
	item *entity.Item,
	in dto.AdjustInventoryRequest,
	now time.Time,
) (*entity.InventoryBatch, error) {
	if batch == nil {
		return nil, fmt.Errorf("%w: lote %s", domain.ErrNotFound, in.BatchNo)
	}
	newQty := batch.QuantityOnHand + in.QuantityChange
	if newQty < 0 {
		return nil, fmt.Errorf("%w: el lote tiene %d unidades", domain.ErrInsufficientStock, batch.QuantityOnHand)
	}
	batch.QuantityOnHand = newQty
	batch.Status = domaininv.BatchStatus(newQty, item.EffectiveMinStock())
	batch.UpdatedAt = now
	if err := r.Batches.Update(ctx, batch); err != nil {
		return nil, err
	}
	return batch, nil
}
