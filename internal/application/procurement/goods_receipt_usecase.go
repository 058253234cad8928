package procurement

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/supply-chain-api/internal/application/dto"
	"github.com/jhoicas/supply-chain-api/internal/application/ports"
	"github.com/jhoicas/supply-chain-api/internal/domain"
	"github.com/jhoicas/supply-chain-api/internal/domain/entity"
	domaininv "github.com/jhoicas/supply-chain-api/internal/domain/inventory"
	domainproc "github.com/jhoicas/supply-chain-api/internal/domain/procurement"
	"github.com/jhoicas/supply-chain-api/internal/domain/repository"
	"github.com/jhoicas/supply-chain-api/pkg/logger"
)

// GoodsReceiptUseCase recepción de mercancía contra una orden enviada o confirmada.
type GoodsReceiptUseCase struct {
	txRunner ports.TxRunner
	receipts repository.GoodsReceiptRepository
	log      *logger.Logger
	now      func() time.Time
}

// NewGoodsReceiptUseCase construye el caso de uso.
func NewGoodsReceiptUseCase(txRunner ports.TxRunner, receipts repository.GoodsReceiptRepository, log *logger.Logger) *GoodsReceiptUseCase {
	return &GoodsReceiptUseCase{
		txRunner: txRunner,
		receipts: receipts,
		log:      log.Component("goods_receipts"),
		now:      time.Now,
	}
}

// Create registra la recepción en una sola transacción. Cada línea toma el costo de la línea de
// la orden; si el lote (tienda, ítem, número) existe se suma con costo promedio ponderado, si no
// se crea. Se escribe un RECEIPT por línea y la orden pasa a delivered.
func (uc *GoodsReceiptUseCase) Create(ctx context.Context, userID string, in dto.CreateGRNRequest) (*dto.GRNResponse, error) {
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: la recepción necesita al menos una línea", domain.ErrInvalidInput)
	}
	now := uc.now()
	received := now
	if in.ReceivedDate != nil {
		received = *in.ReceivedDate
	}

	var grn *entity.GoodsReceipt
	err := uc.txRunner.Run(ctx, func(r ports.TxRepos) error {
		po, err := r.PurchaseOrders.GetForUpdate(ctx, in.POID)
		if err != nil {
			return err
		}
		if po == nil {
			return fmt.Errorf("%w: orden %s", domain.ErrNotFound, in.POID)
		}
		if po.Status != entity.POStatusSent && po.Status != entity.POStatusConfirmed {
			return fmt.Errorf("%w: solo se reciben órdenes sent o confirmed (actual: %s)", domain.ErrInvalidTransition, po.Status)
		}

		ids := make([]string, 0, len(in.Items))
		for _, l := range in.Items {
			ids = append(ids, l.ItemID)
		}
		items, err := r.Items.GetByIDs(ctx, ids)
		if err != nil {
			return err
		}

		grn = &entity.GoodsReceipt{
			ID:           uuid.New().String(),
			GRNNumber:    domainproc.FormatGRNNumber(now.Unix(), po.PONumber),
			POID:         po.ID,
			ReceivedBy:   userID,
			ReceivedDate: received,
			Notes:        in.Notes,
			CreatedAt:    now,
		}
		for _, l := range in.Items {
			line := po.LineFor(l.ItemID)
			if line == nil {
				uc.log.Warn().Str("po_id", po.ID).Str("item_id", l.ItemID).Msg("ítem recibido no está en la orden, se omite")
				continue
			}
			if l.Quantity <= 0 {
				return fmt.Errorf("%w: quantity debe ser mayor que 0", domain.ErrInvalidInput)
			}
			minStock := entity.DefaultMinStockLevel
			if it := items[l.ItemID]; it != nil {
				minStock = it.EffectiveMinStock()
			}
			batch, err := receiveLine(ctx, r, po.StoreID, l, line, minStock, now)
			if err != nil {
				return err
			}
			grn.Items = append(grn.Items, entity.GoodsReceiptItem{
				ID:          uuid.New().String(),
				GRNID:       grn.ID,
				ItemID:      l.ItemID,
				BatchID:     batch.ID,
				BatchNo:     l.BatchNo,
				Quantity:    l.Quantity,
				UnitCost:    line.UnitPrice,
				ExpiryDate:  l.ExpiryDate,
				Temperature: l.Temperature,
			})
			if err := r.Transactions.Create(ctx, &entity.InventoryTransaction{
				ID:            uuid.New().String(),
				BatchID:       batch.ID,
				ItemID:        l.ItemID,
				Type:          entity.TxReceipt,
				Quantity:      l.Quantity,
				ReferenceType: entity.RefGRN,
				ReferenceID:   grn.ID,
				Notes:         fmt.Sprintf("Recepción %s", grn.GRNNumber),
				CreatedBy:     userID,
				CreatedAt:     now,
			}); err != nil {
				return err
			}
		}
		if len(grn.Items) == 0 {
			return fmt.Errorf("%w: ninguna línea corresponde a la orden", domain.ErrInvalidInput)
		}
		if err := r.GoodsReceipts.Create(ctx, grn); err != nil {
			return err
		}

		if err := domainproc.Transition(po, entity.POStatusDelivered); err != nil {
			return err
		}
		po.ActualDeliveryDate = &received
		po.UpdatedAt = now
		return r.PurchaseOrders.Update(ctx, po)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("grn_id", grn.ID).Str("grn_number", grn.GRNNumber).Int("lines", len(grn.Items)).Msg("recepción registrada")
	return toGRNResponse(grn), nil
}

// receiveLine suma al lote existente o crea uno nuevo en in_stock.
func receiveLine(
	ctx context.Context,
	r ports.TxRepos,
	storeID string,
	l dto.GRNLineRequest,
	line *entity.PurchaseOrderItem,
	minStock int,
	now time.Time,
) (*entity.InventoryBatch, error) {
	batch, err := r.Batches.FindForUpdate(ctx, storeID, l.ItemID, l.BatchNo)
	if err != nil {
		return nil, err
	}
	if batch != nil {
		batch.UnitCost = domaininv.WeightedBatchCost(batch.QuantityOnHand, batch.UnitCost, l.Quantity, line.UnitPrice)
		batch.QuantityOnHand += l.Quantity
		batch.Status = domaininv.BatchStatus(batch.QuantityOnHand, minStock)
		if l.Temperature != nil {
			batch.Temperature = l.Temperature
		}
		batch.UpdatedAt = now
		if err := r.Batches.Update(ctx, batch); err != nil {
			return nil, err
		}
		return batch, nil
	}

	clash, err := r.Batches.FindByStoreAndBatchNo(ctx, storeID, l.BatchNo)
	if err != nil {
		return nil, err
	}
	if clash != nil {
		return nil, fmt.Errorf("%w: el lote %s pertenece a otro ítem", domain.ErrDuplicate, l.BatchNo)
	}
	batch = &entity.InventoryBatch{
		ID:             uuid.New().String(),
		ItemID:         l.ItemID,
		StoreID:        storeID,
		BatchNo:        l.BatchNo,
		ExpiryDate:     l.ExpiryDate,
		QuantityOnHand: l.Quantity,
		Temperature:    l.Temperature,
		UnitCost:       line.UnitPrice,
		Status:         entity.BatchInStock,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := r.Batches.Create(ctx, batch); err != nil {
		return nil, err
	}
	return batch, nil
}

// GetByID obtiene una recepción con sus líneas.
func (uc *GoodsReceiptUseCase) GetByID(ctx context.Context, id string) (*dto.GRNResponse, error) {
	g, err := uc.receipts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, domain.ErrNotFound
	}
	return toGRNResponse(g), nil
}

// List lista recepciones, opcionalmente de una orden.
func (uc *GoodsReceiptUseCase) List(ctx context.Context, q dto.GRNListQuery) (*dto.GRNListResponse, error) {
	q.DefaultPage()
	list, err := uc.receipts.List(ctx, q.POID, q.Limit, q.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.GRNResponse, 0, len(list))
	for _, g := range list {
		items = append(items, *toGRNResponse(g))
	}
	return &dto.GRNListResponse{Items: items, Page: dto.PageResponse{Limit: q.Limit, Offset: q.Offset}}, nil
}

// Delete elimina lógicamente la recepción. Las existencias ya recibidas no se revierten.
func (uc *GoodsReceiptUseCase) Delete(ctx context.Context, id string) error {
	g, err := uc.receipts.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if g == nil {
		return domain.ErrNotFound
	}
	return uc.receipts.SoftDelete(ctx, id)
}
