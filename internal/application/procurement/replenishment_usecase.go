package procurement

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/supply-chain-api/internal/application/dto"
	"github.com/jhoicas/supply-chain-api/internal/application/inventory"
	"github.com/jhoicas/supply-chain-api/internal/domain"
	"github.com/jhoicas/supply-chain-api/internal/domain/entity"
	"github.com/jhoicas/supply-chain-api/internal/domain/repository"
	"github.com/jhoicas/supply-chain-api/pkg/logger"
)

// ReplenishmentUseCase reposición automática: detecta ítems bajo el stock de seguridad por
// tienda, abre solicitudes y las convierte en órdenes de compra.
type ReplenishmentUseCase struct {
	stores   repository.StoreRepository
	items    repository.ItemRepository
	requests repository.StockRequestRepository
	stock    *inventory.StockCalculator
	pipeline *StockRequestUseCase
	extraQty int
	log      *logger.Logger
	now      func() time.Time
}

// NewReplenishmentUseCase construye el caso de uso. extraQty se suma al stock de seguridad
// en la cantidad pedida.
func NewReplenishmentUseCase(
	stores repository.StoreRepository,
	items repository.ItemRepository,
	requests repository.StockRequestRepository,
	stock *inventory.StockCalculator,
	pipeline *StockRequestUseCase,
	extraQty int,
	log *logger.Logger,
) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{
		stores:   stores,
		items:    items,
		requests: requests,
		stock:    stock,
		pipeline: pipeline,
		extraQty: extraQty,
		log:      log.Component("replenishment"),
		now:      time.Now,
	}
}

// AutoReplenish recorre las tiendas activas (o solo storeID) y sus ítems activos. Cuando las
// existencias quedan por debajo del stock de seguridad y no hay una solicitud abierta, crea una
// por safety + extraQty. Después agrupa las solicitudes abiertas de cada tienda tocada.
// Los errores por ítem se registran y no cortan el recorrido.
func (uc *ReplenishmentUseCase) AutoReplenish(ctx context.Context, userID, storeID string) ([]dto.AutoReplenishResult, error) {
	stores, err := uc.targetStores(ctx, storeID)
	if err != nil {
		return nil, err
	}
	items, err := uc.items.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	results := []dto.AutoReplenishResult{}
	byRequest := make(map[string]int)
	var touched []string

	for _, store := range stores {
		created := 0
		for _, item := range items {
			res, ok, err := uc.checkItem(ctx, userID, store.ID, item)
			if err != nil {
				uc.log.Error().Err(err).Str("store_id", store.ID).Str("item_id", item.ID).Msg("reposición: error evaluando ítem")
				continue
			}
			if !ok {
				continue
			}
			byRequest[res.StockRequestID] = len(results)
			results = append(results, res)
			created++
		}
		if created > 0 {
			touched = append(touched, store.ID)
		}
	}

	for _, sid := range touched {
		generated, err := uc.pipeline.AutoGeneratePO(ctx, userID, sid)
		if err != nil {
			uc.log.Error().Err(err).Str("store_id", sid).Msg("reposición: error generando órdenes")
			continue
		}
		for _, g := range generated {
			for _, rid := range g.RequestIDs {
				if i, ok := byRequest[rid]; ok {
					results[i].POID = g.POID
				}
			}
		}
	}

	uc.log.Info().Int("stores", len(stores)).Int("created", len(results)).Msg("reposición automática completada")
	return results, nil
}

// checkItem crea la solicitud si el ítem está bajo el stock de seguridad en la tienda.
func (uc *ReplenishmentUseCase) checkItem(ctx context.Context, userID, storeID string, item *entity.Item) (dto.AutoReplenishResult, bool, error) {
	safety, err := uc.stock.SafetyStock(ctx, item, storeID)
	if err != nil {
		return dto.AutoReplenishResult{}, false, err
	}
	current, err := uc.stock.CurrentStock(ctx, item.ID, storeID)
	if err != nil {
		return dto.AutoReplenishResult{}, false, err
	}
	if current >= safety.Value {
		return dto.AutoReplenishResult{}, false, nil
	}
	open, err := uc.requests.ExistsOpen(ctx, storeID, item.ID)
	if err != nil {
		return dto.AutoReplenishResult{}, false, err
	}
	if open {
		return dto.AutoReplenishResult{}, false, nil
	}

	now := uc.now()
	req := &entity.StockRequest{
		ID:           uuid.New().String(),
		StoreID:      storeID,
		ItemID:       item.ID,
		RequestedQty: safety.Value + uc.extraQty,
		Status:       entity.StockRequestRequested,
		Priority:     entity.PriorityMedium,
		RequestedBy:  userID,
		Notes:        fmt.Sprintf("Auto-generated: Below safety stock (Current: %d, Safety: %d)", current, safety.Value),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.requests.Create(ctx, req); err != nil {
		return dto.AutoReplenishResult{}, false, err
	}
	uc.log.Info().Str("store_id", storeID).Str("item_id", item.ID).
		Int("current", current).Int("safety", safety.Value).Msg("solicitud de reposición creada")
	return dto.AutoReplenishResult{
		ItemID:         item.ID,
		StoreID:        storeID,
		StockRequestID: req.ID,
		CurrentStock:   current,
		SafetyStock:    safety.Value,
	}, true, nil
}

func (uc *ReplenishmentUseCase) targetStores(ctx context.Context, storeID string) ([]*entity.Store, error) {
	if storeID == "" {
		return uc.stores.ListActive(ctx)
	}
	store, err := uc.stores.GetByID(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, fmt.Errorf("%w: tienda %s", domain.ErrNotFound, storeID)
	}
	return []*entity.Store{store}, nil
}
