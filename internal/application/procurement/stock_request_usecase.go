package procurement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/supply-chain-api/internal/application/dto"
	"github.com/jhoicas/supply-chain-api/internal/application/ports"
	"github.com/jhoicas/supply-chain-api/internal/domain"
	"github.com/jhoicas/supply-chain-api/internal/domain/entity"
	domainproc "github.com/jhoicas/supply-chain-api/internal/domain/procurement"
	"github.com/jhoicas/supply-chain-api/internal/domain/repository"
	"github.com/jhoicas/supply-chain-api/pkg/logger"
)

// defaultDeliveryDays plazo de entrega cuando ninguna línea del grupo trae lead time.
const defaultDeliveryDays = 5

const autoPONote = "Auto-generated from approved stock requests"

// StockRequestUseCase solicitudes de stock y su agrupación en órdenes de compra.
type StockRequestUseCase struct {
	txRunner   ports.TxRunner
	requests   repository.StockRequestRepository
	items      repository.ItemRepository
	stores     repository.StoreRepository
	orders     *POUseCase
	approverID string
	log        *logger.Logger
	now        func() time.Time
}

// NewStockRequestUseCase construye el caso de uso. approverID aprueba las órdenes express.
func NewStockRequestUseCase(
	txRunner ports.TxRunner,
	requests repository.StockRequestRepository,
	items repository.ItemRepository,
	stores repository.StoreRepository,
	orders *POUseCase,
	approverID string,
	log *logger.Logger,
) *StockRequestUseCase {
	return &StockRequestUseCase{
		txRunner:   txRunner,
		requests:   requests,
		items:      items,
		stores:     stores,
		orders:     orders,
		approverID: approverID,
		log:        log.Component("stock_requests"),
		now:        time.Now,
	}
}

// Create registra una solicitud en estado requested.
func (uc *StockRequestUseCase) Create(ctx context.Context, userID string, in dto.CreateStockRequestRequest) (*dto.StockRequestResponse, error) {
	if in.RequestedQty <= 0 {
		return nil, fmt.Errorf("%w: requested_qty debe ser mayor que 0", domain.ErrInvalidInput)
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
	priority := in.Priority
	if priority == "" {
		priority = entity.PriorityMedium
	}
	now := uc.now()
	req := &entity.StockRequest{
		ID:           uuid.New().String(),
		StoreID:      in.StoreID,
		ItemID:       in.ItemID,
		RequestedQty: in.RequestedQty,
		Status:       entity.StockRequestRequested,
		Priority:     priority,
		RequestedBy:  userID,
		Notes:        in.Notes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.requests.Create(ctx, req); err != nil {
		return nil, err
	}
	out := toStockRequestResponse(req)
	return &out, nil
}

// GetByID obtiene una solicitud.
func (uc *StockRequestUseCase) GetByID(ctx context.Context, id string) (*dto.StockRequestResponse, error) {
	req, err := uc.requests.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, domain.ErrNotFound
	}
	out := toStockRequestResponse(req)
	return &out, nil
}

// List lista solicitudes por estado, tienda e ítem.
func (uc *StockRequestUseCase) List(ctx context.Context, q dto.StockRequestListQuery) (*dto.StockRequestListResponse, error) {
	q.DefaultPage()
	list, err := uc.requests.List(ctx, repository.StockRequestFilter{
		Status:  q.Status,
		StoreID: q.StoreID,
		ItemID:  q.ItemID,
		Limit:   q.Limit,
		Offset:  q.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.StockRequestResponse, 0, len(list))
	for _, r := range list {
		items = append(items, toStockRequestResponse(r))
	}
	return &dto.StockRequestListResponse{Items: items, Page: dto.PageResponse{Limit: q.Limit, Offset: q.Offset}}, nil
}

// Update edita una solicitud abierta. El estado solo puede pasar a cancelled o po_generated.
func (uc *StockRequestUseCase) Update(ctx context.Context, id string, in dto.UpdateStockRequestRequest) (*dto.StockRequestResponse, error) {
	req, err := uc.requests.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, domain.ErrNotFound
	}
	if req.Status != entity.StockRequestRequested {
		return nil, fmt.Errorf("%w: la solicitud está en estado %s", domain.ErrInvalidTransition, req.Status)
	}
	if in.Status != nil {
		switch *in.Status {
		case entity.StockRequestCancelled, entity.StockRequestPOGenerated:
			req.Status = *in.Status
		default:
			return nil, fmt.Errorf("%w: %s → %s", domain.ErrInvalidTransition, req.Status, *in.Status)
		}
	}
	if in.RequestedQty != nil {
		if *in.RequestedQty <= 0 {
			return nil, fmt.Errorf("%w: requested_qty debe ser mayor que 0", domain.ErrInvalidInput)
		}
		req.RequestedQty = *in.RequestedQty
	}
	if in.Priority != nil {
		req.Priority = *in.Priority
	}
	if in.Notes != nil {
		req.Notes = *in.Notes
	}
	req.UpdatedAt = uc.now()
	if err := uc.requests.Update(ctx, req); err != nil {
		return nil, err
	}
	out := toStockRequestResponse(req)
	return &out, nil
}

// Cancel cancela las solicitudes indicadas que siguen en requested; las demás se ignoran.
func (uc *StockRequestUseCase) Cancel(ctx context.Context, ids []string) (*dto.CancelResult, error) {
	out := &dto.CancelResult{RequestIDs: []string{}}
	err := uc.txRunner.Run(ctx, func(r ports.TxRepos) error {
		reqs, err := r.StockRequests.ListByIDsForUpdate(ctx, ids)
		if err != nil {
			return err
		}
		now := uc.now()
		for _, req := range reqs {
			if req.Status != entity.StockRequestRequested {
				continue
			}
			req.Status = entity.StockRequestCancelled
			req.UpdatedAt = now
			if err := r.StockRequests.Update(ctx, req); err != nil {
				return err
			}
			out.RequestIDs = append(out.RequestIDs, req.ID)
		}
		out.Cancelled = len(out.RequestIDs)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GeneratePO agrupa las solicitudes indicadas por (tienda, proveedor) y crea una orden
// pending_approval por grupo. Las solicitudes sin ítem o sin proveedor quedan en requested.
func (uc *StockRequestUseCase) GeneratePO(ctx context.Context, userID string, ids []string) ([]dto.GeneratedPO, error) {
	var out []dto.GeneratedPO
	err := uc.txRunner.Run(ctx, func(r ports.TxRepos) error {
		reqs, err := r.StockRequests.ListByIDsForUpdate(ctx, ids)
		if err != nil {
			return err
		}
		now := uc.now()
		resolved, err := resolve(ctx, r, reqs, now)
		if err != nil {
			return err
		}
		groups, skipped := domainproc.GroupRequests(resolved)
		for _, s := range skipped {
			uc.log.Warn().Str("stock_request_id", s.ID).Str("item_id", s.ItemID).Msg("solicitud sin proveedor asignado, se omite")
		}
		if len(groups) == 0 {
			return domain.ErrNothingToGroup
		}
		out, err = uc.createOrders(ctx, r, groups, reqs, userID, now, func(g *domainproc.Group) string {
			return fmt.Sprintf("Generated from %d stock request(s)", len(g.RequestIDs))
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// AutoGeneratePO corre la agrupación sobre todas las solicitudes abiertas (o las de una tienda).
// Las que no se pueden agrupar se cancelan.
func (uc *StockRequestUseCase) AutoGeneratePO(ctx context.Context, userID, storeID string) ([]dto.GeneratedPO, error) {
	out := []dto.GeneratedPO{}
	err := uc.txRunner.Run(ctx, func(r ports.TxRepos) error {
		reqs, err := r.StockRequests.ListOpenForUpdate(ctx, storeID)
		if err != nil {
			return err
		}
		if len(reqs) == 0 {
			return nil
		}
		now := uc.now()
		resolved, err := resolve(ctx, r, reqs, now)
		if err != nil {
			return err
		}
		groups, skipped := domainproc.GroupRequests(resolved)
		for _, s := range skipped {
			s.Status = entity.StockRequestCancelled
			s.UpdatedAt = now
			if err := r.StockRequests.Update(ctx, s); err != nil {
				return err
			}
			uc.log.Warn().Str("stock_request_id", s.ID).Str("item_id", s.ItemID).Msg("solicitud sin proveedor asignado, cancelada")
		}
		if len(groups) == 0 {
			return nil
		}
		out, err = uc.createOrders(ctx, r, groups, reqs, userID, now, func(*domainproc.Group) string {
			return autoPONote
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ExpressOrder crea una solicitud de prioridad alta, genera su orden, la aprueba con el usuario
// configurado y la envía al proveedor.
func (uc *StockRequestUseCase) ExpressOrder(ctx context.Context, userID string, in dto.ExpressOrderRequest) (*dto.POResponse, error) {
	req, err := uc.Create(ctx, userID, dto.CreateStockRequestRequest{
		StoreID:      in.StoreID,
		ItemID:       in.ItemID,
		RequestedQty: in.Quantity,
		Priority:     entity.PriorityHigh,
		Notes:        in.Notes,
	})
	if err != nil {
		return nil, err
	}
	generated, err := uc.GeneratePO(ctx, userID, []string{req.ID})
	if err != nil {
		if errors.Is(err, domain.ErrNothingToGroup) {
			return nil, fmt.Errorf("%w: ítem %s", domain.ErrNoSupplierMapping, in.ItemID)
		}
		return nil, err
	}
	poID := generated[0].POID

	po, err := uc.orders.GetByID(ctx, poID)
	if err != nil {
		return nil, err
	}
	if po.Status == entity.POStatusPendingApproval {
		if po, err = uc.orders.Approve(ctx, poID, uc.approverID); err != nil {
			return nil, err
		}
	}
	if po.Status == entity.POStatusApproved {
		if po, err = uc.orders.Send(ctx, poID); err != nil {
			return nil, err
		}
	}
	uc.log.Info().Str("po_id", poID).Str("item_id", in.ItemID).Int("quantity", in.Quantity).Msg("orden express enviada")
	return po, nil
}

// resolve carga ítems y mapeos de las solicitudes y elige el mejor proveedor por ítem.
func resolve(ctx context.Context, r ports.TxRepos, reqs []*entity.StockRequest, at time.Time) ([]domainproc.Resolved, error) {
	ids := make([]string, 0, len(reqs))
	seen := make(map[string]bool)
	for _, req := range reqs {
		if !seen[req.ItemID] {
			seen[req.ItemID] = true
			ids = append(ids, req.ItemID)
		}
	}
	items, err := r.Items.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	mappings, err := r.SupplierItems.ListByItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	byItem := make(map[string][]*entity.SupplierItem)
	for _, m := range mappings {
		byItem[m.ItemID] = append(byItem[m.ItemID], m)
	}

	out := make([]domainproc.Resolved, 0, len(reqs))
	for _, req := range reqs {
		res := domainproc.Resolved{Request: req, Item: items[req.ItemID]}
		if res.Item != nil {
			res.Mapping = domainproc.BestMapping(byItem[req.ItemID], at)
		}
		out = append(out, res)
	}
	return out, nil
}

// createOrders persiste una orden por grupo y marca sus solicitudes como po_generated.
func (uc *StockRequestUseCase) createOrders(
	ctx context.Context,
	r ports.TxRepos,
	groups []*domainproc.Group,
	reqs []*entity.StockRequest,
	userID string,
	now time.Time,
	note func(*domainproc.Group) string,
) ([]dto.GeneratedPO, error) {
	byID := make(map[string]*entity.StockRequest, len(reqs))
	for _, req := range reqs {
		byID[req.ID] = req
	}

	out := make([]dto.GeneratedPO, 0, len(groups))
	for _, g := range groups {
		number, err := r.PurchaseOrders.NextNumber(ctx)
		if err != nil {
			return nil, err
		}
		lead := g.MaxLeadTime()
		if lead <= 0 {
			lead = defaultDeliveryDays
		}
		po := &entity.PurchaseOrder{
			ID:                   uuid.New().String(),
			PONumber:             number,
			OrderDate:            now,
			ExpectedDeliveryDate: now.AddDate(0, 0, lead),
			Status:               entity.POStatusPendingApproval,
			TotalAmount:          g.Total(),
			Notes:                note(g),
			SupplierID:           g.SupplierID,
			StoreID:              g.StoreID,
			CreatedBy:            userID,
			CreatedAt:            now,
			UpdatedAt:            now,
		}
		for _, l := range g.Lines {
			po.Items = append(po.Items, entity.PurchaseOrderItem{
				POID:        po.ID,
				ItemID:      l.ItemID,
				Quantity:    l.Quantity,
				UnitPrice:   l.UnitPrice,
				TotalAmount: l.Total(),
				Unit:        l.Unit,
			})
		}
		if err := r.PurchaseOrders.Create(ctx, po); err != nil {
			return nil, err
		}

		for _, id := range g.RequestIDs {
			req := byID[id]
			req.Status = entity.StockRequestPOGenerated
			req.POID = po.ID
			req.UpdatedAt = now
			if err := r.StockRequests.Update(ctx, req); err != nil {
				return nil, err
			}
		}
		uc.log.Info().Str("po_id", po.ID).Str("po_number", po.PONumber).
			Int("requests", len(g.RequestIDs)).Str("total", po.TotalAmount.StringFixed(2)).
			Msg("orden de compra generada desde solicitudes")
		out = append(out, dto.GeneratedPO{POID: po.ID, PONumber: po.PONumber, RequestIDs: g.RequestIDs})
	}
	return out, nil
}
