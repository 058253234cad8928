// Package procurement casos de uso de compras: órdenes de compra, solicitudes de stock,
// reposición automática y recepciones de mercancía.
package procurement

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
	domainproc "github.com/jhoicas/supply-chain-api/internal/domain/procurement"
	"github.com/jhoicas/supply-chain-api/internal/domain/repository"
	"github.com/jhoicas/supply-chain-api/pkg/logger"
)

const defaultRejectReason = "Rejected by manager"

// POUseCase ciclo de vida de la orden de compra. Cada cambio de estado pasa por la
// máquina de estados de dominio y bloquea la fila de la orden.
type POUseCase struct {
	txRunner  ports.TxRunner
	orders    repository.PurchaseOrderRepository
	suppliers repository.SupplierRepository
	stores    repository.StoreRepository
	items     repository.ItemRepository
	pdf       ports.POPDFGenerator
	dispatch  ports.PODispatchRenderer
	log       *logger.Logger
	now       func() time.Time
}

// NewPOUseCase construye el caso de uso.
func NewPOUseCase(
	txRunner ports.TxRunner,
	orders repository.PurchaseOrderRepository,
	suppliers repository.SupplierRepository,
	stores repository.StoreRepository,
	items repository.ItemRepository,
	pdf ports.POPDFGenerator,
	dispatch ports.PODispatchRenderer,
	log *logger.Logger,
) *POUseCase {
	return &POUseCase{
		txRunner:  txRunner,
		orders:    orders,
		suppliers: suppliers,
		stores:    stores,
		items:     items,
		pdf:       pdf,
		dispatch:  dispatch,
		log:       log.Component("procurement"),
		now:       time.Now,
	}
}

// Create registra una orden manual. Queda en draft, o en pending_approval si in.Submit.
func (uc *POUseCase) Create(ctx context.Context, userID string, in dto.CreatePORequest) (*dto.POResponse, error) {
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: la orden necesita al menos una línea", domain.ErrInvalidInput)
	}
	if in.OrderDate.IsZero() || in.ExpectedDeliveryDate.IsZero() {
		return nil, fmt.Errorf("%w: order_date y expected_delivery_date son obligatorias", domain.ErrInvalidInput)
	}
	if !in.ExpectedDeliveryDate.After(in.OrderDate) {
		return nil, fmt.Errorf("%w: expected_delivery_date debe ser posterior a order_date", domain.ErrInvalidInput)
	}
	supplier, err := uc.suppliers.GetByID(ctx, in.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, fmt.Errorf("%w: proveedor %s", domain.ErrNotFound, in.SupplierID)
	}
	store, err := uc.stores.GetByID(ctx, in.StoreID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, fmt.Errorf("%w: tienda %s", domain.ErrNotFound, in.StoreID)
	}

	ids := make([]string, 0, len(in.Items))
	for _, l := range in.Items {
		ids = append(ids, l.ItemID)
	}
	known, err := uc.items.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	po := &entity.PurchaseOrder{
		ID:                   uuid.New().String(),
		OrderDate:            in.OrderDate,
		ExpectedDeliveryDate: in.ExpectedDeliveryDate,
		Status:               entity.POStatusDraft,
		TotalAmount:          in.TotalAmount,
		Notes:                in.Notes,
		SupplierID:           in.SupplierID,
		StoreID:              in.StoreID,
		CreatedBy:            userID,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	computed := decimal.Zero
	for i, l := range in.Items {
		if l.Quantity <= 0 {
			return nil, fmt.Errorf("%w: línea %d: quantity debe ser mayor que 0", domain.ErrInvalidInput, i+1)
		}
		if !l.UnitPrice.IsPositive() {
			return nil, fmt.Errorf("%w: línea %d: unit_price debe ser mayor que 0", domain.ErrInvalidInput, i+1)
		}
		if l.Unit == "" {
			return nil, fmt.Errorf("%w: línea %d: unit es obligatoria", domain.ErrInvalidInput, i+1)
		}
		if _, ok := known[l.ItemID]; !ok {
			return nil, fmt.Errorf("%w: ítem %s", domain.ErrNotFound, l.ItemID)
		}
		total := l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
		computed = computed.Add(total)
		po.Items = append(po.Items, entity.PurchaseOrderItem{
			POID:        po.ID,
			ItemID:      l.ItemID,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			TotalAmount: total,
			Unit:        l.Unit,
		})
	}
	if err := domainproc.CheckTotal(in.TotalAmount, computed); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if in.Submit {
		po.Status = entity.POStatusPendingApproval
	}

	err = uc.txRunner.Run(ctx, func(r ports.TxRepos) error {
		number, err := r.PurchaseOrders.NextNumber(ctx)
		if err != nil {
			return err
		}
		po.PONumber = number
		return r.PurchaseOrders.Create(ctx, po)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("po_id", po.ID).Str("po_number", po.PONumber).Str("status", po.Status).Msg("orden de compra creada")
	return toPOResponse(po), nil
}

// GetByID obtiene una orden con sus líneas.
func (uc *POUseCase) GetByID(ctx context.Context, id string) (*dto.POResponse, error) {
	po, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toPOResponse(po), nil
}

// List lista órdenes por estado, proveedor y tienda.
func (uc *POUseCase) List(ctx context.Context, q dto.POListQuery) (*dto.POListResponse, error) {
	q.DefaultPage()
	list, err := uc.orders.List(ctx, repository.PurchaseOrderFilter{
		Status:     q.Status,
		SupplierID: q.SupplierID,
		StoreID:    q.StoreID,
		Limit:      q.Limit,
		Offset:     q.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.POResponse, 0, len(list))
	for _, po := range list {
		items = append(items, *toPOResponse(po))
	}
	return &dto.POListResponse{Items: items, Page: dto.PageResponse{Limit: q.Limit, Offset: q.Offset}}, nil
}

// PendingApprovals órdenes esperando aprobación, la más antigua primero.
func (uc *POUseCase) PendingApprovals(ctx context.Context) ([]dto.POResponse, error) {
	list, err := uc.orders.ListPendingApproval(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.POResponse, 0, len(list))
	for _, po := range list {
		out = append(out, *toPOResponse(po))
	}
	return out, nil
}

// Update cambia notas o fecha esperada mientras la orden está en draft o pending_approval.
func (uc *POUseCase) Update(ctx context.Context, id string, in dto.UpdatePORequest) (*dto.POResponse, error) {
	return uc.mutate(ctx, id, func(po *entity.PurchaseOrder, now time.Time) error {
		if !domainproc.Editable(po.Status) {
			return fmt.Errorf("%w: la orden en estado %s no es editable", domain.ErrConflict, po.Status)
		}
		if in.ExpectedDeliveryDate != nil {
			if !in.ExpectedDeliveryDate.After(po.OrderDate) {
				return fmt.Errorf("%w: expected_delivery_date debe ser posterior a order_date", domain.ErrInvalidInput)
			}
			po.ExpectedDeliveryDate = *in.ExpectedDeliveryDate
		}
		if in.Notes != nil {
			po.Notes = *in.Notes
		}
		return nil
	})
}

// Delete elimina lógicamente la orden. Una orden enviada al proveedor ya no se elimina.
func (uc *POUseCase) Delete(ctx context.Context, id string) error {
	return uc.txRunner.Run(ctx, func(r ports.TxRepos) error {
		po, err := r.PurchaseOrders.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if po == nil {
			return domain.ErrNotFound
		}
		switch po.Status {
		case entity.POStatusSent, entity.POStatusConfirmed, entity.POStatusDelivered:
			return fmt.Errorf("%w: la orden ya fue enviada al proveedor", domain.ErrConflict)
		}
		return r.PurchaseOrders.SoftDelete(ctx, id)
	})
}

// Submit draft → pending_approval.
func (uc *POUseCase) Submit(ctx context.Context, id string) (*dto.POResponse, error) {
	return uc.move(ctx, id, entity.POStatusDraft, entity.POStatusPendingApproval, nil)
}

// Approve pending_approval → approved.
func (uc *POUseCase) Approve(ctx context.Context, id, approverID string) (*dto.POResponse, error) {
	return uc.move(ctx, id, entity.POStatusPendingApproval, entity.POStatusApproved, func(po *entity.PurchaseOrder, now time.Time) error {
		po.ApprovedBy = approverID
		po.ApprovedAt = &now
		return nil
	})
}

// Reject pending_approval → cancelled con motivo.
func (uc *POUseCase) Reject(ctx context.Context, id, approverID, reason string) (*dto.POResponse, error) {
	if reason == "" {
		reason = defaultRejectReason
	}
	return uc.move(ctx, id, entity.POStatusPendingApproval, entity.POStatusCancelled, func(po *entity.PurchaseOrder, now time.Time) error {
		po.ApprovedBy = approverID
		po.ApprovedAt = &now
		po.RejectionReason = reason
		return nil
	})
}

// Send approved → sent. Genera el XML para el proveedor y guarda su digest canónico.
func (uc *POUseCase) Send(ctx context.Context, id string) (*dto.POResponse, error) {
	return uc.move(ctx, id, entity.POStatusApproved, entity.POStatusSent, func(po *entity.PurchaseOrder, now time.Time) error {
		po.SentAt = &now
		doc, err := uc.document(ctx, po)
		if err != nil {
			return err
		}
		_, digest, err := uc.dispatch.RenderPO(doc)
		if err != nil {
			return fmt.Errorf("render dispatch xml: %w", err)
		}
		po.DispatchDigest = digest
		return nil
	})
}

// Confirm sent → confirmed por el proveedor; puede ajustar la fecha de entrega.
func (uc *POUseCase) Confirm(ctx context.Context, id, confirmedBy string, in dto.ConfirmPORequest) (*dto.POResponse, error) {
	return uc.move(ctx, id, entity.POStatusSent, entity.POStatusConfirmed, func(po *entity.PurchaseOrder, now time.Time) error {
		po.ConfirmedBy = confirmedBy
		po.ConfirmedAt = &now
		if in.ExpectedDeliveryDate != nil {
			po.ExpectedDeliveryDate = *in.ExpectedDeliveryDate
		}
		if in.SupplierNotes != nil {
			po.SupplierNotes = *in.SupplierNotes
		}
		return nil
	})
}

// Receive sent → confirmed cuando inventario recibe la mercancía.
func (uc *POUseCase) Receive(ctx context.Context, id, receivedBy string) (*dto.POResponse, error) {
	return uc.move(ctx, id, entity.POStatusSent, entity.POStatusConfirmed, func(po *entity.PurchaseOrder, now time.Time) error {
		po.ConfirmedBy = receivedBy
		po.ConfirmedAt = &now
		po.ActualDeliveryDate = &now
		return nil
	})
}

// RejectReceipt sent → cancelled cuando inventario no acepta la mercancía.
func (uc *POUseCase) RejectReceipt(ctx context.Context, id, rejectedBy, reason string) (*dto.POResponse, error) {
	if reason == "" {
		return nil, fmt.Errorf("%w: el motivo es obligatorio", domain.ErrInvalidInput)
	}
	return uc.move(ctx, id, entity.POStatusSent, entity.POStatusCancelled, func(po *entity.PurchaseOrder, now time.Time) error {
		po.ConfirmedBy = rejectedBy
		po.ConfirmedAt = &now
		po.RejectionReason = reason
		return nil
	})
}

// Cancel cancela la orden desde cualquier estado que lo permita.
func (uc *POUseCase) Cancel(ctx context.Context, id string) (*dto.POResponse, error) {
	return uc.mutate(ctx, id, func(po *entity.PurchaseOrder, _ time.Time) error {
		return domainproc.Transition(po, entity.POStatusCancelled)
	})
}

// PDF representación imprimible de la orden.
func (uc *POUseCase) PDF(ctx context.Context, id string) ([]byte, string, error) {
	po, err := uc.get(ctx, id)
	if err != nil {
		return nil, "", err
	}
	doc, err := uc.document(ctx, po)
	if err != nil {
		return nil, "", err
	}
	pdf, err := uc.pdf.GeneratePOPDF(ctx, doc)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return pdf, fmt.Sprintf("orden_%s.pdf", po.PONumber), nil
}

// XML documento de despacho al proveedor.
func (uc *POUseCase) XML(ctx context.Context, id string) ([]byte, string, error) {
	po, err := uc.get(ctx, id)
	if err != nil {
		return nil, "", err
	}
	doc, err := uc.document(ctx, po)
	if err != nil {
		return nil, "", err
	}
	xml, _, err := uc.dispatch.RenderPO(doc)
	if err != nil {
		return nil, "", fmt.Errorf("render dispatch xml: %w", err)
	}
	return xml, fmt.Sprintf("orden_%s.xml", po.PONumber), nil
}

// move exige el estado de origen from y aplica la transición a to.
func (uc *POUseCase) move(
	ctx context.Context,
	id, from, to string,
	apply func(po *entity.PurchaseOrder, now time.Time) error,
) (*dto.POResponse, error) {
	out, err := uc.mutate(ctx, id, func(po *entity.PurchaseOrder, now time.Time) error {
		if po.Status != from {
			return fmt.Errorf("%w: se esperaba %s y la orden está en %s", domain.ErrInvalidTransition, from, po.Status)
		}
		if err := domainproc.Transition(po, to); err != nil {
			return err
		}
		if apply != nil {
			return apply(po, now)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("po_id", id).Str("from", from).Str("to", to).Msg("orden de compra actualizada")
	return out, nil
}

// mutate bloquea la orden, aplica fn y persiste la cabecera.
func (uc *POUseCase) mutate(ctx context.Context, id string, fn func(po *entity.PurchaseOrder, now time.Time) error) (*dto.POResponse, error) {
	var po *entity.PurchaseOrder
	err := uc.txRunner.Run(ctx, func(r ports.TxRepos) error {
		var err error
		po, err = r.PurchaseOrders.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if po == nil {
			return domain.ErrNotFound
		}
		now := uc.now()
		if err := fn(po, now); err != nil {
			return err
		}
		po.UpdatedAt = now
		return r.PurchaseOrders.Update(ctx, po)
	})
	if err != nil {
		return nil, err
	}
	return toPOResponse(po), nil
}

func (uc *POUseCase) get(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	po, err := uc.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if po == nil {
		return nil, domain.ErrNotFound
	}
	return po, nil
}

// document carga proveedor, tienda e ítems de la orden.
func (uc *POUseCase) document(ctx context.Context, po *entity.PurchaseOrder) (ports.PODocument, error) {
	supplier, err := uc.suppliers.GetByID(ctx, po.SupplierID)
	if err != nil {
		return ports.PODocument{}, err
	}
	store, err := uc.stores.GetByID(ctx, po.StoreID)
	if err != nil {
		return ports.PODocument{}, err
	}
	ids := make([]string, 0, len(po.Items))
	for _, l := range po.Items {
		ids = append(ids, l.ItemID)
	}
	items, err := uc.items.GetByIDs(ctx, ids)
	if err != nil {
		return ports.PODocument{}, err
	}
	if supplier == nil {
		supplier = &entity.Supplier{ID: po.SupplierID}
	}
	if store == nil {
		store = &entity.Store{ID: po.StoreID}
	}
	return ports.PODocument{PO: po, Supplier: supplier, Store: store, Items: items}, nil
}
