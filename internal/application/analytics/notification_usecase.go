package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/supply-chain-api/internal/application/dto"
	"github.com/jhoicas/supply-chain-api/internal/domain/entity"
	domaininv "github.com/jhoicas/supply-chain-api/internal/domain/inventory"
	"github.com/jhoicas/supply-chain-api/internal/domain/repository"
	"github.com/jhoicas/supply-chain-api/pkg/logger"
)

// criticalBatchesTake lotes bajos/agotados que se revisan para los avisos de stock.
const criticalBatchesTake = 10

var priorityRank = map[string]int{
	entity.PriorityHigh:   3,
	entity.PriorityMedium: 2,
	entity.PriorityLow:    1,
}

// NotificationUseCase arma los avisos de la campana según el rol del usuario.
type NotificationUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	orders        repository.PurchaseOrderRepository
	requests      repository.StockRequestRepository
	log           *logger.Logger
	now           func() time.Time
}

// NewNotificationUseCase construye el caso de uso.
func NewNotificationUseCase(
	analyticsRepo repository.AnalyticsRepository,
	orders repository.PurchaseOrderRepository,
	requests repository.StockRequestRepository,
	log *logger.Logger,
) *NotificationUseCase {
	return &NotificationUseCase{
		analyticsRepo: analyticsRepo,
		orders:        orders,
		requests:      requests,
		log:           log.Component("notifications"),
		now:           time.Now,
	}
}

// List avisos para role, ordenados por prioridad y fecha. Si una consulta falla se registra
// el error y se devuelve una lista vacía: la campana nunca rompe la pantalla.
func (uc *NotificationUseCase) List(ctx context.Context, userID, role string) []dto.Notification {
	out, err := uc.build(ctx, role)
	if err != nil {
		uc.log.Error().Err(err).Str("user_id", userID).Str("role", role).Msg("no se pudieron obtener las notificaciones")
		return []dto.Notification{}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if priorityRank[out[i].Priority] != priorityRank[out[j].Priority] {
			return priorityRank[out[i].Priority] > priorityRank[out[j].Priority]
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (uc *NotificationUseCase) build(ctx context.Context, role string) ([]dto.Notification, error) {
	now := uc.now()
	out := []dto.Notification{}

	if role == entity.RoleStoreManager || role == entity.RoleAdmin {
		n, err := uc.orders.CountByStatus(ctx, entity.POStatusPendingApproval)
		if err != nil {
			return nil, fmt.Errorf("notificaciones: órdenes pendientes: %w", err)
		}
		if n > 0 {
			out = append(out, dto.Notification{
				ID:        "po_approvals",
				Type:      "po_approval",
				Title:     "Purchase Orders Pending Approval",
				Message:   fmt.Sprintf("%d purchase order%s waiting for your approval", n, plural(n, "s")),
				Priority:  entity.PriorityHigh,
				Link:      "/procurement?status=pending_approval",
				Count:     n,
				CreatedAt: now,
			})
		}
	}

	critical, err := uc.analyticsRepo.BatchViews(ctx, repository.BatchViewFilter{
		Statuses: []string{entity.BatchLowStock, entity.BatchOutOfStock},
		OrderBy:  "b.quantity_on_hand ASC",
		Limit:    criticalBatchesTake,
	})
	if err != nil {
		return nil, fmt.Errorf("notificaciones: stock bajo: %w", err)
	}
	var outCount, lowCount int
	for _, b := range critical {
		if b.Status == entity.BatchOutOfStock {
			outCount++
		} else {
			lowCount++
		}
	}
	if outCount > 0 {
		out = append(out, dto.Notification{
			ID:        "out_of_stock",
			Type:      "out_of_stock",
			Title:     "Out of Stock Items",
			Message:   fmt.Sprintf("%d item%s out of stock", outCount, plural(outCount, "s")),
			Priority:  entity.PriorityHigh,
			Link:      "/inventory?status=out_of_stock",
			Count:     outCount,
			CreatedAt: now,
		})
	}
	if lowCount > 0 {
		out = append(out, dto.Notification{
			ID:        "low_stock",
			Type:      "low_stock",
			Title:     "Low Stock Alerts",
			Message:   fmt.Sprintf("%d item%s running low on stock", lowCount, plural(lowCount, "s")),
			Priority:  entity.PriorityMedium,
			Link:      "/inventory?status=low_stock",
			Count:     lowCount,
			CreatedAt: now,
		})
	}

	if role == entity.RoleProcurementStaff || role == entity.RoleAdmin {
		n, err := uc.requests.CountOpen(ctx)
		if err != nil {
			return nil, fmt.Errorf("notificaciones: solicitudes abiertas: %w", err)
		}
		if n > 0 {
			out = append(out, dto.Notification{
				ID:        "stock_requests",
				Type:      "stock_request",
				Title:     "Pending Stock Requests",
				Message:   fmt.Sprintf("%d stock request%s waiting for approval", n, plural(n, "s")),
				Priority:  entity.PriorityMedium,
				Link:      "/stock-requests?status=requested",
				Count:     n,
				CreatedAt: now,
			})
		}
	}

	minQty := 1
	inStock, err := uc.analyticsRepo.BatchViews(ctx, repository.BatchViewFilter{
		Statuses: []string{entity.BatchInStock},
		MinQty:   &minQty,
	})
	if err != nil {
		return nil, fmt.Errorf("notificaciones: vencimientos: %w", err)
	}
	nearing := 0
	for _, b := range inStock {
		if domaininv.NearingExpiry(b.CreatedAt, b.ExpiryDate, now) {
			nearing++
		}
	}
	if nearing > 0 {
		out = append(out, dto.Notification{
			ID:        "expiry_warning",
			Type:      "expiry_warning",
			Title:     "Items Approaching Expiry",
			Message:   fmt.Sprintf("%d batch%s approaching 80%% of shelf life", nearing, plural(nearing, "es")),
			Priority:  entity.PriorityHigh,
			Link:      "/inventory?filter=expiry_warning",
			Count:     nearing,
			CreatedAt: now,
		})
	}
	return out, nil
}

func plural(n int, suffix string) string {
	if n > 1 {
		return suffix
	}
	return ""
}
