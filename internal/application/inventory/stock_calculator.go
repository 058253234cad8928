package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/supply-chain-api/internal/domain/entity"
	domaininv "github.com/jhoicas/supply-chain-api/internal/domain/inventory"
	"github.com/jhoicas/supply-chain-api/internal/domain/procurement"
	"github.com/jhoicas/supply-chain-api/internal/domain/repository"
)

// Origen del valor de stock de seguridad.
const (
	SourceManual   = "manual"
	SourceDemand   = "demand"
	SourceMinStock = "min_stock"
)

// SafetyStockResult stock de seguridad con los datos usados para calcularlo.
type SafetyStockResult struct {
	Value        int
	Source       string
	LeadTimeDays int
	SoldQty      int
}

// StockCalculator existencias actuales y stock de seguridad de un ítem.
// Lo comparten el catálogo, la reposición automática y el dashboard.
type StockCalculator struct {
	batches         repository.InventoryBatchRepository
	sales           repository.SalesRepository
	mappings        repository.SupplierItemRepository
	suppliers       repository.SupplierRepository
	defaultLeadTime int
	now             func() time.Time
}

// NewStockCalculator construye el calculador. defaultLeadTime se usa cuando ni el mapeo ni el proveedor lo definen.
func NewStockCalculator(
	batches repository.InventoryBatchRepository,
	sales repository.SalesRepository,
	mappings repository.SupplierItemRepository,
	suppliers repository.SupplierRepository,
	defaultLeadTime int,
) *StockCalculator {
	return &StockCalculator{
		batches:         batches,
		sales:           sales,
		mappings:        mappings,
		suppliers:       suppliers,
		defaultLeadTime: defaultLeadTime,
		now:             time.Now,
	}
}

// CurrentStock suma de quantity_on_hand de los lotes del ítem; storeID vacío = todas las tiendas.
func (c *StockCalculator) CurrentStock(ctx context.Context, itemID, storeID string) (int, error) {
	return c.batches.SumOnHand(ctx, itemID, storeID)
}

// SafetyStock valor manual si existe; si no, a partir de las ventas de los últimos 30 días.
func (c *StockCalculator) SafetyStock(ctx context.Context, item *entity.Item, storeID string) (SafetyStockResult, error) {
	if manual, ok := item.ManualSafetyStock(); ok {
		return SafetyStockResult{Value: manual, Source: SourceManual}, nil
	}

	since := c.now().AddDate(0, 0, -domaininv.DemandWindowDays)
	demand, err := c.sales.DemandSince(ctx, item.ID, storeID, since)
	if err != nil {
		return SafetyStockResult{}, err
	}
	if demand.Count == 0 {
		return SafetyStockResult{Value: item.EffectiveMinStock(), Source: SourceMinStock}, nil
	}

	lead, err := c.leadTime(ctx, item.ID)
	if err != nil {
		return SafetyStockResult{}, err
	}
	value := domaininv.SafetyStock(domaininv.SafetyStockInput{
		Item:         item,
		SoldQty:      demand.Quantity,
		SalesCount:   demand.Count,
		LeadTimeDays: lead,
	})
	return SafetyStockResult{Value: value, Source: SourceDemand, LeadTimeDays: lead, SoldQty: demand.Quantity}, nil
}

// leadTime del mejor mapeo; si es 0, el del proveedor; si tampoco, el configurado.
func (c *StockCalculator) leadTime(ctx context.Context, itemID string) (int, error) {
	list, err := c.mappings.ListByItem(ctx, itemID)
	if err != nil {
		return 0, err
	}
	best := procurement.BestMapping(list, c.now())
	if best == nil {
		return c.defaultLeadTime, nil
	}
	if best.LeadTimeDays > 0 {
		return best.LeadTimeDays, nil
	}
	supplier, err := c.suppliers.GetByID(ctx, best.SupplierID)
	if err != nil {
		return 0, err
	}
	if supplier != nil && supplier.LeadTimeDays > 0 {
		return supplier.LeadTimeDays, nil
	}
	return c.defaultLeadTime, nil
}
