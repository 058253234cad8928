package procurement

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/supply-chain-api/internal/domain/entity"
)

// Line línea de una orden resultante de la agrupación.
type Line struct {
	ItemID       string
	Unit         string
	RequestedQty int // suma de las solicitudes antes del redondeo
	MinOrderQty  int
	Quantity     int // redondeada al MOQ
	UnitPrice    decimal.Decimal
	LeadTimeDays int
}

// Total importe de la línea.
func (l Line) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Group solicitudes de una misma (tienda, proveedor) que terminan en una sola orden.
type Group struct {
	StoreID    string
	SupplierID string
	Lines      []Line
	RequestIDs []string
}

// Key clave tienda:proveedor.
func (g *Group) Key() string { return g.StoreID + ":" + g.SupplierID }

// Total suma de las líneas.
func (g *Group) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range g.Lines {
		total = total.Add(l.Total())
	}
	return total
}

// MaxLeadTime mayor lead time de las líneas.
func (g *Group) MaxLeadTime() int {
	max := 0
	for _, l := range g.Lines {
		if l.LeadTimeDays > max {
			max = l.LeadTimeDays
		}
	}
	return max
}

// Resolved solicitud con su ítem y el mapeo de proveedor elegido (nil si no tiene).
type Resolved struct {
	Request *entity.StockRequest
	Item    *entity.Item
	Mapping *entity.SupplierItem
}

// GroupRequests agrupa por (tienda, proveedor). Solo considera solicitudes en estado requested;
// las que no tienen ítem o mapeo se devuelven en skipped. Un ítem repetido dentro del grupo se
// suma en una sola línea y el MOQ se aplica sobre el total.
func GroupRequests(in []Resolved) (groups []*Group, skipped []*entity.StockRequest) {
	byKey := make(map[string]*Group)
	lineIdx := make(map[string]map[string]int)
	var order []string

	for _, r := range in {
		if r.Request.Status != entity.StockRequestRequested {
			continue
		}
		if r.Item == nil || r.Mapping == nil {
			skipped = append(skipped, r.Request)
			continue
		}
		g := &Group{StoreID: r.Request.StoreID, SupplierID: r.Mapping.SupplierID}
		key := g.Key()
		if existing, ok := byKey[key]; ok {
			g = existing
		} else {
			byKey[key] = g
			lineIdx[key] = make(map[string]int)
			order = append(order, key)
		}
		g.RequestIDs = append(g.RequestIDs, r.Request.ID)

		if i, ok := lineIdx[key][r.Item.ID]; ok {
			g.Lines[i].RequestedQty += r.Request.RequestedQty
			continue
		}
		lineIdx[key][r.Item.ID] = len(g.Lines)
		g.Lines = append(g.Lines, Line{
			ItemID:       r.Item.ID,
			Unit:         r.Item.Unit,
			RequestedQty: r.Request.RequestedQty,
			MinOrderQty:  r.Mapping.MinOrderQty,
			UnitPrice:    r.Mapping.UnitPrice,
			LeadTimeDays: r.Mapping.LeadTimeDays,
		})
	}

	sort.Strings(order)
	for _, key := range order {
		g := byKey[key]
		for i := range g.Lines {
			g.Lines[i].Quantity = RoundToMOQ(g.Lines[i].RequestedQty, g.Lines[i].MinOrderQty)
		}
		groups = append(groups, g)
	}
	return groups, skipped
}
