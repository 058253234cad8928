package ports

import (
	"context"

	"github.com/jhoicas/supply-chain-api/internal/domain/entity"
)

// PODocument orden de compra con los datos de proveedor, tienda e ítems que necesitan los documentos.
type PODocument struct {
	PO       *entity.PurchaseOrder
	Supplier *entity.Supplier
	Store    *entity.Store
	Items    map[string]*entity.Item // por item_id
}

// ItemName nombre del ítem de la línea, o su ID si no se cargó.
func (d PODocument) ItemName(itemID string) string {
	if it, ok := d.Items[itemID]; ok && it != nil {
		return it.ItemName
	}
	return itemID
}

// ItemSKU SKU del ítem de la línea.
func (d PODocument) ItemSKU(itemID string) string {
	if it, ok := d.Items[itemID]; ok && it != nil {
		return it.SKU
	}
	return ""
}

// POPDFGenerator puerto de salida para la representación imprimible de la orden.
type POPDFGenerator interface {
	GeneratePOPDF(ctx context.Context, doc PODocument) ([]byte, error)
}

// PODispatchRenderer genera el XML que se envía al proveedor y el SHA-256 (hex) de su forma canónica.
type PODispatchRenderer interface {
	RenderPO(doc PODocument) (xml []byte, digest string, err error)
}

// Sheet tabla exportable: encabezados y filas en el mismo orden.
type Sheet struct {
	Name    string
	Headers []string
	Rows    [][]any
}

// SpreadsheetExporter puerto de salida para descargar reportes como hoja de cálculo.
type SpreadsheetExporter interface {
	Export(sheets ...Sheet) ([]byte, error)
}
