package dispatch

import (
	"strings"
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/supply-chain-api/internal/application/ports"
	"github.com/jhoicas/supply-chain-api/internal/domain/entity"
)

func sampleDoc() ports.PODocument {
	sent := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	return ports.PODocument{
		PO: &entity.PurchaseOrder{
			ID:                   "po-1",
			PONumber:             "PO-000007",
			Status:               entity.POStatusSent,
			SupplierID:           "sup-1",
			StoreID:              "st-1",
			OrderDate:            time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			ExpectedDeliveryDate: time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC),
			SentAt:               &sent,
			TotalAmount:          decimal.RequireFromString("250.5"),
			Items: []entity.PurchaseOrderItem{
				{ItemID: "i1", Quantity: 5, Unit: "kg", UnitPrice: decimal.RequireFromString("50.1"), TotalAmount: decimal.RequireFromString("250.5")},
			},
		},
		Supplier: &entity.Supplier{Name: "Lácteos & Co", Email: "ventas@lacteos.co"},
		Store:    &entity.Store{Code: "N01", Name: "Norte"},
		Items:    map[string]*entity.Item{"i1": {ID: "i1", ItemName: "Queso", SKU: "QSO-1"}},
	}
}

func TestBuild_Structure(t *testing.T) {
	out, err := NewXMLBuilderService().Build(sampleDoc())
	require.NoError(t, err)

	x := etree.NewDocument()
	require.NoError(t, x.ReadFromBytes(out))
	root := x.Root()
	require.NotNil(t, root)
	assert.Equal(t, "PurchaseOrder", root.Tag)
	assert.Equal(t, ElementID, root.SelectAttrValue("Id", ""))
	assert.Equal(t, "PO-000007", root.FindElement("Header/Number").Text())
	assert.Equal(t, "Lácteos & Co", root.FindElement("Supplier/Name").Text())
	assert.Equal(t, "250.50", root.FindElement("TotalAmount").Text())

	line := root.FindElement("Lines/Line")
	require.NotNil(t, line)
	assert.Equal(t, "1", line.SelectAttrValue("number", ""))
	assert.Equal(t, "QSO-1", line.FindElement("SKU").Text())
	assert.Equal(t, "kg", line.FindElement("Quantity").SelectAttrValue("unit", ""))
	assert.Nil(t, root.FindElement("Notes"))
	assert.False(t, strings.Contains(string(out), "<Status>"))
}

func TestRenderPO_DigestIgnoresStatus(t *testing.T) {
	svc := NewXMLBuilderService()
	doc := sampleDoc()
	_, d1, err := svc.RenderPO(doc)
	require.NoError(t, err)
	assert.Len(t, d1, 64)

	doc.PO.Status = entity.POStatusConfirmed
	_, d2, err := svc.RenderPO(doc)
	require.NoError(t, err)
	assert.Equal(t, d1, d2)

	doc.PO.Notes = "urgente"
	_, d3, err := svc.RenderPO(doc)
	require.NoError(t, err)
	assert.NotEqual(t, d1, d3)
}

func TestDigest(t *testing.T) {
	a, err := Digest([]byte(`<a b="1">x</a>`))
	require.NoError(t, err)
	b, err := Digest([]byte(`<a b="1">x</a>`))
	require.NoError(t, err)
	c, err := Digest([]byte(`<a b="1">y</a>`))
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)

	_, err = Digest([]byte(`<a>`))
	assert.Error(t, err)
}

func TestBuild_NilOrder(t *testing.T) {
	_, err := NewXMLBuilderService().Build(ports.PODocument{})
	assert.Error(t, err)
}
