package pdf

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/supply-chain-api/internal/application/ports"
	"github.com/jhoicas/supply-chain-api/internal/domain/entity"
)

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "250", formatMoney("250"))
	assert.Equal(t, "25.000,50", formatMoney("25000.50"))
	assert.Equal(t, "1.000.000", formatMoney("1000000"))
	assert.Equal(t, "-1.200,00", formatMoney("-1200.00"))
}

func TestSplitEvery(t *testing.T) {
	assert.Equal(t, []string{"abc", "de"}, splitEvery("abcde", 3))
	assert.Nil(t, splitEvery("", 3))
}

func TestGeneratePOPDF(t *testing.T) {
	po := &entity.PurchaseOrder{
		PONumber:             "PO-000001",
		Status:               entity.POStatusSent,
		OrderDate:            time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		ExpectedDeliveryDate: time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC),
		TotalAmount:          decimal.RequireFromString("120.00"),
		DispatchDigest:       "ab12",
		Items: []entity.PurchaseOrderItem{
			{ItemID: "i1", Quantity: 10, Unit: "kg", UnitPrice: decimal.NewFromInt(12), TotalAmount: decimal.NewFromInt(120)},
		},
	}
	doc := ports.PODocument{
		PO:       po,
		Supplier: &entity.Supplier{Name: "Frío SAS"},
		Store:    &entity.Store{Name: "Tienda Norte"},
		Items:    map[string]*entity.Item{"i1": {ID: "i1", ItemName: "Salmón", SKU: "SAL-1"}},
	}

	out, err := NewMarotoPDFGenerator().GeneratePOPDF(context.Background(), doc)
	require.NoError(t, err)
	assert.True(t, len(out) > 4)
	assert.Equal(t, "%PDF", string(out[:4]))
}

func TestGeneratePOPDF_NilOrder(t *testing.T) {
	_, err := NewMarotoPDFGenerator().GeneratePOPDF(context.Background(), ports.PODocument{})
	assert.Error(t, err)
}
