package main

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/jhoicas/supply-chain-api/internal/domain"
	"github.com/jhoicas/supply-chain-api/internal/domain/entity"
	"github.com/jhoicas/supply-chain-api/internal/testutil/memrepo"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

const utf8List = `<?xml version="1.0" encoding="UTF-8"?>
<PriceList currency="cop">
  <Item sku="LEC-001" name="Leche entera" unit="litro" category="Lácteos" storage="cold" minTemp="0" maxTemp="4" price="3200.50" moq="12" leadTime="3" preferred="true"/>
  <Item sku="HEL-002" name="Helado de vainilla" storage="frozen" minTemp="-18" maxTemp="-15" price="9800" moq="6" leadTime="5"/>
  <Item sku="" name="Sin SKU" price="10"/>
  <Item sku="QUE-003" name="Queso" price="abc"/>
</PriceList>`

func latin1(t *testing.T, s string) string {
	t.Helper()
	out, err := charmap.ISO8859_1.NewEncoder().String(s)
	require.NoError(t, err)
	return out
}

func TestParseCatalog_UTF8(t *testing.T) {
	pl, err := parseCatalog(strings.NewReader(utf8List), "")
	require.NoError(t, err)
	require.Len(t, pl.Items, 4)
	assert.Equal(t, "cop", pl.Currency)
	assert.Equal(t, "Lácteos", pl.Items[0].Category)
	assert.Equal(t, 12, pl.Items[0].MOQ)
	assert.True(t, pl.Items[0].Preferred)
	assert.False(t, pl.Items[1].Preferred)
}

func TestParseCatalog_Latin1Declarado(t *testing.T) {
	doc := latin1(t, `<?xml version="1.0" encoding="ISO-8859-1"?>
<PriceList><Item sku="QUE-010" name="Queso añejo" category="Lácteos" price="15000"/></PriceList>`)

	pl, err := parseCatalog(strings.NewReader(doc), "")
	require.NoError(t, err)
	require.Len(t, pl.Items, 1)
	assert.Equal(t, "Queso añejo", pl.Items[0].Name)
}

func TestParseCatalog_Latin1Forzado(t *testing.T) {
	doc := latin1(t, `<PriceList><Item sku="YOG-011" name="Yogur de piña" price="4500"/></PriceList>`)

	pl, err := parseCatalog(strings.NewReader(doc), "latin1")
	require.NoError(t, err)
	assert.Equal(t, "Yogur de piña", pl.Items[0].Name)
}

func TestParseCatalog_CharsetNoSoportado(t *testing.T) {
	doc := `<?xml version="1.0" encoding="Shift_JIS"?><PriceList/>`
	_, err := parseCatalog(strings.NewReader(doc), "")
	assert.Error(t, err)
}

func newSupplier(t *testing.T, db *memrepo.DB) *entity.Supplier {
	t.Helper()
	s := &entity.Supplier{ID: "sup-1", Name: "Lácteos del Valle", LeadTimeDays: 4, IsActive: true}
	require.NoError(t, db.Suppliers().Create(context.Background(), s))
	return s
}

func TestImportCatalog_CreaYActualiza(t *testing.T) {
	db := memrepo.New()
	sup := newSupplier(t, db)
	ctx := context.Background()

	pl, err := parseCatalog(strings.NewReader(utf8List), "")
	require.NoError(t, err)

	stats, err := importCatalog(ctx, db.TxRunner(), db.Suppliers(), sup.ID, pl, now)
	require.NoError(t, err)
	assert.Equal(t, importStats{ItemsCreated: 2, MappingsCreated: 2, Skipped: 2}, stats)

	milk, err := db.Items().GetBySKU(ctx, "LEC-001")
	require.NoError(t, err)
	require.NotNil(t, milk)
	assert.Equal(t, "Leche entera", milk.ItemName)
	assert.Equal(t, "litro", milk.Unit)
	assert.Equal(t, entity.StorageCold, milk.StorageType)
	assert.Equal(t, entity.DefaultMinStockLevel, milk.MinStockLevel)
	require.NotNil(t, milk.MaxTemperature)
	assert.Equal(t, 4.0, *milk.MaxTemperature)

	iceCream, err := db.Items().GetBySKU(ctx, "HEL-002")
	require.NoError(t, err)
	assert.Equal(t, entity.StorageFrozen, iceCream.StorageType)
	assert.Equal(t, "unit", iceCream.Unit)

	m, err := db.SupplierItems().GetBySupplierAndItem(ctx, sup.ID, milk.ID)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, "3200.5", m.UnitPrice.String())
	assert.Equal(t, "COP", m.Currency)
	assert.Equal(t, 12, m.MinOrderQty)
	assert.Equal(t, 3, m.LeadTimeDays)
	assert.True(t, m.IsPreferred)

	// Segunda corrida con precio nuevo: no duplica.
	update := `<PriceList><Item sku="LEC-001" name="Leche entera deslactosada" price="3500" moq="24" leadTime="2"/></PriceList>`
	pl2, err := parseCatalog(strings.NewReader(update), "")
	require.NoError(t, err)
	stats, err = importCatalog(ctx, db.TxRunner(), db.Suppliers(), sup.ID, pl2, now.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, importStats{ItemsUpdated: 1, MappingsUpdated: 1}, stats)

	milk, _ = db.Items().GetBySKU(ctx, "LEC-001")
	assert.Equal(t, "Leche entera deslactosada", milk.ItemName)
	assert.Equal(t, "litro", milk.Unit, "los campos vacíos conservan el valor")
	m, _ = db.SupplierItems().GetBySupplierAndItem(ctx, sup.ID, milk.ID)
	assert.Equal(t, "3500", m.UnitPrice.String())
	assert.Equal(t, 24, m.MinOrderQty)
	assert.False(t, m.IsPreferred)

	list, err := db.SupplierItems().ListBySupplier(ctx, sup.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestImportCatalog_ProveedorInexistente(t *testing.T) {
	db := memrepo.New()
	pl, err := parseCatalog(strings.NewReader(utf8List), "")
	require.NoError(t, err)

	_, err = importCatalog(context.Background(), db.TxRunner(), db.Suppliers(), "nope", pl, now)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	items, err := db.Items().ListActive(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
}
