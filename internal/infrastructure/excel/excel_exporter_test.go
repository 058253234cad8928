package excel

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/supply-chain-api/internal/application/ports"
)

func TestExport(t *testing.T) {
	data, err := NewExporter().Export(
		ports.Sheet{
			Name:    "Inventario",
			Headers: []string{"Lote", "Cantidad"},
			Rows:    [][]any{{"L-1", 10}, {"L-2", 0}},
		},
		ports.Sheet{Headers: []string{"SKU"}},
	)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Inventario", "Hoja2"}, f.GetSheetList())
	v, err := f.GetCellValue("Inventario", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Lote", v)
	v, err = f.GetCellValue("Inventario", "B2")
	require.NoError(t, err)
	assert.Equal(t, "10", v)
	v, err = f.GetCellValue("Inventario", "A3")
	require.NoError(t, err)
	assert.Equal(t, "L-2", v)
}

func TestExport_NoSheets(t *testing.T) {
	_, err := NewExporter().Export()
	assert.Error(t, err)
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "Hoja3", sheetName("", 2))
	assert.Len(t, []rune(sheetName("Un nombre de hoja demasiado largo para excel", 0)), 31)
}
