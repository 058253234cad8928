// Package excel exporta reportes a xlsx con excelize.
package excel

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/supply-chain-api/internal/application/ports"
)

const defaultSheet = "Sheet1"

var _ ports.SpreadsheetExporter = (*Exporter)(nil)

// Exporter implementa ports.SpreadsheetExporter. Una hoja por Sheet, encabezados en negrita en la fila 1.
type Exporter struct{}

// NewExporter construye el exportador.
func NewExporter() *Exporter { return &Exporter{} }

// Export escribe las hojas y devuelve el libro serializado.
func (e *Exporter) Export(sheets ...ports.Sheet) ([]byte, error) {
	if len(sheets) == 0 {
		return nil, fmt.Errorf("excel: no hay hojas para exportar")
	}
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("excel: estilo: %w", err)
	}

	for i, s := range sheets {
		name := sheetName(s.Name, i)
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, name); err != nil {
				return nil, fmt.Errorf("excel: renombrar hoja: %w", err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("excel: crear hoja %s: %w", name, err)
		}
		if err := writeSheet(f, name, s, bold); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("excel: serializar: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, name string, s ports.Sheet, headerStyle int) error {
	if len(s.Headers) > 0 {
		header := make([]any, len(s.Headers))
		for i, h := range s.Headers {
			header[i] = h
		}
		if err := f.SetSheetRow(name, "A1", &header); err != nil {
			return fmt.Errorf("excel: encabezados %s: %w", name, err)
		}
		last, err := excelize.CoordinatesToCellName(len(s.Headers), 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(name, "A1", last, headerStyle); err != nil {
			return fmt.Errorf("excel: estilo encabezados: %w", err)
		}
	}
	for r, row := range s.Rows {
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		values := row
		if err := f.SetSheetRow(name, cell, &values); err != nil {
			return fmt.Errorf("excel: fila %d de %s: %w", r+2, name, err)
		}
	}
	return nil
}

// sheetName nombre válido para Excel: no vacío y máximo 31 caracteres.
func sheetName(name string, i int) string {
	if name == "" {
		return fmt.Sprintf("Hoja%d", i+1)
	}
	r := []rune(name)
	if len(r) > 31 {
		return string(r[:31])
	}
	return name
}
