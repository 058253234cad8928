package main

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/supply-chain-api/internal/application/ports"
	"github.com/jhoicas/supply-chain-api/internal/application/usecase"
	"github.com/jhoicas/supply-chain-api/internal/domain"
	"github.com/jhoicas/supply-chain-api/internal/domain/entity"
	"github.com/jhoicas/supply-chain-api/internal/domain/repository"
)

// priceList lista de precios del proveedor:
//
//	<PriceList currency="COP">
//	  <Item sku="LEC-001" name="Leche entera" unit="litro" category="Lácteos" storage="cold"
//	        minTemp="0" maxTemp="4" price="3200.50" moq="12" leadTime="3" preferred="true"/>
//	</PriceList>
type priceList struct {
	Currency string      `xml:"currency,attr"`
	Items    []priceItem `xml:"Item"`
}

type priceItem struct {
	SKU       string `xml:"sku,attr"`
	Name      string `xml:"name,attr"`
	Unit      string `xml:"unit,attr"`
	Category  string `xml:"category,attr"`
	Storage   string `xml:"storage,attr"`
	MinTemp   string `xml:"minTemp,attr"`
	MaxTemp   string `xml:"maxTemp,attr"`
	Price     string `xml:"price,attr"`
	MOQ       int    `xml:"moq,attr"`
	LeadTime  int    `xml:"leadTime,attr"`
	Preferred bool   `xml:"preferred,attr"`
}

// importStats resultado de la importación.
type importStats struct {
	ItemsCreated    int
	ItemsUpdated    int
	MappingsCreated int
	MappingsUpdated int
	Skipped         int
}

func isLatin1(charset string) bool {
	switch strings.ToLower(charset) {
	case "iso-8859-1", "iso8859-1", "latin1", "latin-1":
		return true
	}
	return false
}

// parseCatalog decodifica la lista. Con forceCharset latin1 el contenido se transcodifica aunque
// el XML no declare encoding; si no, se respeta la declaración del documento.
func parseCatalog(r io.Reader, forceCharset string) (*priceList, error) {
	forced := isLatin1(forceCharset)
	if forced {
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	dec := xml.NewDecoder(r)
	dec.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		if forced || strings.EqualFold(charset, "UTF-8") {
			return input, nil
		}
		if isLatin1(charset) {
			return transform.NewReader(input, charmap.ISO8859_1.NewDecoder()), nil
		}
		return nil, fmt.Errorf("charset no soportado: %s", charset)
	}
	var pl priceList
	if err := dec.Decode(&pl); err != nil {
		return nil, fmt.Errorf("decodificar XML: %w", err)
	}
	return &pl, nil
}

// importCatalog crea o actualiza los ítems por SKU y sus mapeos con el proveedor, todo en una transacción.
// Las líneas sin SKU, nombre o precio positivo se omiten; MOQ 0 se guarda como 1.
func importCatalog(
	ctx context.Context,
	tx ports.TxRunner,
	suppliers repository.SupplierRepository,
	supplierID string,
	pl *priceList,
	now time.Time,
) (importStats, error) {
	var stats importStats
	supplier, err := suppliers.GetByID(ctx, supplierID)
	if err != nil {
		return stats, err
	}
	if supplier == nil {
		return stats, fmt.Errorf("%w: proveedor %s", domain.ErrNotFound, supplierID)
	}
	currency := strings.ToUpper(strings.TrimSpace(pl.Currency))
	if currency == "" {
		currency = usecase.DefaultCurrency
	}

	err = tx.Run(ctx, func(r ports.TxRepos) error {
		stats = importStats{}
		for _, line := range pl.Items {
			sku := strings.TrimSpace(line.SKU)
			name := strings.TrimSpace(line.Name)
			price, perr := decimal.NewFromString(strings.TrimSpace(line.Price))
			if sku == "" || name == "" || perr != nil || !price.IsPositive() || line.MOQ < 0 || line.LeadTime < 0 {
				stats.Skipped++
				continue
			}

			item, err := r.Items.GetBySKU(ctx, sku)
			if err != nil {
				return err
			}
			if item == nil {
				item = &entity.Item{
					ID:            uuid.New().String(),
					SKU:           sku,
					MinStockLevel: entity.DefaultMinStockLevel,
					IsActive:      true,
					CreatedAt:     now,
				}
				applyLine(item, line, name)
				item.UpdatedAt = now
				if err := r.Items.Create(ctx, item); err != nil {
					return fmt.Errorf("crear ítem %s: %w", sku, err)
				}
				stats.ItemsCreated++
			} else {
				applyLine(item, line, name)
				item.UpdatedAt = now
				if err := r.Items.Update(ctx, item); err != nil {
					return fmt.Errorf("actualizar ítem %s: %w", sku, err)
				}
				stats.ItemsUpdated++
			}

			moq := line.MOQ
			if moq == 0 {
				moq = 1
			}
			m, err := r.SupplierItems.GetBySupplierAndItem(ctx, supplier.ID, item.ID)
			if err != nil {
				return err
			}
			if m == nil {
				m = &entity.SupplierItem{
					ID:         uuid.New().String(),
					SupplierID: supplier.ID,
					ItemID:     item.ID,
					IsActive:   true,
					CreatedAt:  now,
				}
				m.UnitPrice, m.Currency, m.MinOrderQty, m.LeadTimeDays, m.IsPreferred = price, currency, moq, line.LeadTime, line.Preferred
				m.UpdatedAt = now
				if err := r.SupplierItems.Create(ctx, m); err != nil {
					return fmt.Errorf("crear mapeo %s: %w", sku, err)
				}
				stats.MappingsCreated++
				continue
			}
			m.UnitPrice, m.Currency, m.MinOrderQty, m.LeadTimeDays, m.IsPreferred = price, currency, moq, line.LeadTime, line.Preferred
			m.IsActive = true
			m.UpdatedAt = now
			if err := r.SupplierItems.Update(ctx, m); err != nil {
				return fmt.Errorf("actualizar mapeo %s: %w", sku, err)
			}
			stats.MappingsUpdated++
		}
		return nil
	})
	return stats, err
}

// applyLine copia los datos del catálogo; los campos vacíos conservan el valor actual.
func applyLine(item *entity.Item, line priceItem, name string) {
	item.ItemName = name
	if u := strings.TrimSpace(line.Unit); u != "" {
		item.Unit = u
	}
	if item.Unit == "" {
		item.Unit = "unit"
	}
	if c := strings.TrimSpace(line.Category); c != "" {
		item.Category = c
	}
	switch strings.ToLower(strings.TrimSpace(line.Storage)) {
	case entity.StorageFrozen:
		item.StorageType = entity.StorageFrozen
	case entity.StorageCold:
		item.StorageType = entity.StorageCold
	}
	if item.StorageType == "" {
		item.StorageType = entity.StorageCold
	}
	if v, ok := parseFloat(line.MinTemp); ok {
		item.MinTemperature = &v
	}
	if v, ok := parseFloat(line.MaxTemp); ok {
		item.MaxTemperature = &v
	}
}

func parseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	return v, err == nil
}
