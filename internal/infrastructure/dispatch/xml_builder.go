// Package dispatch construye el documento XML de la orden que se envía al proveedor
// y su huella sobre la forma canónica (C14N).
package dispatch

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/xml"
	"fmt"
	"strconv"
	"time"

	"github.com/beevik/etree"
	"github.com/ucarion/c14n"

	"github.com/jhoicas/supply-chain-api/internal/application/ports"
)

const (
	// NsPurchaseOrder namespace por defecto del documento.
	NsPurchaseOrder = "urn:supply-chain:purchase-order:1"
	// ElementID Id del elemento raíz, referenciable por firmas externas.
	ElementID = "po-id"

	dateLayout = "2006-01-02"
)

var _ ports.PODispatchRenderer = (*XMLBuilderService)(nil)

// XMLBuilderService construye el XML de despacho. El estado de la orden no forma parte del
// documento: el XML (y su huella) no cambian al confirmar o recibir.
type XMLBuilderService struct{}

// NewXMLBuilderService crea el servicio.
func NewXMLBuilderService() *XMLBuilderService {
	return &XMLBuilderService{}
}

// RenderPO genera el XML indentado y el SHA-256 (hex) de su forma canónica.
func (s *XMLBuilderService) RenderPO(doc ports.PODocument) ([]byte, string, error) {
	out, err := s.Build(doc)
	if err != nil {
		return nil, "", err
	}
	digest, err := Digest(out)
	if err != nil {
		return nil, "", err
	}
	return out, digest, nil
}

// Build genera el []byte del documento PurchaseOrder.
func (s *XMLBuilderService) Build(doc ports.PODocument) ([]byte, error) {
	po := doc.PO
	if po == nil {
		return nil, fmt.Errorf("dispatch: falta la orden")
	}

	x := etree.NewDocument()
	x.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := x.CreateElement("PurchaseOrder")
	root.CreateAttr("xmlns", NsPurchaseOrder)
	root.CreateAttr("Id", ElementID)

	header := root.CreateElement("Header")
	header.CreateElement("ID").SetText(po.ID)
	header.CreateElement("Number").SetText(po.PONumber)
	header.CreateElement("OrderDate").SetText(po.OrderDate.Format(dateLayout))
	header.CreateElement("ExpectedDeliveryDate").SetText(po.ExpectedDeliveryDate.Format(dateLayout))
	if po.SentAt != nil {
		header.CreateElement("SentAt").SetText(po.SentAt.UTC().Format(time.RFC3339))
	}

	supplier := root.CreateElement("Supplier")
	supplier.CreateAttr("id", po.SupplierID)
	if sp := doc.Supplier; sp != nil {
		supplier.CreateElement("Name").SetText(sp.Name)
		optional(supplier, "ContactPerson", sp.ContactPerson)
		optional(supplier, "Email", sp.Email)
		optional(supplier, "Phone", sp.Phone)
		optional(supplier, "Address", sp.Address)
	}

	deliver := root.CreateElement("DeliverTo")
	deliver.CreateAttr("id", po.StoreID)
	if st := doc.Store; st != nil {
		deliver.CreateElement("Code").SetText(st.Code)
		deliver.CreateElement("Name").SetText(st.Name)
		optional(deliver, "Location", st.Location)
	}

	lines := root.CreateElement("Lines")
	for i, l := range po.Items {
		line := lines.CreateElement("Line")
		line.CreateAttr("number", strconv.Itoa(i+1))
		line.CreateElement("ItemID").SetText(l.ItemID)
		optional(line, "SKU", doc.ItemSKU(l.ItemID))
		line.CreateElement("Description").SetText(doc.ItemName(l.ItemID))
		qty := line.CreateElement("Quantity")
		qty.CreateAttr("unit", l.Unit)
		qty.SetText(strconv.Itoa(l.Quantity))
		line.CreateElement("UnitPrice").SetText(l.UnitPrice.StringFixed(2))
		line.CreateElement("LineTotal").SetText(l.TotalAmount.StringFixed(2))
	}
	root.CreateElement("TotalAmount").SetText(po.TotalAmount.StringFixed(2))
	optional(root, "Notes", po.Notes)

	x.Indent(2)
	out, err := x.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("dispatch: serializar XML: %w", err)
	}
	return out, nil
}

// Digest SHA-256 (hex) de la forma canónica del XML.
func Digest(xmlBytes []byte) (string, error) {
	canonical, err := canonicalizeXML(xmlBytes)
	if err != nil {
		return "", fmt.Errorf("dispatch: canonicalizar: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

func canonicalizeXML(data []byte) ([]byte, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Entity = map[string]string{}
	return c14n.Canonicalize(dec)
}

func optional(parent *etree.Element, tag, value string) {
	if value != "" {
		parent.CreateElement(tag).SetText(value)
	}
}
