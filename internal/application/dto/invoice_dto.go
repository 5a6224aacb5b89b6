// Package dto define la forma JSON del documento factura tal como viaja
// por HTTP y se guarda en la colección. Los nombres de campo son el
// contrato histórico del cliente (mezcla de snake_case y camelCase) y
// deben sobrevivir intactos un ciclo create → fetch → update → fetch.
// El JSON dinámico se mapea aquí a los tipos fuertes del dominio
// (deserializar-validar-confiar); el núcleo nunca ve mapas sin tipo.
package dto

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/facturacion-api/internal/domain/entity"
	"github.com/jhoicas/facturacion-api/internal/domain/invoice"
)

// ──────────────────────────────────────────────────────────────────────────────
// Tipos JSON tolerantes
// ──────────────────────────────────────────────────────────────────────────────

// Number acepta montos como número JSON o como texto crudo del formulario
// ("12.", ".", ""). Texto parcial o inválido se normaliza a 0 en lugar de
// rechazar el documento. Serializa siempre como número JSON.
type Number struct {
	decimal.Decimal
}

// Num construye un Number desde un decimal.
func Num(d decimal.Decimal) Number { return Number{d} }

// UnmarshalJSON implementa la deserialización tolerante.
func (n *Number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		n.Decimal = decimal.Zero
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		n.Decimal = invoice.ParseFlexible(s)
		return nil
	}
	d, err := decimal.NewFromString(string(b))
	if err != nil {
		n.Decimal = decimal.Zero
		return nil
	}
	n.Decimal = d
	return nil
}

// MarshalJSON serializa como número JSON sin comillas.
func (n Number) MarshalJSON() ([]byte, error) {
	return []byte(n.Decimal.String()), nil
}

// Date acepta fechas como "2006-01-02" o RFC3339 (el cliente histórico
// manda el Date serializado completo). Serializa en RFC3339.
type Date struct {
	time.Time
}

// UnmarshalJSON implementa la deserialización de ambos formatos.
func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		d.Time = t
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// MarshalJSON serializa en RFC3339 o null si va vacía.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.Time.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Time.Format(time.RFC3339))
}

// ──────────────────────────────────────────────────────────────────────────────
// Documento factura
// ──────────────────────────────────────────────────────────────────────────────

// LineItemDocument línea de detalle dentro del documento.
type LineItemDocument struct {
	Details  string `json:"details"`
	Amount   Number `json:"amount"`
	Quantity Number `json:"quantity"`
}

// InvoiceDocument es el documento completo. Id y createdAt los asigna el
// servidor: en el body de entrada se ignoran. Al deserializar se registra
// qué claves trajo el payload (ver Has): un update parcial solo sobrepone
// los campos presentes, igual que el update del almacén original.
type InvoiceDocument struct {
	Title           string             `json:"title"`
	BillTo          string             `json:"bill_to"`
	PONumber        string             `json:"po_number"`
	InvoiceNumber   int                `json:"invoice_no"`
	InvoiceDate     Date               `json:"invoice_date"`
	ContractDetails string             `json:"contract_details"`
	Note            string             `json:"note"`
	Currency        string             `json:"currency"`
	ExchangeRate    *Number            `json:"exchange_rate,omitempty"`
	LineItems       []LineItemDocument `json:"invoiceDescription"`
	VatTax          bool               `json:"vatTax"`
	TaxDescription  string             `json:"taxDescription"`
	TaxPercent      Number             `json:"taxPercent"`
	VatTaxValue     Number             `json:"vatTaxValue"`
	Subtotal        Number             `json:"subtotal"`
	Total           Number             `json:"total"`
	SignatureURL    string             `json:"signatureURL"`
	CreatedAt       string             `json:"createdAt,omitempty"`

	present map[string]bool
}

// UnmarshalJSON deserializa el documento y registra las claves presentes
// en el payload.
func (doc *InvoiceDocument) UnmarshalJSON(b []byte) error {
	type plain InvoiceDocument
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*doc = InvoiceDocument(p)

	var keys map[string]json.RawMessage
	if err := json.Unmarshal(b, &keys); err != nil {
		return err
	}
	doc.present = make(map[string]bool, len(keys))
	for k := range keys {
		doc.present[k] = true
	}
	return nil
}

// Has indica si el payload deserializado traía la clave JSON.
func (doc *InvoiceDocument) Has(key string) bool { return doc.present[key] }

// ApplyTo sobrepone en inv solo los campos presentes en el payload; los
// ausentes quedan intactos. Los totales (subtotal, vatTaxValue, total)
// son derivados y los gobierna el recálculo, no el payload.
func (doc *InvoiceDocument) ApplyTo(inv *entity.Invoice) {
	if doc.Has("title") {
		inv.Title = doc.Title
	}
	if doc.Has("bill_to") {
		inv.BillTo = doc.BillTo
	}
	if doc.Has("po_number") {
		inv.PONumber = doc.PONumber
	}
	if doc.Has("invoice_no") {
		inv.InvoiceNumber = doc.InvoiceNumber
	}
	if doc.Has("invoice_date") {
		inv.InvoiceDate = doc.InvoiceDate.Time
	}
	if doc.Has("contract_details") {
		inv.ContractDetails = doc.ContractDetails
	}
	if doc.Has("note") {
		inv.Note = doc.Note
	}
	if doc.Has("currency") {
		inv.Currency = doc.Currency
	}
	if doc.Has("exchange_rate") {
		inv.ExchangeRate = decimal.Zero
		if doc.ExchangeRate != nil {
			inv.ExchangeRate = doc.ExchangeRate.Decimal
		}
	}
	if doc.Has("invoiceDescription") {
		items := make([]entity.LineItem, 0, len(doc.LineItems))
		for _, li := range doc.LineItems {
			items = append(items, entity.LineItem{
				Details:  li.Details,
				Amount:   li.Amount.Decimal,
				Quantity: li.Quantity.Decimal,
			})
		}
		inv.LineItems = items
	}
	if doc.Has("vatTax") {
		inv.Tax.Enabled = doc.VatTax
	}
	if doc.Has("taxDescription") {
		inv.Tax.Description = doc.TaxDescription
	}
	if doc.Has("taxPercent") {
		inv.Tax.Percent = doc.TaxPercent.Decimal
	}
	if doc.Has("signatureURL") {
		inv.SignatureURL = doc.SignatureURL
	}
}

// ToEntity convierte el documento a la entidad de dominio.
// id y createdAt del documento se ignoran: los gobierna el almacén.
func (doc *InvoiceDocument) ToEntity() *entity.Invoice {
	items := make([]entity.LineItem, 0, len(doc.LineItems))
	for _, li := range doc.LineItems {
		items = append(items, entity.LineItem{
			Details:  li.Details,
			Amount:   li.Amount.Decimal,
			Quantity: li.Quantity.Decimal,
		})
	}
	exchangeRate := decimal.Zero
	if doc.ExchangeRate != nil {
		exchangeRate = doc.ExchangeRate.Decimal
	}
	return &entity.Invoice{
		Title:           doc.Title,
		BillTo:          doc.BillTo,
		PONumber:        doc.PONumber,
		InvoiceNumber:   doc.InvoiceNumber,
		InvoiceDate:     doc.InvoiceDate.Time,
		ContractDetails: doc.ContractDetails,
		Note:            doc.Note,
		Currency:        doc.Currency,
		ExchangeRate:    exchangeRate,
		LineItems:       items,
		Tax: entity.TaxSpec{
			Enabled:     doc.VatTax,
			Description: doc.TaxDescription,
			Percent:     doc.TaxPercent.Decimal,
			Amount:      doc.VatTaxValue.Decimal,
		},
		Subtotal:     doc.Subtotal.Decimal,
		Total:        doc.Total.Decimal,
		SignatureURL: doc.SignatureURL,
	}
}

// FromEntity construye el documento a partir de la entidad.
func FromEntity(inv *entity.Invoice) *InvoiceDocument {
	items := make([]LineItemDocument, 0, len(inv.LineItems))
	for _, li := range inv.LineItems {
		items = append(items, LineItemDocument{
			Details:  li.Details,
			Amount:   Num(li.Amount),
			Quantity: Num(li.Quantity),
		})
	}
	doc := &InvoiceDocument{
		Title:           inv.Title,
		BillTo:          inv.BillTo,
		PONumber:        inv.PONumber,
		InvoiceNumber:   inv.InvoiceNumber,
		InvoiceDate:     Date{inv.InvoiceDate},
		ContractDetails: inv.ContractDetails,
		Note:            inv.Note,
		Currency:        inv.Currency,
		LineItems:       items,
		VatTax:          inv.Tax.Enabled,
		TaxDescription:  inv.Tax.Description,
		TaxPercent:      Num(inv.Tax.Percent),
		VatTaxValue:     Num(inv.Tax.Amount),
		Subtotal:        Num(inv.Subtotal),
		Total:           Num(inv.Total),
		SignatureURL:    inv.SignatureURL,
	}
	// El documento histórico no trae la clave cuando no hay tasa de cambio.
	if !inv.ExchangeRate.IsZero() {
		rate := Num(inv.ExchangeRate)
		doc.ExchangeRate = &rate
	}
	if !inv.CreatedAt.IsZero() {
		doc.CreatedAt = inv.CreatedAt.UTC().Format(time.RFC3339)
	}
	return doc
}
