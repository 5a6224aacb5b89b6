// Package invoicing contiene los casos de uso de facturación: la sesión
// de edición (copia de trabajo mutable de una factura) y el gateway de
// persistencia contra la colección de documentos.
package invoicing

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/facturacion-api/internal/domain"
	"github.com/jhoicas/facturacion-api/internal/domain/entity"
	"github.com/jhoicas/facturacion-api/internal/domain/invoice"
)

// Campos editables de una línea de detalle.
const (
	FieldDetails  = "details"
	FieldAmount   = "amount"
	FieldQuantity = "quantity"
)

// SessionLineItem línea en edición. Amount y Quantity guardan el texto
// crudo tecleado por el usuario; el motor de cálculo lo normaliza al
// recalcular, así "12." no pierde la pulsación.
type SessionLineItem struct {
	Details  string
	Amount   string
	Quantity string
}

// Session es la copia de trabajo mutable de una factura en autoría.
// Toda mutación de líneas e impuesto pasa por sus operaciones; Recompute
// es la única ruta de recálculo (subtotal → impuesto → total, en ese
// orden, siempre sobre los valores ya actualizados). Cambios en la lista
// de líneas o en el impuesto recalculan automáticamente; la edición de
// campos requiere el Recompute explícito (el botón "Validate" del
// formulario original).
type Session struct {
	ID              string
	Title           string
	BillTo          string
	PONumber        string
	InvoiceNumber   int
	InvoiceDate     time.Time
	ContractDetails string
	Note            string
	Currency        string
	ExchangeRate    string

	items []SessionLineItem

	taxEnabled     bool
	taxDescription string
	taxPercent     string

	subtotal  decimal.Decimal
	taxAmount decimal.Decimal
	total     decimal.Decimal

	signatureURL string
}

// NewSession abre una sesión vacía para crear una factura: una línea en
// blanco, totales en cero, consecutivo semilla y moneda por defecto.
func NewSession() *Session {
	return &Session{
		InvoiceNumber: entity.DefaultInvoiceNumber,
		InvoiceDate:   time.Now(),
		Currency:      entity.CurrencyNGN,
		items:         []SessionLineItem{{Amount: "0", Quantity: "1"}},
		subtotal:      decimal.Zero,
		taxAmount:     decimal.Zero,
		total:         decimal.Zero,
	}
}

// SessionFromInvoice hidrata una sesión desde un documento recuperado,
// para el flujo de edición.
func SessionFromInvoice(inv *entity.Invoice) *Session {
	items := make([]SessionLineItem, 0, len(inv.LineItems))
	for _, li := range inv.LineItems {
		items = append(items, SessionLineItem{
			Details:  li.Details,
			Amount:   li.Amount.String(),
			Quantity: li.Quantity.String(),
		})
	}
	s := &Session{
		ID:              inv.ID,
		Title:           inv.Title,
		BillTo:          inv.BillTo,
		PONumber:        inv.PONumber,
		InvoiceNumber:   inv.InvoiceNumber,
		InvoiceDate:     inv.InvoiceDate,
		ContractDetails: inv.ContractDetails,
		Note:            inv.Note,
		Currency:        inv.Currency,
		ExchangeRate:    inv.ExchangeRate.String(),
		items:           items,
		taxEnabled:      inv.Tax.Enabled,
		taxDescription:  inv.Tax.Description,
		taxPercent:      inv.Tax.Percent.String(),
		signatureURL:    inv.SignatureURL,
	}
	s.Recompute()
	return s
}

// ──────────────────────────────────────────────────────────────────────────────
// Mutaciones de líneas
// ──────────────────────────────────────────────────────────────────────────────

// AddLineItem agrega una línea en blanco (amount 0, quantity 1). Sin
// límite de cantidad. La lista cambió: recalcula.
func (s *Session) AddLineItem() {
	s.items = append(s.items, SessionLineItem{Amount: "0", Quantity: "1"})
	s.Recompute()
}

// RemoveLineItem elimina la línea en index. Índice fuera de rango es un
// no-op silencioso: el control de borrado solo apunta a filas existentes.
func (s *Session) RemoveLineItem(index int) {
	if index < 0 || index >= len(s.items) {
		return
	}
	s.items = append(s.items[:index], s.items[index+1:]...)
	s.Recompute()
}

// EditLineItem actualiza un campo de una línea. details acepta texto
// arbitrario; amount y quantity aceptan números parciales ("", ".",
// "12.") y cualquier otro texto se sustituye por "0". No recalcula: el
// resumen se refresca con el Recompute explícito.
func (s *Session) EditLineItem(index int, field, raw string) {
	if index < 0 || index >= len(s.items) {
		return
	}
	switch field {
	case FieldDetails:
		s.items[index].Details = raw
	case FieldAmount:
		s.items[index].Amount = sanitizeNumeric(raw)
	case FieldQuantity:
		s.items[index].Quantity = sanitizeNumeric(raw)
	}
}

// sanitizeNumeric conserva el texto si es un número válido o parcial;
// si no, lo sustituye por "0" (mismo comportamiento del formulario).
func sanitizeNumeric(raw string) string {
	if invoice.IsPartialNumber(raw) {
		return raw
	}
	return "0"
}

// ──────────────────────────────────────────────────────────────────────────────
// Impuesto
// ──────────────────────────────────────────────────────────────────────────────

// SetTax habilita el impuesto con descripción y porcentaje (texto crudo,
// tolerante) y recalcula sobre el subtotal vigente.
func (s *Session) SetTax(description, rawPercent string) {
	s.taxEnabled = true
	s.taxDescription = description
	s.taxPercent = sanitizeNumeric(rawPercent)
	s.Recompute()
}

// ClearTax deshabilita el impuesto y limpia descripción, porcentaje y monto.
func (s *Session) ClearTax() {
	s.taxEnabled = false
	s.taxDescription = ""
	s.taxPercent = "0"
	s.Recompute()
}

// ──────────────────────────────────────────────────────────────────────────────
// Recompute: la única ruta autoritativa de recálculo
// ──────────────────────────────────────────────────────────────────────────────

// Recompute deriva subtotal, monto de impuesto y total en orden estricto.
// El total se calcula con el monto de impuesto recién derivado, nunca con
// el valor anterior.
func (s *Session) Recompute() {
	s.subtotal = invoice.Subtotal(s.entityItems())
	s.taxAmount = invoice.TaxAmount(s.subtotal, s.taxSpec())
	s.total = invoice.Total(s.subtotal, s.taxAmount, s.taxEnabled)
}

func (s *Session) entityItems() []entity.LineItem {
	items := make([]entity.LineItem, 0, len(s.items))
	for _, li := range s.items {
		items = append(items, entity.LineItem{
			Details:  li.Details,
			Amount:   invoice.ParseFlexible(li.Amount),
			Quantity: invoice.ParseFlexible(li.Quantity),
		})
	}
	return items
}

func (s *Session) taxSpec() entity.TaxSpec {
	return entity.TaxSpec{
		Enabled:     s.taxEnabled,
		Description: s.taxDescription,
		Percent:     invoice.ParseFlexible(s.taxPercent),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Firma y validación de envío
// ──────────────────────────────────────────────────────────────────────────────

// AttachSignature registra la URL de la imagen de firma ya subida. La
// subida es asíncrona e independiente; la sesión solo guarda la referencia.
func (s *Session) AttachSignature(url string) {
	s.signatureURL = url
}

// Validate verifica los campos obligatorios al momento de envío: título,
// bill-to, número de factura, fecha y firma. Devuelve ErrValidation con
// el detalle de los campos faltantes; no se valida tecla a tecla.
func (s *Session) Validate() error {
	var missing []string
	if strings.TrimSpace(s.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(s.BillTo) == "" {
		missing = append(missing, "bill_to")
	}
	if s.InvoiceNumber < 1 {
		missing = append(missing, "invoice_no")
	}
	if s.InvoiceDate.IsZero() {
		missing = append(missing, "invoice_date")
	}
	if s.signatureURL == "" {
		missing = append(missing, "signatureURL")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: faltan campos obligatorios: %s",
			domain.ErrValidation, strings.Join(missing, ", "))
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Lecturas
// ──────────────────────────────────────────────────────────────────────────────

// Items devuelve una copia de las líneas en edición.
func (s *Session) Items() []SessionLineItem {
	out := make([]SessionLineItem, len(s.items))
	copy(out, s.items)
	return out
}

// Subtotal devuelve el subtotal del último Recompute.
func (s *Session) Subtotal() decimal.Decimal { return s.subtotal }

// TaxAmount devuelve el monto de impuesto del último Recompute.
func (s *Session) TaxAmount() decimal.Decimal { return s.taxAmount }

// Total devuelve el total del último Recompute.
func (s *Session) Total() decimal.Decimal { return s.total }

// TaxEnabled indica si hay impuesto configurado.
func (s *Session) TaxEnabled() bool { return s.taxEnabled }

// SignatureURL devuelve la referencia de firma adjunta (vacía si no hay).
func (s *Session) SignatureURL() string { return s.signatureURL }

// Snapshot serializa la sesión como entidad lista para persistir. Los
// totales son los del último Recompute: el gateway siempre manda el
// snapshot completo.
func (s *Session) Snapshot() *entity.Invoice {
	tax := s.taxSpec()
	tax.Amount = s.taxAmount
	return &entity.Invoice{
		ID:              s.ID,
		Title:           s.Title,
		BillTo:          s.BillTo,
		PONumber:        s.PONumber,
		InvoiceNumber:   s.InvoiceNumber,
		InvoiceDate:     s.InvoiceDate,
		ContractDetails: s.ContractDetails,
		Note:            s.Note,
		Currency:        s.Currency,
		ExchangeRate:    invoice.ParseFlexible(s.ExchangeRate),
		LineItems:       s.entityItems(),
		Tax:             tax,
		Subtotal:        s.subtotal,
		Total:           s.total,
		SignatureURL:    s.signatureURL,
	}
}
