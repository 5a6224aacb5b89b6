package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Monedas soportadas por la factura.
const (
	CurrencyNGN = "NGN"
	CurrencyUSD = "USD"
)

// DefaultInvoiceNumber consecutivo semilla cuando la colección está vacía.
const DefaultInvoiceNumber = 1000

// LineItem representa una línea de detalle de la factura.
// LineTotal (amount × quantity) es derivado y no se persiste.
type LineItem struct {
	Details  string
	Amount   decimal.Decimal
	Quantity decimal.Decimal
}

// LineTotal devuelve amount × quantity.
func (li LineItem) LineTotal() decimal.Decimal {
	return li.Amount.Mul(li.Quantity)
}

// TaxSpec describe el impuesto aplicado sobre el subtotal.
// Percent es un porcentaje (0–100); Amount solo es válido cuando Enabled.
type TaxSpec struct {
	Enabled     bool
	Description string
	Percent     decimal.Decimal
	Amount      decimal.Decimal
}

// Invoice es el documento persistido: una factura completa con sus líneas
// y los totales redundantes (subtotal, impuesto, total) para que el
// documento sea autocontenido al renderizar sin recalcular.
type Invoice struct {
	ID              string
	Title           string
	BillTo          string
	PONumber        string
	InvoiceNumber   int
	InvoiceDate     time.Time
	ContractDetails string
	Note            string

	Currency     string
	ExchangeRate decimal.Decimal
	LineItems    []LineItem
	Tax          TaxSpec
	Subtotal     decimal.Decimal
	Total        decimal.Decimal

	SignatureURL string
	CreatedAt    time.Time // asignado por el servidor al crear; inmutable
}
