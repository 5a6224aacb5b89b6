// Package pdf implementa la exportación de la factura como PDF A4 con
// Maroto v2.
//
// Layout de la página:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título  │  Invoice # + Fecha + PO                   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  BILL TO (texto multilínea) + CONTRACT DETAILS               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Descripción | Amount | Qty | Line total              │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Subtotal / Impuesto / TOTAL (moneda + tasa cambio) │
//	│  NOTE + referencia de firma                                  │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/jhoicas/facturacion-api/internal/application/invoicing"
	"github.com/jhoicas/facturacion-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 127, Green: 29, Blue: 29}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var moneyPrinter = message.NewPrinter(language.English)

// formatMoney replica el formato del resumen en pantalla ("0,0.000"):
// separador de miles y tres decimales.
func formatMoney(d decimal.Decimal) string {
	f, _ := d.Float64()
	return moneyPrinter.Sprintf("%v", number.Decimal(f,
		number.MinFractionDigits(3), number.MaxFractionDigits(3)))
}

// currencyPrefix antepone el código de la moneda. Las fuentes core del
// PDF no traen el glifo ₦, así que se usa el código también para NGN.
func currencyPrefix(currency string) string {
	if currency == entity.CurrencyUSD {
		return "$"
	}
	return currency + " "
}

// ── Renderer ──────────────────────────────────────────────────────────────────

var _ invoicing.PDFRenderer = (*MarotoInvoiceRenderer)(nil)

// MarotoInvoiceRenderer implementa invoicing.PDFRenderer usando Maroto v2.
type MarotoInvoiceRenderer struct{}

// NewMarotoInvoiceRenderer construye el renderer.
func NewMarotoInvoiceRenderer() *MarotoInvoiceRenderer { return &MarotoInvoiceRenderer{} }

// Render genera el PDF de la factura y devuelve sus bytes.
func (g *MarotoInvoiceRenderer) Render(_ context.Context, inv *entity.Invoice) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(fmt.Sprintf("Invoice %d", inv.InvoiceNumber), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(inv))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(billToRow(inv))
	if inv.ContractDetails != "" {
		m.AddRows(contractRow(inv))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableItemRows(inv) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	for _, r := range totalsRows(inv) {
		m.AddRows(r)
	}

	for _, r := range footerRows(inv) {
		m.AddRows(r)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título (izq) y número + fecha + PO (der).
func headerRow(inv *entity.Invoice) core.Row {
	right := []core.Component{
		text.New("INVOICE", props.Text{
			Style: fontstyle.Bold, Size: 8, Align: align.Right,
			Color: colorPrimary, Top: 1,
		}),
		text.New(fmt.Sprintf("# %d", inv.InvoiceNumber), props.Text{
			Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
		}),
		text.New("Fecha: "+inv.InvoiceDate.Format("02/01/2006"), props.Text{
			Size: 8, Align: align.Right, Top: 14, Color: colorGray,
		}),
	}
	if inv.PONumber != "" {
		right = append(right, text.New("PO: "+inv.PONumber, props.Text{
			Size: 8, Align: align.Right, Top: 19, Color: colorGray,
		}))
	}
	return row.New(24).Add(
		col.New(7).Add(
			text.New(inv.Title, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(5).Add(right...),
	)
}

// billToRow: destinatario de la factura (puede traer saltos de línea).
func billToRow(inv *entity.Invoice) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("BILL TO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(inv.BillTo, props.Text{Size: 9, Top: 6}),
		),
	)
}

// contractRow: detalles de contrato opcionales.
func contractRow(inv *entity.Invoice) core.Row {
	return row.New(10).Add(
		col.New(12).Add(
			text.New("CONTRACT DETAILS", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(inv.ContractDetails, props.Text{Size: 8, Top: 6, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de líneas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Descripción", 6, align.Left),
		h("Amount", 2, align.Right),
		h("Qty", 1, align.Center),
		h("Line total", 3, align.Right),
	)
}

// tableItemRows: una fila por línea de detalle. El line total es derivado
// (amount × quantity), no un campo persistido.
func tableItemRows(inv *entity.Invoice) []core.Row {
	prefix := currencyPrefix(inv.Currency)
	result := make([]core.Row, 0, len(inv.LineItems))
	for _, li := range inv.LineItems {
		result = append(result, row.New(7).Add(
			col.New(6).Add(text.New(
				li.Details,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				prefix+formatMoney(li.Amount),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(1).Add(text.New(
				li.Quantity.String(),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(3).Add(text.New(
				prefix+formatMoney(li.LineTotal()),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalsRows: bloque de totales alineado a la derecha, con la línea de
// impuesto solo si está habilitado.
func totalsRows(inv *entity.Invoice) []core.Row {
	prefix := currencyPrefix(inv.Currency)
	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: 1,
		})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Top: 1})
	}

	rows := []core.Row{
		row.New(7).Add(
			col.New(6),
			col.New(3).Add(label("Subtotal:")),
			col.New(3).Add(value(prefix+formatMoney(inv.Subtotal))),
		),
	}
	if inv.Tax.Enabled {
		rows = append(rows, row.New(7).Add(
			col.New(6),
			col.New(3).Add(label(fmt.Sprintf("%s %s%%:", inv.Tax.Description, inv.Tax.Percent.String()))),
			col.New(3).Add(value(prefix+formatMoney(inv.Tax.Amount))),
		))
	}
	rows = append(rows, row.New(9).Add(
		col.New(6),
		col.New(3).Add(text.New("TOTAL "+inv.Currency+":", props.Text{
			Style: fontstyle.Bold, Size: 11, Align: align.Right,
			Color: colorPrimary, Right: 2, Top: 1,
		})),
		col.New(3).Add(text.New(prefix+formatMoney(inv.Total), props.Text{
			Style: fontstyle.Bold, Size: 11, Align: align.Right,
			Color: colorPrimary, Right: 1, Top: 1,
		})),
	))
	if !inv.ExchangeRate.IsZero() {
		rows = append(rows, row.New(5).Add(
			col.New(12).Add(text.New(
				fmt.Sprintf("Tasa de cambio: %s / $", inv.ExchangeRate.String()),
				props.Text{Size: 8, Align: align.Right, Color: colorGray, Top: 1},
			)),
		))
	}
	return rows
}

// footerRows: nota libre y referencia de la firma subida.
func footerRows(inv *entity.Invoice) []core.Row {
	rows := []core.Row{line.NewRow(3)}
	if inv.Note != "" {
		rows = append(rows, row.New(8).Add(
			col.New(12).Add(
				text.New("NOTE", props.Text{
					Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
				}),
				text.New(inv.Note, props.Text{Size: 8, Top: 5, Color: colorGray}),
			),
		))
	}
	if inv.SignatureURL != "" {
		rows = append(rows, row.New(8).Add(
			col.New(12).Add(
				text.New("Firma: "+inv.SignatureURL, props.Text{
					Size: 7, Top: 2, Color: colorGray,
				}),
			),
		))
	}
	return rows
}
