package invoicing_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturacion-api/internal/application/invoicing"
	"github.com/jhoicas/facturacion-api/internal/domain"
	"github.com/jhoicas/facturacion-api/internal/domain/entity"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ──────────────────────────────────────────────────────────────────────────────
// Estado inicial
// ──────────────────────────────────────────────────────────────────────────────

func TestNewSession_UnaLineaEnBlancoYTotalesEnCero(t *testing.T) {
	s := invoicing.NewSession()

	items := s.Items()
	require.Len(t, items, 1, "la sesión nueva arranca con una línea en blanco")
	assert.Empty(t, items[0].Details)
	assert.Equal(t, "0", items[0].Amount)
	assert.Equal(t, "1", items[0].Quantity)

	assert.True(t, s.Subtotal().IsZero())
	assert.True(t, s.Total().IsZero())
	assert.False(t, s.TaxEnabled())
	assert.Equal(t, entity.DefaultInvoiceNumber, s.InvoiceNumber,
		"el consecutivo semilla es 1000")
	assert.Equal(t, entity.CurrencyNGN, s.Currency)
}

// ──────────────────────────────────────────────────────────────────────────────
// Mutaciones de líneas
// ──────────────────────────────────────────────────────────────────────────────

func TestRemoveLineItem_FueraDeRangoEsNoOp(t *testing.T) {
	s := invoicing.NewSession()
	s.AddLineItem()

	s.RemoveLineItem(-1)
	s.RemoveLineItem(5)

	assert.Len(t, s.Items(), 2, "índices fuera de rango no deben tocar la lista")
}

func TestEditLineItem_TextoParcialNoSePierde(t *testing.T) {
	s := invoicing.NewSession()

	s.EditLineItem(0, invoicing.FieldAmount, "12.")
	assert.Equal(t, "12.", s.Items()[0].Amount,
		"el número parcial se conserva tal cual mientras se edita")

	s.Recompute()
	assert.True(t, s.Subtotal().Equal(dec("12")),
		"para el cálculo, \"12.\" vale 12")
}

func TestEditLineItem_TextoInvalidoSeSustituyePorCero(t *testing.T) {
	s := invoicing.NewSession()

	s.EditLineItem(0, invoicing.FieldAmount, "abc")
	assert.Equal(t, "0", s.Items()[0].Amount)
}

func TestEditLineItem_NoRecalculaHastaRecompute(t *testing.T) {
	s := invoicing.NewSession()

	s.EditLineItem(0, invoicing.FieldAmount, "100")
	assert.True(t, s.Subtotal().IsZero(),
		"la edición de campos no refresca el resumen por sí sola")

	s.Recompute()
	assert.True(t, s.Subtotal().Equal(dec("100")))
}

func TestAddRemove_RecalculanAutomaticamente(t *testing.T) {
	s := invoicing.NewSession()
	s.EditLineItem(0, invoicing.FieldAmount, "100")
	s.EditLineItem(0, invoicing.FieldQuantity, "2")

	// Agregar una línea cambia la lista: el resumen ya refleja la edición previa.
	s.AddLineItem()
	assert.True(t, s.Subtotal().Equal(dec("200")))

	s.RemoveLineItem(1)
	assert.True(t, s.Subtotal().Equal(dec("200")))
}

// ──────────────────────────────────────────────────────────────────────────────
// Escenario completo del flujo de autoría (Install/Config + VAT 7.5%)
// ──────────────────────────────────────────────────────────────────────────────

func buildTwoItemSession(t *testing.T) *invoicing.Session {
	t.Helper()
	s := invoicing.NewSession()
	s.EditLineItem(0, invoicing.FieldDetails, "Install")
	s.EditLineItem(0, invoicing.FieldAmount, "100")
	s.EditLineItem(0, invoicing.FieldQuantity, "2")
	s.AddLineItem()
	s.EditLineItem(1, invoicing.FieldDetails, "Config")
	s.EditLineItem(1, invoicing.FieldAmount, "50")
	s.EditLineItem(1, invoicing.FieldQuantity, "1")
	s.Recompute()
	return s
}

func TestEscenario_SubtotalSinImpuesto(t *testing.T) {
	s := buildTwoItemSession(t)

	assert.True(t, s.Subtotal().Equal(dec("250")), "subtotal = 250, fue %s", s.Subtotal())
	assert.True(t, s.Total().Equal(dec("250")), "sin impuesto, total = subtotal")
}

func TestEscenario_VAT75(t *testing.T) {
	s := buildTwoItemSession(t)

	s.SetTax("VAT", "7.5")

	assert.True(t, s.TaxAmount().Equal(dec("18.75")),
		"250 × 7.5%% = 18.75, fue %s", s.TaxAmount())
	assert.True(t, s.Total().Equal(dec("268.75")),
		"el total usa el impuesto recién derivado, nunca el anterior; fue %s", s.Total())
}

func TestEscenario_QuitarLineaConImpuestoVigente(t *testing.T) {
	s := buildTwoItemSession(t)
	s.SetTax("VAT", "7.5")

	// Quitar la segunda línea recalcula todo en orden: 200 → 15 → 215.
	s.RemoveLineItem(1)

	assert.True(t, s.Subtotal().Equal(dec("200")), "subtotal = 200, fue %s", s.Subtotal())
	assert.True(t, s.TaxAmount().Equal(dec("15")), "200 × 7.5%% = 15, fue %s", s.TaxAmount())
	assert.True(t, s.Total().Equal(dec("215")), "total = 215, fue %s", s.Total())
}

func TestClearTax_ReiniciaImpuesto(t *testing.T) {
	s := buildTwoItemSession(t)
	s.SetTax("VAT", "7.5")

	s.ClearTax()

	assert.False(t, s.TaxEnabled())
	assert.True(t, s.TaxAmount().IsZero(), "sin impuesto configurado, taxAmount = 0")
	assert.True(t, s.Total().Equal(dec("250")))
}

func TestSetTax_PorcentajeParcialTolerado(t *testing.T) {
	s := buildTwoItemSession(t)

	// "7." todavía se está escribiendo: vale 7 para el cálculo, sin fallar.
	s.SetTax("VAT", "7.")
	assert.True(t, s.TaxAmount().Equal(dec("17.5")), "250 × 7%% = 17.5, fue %s", s.TaxAmount())

	s.SetTax("VAT", ".")
	assert.True(t, s.TaxAmount().IsZero(), "\".\" vale 0 hasta completarse")
}

// ──────────────────────────────────────────────────────────────────────────────
// Validación de envío
// ──────────────────────────────────────────────────────────────────────────────

func TestValidate_CamposObligatoriosYFirma(t *testing.T) {
	s := invoicing.NewSession()

	err := s.Validate()
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "title")
	assert.Contains(t, err.Error(), "bill_to")
	assert.Contains(t, err.Error(), "signatureURL")

	s.Title = "Servicios enero"
	s.BillTo = "Cost center 2900PLE41D USD"
	s.InvoiceDate = time.Now()
	s.AttachSignature("https://storage.example.com/images/signatures/abc.png")

	assert.NoError(t, s.Validate())
}

// ──────────────────────────────────────────────────────────────────────────────
// Hidratación y snapshot
// ──────────────────────────────────────────────────────────────────────────────

func TestSessionFromInvoice_RoundTripDeSnapshot(t *testing.T) {
	orig := buildTwoItemSession(t)
	orig.Title = "Servicios enero"
	orig.BillTo = "Cost center"
	orig.SetTax("VAT", "7.5")
	orig.AttachSignature("https://storage.example.com/s.png")

	snap := orig.Snapshot()
	require.Len(t, snap.LineItems, 2)
	assert.True(t, snap.Subtotal.Equal(dec("250")))
	assert.True(t, snap.Tax.Amount.Equal(dec("18.75")))
	assert.True(t, snap.Total.Equal(dec("268.75")))

	// Hidratar desde el snapshot reproduce los mismos totales.
	s2 := invoicing.SessionFromInvoice(snap)
	assert.True(t, s2.Subtotal().Equal(orig.Subtotal()))
	assert.True(t, s2.TaxAmount().Equal(orig.TaxAmount()))
	assert.True(t, s2.Total().Equal(orig.Total()))
	assert.Equal(t, orig.SignatureURL(), s2.SignatureURL())
}
