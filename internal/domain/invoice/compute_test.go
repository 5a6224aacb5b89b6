package invoice_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/facturacion-api/internal/domain/entity"
	"github.com/jhoicas/facturacion-api/internal/domain/invoice"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

func item(amount, quantity string) entity.LineItem {
	return entity.LineItem{
		Amount:   decimal.RequireFromString(amount),
		Quantity: decimal.RequireFromString(quantity),
	}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ──────────────────────────────────────────────────────────────────────────────
// Subtotal
// ──────────────────────────────────────────────────────────────────────────────

func TestSubtotal_ListaVacia(t *testing.T) {
	assert.True(t, invoice.Subtotal(nil).IsZero(),
		"el subtotal de una lista vacía debe ser 0")
}

func TestSubtotal_SumaAmountPorQuantity(t *testing.T) {
	items := []entity.LineItem{
		item("100", "2"), // 200
		item("50", "1"),  // 50
	}
	assert.True(t, invoice.Subtotal(items).Equal(dec("250")),
		"subtotal = Σ amount×quantity = 250, fue %s", invoice.Subtotal(items))
}

func TestSubtotal_CantidadesDecimales(t *testing.T) {
	items := []entity.LineItem{item("19.99", "2.5")}
	assert.True(t, invoice.Subtotal(items).Equal(dec("49.975")))
}

// ──────────────────────────────────────────────────────────────────────────────
// TaxAmount / Total
// ──────────────────────────────────────────────────────────────────────────────

func TestTaxAmount_Deshabilitado(t *testing.T) {
	tax := entity.TaxSpec{Enabled: false, Percent: dec("7.5")}
	assert.True(t, invoice.TaxAmount(dec("250"), tax).IsZero(),
		"impuesto deshabilitado siempre debe dar 0")
}

func TestTaxAmount_PorcentajeSobreSubtotal(t *testing.T) {
	tax := entity.TaxSpec{Enabled: true, Percent: dec("7.5")}
	got := invoice.TaxAmount(dec("250"), tax)
	assert.True(t, got.Equal(dec("18.75")), "250 × 7.5%% = 18.75, fue %s", got)
}

func TestTotal_SinImpuestoEsSubtotal(t *testing.T) {
	assert.True(t, invoice.Total(dec("250"), decimal.Zero, false).Equal(dec("250")))
}

func TestTotal_ConImpuestoSumaAmbos(t *testing.T) {
	got := invoice.Total(dec("250"), dec("18.75"), true)
	assert.True(t, got.Equal(dec("268.75")), "250 + 18.75 = 268.75, fue %s", got)
}

// ──────────────────────────────────────────────────────────────────────────────
// ParseFlexible: tolerancia a números parciales durante la edición
// ──────────────────────────────────────────────────────────────────────────────

func TestParseFlexible_TextoParcialValeCero(t *testing.T) {
	for _, raw := range []string{"", ".", " "} {
		assert.True(t, invoice.ParseFlexible(raw).IsZero(),
			"el texto parcial %q debe valer 0 para el cálculo", raw)
	}
}

func TestParseFlexible_PuntoFinalSeCompleta(t *testing.T) {
	assert.True(t, invoice.ParseFlexible("12.").Equal(dec("12")),
		"\"12.\" debe tratarse como 12 sin rechazar la edición")
	assert.True(t, invoice.ParseFlexible(".5").Equal(dec("0.5")))
}

func TestParseFlexible_NumeroCompleto(t *testing.T) {
	assert.True(t, invoice.ParseFlexible("1234.567").Equal(dec("1234.567")))
}

func TestParseFlexible_TextoInvalidoValeCero(t *testing.T) {
	for _, raw := range []string{"abc", "12a", "1.2.3", "-5"} {
		assert.True(t, invoice.ParseFlexible(raw).IsZero(),
			"el texto inválido %q debe normalizarse a 0, no fallar", raw)
	}
}

func TestIsPartialNumber(t *testing.T) {
	assert.True(t, invoice.IsPartialNumber("12."))
	assert.True(t, invoice.IsPartialNumber(""))
	assert.True(t, invoice.IsPartialNumber("."))
	assert.False(t, invoice.IsPartialNumber("12a"))
	assert.False(t, invoice.IsPartialNumber("1.2.3"))
}
