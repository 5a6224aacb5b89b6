// Package invoice contiene el motor de cálculo de la factura: funciones
// puras que derivan subtotal, impuesto y total a partir de las líneas de
// detalle y la configuración de impuesto. El motor nunca retorna error:
// texto numérico incompleto o inválido se normaliza a cero, de modo que
// validación y cálculo quedan desacoplados (el usuario puede escribir
// "12." sin perder la pulsación).
package invoice

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/facturacion-api/internal/domain/entity"
)

// partialNumber acepta números parciales mientras se edita: "", ".", "12.",
// ".5", "12.50". Cualquier otra cosa se trata como 0.
var partialNumber = regexp.MustCompile(`^[0-9]*\.?[0-9]*$`)

// ParseFlexible convierte texto numérico crudo en un decimal definido.
// Texto vacío, incompleto ("", ".", "12.") o inválido produce 0; nunca error.
func ParseFlexible(raw string) decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "." || !partialNumber.MatchString(raw) {
		return decimal.Zero
	}
	// Completar el número parcial antes de parsear ("12." -> "12.0").
	if strings.HasSuffix(raw, ".") {
		raw += "0"
	}
	if strings.HasPrefix(raw, ".") {
		raw = "0" + raw
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// IsPartialNumber indica si el texto es un número válido o parcialmente
// escrito. La sesión de edición lo usa para aceptar o descartar el texto,
// no para calcular.
func IsPartialNumber(raw string) bool {
	return partialNumber.MatchString(strings.TrimSpace(raw))
}

// Subtotal suma amount × quantity sobre todas las líneas. Lista vacía = 0.
func Subtotal(items []entity.LineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, li := range items {
		sum = sum.Add(li.LineTotal())
	}
	return sum
}

// TaxAmount devuelve subtotal × percent/100 si el impuesto está habilitado, si no 0.
func TaxAmount(subtotal decimal.Decimal, tax entity.TaxSpec) decimal.Decimal {
	if !tax.Enabled {
		return decimal.Zero
	}
	return subtotal.Mul(tax.Percent).Div(decimal.NewFromInt(100))
}

// Total devuelve subtotal + taxAmount si el impuesto está habilitado, si no subtotal.
func Total(subtotal, taxAmount decimal.Decimal, taxEnabled bool) decimal.Decimal {
	if !taxEnabled {
		return subtotal
	}
	return subtotal.Add(taxAmount)
}
