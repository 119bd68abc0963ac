package billing

import (
	"github.com/jhoicas/Facturas-api/internal/domain"
	"github.com/shopspring/decimal"
)

// Precisión monetaria: 2 decimales, redondeo banker (half-to-even).
// Si algún día se soporta multi-moneda, esto pasa a ser configurable por moneda.
const MoneyPrecision = 2

// Line entrada del cálculo de totales: cantidad y precio unitario de una línea.
type Line struct {
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
}

// Totals resultado del cálculo: campos derivados de la factura.
// LineTotals conserva el total redondeado de cada línea en el mismo orden de entrada.
type Totals struct {
	Subtotal   decimal.Decimal
	TaxAmount  decimal.Decimal
	Total      decimal.Decimal
	LineTotals []decimal.Decimal
}

// NormalizeTaxRate acepta tasas como fracción (0.19) o porcentaje (19) y
// devuelve siempre la fracción.
func NormalizeTaxRate(rate decimal.Decimal) decimal.Decimal {
	if rate.GreaterThan(decimal.NewFromInt(1)) {
		return rate.Div(decimal.NewFromInt(100))
	}
	return rate
}

// ComputeTotals calcula subtotal, impuesto y total para una secuencia de líneas.
// Función pura: cada línea se redondea a MoneyPrecision, el subtotal es la suma
// exacta de las líneas redondeadas y el impuesto se redondea una sola vez sobre
// el subtotal (no por línea). Secuencia vacía produce ceros.
// Cantidad o precio negativos retornan domain.ErrInvalidInput.
func ComputeTotals(lines []Line, taxRate decimal.Decimal) (Totals, error) {
	if taxRate.IsNegative() {
		return Totals{}, domain.ErrInvalidInput
	}
	rate := NormalizeTaxRate(taxRate)

	lineTotals := make([]decimal.Decimal, len(lines))
	subtotal := decimal.Zero
	for i, l := range lines {
		if l.Quantity.IsNegative() || l.UnitPrice.IsNegative() {
			return Totals{}, domain.ErrInvalidInput
		}
		lineTotals[i] = l.Quantity.Mul(l.UnitPrice).RoundBank(MoneyPrecision)
		subtotal = subtotal.Add(lineTotals[i])
	}

	taxAmount := subtotal.Mul(rate).RoundBank(MoneyPrecision)
	return Totals{
		Subtotal:   subtotal,
		TaxAmount:  taxAmount,
		Total:      subtotal.Add(taxAmount),
		LineTotals: lineTotals,
	}, nil
}
