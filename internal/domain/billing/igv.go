// Package billing contiene las reglas puras de facturación: cálculo de IGV y
// numeración de comprobantes. Sin dependencias de infraestructura.
package billing

import "github.com/shopspring/decimal"

// IGVRate tasa del impuesto general a las ventas (18%).
var IGVRate = decimal.NewFromFloat(0.18)

// Round2 redondea a 2 decimales, mitad hacia arriba para importes positivos.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// LineTotals importes calculados para una línea de venta.
type LineTotals struct {
	Amount        decimal.Decimal
	IGV           decimal.Decimal
	AmountWithIGV decimal.Decimal
}

// ComputeLine calcula IGV y total de una línea a partir de su importe.
func ComputeLine(amount decimal.Decimal) LineTotals {
	amount = Round2(amount)
	igv := Round2(amount.Mul(IGVRate))
	return LineTotals{
		Amount:        amount,
		IGV:           igv,
		AmountWithIGV: Round2(amount.Add(igv)),
	}
}

// SaleTotals totales de cabecera de una venta.
type SaleTotals struct {
	Subtotal decimal.Decimal
	IGV      decimal.Decimal
	Total    decimal.Decimal
}

// ComputeSale suma los importes ya redondeados por línea y aplica el IGV sobre el subtotal.
// El orden importa: primero cada línea, luego los totales.
func ComputeSale(lines []LineTotals) SaleTotals {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.Amount)
	}
	subtotal = Round2(subtotal)
	igv := Round2(subtotal.Mul(IGVRate))
	return SaleTotals{
		Subtotal: subtotal,
		IGV:      igv,
		Total:    Round2(subtotal.Add(igv)),
	}
}

// SplitGrossTotal descompone un total con IGV incluido en subtotal e IGV
// (subtotal = total/1.18, igv = total - subtotal).
func SplitGrossTotal(total decimal.Decimal) (subtotal, igv decimal.Decimal) {
	subtotal = Round2(total.Div(decimal.NewFromInt(1).Add(IGVRate)))
	igv = Round2(total.Sub(subtotal))
	return subtotal, igv
}

// UnitPrice precio unitario derivado de un importe y una cantidad.
func UnitPrice(amount decimal.Decimal, quantity int) decimal.Decimal {
	if quantity <= 0 {
		return decimal.Zero
	}
	return amount.DivRound(decimal.NewFromInt(int64(quantity)), 2)
}
