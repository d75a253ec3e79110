// Package money formatea importes en soles para documentos impresos y correos.
package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// CurrencySymbol símbolo del sol peruano.
const CurrencySymbol = "S/"

// Separadores de miles con coma y punto decimal, como se imprimen las boletas en Perú.
var printer = message.NewPrinter(language.English)

// Format devuelve el importe con dos decimales y separador de miles: "S/ 1,234.50".
func Format(d decimal.Decimal) string {
	return CurrencySymbol + " " + Plain(d)
}

// Plain igual que Format pero sin símbolo de moneda.
func Plain(d decimal.Decimal) string {
	return printer.Sprintf("%.2f", d.Round(2).InexactFloat64())
}
