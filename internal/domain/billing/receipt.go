package billing

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultReceiptNumber primer comprobante cuando aún no existe ninguno.
const DefaultReceiptNumber = "B001-00001"

const receiptSequenceWidth = 5

// NextReceiptNumber deriva el siguiente número a partir del último emitido (<serie>-<correlativo>).
// La serie se conserva; el correlativo se incrementa y se rellena con ceros a 5 dígitos.
func NextReceiptNumber(last string) (string, error) {
	last = strings.TrimSpace(last)
	if last == "" {
		return DefaultReceiptNumber, nil
	}
	prefix, seq, ok := strings.Cut(last, "-")
	if !ok || prefix == "" {
		return "", fmt.Errorf("número de comprobante con formato inválido: %q", last)
	}
	n, err := strconv.ParseInt(seq, 10, 64)
	if err != nil || n < 0 {
		return "", fmt.Errorf("correlativo inválido en %q", last)
	}
	return fmt.Sprintf("%s-%0*d", prefix, receiptSequenceWidth, n+1), nil
}
