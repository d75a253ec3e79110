package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/jhoicas/morvic-api/internal/application/ports"
	"github.com/jhoicas/morvic-api/internal/domain"
	dombilling "github.com/jhoicas/morvic-api/internal/domain/billing"
	"github.com/jhoicas/morvic-api/internal/domain/repository"
)

// ReceiptNumbering asigna el siguiente número de comprobante dentro de la transacción del llamador.
type ReceiptNumbering struct{}

// Next toma el bloqueo de la secuencia, lee el último número emitido y calcula el siguiente.
// El bloqueo dura hasta el fin de la transacción, de modo que la lectura y el insert posterior
// no se intercalan con otra venta concurrente.
func (ReceiptNumbering) Next(ctx context.Context, sales repository.SaleRepository) (string, error) {
	if err := sales.LockReceiptSequence(ctx); err != nil {
		return "", fmt.Errorf("bloquear numeración: %w", err)
	}
	last, err := sales.LastReceiptNumber(ctx)
	if err != nil {
		return "", fmt.Errorf("leer último comprobante: %w", err)
	}
	next, err := dombilling.NextReceiptNumber(last)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return next, nil
}

// RunWithReceiptRetry ejecuta fn en una transacción y, si falla por número de comprobante
// duplicado, la repite completa una sola vez con un número nuevo.
func RunWithReceiptRetry(ctx context.Context, tx ports.TxRunner, fn func(repos repository.TxRepos) error) error {
	err := tx.Run(ctx, fn)
	if errors.Is(err, domain.ErrDuplicateReceipt) {
		err = tx.Run(ctx, fn)
	}
	return err
}
