package billing_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/morvic-api/internal/application/billing"
	"github.com/jhoicas/morvic-api/internal/domain"
	"github.com/jhoicas/morvic-api/internal/domain/entity"
	"github.com/jhoicas/morvic-api/internal/domain/repository"
	"github.com/jhoicas/morvic-api/internal/testutil/memdb"
)

func TestReceiptNumbering_Next(t *testing.T) {
	db := memdb.New()
	var n billing.ReceiptNumbering

	first, err := n.Next(context.Background(), db.Repos().Sales)
	require.NoError(t, err)
	assert.Equal(t, "B001-00001", first)

	db.PutSale(entity.Sale{ReceiptNumber: "B001-00041"})
	next, err := n.Next(context.Background(), db.Repos().Sales)
	require.NoError(t, err)
	assert.Equal(t, "B001-00042", next)
}

func TestReceiptNumbering_UltimoNumeroCorrupto(t *testing.T) {
	db := memdb.New()
	db.PutSale(entity.Sale{ReceiptNumber: "SIN-GUION-X"})
	var n billing.ReceiptNumbering

	_, err := n.Next(context.Background(), db.Repos().Sales)

	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestRunWithReceiptRetry_SoloReintentaDuplicados(t *testing.T) {
	db := memdb.New()
	calls := 0
	err := billing.RunWithReceiptRetry(context.Background(), db, func(repository.TxRepos) error {
		calls++
		return domain.ErrInsufficientStock
	})
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))
	assert.Equal(t, 1, calls)

	calls = 0
	err = billing.RunWithReceiptRetry(context.Background(), db, func(repository.TxRepos) error {
		calls++
		if calls == 1 {
			return domain.ErrDuplicateReceipt
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 1, db.Commits)
	assert.Equal(t, 2, db.Rollbacks)
}
