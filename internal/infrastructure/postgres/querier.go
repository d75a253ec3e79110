package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/morvic-api/internal/domain/repository"
)

// Querier subconjunto común de *pgxpool.Pool y pgx.Tx; los repositorios funcionan con ambos.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// NewRepos construye todos los repositorios sobre q (pool o tx).
func NewRepos(q Querier) repository.TxRepos {
	return repository.TxRepos{
		Products: NewProductRepository(q),
		Orders:   NewOrderRepository(q),
		Sales:    NewSaleRepository(q),
		Kardex:   NewKardexRepository(q),
		Users:    NewUserRepository(q),
	}
}
