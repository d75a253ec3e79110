package repository

import (
	"context"

	"github.com/jhoicas/morvic-api/internal/domain/entity"
)

// UserRepository puerto de solo lectura para usuarios (auth y destinatario de correos).
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
}
