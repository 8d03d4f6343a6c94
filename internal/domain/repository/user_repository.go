package repository

import (
	"context"

	"github.com/jhoicas/garansi-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para cuentas (admin, toko, supervisor, sales, service center).
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	ListByStoreAndRole(ctx context.Context, storeID, role string, limit, offset int) ([]*entity.User, error)

	// CountByStoreAndRole cuenta activos e inactivos; el tope de sales es por toko, no por supervisor.
	CountByStoreAndRole(ctx context.Context, storeID, role string) (int64, error)
}
