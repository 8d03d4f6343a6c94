package repository

import (
	"context"

	"github.com/jhoicas/garansi-api/internal/domain/entity"
)

// StoreRepository define el puerto de persistencia para tokos.
type StoreRepository interface {
	Create(ctx context.Context, store *entity.Store) error
	GetByID(ctx context.Context, id string) (*entity.Store, error)

	// GetForUpdate bloquea la fila de la toko (SELECT FOR UPDATE) dentro de la tx activa.
	// Serializa reservas de numeración para la misma toko. Devuelve nil si no existe.
	GetForUpdate(ctx context.Context, id string) (*entity.Store, error)

	List(ctx context.Context, limit, offset int) ([]*entity.Store, error)
	Count(ctx context.Context) (int64, error)
}
