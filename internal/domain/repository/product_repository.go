package repository

import (
	"context"
	"time"

	"github.com/jhoicas/garansi-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para productos con garantía.
type ProductRepository interface {
	// Create devuelve domain.ErrParticipantNumberTaken si el nomor_kepesertaan ya existe.
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetByParticipantNumber(ctx context.Context, number string) (*entity.Product, error)
	ListByStore(ctx context.Context, storeID string, limit, offset int) ([]*entity.Product, error)

	// Count cuenta todos los productos (incluye inactivos y borrados lógicamente).
	Count(ctx context.Context) (int64, error)

	Deactivate(ctx context.Context, id, actorID string, at time.Time) error
}
