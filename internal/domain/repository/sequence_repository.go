package repository

import (
	"context"

	"github.com/jhoicas/garansi-api/internal/domain/entity"
)

// SequenceRepository contador de nomor_kepesertaan por toko. Solo se usa dentro de una tx.
type SequenceRepository interface {
	// GetOrCreateForUpdate crea la fila con next_number = 1 si no existe y la bloquea.
	GetOrCreateForUpdate(ctx context.Context, storeID string) (*entity.StoreProductSequence, error)

	// Increment suma amount a next_number de inmediato (no al commit) y devuelve el nuevo valor.
	Increment(ctx context.Context, storeID string, amount int64) (int64, error)
}
