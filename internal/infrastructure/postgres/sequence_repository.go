package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/garansi-api/internal/domain/entity"
	"github.com/jhoicas/garansi-api/internal/domain/repository"
)

var _ repository.SequenceRepository = (*SequenceRepo)(nil)

// SequenceRepo contador store_product_sequences. Debe construirse con una tx.
type SequenceRepo struct {
	q Querier
}

// NewSequenceRepository construye el adaptador del contador.
func NewSequenceRepository(q Querier) *SequenceRepo {
	return &SequenceRepo{q: q}
}

// GetOrCreateForUpdate crea la fila si falta (ON CONFLICT DO NOTHING) y la bloquea.
func (r *SequenceRepo) GetOrCreateForUpdate(ctx context.Context, storeID string) (*entity.StoreProductSequence, error) {
	insert := `
		INSERT INTO store_product_sequences (id, store_id, next_number, created_at, updated_at)
		VALUES ($1, $2, 1, now(), now())
		ON CONFLICT (store_id) DO NOTHING`
	if _, err := r.q.Exec(ctx, insert, uuid.New().String(), storeID); err != nil {
		return nil, classify("create sequence", err)
	}

	query := `
		SELECT id, store_id, next_number, created_at, updated_at
		FROM store_product_sequences WHERE store_id = $1 FOR UPDATE`
	var s entity.StoreProductSequence
	err := r.q.QueryRow(ctx, query, storeID).Scan(&s.ID, &s.StoreID, &s.NextNumber, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, classify("lock sequence", err)
	}
	return &s, nil
}

// Increment suma amount a next_number y devuelve el valor resultante.
func (r *SequenceRepo) Increment(ctx context.Context, storeID string, amount int64) (int64, error) {
	query := `
		UPDATE store_product_sequences
		SET next_number = next_number + $2, updated_at = now()
		WHERE store_id = $1
		RETURNING next_number`
	var next int64
	if err := r.q.QueryRow(ctx, query, storeID, amount).Scan(&next); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("contador inexistente para la toko %s", storeID)
		}
		return 0, classify("increment sequence", err)
	}
	return next, nil
}
