package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/garansi-api/internal/domain/entity"
	"github.com/jhoicas/garansi-api/internal/domain/repository"
)

var _ repository.StoreRepository = (*StoreRepo)(nil)

const storeColumns = `id, name, kode_toko, address, phone, is_active, created_at, updated_at`

// StoreRepo implementación de StoreRepository sobre PostgreSQL (usable con pool o tx).
type StoreRepo struct {
	q Querier
}

// NewStoreRepository construye el adaptador de tokos. Pasar pool o tx (Querier).
func NewStoreRepository(q Querier) *StoreRepo {
	return &StoreRepo{q: q}
}

// Create persiste una toko nueva. kode_toko duplicado → domain.ErrDuplicate.
func (r *StoreRepo) Create(ctx context.Context, s *entity.Store) error {
	query := `
		INSERT INTO stores (` + storeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.Name, s.Code, s.Address, s.Phone, s.IsActive, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return classify("insert store", err)
	}
	return nil
}

// GetByID obtiene una toko por ID.
func (r *StoreRepo) GetByID(ctx context.Context, id string) (*entity.Store, error) {
	return r.get(ctx, `SELECT `+storeColumns+` FROM stores WHERE id = $1`, id)
}

// GetForUpdate obtiene la toko y bloquea la fila para update (SELECT FOR UPDATE).
func (r *StoreRepo) GetForUpdate(ctx context.Context, id string) (*entity.Store, error) {
	return r.get(ctx, `SELECT `+storeColumns+` FROM stores WHERE id = $1 FOR UPDATE`, id)
}

func (r *StoreRepo) get(ctx context.Context, query, id string) (*entity.Store, error) {
	s, err := scanStore(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, classify("get store", err)
	}
	return s, nil
}

// List lista tokos ordenadas por kode_toko.
func (r *StoreRepo) List(ctx context.Context, limit, offset int) ([]*entity.Store, error) {
	query := `SELECT ` + storeColumns + ` FROM stores ORDER BY kode_toko LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, classify("list stores", err)
	}
	defer rows.Close()

	var list []*entity.Store
	for rows.Next() {
		s, err := scanStore(rows)
		if err != nil {
			return nil, fmt.Errorf("scan store: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// Count cuenta todas las tokos, activas o no.
func (r *StoreRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM stores`).Scan(&n); err != nil {
		return 0, classify("count stores", err)
	}
	return n, nil
}

func scanStore(row pgx.Row) (*entity.Store, error) {
	var s entity.Store
	err := row.Scan(&s.ID, &s.Name, &s.Code, &s.Address, &s.Phone, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
