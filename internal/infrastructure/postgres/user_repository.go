package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/garansi-api/internal/domain/entity"
	"github.com/jhoicas/garansi-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

const userColumns = `id, store_id, supervisor_id, email, password_hash, name, phone, role, is_active, created_at, updated_at`

// UserRepo implementación del puerto UserRepository sobre PostgreSQL (usable con pool o tx).
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

// Create persiste un nuevo usuario. Email duplicado → domain.ErrEmailAlreadyExists.
func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		u.ID, u.StoreID, u.SupervisorID, u.Email, u.PasswordHash, u.Name, u.Phone, u.Role, u.IsActive,
		u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		return classify("insert user", err)
	}
	return nil
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.get(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// GetByEmail obtiene un usuario por email (ya normalizado en minúsculas).
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.get(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *UserRepo) get(ctx context.Context, query, arg string) (*entity.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, classify("get user", err)
	}
	return u, nil
}

// ListByStoreAndRole lista cuentas de un rol en una toko.
func (r *UserRepo) ListByStoreAndRole(ctx context.Context, storeID, role string, limit, offset int) ([]*entity.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users WHERE store_id = $1 AND role = $2
		ORDER BY created_at
		LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, storeID, role, limit, offset)
	if err != nil {
		return nil, classify("list users", err)
	}
	defer rows.Close()

	var list []*entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

// CountByStoreAndRole cuenta cuentas de un rol en una toko, activas o no (índice users_store_role_idx).
func (r *UserRepo) CountByStoreAndRole(ctx context.Context, storeID, role string) (int64, error) {
	var n int64
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE store_id = $1 AND role = $2`, storeID, role).Scan(&n)
	if err != nil {
		return 0, classify("count users", err)
	}
	return n, nil
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var (
		u     entity.User
		phone *string
	)
	err := row.Scan(
		&u.ID, &u.StoreID, &u.SupervisorID, &u.Email, &u.PasswordHash, &u.Name, &phone, &u.Role, &u.IsActive,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if phone != nil {
		u.Phone = *phone
	}
	return &u, nil
}
