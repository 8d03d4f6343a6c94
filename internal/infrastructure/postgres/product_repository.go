package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/garansi-api/internal/domain"
	"github.com/jhoicas/garansi-api/internal/domain/entity"
	"github.com/jhoicas/garansi-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, nomor_kepesertaan, store_id, created_by, customer_name, customer_phone, customer_email,
	product_name, brand, serial_number, price, purchase_date, warranty_months, warranty_expires_at,
	is_active, deactivated_at, deactivated_by, created_at, updated_at`

// ProductRepo implementación de ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create inserta el producto. Si el nomor_kepesertaan ya existe no inserta nada y devuelve
// domain.ErrParticipantNumberTaken sin abortar la tx (ON CONFLICT DO NOTHING), de modo que el
// incremento del contador puede confirmarse igualmente.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		ON CONFLICT (nomor_kepesertaan) DO NOTHING`
	tag, err := r.q.Exec(ctx, query,
		p.ID, p.ParticipantNumber, p.StoreID, p.CreatedBy, p.CustomerName, p.CustomerPhone, nullable(p.CustomerEmail),
		p.ProductName, p.Brand, p.SerialNumber, p.Price, p.PurchaseDate, p.WarrantyMonths, p.WarrantyExpiresAt,
		p.IsActive, p.DeactivatedAt, p.DeactivatedBy, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return classify("insert product", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("insert product %s: %w", p.ParticipantNumber, domain.ErrParticipantNumberTaken)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return r.get(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1 AND deleted_at IS NULL`, id)
}

// GetByParticipantNumber obtiene un producto por nomor_kepesertaan.
func (r *ProductRepo) GetByParticipantNumber(ctx context.Context, number string) (*entity.Product, error) {
	return r.get(ctx, `SELECT `+productColumns+` FROM products WHERE nomor_kepesertaan = $1 AND deleted_at IS NULL`, number)
}

func (r *ProductRepo) get(ctx context.Context, query, arg string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, classify("get product", err)
	}
	return p, nil
}

// ListByStore lista los productos de una toko, los más recientes primero.
func (r *ProductRepo) ListByStore(ctx context.Context, storeID string, limit, offset int) ([]*entity.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products WHERE store_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, storeID, limit, offset)
	if err != nil {
		return nil, classify("list products", err)
	}
	defer rows.Close()

	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Count cuenta todas las filas de products, incluidas las inactivas y las borradas lógicamente.
func (r *ProductRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&n); err != nil {
		return 0, classify("count products", err)
	}
	return n, nil
}

// Deactivate marca la garantía como inactiva. domain.ErrConflict si no había fila activa.
func (r *ProductRepo) Deactivate(ctx context.Context, id, actorID string, at time.Time) error {
	query := `
		UPDATE products
		SET is_active = false, deactivated_at = $3, deactivated_by = $2, updated_at = $3
		WHERE id = $1 AND is_active AND deleted_at IS NULL`
	tag, err := r.q.Exec(ctx, query, id, actorID, at)
	if err != nil {
		return classify("deactivate product", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	return nil
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var (
		p     entity.Product
		email *string
	)
	err := row.Scan(
		&p.ID, &p.ParticipantNumber, &p.StoreID, &p.CreatedBy, &p.CustomerName, &p.CustomerPhone, &email,
		&p.ProductName, &p.Brand, &p.SerialNumber, &p.Price, &p.PurchaseDate, &p.WarrantyMonths, &p.WarrantyExpiresAt,
		&p.IsActive, &p.DeactivatedAt, &p.DeactivatedBy, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if email != nil {
		p.CustomerEmail = *email
	}
	return &p, nil
}

// nullable convierte "" en NULL.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
