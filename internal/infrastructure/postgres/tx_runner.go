package postgres

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/garansi-api/internal/application/registration"
	"github.com/jhoicas/garansi-api/internal/domain/repository"
)

var _ registration.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool        *pgxpool.Pool
	lockTimeout time.Duration
}

// NewTxRunner construye el runner con el pool. lockTimeout acota la espera por bloqueos de fila
// dentro de cada tx (SET LOCAL lock_timeout); 0 la deja sin límite.
func NewTxRunner(pool *pgxpool.Pool, lockTimeout time.Duration) *TxRunner {
	return &TxRunner{pool: pool, lockTimeout: lockTimeout}
}

// RunRegistration inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) RunRegistration(ctx context.Context, fn func(
	storeRepo repository.StoreRepository,
	seqRepo repository.SequenceRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if r.lockTimeout > 0 {
		if _, err := tx.Exec(ctx, `SELECT set_config('lock_timeout', $1, true)`, lockTimeoutSetting(r.lockTimeout)); err != nil {
			return classify("set lock_timeout", err)
		}
	}

	storeRepo := NewStoreRepository(tx)
	seqRepo := NewSequenceRepository(tx)
	productRepo := NewProductRepository(tx)
	userRepo := NewUserRepository(tx)

	if err := fn(storeRepo, seqRepo, productRepo, userRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return classify("commit transaction", err)
	}
	return nil
}

// lockTimeoutSetting valor para lock_timeout en milisegundos; por debajo de 1ms se redondea a 1ms
// porque 0 desactivaría el límite.
func lockTimeoutSetting(d time.Duration) string {
	if d <= 0 {
		return "0"
	}
	ms := d.Milliseconds()
	if ms < 1 {
		ms = 1
	}
	return strconv.FormatInt(ms, 10) + "ms"
}
