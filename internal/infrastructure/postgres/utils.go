package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/garansi-api/internal/domain"
)

// Códigos SQLSTATE que se traducen a errores de dominio.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeLockNotAvailable    = "55P03"
	codeSerialization       = "40001"
	codeDeadlock            = "40P01"
)

// Nombres de constraint declarados en migrations/000001_init.up.sql.
const (
	constraintParticipantNumber = "products_nomor_kepesertaan_key"
	constraintUserEmail         = "users_email_key"
	constraintStoreCode         = "stores_kode_toko_key"
	constraintProductStore      = "products_store_id_fkey"
	constraintUserStore         = "users_store_id_fkey"
)

// classify traduce errores de Postgres a errores de dominio conservando el original en la cadena.
// Lock timeout, serialización y deadlock son contención (se reintentan en registration).
func classify(op string, err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return fmt.Errorf("%s: %w", op, err)
	}
	switch pgErr.Code {
	case codeLockNotAvailable, codeSerialization, codeDeadlock:
		return fmt.Errorf("%s: %w: %w", op, domain.ErrContention, err)
	case codeUniqueViolation:
		switch pgErr.ConstraintName {
		case constraintParticipantNumber:
			return fmt.Errorf("%s: %w", op, domain.ErrParticipantNumberTaken)
		case constraintUserEmail:
			return fmt.Errorf("%s: %w", op, domain.ErrEmailAlreadyExists)
		}
		return fmt.Errorf("%s: %w: %s", op, domain.ErrDuplicate, pgErr.ConstraintName)
	case codeForeignKeyViolation:
		switch pgErr.ConstraintName {
		case constraintProductStore, constraintUserStore:
			return fmt.Errorf("%s: %w", op, domain.ErrStoreNotFound)
		}
		return fmt.Errorf("%s: %w: %s", op, domain.ErrNotFound, pgErr.ConstraintName)
	}
	return fmt.Errorf("%s: %w", op, err)
}
