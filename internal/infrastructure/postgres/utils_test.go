package postgres

import (
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/garansi-api/internal/domain"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want error
	}{
		{"lock timeout", &pgconn.PgError{Code: codeLockNotAvailable}, domain.ErrContention},
		{"serialización", &pgconn.PgError{Code: codeSerialization}, domain.ErrContention},
		{"deadlock", &pgconn.PgError{Code: codeDeadlock}, domain.ErrContention},
		{"nomor duplicado", &pgconn.PgError{Code: codeUniqueViolation, ConstraintName: constraintParticipantNumber}, domain.ErrParticipantNumberTaken},
		{"email duplicado", &pgconn.PgError{Code: codeUniqueViolation, ConstraintName: constraintUserEmail}, domain.ErrEmailAlreadyExists},
		{"kode_toko duplicado", &pgconn.PgError{Code: codeUniqueViolation, ConstraintName: constraintStoreCode}, domain.ErrDuplicate},
		{"toko inexistente", &pgconn.PgError{Code: codeForeignKeyViolation, ConstraintName: constraintProductStore}, domain.ErrStoreNotFound},
		{"otra fk", &pgconn.PgError{Code: codeForeignKeyViolation, ConstraintName: "users_supervisor_id_fkey"}, domain.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, classify("op", tc.err), tc.want)
		})
	}
}

func TestClassify_SoloContencionEsReintentable(t *testing.T) {
	assert.True(t, domain.IsRetryable(classify("op", &pgconn.PgError{Code: codeLockNotAvailable})))
	assert.False(t, domain.IsRetryable(classify("op", &pgconn.PgError{Code: "23514"})))

	plain := errors.New("conexión rechazada")
	err := classify("op", plain)
	assert.ErrorIs(t, err, plain)
	assert.False(t, domain.IsRetryable(err))
}

func TestLockTimeoutSetting(t *testing.T) {
	assert.Equal(t, "5000ms", lockTimeoutSetting(5*time.Second))
	assert.Equal(t, "250ms", lockTimeoutSetting(250*time.Millisecond))
	assert.Equal(t, "1ms", lockTimeoutSetting(time.Microsecond))
	assert.Equal(t, "0", lockTimeoutSetting(0))
}
