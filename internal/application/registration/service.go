// Package registration orquesta las creaciones protegidas por capacidad (tokos, sales, productos)
// y la asignación del nomor_kepesertaan por toko.
package registration

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/garansi-api/internal/application/dto"
	"github.com/jhoicas/garansi-api/internal/domain"
	"github.com/jhoicas/garansi-api/internal/domain/entity"
	"github.com/jhoicas/garansi-api/internal/domain/repository"
)

// DefaultMaxAttempts intentos por creación de producto (el primero incluido).
const DefaultMaxAttempts = 3

// Config política del orquestador.
type Config struct {
	Limits        Limits
	MaxAttempts   int
	RetryInterval time.Duration
	PasswordCost  int // bcrypt; 0 = bcrypt.DefaultCost
}

// Deps dependencias del servicio. Los repositorios son los del pool (lecturas fuera de tx);
// las escrituras protegidas pasan por Tx.
type Deps struct {
	Tx       TxRunner
	Stores   repository.StoreRepository
	Products repository.ProductRepository
	Users    repository.UserRepository
	Logger   zerolog.Logger
	Metrics  Metrics
	Now      func() time.Time
	NewID    func() string
}

// Service CreationOrchestrator: LimitGuard + SequenceAllocator + INSERT en una sola tx.
type Service struct {
	tx        TxRunner
	stores    repository.StoreRepository
	products  repository.ProductRepository
	users     repository.UserRepository
	guard     *LimitGuard
	allocator *SequenceAllocator
	cfg       Config
	log       zerolog.Logger
	metrics   Metrics
	now       func() time.Time
	newID     func() string
}

// NewService construye el orquestador aplicando valores por defecto.
func NewService(deps Deps, cfg Config) *Service {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.Limits == (Limits{}) {
		cfg.Limits = DefaultLimits
	}
	if cfg.PasswordCost == 0 {
		cfg.PasswordCost = bcrypt.DefaultCost
	}
	s := &Service{
		tx:        deps.Tx,
		stores:    deps.Stores,
		products:  deps.Products,
		users:     deps.Users,
		guard:     NewLimitGuard(cfg.Limits),
		allocator: NewSequenceAllocator(),
		cfg:       cfg,
		log:       deps.Logger,
		metrics:   deps.Metrics,
		now:       deps.Now,
		newID:     deps.NewID,
	}
	if s.metrics == nil {
		s.metrics = nopMetrics{}
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = func() string { return uuid.New().String() }
	}
	return s
}

// CheckProductLimit estado del tope global de productos. Solo lectura, sin tx.
func (s *Service) CheckProductLimit(ctx context.Context) (*dto.LimitResponse, error) {
	return s.check(ctx, domain.ScopeProducts, s.products.Count)
}

// CheckStoreLimit estado del tope global de tokos. Solo lectura, sin tx.
func (s *Service) CheckStoreLimit(ctx context.Context) (*dto.LimitResponse, error) {
	return s.check(ctx, domain.ScopeStores, s.stores.Count)
}

// CheckSalesLimit estado del tope de sales de una toko. Solo lectura, sin tx.
func (s *Service) CheckSalesLimit(ctx context.Context, storeID string) (*dto.LimitResponse, error) {
	return s.check(ctx, domain.ScopeSales, salesCounter(s.users, storeID))
}

func (s *Service) check(ctx context.Context, scope domain.LimitScope, count CountFunc) (*dto.LimitResponse, error) {
	st, err := s.guard.Check(ctx, scope, count)
	if err != nil {
		return nil, err
	}
	return &dto.LimitResponse{Scope: string(st.Scope), Total: st.Total, Limit: st.Limit, CanCreate: st.CanCreate}, nil
}

// ensure envuelve LimitGuard.Ensure con log y métrica del rechazo.
func (s *Service) ensure(ctx context.Context, scope domain.LimitScope, count CountFunc) error {
	err := s.guard.Ensure(ctx, scope, count)
	var le *domain.LimitError
	if errors.As(err, &le) {
		s.metrics.LimitRejected(scope)
		s.log.Warn().
			Str("scope", string(scope)).
			Int64("total", le.Total).
			Int64("limit", le.Limit).
			Msg("creación rechazada por capacidad")
	}
	return err
}

// withRetry reintenta fn solo ante errores de contención (domain.IsRetryable), hasta MaxAttempts.
// Cualquier otro error corta el ciclo de inmediato. Al agotar los intentos devuelve un error que
// empareja con domain.ErrRetriesExhausted y con el último error observado; si el contexto se
// cancela entre intentos, empareja con ctx.Err() y con ese mismo último error.
func (s *Service) withRetry(ctx context.Context, kind string, fn func(attempt int) error) error {
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(s.cfg.RetryInterval), uint64(s.cfg.MaxAttempts-1)),
		ctx,
	)
	attempt := 0
	var lastErr error
	err := backoff.Retry(func() error {
		attempt++
		err := fn(attempt)
		if err == nil {
			return nil
		}
		if !domain.IsRetryable(err) {
			return backoff.Permanent(err)
		}
		lastErr = err
		s.metrics.AttemptFailed(kind, retryReason(err))
		s.log.Debug().
			Str("kind", kind).
			Int("attempt", attempt).
			Err(err).
			Msg("intento de registro en conflicto, reintentando")
		return err
	}, policy)
	// Cancelado entre intentos: backoff devuelve solo ctx.Err().
	if err != nil && lastErr != nil && ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		return fmt.Errorf("%w tras %d intentos: %w", err, attempt, lastErr)
	}
	if err != nil && domain.IsRetryable(err) {
		return fmt.Errorf("%w tras %d intentos: %w", domain.ErrRetriesExhausted, attempt, err)
	}
	return err
}

func retryReason(err error) string {
	if errors.Is(err, domain.ErrParticipantNumberTaken) {
		return "number_taken"
	}
	return "contention"
}

// outcome etiqueta el resultado de una creación para métricas.
func outcome(err error) string {
	var le *domain.LimitError
	switch {
	case err == nil:
		return "created"
	case errors.As(err, &le):
		return "limit_reached"
	case errors.Is(err, domain.ErrRetriesExhausted):
		return "retries_exhausted"
	case errors.Is(err, domain.ErrStoreNotFound),
		errors.Is(err, domain.ErrStoreMisconfigured),
		errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrForbidden),
		errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrDuplicate),
		errors.Is(err, domain.ErrEmailAlreadyExists):
		return "rejected"
	}
	return "error"
}

func salesCounter(users repository.UserRepository, storeID string) CountFunc {
	return func(ctx context.Context) (int64, error) {
		return users.CountByStoreAndRole(ctx, storeID, entity.RoleSales)
	}
}

func (s *Service) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.PasswordCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
