package registration

import (
	"context"

	"github.com/jhoicas/garansi-api/internal/domain"
	"github.com/jhoicas/garansi-api/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción con repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback; si no, Commit.
type TxRunner interface {
	RunRegistration(ctx context.Context, fn func(
		storeRepo repository.StoreRepository,
		seqRepo repository.SequenceRepository,
		productRepo repository.ProductRepository,
		userRepo repository.UserRepository,
	) error) error
}

// Metrics observa el flujo de registro. La implementación Prometheus vive en infrastructure/metrics.
type Metrics interface {
	LimitRejected(scope domain.LimitScope)
	NumberReserved()
	AttemptFailed(kind, reason string)
	CreationCompleted(kind, outcome string)
}

type nopMetrics struct{}

func (nopMetrics) LimitRejected(domain.LimitScope)  {}
func (nopMetrics) NumberReserved()                  {}
func (nopMetrics) AttemptFailed(string, string)     {}
func (nopMetrics) CreationCompleted(string, string) {}
