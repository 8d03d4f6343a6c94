package registration

import (
	"context"
	"fmt"

	"github.com/jhoicas/garansi-api/internal/domain"
)

// Limits topes de capacidad. Son topes de negocio, no restricciones de recursos.
type Limits struct {
	MaxProducts      int64
	MaxStores        int64
	MaxSalesPerStore int64
}

// DefaultLimits valores de la instalación de referencia.
var DefaultLimits = Limits{
	MaxProducts:      10_000_000,
	MaxStores:        300,
	MaxSalesPerStore: 20,
}

// CountFunc cuenta las entidades existentes de un scope (global o ya acotado a una toko).
type CountFunc func(ctx context.Context) (int64, error)

// LimitStatus resultado de checkCount.
type LimitStatus struct {
	Scope     domain.LimitScope
	Total     int64
	Limit     int64
	CanCreate bool
}

// LimitGuard política sin estado sobre los tres contadores.
//
// Es check-then-act: entre Ensure y el INSERT no hay bloqueo adicional al de la tx que lo
// envuelve. Un ligero exceso bajo concurrencia extrema es aceptable; bloquear las tablas
// serializaría creaciones de tokos no relacionadas.
type LimitGuard struct {
	limits Limits
}

// NewLimitGuard construye el guard con los topes dados.
func NewLimitGuard(limits Limits) *LimitGuard {
	return &LimitGuard{limits: limits}
}

// Limit devuelve el tope configurado para el scope.
func (g *LimitGuard) Limit(scope domain.LimitScope) int64 {
	switch scope {
	case domain.ScopeProducts:
		return g.limits.MaxProducts
	case domain.ScopeStores:
		return g.limits.MaxStores
	case domain.ScopeSales:
		return g.limits.MaxSalesPerStore
	}
	return 0
}

// Check cuenta y compara contra el tope. No escribe nada.
func (g *LimitGuard) Check(ctx context.Context, scope domain.LimitScope, count CountFunc) (*LimitStatus, error) {
	total, err := count(ctx)
	if err != nil {
		return nil, fmt.Errorf("contar %s: %w", scope, err)
	}
	limit := g.Limit(scope)
	return &LimitStatus{
		Scope:     scope,
		Total:     total,
		Limit:     limit,
		CanCreate: total < limit,
	}, nil
}

// Ensure falla con *domain.LimitError si total >= limit.
func (g *LimitGuard) Ensure(ctx context.Context, scope domain.LimitScope, count CountFunc) error {
	st, err := g.Check(ctx, scope, count)
	if err != nil {
		return err
	}
	if !st.CanCreate {
		return domain.NewLimitError(scope, st.Total, st.Limit)
	}
	return nil
}
