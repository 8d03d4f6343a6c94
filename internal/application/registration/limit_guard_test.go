package registration

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/garansi-api/internal/domain"
)

func fixedCount(n int64) CountFunc {
	return func(context.Context) (int64, error) { return n, nil }
}

func TestLimitGuard_Check_Boundaries(t *testing.T) {
	g := NewLimitGuard(DefaultLimits)
	ctx := context.Background()

	cases := []struct {
		name      string
		scope     domain.LimitScope
		total     int64
		canCreate bool
	}{
		{"productos bajo el tope", domain.ScopeProducts, 9_999_999, true},
		{"productos en el tope", domain.ScopeProducts, 10_000_000, false},
		{"tokos bajo el tope", domain.ScopeStores, 299, true},
		{"tokos en el tope", domain.ScopeStores, 300, false},
		{"sales bajo el tope", domain.ScopeSales, 19, true},
		{"sales en el tope", domain.ScopeSales, 20, false},
		{"sales sobre el tope", domain.ScopeSales, 25, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			st, err := g.Check(ctx, tc.scope, fixedCount(tc.total))
			require.NoError(t, err)
			assert.Equal(t, tc.scope, st.Scope)
			assert.Equal(t, tc.total, st.Total)
			assert.Equal(t, g.Limit(tc.scope), st.Limit)
			assert.Equal(t, tc.canCreate, st.CanCreate)
		})
	}
}

func TestLimitGuard_Ensure_DevuelveCodigoDelScope(t *testing.T) {
	g := NewLimitGuard(Limits{MaxProducts: 5, MaxStores: 2, MaxSalesPerStore: 1})
	ctx := context.Background()

	err := g.Ensure(ctx, domain.ScopeStores, fixedCount(2))
	var le *domain.LimitError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, domain.CodeStoreLimitReached, le.Code)
	assert.Equal(t, int64(2), le.Total)
	assert.Equal(t, int64(2), le.Limit)
	assert.ErrorIs(t, err, domain.ErrStoreLimitReached)

	assert.ErrorIs(t, g.Ensure(ctx, domain.ScopeSales, fixedCount(1)), domain.ErrSalesLimitReached)
	assert.ErrorIs(t, g.Ensure(ctx, domain.ScopeProducts, fixedCount(7)), domain.ErrProductLimitReached)
	assert.NoError(t, g.Ensure(ctx, domain.ScopeProducts, fixedCount(4)))
}

func TestLimitGuard_Ensure_IdempotenteEnRechazo(t *testing.T) {
	g := NewLimitGuard(DefaultLimits)
	calls := 0
	count := func(context.Context) (int64, error) {
		calls++
		return 300, nil
	}
	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, g.Ensure(context.Background(), domain.ScopeStores, count), domain.ErrStoreLimitReached)
	}
	assert.Equal(t, 3, calls)
}

func TestLimitGuard_Check_PropagaErrorDeConteo(t *testing.T) {
	boom := errors.New("conexión cerrada")
	g := NewLimitGuard(DefaultLimits)
	_, err := g.Check(context.Background(), domain.ScopeProducts, func(context.Context) (int64, error) {
		return 0, boom
	})
	assert.ErrorIs(t, err, boom)

	var le *domain.LimitError
	assert.False(t, errors.As(err, &le))
}
