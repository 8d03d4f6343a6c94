package registration

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/garansi-api/internal/application/dto"
	"github.com/jhoicas/garansi-api/internal/domain"
	"github.com/jhoicas/garansi-api/internal/domain/entity"
)

func validProduct() dto.CreateProductRequest {
	return dto.CreateProductRequest{
		CustomerName:  "Budi Santoso",
		CustomerPhone: "081234567890",
		ProductName:   "Kulkas 2 Pintu",
		Brand:         "Sharp",
		SerialNumber:  "SN-0001",
		Price:         decimal.NewFromInt(4_500_000),
		PurchaseDate:  "2025-05-20",
	}
}

// storeWithSales toko TOKO001 con un sales activo.
func storeWithSales(db *memDB) {
	db.addStore("s1", "TOKO001")
	db.addUser("sales1", "s1", entity.RoleSales, true)
}

func TestCreateProduct_PrimerProductoDeLaToko(t *testing.T) {
	db := newMemDB()
	storeWithSales(db)
	svc := newTestService(db, DefaultLimits, nil)

	got, err := svc.CreateProduct(context.Background(), "sales1", "s1", validProduct())
	require.NoError(t, err)

	assert.Equal(t, "TOKO001-1", got.ParticipantNumber)
	assert.Equal(t, "s1", got.StoreID)
	assert.Equal(t, "sales1", got.CreatedBy)
	assert.Equal(t, entity.DefaultWarrantyMonths, got.WarrantyMonths)
	assert.Equal(t, time.Date(2026, 5, 20, 0, 0, 0, 0, time.UTC), got.WarrantyExpiresAt)
	assert.True(t, got.IsActive)

	next, _ := db.nextNumber("s1")
	assert.Equal(t, int64(2), next)
}

func TestCreateProduct_DosSalesConcurrentes(t *testing.T) {
	db := newMemDB()
	storeWithSales(db)
	db.addUser("sales2", "s1", entity.RoleSales, true)
	svc := newTestService(db, DefaultLimits, nil)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		numbers []string
		errs    []error
	)
	for _, creator := range []string{"sales1", "sales2"} {
		wg.Add(1)
		go func(creator string) {
			defer wg.Done()
			got, err := svc.CreateProduct(context.Background(), creator, "s1", validProduct())
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			numbers = append(numbers, got.ParticipantNumber)
		}(creator)
	}
	wg.Wait()

	require.Empty(t, errs)
	assert.ElementsMatch(t, []string{"TOKO001-1", "TOKO001-2"}, numbers)
	next, _ := db.nextNumber("s1")
	assert.Equal(t, int64(3), next)
}

func TestCreateProduct_NumerosUnicosBajoCarga(t *testing.T) {
	db := newMemDB()
	db.addStore("s1", "TOKO001")
	db.addStore("s2", "TOKO002")
	db.addUser("sales1", "s1", entity.RoleSales, true)
	db.addUser("sales2", "s2", entity.RoleSales, true)
	svc := newTestService(db, DefaultLimits, nil)

	const perStore = 25
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for i := 0; i < perStore; i++ {
		for _, pair := range [][2]string{{"sales1", "s1"}, {"sales2", "s2"}} {
			wg.Add(1)
			go func(creator, storeID string) {
				defer wg.Done()
				if _, err := svc.CreateProduct(context.Background(), creator, storeID, validProduct()); err != nil {
					mu.Lock()
					errs = append(errs, err)
					mu.Unlock()
				}
			}(pair[0], pair[1])
		}
	}
	wg.Wait()
	require.Empty(t, errs)

	for storeID, code := range map[string]string{"s1": "TOKO001", "s2": "TOKO002"} {
		want := make([]string, 0, perStore)
		for n := 1; n <= perStore; n++ {
			want = append(want, fmt.Sprintf("%s-%d", code, n))
		}
		assert.ElementsMatch(t, want, db.participantNumbers(storeID))
		next, _ := db.nextNumber(storeID)
		assert.Equal(t, int64(perStore+1), next)
	}
}

func TestCreateProduct_TopeGlobalAlcanzado(t *testing.T) {
	db := newMemDB()
	storeWithSales(db)
	db.productBaseline = 10_000_000
	metrics := newRecordingMetrics()
	svc := newTestService(db, DefaultLimits, metrics)

	_, err := svc.CreateProduct(context.Background(), "sales1", "s1", validProduct())

	var le *domain.LimitError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, domain.CodeProductLimitReached, le.Code)
	assert.ErrorIs(t, err, domain.ErrProductLimitReached)

	_, ok := db.nextNumber("s1")
	assert.False(t, ok, "no debe crearse ni incrementarse el contador")
	started, _ := db.txStats()
	assert.Equal(t, 1, started, "un rechazo por capacidad no se reintenta")
	assert.Equal(t, 1, metrics.rejected[domain.ScopeProducts])
	assert.Equal(t, 1, metrics.completed["product/limit_reached"])
	assert.Zero(t, metrics.reserved)
}

func TestCreateProduct_UltimoHuecoBajoElTope(t *testing.T) {
	db := newMemDB()
	storeWithSales(db)
	db.productBaseline = 9_999_999
	svc := newTestService(db, DefaultLimits, nil)

	_, err := svc.CreateProduct(context.Background(), "sales1", "s1", validProduct())
	require.NoError(t, err)

	_, err = svc.CreateProduct(context.Background(), "sales1", "s1", validProduct())
	assert.ErrorIs(t, err, domain.ErrProductLimitReached)

	next, _ := db.nextNumber("s1")
	assert.Equal(t, int64(2), next)
}

func TestCreateProduct_TokoInexistente(t *testing.T) {
	db := newMemDB()
	db.addUser("sales1", "ghost", entity.RoleSales, true)
	svc := newTestService(db, DefaultLimits, nil)

	_, err := svc.CreateProduct(context.Background(), "sales1", "ghost", validProduct())
	assert.ErrorIs(t, err, domain.ErrStoreNotFound)

	_, ok := db.nextNumber("ghost")
	assert.False(t, ok)
	started, _ := db.txStats()
	assert.Equal(t, 1, started)
}

func TestCreateProduct_TokoSinCodigoEsTerminal(t *testing.T) {
	db := newMemDB()
	db.addStore("s1", "")
	db.addUser("sales1", "s1", entity.RoleSales, true)
	svc := newTestService(db, DefaultLimits, nil)

	_, err := svc.CreateProduct(context.Background(), "sales1", "s1", validProduct())
	assert.ErrorIs(t, err, domain.ErrStoreMisconfigured)
	started, _ := db.txStats()
	assert.Equal(t, 1, started)
}

func TestCreateProduct_ColisionQuemaNumeroYReintenta(t *testing.T) {
	db := newMemDB()
	storeWithSales(db)
	// Número ya ocupado por una carga previa sin pasar por el contador.
	db.addProduct("legacy", "s1", "TOKO001-1")
	metrics := newRecordingMetrics()
	svc := newTestService(db, DefaultLimits, metrics)

	got, err := svc.CreateProduct(context.Background(), "sales1", "s1", validProduct())
	require.NoError(t, err)

	assert.Equal(t, "TOKO001-2", got.ParticipantNumber)
	next, _ := db.nextNumber("s1")
	assert.Equal(t, int64(3), next, "el número colisionado queda quemado")
	started, committed := db.txStats()
	assert.Equal(t, 2, started)
	assert.Equal(t, 2, committed)
	assert.Equal(t, 1, metrics.failed["product/number_taken"])
	assert.Equal(t, 2, metrics.reserved)
	assert.Equal(t, 1, metrics.completed["product/created"])
}

func TestCreateProduct_ContencionTransitoriaConverge(t *testing.T) {
	db := newMemDB()
	storeWithSales(db)
	db.contentionLeft = 2
	svc := newTestService(db, DefaultLimits, nil)

	got, err := svc.CreateProduct(context.Background(), "sales1", "s1", validProduct())
	require.NoError(t, err)
	assert.Equal(t, "TOKO001-1", got.ParticipantNumber)

	started, committed := db.txStats()
	assert.Equal(t, 3, started)
	assert.Equal(t, 1, committed)
}

func TestCreateProduct_ReintentosAgotados(t *testing.T) {
	db := newMemDB()
	storeWithSales(db)
	db.contentionLeft = 10
	metrics := newRecordingMetrics()
	svc := newTestService(db, DefaultLimits, metrics)

	_, err := svc.CreateProduct(context.Background(), "sales1", "s1", validProduct())

	assert.ErrorIs(t, err, domain.ErrRetriesExhausted)
	assert.ErrorIs(t, err, domain.ErrContention, "conserva el último error observado")
	started, committed := db.txStats()
	assert.Equal(t, 3, started)
	assert.Zero(t, committed)
	_, _, products := db.counts()
	assert.Zero(t, products)
	assert.Equal(t, 3, metrics.failed["product/contention"])
	assert.Equal(t, 1, metrics.completed["product/retries_exhausted"])
}

func TestCreateProduct_ErrorTerminalNoSeReintenta(t *testing.T) {
	db := newMemDB()
	storeWithSales(db)
	boom := errors.New("conexión reiniciada")
	db.createErr = boom
	svc := newTestService(db, DefaultLimits, nil)

	_, err := svc.CreateProduct(context.Background(), "sales1", "s1", validProduct())
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, domain.ErrRetriesExhausted)

	started, _ := db.txStats()
	assert.Equal(t, 1, started)
	_, ok := db.nextNumber("s1")
	assert.False(t, ok, "el rollback deshace la creación del contador")
}

func TestCreateProduct_ContextoCancelado(t *testing.T) {
	db := newMemDB()
	storeWithSales(db)
	svc := newTestService(db, DefaultLimits, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.CreateProduct(ctx, "sales1", "s1", validProduct())
	assert.ErrorIs(t, err, context.Canceled)
	_, _, products := db.counts()
	assert.Zero(t, products)
}

func TestCreateProduct_CanceladoEntreReintentosConservaUltimoError(t *testing.T) {
	db := newMemDB()
	storeWithSales(db)
	db.contentionLeft = 10
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	db.onContention = cancel
	svc := newTestService(db, DefaultLimits, nil)

	_, err := svc.CreateProduct(ctx, "sales1", "s1", validProduct())

	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, err, domain.ErrContention, "conserva el último error observado")
	assert.NotErrorIs(t, err, domain.ErrRetriesExhausted)
	started, committed := db.txStats()
	assert.Equal(t, 1, started)
	assert.Zero(t, committed)
}

func TestCreateProduct_ValidacionAntesDeReservar(t *testing.T) {
	cases := map[string]func(*dto.CreateProductRequest){
		"sin cliente":       func(r *dto.CreateProductRequest) { r.CustomerName = "" },
		"sin serie":         func(r *dto.CreateProductRequest) { r.SerialNumber = "" },
		"fecha mal formada": func(r *dto.CreateProductRequest) { r.PurchaseDate = "20/05/2025" },
		"fecha futura":      func(r *dto.CreateProductRequest) { r.PurchaseDate = "2025-06-02" },
		"precio negativo":   func(r *dto.CreateProductRequest) { r.Price = decimal.NewFromInt(-1) },
		"garantía excesiva": func(r *dto.CreateProductRequest) { r.WarrantyMonths = 500 },
		"email mal formado": func(r *dto.CreateProductRequest) { r.CustomerEmail = "no-es-email" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			db := newMemDB()
			storeWithSales(db)
			svc := newTestService(db, DefaultLimits, nil)

			in := validProduct()
			mutate(&in)
			_, err := svc.CreateProduct(context.Background(), "sales1", "s1", in)

			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			started, _ := db.txStats()
			assert.Zero(t, started)
		})
	}
}

func TestCreateProduct_FechaDeHoyEnZonaLocal(t *testing.T) {
	wib := time.FixedZone("WIB", 7*60*60)
	db := newMemDB()
	storeWithSales(db)
	svc := newTestService(db, DefaultLimits, nil)
	// 05:00 en Jakarta sigue siendo el día anterior en UTC.
	svc.now = func() time.Time { return time.Date(2026, 10, 15, 5, 0, 0, 0, wib) }

	in := validProduct()
	in.PurchaseDate = "2026-10-15"
	got, err := svc.CreateProduct(context.Background(), "sales1", "s1", in)
	require.NoError(t, err)
	assert.True(t, got.PurchaseDate.Equal(time.Date(2026, 10, 15, 0, 0, 0, 0, wib)))
	assert.True(t, got.WarrantyExpiresAt.Equal(time.Date(2027, 10, 15, 0, 0, 0, 0, wib)))

	in.PurchaseDate = "2026-10-16"
	_, err = svc.CreateProduct(context.Background(), "sales1", "s1", in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "mañana en la zona local sigue siendo futuro")
}

func TestCreateProduct_CreadorNoAutorizado(t *testing.T) {
	db := newMemDB()
	storeWithSales(db)
	db.addStore("s2", "TOKO002")
	db.addUser("sup1", "s1", entity.RoleSupervisor, true)
	db.addUser("sales-s2", "s2", entity.RoleSales, true)
	db.addUser("sales-off", "s1", entity.RoleSales, false)
	svc := newTestService(db, DefaultLimits, nil)

	cases := []struct {
		creator string
		want    error
	}{
		{"nadie", domain.ErrUserNotFound},
		{"sup1", domain.ErrForbidden},
		{"sales-s2", domain.ErrForbidden},
		{"sales-off", domain.ErrForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.creator, func(t *testing.T) {
			_, err := svc.CreateProduct(context.Background(), tc.creator, "s1", validProduct())
			assert.ErrorIs(t, err, tc.want)
		})
	}
	_, ok := db.nextNumber("s1")
	assert.False(t, ok)
}

func TestCheckProductLimit(t *testing.T) {
	db := newMemDB()
	db.productBaseline = 10_000_000
	svc := newTestService(db, DefaultLimits, nil)

	st, err := svc.CheckProductLimit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "products", st.Scope)
	assert.Equal(t, int64(10_000_000), st.Total)
	assert.Equal(t, int64(10_000_000), st.Limit)
	assert.False(t, st.CanCreate)
}
