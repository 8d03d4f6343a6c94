package registration

import (
	"context"
	"fmt"

	"github.com/jhoicas/garansi-api/internal/domain"
	"github.com/jhoicas/garansi-api/internal/domain/numbering"
	"github.com/jhoicas/garansi-api/internal/domain/repository"
)

// Reservation número reservado para una toko.
type Reservation struct {
	StoreID           string
	StoreCode         string
	Number            int64
	ParticipantNumber string
}

// SequenceAllocator reserva el siguiente nomor_kepesertaan de una toko.
// Toda la corrección depende del bloqueo de fila de la base de datos: nada se cachea en memoria
// porque puede haber varias instancias del proceso.
type SequenceAllocator struct{}

// NewSequenceAllocator construye el allocator.
func NewSequenceAllocator() *SequenceAllocator {
	return &SequenceAllocator{}
}

// ReserveNext debe llamarse con repositorios atados a la tx activa. Los bloqueos se liberan
// en el Commit/Rollback de esa tx; la sección crítica es solo bloquear, leer e incrementar.
func (a *SequenceAllocator) ReserveNext(
	ctx context.Context,
	stores repository.StoreRepository,
	seqs repository.SequenceRepository,
	storeID string,
) (*Reservation, error) {
	// 1) Bloquea la fila de la toko: serializa reservas de la misma toko, no de otras.
	store, err := stores.GetForUpdate(ctx, storeID)
	if err != nil {
		return nil, fmt.Errorf("bloquear toko: %w", err)
	}
	if store == nil {
		return nil, domain.ErrStoreNotFound
	}
	if store.Code == "" {
		return nil, domain.ErrStoreMisconfigured
	}

	// 2) Contador (creado perezosamente con next_number = 1), también bloqueado.
	seq, err := seqs.GetOrCreateForUpdate(ctx, storeID)
	if err != nil {
		return nil, fmt.Errorf("obtener contador: %w", err)
	}
	reserved := seq.NextNumber

	// 3) Incremento persistido ya, no diferido al commit.
	next, err := seqs.Increment(ctx, storeID, 1)
	if err != nil {
		return nil, fmt.Errorf("incrementar contador: %w", err)
	}
	if next != reserved+1 {
		return nil, fmt.Errorf("contador de la toko %s inconsistente: %d tras reservar %d", storeID, next, reserved)
	}

	return &Reservation{
		StoreID:           storeID,
		StoreCode:         store.Code,
		Number:            reserved,
		ParticipantNumber: numbering.Format(store.Code, reserved),
	}, nil
}
