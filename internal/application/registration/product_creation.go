package registration

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/garansi-api/internal/application/dto"
	"github.com/jhoicas/garansi-api/internal/domain"
	"github.com/jhoicas/garansi-api/internal/domain/entity"
	"github.com/jhoicas/garansi-api/internal/domain/repository"
	"github.com/jhoicas/garansi-api/pkg/validator"
)

const purchaseDateLayout = "2006-01-02"

// CreateProduct registra un producto con garantía para la toko del sales creador.
//
// Cada intento abre una tx nueva: CHECK_LIMIT → RESERVE_NUMBER → INSERT_RECORD → COMMIT.
// Solo la colisión del nomor_kepesertaan y la contención de bloqueos se reintentan; límite,
// toko inexistente o mal configurada y validación son terminales.
func (s *Service) CreateProduct(ctx context.Context, creatorID, storeID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	product, err := s.createProduct(ctx, creatorID, storeID, in)
	s.metrics.CreationCompleted("product", outcome(err))
	if err != nil {
		s.logRejection("product", storeID, err)
		return nil, err
	}
	s.log.Info().
		Str("store_id", storeID).
		Str("nomor_kepesertaan", product.ParticipantNumber).
		Msg("producto registrado")
	return dto.FromProduct(product), nil
}

func (s *Service) createProduct(ctx context.Context, creatorID, storeID string, in dto.CreateProductRequest) (*entity.Product, error) {
	draft, err := s.productDraft(ctx, creatorID, storeID, in)
	if err != nil {
		return nil, err
	}

	var created *entity.Product
	err = s.withRetry(ctx, "product", func(attempt int) error {
		var collided bool
		txErr := s.tx.RunRegistration(ctx, func(
			storeRepo repository.StoreRepository,
			seqRepo repository.SequenceRepository,
			productRepo repository.ProductRepository,
			_ repository.UserRepository,
		) error {
			if err := s.ensure(ctx, domain.ScopeProducts, productRepo.Count); err != nil {
				return err
			}
			res, err := s.allocator.ReserveNext(ctx, storeRepo, seqRepo, storeID)
			if err != nil {
				return err
			}
			s.metrics.NumberReserved()

			p := *draft
			p.ID = s.newID()
			p.ParticipantNumber = res.ParticipantNumber
			if err := productRepo.Create(ctx, &p); err != nil {
				if errors.Is(err, domain.ErrParticipantNumberTaken) {
					// El INSERT no aborta la tx (ON CONFLICT DO NOTHING): se confirma solo el
					// incremento del contador y el número queda quemado para el siguiente intento.
					collided = true
					return nil
				}
				return err
			}
			created = &p
			return nil
		})
		if txErr != nil {
			return txErr
		}
		if collided {
			return fmt.Errorf("intento %d: %w", attempt, domain.ErrParticipantNumberTaken)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// productDraft valida la petición y al creador antes de abrir la tx, para no reservar
// números con payloads inválidos.
func (s *Service) productDraft(ctx context.Context, creatorID, storeID string, in dto.CreateProductRequest) (*entity.Product, error) {
	if err := validator.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	if in.Price.IsNegative() {
		return nil, fmt.Errorf("%w: price negativo", domain.ErrInvalidInput)
	}
	// purchase_date es una fecha de calendario en la zona del reloj, no un instante UTC.
	now := s.now()
	purchase, err := time.ParseInLocation(purchaseDateLayout, in.PurchaseDate, now.Location())
	if err != nil {
		return nil, fmt.Errorf("%w: purchase_date: %w", domain.ErrInvalidInput, err)
	}
	if purchase.After(now) {
		return nil, fmt.Errorf("%w: purchase_date en el futuro", domain.ErrInvalidInput)
	}

	creator, err := s.users.GetByID(ctx, creatorID)
	if err != nil {
		return nil, fmt.Errorf("obtener creador: %w", err)
	}
	if creator == nil {
		return nil, domain.ErrUserNotFound
	}
	if creator.Role != entity.RoleSales || !creator.BelongsToStore(storeID) || !creator.IsActive {
		return nil, domain.ErrForbidden
	}

	months := in.WarrantyMonths
	if months == 0 {
		months = entity.DefaultWarrantyMonths
	}
	return &entity.Product{
		StoreID:           storeID,
		CreatedBy:         creatorID,
		CustomerName:      strings.TrimSpace(in.CustomerName),
		CustomerPhone:     strings.TrimSpace(in.CustomerPhone),
		CustomerEmail:     strings.TrimSpace(in.CustomerEmail),
		ProductName:       strings.TrimSpace(in.ProductName),
		Brand:             strings.TrimSpace(in.Brand),
		SerialNumber:      strings.TrimSpace(in.SerialNumber),
		Price:             in.Price,
		PurchaseDate:      purchase,
		WarrantyMonths:    months,
		WarrantyExpiresAt: entity.WarrantyExpiry(purchase, months),
		IsActive:          true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

// logRejection capacidad y referencia son condiciones esperadas: warn/info, nunca error.
func (s *Service) logRejection(kind, storeID string, err error) {
	var le *domain.LimitError
	switch {
	case errors.As(err, &le):
		// ya registrado en ensure
	case errors.Is(err, domain.ErrStoreNotFound), errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrForbidden), errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrDuplicate),
		errors.Is(err, domain.ErrEmailAlreadyExists):
		s.log.Info().Str("kind", kind).Str("store_id", storeID).Err(err).Msg("creación rechazada")
	case errors.Is(err, domain.ErrStoreMisconfigured):
		s.log.Warn().Str("kind", kind).Str("store_id", storeID).Msg("toko sin kode_toko, requiere corrección manual")
	default:
		s.log.Error().Str("kind", kind).Str("store_id", storeID).Err(err).Msg("creación fallida")
	}
}
