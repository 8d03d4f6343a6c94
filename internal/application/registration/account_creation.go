package registration

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/garansi-api/internal/application/dto"
	"github.com/jhoicas/garansi-api/internal/domain"
	"github.com/jhoicas/garansi-api/internal/domain/entity"
	"github.com/jhoicas/garansi-api/internal/domain/numbering"
	"github.com/jhoicas/garansi-api/internal/domain/repository"
	"github.com/jhoicas/garansi-api/pkg/validator"
)

// CreateStore crea la toko y su cuenta de acceso (rol STORE) en una tx, tras comprobar el tope
// global de tokos. Sin reintentos. Devuelve domain.ErrDuplicate si el kode_toko ya existe.
func (s *Service) CreateStore(ctx context.Context, in dto.CreateStoreRequest) (*dto.StoreResponse, error) {
	store, err := s.createStore(ctx, in)
	s.metrics.CreationCompleted("store", outcome(err))
	if err != nil {
		s.logRejection("store", "", err)
		return nil, err
	}
	s.log.Info().Str("store_id", store.ID).Str("kode_toko", store.Code).Msg("toko creada")
	return dto.FromStore(store), nil
}

func (s *Service) createStore(ctx context.Context, in dto.CreateStoreRequest) (*entity.Store, error) {
	if err := validator.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	code := numbering.NormalizeStoreCode(in.Code)
	hash, err := s.hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	store := &entity.Store{
		ID:        s.newID(),
		Name:      strings.TrimSpace(in.Name),
		Code:      code,
		Address:   strings.TrimSpace(in.Address),
		Phone:     strings.TrimSpace(in.Phone),
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	account := &entity.User{
		ID:           s.newID(),
		StoreID:      &store.ID,
		Email:        normalizeEmail(in.Email),
		PasswordHash: hash,
		Name:         store.Name,
		Phone:        store.Phone,
		Role:         entity.RoleStore,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.tx.RunRegistration(ctx, func(
		storeRepo repository.StoreRepository,
		_ repository.SequenceRepository,
		_ repository.ProductRepository,
		userRepo repository.UserRepository,
	) error {
		if err := s.ensure(ctx, domain.ScopeStores, storeRepo.Count); err != nil {
			return err
		}
		if err := storeRepo.Create(ctx, store); err != nil {
			return err
		}
		return userRepo.Create(ctx, account)
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

// CreateSupervisor crea un supervisor en la toko dada. No tiene tope.
func (s *Service) CreateSupervisor(ctx context.Context, storeID string, in dto.CreateAccountRequest) (*dto.UserResponse, error) {
	user, err := s.createSupervisor(ctx, storeID, in)
	s.metrics.CreationCompleted("supervisor", outcome(err))
	if err != nil {
		s.logRejection("supervisor", storeID, err)
		return nil, err
	}
	s.log.Info().Str("store_id", storeID).Str("user_id", user.ID).Msg("supervisor creado")
	return dto.FromUser(user), nil
}

func (s *Service) createSupervisor(ctx context.Context, storeID string, in dto.CreateAccountRequest) (*entity.User, error) {
	if err := validator.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	store, err := s.stores.GetByID(ctx, storeID)
	if err != nil {
		return nil, fmt.Errorf("obtener toko: %w", err)
	}
	if store == nil {
		return nil, domain.ErrStoreNotFound
	}
	user, err := s.newAccount(in, entity.RoleSupervisor, storeID, nil)
	if err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// CreateSalesAgent crea un sales bajo el supervisor dado. El tope se cuenta sobre todos los
// sales de la toko, sin importar el supervisor ni si están activos. Sin reintentos.
func (s *Service) CreateSalesAgent(ctx context.Context, supervisorID, storeID string, in dto.CreateAccountRequest) (*dto.UserResponse, error) {
	user, err := s.createSalesAgent(ctx, supervisorID, storeID, in)
	s.metrics.CreationCompleted("sales", outcome(err))
	if err != nil {
		s.logRejection("sales", storeID, err)
		return nil, err
	}
	s.log.Info().Str("store_id", storeID).Str("user_id", user.ID).Msg("sales creado")
	return dto.FromUser(user), nil
}

func (s *Service) createSalesAgent(ctx context.Context, supervisorID, storeID string, in dto.CreateAccountRequest) (*entity.User, error) {
	if err := validator.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	supervisor, err := s.users.GetByID(ctx, supervisorID)
	if err != nil {
		return nil, fmt.Errorf("obtener supervisor: %w", err)
	}
	if supervisor == nil {
		return nil, domain.ErrNotFound
	}
	if supervisor.Role != entity.RoleSupervisor || !supervisor.BelongsToStore(storeID) {
		return nil, domain.ErrForbidden
	}
	user, err := s.newAccount(in, entity.RoleSales, storeID, &supervisor.ID)
	if err != nil {
		return nil, err
	}

	err = s.tx.RunRegistration(ctx, func(
		storeRepo repository.StoreRepository,
		_ repository.SequenceRepository,
		_ repository.ProductRepository,
		userRepo repository.UserRepository,
	) error {
		store, err := storeRepo.GetByID(ctx, storeID)
		if err != nil {
			return fmt.Errorf("obtener toko: %w", err)
		}
		if store == nil {
			return domain.ErrStoreNotFound
		}
		if err := s.ensure(ctx, domain.ScopeSales, salesCounter(userRepo, storeID)); err != nil {
			return err
		}
		return userRepo.Create(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Service) newAccount(in dto.CreateAccountRequest, role, storeID string, supervisorID *string) (*entity.User, error) {
	hash, err := s.hashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	now := s.now()
	sid := storeID
	return &entity.User{
		ID:           s.newID(),
		StoreID:      &sid,
		SupervisorID: supervisorID,
		Email:        normalizeEmail(in.Email),
		PasswordHash: hash,
		Name:         strings.TrimSpace(in.Name),
		Phone:        strings.TrimSpace(in.Phone),
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
