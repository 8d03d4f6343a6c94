package usecase

import (
	"context"

	"github.com/jhoicas/garansi-api/internal/application/dto"
	"github.com/jhoicas/garansi-api/internal/domain/repository"
)

// UserUseCase consultas de cuentas de una toko.
type UserUseCase struct {
	repo repository.UserRepository
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository) *UserUseCase {
	return &UserUseCase{repo: repo}
}

// GetByID obtiene un usuario por ID.
func (uc *UserUseCase) GetByID(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}
	return dto.FromUser(user), nil
}

// ListByStore lista las cuentas de un rol en una toko (supervisores o sales).
func (uc *UserUseCase) ListByStore(ctx context.Context, storeID, role string, limit, offset int) (*dto.UserListResponse, error) {
	list, err := uc.repo.ListByStoreAndRole(ctx, storeID, role, limit, offset)
	if err != nil {
		return nil, err
	}
	total, err := uc.repo.CountByStoreAndRole(ctx, storeID, role)
	if err != nil {
		return nil, err
	}
	items := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		items = append(items, *dto.FromUser(u))
	}
	return &dto.UserListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset, Total: int(total)},
	}, nil
}
