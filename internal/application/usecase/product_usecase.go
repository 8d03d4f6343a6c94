package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/garansi-api/internal/application/dto"
	"github.com/jhoicas/garansi-api/internal/domain"
	"github.com/jhoicas/garansi-api/internal/domain/entity"
	"github.com/jhoicas/garansi-api/internal/domain/numbering"
	"github.com/jhoicas/garansi-api/internal/domain/repository"
)

// CertificateRenderer genera el certificado de garantía (PDF).
type CertificateRenderer interface {
	RenderCertificate(ctx context.Context, product *entity.Product, store *entity.Store) ([]byte, error)
}

// ProductUseCase consultas y ciclo de vida de productos ya registrados.
// El registro (con nomor_kepesertaan) vive en registration.
type ProductUseCase struct {
	repo     repository.ProductRepository
	stores   repository.StoreRepository
	renderer CertificateRenderer
	now      func() time.Time
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, stores repository.StoreRepository, renderer CertificateRenderer) *ProductUseCase {
	return &ProductUseCase{repo: repo, stores: stores, renderer: renderer, now: time.Now}
}

// GetByID obtiene un producto. Con storeID no vacío, un producto de otra toko se trata como inexistente.
func (uc *ProductUseCase) GetByID(ctx context.Context, id, storeID string) (*dto.ProductResponse, error) {
	product, err := uc.find(ctx, id, storeID)
	if err != nil {
		return nil, err
	}
	return dto.FromProduct(product), nil
}

// GetByParticipantNumber busca por nomor_kepesertaan (service center).
func (uc *ProductUseCase) GetByParticipantNumber(ctx context.Context, number string) (*dto.ProductResponse, error) {
	if _, _, err := numbering.Parse(number); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	product, err := uc.repo.GetByParticipantNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return dto.FromProduct(product), nil
}

// List lista productos de una toko con paginación.
func (uc *ProductUseCase) List(ctx context.Context, storeID string, limit, offset int) (*dto.ProductListResponse, error) {
	list, err := uc.repo.ListByStore(ctx, storeID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *dto.FromProduct(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Deactivate da de baja la garantía. El nomor_kepesertaan se conserva.
// Devuelve domain.ErrConflict si ya estaba inactiva.
func (uc *ProductUseCase) Deactivate(ctx context.Context, id, actorID string) (*dto.ProductResponse, error) {
	product, err := uc.find(ctx, id, "")
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, domain.ErrConflict
	}
	at := uc.now()
	if err := uc.repo.Deactivate(ctx, id, actorID, at); err != nil {
		return nil, err
	}
	product.IsActive = false
	product.DeactivatedAt = &at
	product.DeactivatedBy = &actorID
	product.UpdatedAt = at
	return dto.FromProduct(product), nil
}

// Certificate genera el PDF del certificado de garantía.
func (uc *ProductUseCase) Certificate(ctx context.Context, id string) ([]byte, string, error) {
	product, err := uc.find(ctx, id, "")
	if err != nil {
		return nil, "", err
	}
	store, err := uc.stores.GetByID(ctx, product.StoreID)
	if err != nil {
		return nil, "", err
	}
	if store == nil {
		return nil, "", domain.ErrStoreNotFound
	}
	doc, err := uc.renderer.RenderCertificate(ctx, product, store)
	if err != nil {
		return nil, "", err
	}
	return doc, product.ParticipantNumber + ".pdf", nil
}

func (uc *ProductUseCase) find(ctx context.Context, id, storeID string) (*entity.Product, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil || (storeID != "" && product.StoreID != storeID) {
		return nil, domain.ErrNotFound
	}
	return product, nil
}
