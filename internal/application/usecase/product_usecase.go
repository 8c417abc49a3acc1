package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	appinv "github.com/jhoicas/stock-ledger-api/internal/application/inventory"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// ProductUseCase casos de uso de catálogo mínimo. Stock se maneja vía lotes.
type ProductUseCase struct {
	repo    repository.ProductRepository
	batches repository.StockBatchRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, batches repository.StockBatchRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo, batches: batches}
}

// Create crea un nuevo producto con stock 0.
func (uc *ProductUseCase) Create(ctx context.Context, companyID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.SKU == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	product := &entity.Product{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		SKU:       in.SKU,
		Name:      in.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto de la empresa.
func (uc *ProductUseCase) GetByID(ctx context.Context, companyID, id string) (*dto.ProductResponse, error) {
	product, err := uc.get(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista productos de la empresa con paginación.
func (uc *ProductUseCase) List(ctx context.Context, companyID string, page dto.PageRequest) ([]dto.ProductResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.ListByCompany(ctx, companyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(list))
	for i := range list {
		out = append(out, *toProductResponse(&list[i]))
	}
	return out, nil
}

// ListBatches lista los lotes de un producto de la empresa.
func (uc *ProductUseCase) ListBatches(ctx context.Context, companyID, productID string) ([]dto.BatchResponse, error) {
	if _, err := uc.get(ctx, companyID, productID); err != nil {
		return nil, err
	}
	batches, err := uc.batches.ListByProduct(ctx, companyID, productID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BatchResponse, 0, len(batches))
	for _, b := range batches {
		out = append(out, appinv.ToBatchResponse(b))
	}
	return out, nil
}

func (uc *ProductUseCase) get(ctx context.Context, companyID, id string) (*entity.Product, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if product.CompanyID != companyID {
		return nil, domain.ErrUnauthorized
	}
	return product, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:        p.ID,
		CompanyID: p.CompanyID,
		SKU:       p.SKU,
		Name:      p.Name,
		Stock:     p.Stock,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
