package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/fekuna/omnipos-register/internal/logger"
	"github.com/fekuna/omnipos-register/internal/model"
	"github.com/fekuna/omnipos-register/internal/product"
	"github.com/fekuna/omnipos-register/internal/product/dto"
	"github.com/fekuna/omnipos-register/internal/search"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrNameRequired    = errors.New("product name is required")
	ErrNegativePrice   = errors.New("price must not be negative")
)

// Indexer is the subset of the search client used to keep the product index
// in step with the database.
type Indexer interface {
	Index(ctx context.Context, index, id string, doc any) error
	Delete(ctx context.Context, index, id string) error
}

type CatalogInvalidator interface {
	InvalidateAll(ctx context.Context) error
}

type productUseCase struct {
	repo    product.Repository
	catalog CatalogInvalidator
	es      Indexer
	logger  logger.ZapLogger
}

// NewProductUseCase wires product CRUD. catalog and es may be nil.
func NewProductUseCase(repo product.Repository, catalog CatalogInvalidator, es Indexer, log logger.ZapLogger) product.UseCase {
	return &productUseCase{
		repo:    repo,
		catalog: catalog,
		es:      es,
		logger:  log,
	}
}

func validatePrices(prices ...*decimal.Decimal) error {
	for _, p := range prices {
		if p != nil && p.IsNegative() {
			return ErrNegativePrice
		}
	}
	return nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func (uc *productUseCase) CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if err := validatePrices(input.SuggestedPrice, input.MemberPrice); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	p := &model.Product{
		BaseModel:      model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		CategoryID:     optional(input.CategoryID),
		Name:           name,
		SuggestedPrice: input.SuggestedPrice,
		MemberPrice:    input.MemberPrice,
	}

	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	uc.afterChange(ctx, p)
	return p, nil
}

func (uc *productUseCase) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProductNotFound
	}
	return p, nil
}

func (uc *productUseCase) ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error) {
	return uc.repo.FindAll(ctx, filters)
}

func (uc *productUseCase) UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if err := validatePrices(input.SuggestedPrice, input.MemberPrice); err != nil {
		return nil, err
	}

	p, err := uc.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProductNotFound
	}

	p.Name = name
	p.CategoryID = optional(input.CategoryID)
	p.SuggestedPrice = input.SuggestedPrice
	p.MemberPrice = input.MemberPrice
	p.UpdatedAt = time.Now().UTC()

	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	uc.afterChange(ctx, p)
	return p, nil
}

func (uc *productUseCase) DeleteProduct(ctx context.Context, id string) error {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return nil // Already deleted
	}

	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}

	uc.invalidateCatalog(ctx)
	if uc.es != nil {
		if err := uc.es.Delete(ctx, search.ProductIndex, id); err != nil {
			uc.logger.Error("failed to delete product from ES", zap.String("product_id", id), zap.Error(err))
		}
	}
	return nil
}

// afterChange refreshes derived copies of the product. Failures are logged;
// the database row is already the source of truth.
func (uc *productUseCase) afterChange(ctx context.Context, p *model.Product) {
	uc.invalidateCatalog(ctx)
	if uc.es != nil {
		if err := uc.es.Index(ctx, search.ProductIndex, p.ID, p); err != nil {
			uc.logger.Error("failed to index product", zap.String("product_id", p.ID), zap.Error(err))
		}
	}
}

func (uc *productUseCase) invalidateCatalog(ctx context.Context) {
	if uc.catalog == nil {
		return
	}
	if err := uc.catalog.InvalidateAll(ctx); err != nil {
		uc.logger.Warn("failed to invalidate catalog cache", zap.Error(err))
	}
}
