package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/fekuna/omnipos-register/internal/category"
	"github.com/fekuna/omnipos-register/internal/category/dto"
	"github.com/fekuna/omnipos-register/internal/logger"
	"github.com/fekuna/omnipos-register/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrNameRequired     = errors.New("category name is required")
)

type CatalogInvalidator interface {
	InvalidateAll(ctx context.Context) error
}

type categoryUseCase struct {
	repo    category.Repository
	catalog CatalogInvalidator
	logger  logger.ZapLogger
}

func NewCategoryUseCase(repo category.Repository, catalog CatalogInvalidator, log logger.ZapLogger) category.UseCase {
	return &categoryUseCase{
		repo:    repo,
		catalog: catalog,
		logger:  log,
	}
}

func (uc *categoryUseCase) CreateCategory(ctx context.Context, input *dto.CreateCategoryInput) (*model.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}

	cat := &model.Category{
		ID:        uuid.New().String(),
		Name:      name,
		SortOrder: input.SortOrder,
		CreatedAt: time.Now().UTC(),
	}

	if err := uc.repo.Create(ctx, cat); err != nil {
		return nil, err
	}
	return cat, nil
}

func (uc *categoryUseCase) ListCategories(ctx context.Context) ([]model.Category, error) {
	return uc.repo.FindAll(ctx)
}

func (uc *categoryUseCase) UpdateCategory(ctx context.Context, input *dto.UpdateCategoryInput) (*model.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}

	cat, err := uc.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, ErrCategoryNotFound
	}

	cat.Name = name
	cat.SortOrder = input.SortOrder

	if err := uc.repo.Update(ctx, cat); err != nil {
		return nil, err
	}
	return cat, nil
}

// DeleteCategory removes the category; its products become uncategorised,
// so cached snapshots are dropped.
func (uc *categoryUseCase) DeleteCategory(ctx context.Context, id string) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	if uc.catalog != nil {
		if err := uc.catalog.InvalidateAll(ctx); err != nil {
			uc.logger.Warn("failed to invalidate catalog cache", zap.Error(err))
		}
	}
	return nil
}
