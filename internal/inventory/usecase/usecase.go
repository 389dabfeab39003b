package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-register/internal/inventory"
	"github.com/fekuna/omnipos-register/internal/inventory/dto"
	"github.com/fekuna/omnipos-register/internal/logger"
	"github.com/fekuna/omnipos-register/internal/model"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrInsufficientStock = errors.New("insufficient inventory")
	ErrLockBusy          = errors.New("system busy, please try again later (lock)")
	ErrNegativePrice     = errors.New("store price must not be negative")
	ErrInvalidReference  = errors.New("store and product are required")
)

const (
	lockTTL      = 5 * time.Second
	lockAttempts = 3
	lockBackoff  = 100 * time.Millisecond
)

// Locker is the distributed lock half of the Redis client.
type Locker interface {
	AcquireLock(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key, value string) error
}

type CatalogInvalidator interface {
	Invalidate(ctx context.Context, storeID string) error
}

type inventoryUseCase struct {
	repo    inventory.Repository
	locker  Locker
	catalog CatalogInvalidator
	logger  logger.ZapLogger
}

// NewInventoryUseCase wires inventory writes. locker and catalog may be nil;
// without a locker adjustments rely on the database alone.
func NewInventoryUseCase(repo inventory.Repository, locker Locker, catalog CatalogInvalidator, log logger.ZapLogger) inventory.UseCase {
	return &inventoryUseCase{
		repo:    repo,
		locker:  locker,
		catalog: catalog,
		logger:  log,
	}
}

func (uc *inventoryUseCase) GetStoreInventory(ctx context.Context, storeID, productID string) (*model.StoreInventory, error) {
	inv, err := uc.repo.GetByProduct(ctx, storeID, productID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		// Unlisted and untracked.
		return &model.StoreInventory{
			StoreID:   storeID,
			ProductID: productID,
		}, nil
	}
	return inv, nil
}

func (uc *inventoryUseCase) ListStoreInventory(ctx context.Context, storeID string) ([]model.StoreInventory, error) {
	return uc.repo.ListByStore(ctx, storeID)
}

func (uc *inventoryUseCase) UpsertListing(ctx context.Context, input *dto.UpsertListingInput) (*model.StoreInventory, error) {
	if input.StoreID == "" || input.ProductID == "" {
		return nil, ErrInvalidReference
	}
	var storePrice *decimal.Decimal
	if input.StorePrice != nil {
		if input.StorePrice.IsNegative() {
			return nil, ErrNegativePrice
		}
		// Zero clears the override.
		if input.StorePrice.IsPositive() {
			p := *input.StorePrice
			storePrice = &p
		}
	}

	inv, err := uc.repo.GetByProduct(ctx, input.StoreID, input.ProductID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		inv = &model.StoreInventory{
			ID:        uuid.New().String(),
			StoreID:   input.StoreID,
			ProductID: input.ProductID,
		}
	}
	inv.IsListed = input.IsListed
	inv.StorePrice = storePrice
	inv.UpdatedAt = time.Now().UTC()

	if err := uc.repo.UpsertListing(ctx, inv); err != nil {
		return nil, err
	}

	uc.invalidate(ctx, input.StoreID)
	return inv, nil
}

// AdjustInventory applies a manual stock correction. A product without stock
// tracking starts from zero, and the result may not go below zero.
func (uc *inventoryUseCase) AdjustInventory(ctx context.Context, input *dto.AdjustInventoryInput) (*model.StoreInventory, error) {
	if input.StoreID == "" || input.ProductID == "" {
		return nil, ErrInvalidReference
	}

	var result *model.StoreInventory
	err := uc.withLock(ctx, input.StoreID, input.ProductID, func() error {
		inv, err := uc.repo.GetByProduct(ctx, input.StoreID, input.ProductID)
		if err != nil {
			return err
		}
		if inv == nil {
			inv = &model.StoreInventory{
				ID:        uuid.New().String(),
				StoreID:   input.StoreID,
				ProductID: input.ProductID,
			}
		}

		before := 0
		if inv.Stock != nil {
			before = *inv.Stock
		}
		after := before + input.QuantityChange
		if after < 0 {
			return ErrInsufficientStock
		}

		movement := uc.newMovement(inv, model.MovementAdjustment, input.QuantityChange, before, after, input.ReferenceID, input.Reason)
		inv.Stock = &after
		inv.UpdatedAt = movement.CreatedAt

		if err := uc.repo.AdjustStockWithMovement(ctx, inv, movement); err != nil {
			return err
		}
		result = inv
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.invalidate(ctx, input.StoreID)
	return result, nil
}

// AdjustStock applies a stock change coming from a completed sale. Products
// the store does not track are left alone, and tracked stock may go negative:
// the sale already happened.
func (uc *inventoryUseCase) AdjustStock(ctx context.Context, adj model.StockAdjustment) error {
	if adj.StoreID == "" || adj.ProductID == "" {
		return ErrInvalidReference
	}
	movementType := adj.MovementType
	if movementType == "" {
		movementType = model.MovementSale
	}

	changed := false
	err := uc.withLock(ctx, adj.StoreID, adj.ProductID, func() error {
		inv, err := uc.repo.GetByProduct(ctx, adj.StoreID, adj.ProductID)
		if err != nil {
			return err
		}
		if inv == nil || inv.Stock == nil {
			return nil
		}

		before := *inv.Stock
		after := before + adj.Delta
		if after < 0 && movementType != model.MovementSale {
			return ErrInsufficientStock
		}

		movement := uc.newMovement(inv, movementType, adj.Delta, before, after, adj.ReferenceID, adj.Reason)
		inv.Stock = &after
		inv.UpdatedAt = movement.CreatedAt

		if err := uc.repo.AdjustStockWithMovement(ctx, inv, movement); err != nil {
			return err
		}
		changed = true
		return nil
	})
	if err != nil {
		return fmt.Errorf("adjust stock %s/%s: %w", adj.StoreID, adj.ProductID, err)
	}

	if changed {
		uc.invalidate(ctx, adj.StoreID)
	}
	return nil
}

func (uc *inventoryUseCase) ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.InventoryMovement, int, error) {
	return uc.repo.ListMovements(ctx, filters)
}

func (uc *inventoryUseCase) newMovement(inv *model.StoreInventory, movementType string, change, before, after int, referenceID, notes string) *model.InventoryMovement {
	var refID, refType *string
	if referenceID = strings.TrimSpace(referenceID); referenceID != "" {
		refID = &referenceID
		if movementType == model.MovementSale {
			t := "order"
			refType = &t
		}
	}

	return &model.InventoryMovement{
		ID:             uuid.New().String(),
		StoreID:        inv.StoreID,
		ProductID:      inv.ProductID,
		MovementType:   movementType,
		QuantityChange: change,
		QuantityBefore: before,
		QuantityAfter:  after,
		ReferenceType:  refType,
		ReferenceID:    refID,
		Notes:          notes,
		CreatedAt:      time.Now().UTC(),
	}
}

// withLock serialises read-modify-write cycles on one store row across
// instances.
func (uc *inventoryUseCase) withLock(ctx context.Context, storeID, productID string, fn func() error) error {
	if uc.locker == nil {
		return fn()
	}

	lockKey := fmt.Sprintf("lock:inventory:%s:%s", storeID, productID)
	lockValue := uuid.New().String()

	acquired := false
	for i := 0; i < lockAttempts; i++ {
		ok, err := uc.locker.AcquireLock(ctx, lockKey, lockValue, lockTTL)
		if err != nil {
			uc.logger.Error("failed to acquire lock redis error", zap.Error(err))
		}
		if ok {
			acquired = true
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(lockBackoff):
		}
	}
	if !acquired {
		return ErrLockBusy
	}

	defer func() {
		if err := uc.locker.ReleaseLock(ctx, lockKey, lockValue); err != nil {
			uc.logger.Warn("failed to release inventory lock", zap.String("key", lockKey), zap.Error(err))
		}
	}()
	return fn()
}

func (uc *inventoryUseCase) invalidate(ctx context.Context, storeID string) {
	if uc.catalog == nil {
		return
	}
	if err := uc.catalog.Invalidate(ctx, storeID); err != nil {
		uc.logger.Warn("failed to invalidate catalog cache", zap.String("store_id", storeID), zap.Error(err))
	}
}
