package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-register/internal/inventory/dto"
	"github.com/fekuna/omnipos-register/internal/model"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) GetByProduct(ctx context.Context, storeID, productID string) (*model.StoreInventory, error) {
	var inv model.StoreInventory
	query := r.DB.Rebind(`SELECT * FROM store_inventory WHERE store_id = ? AND product_id = ?`)

	err := r.DB.GetContext(ctx, &inv, query, storeID, productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not listed in this store
		}
		return nil, err
	}
	return &inv, nil
}

func (r *PGRepository) ListByStore(ctx context.Context, storeID string) ([]model.StoreInventory, error) {
	items := []model.StoreInventory{}
	query := r.DB.Rebind(`SELECT * FROM store_inventory WHERE store_id = ? ORDER BY updated_at DESC`)
	err := r.DB.SelectContext(ctx, &items, query, storeID)
	return items, err
}

func (r *PGRepository) UpsertListing(ctx context.Context, inv *model.StoreInventory) error {
	query := `
        INSERT INTO store_inventory (
            id, store_id, product_id, store_price, stock, is_listed, updated_at
        )
        VALUES (
            :id, :store_id, :product_id, :store_price, :stock, :is_listed, :updated_at
        )
        ON CONFLICT (store_id, product_id)
        DO UPDATE SET
            store_price = EXCLUDED.store_price,
            is_listed = EXCLUDED.is_listed,
            updated_at = EXCLUDED.updated_at
    `
	_, err := r.DB.NamedExecContext(ctx, query, inv)
	return err
}

func (r *PGRepository) ListMovements(ctx context.Context, f *dto.MovementFilters) ([]model.InventoryMovement, int, error) {
	items := []model.InventoryMovement{}
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.StoreID != "" {
		conditions = append(conditions, "store_id = :store_id")
		args["store_id"] = f.StoreID
	}
	if f.ProductID != "" {
		conditions = append(conditions, "product_id = :product_id")
		args["product_id"] = f.ProductID
	}
	if f.MovementType != "" {
		conditions = append(conditions, "movement_type = :movement_type")
		args["movement_type"] = f.MovementType
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery, countArgs, err := sqlx.Named("SELECT count(*) FROM inventory_movements"+whereClause, args)
	if err != nil {
		return nil, 0, err
	}
	if err := r.DB.GetContext(ctx, &count, r.DB.Rebind(countQuery), countArgs...); err != nil {
		return nil, 0, err
	}

	query := "SELECT * FROM inventory_movements" + whereClause + " ORDER BY created_at DESC"
	if f.PageSize > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, (page-1)*f.PageSize)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	err = nstmt.SelectContext(ctx, &items, args)
	return items, count, err
}

// AdjustStockWithMovement writes the new stock level and its audit row in one
// transaction. The row is created when the product was not yet listed.
func (r *PGRepository) AdjustStockWithMovement(ctx context.Context, inv *model.StoreInventory, movement *model.InventoryMovement) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// 1. Update stock
	upsertQuery := `
        INSERT INTO store_inventory (
            id, store_id, product_id, store_price, stock, is_listed, updated_at
        )
        VALUES (
            :id, :store_id, :product_id, :store_price, :stock, :is_listed, :updated_at
        )
        ON CONFLICT (store_id, product_id)
        DO UPDATE SET
            stock = EXCLUDED.stock,
            updated_at = EXCLUDED.updated_at
    `
	if _, err := tx.NamedExecContext(ctx, upsertQuery, inv); err != nil {
		return fmt.Errorf("failed to update inventory: %w", err)
	}

	// 2. Log movement
	insertLogQuery := `
        INSERT INTO inventory_movements (
            id, store_id, product_id, movement_type, quantity_change,
            quantity_before, quantity_after, reference_type, reference_id, notes, created_at
        )
        VALUES (
            :id, :store_id, :product_id, :movement_type, :quantity_change,
            :quantity_before, :quantity_after, :reference_type, :reference_id, :notes, :created_at
        )
    `
	if _, err := tx.NamedExecContext(ctx, insertLogQuery, movement); err != nil {
		return fmt.Errorf("failed to log movement: %w", err)
	}

	return tx.Commit()
}
