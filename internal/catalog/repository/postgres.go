package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fekuna/omnipos-register/internal/model"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) ListStores(ctx context.Context) ([]model.Store, error) {
	stores := []model.Store{}
	err := r.DB.SelectContext(ctx, &stores, `SELECT id, name, address, created_at FROM stores ORDER BY created_at ASC`)
	return stores, err
}

func (r *PGRepository) FindStoreByID(ctx context.Context, id string) (*model.Store, error) {
	var store model.Store
	query := r.DB.Rebind(`SELECT id, name, address, created_at FROM stores WHERE id = ? LIMIT 1`)
	err := r.DB.GetContext(ctx, &store, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &store, nil
}

func (r *PGRepository) ListProducts(ctx context.Context) ([]model.Product, error) {
	products := []model.Product{}
	query := `
        SELECT id, category_id, name, suggested_price, member_price, created_at, updated_at
        FROM products
        ORDER BY created_at DESC
    `
	err := r.DB.SelectContext(ctx, &products, query)
	return products, err
}

// ListInventory returns the rows of every store; the snapshot needs them all
// to work out where else a product is sold.
func (r *PGRepository) ListInventory(ctx context.Context) ([]model.StoreInventory, error) {
	rows := []model.StoreInventory{}
	query := `
        SELECT id, store_id, product_id, store_price, stock, is_listed, updated_at
        FROM store_inventory
    `
	err := r.DB.SelectContext(ctx, &rows, query)
	return rows, err
}
