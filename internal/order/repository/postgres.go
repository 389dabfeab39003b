package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-register/internal/model"
	"github.com/fekuna/omnipos-register/internal/order/dto"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

// CreateOrder inserts the header only and returns its id.
func (r *PGRepository) CreateOrder(ctx context.Context, o *model.Order) (string, error) {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}

	query := `
        INSERT INTO orders (
            id, store_id, total_amount, payment_method, member_id, discount, created_at
        )
        VALUES (
            :id, :store_id, :total_amount, :payment_method, :member_id, :discount, :created_at
        )
    `
	if _, err := r.DB.NamedExecContext(ctx, query, o); err != nil {
		return "", err
	}
	return o.ID, nil
}

// CreateOrderItems inserts every line of an order or none of them.
func (r *PGRepository) CreateOrderItems(ctx context.Context, orderID string, items []model.OrderItem) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
        INSERT INTO order_items (
            id, order_id, product_id, name, quantity, price, position, created_at
        )
        VALUES (
            :id, :order_id, :product_id, :name, :quantity, :price, :position, :created_at
        )
    `
	for i := range items {
		item := &items[i]
		if item.ID == "" {
			item.ID = uuid.New().String()
		}
		item.OrderID = orderID
		item.Position = i
		if item.CreatedAt.IsZero() {
			item.CreatedAt = time.Now().UTC()
		}
		if _, err := tx.NamedExecContext(ctx, query, item); err != nil {
			return fmt.Errorf("insert item %s: %w", item.ProductID, err)
		}
	}

	return tx.Commit()
}

func (r *PGRepository) DeleteOrder(ctx context.Context, orderID string) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM order_items WHERE order_id = ?`), orderID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM orders WHERE id = ?`), orderID); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Order, error) {
	var o model.Order
	err := r.DB.GetContext(ctx, &o, r.DB.Rebind(`SELECT * FROM orders WHERE id = ?`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	orders := []model.Order{o}
	if err := r.loadItems(ctx, orders); err != nil {
		return nil, err
	}
	return &orders[0], nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.OrderFilters) ([]model.Order, error) {
	orders := []model.Order{}

	conditions := []string{}
	args := []interface{}{}

	if f.StoreID != "" {
		conditions = append(conditions, "store_id = ?")
		args = append(args, f.StoreID)
	}
	if f.MemberID != "" {
		conditions = append(conditions, "member_id = ?")
		args = append(args, f.MemberID)
	}
	if !f.From.IsZero() {
		conditions = append(conditions, "created_at >= ?")
		args = append(args, f.From.UTC())
	}
	if !f.To.IsZero() {
		conditions = append(conditions, "created_at < ?")
		args = append(args, f.To.UTC())
	}

	query := "SELECT * FROM orders"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"

	if err := r.DB.SelectContext(ctx, &orders, r.DB.Rebind(query), args...); err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// loadItems fills Items of every order with one query.
func (r *PGRepository) loadItems(ctx context.Context, orders []model.Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]string, len(orders))
	index := make(map[string]int, len(orders))
	for i := range orders {
		ids[i] = orders[i].ID
		index[orders[i].ID] = i
		orders[i].Items = []model.OrderItem{}
	}

	query, args, err := sqlx.In(`SELECT * FROM order_items WHERE order_id IN (?) ORDER BY order_id, position`, ids)
	if err != nil {
		return err
	}

	var items []model.OrderItem
	if err := r.DB.SelectContext(ctx, &items, r.DB.Rebind(query), args...); err != nil {
		return fmt.Errorf("load order items: %w", err)
	}
	for _, item := range items {
		if i, ok := index[item.OrderID]; ok {
			orders[i].Items = append(orders[i].Items, item)
		}
	}
	return nil
}
