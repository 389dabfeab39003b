package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/fekuna/omnipos-register/internal/expense/dto"
	"github.com/fekuna/omnipos-register/internal/model"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, e *model.Expense) error {
	query := `
        INSERT INTO expenses (id, store_id, amount, reason, created_at, updated_at)
        VALUES (:id, :store_id, :amount, :reason, :created_at, :updated_at)
    `
	_, err := r.DB.NamedExecContext(ctx, query, e)
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Expense, error) {
	var e model.Expense
	err := r.DB.GetContext(ctx, &e, r.DB.Rebind(`SELECT * FROM expenses WHERE id = ?`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.ExpenseFilters) ([]model.Expense, error) {
	expenses := []model.Expense{}

	conditions := []string{}
	args := []interface{}{}
	if f.StoreID != "" {
		conditions = append(conditions, "store_id = ?")
		args = append(args, f.StoreID)
	}
	if !f.From.IsZero() {
		conditions = append(conditions, "created_at >= ?")
		args = append(args, f.From.UTC())
	}
	if !f.To.IsZero() {
		conditions = append(conditions, "created_at < ?")
		args = append(args, f.To.UTC())
	}

	query := "SELECT * FROM expenses"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"

	err := r.DB.SelectContext(ctx, &expenses, r.DB.Rebind(query), args...)
	return expenses, err
}

func (r *PGRepository) Update(ctx context.Context, e *model.Expense) error {
	query := `
        UPDATE expenses SET
            amount = :amount,
            reason = :reason,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := r.DB.NamedExecContext(ctx, query, e)
	return err
}
