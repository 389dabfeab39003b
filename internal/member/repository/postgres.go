package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/fekuna/omnipos-register/internal/model"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, m *model.Member) error {
	query := `
        INSERT INTO members (id, name, phone, note, created_at, updated_at)
        VALUES (:id, :name, :phone, :note, :created_at, :updated_at)
    `
	_, err := r.DB.NamedExecContext(ctx, query, m)
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Member, error) {
	var m model.Member
	err := r.DB.GetContext(ctx, &m, r.DB.Rebind(`SELECT * FROM members WHERE id = ?`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (r *PGRepository) FindAll(ctx context.Context, search string) ([]model.Member, error) {
	members := []model.Member{}
	query, args := matchQuery(search)
	err := r.DB.SelectContext(ctx, &members, r.DB.Rebind(query), args...)
	return members, err
}

func (r *PGRepository) FindFirstMatch(ctx context.Context, q string) (*model.Member, error) {
	var m model.Member
	query, args := matchQuery(q)
	err := r.DB.GetContext(ctx, &m, r.DB.Rebind(query+" LIMIT 1"), args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func matchQuery(search string) (string, []interface{}) {
	query := "SELECT * FROM members"
	var args []interface{}
	if s := strings.TrimSpace(search); s != "" {
		pattern := "%" + strings.ToLower(s) + "%"
		query += " WHERE LOWER(name) LIKE ? OR LOWER(phone) LIKE ?"
		args = append(args, pattern, pattern)
	}
	return query + " ORDER BY created_at DESC", args
}

func (r *PGRepository) Update(ctx context.Context, m *model.Member) error {
	query := `
        UPDATE members SET
            name = :name,
            phone = :phone,
            note = :note,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := r.DB.NamedExecContext(ctx, query, m)
	return err
}

func (r *PGRepository) Delete(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, r.DB.Rebind(`DELETE FROM members WHERE id = ?`), id)
	return err
}
