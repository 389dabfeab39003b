package member

import (
	"context"

	"github.com/fekuna/omnipos-register/internal/model"
)

type Repository interface {
	Create(ctx context.Context, m *model.Member) error
	FindByID(ctx context.Context, id string) (*model.Member, error)
	// FindAll lists members newest first, narrowed by a name/phone
	// substring when search is not empty.
	FindAll(ctx context.Context, search string) ([]model.Member, error)
	// FindFirstMatch returns the newest member whose name or phone contains
	// query, or nil.
	FindFirstMatch(ctx context.Context, query string) (*model.Member, error)
	Update(ctx context.Context, m *model.Member) error
	Delete(ctx context.Context, id string) error
}
