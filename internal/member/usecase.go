package member

import (
	"context"

	"github.com/fekuna/omnipos-register/internal/member/dto"
	"github.com/fekuna/omnipos-register/internal/model"
)

type UseCase interface {
	CreateMember(ctx context.Context, input *dto.CreateMemberInput) (*model.Member, error)
	GetMember(ctx context.Context, id string) (*model.Member, error)
	ListMembers(ctx context.Context, search string) ([]model.Member, error)
	UpdateMember(ctx context.Context, input *dto.UpdateMemberInput) (*model.Member, error)
	DeleteMember(ctx context.Context, id string) error

	// FindMember resolves the register's member lookup box.
	FindMember(ctx context.Context, query string) (*model.Member, error)
	GetStats(ctx context.Context, id string) (*dto.MemberStats, error)
}
