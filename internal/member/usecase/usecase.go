package usecase

import (
	"context"
	"errors"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/fekuna/omnipos-register/internal/logger"
	"github.com/fekuna/omnipos-register/internal/member"
	"github.com/fekuna/omnipos-register/internal/member/dto"
	"github.com/fekuna/omnipos-register/internal/model"
	"github.com/fekuna/omnipos-register/internal/money"
	orderdto "github.com/fekuna/omnipos-register/internal/order/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrMemberNotFound = errors.New("member not found")
	ErrNameRequired   = errors.New("member name is required")
	ErrPhoneRequired  = errors.New("member phone is required")
)

// OrderLister reads the order history used for member statistics.
type OrderLister interface {
	ListOrders(ctx context.Context, filters *orderdto.OrderFilters) ([]model.Order, error)
}

type memberUseCase struct {
	repo   member.Repository
	orders OrderLister
	logger logger.ZapLogger
}

func NewMemberUseCase(repo member.Repository, orders OrderLister, log logger.ZapLogger) member.UseCase {
	return &memberUseCase{
		repo:   repo,
		orders: orders,
		logger: log,
	}
}

func validate(name, phone string) error {
	if name == "" {
		return ErrNameRequired
	}
	if phone == "" {
		return ErrPhoneRequired
	}
	return nil
}

func (uc *memberUseCase) CreateMember(ctx context.Context, input *dto.CreateMemberInput) (*model.Member, error) {
	name, phone := strings.TrimSpace(input.Name), strings.TrimSpace(input.Phone)
	if err := validate(name, phone); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	m := &model.Member{
		BaseModel: model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		Name:      name,
		Phone:     phone,
		Note:      strings.TrimSpace(input.Note),
	}
	if err := uc.repo.Create(ctx, m); err != nil {
		return nil, err
	}

	uc.logger.Info("member created", zap.String("member_id", m.ID))
	return m, nil
}

func (uc *memberUseCase) GetMember(ctx context.Context, id string) (*model.Member, error) {
	m, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrMemberNotFound
	}
	return m, nil
}

func (uc *memberUseCase) ListMembers(ctx context.Context, search string) ([]model.Member, error) {
	return uc.repo.FindAll(ctx, search)
}

func (uc *memberUseCase) UpdateMember(ctx context.Context, input *dto.UpdateMemberInput) (*model.Member, error) {
	name, phone := strings.TrimSpace(input.Name), strings.TrimSpace(input.Phone)
	if err := validate(name, phone); err != nil {
		return nil, err
	}

	m, err := uc.GetMember(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	m.Name = name
	m.Phone = phone
	m.Note = strings.TrimSpace(input.Note)
	m.UpdatedAt = time.Now().UTC()

	if err := uc.repo.Update(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// DeleteMember keeps the member's orders; they lose the link.
func (uc *memberUseCase) DeleteMember(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}

func (uc *memberUseCase) FindMember(ctx context.Context, query string) (*model.Member, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrMemberNotFound
	}
	m, err := uc.repo.FindFirstMatch(ctx, query)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrMemberNotFound
	}
	return m, nil
}

func (uc *memberUseCase) GetStats(ctx context.Context, id string) (*dto.MemberStats, error) {
	if _, err := uc.GetMember(ctx, id); err != nil {
		return nil, err
	}
	orders, err := uc.orders.ListOrders(ctx, &orderdto.OrderFilters{MemberID: id})
	if err != nil {
		return nil, err
	}
	return Stats(orders), nil
}

// Stats totals orders and derives the average spend (rounded to whole
// units) and the mean number of days between the first and last visit.
func Stats(orders []model.Order) *dto.MemberStats {
	stats := &dto.MemberStats{
		Total:   decimal.Zero,
		Average: decimal.Zero,
		Count:   len(orders),
		Orders:  orders,
	}
	if len(orders) == 0 {
		return stats
	}

	dates := make([]time.Time, 0, len(orders))
	for _, o := range orders {
		stats.Total = stats.Total.Add(o.TotalAmount)
		dates = append(dates, o.CreatedAt)
	}
	stats.Average = money.Round(stats.Total.Div(decimal.NewFromInt(int64(len(orders)))))

	if len(dates) > 1 {
		sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
		spanDays := math.Ceil(dates[len(dates)-1].Sub(dates[0]).Hours() / 24)
		interval := int(math.Round(spanDays / float64(len(dates)-1)))
		stats.VisitIntervalDays = &interval
	}
	return stats
}
