package ledger

import (
	"context"

	"github.com/fekuna/omnipos-register/internal/ledger/dto"
)

type UseCase interface {
	Report(ctx context.Context, query *dto.ReportQuery) (*dto.Report, error)
}
