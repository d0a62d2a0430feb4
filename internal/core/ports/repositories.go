package ports

import (
	"context"

	"github.com/rutamapa/rutamapa/internal/core/domain"
)

// RoutePlanRepository archives completed route plans.
type RoutePlanRepository interface {
	Insert(ctx context.Context, rec *domain.RoutePlanRecord) error
	GetByID(ctx context.Context, id string) (*domain.RoutePlanRecord, error)
	// ListRecent returns one page of archived plans, most recent first,
	// along with the total number of archived plans.
	ListRecent(ctx context.Context, offset, limit int) ([]domain.RoutePlanRecord, int, error)
}
