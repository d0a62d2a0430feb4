package usecases

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rutamapa/rutamapa/internal/core/domain"
	"github.com/rutamapa/rutamapa/internal/core/ports"
	"github.com/rutamapa/rutamapa/internal/pkg/metrics"
)

// HistoryService archives completed route plans and serves lookups over the
// archive. Archive is fire-and-forget from the session's point of view.
type HistoryService struct {
	repo ports.RoutePlanRepository
	log  *slog.Logger
}

func NewHistoryService(repo ports.RoutePlanRepository, log *slog.Logger) *HistoryService {
	return &HistoryService{repo: repo, log: log}
}

// Archive persists a completed plan. Failures are logged, not surfaced;
// losing an archive entry never breaks the session teardown path.
func (h *HistoryService) Archive(ctx context.Context, rec *domain.RoutePlanRecord) {
	if rec == nil {
		return
	}
	if err := h.repo.Insert(ctx, rec); err != nil {
		h.log.Error("failed to archive route plan",
			"plan_id", rec.ID, "session_id", rec.SessionID, "error", err)
		return
	}
	metrics.PlansArchived.Inc()
}

// GetByID fetches one archived plan.
func (h *HistoryService) GetByID(ctx context.Context, id string) (*domain.RoutePlanRecord, error) {
	rec, err := h.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get route plan %s: %w", id, err)
	}
	return rec, nil
}

// ListRecent returns one page of archived plans, most recent first, and the
// total archive size. The page size is clamped; the offset is not, so deep
// pages stay reachable.
func (h *HistoryService) ListRecent(ctx context.Context, offset, limit int) ([]domain.RoutePlanRecord, int, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	recs, total, err := h.repo.ListRecent(ctx, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list route plans: %w", err)
	}
	return recs, total, nil
}
