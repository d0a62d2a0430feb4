package ports

import (
	"context"

	"github.com/rutamapa/rutamapa/internal/core/domain"
)

// EventPublisher publishes session events to a message broker.
type EventPublisher interface {
	PublishViewportSettled(ctx context.Context, ev *domain.ViewportSettledEvent) error
	PublishSelectionChanged(ctx context.Context, ev *domain.SelectionChangedEvent) error
	PublishRoutesLoaded(ctx context.Context, ev *domain.RoutesLoadedEvent) error
	PublishSessionCleared(ctx context.Context, ev *domain.SessionClearedEvent) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}

// Geocoder resolves free-text place queries to location records. Backed by
// an external geocoding/autocomplete service.
type Geocoder interface {
	Search(ctx context.Context, query string, near *domain.Coordinate, limit int) ([]domain.Location, error)
}
