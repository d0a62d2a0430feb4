package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mmcloughlin/geohash"
	"go.opentelemetry.io/otel"

	"github.com/rutamapa/rutamapa/internal/core/domain"
	"github.com/rutamapa/rutamapa/internal/core/ports"
	"github.com/rutamapa/rutamapa/internal/pkg/metrics"
)

// geohash precision 4 buckets proximity-biased lookups into ~39km cells,
// coarse enough that nearby searches share cache entries.
const geocodeCellPrecision = 4

// GeocodeService resolves free-text place queries through an upstream
// geocoder, caching results keyed by normalized query and proximity cell.
type GeocodeService struct {
	geocoder ports.Geocoder
	cache    ports.CacheService
	ttl      time.Duration
	log      *slog.Logger
}

func NewGeocodeService(geocoder ports.Geocoder, cache ports.CacheService, ttl time.Duration, log *slog.Logger) *GeocodeService {
	return &GeocodeService{geocoder: geocoder, cache: cache, ttl: ttl, log: log}
}

// Search resolves query to candidate locations, optionally biased toward
// near. Cache failures degrade to an upstream call.
func (g *GeocodeService) Search(ctx context.Context, query string, near *domain.Coordinate, limit int) ([]domain.Location, error) {
	ctx, span := otel.Tracer("rutamapa").Start(ctx, "GeocodeService.Search")
	defer span.End()

	start := time.Now()
	defer func() {
		metrics.GeocodeDuration.Observe(time.Since(start).Seconds())
	}()

	if limit <= 0 {
		limit = 5
	}
	key := g.cacheKey(query, near, limit)

	if g.cache != nil {
		if raw, err := g.cache.Get(ctx, key); err == nil && len(raw) > 0 {
			var locs []domain.Location
			if err := json.Unmarshal(raw, &locs); err == nil {
				metrics.CacheHits.WithLabelValues("geocode").Inc()
				return locs, nil
			}
			g.log.Warn("discarding malformed geocode cache entry", "key", key)
		}
		metrics.CacheMisses.WithLabelValues("geocode").Inc()
	}

	locs, err := g.geocoder.Search(ctx, query, near, limit)
	if err != nil {
		return nil, fmt.Errorf("geocode %q: %w", query, err)
	}

	if g.cache != nil && len(locs) > 0 {
		if raw, err := json.Marshal(locs); err == nil {
			if err := g.cache.Set(ctx, key, raw, int(g.ttl.Seconds())); err != nil {
				g.log.Warn("failed to cache geocode result", "key", key, "error", err)
			}
		}
	}
	return locs, nil
}

func (g *GeocodeService) cacheKey(query string, near *domain.Coordinate, limit int) string {
	cell := "global"
	if near != nil && near.Valid() {
		cell = geohash.EncodeWithPrecision(near.Lat, near.Lon, geocodeCellPrecision)
	}
	q := strings.ToLower(strings.TrimSpace(query))
	return fmt.Sprintf("geocode:%s:%d:%s", cell, limit, q)
}
