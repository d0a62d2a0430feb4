package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rutamapa/rutamapa/internal/core/domain"
	"github.com/rutamapa/rutamapa/internal/core/ports"
	"github.com/rutamapa/rutamapa/internal/pkg/debounce"
	"github.com/rutamapa/rutamapa/internal/pkg/metrics"
)

// MapSession is the session-scoped state object for one map client. It owns
// the viewport, the route set, the marker set, and the selection state, and
// is the only place any of them mutate. Raw surface events and UI commands
// arrive as normalized intents through Apply; every intent is processed
// synchronously under the session mutex, so the last command processed wins
// and intermediate states are never exposed.
type MapSession struct {
	id        string
	log       *slog.Logger
	publisher ports.EventPublisher
	onArchive func(ctx context.Context, rec *domain.RoutePlanRecord)

	mu       sync.Mutex
	viewport *ViewportService
	routes   *RouteVisService
	markers  *MarkerService
	surface  ports.MapSurface

	origin         *domain.Location
	destination    *domain.Location
	hadCalculation bool

	createdAt  time.Time
	lastActive time.Time
	closed     bool
}

// NewMapSession constructs a session with its sub-controllers. publisher
// and onArchive may be nil; the session then skips those side effects.
func NewMapSession(
	id string,
	cfg ViewportConfig,
	timers debounce.TimerFactory,
	publisher ports.EventPublisher,
	onArchive func(ctx context.Context, rec *domain.RoutePlanRecord),
) *MapSession {
	now := time.Now()
	return &MapSession{
		id:         id,
		log:        slog.Default().With("session_id", id),
		publisher:  publisher,
		onArchive:  onArchive,
		viewport:   NewViewportService(cfg, timers),
		routes:     NewRouteVisService(),
		markers:    NewMarkerService(),
		createdAt:  now,
		lastActive: now,
	}
}

// ID returns the session identifier.
func (s *MapSession) ID() string { return s.id }

// AttachSurface connects the rendering surface channel. Current layer data
// is pushed immediately so a reconnecting client catches up.
func (s *MapSession) AttachSurface(surface ports.MapSurface) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.surface = surface
	s.pushRoutes()
	s.pushMarkers()
}

// DetachSurface disconnects the rendering surface; subsequent commands
// become no-ops until a new surface attaches.
func (s *MapSession) DetachSurface() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.surface = nil
}

// Apply processes one normalized intent against session state.
func (s *MapSession) Apply(ctx context.Context, intent domain.Intent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("session %s is closed", s.id)
	}
	s.lastActive = time.Now()
	metrics.IntentsProcessed.WithLabelValues(string(intent.Kind)).Inc()

	switch intent.Kind {
	case domain.IntentSurfaceLoaded:
		s.viewport.MarkLoaded()
		s.pushRoutes()
		s.pushMarkers()
		s.log.Debug("surface loaded")

	case domain.IntentMove:
		if intent.Viewport == nil {
			return fmt.Errorf("move intent without viewport")
		}
		s.viewport.OnMove(*intent.Viewport, intent.Bounds, func() { s.settle(context.Background()) })

	case domain.IntentClickMarker:
		if intent.MarkerID == "" {
			return fmt.Errorf("clickMarker intent without marker id")
		}
		s.markers.OpenPopup(intent.MarkerID)

	case domain.IntentClickMap, domain.IntentClosePopup:
		s.markers.ClosePopup()

	case domain.IntentSelectRoute:
		if s.routes.SelectRoute(intent.RouteID) {
			s.publishSelection(ctx)
			s.pushRoutes()
		}

	case domain.IntentToggleShowAll:
		s.routes.ToggleShowAll()
		s.publishSelection(ctx)
		s.pushRoutes()

	case domain.IntentLoadRoutes:
		s.applyRoutes(ctx, intent.Routes)

	case domain.IntentSetLocations:
		s.applyLocations(intent.Locations)

	case domain.IntentClear:
		s.clearLocked(ctx)

	default:
		return fmt.Errorf("unknown intent kind %q", intent.Kind)
	}
	return nil
}

// applyRoutes replaces the route set from a calculation result. Empty or
// malformed results leave the session in (or reset to) the empty state
// without error; stale results are dropped.
func (s *MapSession) applyRoutes(ctx context.Context, res *domain.CalculationResult) {
	if res == nil || len(res.Routes) == 0 {
		s.routes.Clear()
		s.markers.ReplaceCategory(nil, domain.MarkerToll, domain.MarkerFuelStation)
		s.pushRoutes()
		s.pushMarkers()
		return
	}

	if !s.routes.LoadRoutes(res) {
		metrics.StaleResultsDropped.Inc()
		s.log.Debug("dropped stale calculation result", "seq", res.Seq)
		return
	}
	s.hadCalculation = true

	poi := make([]domain.MarkerEntity, 0, len(res.TollPoints)+len(res.FuelStations))
	poi = append(poi, withIDs(res.TollPoints, domain.MarkerToll)...)
	poi = append(poi, withIDs(res.FuelStations, domain.MarkerFuelStation)...)
	s.markers.ReplaceCategory(poi, domain.MarkerToll, domain.MarkerFuelStation)

	s.publishEvent(ctx, func(p ports.EventPublisher) error {
		return p.PublishRoutesLoaded(ctx, &domain.RoutesLoadedEvent{
			SessionID: s.id, RouteCount: len(res.Routes), Seq: res.Seq, Time: time.Now(),
		})
	})
	s.publishSelection(ctx)

	s.fitAll()
	s.pushRoutes()
	s.pushMarkers()
	s.log.Info("routes loaded", "count", len(res.Routes), "seq", res.Seq,
		"selected", s.routes.Selected())
}

// applyLocations turns geocoded location records into origin, destination
// and waypoint markers, then frames them.
func (s *MapSession) applyLocations(locs []domain.Location) {
	if len(locs) == 0 {
		return
	}

	markers := make([]domain.MarkerEntity, 0, len(locs))
	for i, loc := range locs {
		cat := domain.MarkerWaypoint
		switch {
		case i == 0:
			cat = domain.MarkerOrigin
		case i == len(locs)-1 && len(locs) > 1:
			cat = domain.MarkerDestination
		}
		markers = append(markers, domain.MarkerEntity{
			ID:         uuid.NewString(),
			Coordinate: loc.Coordinate,
			Category:   cat,
			DisplayData: map[string]string{
				"name":    loc.Name,
				"address": loc.Address,
			},
		})
	}

	first, last := locs[0], locs[len(locs)-1]
	s.origin = &first
	s.destination = nil
	if len(locs) > 1 {
		s.destination = &last
	}

	s.markers.ReplaceCategory(markers,
		domain.MarkerOrigin, domain.MarkerDestination, domain.MarkerWaypoint)

	if len(locs) == 1 {
		if cmd, ok := s.viewport.FlyTo(locs[0].Coordinate, 0); ok && s.surface != nil {
			_ = s.surface.FlyTo(cmd)
		}
	} else {
		s.fitAll()
	}
	s.pushMarkers()
}

// clearLocked resets the route-planning state: routes, markers, selection
// and any open popup. The camera stays where it is. A session that
// completed at least one calculation is archived first.
func (s *MapSession) clearLocked(ctx context.Context) {
	archived := s.archiveLocked(ctx)

	s.routes.Clear()
	s.markers.Clear()
	s.origin = nil
	s.destination = nil
	s.hadCalculation = false

	s.publishEvent(ctx, func(p ports.EventPublisher) error {
		return p.PublishSessionCleared(ctx, &domain.SessionClearedEvent{
			SessionID: s.id, Archived: archived, Time: time.Now(),
		})
	})

	s.pushRoutes()
	s.pushMarkers()
	s.log.Info("session cleared", "archived", archived)
}

// settle runs when the move debouncer fires: commit the settled viewport,
// recompute marker visibility, and announce quiescence.
func (s *MapSession) settle(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	vp, ok := s.viewport.CommitMove()
	if !ok {
		return
	}
	metrics.DebounceCommits.Inc()

	s.pushMarkers()
	s.publishEvent(ctx, func(p ports.EventPublisher) error {
		return p.PublishViewportSettled(ctx, &domain.ViewportSettledEvent{
			SessionID: s.id, Viewport: vp, Time: time.Now(),
		})
	})
	s.log.Debug("viewport settled", "zoom", vp.Zoom)
}

// Snapshot returns the full observable session state.
func (s *MapSession) Snapshot() domain.SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.SessionSnapshot{
		ID:        s.id,
		State:     s.routes.State(),
		Selection: s.selectionLocked(),
		Viewport:  s.viewport.Viewport(),
		IsMoving:  s.viewport.IsMoving(),
		Loaded:    s.viewport.Loaded(),
		Routes:    s.routes.RenderSet(),
		Markers:   s.markers.Visible(s.viewport.Bounds()),
	}
}

// IdleSince returns the time of the last processed intent.
func (s *MapSession) IdleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// Close tears the session down: cancels the armed debounce timer so no
// commit fires after the owner is gone, archives a completed plan, and
// publishes the teardown event. Close is idempotent.
func (s *MapSession) Close(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	s.viewport.Teardown()

	archived := s.archiveLocked(ctx)
	s.publishEvent(ctx, func(p ports.EventPublisher) error {
		return p.PublishSessionCleared(ctx, &domain.SessionClearedEvent{
			SessionID: s.id, Archived: archived, Time: time.Now(),
		})
	})
	s.surface = nil
	s.log.Info("session closed", "archived", archived)
}

// --- internal helpers (callers hold s.mu) ---

func (s *MapSession) selectionLocked() domain.SelectionState {
	return domain.SelectionState{
		SelectedRouteID: s.routes.Selected(),
		ShowAllRoutes:   s.routes.ShowAll(),
		OpenPopupMarker: s.markers.OpenPopupID(),
	}
}

// fitAll frames everything currently on the map: route geometries plus
// markers, falling back to the configured default region.
func (s *MapSession) fitAll() {
	coords := append(s.routes.AllCoordinates(), s.markers.Coordinates()...)
	box := domain.BoundsOf(coords, s.viewport.cfg.DefaultRegion)
	if cmd, ok := s.viewport.FitBounds(box); ok && s.surface != nil {
		_ = s.surface.FitBounds(cmd)
	}
}

func (s *MapSession) pushRoutes() {
	if s.surface == nil || !s.viewport.Loaded() {
		return
	}
	_ = s.surface.RenderRoutes(s.routes.RenderSet())
}

func (s *MapSession) pushMarkers() {
	if s.surface == nil || !s.viewport.Loaded() {
		return
	}
	_ = s.surface.RenderMarkers(s.markers.Visible(s.viewport.Bounds()))
}

func (s *MapSession) publishSelection(ctx context.Context) {
	sel := s.selectionLocked()
	s.publishEvent(ctx, func(p ports.EventPublisher) error {
		return p.PublishSelectionChanged(ctx, &domain.SelectionChangedEvent{
			SessionID: s.id, Selection: sel, Time: time.Now(),
		})
	})
}

func (s *MapSession) publishEvent(ctx context.Context, fn func(ports.EventPublisher) error) {
	if s.publisher == nil {
		return
	}
	if err := fn(s.publisher); err != nil {
		s.log.Warn("publish event", "error", err)
	}
}

// archiveLocked hands a completed plan to the archive hook. It returns
// whether a record was produced.
func (s *MapSession) archiveLocked(ctx context.Context) bool {
	if s.onArchive == nil || !s.hadCalculation {
		return false
	}
	if s.origin == nil || s.destination == nil {
		return false
	}
	route, ok := s.routes.SelectedRoute()
	if !ok {
		return false
	}

	s.onArchive(ctx, &domain.RoutePlanRecord{
		ID:          uuid.NewString(),
		SessionID:   s.id,
		Origin:      *s.origin,
		Destination: *s.destination,
		RouteType:   route.Type,
		Metrics:     route.Metrics,
		CreatedAt:   time.Now(),
	})
	return true
}

// withIDs assigns the category and fresh ids to markers arriving from a
// calculation result without them.
func withIDs(markers []domain.MarkerEntity, cat domain.MarkerCategory) []domain.MarkerEntity {
	out := make([]domain.MarkerEntity, len(markers))
	for i, m := range markers {
		if m.ID == "" {
			m.ID = uuid.NewString()
		}
		m.Category = cat
		out[i] = m
	}
	return out
}
