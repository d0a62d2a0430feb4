package usecases

import (
	"time"

	"github.com/rutamapa/rutamapa/internal/core/domain"
	"github.com/rutamapa/rutamapa/internal/pkg/debounce"
	"github.com/rutamapa/rutamapa/internal/pkg/geospatial"
)

// ViewportConfig holds camera limits and timings for one map session.
type ViewportConfig struct {
	MinZoom       float64
	MaxZoom       float64
	FitPaddingPx  int
	FitMaxZoom    float64
	FlyDuration   time.Duration
	FitDuration   time.Duration
	DebounceDelay time.Duration
	DefaultRegion domain.BoundingBox
}

// minFitSpanMeters is the box diagonal below which a camera fit gets the
// configured zoom cap, so framing a single point never zooms in
// indefinitely.
const minFitSpanMeters = 500.0

// ViewportService owns the single Viewport of a map session. All camera
// state flows through it: raw move notifications are debounced into settled
// commits, and fly/fit intents become commands for the rendering surface.
// Not safe for concurrent use; the owning session serializes calls.
type ViewportService struct {
	cfg ViewportConfig
	deb *debounce.Debouncer

	vp      domain.Viewport
	bounds  *domain.BoundingBox
	pending domain.Viewport
	pBounds *domain.BoundingBox
	moving  bool
	loaded  bool
}

// NewViewportService creates the camera controller for one session. A nil
// timer factory selects wall-clock timers.
func NewViewportService(cfg ViewportConfig, timers debounce.TimerFactory) *ViewportService {
	return &ViewportService{
		cfg: cfg,
		deb: debounce.New(cfg.DebounceDelay, timers),
		vp: domain.Viewport{
			Center: cfg.DefaultRegion.Center(),
			Zoom:   cfg.MinZoom,
		},
	}
}

// MarkLoaded records that the rendering surface finished loading. Camera
// commands issued before this are silent no-ops.
func (s *ViewportService) MarkLoaded() { s.loaded = true }

// Loaded reports whether the rendering surface has signalled load-complete.
func (s *ViewportService) Loaded() bool { return s.loaded }

// IsMoving reports whether a move gesture is in flight.
func (s *ViewportService) IsMoving() bool { return s.moving }

// Viewport returns the last settled camera state.
func (s *ViewportService) Viewport() domain.Viewport { return s.vp }

// Bounds returns the surface bounds of the last settled viewport, or nil
// when the surface has not reported any yet.
func (s *ViewportService) Bounds() *domain.BoundingBox { return s.bounds }

// OnMove handles one raw camera-move notification. It synchronously flags
// movement so dependent systems can suppress expensive work, then
// cancels and rearms the settle timer; settle runs once the gesture
// quiets down. Nothing else happens on this hot path.
func (s *ViewportService) OnMove(raw domain.Viewport, bounds *domain.BoundingBox, settle func()) {
	s.moving = true
	s.pending = raw
	s.pBounds = bounds
	s.deb.Trigger(settle)
}

// CommitMove publishes the settled viewport after the debouncer fires. It
// returns false when a newer gesture rearmed the timer in the meantime, so
// an older settled viewport can never overtake a newer one.
func (s *ViewportService) CommitMove() (domain.Viewport, bool) {
	if s.deb.Pending() {
		return domain.Viewport{}, false
	}
	s.vp = s.pending
	s.bounds = s.pBounds
	s.moving = false
	return s.vp, true
}

// FlyTo builds a camera move command. ok is false before the surface has
// loaded. zoom <= 0 keeps the surface's current zoom; otherwise it is
// clamped to the configured range.
func (s *ViewportService) FlyTo(center domain.Coordinate, zoom float64) (domain.FlyToCommand, bool) {
	if !s.loaded {
		return domain.FlyToCommand{}, false
	}
	if zoom > 0 {
		zoom = s.clampZoom(zoom)
	}
	return domain.FlyToCommand{
		Center:     center,
		Zoom:       zoom,
		DurationMs: int(s.cfg.FlyDuration.Milliseconds()),
	}, true
}

// FitBounds builds a camera fit command with the configured screen-space
// padding. Small or degenerate boxes carry the fit zoom cap. ok is false
// before the surface has loaded.
func (s *ViewportService) FitBounds(box domain.BoundingBox) (domain.FitBoundsCommand, bool) {
	if !s.loaded {
		return domain.FitBoundsCommand{}, false
	}

	cmd := domain.FitBoundsCommand{
		Box:        box,
		PaddingPx:  s.cfg.FitPaddingPx,
		DurationMs: int(s.cfg.FitDuration.Milliseconds()),
	}

	span := geospatial.DiagonalMeters(box.SW.Lat, box.SW.Lon, box.NE.Lat, box.NE.Lon)
	if box.Degenerate() || span < minFitSpanMeters {
		cmd.MaxZoom = s.cfg.FitMaxZoom
	}
	return cmd, true
}

// Teardown cancels any armed settle timer; no commit fires afterward.
func (s *ViewportService) Teardown() {
	s.deb.Cancel()
	s.moving = false
}

func (s *ViewportService) clampZoom(z float64) float64 {
	if z < s.cfg.MinZoom {
		return s.cfg.MinZoom
	}
	if z > s.cfg.MaxZoom {
		return s.cfg.MaxZoom
	}
	return z
}
