package usecases

import (
	"github.com/rutamapa/rutamapa/internal/core/domain"
)

// RouteVisService tracks which calculated routes are shown and how. It is a
// small state machine over the route set: empty, loaded-unselected, or
// loaded-selected. The route set is replaced atomically on every completed
// calculation; stale results (lower sequence than the last applied one) are
// rejected so a superseded response never overwrites a newer one.
// Not safe for concurrent use; the owning session serializes calls.
type RouteVisService struct {
	routes   []domain.RouteFeature
	index    map[string]int
	selected string
	showAll  bool
	lastSeq  uint64
	applied  bool
}

// NewRouteVisService starts in the empty state with all alternatives shown.
func NewRouteVisService() *RouteVisService {
	return &RouteVisService{index: map[string]int{}, showAll: true}
}

// State returns the current visualization state.
func (s *RouteVisService) State() domain.VisState {
	switch {
	case len(s.routes) == 0:
		return domain.VisEmpty
	case s.selected == "":
		return domain.VisLoadedUnselected
	default:
		return domain.VisLoadedSelected
	}
}

// LoadRoutes replaces the route set with a calculation result. It returns
// false when the result is nil, empty, or older than the last applied one.
// A surviving selection is kept; otherwise the recommended route is
// auto-selected if one exists, else selection stays empty.
func (s *RouteVisService) LoadRoutes(res *domain.CalculationResult) bool {
	if res == nil || len(res.Routes) == 0 {
		return false
	}
	if s.applied && res.Seq < s.lastSeq {
		return false
	}

	s.routes = make([]domain.RouteFeature, len(res.Routes))
	copy(s.routes, res.Routes)
	s.index = make(map[string]int, len(s.routes))
	for i, r := range s.routes {
		s.index[r.ID] = i
	}
	s.lastSeq = res.Seq
	s.applied = true

	if _, ok := s.index[s.selected]; !ok {
		s.selected = ""
		for _, r := range s.routes {
			if r.Type == domain.RouteRecommended {
				s.selected = r.ID
				break
			}
		}
	}
	return true
}

// SelectRoute makes id the selection. Ids absent from the current set are
// ignored and the prior selection is retained.
func (s *RouteVisService) SelectRoute(id string) bool {
	if _, ok := s.index[id]; !ok {
		return false
	}
	s.selected = id
	return true
}

// ToggleShowAll flips whether non-selected alternatives are rendered and
// returns the new value.
func (s *RouteVisService) ToggleShowAll() bool {
	s.showAll = !s.showAll
	return s.showAll
}

// Clear resets to the empty state. The applied sequence survives so a
// response from before the clear still cannot be applied out of order.
func (s *RouteVisService) Clear() {
	s.routes = nil
	s.index = map[string]int{}
	s.selected = ""
	s.showAll = true
}

// Selected returns the selected route id, empty when none.
func (s *RouteVisService) Selected() string { return s.selected }

// ShowAll reports whether non-selected alternatives are rendered.
func (s *RouteVisService) ShowAll() bool { return s.showAll }

// Routes returns the current route set.
func (s *RouteVisService) Routes() []domain.RouteFeature { return s.routes }

// SelectedRoute returns the selected feature when one is selected.
func (s *RouteVisService) SelectedRoute() (domain.RouteFeature, bool) {
	i, ok := s.index[s.selected]
	if !ok {
		return domain.RouteFeature{}, false
	}
	return s.routes[i], true
}

// RenderSet derives the styled feature set handed to the rendering surface.
// The selected route gets full weight and opacity, the rest are dimmed.
// With showAll off, only the selected route (or the first one when nothing
// is selected) is emitted; the others are omitted entirely.
func (s *RouteVisService) RenderSet() []domain.StyledRoute {
	if len(s.routes) == 0 {
		return nil
	}

	if !s.showAll {
		r := s.routes[0]
		if i, ok := s.index[s.selected]; ok {
			r = s.routes[i]
		}
		return []domain.StyledRoute{{Route: r, Style: domain.StyleSelected}}
	}

	out := make([]domain.StyledRoute, 0, len(s.routes))
	for _, r := range s.routes {
		style := domain.StyleDimmed
		if r.ID == s.selected {
			style = domain.StyleSelected
		}
		out = append(out, domain.StyledRoute{Route: r, Style: style})
	}
	return out
}

// AllCoordinates flattens every route geometry, for camera fits.
func (s *RouteVisService) AllCoordinates() []domain.Coordinate {
	var coords []domain.Coordinate
	for _, r := range s.routes {
		coords = append(coords, r.Geometry...)
	}
	return coords
}
