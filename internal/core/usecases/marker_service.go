package usecases

import (
	"github.com/rutamapa/rutamapa/internal/core/domain"
)

// MarkerService owns the marker set of a session and the at-most-one open
// popup. Visibility filtering against the settled viewport bounds happens
// here, never on intermediate move frames.
// Not safe for concurrent use; the owning session serializes calls.
type MarkerService struct {
	markers []domain.MarkerEntity
	popupID string
}

// NewMarkerService starts with no markers and no open popup.
func NewMarkerService() *MarkerService {
	return &MarkerService{}
}

// ReplaceCategory swaps every marker of the given categories for the new
// set. A marker whose popup was open and which does not survive the swap
// has its popup closed.
func (s *MarkerService) ReplaceCategory(markers []domain.MarkerEntity, categories ...domain.MarkerCategory) {
	drop := make(map[domain.MarkerCategory]bool, len(categories))
	for _, c := range categories {
		drop[c] = true
	}

	kept := s.markers[:0]
	for _, m := range s.markers {
		if !drop[m.Category] {
			kept = append(kept, m)
		}
	}
	s.markers = append(kept, markers...)

	if s.popupID != "" && !s.exists(s.popupID) {
		s.popupID = ""
	}
}

// Remove deletes one marker, closing its popup if open.
func (s *MarkerService) Remove(id string) bool {
	for i, m := range s.markers {
		if m.ID == id {
			s.markers = append(s.markers[:i], s.markers[i+1:]...)
			if s.popupID == id {
				s.popupID = ""
			}
			return true
		}
	}
	return false
}

// Clear destroys all markers and closes any open popup.
func (s *MarkerService) Clear() {
	s.markers = nil
	s.popupID = ""
}

// OpenPopup opens the popup for id, implicitly closing any previously open
// one. Unknown marker ids are ignored.
func (s *MarkerService) OpenPopup(id string) bool {
	if !s.exists(id) {
		return false
	}
	s.popupID = id
	return true
}

// ClosePopup dismisses the open popup, if any. Map-level clicks land here.
func (s *MarkerService) ClosePopup() { s.popupID = "" }

// OpenPopupID returns the marker id of the open popup, empty when none.
func (s *MarkerService) OpenPopupID() string { return s.popupID }

// All returns the full marker set.
func (s *MarkerService) All() []domain.MarkerEntity { return s.markers }

// Visible culls markers outside the given bounds. A nil bounds means the
// surface has not reported a settled viewport yet; the filter fails open
// and returns the full candidate list rather than an empty one. The result
// is always a copy: callers hold it past the session lock, so it must not
// alias the backing array that ReplaceCategory and Remove rewrite.
func (s *MarkerService) Visible(bounds *domain.BoundingBox) []domain.MarkerEntity {
	if bounds == nil {
		out := make([]domain.MarkerEntity, len(s.markers))
		copy(out, s.markers)
		return out
	}
	out := make([]domain.MarkerEntity, 0, len(s.markers))
	for _, m := range s.markers {
		if bounds.Contains(m.Coordinate) {
			out = append(out, m)
		}
	}
	return out
}

// Coordinates returns every marker position, for camera fits.
func (s *MarkerService) Coordinates() []domain.Coordinate {
	coords := make([]domain.Coordinate, 0, len(s.markers))
	for _, m := range s.markers {
		coords = append(coords, m.Coordinate)
	}
	return coords
}

func (s *MarkerService) exists(id string) bool {
	for _, m := range s.markers {
		if m.ID == id {
			return true
		}
	}
	return false
}
