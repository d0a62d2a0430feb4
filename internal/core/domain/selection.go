package domain

// VisState names the route visualization state.
type VisState string

const (
	VisEmpty            VisState = "empty"
	VisLoadedUnselected VisState = "loaded-unselected"
	VisLoadedSelected   VisState = "loaded-selected"
)

// SelectionState is the selection snapshot exposed to the surrounding UI.
// It lives for one route-planning session and is reset on clear.
// If SelectedRouteID is set it always references an id present in the
// current route set.
type SelectionState struct {
	SelectedRouteID string `json:"selected_route_id,omitempty"`
	ShowAllRoutes   bool   `json:"show_all_routes"`
	OpenPopupMarker string `json:"open_popup_marker_id,omitempty"`
}

// SessionSnapshot is the full observable state of a map session.
type SessionSnapshot struct {
	ID        string         `json:"id"`
	State     VisState       `json:"state"`
	Selection SelectionState `json:"selection"`
	Viewport  Viewport       `json:"viewport"`
	IsMoving  bool           `json:"is_moving"`
	Loaded    bool           `json:"surface_loaded"`
	Routes    []StyledRoute  `json:"routes"`
	Markers   []MarkerEntity `json:"markers"`
}
