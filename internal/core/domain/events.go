package domain

import "time"

// ViewportSettledEvent is published when a move gesture quiets down and the
// debounced viewport commit fires.
type ViewportSettledEvent struct {
	SessionID string    `json:"session_id"`
	Viewport  Viewport  `json:"viewport"`
	Time      time.Time `json:"time"`
}

// SelectionChangedEvent is published whenever the selected route changes.
type SelectionChangedEvent struct {
	SessionID string         `json:"session_id"`
	Selection SelectionState `json:"selection"`
	Time      time.Time      `json:"time"`
}

// RoutesLoadedEvent is published when a calculation result replaces the
// route set.
type RoutesLoadedEvent struct {
	SessionID  string    `json:"session_id"`
	RouteCount int       `json:"route_count"`
	Seq        uint64    `json:"seq"`
	Time       time.Time `json:"time"`
}

// SessionClearedEvent is published when a session resets or tears down.
type SessionClearedEvent struct {
	SessionID string    `json:"session_id"`
	Archived  bool      `json:"archived"`
	Time      time.Time `json:"time"`
}
