package domain

import "time"

// RoutePlanRecord is the archive entry written when a planning session that
// completed at least one calculation is cleared or torn down. Viewport and
// selection state are deliberately not part of the record.
type RoutePlanRecord struct {
	ID          string       `json:"id"`
	SessionID   string       `json:"session_id"`
	Origin      Location     `json:"origin"`
	Destination Location     `json:"destination"`
	RouteType   RouteType    `json:"route_type"`
	Metrics     RouteMetrics `json:"metrics"`
	CreatedAt   time.Time    `json:"created_at"`
}
