package domain

// RouteType tags a calculated route alternative.
type RouteType string

const (
	RouteFastest     RouteType = "fastest"
	RouteShortest    RouteType = "shortest"
	RouteRecommended RouteType = "recommended"
	RouteAlternative RouteType = "alternative"
)

// RouteMetrics holds the cost figures computed by the route-calculation service.
type RouteMetrics struct {
	DistanceMeters  float64 `json:"distance_meters"`
	DurationSeconds float64 `json:"duration_seconds"`
	FuelCost        float64 `json:"fuel_cost"`
	TollCost        float64 `json:"toll_cost"`
	TotalCost       float64 `json:"total_cost"`
}

// RouteFeature is one candidate path with its geometry and metrics.
// Features are immutable once received; a new calculation replaces the
// whole set atomically.
type RouteFeature struct {
	ID       string       `json:"id"`
	Type     RouteType    `json:"type"`
	Geometry []Coordinate `json:"geometry"`
	Metrics  RouteMetrics `json:"metrics"`
}

// Bounds returns the box enclosing the route geometry.
func (r RouteFeature) Bounds(fallback BoundingBox) BoundingBox {
	return BoundsOf(r.Geometry, fallback)
}

// RouteStyle is the render style derived for one route.
type RouteStyle struct {
	LineWidth float64 `json:"line_width"`
	Opacity   float64 `json:"opacity"`
	Selected  bool    `json:"selected"`
}

// Line weights and opacities applied by the visualization state machine.
var (
	StyleSelected = RouteStyle{LineWidth: 6, Opacity: 1.0, Selected: true}
	StyleDimmed   = RouteStyle{LineWidth: 3, Opacity: 0.45, Selected: false}
)

// StyledRoute pairs a route with its derived render style.
type StyledRoute struct {
	Route RouteFeature `json:"route"`
	Style RouteStyle   `json:"style"`
}

// CalculationResult is the payload delivered by the external
// route-calculation service.
type CalculationResult struct {
	// Seq is the caller-assigned request sequence; results carrying a
	// sequence older than the last applied one are ignored.
	Seq          uint64         `json:"seq"`
	Routes       []RouteFeature `json:"routes"`
	TollPoints   []MarkerEntity `json:"toll_points,omitempty"`
	FuelStations []MarkerEntity `json:"fuel_stations,omitempty"`
	Summary      string         `json:"summary,omitempty"`
}
