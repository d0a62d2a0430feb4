package domain

// FlyToCommand is an imperative camera move handed to the rendering surface.
// Zoom <= 0 keeps the surface's current zoom.
type FlyToCommand struct {
	Center     Coordinate `json:"center"`
	Zoom       float64    `json:"zoom,omitempty"`
	DurationMs int        `json:"duration_ms"`
}

// FitBoundsCommand asks the rendering surface to frame a box. Padding is
// screen-space pixels applied by the surface, keeping bounds math purely
// geometric. MaxZoom caps the fit so a degenerate box never zooms in
// indefinitely.
type FitBoundsCommand struct {
	Box        BoundingBox `json:"box"`
	PaddingPx  int         `json:"padding_px"`
	MaxZoom    float64     `json:"max_zoom,omitempty"`
	DurationMs int         `json:"duration_ms"`
}
