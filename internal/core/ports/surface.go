package ports

import "github.com/rutamapa/rutamapa/internal/core/domain"

// MapSurface is the narrow command interface to the external rendering
// surface. The coordination core issues intents through it and never
// reaches into the renderer directly, keeping the logic rendering-library
// agnostic. Implementations forward the commands to the connected client.
type MapSurface interface {
	// FlyTo animates the camera to a coordinate.
	FlyTo(cmd domain.FlyToCommand) error
	// FitBounds frames a bounding box with screen-space padding.
	FitBounds(cmd domain.FitBoundsCommand) error
	// RenderRoutes replaces the route layer with the styled feature set.
	RenderRoutes(routes []domain.StyledRoute) error
	// RenderMarkers replaces the marker layer with the visible marker set.
	RenderMarkers(markers []domain.MarkerEntity) error
}
