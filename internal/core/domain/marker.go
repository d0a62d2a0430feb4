package domain

// MarkerCategory classifies a point of interest on the map.
type MarkerCategory string

const (
	MarkerOrigin      MarkerCategory = "origin"
	MarkerDestination MarkerCategory = "destination"
	MarkerWaypoint    MarkerCategory = "waypoint"
	MarkerToll        MarkerCategory = "toll"
	MarkerFuelStation MarkerCategory = "fuelStation"
)

// MarkerEntity is a point marker rendered on the map. Markers are created
// from a route-calculation response or a user location input and destroyed
// when the route session is cleared.
type MarkerEntity struct {
	ID          string            `json:"id"`
	Coordinate  Coordinate        `json:"coordinate"`
	Category    MarkerCategory    `json:"category"`
	DisplayData map[string]string `json:"display_data,omitempty"`
}

// Location is a named place from the geocoding/autocomplete service.
type Location struct {
	Name       string     `json:"name"`
	Address    string     `json:"address,omitempty"`
	Coordinate Coordinate `json:"coordinate"`
}
