package domain

// IntentKind is the closed set of normalized intents a map session accepts.
// Raw surface events (clicks, move notifications) and UI commands are
// normalized into one of these before touching session state.
type IntentKind string

const (
	IntentSurfaceLoaded IntentKind = "surfaceLoaded"
	IntentMove          IntentKind = "move"
	IntentClickMarker   IntentKind = "clickMarker"
	IntentClickMap      IntentKind = "clickMap"
	IntentSelectRoute   IntentKind = "selectRoute"
	IntentToggleShowAll IntentKind = "toggleShowAll"
	IntentLoadRoutes    IntentKind = "loadRoutes"
	IntentSetLocations  IntentKind = "setLocations"
	IntentClosePopup    IntentKind = "closePopup"
	IntentClear         IntentKind = "clear"
)

// Intent is one normalized session command. Only the fields relevant to
// the kind are populated.
type Intent struct {
	Kind      IntentKind         `json:"kind"`
	Viewport  *Viewport          `json:"viewport,omitempty"`  // move
	Bounds    *BoundingBox       `json:"bounds,omitempty"`    // move: current surface bounds
	MarkerID  string             `json:"marker_id,omitempty"` // clickMarker
	RouteID   string             `json:"route_id,omitempty"`  // selectRoute
	Routes    *CalculationResult `json:"routes,omitempty"`    // loadRoutes
	Locations []Location         `json:"locations,omitempty"` // setLocations
}
