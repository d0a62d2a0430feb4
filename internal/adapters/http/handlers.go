package http

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/rutamapa/rutamapa/internal/core/domain"
)

var validate = validator.New()

// --- Request payloads ---

type coordinatePayload struct {
	Lon float64 `json:"lon" validate:"min=-180,max=180"`
	Lat float64 `json:"lat" validate:"min=-90,max=90"`
}

func (p coordinatePayload) toDomain() domain.Coordinate {
	return domain.Coordinate{Lon: p.Lon, Lat: p.Lat}
}

type boundsPayload struct {
	SW coordinatePayload `json:"sw" validate:"required"`
	NE coordinatePayload `json:"ne" validate:"required"`
}

func (p *boundsPayload) toDomain() *domain.BoundingBox {
	if p == nil {
		return nil
	}
	return &domain.BoundingBox{SW: p.SW.toDomain(), NE: p.NE.toDomain()}
}

type viewportPayload struct {
	Center  coordinatePayload `json:"center" validate:"required"`
	Zoom    float64           `json:"zoom" validate:"min=0,max=24"`
	Bearing float64           `json:"bearing"`
	Pitch   float64           `json:"pitch"`
}

// intentRequest covers the event-like intents. Route results and location
// sets arrive through their own endpoints.
type intentRequest struct {
	Kind     string           `json:"kind" validate:"required,oneof=surfaceLoaded move clickMarker clickMap selectRoute toggleShowAll closePopup clear"`
	Viewport *viewportPayload `json:"viewport" validate:"omitempty"`
	Bounds   *boundsPayload   `json:"bounds" validate:"omitempty"`
	MarkerID string           `json:"marker_id"`
	RouteID  string           `json:"route_id"`
}

func (r intentRequest) toDomain() domain.Intent {
	intent := domain.Intent{
		Kind:     domain.IntentKind(r.Kind),
		Bounds:   r.Bounds.toDomain(),
		MarkerID: r.MarkerID,
		RouteID:  r.RouteID,
	}
	if r.Viewport != nil {
		intent.Viewport = &domain.Viewport{
			Center:  r.Viewport.Center.toDomain(),
			Zoom:    r.Viewport.Zoom,
			Bearing: r.Viewport.Bearing,
			Pitch:   r.Viewport.Pitch,
		}
	}
	return intent
}

type routePayload struct {
	ID       string              `json:"id" validate:"required"`
	Type     string              `json:"type" validate:"required,oneof=fastest shortest recommended alternative"`
	Geometry []coordinatePayload `json:"geometry" validate:"dive"`
	Metrics  domain.RouteMetrics `json:"metrics"`
}

type poiPayload struct {
	Coordinate  coordinatePayload `json:"coordinate" validate:"required"`
	DisplayData map[string]string `json:"display_data"`
}

type loadRoutesRequest struct {
	Seq          uint64         `json:"seq"`
	Routes       []routePayload `json:"routes" validate:"dive"`
	TollPoints   []poiPayload   `json:"toll_points" validate:"dive"`
	FuelStations []poiPayload   `json:"fuel_stations" validate:"dive"`
	Summary      string         `json:"summary"`
}

type locationPayload struct {
	Name       string            `json:"name" validate:"required"`
	Address    string            `json:"address"`
	Coordinate coordinatePayload `json:"coordinate" validate:"required"`
}

type setLocationsRequest struct {
	Locations []locationPayload `json:"locations" validate:"required,min=1,max=25,dive"`
}

// --- Session lifecycle ---

// CreateSessionHandler starts a new map session.
func CreateSessionHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s := deps.Sessions.Create()
		return c.Status(201).JSON(s.Snapshot())
	}
}

// GetSessionHandler returns the full observable state of a session.
func GetSessionHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, ok := deps.Sessions.Get(c.Params("id"))
		if !ok {
			return errNotFound(c, "session not found")
		}
		return c.JSON(s.Snapshot())
	}
}

// DeleteSessionHandler tears a session down.
func DeleteSessionHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !deps.Sessions.Remove(c.Context(), c.Params("id")) {
			return errNotFound(c, "session not found")
		}
		return c.SendStatus(204)
	}
}

// --- Intents ---

// SessionIntentHandler applies one event-like intent to a session and
// returns the resulting snapshot.
func SessionIntentHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, ok := deps.Sessions.Get(c.Params("id"))
		if !ok {
			return errNotFound(c, "session not found")
		}

		var req intentRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid JSON body")
		}
		if err := validate.Struct(req); err != nil {
			return errUnprocessable(c, err.Error())
		}

		if err := s.Apply(c.Context(), req.toDomain()); err != nil {
			return errBadRequest(c, err.Error())
		}
		return c.JSON(s.Snapshot())
	}
}

// LoadRoutesHandler delivers a route calculation result to a session. An
// empty route set resets the visualization. Results older than the last
// applied one are dropped silently; the snapshot tells the caller what
// actually took effect.
func LoadRoutesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, ok := deps.Sessions.Get(c.Params("id"))
		if !ok {
			return errNotFound(c, "session not found")
		}

		var req loadRoutesRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid JSON body")
		}
		if err := validate.Struct(req); err != nil {
			return errUnprocessable(c, err.Error())
		}

		res := &domain.CalculationResult{
			Seq:     req.Seq,
			Summary: req.Summary,
		}
		for _, r := range req.Routes {
			geom := make([]domain.Coordinate, len(r.Geometry))
			for i, p := range r.Geometry {
				geom[i] = p.toDomain()
			}
			res.Routes = append(res.Routes, domain.RouteFeature{
				ID:       r.ID,
				Type:     domain.RouteType(r.Type),
				Geometry: geom,
				Metrics:  r.Metrics,
			})
		}
		res.TollPoints = poiMarkers(req.TollPoints)
		res.FuelStations = poiMarkers(req.FuelStations)

		if err := s.Apply(c.Context(), domain.Intent{Kind: domain.IntentLoadRoutes, Routes: res}); err != nil {
			return errBadRequest(c, err.Error())
		}
		return c.JSON(s.Snapshot())
	}
}

// SetLocationsHandler replaces the session's origin/waypoint/destination
// set from geocoded locations.
func SetLocationsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, ok := deps.Sessions.Get(c.Params("id"))
		if !ok {
			return errNotFound(c, "session not found")
		}

		var req setLocationsRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid JSON body")
		}
		if err := validate.Struct(req); err != nil {
			return errUnprocessable(c, err.Error())
		}

		locs := make([]domain.Location, len(req.Locations))
		for i, l := range req.Locations {
			locs[i] = domain.Location{
				Name:       l.Name,
				Address:    l.Address,
				Coordinate: l.Coordinate.toDomain(),
			}
		}

		if err := s.Apply(c.Context(), domain.Intent{Kind: domain.IntentSetLocations, Locations: locs}); err != nil {
			return errBadRequest(c, err.Error())
		}
		return c.JSON(s.Snapshot())
	}
}

// --- Geocoding ---

// GeocodeHandler resolves a free-text place query, optionally biased toward
// a proximity point.
func GeocodeHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := c.Query("q")
		if query == "" {
			return errBadRequest(c, "q query parameter is required")
		}
		if len(query) > 200 {
			return errBadRequest(c, "query too long (max 200 characters)")
		}
		limit := c.QueryInt("limit", 5)
		if limit <= 0 || limit > 20 {
			limit = 5
		}

		var near *domain.Coordinate
		lat := c.QueryFloat("lat", 0)
		lon := c.QueryFloat("lon", 0)
		if lat != 0 || lon != 0 {
			near = &domain.Coordinate{Lon: lon, Lat: lat}
			if !near.Valid() {
				return errBadRequest(c, "lat/lon out of range")
			}
		}

		locs, err := deps.Geocode.Search(c.Context(), query, near, limit)
		if err != nil {
			return errInternal(c, err.Error())
		}

		c.Set("Cache-Control", "public, max-age=300")
		return c.JSON(fiber.Map{"locations": locs, "count": len(locs)})
	}
}

// --- Plan archive ---

// ListPlansHandler returns recently archived route plans.
func ListPlansHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		offset := c.QueryInt("offset", 0)
		limit := c.QueryInt("limit", 20)
		if offset < 0 {
			offset = 0
		}
		if limit <= 0 || limit > 100 {
			limit = 20
		}

		plans, total, err := deps.History.ListRecent(c.Context(), offset, limit)
		if err != nil {
			return errInternal(c, err.Error())
		}

		pg := Pagination{Offset: offset, Limit: limit, Total: total}
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: plans, Pagination: pg})
	}
}

// GetPlanHandler returns one archived route plan.
func GetPlanHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "plan id is required")
		}
		plan, err := deps.History.GetByID(c.Context(), id)
		if err != nil {
			return errNotFound(c, "plan not found")
		}
		c.Set("Cache-Control", "public, max-age=3600")
		return c.JSON(plan)
	}
}

func poiMarkers(pois []poiPayload) []domain.MarkerEntity {
	out := make([]domain.MarkerEntity, len(pois))
	for i, p := range pois {
		out[i] = domain.MarkerEntity{
			Coordinate:  p.Coordinate.toDomain(),
			DisplayData: p.DisplayData,
		}
	}
	return out
}
