package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/rutamapa/rutamapa/internal/core/domain"
)

// buildSchema creates the GraphQL schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	coordinateType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Coordinate",
		Fields: graphql.Fields{
			"lon": &graphql.Field{Type: graphql.Float},
			"lat": &graphql.Field{Type: graphql.Float},
		},
	})

	viewportType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Viewport",
		Fields: graphql.Fields{
			"center":  &graphql.Field{Type: coordinateType},
			"zoom":    &graphql.Field{Type: graphql.Float},
			"bearing": &graphql.Field{Type: graphql.Float},
			"pitch":   &graphql.Field{Type: graphql.Float},
		},
	})

	selectionType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Selection",
		Fields: graphql.Fields{
			"selected_route_id":    &graphql.Field{Type: graphql.String},
			"show_all_routes":      &graphql.Field{Type: graphql.Boolean},
			"open_popup_marker_id": &graphql.Field{Type: graphql.String},
		},
	})

	metricsType := graphql.NewObject(graphql.ObjectConfig{
		Name: "RouteMetrics",
		Fields: graphql.Fields{
			"distance_meters":  &graphql.Field{Type: graphql.Float},
			"duration_seconds": &graphql.Field{Type: graphql.Float},
			"fuel_cost":        &graphql.Field{Type: graphql.Float},
			"toll_cost":        &graphql.Field{Type: graphql.Float},
			"total_cost":       &graphql.Field{Type: graphql.Float},
		},
	})

	markerType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Marker",
		Fields: graphql.Fields{
			"id":         &graphql.Field{Type: graphql.String},
			"coordinate": &graphql.Field{Type: coordinateType},
			"category":   &graphql.Field{Type: graphql.String},
		},
	})

	sessionType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Session",
		Fields: graphql.Fields{
			"id":             &graphql.Field{Type: graphql.String},
			"state":          &graphql.Field{Type: graphql.String},
			"selection":      &graphql.Field{Type: selectionType},
			"viewport":       &graphql.Field{Type: viewportType},
			"is_moving":      &graphql.Field{Type: graphql.Boolean},
			"surface_loaded": &graphql.Field{Type: graphql.Boolean},
			"markers":        &graphql.Field{Type: graphql.NewList(markerType)},
		},
	})

	locationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Location",
		Fields: graphql.Fields{
			"name":       &graphql.Field{Type: graphql.String},
			"address":    &graphql.Field{Type: graphql.String},
			"coordinate": &graphql.Field{Type: coordinateType},
		},
	})

	planType := graphql.NewObject(graphql.ObjectConfig{
		Name: "RoutePlan",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.String},
			"session_id":  &graphql.Field{Type: graphql.String},
			"origin":      &graphql.Field{Type: locationType},
			"destination": &graphql.Field{Type: locationType},
			"route_type":  &graphql.Field{Type: graphql.String},
			"metrics":     &graphql.Field{Type: metricsType},
			"created_at":  &graphql.Field{Type: graphql.DateTime},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"session": &graphql.Field{
				Type:        sessionType,
				Description: "Snapshot of one live map session",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					s, ok := deps.Sessions.Get(p.Args["id"].(string))
					if !ok {
						return nil, nil
					}
					return snapshotMap(s.Snapshot()), nil
				},
			},
			"geocode": &graphql.Field{
				Type:        graphql.NewList(locationType),
				Description: "Resolve a free-text place query",
				Args: graphql.FieldConfigArgument{
					"query": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"limit": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 5},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					q := p.Args["query"].(string)
					limit := p.Args["limit"].(int)
					return deps.Geocode.Search(p.Context, q, nil, limit)
				},
			},
			"recentPlans": &graphql.Field{
				Type:        graphql.NewList(planType),
				Description: "Recently archived route plans",
				Args: graphql.FieldConfigArgument{
					"limit": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 20},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					recs, _, err := deps.History.ListRecent(p.Context, 0, p.Args["limit"].(int))
					return recs, err
				},
			},
			"plan": &graphql.Field{
				Type:        planType,
				Description: "One archived route plan",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.History.GetByID(p.Context, p.Args["id"].(string))
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// snapshotMap flattens a session snapshot for GraphQL field resolution.
func snapshotMap(snap domain.SessionSnapshot) map[string]interface{} {
	return map[string]interface{}{
		"id":             snap.ID,
		"state":          string(snap.State),
		"selection":      snap.Selection,
		"viewport":       snap.Viewport,
		"is_moving":      snap.IsMoving,
		"surface_loaded": snap.Loaded,
		"markers":        snap.Markers,
	}
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.Context(),
		})

		return c.JSON(result)
	}
}
