package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	handler "github.com/rutamapa/rutamapa/internal/adapters/http"
	"github.com/rutamapa/rutamapa/internal/core/domain"
	"github.com/rutamapa/rutamapa/internal/core/usecases"
)

// ---- Mocks ----

type mockGeocoder struct {
	searchFn func(ctx context.Context, query string, near *domain.Coordinate, limit int) ([]domain.Location, error)
}

func (m *mockGeocoder) Search(ctx context.Context, query string, near *domain.Coordinate, limit int) ([]domain.Location, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, query, near, limit)
	}
	return nil, nil
}

type mockPlanRepo struct {
	getByIDFn    func(ctx context.Context, id string) (*domain.RoutePlanRecord, error)
	listRecentFn func(ctx context.Context, offset, limit int) ([]domain.RoutePlanRecord, int, error)
}

func (m *mockPlanRepo) Insert(ctx context.Context, rec *domain.RoutePlanRecord) error { return nil }
func (m *mockPlanRepo) GetByID(ctx context.Context, id string) (*domain.RoutePlanRecord, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}
func (m *mockPlanRepo) ListRecent(ctx context.Context, offset, limit int) ([]domain.RoutePlanRecord, int, error) {
	if m.listRecentFn != nil {
		return m.listRecentFn(ctx, offset, limit)
	}
	return nil, 0, nil
}

// ---- Test helpers ----

func testConfig() usecases.ViewportConfig {
	return usecases.ViewportConfig{
		MinZoom:       3,
		MaxZoom:       18,
		FitPaddingPx:  48,
		FitMaxZoom:    14,
		DebounceDelay: 5 * time.Millisecond,
		DefaultRegion: domain.BoundingBox{
			SW: domain.Coordinate{Lon: -73.6, Lat: -55.1},
			NE: domain.Coordinate{Lon: -53.6, Lat: -21.8},
		},
	}
}

func makeDeps(opts ...func(*handler.Dependencies)) *handler.Dependencies {
	d := &handler.Dependencies{
		Sessions: usecases.NewSessionManager(testConfig(), time.Hour, nil, nil, nil),
		Geocode:  usecases.NewGeocodeService(&mockGeocoder{}, nil, time.Minute, slog.Default()),
		History:  usecases.NewHistoryService(&mockPlanRepo{}, slog.Default()),
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

func setupApp(deps *handler.Dependencies) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	handler.SetupRoutes(app, deps)
	return app
}

func createSession(t *testing.T, app *fiber.App) string {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("POST", "/v1/sessions", nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 201 {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var snap domain.SessionSnapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		t.Fatal(err)
	}
	return snap.ID
}

func postJSON(t *testing.T, app *fiber.App, path, body string) (int, []byte) {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp.StatusCode, raw
}

// ---- Session lifecycle ----

func TestSessionLifecycle(t *testing.T) {
	app := setupApp(makeDeps())
	id := createSession(t, app)

	resp, _ := app.Test(httptest.NewRequest("GET", "/v1/sessions/"+id, nil), -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var snap domain.SessionSnapshot
	json.NewDecoder(resp.Body).Decode(&snap)
	if snap.State != domain.VisEmpty || snap.Loaded {
		t.Errorf("expected pristine session, got %+v", snap)
	}

	resp, _ = app.Test(httptest.NewRequest("DELETE", "/v1/sessions/"+id, nil), -1)
	if resp.StatusCode != 204 {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}
	resp, _ = app.Test(httptest.NewRequest("GET", "/v1/sessions/"+id, nil), -1)
	if resp.StatusCode != 404 {
		t.Errorf("expected 404 after delete, got %d", resp.StatusCode)
	}
}

func TestGetSession_NotFound(t *testing.T) {
	app := setupApp(makeDeps())
	resp, _ := app.Test(httptest.NewRequest("GET", "/v1/sessions/nope", nil), -1)
	if resp.StatusCode != 404 {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
}

// ---- Intents ----

func TestSessionIntent_SurfaceLoaded(t *testing.T) {
	app := setupApp(makeDeps())
	id := createSession(t, app)

	status, body := postJSON(t, app, "/v1/sessions/"+id+"/intents", `{"kind":"surfaceLoaded"}`)
	if status != 200 {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	var snap domain.SessionSnapshot
	json.Unmarshal(body, &snap)
	if !snap.Loaded {
		t.Error("expected surface marked loaded")
	}
}

func TestSessionIntent_UnknownKindRejected(t *testing.T) {
	app := setupApp(makeDeps())
	id := createSession(t, app)

	status, _ := postJSON(t, app, "/v1/sessions/"+id+"/intents", `{"kind":"teleport"}`)
	if status != 422 {
		t.Errorf("expected 422 for unknown kind, got %d", status)
	}
}

func TestSessionIntent_BadJSON(t *testing.T) {
	app := setupApp(makeDeps())
	id := createSession(t, app)

	status, _ := postJSON(t, app, "/v1/sessions/"+id+"/intents", `{not json`)
	if status != 400 {
		t.Errorf("expected 400 for invalid JSON, got %d", status)
	}
}

// ---- Routes & locations ----

func TestLoadRoutes_UpdatesSnapshot(t *testing.T) {
	app := setupApp(makeDeps())
	id := createSession(t, app)
	postJSON(t, app, "/v1/sessions/"+id+"/intents", `{"kind":"surfaceLoaded"}`)

	body := `{
		"seq": 1,
		"routes": [
			{"id":"r-rec","type":"recommended","geometry":[{"lon":-58.37,"lat":-34.6},{"lon":-60.64,"lat":-32.95}],
			 "metrics":{"distance_meters":300000,"total_cost":185000}},
			{"id":"r-alt","type":"alternative","geometry":[{"lon":-58.37,"lat":-34.6},{"lon":-60.0,"lat":-33.5}]}
		],
		"toll_points": [{"coordinate":{"lon":-59.5,"lat":-33.9},"display_data":{"name":"Peaje Zárate"}}]
	}`
	status, raw := postJSON(t, app, "/v1/sessions/"+id+"/routes", body)
	if status != 200 {
		t.Fatalf("expected 200, got %d: %s", status, raw)
	}

	var snap domain.SessionSnapshot
	json.Unmarshal(raw, &snap)
	if snap.State != domain.VisLoadedSelected {
		t.Fatalf("expected loaded-selected, got %s", snap.State)
	}
	if snap.Selection.SelectedRouteID != "r-rec" {
		t.Errorf("expected recommended selected, got %q", snap.Selection.SelectedRouteID)
	}
	if len(snap.Routes) != 2 {
		t.Errorf("expected 2 styled routes, got %d", len(snap.Routes))
	}
}

func TestLoadRoutes_InvalidRouteType(t *testing.T) {
	app := setupApp(makeDeps())
	id := createSession(t, app)

	status, _ := postJSON(t, app, "/v1/sessions/"+id+"/routes",
		`{"seq":1,"routes":[{"id":"r1","type":"scenic"}]}`)
	if status != 422 {
		t.Errorf("expected 422 for unknown route type, got %d", status)
	}
}

func TestSetLocations_Validation(t *testing.T) {
	app := setupApp(makeDeps())
	id := createSession(t, app)

	status, _ := postJSON(t, app, "/v1/sessions/"+id+"/locations", `{"locations":[]}`)
	if status != 422 {
		t.Errorf("expected 422 for empty locations, got %d", status)
	}

	status, raw := postJSON(t, app, "/v1/sessions/"+id+"/locations", `{
		"locations": [
			{"name":"Buenos Aires","coordinate":{"lon":-58.37,"lat":-34.6}},
			{"name":"Rosario","coordinate":{"lon":-60.64,"lat":-32.95}}
		]
	}`)
	if status != 200 {
		t.Fatalf("expected 200, got %d: %s", status, raw)
	}
	var snap domain.SessionSnapshot
	json.Unmarshal(raw, &snap)
	if len(snap.Markers) != 2 {
		t.Errorf("expected origin and destination markers, got %d", len(snap.Markers))
	}
}

// ---- Geocode ----

func TestGeocode_RequiresQuery(t *testing.T) {
	app := setupApp(makeDeps())
	resp, _ := app.Test(httptest.NewRequest("GET", "/v1/geocode", nil), -1)
	if resp.StatusCode != 400 {
		t.Errorf("expected 400 without q, got %d", resp.StatusCode)
	}
}

func TestGeocode_Success(t *testing.T) {
	deps := makeDeps(func(d *handler.Dependencies) {
		d.Geocode = usecases.NewGeocodeService(&mockGeocoder{
			searchFn: func(ctx context.Context, query string, near *domain.Coordinate, limit int) ([]domain.Location, error) {
				return []domain.Location{{
					Name:       "Rosario",
					Coordinate: domain.Coordinate{Lon: -60.64, Lat: -32.95},
				}}, nil
			},
		}, nil, time.Minute, slog.Default())
	})
	app := setupApp(deps)

	resp, _ := app.Test(httptest.NewRequest("GET", "/v1/geocode?q=rosario", nil), -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var result struct {
		Locations []domain.Location `json:"locations"`
		Count     int               `json:"count"`
	}
	json.NewDecoder(resp.Body).Decode(&result)
	if result.Count != 1 || result.Locations[0].Name != "Rosario" {
		t.Errorf("unexpected result %+v", result)
	}
}

// ---- Plans ----

func plansPageRepo(total int) *mockPlanRepo {
	plans := make([]domain.RoutePlanRecord, total)
	for i := range plans {
		plans[i] = domain.RoutePlanRecord{ID: fmt.Sprintf("p%d", i)}
	}
	return &mockPlanRepo{
		listRecentFn: func(ctx context.Context, offset, limit int) ([]domain.RoutePlanRecord, int, error) {
			if offset >= len(plans) {
				return nil, len(plans), nil
			}
			end := offset + limit
			if end > len(plans) {
				end = len(plans)
			}
			return plans[offset:end], len(plans), nil
		},
	}
}

func TestListPlans_Pagination(t *testing.T) {
	deps := makeDeps(func(d *handler.Dependencies) {
		d.History = usecases.NewHistoryService(plansPageRepo(5), slog.Default())
	})
	app := setupApp(deps)

	resp, _ := app.Test(httptest.NewRequest("GET", "/v1/plans?offset=2&limit=2", nil), -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var result struct {
		Data       []domain.RoutePlanRecord `json:"data"`
		Pagination struct {
			Offset int `json:"offset"`
			Total  int `json:"total"`
		} `json:"pagination"`
	}
	json.NewDecoder(resp.Body).Decode(&result)
	if len(result.Data) != 2 || result.Data[0].ID != "p2" {
		t.Errorf("unexpected page %+v", result.Data)
	}
	if result.Pagination.Total != 5 {
		t.Errorf("expected total 5, got %d", result.Pagination.Total)
	}
	if resp.Header.Get("Link") == "" {
		t.Error("expected Link headers")
	}
}

func TestListPlans_DeepOffset(t *testing.T) {
	deps := makeDeps(func(d *handler.Dependencies) {
		d.History = usecases.NewHistoryService(plansPageRepo(200), slog.Default())
	})
	app := setupApp(deps)

	resp, _ := app.Test(httptest.NewRequest("GET", "/v1/plans?offset=90&limit=20", nil), -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var result struct {
		Data       []domain.RoutePlanRecord `json:"data"`
		Pagination struct {
			Offset int `json:"offset"`
			Total  int `json:"total"`
		} `json:"pagination"`
	}
	json.NewDecoder(resp.Body).Decode(&result)
	if len(result.Data) != 20 || result.Data[0].ID != "p90" || result.Data[19].ID != "p109" {
		t.Fatalf("expected records 90-109, got %d starting at %s",
			len(result.Data), firstPlanID(result.Data))
	}
	if result.Pagination.Total != 200 {
		t.Errorf("expected total 200, got %d", result.Pagination.Total)
	}
}

func firstPlanID(plans []domain.RoutePlanRecord) string {
	if len(plans) == 0 {
		return "<empty>"
	}
	return plans[0].ID
}

func TestGetPlan_Success(t *testing.T) {
	deps := makeDeps(func(d *handler.Dependencies) {
		d.History = usecases.NewHistoryService(&mockPlanRepo{
			getByIDFn: func(ctx context.Context, id string) (*domain.RoutePlanRecord, error) {
				return &domain.RoutePlanRecord{ID: id, RouteType: domain.RouteRecommended}, nil
			},
		}, slog.Default())
	})
	app := setupApp(deps)

	resp, _ := app.Test(httptest.NewRequest("GET", "/v1/plans/p42", nil), -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var plan domain.RoutePlanRecord
	json.NewDecoder(resp.Body).Decode(&plan)
	if plan.ID != "p42" {
		t.Errorf("expected p42, got %s", plan.ID)
	}
}

// ---- GraphQL ----

func TestGraphQL_SessionQuery(t *testing.T) {
	app := setupApp(makeDeps())
	id := createSession(t, app)

	query := fmt.Sprintf(`{"query":"{ session(id: \"%s\") { id state } }"}`, id)
	status, raw := postJSON(t, app, "/graphql", query)
	if status != 200 {
		t.Fatalf("expected 200, got %d: %s", status, raw)
	}
	var result struct {
		Data struct {
			Session struct {
				ID    string `json:"id"`
				State string `json:"state"`
			} `json:"session"`
		} `json:"data"`
	}
	json.Unmarshal(raw, &result)
	if result.Data.Session.ID != id || result.Data.Session.State != "empty" {
		t.Errorf("unexpected graphql result %+v", result)
	}
}

// ---- Health ----

func TestHealth(t *testing.T) {
	app := setupApp(makeDeps())
	resp, _ := app.Test(httptest.NewRequest("GET", "/v1/health", nil), -1)
	if resp.StatusCode != 200 {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
}

func TestReady_NoDatabase(t *testing.T) {
	app := setupApp(makeDeps())
	resp, _ := app.Test(httptest.NewRequest("GET", "/v1/ready", nil), -1)
	if resp.StatusCode != 503 {
		t.Errorf("expected 503 without a database, got %d", resp.StatusCode)
	}
}
