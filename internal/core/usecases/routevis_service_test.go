package usecases_test

import (
	"testing"

	"github.com/rutamapa/rutamapa/internal/core/domain"
	"github.com/rutamapa/rutamapa/internal/core/usecases"
)

func threeRoutes(seq uint64) *domain.CalculationResult {
	return &domain.CalculationResult{
		Seq: seq,
		Routes: []domain.RouteFeature{
			{ID: "r-fast", Type: domain.RouteFastest},
			{ID: "r-rec", Type: domain.RouteRecommended},
			{ID: "r-alt", Type: domain.RouteAlternative},
		},
	}
}

func TestRouteVis_LoadSelectsRecommended(t *testing.T) {
	svc := usecases.NewRouteVisService()

	if svc.State() != domain.VisEmpty {
		t.Fatalf("expected empty state, got %s", svc.State())
	}
	if !svc.LoadRoutes(threeRoutes(1)) {
		t.Fatal("expected load to apply")
	}
	if svc.State() != domain.VisLoadedSelected {
		t.Fatalf("expected loaded-selected, got %s", svc.State())
	}
	if svc.Selected() != "r-rec" {
		t.Errorf("expected recommended route selected, got %q", svc.Selected())
	}
}

func TestRouteVis_NoRecommendedStaysUnselected(t *testing.T) {
	svc := usecases.NewRouteVisService()
	svc.LoadRoutes(&domain.CalculationResult{
		Seq: 1,
		Routes: []domain.RouteFeature{
			{ID: "a", Type: domain.RouteFastest},
			{ID: "b", Type: domain.RouteShortest},
		},
	})

	if svc.State() != domain.VisLoadedUnselected {
		t.Fatalf("expected loaded-unselected, got %s", svc.State())
	}
	if svc.Selected() != "" {
		t.Errorf("expected no selection, got %q", svc.Selected())
	}
}

func TestRouteVis_SelectRestyles(t *testing.T) {
	svc := usecases.NewRouteVisService()
	svc.LoadRoutes(threeRoutes(1))

	if !svc.SelectRoute("r-alt") {
		t.Fatal("expected selection to apply")
	}

	set := svc.RenderSet()
	if len(set) != 3 {
		t.Fatalf("expected 3 styled routes, got %d", len(set))
	}
	for _, sr := range set {
		want := domain.StyleDimmed
		if sr.Route.ID == "r-alt" {
			want = domain.StyleSelected
		}
		if sr.Style != want {
			t.Errorf("route %s: expected style %+v, got %+v", sr.Route.ID, want, sr.Style)
		}
	}
}

func TestRouteVis_SelectUnknownKeepsPrior(t *testing.T) {
	svc := usecases.NewRouteVisService()
	svc.LoadRoutes(threeRoutes(1))

	if svc.SelectRoute("nope") {
		t.Fatal("expected unknown id to be rejected")
	}
	if svc.Selected() != "r-rec" {
		t.Errorf("expected prior selection retained, got %q", svc.Selected())
	}
}

func TestRouteVis_ToggleShowAll(t *testing.T) {
	svc := usecases.NewRouteVisService()
	svc.LoadRoutes(threeRoutes(1))
	svc.SelectRoute("r-alt")

	if svc.ToggleShowAll() {
		t.Fatal("expected showAll off after first toggle")
	}
	set := svc.RenderSet()
	if len(set) != 1 || set[0].Route.ID != "r-alt" {
		t.Fatalf("expected only selected route rendered, got %d entries", len(set))
	}

	if !svc.ToggleShowAll() {
		t.Fatal("expected showAll on after second toggle")
	}
	if len(svc.RenderSet()) != 3 {
		t.Errorf("expected all routes rendered again")
	}
}

func TestRouteVis_ShowAllOffNoSelectionRendersFirst(t *testing.T) {
	svc := usecases.NewRouteVisService()
	svc.LoadRoutes(&domain.CalculationResult{
		Seq: 1,
		Routes: []domain.RouteFeature{
			{ID: "a", Type: domain.RouteFastest},
			{ID: "b", Type: domain.RouteShortest},
		},
	})
	svc.ToggleShowAll()

	set := svc.RenderSet()
	if len(set) != 1 || set[0].Route.ID != "a" {
		t.Fatalf("expected first route as render fallback, got %+v", set)
	}
	if svc.Selected() != "" {
		t.Errorf("render fallback must not mutate selection, got %q", svc.Selected())
	}
}

func TestRouteVis_StaleResultDropped(t *testing.T) {
	svc := usecases.NewRouteVisService()
	svc.LoadRoutes(threeRoutes(5))

	stale := &domain.CalculationResult{
		Seq:    3,
		Routes: []domain.RouteFeature{{ID: "old", Type: domain.RouteRecommended}},
	}
	if svc.LoadRoutes(stale) {
		t.Fatal("expected stale result to be rejected")
	}
	if svc.Selected() != "r-rec" {
		t.Errorf("stale result must not touch selection, got %q", svc.Selected())
	}
}

func TestRouteVis_ReloadKeepsSurvivingSelection(t *testing.T) {
	svc := usecases.NewRouteVisService()
	svc.LoadRoutes(threeRoutes(1))
	svc.SelectRoute("r-alt")

	svc.LoadRoutes(threeRoutes(2))
	if svc.Selected() != "r-alt" {
		t.Errorf("expected surviving selection kept, got %q", svc.Selected())
	}
}

func TestRouteVis_ClearResets(t *testing.T) {
	svc := usecases.NewRouteVisService()
	svc.LoadRoutes(threeRoutes(4))
	svc.SelectRoute("r-alt")
	svc.ToggleShowAll()

	svc.Clear()

	if svc.State() != domain.VisEmpty {
		t.Fatalf("expected empty after clear, got %s", svc.State())
	}
	if svc.Selected() != "" || !svc.ShowAll() {
		t.Errorf("expected selection reset and showAll restored")
	}
	if svc.RenderSet() != nil {
		t.Errorf("expected nil render set after clear")
	}

	// a response from before the clear still cannot apply
	if svc.LoadRoutes(threeRoutes(2)) {
		t.Error("expected pre-clear sequence to stay rejected")
	}
	if !svc.LoadRoutes(threeRoutes(6)) {
		t.Error("expected newer sequence to apply after clear")
	}
}

func TestRouteVis_EmptyResultIgnored(t *testing.T) {
	svc := usecases.NewRouteVisService()
	if svc.LoadRoutes(nil) {
		t.Error("expected nil result rejected")
	}
	if svc.LoadRoutes(&domain.CalculationResult{Seq: 1}) {
		t.Error("expected empty result rejected")
	}
}
