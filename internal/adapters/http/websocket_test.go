package http

import (
	"testing"

	"github.com/rutamapa/rutamapa/internal/core/domain"
)

func TestDecodeSurfaceIntent_ValidMove(t *testing.T) {
	msg := []byte(`{
		"kind": "move",
		"viewport": {"center": {"lon": -58.37, "lat": -34.6}, "zoom": 10},
		"bounds": {"sw": {"lon": -59, "lat": -35}, "ne": {"lon": -58, "lat": -34}}
	}`)

	intent, err := decodeSurfaceIntent(msg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if intent.Kind != domain.IntentMove {
		t.Errorf("expected move intent, got %q", intent.Kind)
	}
	if intent.Viewport == nil || intent.Viewport.Center.Lon != -58.37 {
		t.Errorf("viewport not carried: %+v", intent.Viewport)
	}
	if intent.Bounds == nil {
		t.Error("bounds not carried")
	}
}

func TestDecodeSurfaceIntent_RejectsLoadRoutesKind(t *testing.T) {
	// route results arrive through their own endpoint, never the socket
	if _, err := decodeSurfaceIntent([]byte(`{"kind": "loadRoutes"}`)); err == nil {
		t.Error("expected loadRoutes rejected on the surface channel")
	}
	if _, err := decodeSurfaceIntent([]byte(`{"kind": "setLocations"}`)); err == nil {
		t.Error("expected setLocations rejected on the surface channel")
	}
}

func TestDecodeSurfaceIntent_RejectsOutOfRangeCoordinates(t *testing.T) {
	msg := []byte(`{
		"kind": "move",
		"viewport": {"center": {"lon": -500, "lat": -34.6}, "zoom": 10}
	}`)
	if _, err := decodeSurfaceIntent(msg); err == nil {
		t.Error("expected out-of-range longitude rejected")
	}
}

func TestDecodeSurfaceIntent_RejectsBadJSON(t *testing.T) {
	if _, err := decodeSurfaceIntent([]byte(`{kind:`)); err == nil {
		t.Error("expected parse error")
	}
}
