package domain_test

import (
	"testing"

	"github.com/rutamapa/rutamapa/internal/core/domain"
)

var testFallback = domain.BoundingBox{
	SW: domain.Coordinate{Lon: -73.6, Lat: -55.1},
	NE: domain.Coordinate{Lon: -53.6, Lat: -21.8},
}

func TestBoundsOf_TwoPoints(t *testing.T) {
	// Buenos Aires and Rosario
	coords := []domain.Coordinate{
		{Lon: -58.0, Lat: -34.6},
		{Lon: -60.7, Lat: -32.9},
	}

	box := domain.BoundsOf(coords, testFallback)

	if box.SW.Lon != -60.7 || box.SW.Lat != -34.6 {
		t.Errorf("unexpected SW corner: %+v", box.SW)
	}
	if box.NE.Lon != -58.0 || box.NE.Lat != -32.9 {
		t.Errorf("unexpected NE corner: %+v", box.NE)
	}
}

func TestBoundsOf_EmptyReturnsFallback(t *testing.T) {
	box := domain.BoundsOf(nil, testFallback)
	if box != testFallback {
		t.Errorf("expected fallback region, got %+v", box)
	}
}

func TestBoundsOf_ContainsEveryInput(t *testing.T) {
	coords := []domain.Coordinate{
		{Lon: -58.38, Lat: -34.60},
		{Lon: -60.70, Lat: -32.95},
		{Lon: -64.18, Lat: -31.42},
		{Lon: -68.84, Lat: -32.89},
		{Lon: -57.95, Lat: -34.92},
	}

	box := domain.BoundsOf(coords, testFallback)
	for _, c := range coords {
		if !box.Contains(c) {
			t.Errorf("box %+v does not contain %+v", box, c)
		}
	}
}

func TestBoundsOf_SinglePointIsDegenerate(t *testing.T) {
	c := domain.Coordinate{Lon: -58.38, Lat: -34.60}
	box := domain.BoundsOf([]domain.Coordinate{c}, testFallback)

	if !box.Degenerate() {
		t.Errorf("expected degenerate box, got %+v", box)
	}
	if !box.Contains(c) {
		t.Error("degenerate box must still contain its point")
	}
}

func TestBoundingBox_Center(t *testing.T) {
	box := domain.BoundingBox{
		SW: domain.Coordinate{Lon: -60, Lat: -34},
		NE: domain.Coordinate{Lon: -58, Lat: -32},
	}
	center := box.Center()
	if center.Lon != -59 || center.Lat != -33 {
		t.Errorf("unexpected center: %+v", center)
	}
}

func TestBoundingBox_ContainsEdges(t *testing.T) {
	box := domain.BoundingBox{
		SW: domain.Coordinate{Lon: -60, Lat: -34},
		NE: domain.Coordinate{Lon: -58, Lat: -32},
	}

	cases := []struct {
		name string
		c    domain.Coordinate
		want bool
	}{
		{"sw corner", domain.Coordinate{Lon: -60, Lat: -34}, true},
		{"ne corner", domain.Coordinate{Lon: -58, Lat: -32}, true},
		{"inside", domain.Coordinate{Lon: -59, Lat: -33}, true},
		{"west of box", domain.Coordinate{Lon: -61, Lat: -33}, false},
		{"north of box", domain.Coordinate{Lon: -59, Lat: -31}, false},
	}

	for _, tc := range cases {
		if got := box.Contains(tc.c); got != tc.want {
			t.Errorf("%s: Contains(%+v) = %v, want %v", tc.name, tc.c, got, tc.want)
		}
	}
}

func TestCoordinate_Valid(t *testing.T) {
	if !(domain.Coordinate{Lon: -58.38, Lat: -34.60}).Valid() {
		t.Error("expected valid coordinate")
	}
	if (domain.Coordinate{Lon: -181, Lat: 0}).Valid() {
		t.Error("longitude out of range must be invalid")
	}
	if (domain.Coordinate{Lon: 0, Lat: 91}).Valid() {
		t.Error("latitude out of range must be invalid")
	}
}
