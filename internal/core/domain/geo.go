package domain

// Coordinate is a geographic position (WGS 84).
// Longitude is in [-180, 180], latitude in [-90, 90].
type Coordinate struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// Valid reports whether the coordinate is inside the WGS 84 domain.
func (c Coordinate) Valid() bool {
	return c.Lon >= -180 && c.Lon <= 180 && c.Lat >= -90 && c.Lat <= 90
}

// BoundingBox is an axis-aligned box in lon/lat space.
// Invariant: SW.Lon <= NE.Lon and SW.Lat <= NE.Lat.
// Antimeridian wraparound is out of scope.
type BoundingBox struct {
	SW Coordinate `json:"sw"`
	NE Coordinate `json:"ne"`
}

// Contains reports whether the coordinate lies inside the box (edges inclusive).
func (b BoundingBox) Contains(c Coordinate) bool {
	return c.Lon >= b.SW.Lon && c.Lon <= b.NE.Lon &&
		c.Lat >= b.SW.Lat && c.Lat <= b.NE.Lat
}

// Extend grows the box to include the coordinate.
func (b BoundingBox) Extend(c Coordinate) BoundingBox {
	if c.Lon < b.SW.Lon {
		b.SW.Lon = c.Lon
	}
	if c.Lon > b.NE.Lon {
		b.NE.Lon = c.Lon
	}
	if c.Lat < b.SW.Lat {
		b.SW.Lat = c.Lat
	}
	if c.Lat > b.NE.Lat {
		b.NE.Lat = c.Lat
	}
	return b
}

// Center returns the midpoint of the box.
func (b BoundingBox) Center() Coordinate {
	return Coordinate{
		Lon: (b.SW.Lon + b.NE.Lon) / 2,
		Lat: (b.SW.Lat + b.NE.Lat) / 2,
	}
}

// Degenerate reports whether the box has zero area (single point or line).
func (b BoundingBox) Degenerate() bool {
	return b.SW.Lon == b.NE.Lon || b.SW.Lat == b.NE.Lat
}

// BoundsOf returns the smallest box enclosing every coordinate in coords.
// An empty list yields the fallback region so callers never receive an
// undefined box.
func BoundsOf(coords []Coordinate, fallback BoundingBox) BoundingBox {
	if len(coords) == 0 {
		return fallback
	}
	box := BoundingBox{SW: coords[0], NE: coords[0]}
	for _, c := range coords[1:] {
		box = box.Extend(c)
	}
	return box
}

// Viewport is the camera state of a map session.
type Viewport struct {
	Center  Coordinate `json:"center"`
	Zoom    float64    `json:"zoom"`
	Bearing float64    `json:"bearing"`
	Pitch   float64    `json:"pitch"`
}
