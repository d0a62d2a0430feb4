// Package geocoder implements ports.Geocoder against a Nominatim-compatible
// search endpoint.
package geocoder

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rutamapa/rutamapa/internal/core/domain"
)

// Nominatim is a free-text geocoding client. It speaks the Nominatim
// /search JSON API, which OSM-based deployments expose.
type Nominatim struct {
	baseURL string
	client  *http.Client
}

// New creates a geocoder client against the given base URL.
func New(baseURL string, timeout time.Duration) *Nominatim {
	return &Nominatim{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// nominatimResult is the subset of the search response we consume.
type nominatimResult struct {
	DisplayName string `json:"display_name"`
	Name        string `json:"name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}

// Search resolves query to candidate locations. A non-nil near biases
// results by bounding the search around that point.
func (n *Nominatim) Search(ctx context.Context, query string, near *domain.Coordinate, limit int) ([]domain.Location, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "jsonv2")
	params.Set("limit", strconv.Itoa(limit))
	if near != nil && near.Valid() {
		// ~1 degree box around the bias point; Nominatim treats viewbox as
		// a preference, not a hard filter
		params.Set("viewbox", fmt.Sprintf("%f,%f,%f,%f",
			near.Lon-0.5, near.Lat+0.5, near.Lon+0.5, near.Lat-0.5))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "rutamapa/1.0")

	resp, err := n.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocoder request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocoder HTTP %d", resp.StatusCode)
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("geocoder decode: %w", err)
	}

	locs := make([]domain.Location, 0, len(results))
	for _, r := range results {
		lat, errLat := strconv.ParseFloat(r.Lat, 64)
		lon, errLon := strconv.ParseFloat(r.Lon, 64)
		if errLat != nil || errLon != nil {
			continue
		}
		name := r.Name
		if name == "" {
			name = r.DisplayName
		}
		locs = append(locs, domain.Location{
			Name:       name,
			Address:    r.DisplayName,
			Coordinate: domain.Coordinate{Lon: lon, Lat: lat},
		})
	}
	return locs, nil
}
