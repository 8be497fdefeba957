package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/atinyakov/BillboardWatch/internal/models"
)

// MapAPI exposes the map overlay endpoints.
type MapAPI struct {
	client *Client
}

// NewMapAPI constructs a MapAPI over the given client.
func NewMapAPI(client *Client) *MapAPI {
	return &MapAPI{client: client}
}

// Violations fetches all mappable violations.
func (m *MapAPI) Violations(ctx context.Context) ([]models.MapViolation, error) {
	const fallback = "Failed to load map data"
	resp, err := m.client.Get(ctx, "/map/violations", nil)
	if err != nil {
		return nil, opError(err, fallback)
	}
	env, err := decodeEnvelope(resp, fallback)
	if err != nil {
		return nil, err
	}
	var violations []models.MapViolation
	if err := decodeData(env, &violations, fallback); err != nil {
		return nil, err
	}
	return violations, nil
}

// Heatmap fetches aggregated heatmap cells.
func (m *MapAPI) Heatmap(ctx context.Context) ([]models.HeatPoint, error) {
	const fallback = "Failed to load heatmap"
	resp, err := m.client.Get(ctx, "/map/heatmap", nil)
	if err != nil {
		return nil, opError(err, fallback)
	}
	env, err := decodeEnvelope(resp, fallback)
	if err != nil {
		return nil, err
	}
	var points []models.HeatPoint
	if err := decodeData(env, &points, fallback); err != nil {
		return nil, err
	}
	return points, nil
}

// Nearby fetches violations within radiusKM of the given position.
func (m *MapAPI) Nearby(ctx context.Context, lat, lng, radiusKM float64) ([]models.MapViolation, error) {
	const fallback = "Failed to load nearby violations"
	query := url.Values{}
	query.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	query.Set("lng", strconv.FormatFloat(lng, 'f', -1, 64))
	query.Set("radius", strconv.FormatFloat(radiusKM, 'f', -1, 64))
	resp, err := m.client.Get(ctx, "/map/nearby", &RequestOptions{Query: query})
	if err != nil {
		return nil, opError(err, fallback)
	}
	env, err := decodeEnvelope(resp, fallback)
	if err != nil {
		return nil, err
	}
	var violations []models.MapViolation
	if err := decodeData(env, &violations, fallback); err != nil {
		return nil, err
	}
	return violations, nil
}
