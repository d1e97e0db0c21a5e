package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/tripwise/packmate/client/internal/types"
)

// CreateTrip creates a trip, optionally attaching it to req.UserID.
func CreateTrip(ctx context.Context, httpClient HTTPClient, baseURL string, req types.CreateTripRequest) (*types.Trip, error) {
	const op = "create trip"
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	u := endpoint(baseURL, "trips")
	if req.UserID != "" {
		u += "?" + url.Values{"user_id": {req.UserID}}.Encode()
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := do(httpClient, httpReq, op)
	if err != nil {
		return nil, err
	}
	var trip types.Trip
	if err := decode(resp, &trip, op); err != nil {
		return nil, err
	}
	return &trip, nil
}

// GetTrip retrieves a trip including its server-aggregated bag totals.
func GetTrip(ctx context.Context, httpClient HTTPClient, baseURL, tripID string) (*types.Trip, error) {
	const op = "get trip"
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	if err := requireID(tripID, "tripId"); err != nil {
		return nil, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint(baseURL, "trips", tripID), nil)
	if err != nil {
		return nil, err
	}
	resp, err := do(httpClient, httpReq, op)
	if err != nil {
		return nil, err
	}
	var trip types.Trip
	if err := decode(resp, &trip, op); err != nil {
		return nil, err
	}
	return &trip, nil
}

// GetTripItems lists the stored items attached to a trip.
func GetTripItems(ctx context.Context, httpClient HTTPClient, baseURL, tripID string) ([]types.Item, error) {
	const op = "get trip items"
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	if err := requireID(tripID, "tripId"); err != nil {
		return nil, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint(baseURL, "trips", tripID, "items"), nil)
	if err != nil {
		return nil, err
	}
	resp, err := do(httpClient, httpReq, op)
	if err != nil {
		return nil, err
	}
	items := []types.Item{}
	if err := decode(resp, &items, op); err != nil {
		return nil, err
	}
	return items, nil
}
