package api

import (
	"context"
	"net/http"

	"github.com/tripwise/packmate/client/internal/types"
)

// GenerateRecommendations asks the server to build the packing list for a
// trip from its destination, duration and activities.
func GenerateRecommendations(ctx context.Context, httpClient HTTPClient, baseURL, tripID string) ([]types.RecommendedItem, error) {
	const op = "generate recommendations"
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	if err := requireID(tripID, "tripId"); err != nil {
		return nil, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint(baseURL, "trips", tripID, "recommendations"), nil)
	if err != nil {
		return nil, err
	}
	resp, err := do(httpClient, httpReq, op)
	if err != nil {
		return nil, err
	}
	recs := []types.RecommendedItem{}
	if err := decode(resp, &recs, op); err != nil {
		return nil, err
	}
	return recs, nil
}

// RemovalRecommendation asks for the pack/remove/swap decision of one item
// already attached to the trip.
func RemovalRecommendation(ctx context.Context, httpClient HTTPClient, baseURL, tripID, itemID string) (*types.RemovalRecommendation, error) {
	const op = "removal recommendation"
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	if err := requireID(tripID, "tripId"); err != nil {
		return nil, err
	}
	if err := requireID(itemID, "itemId"); err != nil {
		return nil, err
	}
	u := endpoint(baseURL, "trips", tripID, "item", itemID, "removal-recommendation")
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := do(httpClient, httpReq, op)
	if err != nil {
		return nil, err
	}
	var rec types.RemovalRecommendation
	if err := decode(resp, &rec, op); err != nil {
		return nil, err
	}
	return &rec, nil
}
