package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/go-resty/resty/v2"

	sdkerrors "github.com/tripwise/packmate/client/internal/errors"
	"github.com/tripwise/packmate/client/internal/types"
)

const imageContentType = "image/jpeg"

// DetectItem uploads a photo as the multipart field "image" and returns the
// server-confirmed item it was classified as.
func DetectItem(ctx context.Context, rest *resty.Client, baseURL, tripID, filename string, image io.Reader) (*types.ScannedItem, error) {
	const op = "detect item"
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	if err := requireID(tripID, "tripId"); err != nil {
		return nil, err
	}
	if image == nil {
		return nil, fmt.Errorf("image is required")
	}
	if filename == "" {
		filename = "image.jpg"
	}

	resp, err := rest.R().
		SetContext(ctx).
		SetQueryParam("trip_id", tripID).
		SetMultipartField("image", filename, imageContentType, image).
		Post(endpoint(baseURL, "items", "detect"))
	if err != nil {
		if cerr := ctx.Err(); cerr != nil {
			return nil, cerr
		}
		return nil, sdkerrors.NewNetworkError(op, err)
	}
	if !resp.IsSuccess() {
		return nil, sdkerrors.FromStatus(resp.StatusCode(), resp.String(), op)
	}

	var item types.ScannedItem
	if err := json.Unmarshal(resp.Body(), &item); err != nil {
		return nil, fmt.Errorf("%s: decode response: %w", op, err)
	}
	if item.ItemName == "" && len(item.CVResults) > 0 {
		item.ItemName = item.CVResults[0].ItemName
	}
	return &item, nil
}

// PackItem marks itemID as packed for tripID.
func PackItem(ctx context.Context, httpClient HTTPClient, baseURL, tripID, itemID string) error {
	return itemMutation(ctx, httpClient, http.MethodPost, "pack item", baseURL, tripID, itemID)
}

// UnpackItem removes itemID from the packed set of tripID.
func UnpackItem(ctx context.Context, httpClient HTTPClient, baseURL, tripID, itemID string) error {
	return itemMutation(ctx, httpClient, http.MethodDelete, "unpack item", baseURL, tripID, itemID)
}

func itemMutation(ctx context.Context, httpClient HTTPClient, method, op, baseURL, tripID, itemID string) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	if err := requireID(tripID, "tripId"); err != nil {
		return err
	}
	if err := requireID(itemID, "itemId"); err != nil {
		return err
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint(baseURL, "trips", tripID, "item", itemID), nil)
	if err != nil {
		return err
	}
	resp, err := do(httpClient, httpReq, op)
	if err != nil {
		return err
	}
	// The acknowledgement body carries nothing the client keeps.
	return decode(resp, nil, op)
}
