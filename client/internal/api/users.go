package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/tripwise/packmate/client/internal/types"
)

// CreateUser registers a new user.
func CreateUser(ctx context.Context, httpClient HTTPClient, baseURL string, req types.CreateUserRequest) (*types.User, error) {
	const op = "create user"
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint(baseURL, "users"), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := do(httpClient, httpReq, op)
	if err != nil {
		return nil, err
	}
	var user types.User
	if err := decode(resp, &user, op); err != nil {
		return nil, err
	}
	return &user, nil
}
