package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	sdkerrors "github.com/tripwise/packmate/client/internal/errors"
)

// HTTPClient interface for dependency injection
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// do sends req and turns transport failures and non-2xx answers into SDK
// errors. On success the caller owns resp.Body.
func do(httpClient HTTPClient, req *http.Request, operation string) (*http.Response, error) {
	resp, err := httpClient.Do(req)
	if err != nil {
		// A cancelled caller context is reported as-is, not as a network fault.
		if cerr := req.Context().Err(); cerr != nil {
			return nil, cerr
		}
		return nil, sdkerrors.NewNetworkError(operation, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer func() { _ = resp.Body.Close() }()
		return nil, sdkerrors.FromResponse(resp, operation)
	}
	return resp, nil
}

// decode reads a JSON body into v. An empty body leaves v untouched.
func decode(resp *http.Response, v any, operation string) error {
	defer func() { _ = resp.Body.Close() }()
	if v == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil && err != io.EOF {
		return fmt.Errorf("%s: decode response: %w", operation, err)
	}
	return nil
}

// endpoint joins baseURL with escaped path segments.
func endpoint(baseURL string, segments ...string) string {
	var b strings.Builder
	b.WriteString(strings.TrimRight(baseURL, "/"))
	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(s))
	}
	return b.String()
}

// requireID rejects blank path identifiers before any request is built.
func requireID(value, name string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", name)
	}
	return nil
}

func ctxErr(ctx context.Context) error { return ctx.Err() }
