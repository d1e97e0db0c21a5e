package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/tripwise/packmate/client/internal/api"
	"github.com/tripwise/packmate/client/internal/shardqueue"
)

// --------------------------------------------------------------------
// Client core
// --------------------------------------------------------------------

// Client talks to the packing API. It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	rest    *resty.Client // multipart uploads; shares c.http
	exec    executor

	refreshCfg *shardqueue.Config

	closedOnce uint32 // ensures Close is idempotent
}

// New constructs a Client for baseURL. Options are applied in order.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("baseURL cannot be empty")
	}

	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}

	// Auto-enable debug via env variable without changing code.
	if debugLoggingRequested() {
		opts = append(opts, WithDebugLogging(true))
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if c.exec == nil {
		c.exec = newDefaultExecutor(c.refreshCfg)
	}

	c.wrapTransportWithRequestID()
	c.rest = resty.NewWithClient(c.http)

	return c, nil
}

// wrapTransportWithRequestID tags every outgoing request with an X-Request-ID.
func (c *Client) wrapTransportWithRequestID() {
	baseTransport := c.http.Transport
	if baseTransport == nil {
		baseTransport = http.DefaultTransport
	}
	c.http.Transport = &requestIDTransport{base: baseTransport}
}

type requestIDTransport struct {
	base http.RoundTripper
}

func (t *requestIDTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get(RequestIDHeader) != "" {
		return t.base.RoundTrip(req)
	}
	cloned := req.Clone(req.Context())
	cloned.Header.Set(RequestIDHeader, uuid.NewString())
	return t.base.RoundTrip(cloned)
}

// Close stops the background executor (if any). Safe to call multiple times.
func (c *Client) Close() error {
	if !atomic.CompareAndSwapUint32(&c.closedOnce, 0, 1) {
		return nil
	}
	if c.exec != nil {
		c.exec.Stop()
	}
	return nil
}

// Submit schedules fn on the background executor. Jobs sharing a key run one
// at a time in submission order.
func (c *Client) Submit(ctx context.Context, key string, fn func(context.Context) error) error {
	if err := c.exec.Submit(ctx, key, shardqueue.JobFunc(fn)); err != nil {
		if errors.Is(err, shardqueue.ErrQueueFull) {
			return errors.Join(ErrBackPressure, err)
		}
		return err
	}
	return nil
}

// AwaitConsistency blocks until all previously submitted jobs for key have
// been executed. It submits a no-op job and waits for it to run.
func (c *Client) AwaitConsistency(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	done := make(chan struct{})
	j := shardqueue.JobFunc(func(context.Context) error {
		close(done)
		return nil
	})
	if err := c.exec.Submit(ctx, key, j); err != nil {
		return err
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

// newDefaultExecutor builds the refresh executor from cfg, or from SQ_*
// environment variables when cfg is nil.
func newDefaultExecutor(cfg *shardqueue.Config) *shardqueue.ShardExecutor {
	var c shardqueue.Config
	if cfg != nil {
		c = *cfg
	} else {
		loaded, err := shardqueue.LoadConfig()
		if err != nil {
			log.Warn().Err(err).Msg("invalid SQ_ configuration, using defaults")
		} else {
			c = loaded
		}
	}
	if c.ErrorHandler == nil {
		c.ErrorHandler = func(key string, err error) {
			log.Warn().Err(err).Str("key", key).Msg("background refresh failed")
		}
	}
	return shardqueue.NewShardExecutor(c)
}

// --------------------------------------------------------------------
// User and trip operations - delegated to internal/api
// --------------------------------------------------------------------

// CreateUser registers a new user.
func (c *Client) CreateUser(ctx context.Context, req CreateUserRequest) (*User, error) {
	u, err := api.CreateUser(ctx, c.http, c.baseURL, req)
	observe("create_user", err)
	return u, err
}

// CreateTrip creates a trip. A non-empty req.UserID attaches it to that user.
func (c *Client) CreateTrip(ctx context.Context, req CreateTripRequest) (*Trip, error) {
	t, err := api.CreateTrip(ctx, c.http, c.baseURL, req)
	observe("create_trip", err)
	return t, err
}

// GetTrip retrieves a trip with its current bag totals.
func (c *Client) GetTrip(ctx context.Context, tripID string) (*Trip, error) {
	t, err := api.GetTrip(ctx, c.http, c.baseURL, tripID)
	observe("get_trip", err)
	return t, err
}

// GetTripItems lists the items stored for a trip.
func (c *Client) GetTripItems(ctx context.Context, tripID string) ([]Item, error) {
	items, err := api.GetTripItems(ctx, c.http, c.baseURL, tripID)
	observe("get_trip_items", err)
	return items, err
}

// --------------------------------------------------------------------
// Packing operations
// --------------------------------------------------------------------

// GenerateRecommendations returns the recommended packing list of a trip.
func (c *Client) GenerateRecommendations(ctx context.Context, tripID string) ([]RecommendedItem, error) {
	recs, err := api.GenerateRecommendations(ctx, c.http, c.baseURL, tripID)
	observe("generate_recommendations", err)
	return recs, err
}

// DetectItem uploads a photo for classification against tripID.
func (c *Client) DetectItem(ctx context.Context, tripID, filename string, image io.Reader) (*ScannedItem, error) {
	item, err := api.DetectItem(ctx, c.rest, c.baseURL, tripID, filename, image)
	observe("detect_item", err)
	return item, err
}

// PackItem marks an item as packed. Success means the server confirmed it.
func (c *Client) PackItem(ctx context.Context, tripID, itemID string) error {
	err := api.PackItem(ctx, c.http, c.baseURL, tripID, itemID)
	observe("pack_item", err)
	return err
}

// UnpackItem removes an item from the packed set.
func (c *Client) UnpackItem(ctx context.Context, tripID, itemID string) error {
	err := api.UnpackItem(ctx, c.http, c.baseURL, tripID, itemID)
	observe("unpack_item", err)
	return err
}

// RemovalRecommendation asks whether an item should be packed, removed or
// swapped for a lighter candidate.
func (c *Client) RemovalRecommendation(ctx context.Context, tripID, itemID string) (*RemovalDecision, error) {
	rec, err := api.RemovalRecommendation(ctx, c.http, c.baseURL, tripID, itemID)
	observe("removal_recommendation", err)
	return rec, err
}
