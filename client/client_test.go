package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tripwise/packmate/client/internal/shardqueue"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

type stubExec struct{ stops int }

func (s *stubExec) Submit(context.Context, string, shardqueue.Job) error { return nil }
func (s *stubExec) Stop()                                                { s.stops++ }

type fullExec struct{}

func (fullExec) Submit(context.Context, string, shardqueue.Job) error {
	return &shardqueue.QueueFullError{Shard: 0, Length: 1, Capacity: 1}
}
func (fullExec) Stop() {}

func TestNew_RejectsEmptyBaseURL(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Fatal("expected error for empty baseURL")
	}
}

func TestNew_PropagatesOptionError(t *testing.T) {
	if _, err := New("http://example.com", WithHTTPTimeout(0)); err == nil {
		t.Fatal("expected option error")
	}
	if _, err := New("http://example.com", WithHTTPClient(nil)); err == nil {
		t.Fatal("expected option error")
	}
}

func TestCloseIdempotent(t *testing.T) {
	s := &stubExec{}
	c := &Client{exec: s}
	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
	if s.stops != 1 {
		t.Fatalf("executor stop called %d times", s.stops)
	}
}

func TestSubmit_BackPressure(t *testing.T) {
	c := &Client{exec: fullExec{}}
	err := c.Submit(context.Background(), "t1", func(context.Context) error { return nil })
	if !IsBackPressure(err) {
		t.Fatalf("expected back pressure, got %v", err)
	}
	if !errors.Is(err, shardqueue.ErrQueueFull) {
		t.Fatalf("underlying queue-full error lost: %v", err)
	}
	if IsBackPressure(errors.New("other")) {
		t.Fatalf("unexpected back pressure detection")
	}
}

func TestSubmitAndAwaitConsistency(t *testing.T) {
	c, err := New("http://example.com", WithRefreshConfig(RefreshConfig{Shards: 1, QueueSize: 4}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer func() { _ = c.Close() }()

	var ranFirst int32
	if err := c.Submit(context.Background(), "t1", func(context.Context) error {
		time.Sleep(30 * time.Millisecond)
		atomic.StoreInt32(&ranFirst, 1)
		return nil
	}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := c.AwaitConsistency(ctx, "t1"); err != nil {
		t.Fatalf("await: %v", err)
	}
	if atomic.LoadInt32(&ranFirst) != 1 {
		t.Fatalf("barrier returned before earlier job finished")
	}
}

func TestSubmit_AfterClose(t *testing.T) {
	c, err := New("http://example.com")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_ = c.Close()
	if err := c.Submit(context.Background(), "t1", func(context.Context) error { return nil }); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestRequestIDHeader(t *testing.T) {
	var ids []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ids = append(ids, r.Header.Get(RequestIDHeader))
		_, _ = w.Write([]byte(`{"trip_id":"t1"}`))
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer func() { _ = c.Close() }()
	for i := 0; i < 2; i++ {
		if _, err := c.GetTrip(context.Background(), "t1"); err != nil {
			t.Fatalf("GetTrip: %v", err)
		}
	}
	if len(ids) != 2 || ids[0] == "" || ids[0] == ids[1] {
		t.Fatalf("expected two distinct request ids, got %q", ids)
	}
}

func TestDetectItem_GoesThroughTransportChain(t *testing.T) {
	var sawID atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawID.Store(r.Header.Get(RequestIDHeader) != "")
		_, _ = w.Write([]byte(`{"item_id":"i1","item_name":"Shirt","packing_recommendation":"pack"}`))
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer func() { _ = c.Close() }()
	item, err := c.DetectItem(context.Background(), "t1", "shirt.jpg", strings.NewReader("img"))
	if err != nil || item.ItemID != "i1" {
		t.Fatalf("DetectItem unexpected: item=%+v err=%v", item, err)
	}
	if !sawID.Load() {
		t.Fatal("multipart upload bypassed the request-id transport")
	}
}

func TestErrorHelpers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Trip not found", http.StatusNotFound)
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer func() { _ = c.Close() }()

	_, err = c.GetTrip(context.Background(), "nope")
	if !IsNotFound(err) || StatusCode(err) != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", err)
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Text != "Trip not found" {
		t.Fatalf("expected *APIError with body text, got %v", err)
	}
	if IsNotFound(errors.New("plain")) {
		t.Fatal("plain error reported as not found")
	}
}

func TestOutcomeLabels(t *testing.T) {
	if outcome(nil) != "ok" {
		t.Fatal("nil error should be ok")
	}
	if outcome(&APIError{StatusCode: 500}) != "api_error" {
		t.Fatal("APIError should be api_error")
	}
	if outcome(errors.New("x")) != "error" {
		t.Fatal("plain error should be error")
	}
}
