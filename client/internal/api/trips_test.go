package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sdkerrors "github.com/tripwise/packmate/client/internal/errors"
	"github.com/tripwise/packmate/client/internal/types"
)

func TestCreateTrip_SendsUserIDQuery(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/trips" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.URL.Query().Get("user_id"); got != "u1" {
			t.Errorf("user_id = %q", got)
		}
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		if _, ok := body["user_id"]; ok {
			t.Errorf("user_id must not be in the body")
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(types.Trip{TripID: "t1", Destination: body["destination"].(string)})
	}))
	defer srv.Close()

	got, err := CreateTrip(context.Background(), srv.Client(), srv.URL, types.CreateTripRequest{Destination: "Oslo", DurationDays: 3, UserID: "u1"})
	if err != nil || got == nil || got.TripID != "t1" || got.Destination != "Oslo" {
		t.Fatalf("CreateTrip unexpected: got=%+v err=%v", got, err)
	}
}

func TestGetTrip_Success(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/trips/t1" {
			t.Errorf("path = %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"trip_id":"t1","total_items_weight":1.5,"total_items_volume":2}`))
	}))
	defer srv.Close()

	got, err := GetTrip(context.Background(), srv.Client(), srv.URL, "t1")
	if err != nil || got.TotalItemsWeight != 1.5 || got.TotalItemsVolume != 2 {
		t.Fatalf("GetTrip unexpected: got=%+v err=%v", got, err)
	}
}

func TestGetTrip_NotFound(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Trip not found", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := GetTrip(context.Background(), srv.Client(), srv.URL, "missing")
	var apiErr *sdkerrors.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T %v", err, err)
	}
	if apiErr.StatusCode != http.StatusNotFound || err.Error() != "API error (404): Trip not found" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestGetTripItems_EmptyList(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/trips/t1/items" {
			t.Errorf("path = %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	got, err := GetTripItems(context.Background(), srv.Client(), srv.URL, "t1")
	if err != nil || got == nil || len(got) != 0 {
		t.Fatalf("GetTripItems unexpected: got=%+v err=%v", got, err)
	}
}

func TestTrips_ValidationAndNetwork(t *testing.T) {
	t.Parallel()
	hc := &http.Client{Transport: &errRT{}}
	if _, err := GetTrip(context.Background(), hc, "http://x", " "); err == nil || !strings.Contains(err.Error(), "tripId") {
		t.Fatalf("expected tripId validation error, got %v", err)
	}
	_, err := GetTrip(context.Background(), hc, "http://x", "t1")
	var netErr *sdkerrors.NetworkError
	if !errors.As(err, &netErr) || !strings.Contains(err.Error(), "network error") {
		t.Fatalf("expected network error, got %v", err)
	}
}

func TestTrips_CanceledContext(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := GetTrip(ctx, &http.Client{Transport: &errRT{}}, "http://x", "t1"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestGetTrip_DecodeError(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{bad json"))
	}))
	defer srv.Close()
	if _, err := GetTrip(context.Background(), srv.Client(), srv.URL, "t1"); err == nil {
		t.Fatal("expected decode error for GetTrip")
	}
}

func TestEndpoint_EscapesSegments(t *testing.T) {
	t.Parallel()
	if got := endpoint("http://h/", "trips", "a b/c"); got != "http://h/trips/a%20b%2Fc" {
		t.Fatalf("endpoint = %q", got)
	}
}
