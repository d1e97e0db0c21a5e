package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tripwise/packmate/client/internal/types"
)

func TestGenerateRecommendations_PreservesServerOrder(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/trips/t1/recommendations" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		_, _ = w.Write([]byte(`[{"item_name":"Shirt","reason":"daily wear","priority":1},{"item_name":"Passport"}]`))
	}))
	defer srv.Close()

	got, err := GenerateRecommendations(context.Background(), srv.Client(), srv.URL, "t1")
	if err != nil || len(got) != 2 {
		t.Fatalf("GenerateRecommendations unexpected: got=%+v err=%v", got, err)
	}
	if got[0].ItemName != "Shirt" || got[1].ItemName != "Passport" {
		t.Fatalf("order not preserved: %+v", got)
	}
	if got[0].Priority == nil || *got[0].Priority != 1 || got[1].Priority != nil {
		t.Fatalf("priority decoding: %+v", got)
	}
}

func TestGenerateRecommendations_ServerError(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()
	if _, err := GenerateRecommendations(context.Background(), srv.Client(), srv.URL, "t1"); err == nil || err.Error() != "API error (502): Bad Gateway" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRemovalRecommendation_Swap(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/trips/t1/item/i1/removal-recommendation" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"status":"swap","reason":"lighter option","swap_candidates":[{"item_id":"i2","item_name":"Sandals","weight_kg":0.4}]}`))
	}))
	defer srv.Close()

	got, err := RemovalRecommendation(context.Background(), srv.Client(), srv.URL, "t1", "i1")
	if err != nil || got.Status != types.RecommendSwap || len(got.SwapCandidates) != 1 {
		t.Fatalf("RemovalRecommendation unexpected: got=%+v err=%v", got, err)
	}
	if got.SwapCandidates[0].WeightKg == nil || *got.SwapCandidates[0].WeightKg != 0.4 {
		t.Fatalf("swap candidate weight: %+v", got.SwapCandidates[0])
	}
}

func TestRemovalRecommendation_RequiresItemID(t *testing.T) {
	t.Parallel()
	if _, err := RemovalRecommendation(context.Background(), &http.Client{Transport: &errRT{}}, "http://x", "t1", ""); err == nil {
		t.Fatal("expected validation error")
	}
}
