package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/go-resty/resty/v2"

	sdkerrors "github.com/tripwise/packmate/client/internal/errors"
	"github.com/tripwise/packmate/client/internal/types"
)

func TestDetectItem_MultipartUpload(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/items/detect" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.URL.Query().Get("trip_id"); got != "t1" {
			t.Errorf("trip_id = %q", got)
		}
		f, hdr, err := r.FormFile("image")
		if err != nil {
			t.Errorf("form file: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer f.Close()
		data, _ := io.ReadAll(f)
		if string(data) != "jpegbytes" || hdr.Filename != "shirt.jpg" {
			t.Errorf("upload = %q %q", data, hdr.Filename)
		}
		if ct := hdr.Header.Get("Content-Type"); ct != "image/jpeg" {
			t.Errorf("part content type = %q", ct)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"item_id":"i1","item_name":"Shirt","weight_kg":0.2,"estimated_volume_cm3":900,"packing_recommendation":"pack"}`))
	}))
	defer srv.Close()

	got, err := DetectItem(context.Background(), resty.NewWithClient(srv.Client()), srv.URL, "t1", "shirt.jpg", strings.NewReader("jpegbytes"))
	if err != nil {
		t.Fatalf("DetectItem: %v", err)
	}
	if got.ItemID != "i1" || got.PackingRecommendation != types.RecommendPack || *got.WeightKg != 0.2 {
		t.Fatalf("DetectItem unexpected: %+v", got)
	}
}

func TestDetectItem_NameFromCVResult(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"item_id":"i9","weight_kg":null,"cv_results":[{"item_name":"Umbrella","class_name":"umbrella","confidence_score":0.91}]}`))
	}))
	defer srv.Close()

	got, err := DetectItem(context.Background(), resty.NewWithClient(srv.Client()), srv.URL, "t1", "", strings.NewReader("x"))
	if err != nil || got.ItemName != "Umbrella" || got.WeightKg != nil {
		t.Fatalf("DetectItem unexpected: got=%+v err=%v", got, err)
	}
}

func TestDetectItem_NotRecognized(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := DetectItem(context.Background(), resty.NewWithClient(srv.Client()), srv.URL, "t1", "a.jpg", strings.NewReader("x"))
	if sdkerrors.StatusCode(err) != http.StatusInternalServerError {
		t.Fatalf("expected 500 APIError, got %v", err)
	}
}

func TestDetectItem_Validation(t *testing.T) {
	t.Parallel()
	rc := resty.New()
	if _, err := DetectItem(context.Background(), rc, "http://x", "", "a.jpg", strings.NewReader("x")); err == nil {
		t.Fatal("expected tripId validation error")
	}
	if _, err := DetectItem(context.Background(), rc, "http://x", "t1", "a.jpg", nil); err == nil {
		t.Fatal("expected image validation error")
	}
}

func TestPackUnpack_Methods(t *testing.T) {
	t.Parallel()
	var posts, deletes atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/trips/t1/item/i1" {
			t.Errorf("path = %s", r.URL.Path)
		}
		switch r.Method {
		case http.MethodPost:
			posts.Add(1)
			_, _ = w.Write([]byte(`{"message":"packed"}`))
		case http.MethodDelete:
			deletes.Add(1)
			w.WriteHeader(http.StatusNoContent)
		}
	}))
	defer srv.Close()

	if err := PackItem(context.Background(), srv.Client(), srv.URL, "t1", "i1"); err != nil {
		t.Fatalf("PackItem: %v", err)
	}
	if err := UnpackItem(context.Background(), srv.Client(), srv.URL, "t1", "i1"); err != nil {
		t.Fatalf("UnpackItem: %v", err)
	}
	if posts.Load() != 1 || deletes.Load() != 1 {
		t.Fatalf("posts=%d deletes=%d", posts.Load(), deletes.Load())
	}
}

func TestPackItem_Failure(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("try later"))
	}))
	defer srv.Close()
	err := PackItem(context.Background(), srv.Client(), srv.URL, "t1", "i1")
	if err == nil || err.Error() != "API error (503): try later" {
		t.Fatalf("unexpected error: %v", err)
	}
	if sdkerrors.IsIrrecoverable(err) {
		t.Fatal("503 must be recoverable")
	}
}
