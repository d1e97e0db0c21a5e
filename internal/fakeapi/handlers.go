// Package fakeapi is an in-memory stand-in for the remote packing API,
// used for local development and end-to-end tests of the client.
package fakeapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/tripwise/packmate/client"
)

// maxUploadBytes bounds a detection upload.
const maxUploadBytes = 10 << 20

// Handler serves the packing API routes over a Store.
type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

// NewRouter wires every route of the stand-in API.
func NewRouter(store *Store) *mux.Router {
	h := NewHandler(store)
	r := mux.NewRouter()
	r.Use(recoverer, accessLog)

	r.HandleFunc("/users", h.CreateUser).Methods(http.MethodPost)
	r.HandleFunc("/trips", h.CreateTrip).Methods(http.MethodPost)
	r.HandleFunc("/trips/{tripId}", h.GetTrip).Methods(http.MethodGet)
	r.HandleFunc("/trips/{tripId}/items", h.GetTripItems).Methods(http.MethodGet)
	r.HandleFunc("/trips/{tripId}/recommendations", h.Recommendations).Methods(http.MethodGet, http.MethodPost)
	r.HandleFunc("/trips/{tripId}/item/{itemId}", h.PackItem).Methods(http.MethodPost)
	r.HandleFunc("/trips/{tripId}/item/{itemId}", h.UnpackItem).Methods(http.MethodDelete)
	r.HandleFunc("/trips/{tripId}/item/{itemId}/removal-recommendation", h.RemovalRecommendation).Methods(http.MethodPost)
	r.HandleFunc("/items/detect", h.Detect).Methods(http.MethodPost)
	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	return r
}

// Health GET /health. The store has no dependencies, so it is always healthy.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// CreateUser POST /users
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req client.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if strings.TrimSpace(req.Name) == "" || !strings.Contains(req.Email, "@") {
		writeError(w, http.StatusUnprocessableEntity, "name and a valid email are required")
		return
	}
	writeJSON(w, http.StatusCreated, h.store.CreateUser(req))
}

// CreateTrip POST /trips?user_id=
func (h *Handler) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var req client.CreateTripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if strings.TrimSpace(req.Destination) == "" || req.DurationDays <= 0 {
		writeError(w, http.StatusUnprocessableEntity, "destination and a positive duration_days are required")
		return
	}
	trip, err := h.store.CreateTrip(req, r.URL.Query().Get("user_id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, trip)
}

// GetTrip GET /trips/{tripId}
func (h *Handler) GetTrip(w http.ResponseWriter, r *http.Request) {
	trip, err := h.store.Trip(mux.Vars(r)["tripId"])
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trip)
}

// GetTripItems GET /trips/{tripId}/items
func (h *Handler) GetTripItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.TripItems(mux.Vars(r)["tripId"])
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// Recommendations GET|POST /trips/{tripId}/recommendations
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	recs, err := h.store.Recommendations(mux.Vars(r)["tripId"])
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

// Detect POST /items/detect?trip_id=  (multipart field "image")
//
// The stand-in recognises an object by the upload's file name, e.g.
// "laptop_charger.jpg".
func (h *Handler) Detect(w http.ResponseWriter, r *http.Request) {
	tripID := r.URL.Query().Get("trip_id")
	if tripID == "" {
		writeError(w, http.StatusUnprocessableEntity, "trip_id is required")
		return
	}
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "expected multipart form")
		return
	}
	file, hdr, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "image is required")
		return
	}
	_ = file.Close()

	entry, ok := classify(hdr.Filename)
	if !ok {
		writeError(w, http.StatusInternalServerError, "Object not recognized")
		return
	}
	item, err := h.store.Detect(tripID, entry)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// PackItem POST /trips/{tripId}/item/{itemId}
func (h *Handler) PackItem(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.store.SetPacked(vars["tripId"], vars["itemId"], true); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Item packed", "trip_id": vars["tripId"], "item_id": vars["itemId"]})
}

// UnpackItem DELETE /trips/{tripId}/item/{itemId}
func (h *Handler) UnpackItem(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.store.SetPacked(vars["tripId"], vars["itemId"], false); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Item unpacked", "trip_id": vars["tripId"], "item_id": vars["itemId"]})
}

// RemovalRecommendation POST /trips/{tripId}/item/{itemId}/removal-recommendation
func (h *Handler) RemovalRecommendation(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	dec, err := h.store.RemovalRecommendation(vars["tripId"], vars["itemId"])
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dec)
}

// writeStoreError maps store errors to HTTP status codes.
func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errUserNotFound), errors.Is(err, errTripNotFound), errors.Is(err, errItemNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, errNotOnTrip), errors.Is(err, errNotPacked):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
