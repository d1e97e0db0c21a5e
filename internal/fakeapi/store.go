package fakeapi

import (
	"errors"
	"slices"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/tripwise/packmate/client"
)

var (
	errUserNotFound = errors.New("user not found")
	errTripNotFound = errors.New("trip not found")
	errItemNotFound = errors.New("item not found")
	errNotOnTrip    = errors.New("item does not belong to this trip")
	errNotPacked    = errors.New("item is not packed")
)

type storedItem struct {
	client.Item
	entry catalogEntry
}

type storedTrip struct {
	trip   client.Trip
	items  []string // attached item ids, detection order
	packed map[string]bool
}

// Store is the in-memory state of the stand-in API.
type Store struct {
	mu      sync.Mutex
	limitKg float64
	users   map[string]*client.User
	trips   map[string]*storedTrip
	items   map[string]*storedItem
}

// NewStore returns an empty store grading bags against limitKg.
func NewStore(limitKg float64) *Store {
	return &Store{
		limitKg: limitKg,
		users:   make(map[string]*client.User),
		trips:   make(map[string]*storedTrip),
		items:   make(map[string]*storedItem),
	}
}

func (s *Store) CreateUser(req client.CreateUserRequest) client.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := &client.User{
		UserID: uuid.NewString(),
		Name:   req.Name,
		Email:  req.Email,
		Age:    req.Age,
		Gender: req.Gender,
	}
	s.users[u.UserID] = u
	return *u
}

func (s *Store) CreateTrip(req client.CreateTripRequest, userID string) (client.Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var owner *client.User
	if userID != "" {
		u, ok := s.users[userID]
		if !ok {
			return client.Trip{}, errUserNotFound
		}
		owner = u
	}
	st := &storedTrip{
		trip: client.Trip{
			TripID:       uuid.NewString(),
			Destination:  req.Destination,
			DurationDays: req.DurationDays,
			DoingLaundry: req.DoingLaundry,
			Activities:   req.Activities,
		},
		packed: make(map[string]bool),
	}
	s.trips[st.trip.TripID] = st
	if owner != nil {
		owner.Trips = append(owner.Trips, st.trip.TripID)
	}
	return s.view(st), nil
}

func (s *Store) Trip(tripID string) (client.Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.trips[tripID]
	if !ok {
		return client.Trip{}, errTripNotFound
	}
	return s.view(st), nil
}

func (s *Store) TripItems(tripID string) ([]client.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.trips[tripID]
	if !ok {
		return nil, errTripNotFound
	}
	out := make([]client.Item, 0, len(st.items))
	for _, id := range st.items {
		out = append(out, s.items[id].Item)
	}
	return out, nil
}

func (s *Store) Recommendations(tripID string) ([]client.RecommendedItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.trips[tripID]
	if !ok {
		return nil, errTripNotFound
	}
	return recommend(st.trip), nil
}

// Detect stores a newly recognised item against tripID.
func (s *Store) Detect(tripID string, e catalogEntry) (client.ScannedItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.trips[tripID]
	if !ok {
		return client.ScannedItem{}, errTripNotFound
	}

	weight, volume, conf := e.WeightKg, e.volume(), 0.93
	it := &storedItem{
		Item: client.Item{
			ItemID:             uuid.NewString(),
			Name:               e.Name,
			WeightKg:           &weight,
			Confidence:         &conf,
			DimensionsCm:       map[string]float64{"length": e.Dimensions[0], "width": e.Dimensions[1], "height": e.Dimensions[2]},
			EstimatedVolumeCm3: &volume,
		},
		entry: e,
	}
	s.items[it.ItemID] = it
	st.items = append(st.items, it.ItemID)

	verdict, _, _ := decide(e, s.packedWeight(st), s.limitKg)
	return client.ScannedItem{
		ItemID:                it.ItemID,
		ItemName:              e.Name,
		WeightKg:              &weight,
		EstimatedVolumeCm3:    &volume,
		PackingRecommendation: verdict,
		CVResults: []client.CVResult{{
			ItemName:        e.Name,
			ClassName:       e.Class,
			ConfidenceScore: conf,
			BoundingBoxes:   []client.BoundingBox{{XMin: 12, YMin: 18, XMax: 412, YMax: 596}},
			Dimensions:      &client.Dimensions{Length: e.Dimensions[0], Width: e.Dimensions[1]},
		}},
	}, nil
}

// SetPacked marks an attached item packed or unpacked.
func (s *Store) SetPacked(tripID, itemID string, packed bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.trips[tripID]
	if !ok {
		return errTripNotFound
	}
	if _, ok := s.items[itemID]; !ok {
		return errItemNotFound
	}
	if !slices.Contains(st.items, itemID) {
		st.items = append(st.items, itemID)
	}
	if packed {
		st.packed[itemID] = true
		return nil
	}
	if !st.packed[itemID] {
		return errNotPacked
	}
	delete(st.packed, itemID)
	return nil
}

func (s *Store) RemovalRecommendation(tripID, itemID string) (client.RemovalDecision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.trips[tripID]
	if !ok {
		return client.RemovalDecision{}, errTripNotFound
	}
	it, ok := s.items[itemID]
	if !ok {
		return client.RemovalDecision{}, errItemNotFound
	}
	if !slices.Contains(st.items, itemID) {
		return client.RemovalDecision{}, errNotOnTrip
	}

	packed := s.packedWeight(st)
	if st.packed[itemID] {
		packed -= it.entry.WeightKg
	}
	verdict, reason, lighter := decide(it.entry, packed, s.limitKg)
	sort.Slice(lighter, func(i, j int) bool { return lighter[i].WeightKg < lighter[j].WeightKg })
	dec := client.RemovalDecision{Status: verdict, Reason: reason}
	for _, c := range lighter {
		w, v := c.WeightKg, c.volume()
		dec.SwapCandidates = append(dec.SwapCandidates, client.ScannedItem{
			ItemName:              c.Name,
			WeightKg:              &w,
			EstimatedVolumeCm3:    &v,
			PackingRecommendation: client.RecommendPack,
		})
	}
	return dec, nil
}

func (s *Store) packedWeight(st *storedTrip) float64 {
	var total float64
	for id := range st.packed {
		total += s.items[id].entry.WeightKg
	}
	return total
}

// view returns the trip with current totals. Callers hold s.mu.
func (s *Store) view(st *storedTrip) client.Trip {
	t := st.trip
	t.Items = append([]string(nil), st.items...)
	for id := range st.packed {
		it := s.items[id]
		t.TotalItemsWeight += it.entry.WeightKg
		t.TotalItemsVolume += it.entry.volume()
	}
	return t
}
