package packing

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/tripwise/packmate/client"
)

// stubAPI records calls and answers from canned data. Background jobs run
// inline on Submit.
type stubAPI struct {
	mu    sync.Mutex
	calls []string

	recs   map[string][]client.RecommendedItem
	trips  map[string]*client.Trip
	detect *client.ScannedItem

	recErr, tripErr, detectErr, packErr, unpackErr error

	// recGate, when set for a trip, blocks GenerateRecommendations until
	// closed; recEntered is signalled first.
	recGate    map[string]chan struct{}
	recEntered chan string

	// packGate, when set, blocks PackItem until closed; packEntered is
	// signalled first.
	packGate    chan struct{}
	packEntered chan string
}

func newStubAPI() *stubAPI {
	return &stubAPI{
		recs:    map[string][]client.RecommendedItem{},
		trips:   map[string]*client.Trip{},
		recGate: map[string]chan struct{}{},
	}
}

func (s *stubAPI) record(format string, args ...any) {
	s.mu.Lock()
	s.calls = append(s.calls, fmt.Sprintf(format, args...))
	s.mu.Unlock()
}

func (s *stubAPI) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func (s *stubAPI) count(call string) int {
	n := 0
	for _, c := range s.Calls() {
		if c == call {
			n++
		}
	}
	return n
}

func (s *stubAPI) GenerateRecommendations(ctx context.Context, tripID string) ([]client.RecommendedItem, error) {
	s.record("recommendations %s", tripID)
	s.mu.Lock()
	gate := s.recGate[tripID]
	s.mu.Unlock()
	if gate != nil {
		if s.recEntered != nil {
			s.recEntered <- tripID
		}
		<-gate
	}
	if s.recErr != nil {
		return nil, s.recErr
	}
	return s.recs[tripID], nil
}

func (s *stubAPI) GetTrip(ctx context.Context, tripID string) (*client.Trip, error) {
	s.record("trip %s", tripID)
	if s.tripErr != nil {
		return nil, s.tripErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.trips[tripID]
	if !ok {
		return &client.Trip{TripID: tripID}, nil
	}
	cp := *t
	return &cp, nil
}

func (s *stubAPI) DetectItem(ctx context.Context, tripID, filename string, image io.Reader) (*client.ScannedItem, error) {
	s.record("detect %s", tripID)
	if s.detectErr != nil {
		return nil, s.detectErr
	}
	cp := *s.detect
	return &cp, nil
}

func (s *stubAPI) PackItem(ctx context.Context, tripID, itemID string) error {
	s.record("pack %s %s", tripID, itemID)
	if s.packGate != nil {
		if s.packEntered != nil {
			s.packEntered <- itemID
		}
		<-s.packGate
	}
	return s.packErr
}

func (s *stubAPI) UnpackItem(ctx context.Context, tripID, itemID string) error {
	s.record("unpack %s %s", tripID, itemID)
	return s.unpackErr
}

func (s *stubAPI) Submit(ctx context.Context, key string, fn func(context.Context) error) error {
	_ = fn(ctx)
	return nil
}

func (s *stubAPI) AwaitConsistency(ctx context.Context, key string) error { return nil }

// setTotals changes the bag totals GetTrip reports for tripID.
func (s *stubAPI) setTotals(tripID string, weight, volume float64) {
	s.mu.Lock()
	s.trips[tripID] = &client.Trip{TripID: tripID, TotalItemsWeight: weight, TotalItemsVolume: volume}
	s.mu.Unlock()
}
