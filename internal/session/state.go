// Package session holds the identity context shared by every front-end:
// the active user, the active trip and the most recent detection.
package session

import (
	"sync"

	"github.com/tripwise/packmate/client"
)

// State is the in-memory identity context. The zero value is not usable;
// call New. All methods are safe for concurrent use and the last writer
// wins per field.
type State struct {
	mu          sync.RWMutex
	userID      string
	tripID      string
	currentItem *client.ScannedItem
}

// Snapshot is a point-in-time copy of State.
type Snapshot struct {
	UserID      string
	TripID      string
	CurrentItem *client.ScannedItem
}

// New returns a State with every field unset.
func New() *State {
	return &State{}
}

func (s *State) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID
}

func (s *State) SetUserID(id string) {
	s.mu.Lock()
	s.userID = id
	s.mu.Unlock()
}

// TripID returns the active trip, or "" when none is selected.
func (s *State) TripID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tripID
}

func (s *State) SetTripID(id string) {
	s.mu.Lock()
	s.tripID = id
	s.mu.Unlock()
}

// CurrentItem returns the last detection without consuming it.
func (s *State) CurrentItem() *client.ScannedItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentItem
}

// SetCurrentItem records a detection result. nil clears it.
func (s *State) SetCurrentItem(item *client.ScannedItem) {
	s.mu.Lock()
	s.currentItem = item
	s.mu.Unlock()
}

// TakeCurrentItem returns the pending detection and clears it, so each scan
// is merged exactly once.
func (s *State) TakeCurrentItem() *client.ScannedItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	item := s.currentItem
	s.currentItem = nil
	return item
}

func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{UserID: s.userID, TripID: s.tripID, CurrentItem: s.currentItem}
}
