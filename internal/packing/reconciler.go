package packing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tripwise/packmate/client"
	"github.com/tripwise/packmate/internal/session"
)

var (
	// ErrNotToggleable is returned when toggling a row that has no server
	// item behind it yet.
	ErrNotToggleable = errors.New("item cannot be toggled until it is scanned")
	// ErrUnknownItem is returned when toggling an identity not in the list.
	ErrUnknownItem = errors.New("item not in packing list")
)

// API is the subset of the remote SDK the reconciler drives. *client.Client
// satisfies it.
type API interface {
	GenerateRecommendations(ctx context.Context, tripID string) ([]client.RecommendedItem, error)
	GetTrip(ctx context.Context, tripID string) (*client.Trip, error)
	DetectItem(ctx context.Context, tripID, filename string, image io.Reader) (*client.ScannedItem, error)
	PackItem(ctx context.Context, tripID, itemID string) error
	UnpackItem(ctx context.Context, tripID, itemID string) error
	Submit(ctx context.Context, key string, fn func(context.Context) error) error
	AwaitConsistency(ctx context.Context, key string) error
}

// Reconciler owns the merged packing list of the session's active trip.
//
// Membership in the checked set changes only after the server confirms a
// pack or unpack. Bag totals are never computed locally; they are re-read
// from the server after every confirmed mutation. The mutex is never held
// across a network call; results are applied only if the trip generation
// they were fetched for is still current.
type Reconciler struct {
	api  API
	sess *session.State

	mu             sync.Mutex
	tripID         string
	gen            uint64
	items          []Item
	checked        map[string]struct{}
	info           *client.Trip
	recommendedFor string
}

// View is a copy of the reconciler state for rendering.
type View struct {
	TripID  string
	Items   []Item
	Checked map[string]bool
	Info    *client.Trip
}

// IsChecked reports whether the item at index is packed.
func (v View) IsChecked(index int) bool {
	if index < 0 || index >= len(v.Items) {
		return false
	}
	return v.Checked[Identity(v.Items[index], index)]
}

// NewReconciler returns a Reconciler bound to sess.
func NewReconciler(api API, sess *session.State) *Reconciler {
	return &Reconciler{
		api:     api,
		sess:    sess,
		checked: make(map[string]struct{}),
	}
}

// adopt makes tripID the reconciler's trip, resetting all state when it
// differs from the current one, and returns the generation to tag work with.
func (r *Reconciler) adopt(tripID string) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if tripID != r.tripID {
		log.Debug().Str("from", r.tripID).Str("to", tripID).Msg("packing: trip changed, resetting list")
		r.tripID = tripID
		r.gen++
		r.items = nil
		r.checked = make(map[string]struct{})
		r.info = nil
		r.recommendedFor = ""
	}
	return r.gen
}

// apply runs fn under the lock if gen is still current.
func (r *Reconciler) apply(gen uint64, what string, fn func()) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if gen != r.gen {
		staleResponsesTotal.WithLabelValues(what).Inc()
		log.Debug().Str("kind", what).Msg("packing: dropping response for superseded trip")
		return false
	}
	fn()
	return true
}

// Activate is the focus hook of the packing view. It follows the session's
// trip, fetches recommendations once per trip and refreshes the bag totals.
// Fetch failures are logged, not returned.
func (r *Reconciler) Activate(ctx context.Context) {
	tripID := r.sess.TripID()
	if tripID == "" {
		return
	}
	r.adopt(tripID)

	r.mu.Lock()
	needRecs := r.recommendedFor != tripID
	if needRecs {
		r.recommendedFor = tripID
	}
	r.mu.Unlock()

	if needRecs {
		if err := r.FetchRecommendations(ctx); err != nil {
			log.Warn().Err(err).Str("trip_id", tripID).Msg("packing: recommendation fetch failed")
		}
	}
	if err := r.FetchTripInfo(ctx); err != nil {
		log.Warn().Err(err).Str("trip_id", tripID).Msg("packing: trip info fetch failed")
	}
}

// FetchRecommendations loads the trip's recommended list and rebuilds the
// merged list around it. On error the list is left unchanged.
func (r *Reconciler) FetchRecommendations(ctx context.Context) error {
	tripID := r.sess.TripID()
	if tripID == "" {
		return nil
	}
	gen := r.adopt(tripID)

	recs, err := r.api.GenerateRecommendations(ctx, tripID)
	if err != nil {
		return err
	}
	r.apply(gen, "recommendations", func() {
		r.items = ApplyRecommendations(r.items, recs)
	})
	return nil
}

// FetchTripInfo reloads the trip and its bag totals.
func (r *Reconciler) FetchTripInfo(ctx context.Context) error {
	tripID := r.sess.TripID()
	if tripID == "" {
		return nil
	}
	return r.refreshTripInfo(ctx, tripID, r.adopt(tripID))
}

func (r *Reconciler) refreshTripInfo(ctx context.Context, tripID string, gen uint64) error {
	trip, err := r.api.GetTrip(ctx, tripID)
	if err != nil {
		return err
	}
	r.apply(gen, "trip_info", func() {
		r.info = trip
	})
	return nil
}

// Pack asks the server to mark itemID packed and records it as checked once
// confirmed. Errors are returned unchanged and leave the checked set as it
// was. Without an active trip it does nothing.
func (r *Reconciler) Pack(ctx context.Context, itemID string) error {
	return r.mutate(ctx, itemID, true)
}

// Unpack is the inverse of Pack.
func (r *Reconciler) Unpack(ctx context.Context, itemID string) error {
	return r.mutate(ctx, itemID, false)
}

func (r *Reconciler) mutate(ctx context.Context, itemID string, pack bool) error {
	tripID := r.sess.TripID()
	if tripID == "" {
		return nil
	}
	gen := r.adopt(tripID)

	action := "unpack"
	call := r.api.UnpackItem
	if pack {
		action = "pack"
		call = r.api.PackItem
	}

	start := time.Now()
	if err := call(ctx, tripID, itemID); err != nil {
		mutationsTotal.WithLabelValues(action, "error").Inc()
		log.Debug().Err(err).Str("trip_id", tripID).Str("item_id", itemID).Str("action", action).Msg("packing: mutation rejected")
		return err
	}
	mutationsTotal.WithLabelValues(action, "ok").Inc()

	r.apply(gen, action, func() {
		if pack {
			r.checked[itemID] = struct{}{}
		} else {
			delete(r.checked, itemID)
		}
	})
	log.Debug().Str("trip_id", tripID).Str("item_id", itemID).Str("action", action).Dur("elapsed", time.Since(start)).Msg("packing: mutation confirmed")

	r.scheduleRefresh(ctx, tripID, gen)
	return nil
}

// scheduleRefresh re-reads bag totals on the background executor. Refreshes
// for one trip run in order.
func (r *Reconciler) scheduleRefresh(ctx context.Context, tripID string, gen uint64) {
	job := func(jobCtx context.Context) error {
		return r.refreshTripInfo(jobCtx, tripID, gen)
	}
	if err := r.api.Submit(context.WithoutCancel(ctx), tripID, job); err != nil {
		log.Warn().Err(err).Str("trip_id", tripID).Msg("packing: could not schedule bag refresh")
	}
}

// AwaitRefresh blocks until every bag refresh scheduled so far for the
// active trip has run.
func (r *Reconciler) AwaitRefresh(ctx context.Context) error {
	r.mu.Lock()
	tripID := r.tripID
	r.mu.Unlock()
	if tripID == "" {
		return nil
	}
	return r.api.AwaitConsistency(ctx, tripID)
}

// Toggle packs an unchecked item or unpacks a checked one. id is the item's
// Identity.
func (r *Reconciler) Toggle(ctx context.Context, id string) error {
	if r.sess.TripID() == "" {
		return nil
	}

	r.mu.Lock()
	var (
		found   bool
		item    Item
		checked bool
	)
	for i, it := range r.items {
		if Identity(it, i) == id {
			found, item = true, it
			_, checked = r.checked[id]
			break
		}
	}
	r.mu.Unlock()

	switch {
	case !found:
		return fmt.Errorf("%w: %s", ErrUnknownItem, id)
	case !Toggleable(item):
		return fmt.Errorf("%w: %s", ErrNotToggleable, item.Name())
	case checked:
		return r.Unpack(ctx, item.ID())
	default:
		return r.Pack(ctx, item.ID())
	}
}

// Arrive merges the pending detection from the session into the list. A
// detection recommended for packing is packed straight away; a failure of
// that pack is returned but the merge is kept.
func (r *Reconciler) Arrive(ctx context.Context) error {
	tripID := r.sess.TripID()
	if tripID == "" {
		return nil
	}
	gen := r.adopt(tripID)

	scanned := r.sess.TakeCurrentItem()
	if scanned == nil {
		return nil
	}
	var displaced []string
	merged := r.apply(gen, "arrival", func() {
		displaced = displacedIDs(r.items, *scanned)
		r.items = Merge(r.items, *scanned)
	})
	if len(displaced) > 0 {
		log.Info().
			Str("trip_id", tripID).
			Str("item_id", scanned.ItemID).
			Strs("displaced_ids", displaced).
			Msg("packing: scanned item displaced a confirmed entry")
	}
	if !merged || scanned.PackingRecommendation != client.RecommendPack || scanned.ItemID == "" {
		return nil
	}
	if err := r.Pack(ctx, scanned.ItemID); err != nil {
		return fmt.Errorf("auto-pack %s: %w", scanned.ItemName, err)
	}
	return nil
}

// Scan sends a photo for detection, stores the result as the session's
// current item and merges it. The detected item is returned even when the
// follow-up auto-pack fails. Without an active trip nothing is sent and Scan
// returns (nil, nil), so callers must check the item as well as the error.
func (r *Reconciler) Scan(ctx context.Context, filename string, image io.Reader) (*client.ScannedItem, error) {
	tripID := r.sess.TripID()
	if tripID == "" {
		return nil, nil
	}
	item, err := r.api.DetectItem(ctx, tripID, filename, image)
	if err != nil {
		return nil, err
	}
	if r.sess.TripID() != tripID {
		log.Info().Str("trip_id", tripID).Str("item_id", item.ItemID).Msg("packing: trip changed during detection, result not merged")
		return item, nil
	}
	r.sess.SetCurrentItem(item)
	return item, r.Arrive(ctx)
}

// Snapshot returns a copy of the current state.
func (r *Reconciler) Snapshot() View {
	r.mu.Lock()
	defer r.mu.Unlock()
	v := View{
		TripID:  r.tripID,
		Items:   append([]Item(nil), r.items...),
		Checked: make(map[string]bool, len(r.checked)),
	}
	for id := range r.checked {
		v.Checked[id] = true
	}
	if r.info != nil {
		info := *r.info
		v.Info = &info
	}
	return v
}
