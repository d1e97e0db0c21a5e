package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	"github.com/tripwise/packmate/client"
	"github.com/tripwise/packmate/internal/packing"
	"github.com/tripwise/packmate/internal/session"
)

// Reconciler is the part of *packing.Reconciler the tools drive.
type Reconciler interface {
	Activate(ctx context.Context)
	Toggle(ctx context.Context, id string) error
	AwaitRefresh(ctx context.Context) error
	Scan(ctx context.Context, filename string, image io.Reader) (*client.ScannedItem, error)
	Snapshot() packing.View
}

// Limits are the bag limits totals are graded against.
type Limits struct {
	WeightKg  float64
	VolumeCm3 float64
}

// PackingHandler exposes the packing list of the session's trip.
type PackingHandler struct {
	rec    Reconciler
	sess   *session.State
	limits Limits
}

// NewPackingHandler returns a handler over rec bound to sess.
func NewPackingHandler(rec Reconciler, sess *session.State, limits Limits) *PackingHandler {
	return &PackingHandler{rec: rec, sess: sess, limits: limits}
}

// RegisterTools registers set_trip, packing_list, toggle_item, scan_item and
// trip_status.
func (ph *PackingHandler) RegisterTools(s *server.MCPServer) error {
	setTrip := mcp.NewTool("set_trip",
		mcp.WithDescription("Select the trip whose packing list the other tools operate on"),
		mcp.WithString("trip_id", mcp.Required(), mcp.Description("The trip id")),
		mcp.WithString("user_id", mcp.Description("Optional user id to record in the session")),
	)
	s.AddTool(setTrip, ph.handleSetTrip)

	list := mcp.NewTool("packing_list",
		mcp.WithDescription("Return the packing list of the active trip: recommended placeholders and scanned items with their packed state"),
	)
	s.AddTool(list, ph.handlePackingList)

	toggle := mcp.NewTool("toggle_item",
		mcp.WithDescription("Pack an unpacked scanned item, or unpack a packed one. The list changes only after the server confirms."),
		mcp.WithString("item_id", mcp.Required(), mcp.Description("The item id from packing_list")),
	)
	s.AddTool(toggle, ph.handleToggle)

	scan := mcp.NewTool("scan_item",
		mcp.WithDescription("Upload a photo for detection and merge the detected item into the packing list. Items recommended for packing are packed automatically."),
		mcp.WithString("image_path", mcp.Required(), mcp.Description("Path of a JPEG image on the server's filesystem")),
	)
	s.AddTool(scan, ph.handleScan)

	status := mcp.NewTool("trip_status",
		mcp.WithDescription("Report bag weight and volume totals of the active trip against the configured limits"),
	)
	s.AddTool(status, ph.handleStatus)

	return nil
}

type listRow struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Kind       string   `json:"kind"`
	Packed     bool     `json:"packed"`
	Toggleable bool     `json:"toggleable"`
	Label      string   `json:"label,omitempty"`
	Details    []string `json:"details,omitempty"`
}

type pillJSON struct {
	Text  string `json:"text"`
	Level string `json:"level"`
}

type statusJSON struct {
	TripID      string   `json:"trip_id"`
	Destination string   `json:"destination,omitempty"`
	Weight      pillJSON `json:"weight"`
	Volume      pillJSON `json:"volume"`
}

var errNoTrip = errors.New("no active trip; call set_trip first")

func (ph *PackingHandler) handleSetTrip(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tripID, err := req.RequireString("trip_id")
	if err != nil || tripID == "" {
		return mcp.NewToolResultError("trip_id parameter is required"), nil
	}
	if userID, ok := req.GetArguments()["user_id"].(string); ok && userID != "" {
		ph.sess.SetUserID(userID)
	}
	ph.sess.SetTripID(tripID)

	start := time.Now()
	ph.rec.Activate(ctx)
	v := ph.rec.Snapshot()
	log.Debug().
		Str("trip_id", tripID).
		Int("items", len(v.Items)).
		Dur("elapsed", time.Since(start)).
		Msg("set_trip completed")

	return mcp.NewToolResultText(fmt.Sprintf("Active trip %s with %d items on the packing list", tripID, len(v.Items))), nil
}

func (ph *PackingHandler) handlePackingList(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if ph.sess.TripID() == "" {
		return mcp.NewToolResultError(errNoTrip.Error()), nil
	}
	ph.rec.Activate(ctx)
	return jsonResult(rows(ph.rec.Snapshot()))
}

func (ph *PackingHandler) handleToggle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	itemID, err := req.RequireString("item_id")
	if err != nil || itemID == "" {
		return mcp.NewToolResultError("item_id parameter is required"), nil
	}
	if ph.sess.TripID() == "" {
		return mcp.NewToolResultError(errNoTrip.Error()), nil
	}

	start := time.Now()
	if err := ph.rec.Toggle(ctx, itemID); err != nil {
		log.Error().
			Err(err).
			Str("item_id", itemID).
			Dur("elapsed", time.Since(start)).
			Msg("toggle_item failed")
		return mcp.NewToolResultError(fmt.Sprintf("failed to toggle %s: %v", itemID, err)), nil
	}
	if err := ph.rec.AwaitRefresh(ctx); err != nil {
		log.Warn().Err(err).Str("item_id", itemID).Msg("toggle_item: bag totals not refreshed")
	}

	v := ph.rec.Snapshot()
	state := "unpacked"
	if v.Checked[itemID] {
		state = "packed"
	}
	log.Debug().Str("item_id", itemID).Str("state", state).Dur("elapsed", time.Since(start)).Msg("toggle_item completed")
	return mcp.NewToolResultText(fmt.Sprintf("%s is now %s. %s", itemID, state, ph.totals(v))), nil
}

func (ph *PackingHandler) handleScan(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("image_path")
	if err != nil || path == "" {
		return mcp.NewToolResultError("image_path parameter is required"), nil
	}
	if ph.sess.TripID() == "" {
		return mcp.NewToolResultError(errNoTrip.Error()), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("open image: %v", err)), nil
	}
	defer func() { _ = f.Close() }()

	item, err := ph.rec.Scan(ctx, filepath.Base(path), f)
	if item == nil {
		if err == nil {
			err = errNoTrip
		}
		log.Error().Err(err).Str("image_path", path).Msg("scan_item failed")
		return mcp.NewToolResultError(fmt.Sprintf("failed to scan %s: %v", path, err)), nil
	}

	out := struct {
		Item       *client.ScannedItem `json:"item"`
		Captions   []string            `json:"captions,omitempty"`
		AutoPacked bool                `json:"auto_packed"`
		Warning    string              `json:"warning,omitempty"`
	}{Item: item}
	for _, cv := range item.CVResults {
		out.Captions = append(out.Captions, packing.DetectionCaption(cv))
	}
	if err != nil {
		out.Warning = err.Error()
	}
	_ = ph.rec.AwaitRefresh(ctx)
	out.AutoPacked = ph.rec.Snapshot().Checked[item.ItemID]
	return jsonResult(out)
}

func (ph *PackingHandler) handleStatus(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if ph.sess.TripID() == "" {
		return mcp.NewToolResultError(errNoTrip.Error()), nil
	}
	ph.rec.Activate(ctx)
	v := ph.rec.Snapshot()

	out := statusJSON{TripID: v.TripID}
	var weight, volume float64
	if v.Info != nil {
		out.Destination = v.Info.Destination
		weight, volume = v.Info.TotalItemsWeight, v.Info.TotalItemsVolume
	}
	w := packing.WeightPill(weight, ph.limits.WeightKg)
	vol := packing.VolumePill(volume, ph.limits.VolumeCm3)
	out.Weight = pillJSON{Text: w.Text, Level: w.Level.String()}
	out.Volume = pillJSON{Text: vol.Text, Level: vol.Level.String()}
	return jsonResult(out)
}

func (ph *PackingHandler) totals(v packing.View) string {
	var weight, volume float64
	if v.Info != nil {
		weight, volume = v.Info.TotalItemsWeight, v.Info.TotalItemsVolume
	}
	return packing.WeightPill(weight, ph.limits.WeightKg).Text + ", " +
		packing.VolumePill(volume, ph.limits.VolumeCm3).Text
}

func rows(v packing.View) []listRow {
	out := make([]listRow, 0, len(v.Items))
	for i, it := range v.Items {
		r := listRow{
			ID:         packing.Identity(it, i),
			Name:       it.Name(),
			Kind:       it.Kind.String(),
			Packed:     v.IsChecked(i),
			Toggleable: packing.Toggleable(it),
			Details:    packing.DetailLines(it),
		}
		if l, ok := packing.RecommendationLabel(it); ok {
			r.Label = string(l)
		}
		out = append(out, r)
	}
	return out
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}
