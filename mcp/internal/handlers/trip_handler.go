package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	"github.com/tripwise/packmate/client"
	"github.com/tripwise/packmate/internal/session"
)

// TripAPI is the subset of *client.Client used by TripHandler.
type TripAPI interface {
	GetTripItems(ctx context.Context, tripID string) ([]client.Item, error)
	RemovalRecommendation(ctx context.Context, tripID, itemID string) (*client.RemovalDecision, error)
}

// TripHandler exposes read-only trip tools that go straight to the API.
type TripHandler struct {
	api  TripAPI
	sess *session.State
}

// NewTripHandler returns a handler bound to sess.
func NewTripHandler(api TripAPI, sess *session.State) *TripHandler {
	return &TripHandler{api: api, sess: sess}
}

// RegisterTools registers trip_items and removal_advice.
func (th *TripHandler) RegisterTools(s *server.MCPServer) error {
	items := mcp.NewTool("trip_items",
		mcp.WithDescription("List the items stored for the active trip with their measured weight and volume"),
	)
	s.AddTool(items, th.handleTripItems)

	advice := mcp.NewTool("removal_advice",
		mcp.WithDescription("Ask whether an item should be packed, left behind or swapped for a lighter alternative"),
		mcp.WithString("item_id", mcp.Required(), mcp.Description("The item id")),
	)
	s.AddTool(advice, th.handleRemovalAdvice)

	return nil
}

func (th *TripHandler) handleTripItems(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tripID := th.sess.TripID()
	if tripID == "" {
		return mcp.NewToolResultError(errNoTrip.Error()), nil
	}

	start := time.Now()
	items, err := th.api.GetTripItems(ctx, tripID)
	if err != nil {
		log.Error().Err(err).Str("trip_id", tripID).Dur("elapsed", time.Since(start)).Msg("trip_items failed")
		return mcp.NewToolResultError(fmt.Sprintf("failed to list items of %s: %v", tripID, err)), nil
	}
	log.Debug().Str("trip_id", tripID).Int("count", len(items)).Dur("elapsed", time.Since(start)).Msg("trip_items completed")
	return jsonResult(items)
}

func (th *TripHandler) handleRemovalAdvice(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	itemID, err := req.RequireString("item_id")
	if err != nil || itemID == "" {
		return mcp.NewToolResultError("item_id parameter is required"), nil
	}
	tripID := th.sess.TripID()
	if tripID == "" {
		return mcp.NewToolResultError(errNoTrip.Error()), nil
	}

	d, err := th.api.RemovalRecommendation(ctx, tripID, itemID)
	if err != nil {
		log.Error().Err(err).Str("trip_id", tripID).Str("item_id", itemID).Msg("removal_advice failed")
		if client.IsNotFound(err) {
			return mcp.NewToolResultError(fmt.Sprintf("item %s not found in trip %s", itemID, tripID)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("failed to get advice for %s: %v", itemID, err)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Recommendation: %s", d.Status)
	if d.Reason != "" {
		fmt.Fprintf(&b, "\nReason: %s", d.Reason)
	}
	if len(d.SwapCandidates) > 0 {
		b.WriteString("\nLighter alternatives:")
		for _, c := range d.SwapCandidates {
			fmt.Fprintf(&b, "\n- %s", c.ItemName)
			if c.WeightKg != nil {
				fmt.Fprintf(&b, " (%.2f kg)", *c.WeightKg)
			}
		}
	}
	return mcp.NewToolResultText(b.String()), nil
}
