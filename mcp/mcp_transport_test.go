package mcp

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pclient "github.com/tripwise/packmate/client"
	"github.com/tripwise/packmate/internal/config"
	"github.com/tripwise/packmate/internal/fakeapi"
	"github.com/tripwise/packmate/internal/packing"
)

// TestMCPServerInProcess lists and calls tools over the in-process transport
// against the API stand-in.
func TestMCPServerInProcess(t *testing.T) {
	api := httptest.NewServer(fakeapi.NewRouter(fakeapi.NewStore(packing.DefaultWeightLimitKg)))
	defer api.Close()

	sdk, err := pclient.New(api.URL)
	require.NoError(t, err)
	defer func() { _ = sdk.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	trip, err := sdk.CreateTrip(ctx, pclient.CreateTripRequest{Destination: "Oslo", DurationDays: 2})
	require.NoError(t, err)

	cfg := &config.Config{
		APIURL:         api.URL,
		WeightLimitKg:  packing.DefaultWeightLimitKg,
		VolumeLimitCm3: packing.DefaultVolumeLimitCm3,
	}
	s, err := NewServer("test-mcp-server", "1.0.0", sdk, cfg)
	require.NoError(t, err)

	tr := transport.NewInProcessTransport(s)
	require.NoError(t, tr.Start(ctx))
	defer func() { _ = tr.Close() }()

	c := client.NewClient(tr)
	_, err = c.Initialize(ctx, mcp.InitializeRequest{
		Params: mcp.InitializeParams{
			ProtocolVersion: "2024-11-05",
			Capabilities:    mcp.ClientCapabilities{},
			ClientInfo:      mcp.Implementation{Name: "test-client", Version: "1.0.0"},
		},
	})
	require.NoError(t, err)

	tools, err := c.ListTools(ctx, mcp.ListToolsRequest{})
	require.NoError(t, err)
	names := map[string]bool{}
	for _, tool := range tools.Tools {
		names[tool.Name] = true
	}
	for _, want := range []string{"set_trip", "packing_list", "toggle_item", "scan_item", "trip_status", "trip_items", "removal_advice"} {
		assert.True(t, names[want], "missing tool %s", want)
	}

	call := func(name string, args map[string]any) *mcp.CallToolResult {
		t.Helper()
		req := mcp.CallToolRequest{}
		req.Params.Name = name
		req.Params.Arguments = args
		res, err := c.CallTool(ctx, req)
		require.NoError(t, err)
		return res
	}

	res := call("packing_list", nil)
	assert.True(t, res.IsError, "packing_list without a trip must fail")

	res = call("set_trip", map[string]any{"trip_id": trip.TripID})
	require.False(t, res.IsError)
	assert.Contains(t, res.Content[0].(mcp.TextContent).Text, trip.TripID)

	res = call("trip_status", nil)
	require.False(t, res.IsError)
	assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "Weight: 0.00 kg")
}
