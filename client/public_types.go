package client

import (
	"github.com/tripwise/packmate/client/internal/shardqueue"
	"github.com/tripwise/packmate/client/internal/types"
)

// RequestIDHeader is set on every request the SDK sends.
const RequestIDHeader = "X-Request-ID"

// Public type aliases so SDK consumers can import only the client package.
// Requests
type (
	CreateUserRequest = types.CreateUserRequest
	CreateTripRequest = types.CreateTripRequest
)

// Domain entities
type (
	User            = types.User
	Trip            = types.Trip
	Item            = types.Item
	RecommendedItem = types.RecommendedItem
	ScannedItem     = types.ScannedItem
	CVResult        = types.CVResult
	BoundingBox     = types.BoundingBox
	Dimensions      = types.Dimensions
	Recommendation  = types.Recommendation
)

// Responses
type (
	RemovalDecision = types.RemovalRecommendation
)

// RefreshConfig tunes the background refresh executor.
type RefreshConfig = shardqueue.Config

// Packing verdicts.
const (
	RecommendPack   = types.RecommendPack
	RecommendRemove = types.RecommendRemove
	RecommendSwap   = types.RecommendSwap
)
