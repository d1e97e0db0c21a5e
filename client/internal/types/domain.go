package types

// ------------------------------
// Core Domain Entities
// ------------------------------

// User represents a registered traveller.
type User struct {
	UserID string   `json:"user_id"`
	Name   string   `json:"name"`
	Email  string   `json:"email"`
	Age    *int     `json:"age,omitempty"`
	Gender string   `json:"gender,omitempty"`
	Trips  []string `json:"trips,omitempty"`
}

// Trip represents a travel plan. Bag totals are aggregated by the server
// over every item currently packed for the trip.
type Trip struct {
	TripID           string   `json:"trip_id"`
	Destination      string   `json:"destination"`
	DurationDays     int      `json:"duration_days"`
	DoingLaundry     bool     `json:"doing_laundry"`
	Activities       string   `json:"activities,omitempty"`
	Items            []string `json:"items,omitempty"`
	TotalItemsWeight float64  `json:"total_items_weight"`
	TotalItemsVolume float64  `json:"total_items_volume"`
}

// Recommendation is the server's pack/remove/swap verdict for an item.
type Recommendation string

const (
	RecommendPack   Recommendation = "pack"
	RecommendRemove Recommendation = "remove"
	RecommendSwap   Recommendation = "swap"
)

// Valid reports whether r is one of the known verdicts.
func (r Recommendation) Valid() bool {
	switch r {
	case RecommendPack, RecommendRemove, RecommendSwap:
		return true
	}
	return false
}

// RecommendedItem is an entry of a trip's generated packing list.
type RecommendedItem struct {
	ItemName string   `json:"item_name"`
	Reason   string   `json:"reason,omitempty"`
	Priority *float64 `json:"priority,omitempty"`
}

// BoundingBox is a detection rectangle in image pixel coordinates.
type BoundingBox struct {
	XMin float64 `json:"x_min"`
	YMin float64 `json:"y_min"`
	XMax float64 `json:"x_max"`
	YMax float64 `json:"y_max"`
}

// Dimensions are the estimated footprint of a detected object in cm.
type Dimensions struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
}

// CVResult is one classification produced by the detection service.
type CVResult struct {
	ItemName        string        `json:"item_name"`
	ClassName       string        `json:"class_name"`
	ConfidenceScore float64       `json:"confidence_score"`
	BoundingBoxes   []BoundingBox `json:"bounding_boxes,omitempty"`
	Dimensions      *Dimensions   `json:"dimensions,omitempty"`
}

// ScannedItem is a server-confirmed item produced by a detection call.
type ScannedItem struct {
	ItemID                string         `json:"item_id"`
	ItemName              string         `json:"item_name"`
	WeightKg              *float64       `json:"weight_kg"`
	EstimatedVolumeCm3    *float64       `json:"estimated_volume_cm3"`
	PackingRecommendation Recommendation `json:"packing_recommendation,omitempty"`
	CVResults             []CVResult     `json:"cv_results,omitempty"`
}

// Item is the stored representation of a physical item belonging to a trip.
type Item struct {
	ItemID             string             `json:"item_id"`
	Name               string             `json:"name,omitempty"`
	WeightKg           *float64           `json:"weight_kg"`
	Confidence         *float64           `json:"confidence,omitempty"`
	DimensionsCm       map[string]float64 `json:"dimensions_cm,omitempty"`
	EstimatedVolumeCm3 *float64           `json:"estimated_volume_cm3"`
}
