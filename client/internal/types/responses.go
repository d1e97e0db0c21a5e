package types

// ------------------------------
// Response Types
// ------------------------------

// RemovalRecommendation is the per-item packing decision for a trip.
type RemovalRecommendation struct {
	Status         Recommendation `json:"status"`
	Reason         string         `json:"reason,omitempty"`
	SwapCandidates []ScannedItem  `json:"swap_candidates,omitempty"`
}
