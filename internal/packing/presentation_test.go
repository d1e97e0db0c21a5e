package packing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tripwise/packmate/client"
)

func f64(v float64) *float64 { return &v }

func TestRecommendationLabel(t *testing.T) {
	cases := []struct {
		rec   client.Recommendation
		want  Label
		found bool
	}{
		{client.RecommendPack, LabelPack, true},
		{client.RecommendRemove, LabelLeave, true},
		{client.RecommendSwap, LabelReconsider, true},
		{"maybe", "", false},
	}
	for _, tc := range cases {
		got, ok := RecommendationLabel(Confirmed(client.ScannedItem{ItemID: "i1", PackingRecommendation: tc.rec}))
		assert.Equal(t, tc.want, got, string(tc.rec))
		assert.Equal(t, tc.found, ok, string(tc.rec))
	}

	_, ok := RecommendationLabel(Placeholder(client.RecommendedItem{ItemName: "Shirt"}))
	assert.False(t, ok, "placeholders carry no label")
}

func TestToggleable(t *testing.T) {
	assert.False(t, Toggleable(Placeholder(client.RecommendedItem{ItemName: "Shirt"})))
	assert.True(t, Toggleable(Confirmed(client.ScannedItem{ItemID: "i1"})))
	assert.False(t, Toggleable(Confirmed(client.ScannedItem{ItemName: "no id"})))
	assert.False(t, Toggleable(Item{}))
}

func TestPillLevels(t *testing.T) {
	cases := []struct {
		name         string
		value, limit float64
		want         Level
	}{
		{"empty", 0, 20, LevelEmpty},
		{"negative", -1, 20, LevelEmpty},
		{"light", 5, 20, LevelOK},
		{"near", 16, 20, LevelNear},
		{"at limit", 20, 20, LevelNear},
		{"over", 20.01, 20, LevelOver},
		{"no limit", 500, 0, LevelOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, WeightPill(tc.value, tc.limit).Level)
			assert.Equal(t, tc.want, VolumePill(tc.value, tc.limit).Level)
		})
	}
}

func TestPillText(t *testing.T) {
	w := WeightPill(1.5, DefaultWeightLimitKg)
	assert.Equal(t, "Weight: 1.50 kg", w.Text)
	assert.Equal(t, PillWeight, w.Kind)
	assert.Equal(t, 20.0, w.Limit)

	v := VolumePill(2, DefaultVolumeLimitCm3)
	assert.Equal(t, "Volume: 2.00 cm3", v.Text)
	assert.Equal(t, PillVolume, v.Kind)
	assert.Equal(t, "ok", v.Level.String())
}

func TestDetailLines(t *testing.T) {
	assert.Equal(t, []string{"daily wear"}, DetailLines(Placeholder(client.RecommendedItem{ItemName: "Shirt", Reason: "daily wear"})))
	assert.Empty(t, DetailLines(Placeholder(client.RecommendedItem{ItemName: "Shirt"})))
	assert.Equal(t,
		[]string{"Weight: 0.25 kg", "Volume: 900.00 cm3"},
		DetailLines(Confirmed(client.ScannedItem{ItemID: "i1", WeightKg: f64(0.25), EstimatedVolumeCm3: f64(900)})),
	)
	assert.Empty(t, DetailLines(Confirmed(client.ScannedItem{ItemID: "i1"})), "null measurements are omitted")
}

func TestDetectionCaption(t *testing.T) {
	assert.Equal(t, "shirt (0.91)", DetectionCaption(client.CVResult{ClassName: "shirt", ConfidenceScore: 0.91}))
	assert.Equal(t, "Umbrella (1)", DetectionCaption(client.CVResult{ItemName: "Umbrella", ConfidenceScore: 1}))
}
