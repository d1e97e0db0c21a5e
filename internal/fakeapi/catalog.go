package fakeapi

import (
	"path/filepath"
	"strings"

	"github.com/tripwise/packmate/client"
)

// heavyItemKg is the single-item weight above which the stand-in suggests
// leaving or swapping an item.
const heavyItemKg = 3.0

type catalogEntry struct {
	Name       string
	Class      string
	Group      string
	WeightKg   float64
	Dimensions [3]float64 // length, width, height in cm
}

func (e catalogEntry) volume() float64 {
	return e.Dimensions[0] * e.Dimensions[1] * e.Dimensions[2]
}

// catalog is what the stand-in detector can recognise, keyed by lower-case
// name.
var catalog = map[string]catalogEntry{
	"shirt":          {"Shirt", "shirt", "clothing", 0.2, [3]float64{30, 25, 2}},
	"pants":          {"Pants", "trousers", "clothing", 0.5, [3]float64{40, 30, 4}},
	"socks":          {"Socks", "sock", "clothing", 0.05, [3]float64{10, 8, 3}},
	"shoes":          {"Shoes", "shoe", "clothing", 0.9, [3]float64{32, 20, 12}},
	"boots":          {"Boots", "boot", "clothing", 3.4, [3]float64{35, 25, 30}},
	"sandals":        {"Sandals", "sandal", "clothing", 0.4, [3]float64{28, 11, 4}},
	"sunglasses":     {"Sunglasses", "sunglasses", "accessories", 0.03, [3]float64{15, 5, 4}},
	"umbrella":       {"Umbrella", "umbrella", "accessories", 0.4, [3]float64{30, 6, 6}},
	"toothpaste":     {"Toothpaste", "tube", "toiletries", 0.1, [3]float64{18, 4, 3}},
	"toothbrush":     {"Toothbrush", "toothbrush", "toiletries", 0.02, [3]float64{19, 2, 2}},
	"laptop":         {"Laptop", "laptop", "work", 1.6, [3]float64{32, 22, 2}},
	"laptop charger": {"Laptop Charger", "charger", "work", 0.3, [3]float64{10, 6, 3}},
	"passport":       {"Passport", "book", "documents", 0.05, [3]float64{13, 9, 1}},
	"coat":           {"Coat", "coat", "weather", 1.8, [3]float64{60, 45, 8}},
}

var baseline = []client.RecommendedItem{
	{ItemName: "Shirt", Reason: "Needed for everyday wear", Priority: priority(1)},
	{ItemName: "Pants", Reason: "Needed for everyday wear", Priority: priority(1)},
	{ItemName: "Socks", Reason: "Needed for everyday wear", Priority: priority(1)},
	{ItemName: "Shoes", Reason: "Needed for everyday wear", Priority: priority(1)},
	{ItemName: "Sunglasses", Reason: "Needed for sunny weather", Priority: priority(1)},
	{ItemName: "Umbrella", Reason: "Needed for rainy weather", Priority: priority(1)},
	{ItemName: "Toothpaste", Reason: "Needed for oral hygiene", Priority: priority(1)},
	{ItemName: "Toothbrush", Reason: "Needed for oral hygiene", Priority: priority(1)},
}

var workItems = []client.RecommendedItem{
	{ItemName: "Laptop", Reason: "Needed for work", Priority: priority(2)},
	{ItemName: "Laptop Charger", Reason: "Needed for work", Priority: priority(2)},
}

func priority(p float64) *float64 { return &p }

// recommend builds the packing list for a trip.
func recommend(trip client.Trip) []client.RecommendedItem {
	out := append([]client.RecommendedItem(nil), baseline...)
	if strings.Contains(strings.ToLower(trip.Activities), "work") {
		out = append(out, workItems...)
	}
	return out
}

// classify maps an upload filename like "laptop_charger.jpg" to a catalog
// entry.
func classify(filename string) (catalogEntry, bool) {
	stem := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	stem = strings.ToLower(strings.NewReplacer("_", " ", "-", " ").Replace(stem))
	e, ok := catalog[strings.TrimSpace(stem)]
	return e, ok
}

// decide returns the verdict for adding an item of weightKg to a bag that
// already holds packedKg, and the lighter same-group alternatives when the
// verdict is swap.
func decide(e catalogEntry, packedKg, limitKg float64) (client.Recommendation, string, []catalogEntry) {
	if packedKg+e.WeightKg > limitKg {
		return client.RecommendRemove, "Bag would exceed the weight limit", nil
	}
	if e.WeightKg > heavyItemKg {
		var lighter []catalogEntry
		for _, c := range catalog {
			if c.Group == e.Group && c.WeightKg < e.WeightKg && c.Name != e.Name {
				lighter = append(lighter, c)
			}
		}
		if len(lighter) > 0 {
			return client.RecommendSwap, "A lighter alternative is available", lighter
		}
		return client.RecommendRemove, "Item is unusually heavy", nil
	}
	return client.RecommendPack, "Fits within the bag limits", nil
}
