// Package packing reconciles the recommended packing list, scanned items and
// the user's pack/unpack actions into one ordered view of a trip's bag.
package packing

import (
	"strconv"

	"github.com/tripwise/packmate/client"
)

// Kind tags which variant an Item holds.
type Kind int

const (
	// KindPlaceholder is a recommendation not yet backed by a scanned item.
	KindPlaceholder Kind = iota + 1
	// KindConfirmed is a server-confirmed item produced by a detection.
	KindConfirmed
)

func (k Kind) String() string {
	switch k {
	case KindPlaceholder:
		return "placeholder"
	case KindConfirmed:
		return "confirmed"
	default:
		return "unknown"
	}
}

// Item is one row of the packing list. Exactly one of Placeholder and
// Confirmed is set, matching Kind. Items are values; the pointed-to records
// are never mutated after construction.
type Item struct {
	Kind        Kind
	Placeholder *client.RecommendedItem
	Confirmed   *client.ScannedItem
}

// Placeholder wraps a recommendation.
func Placeholder(rec client.RecommendedItem) Item {
	return Item{Kind: KindPlaceholder, Placeholder: &rec}
}

// Confirmed wraps a scanned item.
func Confirmed(item client.ScannedItem) Item {
	return Item{Kind: KindConfirmed, Confirmed: &item}
}

// ID returns the server item id, or "" for placeholders.
func (it Item) ID() string {
	switch it.Kind {
	case KindConfirmed:
		return it.Confirmed.ItemID
	case KindPlaceholder:
		return ""
	}
	return ""
}

// Name returns the display name of either variant.
func (it Item) Name() string {
	switch it.Kind {
	case KindPlaceholder:
		return it.Placeholder.ItemName
	case KindConfirmed:
		return it.Confirmed.ItemName
	}
	return ""
}

// Identity is the checked-state key of an item: its id, else its name, else
// its position in the list.
func Identity(it Item, index int) string {
	if id := it.ID(); id != "" {
		return id
	}
	if name := it.Name(); name != "" {
		return name
	}
	return "#" + strconv.Itoa(index)
}
