package packing

import "github.com/tripwise/packmate/client"

// Merge folds a newly scanned item into list and returns the new list. The
// input slice is not modified.
//
// An entry with the same item id is replaced in place; otherwise an entry
// with the same name is replaced in place; otherwise the item is appended.
// Any other entry left sharing the incoming id or name is dropped, so ids and
// names stay unique.
//
// Merge does not touch the checked set. A confirmed entry with a different id
// that is displaced by name leaves its id checked: the server still counts it
// in the bag totals, but no row shows it. Callers can find such entries with
// displacedIDs before merging.
func Merge(list []Item, scanned client.ScannedItem) []Item {
	incoming := Confirmed(scanned)
	out := make([]Item, len(list), len(list)+1)
	copy(out, list)

	pos := -1
	if scanned.ItemID != "" {
		pos = indexOf(out, func(it Item) bool { return it.ID() == scanned.ItemID })
	}
	if pos < 0 && scanned.ItemName != "" {
		pos = indexOf(out, func(it Item) bool { return it.Name() == scanned.ItemName })
	}
	if pos < 0 {
		return append(out, incoming)
	}
	out[pos] = incoming

	res := out[:0]
	for i, it := range out {
		if i != pos && collides(it, scanned) {
			continue
		}
		res = append(res, it)
	}
	return res
}

// ApplyRecommendations rebuilds list around a freshly fetched recommendation
// set: placeholders in server order, a confirmed item of the same name kept
// in its placeholder's slot, and confirmed items matching no recommendation
// appended in their previous order. Previous placeholders are discarded.
// Duplicate recommendation names keep the first occurrence.
func ApplyRecommendations(list []Item, recs []client.RecommendedItem) []Item {
	confirmedByName := make(map[string]Item)
	for _, it := range list {
		if it.Kind == KindConfirmed && it.Name() != "" {
			if _, ok := confirmedByName[it.Name()]; !ok {
				confirmedByName[it.Name()] = it
			}
		}
	}

	out := make([]Item, 0, len(recs)+len(confirmedByName))
	seen := make(map[string]bool, len(recs))
	used := make(map[string]bool)
	for _, rec := range recs {
		if seen[rec.ItemName] {
			continue
		}
		seen[rec.ItemName] = true
		if c, ok := confirmedByName[rec.ItemName]; ok {
			out = append(out, c)
			used[rec.ItemName] = true
			continue
		}
		out = append(out, Placeholder(rec))
	}
	for _, it := range list {
		if it.Kind != KindConfirmed {
			continue
		}
		if name := it.Name(); name != "" && used[name] {
			continue
		}
		out = append(out, it)
	}
	return out
}

func collides(it Item, scanned client.ScannedItem) bool {
	if scanned.ItemID != "" && it.ID() == scanned.ItemID {
		return true
	}
	return scanned.ItemName != "" && it.Name() == scanned.ItemName
}

func indexOf(list []Item, match func(Item) bool) int {
	for i, it := range list {
		if match(it) {
			return i
		}
	}
	return -1
}

// displacedIDs returns the ids of confirmed entries that Merge would remove
// from list because they share scanned's name under a different id.
func displacedIDs(list []Item, scanned client.ScannedItem) []string {
	var ids []string
	for _, it := range list {
		if it.Kind != KindConfirmed || it.ID() == "" || it.ID() == scanned.ItemID {
			continue
		}
		if scanned.ItemName != "" && it.Name() == scanned.ItemName {
			ids = append(ids, it.ID())
		}
	}
	return ids
}
