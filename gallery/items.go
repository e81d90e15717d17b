package gallery

import (
	"fmt"

	"fyne.io/fyne/v2/lang"
)

// itemIndex returns the position of id in items, or -1.
func itemIndex(items []Item, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

// moveItem returns a new ordering with the dragged item removed from
// its place and reinserted at the target item's prior position. The
// boolean reports whether the order changed; dropping an item on
// itself or naming an unknown ID leaves the input untouched.
func moveItem(items []Item, draggedID, targetID string) ([]Item, bool) {
	if draggedID == targetID {
		return items, false
	}
	from := itemIndex(items, draggedID)
	to := itemIndex(items, targetID)
	if from == -1 || to == -1 {
		return items, false
	}
	moved := items[from]
	out := make([]Item, 0, len(items))
	out = append(out, items[:from]...)
	out = append(out, items[from+1:]...)
	out = append(out, Item{})
	copy(out[to+1:], out[to:])
	out[to] = moved
	return out, true
}

// toggleChecked returns a copy of items with the checked flag of id
// flipped. The boolean reports whether the ID was found.
func toggleChecked(items []Item, id string) ([]Item, bool) {
	i := itemIndex(items, id)
	if i == -1 {
		return items, false
	}
	out := make([]Item, len(items))
	copy(out, items)
	out[i].Checked = !out[i].Checked
	return out, true
}

// deleteChecked returns the surviving items, preserving their relative
// order.
func deleteChecked(items []Item) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if !it.Checked {
			out = append(out, it)
		}
	}
	return out
}

// checkedCount returns how many items are currently checked.
func checkedCount(items []Item) int {
	n := 0
	for i := range items {
		if items[i].Checked {
			n++
		}
	}
	return n
}

// headerTitle renders the gallery heading for a selection count.
func headerTitle(selected int) string {
	switch selected {
	case 0:
		return lang.L("Gallery")
	case 1:
		return "1 " + lang.L("File Selected")
	default:
		return fmt.Sprintf("%d %s", selected, lang.L("Files Selected"))
	}
}
