package gallery

import (
	"strings"
	"testing"
)

func testItems(ids ...string) []Item {
	items := make([]Item, 0, len(ids))
	for _, id := range ids {
		items = append(items, Item{ID: id, Alt: id})
	}
	return items
}

func orderOf(items []Item) string {
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	return strings.Join(ids, " ")
}

func TestMoveItem_Forward(t *testing.T) {
	items := testItems("a", "b", "c", "d")

	out, moved := moveItem(items, "a", "c")
	if !moved {
		t.Fatal("expected the order to change")
	}
	if got, want := orderOf(out), "b c a d"; got != want {
		t.Fatalf("expected order %q, got %q", want, got)
	}
}

func TestMoveItem_Backward(t *testing.T) {
	items := testItems("a", "b", "c", "d")

	out, moved := moveItem(items, "d", "b")
	if !moved {
		t.Fatal("expected the order to change")
	}
	if got, want := orderOf(out), "a d b c"; got != want {
		t.Fatalf("expected order %q, got %q", want, got)
	}
}

func TestMoveItem_AdjacentSwap(t *testing.T) {
	items := testItems("a", "b")

	out, moved := moveItem(items, "a", "b")
	if !moved {
		t.Fatal("expected the order to change")
	}
	if got, want := orderOf(out), "b a"; got != want {
		t.Fatalf("expected order %q, got %q", want, got)
	}

	out, moved = moveItem(out, "a", "b")
	if !moved {
		t.Fatal("expected the swap back to change the order")
	}
	if got, want := orderOf(out), "a b"; got != want {
		t.Fatalf("expected order %q, got %q", want, got)
	}
}

func TestMoveItem_ToEnd(t *testing.T) {
	items := testItems("a", "b", "c", "d")

	out, moved := moveItem(items, "a", "d")
	if !moved {
		t.Fatal("expected the order to change")
	}
	if got, want := orderOf(out), "b c d a"; got != want {
		t.Fatalf("expected order %q, got %q", want, got)
	}
}

func TestMoveItem_OntoItself(t *testing.T) {
	items := testItems("a", "b", "c")

	out, moved := moveItem(items, "b", "b")
	if moved {
		t.Fatal("expected dropping an item on itself to change nothing")
	}
	if got, want := orderOf(out), "a b c"; got != want {
		t.Fatalf("expected order %q, got %q", want, got)
	}
}

func TestMoveItem_UnknownIDs(t *testing.T) {
	items := testItems("a", "b", "c")

	cases := []struct {
		name            string
		dragged, target string
	}{
		{"unknown dragged", "nope", "b"},
		{"unknown target", "a", "nope"},
		{"both unknown", "nope", "also-nope"},
		{"empty target", "a", ""},
	}
	for _, tc := range cases {
		out, moved := moveItem(items, tc.dragged, tc.target)
		if moved {
			t.Errorf("%s: expected no change", tc.name)
		}
		if got, want := orderOf(out), "a b c"; got != want {
			t.Errorf("%s: expected order %q, got %q", tc.name, want, got)
		}
	}
}

func TestMoveItem_AllPairs(t *testing.T) {
	ids := []string{"a", "b", "c", "d", "e"}

	for from := range ids {
		for to := range ids {
			items := testItems(ids...)
			out, moved := moveItem(items, ids[from], ids[to])

			if from == to {
				if moved {
					t.Errorf("move %d->%d: expected a no-op", from, to)
				}
				continue
			}
			if !moved {
				t.Errorf("move %d->%d: expected the order to change", from, to)
				continue
			}

			// The dragged item sits at the target's old position.
			if out[to].ID != ids[from] {
				t.Errorf("move %d->%d: expected %q at %d, got %q", from, to, ids[from], to, out[to].ID)
			}

			// Everyone else keeps their relative order.
			rest := make([]string, 0, len(out)-1)
			for _, it := range out {
				if it.ID != ids[from] {
					rest = append(rest, it.ID)
				}
			}
			want := make([]string, 0, len(ids)-1)
			for i, id := range ids {
				if i != from {
					want = append(want, id)
				}
			}
			for i := range want {
				if rest[i] != want[i] {
					t.Errorf("move %d->%d: bystander order %v, want %v", from, to, rest, want)
					break
				}
			}
		}
	}
}

func TestMoveItem_DoesNotMutateInput(t *testing.T) {
	items := testItems("a", "b", "c", "d")

	_, moved := moveItem(items, "d", "a")
	if !moved {
		t.Fatal("expected the order to change")
	}
	if got, want := orderOf(items), "a b c d"; got != want {
		t.Fatalf("expected input to stay %q, got %q", want, got)
	}
}

func TestToggleChecked(t *testing.T) {
	items := testItems("a", "b")

	out, changed := toggleChecked(items, "b")
	if !changed {
		t.Fatal("expected a known ID to toggle")
	}
	if !out[1].Checked {
		t.Fatal("expected b to be checked after the first toggle")
	}
	if items[1].Checked {
		t.Fatal("expected the input slice to stay untouched")
	}

	out, changed = toggleChecked(out, "b")
	if !changed {
		t.Fatal("expected the second toggle to report a change")
	}
	if out[1].Checked {
		t.Fatal("expected b to be unchecked after the second toggle")
	}
}

func TestToggleChecked_UnknownID(t *testing.T) {
	items := testItems("a", "b")

	_, changed := toggleChecked(items, "nope")
	if changed {
		t.Fatal("expected an unknown ID to change nothing")
	}
}

func TestDeleteChecked(t *testing.T) {
	items := testItems("a", "b", "c", "d")
	items[1].Checked = true
	items[3].Checked = true

	out := deleteChecked(items)
	if got, want := orderOf(out), "a c"; got != want {
		t.Fatalf("expected survivors %q in order, got %q", want, got)
	}

	// Nothing checked leaves the list as-is.
	if got := orderOf(deleteChecked(out)); got != "a c" {
		t.Fatalf("expected no-op delete to keep %q, got %q", "a c", got)
	}

	// Everything checked empties the list.
	all := testItems("x", "y")
	all[0].Checked = true
	all[1].Checked = true
	if got := len(deleteChecked(all)); got != 0 {
		t.Fatalf("expected empty result, got %d items", got)
	}
}

func TestCheckedCount(t *testing.T) {
	items := testItems("a", "b", "c")
	if got := checkedCount(items); got != 0 {
		t.Fatalf("expected 0 checked, got %d", got)
	}

	items[0].Checked = true
	items[2].Checked = true
	if got := checkedCount(items); got != 2 {
		t.Fatalf("expected 2 checked, got %d", got)
	}
}

func TestHeaderTitle(t *testing.T) {
	cases := []struct {
		selected int
		want     string
	}{
		{0, "Gallery"},
		{1, "1 File Selected"},
		{2, "2 Files Selected"},
		{17, "17 Files Selected"},
	}
	for _, tc := range cases {
		if got := headerTitle(tc.selected); got != tc.want {
			t.Errorf("headerTitle(%d): expected %q, got %q", tc.selected, tc.want, got)
		}
	}
}
