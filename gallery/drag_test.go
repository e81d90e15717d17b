package gallery

import (
	"fmt"
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/theme"
)

func newDraggableGallery(t *testing.T, ids ...string) (*Grid, fyne.Window) {
	t.Helper()

	g := New(nil, SliceSource(testItems(ids...)))
	w := test.NewTempWindow(t, g)
	w.Resize(fyne.NewSize(600, 500))
	g.parent = w
	return g, w
}

// cellCenter returns the middle of the card at index, in grid viewport
// coordinates.
func cellCenter(g *Grid, index int) fyne.Position {
	pad := g.grid.Theme().Size(theme.SizeNamePadding)
	itemSize := calculateCardSize(g.ZoomScale())
	cols := g.grid.ColumnCount()
	if cols < 1 {
		cols = 1
	}

	col := index % cols
	row := index / cols
	return fyne.NewPos(
		float32(col)*(itemSize.Width+pad)+itemSize.Width/2,
		float32(row)*(itemSize.Height+pad)+itemSize.Height/2)
}

func absoluteGridPos(g *Grid, local fyne.Position) fyne.Position {
	return fyne.CurrentApp().Driver().AbsolutePositionForObject(g.overlay).Add(local)
}

func TestDrag_GestureReordersToPointer(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	g, _ := newDraggableGallery(t, "a", "b", "c", "d", "e", "f")

	var reorders [][]Item
	g.OnReorder = func(items []Item) {
		reorders = append(reorders, items)
	}

	g.DragStarted("a")
	if g.drag.phase != dragActive {
		t.Fatal("Expected the drag to arm")
	}
	if !g.overlay.ghostBg.Visible() {
		t.Fatal("Expected the ghost outline to show")
	}

	g.DragMoved(absoluteGridPos(g, cellCenter(g, 2)))
	g.DragEnded()

	if got, want := orderOf(g.Items()), "b c a d e f"; got != want {
		t.Fatalf("Expected order %q, got %q", want, got)
	}
	if len(reorders) != 1 || orderOf(reorders[0]) != "b c a d e f" {
		t.Fatalf("Expected one reorder callback with the new order, got %v", reorders)
	}
	if g.overlay.ghostBg.Visible() {
		t.Error("Expected the ghost to hide after the drop")
	}
	if g.drag.phase != dragIdle {
		t.Error("Expected the drag to settle back to idle")
	}
}

func TestDrag_ReorderSurvivesCardRecycling(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	g, _ := newDraggableGallery(t, "a", "b", "c", "d", "e", "f")

	card := newItemCard(g)
	card.setItem(g.Items()[0])

	// Grab "a" through its card.
	card.Dragged(&fyne.DragEvent{
		PointEvent: fyne.PointEvent{Position: absoluteGridPos(g, cellCenter(g, 0))},
		Dragged:    fyne.NewDelta(1, 0),
	})

	// Scrolling recycles card widgets mid-gesture: the grid re-binds
	// this one to "e" while the pointer is still down.
	card.setItem(g.Items()[4])

	// The same widget keeps driving the gesture to "c" and releases.
	card.Dragged(&fyne.DragEvent{
		PointEvent: fyne.PointEvent{Position: absoluteGridPos(g, cellCenter(g, 2))},
		Dragged:    fyne.NewDelta(1, 0),
	})
	card.DragEnd()

	// The grabbed "a" moves; the re-bound "e" stays put.
	if got, want := orderOf(g.Items()), "b c a d e f"; got != want {
		t.Fatalf("Expected order %q, got %q", want, got)
	}
}

func TestDrag_DropOutsideLeavesOrder(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	g, _ := newDraggableGallery(t, "a", "b", "c")

	reorders := 0
	g.OnReorder = func([]Item) { reorders++ }

	// Above and left of the grid.
	g.DragStarted("a")
	g.DragMoved(absoluteGridPos(g, fyne.NewPos(-50, -50)))
	g.DragEnded()

	// Past the last card.
	size := g.grid.Size()
	g.DragStarted("b")
	g.DragMoved(absoluteGridPos(g, fyne.NewPos(size.Width-10, size.Height-10)))
	g.DragEnded()

	if got, want := orderOf(g.Items()), "a b c"; got != want {
		t.Fatalf("Expected order %q, got %q", want, got)
	}
	if reorders != 0 {
		t.Errorf("Expected no reorder callbacks, got %d", reorders)
	}
}

func TestDrag_EscapeCancels(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	g, w := newDraggableGallery(t, "a", "b", "c")

	reorders := 0
	g.OnReorder = func([]Item) { reorders++ }

	originalKeys := 0
	w.Canvas().SetOnTypedKey(func(*fyne.KeyEvent) { originalKeys++ })

	g.DragStarted("a")
	g.DragMoved(absoluteGridPos(g, cellCenter(g, 2)))

	// Esc lands on the canvas hook, which chains to the previous handler
	// and cancels the drag.
	w.Canvas().OnTypedKey()(&fyne.KeyEvent{Name: fyne.KeyEscape})
	if originalKeys != 1 {
		t.Fatalf("Expected the original key handler to still run, got %d calls", originalKeys)
	}
	if g.drag.phase != dragCancelled {
		t.Fatal("Expected the drag to be cancelled")
	}
	if g.overlay.ghostBg.Visible() {
		t.Error("Expected the ghost to hide on cancel")
	}

	// Movement after the cancel is swallowed.
	before := g.lastDragPos
	g.DragMoved(absoluteGridPos(g, cellCenter(g, 1)))
	if g.lastDragPos != before {
		t.Error("Expected movement after cancel to be ignored")
	}

	// Releasing drops nothing and restores the key handler.
	g.DragEnded()
	if got, want := orderOf(g.Items()), "a b c"; got != want {
		t.Fatalf("Expected order %q, got %q", want, got)
	}
	if reorders != 0 {
		t.Errorf("Expected no reorder callbacks, got %d", reorders)
	}
	if g.drag.phase != dragIdle {
		t.Error("Expected the drag to settle back to idle")
	}

	w.Canvas().OnTypedKey()(&fyne.KeyEvent{Name: fyne.KeyA})
	if originalKeys != 2 {
		t.Errorf("Expected the original handler back after the drag, got %d calls", originalKeys)
	}

	// The next drag starts clean.
	g.DragStarted("b")
	if g.drag.phase != dragActive {
		t.Fatal("Expected a fresh drag to arm after a cancelled one")
	}
	g.DragEnded()
}

func TestDrag_SecondGrabIgnoredWhileActive(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	g, _ := newDraggableGallery(t, "a", "b", "c")

	g.DragStarted("a")
	g.DragStarted("b")
	if got, want := g.drag.item.ID, "a"; got != want {
		t.Fatalf("Expected the first grab to win, dragging %q", got)
	}
	g.DragEnded()
}

func TestDrag_StartOnMissingID(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	g, _ := newDraggableGallery(t, "a", "b", "c")

	reorders := 0
	g.OnReorder = func([]Item) { reorders++ }

	g.DragStarted("vanished")
	if g.drag.phase != dragActive {
		t.Fatal("Expected the gesture to arm even for a missing ID")
	}
	if g.overlay.ghostBg.Visible() {
		t.Error("Expected no ghost for a missing item")
	}

	g.DragMoved(absoluteGridPos(g, cellCenter(g, 1)))
	g.DragEnded()

	if got, want := orderOf(g.Items()), "a b c"; got != want {
		t.Fatalf("Expected order %q, got %q", want, got)
	}
	if reorders != 0 {
		t.Errorf("Expected no reorder callbacks, got %d", reorders)
	}
	if g.drag.phase != dragIdle {
		t.Error("Expected the drag to settle back to idle")
	}
}

func TestDrag_CancelWhenIdle(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	g, _ := newDraggableGallery(t, "a")
	g.CancelDrag()
	if g.drag.phase != dragIdle {
		t.Fatal("Expected cancel with no drag to stay idle")
	}
}

func TestDrag_SuppressTapAfterDrop(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	g, _ := newDraggableGallery(t, "a", "b", "c")

	if g.SuppressTap() {
		t.Fatal("Expected no suppression before any drag")
	}

	g.DragStarted("a")
	g.DragMoved(absoluteGridPos(g, cellCenter(g, 1)))
	g.DragEnded()
	if !g.SuppressTap() {
		t.Fatal("Expected taps to be suppressed right after a drop")
	}

	g.lastDragEnd = time.Now().Add(-2 * tapSuppressWindow)
	if g.SuppressTap() {
		t.Fatal("Expected the suppression to lapse")
	}
}

func TestDropIndexAt(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	g, _ := newDraggableGallery(t, "a", "b", "c", "d", "e", "f")

	// Every card resolves from its own center.
	for i := range g.Items() {
		if got := g.dropIndexAt(cellCenter(g, i)); got != i {
			t.Errorf("Center of card %d resolved to %d", i, got)
		}
	}

	// Outside the viewport resolves to no target.
	size := g.grid.Size()
	outside := []fyne.Position{
		fyne.NewPos(-1, 10),
		fyne.NewPos(10, -1),
		fyne.NewPos(size.Width+1, 10),
		fyne.NewPos(10, size.Height+1),
	}
	for _, pos := range outside {
		if got := g.dropIndexAt(pos); got != -1 {
			t.Errorf("Position %v resolved to %d, expected -1", pos, got)
		}
	}

	// Past the right edge of the last column clamps to the row's last card.
	cols := g.grid.ColumnCount()
	firstRowY := cellCenter(g, 0).Y
	want := cols - 1
	if want >= len(g.Items()) {
		want = -1
	}
	if got := g.dropIndexAt(fyne.NewPos(size.Width-1, firstRowY)); got != want {
		t.Errorf("Right edge resolved to %d, expected %d", got, want)
	}

	// Rows below the content resolve to no target.
	if got := g.dropIndexAt(fyne.NewPos(10, size.Height-1)); got != -1 {
		t.Errorf("Empty tail resolved to %d, expected -1", got)
	}
}

func TestDropIndexAt_EmptyGallery(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	g := New(nil, nil)
	if got := g.dropIndexAt(fyne.NewPos(0, 0)); got != -1 {
		t.Fatalf("Expected -1 for an empty gallery, got %d", got)
	}
}

func TestDrag_AutoScrollNearEdges(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	ids := make([]string, 40)
	for i := range ids {
		ids[i] = fmt.Sprintf("item-%02d", i)
	}
	g, _ := newDraggableGallery(t, ids...)

	g.DragStarted(g.items[0].ID)

	// Hovering near the bottom edge starts downward scrolling.
	size := g.grid.Size()
	g.DragMoved(absoluteGridPos(g, fyne.NewPos(20, size.Height-2)))
	if g.autoScrollTicker == nil || g.autoScrollDir != 1 {
		t.Fatalf("Expected downward auto scroll, dir %d", g.autoScrollDir)
	}

	// Back in the middle it stops.
	g.DragMoved(absoluteGridPos(g, fyne.NewPos(20, size.Height/2)))
	if g.autoScrollTicker != nil {
		t.Fatal("Expected auto scroll to stop away from the edges")
	}

	// Near the top it scrolls up.
	g.DragMoved(absoluteGridPos(g, fyne.NewPos(20, 2)))
	if g.autoScrollTicker == nil || g.autoScrollDir != -1 {
		t.Fatalf("Expected upward auto scroll, dir %d", g.autoScrollDir)
	}

	g.DragEnded()
	if g.autoScrollTicker != nil {
		t.Fatal("Expected auto scroll to stop when the drag ends")
	}
}
