package gallery

import (
	"image"
	"image/color"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// ghostScale shrinks the drag ghost slightly below card size so the
// cards underneath stay readable while choosing a drop target.
const ghostScale = 0.9

// dragOverlay floats a ghost of the dragged item above the card grid.
// It implements no input interfaces, so pointer events keep flowing to
// the cards underneath.
type dragOverlay struct {
	widget.BaseWidget

	ghostBg *canvas.Rectangle
	ghost   *canvas.Image

	ghostSize float32
}

func newDragOverlay() *dragOverlay {
	d := &dragOverlay{
		ghostBg: canvas.NewRectangle(color.Transparent),
		ghost:   canvas.NewImageFromImage(nil),
	}
	d.ghostBg.StrokeColor = theme.Color(theme.ColorNamePrimary)
	d.ghostBg.StrokeWidth = 2
	fill := theme.Color(theme.ColorNameFocus)
	// Make transparent
	r, g, b, _ := fill.RGBA()
	d.ghostBg.FillColor = color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: 64}
	d.ghost.FillMode = canvas.ImageFillContain
	d.ghostBg.Hide()
	d.ghost.Hide()
	d.ExtendBaseWidget(d)
	return d
}

func (d *dragOverlay) CreateRenderer() fyne.WidgetRenderer {
	return &dragOverlayRenderer{overlay: d}
}

// showGhost displays the ghost at the given square size. A nil img
// shows the tinted outline only.
func (d *dragOverlay) showGhost(img image.Image, size float32) {
	d.ghostSize = size
	d.ghost.Image = img
	sz := fyne.NewSquareSize(size)
	d.ghostBg.Resize(sz)
	d.ghost.Resize(sz)
	d.ghostBg.Show()
	if img != nil {
		d.ghost.Show()
	}
	d.Refresh()
}

// moveGhost centers the ghost on pos, given in overlay coordinates.
func (d *dragOverlay) moveGhost(pos fyne.Position) {
	tl := fyne.NewPos(pos.X-d.ghostSize/2, pos.Y-d.ghostSize/2)
	d.ghostBg.Move(tl)
	d.ghost.Move(tl)
	d.ghostBg.Refresh()
	d.ghost.Refresh()
}

func (d *dragOverlay) hideGhost() {
	d.ghostBg.Hide()
	d.ghost.Hide()
	d.ghost.Image = nil
	d.Refresh()
}

type dragOverlayRenderer struct {
	overlay *dragOverlay
}

func (r *dragOverlayRenderer) Layout(fyne.Size) {}
func (r *dragOverlayRenderer) MinSize() fyne.Size {
	return fyne.NewSize(0, 0)
}
func (r *dragOverlayRenderer) Refresh() {
	r.overlay.ghostBg.Refresh()
	r.overlay.ghost.Refresh()
}
func (r *dragOverlayRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.overlay.ghostBg, r.overlay.ghost}
}
func (r *dragOverlayRenderer) Destroy() {}

// DragStarted implements Controller. Grabbing an ID that no longer
// exists still arms the drag, with no item and no ghost, so the rest
// of the gesture stays consistent.
func (g *Grid) DragStarted(id string) {
	if g.drag.phase != dragIdle {
		return
	}

	item := Item{}
	if i := itemIndex(g.items, id); i != -1 {
		item = g.items[i]
	}
	g.drag = dragState{phase: dragActive, item: item}
	g.hookCancelKey()

	if item.ID == "" {
		return
	}
	var img image.Image
	if item.URL != "" {
		img = SharedLoader().LoadMemoryOnly(item.URL)
	}
	g.overlay.showGhost(img, cardImageSize*g.ZoomScale()*ghostScale)
}

// DragMoved implements Controller. pos is in absolute canvas
// coordinates; movement after a cancel is ignored.
func (g *Grid) DragMoved(pos fyne.Position) {
	if g.drag.phase != dragActive {
		return
	}

	origin := fyne.CurrentApp().Driver().AbsolutePositionForObject(g.overlay)
	local := pos.Subtract(origin)
	g.lastDragPos = local
	g.overlay.moveGhost(local)
	g.updateAutoScroll()
}

// DragEnded implements Controller. The drop moves the item recorded at
// DragStarted, not whatever the releasing card is bound to by now.
// Releasing a cancelled drag settles back to idle without touching the
// order.
func (g *Grid) DragEnded() {
	g.stopAutoScroll()
	g.unhookCancelKey()
	g.overlay.hideGhost()
	g.lastDragEnd = time.Now()

	if g.drag.phase != dragActive {
		g.drag = dragState{}
		return
	}
	draggedID := g.drag.item.ID

	targetID := ""
	if i := g.dropIndexAt(g.lastDragPos); i != -1 {
		targetID = g.items[i].ID
	}
	g.EndDrag(draggedID, targetID)
}

// tapSuppressWindow is how long after a drop taps are discarded; the
// release of a drag gesture can reach a card as a click.
const tapSuppressWindow = 200 * time.Millisecond

// SuppressTap implements Controller.
func (g *Grid) SuppressTap() bool {
	return time.Since(g.lastDragEnd) < tapSuppressWindow
}

// EndDrag completes a drag: the dragged item takes the target item's
// prior position, shifting the rest. The in-flight drag state is
// cleared no matter what; the order only changes when both IDs resolve
// and differ.
func (g *Grid) EndDrag(draggedID, targetID string) {
	g.drag = dragState{}

	out, moved := moveItem(g.items, draggedID, targetID)
	if !moved {
		return
	}
	g.items = out
	g.refreshCards()
	if g.OnReorder != nil {
		g.OnReorder(g.Items())
	}
}

// CancelDrag abandons the in-flight drag. The pointer may still be
// down; further movement is ignored and the eventual release drops
// nothing.
func (g *Grid) CancelDrag() {
	if g.drag.phase != dragActive {
		return
	}
	g.drag = dragState{phase: dragCancelled}
	g.overlay.hideGhost()
	g.stopAutoScroll()
}

func (g *Grid) hookCancelKey() {
	if g.parent == nil || g.keyHooked {
		return
	}
	c := g.parent.Canvas()
	g.originalOnTypedKey = c.OnTypedKey()
	c.SetOnTypedKey(g.typedKeyHook)
	g.keyHooked = true
}

func (g *Grid) unhookCancelKey() {
	if g.parent == nil || !g.keyHooked {
		return
	}
	g.parent.Canvas().SetOnTypedKey(g.originalOnTypedKey)
	g.originalOnTypedKey = nil
	g.keyHooked = false
}

func (g *Grid) typedKeyHook(ev *fyne.KeyEvent) {
	if g.originalOnTypedKey != nil {
		g.originalOnTypedKey(ev)
	}
	if ev == nil {
		return
	}
	if ev.Name == fyne.KeyEscape {
		g.CancelDrag()
	}
}

// dropIndexAt maps a pointer position, in grid viewport coordinates,
// to the index of the card under it. Positions outside the viewport or
// past the last card resolve to -1: releasing there drops nothing.
func (g *Grid) dropIndexAt(pos fyne.Position) int {
	if len(g.items) == 0 {
		return -1
	}

	size := g.grid.Size()
	if pos.X < 0 || pos.Y < 0 || pos.X > size.Width || pos.Y > size.Height {
		return -1
	}

	cols := g.grid.ColumnCount()
	if cols < 1 {
		cols = 1
	}

	pad := g.grid.Theme().Size(theme.SizeNamePadding)
	itemSize := calculateCardSize(g.ZoomScale())
	stepX := itemSize.Width + pad
	stepY := itemSize.Height + pad

	col := int(pos.X / stepX)
	if col > cols-1 {
		col = cols - 1
	}
	row := int((pos.Y + g.grid.GetScrollOffset()) / stepY)

	i := row*cols + col
	if i < 0 || i >= len(g.items) {
		return -1
	}
	return i
}

func (g *Grid) maxScrollOffset() float32 {
	if len(g.items) == 0 {
		return 0
	}

	pad := g.grid.Theme().Size(theme.SizeNamePadding)
	stepY := calculateCardSize(g.ZoomScale()).Height + pad

	cols := g.grid.ColumnCount()
	if cols < 1 {
		cols = 1
	}
	rows := (len(g.items) + cols - 1) / cols
	max := float32(rows)*stepY - g.grid.Size().Height
	if max < 0 {
		return 0
	}
	return max
}

// updateAutoScroll scrolls the grid while the pointer hovers near its
// top or bottom edge mid-drag, so long lists can be reordered end to
// end in one gesture.
func (g *Grid) updateAutoScroll() {
	if g.drag.phase != dragActive {
		g.stopAutoScroll()
		return
	}

	size := g.grid.Size()
	if size.Height <= 0 {
		g.stopAutoScroll()
		return
	}

	zone := theme.Padding() * 4
	if zone < 24 {
		zone = 24
	}
	if zone > size.Height/2 {
		zone = size.Height / 2
	}

	var dir int
	var intensity float32
	if g.lastDragPos.Y < zone {
		dir = -1
		intensity = (zone - g.lastDragPos.Y) / zone
	} else if g.lastDragPos.Y > size.Height-zone {
		dir = 1
		intensity = (g.lastDragPos.Y - (size.Height - zone)) / zone
	}
	if intensity > 1 {
		intensity = 1
	}

	if dir == 0 || intensity <= 0 {
		g.stopAutoScroll()
		return
	}

	maxStep := calculateCardSize(g.ZoomScale()).Height * 0.5
	if maxStep < 12 {
		maxStep = 12
	}
	if maxStep > 80 {
		maxStep = 80
	}

	g.autoScrollDir = dir
	g.autoScrollStep = intensity * maxStep
	g.startAutoScroll()
}

func (g *Grid) startAutoScroll() {
	if g.autoScrollTicker != nil {
		return
	}
	g.autoScrollTicker = time.NewTicker(30 * time.Millisecond)
	g.autoScrollStop = make(chan struct{})

	stop := g.autoScrollStop
	ticker := g.autoScrollTicker
	go func() {
		for {
			select {
			case <-ticker.C:
				fyne.Do(func() {
					g.autoScrollTick()
				})
			case <-stop:
				return
			}
		}
	}()
}

func (g *Grid) stopAutoScroll() {
	if g.autoScrollTicker == nil {
		return
	}
	g.autoScrollTicker.Stop()
	g.autoScrollTicker = nil
	if g.autoScrollStop != nil {
		close(g.autoScrollStop)
		g.autoScrollStop = nil
	}
	g.autoScrollDir = 0
	g.autoScrollStep = 0
}

func (g *Grid) autoScrollTick() {
	if g.drag.phase != dragActive || g.autoScrollDir == 0 || g.autoScrollStep <= 0 {
		g.stopAutoScroll()
		return
	}

	offset := g.grid.GetScrollOffset()
	maxOffset := g.maxScrollOffset()
	if maxOffset <= 0 {
		g.stopAutoScroll()
		return
	}

	next := offset + float32(g.autoScrollDir)*g.autoScrollStep
	if next < 0 {
		next = 0
	} else if next > maxOffset {
		next = maxOffset
	}

	if next == offset {
		// Hit the end, no need to keep ticking.
		g.stopAutoScroll()
		return
	}

	g.grid.ScrollToOffset(next)
}
