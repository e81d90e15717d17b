package gallery

import (
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/lang"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// Grid is an image gallery widget with pointer reordering, tap
// selection and a picker-backed add flow. The header title tracks the
// selection count; checked items can be deleted in one go.
//
// All methods must be called from the UI goroutine unless noted
// otherwise.
type Grid struct {
	widget.BaseWidget

	parent fyne.Window

	items []Item
	drag  dragState

	titleLabel *widget.Label
	addBtn     *widget.Button
	deleteBtn  *widget.Button
	zoomInBtn  *widget.Button
	zoomOutBtn *widget.Button
	grid       *widget.GridWrap
	overlay    *dragOverlay

	zoomLevel int

	activeMenu         *widget.PopUp
	originalOnTypedKey func(*fyne.KeyEvent)
	keyHooked          bool

	lastDragPos fyne.Position
	lastDragEnd time.Time

	autoScrollTicker *time.Ticker
	autoScrollStop   chan struct{}
	autoScrollDir    int
	autoScrollStep   float32

	// OnReorder is called after a drop that changed the order.
	OnReorder func(items []Item)
	// OnSelectionChanged is called with the new checked count whenever
	// it changes.
	OnSelectionChanged func(count int)
	// OnItemsChanged is called after items are added or removed.
	OnItemsChanged func(items []Item)
	// OnDecodeError is called when a picked file cannot be decoded as
	// an image. name is the file's display name.
	OnDecodeError func(name string, err error)
}

// New builds a gallery seeded from src. parent hosts context menus,
// the picker and the Esc hook that cancels a drag; src may be nil for
// an empty gallery.
func New(parent fyne.Window, src Source) *Grid {
	g := &Grid{parent: parent}
	if src != nil {
		g.items = src.Items()
	}
	g.loadPrefs()

	g.grid = widget.NewGridWrap(
		func() int {
			return len(g.items)
		},
		func() fyne.CanvasObject {
			return newItemCard(g)
		},
		func(id widget.GridWrapItemID, o fyne.CanvasObject) {
			if int(id) >= len(g.items) {
				return
			}
			o.(*itemCard).setItem(g.items[id])
		},
	)
	g.overlay = newDragOverlay()

	g.titleLabel = widget.NewLabel("")
	g.titleLabel.TextStyle = fyne.TextStyle{Bold: true}
	g.addBtn = widget.NewButtonWithIcon(lang.L("Add Images"), theme.ContentAddIcon(), g.ShowAddDialog)
	g.deleteBtn = widget.NewButtonWithIcon(lang.L("Delete Selected"), theme.DeleteIcon(), g.DeleteSelected)
	g.deleteBtn.Importance = widget.DangerImportance
	g.zoomOutBtn = widget.NewButtonWithIcon("", theme.ZoomOutIcon(), func() { g.adjustZoom(-1) })
	g.zoomInBtn = widget.NewButtonWithIcon("", theme.ZoomInIcon(), func() { g.adjustZoom(1) })
	g.updateZoomButtons()
	g.updateHeader()

	SharedLoader().Prewarm(g.items)

	g.ExtendBaseWidget(g)
	return g
}

func (g *Grid) CreateRenderer() fyne.WidgetRenderer {
	header := container.NewBorder(nil, nil, g.titleLabel,
		container.NewHBox(g.zoomOutBtn, g.zoomInBtn, g.addBtn, g.deleteBtn))

	content := container.NewBorder(
		container.NewVBox(header, widget.NewSeparator()),
		nil, nil, nil,
		container.NewStack(g.grid, newZoomOverlay(g.adjustZoom), g.overlay),
	)
	return widget.NewSimpleRenderer(content)
}

// Items returns a copy of the current ordering.
func (g *Grid) Items() []Item {
	return append([]Item(nil), g.items...)
}

// SetItems replaces the gallery content wholesale, abandoning any
// in-flight drag.
func (g *Grid) SetItems(items []Item) {
	g.items = append([]Item(nil), items...)
	g.drag = dragState{}
	g.overlay.hideGhost()
	g.refreshCards()
	g.updateHeader()
	SharedLoader().Prewarm(g.items)
}

// Append adds items at the tail, leaving order and selection of the
// existing items alone.
func (g *Grid) Append(items ...Item) {
	if len(items) == 0 {
		return
	}
	g.appendItems(items...)
}

func (g *Grid) appendItems(items ...Item) {
	g.items = append(g.items, items...)
	g.refreshCards()
	if g.OnItemsChanged != nil {
		g.OnItemsChanged(g.Items())
	}
}

// SelectedCount returns how many items are checked.
func (g *Grid) SelectedCount() int {
	return checkedCount(g.items)
}

// HeaderTitle returns the heading shown above the grid: the gallery
// name when nothing is checked, otherwise the checked count.
func (g *Grid) HeaderTitle() string {
	return headerTitle(checkedCount(g.items))
}

// ToggleSelect implements Controller. Unknown IDs are ignored.
func (g *Grid) ToggleSelect(id string) {
	out, changed := toggleChecked(g.items, id)
	if !changed {
		return
	}
	g.items = out
	g.refreshCards()
	g.updateHeader()
	if g.OnSelectionChanged != nil {
		g.OnSelectionChanged(checkedCount(g.items))
	}
}

// IsSelected implements Controller.
func (g *Grid) IsSelected(id string) bool {
	i := itemIndex(g.items, id)
	return i != -1 && g.items[i].Checked
}

// RemoveItem implements Controller. It deletes one item regardless of
// its checked state.
func (g *Grid) RemoveItem(id string) {
	i := itemIndex(g.items, id)
	if i == -1 {
		return
	}
	wasChecked := g.items[i].Checked

	out := make([]Item, 0, len(g.items)-1)
	out = append(out, g.items[:i]...)
	out = append(out, g.items[i+1:]...)
	g.items = out

	g.refreshCards()
	if wasChecked {
		g.updateHeader()
		if g.OnSelectionChanged != nil {
			g.OnSelectionChanged(checkedCount(g.items))
		}
	}
	if g.OnItemsChanged != nil {
		g.OnItemsChanged(g.Items())
	}
}

// DeleteSelected removes every checked item, keeping the rest in
// order.
func (g *Grid) DeleteSelected() {
	before := len(g.items)
	g.items = deleteChecked(g.items)
	if len(g.items) == before {
		return
	}

	g.refreshCards()
	g.updateHeader()
	if g.OnSelectionChanged != nil {
		g.OnSelectionChanged(0)
	}
	if g.OnItemsChanged != nil {
		g.OnItemsChanged(g.Items())
	}
}

// ShowAddDialog opens the image picker and appends whatever the user
// picks.
func (g *Grid) ShowAddDialog() {
	ShowImagePicker(g.parent, func(readers []fyne.URIReadCloser, err error) {
		if err != nil {
			fyne.LogError("Image picker failed", err)
			return
		}
		g.AddFromFiles(readers)
	})
}

// ShowMenu implements Controller.
func (g *Grid) ShowMenu(menu *fyne.Menu, pos fyne.Position, obj fyne.CanvasObject) {
	g.DismissMenu()

	if g.parent == nil {
		return
	}

	m := widget.NewMenu(menu)
	m.OnDismiss = g.DismissMenu

	// Manually calculate absolute position since PopUp doesn't have ShowAtRelativePosition
	absPos := fyne.CurrentApp().Driver().AbsolutePositionForObject(obj).Add(pos)

	g.activeMenu = widget.NewPopUp(m, g.parent.Canvas())
	g.activeMenu.ShowAtPosition(absPos)
}

// DismissMenu implements Controller.
func (g *Grid) DismissMenu() {
	if g.activeMenu != nil {
		g.activeMenu.Hide()
		g.activeMenu = nil
	}
}

// ZoomScale implements Controller.
func (g *Grid) ZoomScale() float32 {
	return cardZoomLevels[clampZoomLevelIndex(g.zoomLevel)]
}

func (g *Grid) adjustZoom(steps int) {
	g.setZoomLevel(g.zoomLevel + steps)
}

func (g *Grid) setZoomLevel(level int) {
	level = clampZoomLevelIndex(level)
	if level == g.zoomLevel {
		return
	}
	g.zoomLevel = level
	fyne.CurrentApp().Preferences().SetInt(zoomLevelKey, level)
	g.updateZoomButtons()
	g.refreshCards()
}

func (g *Grid) updateZoomButtons() {
	if g.zoomLevel <= 0 {
		g.zoomOutBtn.Disable()
	} else {
		g.zoomOutBtn.Enable()
	}
	if g.zoomLevel >= len(cardZoomLevels)-1 {
		g.zoomInBtn.Disable()
	} else {
		g.zoomInBtn.Enable()
	}
}

func (g *Grid) loadPrefs() {
	g.zoomLevel = clampZoomLevelIndex(
		fyne.CurrentApp().Preferences().IntWithFallback(zoomLevelKey, defaultZoomLevelIndex))
}

func (g *Grid) refreshCards() {
	g.grid.Refresh()
}

func (g *Grid) updateHeader() {
	n := checkedCount(g.items)
	g.titleLabel.SetText(headerTitle(n))
	if n > 0 {
		g.deleteBtn.Enable()
	} else {
		g.deleteBtn.Disable()
	}
}
