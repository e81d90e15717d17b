package gallery

import (
	"fyne.io/fyne/v2"
)

// Item is a single gallery entry. Items are identified by ID; URL is
// anything the image loader understands (data: URL, file path, file://
// or http(s) URI).
type Item struct {
	ID      string
	URL     string
	Alt     string
	Checked bool
}

// Source supplies the initial ordered snapshot a gallery is built
// from. It is read once, when the widget is created.
type Source interface {
	Items() []Item
}

// Controller is the surface cards and overlays call back into. *Grid
// implements it; tests substitute their own.
type Controller interface {
	// ToggleSelect flips the checked state of the given item.
	ToggleSelect(id string)
	// IsSelected reports whether the given item is currently checked.
	IsSelected(id string) bool
	// RemoveItem deletes a single item regardless of its checked state.
	RemoveItem(id string)

	// DragStarted begins an item drag. It is the only gesture event that
	// carries an item ID: the grid recycles cards while it scrolls, so a
	// later event may arrive from a card already re-bound to another
	// item.
	DragStarted(id string)
	// DragMoved reports the pointer position, in absolute canvas
	// coordinates, while a drag is in flight.
	DragMoved(pos fyne.Position)
	// DragEnded finishes the drag gesture.
	DragEnded()
	// SuppressTap reports whether a tap arriving now is the tail of a
	// just-finished drag rather than a deliberate click.
	SuppressTap() bool

	// ShowMenu pops up a context menu at pos relative to obj.
	ShowMenu(menu *fyne.Menu, pos fyne.Position, obj fyne.CanvasObject)
	// DismissMenu closes any open context menu.
	DismissMenu()

	// ZoomScale returns the current card scale factor.
	ZoomScale() float32
}

// dragPhase distinguishes "no drag" from "drag cancelled but the
// pointer is still down". Both leave the order untouched, but a
// cancelled drag keeps swallowing move events until the gesture ends.
type dragPhase int

const (
	dragIdle dragPhase = iota
	dragActive
	dragCancelled
)

// dragState is the single in-flight drag. item is only meaningful
// while phase == dragActive; it is the zero Item when the drag began
// on an ID that no longer exists.
type dragState struct {
	phase dragPhase
	item  Item
}

const (
	// cardImageSize is the unscaled edge of a card's square image area.
	cardImageSize = 96

	zoomLevelKey = "xgallery:zoomLevel"
	lastDirKey   = "xgallery:lastAddDir"
)
