package gallery

import (
	"image"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/lang"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// thumbnailLoadDelay debounces thumbnail requests while the grid is
// scrolled quickly past many cards.
const thumbnailLoadDelay = 200 * time.Millisecond

type itemCard struct {
	widget.BaseWidget
	ctrl Controller
	item Item

	thumbnail *canvas.Image
	fallback  *widget.Icon
	badge     *widget.Icon
	label     *widget.Label
	bg        *canvas.Rectangle

	currentURL string
	loadTimer  *time.Timer
	dragging   bool
}

func newItemCard(ctrl Controller) *itemCard {
	card := &itemCard{
		ctrl:      ctrl,
		thumbnail: canvas.NewImageFromImage(nil),
		fallback:  widget.NewIcon(theme.FileImageIcon()),
		badge:     widget.NewIcon(theme.ConfirmIcon()),
		label:     widget.NewLabel(""),
		bg:        canvas.NewRectangle(theme.Color(theme.ColorNameSelection)),
	}
	card.thumbnail.FillMode = canvas.ImageFillContain
	card.thumbnail.Hide()
	card.badge.Hide()
	card.bg.Hide()
	card.label.Alignment = fyne.TextAlignCenter
	card.label.Truncation = fyne.TextTruncateEllipsis
	card.ExtendBaseWidget(card)
	return card
}

func (c *itemCard) CreateRenderer() fyne.WidgetRenderer {
	return &cardRenderer{card: c}
}

func (c *itemCard) setItem(it Item) {
	c.item = it
	c.label.SetText(it.Alt)
	c.setSelected(it.Checked)

	if c.currentURL == it.URL {
		return
	}
	c.currentURL = it.URL

	c.fallback.SetResource(theme.FileImageIcon())
	c.fallback.Show()
	c.thumbnail.Hide()
	c.thumbnail.Image = nil
	c.thumbnail.Refresh()

	if c.loadTimer != nil {
		c.loadTimer.Stop()
	}

	// Try instant memory hit
	if img := SharedLoader().LoadMemoryOnly(it.URL); img != nil {
		c.showThumbnail(img)
		return
	}

	url, name := it.URL, it.Alt
	c.loadTimer = time.AfterFunc(thumbnailLoadDelay, func() {
		SharedLoader().Load(url, func(img image.Image, err error) {
			// Ensure thread safety for UI updates using fyne.Do (available since v2.6.0)
			fyne.Do(func() {
				if c.currentURL != url {
					return
				}
				if err != nil {
					fyne.LogError("Failed to load gallery image "+name, err)
					c.fallback.SetResource(theme.BrokenImageIcon())
					c.fallback.Refresh()
					return
				}
				c.showThumbnail(img)
			})
		})
	})
}

func (c *itemCard) showThumbnail(img image.Image) {
	c.thumbnail.Image = img
	c.thumbnail.Refresh()
	c.fallback.Hide()
	c.thumbnail.Show()
}

func (c *itemCard) setSelected(selected bool) {
	if selected {
		c.bg.Show()
		c.badge.Show()
	} else {
		c.bg.Hide()
		c.badge.Hide()
	}
	c.Refresh()
}

func (c *itemCard) Tapped(e *fyne.PointEvent) {
	if c.dragging || c.ctrl.SuppressTap() {
		return
	}
	c.ctrl.ToggleSelect(c.item.ID)
}

var _ desktop.Mouseable = (*itemCard)(nil)

func (c *itemCard) MouseDown(e *desktop.MouseEvent) {
	c.ctrl.DismissMenu()
}

func (c *itemCard) MouseUp(e *desktop.MouseEvent) {
	if e.Button == desktop.MouseButtonSecondary {
		c.showContextMenu(e.Position)
	}
}

func (c *itemCard) showContextMenu(pos fyne.Position) {
	toggle := lang.L("Select")
	if c.ctrl.IsSelected(c.item.ID) {
		toggle = lang.L("Deselect")
	}

	id := c.item.ID
	menu := fyne.NewMenu("",
		fyne.NewMenuItem(toggle, func() {
			c.ctrl.ToggleSelect(id)
			c.ctrl.DismissMenu()
		}),
		fyne.NewMenuItem(lang.L("Remove"), func() {
			c.ctrl.RemoveItem(id)
			c.ctrl.DismissMenu()
		}),
	)
	c.ctrl.ShowMenu(menu, pos, c)
}

func (c *itemCard) SecondaryTapped(e *fyne.PointEvent) {
	c.showContextMenu(e.Position)
}

var _ fyne.Draggable = (*itemCard)(nil)

func (c *itemCard) Dragged(e *fyne.DragEvent) {
	if !c.dragging {
		c.dragging = true
		c.ctrl.DragStarted(c.item.ID)
	}

	abs := fyne.CurrentApp().Driver().AbsolutePositionForObject(c).Add(e.Position)
	c.ctrl.DragMoved(abs)
}

func (c *itemCard) DragEnd() {
	if !c.dragging {
		return
	}
	c.dragging = false
	c.ctrl.DragEnded()
}

type cardRenderer struct {
	card *itemCard
}

func (r *cardRenderer) Layout(size fyne.Size) {
	r.card.bg.Resize(size)

	imgSize := fyne.NewSquareSize(cardImageSize * r.card.ctrl.ZoomScale())
	imgPos := fyne.NewPos((size.Width-imgSize.Width)/2, theme.Padding())

	r.card.thumbnail.Resize(imgSize)
	r.card.thumbnail.Move(imgPos)
	r.card.fallback.Resize(imgSize)
	r.card.fallback.Move(imgPos)

	badgeSize := fyne.NewSquareSize(theme.IconInlineSize())
	r.card.badge.Resize(badgeSize)
	r.card.badge.Move(fyne.NewPos(
		imgPos.X+imgSize.Width-badgeSize.Width-theme.Padding()/2,
		imgPos.Y+theme.Padding()/2))

	labelHeight := r.card.label.MinSize().Height
	r.card.label.Resize(fyne.NewSize(size.Width, labelHeight))
	r.card.label.Move(fyne.NewPos(0, imgPos.Y+imgSize.Height+theme.Padding()/2))
}

func (r *cardRenderer) MinSize() fyne.Size {
	return calculateCardSize(r.card.ctrl.ZoomScale())
}

func (r *cardRenderer) Refresh() {
	r.card.bg.Refresh()
	r.card.thumbnail.Refresh()
	r.card.fallback.Refresh()
	r.card.badge.Refresh()
	r.card.label.Refresh()
}

func (r *cardRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.card.bg, r.card.thumbnail, r.card.fallback, r.card.label, r.card.badge}
}

func (r *cardRenderer) Destroy() {
	if r.card.loadTimer != nil {
		r.card.loadTimer.Stop()
	}
}
