package gallery

import (
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

var cardZoomLevels = []float32{
	0.75,
	1.0,
	1.25,
	1.5,
	1.75,
	2.0,
}

const defaultZoomLevelIndex = 1 // 1.0

func clampZoomLevelIndex(i int) int {
	if i < 0 {
		return 0
	}
	if i >= len(cardZoomLevels) {
		return len(cardZoomLevels) - 1
	}
	return i
}

// calculateCardSize returns the cell size of a gallery card at the
// given scale: the square image area plus one label line underneath.
func calculateCardSize(zoom float32) fyne.Size {
	img := cardImageSize * zoom
	s, _ := fyne.CurrentApp().Driver().RenderedTextSize("A", theme.TextSize(), fyne.TextStyle{}, nil)
	labelHeight := s.Height + theme.InnerPadding()*2
	return fyne.NewSize(img+theme.Padding()*4, theme.Padding()+img+theme.Padding()/2+labelHeight)
}

func isZoomModifierActive() bool {
	d, ok := fyne.CurrentApp().Driver().(desktop.Driver)
	if !ok {
		return false
	}

	mods := d.CurrentKeyModifiers()
	if mods&fyne.KeyModifierControl != 0 {
		return true
	}
	// Support Command+scroll on macOS (and Control elsewhere) by honoring the platform shortcut modifier.
	return mods&fyne.KeyModifierShortcutDefault != 0
}

// zoomOverlay sits above the card grid and captures scroll events only
// while the zoom modifier is held, stepping the card scale instead of
// scrolling.
type zoomOverlay struct {
	widget.BaseWidget
	onStep func(steps int)
	accDY  float32
}

func newZoomOverlay(onStep func(steps int)) *zoomOverlay {
	z := &zoomOverlay{onStep: onStep}
	z.ExtendBaseWidget(z)
	return z
}

func (z *zoomOverlay) Visible() bool {
	if !z.BaseWidget.Visible() {
		return false
	}
	return isZoomModifierActive()
}

func (z *zoomOverlay) Scrolled(e *fyne.ScrollEvent) {
	if z.onStep == nil {
		return
	}

	// Fyne scroll deltas are scaled; on typical mouse wheels, DY is ~40 per notch.
	// Accumulate so touchpads don't zoom too quickly.
	const notch = float32(40)

	if math.IsNaN(float64(e.Scrolled.DY)) || math.IsInf(float64(e.Scrolled.DY), 0) {
		return
	}

	z.accDY += e.Scrolled.DY

	var steps int
	for z.accDY >= notch {
		steps++
		z.accDY -= notch
	}
	for z.accDY <= -notch {
		steps--
		z.accDY += notch
	}

	if steps != 0 {
		z.onStep(steps)
	}
}

func (z *zoomOverlay) CreateRenderer() fyne.WidgetRenderer {
	return &zoomOverlayRenderer{}
}

var _ fyne.Scrollable = (*zoomOverlay)(nil)

type zoomOverlayRenderer struct{}

func (r *zoomOverlayRenderer) Layout(fyne.Size) {}
func (r *zoomOverlayRenderer) MinSize() fyne.Size {
	return fyne.NewSize(0, 0)
}
func (r *zoomOverlayRenderer) Refresh()                     {}
func (r *zoomOverlayRenderer) Objects() []fyne.CanvasObject { return nil }
func (r *zoomOverlayRenderer) Destroy()                     {}
