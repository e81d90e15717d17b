package gallery

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

// breadcrumb is the clickable folder trail above the picker grid.
type breadcrumb struct {
	picker  *imagePicker
	content *fyne.Container
	scroll  *container.Scroll
}

func newBreadcrumb(p *imagePicker) *breadcrumb {
	b := &breadcrumb{
		picker:  p,
		content: container.NewHBox(),
	}
	b.scroll = container.NewHScroll(container.NewPadded(b.content))
	return b
}

// update rebuilds the trail from dir up to the filesystem root.
func (b *breadcrumb) update(dir fyne.ListableURI) {
	if b == nil || b.content == nil {
		return
	}
	b.content.Objects = nil

	var crumbs []fyne.CanvasObject
	current := dir
	for current != nil {
		target := current
		crumbs = append(crumbs, widget.NewButton(current.Name(), func() {
			b.picker.SetLocation(target)
		}))

		parent, err := storage.Parent(current)
		if err != nil || parent == nil || parent.String() == current.String() {
			break
		}

		current = nil
		if l, err := storage.ListerForURI(parent); err == nil {
			current = l
		}
	}

	// Walk collected them leaf-first; show them root-first.
	for i := len(crumbs) - 1; i >= 0; i-- {
		b.content.Add(crumbs[i])
	}
	b.content.Refresh()
}
