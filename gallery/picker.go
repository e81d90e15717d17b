package gallery

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/lang"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/FyshOS/fancyfs"
)

const (
	pickerIconSize  = 64
	pickerCellWidth = pickerIconSize * 1.8
)

// imagePicker is the modal folder browser behind the gallery's add
// button. Folders open on tap; image files toggle in and out of the
// pick.
type imagePicker struct {
	parent   fyne.Window
	callback func([]fyne.URIReadCloser, error)

	win *widget.PopUp
	dir fyne.ListableURI

	entries  []fyne.URI
	selected map[string]fyne.URI

	grid       *widget.GridWrap
	breadcrumb *breadcrumb
	places     *placesList
	countLabel *widget.Label
	addBtn     *widget.Button
	dismissBtn *widget.Button
}

// ShowImagePicker opens a modal picker over parent for choosing image
// files. callback receives one open reader per picked file, or
// (nil, nil) when the picker is dismissed or parent is nil. Sandboxed
// and mobile builds divert to the platform's native chooser.
func ShowImagePicker(parent fyne.Window, callback func([]fyne.URIReadCloser, error)) {
	if parent == nil {
		fyne.LogError("Cannot show the image picker without a parent window", nil)
		callback(nil, nil)
		return
	}

	p := &imagePicker{
		parent:   parent,
		callback: callback,
		selected: make(map[string]fyne.URI),
	}
	p.dir = startingDir()

	if pickerOSOverride(p) {
		return
	}

	content := p.makeUI()
	p.win = widget.NewModalPopUp(content, parent.Canvas())
	p.win.Resize(fyne.NewSize(800, 600))
	p.win.Show()
	p.refreshDir(p.dir)
}

func (p *imagePicker) makeUI() fyne.CanvasObject {
	p.breadcrumb = newBreadcrumb(p)
	p.places = newPlacesList(p)

	p.grid = widget.NewGridWrap(
		func() int {
			return len(p.entries)
		},
		func() fyne.CanvasObject {
			return newPickerEntry(p)
		},
		func(id widget.GridWrapItemID, o fyne.CanvasObject) {
			if int(id) >= len(p.entries) {
				return
			}
			o.(*pickerEntry).setURI(p.entries[id])
		},
	)

	p.countLabel = widget.NewLabel("")
	p.addBtn = widget.NewButtonWithIcon(lang.L("Add"), theme.ConfirmIcon(), p.confirm)
	p.addBtn.Importance = widget.HighImportance
	p.dismissBtn = widget.NewButtonWithIcon(lang.L("Cancel"), theme.CancelIcon(), p.cancel)

	title := widget.NewLabelWithStyle(lang.L("Add Images"), fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	header := container.NewVBox(title, widget.NewSeparator())

	split := container.NewHSplit(
		container.NewPadded(p.places.list),
		container.NewBorder(container.NewPadded(p.breadcrumb.scroll), nil, nil, nil, p.grid),
	)
	split.SetOffset(0.25)

	footer := container.NewBorder(nil, nil, nil, container.NewHBox(p.dismissBtn, p.addBtn), p.countLabel)

	p.updateFooter()
	return container.NewBorder(header, footer, nil, nil, split)
}

func (p *imagePicker) SetLocation(dir fyne.ListableURI) {
	if dir == nil {
		return
	}
	p.refreshDir(dir)
}

func (p *imagePicker) refreshDir(dir fyne.ListableURI) {
	p.dir = dir
	p.breadcrumb.update(dir)

	files, err := dir.List()
	if err != nil {
		fyne.LogError("Cannot list "+dir.Name(), err)
		files = nil
	}

	var folders, images []fyne.URI
	for _, file := range files {
		if isHidden(file) {
			continue
		}
		if isDir, _ := storage.CanList(file); isDir {
			folders = append(folders, file)
			continue
		}
		if isImageFile(strings.ToLower(filepath.Ext(file.Name()))) {
			images = append(images, file)
		}
	}

	byName := func(list []fyne.URI) {
		sort.Slice(list, func(i, j int) bool {
			return strings.ToLower(list[i].Name()) < strings.ToLower(list[j].Name())
		})
	}
	byName(folders)
	byName(images)

	p.entries = append(folders, images...)
	p.selected = make(map[string]fyne.URI)
	p.updateFooter()
	if p.grid != nil {
		p.grid.ScrollToOffset(0)
		p.grid.Refresh()
	}
}

func (p *imagePicker) toggleEntry(u fyne.URI) {
	key := u.String()
	if _, ok := p.selected[key]; ok {
		delete(p.selected, key)
	} else {
		p.selected[key] = u
	}
	p.updateFooter()
	p.grid.Refresh()
}

func (p *imagePicker) isSelected(u fyne.URI) bool {
	_, ok := p.selected[u.String()]
	return ok
}

func (p *imagePicker) enterFolder(u fyne.URI) {
	// Follow symlinks: anything listable opens as a folder.
	if l, err := storage.ListerForURI(u); err == nil {
		p.SetLocation(l)
	}
}

func (p *imagePicker) updateFooter() {
	if p.countLabel == nil {
		return
	}

	switch n := len(p.selected); n {
	case 0:
		p.countLabel.SetText(lang.L("No images selected"))
		p.addBtn.Disable()
	case 1:
		p.countLabel.SetText("1 " + lang.L("image selected"))
		p.addBtn.Enable()
	default:
		p.countLabel.SetText(fmt.Sprintf("%d %s", n, lang.L("images selected")))
		p.addBtn.Enable()
	}
}

// confirm opens a reader per picked file, in display order, and hands
// them to the callback. Files that cannot be opened are skipped.
func (p *imagePicker) confirm() {
	var readers []fyne.URIReadCloser
	for _, u := range p.entries {
		if _, ok := p.selected[u.String()]; !ok {
			continue
		}
		r, err := storage.Reader(u)
		if err != nil {
			fyne.LogError("Cannot open "+u.Name(), err)
			continue
		}
		readers = append(readers, r)
	}

	if p.dir != nil {
		fyne.CurrentApp().Preferences().SetString(lastDirKey, p.dir.String())
	}

	p.hide()
	if p.callback != nil {
		p.callback(readers, nil)
	}
}

func (p *imagePicker) cancel() {
	p.hide()
	if p.callback != nil {
		p.callback(nil, nil)
	}
}

func (p *imagePicker) hide() {
	if p.win != nil {
		p.win.Hide()
	}
}

// startingDir prefers the folder images were last added from, then the
// pictures folder, home and finally the root.
func startingDir() fyne.ListableURI {
	if last := fyne.CurrentApp().Preferences().String(lastDirKey); last != "" {
		if u, err := storage.ParseURI(last); err == nil {
			if l, err := storage.ListerForURI(u); err == nil {
				return l
			}
		}
	}

	if pics := picturesDir(); pics != nil {
		return pics
	}

	if dir, err := os.UserHomeDir(); err == nil {
		if l, err := storage.ListerForURI(storage.NewFileURI(dir)); err == nil {
			return l
		}
	}

	lister, _ := storage.ListerForURI(storage.NewFileURI("/"))
	return lister
}

type pickerEntry struct {
	widget.BaseWidget
	picker *imagePicker
	uri    fyne.URI

	icon       *widget.FileIcon
	customIcon *widget.Icon
	thumbnail  *canvas.Image
	label      *widget.Label
	bg         *canvas.Rectangle

	currentPath string
	loadTimer   *time.Timer
	isDir       bool
}

func newPickerEntry(p *imagePicker) *pickerEntry {
	e := &pickerEntry{
		picker:     p,
		icon:       widget.NewFileIcon(nil),
		customIcon: widget.NewIcon(nil),
		thumbnail:  canvas.NewImageFromImage(nil),
		label:      widget.NewLabel(""),
		bg:         canvas.NewRectangle(theme.Color(theme.ColorNameSelection)),
	}
	e.thumbnail.FillMode = canvas.ImageFillContain
	e.thumbnail.Hide()
	e.customIcon.Hide()
	e.bg.Hide()
	e.label.Alignment = fyne.TextAlignCenter
	e.label.Wrapping = fyne.TextWrapBreak
	e.label.Truncation = fyne.TextTruncateClip
	e.ExtendBaseWidget(e)
	return e
}

func (e *pickerEntry) CreateRenderer() fyne.WidgetRenderer {
	return &pickerEntryRenderer{entry: e}
}

func (e *pickerEntry) setURI(u fyne.URI) {
	e.uri = u
	e.icon.SetURI(u)
	e.label.SetText(u.Name())

	isDir, _ := storage.CanList(u)
	e.isDir = isDir

	if !isDir && e.picker.isSelected(u) {
		e.bg.Show()
	} else {
		e.bg.Hide()
	}

	if e.currentPath == u.Path() {
		e.Refresh()
		return
	}
	e.currentPath = u.Path()

	e.icon.Show()
	e.customIcon.Hide()
	e.thumbnail.Hide()
	e.thumbnail.Image = nil
	e.thumbnail.Refresh()

	if e.loadTimer != nil {
		e.loadTimer.Stop()
	}

	if isDir {
		// Check for fancy folder details
		if details, err := fancyfs.DetailsForFolder(u); err == nil && details != nil {
			if details.BackgroundResource != nil {
				e.customIcon.SetResource(details.BackgroundResource)
				e.icon.Hide()
				e.customIcon.Show()
			}
			if details.BackgroundURI != nil {
				e.thumbnail.File = details.BackgroundURI.Path()
				e.thumbnail.FillMode = details.BackgroundFill
				e.thumbnail.Refresh()
				e.icon.Hide()
				e.customIcon.Hide()
				e.thumbnail.Show()
			}
		}
		e.Refresh()
		return
	}

	url := u.String()
	if img := SharedLoader().LoadMemoryOnly(url); img != nil {
		e.showThumbnail(img)
		return
	}

	e.loadTimer = time.AfterFunc(thumbnailLoadDelay, func() {
		SharedLoader().Load(url, func(img image.Image, err error) {
			fyne.Do(func() {
				if e.currentPath != u.Path() || err != nil {
					return
				}
				e.showThumbnail(img)
			})
		})
	})
	e.Refresh()
}

func (e *pickerEntry) showThumbnail(img image.Image) {
	e.thumbnail.Image = img
	e.thumbnail.Refresh()
	e.icon.Hide()
	e.customIcon.Hide()
	e.thumbnail.Show()
}

func (e *pickerEntry) Tapped(_ *fyne.PointEvent) {
	if e.uri == nil {
		return
	}
	if e.isDir {
		e.picker.enterFolder(e.uri)
		return
	}
	e.picker.toggleEntry(e.uri)
}

type pickerEntryRenderer struct {
	entry *pickerEntry
}

func (r *pickerEntryRenderer) Layout(size fyne.Size) {
	e := r.entry
	e.bg.Resize(size)

	iconSize := fyne.NewSquareSize(pickerIconSize)
	pos := fyne.NewPos((size.Width-iconSize.Width)/2, theme.Padding())
	e.icon.Resize(iconSize)
	e.icon.Move(pos)
	e.customIcon.Resize(iconSize)
	e.customIcon.Move(pos)
	e.thumbnail.Resize(iconSize)
	e.thumbnail.Move(pos)

	s, _ := fyne.CurrentApp().Driver().RenderedTextSize("A", theme.TextSize(), e.label.TextStyle, nil)
	e.label.Resize(fyne.NewSize(size.Width, s.Height*3))
	e.label.Move(fyne.NewPos(0, iconSize.Height+theme.Padding()*1.5))
}

func (r *pickerEntryRenderer) MinSize() fyne.Size {
	s, _ := fyne.CurrentApp().Driver().RenderedTextSize("A", theme.TextSize(), fyne.TextStyle{}, nil)
	return fyne.NewSize(pickerCellWidth, pickerIconSize+s.Height*2.5+theme.Padding()*3)
}

func (r *pickerEntryRenderer) Refresh() {
	r.entry.bg.Refresh()
	r.entry.icon.Refresh()
	r.entry.customIcon.Refresh()
	r.entry.thumbnail.Refresh()
	r.entry.label.Refresh()
}

func (r *pickerEntryRenderer) Objects() []fyne.CanvasObject {
	e := r.entry
	return []fyne.CanvasObject{e.bg, e.icon, e.customIcon, e.thumbnail, e.label}
}

func (r *pickerEntryRenderer) Destroy() {
	if r.entry.loadTimer != nil {
		r.entry.loadTimer.Stop()
	}
}
