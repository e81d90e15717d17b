//go:build android || ios

package gallery

import (
	"fyne.io/fyne/v2"
	fynedialog "fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
)

// pickerOSOverride hands off to the platform document picker; mobile
// pickers deliver one file at a time.
func pickerOSOverride(p *imagePicker) bool {
	d := fynedialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		var readers []fyne.URIReadCloser
		if reader != nil {
			readers = []fyne.URIReadCloser{reader}
		}
		fyne.Do(func() {
			if p.callback != nil {
				p.callback(readers, err)
			}
		})
	}, p.parent)
	d.SetFilter(storage.NewExtensionFileFilter([]string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".bmp"}))
	d.Show()
	return true
}
