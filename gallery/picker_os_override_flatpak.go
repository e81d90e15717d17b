//go:build flatpak && !windows && !android && !ios && !wasm && !js

package gallery

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver"
	"fyne.io/fyne/v2/lang"
	"fyne.io/fyne/v2/storage"

	"github.com/rymdport/portal"
	"github.com/rymdport/portal/filechooser"
)

// pickerOSOverride routes the pick through the XDG desktop portal, the
// only way a sandboxed build can reach files outside its sandbox.
func pickerOSOverride(p *imagePicker) bool {
	options := &filechooser.OpenFileOptions{
		AcceptLabel: lang.L("Add"),
		Multiple:    true,
	}
	if p.dir != nil {
		options.CurrentFolder = p.dir.Path()
	}
	options.Filters, options.CurrentFilter = imagePortalFilter()
	windowHandle := windowHandleForPortal(p.parent)

	go func() {
		uris, err := filechooser.OpenFile(windowHandle, lang.L("Add Images"), options)
		if err != nil {
			fyne.Do(func() {
				if p.callback != nil {
					p.callback(nil, err)
				}
			})
			return
		}
		if len(uris) == 0 {
			fyne.Do(func() {
				if p.callback != nil {
					p.callback(nil, nil)
				}
			})
			return
		}

		readers := make([]fyne.URIReadCloser, 0, len(uris))
		for _, raw := range uris {
			uri, parseErr := storage.ParseURI(raw)
			if parseErr != nil {
				err = parseErr
				break
			}
			r, openErr := storage.Reader(uri)
			if openErr != nil {
				err = openErr
				break
			}
			readers = append(readers, r)
		}

		if err != nil {
			for _, r := range readers {
				_ = r.Close()
			}
			readers = nil
		}

		fyne.Do(func() {
			if p.callback != nil {
				p.callback(readers, err)
			}
		})
	}()

	return true
}

func windowHandleForPortal(window fyne.Window) string {
	native, ok := window.(driver.NativeWindow)
	if !ok {
		return ""
	}

	windowHandle := ""
	native.RunNative(func(context any) {
		if x11, ok := context.(driver.X11WindowContext); ok {
			windowHandle = portal.FormatX11WindowHandle(x11.WindowHandle)
		}
	})
	return windowHandle
}

func imagePortalFilter() (list []*filechooser.Filter, current *filechooser.Filter) {
	rules := []filechooser.Rule{
		{Type: filechooser.MIMEType, Pattern: "image/jpeg"},
		{Type: filechooser.MIMEType, Pattern: "image/png"},
		{Type: filechooser.MIMEType, Pattern: "image/gif"},
		{Type: filechooser.MIMEType, Pattern: "image/webp"},
		{Type: filechooser.MIMEType, Pattern: "image/bmp"},
	}
	converted := &filechooser.Filter{Name: lang.L("Images"), Rules: rules}
	return []*filechooser.Filter{converted}, converted
}
