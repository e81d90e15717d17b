package gallery

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/lang"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/FyshOS/fancyfs"
)

type placeItem struct {
	locName string
	locIcon fyne.Resource
	loc     fyne.ListableURI
}

// placesList is the picker's shortcut column: home, the usual media
// folders and the platform's roots or drives.
type placesList struct {
	picker *imagePicker
	list   *widget.List
	items  []placeItem
}

func newPlacesList(p *imagePicker) *placesList {
	s := &placesList{picker: p}
	s.loadPlaces()

	s.list = widget.NewList(
		func() int { return len(s.items) },
		func() fyne.CanvasObject {
			return container.NewHBox(
				widget.NewIcon(theme.DocumentIcon()),
				widget.NewLabel(lang.L("Template")),
			)
		},
		func(id widget.ListItemID, o fyne.CanvasObject) {
			if id >= len(s.items) {
				return
			}
			item := s.items[id]
			box := o.(*fyne.Container)
			box.Objects[0].(*widget.Icon).SetResource(item.locIcon)
			box.Objects[1].(*widget.Label).SetText(lang.L(item.locName))
		},
	)
	s.list.OnSelected = func(id widget.ListItemID) {
		if id < len(s.items) {
			s.picker.SetLocation(s.items[id].loc)
		}
	}

	return s
}

func (s *placesList) loadPlaces() {
	s.items = []placeItem{}

	homeDir, _ := os.UserHomeDir()
	homeURI := storage.NewFileURI(homeDir)
	if l, err := storage.ListerForURI(homeURI); err == nil {
		s.items = append(s.items, placeItem{
			locName: "Home",
			locIcon: folderArt(homeURI, theme.HomeIcon()),
			loc:     l,
		})
	}

	// The folders pictures usually live in.
	for _, name := range []string{"Pictures", "Downloads", "Desktop"} {
		uri, err := getFavoriteLocation(homeURI, name)
		if err != nil {
			continue
		}
		if l, err := storage.ListerForURI(uri); err == nil {
			s.items = append(s.items, placeItem{
				locName: name,
				locIcon: folderArt(uri, theme.FolderIcon()),
				loc:     l,
			})
		}
	}

	s.items = append(s.items, s.getPlaces()...)
}

// folderArt returns the fancy folder icon for uri when one is set,
// falling back otherwise.
func folderArt(uri fyne.URI, fallback fyne.Resource) fyne.Resource {
	if details, err := fancyfs.DetailsForFolder(uri); err == nil && details != nil && details.BackgroundResource != nil {
		return details.BackgroundResource
	}
	return fallback
}

// getFavoriteLocation resolves a well-known folder under home,
// honoring the XDG user dirs configuration where available.
func getFavoriteLocation(homeURI fyne.URI, name string) (fyne.URI, error) {
	if runtime.GOOS != "linux" && runtime.GOOS != "openbsd" && runtime.GOOS != "freebsd" && runtime.GOOS != "netbsd" {
		return storage.Child(homeURI, name)
	}

	const cmdName = "xdg-user-dir"
	if _, err := exec.LookPath(cmdName); err != nil {
		return storage.Child(homeURI, name)
	}

	cmd := exec.Command(cmdName, strings.ToUpper(name))
	loc, err := cmd.Output()
	if err != nil {
		return storage.Child(homeURI, name)
	}

	cleanPath := filepath.Clean(strings.TrimSpace(string(loc)))
	locURI := storage.NewFileURI(cleanPath)

	// xdg-user-dir answers with the home dir when the entry is unset.
	if locURI.String() == homeURI.String() {
		childPath := filepath.Join(homeURI.Path(), name)
		if resolved, err := filepath.EvalSymlinks(childPath); err == nil {
			return storage.NewFileURI(resolved), nil
		}
		return storage.NewFileURI(childPath), nil
	}

	return locURI, nil
}

// picturesDir returns the user's pictures folder, or nil when it
// cannot be resolved.
func picturesDir() fyne.ListableURI {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	uri, err := getFavoriteLocation(storage.NewFileURI(homeDir), "Pictures")
	if err != nil {
		return nil
	}
	l, err := storage.ListerForURI(uri)
	if err != nil {
		return nil
	}
	return l
}
