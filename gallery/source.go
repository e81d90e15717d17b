package gallery

import (
	"path/filepath"
	"sort"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/storage"
	"github.com/google/uuid"
)

// SliceSource seeds a gallery from a fixed list of items.
type SliceSource []Item

func (s SliceSource) Items() []Item {
	return append([]Item(nil), s...)
}

// FolderSource seeds a gallery with every image file in one folder,
// sorted by name. Subfolders and hidden files are skipped. Items take
// their alt text from the file name without its extension.
type FolderSource struct {
	Dir fyne.ListableURI
}

// NewFolderSource returns a source over the folder at path. A path
// that cannot be listed yields an empty source.
func NewFolderSource(path string) *FolderSource {
	dir, err := storage.ListerForURI(storage.NewFileURI(path))
	if err != nil {
		fyne.LogError("Cannot list gallery folder "+path, err)
		return &FolderSource{}
	}
	return &FolderSource{Dir: dir}
}

func (f *FolderSource) Items() []Item {
	if f == nil || f.Dir == nil {
		return nil
	}

	files, err := f.Dir.List()
	if err != nil {
		fyne.LogError("Cannot list gallery folder "+f.Dir.Name(), err)
		return nil
	}

	var items []Item
	for _, u := range files {
		if isHidden(u) {
			continue
		}
		if dir, _ := storage.CanList(u); dir {
			continue
		}
		name := u.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if !isImageFile(ext) {
			continue
		}
		items = append(items, Item{
			ID:  uuid.NewString(),
			URL: u.String(),
			Alt: strings.TrimSuffix(name, filepath.Ext(name)),
		})
	}

	sort.Slice(items, func(i, j int) bool {
		return strings.ToLower(items[i].Alt) < strings.ToLower(items[j].Alt)
	})
	return items
}

func isHidden(file fyne.URI) bool {
	if file.Scheme() != "file" {
		return false
	}
	name := filepath.Base(file.Path())
	return name == "" || name[0] == '.'
}
