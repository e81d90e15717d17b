package gallery

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/lang"
	"github.com/google/uuid"
	"github.com/vincent-petithory/dataurl"
)

// maxUploadBytes caps how large a single picked file may be.
const maxUploadBytes = 32 * 1024 * 1024

// AddFromFiles decodes each reader off the UI thread and appends one
// item per successfully decoded image. Each file is handled on its own
// goroutine, so items arrive in completion order, not pick order.
// Files that fail to decode are reported through OnDecodeError and
// skipped; the rest still land.
func (g *Grid) AddFromFiles(readers []fyne.URIReadCloser) {
	for _, r := range readers {
		if r == nil {
			continue
		}
		go g.decodeAndAppend(r)
	}
}

func (g *Grid) decodeAndAppend(r fyne.URIReadCloser) {
	name := r.URI().Name()
	item, err := decodeUpload(r)
	if err != nil {
		fyne.LogError("Failed to decode picked image "+name, err)
		fyne.Do(func() {
			if g.OnDecodeError != nil {
				g.OnDecodeError(name, err)
			}
		})
		return
	}

	fyne.Do(func() {
		g.appendItems(item)
	})
}

// decodeUpload reads and validates one picked file, embedding its
// bytes as a data: URL so the resulting item stays valid after the
// original file moves or disappears. The reader is always closed.
func decodeUpload(r io.ReadCloser) (Item, error) {
	defer r.Close()

	data, err := io.ReadAll(io.LimitReader(r, maxUploadBytes+1))
	if err != nil {
		return Item{}, err
	}
	if len(data) > maxUploadBytes {
		return Item{}, fmt.Errorf("file exceeds %d bytes", maxUploadBytes)
	}

	mimeType, err := sniffImageMIME(data)
	if err != nil {
		return Item{}, err
	}
	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		return Item{}, err
	}

	return Item{
		ID:  uuid.NewString(),
		URL: dataurl.New(data, mimeType).String(),
		Alt: lang.L("New Image"),
	}, nil
}

// sniffImageMIME detects the content type of raw bytes and requires an
// image/* result.
func sniffImageMIME(data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("file is empty")
	}
	mimeType := http.DetectContentType(data)
	if !strings.HasPrefix(mimeType, "image/") {
		return "", fmt.Errorf("unsupported content type %s", mimeType)
	}
	return mimeType, nil
}
