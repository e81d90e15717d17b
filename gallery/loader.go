package gallery

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"fyne.io/fyne/v2/storage"
	"github.com/vincent-petithory/dataurl"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

type loadRequest struct {
	url      string
	callback func(image.Image, error)
}

// ImageLoader decodes item URLs into square letterboxed thumbnails on
// a small worker pool. It understands data: URLs, plain file paths,
// file:// URIs and http(s) URLs. Decoded thumbnails are cached in
// memory by URL and, except for data: URLs already held in memory,
// persisted to a disk cache.
type ImageLoader struct {
	cache    sync.Map // map[string]image.Image
	requests []loadRequest
	reqLock  sync.Mutex
	reqCond  *sync.Cond
	client   *http.Client
	cacheDir string
}

var (
	MaxCacheSize  int64 = 500 * 1024 * 1024 // 500MB
	MaxCacheFiles int   = 10000
)

// maxRemoteBytes caps how much of a remote response body is read
// before decoding.
const maxRemoteBytes = 32 * 1024 * 1024

var (
	loader     *ImageLoader
	loaderOnce sync.Once
)

// SharedLoader returns the process-wide loader used by gallery cards.
func SharedLoader() *ImageLoader {
	loaderOnce.Do(func() {
		loader = &ImageLoader{
			requests: make([]loadRequest, 0, 100),
			client:   &http.Client{Timeout: 15 * time.Second},
		}
		loader.reqCond = sync.NewCond(&loader.reqLock)

		// Setup persistent cache
		if userCache, err := os.UserCacheDir(); err == nil {
			loader.cacheDir = filepath.Join(userCache, "xgallery")
			_ = os.MkdirAll(loader.cacheDir, 0755)
			go loader.cleanupCache()
		}

		// Start workers
		for range 4 {
			go loader.worker()
		}
	})
	return loader
}

// LoadMemoryOnly retrieves a thumbnail from the memory cache only.
// Returns nil if not in memory.
func (m *ImageLoader) LoadMemoryOnly(url string) image.Image {
	if cached, ok := m.cache.Load(url); ok {
		return cached.(image.Image)
	}
	return nil
}

// Load queues url for decoding and invokes callback, from a worker
// goroutine, with the scaled thumbnail or the decode error. Cache hits
// invoke the callback before Load returns.
func (m *ImageLoader) Load(url string, callback func(image.Image, error)) {
	if url == "" {
		return
	}

	if cached, ok := m.cache.Load(url); ok {
		callback(cached.(image.Image), nil)
		return
	}

	// Check disk cache before queuing
	if m.cacheDir != "" {
		if key, err := m.cacheKey(url); err == nil {
			cachePath := filepath.Join(m.cacheDir, key+".jpg")
			if _, err := os.Stat(cachePath); err == nil {
				if img, err := loadImage(cachePath); err == nil {
					m.cache.Store(url, img)
					callback(img, nil)
					return
				}
			}
		}
	}

	// LIFO Queue Logic
	m.reqLock.Lock()
	// If queue is full, drop the OLDEST request (at index 0)
	// Keeps the set of pending requests small and relevant
	if len(m.requests) >= 100 {
		m.requests = m.requests[1:]
	}
	m.requests = append(m.requests, loadRequest{url: url, callback: callback})
	m.reqCond.Signal()
	m.reqLock.Unlock()
}

// Prewarm loads any disk-cached thumbnails for the given items into
// memory in the background.
func (m *ImageLoader) Prewarm(items []Item) {
	if m.cacheDir == "" {
		return
	}

	urls := make([]string, 0, len(items))
	for _, it := range items {
		urls = append(urls, it.URL)
	}

	go func() {
		for _, url := range urls {
			if _, ok := m.cache.Load(url); ok {
				continue
			}

			key, err := m.cacheKey(url)
			if err != nil {
				continue
			}

			cachePath := filepath.Join(m.cacheDir, key+".jpg")
			if _, err := os.Stat(cachePath); err == nil {
				if img, err := loadImage(cachePath); err == nil {
					m.cache.Store(url, img)
				}
			}
			// Small sleep to avoid I/O spikes
			time.Sleep(5 * time.Millisecond)
		}
	}()
}

func (m *ImageLoader) worker() {
	for {
		m.reqLock.Lock()
		for len(m.requests) == 0 {
			m.reqCond.Wait()
		}
		// Pop LAST request (LIFO)
		lastIdx := len(m.requests) - 1
		req := m.requests[lastIdx]
		m.requests = m.requests[:lastIdx]
		m.reqLock.Unlock()

		if cached, ok := m.cache.Load(req.url); ok {
			req.callback(cached.(image.Image), nil)
			continue
		}

		src, err := m.decode(req.url)
		if err != nil {
			req.callback(nil, err)
			continue
		}

		dst := makeThumbnail(src)
		if dst == nil {
			req.callback(nil, errors.New("image has no pixels"))
			continue
		}

		m.cache.Store(req.url, dst)

		// Save to disk cache; data URLs carry their payload with them
		// so caching those wastes disk for no startup win.
		if m.cacheDir != "" && !strings.HasPrefix(req.url, "data:") {
			if key, err := m.cacheKey(req.url); err == nil {
				cachePath := filepath.Join(m.cacheDir, key+".jpg")
				f, err := os.Create(cachePath)
				if err == nil {
					_ = jpeg.Encode(f, dst, &jpeg.Options{Quality: 85})
					f.Close()
				}
			}
		}

		req.callback(dst, nil)
	}
}

// makeThumbnail scales src onto a black square of twice the card image
// size, preserving aspect ratio. High density displays stay sharp that
// way. Returns nil if src has no pixels.
func makeThumbnail(src image.Image) *image.RGBA {
	const targetSize = cardImageSize * 2

	srcBounds := src.Bounds()
	srcW, srcH := srcBounds.Dx(), srcBounds.Dy()
	if srcW == 0 || srcH == 0 {
		return nil
	}

	dst := image.NewRGBA(image.Rect(0, 0, targetSize, targetSize))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{image.Black}, image.Point{}, draw.Src)

	var scaledW, scaledH int
	ratio := float64(srcW) / float64(srcH)
	if ratio > 1 {
		// Landscape
		scaledW = targetSize
		scaledH = int(float64(targetSize) / ratio)
	} else {
		// Portrait or square
		scaledH = targetSize
		scaledW = int(float64(targetSize) * ratio)
	}

	xBase := (targetSize - scaledW) / 2
	yBase := (targetSize - scaledH) / 2
	targetRect := image.Rect(xBase, yBase, xBase+scaledW, yBase+scaledH)

	// Use ApproxBiLinear for speed
	draw.ApproxBiLinear.Scale(dst, targetRect, src, srcBounds, draw.Over, nil)

	return dst
}

// decode resolves url to a decoded image, dispatching on the URL
// flavour the gallery supports.
func (m *ImageLoader) decode(url string) (image.Image, error) {
	switch {
	case strings.HasPrefix(url, "data:"):
		du, err := dataurl.DecodeString(url)
		if err != nil {
			return nil, err
		}
		img, _, err := image.Decode(bytes.NewReader(du.Data))
		return img, err
	case strings.HasPrefix(url, "http://"), strings.HasPrefix(url, "https://"):
		return m.fetchRemote(url)
	case strings.HasPrefix(url, "file://"):
		u, err := storage.ParseURI(url)
		if err != nil {
			return nil, err
		}
		return loadImage(u.Path())
	default:
		return loadImage(url)
	}
}

func (m *ImageLoader) fetchRemote(url string) (image.Image, error) {
	resp, err := m.client.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: %s", url, resp.Status)
	}

	img, _, err := image.Decode(io.LimitReader(resp.Body, maxRemoteBytes))
	return img, err
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	return img, err
}

func isImageFile(ext string) bool {
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp", ".bmp":
		return true
	}
	return false
}

// cacheKey derives a stable disk cache key for url. Local files mix in
// their modification time, size and leading content so stale thumbs
// are never served; other URLs hash the URL itself.
func (m *ImageLoader) cacheKey(url string) (string, error) {
	path := ""
	switch {
	case strings.HasPrefix(url, "file://"):
		u, err := storage.ParseURI(url)
		if err != nil {
			return "", err
		}
		path = u.Path()
	case strings.HasPrefix(url, "data:"), strings.HasPrefix(url, "http://"), strings.HasPrefix(url, "https://"):
		h := sha256.Sum256([]byte(url))
		return hex.EncodeToString(h[:]), nil
	default:
		path = url
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return "", err
	}

	h := sha256.New()
	// Key factor 1 & 2: Path and ModTime
	h.Write([]byte(absPath))
	h.Write([]byte(info.ModTime().String()))
	h.Write([]byte(fmt.Sprintf("%d", info.Size())))

	// Key factor 3: Partial content (32KB)
	f, err := os.Open(absPath)
	if err == nil {
		defer f.Close()
		buf := make([]byte, 32*1024)
		n, _ := f.Read(buf)
		h.Write(buf[:n])
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

func (m *ImageLoader) cleanupCache() {
	if m.cacheDir == "" {
		return
	}

	files, err := os.ReadDir(m.cacheDir)
	if err != nil {
		return
	}

	type fileInfo struct {
		name string
		size int64
		time time.Time
	}

	var cachedFiles []fileInfo
	var totalSize int64

	for _, f := range files {
		if f.IsDir() || filepath.Ext(f.Name()) != ".jpg" {
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}
		cachedFiles = append(cachedFiles, fileInfo{
			name: f.Name(),
			size: info.Size(),
			time: info.ModTime(),
		})
		totalSize += info.Size()
	}

	if totalSize <= MaxCacheSize && len(cachedFiles) <= MaxCacheFiles {
		return
	}

	// LRU: Sort by time ascending (oldest first)
	sort.Slice(cachedFiles, func(i, j int) bool {
		return cachedFiles[i].time.Before(cachedFiles[j].time)
	})

	for _, f := range cachedFiles {
		if totalSize <= int64(float64(MaxCacheSize)*0.8) && len(cachedFiles) <= int(float64(MaxCacheFiles)*0.8) {
			break
		}
		_ = os.Remove(filepath.Join(m.cacheDir, f.name))
		totalSize -= f.size
		cachedFiles = cachedFiles[1:]
	}
}
