package metaview

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/karrick/godirwalk"
	"k8s.io/klog/v2"
)

// ErrUnknownMedia is returned for handles the catalog does not know.
var ErrUnknownMedia = errors.New("unknown media")

var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".tif":  true,
	".tiff": true,
	".heic": true,
	".webp": true,
	".dng":  true,
	".cr2":  true,
	".nef":  true,
	".arw":  true,
}

// IsImage reports whether path has a known image extension.
func IsImage(path string) bool {
	return imageExts[strings.ToLower(filepath.Ext(path))]
}

// Catalog is a set of media records under a base directory, with one active selection.
type Catalog struct {
	base string

	mu        sync.Mutex
	media     []*Media
	byHandle  map[string]*Media
	byPath    map[string]*Media
	active    string
	hasData   bool
	listeners []func()
}

// NewCatalog returns an empty catalog rooted at base.
func NewCatalog(base string) *Catalog {
	return &Catalog{
		base:     base,
		byHandle: map[string]*Media{},
		byPath:   map[string]*Media{},
	}
}

// Base returns the media base directory.
func (c *Catalog) Base() string {
	return c.base
}

// Scan registers every image below the base directory.
func (c *Catalog) Scan() error {
	err := godirwalk.Walk(c.base, &godirwalk.Options{
		Callback: func(path string, de *godirwalk.Dirent) error {
			if path != c.base && strings.HasPrefix(filepath.Base(path), ".") {
				if de.IsDir() {
					return godirwalk.SkipThis
				}
				return nil
			}
			if de.IsDir() || !IsImage(path) {
				return nil
			}
			if _, err := c.Add(path); err != nil {
				klog.Warningf("skipping %s: %v", path, err)
			}
			return nil
		},
	})
	if err != nil {
		return fmt.Errorf("walk %s: %w", c.base, err)
	}
	klog.Infof("found %d media files in %s", c.Len(), c.base)
	return nil
}

// Add registers path, returning the existing record if it is already known.
func (c *Catalog) Add(path string) (*Media, error) {
	if path == "" {
		return nil, errors.New("empty path")
	}
	rel := c.relPath(path)

	c.mu.Lock()
	defer c.mu.Unlock()

	if m, ok := c.byPath[rel]; ok {
		return m, nil
	}

	m := &Media{
		Handle: fmt.Sprintf("M%04d", len(c.media)+1),
		Path:   rel,
	}
	if fi, err := os.Stat(c.resolve(rel)); err == nil {
		m.ModTime = fi.ModTime()
	}

	c.media = append(c.media, m)
	c.byHandle[m.Handle] = m
	c.byPath[rel] = m
	klog.V(1).Infof("added %s: %s", m.Handle, rel)
	return m, nil
}

// Find returns the record for a file path.
func (c *Catalog) Find(path string) (*Media, bool) {
	rel := c.relPath(path)

	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.byPath[rel]
	return m, ok
}

// relPath returns path relative to the base directory when it lies below it.
func (c *Catalog) relPath(path string) string {
	if r, err := filepath.Rel(c.base, path); err == nil && !strings.HasPrefix(r, "..") {
		return r
	}
	return filepath.Clean(path)
}

// Lookup returns the record for a handle.
func (c *Catalog) Lookup(handle string) (*Media, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.byHandle[handle]
	return m, ok
}

// Media returns all records in registration order.
func (c *Catalog) Media() []*Media {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*Media(nil), c.media...)
}

// Len returns the number of records.
func (c *Catalog) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.media)
}

// Path returns the full path of a handle, resolving relative paths against the base directory.
func (c *Catalog) Path(handle string) (string, error) {
	m, ok := c.Lookup(handle)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownMedia, handle)
	}
	return c.resolve(m.Path), nil
}

func (c *Catalog) resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.base, p)
}

// Select makes handle the active record and notifies listeners.
func (c *Catalog) Select(handle string) error {
	c.mu.Lock()
	if _, ok := c.byHandle[handle]; !ok {
		c.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownMedia, handle)
	}
	c.active = handle
	ls := append([]func(){}, c.listeners...)
	c.mu.Unlock()

	for _, l := range ls {
		l()
	}
	return nil
}

// Active returns the active handle.
func (c *Catalog) Active() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active, c.active != ""
}

// OnChange registers fn to be called whenever the selection changes.
func (c *Catalog) OnChange(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// Notify calls the listeners without changing the selection.
func (c *Catalog) Notify() {
	c.mu.Lock()
	ls := append([]func(){}, c.listeners...)
	c.mu.Unlock()

	for _, l := range ls {
		l()
	}
}

// SetHasData records whether the active record rendered any metadata.
func (c *Catalog) SetHasData(b bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hasData = b
}

// HasData returns the value last passed to SetHasData.
func (c *Catalog) HasData() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hasData
}
