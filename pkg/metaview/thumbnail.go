package metaview

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/anthonynsimon/bild/transform"
	"k8s.io/klog/v2"
)

// ThumbOpts are thumbnail options. A zero X or Y keeps the aspect ratio.
type ThumbOpts struct {
	X       int
	Y       int
	Quality int
}

// DefaultThumbOpts is used when a Config has no thumbnail settings.
var DefaultThumbOpts = ThumbOpts{Y: 400, Quality: 85}

// thumbnail writes a resized JPEG of path into outDir.
func thumbnail(path string, outDir string, t ThumbOpts) (*ThumbMeta, error) {
	if t.X == 0 && t.Y == 0 {
		t = DefaultThumbOpts
	}
	if t.Quality == 0 {
		t.Quality = DefaultThumbOpts.Quality
	}

	i, err := imgio.Open(path)
	if err != nil {
		return nil, fmt.Errorf("imgio.Open: %w", err)
	}

	b := i.Bounds()
	if b.Dy() == 0 {
		return nil, fmt.Errorf("no Y for %s", path)
	}
	if b.Dx() == 0 {
		return nil, fmt.Errorf("no X for %s", path)
	}

	x, y := t.X, t.Y
	if t.X == 0 {
		scale := float64(b.Dy()) / float64(t.Y)
		x = int(float64(b.Dx()) / scale)
	}
	if t.Y == 0 {
		scale := float64(b.Dx()) / float64(t.X)
		y = int(float64(b.Dy()) / scale)
	}

	relPath := thumbRelPath(path, t)
	full := filepath.Join(outDir, relPath)
	klog.V(1).Infof("creating %dx%d thumb: %s - %+v", x, y, full, b)

	rimg := transform.Resize(i, x, y, transform.Lanczos)
	if err := imgio.Save(full, rimg, imgio.JPEGEncoder(t.Quality)); err != nil {
		return nil, fmt.Errorf("save: %w", err)
	}

	return &ThumbMeta{X: rimg.Bounds().Dx(), Y: rimg.Bounds().Dy(), RelPath: relPath, Path: full}, nil
}

// thumbRelPath returns the file name of a thumbnail, encoding its dimensions.
func thumbRelPath(path string, t ThumbOpts) string {
	base := filepath.Base(path)
	noExt := strings.TrimSuffix(base, filepath.Ext(base))

	dimensions := ""
	if t.X != 0 {
		dimensions = fmt.Sprintf("x%d", t.X)
	}
	if t.Y != 0 {
		dimensions = fmt.Sprintf("y%d", t.Y)
	}
	return urlSafePath(fmt.Sprintf("%s@%s.jpg", noExt, dimensions))
}

// urlSafePath replaces characters that need escaping in URLs.
func urlSafePath(p string) string {
	return strings.NewReplacer(" ", "_", "#", "_", "?", "_", "%", "_", "&", "_").Replace(p)
}
